package store

import (
	"path/filepath"
	"testing"
)

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "state.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Seen("anything") {
		t.Error("fresh store should have seen nothing")
	}
}

func TestMarkProcessedPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.MarkProcessed("abc123", NewJobID(), "My story", "out/video.mp4"); err != nil {
		t.Fatal(err)
	}
	if !s.Seen("abc123") {
		t.Error("post not visible after marking")
	}

	// Reload from disk
	s2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if !s2.Seen("abc123") {
		t.Error("post lost across reload")
	}
	recs := s2.Records()
	if len(recs) != 1 || recs[0].Title != "My story" {
		t.Errorf("unexpected records: %+v", recs)
	}
}

func TestMarkProcessedUpdatesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	s, _ := Open(path)

	if err := s.MarkProcessed("abc", NewJobID(), "Story", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.MarkProcessed("abc", NewJobID(), "Story", "out/final.mp4"); err != nil {
		t.Fatal(err)
	}

	recs := s.Records()
	if len(recs) != 1 {
		t.Fatalf("duplicate record for one post: %d entries", len(recs))
	}
	if recs[0].OutputPath != "out/final.mp4" {
		t.Errorf("output path not updated: %q", recs[0].OutputPath)
	}
}

func TestNewJobIDUnique(t *testing.T) {
	if NewJobID() == NewJobID() {
		t.Error("job IDs should be unique")
	}
}
