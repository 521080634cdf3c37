// Package store remembers which posts have already been turned into
// videos, so reruns pick fresh stories.
package store

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Record is one processed post.
type Record struct {
	PostID      string    `yaml:"post_id"`
	JobID       string    `yaml:"job_id"`
	Title       string    `yaml:"title"`
	OutputPath  string    `yaml:"output_path,omitempty"`
	ProcessedAt time.Time `yaml:"processed_at"`
}

type state struct {
	Processed []Record `yaml:"processed"`
}

// Store is a YAML-file-backed processed-post ledger. It is loaded once
// at startup and rewritten whole on every change; the file stays small
// and human-editable.
type Store struct {
	path string
	st   state
	byID map[string]int
}

// Open loads the ledger at path, starting empty when the file does not
// exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path, byID: make(map[string]int)}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.st); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	for i, r := range s.st.Processed {
		s.byID[r.PostID] = i
	}
	return s, nil
}

// Seen reports whether a post was already processed.
func (s *Store) Seen(postID string) bool {
	_, ok := s.byID[postID]
	return ok
}

// NewJobID mints an identifier for one pipeline run over one post.
func NewJobID() string {
	return uuid.NewString()
}

// MarkProcessed records a finished post and persists immediately.
func (s *Store) MarkProcessed(postID, jobID, title, outputPath string) error {
	if i, ok := s.byID[postID]; ok {
		s.st.Processed[i].OutputPath = outputPath
		s.st.Processed[i].ProcessedAt = time.Now().UTC()
		return s.save()
	}
	s.byID[postID] = len(s.st.Processed)
	s.st.Processed = append(s.st.Processed, Record{
		PostID:      postID,
		JobID:       jobID,
		Title:       title,
		OutputPath:  outputPath,
		ProcessedAt: time.Now().UTC(),
	})
	return s.save()
}

// Records returns the ledger sorted newest first.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.st.Processed))
	copy(out, s.st.Processed)
	sort.Slice(out, func(i, j int) bool {
		return out[i].ProcessedAt.After(out[j].ProcessedAt)
	})
	return out
}

func (s *Store) save() error {
	data, err := yaml.Marshal(&s.st)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, s.path)
}
