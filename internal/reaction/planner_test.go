package reaction

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/story"
)

type stubGenerator struct {
	response string
	err      error
}

func (s *stubGenerator) GenerateText(_ context.Context, _ string, _ float64, _ int) (string, error) {
	return s.response, s.err
}

func writeLibrary(t *testing.T, emotions ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, e := range emotions {
		folder := filepath.Join(dir, e)
		if err := os.MkdirAll(folder, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(folder, "clip.mp4"), make([]byte, 600), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func testBeats() []story.Beat {
	return []story.Beat{
		{Text: "My roommate sold my couch while I was away.", Start: 0, End: 5},
		{Text: "I was furious and confronted him.", Start: 5, End: 10},
	}
}

func TestNormalizeQuery(t *testing.T) {
	cases := []struct{ in, want string }{
		{"real dog shocked jaw drop", "real dog shocked jaw drop"},
		{"dog angry barking", "real dog angry barking"},
		{"Confused Head Tilt", "real dog confused head tilt"},
		{"  DOG sad crying  ", "real dog sad crying"},
	}
	for _, c := range cases {
		if got := normalizeQuery(c.in); got != c.want {
			t.Errorf("normalizeQuery(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCacheKeySanitizes(t *testing.T) {
	if got := cacheKey("Real Dog: Shocked!?"); got != "real_dog_shocked" {
		t.Errorf("cacheKey = %q", got)
	}
}

func TestPlanUsesModelQueries(t *testing.T) {
	gen := &stubGenerator{response: `Here you go: ["dog shocked jaw drop", "dog angry barking"]`}
	lib := writeLibrary(t, "shocked", "angry")
	p := NewPlanner(gen, nil, lib, rand.New(rand.NewSource(1)))

	track := p.Plan(context.Background(), "He sold my couch. I was furious.", testBeats())
	if len(track) != 2 {
		t.Fatalf("got %d reactions, want 2", len(track))
	}
	for i, r := range track {
		if r.Start != testBeats()[i].Start || r.End != testBeats()[i].End {
			t.Errorf("reaction %d spans [%f, %f], want beat interval", i, r.Start, r.End)
		}
		if r.Content == "" {
			t.Errorf("reaction %d has no clip", i)
		}
	}
}

func TestPlanFallsBackOnGeneratorError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("connection refused")}
	lib := writeLibrary(t, "shocked", "angry")
	p := NewPlanner(gen, nil, lib, rand.New(rand.NewSource(1)))

	track := p.Plan(context.Background(), "I was furious and confronted him.", testBeats())
	if len(track) != 2 {
		t.Fatalf("got %d reactions, want 2", len(track))
	}
}

func TestPlanSkipsBeatsWithoutClips(t *testing.T) {
	p := NewPlanner(nil, nil, t.TempDir(), rand.New(rand.NewSource(1)))
	track := p.Plan(context.Background(), "Nothing here.", testBeats())
	if track != nil {
		t.Errorf("empty library should yield an empty track, got %v", track)
	}
}

func TestBeatQueriesKeywordFallback(t *testing.T) {
	p := NewPlanner(nil, nil, "", rand.New(rand.NewSource(1)))
	queries := p.beatQueries(context.Background(), "I was furious.", testBeats())
	if len(queries) != 2 {
		t.Fatalf("got %d queries", len(queries))
	}
	if queries[1] != defaultQueries[story.Angry] {
		t.Errorf("angry beat got query %q", queries[1])
	}
}

func TestLibraryClipFallsBackToShocked(t *testing.T) {
	lib := writeLibrary(t, "shocked")
	p := NewPlanner(nil, nil, lib, rand.New(rand.NewSource(1)))

	clip := p.libraryClip(story.Sad)
	if clip == "" {
		t.Fatal("expected the shocked folder to back an empty sad folder")
	}
	if filepath.Base(filepath.Dir(clip)) != "shocked" {
		t.Errorf("clip came from %s, want shocked folder", clip)
	}
}
