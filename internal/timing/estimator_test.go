package timing

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

func TestEstimatorRescalesToAudioDuration(t *testing.T) {
	est := NewEstimator(rand.New(rand.NewSource(1)))

	tests := []struct {
		text     string
		duration float64
	}{
		{"Hi there.", 2.0},
		{"My roommate ate my leftovers again, so I hid the fridge key.", 18.5},
		{"One", 0.7},
	}

	for _, tt := range tests {
		timings := est.WordTimings(tt.text, tt.duration)
		if len(timings) != len(strings.Fields(tt.text)) {
			t.Fatalf("expected %d timings, got %d", len(strings.Fields(tt.text)), len(timings))
		}

		last := timings[len(timings)-1]
		if math.Abs(last.End()-tt.duration) > 1e-6 {
			t.Errorf("%q: last word ends at %f, want %f", tt.text, last.End(), tt.duration)
		}

		for i := 1; i < len(timings); i++ {
			if timings[i].Start < timings[i-1].Start {
				t.Errorf("%q: starts not non-decreasing at %d", tt.text, i)
			}
		}
	}
}

func TestEstimatorEmptyText(t *testing.T) {
	est := NewEstimator(rand.New(rand.NewSource(1)))

	if got := est.WordTimings("", 5.0); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
	if got := est.WordTimings("   ", 5.0); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
}

func TestEstimatorPunctuationPauses(t *testing.T) {
	// No jitter source: durations are deterministic, so a word ending a
	// sentence must take longer than the same word bare.
	est := &Estimator{Rate: DefaultRate}

	bare := est.WordTimings("stop stop", 10.0)
	punct := est.WordTimings("stop. stop", 10.0)

	// Both sequences rescale to 10s, so the sentence-ending word should
	// hold a larger share of the total.
	if punct[0].Duration <= bare[0].Duration {
		t.Errorf("sentence-ending word share %f, want > %f", punct[0].Duration, bare[0].Duration)
	}
}

func TestEstimatorDeterministicWithSeed(t *testing.T) {
	a := NewEstimator(rand.New(rand.NewSource(42))).WordTimings("the quick brown fox", 4.0)
	b := NewEstimator(rand.New(rand.NewSource(42))).WordTimings("the quick brown fox", 4.0)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seed produced different timings at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGroundTruthPassthrough(t *testing.T) {
	events := []WordTiming{
		{Word: "a", Start: 0.0, Duration: 0.4},
		{Word: "b", Start: 0.3, Duration: 0.4},
	}
	src := &GroundTruth{Events: events}

	got := src.WordTimings("a b", 1.0)
	if len(got) != 2 || got[0] != events[0] || got[1] != events[1] {
		t.Errorf("ground truth should hand events out untouched, got %v", got)
	}
}
