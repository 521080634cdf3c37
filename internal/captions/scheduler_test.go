package captions

import (
	"math"
	"testing"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/timing"
)

const framePeriod = 1.0 / 24.0

func TestScheduleNoOverlap(t *testing.T) {
	// Timings where word "a" overruns "b", straight from an Edge TTS
	// capture that used to put two captions on screen at once.
	words := []timing.WordTiming{
		{Word: "a", Start: 0.0, Duration: 0.4},
		{Word: "b", Start: 0.3, Duration: 0.4},
		{Word: "c", Start: 0.9, Duration: 0.5},
	}

	intervals := Schedule(words, framePeriod, 0)
	if len(intervals) != 3 {
		t.Fatalf("expected 3 intervals, got %d", len(intervals))
	}

	for i := 0; i < len(intervals)-1; i++ {
		if intervals[i].End > intervals[i+1].Start {
			t.Errorf("intervals %d and %d overlap: %f > %f",
				i, i+1, intervals[i].End, intervals[i+1].Start)
		}
	}

	// Last word keeps its own duration.
	if math.Abs(intervals[2].End-1.4) > 1e-9 {
		t.Errorf("last interval end = %f, want 1.4", intervals[2].End)
	}
}

func TestScheduleMinimumDuration(t *testing.T) {
	// "b" starts so close behind "a" that the raw gap is under a frame.
	words := []timing.WordTiming{
		{Word: "a", Start: 0.0, Duration: 0.05},
		{Word: "b", Start: 0.1, Duration: 0.3},
	}

	for _, iv := range Schedule(words, framePeriod, 0) {
		if iv.Duration() < framePeriod-1e-9 {
			t.Errorf("interval %q shorter than one frame: %f", iv.Text, iv.Duration())
		}
	}
}

func TestScheduleDelayShiftsEverything(t *testing.T) {
	words := []timing.WordTiming{
		{Word: "a", Start: 0.0, Duration: 0.4},
		{Word: "b", Start: 0.5, Duration: 0.4},
	}

	const delay = 4.5
	plain := Schedule(words, framePeriod, 0)
	delayed := Schedule(words, framePeriod, delay)

	for i := range plain {
		if math.Abs(delayed[i].Start-plain[i].Start-delay) > 1e-9 {
			t.Errorf("interval %d start not shifted by delay", i)
		}
		if math.Abs(delayed[i].End-plain[i].End-delay) > 1e-9 {
			t.Errorf("interval %d end not shifted by delay", i)
		}
	}

	if delayed[0].Start < delay {
		t.Errorf("first caption at %f, must not appear before the header clears at %f",
			delayed[0].Start, delay)
	}
}

func TestScheduleDegenerate(t *testing.T) {
	if got := Schedule(nil, framePeriod, 0); got != nil {
		t.Errorf("no words should mean no intervals, got %v", got)
	}

	one := Schedule([]timing.WordTiming{{Word: "only", Start: 0.2, Duration: 0.6}}, framePeriod, 0)
	if len(one) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(one))
	}
	if math.Abs(one[0].Start-0.2) > 1e-9 || math.Abs(one[0].End-0.8) > 1e-9 {
		t.Errorf("single word interval = %+v, want [0.2, 0.8]", one[0])
	}
}

func TestScheduleIdempotent(t *testing.T) {
	words := []timing.WordTiming{
		{Word: "x", Start: 0.0, Duration: 0.3},
		{Word: "y", Start: 0.4, Duration: 0.3},
		{Word: "z", Start: 0.8, Duration: 0.3},
	}

	a := Schedule(words, framePeriod, 0)
	b := Schedule(words, framePeriod, 0)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("scheduling is not deterministic at %d: %v vs %v", i, a[i], b[i])
		}
	}
}
