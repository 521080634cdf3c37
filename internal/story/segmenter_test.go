package story

import (
	"math"
	"testing"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/timing"
)

// evenWords builds n word timings of dur seconds each, back to back.
func evenWords(words []string, dur float64) []timing.WordTiming {
	out := make([]timing.WordTiming, len(words))
	for i, w := range words {
		out[i] = timing.WordTiming{Word: w, Start: float64(i) * dur, Duration: dur}
	}
	return out
}

func TestSegmentAlignsSentencesToTimings(t *testing.T) {
	text := "I opened the door. Nobody was there."
	words := evenWords([]string{"I", "opened", "the", "door.", "Nobody", "was", "there."}, 0.5)

	beats := Segment(text, words, 0)
	if len(beats) != 2 {
		t.Fatalf("expected 2 beats, got %d", len(beats))
	}

	if beats[0].Start != 0 || math.Abs(beats[0].End-2.0) > 1e-9 {
		t.Errorf("first beat [%f, %f], want [0, 2]", beats[0].Start, beats[0].End)
	}
	if math.Abs(beats[1].Start-2.0) > 1e-9 || math.Abs(beats[1].End-3.5) > 1e-9 {
		t.Errorf("second beat [%f, %f], want [2, 3.5]", beats[1].Start, beats[1].End)
	}
}

func TestSegmentMergesShortBeats(t *testing.T) {
	text := "No. Way. That actually happened to me yesterday."
	words := evenWords([]string{"No.", "Way.", "That", "actually", "happened", "to", "me", "yesterday."}, 0.5)

	beats := Segment(text, words, 4.0)

	// "No." (0.5s) absorbs "Way.", still short, absorbs the rest.
	if len(beats) != 1 {
		t.Fatalf("expected 1 merged beat, got %d", len(beats))
	}
	if beats[0].Start != 0 || math.Abs(beats[0].End-4.0) > 1e-9 {
		t.Errorf("merged beat [%f, %f], want [0, 4]", beats[0].Start, beats[0].End)
	}
	if beats[0].Text != "No. Way. That actually happened to me yesterday." {
		t.Errorf("merged text = %q", beats[0].Text)
	}
}

func TestSegmentBeatsStayContiguous(t *testing.T) {
	text := "First sentence here today. Second one follows now. A third and final one arrives."
	words := evenWords([]string{
		"First", "sentence", "here", "today.",
		"Second", "one", "follows", "now.",
		"A", "third", "and", "final", "one", "arrives.",
	}, 0.6)

	beats := Segment(text, words, 2.0)
	for i := 1; i < len(beats); i++ {
		if beats[i].Start < beats[i-1].End-1e-9 {
			t.Errorf("beats %d and %d overlap", i-1, i)
		}
	}
	for i, b := range beats[1:] {
		if b.Duration() < 2.0-1e-9 {
			t.Errorf("beat %d shorter than minimum: %f", i+1, b.Duration())
		}
	}
}

func TestSegmentDegenerate(t *testing.T) {
	if got := Segment("", nil, 4.0); got != nil {
		t.Errorf("no timings should mean no beats, got %v", got)
	}
	if got := Segment("words without timings", nil, 4.0); got != nil {
		t.Errorf("expected nil beats, got %v", got)
	}
}

func TestDetectEmotion(t *testing.T) {
	tests := []struct {
		text string
		want Emotion
	}{
		{"He screamed at me in front of everyone", Angry},
		{"I cried for hours after that", Sad},
		{"Honestly it makes no sense to me", Confused},
		{"A completely neutral sentence", Shocked}, // default
	}
	for _, tt := range tests {
		if got := DetectEmotion(tt.text); got != tt.want {
			t.Errorf("DetectEmotion(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestTagBeatsInheritsPrevious(t *testing.T) {
	beats := []Beat{
		{Text: "He was furious with me."},
		{Text: "Then we drove home."},
		{Text: "I cried the whole way."},
	}
	tags := TagBeats("He was furious. I cried.", beats)

	want := []Emotion{Angry, Angry, Sad}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tag %d = %s, want %s", i, tags[i], want[i])
		}
	}
}
