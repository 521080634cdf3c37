package tts

import (
	"math"
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:00,050 --> 00:00:00,387
My

2
00:00:00,387 --> 00:00:00,825
roommate

3
00:00:00,825 --> 00:00:01,300
sold
`

func TestParseCuesSingleWordPerCue(t *testing.T) {
	words, err := parseCues(strings.NewReader(sampleSRT))
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 3 {
		t.Fatalf("got %d words, want 3", len(words))
	}
	if words[0].Word != "My" || words[1].Word != "roommate" || words[2].Word != "sold" {
		t.Errorf("unexpected words: %+v", words)
	}
	if math.Abs(words[0].Start-0.05) > 1e-9 {
		t.Errorf("first word starts at %f, want 0.05", words[0].Start)
	}
	if math.Abs(words[1].End()-0.825) > 1e-9 {
		t.Errorf("second word ends at %f, want 0.825", words[1].End())
	}
}

func TestParseCuesSplitsMultiWordCues(t *testing.T) {
	srt := `1
00:00:00,000 --> 00:00:01,000
two words
`
	words, err := parseCues(strings.NewReader(srt))
	if err != nil {
		t.Fatal(err)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words, want 2", len(words))
	}
	if math.Abs(words[0].Duration-0.5) > 1e-9 || math.Abs(words[1].Start-0.5) > 1e-9 {
		t.Errorf("cue not split evenly: %+v", words)
	}
}

func TestParseCuesRejectsEmptyTrack(t *testing.T) {
	if _, err := parseCues(strings.NewReader("")); err == nil {
		t.Error("empty subtitle stream should be an error")
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"00:00:00,050", 0.05},
		{"00:01:02,500", 62.5},
		{"01:00:00,000", 3600},
		{"00:00:05.250", 5.25}, // dot variant some writers emit
	}
	for _, c := range cases {
		got, err := parseTimestamp(c.in)
		if err != nil {
			t.Errorf("%s: %v", c.in, err)
			continue
		}
		if math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s = %f, want %f", c.in, got, c.want)
		}
	}
}

func TestNewSynthesizerDefaultVoice(t *testing.T) {
	s := NewSynthesizer("")
	if s.Voice != defaultVoice {
		t.Errorf("voice = %q, want %q", s.Voice, defaultVoice)
	}
}
