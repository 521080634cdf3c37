package compositor

import (
	"math"
	"testing"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/captions"
)

func testInputs() (*Header, []captions.Interval, []Reaction) {
	hdr := &Header{Content: "header.png", Duration: 4.5, Position: Position{Y: 20, Centered: true}}
	caps := []captions.Interval{
		{Text: "first", Start: 0.0, End: 0.5},
		{Text: "second", Start: 0.55, End: 1.1},
	}
	reactions := []Reaction{{Content: "dog.mp4", Start: 0.0, End: 30.0}}
	return hdr, caps, reactions
}

func TestAssembleSequentialDelaysNarration(t *testing.T) {
	c := &Compositor{Mode: Sequential, CaptionPos: Position{Y: 900, Centered: true}}
	hdr, caps, reactions := testInputs()

	tl := c.Assemble("bg.mp4", 30.0, hdr, caps, reactions)

	if math.Abs(tl.AudioOffset-4.5) > 1e-9 {
		t.Errorf("audio offset = %f, want header duration 4.5", tl.AudioOffset)
	}
	if math.Abs(tl.TotalDuration-34.5) > 1e-9 {
		t.Errorf("total duration = %f, want 34.5", tl.TotalDuration)
	}

	var firstCaption *Element
	for i := range tl.Elements {
		if tl.Elements[i].Kind == KindCaption {
			firstCaption = &tl.Elements[i]
			break
		}
	}
	if firstCaption == nil {
		t.Fatal("no caption element assembled")
	}
	if firstCaption.Start < hdr.Duration {
		t.Errorf("caption starts at %f, before the header clears at %f",
			firstCaption.Start, hdr.Duration)
	}
	if math.Abs(firstCaption.Start-tl.AudioOffset) > 1e-9 {
		t.Errorf("first caption (%f) and audio offset (%f) disagree",
			firstCaption.Start, tl.AudioOffset)
	}
}

func TestAssembleSimultaneousKeepsZeroOffset(t *testing.T) {
	c := &Compositor{Mode: Simultaneous}
	hdr, caps, reactions := testInputs()

	tl := c.Assemble("bg.mp4", 30.0, hdr, caps, reactions)

	if tl.AudioOffset != 0 {
		t.Errorf("audio offset = %f, want 0 in simultaneous mode", tl.AudioOffset)
	}
	if math.Abs(tl.TotalDuration-30.0) > 1e-9 {
		t.Errorf("total duration = %f, want 30", tl.TotalDuration)
	}

	for _, el := range tl.Elements {
		if el.Kind == KindCaption && el.Start != caps[0].Start && el.Start != caps[1].Start {
			t.Errorf("caption shifted in simultaneous mode: %f", el.Start)
		}
	}
}

func TestAssembleBackgroundCoversEverything(t *testing.T) {
	c := &Compositor{Mode: Sequential}
	hdr, caps, reactions := testInputs()

	tl := c.Assemble("bg.mp4", 30.0, hdr, caps, reactions)

	bg := tl.Elements[0]
	if bg.Kind != KindBackground {
		t.Fatalf("first element is %s, want background at the bottom of the stack", bg.Kind)
	}
	if bg.Start != 0 || math.Abs(bg.End-tl.TotalDuration) > 1e-9 {
		t.Errorf("background spans [%f, %f], want [0, %f]", bg.Start, bg.End, tl.TotalDuration)
	}

	for _, el := range tl.Elements {
		if el.Start < 0 || el.End > tl.TotalDuration+1e-9 {
			t.Errorf("%s element [%f, %f] escapes the timeline", el.Kind, el.Start, el.End)
		}
	}
}

func TestAssembleWithoutHeader(t *testing.T) {
	c := &Compositor{Mode: Sequential}
	_, caps, _ := testInputs()

	tl := c.Assemble("bg.mp4", 30.0, nil, caps, nil)

	if tl.AudioOffset != 0 {
		t.Errorf("no header should mean no delay, got %f", tl.AudioOffset)
	}
	for _, el := range tl.Elements {
		if el.Kind == KindHeader {
			t.Error("header element assembled without a header spec")
		}
	}
}
