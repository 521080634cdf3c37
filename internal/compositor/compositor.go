package compositor

import (
	"github.com/Jacktheone617/reddit-story-video-generator/internal/captions"
)

// Kind identifies what an overlay element is, so the renderer knows
// how to draw it.
type Kind string

const (
	KindBackground Kind = "background"
	KindHeader     Kind = "header"
	KindCaption    Kind = "caption"
	KindReaction   Kind = "reaction"
)

// Position anchors an element on the output frame. Y is absolute
// pixels from the top; X is ignored while Centered is set.
type Position struct {
	X        int
	Y        int
	Centered bool
}

// Element is one entry on the shared timeline: something to show, when
// to show it, and where. The assembled list is ordered bottom-to-top
// for the renderer and never mutated afterwards.
type Element struct {
	Kind     Kind
	Content  string // media path for background/header/reaction, text for captions
	Start    float64
	End      float64
	Position Position
}

// DelayMode selects how the header and the narration relate in time.
type DelayMode int

const (
	// Sequential plays the header alone first; captions and audio
	// start once it has vacated the screen.
	Sequential DelayMode = iota
	// Simultaneous overlays the header on top of already-running
	// captions and audio.
	Simultaneous
)

// Header describes the simulated social-post card.
type Header struct {
	Content  string
	Duration float64
	Position Position
}

// Reaction is one reaction-overlay interval, relative to the start of
// narration.
type Reaction struct {
	Content string
	Start   float64
	End     float64
}

// Compositor merges the independently-timed tracks onto one shared
// clock. It is pure scheduling; no pixels are touched here.
type Compositor struct {
	Mode        DelayMode
	CaptionPos  Position
	ReactionPos Position
}

// Timeline is the compositor's output: the ordered element list plus
// the offset at which the narration audio must start so that spoken
// word and caption stay frame-aligned.
type Timeline struct {
	Elements      []Element
	AudioOffset   float64
	TotalDuration float64
}

// Assemble builds the shared timeline. Caption and reaction intervals
// are given relative to the narration (undelayed); the compositor
// applies the caption delay in exactly one place so the consistency
// between caption track, reaction track and audio offset cannot drift.
func (c *Compositor) Assemble(backgroundRef string, narrationDuration float64, hdr *Header, caps []captions.Interval, reactions []Reaction) Timeline {
	delay := 0.0
	if hdr != nil && c.Mode == Sequential {
		delay = hdr.Duration
	}

	total := narrationDuration + delay

	elements := []Element{{
		Kind:    KindBackground,
		Content: backgroundRef,
		Start:   0,
		End:     total,
	}}

	if hdr != nil {
		elements = append(elements, Element{
			Kind:     KindHeader,
			Content:  hdr.Content,
			Start:    0,
			End:      hdr.Duration,
			Position: hdr.Position,
		})
	}

	for _, iv := range caps {
		elements = append(elements, Element{
			Kind:     KindCaption,
			Content:  iv.Text,
			Start:    iv.Start + delay,
			End:      iv.End + delay,
			Position: c.CaptionPos,
		})
	}

	for _, r := range reactions {
		elements = append(elements, Element{
			Kind:     KindReaction,
			Content:  r.Content,
			Start:    r.Start + delay,
			End:      r.End + delay,
			Position: c.ReactionPos,
		})
	}

	return Timeline{
		Elements:      elements,
		AudioOffset:   delay,
		TotalDuration: total,
	}
}
