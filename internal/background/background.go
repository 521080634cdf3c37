package background

import (
	"errors"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/scenes"
)

// ErrNoUsableBackground is returned when the assembler cannot cover the
// requested duration from the material it was given. It is fatal for
// the render job; a silent black screen is never an acceptable output.
var ErrNoUsableBackground = errors.New("no usable background material")

// Clip is one raw footage file in the source pool.
type Clip struct {
	Path     string
	Duration float64 // seconds, probed up front
}

// Segment is one slice cut from a source clip. The renderer plays
// segments back to back and trims the concatenation to the exact
// target duration.
type Segment struct {
	Path   string
	Offset float64 // seconds into the source clip
	Length float64 // seconds
}

// Source describes where the background track comes from. Exactly one
// of the three variants is used per render job; the compositor and
// renderer switch on the concrete type instead of mode booleans.
type Source interface {
	backgroundSource()
}

// LoopedSingle repeats one clip end to end until the narration is
// covered, then trims.
type LoopedSingle struct {
	Clip Clip
}

// MultiSegment stitches random slices from a pool of clips.
type MultiSegment struct {
	Pool []Clip
}

// AnimatedScenes renders Ken Burns moves over generated scene images
// instead of playing footage.
type AnimatedScenes struct {
	Scenes []scenes.Scene
}

func (LoopedSingle) backgroundSource()   {}
func (MultiSegment) backgroundSource()   {}
func (AnimatedScenes) backgroundSource() {}
