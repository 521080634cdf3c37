package background

import (
	"fmt"
	"math/rand"
)

const (
	// Slice lengths for variety mode. Long enough that the footage
	// reads as continuous, short enough that it keeps changing.
	minSliceLen = 8.0
	maxSliceLen = 25.0

	// Clips shorter than this can't yield a worthwhile slice.
	minUsableClip = 4.0
)

// Assembler plans the background track. It is pure scheduling: the
// output is a segment list whose total length is exactly the target
// duration, which the renderer turns into pixels.
type Assembler struct {
	Rand *rand.Rand
}

// NewAssembler returns an Assembler drawing randomness from rng.
func NewAssembler(rng *rand.Rand) *Assembler {
	return &Assembler{Rand: rng}
}

// Plan builds the segment sequence for the given source variant.
// AnimatedScenes sources carry their own timeline and need no plan
// here; Plan returns nil for them.
func (a *Assembler) Plan(src Source, targetDuration float64) ([]Segment, error) {
	switch s := src.(type) {
	case LoopedSingle:
		return a.planLoop(s.Clip, targetDuration)
	case MultiSegment:
		return a.planVariety(s.Pool, targetDuration)
	case AnimatedScenes:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown background source %T", src)
	}
}

// planLoop repeats the clip whole until the target is exceeded, then
// trims the final repetition.
func (a *Assembler) planLoop(clip Clip, target float64) ([]Segment, error) {
	if clip.Duration <= 0 {
		return nil, fmt.Errorf("%w: %s has no duration", ErrNoUsableBackground, clip.Path)
	}

	var segments []Segment
	covered := 0.0
	for covered < target {
		length := clip.Duration
		if covered+length > target {
			length = target - covered
		}
		segments = append(segments, Segment{Path: clip.Path, Offset: 0, Length: length})
		covered += length
	}
	return segments, nil
}

// planVariety shuffles the pool and cuts random 8-25s slices, cycling
// (and re-shuffling) until the narration is covered. Clips too short to
// slice are skipped; if a whole pass over the pool contributes nothing,
// the pool is unusable and the job fails rather than spinning forever.
func (a *Assembler) planVariety(pool []Clip, target float64) ([]Segment, error) {
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: empty pool", ErrNoUsableBackground)
	}

	order := make([]Clip, len(pool))
	copy(order, pool)
	a.shuffle(order)

	var segments []Segment
	covered := 0.0
	cursor := 0
	sinceProgress := 0

	for target-covered > 1e-9 {
		if cursor >= len(order) {
			a.shuffle(order)
			cursor = 0
		}
		clip := order[cursor]
		cursor++

		if clip.Duration < minUsableClip {
			sinceProgress++
			if sinceProgress > len(order) {
				return nil, fmt.Errorf("%w: no clip in pool is long enough", ErrNoUsableBackground)
			}
			continue
		}

		need := target - covered
		length := minSliceLen + a.Rand.Float64()*(maxSliceLen-minSliceLen)
		if length > clip.Duration {
			length = clip.Duration
		}
		if length > need {
			length = need
		}

		maxOffset := clip.Duration - length
		offset := 0.0
		if maxOffset > 0 {
			offset = a.Rand.Float64() * maxOffset
		}

		segments = append(segments, Segment{Path: clip.Path, Offset: offset, Length: length})
		covered += length
		sinceProgress = 0
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: nothing to cut", ErrNoUsableBackground)
	}

	return segments, nil
}

func (a *Assembler) shuffle(clips []Clip) {
	a.Rand.Shuffle(len(clips), func(i, j int) {
		clips[i], clips[j] = clips[j], clips[i]
	})
}
