package captions

import (
	"github.com/Jacktheone617/reddit-story-video-generator/internal/timing"
)

// Interval is one word's on-screen lifetime. Derived 1:1 from a
// WordTiming, with End pulled back so adjacent captions never render on
// the same frame.
type Interval struct {
	Text  string
	Start float64 // seconds on the shared timeline
	End   float64
}

// Duration returns the interval's on-screen length.
func (iv Interval) Duration() float64 {
	return iv.End - iv.Start
}

// Schedule turns word timings into non-overlapping display intervals.
//
// Each word appears at its (delayed) start and disappears one frame
// period before the next word appears. TTS boundary events routinely
// report durations that butt up against, or slightly overrun, the next
// word's start; trusting them would put two captions on screen at once.
// The forward-looking rule makes overlap impossible regardless of how
// sloppy the source timings are. The last word keeps its own duration,
// and no interval is ever shorter than one frame period.
func Schedule(words []timing.WordTiming, framePeriod, delay float64) []Interval {
	if len(words) == 0 {
		return nil
	}

	intervals := make([]Interval, 0, len(words))
	for i, w := range words {
		start := w.Start + delay

		var end float64
		if i < len(words)-1 {
			end = words[i+1].Start + delay - framePeriod
		} else {
			end = w.End() + delay
		}

		if end-start < framePeriod {
			end = start + framePeriod
		}

		intervals = append(intervals, Interval{Text: w.Word, Start: start, End: end})
	}

	return intervals
}
