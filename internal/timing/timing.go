package timing

// WordTiming locates one spoken word within the narration audio.
// Start values are non-decreasing, but Start+Duration of one word may
// butt up against (or slightly overrun) the next word's Start; the
// caption scheduler is responsible for resolving that.
type WordTiming struct {
	Word     string  `yaml:"word"`
	Start    float64 `yaml:"start"`    // seconds from audio start
	Duration float64 `yaml:"duration"` // seconds
}

// End returns the moment the word finishes.
func (w WordTiming) End() float64 {
	return w.Start + w.Duration
}

// Source produces word-level timings for a narration text whose audio
// is known to last audioDuration seconds. An empty text yields an empty
// slice, which callers treat as "no caption track", never as an error.
type Source interface {
	WordTimings(text string, audioDuration float64) []WordTiming
}

// GroundTruth wraps WordBoundary events already captured from a TTS
// engine. No transformation happens beyond handing the events out.
type GroundTruth struct {
	Events []WordTiming
}

// WordTimings returns the captured events as-is.
func (g *GroundTruth) WordTimings(text string, audioDuration float64) []WordTiming {
	return g.Events
}
