package timing

import (
	"math/rand"
	"strings"
)

// Estimator guesses per-word timings when the TTS engine gave us no
// WordBoundary events. The constants are tuned for Edge TTS neural
// voices (~2.2 words per second); they only need to be plausible,
// because every estimate is rescaled to the measured audio length.
type Estimator struct {
	Rate float64    // baseline speaking rate in words per second
	Rand *rand.Rand // jitter source, injected so tests stay deterministic
}

// DefaultRate matches the measured pace of en-US-JennyNeural.
const DefaultRate = 2.2

const (
	minWordDuration = 0.3  // floor per word, seconds
	sentencePause   = 0.3  // pause after . ! ?
	clausePause     = 0.15 // pause after , ; :
)

// NewEstimator returns an Estimator with the default speaking rate.
func NewEstimator(rng *rand.Rand) *Estimator {
	return &Estimator{Rate: DefaultRate, Rand: rng}
}

// WordTimings estimates a timing per word and rescales the whole
// sequence so the final word ends exactly at audioDuration.
func (e *Estimator) WordTimings(text string, audioDuration float64) []WordTiming {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	rate := e.Rate
	if rate <= 0 {
		rate = DefaultRate
	}

	timings := make([]WordTiming, 0, len(words))
	current := 0.0

	for _, word := range words {
		// Longer words take longer to say.
		lengthFactor := float64(len(word)) / 6.0
		if lengthFactor < 0.4 {
			lengthFactor = 0.4
		}

		dur := lengthFactor / rate
		if dur < minWordDuration {
			dur = minWordDuration
		}
		dur += trailingPause(word)

		// ±10% jitter so the estimate doesn't sound metronomic.
		if e.Rand != nil {
			dur *= 0.9 + e.Rand.Float64()*0.2
		}

		timings = append(timings, WordTiming{Word: word, Start: current, Duration: dur})
		current += dur
	}

	if current <= 0 {
		// Degenerate estimate: spread the words uniformly instead of
		// dividing by zero.
		per := audioDuration / float64(len(words))
		for i := range timings {
			timings[i].Start = float64(i) * per
			timings[i].Duration = per
		}
		return timings
	}

	// Rescale so the sequence covers the measured audio exactly.
	scale := audioDuration / current
	for i := range timings {
		timings[i].Start *= scale
		timings[i].Duration *= scale
	}

	return timings
}

func trailingPause(word string) float64 {
	if word == "" {
		return 0
	}
	switch word[len(word)-1] {
	case '.', '!', '?':
		return sentencePause
	case ',', ';', ':':
		return clausePause
	}
	return 0
}
