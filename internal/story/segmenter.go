package story

import (
	"regexp"
	"strings"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/timing"
)

// Beat is a sentence-level slice of the narration with its time range.
// Beats cue the reaction overlay and feed scene-boundary mapping; each
// one carries a single emotional tag.
type Beat struct {
	Text  string
	Start float64
	End   float64
}

// Duration returns the beat's length in seconds.
func (b Beat) Duration() float64 {
	return b.End - b.Start
}

var sentenceEnd = regexp.MustCompile(`(?s)(.*?[.!?])(?:\s+|$)`)

// splitSentences breaks text on sentence-ending punctuation. A trailing
// fragment without terminal punctuation still becomes a sentence.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	rest := text
	for {
		loc := sentenceEnd.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		s := strings.TrimSpace(rest[loc[2]:loc[3]])
		if s != "" {
			sentences = append(sentences, s)
		}
		rest = rest[loc[1]:]
	}
	if tail := strings.TrimSpace(rest); tail != "" {
		sentences = append(sentences, tail)
	}
	if len(sentences) == 0 {
		sentences = []string{text}
	}
	return sentences
}

// Segment splits the narration into beats aligned to word timings.
//
// Each sentence consumes as many leading word timings as it has words.
// A second pass merges each beat into its predecessor while the
// predecessor is still shorter than minBeatDuration, so every beat
// except possibly the first meets the minimum; the final beat absorbs
// whatever remains.
func Segment(text string, words []timing.WordTiming, minBeatDuration float64) []Beat {
	if len(words) == 0 {
		return nil
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var raw []Beat
	cursor := 0
	for _, sentence := range sentences {
		count := len(strings.Fields(sentence))
		if count == 0 {
			continue
		}

		first := cursor
		last := cursor + count - 1
		if last > len(words)-1 {
			last = len(words) - 1
		}

		raw = append(raw, Beat{
			Text:  sentence,
			Start: words[first].Start,
			End:   words[last].End(),
		})

		cursor = last + 1
		if cursor >= len(words) {
			break
		}
	}

	// Merge forward: while the previous beat is too short, it absorbs
	// the next one. Order is never changed.
	var merged []Beat
	for _, beat := range raw {
		if len(merged) > 0 && merged[len(merged)-1].Duration() < minBeatDuration {
			prev := &merged[len(merged)-1]
			prev.Text += " " + beat.Text
			prev.End = beat.End
		} else {
			merged = append(merged, beat)
		}
	}

	return merged
}
