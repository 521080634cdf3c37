// Package tts synthesizes the narration track and recovers per-word
// timings from the synthesizer's own word boundaries.
package tts

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/system"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/timing"
)

const defaultVoice = "en-US-JennyNeural"

// Synthesizer drives the edge-tts CLI. The tool streams word-boundary
// events from the service; asking it for one word per subtitle cue
// turns the subtitle file into an exact word-timing track.
type Synthesizer struct {
	Voice   string
	Retries int
}

// NewSynthesizer returns a synthesizer for the given voice, or the
// default TikTok-style voice when empty.
func NewSynthesizer(voice string) *Synthesizer {
	if voice == "" {
		voice = defaultVoice
	}
	return &Synthesizer{Voice: voice, Retries: 3}
}

// Synthesize renders text to audioPath and returns the measured audio
// duration plus the per-word timings. A nil timing slice means the
// boundaries could not be recovered and the caller should fall back to
// estimated timings; a non-nil slice is ground truth.
func (s *Synthesizer) Synthesize(ctx context.Context, text, audioPath string) (float64, []timing.WordTiming, error) {
	srtPath := strings.TrimSuffix(audioPath, ".mp3") + ".srt"

	var err error
	for attempt := 1; attempt <= s.Retries; attempt++ {
		err = s.run(ctx, text, audioPath, srtPath)
		if err == nil {
			break
		}
		log.Printf("[tts] attempt %d failed: %v", attempt, err)
		select {
		case <-ctx.Done():
			return 0, nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 2 * time.Second):
		}
	}
	if err != nil {
		return 0, nil, fmt.Errorf("edge-tts: %w", err)
	}

	duration, err := system.ProbeDuration(audioPath)
	if err != nil {
		return 0, nil, fmt.Errorf("measure narration: %w", err)
	}

	words, err := readWordTimings(srtPath)
	if err != nil {
		// Audio is fine, only the boundary track is gone. Degrade to
		// estimated timings rather than failing the job.
		log.Printf("[tts] word boundaries unavailable: %v", err)
		return duration, nil, nil
	}
	log.Printf("[tts] captured %d word boundaries (%.1fs audio)", len(words), duration)
	return duration, words, nil
}

func (s *Synthesizer) run(ctx context.Context, text, audioPath, srtPath string) error {
	cmd := exec.CommandContext(ctx, "edge-tts",
		"--voice", s.Voice,
		"--text", text,
		"--write-media", audioPath,
		"--write-subtitles", srtPath,
		"--words-in-cue", "1",
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func readWordTimings(srtPath string) ([]timing.WordTiming, error) {
	f, err := os.Open(srtPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCues(f)
}

// parseCues reads an SRT stream where every cue holds a single word and
// converts it to word timings. Multi-word cue text is split so a cue
// covering several words still yields one timing per word.
func parseCues(r io.Reader) ([]timing.WordTiming, error) {
	var words []timing.WordTiming

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.Contains(line, "-->") {
			continue
		}

		parts := strings.SplitN(line, "-->", 2)
		start, err := parseTimestamp(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("bad cue start %q: %w", line, err)
		}
		end, err := parseTimestamp(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("bad cue end %q: %w", line, err)
		}

		var text strings.Builder
		for scanner.Scan() {
			t := strings.TrimSpace(scanner.Text())
			if t == "" {
				break
			}
			if text.Len() > 0 {
				text.WriteByte(' ')
			}
			text.WriteString(t)
		}

		cueWords := strings.Fields(text.String())
		if len(cueWords) == 0 {
			continue
		}
		per := (end - start) / float64(len(cueWords))
		for i, w := range cueWords {
			words = append(words, timing.WordTiming{
				Word:     w,
				Start:    start + float64(i)*per,
				Duration: per,
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("no cues in subtitle file")
	}
	return words, nil
}

// parseTimestamp reads an SRT timestamp (HH:MM:SS,mmm) into seconds.
func parseTimestamp(ts string) (float64, error) {
	var h, m, sec, ms int
	ts = strings.Replace(ts, ".", ",", 1)
	if _, err := fmt.Sscanf(ts, "%d:%d:%d,%d", &h, &m, &sec, &ms); err != nil {
		return 0, err
	}
	return float64(h)*3600 + float64(m)*60 + float64(sec) + float64(ms)/1000, nil
}
