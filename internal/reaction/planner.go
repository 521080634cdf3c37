// Package reaction plans the dog-reaction overlay track: one clip per
// story beat, chosen to match what is happening in that beat.
package reaction

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/compositor"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/story"
)

// TextGenerator produces free-form model output for a prompt. Satisfied
// by scenes.Extractor; nil means keyword fallback only.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, temperature float64, numPredict int) (string, error)
}

// defaultQueries maps a detected emotion to a stock Tenor query, used
// when the model cannot write beat-specific ones.
var defaultQueries = map[story.Emotion]string{
	story.Shocked:   "real dog shocked surprised",
	story.Angry:     "real dog angry barking",
	story.Sad:       "real dog sad crying",
	story.Happy:     "real dog excited happy",
	story.Confused:  "real dog confused head tilt",
	story.Disgusted: "real dog disgusted reaction",
}

const queryPrompt = `You are choosing reaction GIFs for a Reddit AITA story video. The GIFs show a dog reacting to each part of the story.

For each numbered story segment, write a SHORT Tenor search query (3-5 words) for a dog reaction GIF that specifically matches what is happening in that moment.

Always start the query with "real dog". This is CRITICAL — it ensures results show real dogs, not cartoons, animated characters, or people. Be specific — match the query to the actual event, not just a generic emotion.

Good examples:
- "real dog shocked jaw drop" — for surprising news or a plot twist
- "real dog angry barking" — for an argument or confrontation
- "real dog sad crying" — for heartbreak or betrayal
- "real dog confused head tilt" — for strange or unclear behaviour
- "real dog disgusted reaction" — for something gross or inappropriate
- "real dog excited jumping" — for good news or relief
- "real dog nervous anxious" — for a tense or worrying moment
- "real dog judging side eye" — for when someone does something questionable
- "real dog embarrassed" — for an awkward or cringe moment
- "real dog waiting impatient" — for a slow build-up
- "real dog betrayed shocked" — for a trust violation

Segments:
%s

Return ONLY a JSON array of query strings, one per segment, in the same order.
Example: ["dog shocked jaw drop", "dog angry confrontation", "dog sad heartbroken"]
`

// Planner assigns a reaction clip to every story beat.
type Planner struct {
	Generator  TextGenerator
	Fetcher    *Fetcher
	LibraryDir string // pre-downloaded per-emotion folders, last-resort source
	rng        *rand.Rand
}

// NewPlanner wires the planner. generator may be nil.
func NewPlanner(generator TextGenerator, fetcher *Fetcher, libraryDir string, rng *rand.Rand) *Planner {
	return &Planner{
		Generator:  generator,
		Fetcher:    fetcher,
		LibraryDir: libraryDir,
		rng:        rng,
	}
}

// Plan builds the reaction track for the given beats. Beats that end up
// with no usable clip are skipped; the track may be shorter than the
// beat list but never misaligned.
func (p *Planner) Plan(ctx context.Context, storyText string, beats []story.Beat) []compositor.Reaction {
	if len(beats) == 0 {
		return nil
	}

	queries := p.beatQueries(ctx, storyText, beats)

	var track []compositor.Reaction
	for i, beat := range beats {
		clip := p.resolveClip(queries[i], storyText)
		if clip == "" {
			log.Printf("[reaction] no clip for beat %d, skipping", i)
			continue
		}
		track = append(track, compositor.Reaction{
			Content: clip,
			Start:   beat.Start,
			End:     beat.End,
		})
	}
	return track
}

// beatQueries returns one Tenor query per beat: model-written when the
// generator cooperates, emotion defaults otherwise.
func (p *Planner) beatQueries(ctx context.Context, storyText string, beats []story.Beat) []string {
	if queries := p.modelQueries(ctx, beats); queries != nil {
		log.Println("[reaction] queries: model")
		return queries
	}

	log.Println("[reaction] queries: keyword fallback")
	emotions := story.TagBeats(storyText, beats)
	queries := make([]string, len(beats))
	for i, emotion := range emotions {
		queries[i] = defaultQueries[emotion]
	}
	return queries
}

var jsonArrayRe = regexp.MustCompile(`(?s)\[.*?\]`)

func (p *Planner) modelQueries(ctx context.Context, beats []story.Beat) []string {
	if p.Generator == nil {
		return nil
	}

	var numbered strings.Builder
	for i, b := range beats {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, b.Text)
	}

	raw, err := p.Generator.GenerateText(ctx, fmt.Sprintf(queryPrompt, numbered.String()), 0.3, 400)
	if err != nil {
		log.Printf("[reaction] query generation failed: %v", err)
		return nil
	}

	match := jsonArrayRe.FindString(raw)
	if match == "" {
		return nil
	}
	var queries []string
	if err := json.Unmarshal([]byte(match), &queries); err != nil || len(queries) != len(beats) {
		return nil
	}
	for i := range queries {
		queries[i] = normalizeQuery(queries[i])
	}
	return queries
}

// normalizeQuery forces the "real dog" prefix the prompt asks for, so
// a sloppy model answer still searches for real animals.
func normalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	switch {
	case strings.HasPrefix(q, "real dog"):
		return q
	case strings.HasPrefix(q, "dog "):
		return "real " + q
	default:
		return "real dog " + q
	}
}

// resolveClip runs the source chain for one query: Tenor (cache then
// network), then the local emotion library. GIFs are converted to MP4
// so the renderer can seek them.
func (p *Planner) resolveClip(query, storyText string) string {
	var path string
	if p.Fetcher != nil {
		var err error
		path, err = p.Fetcher.Get(query)
		if err != nil {
			log.Printf("[reaction] tenor failed for %q: %v", query, err)
		}
	}
	if path == "" {
		path = p.libraryClip(story.DetectEmotion(storyText))
	}
	if path == "" {
		return ""
	}
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		path = gifToMP4(path)
	}
	return path
}

func (p *Planner) libraryClip(emotion story.Emotion) string {
	files := listMedia(filepath.Join(p.LibraryDir, string(emotion)))
	if len(files) == 0 && emotion != story.Shocked {
		files = listMedia(filepath.Join(p.LibraryDir, string(story.Shocked)))
	}
	if len(files) == 0 {
		return ""
	}
	return files[p.rng.Intn(len(files))]
}

// gifToMP4 converts a GIF next to itself and returns the MP4 path, or
// the original GIF when conversion fails. Stale sub-500-byte outputs
// from earlier failed conversions are redone.
func gifToMP4(gifPath string) string {
	mp4Path := strings.TrimSuffix(gifPath, filepath.Ext(gifPath)) + ".mp4"
	if info, err := os.Stat(mp4Path); err == nil {
		if info.Size() >= minClipBytes {
			return mp4Path
		}
		os.Remove(mp4Path)
	}

	cmd := exec.Command("ffmpeg", "-y", "-i", gifPath,
		"-c:v", "libx264", "-preset", "fast",
		"-pix_fmt", "yuv420p", "-an", mp4Path)
	if err := cmd.Run(); err != nil {
		os.Remove(mp4Path)
		return gifPath
	}
	if info, err := os.Stat(mp4Path); err != nil || info.Size() < minClipBytes {
		os.Remove(mp4Path)
		return gifPath
	}
	return mp4Path
}
