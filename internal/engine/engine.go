// Package engine runs one story through the whole pipeline: narration,
// timing, captions, scenes, background, reactions, composition.
package engine

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/analyzer"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/background"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/captions"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/compositor"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/config"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/header"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/reaction"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/render"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/scenes"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/scraper"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/store"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/story"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/timing"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/tts"
)

// ErrEmptyStory marks a post whose body cleaned down to nothing.
var ErrEmptyStory = fmt.Errorf("story is empty after cleaning")

// Pipeline wires the collaborators for a run. Build one per process;
// ProcessStory is called per post.
type Pipeline struct {
	Cfg       *config.Config
	Rand      *rand.Rand
	Synth     *tts.Synthesizer
	Extractor *scenes.Extractor
	Reactions *reaction.Planner
	Ledger    *store.Store
	Encoder   *render.Encoder
}

// Result reports one finished job.
type Result struct {
	JobID      string
	OutputPath string
	Duration   float64
}

// ProcessStory turns one scraped story into a finished video file.
// Collaborator outages degrade (estimated timings, fallback scenes,
// gameplay background); only missing narration audio fails the job.
func (p *Pipeline) ProcessStory(ctx context.Context, st scraper.Story) (*Result, error) {
	startTime := time.Now()

	text := scraper.CleanForSpeech(st.Title + ". " + st.Content)
	text = scraper.CapWords(text, p.Cfg.MaxWords)
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyStory
	}

	jobID := store.NewJobID()
	log.Printf("[engine] job %s: %.50s...", jobID, st.Title)

	tempDir, err := os.MkdirTemp("", "storyvideo_")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	// 1. Narration. Ground-truth word timings when the synthesizer
	// reports boundaries, estimated otherwise.
	audioPath := filepath.Join(tempDir, "narration.mp3")
	audioDuration, words, err := p.Synth.Synthesize(ctx, text, audioPath)
	if err != nil {
		return nil, fmt.Errorf("narration: %w", err)
	}
	if words == nil {
		log.Println("[engine] using estimated word timings")
		est := timing.NewEstimator(p.Rand)
		est.Rate = p.Cfg.SpeakingRate
		words = est.WordTimings(text, audioDuration)
	}

	// 2. Caption intervals, relative to narration start. The compositor
	// shifts them when the header plays first.
	caps := captions.Schedule(words, p.Cfg.FramePeriod(), 0)

	// 3. Reaction overlay track.
	beats := story.Segment(text, words, p.Cfg.MinBeatDuration)
	reactions := p.Reactions.Plan(ctx, text, beats)

	// 4. Header card.
	card := header.NewCard(st.Title, orDefault(st.Author, p.Cfg.HeaderAuthor), st.Subreddit, p.Cfg.HeaderLogoPath)
	mode := compositor.Simultaneous
	if p.Cfg.SequentialIntro {
		mode = compositor.Sequential
	}
	hdr := &compositor.Header{
		Content:  card.LogoPath,
		Duration: card.Duration,
		Position: compositor.Position{Y: 20, Centered: true},
	}

	delay := 0.0
	if mode == compositor.Sequential {
		delay = hdr.Duration
	}

	// 5. Background track: animated scenes when images exist, gameplay
	// footage otherwise.
	renderer := &render.Renderer{
		Width:        p.Cfg.Width,
		Height:       p.Cfg.Height,
		FPS:          p.Cfg.FPS,
		Workers:      p.Cfg.Workers,
		CrossfadeDur: p.Cfg.CrossfadeDur,
		Encoder:      p.Encoder,
		Analyzer:     analyzer.NewContrastDetector(),
		TempDir:      tempDir,
	}

	bgTrack, err := p.renderBackground(ctx, renderer, text, words, audioDuration, delay, jobID)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	// 6. Shared timeline and final composition.
	comp := &compositor.Compositor{
		Mode:        mode,
		CaptionPos:  compositor.Position{Y: p.Cfg.Height*2/3 - 40, Centered: true},
		ReactionPos: compositor.Position{X: p.Cfg.Width - 240, Y: p.Cfg.Height - 280},
	}
	tl := comp.Assemble(bgTrack, audioDuration, hdr, caps, reactions)

	outputPath := filepath.Join(p.Cfg.OutputDir, fmt.Sprintf("story_%s.mp4", jobID[:8]))
	if err := os.MkdirAll(p.Cfg.OutputDir, 0755); err != nil {
		return nil, err
	}

	err = renderer.Compose(ctx, render.ComposeInput{
		BackgroundTrack: bgTrack,
		AudioPath:       audioPath,
		Timeline:        tl,
		Card:            &card,
		Style:           render.CaptionStyle{FontSize: 64},
		OutputPath:      outputPath,
	})
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	if err := p.Ledger.MarkProcessed(st.ID, jobID, st.Title, outputPath); err != nil {
		log.Printf("[!] could not record processed post: %v", err)
	}

	log.Printf("[engine] job %s done in %.1fs: %s", jobID, time.Since(startTime).Seconds(), outputPath)
	return &Result{JobID: jobID, OutputPath: outputPath, Duration: tl.TotalDuration}, nil
}

// renderBackground picks the background source and renders its track to
// cover the narration plus the header delay.
func (p *Pipeline) renderBackground(ctx context.Context, renderer *render.Renderer, text string, words []timing.WordTiming, audioDuration, delay float64, jobID string) (string, error) {
	totalDuration := audioDuration + delay

	descs := p.Extractor.Extract(ctx, text, p.Cfg.TargetScenes)
	timeline := scenes.MapToTimings(descs, words, audioDuration, p.Cfg.MinSceneDuration)
	timeline, missing := AssignSceneImages(timeline, p.Cfg.ScenesDir)

	if missing > 0 && len(timeline) > 0 {
		log.Printf("[engine] %d scenes have no image, redistributing", missing)
		timeline = scenes.RedistributeTiming(timeline, audioDuration)
	}
	// Scene boundaries are narration-relative; when the header plays
	// first the whole visual track slides right and the first scene
	// stretches back to zero.
	timeline = ShiftScenes(timeline, delay)

	if len(timeline) >= 2 {
		cachePath := filepath.Join(p.Cfg.OutputDir, fmt.Sprintf("timeline_%s.yaml", jobID[:8]))
		if err := scenes.WriteTimeline(&scenes.Timeline{JobID: jobID, AudioDuration: audioDuration, Scenes: timeline}, cachePath); err != nil {
			log.Printf("[!] could not persist scene timeline: %v", err)
		}
		return renderer.RenderScenes(ctx, timeline, p.Rand)
	}

	log.Println("[engine] no usable scene images, using gameplay background")
	pool, err := background.LoadPool(p.Cfg.BackgroundDir)
	if err != nil {
		return "", err
	}
	src := ChooseBackgroundSource(pool)
	plan, err := background.NewAssembler(p.Rand).Plan(src, totalDuration)
	if err != nil {
		return "", err
	}
	return renderer.RenderBackground(ctx, plan)
}

// ShiftScenes slides every scene later by delay and anchors the first
// scene back at zero so the track still starts with the video.
func ShiftScenes(timeline []scenes.Scene, delay float64) []scenes.Scene {
	if delay <= 0 || len(timeline) == 0 {
		return timeline
	}
	for i := range timeline {
		timeline[i].Start += delay
		timeline[i].End += delay
	}
	timeline[0].Start = 0
	return timeline
}

// AssignSceneImages matches scene images on disk to the timeline by
// scene index (scene_1.png, scene_2.jpg, ...). Scenes without an image
// are dropped; the count of dropped scenes is returned so the caller
// can redistribute the freed time.
func AssignSceneImages(timeline []scenes.Scene, dir string) ([]scenes.Scene, int) {
	if len(timeline) == 0 {
		return timeline, 0
	}

	var kept []scenes.Scene
	missing := 0
	for _, sc := range timeline {
		path := findSceneImage(dir, sc.Index)
		if path == "" {
			missing++
			continue
		}
		sc.ImagePath = path
		kept = append(kept, sc)
	}
	return kept, missing
}

func findSceneImage(dir string, index int) string {
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		path := filepath.Join(dir, fmt.Sprintf("scene_%d%s", index+1, ext))
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ChooseBackgroundSource picks the gameplay strategy for a pool: a
// single clip loops, several get sliced for variety.
func ChooseBackgroundSource(pool []background.Clip) background.Source {
	if len(pool) == 1 {
		return background.LoopedSingle{Clip: pool[0]}
	}
	sorted := make([]background.Clip, len(pool))
	copy(sorted, pool)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })
	return background.MultiSegment{Pool: sorted}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
