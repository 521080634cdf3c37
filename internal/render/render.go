// Package render turns the planned timeline into an actual video file
// by driving ffmpeg: per-scene frame streams, background slicing, and
// the final overlay composition.
package render

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"math/rand"
	"os/exec"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/analyzer"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/background"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/kenburns"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/scenes"
)

// Renderer holds the output format and encoding choices for one job.
type Renderer struct {
	Width        int
	Height       int
	FPS          int
	Workers      int
	CrossfadeDur float64
	Encoder      *Encoder
	Analyzer     *analyzer.ContrastDetector // nil disables focus detection
	TempDir      string
}

// RenderScenes renders each animated scene to its own segment and joins
// them with crossfades. Scene images pan and zoom frame by frame; the
// frames never touch disk on the way to the encoder.
func (r *Renderer) RenderScenes(ctx context.Context, list []scenes.Scene, rng *rand.Rand) (string, error) {
	if len(list) == 0 {
		return "", fmt.Errorf("no scenes to render")
	}

	picker := kenburns.NewPicker(rng)
	presets := make([]kenburns.Preset, len(list))
	for i := range list {
		presets[i] = picker.Next()
	}

	segs := make([]string, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())

	for i := range list {
		i := i
		g.Go(func() error {
			scene := list[i]
			dur := scene.End - scene.Start
			if dur <= 0 {
				return fmt.Errorf("scene %d has non-positive duration", scene.Index)
			}
			// The crossfade into the next scene eats fade seconds, so
			// every segment but the last renders that much extra tail.
			if i < len(list)-1 {
				dur += r.CrossfadeDur
			}

			img, err := kenburns.LoadImage(scene.ImagePath)
			if err != nil {
				return fmt.Errorf("scene %d: %w", scene.Index, err)
			}

			// A detected subject overrides the random move: the camera
			// zooms onto it instead of wandering.
			preset := presets[i]
			if r.Analyzer != nil {
				if focus, ok := r.Analyzer.FindFocus(img); ok {
					b := img.Bounds()
					preset = kenburns.FocusPreset(focus, b.Dx(), b.Dy())
				}
			}

			anim := kenburns.NewAnimator(img, dur, r.Width, r.Height, preset)
			frameCount := int(math.Round(dur * float64(r.FPS)))
			if frameCount < 1 {
				frameCount = 1
			}

			seg := filepath.Join(r.TempDir, fmt.Sprintf("scene_%03d.mp4", i))
			err = r.Encoder.EncodeFrames(gctx, r.Width, r.Height, r.FPS, frameCount,
				func(frame int) (*image.RGBA, error) {
					return anim.Frame(float64(frame) / float64(r.FPS)), nil
				}, seg)
			if err != nil {
				return fmt.Errorf("scene %d: %w", scene.Index, err)
			}
			segs[i] = seg
			log.Printf("[render] scene %d/%d done", i+1, len(list))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	durations := make([]float64, len(list))
	for i, s := range list {
		durations[i] = s.End - s.Start
	}
	out := filepath.Join(r.TempDir, "scenes_track.mp4")
	if err := r.joinWithCrossfades(ctx, segs, durations, out); err != nil {
		return "", err
	}
	return out, nil
}

// RenderBackground cuts the planned gameplay slices, normalizes them to
// the output format, and concatenates them into one silent track.
func (r *Renderer) RenderBackground(ctx context.Context, plan []background.Segment) (string, error) {
	if len(plan) == 0 {
		return "", fmt.Errorf("empty background plan")
	}

	segs := make([]string, len(plan))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())

	for i := range plan {
		i := i
		g.Go(func() error {
			seg := filepath.Join(r.TempDir, fmt.Sprintf("bg_%03d.mp4", i))
			if err := r.cutSegment(gctx, plan[i], seg); err != nil {
				return fmt.Errorf("background segment %d: %w", i, err)
			}
			segs[i] = seg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	out := filepath.Join(r.TempDir, "background_track.mp4")
	if len(segs) == 1 {
		return segs[0], nil
	}
	if err := concatCopy(ctx, segs, r.TempDir, out); err != nil {
		return "", err
	}
	return out, nil
}

// cutSegment extracts one slice and fits it to the vertical frame:
// scale up to cover, then center-crop.
func (r *Renderer) cutSegment(ctx context.Context, seg background.Segment, outPath string) error {
	vf := fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d,fps=%d,setsar=1",
		r.Width, r.Height, r.Width, r.Height, r.FPS)

	args := []string{
		"-y",
		"-ss", fmt.Sprintf("%f", seg.Offset),
		"-t", fmt.Sprintf("%f", seg.Length),
		"-i", seg.Path,
		"-vf", vf,
		"-an",
		"-c:v", r.Encoder.Name,
	}
	args = append(args, r.Encoder.qualityArgs()...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg: %v\n%s", err, string(out))
	}
	return nil
}

func (r *Renderer) joinWithCrossfades(ctx context.Context, segs []string, durations []float64, outPath string) error {
	if len(segs) == 1 {
		return rename(segs[0], outPath)
	}

	args := []string{"-y"}
	for _, s := range segs {
		args = append(args, "-i", s)
	}

	graph, last := xfadeChain(durations, r.CrossfadeDur)
	args = append(args, "-filter_complex", graph, "-map", last)
	args = append(args, "-pix_fmt", "yuv420p", "-c:v", r.Encoder.Name)
	args = append(args, r.Encoder.qualityArgs()...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg xfade: %v\n%s", err, string(out))
	}
	return nil
}

func (r *Renderer) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return 4
}
