package render

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/compositor"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/header"
)

// ComposeInput gathers everything the final pass needs.
type ComposeInput struct {
	BackgroundTrack string // already format-normalized, silent
	AudioPath       string
	Timeline        compositor.Timeline
	Card            *header.Card // nil when the run has no header
	Style           CaptionStyle
	OutputPath      string
}

// Compose burns captions and the header card onto the background track,
// overlays the reaction clips, and muxes the narration at its timeline
// offset. One ffmpeg invocation; the filter graph carries everything.
func (r *Renderer) Compose(ctx context.Context, in ComposeInput) error {
	args := []string{"-y", "-i", in.BackgroundTrack, "-i", in.AudioPath}

	// Reaction clips become looped video inputs 2..N in element order.
	reactionInput := map[int]int{} // element index -> ffmpeg input index
	next := 2
	for i, el := range in.Timeline.Elements {
		if el.Kind == compositor.KindReaction {
			args = append(args, "-stream_loop", "-1", "-i", el.Content)
			reactionInput[i] = next
			next++
		}
	}

	logoInput := -1
	if in.Card != nil && in.Card.LogoPath != "" {
		if _, err := os.Stat(in.Card.LogoPath); err == nil {
			args = append(args, "-loop", "1", "-i", in.Card.LogoPath)
			logoInput = next
		}
	}

	var graph []string
	current := "[0:v]"
	label := 0
	emit := func(filter string) {
		label++
		out := fmt.Sprintf("[v%d]", label)
		graph = append(graph, current+filter+out)
		current = out
	}

	if in.Card != nil {
		layout := in.Card.Layout(r.Width)
		hdrStart, hdrEnd := headerWindow(in.Timeline)
		for _, f := range headerFilters(*in.Card, layout, r.Width, in.Style, hdrStart, hdrEnd) {
			emit(f)
		}
		if logoInput != -1 {
			boxX := (r.Width - layout.BoxWidth) / 2
			scaled := "[logo]"
			graph = append(graph, fmt.Sprintf("[%d:v]scale=%d:%d%s", logoInput, layout.LogoSize, layout.LogoSize, scaled))
			label++
			out := fmt.Sprintf("[v%d]", label)
			graph = append(graph, fmt.Sprintf("%s%soverlay=%d:%d:%s%s",
				current, scaled, boxX+30, layout.BoxY+10, enableExpr(hdrStart, hdrEnd), out))
			current = out
		}
	}

	for _, el := range in.Timeline.Elements {
		if el.Kind == compositor.KindCaption {
			emit(captionFilter(el, in.Style))
		}
	}

	for i, el := range in.Timeline.Elements {
		if el.Kind != compositor.KindReaction {
			continue
		}
		idx := reactionInput[i]
		scaled := fmt.Sprintf("[r%d]", idx)
		graph = append(graph, fmt.Sprintf("[%d:v]scale=220:220,setpts=PTS-STARTPTS%s", idx, scaled))

		x, y := "(W-w)/2", fmt.Sprintf("%d", el.Position.Y)
		if !el.Position.Centered {
			x = fmt.Sprintf("%d", el.Position.X)
		}
		label++
		out := fmt.Sprintf("[v%d]", label)
		graph = append(graph, fmt.Sprintf("%s%soverlay=%s:%s:%s%s",
			current, scaled, x, y, enableExpr(el.Start, el.End), out))
		current = out
	}

	// Narration starts at the timeline's audio offset so the spoken
	// word lands on its caption.
	audioOut := "1:a"
	if in.Timeline.AudioOffset > 0 {
		ms := int(in.Timeline.AudioOffset * 1000)
		graph = append(graph, fmt.Sprintf("[1:a]adelay=%d:all=1[aout]", ms))
		audioOut = "[aout]"
	}

	if len(graph) > 0 {
		args = append(args, "-filter_complex", strings.Join(graph, ";"))
	}
	args = append(args, "-map", current, "-map", audioOut)
	args = append(args, "-t", fmt.Sprintf("%f", in.Timeline.TotalDuration))
	args = append(args, "-c:v", r.Encoder.Name, "-pix_fmt", "yuv420p")
	args = append(args, r.Encoder.qualityArgs()...)
	args = append(args, "-c:a", "aac", "-b:a", "192k")
	args = append(args, in.OutputPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg compose: %v\n%s", err, string(out))
	}
	return nil
}

// headerWindow finds the header element's screen time on the timeline.
func headerWindow(tl compositor.Timeline) (float64, float64) {
	for _, el := range tl.Elements {
		if el.Kind == compositor.KindHeader {
			return el.Start, el.End
		}
	}
	return 0, 0
}

// concatCopy joins format-identical segments via the concat demuxer
// without re-encoding.
func concatCopy(ctx context.Context, segs []string, tmpDir, outPath string) error {
	listPath := filepath.Join(tmpDir, "concat_inputs.txt")
	var b strings.Builder
	for _, s := range segs {
		abs, err := filepath.Abs(s)
		if err != nil {
			abs = s
		}
		fmt.Fprintf(&b, "file '%s'\n", abs)
	}
	if err := os.WriteFile(listPath, []byte(b.String()), 0644); err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-c", "copy", outPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg concat: %v\n%s", err, string(out))
	}
	return nil
}

func rename(from, to string) error {
	if from == to {
		return nil
	}
	return os.Rename(from, to)
}
