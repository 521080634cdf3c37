package render

import (
	"fmt"
	"strings"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/compositor"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/header"
)

// escapeDrawtext quotes the characters ffmpeg's drawtext parser treats
// specially inside a text= value.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(s)
}

// enableExpr limits a filter to the [start, end) window.
func enableExpr(start, end float64) string {
	return fmt.Sprintf("enable='between(t,%.3f,%.3f)'", start, end)
}

// CaptionStyle is the drawtext styling shared by every caption.
type CaptionStyle struct {
	FontFile string
	FontSize int
}

// captionFilter renders one caption element as a drawtext filter. The
// text is centered horizontally; Y comes from the compositor position.
func captionFilter(el compositor.Element, style CaptionStyle) string {
	var b strings.Builder
	b.WriteString("drawtext=")
	if style.FontFile != "" {
		fmt.Fprintf(&b, "fontfile='%s':", style.FontFile)
	}
	fmt.Fprintf(&b, "text='%s'", escapeDrawtext(el.Content))
	fmt.Fprintf(&b, ":fontsize=%d:fontcolor=white:borderw=3:bordercolor=black", style.FontSize)
	if el.Position.Centered {
		b.WriteString(":x=(w-text_w)/2")
	} else {
		fmt.Fprintf(&b, ":x=%d", el.Position.X)
	}
	fmt.Fprintf(&b, ":y=%d:%s", el.Position.Y, enableExpr(el.Start, el.End))
	return b.String()
}

// headerFilters draws the post card: a rounded-feel white box, the
// title and the byline, all limited to the card's screen time. The
// logo is composited separately as an image input.
func headerFilters(card header.Card, layout header.Layout, videoWidth int, style CaptionStyle, start, end float64) []string {
	boxX := (videoWidth - layout.BoxWidth) / 2
	textX := boxX + (layout.BoxWidth-layout.TitleWidth)/2
	enable := enableExpr(start, end)

	filters := []string{
		fmt.Sprintf("drawbox=x=%d:y=%d:w=%d:h=%d:color=white@0.95:t=fill:%s",
			boxX, layout.BoxY, layout.BoxWidth, layout.BoxHeight, enable),
	}

	title := "drawtext="
	if style.FontFile != "" {
		title += fmt.Sprintf("fontfile='%s':", style.FontFile)
	}
	title += fmt.Sprintf("text='%s':fontsize=%d:fontcolor=black:x=%d:y=%d:%s",
		escapeDrawtext(layout.TitleText), layout.FontSize, textX, layout.TitleY, enable)
	filters = append(filters, title)

	byline := "drawtext="
	if style.FontFile != "" {
		byline += fmt.Sprintf("fontfile='%s':", style.FontFile)
	}
	byline += fmt.Sprintf("text='%s':fontsize=%d:fontcolor=gray:x=%d:y=%d:%s",
		escapeDrawtext(card.Author+" · "+card.Subreddit), layout.FontSize/2+4,
		boxX+layout.LogoSize+60, layout.BoxY+layout.LogoSize/2, enable)
	filters = append(filters, byline)

	return filters
}

// xfadeChain builds the crossfade graph for n segments whose displayed
// durations (fade overlap already excluded) are given.
// Returns the filter graph and the label of the final video stream.
func xfadeChain(durations []float64, fade float64) (string, string) {
	if len(durations) < 2 {
		return "", "[0:v]"
	}

	var graph strings.Builder
	last := "[0:v]"
	offset := 0.0
	for i := 1; i < len(durations); i++ {
		offset += durations[i-1]
		out := fmt.Sprintf("[v%d]", i)
		fmt.Fprintf(&graph, "%s[%d:v]xfade=transition=fade:duration=%f:offset=%f%s;",
			last, i, fade, offset, out)
		last = out
	}
	return strings.TrimSuffix(graph.String(), ";"), last
}

// concatChain joins segments without transitions.
func concatChain(n int) (string, string) {
	if n < 2 {
		return "", "[0:v]"
	}
	var inputs strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&inputs, "[%d:v]", i)
	}
	return fmt.Sprintf("%sconcat=n=%d:v=1:a=0[vconcat]", inputs.String(), n), "[vconcat]"
}
