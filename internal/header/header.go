package header

import "strings"

// Card is the simulated Reddit post card shown at the top of the video
// before (or over) the narration.
type Card struct {
	Title     string
	Author    string
	Subreddit string
	Duration  float64
	LogoPath  string
}

// DefaultDuration is how long the card holds the screen. Long enough
// to read a two-line title, short enough not to stall the hook.
const DefaultDuration = 4.5

const (
	maxTitleChars = 100
	logoSize      = 160
	titleFontSize = 38
	// Horizontal padding inside the card, both sides.
	innerPadding = 40
)

// Layout is the card's computed geometry for a given output width. The
// renderer draws from these numbers; nothing here touches pixels.
type Layout struct {
	BoxWidth   int
	BoxHeight  int
	BoxY       int
	LogoSize   int
	TitleText  string
	TitleY     int
	TitleWidth int
	FontSize   int
}

// NewCard builds a card spec from a story. The title is the story's
// first sentence, clipped to a readable length.
func NewCard(storyText, author, subreddit, logoPath string) Card {
	title := storyText
	if i := strings.Index(title, "."); i != -1 {
		title = title[:i]
	}
	if len(title) > 120 {
		title = title[:120]
	}
	return Card{
		Title:     title,
		Author:    author,
		Subreddit: subreddit,
		Duration:  DefaultDuration,
		LogoPath:  logoPath,
	}
}

// Layout computes the card geometry for the given video width.
func (c Card) Layout(videoWidth int) Layout {
	title := c.Title
	if len(title) > maxTitleChars {
		title = title[:maxTitleChars] + "..."
	}

	boxWidth := videoWidth - 60
	titleWidth := boxWidth - 2*innerPadding

	// Estimate wrapped title height: the 38px face fits roughly one
	// character per 22px of line width.
	charsPerLine := titleWidth / 22
	if charsPerLine < 1 {
		charsPerLine = 1
	}
	lines := (len(title) + charsPerLine - 1) / charsPerLine
	if lines < 1 {
		lines = 1
	}
	titleHeight := lines * (titleFontSize + 14)

	return Layout{
		BoxWidth:   boxWidth,
		BoxHeight:  logoSize + titleHeight + 80,
		BoxY:       20,
		LogoSize:   logoSize,
		TitleText:  title,
		TitleY:     30 + logoSize + 10,
		TitleWidth: titleWidth,
		FontSize:   titleFontSize,
	}
}
