package header

import (
	"strings"
	"testing"
)

func TestNewCardTakesFirstSentence(t *testing.T) {
	card := NewCard("My roommate sold my couch. Then things got worse.", "u/BrokenStories", "r/AmItheAsshole", "logo.png")

	if card.Title != "My roommate sold my couch" {
		t.Errorf("title = %q", card.Title)
	}
	if card.Duration != DefaultDuration {
		t.Errorf("duration = %f, want %f", card.Duration, DefaultDuration)
	}
}

func TestLayoutTruncatesLongTitles(t *testing.T) {
	card := Card{Title: strings.Repeat("a", 150), Duration: DefaultDuration}
	layout := card.Layout(720)

	if len(layout.TitleText) != maxTitleChars+3 {
		t.Errorf("title length = %d, want %d plus ellipsis", len(layout.TitleText), maxTitleChars)
	}
	if !strings.HasSuffix(layout.TitleText, "...") {
		t.Errorf("truncated title should end with ellipsis: %q", layout.TitleText)
	}
}

func TestLayoutGrowsWithTitleLength(t *testing.T) {
	short := Card{Title: "Short one"}.Layout(720)
	long := Card{Title: strings.Repeat("lengthy title words ", 5)}.Layout(720)

	if long.BoxHeight <= short.BoxHeight {
		t.Errorf("longer title should need a taller card: %d vs %d",
			long.BoxHeight, short.BoxHeight)
	}
	if short.BoxWidth != 660 {
		t.Errorf("box width = %d, want video width minus margins", short.BoxWidth)
	}
}
