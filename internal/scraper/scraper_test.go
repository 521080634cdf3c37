package scraper

import (
	"strings"
	"testing"
)

func TestCleanForSpeechStripsMarkup(t *testing.T) {
	in := "So **this** happened. See https://example.com/post for *details*.\n\nAnyway &gt; he left."
	got := CleanForSpeech(in)

	for _, banned := range []string{"**", "https://", "&gt;", "\n"} {
		if strings.Contains(got, banned) {
			t.Errorf("cleaned text still contains %q: %q", banned, got)
		}
	}
	if !strings.Contains(got, "this happened") {
		t.Errorf("bold text lost its content: %q", got)
	}
	if !strings.Contains(got, "details") {
		t.Errorf("italic text lost its content: %q", got)
	}
}

func TestCleanForSpeechParagraphsBecomePauses(t *testing.T) {
	got := CleanForSpeech("First paragraph\n\nSecond paragraph")
	if got != "First paragraph. Second paragraph" {
		t.Errorf("got %q", got)
	}
}

func TestCapWords(t *testing.T) {
	short := "only a few words here"
	if got := CapWords(short, 250); got != short {
		t.Errorf("short text should pass through, got %q", got)
	}

	long := strings.TrimSpace(strings.Repeat("word ", 300))
	got := CapWords(long, 250)
	if n := len(strings.Fields(got)); n != 250 {
		t.Errorf("capped to %d words, want 250", n)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("capped text should trail off with an ellipsis")
	}
}
