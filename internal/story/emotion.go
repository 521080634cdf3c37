package story

import "strings"

// Emotion is the coarse tag assigned to a beat when no language model
// is available to describe it more specifically.
type Emotion string

const (
	Shocked   Emotion = "shocked"
	Angry     Emotion = "angry"
	Sad       Emotion = "sad"
	Happy     Emotion = "happy"
	Confused  Emotion = "confused"
	Disgusted Emotion = "disgusted"
)

// emotionKeywords is checked in declaration order; the first hit wins.
var emotionKeywords = []struct {
	emotion  Emotion
	keywords []string
}{
	{Shocked, []string{
		"shocked", "surprised", "can't believe", "cannot believe",
		"omg", "unbelievable", "speechless", "jaw dropped", "stunned",
		"floored", "blown away", "couldn't believe", "never expected",
		"out of nowhere", "suddenly", "found out",
	}},
	{Angry, []string{
		"angry", "furious", "mad", "yelled", "screamed", "livid",
		"rage", "raging", "snapped", "exploded", "stormed", "fuming",
		"seething", "irate", "outraged", "confronted", "threatened",
		"demanded", "accused", "yelling", "screaming", "argument",
		"arguing", "fight", "fighting",
	}},
	{Sad, []string{
		"sad", "cried", "crying", "hurt", "heartbroken", "devastated",
		"tears", "sobbed", "sobbing", "wept", "weeping", "broke down",
		"upset", "depressed", "miserable", "despair", "grief",
		"disappointed", "gutted", "crushed", "lost", "alone",
	}},
	{Happy, []string{
		"happy", "excited", "love", "amazing", "thrilled", "grateful",
		"wonderful", "fantastic", "overjoyed", "ecstatic", "proud",
		"relief", "relieved", "glad", "delighted", "celebrate",
	}},
	{Confused, []string{
		"confused", "weird", "strange", "bizarre", "puzzled",
		"didn't understand", "don't understand", "makes no sense",
		"what the", "why would", "how could", "baffled", "perplexed",
		"dumbfounded", "didn't know", "not sure",
	}},
	{Disgusted, []string{
		"disgusted", "gross", "awful", "horrible", "nasty",
		"repulsed", "sickened", "revolting", "appalled", "offensive",
		"inappropriate", "unacceptable", "crossed the line",
		"can't stand", "cannot stand",
	}},
}

// detectEmotion returns the first matching emotion, or "" when the text
// gives nothing away.
func detectEmotion(text string) Emotion {
	lower := strings.ToLower(text)
	for _, entry := range emotionKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return entry.emotion
			}
		}
	}
	return ""
}

// DetectEmotion tags text with an emotion, defaulting to Shocked, which
// reads acceptably over almost any story moment.
func DetectEmotion(text string) Emotion {
	if e := detectEmotion(text); e != "" {
		return e
	}
	return Shocked
}

// TagBeats assigns an emotion to each beat. A beat with no keyword hits
// inherits the previous beat's tag, and the first falls back to the
// whole story's dominant emotion.
func TagBeats(storyText string, beats []Beat) []Emotion {
	baseline := DetectEmotion(storyText)
	tags := make([]Emotion, len(beats))

	prev := baseline
	for i, beat := range beats {
		if e := detectEmotion(beat.Text); e != "" {
			prev = e
		}
		tags[i] = prev
	}
	return tags
}
