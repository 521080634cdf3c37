package scenes

import (
	"fmt"
	"strings"
)

// DefaultTargetScenes is how many scenes a story is cut into when the
// caller doesn't ask for a specific count.
const DefaultTargetScenes = 7

// Keyword tables for the no-LLM path. Checked in order; first hit wins.
var moodKeywords = []struct {
	mood     string
	keywords []string
}{
	{"angry", []string{"angry", "furious", "rage", "yelled", "screamed", "fight", "hit", "punch"}},
	{"sad", []string{"sad", "cried", "tears", "depressed", "lonely", "heartbroken", "grief", "loss"}},
	{"happy", []string{"happy", "laughed", "smiled", "joy", "excited", "celebrated", "love", "wedding"}},
	{"scared", []string{"scared", "terrified", "horror", "dark", "creepy", "nightmare", "panic", "afraid"}},
	{"tense", []string{"nervous", "anxiety", "confronted", "argument", "divorce", "caught", "secret", "lie"}},
	{"calm", []string{"peaceful", "quiet", "morning", "coffee", "relaxed", "sunday", "garden", "walk"}},
}

var locationKeywords = []struct {
	location string
	keywords []string
}{
	{"house", []string{"house", "home", "apartment", "room", "bedroom", "kitchen", "living room", "bathroom"}},
	{"car", []string{"car", "driving", "road", "highway", "parked", "traffic", "truck"}},
	{"office", []string{"office", "work", "desk", "meeting", "boss", "coworker", "cubicle"}},
	{"school", []string{"school", "class", "teacher", "student", "college", "university", "campus"}},
	{"hospital", []string{"hospital", "doctor", "nurse", "emergency", "surgery", "diagnosed"}},
	{"restaurant", []string{"restaurant", "dinner", "lunch", "cafe", "bar", "food", "eating"}},
	{"outdoor", []string{"park", "beach", "forest", "mountain", "lake", "street", "outside", "yard"}},
}

var locationPrompts = map[string]string{
	"house":      "cozy suburban house interior, warm ambient lighting, lived-in feel",
	"car":        "inside a car at night, dashboard lights, rain on windshield",
	"office":     "modern office space, fluorescent lighting, cubicles and desks",
	"school":     "school hallway with lockers, natural daylight through windows",
	"hospital":   "hospital corridor, sterile white walls, soft overhead lighting",
	"restaurant": "restaurant interior, dim ambient lighting, candlelit tables",
	"outdoor":    "quiet suburban street at golden hour, trees lining the sidewalk",
}

var moodModifiers = map[string]string{
	"angry":  "dramatic red-tinted lighting, stormy atmosphere",
	"sad":    "melancholic blue tones, overcast sky, rain",
	"happy":  "warm golden sunlight, bright and vibrant colors",
	"scared": "dark shadows, eerie fog, dim moonlight",
	"tense":  "harsh contrast lighting, claustrophobic framing",
	"calm":   "soft natural light, peaceful atmosphere, warm tones",
}

// GenerateFallback produces scene descriptions without a language
// model: an even word-count split with keyword-derived mood and
// location per segment. The output has the same shape the LLM path
// produces, so MapToTimings doesn't care which one ran.
func GenerateFallback(storyText string, numScenes int) []Description {
	words := strings.Fields(storyText)
	total := len(words)
	if total == 0 || numScenes <= 0 {
		return nil
	}

	perScene := total / numScenes
	if perScene < 1 {
		perScene = 1
	}

	var descs []Description
	for i := 0; i < numScenes; i++ {
		startIdx := i * perScene
		if startIdx >= total {
			break
		}
		endIdx := (i + 1) * perScene
		if i == numScenes-1 || endIdx > total {
			endIdx = total
		}

		segment := strings.ToLower(strings.Join(words[startIdx:endIdx], " "))

		mood := "calm"
		for _, entry := range moodKeywords {
			if containsAny(segment, entry.keywords) {
				mood = entry.mood
				break
			}
		}

		location := "house"
		for _, entry := range locationKeywords {
			if containsAny(segment, entry.keywords) {
				location = entry.location
				break
			}
		}

		prompt := fmt.Sprintf("%s, %s, cinematic lighting, photorealistic, 4k, detailed",
			locationPrompts[location], moodModifiers[mood])

		descs = append(descs, Description{
			Summary:     fmt.Sprintf("Scene %d of the story", i+1),
			ImagePrompt: prompt,
			StartWord:   startIdx,
			Mood:        mood,
		})
	}

	return descs
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
