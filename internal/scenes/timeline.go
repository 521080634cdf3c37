package scenes

import (
	"sort"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/timing"
)

// DefaultMinSceneDuration is the shortest scene that doesn't feel like
// a flicker; anything under it is merged into its predecessor.
const DefaultMinSceneDuration = 3.0

// MapToTimings binds scene descriptions to precise timestamps using the
// word timings. Descriptions are sorted by start word, word indices are
// clamped into range, each scene ends where the next begins, and the
// final scene is pinned to exactly audioDuration so rounding in the
// timing source can't leave a silent tail. Scenes shorter than
// minSceneDuration are merged into their predecessor, then the list is
// re-indexed 0..N-1 with Cut for the first scene and Crossfade for the
// rest.
func MapToTimings(descs []Description, words []timing.WordTiming, audioDuration, minSceneDuration float64) []Scene {
	if len(descs) == 0 || audioDuration <= 0 {
		return nil
	}

	ordered := make([]Description, len(descs))
	copy(ordered, descs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartWord < ordered[j].StartWord
	})

	total := len(words)
	scenes := make([]Scene, 0, len(ordered))

	for i, d := range ordered {
		startWord := d.StartWord
		if startWord < 0 {
			startWord = 0
		}
		if total > 0 && startWord > total-1 {
			startWord = total - 1
		}

		endWord := total - 1
		if i+1 < len(ordered) {
			endWord = ordered[i+1].StartWord - 1
			if endWord < 0 {
				endWord = 0
			}
		}
		if total > 0 && endWord > total-1 {
			endWord = total - 1
		}

		var start, end float64
		if total > 0 {
			start = words[startWord].Start
			end = words[endWord].End()
		} else {
			// No timings at all: distribute evenly.
			per := audioDuration / float64(len(ordered))
			start = float64(i) * per
			end = float64(i+1) * per
		}

		if i == len(ordered)-1 {
			end = audioDuration
		}

		mood := d.Mood
		if mood == "" {
			mood = "neutral"
		}

		scenes = append(scenes, Scene{
			Index:       i,
			Summary:     d.Summary,
			ImagePrompt: d.ImagePrompt,
			Start:       start,
			End:         end,
			StartWord:   startWord,
			EndWord:     endWord,
			Transition:  Crossfade,
			Mood:        mood,
		})
	}

	return mergeShort(scenes, minSceneDuration)
}

// mergeShort folds scenes below the minimum duration into their
// predecessor and re-indexes the survivors.
func mergeShort(scenes []Scene, minDuration float64) []Scene {
	if len(scenes) == 0 {
		return scenes
	}

	var merged []Scene
	for _, s := range scenes {
		if s.Duration() < minDuration && len(merged) > 0 {
			prev := &merged[len(merged)-1]
			prev.End = s.End
			prev.EndWord = s.EndWord
		} else {
			merged = append(merged, s)
		}
	}

	// Close inter-word pauses so the scenes partition the timeline: the
	// earlier scene holds the screen until the next one begins.
	merged[0].Start = 0
	for i := 0; i < len(merged)-1; i++ {
		merged[i].End = merged[i+1].Start
	}

	reindex(merged)
	return merged
}

// RedistributeTiming repairs a scene list after some scenes were
// dropped (image generation failed for them): the first scene is forced
// to start at 0, the last to end at totalDuration, and every gap left
// by a dropped scene is closed by extending its predecessor.
func RedistributeTiming(scenes []Scene, totalDuration float64) []Scene {
	if len(scenes) == 0 {
		return scenes
	}

	scenes[0].Start = 0
	scenes[len(scenes)-1].End = totalDuration

	for i := 0; i < len(scenes)-1; i++ {
		if scenes[i+1].Start > scenes[i].End {
			scenes[i].End = scenes[i+1].Start
		}
	}

	reindex(scenes)
	return scenes
}

func reindex(scenes []Scene) {
	for i := range scenes {
		scenes[i].Index = i
		if i == 0 {
			scenes[i].Transition = Cut
		} else {
			scenes[i].Transition = Crossfade
		}
	}
}
