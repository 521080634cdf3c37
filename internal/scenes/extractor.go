package scenes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// Extractor asks a local Ollama model to decompose a story into visual
// scene descriptions. Every failure mode (daemon down, timeout,
// unparseable output, too few usable scenes) degrades to the keyword
// fallback; extraction never fails a render job.
type Extractor struct {
	URL     string // e.g. http://localhost:11434/api/generate
	Model   string
	Timeout time.Duration
	Client  *http.Client
}

// NewExtractor returns an Extractor with the stock local endpoint.
func NewExtractor(model string) *Extractor {
	return &Extractor{
		URL:     "http://localhost:11434/api/generate",
		Model:   model,
		Timeout: 120 * time.Second,
		Client:  &http.Client{},
	}
}

type ollamaRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Extract returns at least two valid scene descriptions, from the model
// if it cooperates and from GenerateFallback otherwise.
func (e *Extractor) Extract(ctx context.Context, storyText string, numScenes int) []Description {
	if numScenes <= 0 {
		numScenes = DefaultTargetScenes
	}

	raw, err := e.generate(ctx, buildScenePrompt(storyText, numScenes), 0.7, 2048)
	if err != nil {
		log.Printf("[scenes] Ollama unavailable (%v) - using keyword fallback", err)
		return GenerateFallback(storyText, numScenes)
	}

	descs, err := parseSceneJSON(raw)
	if err != nil {
		log.Printf("[scenes] could not parse model output (%v) - using keyword fallback", err)
		return GenerateFallback(storyText, numScenes)
	}

	valid := descs[:0]
	for _, d := range descs {
		if d.Valid() {
			valid = append(valid, d)
		}
	}
	if len(valid) < 2 {
		log.Printf("[scenes] only %d valid scenes from model - using keyword fallback", len(valid))
		return GenerateFallback(storyText, numScenes)
	}

	return valid
}

func (e *Extractor) generate(ctx context.Context, prompt string, temperature float64, numPredict int) (string, error) {
	body, err := json.Marshal(ollamaRequest{
		Model:  e.Model,
		Prompt: prompt,
		Stream: false,
		Options: map[string]any{
			"temperature": temperature,
			"num_predict": numPredict,
		},
	})
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.URL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned %s", resp.Status)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return out.Response, nil
}

// GenerateText runs a free-form prompt. Used by the reaction planner.
func (e *Extractor) GenerateText(ctx context.Context, prompt string, temperature float64, numPredict int) (string, error) {
	return e.generate(ctx, prompt, temperature, numPredict)
}

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\[.*?\\])\\s*```")

// parseSceneJSON digs a JSON array out of whatever the model returned:
// a bare array, an array inside a markdown code fence, or an array
// buried in surrounding prose.
func parseSceneJSON(text string) ([]Description, error) {
	text = strings.TrimSpace(text)

	var descs []Description
	if err := json.Unmarshal([]byte(text), &descs); err == nil {
		return descs, nil
	}

	if m := codeBlockRe.FindStringSubmatch(text); m != nil {
		if err := json.Unmarshal([]byte(m[1]), &descs); err == nil {
			return descs, nil
		}
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end > start {
		if err := json.Unmarshal([]byte(text[start:end+1]), &descs); err == nil {
			return descs, nil
		}
	}

	snippet := text
	if len(snippet) > 200 {
		snippet = snippet[:200] + "..."
	}
	return nil, fmt.Errorf("no JSON array in model response: %s", snippet)
}

func buildScenePrompt(storyText string, numScenes int) string {
	return fmt.Sprintf(`You are a visual scene director for narrative videos. Given a story, break it into %d visual scenes.

For each scene, provide:
1. "summary" - One sentence summarizing what happens in this scene
2. "image_prompt" - A detailed Stable Diffusion prompt for the background image. Focus on ENVIRONMENTS, LIGHTING, and MOOD. Never describe specific people or faces. Use cinematic photography terms.
3. "start_word" - Approximate word number where this scene begins (0-indexed from the start of the story)
4. "mood" - One of: calm, tense, angry, sad, happy, dramatic, mysterious, chaotic

Rules:
- Scenes should cover the entire story from start to finish
- Scenes should be roughly equal in word count, but natural story beats take priority
- Image prompts must be 20-40 words
- Focus on settings: rooms, outdoor scenes, weather, time of day, lighting
- Never include text, logos, or UI elements in prompts
- Always append quality tags: "cinematic lighting, photorealistic, 4k, detailed"
- For emotional moments, describe the environment reflecting the mood

Story:
%s

Return ONLY a valid JSON array, no markdown, no explanation. Example format:
[
  {
    "summary": "The narrator arrives home to find the door unlocked",
    "image_prompt": "dark suburban house exterior at dusk, unlocked front door slightly ajar, warm light spilling out, ominous atmosphere, cinematic lighting, photorealistic, 4k",
    "start_word": 0,
    "mood": "mysterious"
  }
]`, numScenes, storyText)
}
