package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the single value object threaded through the pipeline.
// Components take the numbers they need at construction time; nothing
// reads process-wide mutable state after startup.
type Config struct {
	// Output format. Vertical 9:16 short-form by default.
	Width  int
	Height int
	FPS    int

	// Narration / caption timing.
	SpeakingRate     float64 // words per second, heuristic fallback only
	MinBeatDuration  float64 // reaction-overlay segment floor, seconds
	MinSceneDuration float64
	TargetScenes     int
	CrossfadeDur     float64

	// Header card.
	HeaderAuthor    string
	HeaderLogoPath  string
	SequentialIntro bool // header first, then narration; false overlays them

	// Collaborators.
	Voice       string
	OllamaURL   string
	OllamaModel string
	TenorKey    string

	// Directories.
	BackgroundDir string
	ScenesDir     string
	ReactionsDir  string
	OutputDir     string
	StatePath     string

	// Reddit source.
	Subreddit    string
	StoryLimit   int
	MaxStoryLen  int
	MinStoryLen  int
	MinScore     int
	MaxWords     int
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string

	// Encoding.
	VideoEncoder string
	Quality      int
	Workers      int

	// Upload.
	UploadEnabled     bool
	YouTubeSecretFile string
	YouTubeTokenFile  string
	PrivacyStatus     string
}

// Load reads an optional .env file and builds the Config from the
// environment with sane defaults for everything but credentials.
func Load() (*Config, error) {
	// Missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := &Config{
		Width:  720,
		Height: 1280,
		FPS:    24,

		SpeakingRate:     2.2,
		MinBeatDuration:  4.0,
		MinSceneDuration: 3.0,
		TargetScenes:     7,
		CrossfadeDur:     0.5,

		HeaderAuthor:    envStr("HEADER_AUTHOR", "u/BrokenStories"),
		HeaderLogoPath:  envStr("HEADER_LOGO", "logo/reddit_logo.png"),
		SequentialIntro: envBool("SEQUENTIAL_INTRO", true),

		Voice:       envStr("TTS_VOICE", "en-US-JennyNeural"),
		OllamaURL:   envStr("OLLAMA_URL", "http://localhost:11434/api/generate"),
		OllamaModel: envStr("OLLAMA_MODEL", "llama3.2:latest"),
		TenorKey:    envStr("TENOR_KEY", ""),

		BackgroundDir: envStr("BACKGROUND_DIR", "gameplay_videos"),
		ScenesDir:     envStr("SCENES_DIR", "generated_scenes"),
		ReactionsDir:  envStr("REACTIONS_DIR", "dog_reactions"),
		OutputDir:     envStr("OUTPUT_DIR", "output_videos"),
		StatePath:     envStr("STATE_PATH", "processed_posts.yaml"),

		Subreddit:    envStr("SUBREDDIT", "AmItheAsshole"),
		StoryLimit:   envInt("STORY_LIMIT", 2),
		MaxStoryLen:  2000,
		MinStoryLen:  100,
		MinScore:     5,
		MaxWords:     250,
		ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		Username:     os.Getenv("REDDIT_USERNAME"),
		Password:     os.Getenv("REDDIT_PASSWORD"),
		UserAgent:    envStr("REDDIT_USER_AGENT", "story-video-generator/1.0"),

		VideoEncoder: envStr("VIDEO_ENCODER", ""),
		Quality:      envInt("QUALITY", 0),
		Workers:      envInt("WORKERS", runtime.NumCPU()),

		UploadEnabled:     envBool("UPLOAD_ENABLED", false),
		YouTubeSecretFile: envStr("YOUTUBE_CLIENT_SECRET", "client_secret.json"),
		YouTubeTokenFile:  envStr("YOUTUBE_TOKEN", "youtube_token.json"),
		PrivacyStatus:     envStr("YOUTUBE_PRIVACY", "private"),
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.FPS <= 0 {
		return nil, fmt.Errorf("invalid output format %dx%d@%d", cfg.Width, cfg.Height, cfg.FPS)
	}
	return cfg, nil
}

// FramePeriod returns the minimum schedulable granularity, 1/fps.
func (c *Config) FramePeriod() float64 {
	return 1.0 / float64(c.FPS)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
