package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/config"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/engine"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/reaction"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/render"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/scenes"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/scraper"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/store"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/system"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/tts"
	"github.com/Jacktheone617/reddit-story-video-generator/internal/upload"
)

func main() {
	system.InitResourceLimits()

	subredditPtr := flag.String("subreddit", "", "Subreddit to scrape (overrides SUBREDDIT)")
	limitPtr := flag.Int("limit", 0, "How many stories to process this run (overrides STORY_LIMIT)")
	seedPtr := flag.Int64("seed", 0, "Random seed (0 = time-based)")
	reprocessPtr := flag.Bool("reprocess", false, "Process posts even if already in the ledger")
	uploadPtr := flag.Bool("upload", false, "Upload finished videos to YouTube (also UPLOAD_ENABLED)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[-] config: %v", err)
	}
	if *subredditPtr != "" {
		cfg.Subreddit = *subredditPtr
	}
	if *limitPtr > 0 {
		cfg.StoryLimit = *limitPtr
	}
	if *uploadPtr {
		cfg.UploadEnabled = true
	}

	seed := *seedPtr
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := store.Open(cfg.StatePath)
	if err != nil {
		log.Fatalf("[-] state: %v", err)
	}

	src, err := scraper.New(cfg.ClientID, cfg.ClientSecret, cfg.Username, cfg.Password, cfg.UserAgent, scraper.Filters{
		MinLength: cfg.MinStoryLen,
		MaxLength: cfg.MaxStoryLen,
		MinScore:  cfg.MinScore,
	})
	if err != nil {
		log.Fatalf("[-] reddit: %v", err)
	}

	extractor := scenes.NewExtractor(cfg.OllamaModel)
	extractor.URL = cfg.OllamaURL

	fetcher := reaction.NewFetcher(cfg.TenorKey, cfg.ReactionsDir+"/cache", rng)
	planner := reaction.NewPlanner(extractor, fetcher, cfg.ReactionsDir, rng)

	encoder := render.NewEncoder(cfg.VideoEncoder, cfg.Quality)
	if encoder.Name != "libx264" {
		fmt.Printf("[*] hardware encoder: %s\n", encoder.Name)
	}

	pipeline := &engine.Pipeline{
		Cfg:       cfg,
		Rand:      rng,
		Synth:     tts.NewSynthesizer(cfg.Voice),
		Extractor: extractor,
		Reactions: planner,
		Ledger:    ledger,
		Encoder:   encoder,
	}

	stories, err := src.FetchStories(ctx, cfg.Subreddit, cfg.StoryLimit*3)
	if err != nil {
		log.Fatalf("[-] scrape: %v", err)
	}

	done := 0
	for _, st := range stories {
		if done >= cfg.StoryLimit {
			break
		}
		if !*reprocessPtr && ledger.Seen(st.ID) {
			log.Printf("[*] skipping already processed: %.40s...", st.Title)
			continue
		}

		result, err := pipeline.ProcessStory(ctx, st)
		if errors.Is(err, engine.ErrEmptyStory) {
			log.Printf("[!] skipping empty story: %.40s...", st.Title)
			continue
		}
		if err != nil {
			log.Printf("[-] job failed: %v", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		done++

		if cfg.UploadEnabled {
			uploader := upload.New(cfg.YouTubeSecretFile, cfg.YouTubeTokenFile)
			_, err := uploader.UploadShort(ctx, result.OutputPath, upload.Metadata{
				Title:   st.Title,
				Tags:    []string{"Reddit", "RedditStories", "Shorts", "AITA"},
				Privacy: cfg.PrivacyStatus,
			})
			if err != nil {
				log.Printf("[-] upload failed: %v", err)
			}
		}
	}

	if done == 0 {
		log.Println("[!] no videos produced this run")
		return
	}
	fmt.Printf("[+++] produced %d video(s) in %s\n", done, cfg.OutputDir)
}
