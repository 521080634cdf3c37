// Package upload publishes finished videos to YouTube as Shorts.
package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Metadata describes one upload.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	Privacy     string // "private", "unlisted", or "public"
}

// Uploader wraps the YouTube Data API v3. Credentials come from a
// client-secret JSON plus a cached OAuth token obtained out of band;
// the pipeline itself never runs an interactive consent flow.
type Uploader struct {
	SecretFile string
	TokenFile  string
}

// New builds an uploader reading credentials from the given files.
func New(secretFile, tokenFile string) *Uploader {
	return &Uploader{SecretFile: secretFile, TokenFile: tokenFile}
}

// UploadShort uploads videoPath and returns the video ID. The #Shorts
// tag is forced into the description so YouTube shelves it correctly.
func (u *Uploader) UploadShort(ctx context.Context, videoPath string, meta Metadata) (string, error) {
	client, err := u.httpClient(ctx)
	if err != nil {
		return "", fmt.Errorf("youtube auth: %w", err)
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return "", fmt.Errorf("youtube service: %w", err)
	}

	title := meta.Title
	if len(title) > 100 {
		title = title[:100]
	}
	description := strings.TrimRight(meta.Description, "\n ")
	if !strings.Contains(description, "#Shorts") {
		description += "\n\n#Shorts"
	}
	tags := meta.Tags
	if len(tags) == 0 {
		tags = []string{"Reddit", "RedditStories", "Shorts"}
	}
	privacy := meta.Privacy
	if privacy == "" {
		privacy = "private"
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: description,
			Tags:        tags,
			CategoryId:  "22", // People & Blogs
		},
		Status: &youtube.VideoStatus{PrivacyStatus: privacy},
	}

	f, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("open video: %w", err)
	}
	defer f.Close()

	if fi, err := f.Stat(); err == nil {
		log.Printf("[upload] uploading %q (%.1f MB)", title, float64(fi.Size())/1024/1024)
	}

	uploaded, err := svc.Videos.Insert([]string{"snippet", "status"}, video).Media(f).Do()
	if err != nil {
		return "", fmt.Errorf("youtube upload: %w", err)
	}

	log.Printf("[upload] done: https://www.youtube.com/shorts/%s", uploaded.Id)
	return uploaded.Id, nil
}

// Publish flips an already-uploaded video to public.
func (u *Uploader) Publish(ctx context.Context, videoID string) error {
	client, err := u.httpClient(ctx)
	if err != nil {
		return fmt.Errorf("youtube auth: %w", err)
	}
	svc, err := youtube.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return fmt.Errorf("youtube service: %w", err)
	}

	_, err = svc.Videos.Update([]string{"status"}, &youtube.Video{
		Id:     videoID,
		Status: &youtube.VideoStatus{PrivacyStatus: "public"},
	}).Do()
	if err != nil {
		return fmt.Errorf("publish %s: %w", videoID, err)
	}
	return nil
}

func (u *Uploader) httpClient(ctx context.Context) (*http.Client, error) {
	secret, err := os.ReadFile(u.SecretFile)
	if err != nil {
		return nil, fmt.Errorf("read client secret: %w", err)
	}
	conf, err := google.ConfigFromJSON(secret, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("parse client secret: %w", err)
	}

	token, err := readToken(u.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("no cached token (%v); authorize once with a consent flow and save it to %s", err, u.TokenFile)
	}

	source := conf.TokenSource(ctx, token)
	// Persist a refreshed token so the next run skips the refresh.
	if fresh, err := source.Token(); err == nil && fresh.AccessToken != token.AccessToken {
		if err := writeToken(u.TokenFile, fresh); err != nil {
			log.Printf("[upload] could not cache refreshed token: %v", err)
		}
	}

	return oauth2.NewClient(ctx, source), nil
}

func readToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func writeToken(path string, token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
