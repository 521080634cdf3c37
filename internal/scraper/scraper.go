// Package scraper pulls candidate stories from Reddit and prepares the
// text for narration.
package scraper

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/vartanbeno/go-reddit/v2/reddit"
)

// Story is a scraped post that survived the quality filters.
type Story struct {
	ID        string
	Title     string
	Author    string
	Subreddit string
	Content   string
	Score     int
}

// Filters decide which posts are worth narrating. Lengths are in
// characters of the post body.
type Filters struct {
	MinLength int
	MaxLength int
	MinScore  int
}

// DefaultFilters matches short-form pacing: long enough to carry a
// video, short enough to narrate in about a minute and a half.
var DefaultFilters = Filters{MinLength: 100, MaxLength: 2000, MinScore: 5}

// Scraper fetches hot posts from one subreddit.
type Scraper struct {
	client  *reddit.Client
	filters Filters
}

// New builds a scraper. With a full set of script-app credentials it
// authenticates; otherwise it uses Reddit's read-only endpoint, which
// is enough for public subreddits.
func New(clientID, clientSecret, username, password, userAgent string, filters Filters) (*Scraper, error) {
	var client *reddit.Client
	var err error

	if clientID != "" && clientSecret != "" && username != "" && password != "" {
		client, err = reddit.NewClient(reddit.Credentials{
			ID:       clientID,
			Secret:   clientSecret,
			Username: username,
			Password: password,
		}, reddit.WithUserAgent(userAgent))
	} else {
		client, err = reddit.NewReadonlyClient(reddit.WithUserAgent(userAgent))
	}
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &Scraper{client: client, filters: filters}, nil
}

// FetchStories returns up to limit filtered stories from the
// subreddit's hot listing. It over-fetches because most posts fail the
// filters.
func (s *Scraper) FetchStories(ctx context.Context, subreddit string, limit int) ([]Story, error) {
	log.Printf("[scraper] fetching r/%s", subreddit)

	posts, _, err := s.client.Subreddit.HotPosts(ctx, subreddit, &reddit.ListOptions{
		Limit: limit * 3,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", subreddit, err)
	}

	var stories []Story
	for _, post := range posts {
		if !s.usable(post) {
			continue
		}
		stories = append(stories, Story{
			ID:        post.ID,
			Title:     post.Title,
			Author:    "u/" + post.Author,
			Subreddit: post.SubredditNamePrefixed,
			Content:   post.Body,
			Score:     post.Score,
		})
		log.Printf("[scraper] candidate: %.50s... (score %d)", post.Title, post.Score)
		if len(stories) >= limit {
			break
		}
	}

	log.Printf("[scraper] %d usable stories", len(stories))
	return stories, nil
}

func (s *Scraper) usable(post *reddit.Post) bool {
	if post.Stickied || post.NSFW {
		return false
	}
	body := len(post.Body)
	return body > s.filters.MinLength &&
		body < s.filters.MaxLength &&
		post.Score > s.filters.MinScore
}

var (
	urlRe        = regexp.MustCompile(`http[s]?://\S+`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`\*(.*?)\*`)
	newlineRe    = regexp.MustCompile(`\n+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// CleanForSpeech strips markdown and link noise that a TTS voice would
// read out loud. Paragraph breaks become sentence pauses.
func CleanForSpeech(text string) string {
	text = urlRe.ReplaceAllString(text, "")
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = strings.ReplaceAll(text, "&gt;", "")
	text = newlineRe.ReplaceAllString(text, ". ")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CapWords truncates the narration to maxWords words, roughly 100
// seconds of speech. Longer stories overstay short-form attention.
func CapWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) <= maxWords {
		return text
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
