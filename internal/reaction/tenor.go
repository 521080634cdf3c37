package reaction

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Tenor's published demo key; works for low-volume anonymous use.
const defaultTenorKey = "LIVDSRZULELA"

// Clips under this size are error pages or truncated downloads.
const minClipBytes = 500

// Fetcher pulls reaction clips from the Tenor search API and keeps a
// per-query cache on disk so repeated runs stop hitting the network.
type Fetcher struct {
	Key      string
	CacheDir string
	Client   *http.Client
	rng      *rand.Rand
}

// NewFetcher builds a Tenor fetcher caching under cacheDir.
func NewFetcher(key, cacheDir string, rng *rand.Rand) *Fetcher {
	if key == "" {
		key = defaultTenorKey
	}
	return &Fetcher{
		Key:      key,
		CacheDir: cacheDir,
		Client:   &http.Client{Timeout: 30 * time.Second},
		rng:      rng,
	}
}

var cacheKeyRe = regexp.MustCompile(`[^a-z0-9]+`)

// cacheKey turns a search query into a safe folder name.
func cacheKey(query string) string {
	key := cacheKeyRe.ReplaceAllString(strings.ToLower(query), "_")
	key = strings.Trim(key, "_")
	if len(key) > 60 {
		key = key[:60]
	}
	return key
}

// Get returns a local clip path for query: cache first, then a Tenor
// fetch. Returns an empty path with a nil error when nothing matched;
// the planner falls back to its emotion library.
func (f *Fetcher) Get(query string) (string, error) {
	if cached := f.cached(query); cached != "" {
		return cached, nil
	}
	return f.fetch(query)
}

func (f *Fetcher) cached(query string) string {
	folder := filepath.Join(f.CacheDir, cacheKey(query))
	files := listMedia(folder)
	if len(files) == 0 {
		return ""
	}
	return files[f.rng.Intn(len(files))]
}

type tenorResponse struct {
	Results []struct {
		Media []map[string]struct {
			URL string `json:"url"`
		} `json:"media"`
	} `json:"results"`
}

func (f *Fetcher) fetch(query string) (string, error) {
	folder := filepath.Join(f.CacheDir, cacheKey(query))
	if err := os.MkdirAll(folder, 0755); err != nil {
		return "", err
	}

	// "real" keeps results to actual animals instead of cartoons.
	q := query
	if !strings.HasPrefix(q, "real ") {
		q = "real " + q
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("key", f.Key)
	params.Set("limit", "5")
	params.Set("contentfilter", "high")
	params.Set("media_filter", "minimal")

	resp, err := f.Client.Get("https://api.tenor.com/v1/search?" + params.Encode())
	if err != nil {
		return "", fmt.Errorf("tenor search %q: %w", query, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("tenor search %q: status %s", query, resp.Status)
	}

	var parsed tenorResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("tenor search %q: %w", query, err)
	}

	var saved []string
	for i, item := range parsed.Results {
		if i >= 5 || len(item.Media) == 0 {
			break
		}
		mp4, ok := item.Media[0]["mp4"]
		if !ok || mp4.URL == "" {
			continue
		}
		dest := filepath.Join(folder, fmt.Sprintf("clip_%d.mp4", i))
		if err := f.download(mp4.URL, dest); err != nil {
			log.Printf("[reaction] download failed for %q: %v", query, err)
			continue
		}
		saved = append(saved, dest)
	}

	if len(saved) == 0 {
		return "", nil
	}
	log.Printf("[reaction] fetched %d clips for %q", len(saved), query)
	return saved[f.rng.Intn(len(saved))], nil
}

func (f *Fetcher) download(srcURL, dest string) error {
	resp, err := f.Client.Get(srcURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, resp.Body)
	out.Close()
	if err != nil || n < minClipBytes {
		os.Remove(dest)
		if err == nil {
			err = fmt.Errorf("truncated download (%d bytes)", n)
		}
		return err
	}
	return nil
}

// listMedia returns the usable media files in folder, sorted by name.
func listMedia(folder string) []string {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".gif", ".mp4":
			files = append(files, filepath.Join(folder, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}
