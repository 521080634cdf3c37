package background

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/Jacktheone617/reddit-story-video-generator/internal/system"
)

var videoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

// LoadPool scans a directory of raw footage and probes each file's
// duration. Files ffprobe can't read are logged and skipped; an empty
// result is the caller's signal that variety mode can't run.
func LoadPool(dir string) ([]Clip, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read background dir: %w", err)
	}

	var pool []Clip
	for _, entry := range entries {
		if entry.IsDir() || !isVideoFile(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		dur, err := system.ProbeDuration(path)
		if err != nil {
			log.Printf("[background] skipping %s: %v", entry.Name(), err)
			continue
		}
		pool = append(pool, Clip{Path: path, Duration: dur})
	}

	return pool, nil
}

func isVideoFile(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
