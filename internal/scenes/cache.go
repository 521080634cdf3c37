package scenes

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Timeline is the persisted form of a job's scene list, cached next to
// the generated images so a re-run can skip extraction and generation.
type Timeline struct {
	JobID         string  `yaml:"job_id"`
	AudioDuration float64 `yaml:"audio_duration"`
	Scenes        []Scene `yaml:"scenes"`
}

// WriteTimeline saves a scene timeline to a YAML file.
func WriteTimeline(tl *Timeline, path string) error {
	data, err := yaml.Marshal(tl)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadTimeline loads a previously cached scene timeline.
func ReadTimeline(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tl Timeline
	if err := yaml.Unmarshal(data, &tl); err != nil {
		return nil, fmt.Errorf("parse timeline %s: %w", path, err)
	}
	return &tl, nil
}
