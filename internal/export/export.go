// Package export writes the per-job hand-off artifacts: the ordered audio
// event timeline and the video metadata, placed next to the rendered file
// for the downstream audio and publishing stages.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/san-kum/ringfall/internal/events"
)

// Metadata describes one finished render job.
type Metadata struct {
	Path       string    `json:"path"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	FPS        int       `json:"fps"`
	Duration   float64   `json:"duration"`
	FrameCount int       `json:"frame_count"`
	Codec      string    `json:"codec"`
	Seed       int64     `json:"seed"`
	Mode       string    `json:"mode"`
	Events     int       `json:"events"`
	Dropped    int64     `json:"dropped_frames"`
	CreatedAt  time.Time `json:"created_at"`
}

// WriteArtifacts stores events.json and metadata.json beside the video.
// Paths derive from the video name: out.mp4 -> out.events.json.
func WriteArtifacts(videoPath string, meta Metadata, evs []events.Event) error {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))

	if err := writeJSON(base+".events.json", evs); err != nil {
		return err
	}
	return writeJSON(base+".metadata.json", meta)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("export: encoding %s: %w", path, err)
	}
	return nil
}

// LoadMetadata reads a previously written metadata artifact.
func LoadMetadata(videoPath string) (*Metadata, error) {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	data, err := os.ReadFile(base + ".metadata.json")
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadEvents reads a previously written timeline artifact.
func LoadEvents(videoPath string) ([]events.Event, error) {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	data, err := os.ReadFile(base + ".events.json")
	if err != nil {
		return nil, err
	}
	var evs []events.Event
	if err := json.Unmarshal(data, &evs); err != nil {
		return nil, err
	}
	return evs, nil
}
