// Package trend maps an upstream analysis hand-off file onto a generator
// config. It runs strictly at configuration time; a live simulation never
// sees trend data.
package trend

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/san-kum/ringfall/internal/config"
)

// TrendData is the JSON contract with the upstream trend-analysis stage.
type TrendData struct {
	ColorPalette  []string `json:"color_palette"`
	BeatFrequency float64  `json:"beat_frequency"` // beats per second
	GateCount     int      `json:"gate_count"`
	GapAngle      float64  `json:"gap_angle"`
	RotationSeed  int64    `json:"rotation_seed"`
}

func Load(path string) (*TrendData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trend: reading %s: %w", path, err)
	}
	var td TrendData
	if err := json.Unmarshal(data, &td); err != nil {
		return nil, fmt.Errorf("trend: parsing %s: %w", path, err)
	}
	return &td, nil
}

// Apply folds the trend hand-off into the config. Zero-valued fields leave
// the config untouched, so a partial hand-off is fine.
func (td *TrendData) Apply(cfg *config.Config) {
	if len(td.ColorPalette) > 0 {
		cfg.Colors = td.ColorPalette
	}
	if td.BeatFrequency > 0 {
		// One quarter turn per beat.
		cfg.Gates.RotationSpeed = 360 / (1 / td.BeatFrequency) / 4
	}
	if td.GateCount > 0 {
		cfg.Gates.Count = td.GateCount
	}
	if td.GapAngle > 0 {
		cfg.Gates.GapWidth = td.GapAngle
	}
	if td.RotationSeed != 0 {
		cfg.Seed = td.RotationSeed
	}
}
