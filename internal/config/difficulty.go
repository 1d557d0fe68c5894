package config

import (
	"fmt"
	"time"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficultyPreset validates a preset name. Empty means normal.
func ParseDifficultyPreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", name)
	}
}

// ApplyDifficultyPreset modifies the timing based on a difficulty preset.
// Normal keeps whatever the config file says.
func ApplyDifficultyPreset(cfg *Config, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Timing.FailTime = 8 * time.Second
		cfg.Timing.FailTimeReduceRate = 200 * time.Millisecond
		cfg.Timing.MinimumFailTime = 2 * time.Second
	case DifficultyHard:
		cfg.Timing.FailTime = 5 * time.Second
		cfg.Timing.FailTimeReduceRate = 350 * time.Millisecond
		cfg.Timing.MinimumFailTime = 1500 * time.Millisecond
	case DifficultyFixed:
		cfg.Timing.FailTimeReduceRate = 0
	}
}
