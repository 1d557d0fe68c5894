// Package config provides YAML-based game configuration loading and
// difficulty presets for the game.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config keys for the task table. The registry maps task kinds onto these.
const (
	TaskCPR             = "cpr"
	TaskPrecordialThump = "precordial_thump"
	TaskPulse           = "pulse"
	TaskStart           = "start"
	TaskSuccess         = "success"
	TaskEndLose         = "end_lose"
	TaskEndWin          = "end_win"
)

// Config contains all configuration for a round and its host.
type Config struct {
	Timing  TimingConfig          `yaml:"timing"`
	Scoring ScoringConfig         `yaml:"scoring"`
	Audio   AudioConfig           `yaml:"audio"`
	Clock   ClockConfig           `yaml:"clock"`
	Input   InputConfig           `yaml:"input"`
	Tasks   map[string]TaskConfig `yaml:"tasks"`
	Images  map[string]string     `yaml:"images"`
}

// TimingConfig defines the round clock tunables.
type TimingConfig struct {
	FailTime           time.Duration `yaml:"fail_time"`             // Base deadline of a gameplay task
	FailTimeReduceRate time.Duration `yaml:"fail_time_reduce_rate"` // Deadline shrink per success
	MinimumFailTime    time.Duration `yaml:"minimum_fail_time"`     // Floor for the shrinking deadline
	SuccessTime        time.Duration `yaml:"success_time"`          // How long the success screen stays up
	InputDebounce      time.Duration `yaml:"input_debounce"`        // Presses ignored right after a task activates
	EndIdleTimeout     time.Duration `yaml:"end_idle_timeout"`      // End screens fall back to the title after this
	ThresholdDisplay   time.Duration `yaml:"threshold_display"`     // How long a win score change stays on screen
}

// ScoringConfig defines the win condition.
type ScoringConfig struct {
	WinThreshold    int `yaml:"win_threshold"`
	MinWinThreshold int `yaml:"min_win_threshold"`
}

// AudioConfig defines clip playback.
type AudioConfig struct {
	Enabled        bool                  `yaml:"enabled"`
	EndLoseVolume  float64               `yaml:"end_lose_volume"`  // 0.0 - 1.0
	MaxPitch       float64               `yaml:"max_pitch"`        // Pitch at the deadline floor
	PitchRampStart time.Duration         `yaml:"pitch_ramp_start"` // Reduction at which pitch starts rising
	Clips          map[string]ClipConfig `yaml:"clips"`
}

// ClipConfig describes how a clip reference is produced.
// A clip with File set is decoded from a WAV file; otherwise a tone is
// synthesized from Freq, Duration and Wave.
type ClipConfig struct {
	File     string        `yaml:"file,omitempty"`
	Freq     float64       `yaml:"freq,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty"`
	Wave     string        `yaml:"wave,omitempty"` // "sine", "square", "noise"
}

// ClockConfig defines the timer visualization.
type ClockConfig struct {
	ZeroAngle float64 `yaml:"zero_angle"` // Degrees, hand position on task entry
}

// InputConfig defines key bindings and hold detection.
type InputConfig struct {
	HoldWindow time.Duration `yaml:"hold_window"`
	Keys       KeyConfig     `yaml:"keys"`
}

// KeyConfig lists the Bubble Tea key names bound to each input.
type KeyConfig struct {
	CPR             []string `yaml:"cpr"`
	PrecordialThump []string `yaml:"precordial_thump"`
	Pulse           []string `yaml:"pulse"`
	ThresholdUp     []string `yaml:"threshold_up"`
	ThresholdDown   []string `yaml:"threshold_down"`
	Restart         []string `yaml:"restart"`
	ResetHighScore  []string `yaml:"reset_high_score"`
	Quit            []string `yaml:"quit"`
}

// TaskConfig describes one task: which input resolves it and what it shows.
type TaskConfig struct {
	Input string   `yaml:"input"`
	Clips []string `yaml:"clips"`
	Image string   `yaml:"image"`
}

// Validate checks that the tunables describe a playable round.
func (c Config) Validate() error {
	var errs []error

	t := c.Timing
	if t.FailTime <= 0 {
		errs = append(errs, fmt.Errorf("timing.fail_time must be positive, got %s", t.FailTime))
	}
	if t.MinimumFailTime <= 0 || t.MinimumFailTime > t.FailTime {
		errs = append(errs, fmt.Errorf("timing.minimum_fail_time must be in (0, fail_time], got %s", t.MinimumFailTime))
	}
	if t.FailTimeReduceRate < 0 {
		errs = append(errs, fmt.Errorf("timing.fail_time_reduce_rate must not be negative, got %s", t.FailTimeReduceRate))
	}
	if t.SuccessTime <= 0 {
		errs = append(errs, fmt.Errorf("timing.success_time must be positive, got %s", t.SuccessTime))
	}
	if t.InputDebounce < 0 {
		errs = append(errs, fmt.Errorf("timing.input_debounce must not be negative, got %s", t.InputDebounce))
	}
	if t.EndIdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("timing.end_idle_timeout must be positive, got %s", t.EndIdleTimeout))
	}

	s := c.Scoring
	if s.MinWinThreshold < 1 {
		errs = append(errs, fmt.Errorf("scoring.min_win_threshold must be at least 1, got %d", s.MinWinThreshold))
	}
	if s.WinThreshold < s.MinWinThreshold {
		errs = append(errs, fmt.Errorf("scoring.win_threshold must be at least %d, got %d", s.MinWinThreshold, s.WinThreshold))
	}

	a := c.Audio
	if a.EndLoseVolume < 0 || a.EndLoseVolume > 1 {
		errs = append(errs, fmt.Errorf("audio.end_lose_volume must be in [0, 1], got %v", a.EndLoseVolume))
	}
	if a.MaxPitch < 1 {
		errs = append(errs, fmt.Errorf("audio.max_pitch must be at least 1, got %v", a.MaxPitch))
	}

	for _, key := range []string{TaskCPR, TaskPrecordialThump, TaskPulse, TaskStart, TaskSuccess, TaskEndLose, TaskEndWin} {
		task, ok := c.Tasks[key]
		if !ok {
			errs = append(errs, fmt.Errorf("tasks.%s is missing", key))
			continue
		}
		if task.Image != "" {
			if _, ok := c.Images[task.Image]; !ok {
				errs = append(errs, fmt.Errorf("tasks.%s references unknown image %q", key, task.Image))
			}
		}
		for _, clip := range task.Clips {
			if _, ok := a.Clips[clip]; !ok {
				errs = append(errs, fmt.Errorf("tasks.%s references unknown clip %q", key, clip))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid: %w", errors.Join(errs...))
	}
	return nil
}
