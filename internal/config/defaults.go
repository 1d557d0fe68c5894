package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/ruffday.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration.
// It mirrors defaults/ruffday.yaml and is used when the embedded YAML cannot
// be parsed.
func DefaultConfig() Config {
	return Config{
		Timing: TimingConfig{
			FailTime:           6 * time.Second,
			FailTimeReduceRate: 250 * time.Millisecond,
			MinimumFailTime:    1500 * time.Millisecond,
			SuccessTime:        time.Second,
			InputDebounce:      300 * time.Millisecond,
			EndIdleTimeout:     25 * time.Second,
			ThresholdDisplay:   time.Second,
		},
		Scoring: ScoringConfig{
			WinThreshold:    20,
			MinWinThreshold: 1,
		},
		Audio: AudioConfig{
			Enabled:        true,
			EndLoseVolume:  0.5,
			MaxPitch:       1.3,
			PitchRampStart: time.Second,
			Clips: map[string]ClipConfig{
				"cpr-1":      {Freq: 440, Duration: 180 * time.Millisecond, Wave: "square"},
				"thump-1":    {Freq: 110, Duration: 250 * time.Millisecond, Wave: "noise"},
				"pulse-1":    {Freq: 660, Duration: 120 * time.Millisecond, Wave: "sine"},
				"start-1":    {Freq: 523, Duration: 400 * time.Millisecond, Wave: "sine"},
				"success-1":  {Freq: 784, Duration: 150 * time.Millisecond, Wave: "sine"},
				"end-lose-1": {Freq: 147, Duration: 700 * time.Millisecond, Wave: "square"},
				"end-win-1":  {Freq: 1047, Duration: 500 * time.Millisecond, Wave: "sine"},
			},
		},
		Clock: ClockConfig{
			ZeroAngle: 90,
		},
		Input: InputConfig{
			HoldWindow: 600 * time.Millisecond,
			Keys: KeyConfig{
				CPR:             []string{"c"},
				PrecordialThump: []string{"t"},
				Pulse:           []string{"p"},
				ThresholdUp:     []string{"+", "="},
				ThresholdDown:   []string{"-", "_"},
				Restart:         []string{"r"},
				ResetHighScore:  []string{"ctrl+r"},
				Quit:            []string{"q", "esc", "ctrl+c"},
			},
		},
		Tasks: map[string]TaskConfig{
			TaskCPR:             {Input: "cpr", Clips: []string{"cpr-1"}, Image: "cpr"},
			TaskPrecordialThump: {Input: "thump", Clips: []string{"thump-1"}, Image: "thump"},
			TaskPulse:           {Input: "pulse", Clips: []string{"pulse-1"}, Image: "pulse"},
			TaskStart:           {Input: "thump", Clips: []string{"start-1"}},
			TaskSuccess:         {Input: "none", Clips: []string{"success-1"}, Image: "success"},
			TaskEndLose:         {Input: "thump", Clips: []string{"end-lose-1"}},
			TaskEndWin:          {Input: "thump", Clips: []string{"end-win-1"}},
		},
		Images: map[string]string{
			"cpr":     "PUSH! PUSH! PUSH!\n[ C ]  CPR",
			"thump":   "THUMP!\n[ T ]  Precordial thump",
			"pulse":   "...is it beating?\n[ P ]  Check pulse",
			"success": "GOOD BOY!",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
