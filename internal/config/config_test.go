package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedDefaultMatchesHardcoded(t *testing.T) {
	embedded := embeddedDefault()
	hard := DefaultConfig()

	assert.Equal(t, hard.Timing, embedded.Timing)
	assert.Equal(t, hard.Scoring, embedded.Scoring)
	assert.Equal(t, hard.Clock, embedded.Clock)
	assert.Equal(t, hard.Input.Keys, embedded.Input.Keys)
	assert.Equal(t, hard.Audio.EndLoseVolume, embedded.Audio.EndLoseVolume)
	assert.Equal(t, hard.Audio.MaxPitch, embedded.Audio.MaxPitch)

	for key, task := range hard.Tasks {
		got, ok := embedded.Tasks[key]
		require.True(t, ok, "embedded config is missing task %q", key)
		assert.Equal(t, task.Input, got.Input, "task %q input", key)
		assert.Equal(t, task.Image, got.Image, "task %q image", key)
	}
}

func TestDefaultsValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.NoError(t, embeddedDefault().Validate())
}

func TestValidateRejectsBadTunables(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero fail time", func(c *Config) { c.Timing.FailTime = 0 }},
		{"minimum above fail time", func(c *Config) { c.Timing.MinimumFailTime = 7 * time.Second }},
		{"negative reduce rate", func(c *Config) { c.Timing.FailTimeReduceRate = -time.Second }},
		{"zero success time", func(c *Config) { c.Timing.SuccessTime = 0 }},
		{"threshold below minimum", func(c *Config) { c.Scoring.WinThreshold = 0 }},
		{"loud end lose", func(c *Config) { c.Audio.EndLoseVolume = 2 }},
		{"pitch below one", func(c *Config) { c.Audio.MaxPitch = 0.5 }},
		{"missing task", func(c *Config) { delete(c.Tasks, TaskPulse) }},
		{"unknown image", func(c *Config) {
			task := c.Tasks[TaskCPR]
			task.Image = "nope"
			c.Tasks[TaskCPR] = task
		}},
		{"unknown clip", func(c *Config) {
			task := c.Tasks[TaskCPR]
			task.Clips = []string{"nope"}
			c.Tasks[TaskCPR] = task
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("timing:\n  fail_time: 9s\nscoring:\n  win_threshold: 5\n")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9*time.Second, cfg.Timing.FailTime)
	assert.Equal(t, 5, cfg.Scoring.WinThreshold)
	// Untouched keys keep their defaults
	assert.Equal(t, 1500*time.Millisecond, cfg.Timing.MinimumFailTime)
	assert.Contains(t, cfg.Tasks, TaskCPR)
}

func TestLoadCustomPathErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("timing: [unclosed"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadSearchPath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	// Nothing on the search path: embedded default
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 6*time.Second, cfg.Timing.FailTime)

	// Local configs directory overlays the default
	require.NoError(t, os.MkdirAll("configs", 0o755))
	data := []byte("scoring:\n  win_threshold: 7\n")
	require.NoError(t, os.WriteFile(filepath.Join("configs", fileName), data, 0o600))

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Scoring.WinThreshold)
	assert.Equal(t, 6*time.Second, cfg.Timing.FailTime)
}

func TestOverlayLeavesBaseUntouched(t *testing.T) {
	base := embeddedDefault()
	_, ok := overlay(base, []byte("images:\n  cpr: replaced\n"))
	require.True(t, ok)

	assert.NotEqual(t, "replaced", base.Images["cpr"])
}

func TestDifficultyPresets(t *testing.T) {
	tests := []struct {
		preset      DifficultyPreset
		failTime    time.Duration
		reduceRate  time.Duration
		minimumTime time.Duration
	}{
		{DifficultyEasy, 8 * time.Second, 200 * time.Millisecond, 2 * time.Second},
		{DifficultyNormal, 6 * time.Second, 250 * time.Millisecond, 1500 * time.Millisecond},
		{DifficultyHard, 5 * time.Second, 350 * time.Millisecond, 1500 * time.Millisecond},
		{DifficultyFixed, 6 * time.Second, 0, 1500 * time.Millisecond},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultConfig()
			ApplyDifficultyPreset(&cfg, tc.preset)

			assert.Equal(t, tc.failTime, cfg.Timing.FailTime)
			assert.Equal(t, tc.reduceRate, cfg.Timing.FailTimeReduceRate)
			assert.Equal(t, tc.minimumTime, cfg.Timing.MinimumFailTime)
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestParseDifficultyPreset(t *testing.T) {
	p, err := ParseDifficultyPreset("")
	require.NoError(t, err)
	assert.Equal(t, DifficultyNormal, p)

	p, err = ParseDifficultyPreset("hard")
	require.NoError(t, err)
	assert.Equal(t, DifficultyHard, p)

	_, err = ParseDifficultyPreset("nightmare")
	assert.Error(t, err)
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), "fail_time: 6s")
}
