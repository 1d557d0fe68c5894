package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const fileName = "ruffday.yaml"

// Load loads the game configuration.
// Search order: customPath -> ~/.ruffday/configs/ruffday.yaml -> ./configs/ruffday.yaml -> embedded default
//
// Files found on the search path are layered over the embedded default, so a
// user file only needs the keys it changes. An explicit customPath that cannot
// be read or parsed is an error; search path misses fall through silently.
func Load(customPath string) (Config, error) {
	cfg := embeddedDefault()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	if userCfgPath := userConfigPath(fileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if parsed, ok := overlay(cfg, data); ok {
				return parsed, parsed.Validate()
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", fileName)); err == nil {
		if parsed, ok := overlay(cfg, data); ok {
			return parsed, parsed.Validate()
		}
	}

	return cfg, nil
}

// embeddedDefault parses the embedded YAML, falling back to DefaultConfig.
func embeddedDefault() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return DefaultConfig()
	}
	return cfg
}

// overlay decodes data over a copy of base. Maps are merged key by key by the
// decoder; the base maps are cloned first so the caller's copy is untouched.
func overlay(base Config, data []byte) (Config, bool) {
	cfg := base
	cfg.Tasks = cloneMap(base.Tasks)
	cfg.Images = cloneMap(base.Images)
	cfg.Audio.Clips = cloneMap(base.Audio.Clips)

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, false
	}
	return cfg, true
}

func cloneMap[V any](m map[string]V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ruffday", "configs", filename)
}

// Marshal renders a config back to YAML.
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
