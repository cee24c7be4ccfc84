package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"dupsweep/internal/domain"
)

const (
	configDirName  = "dupsweep"
	configFileName = "config.json"
)

func DefaultConfig() Config {
	return Config{
		Roots:       []string{"."},
		MinSize:     0,
		Workers:     runtime.NumCPU(),
		SafeMode:    true,
		SortMode:    domain.SortBySize,
		Theme:       "dark",
		KeyBindings: map[string]string{},
		LogLevel:    "info",
	}
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

// LoadConfig reads the user's config file. A missing file yields the defaults.
func LoadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadConfigFrom(path)
}

func LoadConfigFrom(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	var stored fileConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	return mergeConfig(config, stored), nil
}

// SaveSettings stores the settings the interface can change in the user's
// config file. See SaveSettingsTo.
func SaveSettings(final Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveSettingsTo(path, final)
}

// SaveSettingsTo writes roots, min size, sort order and theme from final into
// the file at path. Every other key keeps what the file holds, so values that
// only came from flags or the environment are never persisted. A file that
// cannot be parsed is left alone and reported.
func SaveSettingsTo(path string, final Config) error {
	var stored fileConfig
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &stored); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return err
	}
	minSize := final.MinSize
	sortMode := string(final.SortMode)
	theme := final.Theme
	stored.Roots = append([]string{}, final.Roots...)
	stored.MinSize = &minSize
	stored.SortMode = &sortMode
	stored.Theme = &theme
	return writeJSON(path, stored)
}

func SaveConfigTo(path string, config Config) error {
	return writeJSON(path, config)
}

func writeJSON(path string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeConfig(base Config, stored fileConfig) Config {
	merged := base
	if len(stored.Roots) > 0 {
		merged.Roots = stored.Roots
	}
	if stored.MinSize != nil {
		merged.MinSize = *stored.MinSize
	}
	if stored.Workers != nil && *stored.Workers > 0 {
		merged.Workers = *stored.Workers
	}
	if stored.SafeMode != nil {
		merged.SafeMode = *stored.SafeMode
	}
	if stored.SortMode != nil {
		merged.SortMode = domain.ParseSortMode(*stored.SortMode, base.SortMode)
	}
	if stored.Theme != nil {
		merged.Theme = *stored.Theme
	}
	if stored.KeyBindings != nil {
		merged.KeyBindings = stored.KeyBindings
	}
	if stored.LogFile != nil {
		merged.LogFile = *stored.LogFile
	}
	if stored.LogLevel != nil {
		merged.LogLevel = *stored.LogLevel
	}
	return merged
}
