package config

import "dupsweep/internal/domain"

type Config struct {
	Roots       []string          `json:"roots"`
	MinSize     uint64            `json:"minSize"`
	Workers     int               `json:"workers"`
	SafeMode    bool              `json:"safeMode"`
	SortMode    domain.SortMode   `json:"sortMode"`
	Theme       string            `json:"theme"`
	KeyBindings map[string]string `json:"keyBindings"`
	LogFile     string            `json:"logFile"`
	LogLevel    string            `json:"logLevel"`
}

// ScanConfiguration returns the part of the config a scan needs.
func (config Config) ScanConfiguration() domain.ScanConfiguration {
	return domain.ScanConfiguration{
		Roots:   append([]string{}, config.Roots...),
		MinSize: config.MinSize,
	}
}

type fileConfig struct {
	Roots       []string          `json:"roots,omitempty"`
	MinSize     *uint64           `json:"minSize,omitempty"`
	Workers     *int              `json:"workers,omitempty"`
	SafeMode    *bool             `json:"safeMode,omitempty"`
	SortMode    *string           `json:"sortMode,omitempty"`
	Theme       *string           `json:"theme,omitempty"`
	KeyBindings map[string]string `json:"keyBindings,omitempty"`
	LogFile     *string           `json:"logFile,omitempty"`
	LogLevel    *string           `json:"logLevel,omitempty"`
}
