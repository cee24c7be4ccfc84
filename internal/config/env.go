package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"dupsweep/internal/domain"
)

const envPrefix = "dupsweep"

type envConfig struct {
	Roots    []string
	MinSize  *string `split_words:"true"`
	Workers  *int
	SafeMode *bool   `split_words:"true"`
	SortMode *string `split_words:"true"`
	Theme    *string
	LogFile  *string `split_words:"true"`
	LogLevel *string `split_words:"true"`
}

// ApplyEnv overlays DUPSWEEP_* environment variables on base.
func ApplyEnv(base Config) (Config, error) {
	var env envConfig
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return base, fmt.Errorf("environment: %w", err)
	}
	merged := base
	if len(env.Roots) > 0 {
		merged.Roots = env.Roots
	}
	if env.MinSize != nil {
		size, err := domain.ParseSize(*env.MinSize)
		if err != nil {
			return base, fmt.Errorf("environment: DUPSWEEP_MIN_SIZE: %w", err)
		}
		merged.MinSize = size
	}
	if env.Workers != nil && *env.Workers > 0 {
		merged.Workers = *env.Workers
	}
	if env.SafeMode != nil {
		merged.SafeMode = *env.SafeMode
	}
	if env.SortMode != nil {
		merged.SortMode = domain.ParseSortMode(*env.SortMode, base.SortMode)
	}
	if env.Theme != nil {
		merged.Theme = *env.Theme
	}
	if env.LogFile != nil {
		merged.LogFile = *env.LogFile
	}
	if env.LogLevel != nil {
		merged.LogLevel = *env.LogLevel
	}
	return merged, nil
}
