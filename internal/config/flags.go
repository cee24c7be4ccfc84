package config

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"dupsweep/internal/domain"
)

const (
	FlagConfig   = "config"
	FlagRoot     = "root"
	FlagMinSize  = "min-size"
	FlagWorkers  = "workers"
	FlagSafeMode = "safe-mode"
	FlagSort     = "sort"
	FlagTheme    = "theme"
	FlagLogFile  = "log-file"
	FlagLogLevel = "log-level"
)

// Flags lists the command-line flags that override the file and environment
// layers. Unset flags leave the lower layers untouched.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  FlagConfig,
			Usage: "Path to the config file (default: user config dir)",
		},
		&cli.StringSliceFlag{
			Name:    FlagRoot,
			Aliases: []string{"r"},
			Usage:   "Directory to scan, repeatable",
		},
		&cli.StringFlag{
			Name:  FlagMinSize,
			Usage: "Ignore files smaller than this (e.g. 10k, 1.5mb)",
		},
		&cli.IntFlag{
			Name:  FlagWorkers,
			Usage: "Directories read in parallel",
		},
		&cli.BoolFlag{
			Name:  FlagSafeMode,
			Usage: "Refuse to delete files below system directories",
		},
		&cli.StringFlag{
			Name:  FlagSort,
			Usage: "Group order: size, name or count",
		},
		&cli.StringFlag{
			Name:  FlagTheme,
			Usage: "Color theme: dark or light",
		},
		&cli.StringFlag{
			Name:  FlagLogFile,
			Usage: "Write JSON logs to this file",
		},
		&cli.StringFlag{
			Name:  FlagLogLevel,
			Usage: "Log level: debug, info, warn or error",
		},
	}
}

func ApplyFlags(ctx *cli.Context, base Config) (Config, error) {
	merged := base
	if ctx.IsSet(FlagRoot) {
		merged.Roots = ctx.StringSlice(FlagRoot)
	}
	if ctx.IsSet(FlagMinSize) {
		size, err := domain.ParseSize(ctx.String(FlagMinSize))
		if err != nil {
			return base, fmt.Errorf("--%s: %w", FlagMinSize, err)
		}
		merged.MinSize = size
	}
	if ctx.IsSet(FlagWorkers) {
		workers := ctx.Int(FlagWorkers)
		if workers < 1 {
			return base, fmt.Errorf("--%s must be at least 1", FlagWorkers)
		}
		merged.Workers = workers
	}
	if ctx.IsSet(FlagSafeMode) {
		merged.SafeMode = ctx.Bool(FlagSafeMode)
	}
	if ctx.IsSet(FlagSort) {
		merged.SortMode = domain.ParseSortMode(ctx.String(FlagSort), base.SortMode)
	}
	if ctx.IsSet(FlagTheme) {
		merged.Theme = ctx.String(FlagTheme)
	}
	if ctx.IsSet(FlagLogFile) {
		merged.LogFile = ctx.String(FlagLogFile)
	}
	if ctx.IsSet(FlagLogLevel) {
		merged.LogLevel = ctx.String(FlagLogLevel)
	}
	return merged, nil
}

// ErrConfigFile marks a config file that could not be read. Load still
// returns a usable config alongside it.
var ErrConfigFile = errors.New("config file")

// Load resolves the full configuration for a command: defaults, the config
// file, the environment and finally the flags.
func Load(ctx *cli.Context) (Config, error) {
	var (
		cfg     Config
		fileErr error
	)
	if path := ctx.String(FlagConfig); path != "" {
		cfg, fileErr = LoadConfigFrom(path)
	} else {
		cfg, fileErr = LoadConfig()
	}
	if fileErr != nil {
		cfg = DefaultConfig()
		fileErr = fmt.Errorf("%w: %w", ErrConfigFile, fileErr)
	}
	cfg, err := ApplyEnv(cfg)
	if err != nil {
		return cfg, err
	}
	cfg, err = ApplyFlags(ctx, cfg)
	if err != nil {
		return cfg, err
	}
	return cfg, fileErr
}
