package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"dupsweep/internal/config"
	"dupsweep/internal/domain"
	"dupsweep/internal/services"
	"dupsweep/internal/session"
)

func NewCLI() *cli.App {
	return &cli.App{
		Name:      "dupsweep",
		Usage:     "Find files that share a name and size and delete the copies you don't need",
		UsageText: "dupsweep [global options] [command [command options]]",
		Flags:     config.Flags(),
		Action:    tuiAction,
		Commands:  []*cli.Command{reportCmd},
	}
}

var reportCmd = &cli.Command{
	Name:  "report",
	Usage: "Scan without the interface and print the duplicate groups",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Print the report as JSON",
		},
	},
	Action: reportAction,
}

type loaded struct {
	cfg     config.Config
	logger  *zap.Logger
	warning string
}

func load(ctx *cli.Context) (loaded, error) {
	cfg, err := config.Load(ctx)
	var warning string
	if err != nil {
		if !errors.Is(err, config.ErrConfigFile) {
			return loaded{}, err
		}
		warning = fmt.Sprintf("Config warning: using defaults (%v)", err)
	}
	logger, err := NewLogger(cfg)
	if err != nil {
		return loaded{}, fmt.Errorf("log file: %w", err)
	}
	if warning != "" {
		logger.Warn("config file ignored", zap.String("reason", warning))
	}
	return loaded{cfg: cfg, logger: logger, warning: warning}, nil
}

func tuiAction(ctx *cli.Context) error {
	setup, err := load(ctx)
	if err != nil {
		return err
	}
	defer setup.logger.Sync() //nolint:errcheck

	save := settingsSaver(ctx.String(config.FlagConfig), setup.warning != "")
	return RunTUI(setup.cfg, setup.logger, setup.warning, save)
}

// settingsSaver returns nil when the config file could not be loaded so a
// broken file is never replaced on exit.
func settingsSaver(path string, loadFailed bool) func(config.Config) error {
	if loadFailed {
		return nil
	}
	if path == "" {
		return config.SaveSettings
	}
	return func(cfg config.Config) error { return config.SaveSettingsTo(path, cfg) }
}

func reportAction(ctx *cli.Context) error {
	setup, err := load(ctx)
	if err != nil {
		return err
	}
	defer setup.logger.Sync() //nolint:errcheck

	sess := newSession(setup.cfg, setup.logger)
	summary, scanErr := sess.Scan(ctx.Context, setup.cfg.ScanConfiguration(), nil)
	groups := sess.Groups(setup.cfg.SortMode)

	out := ctx.App.Writer
	if ctx.Bool("json") {
		result := services.ScanResult{
			ScanID:   summary.ScanID,
			Roots:    summary.Roots,
			Files:    summary.Files,
			Dirs:     summary.Dirs,
			Duration: summary.Duration,
		}
		if err := services.WriteReport(out, services.BuildReport(result, summary.MinSize, groups, scanErr)); err != nil {
			return err
		}
	} else if err := writeText(out, summary, groups); err != nil {
		return err
	}
	if scanErr != nil {
		return fmt.Errorf("scan incomplete: %w", scanErr)
	}
	return nil
}

var (
	groupStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
)

func writeText(w io.Writer, summary session.ScanSummary, groups []domain.DuplicateGroup) error {
	var reclaimable uint64
	copies := 0
	for _, group := range groups {
		reclaimable += group.Reclaimable()
		copies += len(group.Members) - 1
		header := fmt.Sprintf("%s  %s  x%d", group.Key.Name, domain.FormatSize(group.Key.Size), len(group.Members))
		if _, err := fmt.Fprintln(w, groupStyle.Render(header)); err != nil {
			return err
		}
		for _, member := range group.Members {
			if _, err := fmt.Fprintf(w, "  %s\n", member.Path); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	footer := fmt.Sprintf("%d groups, %d redundant copies, %s reclaimable (scanned %d files in %s)",
		len(groups), copies, domain.FormatSize(reclaimable), summary.Files, summary.Duration)
	if _, err := fmt.Fprintln(w, mutedStyle.Render(footer)); err != nil {
		return err
	}
	if summary.Err != nil {
		if _, err := fmt.Fprintln(w, warnStyle.Render("incomplete: "+summary.Err.Error())); err != nil {
			return err
		}
	}
	return nil
}
