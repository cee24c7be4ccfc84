package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-git/go-billy/v5/osfs"
	"go.uber.org/zap"

	"dupsweep/internal/config"
	"dupsweep/internal/session"
	"dupsweep/internal/state"
	"dupsweep/internal/ui"
)

func newSession(cfg config.Config, logger *zap.Logger) *session.Session {
	return session.New(osfs.New("/"),
		session.WithLogger(logger),
		session.WithWorkers(cfg.Workers),
		session.WithSafeMode(cfg.SafeMode),
	)
}

// RunTUI runs the interactive duplicate browser until the user quits and
// then stores the final preferences with save.
func RunTUI(cfg config.Config, logger *zap.Logger, warning string, save func(config.Config) error) error {
	initialState := state.NewState(cfg)
	model := ui.NewModel(initialState, newSession(cfg, logger))
	model = model.WithStatus(warning)

	program := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := program.Run()
	if err != nil {
		return fmt.Errorf("dupsweep: %w", err)
	}
	if provider, ok := finalModel.(ui.ConfigProvider); ok && save != nil {
		if err := save(provider.ConfigSnapshot()); err != nil {
			logger.Warn("saving config failed", zap.Error(err))
			return fmt.Errorf("dupsweep config save: %w", err)
		}
	}
	return nil
}
