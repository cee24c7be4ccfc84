package app

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"dupsweep/internal/config"
)

// NewLogger writes JSON logs to cfg.LogFile. Without a log file nothing is
// logged: the TUI owns the terminal.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	if cfg.LogFile == "" {
		return zap.NewNop(), nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig := zap.NewProductionConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{cfg.LogFile}
	zapConfig.ErrorOutputPaths = []string{cfg.LogFile}
	return zapConfig.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}
