// Package session owns the duplicate index for one user session and is the
// only entry point the presentation layer uses. All methods are safe to call
// from multiple goroutines; a scan or removal holds the session until it is
// done.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dupsweep/internal/domain"
	"dupsweep/internal/index"
	"dupsweep/internal/services"
)

type ScanSummary struct {
	ScanID   string
	Roots    []string
	MinSize  uint64
	Files    int64
	Dirs     int64
	Groups   int
	Duration time.Duration
	Err      error
}

type Session struct {
	mu       sync.Mutex
	index    *index.Index
	scanner  services.Scanner
	remover  index.Remover
	logger   *zap.Logger
	workers  int
	safeMode bool
	last     ScanSummary
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithWorkers bounds the number of directories read in parallel.
func WithWorkers(workers int) Option {
	return func(s *Session) {
		s.workers = workers
	}
}

// WithSafeMode refuses to delete files below system directories.
func WithSafeMode(enabled bool) Option {
	return func(s *Session) {
		s.safeMode = enabled
	}
}

// WithScanner replaces the filesystem scanner.
func WithScanner(scanner services.Scanner) Option {
	return func(s *Session) {
		s.scanner = scanner
	}
}

// WithRemover replaces the filesystem remover.
func WithRemover(remover index.Remover) Option {
	return func(s *Session) {
		s.remover = remover
	}
}

func New(filesystem billy.Filesystem, opts ...Option) *Session {
	s := &Session{
		index:    index.New(0),
		logger:   zap.NewNop(),
		safeMode: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scanner == nil {
		s.scanner = services.NewFSScanner(filesystem, s.workers, s.logger.Named("scanner"))
	}
	if s.remover == nil {
		s.remover = services.NewFSRemover(filesystem, s.safeMode)
	}
	return s
}

// Scan replaces the current results with a fresh scan of cfg.Roots. When the
// walk fails part way, the groups found so far are kept and the error is
// returned alongside the summary.
func (s *Session) Scan(ctx context.Context, cfg domain.ScanConfiguration, progress chan<- services.ScanProgress) (ScanSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	scanID := uuid.NewString()
	logger := s.logger.With(zap.String("scan_id", scanID))
	logger.Info("scan started", zap.Strings("roots", cfg.Roots), zap.Uint64("min_size", cfg.MinSize))

	s.index.Reset()
	s.index.SetMinSize(cfg.MinSize)
	result, err := s.scanner.Scan(ctx, services.ScanRequest{
		ScanID:   scanID,
		Roots:    cfg.Roots,
		Progress: progress,
	}, s.index)
	s.index.Finish()

	summary := ScanSummary{
		ScanID:   scanID,
		Roots:    result.Roots,
		MinSize:  cfg.MinSize,
		Files:    result.Files,
		Dirs:     result.Dirs,
		Groups:   s.index.Len(),
		Duration: result.Duration,
		Err:      err,
	}
	s.last = summary

	fields := []zap.Field{
		zap.Int64("files", summary.Files),
		zap.Int("groups", summary.Groups),
		zap.Duration("duration", summary.Duration),
	}
	if err != nil {
		var scanErr *domain.ScanIOError
		if errors.As(err, &scanErr) {
			fields = append(fields, zap.String("path", scanErr.Path))
		}
		logger.Warn("scan aborted", append(fields, zap.Error(err))...)
		return summary, err
	}
	logger.Info("scan finished", fields...)
	return summary, nil
}

// ToggleMark flips the deletion mark of path and reports the new state. A
// group or member that vanished in a rescan is ignored and found is false.
func (s *Session) ToggleMark(key domain.FileKey, path string) (marked, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	marked, err := s.index.ToggleMark(key, path)
	if err != nil {
		s.logger.Debug("ignoring stale mark", zap.String("path", path), zap.Error(err))
		return false, false
	}
	return marked, true
}

func (s *Session) MarkAllButFirst() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.MarkAllButFirst()
}

func (s *Session) ClearMarks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index.ClearMarks()
}

// RemoveMarked deletes every marked file. Files not yet attempted when ctx
// is cancelled fail with the context error and stay marked.
func (s *Session) RemoveMarked(ctx context.Context) index.RemovalReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	remover := index.RemoverFunc(func(path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return s.remover.Remove(path)
	})
	report := s.index.RemoveMarked(remover)

	for _, failure := range report.Failures {
		s.logger.Warn("delete failed", zap.String("path", failure.Path), zap.Error(failure.Err))
	}
	if len(report.Deleted) > 0 || len(report.Failures) > 0 {
		s.logger.Info("removal finished",
			zap.Int("deleted", len(report.Deleted)),
			zap.Int("failed", len(report.Failures)),
			zap.Uint64("freed", report.Freed),
			zap.Int("groups", s.index.Len()),
		)
	}
	return report
}

func (s *Session) Groups(mode domain.SortMode) []domain.DuplicateGroup {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Groups(mode)
}

func (s *Session) Stats() index.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Stats()
}

func (s *Session) LastScan() ScanSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
