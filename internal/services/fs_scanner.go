package services

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-git/go-billy/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dupsweep/internal/domain"
)

const progressEvery = 200

// FSScanner walks directory trees on a billy filesystem. Directories are
// read by a bounded pool of goroutines; records are funnelled to a single
// consumer so the sink never sees concurrent calls.
type FSScanner struct {
	fs      billy.Filesystem
	workers int
	logger  *zap.Logger
}

func NewFSScanner(filesystem billy.Filesystem, workers int, logger *zap.Logger) *FSScanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FSScanner{
		fs:      filesystem,
		workers: workers,
		logger:  logger,
	}
}

type walker struct {
	fs      billy.Filesystem
	ctx     context.Context
	group   *errgroup.Group
	records chan<- domain.FileRecord
	dirs    atomic.Int64
	logger  *zap.Logger
}

// Scan delivers every regular file below req.Roots to sink. The first
// directory that cannot be read stops the walk and is returned as a
// *domain.ScanIOError; records already delivered stay with the sink.
func (scanner *FSScanner) Scan(ctx context.Context, req ScanRequest, sink RecordSink) (ScanResult, error) {
	start := time.Now()
	roots := NormalizeRoots(req.Roots)
	records := make(chan domain.FileRecord, scanner.workers*8)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(scanner.workers)
	walk := &walker{
		fs:      scanner.fs,
		ctx:     groupCtx,
		group:   group,
		records: records,
		logger:  scanner.logger,
	}
	group.Go(func() error {
		for _, root := range roots {
			if err := walk.walkRoot(root); err != nil {
				return err
			}
		}
		return nil
	})

	walkDone := make(chan error, 1)
	go func() {
		walkDone <- group.Wait()
		close(records)
	}()

	var files int64
	for record := range records {
		sink.Ingest(record)
		files++
		if files%progressEvery == 0 {
			progressNonBlocking(req.Progress, ScanProgress{ScanID: req.ScanID, Scanned: files, Current: record.Path})
		}
	}
	walkErr := <-walkDone
	progressNonBlocking(req.Progress, ScanProgress{ScanID: req.ScanID, Scanned: files})

	result := ScanResult{
		ScanID:   req.ScanID,
		Roots:    roots,
		Files:    files,
		Dirs:     walk.dirs.Load(),
		Duration: time.Since(start),
	}
	return result, walkErr
}

func (walk *walker) walkRoot(root string) error {
	info, err := walk.fs.Stat(root)
	if err != nil {
		walk.logger.Debug("skipping root", zap.String("path", root), zap.Error(err))
		return nil
	}
	if !info.IsDir() {
		walk.logger.Debug("skipping root that is not a directory", zap.String("path", root))
		return nil
	}
	return walk.walkDir(root)
}

func (walk *walker) walkDir(dir string) error {
	if err := walk.ctx.Err(); err != nil {
		return err
	}
	entries, err := walk.fs.ReadDir(dir)
	if err != nil {
		return &domain.ScanIOError{Path: dir, Err: err}
	}
	walk.dirs.Add(1)
	for _, entry := range entries {
		path := walk.fs.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			if walk.group.TryGo(func() error { return walk.walkDir(path) }) {
				continue
			}
			if err := walk.walkDir(path); err != nil {
				return err
			}
		case entry.Mode().IsRegular():
			if err := walk.emit(fileRecord(path, entry)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (walk *walker) emit(record domain.FileRecord) error {
	select {
	case walk.records <- record:
		return nil
	case <-walk.ctx.Done():
		return walk.ctx.Err()
	}
}

func fileRecord(path string, info os.FileInfo) domain.FileRecord {
	size := info.Size()
	if size < 0 {
		size = 0
	}
	return domain.FileRecord{
		Name: info.Name(),
		Size: uint64(size),
		Path: path,
	}
}

// NormalizeRoots makes roots absolute and drops duplicates and roots nested
// inside another root, so no file is visited twice.
func NormalizeRoots(roots []string) []string {
	cleaned := make([]string, 0, len(roots))
	seen := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		if strings.TrimSpace(root) == "" {
			continue
		}
		path := cleanPath(root)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		cleaned = append(cleaned, path)
	}
	result := make([]string, 0, len(cleaned))
	for _, path := range cleaned {
		nested := false
		for _, other := range cleaned {
			if other != path && isWithin(other, path) {
				nested = true
				break
			}
		}
		if !nested {
			result = append(result, path)
		}
	}
	return result
}

func progressNonBlocking(ch chan<- ScanProgress, msg ScanProgress) {
	if ch == nil {
		return
	}
	select {
	case ch <- msg:
	default:
	}
}

func isWithin(root, path string) bool {
	if root == path {
		return true
	}
	rootWithSep := root
	if !strings.HasSuffix(rootWithSep, string(filepath.Separator)) {
		rootWithSep += string(filepath.Separator)
	}
	return strings.HasPrefix(path, rootWithSep)
}

func cleanPath(path string) string {
	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return clean
	}
	return abs
}
