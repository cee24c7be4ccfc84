package services

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
)

var (
	ErrCriticalPath   = errors.New("blocked critical path")
	ErrNotRegularFile = errors.New("not a regular file")
)

var criticalRoots = []string{"/bin", "/boot", "/etc", "/lib", "/sbin", "/usr", "/var"}

// FSRemover deletes single regular files from a billy filesystem. It never
// removes directories or follows symbolic links.
type FSRemover struct {
	fs       billy.Filesystem
	safeMode bool
}

func NewFSRemover(filesystem billy.Filesystem, safeMode bool) *FSRemover {
	return &FSRemover{fs: filesystem, safeMode: safeMode}
}

func (remover *FSRemover) Remove(path string) error {
	if remover.safeMode && isCriticalPath(path) {
		return fmt.Errorf("%w: %s", ErrCriticalPath, path)
	}
	info, err := remover.fs.Lstat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s", ErrNotRegularFile, path)
	}
	return remover.fs.Remove(path)
}

func isCriticalPath(path string) bool {
	path = filepath.Clean(path)
	for _, root := range criticalRoots {
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
