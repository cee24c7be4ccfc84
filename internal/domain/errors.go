package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by errors.Is for every NotFoundError.
var ErrNotFound = errors.New("not found")

// ScanIOError reports a directory that could not be read. It aborts the
// scan it occurred in; records ingested before it are kept.
type ScanIOError struct {
	Path string
	Err  error
}

func (err *ScanIOError) Error() string {
	return fmt.Sprintf("scan %s: %v", err.Path, err.Err)
}

func (err *ScanIOError) Unwrap() error {
	return err.Err
}

// DeletionError reports one marked file that could not be removed.
type DeletionError struct {
	Path string
	Err  error
}

func (err *DeletionError) Error() string {
	return fmt.Sprintf("delete %s: %v", err.Path, err.Err)
}

func (err *DeletionError) Unwrap() error {
	return err.Err
}

// NotFoundError is returned when a mark targets a group or member that no
// longer exists, usually because a rescan replaced the results.
type NotFoundError struct {
	Key  FileKey
	Path string
}

func (err *NotFoundError) Error() string {
	if err.Path == "" {
		return fmt.Sprintf("group %s (%d bytes): %v", err.Key.Name, err.Key.Size, ErrNotFound)
	}
	return fmt.Sprintf("member %s of group %s (%d bytes): %v", err.Path, err.Key.Name, err.Key.Size, ErrNotFound)
}

func (err *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
