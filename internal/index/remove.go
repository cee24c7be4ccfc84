package index

import (
	"fmt"

	"go.uber.org/multierr"

	"dupsweep/internal/domain"
)

// Remover deletes a single file by path. billy.Filesystem satisfies it.
type Remover interface {
	Remove(path string) error
}

// RemoverFunc adapts a function to Remover.
type RemoverFunc func(path string) error

func (fn RemoverFunc) Remove(path string) error {
	return fn(path)
}

type RemovalReport struct {
	Deleted  []string
	Failures []*domain.DeletionError
	// Freed counts the bytes of successfully deleted files.
	Freed uint64
}

// Err combines every deletion failure, or returns nil.
func (report RemovalReport) Err() error {
	var combined error
	for _, failure := range report.Failures {
		combined = multierr.Append(combined, failure)
	}
	return combined
}

func (report RemovalReport) Summary() string {
	if len(report.Failures) == 0 {
		return fmt.Sprintf("deleted %d files (%s)", len(report.Deleted), domain.FormatSize(report.Freed))
	}
	return fmt.Sprintf("deleted %d files (%s), %d files could not be deleted", len(report.Deleted), domain.FormatSize(report.Freed), len(report.Failures))
}

// RemoveMarked deletes every marked member through remover. Each deletion is
// attempted independently. Deleted members leave their group, failed ones
// stay marked, and groups left with fewer than two members are dropped.
func (idx *Index) RemoveMarked(remover Remover) RemovalReport {
	var report RemovalReport
	survivors := idx.order[:0]
	for _, key := range idx.order {
		current := idx.groups[key]
		kept := make([]domain.Member, 0, len(current.members))
		for _, member := range current.members {
			if !member.Marked {
				kept = append(kept, member)
				continue
			}
			if err := remover.Remove(member.Path); err != nil {
				report.Failures = append(report.Failures, &domain.DeletionError{Path: member.Path, Err: err})
				kept = append(kept, member)
				continue
			}
			report.Deleted = append(report.Deleted, member.Path)
			report.Freed += key.Size
		}
		current.members = kept
		if len(kept) < 2 {
			delete(idx.groups, key)
			continue
		}
		survivors = append(survivors, key)
	}
	idx.order = survivors
	return report
}
