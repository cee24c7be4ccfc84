package domain

// FileRecord is one regular file visited during a scan. Path locates the
// file but never takes part in its identity.
type FileRecord struct {
	Name string
	Size uint64
	Path string
}

// Key returns the duplicate identity of the record.
func (record FileRecord) Key() FileKey {
	return FileKey{Name: record.Name, Size: record.Size}
}

// FileKey groups files that are treated as copies of each other: same base
// name and same byte length, regardless of content or location.
type FileKey struct {
	Name string
	Size uint64
}

type Member struct {
	Path   string
	Marked bool
}

// DuplicateGroup holds every path sharing Key. Groups with fewer than two
// members are never published.
type DuplicateGroup struct {
	Key     FileKey
	Members []Member
}

func (group DuplicateGroup) MarkedCount() int {
	count := 0
	for _, member := range group.Members {
		if member.Marked {
			count++
		}
	}
	return count
}

// Reclaimable is the number of bytes freed by keeping a single copy.
func (group DuplicateGroup) Reclaimable() uint64 {
	if len(group.Members) < 2 {
		return 0
	}
	return group.Key.Size * uint64(len(group.Members)-1)
}

// ScanConfiguration is supplied before each scan. Files strictly smaller
// than MinSize are ignored.
type ScanConfiguration struct {
	Roots   []string
	MinSize uint64
}
