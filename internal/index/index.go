// Package index groups scanned files by (name, size) and tracks which copies
// the user marked for deletion.
//
// An Index is not safe for concurrent use. The owner serializes Ingest calls
// coming from a scan and must not hand the Index to readers while a scan or
// removal is running; readers get deep copies through Groups.
package index

import (
	"sort"

	"dupsweep/internal/domain"
)

type group struct {
	key     domain.FileKey
	members []domain.Member
}

// Index holds the duplicate groups of the current scan keyed by name and size.
type Index struct {
	minSize uint64
	first   map[domain.FileKey]string
	groups  map[domain.FileKey]*group
	order   []domain.FileKey
}

// Stats summarizes the groups currently held by an Index.
type Stats struct {
	Groups      int
	Files       int
	Marked      int
	Reclaimable uint64
	MarkedBytes uint64
}

// New returns an empty Index that ignores files smaller than minSize.
func New(minSize uint64) *Index {
	return &Index{
		minSize: minSize,
		first:   make(map[domain.FileKey]string),
		groups:  make(map[domain.FileKey]*group),
	}
}

func (idx *Index) MinSize() uint64 {
	return idx.minSize
}

// SetMinSize only affects records ingested afterwards.
func (idx *Index) SetMinSize(minSize uint64) {
	idx.minSize = minSize
}

// Reset drops every group and the first-occurrence table. A scan always
// starts from a reset index so results never merge across scans.
func (idx *Index) Reset() {
	idx.first = make(map[domain.FileKey]string)
	idx.groups = make(map[domain.FileKey]*group)
	idx.order = nil
}

// Finish discards the first-occurrence table once a scan is over. Groups
// are kept.
func (idx *Index) Finish() {
	idx.first = make(map[domain.FileKey]string)
}

// Ingest records one scanned file. The key is promoted to a group on its
// second sighting within the current scan.
func (idx *Index) Ingest(record domain.FileRecord) {
	if record.Size < idx.minSize {
		return
	}
	key := record.Key()
	firstPath, seen := idx.first[key]
	if !seen {
		idx.first[key] = record.Path
		return
	}
	if firstPath == record.Path {
		return
	}
	existing, grouped := idx.groups[key]
	if !grouped {
		idx.groups[key] = &group{
			key: key,
			members: []domain.Member{
				{Path: firstPath},
				{Path: record.Path},
			},
		}
		idx.order = append(idx.order, key)
		return
	}
	if existing.find(record.Path) >= 0 {
		return
	}
	existing.members = append(existing.members, domain.Member{Path: record.Path})
}

// ToggleMark flips the deletion flag of path inside the group for key and
// returns the new value. A missing group or member yields a NotFoundError.
func (idx *Index) ToggleMark(key domain.FileKey, path string) (bool, error) {
	member, err := idx.member(key, path)
	if err != nil {
		return false, err
	}
	member.Marked = !member.Marked
	return member.Marked, nil
}

func (idx *Index) SetMark(key domain.FileKey, path string, marked bool) error {
	member, err := idx.member(key, path)
	if err != nil {
		return err
	}
	member.Marked = marked
	return nil
}

// MarkAllButFirst marks every member except the first of each group and
// unmarks the first, leaving exactly one copy per group.
func (idx *Index) MarkAllButFirst() int {
	marked := 0
	for _, key := range idx.order {
		current := idx.groups[key]
		for position := range current.members {
			current.members[position].Marked = position > 0
			if position > 0 {
				marked++
			}
		}
	}
	return marked
}

func (idx *Index) ClearMarks() {
	for _, current := range idx.groups {
		for position := range current.members {
			current.members[position].Marked = false
		}
	}
}

func (idx *Index) Len() int {
	return len(idx.groups)
}

// Group returns a copy of the group for key.
func (idx *Index) Group(key domain.FileKey) (domain.DuplicateGroup, bool) {
	current, ok := idx.groups[key]
	if !ok {
		return domain.DuplicateGroup{}, false
	}
	return current.snapshot(), true
}

// Groups returns deep copies of all groups ordered by mode. Callers may keep
// and modify the result freely.
func (idx *Index) Groups(mode domain.SortMode) []domain.DuplicateGroup {
	groups := make([]domain.DuplicateGroup, 0, len(idx.order))
	for _, key := range idx.order {
		groups = append(groups, idx.groups[key].snapshot())
	}
	SortGroups(groups, mode)
	return groups
}

func (idx *Index) Stats() Stats {
	var stats Stats
	for _, current := range idx.groups {
		stats.Groups++
		stats.Files += len(current.members)
		stats.Reclaimable += current.key.Size * uint64(len(current.members)-1)
		for _, member := range current.members {
			if member.Marked {
				stats.Marked++
				stats.MarkedBytes += current.key.Size
			}
		}
	}
	return stats
}

// SortGroups orders groups in place. Ties always fall back to name and size
// so the order is stable across snapshots.
func SortGroups(groups []domain.DuplicateGroup, mode domain.SortMode) {
	byKey := func(a, b domain.DuplicateGroup) bool {
		if a.Key.Name != b.Key.Name {
			return a.Key.Name < b.Key.Name
		}
		return a.Key.Size < b.Key.Size
	}
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch mode {
		case domain.SortByName:
			return byKey(a, b)
		case domain.SortByCount:
			if len(a.Members) != len(b.Members) {
				return len(a.Members) > len(b.Members)
			}
		default:
			if a.Reclaimable() != b.Reclaimable() {
				return a.Reclaimable() > b.Reclaimable()
			}
		}
		return byKey(a, b)
	})
}

func (idx *Index) member(key domain.FileKey, path string) (*domain.Member, error) {
	current, ok := idx.groups[key]
	if !ok {
		return nil, &domain.NotFoundError{Key: key}
	}
	position := current.find(path)
	if position < 0 {
		return nil, &domain.NotFoundError{Key: key, Path: path}
	}
	return &current.members[position], nil
}

func (current *group) find(path string) int {
	for position, member := range current.members {
		if member.Path == path {
			return position
		}
	}
	return -1
}

func (current *group) snapshot() domain.DuplicateGroup {
	return domain.DuplicateGroup{
		Key:     current.key,
		Members: append([]domain.Member(nil), current.members...),
	}
}
