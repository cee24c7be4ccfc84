package index

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupsweep/internal/domain"
)

func record(path string, size uint64) domain.FileRecord {
	name := path
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			name = path[i+1:]
			break
		}
	}
	return domain.FileRecord{Name: name, Size: size, Path: path}
}

func paths(group domain.DuplicateGroup) []string {
	result := make([]string, 0, len(group.Members))
	for _, member := range group.Members {
		result = append(result, member.Path)
	}
	return result
}

type fakeRemover struct {
	removed []string
	fail    map[string]error
}

func (remover *fakeRemover) Remove(path string) error {
	if err, ok := remover.fail[path]; ok {
		return err
	}
	remover.removed = append(remover.removed, path)
	return nil
}

func TestIngestFormsGroupOnSecondMatch(t *testing.T) {
	idx := New(0)
	idx.Ingest(record("/a/report.txt", 500))
	assert.Equal(t, 0, idx.Len())

	idx.Ingest(record("/b/report.txt", 500))
	require.Equal(t, 1, idx.Len())

	group, ok := idx.Group(domain.FileKey{Name: "report.txt", Size: 500})
	require.True(t, ok)
	assert.Equal(t, []string{"/a/report.txt", "/b/report.txt"}, paths(group))
	for _, member := range group.Members {
		assert.False(t, member.Marked)
	}

	idx.Ingest(record("/c/report.txt", 500))
	group, _ = idx.Group(domain.FileKey{Name: "report.txt", Size: 500})
	assert.Equal(t, []string{"/a/report.txt", "/b/report.txt", "/c/report.txt"}, paths(group))
}

func TestIngestKeyNeedsNameAndSize(t *testing.T) {
	idx := New(0)
	idx.Ingest(record("/a/report.txt", 500))
	idx.Ingest(record("/b/report.txt", 501))
	idx.Ingest(record("/c/summary.txt", 500))
	assert.Equal(t, 0, idx.Len())
}

func TestIngestBelowThresholdIsDiscarded(t *testing.T) {
	idx := New(1000)
	idx.Ingest(record("/a/report.txt", 500))
	idx.Ingest(record("/b/report.txt", 500))
	assert.Equal(t, 0, idx.Len())

	idx.Ingest(record("/a/big.iso", 1000))
	idx.Ingest(record("/b/big.iso", 1000))
	assert.Equal(t, 1, idx.Len())

	idx.Ingest(record("/c/big.iso", 999))
	group, _ := idx.Group(domain.FileKey{Name: "big.iso", Size: 1000})
	assert.Len(t, group.Members, 2)
}

func TestIngestIgnoresRepeatedPath(t *testing.T) {
	idx := New(0)
	idx.Ingest(record("/a/x.bin", 10))
	idx.Ingest(record("/a/x.bin", 10))
	assert.Equal(t, 0, idx.Len())

	idx.Ingest(record("/b/x.bin", 10))
	idx.Ingest(record("/b/x.bin", 10))
	group, _ := idx.Group(domain.FileKey{Name: "x.bin", Size: 10})
	assert.Equal(t, []string{"/a/x.bin", "/b/x.bin"}, paths(group))
}

func TestResetNeverMergesScans(t *testing.T) {
	idx := New(0)
	idx.Ingest(record("/a/x.bin", 10))
	idx.Ingest(record("/b/x.bin", 10))
	require.Equal(t, 1, idx.Len())

	idx.Reset()
	assert.Equal(t, 0, idx.Len())
	assert.Empty(t, idx.Groups(domain.SortBySize))

	// the first sighting from the previous scan is forgotten too
	idx.Ingest(record("/c/x.bin", 10))
	assert.Equal(t, 0, idx.Len())
}

func TestFinishForgetsFirstOccurrences(t *testing.T) {
	idx := New(0)
	idx.Ingest(record("/a/x.bin", 10))
	idx.Ingest(record("/b/y.bin", 10))
	idx.Ingest(record("/c/y.bin", 10))
	idx.Finish()

	idx.Ingest(record("/d/x.bin", 10))
	assert.Equal(t, 1, idx.Len())
}

func TestToggleMark(t *testing.T) {
	idx := New(0)
	idx.Ingest(record("/a/x.bin", 10))
	idx.Ingest(record("/b/x.bin", 10))
	key := domain.FileKey{Name: "x.bin", Size: 10}

	marked, err := idx.ToggleMark(key, "/b/x.bin")
	require.NoError(t, err)
	assert.True(t, marked)

	marked, err = idx.ToggleMark(key, "/b/x.bin")
	require.NoError(t, err)
	assert.False(t, marked)
}

func TestToggleMarkStaleTargets(t *testing.T) {
	idx := New(0)
	idx.Ingest(record("/a/x.bin", 10))
	idx.Ingest(record("/b/x.bin", 10))

	_, err := idx.ToggleMark(domain.FileKey{Name: "gone.bin", Size: 10}, "/a/gone.bin")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = idx.ToggleMark(domain.FileKey{Name: "x.bin", Size: 10}, "/c/x.bin")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "/c/x.bin", notFound.Path)
}

func TestRemoveMarkedDropsSingletons(t *testing.T) {
	idx := New(0)
	for _, path := range []string{"/a/x.bin", "/b/x.bin", "/c/x.bin"} {
		idx.Ingest(record(path, 10))
	}
	key := domain.FileKey{Name: "x.bin", Size: 10}
	_, err := idx.ToggleMark(key, "/a/x.bin")
	require.NoError(t, err)
	_, err = idx.ToggleMark(key, "/c/x.bin")
	require.NoError(t, err)

	remover := &fakeRemover{}
	report := idx.RemoveMarked(remover)

	assert.ElementsMatch(t, []string{"/a/x.bin", "/c/x.bin"}, remover.removed)
	assert.ElementsMatch(t, []string{"/a/x.bin", "/c/x.bin"}, report.Deleted)
	assert.Equal(t, uint64(20), report.Freed)
	assert.NoError(t, report.Err())
	assert.Equal(t, 0, idx.Len())
}

func TestRemoveMarkedDeletesOnlyFlagged(t *testing.T) {
	idx := New(0)
	for _, path := range []string{"/a/x.bin", "/b/x.bin", "/c/x.bin", "/a/y.bin", "/b/y.bin"} {
		idx.Ingest(record(path, 10))
	}
	require.NoError(t, idx.SetMark(domain.FileKey{Name: "x.bin", Size: 10}, "/b/x.bin", true))

	remover := &fakeRemover{}
	report := idx.RemoveMarked(remover)

	assert.Equal(t, []string{"/b/x.bin"}, remover.removed)
	assert.Equal(t, []string{"/b/x.bin"}, report.Deleted)
	groups := idx.Groups(domain.SortByName)
	require.Len(t, groups, 2)
	assert.Equal(t, []string{"/a/x.bin", "/c/x.bin"}, paths(groups[0]))
	assert.Equal(t, []string{"/a/y.bin", "/b/y.bin"}, paths(groups[1]))
}

func TestRemoveMarkedContinuesOnError(t *testing.T) {
	idx := New(0)
	for _, path := range []string{"/a/x.bin", "/b/x.bin", "/c/x.bin", "/a/y.bin", "/b/y.bin"} {
		idx.Ingest(record(path, 10))
	}
	xKey := domain.FileKey{Name: "x.bin", Size: 10}
	yKey := domain.FileKey{Name: "y.bin", Size: 10}
	require.NoError(t, idx.SetMark(xKey, "/a/x.bin", true))
	require.NoError(t, idx.SetMark(xKey, "/b/x.bin", true))
	require.NoError(t, idx.SetMark(yKey, "/b/y.bin", true))

	remover := &fakeRemover{fail: map[string]error{"/a/x.bin": os.ErrPermission}}
	report := idx.RemoveMarked(remover)

	assert.ElementsMatch(t, []string{"/b/x.bin", "/b/y.bin"}, report.Deleted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "/a/x.bin", report.Failures[0].Path)
	assert.ErrorIs(t, report.Err(), os.ErrPermission)
	assert.Contains(t, report.Summary(), "1 files could not be deleted")

	// the failed member keeps its mark, the y group fell below two members
	groups := idx.Groups(domain.SortByName)
	require.Len(t, groups, 1)
	assert.Equal(t, xKey, groups[0].Key)
	assert.Equal(t, []domain.Member{{Path: "/a/x.bin", Marked: true}, {Path: "/c/x.bin"}}, groups[0].Members)
}

func TestRemoveMarkedAggregatesFailures(t *testing.T) {
	idx := New(0)
	for _, path := range []string{"/a/x.bin", "/b/x.bin", "/c/x.bin"} {
		idx.Ingest(record(path, 10))
	}
	idx.MarkAllButFirst()

	remover := &fakeRemover{fail: map[string]error{
		"/b/x.bin": os.ErrNotExist,
		"/c/x.bin": errors.New("busy"),
	}}
	report := idx.RemoveMarked(remover)

	assert.Empty(t, report.Deleted)
	assert.Len(t, report.Failures, 2)
	assert.ErrorIs(t, report.Err(), os.ErrNotExist)
	assert.Equal(t, 1, idx.Len())
}

func TestRemoveMarkedIsIdempotent(t *testing.T) {
	idx := New(0)
	for _, path := range []string{"/a/x.bin", "/b/x.bin", "/c/x.bin"} {
		idx.Ingest(record(path, 10))
	}
	require.NoError(t, idx.SetMark(domain.FileKey{Name: "x.bin", Size: 10}, "/c/x.bin", true))
	idx.RemoveMarked(&fakeRemover{})
	before := idx.Groups(domain.SortBySize)

	remover := &fakeRemover{}
	report := idx.RemoveMarked(remover)

	assert.Empty(t, remover.removed)
	assert.Empty(t, report.Deleted)
	assert.NoError(t, report.Err())
	assert.Equal(t, before, idx.Groups(domain.SortBySize))
}

func TestEveryGroupKeepsTwoMembers(t *testing.T) {
	idx := New(0)
	for g := 0; g < 5; g++ {
		for n := 0; n <= g+1; n++ {
			idx.Ingest(record(fmt.Sprintf("/d%d/f%d.bin", n, g), 10))
		}
	}
	idx.MarkAllButFirst()
	idx.RemoveMarked(&fakeRemover{})
	assert.Equal(t, 0, idx.Len())

	for g := 0; g < 5; g++ {
		for n := 0; n <= g+2; n++ {
			idx.Ingest(record(fmt.Sprintf("/e%d/g%d.bin", n, g), 10))
		}
	}
	for _, snapshot := range idx.Groups(domain.SortBySize) {
		require.NoError(t, idx.SetMark(snapshot.Key, snapshot.Members[0].Path, true))
	}
	idx.RemoveMarked(&fakeRemover{})
	for _, snapshot := range idx.Groups(domain.SortBySize) {
		assert.GreaterOrEqual(t, len(snapshot.Members), 2)
	}
}

func TestGroupsAreSnapshots(t *testing.T) {
	idx := New(0)
	idx.Ingest(record("/a/x.bin", 10))
	idx.Ingest(record("/b/x.bin", 10))

	groups := idx.Groups(domain.SortBySize)
	groups[0].Members[0].Marked = true

	fresh, _ := idx.Group(domain.FileKey{Name: "x.bin", Size: 10})
	assert.False(t, fresh.Members[0].Marked)
}

func TestGroupsOrdering(t *testing.T) {
	idx := New(0)
	for _, path := range []string{"/a/small.txt", "/b/small.txt", "/c/small.txt"} {
		idx.Ingest(record(path, 10))
	}
	for _, path := range []string{"/a/big.iso", "/b/big.iso"} {
		idx.Ingest(record(path, 1000))
	}

	bySize := idx.Groups(domain.SortBySize)
	assert.Equal(t, "big.iso", bySize[0].Key.Name)

	byCount := idx.Groups(domain.SortByCount)
	assert.Equal(t, "small.txt", byCount[0].Key.Name)

	byName := idx.Groups(domain.SortByName)
	assert.Equal(t, "big.iso", byName[0].Key.Name)
}

func TestStatsAndClearMarks(t *testing.T) {
	idx := New(0)
	for _, path := range []string{"/a/x.bin", "/b/x.bin", "/c/x.bin"} {
		idx.Ingest(record(path, 10))
	}
	assert.Equal(t, 2, idx.MarkAllButFirst())

	stats := idx.Stats()
	assert.Equal(t, Stats{Groups: 1, Files: 3, Marked: 2, Reclaimable: 20, MarkedBytes: 20}, stats)

	idx.ClearMarks()
	assert.Equal(t, 0, idx.Stats().Marked)
}
