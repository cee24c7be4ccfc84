package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dupsweep/internal/config"
	"dupsweep/internal/domain"
)

func sampleGroups() []domain.DuplicateGroup {
	return []domain.DuplicateGroup{
		{
			Key: domain.FileKey{Name: "movie.mkv", Size: 2000},
			Members: []domain.Member{
				{Path: "/a/movie.mkv"},
				{Path: "/b/movie.mkv", Marked: true},
			},
		},
		{
			Key: domain.FileKey{Name: "notes.txt", Size: 10},
			Members: []domain.Member{
				{Path: "/a/notes.txt"},
				{Path: "/b/notes.txt", Marked: true},
				{Path: "/c/notes.txt", Marked: true},
			},
		},
	}
}

func TestNewStateFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Roots = []string{"/data"}
	cfg.MinSize = 42
	appState := NewState(cfg)

	assert.Equal(t, domain.ScanConfiguration{Roots: []string{"/data"}, MinSize: 42}, appState.ScanConfiguration())
	assert.Equal(t, cfg, appState.Config())
	assert.Empty(t, appState.Rows())
	_, ok := appState.CurrentRow()
	assert.False(t, ok)
}

func TestRowsFlattenGroups(t *testing.T) {
	appState := NewState(config.DefaultConfig())
	appState.SetGroups(sampleGroups())

	rows := appState.Rows()
	require.Len(t, rows, 7)
	assert.Equal(t, RowGroup, rows[0].Kind)
	assert.Equal(t, 2, rows[0].Count)
	assert.Equal(t, RowMember, rows[1].Kind)
	assert.True(t, rows[1].First)
	assert.Equal(t, "/b/movie.mkv", rows[2].Member.Path)
	assert.True(t, rows[2].Member.Marked)
	assert.Equal(t, RowGroup, rows[3].Kind)
	assert.Equal(t, 1, rows[3].Group)
}

func TestCursorStaysInRange(t *testing.T) {
	appState := NewState(config.DefaultConfig())
	appState.SetGroups(sampleGroups())

	appState.MoveCursor(-3)
	assert.Equal(t, 0, appState.Cursor)
	appState.CursorToEnd()
	assert.Equal(t, 6, appState.Cursor)
	appState.MoveCursor(10)
	assert.Equal(t, 6, appState.Cursor)

	appState.SetGroups(sampleGroups()[:1])
	assert.Equal(t, 2, appState.Cursor)
	appState.SetGroups(nil)
	assert.Equal(t, 0, appState.Cursor)
}

func TestToggleCollapsed(t *testing.T) {
	appState := NewState(config.DefaultConfig())
	appState.SetGroups(sampleGroups())
	appState.Cursor = 5

	assert.True(t, appState.ToggleCollapsed())
	assert.Equal(t, 3, appState.Cursor)
	assert.Len(t, appState.Rows(), 4)
	row, ok := appState.CurrentRow()
	require.True(t, ok)
	assert.True(t, row.Collapsed)

	assert.False(t, appState.ToggleCollapsed())
	assert.Len(t, appState.Rows(), 7)
}

func TestCollapseForgottenWhenGroupDisappears(t *testing.T) {
	appState := NewState(config.DefaultConfig())
	appState.SetGroups(sampleGroups())
	appState.ToggleCollapsed()
	require.Len(t, appState.Collapsed, 1)

	appState.SetGroups(sampleGroups()[1:])
	assert.Empty(t, appState.Collapsed)
}

func TestMarkedSummary(t *testing.T) {
	appState := NewState(config.DefaultConfig())
	appState.SetGroups(sampleGroups())

	count, bytes := appState.MarkedSummary()
	assert.Equal(t, 3, count)
	assert.Equal(t, uint64(2020), bytes)
}

func TestPreferenceToggles(t *testing.T) {
	appState := NewState(config.DefaultConfig())

	assert.Equal(t, domain.SortByName, appState.ToggleSortMode())
	assert.Equal(t, domain.SortByCount, appState.ToggleSortMode())
	assert.Equal(t, domain.SortBySize, appState.ToggleSortMode())
	assert.Equal(t, "light", appState.ToggleTheme())
	assert.Equal(t, "dark", appState.ToggleTheme())
}
