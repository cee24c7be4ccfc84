package state

import (
	"dupsweep/internal/config"
	"dupsweep/internal/domain"
)

type Preferences struct {
	SafeMode bool
	SortMode domain.SortMode
	Theme    string
}

type RowKind int

const (
	RowGroup RowKind = iota
	RowMember
)

// Row is one line of the duplicate list: either a group header or one copy
// beneath it.
type Row struct {
	Kind      RowKind
	Group     int
	Key       domain.FileKey
	Count     int
	Collapsed bool
	Member    domain.Member
	First     bool
}

type State struct {
	Roots       []string
	MinSize     uint64
	Workers     int
	Cursor      int
	Prefs       Preferences
	Groups      []domain.DuplicateGroup
	Collapsed   map[domain.FileKey]bool
	KeyBindings map[string]string
	LogFile     string
	LogLevel    string

	rows []Row
}

func NewState(cfg config.Config) *State {
	return &State{
		Roots:   append([]string{}, cfg.Roots...),
		MinSize: cfg.MinSize,
		Workers: cfg.Workers,
		Prefs: Preferences{
			SafeMode: cfg.SafeMode,
			SortMode: cfg.SortMode,
			Theme:    cfg.Theme,
		},
		Collapsed:   make(map[domain.FileKey]bool),
		KeyBindings: ensureBindings(cfg.KeyBindings),
		LogFile:     cfg.LogFile,
		LogLevel:    cfg.LogLevel,
	}
}

func ensureBindings(bindings map[string]string) map[string]string {
	if bindings == nil {
		return map[string]string{}
	}
	return bindings
}

// Config captures the state that is persisted between runs.
func (appState *State) Config() config.Config {
	return config.Config{
		Roots:       append([]string{}, appState.Roots...),
		MinSize:     appState.MinSize,
		Workers:     appState.Workers,
		SafeMode:    appState.Prefs.SafeMode,
		SortMode:    appState.Prefs.SortMode,
		Theme:       appState.Prefs.Theme,
		KeyBindings: appState.KeyBindings,
		LogFile:     appState.LogFile,
		LogLevel:    appState.LogLevel,
	}
}

func (appState *State) ScanConfiguration() domain.ScanConfiguration {
	return domain.ScanConfiguration{
		Roots:   append([]string{}, appState.Roots...),
		MinSize: appState.MinSize,
	}
}

// SetGroups replaces the displayed snapshot. Collapse flags of groups that
// no longer exist are dropped and the cursor is kept in range.
func (appState *State) SetGroups(groups []domain.DuplicateGroup) {
	appState.Groups = groups
	present := make(map[domain.FileKey]bool, len(groups))
	for _, group := range groups {
		present[group.Key] = true
	}
	for key := range appState.Collapsed {
		if !present[key] {
			delete(appState.Collapsed, key)
		}
	}
	appState.rebuild()
}

func (appState *State) Rows() []Row {
	return appState.rows
}

func (appState *State) CurrentRow() (Row, bool) {
	if appState.Cursor < 0 || appState.Cursor >= len(appState.rows) {
		return Row{}, false
	}
	return appState.rows[appState.Cursor], true
}

func (appState *State) MoveCursor(delta int) {
	appState.Cursor += delta
	appState.clampCursor()
}

func (appState *State) CursorToStart() {
	appState.Cursor = 0
}

func (appState *State) CursorToEnd() {
	appState.Cursor = len(appState.rows) - 1
	appState.clampCursor()
}

// ToggleCollapsed folds or unfolds the group under the cursor and leaves the
// cursor on its header.
func (appState *State) ToggleCollapsed() bool {
	row, ok := appState.CurrentRow()
	if !ok {
		return false
	}
	collapsed := !appState.Collapsed[row.Key]
	if collapsed {
		appState.Collapsed[row.Key] = true
	} else {
		delete(appState.Collapsed, row.Key)
	}
	appState.rebuild()
	for index, candidate := range appState.rows {
		if candidate.Kind == RowGroup && candidate.Key == row.Key {
			appState.Cursor = index
			break
		}
	}
	return collapsed
}

func (appState *State) ToggleSortMode() domain.SortMode {
	appState.Prefs.SortMode = appState.Prefs.SortMode.Next()
	return appState.Prefs.SortMode
}

func (appState *State) ToggleTheme() string {
	if appState.Prefs.Theme == "light" {
		appState.Prefs.Theme = "dark"
	} else {
		appState.Prefs.Theme = "light"
	}
	return appState.Prefs.Theme
}

// MarkedSummary counts marked copies and the bytes their removal would free.
func (appState *State) MarkedSummary() (int, uint64) {
	var (
		count int
		total uint64
	)
	for _, group := range appState.Groups {
		marked := group.MarkedCount()
		count += marked
		total += uint64(marked) * group.Key.Size
	}
	return count, total
}

func (appState *State) rebuild() {
	rows := make([]Row, 0, len(appState.rows))
	for index, group := range appState.Groups {
		collapsed := appState.Collapsed[group.Key]
		rows = append(rows, Row{
			Kind:      RowGroup,
			Group:     index,
			Key:       group.Key,
			Count:     len(group.Members),
			Collapsed: collapsed,
		})
		if collapsed {
			continue
		}
		for position, member := range group.Members {
			rows = append(rows, Row{
				Kind:   RowMember,
				Group:  index,
				Key:    group.Key,
				Count:  len(group.Members),
				Member: member,
				First:  position == 0,
			})
		}
	}
	appState.rows = rows
	appState.clampCursor()
}

func (appState *State) clampCursor() {
	if appState.Cursor >= len(appState.rows) {
		appState.Cursor = len(appState.rows) - 1
	}
	if appState.Cursor < 0 {
		appState.Cursor = 0
	}
}
