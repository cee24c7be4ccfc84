package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"dupsweep/internal/config"
	"dupsweep/internal/domain"
	"dupsweep/internal/index"
	"dupsweep/internal/services"
	"dupsweep/internal/session"
	"dupsweep/internal/state"
)

// Session is the part of session.Session the TUI drives.
type Session interface {
	Scan(ctx context.Context, cfg domain.ScanConfiguration, progress chan<- services.ScanProgress) (session.ScanSummary, error)
	ToggleMark(key domain.FileKey, path string) (marked, found bool)
	MarkAllButFirst() int
	ClearMarks()
	RemoveMarked(ctx context.Context) index.RemovalReport
	Groups(mode domain.SortMode) []domain.DuplicateGroup
	Stats() index.Stats
}

type Model struct {
	state         *state.State
	session       Session
	keys          KeyMap
	help          help.Model
	spinner       spinner.Model
	status        string
	scanning      bool
	scanSeq       int
	scanProgress  chan services.ScanProgress
	scanCtx       context.Context
	cancel        context.CancelFunc
	progressCount int64
	lastScan      session.ScanSummary
	stats         index.Stats
	confirming    bool
	removing      bool
	failures      []*domain.DeletionError
	inputMode     string
	inputValue    string
	width         int
	height        int
	viewTop       int
}

type ConfigProvider interface {
	ConfigSnapshot() config.Config
}

// NewModel prepares the first scan of appState's roots; it starts when the
// program calls Init.
func NewModel(appState *state.State, sess Session) Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	model := Model{
		state:   appState,
		session: sess,
		keys:    DefaultKeyMap().WithBindings(appState.KeyBindings),
		help:    help.New(),
		spinner: sp,
		width:   100,
		height:  30,
	}
	model = model.prepareScan()
	return model
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) ConfigSnapshot() config.Config {
	return model.state.Config()
}

func (model Model) Init() tea.Cmd {
	return model.scanCmds()
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.help.Width = typed.Width
		model.ensureCursorVisible()
		return model, nil
	case spinner.TickMsg:
		if !model.scanning && !model.removing {
			return model, nil
		}
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(typed)
		return model, cmd
	case scanProgressMsg:
		if typed.seq != model.scanSeq || typed.done || !model.scanning {
			return model, nil
		}
		model.progressCount = typed.progress.Scanned
		model.status = fmt.Sprintf("Scanning... %d files", typed.progress.Scanned)
		if typed.progress.Current != "" {
			model.status = fmt.Sprintf("Scanning... %d files (%s)", typed.progress.Scanned, typed.progress.Current)
		}
		return model, progressCmd(model.scanSeq, model.scanProgress)
	case scanResultMsg:
		if typed.seq != model.scanSeq {
			return model, nil
		}
		return model.finishScan(typed), nil
	case removeResultMsg:
		model.removing = false
		model.failures = typed.report.Failures
		model.refreshGroups()
		model.status = typed.report.Summary()
		return model, nil
	default:
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit) && model.inputMode == "":
		model = model.cancelScan("")
		return model, tea.Quit
	case msg.Type == tea.KeyCtrlC:
		model = model.cancelScan("")
		return model, tea.Quit
	case model.inputMode != "":
		return model.handleInput(msg)
	case model.confirming && key.Matches(msg, model.keys.Confirm):
		return model.confirmRemoval()
	case model.confirming && key.Matches(msg, model.keys.Cancel):
		model.confirming = false
		model.status = "Deletion cancelled"
		return model, nil
	case model.confirming:
		return model, nil
	case key.Matches(msg, model.keys.Help):
		model.help.ShowAll = !model.help.ShowAll
		return model, nil
	case key.Matches(msg, model.keys.Up):
		model.state.MoveCursor(-1)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Down):
		model.state.MoveCursor(1)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Top):
		model.state.CursorToStart()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Bottom):
		model.state.CursorToEnd()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Collapse):
		model.state.ToggleCollapsed()
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Sort):
		mode := model.state.ToggleSortMode()
		index.SortGroups(model.state.Groups, mode)
		model.state.SetGroups(model.state.Groups)
		model.ensureCursorVisible()
		return model, nil
	case key.Matches(msg, model.keys.Theme):
		model.state.ToggleTheme()
		return model, nil
	case model.removing && key.Matches(msg, model.keys.Scan, model.keys.MinSize, model.keys.Roots):
		model.status = "Busy - wait for the deletion to finish"
		return model, nil
	case key.Matches(msg, model.keys.Scan):
		return model.beginScan()
	case key.Matches(msg, model.keys.MinSize):
		value := ""
		if model.state.MinSize > 0 {
			value = domain.FormatSize(model.state.MinSize)
		}
		return model.beginInput(inputMinSize, value), nil
	case key.Matches(msg, model.keys.Roots):
		return model.beginInput(inputRoots, strings.Join(model.state.Roots, ",")), nil
	}

	if model.busy() {
		if key.Matches(msg, model.keys.Toggle, model.keys.MarkAll, model.keys.Clear, model.keys.Delete) {
			model.status = "Busy - wait for the current operation to finish"
		}
		return model, nil
	}

	switch {
	case key.Matches(msg, model.keys.Toggle):
		row, ok := model.state.CurrentRow()
		if !ok {
			return model, nil
		}
		if row.Kind != state.RowMember {
			model.status = "Select a file to mark"
			return model, nil
		}
		marked, found := model.session.ToggleMark(row.Key, row.Member.Path)
		switch {
		case !found:
			model.status = "Entry no longer exists"
		case marked:
			model.status = fmt.Sprintf("Marked %s", row.Member.Path)
		default:
			model.status = fmt.Sprintf("Unmarked %s", row.Member.Path)
		}
		model.refreshGroups()
		return model, nil
	case key.Matches(msg, model.keys.MarkAll):
		marked := model.session.MarkAllButFirst()
		model.refreshGroups()
		model.status = fmt.Sprintf("Marked %d copies, kept the first of each group", marked)
		return model, nil
	case key.Matches(msg, model.keys.Clear):
		model.session.ClearMarks()
		model.refreshGroups()
		model.status = "Marks cleared"
		return model, nil
	case key.Matches(msg, model.keys.Delete):
		count, size := model.state.MarkedSummary()
		if count == 0 {
			model.status = "Nothing marked"
			return model, nil
		}
		model.confirming = true
		model.status = fmt.Sprintf("Delete %d marked files (%s)? (y/n)", count, domain.FormatSize(size))
		return model, nil
	default:
		return model, nil
	}
}

func (model Model) busy() bool {
	return model.scanning || model.removing
}

const (
	inputMinSize = "size"
	inputRoots   = "roots"
)

func (model Model) beginInput(mode, value string) Model {
	model.inputMode = mode
	model.inputValue = value
	model.status = fmt.Sprintf("%s: %s", inputLabel(mode), value)
	return model
}

func (model Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		model.status = fmt.Sprintf("%s unchanged", inputLabel(model.inputMode))
		model.inputMode = ""
		model.inputValue = ""
		return model, nil
	case tea.KeyEnter:
		mode := model.inputMode
		value := strings.TrimSpace(model.inputValue)
		model.inputMode = ""
		model.inputValue = ""
		switch mode {
		case inputMinSize:
			size, err := domain.ParseSize(value)
			if err != nil {
				model.status = fmt.Sprintf("Min size error: %v", err)
				return model, nil
			}
			model.state.MinSize = size
		case inputRoots:
			roots := splitRoots(value)
			if len(roots) == 0 {
				model.status = "Roots error: enter at least one directory"
				return model, nil
			}
			model.state.Roots = roots
		}
		return model.beginScan()
	case tea.KeyBackspace, tea.KeyDelete:
		if len(model.inputValue) > 0 {
			runes := []rune(model.inputValue)
			model.inputValue = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		model.inputValue += " "
	default:
		if msg.Type == tea.KeyRunes {
			model.inputValue += string(msg.Runes)
		}
	}
	model.status = fmt.Sprintf("%s: %s", inputLabel(model.inputMode), model.inputValue)
	return model, nil
}

func inputLabel(mode string) string {
	switch mode {
	case inputMinSize:
		return "Min size"
	case inputRoots:
		return "Roots"
	default:
		return "Input"
	}
}

func splitRoots(value string) []string {
	var roots []string
	for _, root := range strings.Split(value, ",") {
		if root = strings.TrimSpace(root); root != "" {
			roots = append(roots, root)
		}
	}
	return roots
}

func (model Model) confirmRemoval() (tea.Model, tea.Cmd) {
	model.confirming = false
	if model.busy() {
		model.status = "Busy - wait for the current operation to finish"
		return model, nil
	}
	model.removing = true
	model.failures = nil
	model.status = "Deleting marked files..."
	return model, tea.Batch(model.spinner.Tick, removeCmd(model.session))
}

// beginScan supersedes any running scan.
func (model Model) beginScan() (tea.Model, tea.Cmd) {
	model = model.cancelScan("")
	model = model.prepareScan()
	return model, model.scanCmds()
}

func (model Model) prepareScan() Model {
	ctx, cancel := context.WithCancel(context.Background())
	model.scanSeq++
	model.scanning = true
	model.cancel = cancel
	model.scanProgress = make(chan services.ScanProgress, 16)
	model.progressCount = 0
	model.failures = nil
	model.status = fmt.Sprintf("Scanning %s", strings.Join(model.state.Roots, ", "))
	model.scanCtx = ctx
	return model
}

func (model Model) scanCmds() tea.Cmd {
	if !model.scanning {
		return nil
	}
	return tea.Batch(
		model.spinner.Tick,
		scanCmd(model.scanCtx, model.session, model.scanSeq, model.state.ScanConfiguration(), model.scanProgress),
		progressCmd(model.scanSeq, model.scanProgress),
	)
}

func (model Model) finishScan(msg scanResultMsg) Model {
	model.scanning = false
	model.cancel = nil
	model.lastScan = msg.summary
	model.refreshGroups()
	model.viewTop = 0
	model.ensureCursorVisible()
	switch {
	case errors.Is(msg.err, context.Canceled):
		model.status = "Scan cancelled"
	case msg.err != nil:
		model.status = fmt.Sprintf("Scan error: %v (showing partial results)", msg.err)
	default:
		model.status = fmt.Sprintf("Scan complete: %d files, %d groups (%s)", msg.summary.Files, msg.summary.Groups, msg.summary.Duration.Round(time.Millisecond))
	}
	return model
}

func (model Model) cancelScan(message string) Model {
	if model.cancel != nil {
		model.cancel()
		model.cancel = nil
	}
	if message != "" {
		model.status = message
	}
	model.scanning = false
	model.progressCount = 0
	return model
}

func (model *Model) refreshGroups() {
	model.state.SetGroups(model.session.Groups(model.state.Prefs.SortMode))
	model.stats = model.session.Stats()
	model.ensureCursorVisible()
}

func scanCmd(ctx context.Context, sess Session, seq int, cfg domain.ScanConfiguration, progress chan services.ScanProgress) tea.Cmd {
	return func() tea.Msg {
		summary, err := sess.Scan(ctx, cfg, progress)
		close(progress)
		return scanResultMsg{seq: seq, summary: summary, err: err}
	}
}

func progressCmd(seq int, progress <-chan services.ScanProgress) tea.Cmd {
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-progress
		return scanProgressMsg{seq: seq, progress: update, done: !ok}
	}
}

func removeCmd(sess Session) tea.Cmd {
	return func() tea.Msg {
		return removeResultMsg{report: sess.RemoveMarked(context.Background())}
	}
}

func (model *Model) ensureCursorVisible() {
	rows := model.state.Rows()
	if len(rows) == 0 {
		model.viewTop = 0
		return
	}
	listHeight := model.listHeight()
	if listHeight <= 0 {
		return
	}
	if model.state.Cursor < model.viewTop {
		model.viewTop = model.state.Cursor
	}
	if model.state.Cursor >= model.viewTop+listHeight {
		model.viewTop = model.state.Cursor - listHeight + 1
	}
	maxTop := len(rows) - listHeight
	if maxTop < 0 {
		maxTop = 0
	}
	if model.viewTop > maxTop {
		model.viewTop = maxTop
	}
}

func (model *Model) listHeight() int {
	return model.height - 7
}
