package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dupsweep/internal/domain"
	"dupsweep/internal/state"
)

type uiStyles struct {
	headerStyle  lipgloss.Style
	mutedStyle   lipgloss.Style
	statusStyle  lipgloss.Style
	warnStyle    lipgloss.Style
	cursorStyle  lipgloss.Style
	markedStyle  lipgloss.Style
	keptStyle    lipgloss.Style
	panelBorder  lipgloss.Style
	separatorFgd lipgloss.Color
}

func stylesFor(theme string) uiStyles {
	if strings.ToLower(theme) == "light" {
		return uiStyles{
			headerStyle:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
			mutedStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
			statusStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("25")).Bold(true),
			warnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			cursorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("90")).Bold(true),
			markedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("124")).Bold(true),
			keptStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
			panelBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			separatorFgd: lipgloss.Color("250"),
		}
	}
	return uiStyles{
		headerStyle:  lipgloss.NewStyle().Bold(true),
		mutedStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		statusStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true),
		warnStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		cursorStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true),
		markedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true),
		keptStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		panelBorder:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		separatorFgd: lipgloss.Color("238"),
	}
}

func (model Model) View() string {
	styles := stylesFor(model.state.Prefs.Theme)
	body := renderBody(model, styles)
	footer := renderFooter(model, styles)
	return strings.Join([]string{body, footer}, "\n")
}

func renderBody(model Model, styles uiStyles) string {
	bodyHeight := model.listHeight()
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	leftWidth, rightWidth, showRight := splitPanels(model.width)
	left := renderGroupPanel(model, styles, bodyHeight, leftWidth)
	if !showRight {
		return left
	}
	sep := lipgloss.NewStyle().Foreground(styles.separatorFgd).Render("│")
	right := renderDetailPanel(model, styles, rightWidth, bodyHeight)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, sep, right)
}

func renderFooter(model Model, styles uiStyles) string {
	statusLine := trimStatus(model.status, model.width)
	if model.busy() {
		statusLine = fmt.Sprintf("%s %s", model.spinner.View(), statusLine)
	}
	statusStyle := styles.mutedStyle
	lower := strings.ToLower(model.status)
	if strings.Contains(lower, "error") || strings.Contains(lower, "could not") {
		statusStyle = styles.warnStyle
	}
	statusLine = statusStyle.Render(statusLine)

	markedCount, markedSize := model.state.MarkedSummary()
	summary := fmt.Sprintf("Groups: %d  Copies: %d  Marked: %d (%s)  Reclaimable: %s  Min: %s  Sort: %s",
		len(model.state.Groups),
		model.stats.Files,
		markedCount,
		domain.FormatSize(markedSize),
		domain.FormatSize(model.stats.Reclaimable),
		domain.FormatSize(model.state.MinSize),
		strings.ToUpper(string(model.state.Prefs.SortMode)),
	)
	if model.state.Prefs.SafeMode {
		summary += "  Safe"
	}
	keys := model.help.View(model.keys)
	if model.confirming {
		keys = "y confirm  n cancel"
	}
	switch model.inputMode {
	case inputMinSize:
		keys = "type a size (e.g. 10k, 1.5mb)  enter apply  esc cancel"
	case inputRoots:
		keys = "comma separated directories  enter rescan  esc cancel"
	}
	return strings.Join([]string{statusLine, styles.mutedStyle.Render(summary), styles.mutedStyle.Render(keys)}, "\n")
}

func renderGroupPanel(model Model, styles uiStyles, height, width int) string {
	if width < 20 {
		width = 20
	}
	contentWidth := maxInt(width-2, 10)
	status := "IDLE"
	switch {
	case model.scanning:
		status = "SCANNING"
	case model.removing:
		status = "DELETING"
	}
	roots := strings.Join(model.state.Roots, ", ")
	headerLine := padLine(styles.headerStyle.Render("dupsweep")+"  "+roots, styles.statusStyle.Render(status), contentWidth)
	listHeight := height - 1
	if listHeight < 1 {
		listHeight = 1
	}

	rows := model.state.Rows()
	if len(rows) == 0 {
		message := "No duplicates found - press s to rescan"
		if model.scanning {
			message = fmt.Sprintf("Scanning... %d files", model.progressCount)
		}
		lines := []string{headerLine, message}
		for i := 0; i < maxInt(listHeight-1, 0); i++ {
			lines = append(lines, "")
		}
		return styles.panelBorder.Width(contentWidth).Render(strings.Join(lines, "\n"))
	}

	start := clamp(model.viewTop, 0, maxInt(len(rows)-1, 0))
	end := start + listHeight
	if end > len(rows) {
		end = len(rows)
	}
	lines := make([]string, 0, height)
	lines = append(lines, headerLine)
	for index := start; index < end; index++ {
		line := renderRow(rows[index], styles)
		if index == model.state.Cursor {
			line = styles.cursorStyle.Render("> " + stripIndent(line))
		}
		lines = append(lines, line)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return styles.panelBorder.Width(contentWidth).Render(strings.Join(lines, "\n"))
}

func renderRow(row state.Row, styles uiStyles) string {
	if row.Kind == state.RowGroup {
		fold := "▾"
		if row.Collapsed {
			fold = "▸"
		}
		return fmt.Sprintf("  %s %s  %9s  x%d", fold, row.Key.Name, domain.FormatSize(row.Key.Size), row.Count)
	}
	marker := "[ ]"
	if row.Member.Marked {
		marker = styles.markedStyle.Render("[x]")
	}
	path := row.Member.Path
	if row.First && !row.Member.Marked {
		path = styles.keptStyle.Render(path)
	}
	return fmt.Sprintf("      %s %s", marker, path)
}

func stripIndent(line string) string {
	return strings.TrimPrefix(line, "  ")
}

func renderDetailPanel(model Model, styles uiStyles, width, height int) string {
	contentWidth := maxInt(width-2, 10)
	var lines []string
	switch {
	case model.confirming:
		lines = confirmLines(model, styles)
	case len(model.failures) > 0:
		lines = failureLines(model, styles)
	default:
		lines = groupLines(model, styles)
	}
	content := strings.Join(lines, "\n")
	content = lipgloss.NewStyle().Width(contentWidth).Height(height).Render(content)
	return styles.panelBorder.Width(contentWidth).Render(content)
}

func groupLines(model Model, styles uiStyles) []string {
	row, ok := model.state.CurrentRow()
	if !ok {
		lines := []string{styles.headerStyle.Render("Last scan")}
		if model.lastScan.ScanID == "" {
			return append(lines, "-")
		}
		lines = append(lines,
			fmt.Sprintf("Files : %d", model.lastScan.Files),
			fmt.Sprintf("Dirs  : %d", model.lastScan.Dirs),
			fmt.Sprintf("Took  : %s", model.lastScan.Duration),
		)
		if model.lastScan.Err != nil {
			lines = append(lines, "", styles.warnStyle.Render("Incomplete"), model.lastScan.Err.Error())
		}
		return lines
	}
	group := model.state.Groups[row.Group]
	lines := []string{
		styles.headerStyle.Render("Name"),
		group.Key.Name,
		"",
		styles.headerStyle.Render("Size"),
		fmt.Sprintf("Each : %s", domain.FormatSize(group.Key.Size)),
		fmt.Sprintf("Extra: %s", domain.FormatSize(group.Reclaimable())),
		"",
		styles.headerStyle.Render("Copies"),
		fmt.Sprintf("%d found, %d marked", len(group.Members), group.MarkedCount()),
	}
	if row.Kind == state.RowMember {
		lines = append(lines, "", styles.headerStyle.Render("Folder"), filepath.Dir(row.Member.Path))
	}
	return lines
}

func confirmLines(model Model, styles uiStyles) []string {
	count, size := model.state.MarkedSummary()
	lines := []string{
		styles.headerStyle.Render("Delete marked"),
		fmt.Sprintf("Files: %d", count),
		fmt.Sprintf("Size : %s", domain.FormatSize(size)),
	}
	samples := 0
	for _, group := range model.state.Groups {
		for _, member := range group.Members {
			if !member.Marked || samples >= 8 {
				continue
			}
			if samples == 0 {
				lines = append(lines, "", styles.headerStyle.Render("Samples"))
			}
			lines = append(lines, member.Path)
			samples++
		}
	}
	if count > samples {
		lines = append(lines, "...")
	}
	if model.state.Prefs.SafeMode {
		lines = append(lines, "", styles.headerStyle.Render("Safety"), "system directories are skipped")
	}
	return lines
}

func failureLines(model Model, styles uiStyles) []string {
	lines := []string{styles.warnStyle.Render(fmt.Sprintf("%d files could not be deleted", len(model.failures)))}
	for i, failure := range model.failures {
		if i >= 8 {
			lines = append(lines, "...")
			break
		}
		lines = append(lines, failure.Path, styles.mutedStyle.Render("  "+failure.Err.Error()))
	}
	return lines
}

func padLine(left, right string, width int) string {
	if width <= 0 {
		return left
	}
	space := width - lipgloss.Width(left) - lipgloss.Width(right)
	if space < 1 {
		return left + " " + right
	}
	return left + strings.Repeat(" ", space) + right
}

func splitPanels(width int) (int, int, bool) {
	if width < 80 {
		return width, 0, false
	}
	left := int(float64(width) * 0.6)
	if left < 40 {
		left = 40
	}
	right := width - left - 1
	if right < 30 {
		return width, 0, false
	}
	return left, right, true
}

func trimStatus(message string, width int) string {
	if width <= 0 {
		return message
	}
	max := width - 4
	if max <= 0 || len(message) <= max {
		return message
	}
	return message[:max] + "..."
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
