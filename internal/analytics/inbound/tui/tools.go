package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/components"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/exportview/internal/util"
)

const toolNameWidth = 24

// Tools shows the global tool usage histogram
type Tools struct {
	tools  []analytics.ToolUsageEntry
	offset int
	styles *theme.Styles
	width  int
	height int
}

// NewTools creates a new tools screen
func NewTools(styles *theme.Styles) *Tools {
	return &Tools{styles: styles}
}

// SetStyles switches the screen to another theme.
func (t *Tools) SetStyles(styles *theme.Styles) {
	t.styles = styles
}

// Update implements tea.Model
func (t *Tools) Update(msg tea.Msg) (*Tools, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		t.tools = msg.Snapshot.Tools
		t.offset = 0

	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		t.offset = min(t.offset, t.maxOffset())

	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			t.offset = min(t.offset+1, t.maxOffset())
		case "k", "up":
			t.offset = max(t.offset-1, 0)
		case "g", "home":
			t.offset = 0
		}
	}
	return t, nil
}

func (t *Tools) visibleRows() int {
	return tableHeight(t.height)
}

func (t *Tools) maxOffset() int {
	return max(len(t.tools)-t.visibleRows(), 0)
}

// View implements tea.Model
func (t *Tools) View() string {
	title := t.styles.Title.Render("Tool Usage")
	if len(t.tools) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, t.styles.Muted.Render("No tool invocations in this archive."))
	}

	total := 0
	for _, e := range t.tools {
		total += e.Count
	}
	info := t.styles.Muted.Render(fmt.Sprintf("%d tools, %s invocations", len(t.tools), util.FormatCount(total)))

	width := t.width
	if width <= 0 {
		width = 80
	}
	barWidth := max(width-toolNameWidth-20, 10)
	top := t.tools[0].Count

	end := min(t.offset+t.visibleRows(), len(t.tools))
	rows := make([]string, 0, end-t.offset)
	for _, e := range t.tools[t.offset:end] {
		name := t.styles.Body.Width(toolNameWidth).Render(util.Truncate(e.Name, toolNameWidth-1))
		bar := components.NewBar(t.styles, e.Count, top, barWidth).View()
		count := t.styles.Bold.Render(fmt.Sprintf(" %s", util.FormatCount(e.Count)))
		pct := t.styles.Muted.Render(" " + util.FormatPercent(e.Count, total))
		rows = append(rows, name+bar+count+pct)
	}

	help := components.NewHelpBar(t.styles,
		components.KeyBinding{Key: "j/k", Desc: "scroll"},
	).View()

	return lipgloss.JoinVertical(lipgloss.Left,
		title, info, "",
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		help)
}
