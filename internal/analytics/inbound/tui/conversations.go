package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/components"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var conversationColumns = []table.Column{
	{Title: "CREATED", Width: 17},
	{Title: "NAME", Width: 36},
	{Title: "USER", Width: 18},
	{Title: "MSGS", Width: 6},
	{Title: "TOOLS", Width: 6},
	{Title: "THINK", Width: 6},
}

// Conversations lists conversations, most recent first, with fuzzy search
type Conversations struct {
	snap   *analytics.Snapshot
	shown  []analytics.ConversationDetail
	table  table.Model
	search textinput.Model
	styles *theme.Styles
}

// NewConversations creates a new conversations list screen
func NewConversations(styles *theme.Styles) *Conversations {
	search := textinput.New()
	search.Placeholder = "search by name"
	search.Prompt = "/ "
	search.CharLimit = 120

	return &Conversations{
		table:  newTable(styles, conversationColumns),
		search: search,
		styles: styles,
	}
}

// SetStyles switches the screen to another theme.
func (c *Conversations) SetStyles(styles *theme.Styles) {
	c.styles = styles
	c.table.SetStyles(tableStyles(styles))
}

// Filtering reports whether the search box has focus and wants every key.
func (c *Conversations) Filtering() bool {
	return c.search.Focused()
}

// Query returns the active search query.
func (c *Conversations) Query() string {
	return c.search.Value()
}

// Shown returns the conversations currently listed.
func (c *Conversations) Shown() []analytics.ConversationDetail {
	return c.shown
}

// Update implements tea.Model
func (c *Conversations) Update(msg tea.Msg) (*Conversations, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		c.snap = msg.Snapshot
		c.applyFilter()
		return c, nil

	case tea.WindowSizeMsg:
		c.table.SetHeight(tableHeight(msg.Height) - 1)
		return c, nil

	case tea.KeyMsg:
		if c.search.Focused() {
			return c.updateSearch(msg)
		}

		switch msg.String() {
		case "/":
			c.table.Blur()
			return c, c.search.Focus()
		case "esc":
			if c.search.Value() != "" {
				c.search.SetValue("")
				c.applyFilter()
				return c, nil
			}
		case "enter":
			if id, ok := c.selectedID(); ok {
				return c, func() tea.Msg { return ConversationSelectedMsg{ID: id} }
			}
			return c, nil
		}
	}

	var cmd tea.Cmd
	c.table, cmd = c.table.Update(msg)
	return c, cmd
}

func (c *Conversations) updateSearch(msg tea.KeyMsg) (*Conversations, tea.Cmd) {
	switch msg.String() {
	case "enter":
		c.search.Blur()
		c.table.Focus()
		return c, nil
	case "esc":
		c.search.SetValue("")
		c.search.Blur()
		c.table.Focus()
		c.applyFilter()
		return c, nil
	}

	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	c.applyFilter()
	return c, cmd
}

func (c *Conversations) applyFilter() {
	if c.snap == nil {
		c.shown = nil
	} else {
		c.shown = c.snap.SearchConversations(c.search.Value())
	}
	c.table.SetRows(conversationRows(c.shown))
	c.table.SetCursor(0)
}

func (c *Conversations) selectedID() (string, bool) {
	i := c.table.Cursor()
	if i < 0 || i >= len(c.shown) {
		return "", false
	}
	return c.shown[i].ID, true
}

func conversationRows(details []analytics.ConversationDetail) []table.Row {
	rows := make([]table.Row, 0, len(details))
	for _, d := range details {
		think := ""
		if d.HasThinking {
			think = strconv.Itoa(d.ThinkingBlocks)
		}
		rows = append(rows, table.Row{
			util.FormatDateTime(d.CreatedAt),
			util.Truncate(d.Name, 36),
			util.Truncate(d.UserName, 18),
			strconv.Itoa(d.TotalMessages),
			strconv.Itoa(d.ToolsUsed.Total()),
			think,
		})
	}
	return rows
}

// View implements tea.Model
func (c *Conversations) View() string {
	title := c.styles.Title.Render("Conversations")
	if c.snap == nil || len(c.snap.Conversations) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, c.styles.Muted.Render("No conversations in this archive."))
	}

	info := fmt.Sprintf("%d of %d conversations", len(c.shown), len(c.snap.Conversations))
	if q := c.search.Value(); q != "" && !c.search.Focused() {
		info += fmt.Sprintf(" matching %q", q)
	}

	searchLine := ""
	if c.search.Focused() {
		searchLine = c.search.View()
	}

	help := components.NewHelpBar(c.styles,
		components.KeyBinding{Key: "j/k", Desc: "navigate"},
		components.KeyBinding{Key: "enter", Desc: "open"},
		components.KeyBinding{Key: "/", Desc: "search"},
		components.KeyBinding{Key: "esc", Desc: "clear"},
	).View()

	return lipgloss.JoinVertical(lipgloss.Left,
		title, c.styles.Muted.Render(info), searchLine, c.table.View(), help)
}
