package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/components"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var userColumns = []table.Column{
	{Title: "NAME", Width: 22},
	{Title: "EMAIL", Width: 28},
	{Title: "CONVS", Width: 7},
	{Title: "MSGS", Width: 8},
	{Title: "AVG PROMPT", Width: 11},
	{Title: "AVG REPLY", Width: 10},
	{Title: "THINKING", Width: 9},
	{Title: "LAST ACTIVE", Width: 17},
}

// Users lists per-user statistics, most active first
type Users struct {
	users  []analytics.UserStats
	table  table.Model
	styles *theme.Styles
}

// NewUsers creates a new users screen
func NewUsers(styles *theme.Styles) *Users {
	return &Users{
		table:  newTable(styles, userColumns),
		styles: styles,
	}
}

// SetStyles switches the screen to another theme.
func (u *Users) SetStyles(styles *theme.Styles) {
	u.styles = styles
	u.table.SetStyles(tableStyles(styles))
}

// Update implements tea.Model
func (u *Users) Update(msg tea.Msg) (*Users, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		u.users = msg.Snapshot.Users
		u.table.SetRows(userRows(u.users))
		u.table.SetCursor(0)
		return u, nil

	case tea.WindowSizeMsg:
		u.table.SetHeight(tableHeight(msg.Height))
		return u, nil
	}

	var cmd tea.Cmd
	u.table, cmd = u.table.Update(msg)
	return u, cmd
}

func userRows(users []analytics.UserStats) []table.Row {
	rows := make([]table.Row, 0, len(users))
	for _, s := range users {
		name := s.Name
		if name == "" {
			name = analytics.UnknownUser
		}
		lastActive := util.FormatDateTime(s.LastActive)
		if lastActive == "" {
			lastActive = "-"
		}
		rows = append(rows, table.Row{
			util.Truncate(name, 22),
			util.Truncate(s.Email, 28),
			strconv.Itoa(s.ConversationCount),
			util.FormatCount(s.MessageCount),
			strconv.Itoa(s.AvgPromptLength),
			strconv.Itoa(s.AvgResponseLength),
			strconv.Itoa(s.ThinkingBlocks),
			lastActive,
		})
	}
	return rows
}

// View implements tea.Model
func (u *Users) View() string {
	title := u.styles.Title.Render("Users")
	if len(u.users) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, u.styles.Muted.Render("No users in this archive."))
	}

	info := u.styles.Muted.Render(fmt.Sprintf("%d users, sorted by conversations", len(u.users)))
	detail := u.renderSelected()

	help := components.NewHelpBar(u.styles,
		components.KeyBinding{Key: "j/k", Desc: "navigate"},
	).View()

	return lipgloss.JoinVertical(lipgloss.Left, title, info, "", u.table.View(), "", detail, help)
}

func (u *Users) renderSelected() string {
	i := u.table.Cursor()
	if i < 0 || i >= len(u.users) {
		return ""
	}
	s := u.users[i]

	tools := "no tools"
	if s.ToolsUsed.Len() > 0 {
		tools = ""
		for j, e := range s.ToolsUsed.Entries() {
			if j > 0 {
				tools += ", "
			}
			tools += fmt.Sprintf("%s×%d", e.Name, e.Count)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		u.styles.Human.Render(fmt.Sprintf("human %d msgs / %s chars", s.HumanMessages, util.FormatCount(s.HumanChars)))+
			"   "+
			u.styles.Assistant.Render(fmt.Sprintf("assistant %d msgs / %s chars", s.AssistantMessages, util.FormatCount(s.AssistantChars))),
		u.styles.Muted.Render("tools: "+util.Truncate(tools, 100)),
	)
}
