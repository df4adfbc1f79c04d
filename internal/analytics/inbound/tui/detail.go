package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/components"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/exportview/internal/util"
)

const detailHeaderHeight = 8

// Detail displays one conversation thread
type Detail struct {
	id       string
	detail   analytics.ConversationDetail
	conv     domain.Conversation
	found    bool
	viewport viewport.Model
	styles   *theme.Styles
	width    int
	height   int
}

// NewDetail creates a new detail screen for the conversation id in snap
func NewDetail(styles *theme.Styles, snap *analytics.Snapshot, id string, width, height int) *Detail {
	d := &Detail{
		id:       id,
		styles:   styles,
		width:    width,
		height:   height,
		viewport: viewport.New(max(width, 40), max(height-chromeHeight-detailHeaderHeight, 5)),
	}
	if snap != nil {
		d.detail, d.conv, d.found = snap.Conversation(id)
	}
	d.refresh()
	return d
}

// SetStyles switches the screen to another theme.
func (d *Detail) SetStyles(styles *theme.Styles) {
	d.styles = styles
	d.refresh()
}

// Update implements tea.Model
func (d *Detail) Update(msg tea.Msg) (*Detail, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		d.detail, d.conv, d.found = msg.Snapshot.Conversation(d.id)
		d.refresh()
		d.viewport.GotoTop()
		return d, nil

	case tea.WindowSizeMsg:
		d.width = msg.Width
		d.height = msg.Height
		d.viewport.Width = max(msg.Width, 40)
		d.viewport.Height = max(msg.Height-chromeHeight-detailHeaderHeight, 5)
		d.refresh()
		return d, nil
	}

	var cmd tea.Cmd
	d.viewport, cmd = d.viewport.Update(msg)
	return d, cmd
}

func (d *Detail) refresh() {
	if d.found {
		d.viewport.SetContent(d.renderThread())
	}
}

// View implements tea.Model
func (d *Detail) View() string {
	if !d.found {
		return d.styles.Error.Render(fmt.Sprintf("Conversation %s not found.", d.id))
	}

	s := d.detail
	title := d.styles.Title.Render(s.Name)

	info := lipgloss.JoinVertical(lipgloss.Left,
		d.renderField("User", s.UserName),
		d.renderField("Created", util.FormatDateTime(s.CreatedAt)),
		d.renderField("Messages", fmt.Sprintf("%d (%d human / %d assistant)", s.TotalMessages, s.HumanMessages, s.AssistantMessages)),
		d.renderField("Characters", fmt.Sprintf("%s human / %s assistant", util.FormatCount(s.HumanChars), util.FormatCount(s.AssistantChars))),
		d.renderField("Tools", formatTools(s.ToolsUsed)),
		d.renderField("Thinking", fmt.Sprintf("%d blocks", s.ThinkingBlocks)),
	)

	scroll := d.styles.Muted.Render(fmt.Sprintf("%3.f%%", d.viewport.ScrollPercent()*100))

	help := components.NewHelpBar(d.styles,
		components.KeyBinding{Key: "j/k", Desc: "scroll"},
		components.KeyBinding{Key: "esc", Desc: "back"},
	).View()

	return lipgloss.JoinVertical(lipgloss.Left, title, info, "", d.viewport.View(), scroll, help)
}

func (d *Detail) renderField(label, value string) string {
	l := d.styles.Muted.Width(12).Render(label)
	v := d.styles.Body.Render(value)
	return l + v
}

func (d *Detail) renderThread() string {
	if len(d.conv.Messages) == 0 {
		return d.styles.Muted.Render("This conversation has no messages.")
	}

	body := d.styles.Body.Width(max(d.viewport.Width-2, 20))

	var b strings.Builder
	for i, m := range d.conv.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(d.renderSender(m.Sender))
		if m.CreatedAt != "" {
			b.WriteString("  " + d.styles.Muted.Render(util.FormatDateTime(m.CreatedAt)))
		}
		b.WriteString("\n")

		if marks := blockMarkers(m.Content); marks != "" {
			b.WriteString(d.styles.Muted.Render(marks) + "\n")
		}
		text := m.Text
		if text == "" {
			text = "(no text)"
		}
		b.WriteString(body.Render(text))
	}
	return b.String()
}

func (d *Detail) renderSender(s domain.Sender) string {
	switch s {
	case domain.SenderHuman:
		return d.styles.Human.Render("HUMAN")
	case domain.SenderAssistant:
		return d.styles.Assistant.Render("ASSISTANT")
	default:
		return d.styles.Muted.Render(strings.ToUpper(string(s)))
	}
}

// blockMarkers summarises non-text content blocks: "[thinking] [tool: web_search]".
func blockMarkers(blocks []domain.ContentBlock) string {
	var marks []string
	for _, b := range blocks {
		switch b.Type {
		case domain.BlockThinking:
			marks = append(marks, "[thinking]")
		case domain.BlockToolUse:
			if name, ok := b.ToolName(); ok {
				marks = append(marks, "[tool: "+name+"]")
			}
		case domain.BlockToolResult:
			marks = append(marks, "[tool result]")
		}
	}
	return strings.Join(marks, " ")
}

func formatTools(tc analytics.ToolCounts) string {
	if tc.Len() == 0 {
		return "-"
	}
	parts := make([]string, 0, tc.Len())
	for _, e := range tc.Entries() {
		parts = append(parts, fmt.Sprintf("%s×%d", e.Name, e.Count))
	}
	return strings.Join(parts, ", ")
}
