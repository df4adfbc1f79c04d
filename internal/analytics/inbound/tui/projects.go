package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/components"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/exportview/internal/util"
)

// Projects lists the projects of the archive with their documents
type Projects struct {
	projects []domain.Project
	viewport viewport.Model
	styles   *theme.Styles
}

// NewProjects creates a new projects screen
func NewProjects(styles *theme.Styles) *Projects {
	return &Projects{
		viewport: viewport.New(80, 15),
		styles:   styles,
	}
}

// SetStyles switches the screen to another theme.
func (p *Projects) SetStyles(styles *theme.Styles) {
	p.styles = styles
	p.viewport.SetContent(p.render())
}

// Update implements tea.Model
func (p *Projects) Update(msg tea.Msg) (*Projects, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		p.projects = msg.Snapshot.Export.Projects
		p.viewport.SetContent(p.render())
		p.viewport.GotoTop()
		return p, nil

	case tea.WindowSizeMsg:
		p.viewport.Width = max(msg.Width, 40)
		p.viewport.Height = tableHeight(msg.Height)
		p.viewport.SetContent(p.render())
		return p, nil
	}

	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View implements tea.Model
func (p *Projects) View() string {
	title := p.styles.Title.Render("Projects")
	if len(p.projects) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, p.styles.Muted.Render("No projects in this archive."))
	}

	help := components.NewHelpBar(p.styles,
		components.KeyBinding{Key: "j/k", Desc: "scroll"},
	).View()

	return lipgloss.JoinVertical(lipgloss.Left, title, p.viewport.View(), help)
}

func (p *Projects) render() string {
	var b strings.Builder
	for i, proj := range p.projects {
		if i > 0 {
			b.WriteString("\n\n")
		}

		name := proj.Name
		if name == "" {
			name = "Untitled project"
		}
		b.WriteString(p.styles.Subtitle.Render(name))

		var flags []string
		if proj.IsPrivate {
			flags = append(flags, "private")
		}
		if proj.IsStarter {
			flags = append(flags, "starter")
		}
		if len(flags) > 0 {
			b.WriteString("  " + p.styles.Muted.Render("("+strings.Join(flags, ", ")+")"))
		}
		b.WriteString("\n")

		creator := proj.Creator.FullName
		if creator == "" {
			creator = "unknown"
		}
		b.WriteString(p.styles.Muted.Render(fmt.Sprintf("by %s  ·  created %s  ·  %d docs",
			creator, util.FormatDateHuman(proj.CreatedAt), len(proj.Docs))))

		if desc := util.FirstLine(proj.Description); desc != "" {
			b.WriteString("\n" + p.styles.Body.Render(util.Truncate(desc, max(p.viewport.Width-2, 20))))
		}
		for _, doc := range proj.Docs {
			b.WriteString("\n  " + p.styles.Body.Render("• "+doc.Filename) +
				p.styles.Muted.Render(fmt.Sprintf("  %s chars", util.FormatCount(len([]rune(doc.Content))))))
		}
	}
	return b.String()
}
