package theme

import (
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

// Styles contains all shared TUI styles
type Styles struct {
	Theme   domain.Theme
	Palette Palette

	// Text styles
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Body        lipgloss.Style
	Muted       lipgloss.Style
	Bold        lipgloss.Style
	Highlighted lipgloss.Style

	// Interactive elements
	Selected lipgloss.Style
	Active   lipgloss.Style
	Inactive lipgloss.Style
	NavKey   lipgloss.Style
	NavSep   lipgloss.Style

	// Help and hints
	Help    lipgloss.Style
	HelpKey lipgloss.Style

	// Layout
	Container lipgloss.Style
	Card      lipgloss.Style
	Border    lipgloss.Style
	Rule      lipgloss.Style

	// Tables
	Header lipgloss.Style
	Cell   lipgloss.Style

	// Bars
	BarFill  lipgloss.Style
	BarEmpty lipgloss.Style

	// Messages
	Human     lipgloss.Style
	Assistant lipgloss.Style

	// Status indicators
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
}

var (
	cache   = map[domain.Theme]*Styles{}
	cacheMu sync.Mutex
)

// Default returns the dark styles.
func Default() *Styles {
	return For(domain.ThemeDark)
}

// For returns the shared Styles for t. Unknown themes get the dark styles.
func For(t domain.Theme) *Styles {
	if t != domain.ThemeLight {
		t = domain.ThemeDark
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if s, ok := cache[t]; ok {
		return s
	}

	p := Dark
	if t == domain.ThemeLight {
		p = Light
	}
	s := newStyles(p)
	s.Theme = t
	cache[t] = s
	return s
}

func newStyles(p Palette) *Styles {
	return &Styles{
		Palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text).
			MarginBottom(1),

		Subtitle: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(p.Body),

		Muted: lipgloss.NewStyle().
			Foreground(p.Muted),

		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Text),

		Highlighted: lipgloss.NewStyle().
			Foreground(p.BrightAccent).
			Bold(true),

		Selected: lipgloss.NewStyle().
			Foreground(p.Base).
			Background(p.Text).
			Bold(true),

		Active: lipgloss.NewStyle().
			Foreground(p.BrightAccent).
			Bold(true),

		Inactive: lipgloss.NewStyle().
			Foreground(p.Muted),

		NavKey: lipgloss.NewStyle().
			Foreground(p.Subtle),

		NavSep: lipgloss.NewStyle().
			Foreground(p.Faint),

		Help: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),

		HelpKey: lipgloss.NewStyle().
			Foreground(p.Body).
			Bold(true),

		Container: lipgloss.NewStyle().
			Padding(1, 2),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Faint).
			Padding(0, 2),

		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Muted),

		Rule: lipgloss.NewStyle().
			Foreground(p.Faint),

		Header: lipgloss.NewStyle().
			Foreground(p.Muted).
			Bold(true),

		Cell: lipgloss.NewStyle().
			Foreground(p.Body),

		BarFill: lipgloss.NewStyle().
			Foreground(p.Accent),

		BarEmpty: lipgloss.NewStyle().
			Foreground(p.Faint),

		Human: lipgloss.NewStyle().
			Foreground(p.Human).
			Bold(true),

		Assistant: lipgloss.NewStyle().
			Foreground(p.Assistant).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(p.Success),

		Warning: lipgloss.NewStyle().
			Foreground(p.Warning),

		Error: lipgloss.NewStyle().
			Foreground(p.Error),

		Info: lipgloss.NewStyle().
			Foreground(p.Info),
	}
}
