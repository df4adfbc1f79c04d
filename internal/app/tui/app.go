package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	analyticstui "github.com/emiliopalmerini/exportview/internal/analytics/inbound/tui"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/components"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/exportview/internal/settings"
)

// Screen identifies the current screen
type Screen int

const (
	ScreenOverview Screen = iota
	ScreenUsers
	ScreenTools
	ScreenConversations
	ScreenDetail
	ScreenProjects
)

// Loader loads the archive shown by the dashboard.
type Loader func(ctx context.Context) (*analytics.Snapshot, error)

// App is the main dashboard TUI application
type App struct {
	load        Loader
	settings    *settings.Settings
	loadTimeout time.Duration

	currentScreen Screen
	overview      *analyticstui.Overview
	users         *analyticstui.Users
	tools         *analyticstui.Tools
	conversations *analyticstui.Conversations
	detail        *analyticstui.Detail
	projects      *analyticstui.Projects

	snap    *analytics.Snapshot
	loading bool
	err     error
	styles  *theme.Styles
	width   int
	height  int
}

// NewApp creates a new dashboard application
func NewApp(load Loader, prefs *settings.Settings, loadTimeout time.Duration) *App {
	styles := theme.For(prefs.Theme())
	return &App{
		load:          load,
		settings:      prefs,
		loadTimeout:   loadTimeout,
		currentScreen: ScreenOverview,
		overview:      analyticstui.NewOverview(styles),
		users:         analyticstui.NewUsers(styles),
		tools:         analyticstui.NewTools(styles),
		conversations: analyticstui.NewConversations(styles),
		projects:      analyticstui.NewProjects(styles),
		loading:       true,
		styles:        styles,
	}
}

type themeChangedMsg struct {
	theme domain.Theme
	err   error
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.loadSnapshot()
}

func (a *App) loadSnapshot() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if a.loadTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, a.loadTimeout)
			defer cancel()
		}

		snap, err := a.load(ctx)
		if err != nil {
			return analyticstui.LoadFailedMsg{Err: fmt.Errorf("load archive: %w", err)}
		}
		return analyticstui.SnapshotLoadedMsg{Snapshot: snap}
	}
}

func (a *App) toggleTheme() tea.Cmd {
	return func() tea.Msg {
		t, err := a.settings.Toggle(context.Background())
		return themeChangedMsg{theme: t, err: err}
	}
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.currentScreen == ScreenConversations && a.conversations.Filtering() {
			if msg.String() == "ctrl+c" {
				return a, tea.Quit
			}
			break
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return a, tea.Quit
		case "1":
			a.currentScreen = ScreenOverview
			return a, nil
		case "2":
			a.currentScreen = ScreenUsers
			return a, nil
		case "3":
			a.currentScreen = ScreenTools
			return a, nil
		case "4":
			a.currentScreen = ScreenConversations
			return a, nil
		case "5":
			a.currentScreen = ScreenProjects
			return a, nil
		case "t":
			return a, a.toggleTheme()
		case "r":
			a.loading = true
			a.err = nil
			return a, a.loadSnapshot()
		case "esc":
			if a.currentScreen == ScreenDetail {
				a.currentScreen = ScreenConversations
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, a.broadcast(msg)

	case analyticstui.SnapshotLoadedMsg:
		a.loading = false
		a.err = nil
		a.snap = msg.Snapshot
		return a, a.broadcast(msg)

	case analyticstui.LoadFailedMsg:
		a.loading = false
		a.err = msg.Err
		return a, nil

	case analyticstui.ConversationSelectedMsg:
		a.detail = analyticstui.NewDetail(a.styles, a.snap, msg.ID, a.width, a.height)
		a.currentScreen = ScreenDetail
		return a, nil

	case themeChangedMsg:
		if msg.err != nil {
			a.err = msg.err
		}
		a.applyStyles(theme.For(msg.theme))
		return a, nil
	}

	// Forward to current screen
	var cmd tea.Cmd
	switch a.currentScreen {
	case ScreenOverview:
		a.overview, cmd = a.overview.Update(msg)
	case ScreenUsers:
		a.users, cmd = a.users.Update(msg)
	case ScreenTools:
		a.tools, cmd = a.tools.Update(msg)
	case ScreenConversations:
		a.conversations, cmd = a.conversations.Update(msg)
	case ScreenDetail:
		if a.detail != nil {
			a.detail, cmd = a.detail.Update(msg)
		}
	case ScreenProjects:
		a.projects, cmd = a.projects.Update(msg)
	}

	return a, cmd
}

// broadcast delivers msg to every screen, not only the visible one.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	a.overview, cmd = a.overview.Update(msg)
	cmds = append(cmds, cmd)
	a.users, cmd = a.users.Update(msg)
	cmds = append(cmds, cmd)
	a.tools, cmd = a.tools.Update(msg)
	cmds = append(cmds, cmd)
	a.conversations, cmd = a.conversations.Update(msg)
	cmds = append(cmds, cmd)
	a.projects, cmd = a.projects.Update(msg)
	cmds = append(cmds, cmd)
	if a.detail != nil {
		a.detail, cmd = a.detail.Update(msg)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}

func (a *App) applyStyles(styles *theme.Styles) {
	a.styles = styles
	a.overview.SetStyles(styles)
	a.users.SetStyles(styles)
	a.tools.SetStyles(styles)
	a.conversations.SetStyles(styles)
	a.projects.SetStyles(styles)
	if a.detail != nil {
		a.detail.SetStyles(styles)
	}
}

// View implements tea.Model
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	width := a.width
	if width <= 0 {
		width = 64
	}
	sep := a.styles.Rule.Render(strings.Repeat("─", width))

	var content string
	switch {
	case a.snap == nil && a.loading:
		content = a.styles.Muted.Render("Loading archive...")
	case a.snap == nil && a.err != nil:
		content = a.styles.Error.Render(fmt.Sprintf("Error: %v", a.err))
	default:
		content = a.renderScreen()
	}

	status := ""
	if a.snap != nil && a.err != nil {
		status = a.styles.Error.Render(fmt.Sprintf("Error: %v", a.err))
	} else if a.snap != nil && a.loading {
		status = a.styles.Muted.Render("Reloading...")
	}

	help := components.NewHelpBar(a.styles,
		components.KeyBinding{Key: "1-5", Desc: "screens"},
		components.KeyBinding{Key: "r", Desc: "reload"},
		components.KeyBinding{Key: "t", Desc: "theme"},
		components.KeyBinding{Key: "q", Desc: "quit"},
	).View()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, sep, status, content, help)
}

func (a *App) renderScreen() string {
	switch a.currentScreen {
	case ScreenUsers:
		return a.users.View()
	case ScreenTools:
		return a.tools.View()
	case ScreenConversations:
		return a.conversations.View()
	case ScreenDetail:
		if a.detail != nil {
			return a.detail.View()
		}
		return a.conversations.View()
	case ScreenProjects:
		return a.projects.View()
	default:
		return a.overview.View()
	}
}

func (a *App) renderHeader() string {
	title := a.styles.Bold.Render("EXPORTVIEW")
	tagline := a.styles.Muted.Render("Conversation Export Analytics")
	themeName := a.styles.NavKey.Render(string(a.styles.Theme))

	return lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", tagline, "  ", themeName)
}

func (a *App) renderNav() string {
	items := []NavItem{
		{Key: "1", Label: "Overview", Active: a.currentScreen == ScreenOverview},
		{Key: "2", Label: "Users", Active: a.currentScreen == ScreenUsers},
		{Key: "3", Label: "Tools", Active: a.currentScreen == ScreenTools},
		{Key: "4", Label: "Conversations", Active: a.currentScreen == ScreenConversations || a.currentScreen == ScreenDetail},
		{Key: "5", Label: "Projects", Active: a.currentScreen == ScreenProjects},
	}
	return NewNavBar(a.styles, items).View()
}

// CurrentScreen returns the visible screen.
func (a *App) CurrentScreen() Screen {
	return a.currentScreen
}

// Theme returns the active theme.
func (a *App) Theme() domain.Theme {
	return a.styles.Theme
}
