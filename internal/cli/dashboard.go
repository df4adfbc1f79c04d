package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	apptui "github.com/emiliopalmerini/exportview/internal/app/tui"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard <archive>",
	Aliases: []string{"tui"},
	Short:   "Open the terminal dashboard",
	Long: `Open an interactive terminal dashboard for an export.

Keys: 1-5 switch screens, / searches conversations, enter opens a thread,
esc goes back, t toggles the theme, r reloads the archive, q quits.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runDashboard),
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string, a *AppContext) error {
	path := args[0]
	load := func(ctx context.Context) (*analytics.Snapshot, error) {
		return a.Service.LoadFile(ctx, path)
	}

	model := apptui.NewApp(load, a.Settings, a.Config.LoadTimeout)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}
