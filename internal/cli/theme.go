package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

var themeCmd = &cobra.Command{
	Use:   "theme [dark|light|toggle]",
	Short: "Show or change the dashboard theme",
	Long: `Show or change the theme shared by the terminal and web dashboards.
The choice is saved and survives restarts.

Examples:
  exportview theme          # Print the current theme
  exportview theme light    # Switch to light
  exportview theme toggle   # Flip between dark and light`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dark", "light", "toggle"},
	RunE:      withApp(runTheme),
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string, a *AppContext) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		if args[0] == "toggle" {
			if _, err := a.Settings.Toggle(ctx); err != nil {
				return err
			}
		} else {
			t, err := domain.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := a.Settings.SetTheme(ctx, t); err != nil {
				return err
			}
		}
	}

	if jsonOutput {
		return printJSON(out, map[string]string{"theme": string(a.Settings.Theme())})
	}
	fmt.Fprintln(out, a.Settings.Theme())
	return nil
}
