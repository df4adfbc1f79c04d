package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run migrations on the preference database.

Without arguments, runs all pending migrations (up).
With a version number, migrates to that specific version (up or down as needed).
The database is migrated automatically whenever it is opened, so this is
mostly useful for --status and rollbacks.

Examples:
  exportview migrate            # Run all pending migrations
  exportview migrate --status   # Show current and pending versions
  exportview migrate 1          # Migrate to version 1
  exportview migrate 0          # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runMigrate),
}

var migrateStatus bool

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&migrateStatus, "status", false, "Only show the migration status")
}

var errNoDatabase = errors.New("preference database is unavailable")

func runMigrate(cmd *cobra.Command, args []string, a *AppContext) error {
	if a.DB == nil {
		return errNoDatabase
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	m, err := migrate.New(a.DB, out)
	if err != nil {
		return err
	}

	st, err := m.Status(ctx)
	if err != nil {
		return err
	}

	if migrateStatus {
		if jsonOutput {
			return printJSON(out, map[string]any{
				"current": st.Current,
				"latest":  st.Latest,
				"dirty":   st.Dirty,
				"pending": len(st.Pending),
			})
		}
		fmt.Fprintf(out, "Database: %s\n", a.Config.DatabasePath)
		fmt.Fprintf(out, "Current version: %d\n", st.Current)
		fmt.Fprintf(out, "Latest version:  %d\n", st.Latest)
		if st.Dirty {
			fmt.Fprintln(out, "State:           dirty")
		}
		for _, p := range st.Pending {
			fmt.Fprintf(out, "  pending %03d_%s\n", p.Version, p.Name)
		}
		return nil
	}

	fmt.Fprintf(out, "Current version: %d\n", st.Current)
	if len(args) == 0 {
		return m.Up(ctx)
	}

	target, err := strconv.Atoi(args[0])
	if err != nil || target < 0 {
		return fmt.Errorf("invalid version number: %s", args[0])
	}
	switch {
	case target > st.Current:
		return m.UpTo(ctx, target)
	case target < st.Current:
		return m.DownTo(ctx, target)
	default:
		fmt.Fprintln(out, "Already at target version")
		return nil
	}
}
