package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously loaded archives",
	Long: `List the archives loaded by any command, newest first, with the
totals seen at load time.`,
	Args: cobra.NoArgs,
	RunE: withApp(runHistory),
}

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string, a *AppContext) error {
	if a.History == nil {
		return errNoDatabase
	}
	out := cmd.OutOrStdout()

	records, err := a.History.List(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list import history: %w", err)
	}
	if jsonOutput {
		if records == nil {
			records = []domain.ImportRecord{}
		}
		return printJSON(out, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No archives loaded yet.")
		return nil
	}

	tw := newTable(out, "LOADED", "SOURCE", "USERS", "CONVS", "MESSAGES", "PROJECTS")
	for _, r := range records {
		row(tw,
			r.LoadedAt.Local().Format("2006-01-02 15:04:05"),
			util.Truncate(r.Source, 50),
			util.FormatCount(r.Users),
			util.FormatCount(r.Conversations),
			util.FormatCount(r.Messages),
			util.FormatCount(r.Projects),
		)
	}
	return tw.Flush()
}
