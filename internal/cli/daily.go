package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var dailyCmd = &cobra.Command{
	Use:   "daily <archive>",
	Short: "Show activity per day",
	Long: `Show conversations and messages grouped by the day each conversation
was created, oldest first.`,
	Args: cobra.ExactArgs(1),
	RunE: withSnapshot(runDaily),
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, args []string, snap *analytics.Snapshot) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, snap.Daily)
	}

	if len(snap.Daily) == 0 {
		fmt.Fprintln(out, "No activity found.")
		return nil
	}

	tw := newTable(out, "DATE", "CONVERSATIONS", "MESSAGES")
	for _, d := range snap.Daily {
		row(tw, orDash(d.Date), util.FormatCount(d.Conversations), util.FormatCount(d.Messages))
	}
	return tw.Flush()
}
