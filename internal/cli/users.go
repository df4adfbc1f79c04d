package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var usersCmd = &cobra.Command{
	Use:   "users <archive>",
	Short: "Show per-user statistics",
	Long: `Show one row per user, most conversations first.

Examples:
  exportview users export.zip
  exportview users export.zip --limit 5
  exportview users export.zip --json`,
	Args: cobra.ExactArgs(1),
	RunE: withSnapshot(runUsers),
}

var usersLimit int

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.Flags().IntVarP(&usersLimit, "limit", "n", 0, "Show at most n users (0 means all)")
}

func runUsers(cmd *cobra.Command, args []string, snap *analytics.Snapshot) error {
	out := cmd.OutOrStdout()
	users := limitSlice(snap.Users, usersLimit)
	if jsonOutput {
		return printJSON(out, users)
	}

	if len(users) == 0 {
		fmt.Fprintln(out, "No users found.")
		return nil
	}

	tw := newTable(out, "NAME", "EMAIL", "CONVS", "MESSAGES", "AVG PROMPT", "AVG RESPONSE", "THINKING", "TOOLS", "LAST ACTIVE")
	for _, u := range users {
		row(tw,
			orDash(u.Name),
			orDash(u.Email),
			util.FormatCount(u.ConversationCount),
			util.FormatCount(u.MessageCount),
			util.FormatCount(u.AvgPromptLength),
			util.FormatCount(u.AvgResponseLength),
			util.FormatCount(u.ThinkingBlocks),
			util.Truncate(toolList(u.ToolsUsed), 40),
			orDash(util.FormatDateTime(u.LastActive)),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nShowing %d of %d user(s)\n", len(users), len(snap.Users))
	return nil
}
