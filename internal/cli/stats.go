package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var statsCmd = &cobra.Command{
	Use:   "stats <archive>",
	Short: "Show headline totals",
	Long: `Show headline totals for an export: users, conversations, messages,
projects, thinking blocks and tool calls.

Examples:
  exportview stats export.zip
  exportview stats ./export-dir --json`,
	Args: cobra.ExactArgs(1),
	RunE: withSnapshot(runStats),
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string, snap *analytics.Snapshot) error {
	out := cmd.OutOrStdout()
	ov := snap.Overview
	if jsonOutput {
		return printJSON(out, ov)
	}

	fmt.Fprintf(out, "Export: %s\n\n", snap.Source)

	tw := newTable(out)
	row(tw, "Users", util.FormatCount(ov.Users))
	row(tw, "Conversations", util.FormatCount(ov.Conversations))
	row(tw, "Messages", fmt.Sprintf("%s (%s human / %s assistant)",
		util.FormatCount(ov.Messages), util.FormatCount(ov.HumanMessages), util.FormatCount(ov.AssistantMessages)))
	row(tw, "Projects", fmt.Sprintf("%s (%s docs)", util.FormatCount(ov.Projects), util.FormatCount(ov.ProjectDocs)))
	row(tw, "Thinking blocks", util.FormatCount(ov.ThinkingBlocks))
	row(tw, "Tool calls", fmt.Sprintf("%s across %s tools", util.FormatCount(ov.ToolInvocations), util.FormatCount(ov.DistinctTools)))
	row(tw, "With tools", fmt.Sprintf("%s conversations (%s)",
		util.FormatCount(ov.ConversationsWithTool), util.FormatPercent(ov.ConversationsWithTool, ov.Conversations)))
	row(tw, "Active days", util.FormatCount(ov.ActiveDays))
	if ov.FirstActivity != "" {
		row(tw, "Period", ov.FirstActivity+" to "+ov.LastActivity)
	}
	if ov.UnattributedConvs > 0 {
		row(tw, "Unattributed", fmt.Sprintf("%s conversations, %s messages",
			util.FormatCount(ov.UnattributedConvs), util.FormatCount(ov.UnattributedMessages)))
	}
	return tw.Flush()
}
