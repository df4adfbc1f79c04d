package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var toolsCmd = &cobra.Command{
	Use:   "tools <archive>",
	Short: "Show tool usage",
	Long: `Show how often each tool was invoked across all conversations,
most used first.

Examples:
  exportview tools export.zip
  exportview tools export.zip --limit 10`,
	Args: cobra.ExactArgs(1),
	RunE: withSnapshot(runTools),
}

var toolsLimit int

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().IntVarP(&toolsLimit, "limit", "n", 0, "Show at most n tools (0 means all)")
}

func runTools(cmd *cobra.Command, args []string, snap *analytics.Snapshot) error {
	out := cmd.OutOrStdout()
	tools := limitSlice(snap.Tools, toolsLimit)
	if jsonOutput {
		return printJSON(out, tools)
	}

	if len(tools) == 0 {
		fmt.Fprintln(out, "No tool calls found.")
		return nil
	}

	total := snap.Overview.ToolInvocations
	tw := newTable(out, "TOOL", "CALLS", "SHARE")
	for _, t := range tools {
		row(tw, t.Name, util.FormatCount(t.Count), util.FormatPercent(t.Count, total))
	}
	return tw.Flush()
}
