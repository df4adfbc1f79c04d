package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var conversationsCmd = &cobra.Command{
	Use:     "conversations <archive>",
	Aliases: []string{"convs"},
	Short:   "List conversations",
	Long: `List conversations, most recently created first.

Examples:
  exportview conversations export.zip
  exportview conversations export.zip --search "kube" --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: withSnapshot(runConversations),
}

var showCmd = &cobra.Command{
	Use:   "show <archive> <conversation-id>",
	Short: "Print a conversation thread",
	Args:  cobra.ExactArgs(2),
	RunE:  withSnapshot(runShow),
}

var (
	convSearch string
	convLimit  int
)

func init() {
	rootCmd.AddCommand(conversationsCmd)
	rootCmd.AddCommand(showCmd)

	conversationsCmd.Flags().StringVarP(&convSearch, "search", "s", "", "Fuzzy-match conversation names")
	conversationsCmd.Flags().IntVarP(&convLimit, "limit", "n", 20, "Show at most n conversations (0 means all)")
}

func runConversations(cmd *cobra.Command, args []string, snap *analytics.Snapshot) error {
	out := cmd.OutOrStdout()
	matches := snap.SearchConversations(strings.TrimSpace(convSearch))
	shown := limitSlice(matches, convLimit)
	if jsonOutput {
		return printJSON(out, shown)
	}

	if len(shown) == 0 {
		fmt.Fprintln(out, "No conversations found.")
		return nil
	}

	tw := newTable(out, "ID", "NAME", "USER", "CREATED", "MSGS", "THINKING", "TOOLS")
	for _, c := range shown {
		row(tw,
			c.ID,
			util.Truncate(c.Name, 40),
			util.Truncate(c.UserName, 20),
			util.FormatDateTime(c.CreatedAt),
			util.FormatCount(c.TotalMessages),
			util.FormatCount(c.ThinkingBlocks),
			util.Truncate(toolList(c.ToolsUsed), 30),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nShowing %d of %d conversation(s)\n", len(shown), len(matches))
	return nil
}

type threadJSON struct {
	analytics.ConversationDetail
	Summary  string           `json:"summary,omitempty"`
	Messages []domain.Message `json:"messages"`
}

func runShow(cmd *cobra.Command, args []string, snap *analytics.Snapshot) error {
	out := cmd.OutOrStdout()
	detail, conv, ok := snap.Conversation(args[1])
	if !ok {
		return fmt.Errorf("conversation %q not found", args[1])
	}

	if jsonOutput {
		messages := conv.Messages
		if messages == nil {
			messages = []domain.Message{}
		}
		return printJSON(out, threadJSON{ConversationDetail: detail, Summary: conv.Summary, Messages: messages})
	}

	fmt.Fprintln(out, detail.Name)
	fmt.Fprintln(out, strings.Repeat("=", min(len([]rune(detail.Name)), 80)))
	fmt.Fprintf(out, "User:     %s\n", detail.UserName)
	fmt.Fprintf(out, "Created:  %s\n", orDash(util.FormatDateTime(detail.CreatedAt)))
	fmt.Fprintf(out, "Messages: %d (%d human / %d assistant)\n", detail.TotalMessages, detail.HumanMessages, detail.AssistantMessages)
	fmt.Fprintf(out, "Tools:    %s\n", toolList(detail.ToolsUsed))
	if conv.Summary != "" {
		fmt.Fprintf(out, "\n%s\n", conv.Summary)
	}

	for _, m := range conv.Messages {
		fmt.Fprintf(out, "\n--- %s", strings.ToUpper(string(m.Sender)))
		if m.CreatedAt != "" {
			fmt.Fprintf(out, "  %s", util.FormatDateTime(m.CreatedAt))
		}
		fmt.Fprintln(out)
		if marks := markers(m.Content); marks != "" {
			fmt.Fprintln(out, marks)
		}
		text := m.Text
		if text == "" {
			text = "(no text)"
		}
		fmt.Fprintln(out, text)
	}
	return nil
}

func markers(blocks []domain.ContentBlock) string {
	var marks []string
	for _, b := range blocks {
		switch b.Type {
		case domain.BlockThinking:
			marks = append(marks, "[thinking]")
		case domain.BlockToolUse:
			if name, ok := b.ToolName(); ok {
				marks = append(marks, "[tool: "+name+"]")
			}
		}
	}
	return strings.Join(marks, " ")
}
