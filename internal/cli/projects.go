package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/util"
)

var projectsCmd = &cobra.Command{
	Use:   "projects <archive>",
	Short: "List projects",
	Args:  cobra.ExactArgs(1),
	RunE:  withSnapshot(runProjects),
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string, snap *analytics.Snapshot) error {
	out := cmd.OutOrStdout()
	projects := snap.Export.Projects
	if jsonOutput {
		if projects == nil {
			projects = []domain.Project{}
		}
		return printJSON(out, projects)
	}

	if len(projects) == 0 {
		fmt.Fprintln(out, "No projects found.")
		return nil
	}

	tw := newTable(out, "NAME", "CREATOR", "CREATED", "DOCS", "PRIVATE", "DESCRIPTION")
	for _, p := range projects {
		name := p.Name
		if name == "" {
			name = analytics.UntitledConversation
		}
		row(tw,
			util.Truncate(name, 40),
			orDash(p.Creator.FullName),
			orDash(util.FormatDateHuman(p.CreatedAt)),
			strconv.Itoa(len(p.Docs)),
			strconv.FormatBool(p.IsPrivate),
			util.Truncate(util.FirstLine(p.Description), 50),
		)
	}
	return tw.Flush()
}
