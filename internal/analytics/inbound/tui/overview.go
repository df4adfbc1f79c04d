package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
	"github.com/emiliopalmerini/exportview/internal/util"
)

// Overview displays the headline totals of the loaded archive
type Overview struct {
	snap   *analytics.Snapshot
	styles *theme.Styles
	width  int
	height int
}

// NewOverview creates a new overview screen
func NewOverview(styles *theme.Styles) *Overview {
	return &Overview{styles: styles}
}

// SetStyles switches the screen to another theme.
func (o *Overview) SetStyles(styles *theme.Styles) {
	o.styles = styles
}

// Update implements tea.Model
func (o *Overview) Update(msg tea.Msg) (*Overview, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotLoadedMsg:
		o.snap = msg.Snapshot
	case tea.WindowSizeMsg:
		o.width = msg.Width
		o.height = msg.Height
	}
	return o, nil
}

// View implements tea.Model
func (o *Overview) View() string {
	if o.snap == nil {
		return o.styles.Muted.Render("No archive loaded.")
	}

	title := o.styles.Title.Render("Overview")
	source := o.styles.Muted.Render(fmt.Sprintf("%s  ·  loaded %s",
		o.snap.Source, o.snap.LoadedAt.Format("Jan 02 15:04:05")))

	cards := RenderMetricCards(o.styles, o.buildCards(), o.width)

	return lipgloss.JoinVertical(lipgloss.Left, title, source, "", cards, "", o.renderActivity())
}

func (o *Overview) buildCards() []MetricCard {
	ov := o.snap.Overview

	activity := "No activity"
	if ov.ActiveDays > 0 {
		activity = fmt.Sprintf("%s → %s", ov.FirstActivity, ov.LastActivity)
	}

	unattributed := "All attributed"
	if ov.UnattributedConvs > 0 {
		unattributed = fmt.Sprintf("%s without a known user", util.FormatCount(ov.UnattributedConvs))
	}

	return []MetricCard{
		{
			Title:    "Users",
			Value:    util.FormatCount(ov.Users),
			Subtitle: unattributed,
		},
		{
			Title:    "Conversations",
			Value:    util.FormatCount(ov.Conversations),
			Subtitle: fmt.Sprintf("%s with tools", util.FormatCount(ov.ConversationsWithTool)),
		},
		{
			Title:    "Messages",
			Value:    util.FormatNumber(ov.Messages),
			Subtitle: fmt.Sprintf("%s human / %s assistant", util.FormatNumber(ov.HumanMessages), util.FormatNumber(ov.AssistantMessages)),
		},
		{
			Title:    "Active Days",
			Value:    util.FormatCount(ov.ActiveDays),
			Subtitle: activity,
		},
		{
			Title:    "Tool Calls",
			Value:    util.FormatNumber(ov.ToolInvocations),
			Subtitle: fmt.Sprintf("%d distinct tools", ov.DistinctTools),
		},
		{
			Title:    "Thinking Blocks",
			Value:    util.FormatNumber(ov.ThinkingBlocks),
			Subtitle: "Extended thinking",
		},
		{
			Title:    "Projects",
			Value:    util.FormatCount(ov.Projects),
			Subtitle: fmt.Sprintf("%s documents", util.FormatCount(ov.ProjectDocs)),
		},
	}
}

func (o *Overview) renderActivity() string {
	if len(o.snap.Daily) == 0 {
		return ""
	}

	values := make([]float64, len(o.snap.Daily))
	for i, d := range o.snap.Daily {
		values[i] = float64(d.Messages)
	}

	width := o.width - 4
	if width <= 0 {
		width = 76
	}

	label := o.styles.Subtitle.Render("Messages per day")
	spark := o.styles.BarFill.Render(RenderSparkline(Downsample(values, width)))
	return lipgloss.JoinVertical(lipgloss.Left, label, spark)
}
