package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
)

// MetricCard displays a single KPI metric
type MetricCard struct {
	Title    string
	Value    string
	Subtitle string
}

// View renders the metric card with minimal, typography-focused design
func (m MetricCard) View(styles *theme.Styles, width int) string {
	card := styles.Card.Width(width)

	title := styles.Muted.Render(m.Title)
	value := styles.Bold.Render(m.Value)
	subtitle := styles.Muted.Render(m.Subtitle)

	return card.Render(lipgloss.JoinVertical(lipgloss.Left, title, value, subtitle))
}

// RenderMetricCards renders a grid of metric cards
func RenderMetricCards(styles *theme.Styles, cards []MetricCard, totalWidth int) string {
	if len(cards) == 0 {
		return ""
	}

	if totalWidth <= 0 {
		totalWidth = 80
	}

	perRow := 2
	if totalWidth >= 120 {
		perRow = 4
	}

	cardWidth := max((totalWidth-2*perRow)/perRow, 20)

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		var rowCards []string
		for _, c := range cards[i:min(i+perRow, len(cards))] {
			rowCards = append(rowCards, c.View(styles, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rowCards...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
