package tui

import (
	"github.com/charmbracelet/bubbles/table"

	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
)

// chromeHeight is the space taken by the header, nav and help lines.
const chromeHeight = 10

func tableStyles(styles *theme.Styles) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(styles.Palette.Muted).
		BorderForeground(styles.Palette.Faint).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(styles.Palette.Body)
	s.Selected = s.Selected.
		Foreground(styles.Palette.Base).
		Background(styles.Palette.Text).
		Bold(true)
	return s
}

func newTable(styles *theme.Styles, columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	t.SetStyles(tableStyles(styles))
	return t
}

func tableHeight(windowHeight int) int {
	return max(windowHeight-chromeHeight, 5)
}
