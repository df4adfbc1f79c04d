package components

import (
	"strings"

	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
)

// Bar is a horizontal bar proportional to Value/Max.
type Bar struct {
	Value  int
	Max    int
	Width  int
	styles *theme.Styles
}

// NewBar creates a bar of the given width in cells.
func NewBar(styles *theme.Styles, value, max, width int) Bar {
	return Bar{Value: value, Max: max, Width: width, styles: styles}
}

// Filled returns how many cells are drawn solid. Any non-zero value gets at
// least one cell.
func (b Bar) Filled() int {
	if b.Max <= 0 || b.Value <= 0 || b.Width <= 0 {
		return 0
	}
	n := b.Value * b.Width / b.Max
	if n == 0 {
		n = 1
	}
	return min(n, b.Width)
}

// View renders the bar
func (b Bar) View() string {
	filled := b.Filled()
	empty := max(b.Width-filled, 0)
	return b.styles.BarFill.Render(strings.Repeat("█", filled)) +
		b.styles.BarEmpty.Render(strings.Repeat("░", empty))
}
