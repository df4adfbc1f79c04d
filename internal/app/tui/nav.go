package tui

import (
	"strings"

	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
)

// NavItem represents a navigation item
type NavItem struct {
	Key    string
	Label  string
	Active bool
}

// NavBar renders a navigation bar
type NavBar struct {
	Items  []NavItem
	styles *theme.Styles
}

// NewNavBar creates a new navigation bar
func NewNavBar(styles *theme.Styles, items []NavItem) *NavBar {
	return &NavBar{
		Items:  items,
		styles: styles,
	}
}

// View renders the navigation bar as toggle-style tabs
func (n NavBar) View() string {
	var items []string

	for _, item := range n.Items {
		var rendered string
		if item.Active {
			rendered = n.styles.Active.Render(item.Label)
		} else {
			key := n.styles.NavKey.Render("[" + item.Key + "]")
			rendered = key + " " + n.styles.Inactive.Render(item.Label)
		}
		items = append(items, rendered)
	}

	return strings.Join(items, n.styles.NavSep.Render("  /  "))
}
