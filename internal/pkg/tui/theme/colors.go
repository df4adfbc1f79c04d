package theme

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors a theme is built from.
type Palette struct {
	// Primary colors
	Accent       lipgloss.Color
	BrightAccent lipgloss.Color
	DarkAccent   lipgloss.Color

	// Neutrals, from strongest to faintest text.
	Text   lipgloss.Color
	Body   lipgloss.Color
	Muted  lipgloss.Color
	Subtle lipgloss.Color
	Faint  lipgloss.Color
	Base   lipgloss.Color

	// Semantic colors
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Accent colors
	Human     lipgloss.Color
	Assistant lipgloss.Color
}

// Dark is the default palette for dark terminals.
var Dark = Palette{
	Accent:       lipgloss.Color("#A855F7"),
	BrightAccent: lipgloss.Color("#C084FC"),
	DarkAccent:   lipgloss.Color("#7C3AED"),

	Text:   lipgloss.Color("#FFFFFF"),
	Body:   lipgloss.Color("#9CA3AF"),
	Muted:  lipgloss.Color("#6B7280"),
	Subtle: lipgloss.Color("#525252"),
	Faint:  lipgloss.Color("#374151"),
	Base:   lipgloss.Color("#111827"),

	Success: lipgloss.Color("#22C55E"),
	Warning: lipgloss.Color("#F59E0B"),
	Error:   lipgloss.Color("#EF4444"),
	Info:    lipgloss.Color("#3B82F6"),

	Human:     lipgloss.Color("#06B6D4"),
	Assistant: lipgloss.Color("#F97316"),
}

// Light is tuned for light backgrounds.
var Light = Palette{
	Accent:       lipgloss.Color("#7C3AED"),
	BrightAccent: lipgloss.Color("#6D28D9"),
	DarkAccent:   lipgloss.Color("#5B21B6"),

	Text:   lipgloss.Color("#111827"),
	Body:   lipgloss.Color("#374151"),
	Muted:  lipgloss.Color("#6B7280"),
	Subtle: lipgloss.Color("#9CA3AF"),
	Faint:  lipgloss.Color("#D1D5DB"),
	Base:   lipgloss.Color("#FFFFFF"),

	Success: lipgloss.Color("#15803D"),
	Warning: lipgloss.Color("#B45309"),
	Error:   lipgloss.Color("#B91C1C"),
	Info:    lipgloss.Color("#1D4ED8"),

	Human:     lipgloss.Color("#0E7490"),
	Assistant: lipgloss.Color("#C2410C"),
}
