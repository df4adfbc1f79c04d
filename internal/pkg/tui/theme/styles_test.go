package theme

import (
	"testing"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

func TestFor(t *testing.T) {
	dark := For(domain.ThemeDark)
	light := For(domain.ThemeLight)

	if dark.Theme != domain.ThemeDark || light.Theme != domain.ThemeLight {
		t.Fatalf("unexpected themes: %q %q", dark.Theme, light.Theme)
	}
	if dark.Palette.Text == light.Palette.Text {
		t.Error("dark and light palettes should differ")
	}
	if For(domain.ThemeDark) != dark {
		t.Error("expected styles to be cached")
	}
	if For(domain.Theme("bogus")) != dark {
		t.Error("unknown theme should fall back to dark")
	}
	if Default() != dark {
		t.Error("Default() should be dark")
	}
}
