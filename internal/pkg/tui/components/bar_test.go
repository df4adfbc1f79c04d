package components

import (
	"testing"

	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
)

func TestBar_Filled(t *testing.T) {
	tests := []struct {
		name              string
		value, max, width int
		want              int
	}{
		{"full", 10, 10, 20, 20},
		{"half", 5, 10, 20, 10},
		{"tiny rounds up", 1, 1000, 20, 1},
		{"zero", 0, 10, 20, 0},
		{"no max", 5, 0, 20, 0},
		{"over", 20, 10, 20, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBar(theme.Default(), tt.value, tt.max, tt.width)
			if got := b.Filled(); got != tt.want {
				t.Errorf("Filled() = %d, want %d", got, tt.want)
			}
		})
	}
}
