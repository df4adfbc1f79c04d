package util

import "testing"

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1500, "1.5K"},
		{1500000, "1.5M"},
	}
	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := FormatCount(tt.in); got != tt.want {
			t.Errorf("FormatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(1, 0); got != "0.0%" {
		t.Errorf("FormatPercent(1, 0) = %q", got)
	}
	if got := FormatPercent(1, 3); got != "33.3%" {
		t.Errorf("FormatPercent(1, 3) = %q", got)
	}
}

func TestFormatDates(t *testing.T) {
	const ts = "2024-01-02T15:04:05.123456Z"

	if got := FormatDateISO(ts); got != "2024-01-02" {
		t.Errorf("FormatDateISO() = %q", got)
	}
	if got := FormatDateHuman(ts); got != "Jan 2, 2024" {
		t.Errorf("FormatDateHuman() = %q", got)
	}
	if got := FormatDateTime(ts); got != "2024-01-02 15:04" {
		t.Errorf("FormatDateTime() = %q", got)
	}
	if got := FormatDateTime("yesterday"); got != "yesterday" {
		t.Errorf("FormatDateTime() fallback = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short", "abc", 5, "abc"},
		{"exact", "abcde", 5, "abcde"},
		{"cut", "abcdef", 4, "abc…"},
		{"runes", "héllo wörld", 6, "héllo…"},
		{"one", "abc", 1, "…"},
		{"zero", "abc", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.max); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	if got := FirstLine("\n\n  hello  \nworld"); got != "hello" {
		t.Errorf("FirstLine() = %q", got)
	}
	if got := FirstLine(""); got != "" {
		t.Errorf("FirstLine(\"\") = %q", got)
	}
}

func TestGetXDGDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	if got := GetXDGDataDir(); got != "/tmp/xdg/exportview" {
		t.Errorf("GetXDGDataDir() = %q", got)
	}
}
