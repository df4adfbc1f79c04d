package app

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

func TestNew_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.LoadTimeout != 60*time.Second {
		t.Errorf("LoadTimeout = %v", cfg.LoadTimeout)
	}
	if cfg.MaxEntryBytes != 512<<20 {
		t.Errorf("MaxEntryBytes = %d", cfg.MaxEntryBytes)
	}
	if want := filepath.Join("/data", "exportview", "exportview.db"); cfg.DatabasePath != want {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, want)
	}
	if cfg.DefaultTheme() != domain.ThemeDark {
		t.Errorf("DefaultTheme() = %q", cfg.DefaultTheme())
	}
	if cfg.OTEL.Active() {
		t.Error("expected OTEL to be inactive by default")
	}
}

func TestNew_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EXPORTVIEW_THEME", "light")
	t.Setenv("EXPORTVIEW_LOAD_TIMEOUT", "5s")
	t.Setenv("EXPORTVIEW_DATABASE_PATH", "/tmp/custom.db")
	t.Setenv("EXPORTVIEW_OTEL_ENABLED", "true")
	t.Setenv("EXPORTVIEW_OTEL_ENDPOINT", "collector:4317")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if cfg.DefaultTheme() != domain.ThemeLight {
		t.Errorf("DefaultTheme() = %q", cfg.DefaultTheme())
	}
	if cfg.LoadTimeout != 5*time.Second {
		t.Errorf("LoadTimeout = %v", cfg.LoadTimeout)
	}
	if cfg.DatabasePath != "/tmp/custom.db" {
		t.Errorf("DatabasePath = %q", cfg.DatabasePath)
	}
	if !cfg.OTEL.Active() {
		t.Error("expected OTEL to be active")
	}
}

func TestNew_InvalidDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("EXPORTVIEW_LOAD_TIMEOUT", "soon")

	if _, err := New(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestConfig_UnknownThemeFallsBack(t *testing.T) {
	cfg := &Config{Theme: "solarized"}
	if cfg.DefaultTheme() != domain.DefaultTheme {
		t.Errorf("DefaultTheme() = %q", cfg.DefaultTheme())
	}
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, "warn")

	log.Debug("hidden debug")
	log.Info("hidden info")
	log.Error("visible error")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("unexpected low-level output: %q", out)
	}
	if !strings.Contains(out, "visible error") || !strings.Contains(out, "level=ERROR") {
		t.Errorf("missing error record: %q", out)
	}
}
