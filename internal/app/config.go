package app

import (
	"errors"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/exportview/internal/adapters/otel"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/util"
)

const envPrefix = "EXPORTVIEW"

type Config struct {
	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	LoadTimeout     time.Duration `envconfig:"LOAD_TIMEOUT" default:"60s"`
	MaxEntryBytes   int64         `envconfig:"MAX_ENTRY_BYTES" default:"536870912"`
	MaxUploadBytes  int64         `envconfig:"MAX_UPLOAD_BYTES" default:"268435456"`

	DatabasePath string `envconfig:"DATABASE_PATH"`
	Theme        string `envconfig:"THEME" default:"dark"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`

	OTEL otel.Config `ignored:"true"`
}

// New reads EXPORTVIEW_* variables, after loading a .env file from the
// working directory when one exists.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, err
	}

	otelCfg, err := otel.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.OTEL = otelCfg

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(util.GetXDGDataHome(), util.AppName, "exportview.db")
	}
	return &cfg, nil
}

// DefaultTheme returns the configured theme, or the built-in default when
// the variable holds something unknown.
func (c *Config) DefaultTheme() domain.Theme {
	t, err := domain.ParseTheme(c.Theme)
	if err != nil {
		return domain.DefaultTheme
	}
	return t
}
