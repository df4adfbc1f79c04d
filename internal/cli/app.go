package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/adapters/otel"
	"github.com/emiliopalmerini/exportview/internal/adapters/turso"
	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/app"
	"github.com/emiliopalmerini/exportview/internal/archive"
	"github.com/emiliopalmerini/exportview/internal/ports"
	"github.com/emiliopalmerini/exportview/internal/settings"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config   *app.Config
	Logger   *app.Logger
	DB       *sql.DB
	Prefs    ports.PreferenceRepository
	History  ports.ImportHistoryRepository
	Exporter ports.MetricsExporter
	Settings *settings.Settings
	Service  *analytics.Service
}

// NewAppContext creates an AppContext with all dependencies initialized.
// A database that cannot be opened degrades to in-memory preferences and
// no import history.
func NewAppContext(ctx context.Context, logOut io.Writer) (*AppContext, error) {
	cfg, err := app.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := app.NewLogger(logOut, cfg.LogLevel)

	a := &AppContext{
		Config: cfg,
		Logger: logger,
		Prefs:  settings.NewMemoryStore(),
	}

	db, err := turso.Open(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Warn(fmt.Sprintf("Preferences will not be saved: %v", err))
	} else {
		repos := turso.NewRepositories(db)
		a.DB = db
		a.Prefs = repos.Preferences
		a.History = repos.History
	}

	a.Settings = settings.New(a.Prefs, cfg.DefaultTheme())
	if err := a.Settings.Init(ctx); err != nil {
		logger.Warn(err.Error())
	}

	exporter, err := otel.New(ctx, cfg.OTEL)
	if err != nil {
		logger.Warn(fmt.Sprintf("Metrics export disabled: %v", err))
		exporter = otel.NewNoOpExporter()
	}
	a.Exporter = exporter

	a.Service = analytics.NewService(archive.NewLoader(cfg.MaxEntryBytes), exporter, logger)
	if a.History != nil {
		a.Service.WithHistory(a.History)
	}
	return a, nil
}

// Close releases all resources held by the AppContext.
func (a *AppContext) Close() error {
	var errs []error
	if a.Exporter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		errs = append(errs, a.Exporter.Close(ctx))
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func (a *AppContext) shutdownTimeout() time.Duration {
	if a.Config == nil || a.Config.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return a.Config.ShutdownTimeout
}

// LoadArchive loads path within the configured load timeout.
func (a *AppContext) LoadArchive(ctx context.Context, path string) (*analytics.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, a.Config.LoadTimeout)
	defer cancel()

	snap, err := a.Service.LoadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return snap, nil
}

// withApp wraps a command body so it runs with a fresh AppContext.
func withApp(run func(cmd *cobra.Command, args []string, a *AppContext) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := NewAppContext(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				a.Logger.Error(fmt.Sprintf("Failed to close resources: %v", err))
			}
		}()
		return run(cmd, args, a)
	}
}

// withSnapshot is withApp for commands whose first argument is an archive.
func withSnapshot(run func(cmd *cobra.Command, args []string, snap *analytics.Snapshot) error) func(*cobra.Command, []string) error {
	return withApp(func(cmd *cobra.Command, args []string, a *AppContext) error {
		snap, err := a.LoadArchive(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return run(cmd, args, snap)
	})
}
