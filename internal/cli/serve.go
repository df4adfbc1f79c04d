package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/exportview/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve [archive]",
	Short: "Start the web dashboard",
	Long: `Start the local web dashboard server. An archive given on the command
line is loaded before the server starts; otherwise upload one from the
browser.

Examples:
  exportview serve                         # Start on EXPORTVIEW_ADDR (default :8080)
  exportview serve export.zip --addr :3000`,
	Args: cobra.MaximumNArgs(1),
	RunE: withApp(runServe),
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Address to listen on (overrides EXPORTVIEW_ADDR)")
}

func runServe(cmd *cobra.Command, args []string, a *AppContext) error {
	if len(args) == 1 {
		if _, err := a.LoadArchive(cmd.Context(), args[0]); err != nil {
			return err
		}
	}

	addr := a.Config.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Println("\nShutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	logger := a.Logger.With("component", "web")
	server := web.NewServer(a.Service, a.Settings, logger, web.Options{
		Addr:           addr,
		MaxUploadBytes: a.Config.MaxUploadBytes,
		LoadTimeout:    a.Config.LoadTimeout,
		ErrorLog:       slog.NewLogLogger(logger.Slog().Handler(), slog.LevelError),
	})
	return server.Start(ctx)
}
