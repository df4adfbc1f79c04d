package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/settings"
)

//go:embed static/*
var staticFiles embed.FS

const (
	defaultMaxUploadBytes int64 = 256 << 20
	defaultLoadTimeout          = 60 * time.Second
)

// Options tunes the HTTP server. Zero values select defaults.
type Options struct {
	Addr           string
	MaxUploadBytes int64
	LoadTimeout    time.Duration
	ErrorLog       *log.Logger
}

type Server struct {
	service  *analytics.Service
	settings *settings.Settings
	logger   analytics.Logger
	markdown *markdownRenderer
	router   *http.ServeMux

	addr           string
	maxUploadBytes int64
	loadTimeout    time.Duration
	errorLog       *log.Logger
}

func NewServer(svc *analytics.Service, prefs *settings.Settings, logger analytics.Logger, opts Options) *Server {
	if logger == nil {
		logger = analytics.NopLogger{}
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = defaultLoadTimeout
	}

	s := &Server{
		service:        svc,
		settings:       prefs,
		logger:         logger,
		markdown:       newMarkdownRenderer(),
		router:         http.NewServeMux(),
		addr:           opts.Addr,
		maxUploadBytes: opts.MaxUploadBytes,
		loadTimeout:    opts.LoadTimeout,
		errorLog:       opts.ErrorLog,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Static files
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to create static filesystem: %v", err))
	}
	s.router.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Health check
	s.router.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Pages
	s.router.HandleFunc("GET /{$}", s.handleOverview)
	s.router.HandleFunc("GET /users", s.handleUsers)
	s.router.HandleFunc("GET /conversations", s.handleConversations)
	s.router.HandleFunc("GET /conversations/{id}", s.handleConversationDetail)
	s.router.HandleFunc("GET /projects", s.handleProjects)
	s.router.HandleFunc("POST /import", s.handleImport)
	s.router.HandleFunc("POST /theme", s.handleThemeToggle)

	// JSON API
	s.router.HandleFunc("GET /api/overview", s.handleAPIOverview)
	s.router.HandleFunc("GET /api/users", s.handleAPIUsers)
	s.router.HandleFunc("GET /api/daily", s.handleAPIDaily)
	s.router.HandleFunc("GET /api/tools", s.handleAPITools)
	s.router.HandleFunc("GET /api/conversations", s.handleAPIConversations)
	s.router.HandleFunc("GET /api/conversations/{id}", s.handleAPIConversation)
}

// Handler returns the router wrapped in middleware.
func (s *Server) Handler() http.Handler {
	return s.withMiddleware(s.router)
}

func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      s.loadTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          s.errorLog,
	}

	fmt.Printf("Starting server at %s\n", displayURL(s.addr))

	// Handle graceful shutdown
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
	}()

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil // Graceful shutdown
	}
	return err
}

func displayURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
