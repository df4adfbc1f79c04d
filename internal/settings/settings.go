// Package settings holds the user interface preferences. It is initialised
// once at startup and handed to the presentation layer; the analytics core
// never reads it.
package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/ports"
)

const themeKey = "theme"

// Settings caches the persisted preferences. Safe for concurrent use.
type Settings struct {
	repo     ports.PreferenceRepository
	fallback domain.Theme

	mu    sync.RWMutex
	theme domain.Theme
}

// New creates settings backed by repo. fallback is used until Init finds a
// stored value; an invalid fallback selects domain.DefaultTheme.
func New(repo ports.PreferenceRepository, fallback domain.Theme) *Settings {
	if _, err := domain.ParseTheme(string(fallback)); err != nil {
		fallback = domain.DefaultTheme
	}
	if repo == nil {
		repo = NewMemoryStore()
	}
	return &Settings{repo: repo, fallback: fallback, theme: fallback}
}

// Init loads the persisted theme. A stored value that is no longer valid is
// ignored in favour of the fallback.
func (s *Settings) Init(ctx context.Context) error {
	value, ok, err := s.repo.Get(ctx, themeKey)
	if err != nil {
		return fmt.Errorf("failed to read theme preference: %w", err)
	}

	theme := s.fallback
	if ok {
		if parsed, err := domain.ParseTheme(value); err == nil {
			theme = parsed
		}
	}

	s.mu.Lock()
	s.theme = theme
	s.mu.Unlock()
	return nil
}

// Theme returns the active theme.
func (s *Settings) Theme() domain.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme persists t and makes it active. The active theme is unchanged
// when persisting fails.
func (s *Settings) SetTheme(ctx context.Context, t domain.Theme) error {
	t, err := domain.ParseTheme(string(t))
	if err != nil {
		return err
	}
	if err := s.repo.Set(ctx, themeKey, string(t)); err != nil {
		return fmt.Errorf("failed to save theme preference: %w", err)
	}

	s.mu.Lock()
	s.theme = t
	s.mu.Unlock()
	return nil
}

// Toggle switches between dark and light and returns the new theme.
func (s *Settings) Toggle(ctx context.Context) (domain.Theme, error) {
	next := s.Theme().Toggle()
	if err := s.SetTheme(ctx, next); err != nil {
		return s.Theme(), err
	}
	return next, nil
}
