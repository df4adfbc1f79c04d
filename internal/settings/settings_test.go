package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/exportview/internal/adapters/turso"
	"github.com/emiliopalmerini/exportview/internal/domain"
)

type failingStore struct {
	getErr error
	setErr error
}

func (f failingStore) Get(context.Context, string) (string, bool, error) { return "", false, f.getErr }
func (f failingStore) Set(context.Context, string, string) error          { return f.setErr }

func TestSettings_DefaultsToFallback(t *testing.T) {
	s := New(NewMemoryStore(), domain.ThemeLight)
	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, domain.ThemeLight, s.Theme())
}

func TestSettings_InvalidFallback(t *testing.T) {
	s := New(nil, domain.Theme("sepia"))
	assert.Equal(t, domain.DefaultTheme, s.Theme())
}

func TestSettings_PersistedValueWins(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, themeKey, "light"))

	s := New(store, domain.ThemeDark)
	require.NoError(t, s.Init(ctx))
	assert.Equal(t, domain.ThemeLight, s.Theme())
}

func TestSettings_InvalidPersistedValueIgnored(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, themeKey, "neon"))

	s := New(store, domain.ThemeLight)
	require.NoError(t, s.Init(ctx))
	assert.Equal(t, domain.ThemeLight, s.Theme())
}

func TestSettings_SetThemeAndToggle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := New(store, domain.ThemeDark)

	require.NoError(t, s.SetTheme(ctx, "LIGHT"))
	assert.Equal(t, domain.ThemeLight, s.Theme())
	stored, ok, _ := store.Get(ctx, themeKey)
	assert.True(t, ok)
	assert.Equal(t, "light", stored)

	next, err := s.Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, next)
	assert.Equal(t, domain.ThemeDark, s.Theme())

	assert.Error(t, s.SetTheme(ctx, "purple"))
	assert.Equal(t, domain.ThemeDark, s.Theme())
}

func TestSettings_StoreErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	s := New(failingStore{getErr: boom}, domain.ThemeDark)
	assert.ErrorIs(t, s.Init(ctx), boom)

	s = New(failingStore{setErr: boom}, domain.ThemeDark)
	theme, err := s.Toggle(ctx)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, domain.ThemeDark, theme)
	assert.Equal(t, domain.ThemeDark, s.Theme())
}

func TestSettings_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	db, err := turso.Open(ctx, filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	first := New(turso.NewPreferenceRepository(db), domain.ThemeDark)
	require.NoError(t, first.Init(ctx))
	_, err = first.Toggle(ctx)
	require.NoError(t, err)

	second := New(turso.NewPreferenceRepository(db), domain.ThemeDark)
	require.NoError(t, second.Init(ctx))
	assert.Equal(t, domain.ThemeLight, second.Theme())
}
