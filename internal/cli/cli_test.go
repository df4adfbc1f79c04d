package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/ports"
)

const (
	testUsers = `[
		{"uuid":"u1","full_name":"Ada Lovelace","email_address":"ada@example.com"},
		{"uuid":"u2","full_name":"Grace Hopper","email_address":"grace@example.com"}
	]`
	testConvs = `[
		{"uuid":"c1","name":"Refactor parser","summary":"Parser work","created_at":"2024-01-01T10:00:00Z","updated_at":"2024-01-01T11:00:00Z","account":{"uuid":"u1"},
		 "chat_messages":[
			{"uuid":"m1","text":"make it faster","sender":"human","created_at":"2024-01-01T10:00:00Z","content":[{"type":"text","text":"make it faster"}]},
			{"uuid":"m2","text":"Use memoization.","sender":"assistant","content":[{"type":"thinking","thinking":"..."},{"type":"tool_use","name":"web_search"}]}
		 ]},
		{"uuid":"c2","name":"Kubernetes upgrade plan","created_at":"2024-01-02T10:00:00Z","updated_at":"2024-01-02T10:00:00Z","account":{"uuid":"u1"},"chat_messages":[]},
		{"uuid":"c3","name":"","created_at":"2024-01-02T12:00:00Z","updated_at":"2024-01-02T12:00:00Z","account":{"uuid":"u2"},
		 "chat_messages":[{"uuid":"m3","text":"hello","sender":"human"}]}
	]`
	testProjects = `[{"uuid":"p1","name":"Docs site","creator":{"uuid":"u1","full_name":"Ada Lovelace"},"docs":[{"uuid":"d1","filename":"a.md"}]}]`
)

// setupEnv points the CLI at a private database and returns an extracted
// export directory.
func setupEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("EXPORTVIEW_DATABASE_PATH", filepath.Join(t.TempDir(), "db", "exportview.db"))
	t.Setenv("EXPORTVIEW_LOG_LEVEL", "error")
	t.Setenv("EXPORTVIEW_THEME", "dark")
	t.Setenv("EXPORTVIEW_OTEL_ENABLED", "false")

	dir := t.TempDir()
	for name, content := range map[string]string{
		"users.json":         testUsers,
		"conversations.json": testConvs,
		"projects.json":      testProjects,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func resetFlags() {
	jsonOutput = false
	usersLimit = 0
	toolsLimit = 0
	convSearch = ""
	convLimit = 20
	serveAddr = ""
	migrateStatus = false
	historyLimit = 20
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestAppContextFieldTypes(t *testing.T) {
	// Compile-time verification that AppContext uses port interfaces.
	var a AppContext
	var _ ports.PreferenceRepository = a.Prefs          //nolint:staticcheck
	var _ ports.ImportHistoryRepository = a.History     //nolint:staticcheck
	var _ ports.MetricsExporter = a.Exporter            //nolint:staticcheck
	var _ analytics.Logger = a.Logger                   //nolint:staticcheck
}

func TestAppContextClose_Empty(t *testing.T) {
	a := &AppContext{}
	assert.NoError(t, a.Close())
}

func TestStats(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "stats", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Conversations")
	assert.Contains(t, out, "Tool calls")
	assert.Contains(t, out, "1 across 1 tools")
}

func TestStats_JSON(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "stats", dir, "--json")
	require.NoError(t, err)

	var ov analytics.Overview
	require.NoError(t, json.Unmarshal([]byte(out), &ov))
	assert.Equal(t, 2, ov.Users)
	assert.Equal(t, 3, ov.Conversations)
	assert.Equal(t, 3, ov.Messages)
	assert.Equal(t, 1, ov.Projects)
}

func TestStats_MissingArchive(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "stats", filepath.Join(t.TempDir(), "nope.zip"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load")
}

func TestStats_RequiresArchive(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "stats")
	assert.Error(t, err)
}

func TestUsers(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "users", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace")
	assert.Contains(t, out, "Grace Hopper")
	assert.Less(t, strings.Index(out, "Ada Lovelace"), strings.Index(out, "Grace Hopper"), "most conversations first")
	assert.Contains(t, out, "web_search:1")

	out, err = execute(t, "users", dir, "--limit", "1", "--json")
	require.NoError(t, err)
	var users []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0]["userId"])
}

func TestTools(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "tools", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "web_search")
	assert.Contains(t, out, "100.0%")
}

func TestDaily_JSON(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "daily", dir, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"date":"2024-01-01","conversations":1,"messages":2},
		{"date":"2024-01-02","conversations":2,"messages":1}
	]`, out)
}

func TestConversations(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "conversations", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Untitled")
	assert.Contains(t, out, "Showing 3 of 3")

	out, err = execute(t, "conversations", dir, "--search", "kube")
	require.NoError(t, err)
	assert.Contains(t, out, "Kubernetes upgrade plan")
	assert.NotContains(t, out, "Refactor parser")

	out, err = execute(t, "conversations", dir, "--search", "zzzz")
	require.NoError(t, err)
	assert.Contains(t, out, "No conversations found.")
}

func TestShow(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "show", dir, "c1")
	require.NoError(t, err)
	assert.Contains(t, out, "Refactor parser")
	assert.Contains(t, out, "Parser work")
	assert.Contains(t, out, "--- HUMAN")
	assert.Contains(t, out, "--- ASSISTANT")
	assert.Contains(t, out, "[tool: web_search]")
	assert.Less(t, strings.Index(out, "make it faster"), strings.Index(out, "Use memoization."))

	_, err = execute(t, "show", dir, "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestShow_JSON(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "show", dir, "c2", "--json")
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Kubernetes upgrade plan", got["name"])
	assert.Equal(t, []any{}, got["messages"])
}

func TestProjects(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "projects", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Docs site")
	assert.Contains(t, out, "Ada Lovelace")
}

func TestTheme(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = execute(t, "theme", "light")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	// persisted across invocations
	out, err = execute(t, "theme")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = execute(t, "theme", "toggle", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"theme":"dark"}`, out)

	_, err = execute(t, "theme", "purple")
	assert.Error(t, err)
}

func TestHistory(t *testing.T) {
	dir := setupEnv(t)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No archives loaded yet.")

	_, err = execute(t, "stats", dir)
	require.NoError(t, err)

	out, err = execute(t, "history", "--json")
	require.NoError(t, err)
	var records []domain.ImportRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, dir, records[0].Source)
	assert.Equal(t, 3, records[0].Conversations)
}

func TestMigrateStatus(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "migrate", "--status", "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"current":2,"latest":2,"dirty":false,"pending":0}`, out)

	out, err = execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "No migrations to run")

	_, err = execute(t, "migrate", "abc")
	assert.Error(t, err)
}

func TestLimitSlice(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{1, 2, 3}, limitSlice(items, 0))
	assert.Equal(t, []int{1, 2}, limitSlice(items, 2))
	assert.Equal(t, []int{1, 2, 3}, limitSlice(items, 5))
}
