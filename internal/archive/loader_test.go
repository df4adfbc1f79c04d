package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	usersJSON = `[{"uuid":"u1","full_name":"Ada","email_address":"ada@example.com","verified_phone_number":"+100"}]`
	convsJSON = `[{"uuid":"c1","name":"First","created_at":"2024-01-01T10:00:00Z","updated_at":"2024-01-01T11:00:00Z","account":{"uuid":"u1"},
		"chat_messages":[{"uuid":"m1","text":"hi","sender":"human","content":[{"type":"text","text":"hi"}]},
		{"uuid":"m2","text":"hello","sender":"assistant","content":[{"type":"tool_use","name":"web_search"},{"type":"thinking","thinking":"hmm"}]}]}]`
	projectsJSON = `[{"uuid":"p1","name":"Docs","is_private":true,"is_starter_project":false,"creator":{"uuid":"u1","full_name":"Ada"},
		"docs":[{"uuid":"d1","filename":"a.md","content":"# A","created_at":"2024-01-01T00:00:00Z"}]}]`
)

func zipArchiveOf(t *testing.T, files map[string]string) Archive {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	a, err := FromBytes(buf.Bytes())
	require.NoError(t, err)
	return a
}

func TestLoad_AllFiles(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{
		"users.json":         usersJSON,
		"conversations.json": convsJSON,
		"projects.json":      projectsJSON,
	})

	export, err := NewLoader(0).Load(context.Background(), a)
	require.NoError(t, err)

	require.Len(t, export.Users, 1)
	assert.Equal(t, "Ada", export.Users[0].FullName)
	assert.Equal(t, "+100", export.Users[0].Phone)

	require.Len(t, export.Conversations, 1)
	conv := export.Conversations[0]
	assert.Equal(t, "u1", conv.Account.ID)
	require.Len(t, conv.Messages, 2)
	assert.Equal(t, "m1", conv.Messages[0].ID)
	assert.Equal(t, "web_search", conv.Messages[1].Content[0].Name)

	require.Len(t, export.Projects, 1)
	assert.True(t, export.Projects[0].IsPrivate)
	assert.Equal(t, "Ada", export.Projects[0].Creator.FullName)
	assert.Equal(t, "a.md", export.Projects[0].Docs[0].Filename)
}

func TestLoad_MatchesBasenameAtAnyDepthCaseInsensitive(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{
		"export-2024/data/Users.JSON":   usersJSON,
		"export-2024/CONVERSATIONS.json": convsJSON,
		"export-2024/readme.txt":         "ignored",
	})

	export, err := NewLoader(0).Load(context.Background(), a)
	require.NoError(t, err)
	assert.Len(t, export.Users, 1)
	assert.Len(t, export.Conversations, 1)
	assert.NotNil(t, export.Projects)
	assert.Empty(t, export.Projects)
}

func TestLoad_WindowsSeparators(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{
		`export\users.json`:         usersJSON,
		`export\conversations.json`: convsJSON,
	})

	_, err := NewLoader(0).Load(context.Background(), a)
	require.NoError(t, err)
}

func TestLoad_MissingConversations(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{"users.json": usersJSON})

	_, err := NewLoader(0).Load(context.Background(), a)
	require.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "users.json")
	assert.Contains(t, err.Error(), "conversations.json")
}

func TestLoad_MissingUsers(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{"conversations.json": convsJSON})

	_, err := NewLoader(0).Load(context.Background(), a)
	require.ErrorIs(t, err, ErrMissingRequired)
}

func TestLoad_RequiredNotArray(t *testing.T) {
	tests := []struct {
		name  string
		users string
		convs string
	}{
		{"users object", `{"uuid":"u1"}`, convsJSON},
		{"conversations scalar", usersJSON, `42`},
		{"conversations null", usersJSON, `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := zipArchiveOf(t, map[string]string{
				"users.json":         tt.users,
				"conversations.json": tt.convs,
			})
			_, err := NewLoader(0).Load(context.Background(), a)
			require.ErrorIs(t, err, ErrNotArray)
		})
	}
}

func TestLoad_RequiredMalformedJSONIsFatal(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{
		"users.json":         usersJSON,
		"conversations.json": `[{"uuid":`,
	})

	_, err := NewLoader(0).Load(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversations.json")
}

func TestLoad_ProjectsDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name     string
		projects string
	}{
		{"object", `{}`},
		{"malformed", `[{"uuid":`},
		{"scalar", `"nope"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := zipArchiveOf(t, map[string]string{
				"users.json":         usersJSON,
				"conversations.json": convsJSON,
				"projects.json":      tt.projects,
			})
			export, err := NewLoader(0).Load(context.Background(), a)
			require.NoError(t, err)
			assert.NotNil(t, export.Projects)
			assert.Empty(t, export.Projects)
		})
	}
}

func TestLoad_LenientRecords(t *testing.T) {
	convs := `[{"uuid":"c1","name":7,"account":null,"chat_messages":[{"uuid":"m1","sender":"human","text":null,"content":null}]}, null, "junk"]`
	a := zipArchiveOf(t, map[string]string{
		"users.json":         `[]`,
		"conversations.json": convs,
	})

	export, err := NewLoader(0).Load(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, export.Conversations, 3)

	first := export.Conversations[0]
	assert.Equal(t, "c1", first.ID)
	assert.Empty(t, first.Name)
	assert.Empty(t, first.Account.ID)
	require.Len(t, first.Messages, 1)
	assert.Empty(t, first.Messages[0].Text)
	assert.Nil(t, first.Messages[0].Content)
}

func TestLoad_ByteOrderMark(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{
		"users.json":         "\xEF\xBB\xBF" + usersJSON,
		"conversations.json": convsJSON,
	})

	export, err := NewLoader(0).Load(context.Background(), a)
	require.NoError(t, err)
	assert.Len(t, export.Users, 1)
}

func TestLoad_EntryTooLarge(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{
		"users.json":         usersJSON,
		"conversations.json": convsJSON,
	})

	_, err := NewLoader(16).Load(context.Background(), a)
	require.ErrorIs(t, err, ErrEntryTooLarge)
}

func TestLoad_CancelledContext(t *testing.T) {
	a := zipArchiveOf(t, map[string]string{
		"users.json":         usersJSON,
		"conversations.json": convsJSON,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(0).Load(ctx, a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoad_FromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"nested/users.json":         {Data: []byte(usersJSON)},
		"nested/conversations.json": {Data: []byte(convsJSON)},
	}

	export, err := NewLoader(0).Load(context.Background(), FromFS(fsys))
	require.NoError(t, err)
	assert.Len(t, export.Conversations, 1)
}

func TestOpenFile_DirectoryAndZip(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte(usersJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "conversations.json"), []byte(convsJSON), 0o644))

	f, err := OpenFile(dir)
	require.NoError(t, err)
	export, err := NewLoader(0).Load(context.Background(), f)
	require.NoError(t, err)
	assert.Len(t, export.Users, 1)
	require.NoError(t, f.Close())

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range map[string]string{"users.json": usersJSON, "conversations.json": convsJSON} {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	zipPath := filepath.Join(dir, "export.zip")
	require.NoError(t, os.WriteFile(zipPath, buf.Bytes(), 0o644))

	zf, err := OpenFile(zipPath)
	require.NoError(t, err)
	defer zf.Close()
	export, err = NewLoader(0).Load(context.Background(), zf)
	require.NoError(t, err)
	assert.Len(t, export.Conversations, 1)
}

func TestOpenFile_Missing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.zip"))
	require.Error(t, err)
}
