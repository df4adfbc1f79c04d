package tui

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/archive"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/pkg/tui/theme"
)

func testSnapshot(t *testing.T) *analytics.Snapshot {
	t.Helper()

	a := archive.FromFS(fstest.MapFS{
		"users.json": {Data: []byte(`[{"uuid":"u1","full_name":"Ada"}]`)},
		"conversations.json": {Data: []byte(`[
			{"uuid":"c1","name":"Parser refactor","created_at":"2024-01-01T10:00:00Z","account":{"uuid":"u1"},
			 "chat_messages":[
				{"uuid":"m1","text":"please help","sender":"human"},
				{"uuid":"m2","text":"sure","sender":"assistant","content":[{"type":"thinking"},{"type":"tool_use","name":"web_search"}]}
			 ]},
			{"uuid":"c2","name":"Holiday plans","created_at":"2024-01-02T10:00:00Z","account":{"uuid":"u1"},"chat_messages":[]}
		]`)},
		"projects.json": {Data: []byte(`[{"uuid":"p1","name":"Docs","is_private":true,"docs":[{"uuid":"d1","filename":"notes.md","content":"hello"}]}]`)},
	})

	snap, err := analytics.NewService(nil, nil, nil).Load(context.Background(), a)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return snap
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConversations_SelectEmitsID(t *testing.T) {
	c := NewConversations(theme.Default())
	c, _ = c.Update(SnapshotLoadedMsg{Snapshot: testSnapshot(t)})

	if len(c.Shown()) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(c.Shown()))
	}
	if c.Shown()[0].ID != "c2" {
		t.Errorf("expected most recent first, got %s", c.Shown()[0].ID)
	}

	_, cmd := c.Update(key("enter"))
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(ConversationSelectedMsg)
	if !ok || msg.ID != "c2" {
		t.Errorf("unexpected message: %#v", msg)
	}
}

func TestConversations_Search(t *testing.T) {
	c := NewConversations(theme.Default())
	c, _ = c.Update(SnapshotLoadedMsg{Snapshot: testSnapshot(t)})

	c, _ = c.Update(key("/"))
	if !c.Filtering() {
		t.Fatal("expected search to be focused")
	}
	for _, r := range "parse" {
		c, _ = c.Update(key(string(r)))
	}
	if c.Query() != "parse" {
		t.Fatalf("Query() = %q", c.Query())
	}
	if len(c.Shown()) != 1 || c.Shown()[0].ID != "c1" {
		t.Fatalf("unexpected results: %+v", c.Shown())
	}

	c, _ = c.Update(key("enter"))
	if c.Filtering() {
		t.Error("expected search to lose focus on enter")
	}

	c, _ = c.Update(key("esc"))
	if c.Query() != "" || len(c.Shown()) != 2 {
		t.Errorf("expected esc to clear the search, got %q with %d results", c.Query(), len(c.Shown()))
	}
}

func TestDetail_RendersThread(t *testing.T) {
	d := NewDetail(theme.Default(), testSnapshot(t), "c1", 100, 60)
	view := d.View()

	for _, want := range []string{"Parser refactor", "HUMAN", "ASSISTANT", "please help", "[tool: web_search]", "web_search×1"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q", want)
		}
	}
	if strings.Index(view, "please help") > strings.Index(view, "sure") {
		t.Error("messages should keep archive order")
	}
}

func TestDetail_NotFound(t *testing.T) {
	d := NewDetail(theme.Default(), testSnapshot(t), "missing", 80, 40)
	if !strings.Contains(d.View(), "not found") {
		t.Errorf("unexpected view: %q", d.View())
	}
}

func TestBlockMarkers(t *testing.T) {
	got := blockMarkers([]domain.ContentBlock{
		{Type: domain.BlockText, Text: "x"},
		{Type: domain.BlockThinking},
		{Type: domain.BlockToolUse, Name: "repl"},
		{Type: domain.BlockToolUse},
		{Type: domain.BlockToolResult},
		{Type: domain.BlockTokenBudget},
	})
	if got != "[thinking] [tool: repl] [tool result]" {
		t.Errorf("blockMarkers() = %q", got)
	}
}

func TestOtherScreens_RenderSnapshot(t *testing.T) {
	snap := testSnapshot(t)
	styles := theme.For(domain.ThemeLight)
	loaded := SnapshotLoadedMsg{Snapshot: snap}

	o, _ := NewOverview(styles).Update(loaded)
	if !strings.Contains(o.View(), "Conversations") {
		t.Error("overview missing conversations card")
	}

	u, _ := NewUsers(styles).Update(loaded)
	if !strings.Contains(u.View(), "Ada") {
		t.Error("users view missing user name")
	}

	tl, _ := NewTools(styles).Update(loaded)
	if !strings.Contains(tl.View(), "web_search") {
		t.Error("tools view missing tool")
	}

	p, _ := NewProjects(styles).Update(loaded)
	view := p.View()
	if !strings.Contains(view, "Docs") || !strings.Contains(view, "notes.md") || !strings.Contains(view, "private") {
		t.Errorf("projects view incomplete: %q", view)
	}
}

func TestScreens_EmptyState(t *testing.T) {
	styles := theme.Default()
	if !strings.Contains(NewOverview(styles).View(), "No archive loaded") {
		t.Error("overview should report missing archive")
	}
	if !strings.Contains(NewTools(styles).View(), "No tool invocations") {
		t.Error("tools should report empty state")
	}
}
