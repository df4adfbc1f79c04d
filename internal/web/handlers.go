package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/domain"
	"github.com/emiliopalmerini/exportview/internal/web/templates"
)

const (
	overviewTools  = 10
	overviewRecent = 10
)

func (s *Server) theme() domain.Theme {
	if s.settings == nil {
		return domain.DefaultTheme
	}
	return s.settings.Theme()
}

func (s *Server) page(title, active string) templates.Page {
	p := templates.Page{
		Title:  title,
		Active: active,
		Theme:  string(s.theme()),
	}
	if snap, ok := s.service.Current(); ok {
		p.Source = snap.Source
		p.LoadedAt = snap.LoadedAt.Format("2006-01-02 15:04")
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		s.logger.Error(fmt.Sprintf("failed to render %s: %v", r.URL.Path, err))
	}
}

// snapshot returns the current snapshot or renders the import form.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request, p templates.Page) (*analytics.Snapshot, bool) {
	snap, ok := s.service.Current()
	if !ok {
		s.render(w, r, http.StatusOK, templates.ImportPage(p))
		return nil, false
	}
	return snap, true
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	p := s.page("Overview", "overview")
	snap, ok := s.snapshot(w, r, p)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, templates.OverviewPage(p, overviewView(snap)))
}

func overviewView(snap *analytics.Snapshot) templates.OverviewView {
	return templates.OverviewView{
		Overview: snap.Overview,
		Daily:    snap.Daily,
		Tools:    snap.Tools[:min(len(snap.Tools), overviewTools)],
		Recent:   snap.Conversations[:min(len(snap.Conversations), overviewRecent)],
	}
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	p := s.page("Users", "users")
	snap, ok := s.snapshot(w, r, p)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, templates.UsersPage(p, snap.Users))
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	p := s.page("Conversations", "conversations")
	snap, ok := s.snapshot(w, r, p)
	if !ok {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	s.render(w, r, http.StatusOK, templates.ConversationsPage(p, templates.ConversationList{
		Query: query,
		Items: snap.SearchConversations(query),
		Total: len(snap.Conversations),
	}))
}

func (s *Server) handleConversationDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p := s.page("Conversation", "conversations")
	snap, ok := s.snapshot(w, r, p)
	if !ok {
		return
	}

	detail, conv, found := snap.Conversation(id)
	if !found {
		s.render(w, r, http.StatusNotFound, templates.NotFoundPage(p, fmt.Sprintf("Conversation %s does not exist in this export.", id)))
		return
	}

	p.Title = detail.Name
	s.render(w, r, http.StatusOK, templates.ThreadPage(p, s.threadView(detail, conv)))
}

func (s *Server) threadView(detail analytics.ConversationDetail, conv domain.Conversation) templates.ThreadView {
	view := templates.ThreadView{
		Detail:   detail,
		Summary:  conv.Summary,
		Messages: make([]templates.MessageView, 0, len(conv.Messages)),
	}
	for _, m := range conv.Messages {
		mv := templates.MessageView{
			Sender:    string(m.Sender),
			CreatedAt: m.CreatedAt,
			Text:      messageText(m),
			Markers:   blockMarkers(m.Content),
		}
		if m.Sender == domain.SenderAssistant && mv.Text != "" {
			html, err := s.markdown.Render(mv.Text)
			if err != nil {
				s.logger.Error(fmt.Sprintf("failed to render message %s: %v", m.ID, err))
			} else {
				mv.HTML = html
			}
		}
		view.Messages = append(view.Messages, mv)
	}
	return view
}

// messageText prefers the flattened text and falls back to text blocks.
func messageText(m domain.Message) string {
	if m.Text != "" {
		return m.Text
	}
	var parts []string
	for _, b := range m.Content {
		if b.Type == domain.BlockText && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

func blockMarkers(blocks []domain.ContentBlock) []string {
	var marks []string
	for _, b := range blocks {
		switch b.Type {
		case domain.BlockThinking:
			marks = append(marks, "[thinking]")
		case domain.BlockToolUse:
			if name, ok := b.ToolName(); ok {
				marks = append(marks, "[tool: "+name+"]")
			}
		case domain.BlockToolResult:
			marks = append(marks, "[tool result]")
		}
	}
	return marks
}

func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	p := s.page("Projects", "projects")
	snap, ok := s.snapshot(w, r, p)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, templates.ProjectsPage(p, snap.Export.Projects))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	file, header, err := r.FormFile("archive")
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.importFailed(w, r, status, fmt.Errorf("failed to read upload: %w", err))
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.importFailed(w, r, http.StatusBadRequest, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.loadTimeout)
	defer cancel()

	if _, err := s.service.LoadBytes(ctx, header.Filename, data); err != nil {
		s.importFailed(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// importFailed shows the error above whatever was loaded before.
func (s *Server) importFailed(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.logger.Error(fmt.Sprintf("import failed: %v", err))

	p := s.page("Overview", "overview")
	p.Error = "Import failed: " + err.Error()

	if snap, ok := s.service.Current(); ok {
		s.render(w, r, status, templates.OverviewPage(p, overviewView(snap)))
		return
	}
	s.render(w, r, status, templates.ImportPage(p))
}

func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		http.Error(w, "theme preferences are not available", http.StatusServiceUnavailable)
		return
	}
	if _, err := s.settings.Toggle(r.Context()); err != nil {
		s.logger.Error(fmt.Sprintf("failed to toggle theme: %v", err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, backTo(r), http.StatusSeeOther)
}

// backTo returns the local path of the referring page, "/" otherwise.
func backTo(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return "/"
	}
	if ref.Host != "" && ref.Host != r.Host {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
