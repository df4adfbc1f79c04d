package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/exportview/internal/analytics"
	"github.com/emiliopalmerini/exportview/internal/domain"
)

type apiError struct {
	Error string `json:"error"`
}

type conversationResponse struct {
	analytics.ConversationDetail
	Summary  string           `json:"summary,omitempty"`
	Messages []domain.Message `json:"messages"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) apiSnapshot(w http.ResponseWriter) (*analytics.Snapshot, bool) {
	snap, ok := s.service.Current()
	if !ok {
		writeJSON(w, http.StatusNotFound, apiError{Error: analytics.ErrNoSnapshot.Error()})
		return nil, false
	}
	return snap, true
}

func (s *Server) handleAPIOverview(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.apiSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Overview)
}

func (s *Server) handleAPIUsers(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.apiSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Users)
}

func (s *Server) handleAPIDaily(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.apiSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Daily)
}

func (s *Server) handleAPITools(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.apiSnapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap.Tools)
}

func (s *Server) handleAPIConversations(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.apiSnapshot(w)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, apiError{Error: "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	items := snap.SearchConversations(strings.TrimSpace(r.URL.Query().Get("q")))
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleAPIConversation(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.apiSnapshot(w)
	if !ok {
		return
	}

	detail, conv, found := snap.Conversation(r.PathValue("id"))
	if !found {
		writeJSON(w, http.StatusNotFound, apiError{Error: "conversation not found"})
		return
	}

	messages := conv.Messages
	if messages == nil {
		messages = []domain.Message{}
	}
	writeJSON(w, http.StatusOK, conversationResponse{
		ConversationDetail: detail,
		Summary:            conv.Summary,
		Messages:           messages,
	})
}
