package analytics

import (
	"time"

	"github.com/sahilm/fuzzy"

	"github.com/emiliopalmerini/exportview/internal/domain"
)

// Snapshot is the immutable result of one successful load. Nothing in it is
// modified after publication.
type Snapshot struct {
	ID       string
	LoadedAt time.Time
	Source   string

	Export        *domain.Export
	Users         []UserStats
	Daily         []DailyActivity
	Tools         []ToolUsageEntry
	Conversations []ConversationDetail
	Overview      Overview

	details map[string]int
	raw     map[string]int
}

func (s *Snapshot) index() {
	s.details = make(map[string]int, len(s.Conversations))
	for i, d := range s.Conversations {
		if _, ok := s.details[d.ID]; !ok {
			s.details[d.ID] = i
		}
	}
	s.raw = make(map[string]int, len(s.Export.Conversations))
	for i, c := range s.Export.Conversations {
		if _, ok := s.raw[c.ID]; !ok {
			s.raw[c.ID] = i
		}
	}
}

// Conversation returns the summary and the full thread of the conversation
// with the given id. Messages keep their archive order.
func (s *Snapshot) Conversation(id string) (ConversationDetail, domain.Conversation, bool) {
	di, ok := s.details[id]
	if !ok {
		return ConversationDetail{}, domain.Conversation{}, false
	}
	ri, ok := s.raw[id]
	if !ok {
		return ConversationDetail{}, domain.Conversation{}, false
	}
	return s.Conversations[di], s.Export.Conversations[ri], true
}

// SearchConversations fuzzy-matches query against conversation display
// names, best match first. An empty query returns every conversation.
func (s *Snapshot) SearchConversations(query string) []ConversationDetail {
	if query == "" {
		return s.Conversations
	}

	matches := fuzzy.FindFrom(query, detailNames(s.Conversations))
	out := make([]ConversationDetail, 0, len(matches))
	for _, m := range matches {
		out = append(out, s.Conversations[m.Index])
	}
	return out
}

type detailNames []ConversationDetail

func (d detailNames) String(i int) string { return d[i].Name }
func (d detailNames) Len() int            { return len(d) }
