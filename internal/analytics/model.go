package analytics

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Display fallbacks for missing names.
const (
	UntitledConversation = "Untitled"
	UnknownUser          = "Unknown"
)

// UserStats aggregates every conversation that references one user.
type UserStats struct {
	UserID            string     `json:"userId"`
	Name              string     `json:"name"`
	Email             string     `json:"email"`
	ConversationCount int        `json:"conversationCount"`
	MessageCount      int        `json:"messageCount"`
	HumanMessages     int        `json:"humanMessages"`
	AssistantMessages int        `json:"assistantMessages"`
	HumanChars        int        `json:"humanChars"`
	AssistantChars    int        `json:"assistantChars"`
	AvgPromptLength   int        `json:"avgPromptLength"`
	AvgResponseLength int        `json:"avgResponseLength"`
	ThinkingBlocks    int        `json:"thinkingBlocks"`
	ToolsUsed         ToolCounts `json:"toolsUsed"`
	LastActive        string     `json:"lastActive"`
}

// DailyActivity counts conversations created on one calendar day.
type DailyActivity struct {
	Date          string `json:"date"`
	Conversations int    `json:"conversations"`
	Messages      int    `json:"messages"`
}

// ToolUsageEntry is one bar of the global tool histogram.
type ToolUsageEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ConversationDetail summarises a single conversation for list and detail views.
type ConversationDetail struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	UserName          string     `json:"userName"`
	CreatedAt         string     `json:"createdAt"`
	TotalMessages     int        `json:"totalMessages"`
	HumanMessages     int        `json:"humanMessages"`
	AssistantMessages int        `json:"assistantMessages"`
	HumanChars        int        `json:"humanChars"`
	AssistantChars    int        `json:"assistantChars"`
	ThinkingBlocks    int        `json:"thinkingBlocks"`
	ToolsUsed         ToolCounts `json:"toolsUsed"`
	HasThinking       bool       `json:"hasThinking"`
}

// Overview holds the headline totals of an export.
type Overview struct {
	Users                 int    `json:"users"`
	Conversations         int    `json:"conversations"`
	Messages              int    `json:"messages"`
	HumanMessages         int    `json:"humanMessages"`
	AssistantMessages     int    `json:"assistantMessages"`
	Projects              int    `json:"projects"`
	ProjectDocs           int    `json:"projectDocs"`
	ThinkingBlocks        int    `json:"thinkingBlocks"`
	ToolInvocations       int    `json:"toolInvocations"`
	DistinctTools         int    `json:"distinctTools"`
	ActiveDays            int    `json:"activeDays"`
	FirstActivity         string `json:"firstActivity"`
	LastActivity          string `json:"lastActivity"`
	UnattributedConvs     int    `json:"unattributedConversations"`
	UnattributedMessages  int    `json:"unattributedMessages"`
	ConversationsWithTool int    `json:"conversationsWithTools"`
}

// ToolCounts maps tool names to invocation counts and remembers the order in
// which names were first seen. The zero value is ready to use.
type ToolCounts struct {
	names  []string
	counts map[string]int
}

// Add records one invocation of name.
func (t *ToolCounts) Add(name string) {
	t.AddN(name, 1)
}

// AddN records n invocations of name.
func (t *ToolCounts) AddN(name string, n int) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[name]; !ok {
		t.names = append(t.names, name)
	}
	t.counts[name] += n
}

// Get returns the count for name, 0 when never seen.
func (t ToolCounts) Get(name string) int {
	return t.counts[name]
}

// Len returns the number of distinct tool names.
func (t ToolCounts) Len() int {
	return len(t.names)
}

// Total returns the sum of all counts.
func (t ToolCounts) Total() int {
	total := 0
	for _, n := range t.counts {
		total += n
	}
	return total
}

// Entries returns the counts in first-seen order.
func (t ToolCounts) Entries() []ToolUsageEntry {
	entries := make([]ToolUsageEntry, 0, len(t.names))
	for _, name := range t.names {
		entries = append(entries, ToolUsageEntry{Name: name, Count: t.counts[name]})
	}
	return entries
}

// MarshalJSON encodes the counts as an object, keys in first-seen order.
func (t ToolCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range t.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(t.counts[name]))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
