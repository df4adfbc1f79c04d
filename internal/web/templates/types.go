package templates

import "github.com/emiliopalmerini/exportview/internal/analytics"

// Page is the chrome shared by every page.
type Page struct {
	Title    string
	Active   string // nav item to highlight
	Theme    string
	Source   string
	LoadedAt string
	Error    string
}

// MessageView is one rendered message of a thread.
type MessageView struct {
	Sender    string
	CreatedAt string
	Text      string
	HTML      string // sanitized markdown, preferred over Text when set
	Markers   []string
}

// ThreadView is a conversation with its messages prepared for display.
type ThreadView struct {
	Detail   analytics.ConversationDetail
	Summary  string
	Messages []MessageView
}

// ConversationList is one page of the conversation list.
type ConversationList struct {
	Query string
	Items []analytics.ConversationDetail
	Total int
}

// OverviewView collects what the landing page shows.
type OverviewView struct {
	Overview analytics.Overview
	Daily    []analytics.DailyActivity
	Tools    []analytics.ToolUsageEntry
	Recent   []analytics.ConversationDetail
}
