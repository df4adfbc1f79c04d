package tui

import "github.com/emiliopalmerini/exportview/internal/analytics"

// SnapshotLoadedMsg is broadcast to every screen after a successful load.
type SnapshotLoadedMsg struct {
	Snapshot *analytics.Snapshot
}

// LoadFailedMsg reports a failed load. Screens keep the previous snapshot.
type LoadFailedMsg struct {
	Err error
}

// ConversationSelectedMsg is sent when a conversation is chosen from the list.
type ConversationSelectedMsg struct {
	ID string
}
