package domain

import "encoding/json"

// Sender identifies who authored a message.
type Sender string

const (
	SenderHuman     Sender = "human"
	SenderAssistant Sender = "assistant"
)

// BlockType is the kind tag of a content block.
type BlockType string

const (
	BlockText        BlockType = "text"
	BlockThinking    BlockType = "thinking"
	BlockToolUse     BlockType = "tool_use"
	BlockToolResult  BlockType = "tool_result"
	BlockTokenBudget BlockType = "token_budget"
)

// Known reports whether t is one of the block kinds the export format defines.
func (t BlockType) Known() bool {
	switch t {
	case BlockText, BlockThinking, BlockToolUse, BlockToolResult, BlockTokenBudget:
		return true
	}
	return false
}

// AccountRef points a conversation at the user that owns it.
// The reference is not guaranteed to resolve.
type AccountRef struct {
	ID string `json:"uuid"`
}

// Conversation is a chat thread from conversations.json.
type Conversation struct {
	ID        string     `json:"uuid"`
	Name      string     `json:"name"`
	Summary   string     `json:"summary"`
	CreatedAt string     `json:"created_at"`
	UpdatedAt string     `json:"updated_at"`
	Account   AccountRef `json:"account"`
	Messages  []Message  `json:"chat_messages"`
}

// Message is a single turn. Messages keep the order they have in the archive.
type Message struct {
	ID        string         `json:"uuid"`
	Text      string         `json:"text"`
	Sender    Sender         `json:"sender"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
	Content   []ContentBlock `json:"content"`
}

// ContentBlock is one element of a message's content. Which payload fields
// are set depends on Type: text blocks carry Text, thinking blocks carry
// Thinking, tool_use blocks carry Name and Input. Every payload is optional.
type ContentBlock struct {
	Type     BlockType       `json:"type"`
	Text     string          `json:"text,omitempty"`
	Thinking string          `json:"thinking,omitempty"`
	Name     string          `json:"name,omitempty"`
	Input    json.RawMessage `json:"input,omitempty"`
}

// ToolName returns the invoked tool for tool_use blocks with a name.
func (b ContentBlock) ToolName() (string, bool) {
	if b.Type != BlockToolUse || b.Name == "" {
		return "", false
	}
	return b.Name, true
}
