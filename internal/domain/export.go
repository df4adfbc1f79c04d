package domain

// Export is the full set of raw collections read from one archive.
type Export struct {
	Users         []User
	Conversations []Conversation
	Projects      []Project
}

// MessageCount returns the number of messages across all conversations.
func (e *Export) MessageCount() int {
	n := 0
	for _, c := range e.Conversations {
		n += len(c.Messages)
	}
	return n
}
