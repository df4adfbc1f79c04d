package domain

import "time"

// ImportRecord is one successful archive load remembered by the preference store.
type ImportRecord struct {
	ID            string    `json:"id"`
	Source        string    `json:"source"`
	Users         int       `json:"users"`
	Conversations int       `json:"conversations"`
	Messages      int       `json:"messages"`
	Projects      int       `json:"projects"`
	LoadedAt      time.Time `json:"loadedAt"`
}
