package localstate

import "time"

// Draft is an in-progress, not-yet-submitted generation form. One draft per
// conversation and tool kind; navigating away and back restores it. This is
// a convenience cache only, never authoritative.
type Draft struct {
	ID             string          `json:"id" db:"id"`
	ConversationID string          `json:"conversation_id" db:"conversation_id"`
	Kind           string          `json:"kind" db:"kind"`
	Prompt         string          `json:"prompt" db:"prompt"`
	Platforms      JSONStringArray `json:"platforms" db:"platforms"`
	Style          string          `json:"style" db:"style"`
	Language       string          `json:"language" db:"language"`
	Audience       string          `json:"audience" db:"audience"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// ClientState remembers where the user left off on this device.
type ClientState struct {
	ID                    string    `json:"id" db:"id"`
	CurrentConversationID *string   `json:"current_conversation_id,omitempty" db:"current_conversation_id"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}
