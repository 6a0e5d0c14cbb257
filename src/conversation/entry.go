package conversation

import "time"

// Role identifies who authored an entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// ToolStatus is the lifecycle status of a tool-instance entry. Using a
// single enum instead of booleans keeps combinations like "deleting and
// active" unrepresentable.
type ToolStatus string

const (
	ToolActive   ToolStatus = "active"
	ToolClosed   ToolStatus = "closed"
	ToolDeleting ToolStatus = "deleting"
)

// Entry is one item in a conversation's ordered sequence. Entries start out
// with a client-generated UUID; once the server confirms the write the id is
// swapped for the server one. The id is the reconciliation key between the
// optimistic local copy and the authoritative persisted copy.
type Entry struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Role           Role        `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`

	// Tool-instance fields, zero for dialogue entries.
	Kind    ToolKind   `json:"kind,omitempty"`
	Status  ToolStatus `json:"status,omitempty"`
	Payload *Bundle    `json:"payload,omitempty"`
}

// IsTool reports whether the entry is a tool instance rather than dialogue.
func (e Entry) IsTool() bool {
	return e.Role == RoleTool
}

// EntryPatch is a partial update merged into an existing entry. Nil fields
// are left untouched. ID supports the temp-id to server-id swap after a
// confirmed create.
type EntryPatch struct {
	ID      *string
	Content *string
	Status  *ToolStatus
	Payload *Bundle
}

// Summary describes a conversation without its entries.
type Summary struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	EntryCount int       `json:"entry_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MessagePair is the result of posting a dialogue message: the persisted
// user entry and the assistant reply produced for it.
type MessagePair struct {
	User      Entry `json:"user"`
	Assistant Entry `json:"assistant"`
}

func strPtr(s string) *string            { return &s }
func statusPtr(s ToolStatus) *ToolStatus { return &s }
