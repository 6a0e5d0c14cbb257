package conversation

import "context"

// ToolEntryPatch is the partial update sent to the backend for a
// tool-instance entry. Nil fields are omitted from the request.
type ToolEntryPatch struct {
	Status  *ToolStatus `json:"status,omitempty"`
	Payload *Bundle     `json:"payload,omitempty"`
}

// Gateway is the boundary to the persistence and generation backend. The
// gateway never retries; retry policy, where it exists, belongs to the
// caller. Every call is a suspension point for the controller.
type Gateway interface {
	ListConversations(ctx context.Context) ([]Summary, error)
	CreateConversation(ctx context.Context, title string) (Summary, error)
	DeleteConversation(ctx context.Context, id string) error
	RenameConversation(ctx context.Context, id, title string) error

	ListEntries(ctx context.Context, conversationID string) ([]Entry, error)
	PostMessage(ctx context.Context, conversationID, text string) (MessagePair, error)

	CreateToolEntry(ctx context.Context, conversationID string, kind ToolKind, label string) (Entry, error)
	PatchToolEntry(ctx context.Context, entryID string, patch ToolEntryPatch) error
	DeleteToolEntry(ctx context.Context, entryID string) error

	InvokeGeneration(ctx context.Context, req GenerationRequest) (*Bundle, error)
}
