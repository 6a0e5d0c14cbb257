package conversation

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fakeGateway is an in-memory Gateway for tests. Behavior is overridable
// per call through the function fields; unset fields succeed with
// server-assigned ids.
type fakeGateway struct {
	mu     sync.Mutex
	nextID int
	calls  map[string]int

	listConversationsFn func(ctx context.Context) ([]Summary, error)
	createToolFn        func(ctx context.Context, conversationID string, kind ToolKind, label string) (Entry, error)
	patchToolFn         func(ctx context.Context, entryID string, patch ToolEntryPatch) error
	deleteToolFn        func(ctx context.Context, entryID string) error
	invokeGenerationFn  func(ctx context.Context, req GenerationRequest) (*Bundle, error)
	postMessageFn       func(ctx context.Context, conversationID, text string) (MessagePair, error)
	listEntriesFn       func(ctx context.Context, conversationID string) ([]Entry, error)
	renameFn            func(ctx context.Context, id, title string) error
	deleteConvFn        func(ctx context.Context, id string) error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: make(map[string]int)}
}

func (g *fakeGateway) record(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[op]++
	g.nextID++
	return g.nextID
}

func (g *fakeGateway) callCount(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *fakeGateway) ListConversations(ctx context.Context) ([]Summary, error) {
	g.record("ListConversations")
	if g.listConversationsFn != nil {
		return g.listConversationsFn(ctx)
	}
	return nil, nil
}

func (g *fakeGateway) CreateConversation(ctx context.Context, title string) (Summary, error) {
	n := g.record("CreateConversation")
	return Summary{
		ID:        fmt.Sprintf("conv-%d", n),
		Title:     title,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func (g *fakeGateway) DeleteConversation(ctx context.Context, id string) error {
	g.record("DeleteConversation")
	if g.deleteConvFn != nil {
		return g.deleteConvFn(ctx, id)
	}
	return nil
}

func (g *fakeGateway) RenameConversation(ctx context.Context, id, title string) error {
	g.record("RenameConversation")
	if g.renameFn != nil {
		return g.renameFn(ctx, id, title)
	}
	return nil
}

func (g *fakeGateway) ListEntries(ctx context.Context, conversationID string) ([]Entry, error) {
	g.record("ListEntries")
	if g.listEntriesFn != nil {
		return g.listEntriesFn(ctx, conversationID)
	}
	return nil, nil
}

func (g *fakeGateway) PostMessage(ctx context.Context, conversationID, text string) (MessagePair, error) {
	n := g.record("PostMessage")
	if g.postMessageFn != nil {
		return g.postMessageFn(ctx, conversationID, text)
	}
	return MessagePair{
		User:      Entry{ID: fmt.Sprintf("srv-u%d", n), ConversationID: conversationID, Role: RoleUser, Content: text},
		Assistant: Entry{ID: fmt.Sprintf("srv-a%d", n), ConversationID: conversationID, Role: RoleAssistant, Content: "reply to " + text},
	}, nil
}

func (g *fakeGateway) CreateToolEntry(ctx context.Context, conversationID string, kind ToolKind, label string) (Entry, error) {
	n := g.record("CreateToolEntry")
	if g.createToolFn != nil {
		return g.createToolFn(ctx, conversationID, kind, label)
	}
	return Entry{
		ID:             fmt.Sprintf("srv-t%d", n),
		ConversationID: conversationID,
		Role:           RoleTool,
		Kind:           kind,
		Content:        label,
		Status:         ToolActive,
	}, nil
}

func (g *fakeGateway) PatchToolEntry(ctx context.Context, entryID string, patch ToolEntryPatch) error {
	g.record("PatchToolEntry")
	if g.patchToolFn != nil {
		return g.patchToolFn(ctx, entryID, patch)
	}
	return nil
}

func (g *fakeGateway) DeleteToolEntry(ctx context.Context, entryID string) error {
	g.record("DeleteToolEntry")
	if g.deleteToolFn != nil {
		return g.deleteToolFn(ctx, entryID)
	}
	return nil
}

func (g *fakeGateway) InvokeGeneration(ctx context.Context, req GenerationRequest) (*Bundle, error) {
	g.record("InvokeGeneration")
	if g.invokeGenerationFn != nil {
		return g.invokeGenerationFn(ctx, req)
	}
	variations := make([]Variation, len(req.Platforms))
	for i, p := range req.Platforms {
		variations[i] = Variation{Platform: p, Text: "generated for " + p}
	}
	return &Bundle{Variations: variations, Request: req, CreatedAt: time.Now()}, nil
}
