package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is used for conversations created without an explicit title.
const DefaultTitle = "New conversation"

// Manager owns the set of conversations and the single active selection.
// Per-entry concerns are delegated to the tool session controller; the
// entry store is owned here and handed to collaborators explicitly, never
// looked up ambiently.
type Manager struct {
	gw     Gateway
	store  *EntryStore
	ctrl   *Controller
	logger *slog.Logger

	mu            sync.Mutex
	conversations []Summary
	activeID      string

	persists sync.WaitGroup
}

// NewManager creates a manager with its own entry store and controller.
func NewManager(gw Gateway, registry *Registry, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	store := NewEntryStore()
	return &Manager{
		gw:     gw,
		store:  store,
		ctrl:   NewController(store, gw, registry, logger),
		logger: logger.With("component", "conversation_manager"),
	}
}

// Store returns the entry store for the active conversation.
func (m *Manager) Store() *EntryStore { return m.store }

// Controller returns the tool session controller.
func (m *Manager) Controller() *Controller { return m.ctrl }

// Active returns the id of the active conversation, or "" before List.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Conversations returns a copy of the known conversation summaries.
func (m *Manager) Conversations() []Summary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Summary(nil), m.conversations...)
}

// List fetches the user's conversations. A user with none gets one created
// and activated instead of an empty state; otherwise the first conversation
// is activated if none is yet.
func (m *Manager) List(ctx context.Context) ([]Summary, error) {
	sums, err := m.gw.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	if len(sums) == 0 {
		if err := m.Create(ctx, DefaultTitle); err != nil {
			return nil, err
		}
		return m.Conversations(), nil
	}

	m.mu.Lock()
	m.conversations = sums
	active := m.activeID
	m.mu.Unlock()

	if active == "" {
		if err := m.Activate(ctx, sums[0].ID); err != nil {
			return nil, err
		}
	}
	return m.Conversations(), nil
}

// Activate loads the conversation's entries into the entry store, replacing
// whatever was loaded before. The live tool focus is cleared and any
// generation still in flight for the previous conversation is abandoned.
func (m *Manager) Activate(ctx context.Context, id string) error {
	m.mu.Lock()
	known := false
	for _, s := range m.conversations {
		if s.ID == id {
			known = true
			break
		}
	}
	m.mu.Unlock()
	if !known {
		return fmt.Errorf("activate: unknown conversation %s", id)
	}

	entries, err := m.gw.ListEntries(ctx, id)
	if err != nil {
		return fmt.Errorf("load entries for %s: %w", id, err)
	}

	m.ctrl.Invalidate()
	m.store.Reset(id, entries)

	m.mu.Lock()
	m.activeID = id
	m.mu.Unlock()

	m.logger.Debug("conversation activated", "conversation_id", id, "entries", len(entries))
	return nil
}

// Create requests a new conversation, prepends it to the list and activates
// it. An empty title gets the default one.
func (m *Manager) Create(ctx context.Context, title string) error {
	if title == "" {
		title = DefaultTitle
	}
	sum, err := m.gw.CreateConversation(ctx, title)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	m.mu.Lock()
	m.conversations = append([]Summary{sum}, m.conversations...)
	m.mu.Unlock()

	return m.Activate(ctx, sum.ID)
}

// Delete removes the conversation from the list immediately. The remote
// delete is best effort: resurrecting a just-deleted conversation is worse
// than a dangling server row, so a failure is logged and not rolled back.
// Deleting the active conversation activates the next remaining one, or
// creates a fresh one when none remain; the list is never left empty.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	kept := m.conversations[:0]
	found := false
	for _, s := range m.conversations {
		if s.ID == id {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	m.conversations = kept
	wasActive := m.activeID == id
	if wasActive {
		m.activeID = ""
	}
	var nextID string
	if len(m.conversations) > 0 {
		nextID = m.conversations[0].ID
	}
	m.mu.Unlock()

	if !found {
		return nil
	}

	if err := m.gw.DeleteConversation(ctx, id); err != nil {
		m.logger.Warn("failed to delete conversation remotely", "conversation_id", id, "error", err)
	}

	if !wasActive {
		return nil
	}
	if nextID != "" {
		return m.Activate(ctx, nextID)
	}
	return m.Create(ctx, DefaultTitle)
}

// Rename updates the title locally and persists it asynchronously. A failed
// rename is not rolled back: the local title is the user's intent and a
// later full reload reconciles it.
func (m *Manager) Rename(ctx context.Context, id, title string) error {
	m.mu.Lock()
	found := false
	for i := range m.conversations {
		if m.conversations[i].ID == id {
			m.conversations[i].Title = title
			m.conversations[i].UpdatedAt = time.Now()
			found = true
			break
		}
	}
	m.mu.Unlock()
	if !found {
		return fmt.Errorf("rename: unknown conversation %s", id)
	}

	m.persists.Add(1)
	go func() {
		defer m.persists.Done()
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := m.gw.RenameConversation(rctx, id, title); err != nil {
			m.logger.Warn("failed to persist rename", "conversation_id", id, "error", err)
		}
	}()
	return nil
}

// Wait blocks until the manager's and the controller's detached persists have
// resolved. Bounded by their 30 second timeouts.
func (m *Manager) Wait() {
	m.persists.Wait()
	m.ctrl.Wait()
}

// PostMessage sends a dialogue message in the active conversation. The user
// entry appears optimistically; the confirmed pair from the backend replaces
// it and appends the assistant reply. A failed post rolls the optimistic
// entry back, it would otherwise be an orphaned placeholder.
func (m *Manager) PostMessage(ctx context.Context, text string) error {
	conversationID := m.store.ConversationID()
	if conversationID == "" {
		return ErrNoActiveConversation
	}

	tempID := uuid.New().String()
	m.store.Append(Entry{
		ID:             tempID,
		ConversationID: conversationID,
		Role:           RoleUser,
		Content:        text,
		CreatedAt:      time.Now(),
	})

	pair, err := m.gw.PostMessage(ctx, conversationID, text)
	if err != nil {
		m.store.Remove(tempID)
		return fmt.Errorf("post message: %w", err)
	}

	m.store.Replace(tempID, EntryPatch{ID: strPtr(pair.User.ID)})
	m.store.Append(pair.Assistant)
	return nil
}
