package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Controller is the state machine for tool-instance entries in the active
// conversation. It applies every mutation to the entry store optimistically,
// then confirms or corrects it with the gateway response. Creates are rolled
// back on failure; updates and deletes are allowed to diverge until the next
// full reload reconciles them.
//
// At most one tool instance holds the live focus at a time. Activating
// another instance defocuses the previous one without closing it: a
// defocused tool stays active and keeps its payload.
type Controller struct {
	store    *EntryStore
	gw       Gateway
	registry *Registry
	logger   *slog.Logger
	validate *validator.Validate

	mu     sync.Mutex
	liveID string
	busy   bool
	epoch  uint64

	persists sync.WaitGroup
}

// NewController creates a controller bound to the given store and gateway.
func NewController(store *EntryStore, gw Gateway, registry *Registry, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:    store,
		gw:       gw,
		registry: registry,
		logger:   logger.With("component", "tool_controller"),
		validate: validator.New(),
	}
}

// Live returns the id of the tool instance currently holding live focus, or
// "" when none does.
func (c *Controller) Live() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveID
}

// Busy reports whether a generation call is outstanding for the live tool.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Invalidate abandons interest in any outstanding gateway response and
// clears the live focus. Called when the active conversation changes: a
// result resolving afterwards must not land in the new conversation's store.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	c.epoch++
	c.liveID = ""
	c.busy = false
	c.mu.Unlock()
}

// Invoke creates a new tool instance of the given kind: the entry is
// appended optimistically with a temporary id and live focus, then confirmed
// with the backend. On confirmation the temporary id is swapped for the
// server id; on failure the entry is removed again.
//
// An unknown kind is a programming error and panics via the registry.
func (c *Controller) Invoke(ctx context.Context, kind ToolKind, label string) (string, error) {
	capability := c.registry.Lookup(kind)

	conversationID := c.store.ConversationID()
	if conversationID == "" {
		return "", ErrNoActiveConversation
	}

	tempID := uuid.New().String()
	c.store.Append(Entry{
		ID:             tempID,
		ConversationID: conversationID,
		Role:           RoleTool,
		Content:        label,
		Kind:           kind,
		Status:         ToolActive,
		CreatedAt:      time.Now(),
	})
	c.setLive(tempID)

	created, err := c.gw.CreateToolEntry(ctx, conversationID, kind, label)
	if err != nil {
		// A failed create leaves an orphaned placeholder with no
		// content, so it is the one mutation that rolls back.
		c.store.Remove(tempID)
		c.clearLiveIf(tempID)
		return "", fmt.Errorf("create %s entry: %w", capability.Kind, err)
	}

	c.store.Replace(tempID, EntryPatch{ID: strPtr(created.ID)})
	c.swapLive(tempID, created.ID)
	c.logger.Debug("tool instance created", "kind", kind, "entry_id", created.ID)
	return created.ID, nil
}

// Focus gives the live focus to an already-active tool instance, implicitly
// defocusing whichever held it. The previous instance is not closed and its
// payload stays intact.
func (c *Controller) Focus(entryID string) error {
	e, ok := c.store.Get(entryID)
	if !ok {
		return ErrNoSuchEntry
	}
	if !e.IsTool() || e.Status != ToolActive {
		return fmt.Errorf("entry %s: %w", entryID, ErrNoSuchEntry)
	}
	c.setLive(entryID)
	return nil
}

// Generate runs one generation call for the given tool instance. The request
// is validated before any network traffic. While the call is outstanding the
// controller reports Busy, which the rendering layer uses to disable the
// triggering control; a second Generate in that window fails fast.
//
// On success the bundle is applied to the store immediately and persisted to
// the backend in the background; a persist failure is logged, never
// surfaced. On upstream failure the entry is left in its pre-generation
// state so the user can retry with the same inputs. A result resolving after
// the conversation switched away is dropped.
func (c *Controller) Generate(ctx context.Context, entryID string, req GenerationRequest) error {
	if err := c.validateRequest(req); err != nil {
		return err
	}

	e, ok := c.store.Get(entryID)
	if !ok {
		return ErrNoSuchEntry
	}
	capability := c.registry.Lookup(e.Kind)
	if !capability.AcceptsGeneration {
		return fmt.Errorf("%s: %w", e.Kind, ErrNotGenerative)
	}
	if e.Status != ToolActive {
		return fmt.Errorf("entry %s is %s, not active", entryID, e.Status)
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrGenerationInFlight
	}
	c.busy = true
	epoch := c.epoch
	c.mu.Unlock()

	bundle, err := c.gw.InvokeGeneration(ctx, req)

	c.mu.Lock()
	c.busy = false
	stale := c.epoch != epoch
	c.mu.Unlock()

	if stale {
		c.logger.Debug("dropping generation result for inactive conversation", "entry_id", entryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	c.store.Replace(entryID, EntryPatch{Payload: bundle})

	// Persist in the background; the local copy is what the user sees and
	// a divergence self-heals on the next full reload.
	c.persists.Add(1)
	go func() {
		defer c.persists.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if perr := c.gw.PatchToolEntry(pctx, entryID, ToolEntryPatch{Payload: bundle}); perr != nil {
			c.logger.Warn("failed to persist generation payload", "entry_id", entryID, "error", perr)
		}
	}()
	return nil
}

// Wait blocks until every detached persist has resolved. Each carries its own
// 30 second timeout, so the wait is bounded. Called on shutdown so a
// short-lived host does not kill writes mid-flight.
func (c *Controller) Wait() {
	c.persists.Wait()
}

// Close minimizes the tool instance: the payload and closed status are
// round-tripped to the backend first so closing never loses an unsaved
// generation result, then the entry collapses locally and the live focus is
// cleared. A persist failure is logged only.
func (c *Controller) Close(ctx context.Context, entryID string) error {
	e, ok := c.store.Get(entryID)
	if !ok {
		return ErrNoSuchEntry
	}
	if e.Status != ToolActive {
		return nil
	}

	patch := ToolEntryPatch{Status: statusPtr(ToolClosed), Payload: e.Payload}
	if err := c.gw.PatchToolEntry(ctx, entryID, patch); err != nil {
		c.logger.Warn("failed to persist tool close", "entry_id", entryID, "error", err)
	}

	c.store.Replace(entryID, EntryPatch{Status: statusPtr(ToolClosed)})
	c.clearLiveIf(entryID)
	return nil
}

// Reopen returns a closed tool instance to active and gives it the live
// focus. The retained payload is restored as-is without a re-fetch: once
// loaded for the conversation session, the local copy is authoritative.
func (c *Controller) Reopen(ctx context.Context, entryID string) error {
	e, ok := c.store.Get(entryID)
	if !ok {
		return ErrNoSuchEntry
	}
	if e.Status != ToolClosed {
		return c.Focus(entryID)
	}

	c.store.Replace(entryID, EntryPatch{Status: statusPtr(ToolActive)})
	c.setLive(entryID)

	c.persists.Add(1)
	go func() {
		defer c.persists.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := c.gw.PatchToolEntry(pctx, entryID, ToolEntryPatch{Status: statusPtr(ToolActive)}); err != nil {
			c.logger.Warn("failed to persist tool reopen", "entry_id", entryID, "error", err)
		}
	}()
	return nil
}

// Delete permanently removes the tool instance and its payload. The caller
// must pass confirmed=true, it is irreversible. The entry disappears from
// the store immediately; the remote delete is best effort and a failure is
// logged rather than resurrecting the entry.
func (c *Controller) Delete(ctx context.Context, entryID string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if _, ok := c.store.Get(entryID); !ok {
		return ErrNoSuchEntry
	}

	// The entry transitions through deleting before it disappears, so it can
	// never be focused, generated or closed on its way out.
	c.store.Replace(entryID, EntryPatch{Status: statusPtr(ToolDeleting)})
	c.store.Remove(entryID)
	c.clearLiveIf(entryID)

	c.persists.Add(1)
	go func() {
		defer c.persists.Done()
		dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
		defer cancel()
		if err := c.gw.DeleteToolEntry(dctx, entryID); err != nil {
			c.logger.Warn("failed to delete tool entry remotely", "entry_id", entryID, "error", err)
		}
	}()
	return nil
}

func (c *Controller) validateRequest(req GenerationRequest) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{
			Field:   strings.ToLower(fe.Field()),
			Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
		}
	}
	return &ValidationError{Message: err.Error()}
}

func (c *Controller) setLive(id string) {
	c.mu.Lock()
	c.liveID = id
	c.mu.Unlock()
}

func (c *Controller) swapLive(oldID, newID string) {
	c.mu.Lock()
	if c.liveID == oldID {
		c.liveID = newID
	}
	c.mu.Unlock()
}

func (c *Controller) clearLiveIf(id string) {
	c.mu.Lock()
	if c.liveID == id {
		c.liveID = ""
	}
	c.mu.Unlock()
}
