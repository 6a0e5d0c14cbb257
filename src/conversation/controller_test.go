package conversation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(gw Gateway) (*Controller, *EntryStore) {
	store := NewEntryStore()
	store.Reset("conv-1", nil)
	return NewController(store, gw, NewRegistry(), nil), store
}

func validRequest() GenerationRequest {
	return GenerationRequest{
		Kind:      KindPostGenerator,
		Prompt:    "announce the launch",
		Platforms: []string{"facebook", "instagram"},
	}
}

func TestInvokeSwapsTempIDForServerID(t *testing.T) {
	gw := newFakeGateway()
	ctrl, store := newTestController(gw)

	id, err := ctrl.Invoke(context.Background(), KindPostGenerator, "post")
	require.NoError(t, err)

	entries := store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, id, entries[0].ID)
	assert.Equal(t, ToolActive, entries[0].Status)
	assert.Nil(t, entries[0].Payload)
	assert.Equal(t, id, ctrl.Live())
	// No leftover entry under a temporary identifier.
	assert.Equal(t, 1, store.Len())
}

func TestInvokeRollsBackOnCreateFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.createToolFn = func(ctx context.Context, conversationID string, kind ToolKind, label string) (Entry, error) {
		return Entry{}, errors.New("network down")
	}
	ctrl, store := newTestController(gw)

	_, err := ctrl.Invoke(context.Background(), KindPostGenerator, "post")
	require.Error(t, err)

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, ctrl.Live())
}

func TestInvokeWithoutActiveConversation(t *testing.T) {
	gw := newFakeGateway()
	ctrl := NewController(NewEntryStore(), gw, NewRegistry(), nil)

	_, err := ctrl.Invoke(context.Background(), KindPostGenerator, "post")
	assert.ErrorIs(t, err, ErrNoActiveConversation)
}

func TestAtMostOneLiveTool(t *testing.T) {
	gw := newFakeGateway()
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	first, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)
	require.NoError(t, ctrl.Generate(ctx, first, validRequest()))

	second, err := ctrl.Invoke(ctx, KindAdGenerator, "ad")
	require.NoError(t, err)

	// Invoking the second tool defocuses the first without closing it.
	assert.Equal(t, second, ctrl.Live())
	e, ok := store.Get(first)
	require.True(t, ok)
	assert.Equal(t, ToolActive, e.Status)
	assert.NotNil(t, e.Payload)

	// Focus can move back; still exactly one live tool.
	require.NoError(t, ctrl.Focus(first))
	assert.Equal(t, first, ctrl.Live())
}

func TestGenerateValidatesBeforeNetwork(t *testing.T) {
	gw := newFakeGateway()
	ctrl, _ := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	req := validRequest()
	req.Platforms = nil
	err = ctrl.Generate(ctx, id, req)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "platforms", verr.Field)
	assert.Equal(t, 0, gw.callCount("InvokeGeneration"))
}

func TestGenerateAppliesAndPersistsBundle(t *testing.T) {
	gw := newFakeGateway()
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	require.NoError(t, ctrl.Generate(ctx, id, validRequest()))

	e, ok := store.Get(id)
	require.True(t, ok)
	require.NotNil(t, e.Payload)
	require.Len(t, e.Payload.Variations, 2)
	assert.Equal(t, "facebook", e.Payload.Variations[0].Platform)
	assert.Equal(t, "instagram", e.Payload.Variations[1].Platform)

	// The payload persist is fire-and-forget.
	require.Eventually(t, func() bool {
		return gw.callCount("PatchToolEntry") == 1
	}, time.Second, 10*time.Millisecond)
}

func TestGenerateRejectsConcurrentCalls(t *testing.T) {
	gw := newFakeGateway()
	release := make(chan struct{})
	gw.invokeGenerationFn = func(ctx context.Context, req GenerationRequest) (*Bundle, error) {
		<-release
		return &Bundle{Variations: []Variation{{Platform: "facebook", Text: "x"}}}, nil
	}
	ctrl, _ := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- ctrl.Generate(ctx, id, validRequest()) }()

	require.Eventually(t, ctrl.Busy, time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, ctrl.Generate(ctx, id, validRequest()), ErrGenerationInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, ctrl.Busy())
}

func TestGenerateFailureKeepsPreGenerationState(t *testing.T) {
	gw := newFakeGateway()
	gw.invokeGenerationFn = func(ctx context.Context, req GenerationRequest) (*Bundle, error) {
		return nil, errors.New("upstream AI failure")
	}
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	require.Error(t, ctrl.Generate(ctx, id, validRequest()))

	e, ok := store.Get(id)
	require.True(t, ok)
	assert.Nil(t, e.Payload)
	assert.Equal(t, ToolActive, e.Status)
	assert.False(t, ctrl.Busy())
}

func TestGenerateRejectsNonGenerativeKind(t *testing.T) {
	gw := newFakeGateway()
	ctrl, _ := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindVideoDubber, "dub")
	require.NoError(t, err)

	req := validRequest()
	req.Kind = KindVideoDubber
	assert.ErrorIs(t, ctrl.Generate(ctx, id, req), ErrNotGenerative)
}

func TestStaleGenerationResultDropped(t *testing.T) {
	gw := newFakeGateway()
	release := make(chan struct{})
	gw.invokeGenerationFn = func(ctx context.Context, req GenerationRequest) (*Bundle, error) {
		<-release
		return &Bundle{Variations: []Variation{{Platform: "facebook", Text: "late"}}}, nil
	}
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- ctrl.Generate(ctx, id, validRequest()) }()
	require.Eventually(t, ctrl.Busy, time.Second, 5*time.Millisecond)

	// The user switches conversations while the call is in flight.
	ctrl.Invalidate()
	store.Reset("conv-2", nil)

	close(release)
	require.NoError(t, <-done)

	// The late result must not land in the new conversation's store.
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, gw.callCount("PatchToolEntry"))
}

func TestClosePreservesPayloadAcrossReopen(t *testing.T) {
	gw := newFakeGateway()
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)
	require.NoError(t, ctrl.Generate(ctx, id, validRequest()))

	before, _ := store.Get(id)
	require.NotNil(t, before.Payload)
	generations := gw.callCount("InvokeGeneration")

	require.NoError(t, ctrl.Close(ctx, id))
	e, _ := store.Get(id)
	assert.Equal(t, ToolClosed, e.Status)
	assert.Empty(t, ctrl.Live())

	require.NoError(t, ctrl.Reopen(ctx, id))
	e, _ = store.Get(id)
	assert.Equal(t, ToolActive, e.Status)
	assert.Equal(t, id, ctrl.Live())
	// Exactly the same payload, with no new generation call.
	assert.Equal(t, before.Payload, e.Payload)
	assert.Equal(t, generations, gw.callCount("InvokeGeneration"))
}

func TestCloseRoundTripsPayload(t *testing.T) {
	gw := newFakeGateway()
	var patched ToolEntryPatch
	gw.patchToolFn = func(ctx context.Context, entryID string, patch ToolEntryPatch) error {
		gw.mu.Lock()
		defer gw.mu.Unlock()
		if patch.Status != nil && *patch.Status == ToolClosed {
			patched = patch
		}
		return nil
	}
	ctrl, _ := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)
	require.NoError(t, ctrl.Generate(ctx, id, validRequest()))
	require.NoError(t, ctrl.Close(ctx, id))

	gw.mu.Lock()
	defer gw.mu.Unlock()
	require.NotNil(t, patched.Status)
	assert.Equal(t, ToolClosed, *patched.Status)
	require.NotNil(t, patched.Payload)
	assert.Len(t, patched.Payload.Variations, 2)
}

func TestCloseFailureDiverges(t *testing.T) {
	gw := newFakeGateway()
	gw.patchToolFn = func(ctx context.Context, entryID string, patch ToolEntryPatch) error {
		return errors.New("persist failed")
	}
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	// The failed persist is logged only; the local close stands.
	require.NoError(t, ctrl.Close(ctx, id))
	e, _ := store.Get(id)
	assert.Equal(t, ToolClosed, e.Status)
}

func TestWaitDrainsDetachedPersists(t *testing.T) {
	gw := newFakeGateway()
	gw.patchToolFn = func(ctx context.Context, entryID string, patch ToolEntryPatch) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}
	gw.deleteToolFn = func(ctx context.Context, entryID string) error {
		time.Sleep(50 * time.Millisecond)
		return nil
	}
	ctrl, _ := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	// Generate returns before its payload persist lands; Wait must not.
	require.NoError(t, ctrl.Generate(ctx, id, validRequest()))
	ctrl.Wait()
	assert.Equal(t, 1, gw.callCount("PatchToolEntry"))

	require.NoError(t, ctrl.Delete(ctx, id, true))
	ctrl.Wait()
	assert.Equal(t, 1, gw.callCount("DeleteToolEntry"))
}

func TestDeleteTransitionsThroughDeleting(t *testing.T) {
	gw := newFakeGateway()
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	var seen []ToolStatus
	store.Subscribe(func() {
		if e, ok := store.Get(id); ok {
			seen = append(seen, e.Status)
		}
	})

	require.NoError(t, ctrl.Delete(ctx, id, true))

	// The entry is observed deleting on its way out, never active-then-gone.
	require.NotEmpty(t, seen)
	assert.Equal(t, ToolDeleting, seen[len(seen)-1])
	assert.Equal(t, 0, store.Len())
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	gw := newFakeGateway()
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	assert.ErrorIs(t, ctrl.Delete(ctx, id, false), ErrConfirmationRequired)
	assert.Equal(t, 1, store.Len())
}

func TestDeleteIsOptimisticAndBestEffort(t *testing.T) {
	gw := newFakeGateway()
	release := make(chan struct{})
	gw.deleteToolFn = func(ctx context.Context, entryID string) error {
		<-release
		return errors.New("server unreachable")
	}
	ctrl, store := newTestController(gw)
	ctx := context.Background()

	id, err := ctrl.Invoke(ctx, KindPostGenerator, "post")
	require.NoError(t, err)

	// The entry disappears immediately, while the delete is still pending.
	require.NoError(t, ctrl.Delete(ctx, id, true))
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, ctrl.Live())

	// A failing remote delete does not resurrect the entry.
	close(release)
	require.Eventually(t, func() bool {
		return gw.callCount("DeleteToolEntry") == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 0, store.Len())
}
