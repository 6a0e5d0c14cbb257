package localstate

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "localstate.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDraftRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	draft := &Draft{
		ConversationID: "conv-1",
		Kind:           "post_generator",
		Prompt:         "announce the launch",
		Platforms:      JSONStringArray{"facebook", "instagram"},
		Style:          "playful",
	}
	require.NoError(t, SaveDraft(ctx, db.DB(), draft))
	assert.NotEmpty(t, draft.ID)

	got, err := GetDraft(ctx, db.DB(), "conv-1", "post_generator")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "announce the launch", got.Prompt)
	assert.Equal(t, JSONStringArray{"facebook", "instagram"}, got.Platforms)
	assert.Equal(t, "playful", got.Style)
}

func TestGetDraftMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)

	got, err := GetDraft(context.Background(), db.DB(), "conv-1", "ad_generator")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveDraftOverwritesPerConversationAndKind(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SaveDraft(ctx, db.DB(), &Draft{
		ConversationID: "conv-1",
		Kind:           "post_generator",
		Prompt:         "first attempt",
	}))
	require.NoError(t, SaveDraft(ctx, db.DB(), &Draft{
		ConversationID: "conv-1",
		Kind:           "post_generator",
		Prompt:         "second attempt",
		Platforms:      JSONStringArray{"twitter"},
	}))

	got, err := GetDraft(ctx, db.DB(), "conv-1", "post_generator")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second attempt", got.Prompt)
	assert.Equal(t, JSONStringArray{"twitter"}, got.Platforms)
}

func TestDeleteDraft(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SaveDraft(ctx, db.DB(), &Draft{
		ConversationID: "conv-1",
		Kind:           "post_generator",
		Prompt:         "draft",
	}))
	require.NoError(t, DeleteDraft(ctx, db.DB(), "conv-1", "post_generator"))

	got, err := GetDraft(ctx, db.DB(), "conv-1", "post_generator")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is not an error.
	require.NoError(t, DeleteDraft(ctx, db.DB(), "conv-1", "post_generator"))
}

func TestDeleteDraftsByConversation(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SaveDraft(ctx, db.DB(), &Draft{ConversationID: "conv-1", Kind: "post_generator"}))
	require.NoError(t, SaveDraft(ctx, db.DB(), &Draft{ConversationID: "conv-1", Kind: "ad_generator"}))
	require.NoError(t, SaveDraft(ctx, db.DB(), &Draft{ConversationID: "conv-2", Kind: "post_generator"}))

	require.NoError(t, DeleteDraftsByConversation(ctx, db.DB(), "conv-1"))

	got, err := GetDraft(ctx, db.DB(), "conv-1", "ad_generator")
	require.NoError(t, err)
	assert.Nil(t, got)

	kept, err := GetDraft(ctx, db.DB(), "conv-2", "post_generator")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestClientStateRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	got, err := GetClientState(ctx, db.DB())
	require.NoError(t, err)
	assert.Nil(t, got)

	conv := "conv-9"
	require.NoError(t, SaveClientState(ctx, db.DB(), &ClientState{CurrentConversationID: &conv}))

	got, err = GetClientState(ctx, db.DB())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.CurrentConversationID)
	assert.Equal(t, "conv-9", *got.CurrentConversationID)

	// Overwrite with no active conversation.
	require.NoError(t, SaveClientState(ctx, db.DB(), &ClientState{}))
	got, err = GetClientState(ctx, db.DB())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.CurrentConversationID)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "localstate.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening runs migrations again over the same file.
	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
