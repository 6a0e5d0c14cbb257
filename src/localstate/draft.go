package localstate

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"
)

// GetDraft retrieves the saved draft for a conversation and tool kind.
// Returns nil when no draft is saved.
func GetDraft(ctx context.Context, db sqlscan.Querier, conversationID, kind string) (*Draft, error) {
	query := `SELECT id, conversation_id, kind, prompt, json(platforms) as platforms, style, language, audience, updated_at FROM drafts WHERE conversation_id = ? AND kind = ?`
	var d Draft
	err := sqlscan.Get(ctx, db, &d, query, conversationID, kind)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return &d, nil
}

// SaveDraft inserts or overwrites the draft for its conversation and kind.
func SaveDraft(ctx context.Context, db Execer, draft *Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	if draft.Platforms == nil {
		draft.Platforms = JSONStringArray{}
	}
	draft.UpdatedAt = time.Now()

	query := `INSERT INTO drafts (id, conversation_id, kind, prompt, platforms, style, language, audience, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (conversation_id, kind) DO UPDATE SET
			prompt = excluded.prompt,
			platforms = excluded.platforms,
			style = excluded.style,
			language = excluded.language,
			audience = excluded.audience,
			updated_at = excluded.updated_at`
	_, err := db.ExecContext(ctx, query,
		draft.ID,
		draft.ConversationID,
		draft.Kind,
		draft.Prompt,
		draft.Platforms,
		draft.Style,
		draft.Language,
		draft.Audience,
		draft.UpdatedAt,
	)
	return err
}

// DeleteDraft removes the draft for a conversation and tool kind. Deleting
// an absent draft is not an error.
func DeleteDraft(ctx context.Context, db Execer, conversationID, kind string) error {
	query := `DELETE FROM drafts WHERE conversation_id = ? AND kind = ?`
	_, err := db.ExecContext(ctx, query, conversationID, kind)
	return err
}

// DeleteDraftsByConversation removes every draft belonging to a
// conversation. Used when the conversation itself is deleted.
func DeleteDraftsByConversation(ctx context.Context, db Execer, conversationID string) error {
	query := `DELETE FROM drafts WHERE conversation_id = ?`
	_, err := db.ExecContext(ctx, query, conversationID)
	return err
}
