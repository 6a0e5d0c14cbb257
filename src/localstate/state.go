package localstate

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"
)

// clientStateID is the fixed row id; there is one client state per device.
const clientStateID = "client"

// GetClientState retrieves the remembered client state, or nil when this
// device has none yet.
func GetClientState(ctx context.Context, db sqlscan.Querier) (*ClientState, error) {
	query := `SELECT id, current_conversation_id, updated_at FROM client_state WHERE id = ?`
	var s ClientState
	err := sqlscan.Get(ctx, db, &s, query, clientStateID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No state yet
		}
		return nil, err
	}
	return &s, nil
}

// SaveClientState inserts or overwrites the remembered client state.
func SaveClientState(ctx context.Context, db Execer, state *ClientState) error {
	state.ID = clientStateID
	state.UpdatedAt = time.Now()

	query := `INSERT INTO client_state (id, current_conversation_id, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			current_conversation_id = excluded.current_conversation_id,
			updated_at = excluded.updated_at`
	_, err := db.ExecContext(ctx, query, state.ID, state.CurrentConversationID, state.UpdatedAt)
	return err
}
