// Package sessions implements the session/state manager (spec §4.1): load,
// prune, and persist per-session state, keyed by session id, with
// per-session serialization so state transitions stay linearizable.
package sessions

import (
	"context"

	"github.com/sulaljuhani/ai-assistant-local-stack-sub001/pkg/models"
)

// Store is the durability capability the core receives at construction
// (spec §9: "Replacing ad-hoc global state" — no hidden global, just a
// capability passed in).
type Store interface {
	// Load returns the existing session or creates an empty one.
	Load(ctx context.Context, sessionID, userID, workspace string) (*models.Session, error)
	// Save persists the updated session, overwriting the stored message
	// window with the (already pruned) one on the session.
	Save(ctx context.Context, session *models.Session) error
	// Clear removes the session; idempotent.
	Clear(ctx context.Context, sessionID string) error
	// Describe returns metadata without loading full content, or false if
	// the session has never been seen.
	Describe(ctx context.Context, sessionID string) (models.SessionDescription, bool, error)
}
