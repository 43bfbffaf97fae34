package ports

import (
	"context"

	"github.com/aretw0/ladle/pkg/domain"
)

// StateStore defines the interface for persisting walkthrough state.
// Implementations must return deep copies: callers may not be able to mutate
// stored state through shared slices.
type StateStore interface {
	// Save persists the state for a given session ID.
	Save(ctx context.Context, sessionID string, state *domain.WalkState) error

	// Load retrieves the state for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.WalkState, error)

	// Delete removes the state for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of all active sessions.
	List(ctx context.Context) ([]string, error)
}
