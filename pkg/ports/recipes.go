package ports

import (
	"context"

	"github.com/aretw0/ladle/pkg/domain"
)

// RecipeStore holds normalized recipes for active sessions.
// Recipes are immutable after Put, so concurrent Get calls need no
// coordination beyond the store's own map locking.
type RecipeStore interface {
	// Put stores a validated recipe under its ID.
	Put(ctx context.Context, recipe *domain.Recipe) error

	// Get retrieves a recipe by ID.
	// Returns domain.ErrRecipeNotFound if absent.
	Get(ctx context.Context, id string) (*domain.Recipe, error)

	// Delete removes a recipe.
	Delete(ctx context.Context, id string) error

	// List returns all stored recipe IDs.
	List(ctx context.Context) ([]string, error)
}
