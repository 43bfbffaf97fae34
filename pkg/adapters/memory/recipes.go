package memory

import (
	"context"
	"sync"

	"github.com/aretw0/ladle/pkg/domain"
)

// RecipeStore implements ports.RecipeStore in memory.
// Recipes are immutable after Put, so Get hands out the stored pointer.
type RecipeStore struct {
	data map[string]*domain.Recipe
	mu   sync.RWMutex
}

// NewRecipeStore creates a new in-memory recipe store.
func NewRecipeStore() *RecipeStore {
	return &RecipeStore{
		data: make(map[string]*domain.Recipe),
	}
}

// Put stores a recipe under its ID.
func (s *RecipeStore) Put(ctx context.Context, recipe *domain.Recipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[recipe.ID] = recipe
	return nil
}

// Get retrieves a recipe by ID.
func (s *RecipeStore) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recipe, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return recipe, nil
}

// Delete removes a recipe.
func (s *RecipeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns all stored recipe IDs.
func (s *RecipeStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
