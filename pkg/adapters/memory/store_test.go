package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ladle/pkg/adapters/memory"
	"github.com/aretw0/ladle/pkg/domain"
	"github.com/aretw0/ladle/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, memory.NewStore())
}

func TestRecipeStore(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRecipeStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)

	recipe := &domain.Recipe{
		ID:    "pancakes",
		Title: "Pancakes",
		Steps: []domain.Step{{Index: 1, Text: "Whisk everything together"}},
	}
	require.NoError(t, store.Put(ctx, recipe))

	got, err := store.Get(ctx, "pancakes")
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Title)

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"pancakes"}, ids)

	require.NoError(t, store.Delete(ctx, "pancakes"))
	_, err = store.Get(ctx, "pancakes")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}
