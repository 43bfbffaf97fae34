package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ladle/pkg/domain"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore
// implementation adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := domain.NewWalkState("pancakes")
		state.CurrentIndex = 2
		state.Visited = append(state.Visited,
			domain.HistoryEntry{Seq: 1, StepIndex: 1, StepText: "Preheat the pan", VisitedAt: time.Now().UTC().Truncate(time.Second)},
			domain.HistoryEntry{Seq: 2, StepIndex: 2, StepText: "Whisk the batter", VisitedAt: time.Now().UTC().Truncate(time.Second)},
		)

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.RecipeID, loaded.RecipeID)
		assert.Equal(t, state.CurrentIndex, loaded.CurrentIndex)
		// History must survive round trips verbatim: exact order and content.
		require.Len(t, loaded.Visited, 2)
		assert.Equal(t, state.Visited[0].StepText, loaded.Visited[0].StepText)
		assert.Equal(t, state.Visited[1].Seq, loaded.Visited[1].Seq)
	})

	t.Run("Load returns a copy", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)

		loaded.Visited[0].StepText = "tampered"
		loaded.CurrentIndex = 99

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "Preheat the pan", again.Visited[0].StepText)
		assert.Equal(t, 2, again.CurrentIndex)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewWalkState("pancakes"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewWalkState("pancakes"))
		_ = store.Save(ctx, id2, domain.NewWalkState("pancakes"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
