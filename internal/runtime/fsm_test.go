package runtime_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ladle/internal/runtime"
	"github.com/aretw0/ladle/pkg/domain"
)

func ovenRecipe() *domain.Recipe {
	return &domain.Recipe{
		ID:    "oven-cake",
		Title: "Oven Cake",
		Steps: []domain.Step{
			{Index: 1, Text: "Preheat oven to 350°F"},
			{Index: 2, Text: "Mix flour and eggs"},
			{Index: 3, Text: "Bake for 30 minutes"},
		},
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: &domain.Quantity{Amount: "2", Unit: "cups"}},
			{Name: "eggs", Quantity: &domain.Quantity{Amount: "3"}},
		},
	}
}

func TestFSM_StartNextBack(t *testing.T) {
	fsm := runtime.NewFSM(ovenRecipe())
	state := domain.NewWalkState("oven-cake")

	step, err := fsm.Start(state)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Index)
	assert.Equal(t, 1, state.CurrentIndex)

	step, done, err := fsm.Next(state)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 2, step.Index)

	step, err = fsm.Back(state)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Index)
	assert.Equal(t, 1, state.CurrentIndex)
}

func TestFSM_StartTwice(t *testing.T) {
	fsm := runtime.NewFSM(ovenRecipe())
	state := domain.NewWalkState("oven-cake")

	_, err := fsm.Start(state)
	require.NoError(t, err)

	_, err = fsm.Start(state)
	assert.ErrorIs(t, err, domain.ErrAlreadyStarted)
	assert.Equal(t, 1, state.CurrentIndex, "failed start must not move position")
	assert.Len(t, state.Visited, 1, "failed start must not append history")
}

func TestFSM_NextBeforeStart(t *testing.T) {
	fsm := runtime.NewFSM(ovenRecipe())
	state := domain.NewWalkState("oven-cake")

	_, _, err := fsm.Next(state)
	assert.ErrorIs(t, err, domain.ErrNoActiveWalkthrough)
	assert.Equal(t, 0, state.CurrentIndex)
	assert.Empty(t, state.Visited)
}

func TestFSM_BackAtFirstStep(t *testing.T) {
	fsm := runtime.NewFSM(ovenRecipe())
	state := domain.NewWalkState("oven-cake")
	_, _ = fsm.Start(state)

	_, err := fsm.Back(state)
	assert.ErrorIs(t, err, domain.ErrAtFirstStep)
	assert.Equal(t, 1, state.CurrentIndex, "failed back must leave state unchanged")
	assert.Len(t, state.Visited, 1)
}

func TestFSM_Completion(t *testing.T) {
	recipe := ovenRecipe()
	fsm := runtime.NewFSM(recipe)
	state := domain.NewWalkState("oven-cake")

	_, _ = fsm.Start(state)
	for i := 0; i < recipe.NumSteps()-1; i++ {
		_, done, err := fsm.Next(state)
		require.NoError(t, err)
		assert.False(t, done)
	}

	// Advancing off the last step completes the walkthrough with no new entry.
	before := len(state.Visited)
	_, done, err := fsm.Next(state)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Equal(t, recipe.NumSteps()+1, state.CurrentIndex)
	assert.Len(t, state.Visited, before, "transition to Complete appends no history entry")

	// Next past Complete fails and leaves state untouched.
	_, _, err = fsm.Next(state)
	assert.ErrorIs(t, err, domain.ErrWalkthroughComplete)
	assert.Equal(t, recipe.NumSteps()+1, state.CurrentIndex)

	// Back from Complete returns to the last step.
	step, err := fsm.Back(state)
	require.NoError(t, err)
	assert.Equal(t, recipe.NumSteps(), step.Index)
}

func TestFSM_RepeatAppendsNothing(t *testing.T) {
	fsm := runtime.NewFSM(ovenRecipe())
	state := domain.NewWalkState("oven-cake")

	_, err := fsm.Repeat(state)
	assert.ErrorIs(t, err, domain.ErrNoActiveWalkthrough)

	_, _ = fsm.Start(state)
	before := len(state.Visited)

	step, err := fsm.Repeat(state)
	require.NoError(t, err)
	assert.Equal(t, 1, step.Index)
	assert.Len(t, state.Visited, before)
	assert.Equal(t, 1, state.CurrentIndex)
}

func TestFSM_Goto(t *testing.T) {
	fsm := runtime.NewFSM(ovenRecipe())
	state := domain.NewWalkState("oven-cake")
	_, _ = fsm.Start(state)

	step, err := fsm.Goto(state, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, step.Index)
	assert.Equal(t, 3, state.CurrentIndex)
	assert.Len(t, state.Visited, 2, "explicit goto records a visit")

	_, err = fsm.Goto(state, 99)
	assert.ErrorIs(t, err, domain.ErrStepOutOfRange)
	assert.Equal(t, 3, state.CurrentIndex)
}

func TestFSM_HistoryIsVerbatim(t *testing.T) {
	fsm := runtime.NewFSM(ovenRecipe())
	state := domain.NewWalkState("oven-cake")

	_, _ = fsm.Start(state)
	_, _, _ = fsm.Next(state)
	_, _ = fsm.Back(state)
	_, _, _ = fsm.Next(state)

	wantIndices := []int{1, 2, 1, 2}
	wantTexts := []string{
		"Preheat oven to 350°F",
		"Mix flour and eggs",
		"Preheat oven to 350°F",
		"Mix flour and eggs",
	}

	require.Len(t, state.Visited, len(wantIndices))
	for i, entry := range state.Visited {
		assert.Equal(t, i+1, entry.Seq, "sequence numbers are monotonic")
		assert.Equal(t, wantIndices[i], entry.StepIndex)
		assert.Equal(t, wantTexts[i], entry.StepText, "history replays exact step text")
	}
}

// For any sequence of next/back calls the index must stay within [0, N+1].
func TestFSM_IndexAlwaysInBounds(t *testing.T) {
	recipe := ovenRecipe()
	fsm := runtime.NewFSM(recipe)
	state := domain.NewWalkState("oven-cake")
	_, _ = fsm.Start(state)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5000; i++ {
		if rng.Intn(2) == 0 {
			_, _, _ = fsm.Next(state)
		} else {
			_, _ = fsm.Back(state)
		}
		require.GreaterOrEqual(t, state.CurrentIndex, 0)
		require.LessOrEqual(t, state.CurrentIndex, recipe.NumSteps()+1)
	}
}
