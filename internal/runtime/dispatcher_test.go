package runtime_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/ladle/internal/intent"
	"github.com/aretw0/ladle/internal/runtime"
	"github.com/aretw0/ladle/pkg/domain"
	"github.com/aretw0/ladle/pkg/ports"
)

// fakeAnswerer scripts collaborator behavior for dispatcher tests.
type fakeAnswerer struct {
	answer string
	err    error
	delay  time.Duration

	lastReq ports.AnswerRequest
	calls   int
}

func (f *fakeAnswerer) Answer(ctx context.Context, req ports.AnswerRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.answer, f.err
}

func dispatch(t *testing.T, d *runtime.Dispatcher, recipe *domain.Recipe, state *domain.WalkState, utterance string) *domain.Response {
	t.Helper()
	resp, err := d.Dispatch(context.Background(), "sess-1", recipe, state, intent.Classify(utterance))
	require.NoError(t, err)
	require.NotNil(t, resp)
	return resp
}

func TestDispatch_NavigationMutatesState(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "start")
	assert.Equal(t, domain.KindStep, resp.Kind)
	assert.Equal(t, domain.SourceFSM, resp.Source)
	assert.Equal(t, 1, state.CurrentIndex)

	resp = dispatch(t, d, recipe, state, "next")
	assert.Equal(t, domain.KindStep, resp.Kind)
	assert.Equal(t, "Step 2: Mix flour and eggs", resp.Text)
	assert.Equal(t, 2, state.CurrentIndex)
}

func TestDispatch_NextBeforeStart(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "next")
	assert.Equal(t, domain.KindError, resp.Kind)
	assert.Equal(t, 0, state.CurrentIndex, "failed transition must not move position")
	assert.Empty(t, state.Visited)
}

func TestDispatch_ShowStepNeverMovesPosition(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)
	dispatch(t, d, recipe, state, "start")

	for k := 1; k <= recipe.NumSteps(); k++ {
		resp, err := d.Dispatch(context.Background(), "sess-1", recipe, state,
			intent.Classify("show step "+strconv.Itoa(k)))
		require.NoError(t, err)
		assert.Equal(t, domain.KindAnswer, resp.Kind)
		assert.Equal(t, k, resp.Step.Index)
		assert.Equal(t, 1, state.CurrentIndex, "display of step %d moved the walkthrough", k)
	}
	assert.Len(t, state.Visited, 1, "display queries must not append history")
}

func TestDispatch_GotoIsNavigation(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)
	dispatch(t, d, recipe, state, "start")

	resp := dispatch(t, d, recipe, state, "go to step 3")
	assert.Equal(t, domain.KindStep, resp.Kind)
	assert.Equal(t, 3, state.CurrentIndex)
	assert.Len(t, state.Visited, 2)
}

func TestDispatch_ShowIngredientsAndRecipe(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "show ingredients")
	assert.Equal(t, domain.KindIngredients, resp.Kind)
	assert.Equal(t, domain.SourceStore, resp.Source)
	assert.Contains(t, resp.Text, "2 cups flour")
	require.Len(t, resp.Ingredients, 2)

	resp = dispatch(t, d, recipe, state, "show me the recipe")
	assert.Equal(t, domain.KindRecipe, resp.Kind)
	assert.Contains(t, resp.Text, "Oven Cake")
	assert.Len(t, resp.Steps, 3)
	assert.Equal(t, 0, state.CurrentIndex)
}

func TestDispatch_HistoryIsVerbatim(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	dispatch(t, d, recipe, state, "start")
	dispatch(t, d, recipe, state, "next")
	dispatch(t, d, recipe, state, "back")
	// Interleave queries that must not affect the history.
	dispatch(t, d, recipe, state, "show ingredients")
	dispatch(t, d, recipe, state, "repeat")
	dispatch(t, d, recipe, state, "show step 3")

	resp := dispatch(t, d, recipe, state, "show history")
	assert.Equal(t, domain.KindHistory, resp.Kind)
	require.Len(t, resp.History, 3)
	assert.Equal(t, []int{1, 2, 1}, []int{
		resp.History[0].StepIndex,
		resp.History[1].StepIndex,
		resp.History[2].StepIndex,
	})
	assert.Equal(t, "Preheat oven to 350°F", resp.History[0].StepText)
}

func TestDispatch_QuantityExplicit(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "how much flour do I need?")
	assert.Equal(t, domain.KindAnswer, resp.Kind)
	assert.Equal(t, domain.SourceResolver, resp.Source)
	assert.Equal(t, "You need 2 cups of flour.", resp.Text)
}

func TestDispatch_QuantityUnknownIngredient(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "how much saffron do I need?")
	assert.Equal(t, domain.KindError, resp.Kind)
	assert.Contains(t, resp.Text, "saffron")
}

func TestDispatch_ImplicitQuantityNeedsContext(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	// Before start there is nothing to resolve "that" against.
	resp := dispatch(t, d, recipe, state, "how much of that?")
	assert.Equal(t, domain.KindClarify, resp.Kind)

	// At step 2 the current step mentions flour.
	dispatch(t, d, recipe, state, "start")
	dispatch(t, d, recipe, state, "next")
	resp = dispatch(t, d, recipe, state, "how much of that?")
	assert.Equal(t, domain.KindAnswer, resp.Kind)
	assert.Equal(t, "You need 2 cups of flour.", resp.Text)
}

func TestDispatch_HowLongResolvesFromCurrentStep(t *testing.T) {
	// Walk to the baking step, then ask "how long?" with no explicit topic.
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	dispatch(t, d, recipe, state, "start")
	dispatch(t, d, recipe, state, "next")
	dispatch(t, d, recipe, state, "next")
	require.Equal(t, 3, state.CurrentIndex)

	resp := dispatch(t, d, recipe, state, "how long?")
	assert.Equal(t, domain.KindAnswer, resp.Kind)
	assert.Equal(t, "30 minutes", resp.Text)
}

func TestDispatch_SubstitutionFromHints(t *testing.T) {
	recipe := ovenRecipe()
	recipe.Ingredients[0].Substitutes = []string{"spelt flour", "oat flour"}
	fake := &fakeAnswerer{answer: "should not be called"}
	d := runtime.NewDispatcher(runtime.WithAnswerer(fake))
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "substitute for flour")
	assert.Equal(t, domain.KindAnswer, resp.Kind)
	assert.Equal(t, "Instead of flour you can use: spelt flour or oat flour.", resp.Text)
	assert.Zero(t, fake.calls, "hinted substitutions answer locally")
}

func TestDispatch_SubstitutionDefersWithoutHints(t *testing.T) {
	fake := &fakeAnswerer{answer: "Plain yogurt thinned with milk works."}
	d := runtime.NewDispatcher(runtime.WithAnswerer(fake))
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "substitute for eggs")
	assert.Equal(t, domain.KindLLM, resp.Kind)
	assert.Equal(t, domain.SourceCollaborator, resp.Source)
	assert.Equal(t, fake.answer, resp.Text)
	assert.Equal(t, 1, fake.calls)
}

func TestDispatch_FreeformCarriesFullContext(t *testing.T) {
	fake := &fakeAnswerer{answer: "A little smoke is fine."}
	d := runtime.NewDispatcher(runtime.WithAnswerer(fake))
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	dispatch(t, d, recipe, state, "start")
	dispatch(t, d, recipe, state, "next")

	resp := dispatch(t, d, recipe, state, "my pan is smoking, is that bad?")
	assert.Equal(t, domain.KindLLM, resp.Kind)

	// The collaborator is stateless: every call carries recipe, current step
	// and verbatim history.
	req := fake.lastReq
	require.NotNil(t, req.Recipe)
	require.NotNil(t, req.CurrentStep)
	assert.Equal(t, 2, req.CurrentStep.Index)
	require.Len(t, req.History, 2)
	assert.Equal(t, "Preheat oven to 350°F", req.History[0].StepText)
	assert.Equal(t, "my pan is smoking, is that bad?", req.Utterance)
}

func TestDispatch_CollaboratorErrorDegrades(t *testing.T) {
	fake := &fakeAnswerer{err: errors.New("boom")}
	d := runtime.NewDispatcher(runtime.WithAnswerer(fake))
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)
	dispatch(t, d, recipe, state, "start")

	resp := dispatch(t, d, recipe, state, "what is a roux?")
	assert.Equal(t, domain.KindFallback, resp.Kind)
	assert.Equal(t, 1, state.CurrentIndex, "collaborator failure must not touch FSM state")
	assert.Len(t, state.Visited, 1)
}

func TestDispatch_CollaboratorTimeoutDegrades(t *testing.T) {
	fake := &fakeAnswerer{answer: "too late", delay: 200 * time.Millisecond}
	d := runtime.NewDispatcher(
		runtime.WithAnswerer(fake),
		runtime.WithCollaboratorTimeout(20*time.Millisecond),
	)
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	start := time.Now()
	resp := dispatch(t, d, recipe, state, "tell me a story about cake")
	assert.Equal(t, domain.KindFallback, resp.Kind)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "timeout must cut the call short")
}

func TestDispatch_LongAnswerCutKeepsValidUTF8(t *testing.T) {
	// 4095 ASCII bytes put the length cut inside the two-byte "é".
	fake := &fakeAnswerer{answer: strings.Repeat("a", 4095) + "é et voilà"}
	d := runtime.NewDispatcher(runtime.WithAnswerer(fake))
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "what is a roux?")
	assert.Equal(t, domain.KindLLM, resp.Kind)
	assert.True(t, utf8.ValidString(resp.Text), "truncation must not split a rune")
	assert.LessOrEqual(t, len(resp.Text), 4096)
	assert.Equal(t, strings.Repeat("a", 4095), resp.Text)
}

func TestDispatch_NoAnswererConfigured(t *testing.T) {
	d := runtime.NewDispatcher()
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	resp := dispatch(t, d, recipe, state, "what is a roux?")
	assert.Equal(t, domain.KindFallback, resp.Kind)
	assert.Equal(t, domain.SourceFallback, resp.Source)
}

func TestDispatch_Hooks(t *testing.T) {
	var intents []domain.Intent
	var steps []int
	hooks := domain.LifecycleHooks{
		OnIntentClassified: func(_ context.Context, e *domain.IntentEvent) {
			intents = append(intents, e.Intent)
		},
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) {
			steps = append(steps, e.StepIndex)
		},
	}
	d := runtime.NewDispatcher(runtime.WithLifecycleHooks(hooks))
	recipe := ovenRecipe()
	state := domain.NewWalkState(recipe.ID)

	dispatch(t, d, recipe, state, "start")
	dispatch(t, d, recipe, state, "next")
	dispatch(t, d, recipe, state, "repeat")

	assert.Equal(t, []domain.Intent{
		domain.IntentNavigateStart,
		domain.IntentNavigateNext,
		domain.IntentNavigateRepeat,
	}, intents)
	assert.Equal(t, []int{1, 2}, steps, "repeat does not re-enter the step")
}
