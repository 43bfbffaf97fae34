package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/aretw0/ladle/internal/logging"
	"github.com/aretw0/ladle/internal/resolver"
	"github.com/aretw0/ladle/pkg/domain"
	"github.com/aretw0/ladle/pkg/ports"
)

// DefaultCollaboratorTimeout bounds answering collaborator calls. On expiry
// the dispatcher degrades to a local apology instead of hanging the session.
const DefaultCollaboratorTimeout = 15 * time.Second

// apology is the degraded response when the collaborator is unavailable.
const apology = "Sorry, I can't reach my cooking assistant right now. " +
	"Your place in the recipe is safe — try asking again in a moment."

// Dispatcher routes a classified, resolved query either to a local
// deterministic handler or to the answering collaborator, and assembles the
// response contract.
//
// Only the navigation path mutates WalkState; the dispatcher is the single
// writer. The collaborator receives position and history as read-only context
// and can never alter them: no collaborator error may corrupt FSM state.
type Dispatcher struct {
	answerer ports.Answerer
	timeout  time.Duration
	hooks    domain.LifecycleHooks
	logger   *slog.Logger

	// maxAnswerLen is the only post-processing applied to collaborator text.
	maxAnswerLen int
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithAnswerer injects the answering collaborator. Without one, deferred
// intents degrade to the apology response.
func WithAnswerer(a ports.Answerer) DispatcherOption {
	return func(d *Dispatcher) { d.answerer = a }
}

// WithCollaboratorTimeout overrides the collaborator call deadline.
func WithCollaboratorTimeout(t time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if t > 0 {
			d.timeout = t
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) DispatcherOption {
	return func(d *Dispatcher) { d.hooks = hooks }
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		timeout:      DefaultCollaboratorTimeout,
		logger:       logging.NewNop(),
		maxAnswerLen: 4096,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch handles one classified query against a recipe and its session
// state. Recoverable conditions (failed transitions, unknown ingredients,
// missing context) come back as user-facing Responses with state untouched;
// a non-nil error means an infrastructure failure.
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID string, recipe *domain.Recipe, state *domain.WalkState, q domain.Query) (*domain.Response, error) {
	if d.hooks.OnIntentClassified != nil {
		d.hooks.OnIntentClassified(ctx, &domain.IntentEvent{
			EventBase: eventBase(domain.EventIntentClassified, sessionID),
			Intent:    q.Intent,
		})
	}

	switch q.Intent {
	case domain.IntentNavigateStart, domain.IntentNavigateNext,
		domain.IntentNavigateBack, domain.IntentNavigateRepeat,
		domain.IntentNavigateGoto:
		return d.navigate(ctx, sessionID, recipe, state, q)

	case domain.IntentShowIngredients:
		return &domain.Response{
			Kind:        domain.KindIngredients,
			Source:      domain.SourceStore,
			Text:        formatIngredients(recipe.Ingredients),
			Ingredients: recipe.Ingredients,
		}, nil

	case domain.IntentShowRecipe:
		return &domain.Response{
			Kind:        domain.KindRecipe,
			Source:      domain.SourceStore,
			Text:        formatRecipe(recipe),
			Steps:       recipe.Steps,
			Ingredients: recipe.Ingredients,
		}, nil

	case domain.IntentShowStep:
		// Pure display: reads the store, never moves the walkthrough.
		step, err := recipe.Step(q.Slots.StepNumber)
		if err != nil {
			return errorResponse(domain.SourceStore,
				fmt.Sprintf("This recipe has steps 1 to %d.", recipe.NumSteps())), nil
		}
		return &domain.Response{
			Kind:   domain.KindAnswer,
			Source: domain.SourceStore,
			Text:   formatStep(step),
			Step:   &step,
		}, nil

	case domain.IntentShowHistory:
		// The raw entry sequence, unmodified: the collaborator contract
		// requires history to be echoed back verbatim.
		return &domain.Response{
			Kind:    domain.KindHistory,
			Source:  domain.SourceStore,
			Text:    formatHistory(state.Visited),
			History: state.Visited,
		}, nil

	case domain.IntentIngredientQuantity:
		return d.quantity(recipe, state, q), nil

	case domain.IntentCookingParameter:
		return d.parameter(recipe, state, q), nil

	case domain.IntentSubstitution:
		return d.substitution(ctx, sessionID, recipe, state, q), nil

	case domain.IntentDefinition, domain.IntentHowTo, domain.IntentFreeform:
		return d.forward(ctx, sessionID, recipe, state, q), nil
	}

	return nil, fmt.Errorf("unhandled intent %q", q.Intent)
}

// navigate runs the single FSM transition for a navigation query. The FSM
// validates before mutating, so a failed transition leaves state unchanged.
func (d *Dispatcher) navigate(ctx context.Context, sessionID string, recipe *domain.Recipe, state *domain.WalkState, q domain.Query) (*domain.Response, error) {
	fsm := NewFSM(recipe)

	var step domain.Step
	var err error
	moved := true

	switch q.Intent {
	case domain.IntentNavigateStart:
		step, err = fsm.Start(state)
	case domain.IntentNavigateNext:
		var done bool
		step, done, err = fsm.Next(state)
		if err == nil && done {
			return &domain.Response{
				Kind:   domain.KindComplete,
				Source: domain.SourceFSM,
				Text:   "That was the last step — the recipe is complete. Enjoy!",
			}, nil
		}
	case domain.IntentNavigateBack:
		step, err = fsm.Back(state)
	case domain.IntentNavigateRepeat:
		step, err = fsm.Repeat(state)
		moved = false
	case domain.IntentNavigateGoto:
		step, err = fsm.Goto(state, q.Slots.StepNumber)
	}

	if err != nil {
		return d.transitionError(recipe, err), nil
	}

	if moved && d.hooks.OnStepEnter != nil {
		d.hooks.OnStepEnter(ctx, &domain.StepEvent{
			EventBase: eventBase(domain.EventStepEnter, sessionID),
			RecipeID:  recipe.ID,
			StepIndex: step.Index,
		})
	}

	return &domain.Response{
		Kind:   domain.KindStep,
		Source: domain.SourceFSM,
		Text:   formatStep(step),
		Step:   &step,
	}, nil
}

// transitionError maps recoverable FSM errors to user-facing messages.
func (d *Dispatcher) transitionError(recipe *domain.Recipe, err error) *domain.Response {
	switch {
	case errors.Is(err, domain.ErrNoActiveWalkthrough):
		return errorResponse(domain.SourceFSM, `The walkthrough hasn't started yet. Say "start" to begin.`)
	case errors.Is(err, domain.ErrAtFirstStep):
		return errorResponse(domain.SourceFSM, "You're already at the first step.")
	case errors.Is(err, domain.ErrAlreadyStarted):
		return errorResponse(domain.SourceFSM, `The walkthrough is already underway. Say "repeat" to hear the current step.`)
	case errors.Is(err, domain.ErrWalkthroughComplete):
		return errorResponse(domain.SourceFSM, `The recipe is already complete. Say "back" to revisit the last step.`)
	case errors.Is(err, domain.ErrStepOutOfRange):
		return errorResponse(domain.SourceFSM, fmt.Sprintf("This recipe has steps 1 to %d.", recipe.NumSteps()))
	}
	return errorResponse(domain.SourceFSM, "Sorry, I couldn't do that.")
}

func (d *Dispatcher) quantity(recipe *domain.Recipe, state *domain.WalkState, q domain.Query) *domain.Response {
	ing, err := resolver.Ingredient(recipe, state, q.Slots.Ingredient)
	if err != nil {
		return d.lookupError(err, q)
	}
	if ing.Quantity == nil {
		return &domain.Response{
			Kind:        domain.KindAnswer,
			Source:      domain.SourceResolver,
			Text:        fmt.Sprintf("The recipe doesn't specify a quantity for %s.", ing.Name),
			Ingredients: []domain.Ingredient{ing},
		}
	}
	return &domain.Response{
		Kind:        domain.KindAnswer,
		Source:      domain.SourceResolver,
		Text:        fmt.Sprintf("You need %s of %s.", ing.Quantity, ing.Name),
		Ingredients: []domain.Ingredient{ing},
	}
}

func (d *Dispatcher) parameter(recipe *domain.Recipe, state *domain.WalkState, q domain.Query) *domain.Response {
	value, err := resolver.Parameter(recipe, state, q.Slots.Topic)
	if err != nil {
		return d.lookupError(err, q)
	}
	return &domain.Response{
		Kind:   domain.KindAnswer,
		Source: domain.SourceResolver,
		Text:   value,
	}
}

// substitution answers from the recipe's own substitution hints when present
// and defers to the collaborator otherwise.
func (d *Dispatcher) substitution(ctx context.Context, sessionID string, recipe *domain.Recipe, state *domain.WalkState, q domain.Query) *domain.Response {
	ing, err := resolver.Ingredient(recipe, state, q.Slots.Ingredient)
	if err == nil && len(ing.Substitutes) > 0 {
		return &domain.Response{
			Kind:        domain.KindAnswer,
			Source:      domain.SourceResolver,
			Text:        fmt.Sprintf("Instead of %s you can use: %s.", ing.Name, joinList(ing.Substitutes)),
			Ingredients: []domain.Ingredient{ing},
		}
	}
	if errors.Is(err, domain.ErrNoContextAvailable) {
		return d.lookupError(err, q)
	}
	return d.forward(ctx, sessionID, recipe, state, q)
}

// lookupError maps recoverable resolution errors to user-facing messages.
func (d *Dispatcher) lookupError(err error, q domain.Query) *domain.Response {
	switch {
	case errors.Is(err, domain.ErrNoContextAvailable):
		return &domain.Response{
			Kind:   domain.KindClarify,
			Source: domain.SourceResolver,
			Text:   `I'm not sure what you're referring to. Say "start" to begin the walkthrough, or name the ingredient directly.`,
		}
	case errors.Is(err, domain.ErrUnknownIngredient):
		name := q.Slots.Ingredient
		if name == "" {
			name = "that"
		}
		return errorResponse(domain.SourceResolver, fmt.Sprintf("I couldn't find %s in this recipe's ingredients.", name))
	}
	return errorResponse(domain.SourceResolver, "Sorry, I couldn't look that up.")
}

// forward sends the query to the answering collaborator with the full
// context snapshot: recipe, current step or none, and verbatim history. The
// collaborator is stateless and is re-supplied everything on every call.
func (d *Dispatcher) forward(ctx context.Context, sessionID string, recipe *domain.Recipe, state *domain.WalkState, q domain.Query) *domain.Response {
	if d.answerer == nil {
		return &domain.Response{Kind: domain.KindFallback, Source: domain.SourceFallback, Text: apology}
	}

	req := ports.AnswerRequest{
		Recipe:    recipe,
		History:   state.Visited,
		Utterance: q.Utterance,
		Intent:    q.Intent,
	}
	if state.Started() && !state.Complete(recipe.NumSteps()) {
		if step, err := recipe.Step(state.CurrentIndex); err == nil {
			req.CurrentStep = &step
		}
	}

	if d.hooks.OnCollaboratorCall != nil {
		d.hooks.OnCollaboratorCall(ctx, &domain.CollaboratorEvent{
			EventBase: eventBase(domain.EventCollaboratorCall, sessionID),
			Intent:    q.Intent,
		})
	}

	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	started := time.Now()
	answer, err := d.answerer.Answer(callCtx, req)
	elapsed := time.Since(started)

	if d.hooks.OnCollaboratorReturn != nil {
		d.hooks.OnCollaboratorReturn(ctx, &domain.CollaboratorEvent{
			EventBase: eventBase(domain.EventCollaboratorReturn, sessionID),
			Intent:    q.Intent,
			Elapsed:   elapsed,
			IsError:   err != nil,
		})
	}

	if err != nil {
		d.logger.Warn("answering collaborator failed, degrading",
			"session_id", sessionID,
			"intent", q.Intent,
			"elapsed", elapsed,
			"err", err,
		)
		return &domain.Response{Kind: domain.KindFallback, Source: domain.SourceFallback, Text: apology}
	}

	if len(answer) > d.maxAnswerLen {
		// Back off to a rune boundary so the cut never emits invalid UTF-8.
		cut := d.maxAnswerLen
		for cut > 0 && !utf8.RuneStart(answer[cut]) {
			cut--
		}
		answer = answer[:cut]
	}
	// Collaborator text is otherwise passed through unmodified.
	return &domain.Response{Kind: domain.KindLLM, Source: domain.SourceCollaborator, Text: answer}
}

func errorResponse(source domain.ResponseSource, text string) *domain.Response {
	return &domain.Response{Kind: domain.KindError, Source: source, Text: text}
}

func eventBase(t domain.EventType, sessionID string) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, SessionID: sessionID}
}
