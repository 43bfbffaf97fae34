package ladle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/ladle/internal/intent"
	"github.com/aretw0/ladle/internal/logging"
	"github.com/aretw0/ladle/internal/runtime"
	"github.com/aretw0/ladle/pkg/adapters/memory"
	"github.com/aretw0/ladle/pkg/domain"
	"github.com/aretw0/ladle/pkg/ports"
	"github.com/aretw0/ladle/pkg/session"
)

// Engine is the high-level entry point for the Ladle library.
// It owns recipe storage, session state and the query dispatcher, and
// provides a simplified API for consumers (CLI, HTTP, MCP).
type Engine struct {
	recipes    ports.RecipeStore
	states     ports.StateStore
	sessions   *session.Manager
	extractor  ports.RecipeExtractor
	answerer   ports.Answerer
	locker     ports.DistributedLocker
	dispatcher *runtime.Dispatcher
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	timeout    time.Duration
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStateStore injects the walkthrough-state store (default: in-memory).
func WithStateStore(s ports.StateStore) Option {
	return func(e *Engine) {
		e.states = s
	}
}

// WithRecipeStore injects the recipe store (default: in-memory).
func WithRecipeStore(s ports.RecipeStore) Option {
	return func(e *Engine) {
		e.recipes = s
	}
}

// WithExtractor injects the recipe extraction collaborator client.
// Without one, LoadRecipe by URL is unavailable.
func WithExtractor(x ports.RecipeExtractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// WithAnswerer injects the answering collaborator. Without one, deferred
// questions degrade to a local apology.
func WithAnswerer(a ports.Answerer) Option {
	return func(e *Engine) {
		e.answerer = a
	}
}

// WithLocker enables distributed session locking.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithCollaboratorTimeout bounds answering collaborator calls.
func WithCollaboratorTimeout(t time.Duration) Option {
	return func(e *Engine) {
		e.timeout = t
	}
}

// New initializes a Ladle Engine. By default it keeps recipes and session
// state in memory and has no collaborators wired.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		timeout: runtime.DefaultCollaboratorTimeout,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.recipes == nil {
		eng.recipes = memory.NewRecipeStore()
	}
	if eng.states == nil {
		eng.states = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.states, sessionOpts...)

	eng.dispatcher = runtime.NewDispatcher(
		runtime.WithAnswerer(eng.answerer),
		runtime.WithCollaboratorTimeout(eng.timeout),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	return eng, nil
}

// LoadRecipe extracts a recipe from a URL via the extraction collaborator
// and stores it. The store is only touched after validation succeeds: a
// failed extraction never half-populates it.
func (e *Engine) LoadRecipe(ctx context.Context, url string) (*domain.Recipe, error) {
	if e.extractor == nil {
		return nil, fmt.Errorf("no extractor configured: %w", domain.ErrExtractionFailed)
	}

	recipe, err := e.extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	if recipe.SourceURL == "" {
		recipe.SourceURL = url
	}

	if err := e.recipes.Put(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to store recipe: %w", err)
	}

	e.logger.Info("recipe loaded",
		"recipe_id", recipe.ID,
		"steps", recipe.NumSteps(),
		"source_url", recipe.SourceURL,
	)
	return recipe, nil
}

// AddRecipe validates and stores an already-normalized recipe, e.g. one
// loaded from a local recipe book.
func (e *Engine) AddRecipe(ctx context.Context, recipe *domain.Recipe) error {
	if err := recipe.Validate(); err != nil {
		return err
	}
	return e.recipes.Put(ctx, recipe)
}

// Recipe retrieves a stored recipe by ID.
func (e *Engine) Recipe(ctx context.Context, id string) (*domain.Recipe, error) {
	return e.recipes.Get(ctx, id)
}

// Recipes lists stored recipe IDs.
func (e *Engine) Recipes(ctx context.Context) ([]string, error) {
	return e.recipes.List(ctx)
}

// CreateSession starts a not-started walkthrough over a stored recipe and
// returns the new session ID.
func (e *Engine) CreateSession(ctx context.Context, recipeID string) (string, error) {
	if _, err := e.recipes.Get(ctx, recipeID); err != nil {
		return "", err
	}

	sessionID := uuid.NewString()
	if _, err := e.sessions.Create(ctx, sessionID, recipeID); err != nil {
		return "", err
	}

	e.logger.Info("session created", "session_id", sessionID, "recipe_id", recipeID)
	return sessionID, nil
}

// Say handles one user utterance for a session: classify, resolve, dispatch.
// Navigation commands run as a single atomic update under the session lock;
// everything else reads state without mutating it.
func (e *Engine) Say(ctx context.Context, sessionID, utterance string) (*domain.Response, error) {
	q := intent.Classify(utterance)

	if q.Intent.Navigational() {
		var resp *domain.Response
		_, err := e.sessions.Update(ctx, sessionID, func(ctx context.Context, state *domain.WalkState) error {
			recipe, err := e.recipes.Get(ctx, state.RecipeID)
			if err != nil {
				return err
			}
			resp, err = e.dispatcher.Dispatch(ctx, sessionID, recipe, state, q)
			return err
		})
		if err != nil {
			return nil, err
		}
		return resp, nil
	}

	state, err := e.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	recipe, err := e.recipes.Get(ctx, state.RecipeID)
	if err != nil {
		return nil, err
	}
	return e.dispatcher.Dispatch(ctx, sessionID, recipe, state, q)
}

// State returns the walkthrough state of a session.
func (e *Engine) State(ctx context.Context, sessionID string) (*domain.WalkState, error) {
	return e.sessions.Load(ctx, sessionID)
}

// Sessions lists active session IDs.
func (e *Engine) Sessions(ctx context.Context) ([]string, error) {
	return e.sessions.List(ctx)
}

// EndSession discards a session's walkthrough state.
func (e *Engine) EndSession(ctx context.Context, sessionID string) error {
	return e.sessions.Delete(ctx, sessionID)
}
