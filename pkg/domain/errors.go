package domain

import "errors"

// FSM transition errors. All recoverable: a failed attempt never transitions.
var (
	// ErrNoActiveWalkthrough is returned by next/back/repeat before start.
	ErrNoActiveWalkthrough = errors.New("no active walkthrough")

	// ErrAtFirstStep is returned by back at step 1.
	ErrAtFirstStep = errors.New("already at the first step")

	// ErrAlreadyStarted is returned by start when the walkthrough is underway.
	ErrAlreadyStarted = errors.New("walkthrough already started")

	// ErrWalkthroughComplete is returned by next once past the last step.
	ErrWalkthroughComplete = errors.New("walkthrough already complete")

	// ErrStepOutOfRange is returned for step references outside 1..N.
	ErrStepOutOfRange = errors.New("step out of range")
)

// Lookup and resolution errors.
var (
	// ErrUnknownIngredient is returned when a named ingredient is not in the
	// recipe. Surfaced as "not found", never silently answered.
	ErrUnknownIngredient = errors.New("unknown ingredient")

	// ErrNoContextAvailable is returned when an implicit reference ("that")
	// cannot be resolved because the walkthrough has not started.
	ErrNoContextAvailable = errors.New("no context available")
)

// Store and collaborator errors.
var (
	// ErrSessionNotFound is returned when a session ID is not in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrRecipeNotFound is returned when a recipe ID is not in the store.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrInvalidRecipe is returned when an extracted recipe fails shape
	// validation (empty steps, non-contiguous indices).
	ErrInvalidRecipe = errors.New("invalid recipe")

	// ErrExtractionFailed is returned when the extraction collaborator fails.
	// Fatal to loading that recipe; the store is left untouched.
	ErrExtractionFailed = errors.New("recipe extraction failed")

	// ErrUnsupportedSite is returned when the extraction collaborator does
	// not support the source site.
	ErrUnsupportedSite = errors.New("unsupported recipe site")

	// ErrCollaboratorUnavailable is returned when the answering collaborator
	// times out or errors. The dispatcher degrades instead of failing the session.
	ErrCollaboratorUnavailable = errors.New("answering collaborator unavailable")
)
