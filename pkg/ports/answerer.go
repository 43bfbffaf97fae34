package ports

import (
	"context"

	"github.com/aretw0/ladle/pkg/domain"
)

// AnswerRequest is the full context snapshot supplied to the answering
// collaborator on every call. The collaborator is stateless from Ladle's
// perspective: it is re-supplied the recipe, the current step (or none) and
// the verbatim history each time, and is never allowed to decide or assume
// step position.
type AnswerRequest struct {
	Recipe *domain.Recipe

	// CurrentStep is nil when the walkthrough has not started or is complete.
	CurrentStep *domain.Step

	// History is the verbatim visit sequence, passed read-only.
	History []domain.HistoryEntry

	Utterance string
	Intent    domain.Intent
}

// Answerer is the answering collaborator (typically an LLM).
// Answer blocks until a response, an error, or ctx cancellation; the
// dispatcher enforces the timeout through ctx. Responses are passed through
// to the user unmodified except for safety/length checks.
type Answerer interface {
	Answer(ctx context.Context, req AnswerRequest) (string, error)
}
