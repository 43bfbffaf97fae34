// Package runtime implements the core of the Ladle engine: the step FSM that
// owns walkthrough position, and the query dispatcher that routes classified
// utterances to deterministic handlers or the answering collaborator.
package runtime

import (
	"fmt"
	"time"

	"github.com/aretw0/ladle/pkg/domain"
)

// FSM is the step state machine for one recipe. It is the only component
// allowed to write WalkState. Every operation is atomic: it validates first
// and mutates only on success, so a failed transition leaves state untouched.
//
// The FSM itself is not synchronized; the session manager serializes all
// mutations per session.
type FSM struct {
	recipe *domain.Recipe
	now    func() time.Time
}

// NewFSM creates an FSM over a validated recipe.
func NewFSM(recipe *domain.Recipe) *FSM {
	return &FSM{recipe: recipe, now: time.Now}
}

// visit appends a history entry for the step. Append-only: entries are never
// mutated or reordered afterward.
func (f *FSM) visit(state *domain.WalkState, step domain.Step) {
	state.Visited = append(state.Visited, domain.HistoryEntry{
		Seq:       len(state.Visited) + 1,
		StepIndex: step.Index,
		StepText:  step.Text,
		VisitedAt: f.now().UTC(),
	})
}

// Start begins the walkthrough at step 1 and records the visit.
// Returns ErrAlreadyStarted, with state unchanged, if already underway.
func (f *FSM) Start(state *domain.WalkState) (domain.Step, error) {
	if state.Started() {
		return domain.Step{}, domain.ErrAlreadyStarted
	}
	step, err := f.recipe.Step(1)
	if err != nil {
		return domain.Step{}, err
	}
	state.CurrentIndex = 1
	f.visit(state, step)
	return step, nil
}

// Next advances to the following step, recording the visit. Advancing past
// the last step transitions to Complete without a history entry; done is
// true and step is zero in that case.
func (f *FSM) Next(state *domain.WalkState) (step domain.Step, done bool, err error) {
	n := f.recipe.NumSteps()
	switch {
	case !state.Started():
		return domain.Step{}, false, domain.ErrNoActiveWalkthrough
	case state.Complete(n):
		return domain.Step{}, false, domain.ErrWalkthroughComplete
	case state.CurrentIndex == n:
		state.CurrentIndex = n + 1
		return domain.Step{}, true, nil
	}

	step, err = f.recipe.Step(state.CurrentIndex + 1)
	if err != nil {
		return domain.Step{}, false, err
	}
	state.CurrentIndex++
	f.visit(state, step)
	return step, false, nil
}

// Back moves to the previous step, recording the visit.
func (f *FSM) Back(state *domain.WalkState) (domain.Step, error) {
	switch {
	case !state.Started():
		return domain.Step{}, domain.ErrNoActiveWalkthrough
	case state.CurrentIndex == 1:
		return domain.Step{}, domain.ErrAtFirstStep
	}

	// From Complete (N+1), back returns to the last step.
	step, err := f.recipe.Step(state.CurrentIndex - 1)
	if err != nil {
		return domain.Step{}, err
	}
	state.CurrentIndex--
	f.visit(state, step)
	return step, nil
}

// Repeat returns the current step without transitioning and without a new
// history entry.
func (f *FSM) Repeat(state *domain.WalkState) (domain.Step, error) {
	if !state.Started() {
		return domain.Step{}, domain.ErrNoActiveWalkthrough
	}
	if state.Complete(f.recipe.NumSteps()) {
		return domain.Step{}, domain.ErrWalkthroughComplete
	}
	return f.recipe.Step(state.CurrentIndex)
}

// Goto jumps directly to step k as an explicit navigation command, recording
// the visit. Displaying a step ("show step k") must NOT go through here: pure
// display queries read the recipe store and never change position.
func (f *FSM) Goto(state *domain.WalkState, k int) (domain.Step, error) {
	step, err := f.recipe.Step(k)
	if err != nil {
		return domain.Step{}, fmt.Errorf("goto: %w", err)
	}
	state.CurrentIndex = k
	f.visit(state, step)
	return step, nil
}
