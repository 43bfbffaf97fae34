package domain

import "time"

// Walkthrough position markers. CurrentIndex moves between them:
// 0 = not started, 1..N = active step, N+1 = complete.
const IndexNotStarted = 0

// WalkState represents the current snapshot of a walkthrough session.
// It is owned exclusively by the step FSM: no other component writes it.
type WalkState struct {
	// RecipeID ties the session to its loaded recipe.
	RecipeID string `json:"recipe_id"`

	// CurrentIndex is the authoritative step position.
	// 0 = not started, 1..N = at step, N+1 = complete.
	CurrentIndex int `json:"current_index"`

	// Visited is the append-only visit history. Entries are never mutated
	// or reordered after creation: history may be replayed verbatim.
	Visited []HistoryEntry `json:"visited"`
}

// HistoryEntry records a single visit to a step.
type HistoryEntry struct {
	// Seq is a monotonic sequence number, starting at 1.
	Seq int `json:"seq"`

	StepIndex int    `json:"step_index"`
	StepText  string `json:"step_text"`

	VisitedAt time.Time `json:"visited_at"`
}

// NewWalkState creates a clean, not-yet-started state for a recipe.
func NewWalkState(recipeID string) *WalkState {
	return &WalkState{
		RecipeID:     recipeID,
		CurrentIndex: IndexNotStarted,
		Visited:      []HistoryEntry{},
	}
}

// Started reports whether the walkthrough has left the NotStarted state.
func (s *WalkState) Started() bool {
	return s.CurrentIndex > IndexNotStarted
}

// Complete reports whether the walkthrough has passed the last step of a
// recipe with n steps.
func (s *WalkState) Complete(n int) bool {
	return s.CurrentIndex == n+1
}

// Clone returns a deep copy. Stores copy on save and load so callers can
// never mutate persisted state through a shared slice.
func (s *WalkState) Clone() *WalkState {
	out := *s
	out.Visited = make([]HistoryEntry, len(s.Visited))
	copy(out.Visited, s.Visited)
	return &out
}
