package domain

// ResponseKind labels what produced a response, so transports and tests can
// distinguish deterministic answers from collaborator text and degradations.
type ResponseKind string

const (
	KindStep        ResponseKind = "step"        // a step to read out
	KindComplete    ResponseKind = "complete"    // walkthrough finished
	KindIngredients ResponseKind = "ingredients" // ingredient listing
	KindRecipe      ResponseKind = "recipe"      // full recipe display
	KindHistory     ResponseKind = "history"     // verbatim visit history
	KindAnswer      ResponseKind = "answer"      // deterministic lookup answer
	KindLLM         ResponseKind = "llm"         // collaborator free text, passed through
	KindClarify     ResponseKind = "clarify"     // user must clarify (no context)
	KindError       ResponseKind = "error"       // recoverable error message
	KindFallback    ResponseKind = "fallback"    // collaborator degraded to apology
)

// ResponseSource labels which component produced the response.
type ResponseSource string

const (
	SourceFSM          ResponseSource = "fsm"          // navigation transition
	SourceStore        ResponseSource = "store"        // recipe store display
	SourceResolver     ResponseSource = "resolver"     // contextual data lookup
	SourceCollaborator ResponseSource = "collaborator" // answering collaborator
	SourceFallback     ResponseSource = "fallback"     // local degradation
)

// Response is the contract returned for every submitted utterance.
// Exactly one of the payload fields is populated, matching Kind.
type Response struct {
	Kind ResponseKind `json:"kind"`

	// Source names the component that produced the payload.
	Source ResponseSource `json:"source,omitempty"`

	// Text is the user-facing message. Always set.
	Text string `json:"text"`

	// Step is set for KindStep and for single-step displays.
	Step *Step `json:"step,omitempty"`

	// Steps is set for KindRecipe.
	Steps []Step `json:"steps,omitempty"`

	// Ingredients is set for KindIngredients and quantity answers.
	Ingredients []Ingredient `json:"ingredients,omitempty"`

	// History is set for KindHistory. It is the raw, unmodified entry
	// sequence: never summarized or reworded.
	History []HistoryEntry `json:"history,omitempty"`
}
