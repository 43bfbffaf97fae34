package domain

// Intent is the closed set of meanings an utterance can classify to.
type Intent string

const (
	// Navigation intents. These are the only intents allowed to mutate WalkState.
	IntentNavigateStart  Intent = "navigate_start"
	IntentNavigateNext   Intent = "navigate_next"
	IntentNavigateBack   Intent = "navigate_back"
	IntentNavigateRepeat Intent = "navigate_repeat"
	IntentNavigateGoto   Intent = "navigate_goto"

	// Structural display intents: pure Recipe Store reads, never move position.
	IntentShowIngredients Intent = "show_ingredients"
	IntentShowRecipe      Intent = "show_recipe"
	IntentShowStep        Intent = "show_step"
	IntentShowHistory     Intent = "show_history"

	// Content intents answered from structured recipe data.
	IntentIngredientQuantity Intent = "ingredient_quantity"
	IntentCookingParameter   Intent = "cooking_parameter"

	// Content intents deferred to the answering collaborator.
	IntentSubstitution Intent = "substitution"
	IntentDefinition   Intent = "definition"
	IntentHowTo        Intent = "how_to"

	// IntentFreeform is the fallback for anything no rule matched.
	IntentFreeform Intent = "freeform"
)

// Navigational reports whether the intent is a walkthrough navigation command.
func (i Intent) Navigational() bool {
	switch i {
	case IntentNavigateStart, IntentNavigateNext, IntentNavigateBack,
		IntentNavigateRepeat, IntentNavigateGoto:
		return true
	}
	return false
}

// Cooking parameter topics extracted by the classifier.
const (
	TopicTemperature = "temperature"
	TopicTime        = "time"
)

// Slots are the parameters extracted from an utterance.
// Zero values mean "not present"; an intent with an empty required slot is
// implicit and goes through the context resolver.
type Slots struct {
	// Ingredient is the named ingredient ("flour" in "how much flour").
	Ingredient string `json:"ingredient,omitempty"`

	// StepNumber is the explicit step for show/goto commands.
	StepNumber int `json:"step_number,omitempty"`

	// Topic qualifies cooking-parameter queries (TopicTemperature, TopicTime)
	// and carries the subject of definition/how-to/substitution queries.
	Topic string `json:"topic,omitempty"`
}

// Query is a single classified utterance. Transient: one per utterance.
type Query struct {
	Utterance string `json:"utterance"`
	Intent    Intent `json:"intent"`
	Slots     Slots  `json:"slots"`
}
