package domain

import (
	"fmt"
	"strings"
)

// Recipe is a normalized recipe loaded for a session.
// It is immutable once loaded: no component may mutate it after validation.
type Recipe struct {
	// ID uniquely identifies the recipe within the store.
	ID string `json:"id"`

	// SourceURL is the page the recipe was extracted from, if any.
	SourceURL string `json:"source_url,omitempty"`

	Title string `json:"title"`

	// Steps is the ordered, atomized instruction sequence (1-based, contiguous).
	// Atomization happens before the recipe reaches the engine; step numbering
	// is never regenerated afterward.
	Steps []Step `json:"steps"`

	Ingredients []Ingredient `json:"ingredients"`

	// Meta holds optional scalar metadata such as "temperature" or "total_time".
	Meta map[string]string `json:"meta,omitempty"`
}

// Step is a single atomic instruction: exactly one imperative action.
type Step struct {
	// Index is 1-based and contiguous within the recipe.
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Ingredient is a named ingredient with an optional quantity.
type Ingredient struct {
	Name string `json:"name"`

	// Quantity is nil when the source recipe did not specify one.
	Quantity *Quantity `json:"quantity,omitempty"`

	// Substitutes holds optional substitution hints from the source.
	Substitutes []string `json:"substitutes,omitempty"`
}

// Quantity is an amount plus unit. Amount stays a string to preserve
// source forms like "1/2" or "2-3".
type Quantity struct {
	Amount string `json:"amount"`
	Unit   string `json:"unit,omitempty"`
}

// String renders the quantity the way it appeared in the source ("2 cups").
func (q Quantity) String() string {
	if q.Unit == "" {
		return q.Amount
	}
	return q.Amount + " " + q.Unit
}

// NumSteps returns the number of steps (N).
func (r *Recipe) NumSteps() int {
	return len(r.Steps)
}

// Step returns the step at the given 1-based index.
func (r *Recipe) Step(index int) (Step, error) {
	if index < 1 || index > len(r.Steps) {
		return Step{}, fmt.Errorf("step %d of %d: %w", index, len(r.Steps), ErrStepOutOfRange)
	}
	return r.Steps[index-1], nil
}

// Ingredient looks up an ingredient by name, case-insensitively.
// An exact match wins; otherwise a single substring match ("flour" finds
// "all-purpose flour") is accepted. Returns ErrUnknownIngredient when nothing
// matches: the engine never fabricates quantities.
func (r *Recipe) Ingredient(name string) (Ingredient, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Ingredient{}, fmt.Errorf("empty ingredient name: %w", ErrUnknownIngredient)
	}

	for _, ing := range r.Ingredients {
		if strings.ToLower(ing.Name) == needle {
			return ing, nil
		}
	}

	var found *Ingredient
	for i, ing := range r.Ingredients {
		haystack := strings.ToLower(ing.Name)
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			if found != nil {
				// Ambiguous partial match. Safer to report unknown than guess.
				return Ingredient{}, fmt.Errorf("ambiguous ingredient %q: %w", name, ErrUnknownIngredient)
			}
			found = &r.Ingredients[i]
		}
	}
	if found == nil {
		return Ingredient{}, fmt.Errorf("ingredient %q: %w", name, ErrUnknownIngredient)
	}
	return *found, nil
}

// IngredientsInText returns the recipe ingredients whose name occurs in the
// given text. Used by the context resolver against the current step.
func (r *Recipe) IngredientsInText(text string) []Ingredient {
	lower := strings.ToLower(text)
	var out []Ingredient
	for _, ing := range r.Ingredients {
		if ing.Name == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(ing.Name)) {
			out = append(out, ing)
		}
	}
	return out
}

// Validate checks the shape invariants required before a recipe may be
// stored: a non-empty step sequence with contiguous 1-based indices.
// Extraction collaborators are opaque, so their output is never trusted.
func (r *Recipe) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("missing recipe id: %w", ErrInvalidRecipe)
	}
	if len(r.Steps) == 0 {
		return fmt.Errorf("recipe %q has no steps: %w", r.ID, ErrInvalidRecipe)
	}
	for i, step := range r.Steps {
		if step.Index != i+1 {
			return fmt.Errorf("recipe %q: step %d has index %d, want %d: %w",
				r.ID, i, step.Index, i+1, ErrInvalidRecipe)
		}
		if strings.TrimSpace(step.Text) == "" {
			return fmt.Errorf("recipe %q: step %d is empty: %w", r.ID, i+1, ErrInvalidRecipe)
		}
	}
	return nil
}
