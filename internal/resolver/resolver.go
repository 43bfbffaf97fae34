// Package resolver resolves implicit references ("how much of that",
// "what temperature") against the walkthrough's current step.
package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/ladle/pkg/domain"
)

// Recipe metadata keys consulted as a fallback for parameter queries.
const (
	metaTemperature = "temperature"
	metaTotalTime   = "total_time"
)

var (
	temperatureRe = regexp.MustCompile(`(?i)\b\d+\s*(?:°\s*[FC]|degrees(?:\s*[FC])?\b|[FC]\b)`)
	durationRe    = regexp.MustCompile(`(?i)\b\d+(?:\s*(?:-|to)\s*\d+)?\s*(?:minutes?|mins?|hours?|hrs?|seconds?|secs?)\b`)
)

// currentStep returns the step the state is at, or an error when there is no
// usable context (not started, or already complete).
func currentStep(recipe *domain.Recipe, state *domain.WalkState) (domain.Step, error) {
	if !state.Started() {
		return domain.Step{}, domain.ErrNoContextAvailable
	}
	step, err := recipe.Step(state.CurrentIndex)
	if err != nil {
		// Complete: there is no "current" step to resolve against.
		return domain.Step{}, domain.ErrNoContextAvailable
	}
	return step, nil
}

// Ingredient resolves an ingredient reference for a quantity or substitution
// query. An explicit slot is looked up in the recipe directly; an implicit
// one is matched against the ingredients mentioned by the current step.
func Ingredient(recipe *domain.Recipe, state *domain.WalkState, slot string) (domain.Ingredient, error) {
	if slot != "" {
		return recipe.Ingredient(slot)
	}

	step, err := currentStep(recipe, state)
	if err != nil {
		return domain.Ingredient{}, err
	}

	mentioned := recipe.IngredientsInText(step.Text)
	if len(mentioned) == 0 {
		return domain.Ingredient{}, fmt.Errorf("step %d mentions no known ingredient: %w",
			step.Index, domain.ErrUnknownIngredient)
	}
	// Several ingredients in one step: the first mention is the best guess a
	// deterministic resolver can make without asking back.
	return mentioned[0], nil
}

// Parameter resolves a cooking-parameter query (temperature or time) from the
// current step's text, falling back to recipe metadata. Returns the matched
// fragment verbatim ("350°F", "30 minutes").
func Parameter(recipe *domain.Recipe, state *domain.WalkState, topic string) (string, error) {
	var re *regexp.Regexp
	var metaKey string
	switch topic {
	case domain.TopicTemperature:
		re, metaKey = temperatureRe, metaTemperature
	case domain.TopicTime:
		re, metaKey = durationRe, metaTotalTime
	default:
		return "", fmt.Errorf("unknown parameter topic %q: %w", topic, domain.ErrNoContextAvailable)
	}

	if step, err := currentStep(recipe, state); err == nil {
		if m := re.FindString(step.Text); m != "" {
			return strings.TrimSpace(m), nil
		}
	} else if recipe.Meta[metaKey] == "" {
		// No current step and no recipe-level value: nothing to resolve against.
		return "", err
	}

	if v := recipe.Meta[metaKey]; v != "" {
		return v, nil
	}
	return "", fmt.Errorf("no %s found in the current step: %w", topic, domain.ErrNoContextAvailable)
}
