// Package intent implements the deterministic intent classifier.
//
// Classification is a pure function over the full utterance. Rules are data:
// an ordered list of pattern-to-intent entries evaluated top to bottom, first
// match wins. Structural/navigational patterns always precede content
// patterns, which precede the freeform fallback, so a step whose text happens
// to contain "next" can never cause misclassification: the classifier never
// looks at step content, only at the utterance.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/ladle/pkg/domain"
)

type rule struct {
	pattern *regexp.Regexp
	intent  domain.Intent

	// fill extracts slots from the submatches. Nil for slot-free intents.
	fill func(slots *domain.Slots, match []string)
}

// Structural rules: the closed navigational/display vocabulary.
var structural = []rule{
	{
		pattern: regexp.MustCompile(`^(?:start|begin|start over|let'?s (?:start|begin|go|cook)|i'?m ready)$`),
		intent:  domain.IntentNavigateStart,
	},
	{
		pattern: regexp.MustCompile(`^(?:next(?: step)?|n|continue|go on|keep going|what'?s next)$`),
		intent:  domain.IntentNavigateNext,
	},
	{
		pattern: regexp.MustCompile(`^(?:back|b|go back|previous(?: step)?|last step)$`),
		intent:  domain.IntentNavigateBack,
	},
	{
		pattern: regexp.MustCompile(`^(?:repeat(?: that)?|again|say (?:that|it) again|what was that)$`),
		intent:  domain.IntentNavigateRepeat,
	},
	{
		pattern: regexp.MustCompile(`^(?:go|jump|skip) to step (\d+)$`),
		intent:  domain.IntentNavigateGoto,
		fill:    fillStepNumber,
	},
	{
		pattern: regexp.MustCompile(`^(?:(?:show|display)(?: me)?|what(?:'s| is)) step (\d+)$`),
		intent:  domain.IntentShowStep,
		fill:    fillStepNumber,
	},
	{
		pattern: regexp.MustCompile(`^(?:(?:show|list|what are)(?: me)? )?(?:the )?ingredients(?: list)?$`),
		intent:  domain.IntentShowIngredients,
	},
	{
		pattern: regexp.MustCompile(`^(?:show|display)(?: me)? (?:the )?(?:whole |full |entire )?recipe$`),
		intent:  domain.IntentShowRecipe,
	},
	{
		pattern: regexp.MustCompile(`^(?:(?:show|replay)(?: me)? )?(?:my |the )?(?:visit(?:ed)? )?history$|^(?:what|which) steps have i (?:done|visited|seen)$`),
		intent:  domain.IntentShowHistory,
	},
}

// Content rules: slot-pattern matching for factual and open-ended phrasing.
// Time and temperature come before quantity so "how many minutes" is a
// parameter query, not a lookup for an ingredient called "minutes".
var content = []rule{
	{
		pattern: regexp.MustCompile(`^how long\b|^how (?:much|many) (?:time|minutes|hours)\b|^when is it (?:done|ready)\b`),
		intent:  domain.IntentCookingParameter,
		fill: func(slots *domain.Slots, _ []string) {
			slots.Topic = domain.TopicTime
		},
	},
	{
		pattern: regexp.MustCompile(`(?:^|\s)(?:what|which) temp(?:erature)?\b|^how hot\b`),
		intent:  domain.IntentCookingParameter,
		fill: func(slots *domain.Slots, _ []string) {
			slots.Topic = domain.TopicTemperature
		},
	},
	{
		pattern: regexp.MustCompile(`^how (?:much|many) (?:of )?(.*)$`),
		intent:  domain.IntentIngredientQuantity,
		fill: func(slots *domain.Slots, match []string) {
			slots.Ingredient = ingredientRef(match[1])
		},
	},
	{
		pattern: regexp.MustCompile(`^what can i use instead of (.+)$|^(?:a )?substitut(?:e|ion) for (.+)$|^can i (?:substitute|replace|swap) (.+)$|^replace (.+)$`),
		intent:  domain.IntentSubstitution,
		fill: func(slots *domain.Slots, match []string) {
			slots.Ingredient = ingredientRef(firstSubmatch(match))
		},
	},
	{
		pattern: regexp.MustCompile(`^how do (?:i|you|we) (.+)$`),
		intent:  domain.IntentHowTo,
		fill: func(slots *domain.Slots, match []string) {
			slots.Topic = strings.TrimSpace(match[1])
		},
	},
	{
		pattern: regexp.MustCompile(`^what(?:'s| is| are) (?:a |an |the )?(.+)$`),
		intent:  domain.IntentDefinition,
		fill: func(slots *domain.Slots, match []string) {
			slots.Topic = strings.TrimSpace(match[1])
		},
	},
}

// Classify maps a raw utterance to an intent plus extracted slots.
// It never errors: anything unmatched falls through to Freeform.
func Classify(utterance string) domain.Query {
	q := domain.Query{
		Utterance: utterance,
		Intent:    domain.IntentFreeform,
	}

	norm := normalize(utterance)
	if norm == "" {
		return q
	}

	for _, r := range structural {
		if match := r.pattern.FindStringSubmatch(norm); match != nil {
			q.Intent = r.intent
			if r.fill != nil {
				r.fill(&q.Slots, match)
			}
			return q
		}
	}
	for _, r := range content {
		if match := r.pattern.FindStringSubmatch(norm); match != nil {
			q.Intent = r.intent
			if r.fill != nil {
				r.fill(&q.Slots, match)
			}
			return q
		}
	}
	return q
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimRight(s, "?!. ")
	return s
}

// implicitRefs are pronouns that defer slot resolution to the context resolver.
var implicitRefs = map[string]struct{}{
	"":         {},
	"that":     {},
	"this":     {},
	"it":       {},
	"that one": {},
	"them":     {},
}

// ingredientRef cleans a captured ingredient reference. Implicit pronouns
// and captures that are nothing but filler ("how much do I need?") become an
// empty slot so the context resolver takes over.
func ingredientRef(raw string) string {
	s := strings.TrimSpace(raw)
	for _, suffix := range []string{"do i need", "do we need", "should i use"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	s = strings.TrimPrefix(s, "the ")
	s = strings.TrimSpace(s)
	if _, ok := implicitRefs[s]; ok {
		return ""
	}
	return s
}

func fillStepNumber(slots *domain.Slots, match []string) {
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return
	}
	slots.StepNumber = n
}

func firstSubmatch(match []string) string {
	for _, m := range match[1:] {
		if m != "" {
			return m
		}
	}
	return ""
}
