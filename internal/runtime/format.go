package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/ladle/pkg/domain"
)

// Plain-text rendering of response payloads. Transports that want richer
// output (markdown in the TUI, JSON over HTTP) use the structured fields.

func formatStep(step domain.Step) string {
	return fmt.Sprintf("Step %d: %s", step.Index, step.Text)
}

func formatIngredients(ingredients []domain.Ingredient) string {
	if len(ingredients) == 0 {
		return "This recipe lists no ingredients."
	}
	var b strings.Builder
	b.WriteString("Ingredients:")
	for _, ing := range ingredients {
		b.WriteString("\n- ")
		if ing.Quantity != nil {
			b.WriteString(ing.Quantity.String())
			b.WriteString(" ")
		}
		b.WriteString(ing.Name)
	}
	return b.String()
}

func formatRecipe(recipe *domain.Recipe) string {
	var b strings.Builder
	b.WriteString(recipe.Title)
	b.WriteString("\n\n")
	b.WriteString(formatIngredients(recipe.Ingredients))
	b.WriteString("\n\nSteps:")
	for _, step := range recipe.Steps {
		fmt.Fprintf(&b, "\n%d. %s", step.Index, step.Text)
	}
	return b.String()
}

// formatHistory lists entries in exactly the recorded order and wording.
func formatHistory(entries []domain.HistoryEntry) string {
	if len(entries) == 0 {
		return "You haven't visited any steps yet."
	}
	var b strings.Builder
	b.WriteString("Steps visited so far:")
	for _, e := range entries {
		fmt.Fprintf(&b, "\n%d. Step %d: %s", e.Seq, e.StepIndex, e.StepText)
	}
	return b.String()
}

func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	}
	return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
}
