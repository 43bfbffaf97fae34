package genai_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	adapter "github.com/aretw0/ladle/pkg/adapters/genai"
	"github.com/aretw0/ladle/pkg/domain"
	"github.com/aretw0/ladle/pkg/ports"
)

func TestBuildPrompt_FullSnapshot(t *testing.T) {
	recipe := &domain.Recipe{
		ID:    "cookies",
		Title: "Chocolate Chip Cookies",
		Ingredients: []domain.Ingredient{
			{Name: "flour", Quantity: &domain.Quantity{Amount: "2", Unit: "cups"}},
			{Name: "salt"},
		},
		Steps: []domain.Step{
			{Index: 1, Text: "Preheat the oven to 350°F"},
			{Index: 2, Text: "Mix the dry ingredients"},
		},
	}
	step := recipe.Steps[1]

	prompt := adapter.BuildPrompt(ports.AnswerRequest{
		Recipe:      recipe,
		CurrentStep: &step,
		History: []domain.HistoryEntry{
			{Seq: 1, StepIndex: 1, StepText: "Preheat the oven to 350°F"},
			{Seq: 2, StepIndex: 2, StepText: "Mix the dry ingredients"},
		},
		Utterance: "why do I sift the flour?",
	})

	assert.Contains(t, prompt, "Recipe: Chocolate Chip Cookies")
	assert.Contains(t, prompt, "- flour (2 cups)")
	assert.Contains(t, prompt, "- salt")
	assert.Contains(t, prompt, "currently on step 2: Mix the dry ingredients")
	assert.Contains(t, prompt, "1. (step 1) Preheat the oven to 350°F")
	assert.Contains(t, prompt, "Question: why do I sift the flour?")
}

func TestBuildPrompt_NotStarted(t *testing.T) {
	prompt := adapter.BuildPrompt(ports.AnswerRequest{
		Recipe: &domain.Recipe{
			Title: "Soup",
			Steps: []domain.Step{{Index: 1, Text: "Simmer the broth"}},
		},
		Utterance: "what is a simmer?",
	})

	assert.Contains(t, prompt, "has not started")
	assert.NotContains(t, prompt, "currently on step")
}
