// Package genai implements the answering collaborator on the Gemini API.
package genai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/aretw0/ladle/pkg/domain"
	"github.com/aretw0/ladle/pkg/ports"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// systemPrompt pins the collaborator's role: it answers cooking questions
// but never decides or assumes where the cook is in the recipe. Position is
// supplied in every request and is owned by the engine alone.
const systemPrompt = `You are a cooking assistant helping someone follow a recipe step by step.
Answer their question concisely and practically, in plain text.
The recipe, the step they are currently on, and the steps they have already
seen are provided with every question. Never guess, change, or announce the
current step position: it is given to you and managed elsewhere.
If the question cannot be answered from cooking knowledge, say so briefly.`

// Answerer implements ports.Answerer using Gemini.
type Answerer struct {
	client *genai.Client
	model  string
}

type Option func(*Answerer)

// WithModel overrides the Gemini model.
func WithModel(model string) Option {
	return func(a *Answerer) {
		a.model = model
	}
}

// New creates a Gemini-backed answerer. Credentials are resolved from the
// environment the way the genai SDK does by default.
func New(ctx context.Context, opts ...Option) (*Answerer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	return NewFromClient(client, opts...), nil
}

// NewFromClient creates an answerer from an existing genai client.
func NewFromClient(client *genai.Client, opts ...Option) *Answerer {
	a := &Answerer{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Answer sends the full context snapshot plus the utterance and returns the
// model's text reply.
func (a *Answerer) Answer(ctx context.Context, req ports.AnswerRequest) (string, error) {
	content := []*genai.Content{
		genai.NewContentFromText(BuildPrompt(req), genai.RoleUser),
	}

	res, err := a.client.Models.GenerateContent(ctx, a.model, content, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleModel),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil ||
		len(res.Candidates[0].Content.Parts) == 0 || res.Candidates[0].Content.Parts[0].Text == "" {
		return "", fmt.Errorf("%w: empty response from model", domain.ErrCollaboratorUnavailable)
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}

// BuildPrompt renders the stateless context snapshot: recipe, position,
// verbatim history, then the question. The collaborator gets the whole
// picture on every call.
func BuildPrompt(req ports.AnswerRequest) string {
	var b strings.Builder

	if req.Recipe != nil {
		fmt.Fprintf(&b, "Recipe: %s\n", req.Recipe.Title)
		if len(req.Recipe.Ingredients) > 0 {
			b.WriteString("Ingredients:\n")
			for _, ing := range req.Recipe.Ingredients {
				if ing.Quantity != nil {
					fmt.Fprintf(&b, "- %s (%s)\n", ing.Name, ing.Quantity)
				} else {
					fmt.Fprintf(&b, "- %s\n", ing.Name)
				}
			}
		}
		b.WriteString("Steps:\n")
		for _, step := range req.Recipe.Steps {
			fmt.Fprintf(&b, "%d. %s\n", step.Index, step.Text)
		}
	}

	if req.CurrentStep != nil {
		fmt.Fprintf(&b, "\nThe cook is currently on step %d: %s\n", req.CurrentStep.Index, req.CurrentStep.Text)
	} else {
		b.WriteString("\nThe cook has not started the walkthrough yet.\n")
	}

	if len(req.History) > 0 {
		b.WriteString("Steps seen so far, in order:\n")
		for _, entry := range req.History {
			fmt.Fprintf(&b, "%d. (step %d) %s\n", entry.Seq, entry.StepIndex, entry.StepText)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", req.Utterance)
	return b.String()
}
