// Package loam adapts the Loam library into a local recipe book: markdown
// files with YAML frontmatter whose bodies are the instructions. It lets the
// CLI walk a recipe fully offline, without the extraction collaborator.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/ladle/internal/atomize"
	"github.com/aretw0/ladle/pkg/domain"
)

// Book reads recipes from a Loam repository.
type Book struct {
	Repo   *loam.TypedRepository[RecipeMetadata]
	policy atomize.Policy
}

type Option func(*Book)

// WithPolicy overrides the atomization policy applied to instruction lines.
func WithPolicy(p atomize.Policy) Option {
	return func(b *Book) {
		b.policy = p
	}
}

// New creates a Book from an existing typed repository.
func New(repo *loam.TypedRepository[RecipeMetadata], opts ...Option) *Book {
	b := &Book{
		Repo:   repo,
		policy: atomize.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open initializes a Loam repository at path and wraps it in a Book.
// ReadOnly avoids Loam's sandbox behavior in dev mode; the book only reads.
func Open(path string, opts ...Option) (*Book, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipe book path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize recipe book: %w", err)
	}

	return New(loam.NewTypedRepository[RecipeMetadata](repo), opts...), nil
}

// Get loads a recipe by ID, atomizes its instructions and validates the
// result. A recipe that fails validation never reaches the caller.
func (b *Book) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	doc, err := b.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("recipe %q: %w", id, domain.ErrRecipeNotFound)
	}

	recipe, err := b.build(trimExtension(doc.ID), doc.Data, doc.Content)
	if err != nil {
		return nil, err
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return recipe, nil
}

// List returns the IDs of every recipe in the book.
func (b *Book) List(ctx context.Context) ([]string, error) {
	docs, err := b.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe book: %w", err)
	}

	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, trimExtension(doc.ID))
	}
	return ids, nil
}

// Watch forwards changed recipe IDs until ctx is done. Useful for a REPL
// that reloads the book while the author edits files.
func (b *Book) Watch(ctx context.Context) (<-chan string, error) {
	events, err := b.Repo.Watch(ctx, "**/*.md")
	if err != nil {
		return nil, fmt.Errorf("failed to start recipe book watcher: %w", err)
	}

	ch := make(chan string, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return ch, nil
}

func (b *Book) build(id string, meta RecipeMetadata, content string) (*domain.Recipe, error) {
	recipe := &domain.Recipe{
		ID:        id,
		SourceURL: meta.SourceURL,
		Title:     meta.Title,
		Meta:      meta.Meta,
	}
	if recipe.Title == "" {
		recipe.Title = id
	}

	for _, item := range meta.Ingredients {
		ing, err := decodeIngredient(item)
		if err != nil {
			return nil, fmt.Errorf("recipe %q: %w: %w", id, domain.ErrInvalidRecipe, err)
		}
		ingredient := domain.Ingredient{
			Name:        ing.Name,
			Substitutes: ing.Substitutes,
		}
		if ing.Quantity != "" {
			ingredient.Quantity = &domain.Quantity{
				Amount: ing.Quantity,
				Unit:   ing.Unit,
			}
		}
		recipe.Ingredients = append(recipe.Ingredients, ingredient)
	}

	texts := b.policy.SplitAll(instructionLines(content))
	for i, text := range texts {
		recipe.Steps = append(recipe.Steps, domain.Step{Index: i + 1, Text: text})
	}
	return recipe, nil
}

// decodeIngredient accepts both frontmatter shapes: a bare name string, or an
// inline map with quantity, unit and substitutes.
func decodeIngredient(item any) (IngredientMetadata, error) {
	switch v := item.(type) {
	case string:
		return IngredientMetadata{Name: strings.TrimSpace(v)}, nil
	case map[string]any, map[any]any:
		var ing IngredientMetadata
		if err := mapstructure.Decode(v, &ing); err != nil {
			return IngredientMetadata{}, fmt.Errorf("failed to decode ingredient entry: %w", err)
		}
		if ing.Name == "" {
			return IngredientMetadata{}, fmt.Errorf("ingredient entry missing name")
		}
		return ing, nil
	default:
		return IngredientMetadata{}, fmt.Errorf("invalid ingredient entry type: %T", item)
	}
}

// instructionLines extracts instruction text from a markdown body: list
// markers and ordinal prefixes are stripped, headings and blanks skipped.
func instructionLines(content string) []string {
	var lines []string
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = trimOrdinal(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// trimOrdinal strips a leading "1." or "12)" numbering prefix.
func trimOrdinal(line string) string {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) {
		return line
	}
	if line[i] != '.' && line[i] != ')' {
		return line
	}
	return strings.TrimSpace(line[i+1:])
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
