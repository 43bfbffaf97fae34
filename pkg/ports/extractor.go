package ports

import (
	"context"

	"github.com/aretw0/ladle/pkg/domain"
)

// RecipeExtractor is the extraction collaborator: given a source URL it
// returns a normalized Recipe with steps already atomized.
//
// The core treats extraction as opaque and only validates the returned shape.
// Implementations signal failure with domain.ErrExtractionFailed or
// domain.ErrUnsupportedSite.
type RecipeExtractor interface {
	Extract(ctx context.Context, url string) (*domain.Recipe, error)
}
