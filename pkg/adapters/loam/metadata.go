package loam

// RecipeMetadata is the frontmatter of a recipe book entry. It uses
// "mapstructure" tags to match the YAML keys loam hands back.
type RecipeMetadata struct {
	Title     string `json:"title" mapstructure:"title"`
	SourceURL string `json:"source_url" mapstructure:"source_url"`

	// Ingredients entries are either a bare name string or an inline
	// IngredientMetadata map; build decodes each one.
	Ingredients []any `json:"ingredients" mapstructure:"ingredients"`

	// Meta carries optional scalar facts ("temperature", "total_time")
	// the resolver falls back to when a step doesn't state them.
	Meta map[string]string `json:"meta" mapstructure:"meta"`
}

// IngredientMetadata is one frontmatter ingredient entry.
type IngredientMetadata struct {
	Name        string   `json:"name" mapstructure:"name"`
	Quantity    string   `json:"quantity" mapstructure:"quantity"`
	Unit        string   `json:"unit" mapstructure:"unit"`
	Substitutes []string `json:"substitutes" mapstructure:"substitutes"`
}
