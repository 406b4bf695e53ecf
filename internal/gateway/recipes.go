package gateway

import (
	"context"

	"github.com/hammamikhairi/platechef/internal/api"
	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeGenerator = (*Recipes)(nil)

// RecipesOption configures Recipes.
type RecipesOption func(*Recipes)

// WithGeneratePath overrides the recipe generation endpoint.
func WithGeneratePath(path string) RecipesOption {
	return func(g *Recipes) {
		if path != "" {
			g.path = path
		}
	}
}

// Recipes is the recipe generation gateway.
type Recipes struct {
	client *api.Client
	path   string
	log    *logger.Logger
}

// NewRecipes creates the recipe generation gateway.
func NewRecipes(client *api.Client, log *logger.Logger, opts ...RecipesOption) *Recipes {
	g := &Recipes{client: client, path: DefaultGeneratePath, log: log}
	for _, o := range opts {
		o(g)
	}
	return g
}

// GenerateRecipe validates req and posts it as JSON. Calories are passed
// through untouched.
func (g *Recipes) GenerateRecipe(ctx context.Context, req domain.RecipeRequest) (*domain.GeneratedRecipe, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g.log.Info("generating recipe from %d ingredient(s), %d serving(s)", len(req.Ingredients), req.Servings)

	var recipe domain.GeneratedRecipe
	if err := g.client.PostJSON(ctx, g.path, req, &recipe); err != nil {
		return nil, domain.NewOperationError(domain.OpGenerate, api.MessageOf(err), err)
	}

	g.log.Info("generated %q (%d steps)", recipe.Name, len(recipe.Instructions))
	return &recipe, nil
}
