package domain

// Servings bounds accepted by the recipe backend.
const (
	DefaultServings = 2
	MinServings     = 1
	MaxServings     = 12
)

// RecipeRequest asks the backend for a recipe built from the given
// ingredients. It is constructed fresh for every submission.
type RecipeRequest struct {
	Ingredients        []string `json:"ingredients" validate:"required,min=1,dive,nonblank"`
	Calories           *int     `json:"calories,omitempty" validate:"omitempty,gt=0"`
	Servings           int      `json:"servings" validate:"gte=1,lte=12"`
	DietaryPreferences string   `json:"dietaryPreferences,omitempty" validate:"omitempty,max=200"`
}

// GeneratedRecipe is the recipe returned by the backend.
type GeneratedRecipe struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	PrepTime     string   `json:"prepTime"`
	Servings     int      `json:"servings"`
	Calories     string   `json:"calories"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"` // ordered steps
}

// Clone returns a deep copy.
func (r *GeneratedRecipe) Clone() *GeneratedRecipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = append([]string(nil), r.Ingredients...)
	c.Instructions = append([]string(nil), r.Instructions...)
	return &c
}
