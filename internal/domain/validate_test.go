package domain

import (
	"errors"
	"testing"
)

func intPtr(n int) *int { return &n }

func TestRecipeRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       RecipeRequest
		wantField string
	}{
		{"valid minimal", RecipeRequest{Ingredients: []string{"beef"}, Servings: 2}, ""},
		{"valid full", RecipeRequest{Ingredients: []string{"beef", "salt"}, Servings: 4, Calories: intPtr(600), DietaryPreferences: "keto"}, ""},
		{"no ingredients", RecipeRequest{Servings: 2}, "ingredients"},
		{"empty ingredients", RecipeRequest{Ingredients: []string{}, Servings: 2}, "ingredients"},
		{"blank ingredient", RecipeRequest{Ingredients: []string{"beef", "  "}, Servings: 2}, "ingredients"},
		{"zero servings", RecipeRequest{Ingredients: []string{"beef"}, Servings: 0}, "servings"},
		{"too many servings", RecipeRequest{Ingredients: []string{"beef"}, Servings: 13}, "servings"},
		{"zero calories", RecipeRequest{Ingredients: []string{"beef"}, Servings: 2, Calories: intPtr(0)}, "calories"},
		{"negative calories", RecipeRequest{Ingredients: []string{"beef"}, Servings: 2, Calories: intPtr(-5)}, "calories"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Field != tt.wantField {
				t.Fatalf("field = %q, want %q", vErr.Field, tt.wantField)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		op   Op
		err  error
		want string
	}{
		{"operation message", OpAnalyze, NewOperationError(OpAnalyze, "Unsupported image format", nil), "Unsupported image format"},
		{"operation fallback", OpGenerate, NewOperationError(OpGenerate, "", nil), "Failed to generate recipe"},
		{"validation", OpGenerate, &ValidationError{Field: "servings", Message: "bad"}, "servings: bad"},
		{"plain error", OpAnalyze, errors.New("boom"), "Failed to analyze image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.op, tt.err); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
