package domain

import "context"

// DishIdentifier identifies the dish and ingredients in a photo.
// Implementations call the backend; tests use fakes.
type DishIdentifier interface {
	IdentifyDish(ctx context.Context, img *UploadedImage) (*IdentifiedDish, error)
}

// RecipeGenerator produces a recipe from ingredients and constraints.
type RecipeGenerator interface {
	GenerateRecipe(ctx context.Context, req RecipeRequest) (*GeneratedRecipe, error)
}

// HealthChecker probes the backend.
type HealthChecker interface {
	Check(ctx context.Context) (*BackendHealth, error)
}

// CommandParser converts raw user input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}

// Notifier delivers messages to the user.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}
