// Package form holds the recipe constraints the user is editing and turns
// them into a generation request.
package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// Generator receives the built request. The workflow orchestrator
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, req domain.RecipeRequest) (*domain.GeneratedRecipe, error)
}

// Values are the constraints currently in the form.
type Values struct {
	Calories           *int // nil means no limit
	Servings           int
	DietaryPreferences string
}

func (v Values) String() string {
	cal := "any"
	if v.Calories != nil {
		cal = strconv.Itoa(*v.Calories)
	}
	diet := v.DietaryPreferences
	if diet == "" {
		diet = "none"
	}
	return fmt.Sprintf("servings=%d calories=%s diet=%s", v.Servings, cal, diet)
}

// Controller is the recipe form.
type Controller struct {
	generator Generator
	log       *logger.Logger

	mu     sync.Mutex
	values Values
}

// NewController creates a form with the default constraints.
func NewController(generator Generator, log *logger.Logger) *Controller {
	return &Controller{
		generator: generator,
		log:       log,
		values:    Values{Servings: domain.DefaultServings},
	}
}

// Values returns a copy of the current constraints.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyValues(c.values)
}

// Reset restores the defaults.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = Values{Servings: domain.DefaultServings}
}

// SetCalories sets the calorie limit. An empty string removes it.
func (c *Controller) SetCalories(raw string) error {
	return c.update(func(v *Values) error { return setCalories(v, raw) })
}

// SetServings sets the number of servings.
func (c *Controller) SetServings(raw string) error {
	return c.update(func(v *Values) error { return setServings(v, raw) })
}

// SetDietaryPreferences sets the free-text dietary preference. An empty
// string removes it.
func (c *Controller) SetDietaryPreferences(s string) error {
	return c.update(func(v *Values) error { return setDiet(v, s) })
}

// Set assigns one constraint by name.
func (c *Controller) Set(key, value string) error {
	return c.update(func(v *Values) error { return assign(v, key, value) })
}

// ParseAssignments applies inline key=value pairs such as
// "servings=4 calories=600 diet=low carb". A word without '=' continues
// the previous value. Either every pair applies or none does.
func (c *Controller) ParseAssignments(args string) error {
	pairs, err := splitAssignments(args)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}
	return c.update(func(v *Values) error {
		for _, p := range pairs {
			if err := assign(v, p[0], p[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Build assembles a fresh request from ingredients and the current
// constraints.
func (c *Controller) Build(ingredients []string) (domain.RecipeRequest, error) {
	if len(ingredients) == 0 {
		return domain.RecipeRequest{}, domain.ErrNoIngredients
	}
	v := c.Values()
	req := domain.RecipeRequest{
		Ingredients:        append([]string(nil), ingredients...),
		Calories:           v.Calories,
		Servings:           v.Servings,
		DietaryPreferences: v.DietaryPreferences,
	}
	if err := req.Validate(); err != nil {
		return domain.RecipeRequest{}, err
	}
	return req, nil
}

// Submit builds a request and hands it to the generator. With no
// ingredients the generator is not called.
func (c *Controller) Submit(ctx context.Context, ingredients []string) (*domain.GeneratedRecipe, error) {
	req, err := c.Build(ingredients)
	if err != nil {
		return nil, err
	}
	c.log.Debug("submitting form: %s", c.Values())
	return c.generator.Generate(ctx, req)
}

func (c *Controller) update(fn func(*Values) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := copyValues(c.values)
	if err := fn(&next); err != nil {
		return err
	}
	c.values = next
	c.log.Debug("form: %s", next)
	return nil
}

func assign(v *Values, key, value string) error {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "servings", "serves", "people":
		return setServings(v, value)
	case "calories", "kcal", "cal":
		return setCalories(v, value)
	case "diet", "dietary", "dietarypreferences", "preferences":
		return setDiet(v, value)
	}
	return &domain.ValidationError{Field: key, Message: "unknown setting (use servings, calories or diet)"}
}

func setCalories(v *Values, raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") || strings.EqualFold(raw, "any") {
		v.Calories = nil
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return &domain.ValidationError{Field: "calories", Message: fmt.Sprintf("%q is not a positive whole number", raw)}
	}
	v.Calories = &n
	return nil
}

func setServings(v *Values, raw string) error {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if err != nil || n < domain.MinServings || n > domain.MaxServings {
		return &domain.ValidationError{
			Field:   "servings",
			Message: fmt.Sprintf("must be a whole number from %d to %d, got %q", domain.MinServings, domain.MaxServings, raw),
		}
	}
	v.Servings = n
	return nil
}

func setDiet(v *Values, s string) error {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "none") {
		s = ""
	}
	if len(s) > 200 {
		return &domain.ValidationError{Field: "dietaryPreferences", Message: "must be at most 200 characters"}
	}
	v.DietaryPreferences = s
	return nil
}

func splitAssignments(args string) ([][2]string, error) {
	var pairs [][2]string
	for _, word := range strings.Fields(args) {
		key, value, ok := strings.Cut(word, "=")
		if !ok {
			if len(pairs) == 0 {
				return nil, &domain.ValidationError{Field: word, Message: "expected key=value"}
			}
			last := &pairs[len(pairs)-1]
			last[1] = strings.TrimSpace(last[1] + " " + word)
			continue
		}
		pairs = append(pairs, [2]string{key, value})
	}
	return pairs, nil
}

func copyValues(v Values) Values {
	if v.Calories != nil {
		n := *v.Calories
		v.Calories = &n
	}
	return v
}
