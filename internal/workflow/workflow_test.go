package workflow

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// ── Fakes ────────────────────────────────────────────────────────

type fakeAnalyzer struct {
	mu    sync.Mutex
	calls int
	fn    func(ctx context.Context, img *domain.UploadedImage) (*domain.IdentifiedDish, error)
}

func (f *fakeAnalyzer) IdentifyDish(ctx context.Context, img *domain.UploadedImage) (*domain.IdentifiedDish, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(ctx, img)
}

type fakeGenerator struct {
	mu      sync.Mutex
	calls   int
	lastReq domain.RecipeRequest
	fn      func(ctx context.Context, req domain.RecipeRequest) (*domain.GeneratedRecipe, error)
}

func (f *fakeGenerator) GenerateRecipe(ctx context.Context, req domain.RecipeRequest) (*domain.GeneratedRecipe, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	f.mu.Unlock()
	return f.fn(ctx, req)
}

func dishOf(name string, ingredients ...string) *domain.IdentifiedDish {
	d := &domain.IdentifiedDish{DishName: name, Success: true}
	for _, ing := range ingredients {
		d.Ingredients = append(d.Ingredients, domain.IngredientInfo{Name: ing})
	}
	return d
}

func returnsDish(d *domain.IdentifiedDish) *fakeAnalyzer {
	return &fakeAnalyzer{fn: func(context.Context, *domain.UploadedImage) (*domain.IdentifiedDish, error) {
		return d, nil
	}}
}

func failsWith(err error) *fakeAnalyzer {
	return &fakeAnalyzer{fn: func(context.Context, *domain.UploadedImage) (*domain.IdentifiedDish, error) {
		return nil, err
	}}
}

func returnsRecipe(r *domain.GeneratedRecipe) *fakeGenerator {
	return &fakeGenerator{fn: func(context.Context, domain.RecipeRequest) (*domain.GeneratedRecipe, error) {
		return r, nil
	}}
}

var testImage = &domain.UploadedImage{ID: "1", Filename: "steak.jpg", MIMEType: "image/jpeg", Data: []byte("x")}

func newOrchestrator(t *testing.T, a domain.DishIdentifier, g domain.RecipeGenerator, opts ...Option) *Orchestrator {
	t.Helper()
	return New(a, g, logger.New(logger.LevelOff, nil), opts...)
}

// ── Tests ────────────────────────────────────────────────────────

func TestInitialState(t *testing.T) {
	o := newOrchestrator(t, returnsDish(nil), returnsRecipe(nil))
	s := o.Snapshot()

	if s.Phase != PhaseIdle {
		t.Fatalf("expected idle, got %s", s.Phase)
	}
	if len(s.Ingredients) != 0 || s.Dish != nil || s.Recipe != nil || s.HasError() || s.InFlight() {
		t.Fatalf("expected empty idle state, got %+v", s)
	}
}

func TestAnalyzeSuccess(t *testing.T) {
	dish := dishOf("Grilled Steak", "beef", "salt")
	o := newOrchestrator(t, returnsDish(dish), returnsRecipe(nil))

	got, err := o.Analyze(context.Background(), testImage)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.DishName != "Grilled Steak" {
		t.Fatalf("unexpected dish %q", got.DishName)
	}

	s := o.Snapshot()
	if s.Phase != PhaseAnalyzedOk {
		t.Fatalf("expected analyzed, got %s", s.Phase)
	}
	if !reflect.DeepEqual(s.Ingredients, []string{"beef", "salt"}) {
		t.Fatalf("ingredients = %v", s.Ingredients)
	}
	if !reflect.DeepEqual(s.Dish, dish) {
		t.Fatalf("dish = %+v, want full payload %+v", s.Dish, dish)
	}
	if s.Recipe != nil || s.HasError() || s.IsAnalyzing() {
		t.Fatalf("unexpected state %+v", s)
	}
}

func TestAnalyzeFailure(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server message", domain.NewOperationError(domain.OpAnalyze, "X", nil), "X"},
		{"no message", domain.NewOperationError(domain.OpAnalyze, "", nil), "Failed to analyze image"},
		{"network failure", errors.New("dial tcp: connection refused"), "Failed to analyze image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newOrchestrator(t, failsWith(tt.err), returnsRecipe(nil))

			_, err := o.Analyze(context.Background(), testImage)
			if err == nil {
				t.Fatal("expected error")
			}

			s := o.Snapshot()
			if s.Phase != PhaseAnalyzedErr {
				t.Fatalf("expected analysis failed, got %s", s.Phase)
			}
			if s.Err != tt.wantMsg {
				t.Fatalf("error = %q, want %q", s.Err, tt.wantMsg)
			}
			if s.IsAnalyzing() || s.IsGenerating() {
				t.Fatal("in-flight flag left set")
			}
			if s.Ingredients == nil || len(s.Ingredients) != 0 || s.Dish != nil {
				t.Fatalf("expected cleared ingredients and dish, got %v / %+v", s.Ingredients, s.Dish)
			}
		})
	}
}

func TestAnalyzeFailureClearsPreviousDish(t *testing.T) {
	a := returnsDish(dishOf("Soup", "leek"))
	o := newOrchestrator(t, a, returnsRecipe(nil))
	if _, err := o.Analyze(context.Background(), testImage); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	a.fn = failsWith(errors.New("boom")).fn
	_, _ = o.Analyze(context.Background(), testImage)

	s := o.Snapshot()
	if s.Dish != nil || len(s.Ingredients) != 0 {
		t.Fatalf("expected dish and ingredients cleared, got %+v", s)
	}
}

func TestGenerateWithoutIngredientsIsNoop(t *testing.T) {
	var notified int
	gen := returnsRecipe(&domain.GeneratedRecipe{Name: "never"})
	o := newOrchestrator(t, returnsDish(nil), gen, WithObserver(func(State) { notified++ }))

	before := o.Snapshot()
	_, err := o.Generate(context.Background(), domain.RecipeRequest{Servings: 2})
	if !errors.Is(err, domain.ErrNoIngredients) {
		t.Fatalf("expected ErrNoIngredients, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("generator called %d times", gen.calls)
	}
	if after := o.Snapshot(); !reflect.DeepEqual(before, after) {
		t.Fatalf("state changed: %+v -> %+v", before, after)
	}
	if notified != 0 {
		t.Fatalf("observer notified %d times", notified)
	}
}

func TestGenerateAfterFailedAnalysisIsNoop(t *testing.T) {
	gen := returnsRecipe(&domain.GeneratedRecipe{Name: "never"})
	o := newOrchestrator(t, failsWith(errors.New("boom")), gen)
	_, _ = o.Analyze(context.Background(), testImage)

	before := o.Snapshot()
	_, err := o.Generate(context.Background(), domain.RecipeRequest{Servings: 2})
	if !errors.Is(err, domain.ErrNoIngredients) {
		t.Fatalf("expected ErrNoIngredients, got %v", err)
	}
	if !reflect.DeepEqual(before, o.Snapshot()) || gen.calls != 0 {
		t.Fatal("empty ingredient list must not reach the generator or change state")
	}
}

func TestGenerateSuccess(t *testing.T) {
	recipe := &domain.GeneratedRecipe{Name: "Steak Dinner", Instructions: []string{"Season", "Grill"}}
	gen := returnsRecipe(recipe)
	o := newOrchestrator(t, returnsDish(dishOf("Grilled Steak", "beef", "salt")), gen)

	if _, err := o.Analyze(context.Background(), testImage); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	calories := 600
	// Stale ingredients in the request are replaced by the identified set.
	_, err := o.Generate(context.Background(), domain.RecipeRequest{
		Ingredients: []string{"tofu"},
		Servings:    4,
		Calories:    &calories,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if !reflect.DeepEqual(gen.lastReq.Ingredients, []string{"beef", "salt"}) {
		t.Fatalf("request ingredients = %v", gen.lastReq.Ingredients)
	}
	if gen.lastReq.Calories == nil || *gen.lastReq.Calories != 600 || gen.lastReq.Servings != 4 {
		t.Fatalf("constraints not passed through: %+v", gen.lastReq)
	}

	s := o.Snapshot()
	if s.Phase != PhaseGeneratedOk {
		t.Fatalf("expected generated, got %s", s.Phase)
	}
	if s.Recipe == nil || len(s.Recipe.Instructions) != 2 {
		t.Fatalf("unexpected recipe %+v", s.Recipe)
	}
	if s.Dish == nil || !reflect.DeepEqual(s.Ingredients, []string{"beef", "salt"}) {
		t.Fatal("generation must leave dish and ingredients untouched")
	}
}

func TestGenerateFailureKeepsRecipe(t *testing.T) {
	first := &domain.GeneratedRecipe{Name: "First"}
	gen := returnsRecipe(first)
	o := newOrchestrator(t, returnsDish(dishOf("Soup", "leek")), gen)

	ctx := context.Background()
	_, _ = o.Analyze(ctx, testImage)
	if _, err := o.Generate(ctx, domain.RecipeRequest{Servings: 2}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	gen.fn = func(context.Context, domain.RecipeRequest) (*domain.GeneratedRecipe, error) {
		return nil, domain.NewOperationError(domain.OpGenerate, "X", nil)
	}
	if _, err := o.Generate(ctx, domain.RecipeRequest{Servings: 2}); err == nil {
		t.Fatal("expected error")
	}

	s := o.Snapshot()
	if s.Phase != PhaseGeneratedErr || s.Err != "X" {
		t.Fatalf("unexpected state %s / %q", s.Phase, s.Err)
	}
	if s.Recipe == nil || s.Recipe.Name != "First" {
		t.Fatalf("previous recipe lost: %+v", s.Recipe)
	}
	if s.IsGenerating() {
		t.Fatal("generating flag left set")
	}
}

func TestGenerateFallbackMessage(t *testing.T) {
	gen := &fakeGenerator{fn: func(context.Context, domain.RecipeRequest) (*domain.GeneratedRecipe, error) {
		return nil, errors.New("connection reset")
	}}
	o := newOrchestrator(t, returnsDish(dishOf("Soup", "leek")), gen)
	_, _ = o.Analyze(context.Background(), testImage)
	_, _ = o.Generate(context.Background(), domain.RecipeRequest{Servings: 2})

	if got := o.Snapshot().Err; got != "Failed to generate recipe" {
		t.Fatalf("error = %q", got)
	}
}

func TestAnalyzeTwiceReplacesAndClearsRecipe(t *testing.T) {
	a := returnsDish(dishOf("Grilled Steak", "beef", "salt"))
	o := newOrchestrator(t, a, returnsRecipe(&domain.GeneratedRecipe{Name: "Steak Dinner"}))
	ctx := context.Background()

	_, _ = o.Analyze(ctx, testImage)
	if _, err := o.Generate(ctx, domain.RecipeRequest{Servings: 2}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if o.Snapshot().Recipe == nil {
		t.Fatal("expected a recipe before re-analysis")
	}

	second := dishOf("Caprese", "tomato", "mozzarella", "basil")
	a.fn = returnsDish(second).fn
	if _, err := o.Analyze(ctx, testImage); err != nil {
		t.Fatalf("second analyze: %v", err)
	}

	s := o.Snapshot()
	if !reflect.DeepEqual(s.Ingredients, []string{"tomato", "mozzarella", "basil"}) {
		t.Fatalf("ingredients merged or stale: %v", s.Ingredients)
	}
	if s.Dish.DishName != "Caprese" || len(s.Dish.Ingredients) != 3 {
		t.Fatalf("dish not replaced: %+v", s.Dish)
	}
	if s.Recipe != nil {
		t.Fatal("stale recipe survived a new analysis")
	}
}

func TestDismissError(t *testing.T) {
	ctx := context.Background()

	t.Run("after generation failure", func(t *testing.T) {
		gen := returnsRecipe(&domain.GeneratedRecipe{Name: "First"})
		o := newOrchestrator(t, returnsDish(dishOf("Soup", "leek")), gen)
		_, _ = o.Analyze(ctx, testImage)
		_, _ = o.Generate(ctx, domain.RecipeRequest{Servings: 2})
		gen.fn = func(context.Context, domain.RecipeRequest) (*domain.GeneratedRecipe, error) {
			return nil, errors.New("boom")
		}
		_, _ = o.Generate(ctx, domain.RecipeRequest{Servings: 2})

		before := o.Snapshot()
		if !o.DismissError() {
			t.Fatal("expected an error to dismiss")
		}
		after := o.Snapshot()

		if after.Err != "" || after.Phase != PhaseGeneratedOk {
			t.Fatalf("unexpected state after dismiss: %s / %q", after.Phase, after.Err)
		}
		if !reflect.DeepEqual(before.Ingredients, after.Ingredients) ||
			!reflect.DeepEqual(before.Dish, after.Dish) ||
			!reflect.DeepEqual(before.Recipe, after.Recipe) {
			t.Fatal("dismiss touched other fields")
		}
	})

	t.Run("after analysis failure", func(t *testing.T) {
		o := newOrchestrator(t, failsWith(errors.New("boom")), returnsRecipe(nil))
		_, _ = o.Analyze(ctx, testImage)

		o.DismissError()
		s := o.Snapshot()
		if s.Phase != PhaseIdle || s.HasError() {
			t.Fatalf("expected idle without error, got %s / %q", s.Phase, s.Err)
		}
	})

	t.Run("nothing to dismiss", func(t *testing.T) {
		o := newOrchestrator(t, returnsDish(dishOf("Soup", "leek")), returnsRecipe(nil))
		_, _ = o.Analyze(ctx, testImage)
		before := o.Snapshot()

		if o.DismissError() {
			t.Fatal("dismiss reported an error that was not there")
		}
		if !reflect.DeepEqual(before, o.Snapshot()) {
			t.Fatal("state changed")
		}
	})
}

func TestNewOperationClearsError(t *testing.T) {
	a := failsWith(errors.New("boom"))
	var phases []Phase
	var errs []string
	o := newOrchestrator(t, a, returnsRecipe(nil), WithObserver(func(s State) {
		phases = append(phases, s.Phase)
		errs = append(errs, s.Err)
	}))

	_, _ = o.Analyze(context.Background(), testImage)
	a.fn = returnsDish(dishOf("Soup", "leek")).fn
	_, _ = o.Analyze(context.Background(), testImage)

	wantPhases := []Phase{PhaseAnalyzing, PhaseAnalyzedErr, PhaseAnalyzing, PhaseAnalyzedOk}
	if !reflect.DeepEqual(phases, wantPhases) {
		t.Fatalf("phases = %v, want %v", phases, wantPhases)
	}
	if errs[2] != "" {
		t.Fatalf("error not cleared when re-entering analysis: %q", errs[2])
	}
}

func TestBusyGuard(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	a := &fakeAnalyzer{fn: func(context.Context, *domain.UploadedImage) (*domain.IdentifiedDish, error) {
		close(entered)
		<-release
		return dishOf("Soup", "leek"), nil
	}}
	gen := returnsRecipe(&domain.GeneratedRecipe{Name: "never"})
	o := newOrchestrator(t, a, gen)

	done := make(chan error, 1)
	go func() {
		_, err := o.Analyze(context.Background(), testImage)
		done <- err
	}()
	<-entered

	s := o.Snapshot()
	if !s.IsAnalyzing() || s.IsGenerating() {
		t.Fatalf("expected analyzing only, got %s", s.Phase)
	}

	if _, err := o.Analyze(context.Background(), testImage); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("second analyze: expected ErrBusy, got %v", err)
	}
	if _, err := o.Generate(context.Background(), domain.RecipeRequest{Servings: 2}); !errors.Is(err, domain.ErrBusy) {
		t.Fatalf("generate during analysis: expected ErrBusy, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatal("generator reached while analysis in flight")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if a.calls != 1 {
		t.Fatalf("analyzer called %d times, want 1", a.calls)
	}
	if o.Snapshot().Phase != PhaseAnalyzedOk {
		t.Fatalf("expected analyzed, got %s", o.Snapshot().Phase)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	o := newOrchestrator(t, returnsDish(dishOf("Soup", "leek")), returnsRecipe(nil))
	_, _ = o.Analyze(context.Background(), testImage)

	s := o.Snapshot()
	s.Ingredients[0] = "onion"
	s.Dish.DishName = "Stew"

	again := o.Snapshot()
	if again.Ingredients[0] != "leek" || again.Dish.DishName != "Soup" {
		t.Fatal("snapshot aliases orchestrator state")
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseIdle, "idle"},
		{PhaseAnalyzing, "analyzing"},
		{PhaseAnalyzedOk, "analyzed"},
		{PhaseAnalyzedErr, "analysis failed"},
		{PhaseGenerating, "generating"},
		{PhaseGeneratedOk, "generated"},
		{PhaseGeneratedErr, "generation failed"},
		{Phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", tt.phase, got, tt.want)
		}
	}
}
