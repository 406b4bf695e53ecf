// Package workflow implements the orchestrator that sequences dish
// analysis and recipe generation and owns the resulting state.
package workflow

import (
	"context"
	"sync"

	"github.com/hammamikhairi/platechef/internal/domain"
	"github.com/hammamikhairi/platechef/internal/logger"
)

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithObserver registers fn to receive a snapshot after every transition.
// Observers run on the goroutine that caused the transition, with no lock
// held.
func WithObserver(fn func(State)) Option {
	return func(o *Orchestrator) {
		if fn != nil {
			o.observers = append(o.observers, fn)
		}
	}
}

// Orchestrator owns the workflow state. It depends only on the gateway
// interfaces and is fully testable with fakes.
//
// Only one backend call may be in flight at a time: triggering either
// operation while one is running returns domain.ErrBusy and changes nothing.
type Orchestrator struct {
	analyzer  domain.DishIdentifier
	generator domain.RecipeGenerator
	log       *logger.Logger
	observers []func(State)

	mu    sync.Mutex
	state State
}

// New creates an orchestrator in the idle state.
func New(analyzer domain.DishIdentifier, generator domain.RecipeGenerator, log *logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		analyzer:  analyzer,
		generator: generator,
		log:       log,
		state:     State{Phase: PhaseIdle, Ingredients: []string{}},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Snapshot returns a deep copy of the current state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state.clone()
}

// Analyze sends img to the analysis gateway. On success the dish and its
// ingredient names replace whatever was there and any recipe is dropped,
// since it was built from the previous ingredients. On failure the error
// is recorded and the dish and ingredients are cleared.
func (o *Orchestrator) Analyze(ctx context.Context, img *domain.UploadedImage) (*domain.IdentifiedDish, error) {
	if !o.begin(PhaseAnalyzing, nil) {
		return nil, domain.ErrBusy
	}

	dish, err := o.analyzer.IdentifyDish(ctx, img)
	if err == nil && dish == nil {
		err = domain.NewOperationError(domain.OpAnalyze, "", nil)
	}

	o.mu.Lock()
	if err != nil {
		o.state.Phase = PhaseAnalyzedErr
		o.state.Err = domain.UserMessage(domain.OpAnalyze, err)
		o.state.Ingredients = []string{}
		o.state.Dish = nil
		o.log.Warn("analysis failed: %v", err)
	} else {
		o.state.Phase = PhaseAnalyzedOk
		o.state.Dish = dish.Clone()
		o.state.Ingredients = dish.IngredientNames()
		o.state.Recipe = nil
		o.log.Info("analysis done: %q, ingredients=%v", dish.DishName, o.state.Ingredients)
	}
	snap := o.state.clone()
	o.mu.Unlock()

	o.notify(snap)
	if err != nil {
		return nil, err
	}
	return dish, nil
}

// Generate asks the generation gateway for a recipe. The request's
// ingredients are always replaced by the currently identified ones.
//
// With no ingredients this is a no-op returning domain.ErrNoIngredients:
// the gateway is not called and the state does not change. On failure
// the error is recorded and any previous recipe is kept.
func (o *Orchestrator) Generate(ctx context.Context, req domain.RecipeRequest) (*domain.GeneratedRecipe, error) {
	var noIngredients bool
	started := o.begin(PhaseGenerating, func(s *State) bool {
		if len(s.Ingredients) == 0 {
			noIngredients = true
			return false
		}
		req.Ingredients = append([]string(nil), s.Ingredients...)
		return true
	})
	if noIngredients {
		return nil, domain.ErrNoIngredients
	}
	if !started {
		return nil, domain.ErrBusy
	}

	recipe, err := o.generator.GenerateRecipe(ctx, req)
	if err == nil && recipe == nil {
		err = domain.NewOperationError(domain.OpGenerate, "", nil)
	}

	o.mu.Lock()
	if err != nil {
		o.state.Phase = PhaseGeneratedErr
		o.state.Err = domain.UserMessage(domain.OpGenerate, err)
		o.log.Warn("generation failed: %v", err)
	} else {
		o.state.Phase = PhaseGeneratedOk
		o.state.Recipe = recipe.Clone()
		o.log.Info("recipe ready: %q", recipe.Name)
	}
	snap := o.state.clone()
	o.mu.Unlock()

	o.notify(snap)
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// DismissError clears the error and returns to the phase the remaining
// data supports. Other fields are untouched. It reports whether there was
// an error to dismiss.
func (o *Orchestrator) DismissError() bool {
	o.mu.Lock()
	if o.state.Phase != PhaseAnalyzedErr && o.state.Phase != PhaseGeneratedErr {
		o.mu.Unlock()
		return false
	}
	o.state.Err = ""
	o.state.Phase = o.state.settled()
	snap := o.state.clone()
	o.mu.Unlock()

	o.log.Debug("error dismissed, phase=%s", snap.Phase)
	o.notify(snap)
	return true
}

// begin moves into an in-flight phase and clears the error. guard, when
// set, runs under the lock and may veto the transition. It returns false
// if the transition did not happen.
func (o *Orchestrator) begin(phase Phase, guard func(*State) bool) bool {
	o.mu.Lock()
	if o.state.InFlight() {
		current := o.state.Phase
		o.mu.Unlock()
		o.log.Debug("%s rejected: still %s", phase, current)
		return false
	}
	if guard != nil && !guard(&o.state) {
		o.mu.Unlock()
		return false
	}
	o.state.Phase = phase
	o.state.Err = ""
	snap := o.state.clone()
	o.mu.Unlock()

	o.notify(snap)
	return true
}

func (o *Orchestrator) notify(s State) {
	for _, fn := range o.observers {
		fn(s.clone())
	}
}
