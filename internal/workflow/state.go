package workflow

import "github.com/hammamikhairi/platechef/internal/domain"

// Phase is the orchestrator's current state. The in-flight flags are
// derived from it, so analysis and generation can never both be running.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAnalyzing
	PhaseAnalyzedOk
	PhaseAnalyzedErr
	PhaseGenerating
	PhaseGeneratedOk
	PhaseGeneratedErr
)

// String returns a human-readable phase.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseAnalyzedOk:
		return "analyzed"
	case PhaseAnalyzedErr:
		return "analysis failed"
	case PhaseGenerating:
		return "generating"
	case PhaseGeneratedOk:
		return "generated"
	case PhaseGeneratedErr:
		return "generation failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the workflow.
type State struct {
	Phase       Phase
	Ingredients []string
	Dish        *domain.IdentifiedDish
	Recipe      *domain.GeneratedRecipe
	Err         string
}

// IsAnalyzing reports whether an analysis call is in flight.
func (s State) IsAnalyzing() bool { return s.Phase == PhaseAnalyzing }

// IsGenerating reports whether a generation call is in flight.
func (s State) IsGenerating() bool { return s.Phase == PhaseGenerating }

// InFlight reports whether any backend call is in flight.
func (s State) InFlight() bool { return s.IsAnalyzing() || s.IsGenerating() }

// HasError reports whether an undismissed error is showing.
func (s State) HasError() bool { return s.Err != "" }

func (s State) clone() State {
	c := s
	c.Ingredients = append([]string{}, s.Ingredients...)
	c.Dish = s.Dish.Clone()
	c.Recipe = s.Recipe.Clone()
	return c
}

// settled returns the non-error phase the data supports.
func (s State) settled() Phase {
	switch {
	case s.Recipe != nil:
		return PhaseGeneratedOk
	case s.Dish != nil:
		return PhaseAnalyzedOk
	default:
		return PhaseIdle
	}
}
