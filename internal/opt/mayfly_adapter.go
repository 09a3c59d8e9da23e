package opt

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/mayfly"
)

// MayflyAdapter wraps the external Mayfly library to conform to our Optimizer interface
type MayflyAdapter struct {
	maxIters int
	popSize  int
	seed     int64
}

// NewMayfly creates a new Mayfly optimizer adapter
func NewMayfly(maxIters, popSize int, seed int64) *MayflyAdapter {
	return &MayflyAdapter{
		maxIters: maxIters,
		popSize:  popSize,
		seed:     seed,
	}
}

// Name implements Optimizer
func (m *MayflyAdapter) Name() string {
	return "mayfly"
}

// Run executes the Mayfly optimization using the external library
func (m *MayflyAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int) (*Result, error) {
	if len(lower) == 0 || len(upper) == 0 {
		return nil, fmt.Errorf("mayfly: bounds are required")
	}

	// The library seeds its global best from the male population, which it
	// evaluates first. The best of those evaluations is the initial cost.
	evaluations := 0
	initialCost := math.Inf(1)
	config := mayfly.NewDefaultConfig()
	config.ObjectiveFunc = func(x []float64) float64 {
		evaluations++
		cost := eval(x)
		if evaluations <= m.popSize && cost < initialCost {
			initialCost = cost
		}
		return cost
	}
	config.ProblemSize = dim
	config.MaxIterations = m.maxIters
	config.NPop = m.popSize

	// External library uses scalar bounds, take the first dimension
	config.LowerBound = lower[0]
	config.UpperBound = upper[0]

	config.Rand = rand.New(rand.NewSource(m.seed))

	result, err := mayfly.Optimize(config)
	if err != nil {
		return nil, fmt.Errorf("mayfly: %w", err)
	}

	return &Result{
		Best:        result.GlobalBest.Position,
		Cost:        result.GlobalBest.Cost,
		InitialCost: initialCost,
		Evaluations: evaluations,
	}, nil
}
