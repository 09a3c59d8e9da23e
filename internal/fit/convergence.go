package fit

import (
	"log/slog"
	"math"
)

// ConvergenceConfig defines how a fitness history is judged to have plateaued
type ConvergenceConfig struct {
	// Patience is the number of iterations with no significant improvement
	// before the history counts as converged
	Patience int

	// Threshold is the minimum relative improvement required to count as progress
	// Example: 0.001 = 0.1% improvement required
	// Relative improvement = (oldCost - newCost) / |oldCost|
	Threshold float64
}

// DefaultConvergenceConfig returns sensible defaults for plateau detection
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		Patience:  50,
		Threshold: 0.001, // 0.1% improvement
	}
}

// ConvergenceSummary describes a finished history
type ConvergenceSummary struct {
	// ConvergedAt is the 1-based iteration where the plateau was first
	// detected, or 0 if it never was
	ConvergedAt int `json:"convergedAt"`

	// StaleIterations counts trailing iterations without significant improvement
	StaleIterations int `json:"staleIterations"`

	// BestCost is the lowest cost in the history
	BestCost float64 `json:"bestCost"`

	// RelativeImprovement compares the first and best entries
	RelativeImprovement float64 `json:"relativeImprovement"`
}

// ConvergenceTracker tracks cost history and detects when progress has stalled.
// It only reports; the optimizer always runs its full iteration budget.
type ConvergenceTracker struct {
	config          ConvergenceConfig
	costHistory     []float64
	bestCost        float64 // Best cost ever seen
	lastSignificant float64 // Last cost that was a significant improvement
	staleCount      int     // Number of iterations without significant improvement
	convergedAt     int
}

// NewConvergenceTracker creates a new convergence tracker with the given config
func NewConvergenceTracker(config ConvergenceConfig) *ConvergenceTracker {
	return &ConvergenceTracker{
		config:          config,
		costHistory:     []float64{},
		bestCost:        math.Inf(1),
		lastSignificant: math.Inf(1),
	}
}

// Update records a new cost value and returns true once a plateau is detected
func (c *ConvergenceTracker) Update(cost float64) bool {
	c.costHistory = append(c.costHistory, cost)

	if cost < c.bestCost {
		c.bestCost = cost
	}

	// First cost - initialize lastSignificant
	if len(c.costHistory) == 1 {
		c.lastSignificant = cost
		return false
	}

	if relativeImprovement(c.lastSignificant, cost) >= c.config.Threshold && cost < c.lastSignificant {
		c.lastSignificant = cost
		c.staleCount = 0
		return c.convergedAt > 0
	}

	c.staleCount++
	if c.convergedAt == 0 && c.config.Patience > 0 && c.staleCount >= c.config.Patience {
		c.convergedAt = len(c.costHistory)
		slog.Debug("Fitness plateau detected",
			"iteration", c.convergedAt,
			"stale_count", c.staleCount,
			"best_cost", c.bestCost,
		)
	}
	return c.convergedAt > 0
}

// BestCost returns the best cost seen so far
func (c *ConvergenceTracker) BestCost() float64 {
	return c.bestCost
}

// History returns the full cost history
func (c *ConvergenceTracker) History() []float64 {
	return append([]float64{}, c.costHistory...) // Return copy
}

// StaleCount returns the current number of iterations without improvement
func (c *ConvergenceTracker) StaleCount() int {
	return c.staleCount
}

// Summary reports the state of the tracked history
func (c *ConvergenceTracker) Summary() ConvergenceSummary {
	s := ConvergenceSummary{
		ConvergedAt:     c.convergedAt,
		StaleIterations: c.staleCount,
	}
	if len(c.costHistory) == 0 {
		return s
	}
	s.BestCost = c.bestCost
	s.RelativeImprovement = relativeImprovement(c.costHistory[0], c.bestCost)
	return s
}

// Reset clears the tracker's state
func (c *ConvergenceTracker) Reset() {
	c.costHistory = []float64{}
	c.bestCost = math.Inf(1)
	c.lastSignificant = math.Inf(1)
	c.staleCount = 0
	c.convergedAt = 0
}

// SummarizeHistory replays a finished history through a tracker
func SummarizeHistory(history []float64, config ConvergenceConfig) ConvergenceSummary {
	tracker := NewConvergenceTracker(config)
	for _, cost := range history {
		tracker.Update(cost)
	}
	return tracker.Summary()
}

func relativeImprovement(from, to float64) float64 {
	if from == to {
		return 0
	}
	if from == 0 {
		return math.Inf(1)
	}
	return (from - to) / math.Abs(from)
}
