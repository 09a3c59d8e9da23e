package opt

// Optimizer defines an optimization algorithm interface
type Optimizer interface {
	// Name identifies the algorithm in logs and stored runs
	Name() string

	// Run executes the optimization
	// eval: objective function to minimize
	// lower, upper: parameter bounds used to sample the initial population
	// dim: dimensionality of parameter space
	Run(eval func([]float64) float64, lower, upper []float64, dim int) (*Result, error)
}

// Result is the outcome of an optimizer run
type Result struct {
	Best        []float64
	Cost        float64
	InitialCost float64
	// History holds the best cost after each iteration, when the algorithm reports it
	History     []float64
	Evaluations int
}

// ProgressFunc receives the best cost after each completed iteration
type ProgressFunc func(iteration int, bestCost float64)

// ProgressReporter is implemented by optimizers that can report per-iteration progress
type ProgressReporter interface {
	SetProgress(fn ProgressFunc)
}
