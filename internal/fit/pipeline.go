package fit

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/diffevo/internal/opt"
)

// OptimizationResult holds the output of an optimization run
type OptimizationResult struct {
	Problem     string
	Algorithm   string
	Dimensions  int
	BestParams  []float64
	BestCost    float64
	InitialCost float64
	History     []float64
	Iterations  int
	Evaluations int
	Convergence ConvergenceSummary
}

// Optimize minimizes problem over dim dimensions with the given optimizer
func Optimize(problem Problem, optimizer opt.Optimizer, dim int) (*OptimizationResult, error) {
	dim, err := problem.Dim(dim)
	if err != nil {
		return nil, err
	}

	slog.Info("Starting optimization", "problem", problem.Name, "algorithm", optimizer.Name(), "dimensions", dim)

	bounds := problem.Bounds(dim)
	result, err := optimizer.Run(problem.Eval, bounds.Lower, bounds.Upper, dim)
	if err != nil {
		return nil, fmt.Errorf("optimize %s: %w", problem.Name, err)
	}

	out := &OptimizationResult{
		Problem:     problem.Name,
		Algorithm:   optimizer.Name(),
		Dimensions:  dim,
		BestParams:  result.Best,
		BestCost:    result.Cost,
		InitialCost: result.InitialCost,
		History:     result.History,
		Iterations:  len(result.History),
		Evaluations: result.Evaluations,
		Convergence: SummarizeHistory(result.History, DefaultConvergenceConfig()),
	}

	slog.Info("Optimization complete",
		"problem", problem.Name,
		"algorithm", optimizer.Name(),
		"initial_cost", out.InitialCost,
		"best_cost", out.BestCost,
		"gap_to_optimum", out.BestCost-problem.Optimum,
		"evaluations", out.Evaluations,
	)

	return out, nil
}
