package fit

import (
	"testing"

	"github.com/cwbudde/diffevo/internal/de"
	"github.com/cwbudde/diffevo/internal/opt"
)

func TestOptimizeSquare(t *testing.T) {
	problem, err := Lookup("square")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	cfg := de.Config{PopulationSize: 4, Generations: 1, NumberOfMutagens: 2, F: 1, CR: 0.5}
	optimizer := opt.NewDifferentialEvolution(cfg, 42)

	result, err := Optimize(problem, optimizer, 0)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if result.BestCost > result.InitialCost {
		t.Errorf("Best cost %f worse than initial %f", result.BestCost, result.InitialCost)
	}
	if len(result.BestParams) != 1 {
		t.Errorf("Expected 1 parameter, got %d", len(result.BestParams))
	}
	if result.Iterations != 1 || len(result.History) != 1 {
		t.Errorf("Expected 1 iteration, got %d", result.Iterations)
	}
	if result.Algorithm != "de" || result.Problem != "square" {
		t.Errorf("Unexpected labels: %s/%s", result.Algorithm, result.Problem)
	}
}

func TestOptimizeSphere(t *testing.T) {
	problem, _ := Lookup("sphere")

	cfg := de.Config{PopulationSize: 20, Generations: 150, NumberOfMutagens: 3, F: 0.5, CR: 0.9}
	result, err := Optimize(problem, opt.NewDifferentialEvolution(cfg, 7), 3)
	if err != nil {
		t.Fatalf("Optimize failed: %v", err)
	}

	if result.BestCost >= result.InitialCost {
		t.Errorf("Optimization did not improve: initial=%f, best=%f", result.InitialCost, result.BestCost)
	}
	for i := 1; i < len(result.History); i++ {
		if result.History[i] > result.History[i-1] {
			t.Fatalf("History increased at %d: %f -> %f", i, result.History[i-1], result.History[i])
		}
	}
}

func TestOptimizeRejectsBadDimensions(t *testing.T) {
	problem, _ := Lookup("sphere")
	if _, err := Optimize(problem, opt.NewDifferentialEvolution(de.DefaultConfig(), 1), 0); err == nil {
		t.Error("Expected error for zero dimensions")
	}
}
