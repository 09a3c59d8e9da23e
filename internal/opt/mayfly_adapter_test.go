package opt

import (
	"math"
	"testing"
)

// Sphere function: f(x) = sum(x_i^2), minimum at origin
func sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

func uniformBounds(dim int, lo, hi float64) ([]float64, []float64) {
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = lo
		upper[i] = hi
	}
	return lower, upper
}

func TestMayflyAdapterOnSphere(t *testing.T) {
	optimizer := NewMayfly(100, 20, 42) // maxIters, popSize, seed

	dim := 3
	lower, upper := uniformBounds(dim, -10, 10)

	result, err := optimizer.Run(sphere, lower, upper, dim)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Best) != dim {
		t.Fatalf("Expected %d parameters, got %d", dim, len(result.Best))
	}

	// Should converge close to zero
	if result.Cost > 0.1 {
		t.Errorf("Expected cost near 0, got %f", result.Cost)
	}

	for i, v := range result.Best {
		if math.Abs(v) > 1.0 {
			t.Errorf("Parameter %d = %f, expected near 0", i, v)
		}
	}

	if result.Evaluations == 0 {
		t.Error("Expected evaluations to be counted")
	}
}

func TestMayflyAdapterDeterministic(t *testing.T) {
	dim := 2
	lower := []float64{-5, -5}
	upper := []float64{5, 5}

	// popSize must be >=20 for mayfly v0.1.0
	r1, err := NewMayfly(50, 20, 123).Run(sphere, lower, upper, dim)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	r2, err := NewMayfly(50, 20, 123).Run(sphere, lower, upper, dim)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if r1.Cost != r2.Cost {
		t.Errorf("Non-deterministic: cost1=%f, cost2=%f", r1.Cost, r2.Cost)
	}
}

func TestMayflyAdapterRequiresBounds(t *testing.T) {
	if _, err := NewMayfly(10, 20, 1).Run(sphere, nil, nil, 2); err == nil {
		t.Error("Expected error for missing bounds")
	}
}

func TestMayflyAdapterInitialCost(t *testing.T) {
	const popSize = 20
	lower, upper := uniformBounds(3, -10, 10)

	var costs []float64
	eval := func(x []float64) float64 {
		cost := sphere(x)
		costs = append(costs, cost)
		return cost
	}

	result, err := NewMayfly(30, popSize, 7).Run(eval, lower, upper, 3)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(costs) < popSize {
		t.Fatalf("Expected at least %d evaluations, got %d", popSize, len(costs))
	}

	want := math.Inf(1)
	for _, c := range costs[:popSize] {
		want = math.Min(want, c)
	}
	if result.InitialCost != want {
		t.Errorf("Expected initial cost %g, got %g", want, result.InitialCost)
	}
	if result.InitialCost <= 0 || math.IsInf(result.InitialCost, 0) {
		t.Errorf("Initial cost should be a positive sphere value, got %g", result.InitialCost)
	}
	if result.Cost > result.InitialCost {
		t.Errorf("Best cost %g worse than initial %g", result.Cost, result.InitialCost)
	}
}
