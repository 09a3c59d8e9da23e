package fit

import (
	"math"
	"testing"
)

func TestProblemsAtOptimum(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
	}{
		{"square", []float64{0}},
		{"sphere", []float64{0, 0, 0}},
		{"rastrigin", []float64{0, 0}},
		{"rosenbrock", []float64{1, 1, 1}},
		{"ackley", []float64{0, 0}},
		{"constant", []float64{0.3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Lookup(tt.name)
			if err != nil {
				t.Fatalf("Lookup failed: %v", err)
			}
			got := p.Eval(tt.x)
			if math.Abs(got-p.Optimum) > 1e-12 {
				t.Errorf("Eval at optimum = %g, want %g", got, p.Optimum)
			}
		})
	}
}

func TestProblemsAwayFromOptimum(t *testing.T) {
	if got := Sphere([]float64{1, 2}); got != 5 {
		t.Errorf("Sphere = %f, want 5", got)
	}
	if got := Rosenbrock([]float64{0, 0}); got != 1 {
		t.Errorf("Rosenbrock = %f, want 1", got)
	}
	if got := Rastrigin([]float64{1}); math.Abs(got-1) > 1e-9 {
		t.Errorf("Rastrigin = %f, want 1", got)
	}
	if got := Ackley([]float64{1, 1}); got <= 0 {
		t.Errorf("Ackley = %f, want > 0", got)
	}
}

func TestLookupUnknown(t *testing.T) {
	if _, err := Lookup("nope"); err == nil {
		t.Error("Expected error for unknown problem")
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != len(problems) {
		t.Fatalf("Expected %d names, got %d", len(problems), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("Names not sorted: %v", names)
		}
	}
}
