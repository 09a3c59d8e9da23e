package fit

import (
	"fmt"
	"math"
	"sort"
)

var problems = map[string]Problem{
	"square": {
		Name:        "square",
		Description: "x^2 in one dimension",
		Eval:        Sphere,
		Lower:       -10,
		Upper:       10,
		FixedDim:    1,
	},
	"sphere": {
		Name:        "sphere",
		Description: "sum of x_i^2",
		Eval:        Sphere,
		Lower:       -5.12,
		Upper:       5.12,
	},
	"rastrigin": {
		Name:        "rastrigin",
		Description: "10n + sum(x_i^2 - 10 cos(2 pi x_i))",
		Eval:        Rastrigin,
		Lower:       -5.12,
		Upper:       5.12,
	},
	"rosenbrock": {
		Name:        "rosenbrock",
		Description: "sum(100 (x_{i+1} - x_i^2)^2 + (1 - x_i)^2)",
		Eval:        Rosenbrock,
		Lower:       -2.048,
		Upper:       2.048,
	},
	"ackley": {
		Name:        "ackley",
		Description: "Ackley function with a=20, b=0.2, c=2 pi",
		Eval:        Ackley,
		Lower:       -32.768,
		Upper:       32.768,
	},
	"constant": {
		Name:        "constant",
		Description: "always 1, every candidate ties",
		Eval:        func([]float64) float64 { return 1 },
		Lower:       -1,
		Upper:       1,
		Optimum:     1,
	},
}

// Lookup returns the problem registered under name
func Lookup(name string) (Problem, error) {
	p, ok := problems[name]
	if !ok {
		return Problem{}, fmt.Errorf("unknown problem: %s (available: %v)", name, Names())
	}
	return p, nil
}

// Names lists the registered problems in sorted order
func Names() []string {
	names := make([]string, 0, len(problems))
	for name := range problems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sphere computes sum(x_i^2), minimum 0 at the origin
func Sphere(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return sum
}

// Rastrigin is highly multimodal, minimum 0 at the origin
func Rastrigin(x []float64) float64 {
	sum := 10 * float64(len(x))
	for _, v := range x {
		sum += v*v - 10*math.Cos(2*math.Pi*v)
	}
	return sum
}

// Rosenbrock has a curved valley, minimum 0 at (1, ..., 1)
func Rosenbrock(x []float64) float64 {
	var sum float64
	for i := 0; i+1 < len(x); i++ {
		a := x[i+1] - x[i]*x[i]
		b := 1 - x[i]
		sum += 100*a*a + b*b
	}
	return sum
}

// Ackley is nearly flat with a deep hole, minimum 0 at the origin
func Ackley(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	n := float64(len(x))
	var sq, cs float64
	for _, v := range x {
		sq += v * v
		cs += math.Cos(2 * math.Pi * v)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sq/n)) - math.Exp(cs/n) + 20 + math.E
}
