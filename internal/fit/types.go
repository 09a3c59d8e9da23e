package fit

import "fmt"

// Problem is a named objective over a real vector, minimized by an optimizer
type Problem struct {
	Name        string
	Description string

	// Eval computes the objective value, lower is better
	Eval func(x []float64) float64

	// Lower and Upper bound every dimension when sampling the initial population
	Lower, Upper float64

	// Optimum is the known global minimum value
	Optimum float64

	// FixedDim, when positive, is the only supported dimensionality
	FixedDim int
}

// Dim resolves the dimensionality to use for a requested size
func (p Problem) Dim(requested int) (int, error) {
	if p.FixedDim > 0 {
		if requested > 0 && requested != p.FixedDim {
			return 0, fmt.Errorf("problem %s has fixed dimension %d, got %d", p.Name, p.FixedDim, requested)
		}
		return p.FixedDim, nil
	}
	if requested <= 0 {
		return 0, fmt.Errorf("problem %s: dimensions must be positive, got %d", p.Name, requested)
	}
	return requested, nil
}

// Bounds defines per-dimension sampling ranges
type Bounds struct {
	Lower []float64
	Upper []float64
}

// NewBounds creates uniform bounds for dim dimensions
func NewBounds(dim int, lo, hi float64) *Bounds {
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = lo
		upper[i] = hi
	}
	return &Bounds{
		Lower: lower,
		Upper: upper,
	}
}

// Bounds returns the sampling bounds of the problem for dim dimensions
func (p Problem) Bounds(dim int) *Bounds {
	return NewBounds(dim, p.Lower, p.Upper)
}

// Contains reports whether x lies within the bounds
func (b *Bounds) Contains(x []float64) bool {
	if len(x) != len(b.Lower) {
		return false
	}
	for i, v := range x {
		if v < b.Lower[i] || v > b.Upper[i] {
			return false
		}
	}
	return true
}
