package fit

import "testing"

func TestNewBounds(t *testing.T) {
	bounds := NewBounds(3, -2, 5)

	if len(bounds.Lower) != 3 || len(bounds.Upper) != 3 {
		t.Fatalf("Expected 3 bounds, got %d/%d", len(bounds.Lower), len(bounds.Upper))
	}

	for i := 0; i < 3; i++ {
		if bounds.Lower[i] != -2 || bounds.Upper[i] != 5 {
			t.Errorf("Bounds[%d] incorrect: [%f, %f]", i, bounds.Lower[i], bounds.Upper[i])
		}
	}
}

func TestBoundsContains(t *testing.T) {
	bounds := NewBounds(2, -1, 1)

	tests := []struct {
		name string
		x    []float64
		want bool
	}{
		{"inside", []float64{0, 0.5}, true},
		{"on edge", []float64{-1, 1}, true},
		{"outside", []float64{0, 1.5}, false},
		{"wrong length", []float64{0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bounds.Contains(tt.x); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestProblemDim(t *testing.T) {
	square, err := Lookup("square")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	if dim, err := square.Dim(0); err != nil || dim != 1 {
		t.Errorf("Expected fixed dim 1, got %d (%v)", dim, err)
	}
	if _, err := square.Dim(3); err == nil {
		t.Error("Expected error for mismatched fixed dimension")
	}

	sphere, _ := Lookup("sphere")
	if dim, err := sphere.Dim(4); err != nil || dim != 4 {
		t.Errorf("Expected dim 4, got %d (%v)", dim, err)
	}
	if _, err := sphere.Dim(0); err == nil {
		t.Error("Expected error for zero dimensions")
	}
}
