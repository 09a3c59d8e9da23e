package de

// History holds the best fitness after each completed generation.
type History []float64

// Last returns the most recent entry and false when the history is empty.
func (h History) Last() (float64, bool) {
	if len(h) == 0 {
		return 0, false
	}
	return h[len(h)-1], true
}

// NonIncreasing reports whether every entry is <= its predecessor.
func (h History) NonIncreasing() bool {
	for i := 1; i < len(h); i++ {
		if h[i] > h[i-1] {
			return false
		}
	}
	return true
}
