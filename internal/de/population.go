package de

import "fmt"

// Population is one generation, ordered by target index.
type Population []Candidate

// InitializePopulation creates size fresh candidates, each with a random
// genotype and computed fitness. The first failure from the candidate
// abstraction aborts initialization.
func InitializePopulation(size int, factory Factory, rng Rand) (Population, error) {
	population := make(Population, 0, size)
	for i := 0; i < size; i++ {
		c, err := newRandomCandidate(factory, rng)
		if err != nil {
			return nil, fmt.Errorf("initialize candidate %d: %w", i, err)
		}
		population = append(population, c)
	}
	return population, nil
}

// Best returns the candidate with the lowest fitness. Ties keep the earliest
// index. Returns nil for an empty population.
func (p Population) Best() Candidate {
	return Best(p)
}

// Best scans population for the minimum-fitness candidate, keeping the first
// one on ties.
func Best(population []Candidate) Candidate {
	var best Candidate
	for _, c := range population {
		if best == nil || c.Fitness() < best.Fitness() {
			best = c
		}
	}
	return best
}

// Select returns trial if it is strictly fitter than target, otherwise target.
func Select(trial, target Candidate) Candidate {
	if trial.Fitness() < target.Fitness() {
		return trial
	}
	return target
}
