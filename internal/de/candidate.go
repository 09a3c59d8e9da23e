// Package de implements a generic Differential Evolution optimizer.
//
// The engine minimizes a caller-defined fitness over a fixed-length real-valued
// genotype. Callers supply the candidate abstraction (genotype generation and
// fitness evaluation) through the Candidate interface and a Factory; the engine
// owns population initialization, mutation, crossover, selection and the
// generation loop.
package de

// Candidate is a single solution in the population.
//
// Fitness must always describe the current genotype: after SetGenotype the
// engine calls CalculateFitness before the candidate takes part in any
// comparison. Lower fitness is better.
type Candidate interface {
	// Dimensions is the fixed genotype length.
	Dimensions() int

	// GenerateGenotype fills the genotype with a fresh random value drawn from rng.
	GenerateGenotype(rng Rand) error

	// Genotype returns the current genotype. Callers must not modify it.
	Genotype() []float64

	// SetGenotype replaces the genotype. The stored fitness is stale until
	// CalculateFitness is called.
	SetGenotype(genotype []float64)

	// CalculateFitness computes and stores the fitness of the current genotype.
	CalculateFitness() error

	// Fitness returns the last computed fitness.
	Fitness() float64
}

// Factory creates a blank candidate. The engine calls it once per initial
// population slot and once per trial.
type Factory func() Candidate

// assemble sets genotype on c and recomputes its fitness in one step, so a
// candidate never leaves this function with a stale fitness.
func assemble(c Candidate, genotype []float64) error {
	c.SetGenotype(genotype)
	return c.CalculateFitness()
}

// newRandomCandidate creates a candidate with a random genotype and its fitness.
func newRandomCandidate(factory Factory, rng Rand) (Candidate, error) {
	c := factory()
	if err := c.GenerateGenotype(rng); err != nil {
		return nil, err
	}
	if err := c.CalculateFitness(); err != nil {
		return nil, err
	}
	return c, nil
}
