package de

import "fmt"

// SelectMutagens picks up to k distinct population indices other than target,
// uniformly without replacement. The candidates are shuffled and the first k
// taken, so the result has min(k, populationSize-1) entries.
func SelectMutagens(rng Rand, populationSize, target, k int) []int {
	pool := make([]int, 0, populationSize)
	for i := 0; i < populationSize; i++ {
		if i != target {
			pool = append(pool, i)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if k < 0 {
		k = 0
	}
	if k > len(pool) {
		k = len(pool)
	}
	return pool[:k]
}

// MutationValue computes the mutation value for gene j:
//
//	F * sum_{i=0}^{k-2} (m_i[j] - m_{i+1}[j])
//
// where m_0..m_{k-1} are the genotypes of the selected mutagens in order.
// This is a chain of consecutive pairwise differences, not the single
// difference of DE/rand/1.
func MutationValue(population []Candidate, mutagens []int, j int, f float64) float64 {
	var sum float64
	for i := 0; i+1 < len(mutagens); i++ {
		a := population[mutagens[i]].Genotype()[j]
		b := population[mutagens[i+1]].Genotype()[j]
		sum += f * (a - b)
	}
	return sum
}

// crossoverPoint draws the forced crossover position from [0, dimensions].
// A draw of dimensions matches no gene, in which case no position is forced.
func crossoverPoint(rng Rand, dimensions int) int {
	return rng.Intn(dimensions + 1)
}

// trialGenotype assembles the genotype of a trial for target. Each gene takes
// the mutation value when a uniform draw is <= cr or the gene sits at the
// forced crossover point, otherwise the target's gene is copied.
func trialGenotype(rng Rand, cfg Config, population []Candidate, target, dimensions int, mutagens []int) []float64 {
	targetGenes := population[target].Genotype()
	forced := crossoverPoint(rng, dimensions)

	genotype := make([]float64, dimensions)
	for j := 0; j < dimensions; j++ {
		if rng.Float64() <= cfg.CR || j == forced {
			genotype[j] = MutationValue(population, mutagens, j, cfg.F)
		} else {
			genotype[j] = targetGenes[j]
		}
	}
	return genotype
}

// crossover produces one freshly created trial candidate for the target index.
func crossover(rng Rand, cfg Config, factory Factory, population []Candidate, target int) (Candidate, error) {
	mutagens := SelectMutagens(rng, len(population), target, cfg.NumberOfMutagens)

	trial := factory()
	genotype := trialGenotype(rng, cfg, population, target, trial.Dimensions(), mutagens)
	if err := assemble(trial, genotype); err != nil {
		return nil, fmt.Errorf("evaluate trial for target %d: %w", target, err)
	}
	return trial, nil
}
