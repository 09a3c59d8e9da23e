package opt

import (
	"fmt"

	"github.com/cwbudde/diffevo/internal/de"
)

// DEAdapter runs the differential evolution engine over a bounded real vector
type DEAdapter struct {
	config   de.Config
	seed     int64
	progress ProgressFunc
	seeds    [][]float64
}

// NewDifferentialEvolution creates a DE optimizer with the given engine config and seed
func NewDifferentialEvolution(config de.Config, seed int64) *DEAdapter {
	return &DEAdapter{
		config: config,
		seed:   seed,
	}
}

// Name implements Optimizer
func (a *DEAdapter) Name() string {
	return "de"
}

// SetProgress implements ProgressReporter
func (a *DEAdapter) SetProgress(fn ProgressFunc) {
	a.progress = fn
}

// SetInitialGenotypes places genotypes into the leading slots of the initial
// population, for example the best genotype of an earlier run.
func (a *DEAdapter) SetInitialGenotypes(genotypes ...[]float64) {
	a.seeds = genotypes
}

// Run executes differential evolution. The bounds only shape the random
// initial population; trial genotypes are not clipped.
func (a *DEAdapter) Run(eval func([]float64) float64, lower, upper []float64, dim int) (*Result, error) {
	if len(lower) < dim || len(upper) < dim {
		return nil, fmt.Errorf("bounds cover %d/%d dimensions, need %d", len(lower), len(upper), dim)
	}

	evaluations := 0
	counted := func(x []float64) float64 {
		evaluations++
		return eval(x)
	}

	factory := func() de.Candidate {
		return &vectorCandidate{
			lower: lower[:dim],
			upper: upper[:dim],
			eval:  counted,
		}
	}

	var opts []de.Option
	if len(a.seeds) > 0 {
		opts = append(opts, de.WithInitialGenotypes(a.seeds...))
	}
	if a.progress != nil {
		progress := a.progress
		opts = append(opts, de.WithObserver(func(generation int, best de.Candidate) {
			progress(generation+1, best.Fitness())
		}))
	}

	engine := de.New(a.config, factory, de.NewRand(a.seed), opts...)
	result, err := engine.Search()
	if err != nil {
		return nil, fmt.Errorf("differential evolution: %w", err)
	}

	return &Result{
		Best:        result.BestGenotype,
		Cost:        result.BestFitness,
		InitialCost: result.InitialBestFitness,
		History:     result.History,
		Evaluations: evaluations,
	}, nil
}

// vectorCandidate is a de.Candidate over a plain objective function
type vectorCandidate struct {
	lower, upper []float64
	eval         func([]float64) float64

	genotype []float64
	fitness  float64
}

func (c *vectorCandidate) Dimensions() int {
	return len(c.lower)
}

// GenerateGenotype samples each gene uniformly within its bounds
func (c *vectorCandidate) GenerateGenotype(rng de.Rand) error {
	c.genotype = make([]float64, len(c.lower))
	for i := range c.genotype {
		c.genotype[i] = c.lower[i] + rng.Float64()*(c.upper[i]-c.lower[i])
	}
	return nil
}

func (c *vectorCandidate) Genotype() []float64 {
	return c.genotype
}

func (c *vectorCandidate) SetGenotype(genotype []float64) {
	c.genotype = genotype
}

func (c *vectorCandidate) CalculateFitness() error {
	if len(c.genotype) != len(c.lower) {
		return fmt.Errorf("genotype has %d genes, want %d", len(c.genotype), len(c.lower))
	}
	c.fitness = c.eval(c.genotype)
	return nil
}

func (c *vectorCandidate) Fitness() float64 {
	return c.fitness
}
