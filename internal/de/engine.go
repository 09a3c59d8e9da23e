package de

import (
	"fmt"
	"log/slog"
)

// State is the lifecycle state of an Engine.
type State int

const (
	StateUninitialized State = iota
	StatePopulationReady
	StateEvolving
	StateDone
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePopulationReady:
		return "population_ready"
	case StateEvolving:
		return "evolving"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Observer is called after every completed generation with the zero-based
// generation index and the best candidate of the new population.
type Observer func(generation int, best Candidate)

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers a per-generation callback.
func WithObserver(fn Observer) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// WithInitialGenotypes places the given genotypes into the leading slots of
// the initial population instead of random ones. Extra genotypes beyond the
// population size are ignored.
func WithInitialGenotypes(genotypes ...[]float64) Option {
	return func(e *Engine) {
		e.seeds = genotypes
	}
}

// Result is the outcome of a search.
type Result struct {
	BestGenotype       []float64 `json:"bestGenotype"`
	BestFitness        float64   `json:"bestFitness"`
	InitialBestFitness float64   `json:"initialBestFitness"`
	History            History   `json:"history"`
	Generations        int       `json:"generations"`
}

// Engine runs Differential Evolution searches. It is not safe for concurrent use.
type Engine struct {
	cfg      Config
	factory  Factory
	rng      Rand
	observer Observer
	seeds    [][]float64

	state      State
	population Population
	history    History
}

// New creates an engine. Configuration is validated when Search runs.
func New(cfg Config, factory Factory, rng Rand, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		factory: factory,
		rng:     rng,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Population returns a copy of the current population.
func (e *Engine) Population() Population {
	return append(Population(nil), e.population...)
}

// History returns a copy of the best fitness recorded after each generation.
func (e *Engine) History() History {
	return append(History(nil), e.history...)
}

// Search validates the configuration, initializes a population and evolves it
// for exactly cfg.Generations generations. Any error from the candidate
// abstraction aborts the whole search.
func (e *Engine) Search() (*Result, error) {
	e.state = StateUninitialized
	e.population = nil
	e.history = nil

	if err := e.cfg.validate(e.factory); err != nil {
		return nil, err
	}
	if e.rng == nil {
		return nil, &ConfigError{Field: "rng", Reason: "is required"}
	}

	slog.Info("Starting differential evolution",
		"population_size", e.cfg.PopulationSize,
		"generations", e.cfg.Generations,
		"number_of_mutagens", e.cfg.NumberOfMutagens,
		"f", e.cfg.F,
		"cr", e.cfg.CR,
	)

	if err := e.initialize(); err != nil {
		return nil, err
	}
	e.cfg.warnInconsistent(e.population[0].Dimensions())

	initialBest := e.population.Best().Fitness()
	e.history = make(History, 0, e.cfg.Generations)

	e.state = StateEvolving
	for g := 0; g < e.cfg.Generations; g++ {
		if err := e.evolveGeneration(); err != nil {
			return nil, fmt.Errorf("generation %d: %w", g, err)
		}

		best := e.population.Best()
		e.history = append(e.history, best.Fitness())
		slog.Debug("Generation complete", "generation", g, "best_fitness", best.Fitness())

		if e.observer != nil {
			e.observer(g, best)
		}
	}
	e.state = StateDone

	best := e.population.Best()
	slog.Info("Best individual",
		"genotype", best.Genotype(),
		"fitness", best.Fitness(),
		"initial_fitness", initialBest,
	)

	return &Result{
		BestGenotype:       append([]float64(nil), best.Genotype()...),
		BestFitness:        best.Fitness(),
		InitialBestFitness: initialBest,
		History:            e.History(),
		Generations:        e.cfg.Generations,
	}, nil
}

func (e *Engine) initialize() error {
	population, err := InitializePopulation(e.cfg.PopulationSize, e.factory, e.rng)
	if err != nil {
		return err
	}

	for i, genotype := range e.seeds {
		if i >= len(population) {
			break
		}
		c := e.factory()
		if err := assemble(c, append([]float64(nil), genotype...)); err != nil {
			return fmt.Errorf("initialize seeded candidate %d: %w", i, err)
		}
		population[i] = c
	}

	e.population = population
	e.state = StatePopulationReady
	return nil
}

// evolveGeneration builds the next generation from the current one. Every
// trial competes only against its own target from the current generation;
// the population is replaced once all targets are processed.
func (e *Engine) evolveGeneration() error {
	next := make(Population, len(e.population))
	for target := range e.population {
		trial, err := crossover(e.rng, e.cfg, e.factory, e.population, target)
		if err != nil {
			return err
		}
		next[target] = Select(trial, e.population[target])
	}
	e.population = next
	return nil
}
