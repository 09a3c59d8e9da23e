package de

import (
	"fmt"
	"log/slog"
)

// Config holds the parameters of one search. It is not modified during a run.
type Config struct {
	// PopulationSize is the number of candidates per generation.
	// Should be at least NumberOfMutagens + 1.
	PopulationSize int `json:"populationSize"`

	// Generations is the exact number of generations evolved. Zero is allowed
	// and returns the best of the initial population.
	Generations int `json:"generations"`

	// NumberOfMutagens is how many distinct population members contribute to
	// each mutation value. Should be at least 2.
	NumberOfMutagens int `json:"numberOfMutagens"`

	// F scales the mutation value, typically in (0, 2].
	F float64 `json:"f"`

	// CR is the per-gene crossover probability in [0, 1].
	CR float64 `json:"cr"`
}

// DefaultConfig returns the stock parameters: 20 candidates, 5000 generations,
// 3 mutagens, F = 1 and CR = 0.5.
func DefaultConfig() Config {
	return Config{
		PopulationSize:   20,
		Generations:      5000,
		NumberOfMutagens: 3,
		F:                1,
		CR:               0.5,
	}
}

// ConfigError reports a configuration that cannot start a search.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Field + " " + e.Reason
}

// Is lets errors.Is match any *ConfigError.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}

// ErrInvalidConfig matches every *ConfigError via errors.Is.
var ErrInvalidConfig = &ConfigError{}

// validate checks the fatal configuration errors. Everything else is only
// warned about by warnInconsistent.
func (c Config) validate(factory Factory) error {
	if factory == nil {
		return &ConfigError{Field: "factory", Reason: "is required"}
	}
	if c.PopulationSize <= 0 {
		return &ConfigError{Field: "PopulationSize", Reason: fmt.Sprintf("must be positive, got %d", c.PopulationSize)}
	}
	if c.Generations < 0 {
		return &ConfigError{Field: "Generations", Reason: fmt.Sprintf("cannot be negative, got %d", c.Generations)}
	}
	return nil
}

// warnInconsistent logs parameter combinations that are accepted but produce
// degenerate searches.
func (c Config) warnInconsistent(dimensions int) {
	if c.NumberOfMutagens < 2 {
		slog.Warn("Fewer than two mutagens, mutation values are always zero",
			"number_of_mutagens", c.NumberOfMutagens)
	}
	if c.NumberOfMutagens >= c.PopulationSize {
		slog.Warn("Not enough population members for the requested mutagens",
			"number_of_mutagens", c.NumberOfMutagens,
			"population_size", c.PopulationSize,
			"mutagens_used", max(0, c.PopulationSize-1))
	}
	if dimensions < c.NumberOfMutagens {
		slog.Warn("Genotype shorter than the number of mutagens",
			"dimensions", dimensions,
			"number_of_mutagens", c.NumberOfMutagens)
	}
	if c.CR < 0 || c.CR > 1 {
		slog.Warn("Crossover probability outside [0, 1]", "cr", c.CR)
	}
}
