package store

import (
	"fmt"
	"time"
)

// RunConfig holds the configuration of a search (stored copy).
// This avoids import cycles with the server package.
type RunConfig struct {
	Problem          string  `json:"problem"`
	Algorithm        string  `json:"algorithm"` // de, mayfly
	Dimensions       int     `json:"dimensions"`
	PopulationSize   int     `json:"populationSize"`
	Generations      int     `json:"generations"`
	NumberOfMutagens int     `json:"numberOfMutagens"`
	F                float64 `json:"f"`
	CR               float64 `json:"cr"`
	Seed             int64   `json:"seed"`
}

// RunRecord is the persisted outcome of a finished search.
//
// The record keeps the best genotype and the configuration, not the final
// population. Re-running a record with the same seed reproduces it exactly;
// seeding the best genotype into a new run continues from it.
type RunRecord struct {
	// ID is the unique identifier for this run
	ID string `json:"id"`

	// BestGenotype is the genotype with the lowest fitness found
	BestGenotype []float64 `json:"bestGenotype"`

	// BestFitness is the fitness of BestGenotype
	BestFitness float64 `json:"bestFitness"`

	// InitialFitness is the best fitness of the initial population
	InitialFitness float64 `json:"initialFitness"`

	// Generations is the number of generations completed
	Generations int `json:"generations"`

	// Evaluations counts fitness evaluations
	Evaluations int `json:"evaluations"`

	// Duration is the wall time of the search
	Duration time.Duration `json:"duration"`

	// Timestamp records when the run finished
	Timestamp time.Time `json:"timestamp"`

	Config RunConfig `json:"config"`
}

// RunInfo contains metadata about a run without the genotype.
type RunInfo struct {
	ID          string    `json:"id"`
	Problem     string    `json:"problem"`
	Algorithm   string    `json:"algorithm"`
	Dimensions  int       `json:"dimensions"`
	BestFitness float64   `json:"bestFitness"`
	Generations int       `json:"generations"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewRunRecord creates a run record stamped with the current time.
func NewRunRecord(id string, bestGenotype []float64, bestFitness, initialFitness float64, generations int, config RunConfig) *RunRecord {
	return &RunRecord{
		ID:             id,
		BestGenotype:   bestGenotype,
		BestFitness:    bestFitness,
		InitialFitness: initialFitness,
		Generations:    generations,
		Timestamp:      time.Now(),
		Config:         config,
	}
}

// ToInfo converts a full RunRecord to RunInfo (metadata only).
func (r *RunRecord) ToInfo() RunInfo {
	return RunInfo{
		ID:          r.ID,
		Problem:     r.Config.Problem,
		Algorithm:   r.Config.Algorithm,
		Dimensions:  r.Config.Dimensions,
		BestFitness: r.BestFitness,
		Generations: r.Generations,
		Timestamp:   r.Timestamp,
	}
}

// Validate checks if the record has valid data.
func (r *RunRecord) Validate() error {
	if r.ID == "" {
		return &ValidationError{Field: "ID", Reason: "cannot be empty"}
	}
	if len(r.BestGenotype) == 0 {
		return &ValidationError{Field: "BestGenotype", Reason: "cannot be empty"}
	}
	if r.Generations < 0 {
		return &ValidationError{Field: "Generations", Reason: "cannot be negative"}
	}
	if r.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "cannot be zero"}
	}
	if r.Config.Problem == "" {
		return &ValidationError{Field: "Config.Problem", Reason: "cannot be empty"}
	}
	if r.Config.Algorithm == "" {
		return &ValidationError{Field: "Config.Algorithm", Reason: "cannot be empty"}
	}
	if r.Config.PopulationSize <= 0 {
		return &ValidationError{Field: "Config.PopulationSize", Reason: "must be positive"}
	}
	if r.Config.Dimensions > 0 && len(r.BestGenotype) != r.Config.Dimensions {
		return &ValidationError{
			Field:  "BestGenotype",
			Reason: fmt.Sprintf("length mismatch: expected %d genes", r.Config.Dimensions),
		}
	}
	return nil
}

// ValidationError represents a run record validation error.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Field + " " + e.Reason
}
