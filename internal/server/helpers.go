package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/cwbudde/diffevo/internal/de"
	"github.com/cwbudde/diffevo/internal/fit"
	"github.com/cwbudde/diffevo/internal/opt"
)

// jobRequest is the body of POST /api/v1/jobs. Numeric fields are pointers
// so an explicit zero (cr: 0, generations: 0) is kept and only absent keys
// take their defaults.
type jobRequest struct {
	Problem          string   `json:"problem"`
	Algorithm        string   `json:"algorithm"`
	Dimensions       *int     `json:"dimensions"`
	PopulationSize   *int     `json:"populationSize"`
	Generations      *int     `json:"generations"`
	NumberOfMutagens *int     `json:"numberOfMutagens"`
	F                *float64 `json:"f"`
	CR               *float64 `json:"cr"`
	Seed             int64    `json:"seed"`
}

// toJobConfig fills absent fields from de.DefaultConfig and rejects values
// outside their valid range.
func (req jobRequest) toJobConfig() (JobConfig, error) {
	defaults := de.DefaultConfig()

	config := JobConfig{
		Problem:          req.Problem,
		Algorithm:        req.Algorithm,
		PopulationSize:   intOr(req.PopulationSize, defaults.PopulationSize),
		Generations:      intOr(req.Generations, defaults.Generations),
		NumberOfMutagens: intOr(req.NumberOfMutagens, defaults.NumberOfMutagens),
		F:                floatOr(req.F, defaults.F),
		CR:               floatOr(req.CR, defaults.CR),
		Seed:             req.Seed,
	}
	if config.Problem == "" {
		config.Problem = "sphere"
	}
	if config.Algorithm == "" {
		config.Algorithm = "de"
	}

	switch {
	case config.PopulationSize <= 0:
		return config, fmt.Errorf("populationSize must be positive, got %d", config.PopulationSize)
	case config.Generations < 0:
		return config, fmt.Errorf("generations cannot be negative, got %d", config.Generations)
	case config.NumberOfMutagens < 0:
		return config, fmt.Errorf("numberOfMutagens cannot be negative, got %d", config.NumberOfMutagens)
	case config.CR < 0 || config.CR > 1:
		return config, fmt.Errorf("cr must be in [0, 1], got %g", config.CR)
	}

	problem, err := fit.Lookup(config.Problem)
	if err != nil {
		return config, err
	}
	if req.Dimensions != nil {
		config.Dimensions = *req.Dimensions
	} else if problem.FixedDim == 0 {
		config.Dimensions = 2
	}
	if config.Dimensions, err = problem.Dim(config.Dimensions); err != nil {
		return config, err
	}
	if !slices.Contains(opt.Algorithms, config.Algorithm) {
		return config, fmt.Errorf("unknown algorithm: %s (available: %v)", config.Algorithm, opt.Algorithms)
	}
	return config, nil
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

// deConfig extracts the engine parameters of a job
func deConfig(config JobConfig) de.Config {
	return de.Config{
		PopulationSize:   config.PopulationSize,
		Generations:      config.Generations,
		NumberOfMutagens: config.NumberOfMutagens,
		F:                config.F,
		CR:               config.CR,
	}
}

// evalsPerSecond returns the fitness evaluation throughput
func evalsPerSecond(evaluations int, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(evaluations) / elapsed.Seconds()
}

// writeJSON encodes v as the response body with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
