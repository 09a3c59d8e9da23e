package opt

import (
	"fmt"

	"github.com/cwbudde/diffevo/internal/de"
)

// Algorithms lists the names accepted by New
var Algorithms = []string{"de", "mayfly"}

// New creates the optimizer named by algorithm. The DE config doubles as the
// population size and iteration budget of the other algorithms.
func New(algorithm string, config de.Config, seed int64) (Optimizer, error) {
	switch algorithm {
	case "", "de":
		return NewDifferentialEvolution(config, seed), nil
	case "mayfly":
		return NewMayfly(config.Generations, config.PopulationSize, seed), nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (available: %v)", algorithm, Algorithms)
	}
}
