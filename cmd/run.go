package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cwbudde/diffevo/internal/de"
	"github.com/cwbudde/diffevo/internal/fit"
	"github.com/cwbudde/diffevo/internal/opt"
	"github.com/cwbudde/diffevo/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	problemName string
	algorithm   string
	dims        int
	popSize     int
	generations int
	mutagens    int
	weight      float64
	crossRate   float64
	seed        int64
	saveRun     bool
	xlsxPath    string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single search",
	Long: `Minimizes a benchmark problem and prints the best genotype and its fitness.
With --save the run and its per-generation history are written to the run store.`,
	RunE: runSearch,
}

func init() {
	defaults := de.DefaultConfig()

	runCmd.Flags().StringVar(&problemName, "problem", "sphere", fmt.Sprintf("Problem to minimize %v", fit.Names()))
	runCmd.Flags().StringVar(&algorithm, "algorithm", "de", fmt.Sprintf("Optimizer %v", opt.Algorithms))
	runCmd.Flags().IntVar(&dims, "dims", 2, "Number of dimensions (ignored for fixed-dimension problems)")
	runCmd.Flags().IntVar(&popSize, "pop", defaults.PopulationSize, "Population size")
	runCmd.Flags().IntVar(&generations, "generations", 200, "Number of generations")
	runCmd.Flags().IntVar(&mutagens, "mutagens", defaults.NumberOfMutagens, "Number of mutagens per trial")
	runCmd.Flags().Float64Var(&weight, "f", defaults.F, "Differential weight F")
	runCmd.Flags().Float64Var(&crossRate, "cr", defaults.CR, "Crossover rate CR")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "Save the run to the run store")
	runCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also export the history to this .xlsx file")

	rootCmd.AddCommand(runCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	config := store.RunConfig{
		Problem:          problemName,
		Algorithm:        algorithm,
		Dimensions:       dims,
		PopulationSize:   popSize,
		Generations:      generations,
		NumberOfMutagens: mutagens,
		F:                weight,
		CR:               crossRate,
		Seed:             seed,
	}

	record, history, err := executeRun(config, nil)
	if err != nil {
		return err
	}

	printRecord(cmd.OutOrStdout(), record, history)
	return finishRun(cmd.OutOrStdout(), record, history, saveRun, xlsxPath)
}

// executeRun performs one search described by config. initial genotypes, if
// any, seed the leading slots of the DE population.
func executeRun(config store.RunConfig, initial [][]float64) (*store.RunRecord, []float64, error) {
	problem, err := fit.Lookup(config.Problem)
	if err != nil {
		return nil, nil, err
	}

	optimizer, err := opt.New(config.Algorithm, de.Config{
		PopulationSize:   config.PopulationSize,
		Generations:      config.Generations,
		NumberOfMutagens: config.NumberOfMutagens,
		F:                config.F,
		CR:               config.CR,
	}, config.Seed)
	if err != nil {
		return nil, nil, err
	}

	if len(initial) > 0 {
		seeder, ok := optimizer.(interface{ SetInitialGenotypes(...[]float64) })
		if !ok {
			return nil, nil, fmt.Errorf("algorithm %s does not accept initial genotypes", optimizer.Name())
		}
		seeder.SetInitialGenotypes(initial...)
	}

	start := time.Now()
	result, err := fit.Optimize(problem, optimizer, config.Dimensions)
	if err != nil {
		return nil, nil, err
	}
	elapsed := time.Since(start)

	config.Dimensions = result.Dimensions
	record := store.NewRunRecord(uuid.New().String(), result.BestParams, result.BestCost, result.InitialCost, result.Iterations, config)
	record.Evaluations = result.Evaluations
	record.Duration = elapsed

	slog.Info("Run complete",
		"run_id", record.ID,
		"elapsed", elapsed,
		"best_fitness", result.BestCost,
		"converged_at", result.Convergence.ConvergedAt,
	)

	return record, result.History, nil
}

// finishRun persists and exports a finished run as requested
func finishRun(w io.Writer, record *store.RunRecord, history []float64, save bool, xlsx string) error {
	if save {
		runStore, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open run store: %w", err)
		}
		defer store.CloseIfSupported(runStore)

		if err := store.SaveRunAndHistory(runStore, record, history); err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved run %s\n", record.ID)
	}

	if xlsx != "" {
		if err := store.ExportHistoryXLSX(xlsx, record, history); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", xlsx)
	}
	return nil
}

// printRecord writes a human-readable summary of a run
func printRecord(w io.Writer, record *store.RunRecord, history []float64) {
	cfg := record.Config
	fmt.Fprintf(w, "Problem:       %s (%d dimensions, %s)\n", cfg.Problem, cfg.Dimensions, cfg.Algorithm)
	fmt.Fprintf(w, "Parameters:    pop=%d generations=%d mutagens=%d F=%g CR=%g seed=%d\n",
		cfg.PopulationSize, cfg.Generations, cfg.NumberOfMutagens, cfg.F, cfg.CR, cfg.Seed)
	fmt.Fprintf(w, "Best genotype: %v\n", record.BestGenotype)
	fmt.Fprintf(w, "Best fitness:  %g (initial %g)\n", record.BestFitness, record.InitialFitness)
	if record.Evaluations > 0 {
		fmt.Fprintf(w, "Evaluations:   %d in %s\n", record.Evaluations, record.Duration.Round(time.Millisecond))
	}

	if len(history) > 0 {
		summary := fit.SummarizeHistory(history, fit.DefaultConvergenceConfig())
		fmt.Fprintf(w, "History:       %d generations, %g -> %g", len(history), history[0], history[len(history)-1])
		if summary.ConvergedAt > 0 {
			fmt.Fprintf(w, ", plateau from generation %d", summary.ConvergedAt)
		}
		fmt.Fprintln(w)
	}
}
