package main

import (
	"fmt"

	"github.com/cwbudde/diffevo/internal/store"
	"github.com/spf13/cobra"
)

var (
	rerunSeedBest bool
	rerunSave     bool
)

var rerunCmd = &cobra.Command{
	Use:   "rerun [run-id]",
	Short: "Repeat a stored run",
	Long: `Runs a search again with the configuration of a stored run.
With the stored seed the result is reproduced exactly. --seed-best places the
stored best genotype into the initial population to continue from it.`,
	Args: cobra.ExactArgs(1),
	RunE: runRerun,
}

func init() {
	addRerunFlags(rerunCmd)
	rootCmd.AddCommand(rerunCmd)
}

func addRerunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&rerunSeedBest, "seed-best", false, "Seed the initial population with the stored best genotype")
	cmd.Flags().Int("generations", 0, "Override the number of generations (default: stored value)")
	cmd.Flags().Int64("seed", 0, "Override the random seed (default: stored value)")
	cmd.Flags().BoolVar(&rerunSave, "save", false, "Save the new run to the run store")
}

// applyRerunOverrides replaces stored settings with the flags given on the
// command line. Zero is a valid override for both.
func applyRerunOverrides(cmd *cobra.Command, config store.RunConfig) (store.RunConfig, error) {
	flags := cmd.Flags()
	if flags.Changed("generations") {
		generations, err := flags.GetInt("generations")
		if err != nil {
			return config, err
		}
		if generations < 0 {
			return config, fmt.Errorf("--generations must be non-negative, got %d", generations)
		}
		config.Generations = generations
	}
	if flags.Changed("seed") {
		seed, err := flags.GetInt64("seed")
		if err != nil {
			return config, err
		}
		config.Seed = seed
	}
	return config, nil
}

func runRerun(cmd *cobra.Command, args []string) error {
	runStore, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	previous, err := runStore.LoadRun(args[0])
	closeErr := store.CloseIfSupported(runStore)
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	config, err := applyRerunOverrides(cmd, previous.Config)
	if err != nil {
		return err
	}

	var initial [][]float64
	if rerunSeedBest {
		initial = [][]float64{previous.BestGenotype}
	}

	record, history, err := executeRun(config, initial)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printRecord(out, record, history)
	fmt.Fprintf(out, "Previous best: %g (run %s)\n", previous.BestFitness, previous.ID)
	return finishRun(out, record, history, rerunSave, "")
}
