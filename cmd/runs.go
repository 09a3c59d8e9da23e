package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/diffevo/internal/store"
	"github.com/spf13/cobra"
)

var (
	keepLast      int
	olderThanDays int
	forceClean    bool
	exportOut     string
	exportFormat  string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored runs",
	Long: `Manage runs saved with "run --save" or by the server, including listing,
exporting their history and cleaning old runs.`,
}

var listRunsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored runs",
	RunE:  runListRuns,
}

var showRunCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runShowRun,
}

var exportRunCmd = &cobra.Command{
	Use:   "export [run-id]",
	Short: "Export the history of a stored run",
	Long: `Writes the per-generation best fitness of a run as JSON lines or as an
Excel workbook. The format defaults to the extension of --out.`,
	Args: cobra.ExactArgs(1),
	RunE: runExportRun,
}

var cleanRunsCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean old runs",
	Long: `Delete old runs based on retention policy.
You can keep only the newest N runs or delete runs older than N days.`,
	RunE: runCleanRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.AddCommand(listRunsCmd)
	runsCmd.AddCommand(showRunCmd)
	runsCmd.AddCommand(exportRunCmd)
	runsCmd.AddCommand(cleanRunsCmd)

	exportRunCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (required)")
	exportRunCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: jsonl or xlsx")
	exportRunCmd.MarkFlagRequired("out")

	cleanRunsCmd.Flags().IntVar(&keepLast, "keep-last", 0, "Keep only the newest N runs (0 = keep all)")
	cleanRunsCmd.Flags().IntVar(&olderThanDays, "older-than", 0, "Delete runs older than N days (0 = no age limit)")
	cleanRunsCmd.Flags().BoolVarP(&forceClean, "force", "f", false, "Skip confirmation prompt")
}

// withStore opens the run store for the duration of fn
func withStore(fn func(store.Store) error) error {
	runStore, err := openStore()
	if err != nil {
		return fmt.Errorf("failed to open run store: %w", err)
	}
	defer store.CloseIfSupported(runStore)
	return fn(runStore)
}

func runListRuns(cmd *cobra.Command, args []string) error {
	return withStore(func(runStore store.Store) error {
		infos, err := runStore.ListRuns()
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		writeRunTable(cmd.OutOrStdout(), infos)
		return nil
	})
}

// writeRunTable prints run metadata as an aligned table
func writeRunTable(out io.Writer, infos []store.RunInfo) {
	if len(infos) == 0 {
		fmt.Fprintln(out, "No runs found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tTIMESTAMP\tPROBLEM\tALGORITHM\tDIM\tGENERATIONS\tBEST FITNESS")
	fmt.Fprintln(w, "------\t---------\t-------\t---------\t---\t-----------\t------------")

	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%g\n",
			shortID(info.ID),
			info.Timestamp.Format("2006-01-02 15:04:05"),
			info.Problem,
			info.Algorithm,
			info.Dimensions,
			info.Generations,
			info.BestFitness,
		)
	}

	w.Flush()
	fmt.Fprintf(out, "\nTotal runs: %d\n", len(infos))
}

func runShowRun(cmd *cobra.Command, args []string) error {
	return withStore(func(runStore store.Store) error {
		record, err := runStore.LoadRun(args[0])
		if err != nil {
			return err
		}
		history, err := runStore.LoadHistory(args[0])
		if err != nil {
			slog.Warn("Run has no stored history", "run_id", args[0], "error", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Run:           %s (%s)\n", record.ID, record.Timestamp.Format(time.RFC3339))
		printRecord(out, record, history)
		return nil
	})
}

func runExportRun(cmd *cobra.Command, args []string) error {
	format, err := resolveExportFormat(exportFormat, exportOut)
	if err != nil {
		return err
	}

	return withStore(func(runStore store.Store) error {
		record, err := runStore.LoadRun(args[0])
		if err != nil {
			return err
		}
		history, err := runStore.LoadHistory(args[0])
		if err != nil {
			return err
		}

		switch format {
		case "xlsx":
			err = store.ExportHistoryXLSX(exportOut, record, history)
		default:
			err = exportHistoryJSONL(exportOut, history)
		}
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d generations to %s\n", len(history), exportOut)
		return nil
	})
}

// resolveExportFormat picks the export format from the flag or the file extension
func resolveExportFormat(format, path string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "xlsx":
		return "xlsx", nil
	case "jsonl", "json", "":
		return "jsonl", nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (use jsonl or xlsx)", format)
	}
}

// exportHistoryJSONL writes one trace entry per generation
func exportHistoryJSONL(path string, history []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for i, fitness := range history {
		if err := enc.Encode(store.TraceEntry{Generation: i + 1, BestFitness: fitness}); err != nil {
			return fmt.Errorf("failed to write entry %d: %w", i+1, err)
		}
	}
	return f.Close()
}

func runCleanRuns(cmd *cobra.Command, args []string) error {
	// Validate flags
	if keepLast == 0 && olderThanDays == 0 {
		return fmt.Errorf("must specify either --keep-last or --older-than")
	}

	return withStore(func(runStore store.Store) error {
		infos, err := runStore.ListRuns()
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}

		toDelete := selectRunsForDeletion(infos, keepLast, olderThanDays, time.Now())
		if len(toDelete) == 0 {
			fmt.Println("No runs match deletion criteria.")
			return nil
		}

		// Show what will be deleted
		fmt.Printf("Found %d run(s) to delete:\n", len(toDelete))
		for _, info := range toDelete {
			fmt.Printf("  - %s (%s, best %g, %s)\n",
				shortID(info.ID),
				info.Problem,
				info.BestFitness,
				info.Timestamp.Format("2006-01-02 15:04:05"),
			)
		}

		// Ask for confirmation unless --force is set
		if !forceClean {
			fmt.Print("\nProceed with deletion? [y/N]: ")
			var response string
			fmt.Scanln(&response)
			if response != "y" && response != "Y" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		deleted, failed := 0, 0
		for _, info := range toDelete {
			if err := runStore.DeleteRun(info.ID); err != nil {
				slog.Error("Failed to delete run", "run_id", info.ID, "error", err)
				failed++
			} else {
				slog.Info("Deleted run", "run_id", info.ID)
				deleted++
			}
		}

		fmt.Printf("\nDeleted %d run(s), %d failed.\n", deleted, failed)
		return nil
	})
}

// selectRunsForDeletion applies the retention policy: runs older than
// olderThanDays are deleted, and only the newest keepLast runs are kept.
// Zero disables a rule. The result is ordered oldest first.
func selectRunsForDeletion(infos []store.RunInfo, keepLast, olderThanDays int, now time.Time) []store.RunInfo {
	sorted := make([]store.RunInfo, len(infos))
	copy(sorted, infos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	cutoff := now.AddDate(0, 0, -olderThanDays)
	excess := 0
	if keepLast > 0 && len(sorted) > keepLast {
		excess = len(sorted) - keepLast
	}

	var toDelete []store.RunInfo
	for i, info := range sorted {
		tooOld := olderThanDays > 0 && info.Timestamp.Before(cutoff)
		if tooOld || i < excess {
			toDelete = append(toDelete, info)
		}
	}
	return toDelete
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "..."
	}
	return id
}
