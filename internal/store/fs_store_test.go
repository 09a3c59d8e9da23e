package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

// setupTestStore creates a temporary directory and returns an FSStore for testing.
func setupTestStore(t *testing.T) (*FSStore, string) {
	t.Helper()

	tempDir := t.TempDir()
	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}

	return store, tempDir
}

// createTestRun creates a run record with test data.
func createTestRun(runID string) *RunRecord {
	return &RunRecord{
		ID:             runID,
		BestGenotype:   []float64{0.01, -0.02, 0.003},
		BestFitness:    0.0234,
		InitialFitness: 12.5621,
		Generations:    500,
		Evaluations:    10020,
		Timestamp:      time.Now(),
		Config: RunConfig{
			Problem:          "sphere",
			Algorithm:        "de",
			Dimensions:       3,
			PopulationSize:   20,
			Generations:      500,
			NumberOfMutagens: 3,
			F:                0.5,
			CR:               0.9,
			Seed:             42,
		},
	}
}

func TestNewFSStore(t *testing.T) {
	tempDir := filepath.Join(t.TempDir(), "nested", "data")

	store, err := NewFSStore(tempDir)
	if err != nil {
		t.Fatalf("NewFSStore failed: %v", err)
	}
	if store == nil {
		t.Fatal("Expected non-nil store")
	}

	if _, err := os.Stat(tempDir); os.IsNotExist(err) {
		t.Fatal("Base directory was not created")
	}
}

func TestFSStore_SaveRun(t *testing.T) {
	store, tempDir := setupTestStore(t)

	if err := store.SaveRun(createTestRun("run-1")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	path := filepath.Join(tempDir, "runs", "run-1", "run.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatalf("run.json not created at %s", path)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temp file should not remain after save")
	}
}

func TestFSStore_SaveRun_InvalidInput(t *testing.T) {
	store, _ := setupTestStore(t)

	if err := store.SaveRun(nil); err == nil {
		t.Error("Expected error for nil record")
	}
	if err := store.SaveRun(&RunRecord{}); err == nil {
		t.Error("Expected error for empty run ID")
	}
}

func TestFSStore_SkipsInvalidDirectories(t *testing.T) {
	store, tempDir := setupTestStore(t)

	if err := store.SaveRun(createTestRun("good")); err != nil {
		t.Fatalf("SaveRun failed: %v", err)
	}

	// Directory without run.json
	os.MkdirAll(filepath.Join(tempDir, "runs", "empty"), 0755)

	// Corrupted run.json
	badDir := filepath.Join(tempDir, "runs", "corrupt")
	os.MkdirAll(badDir, 0755)
	os.WriteFile(filepath.Join(badDir, "run.json"), []byte("{not json"), 0644)

	// Stray file
	os.WriteFile(filepath.Join(tempDir, "runs", "stray.txt"), []byte("x"), 0644)

	infos, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(infos) != 1 || infos[0].ID != "good" {
		t.Errorf("Expected only the good run, got %+v", infos)
	}
}

func TestFSStore_DeleteRemovesHistory(t *testing.T) {
	store, tempDir := setupTestStore(t)

	store.SaveRun(createTestRun("run-h"))
	store.SaveHistory("run-h", []float64{3, 2, 1})

	if err := store.DeleteRun("run-h"); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, "runs", "run-h")); !os.IsNotExist(err) {
		t.Error("Run directory should be removed")
	}
}

func TestFSStore_ConcurrentSave(t *testing.T) {
	store, _ := setupTestStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := store.SaveRun(createTestRun(fmt.Sprintf("run-%d", i))); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Concurrent save failed: %v", err)
	}

	infos, err := store.ListRuns()
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(infos) != 20 {
		t.Errorf("Expected 20 runs, got %d", len(infos))
	}
}
