package server

import (
	"context"
	"errors"
	"testing"

	"github.com/cwbudde/diffevo/internal/store"
)

func testJobConfig() JobConfig {
	return JobConfig{
		Problem:          "sphere",
		Algorithm:        "de",
		Dimensions:       2,
		PopulationSize:   10,
		Generations:      20,
		NumberOfMutagens: 3,
		F:                1,
		CR:               0.5,
		Seed:             42,
	}
}

func TestRunJob_Success(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	err := runJob(context.Background(), jm, nil, job.ID)
	if err != nil {
		t.Fatalf("runJob should succeed: %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCompleted {
		t.Errorf("Job should be completed, got %s", updated.State)
	}
	if len(updated.BestGenotype) != 2 {
		t.Errorf("Expected 2 genes, got %d", len(updated.BestGenotype))
	}
	if updated.Generation != 20 {
		t.Errorf("Expected 20 generations, got %d", updated.Generation)
	}
	if len(updated.History) != 20 {
		t.Errorf("Expected 20 history entries, got %d", len(updated.History))
	}
	if updated.BestFitness > updated.InitialFitness {
		t.Errorf("Best fitness %v should not exceed initial %v", updated.BestFitness, updated.InitialFitness)
	}
	if updated.Evaluations != 10+10*20 {
		t.Errorf("Expected %d evaluations, got %d", 10+10*20, updated.Evaluations)
	}
	if updated.EndTime == nil {
		t.Error("EndTime should be set")
	}
}

func TestRunJob_PersistsRun(t *testing.T) {
	runStore, err := store.NewFSStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	if err := runJob(context.Background(), jm, runStore, job.ID); err != nil {
		t.Fatalf("runJob should succeed: %v", err)
	}

	record, err := runStore.LoadRun(job.ID)
	if err != nil {
		t.Fatalf("Run should be persisted: %v", err)
	}
	updated, _ := jm.GetJob(job.ID)
	if record.BestFitness != updated.BestFitness {
		t.Errorf("Stored fitness %v, job fitness %v", record.BestFitness, updated.BestFitness)
	}
	if record.Config.Seed != 42 || record.Config.Dimensions != 2 {
		t.Errorf("Stored config mismatch: %+v", record.Config)
	}

	history, err := runStore.LoadHistory(job.ID)
	if err != nil {
		t.Fatalf("History should be persisted: %v", err)
	}
	if len(history) != 20 {
		t.Errorf("Expected 20 stored history entries, got %d", len(history))
	}
}

func TestRunJob_UnknownProblem(t *testing.T) {
	jm := NewJobManager()
	config := testJobConfig()
	config.Problem = "nonexistent"
	job := jm.CreateJob(config)

	err := runJob(context.Background(), jm, nil, job.ID)
	if err == nil {
		t.Error("runJob should fail with unknown problem")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
	if updated.Error == "" {
		t.Error("Error message should be set")
	}
}

func TestRunJob_InvalidEngineConfig(t *testing.T) {
	jm := NewJobManager()
	config := testJobConfig()
	config.PopulationSize = 0
	job := jm.CreateJob(config)

	if err := runJob(context.Background(), jm, nil, job.ID); err == nil {
		t.Error("runJob should fail with zero population size")
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateFailed {
		t.Errorf("Job should be failed, got %s", updated.State)
	}
}

func TestRunJob_Cancellation(t *testing.T) {
	jm := NewJobManager()
	job := jm.CreateJob(testJobConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runJob(ctx, jm, nil, job.ID)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}

	updated, _ := jm.GetJob(job.ID)
	if updated.State != StateCancelled {
		t.Errorf("Job should be cancelled, got %s", updated.State)
	}
}

func TestRunJob_UnknownJob(t *testing.T) {
	jm := NewJobManager()
	if err := runJob(context.Background(), jm, nil, "missing"); err == nil {
		t.Error("runJob should fail for an unknown job")
	}
}
