package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/diffevo/internal/fit"
	"github.com/cwbudde/diffevo/internal/opt"
	"github.com/cwbudde/diffevo/internal/store"
)

// progressInterval throttles progress broadcasts to 2 updates per second
var progressInterval = 500 * time.Millisecond

// runJob executes a search job in the background.
// If runStore is not nil, the finished run and its history are persisted.
func runJob(ctx context.Context, jm *JobManager, runStore store.Store, jobID string) error {
	job, exists := jm.GetJob(jobID)
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	err := jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateRunning
	})
	if err != nil {
		return err
	}

	slog.Info("Starting job", "job_id", jobID, "problem", job.Config.Problem, "algorithm", job.Config.Algorithm)

	problem, err := fit.Lookup(job.Config.Problem)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	optimizer, err := opt.New(job.Config.Algorithm, deConfig(job.Config), job.Config.Seed)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}

	if reporter, ok := optimizer.(opt.ProgressReporter); ok {
		reporter.SetProgress(func(generation int, bestCost float64) {
			jm.UpdateJob(jobID, func(j *Job) {
				j.Generation = generation
				j.BestFitness = bestCost
				j.History = append(j.History, bestCost)
			})
		})
	}

	// Check for cancellation before starting expensive operation
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	start := time.Now()
	progressDone := make(chan struct{})
	go monitorProgress(ctx, jm, jobID, start, progressDone)

	result, err := fit.Optimize(problem, optimizer, job.Config.Dimensions)
	close(progressDone)
	if err != nil {
		markJobFailed(jm, jobID, err)
		return err
	}
	elapsed := time.Since(start)

	// Check for cancellation after optimization
	select {
	case <-ctx.Done():
		markJobCancelled(jm, jobID)
		return ctx.Err()
	default:
	}

	endTime := time.Now()
	err = jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCompleted
		j.Config.Dimensions = result.Dimensions
		j.BestGenotype = result.BestParams
		j.BestFitness = result.BestCost
		j.InitialFitness = result.InitialCost
		j.Generation = result.Iterations
		j.History = append([]float64(nil), result.History...)
		j.Evaluations = result.Evaluations
		j.EndTime = &endTime
	})
	if err != nil {
		return err
	}

	eps := evalsPerSecond(result.Evaluations, elapsed)
	slog.Info("Job completed",
		"job_id", jobID,
		"elapsed", elapsed,
		"initial_fitness", result.InitialCost,
		"best_fitness", result.BestCost,
		"evaluations_per_second", eps,
	)

	if runStore != nil {
		cfg := job.Config
		cfg.Dimensions = result.Dimensions
		if err := persistRun(runStore, jobID, cfg, result, elapsed); err != nil {
			slog.Error("Failed to persist run", "job_id", jobID, "error", err)
			jm.UpdateJob(jobID, func(j *Job) {
				j.Error = fmt.Sprintf("run not saved: %v", err)
			})
		}
	}

	broadcastSnapshot(jm, jobID, eps)

	return nil
}

// monitorProgress periodically broadcasts progress events during optimization
func monitorProgress(ctx context.Context, jm *JobManager, jobID string, startTime time.Time, done chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			job, exists := jm.GetJob(jobID)
			if !exists {
				return
			}

			// Each generation evaluates one trial per population member
			evals := job.Generation * job.Config.PopulationSize
			jm.broadcaster.Broadcast(snapshotEvent(job, evalsPerSecond(evals, time.Since(startTime))))
		}
	}
}

// persistRun stores the finished run and its history
func persistRun(runStore store.Store, jobID string, cfg JobConfig, result *fit.OptimizationResult, elapsed time.Duration) error {
	record := store.NewRunRecord(jobID, result.BestParams, result.BestCost, result.InitialCost, result.Iterations, cfg)
	record.Evaluations = result.Evaluations
	record.Duration = elapsed

	if err := store.SaveRunAndHistory(runStore, record, result.History); err != nil {
		return err
	}

	slog.Info("Run saved", "job_id", jobID, "best_fitness", result.BestCost)
	return nil
}

// markJobFailed marks a job as failed with an error message
func markJobFailed(jm *JobManager, jobID string, err error) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateFailed
		j.Error = err.Error()
		j.EndTime = &endTime
	})
	broadcastSnapshot(jm, jobID, 0)
	slog.Error("Job failed", "job_id", jobID, "error", err)
}

// markJobCancelled marks a job as cancelled
func markJobCancelled(jm *JobManager, jobID string) {
	endTime := time.Now()
	jm.UpdateJob(jobID, func(j *Job) {
		j.State = StateCancelled
		j.EndTime = &endTime
	})
	broadcastSnapshot(jm, jobID, 0)
	slog.Info("Job cancelled", "job_id", jobID)
}

// broadcastSnapshot sends the current state of a job to its stream subscribers
func broadcastSnapshot(jm *JobManager, jobID string, eps float64) {
	if job, exists := jm.GetJob(jobID); exists {
		jm.broadcaster.Broadcast(snapshotEvent(job, eps))
	}
}
