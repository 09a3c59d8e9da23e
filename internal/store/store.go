package store

import "fmt"

// Store defines the interface for run persistence.
// Implementations must be safe for concurrent use.
//
// Error handling conventions:
//   - Return ErrNotFound if the run doesn't exist (for Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveRun stores a finished run, overwriting any run with the same ID.
	SaveRun(record *RunRecord) error

	// LoadRun retrieves a run by ID.
	LoadRun(runID string) (*RunRecord, error)

	// ListRuns returns metadata for all stored runs, oldest first.
	ListRuns() ([]RunInfo, error)

	// DeleteRun removes the run and its history.
	DeleteRun(runID string) error

	// SaveHistory stores the best fitness per generation of a run,
	// replacing any previous history.
	SaveHistory(runID string, history []float64) error

	// LoadHistory returns the stored history of a run.
	LoadHistory(runID string) ([]float64, error)
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "run not found: " + e.RunID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// SaveRunAndHistory persists a finished run together with its history.
// Backends that can do both in one transaction do so; otherwise the history
// is written first, so a listed run always has its history.
func SaveRunAndHistory(s Store, record *RunRecord, history []float64) error {
	if record == nil {
		return fmt.Errorf("run record cannot be nil")
	}
	if atomic, ok := s.(interface {
		SaveRunWithHistory(*RunRecord, []float64) error
	}); ok {
		return atomic.SaveRunWithHistory(record, history)
	}

	if err := s.SaveHistory(record.ID, history); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	if err := s.SaveRun(record); err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}
