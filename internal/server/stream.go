package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// streamKeepAlive is the idle interval after which a comment line is sent
var streamKeepAlive = 30 * time.Second

// ProgressEvent is a snapshot of a search sent to stream subscribers
type ProgressEvent struct {
	JobID       string    `json:"jobId"`
	State       JobState  `json:"state"`
	Generation  int       `json:"generation"`
	Generations int       `json:"generations"`
	BestFitness float64   `json:"bestFitness"`
	EPS         float64   `json:"eps"` // fitness evaluations per second
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Final reports whether the job has stopped, so no event follows this one
func (e ProgressEvent) Final() bool {
	switch e.State {
	case StateCompleted, StateFailed, StateCancelled:
		return true
	}
	return false
}

// snapshotEvent describes the current state of job
func snapshotEvent(job *Job, eps float64) ProgressEvent {
	return ProgressEvent{
		JobID:       job.ID,
		State:       job.State,
		Generation:  job.Generation,
		Generations: job.Config.Generations,
		BestFitness: job.BestFitness,
		EPS:         eps,
		Error:       job.Error,
		Timestamp:   time.Now(),
	}
}

// EventBroadcaster fans progress events out to the stream subscribers of
// each job. The latest event per job is replayed to new subscribers.
type EventBroadcaster struct {
	mu     sync.Mutex
	subs   map[string]map[chan ProgressEvent]struct{}
	latest map[string]ProgressEvent
}

func NewEventBroadcaster() *EventBroadcaster {
	return &EventBroadcaster{
		subs:   make(map[string]map[chan ProgressEvent]struct{}),
		latest: make(map[string]ProgressEvent),
	}
}

// Subscribe registers a buffered channel for the events of jobID
func (eb *EventBroadcaster) Subscribe(jobID string) chan ProgressEvent {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan ProgressEvent, 10)
	if eb.subs[jobID] == nil {
		eb.subs[jobID] = make(map[chan ProgressEvent]struct{})
	}
	eb.subs[jobID][ch] = struct{}{}

	if last, ok := eb.latest[jobID]; ok {
		ch <- last
	}

	slog.Debug("Stream subscribed", "job_id", jobID, "subscribers", len(eb.subs[jobID]))
	return ch
}

// Unsubscribe removes and closes ch. It is a no-op once CleanupJob ran.
func (eb *EventBroadcaster) Unsubscribe(jobID string, ch chan ProgressEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs, ok := eb.subs[jobID]
	if !ok {
		return
	}
	if _, ok := subs[ch]; !ok {
		return
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(eb.subs, jobID)
	}
}

// Broadcast records event as the latest of its job and offers it to every
// subscriber. A subscriber with a full buffer misses it and catches up with
// the next snapshot.
func (eb *EventBroadcaster) Broadcast(event ProgressEvent) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.latest[event.JobID] = event

	for ch := range eb.subs[event.JobID] {
		select {
		case ch <- event:
		default:
			slog.Debug("Stream subscriber behind, event dropped", "job_id", event.JobID, "generation", event.Generation)
		}
	}
}

// CleanupJob closes all subscriptions of jobID and forgets its latest event
func (eb *EventBroadcaster) CleanupJob(jobID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	for ch := range eb.subs[jobID] {
		close(ch)
	}
	delete(eb.subs, jobID)
	delete(eb.latest, jobID)
}

// handleJobStream handles GET /api/v1/jobs/:id/stream as server-sent events.
// It opens with a snapshot of the job and ends after the final event.
func (s *Server) handleJobStream(w http.ResponseWriter, r *http.Request, jobID string) {
	job, exists := s.jobManager.GetJob(jobID)
	if !exists {
		http.Error(w, "Job not found", http.StatusNotFound)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events := s.jobManager.broadcaster.Subscribe(jobID)
	defer s.jobManager.broadcaster.Unsubscribe(jobID, events)

	// Read the job again so no update between lookup and subscribe is lost
	if current, ok := s.jobManager.GetJob(jobID); ok {
		job = current
	}
	sent := snapshotEvent(job, 0)
	if err := writeSSEEvent(w, sent); err != nil {
		slog.Error("Failed to write stream event", "job_id", jobID, "error", err)
		return
	}
	flusher.Flush()
	if sent.Final() {
		return
	}

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			slog.Debug("Stream client disconnected", "job_id", jobID)
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			// The replayed latest event can predate the opening snapshot
			if event.Timestamp.Before(sent.Timestamp) {
				continue
			}
			if err := writeSSEEvent(w, event); err != nil {
				slog.Error("Failed to write stream event", "job_id", jobID, "error", err)
				return
			}
			flusher.Flush()
			sent = event
			if event.Final() {
				return
			}

		case <-keepAlive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

// writeSSEEvent writes one "progress" event, using the generation as its id
func writeSSEEvent(w io.Writer, event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "event: progress\nid: %d\ndata: %s\n\n", event.Generation, data)
	return err
}
