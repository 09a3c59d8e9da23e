package server

import (
	"net/http"

	"github.com/cwbudde/diffevo/internal/ui"
)

// handleIndex handles GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	// Only handle exact root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	jobs := s.jobManager.ListJobs()
	items := make([]ui.RunListItem, len(jobs))
	for i, job := range jobs {
		items[i] = ui.RunListItem{
			ID:          job.ID,
			State:       string(job.State),
			Problem:     job.Config.Problem,
			Algorithm:   job.Config.Algorithm,
			Dimensions:  job.Config.Dimensions,
			Generation:  job.Generation,
			Generations: job.Config.Generations,
			BestFitness: job.BestFitness,
			StartTime:   job.StartTime,
			EndTime:     job.EndTime,
			Error:       job.Error,
		}
	}

	if err := ui.RunList(items).Render(r.Context(), w); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
}
