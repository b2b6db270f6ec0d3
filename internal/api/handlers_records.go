package api

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/dtcscan/internal/pipeline"
	"github.com/dgallion1/dtcscan/internal/render"
	"github.com/go-chi/chi/v5"
)

// handleRecords exports the records of a finished job.
func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	snap := job.Snapshot()
	switch {
	case !snap.Status.Done():
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	case snap.Status == pipeline.StatusFailed:
		jsonError(w, "job failed: "+strings.Join(snap.Progress.Errors, "; "), http.StatusConflict)
		return
	}

	title := snap.Title
	if title == "" {
		title = snap.Filename
	}

	var buf bytes.Buffer
	if err := render.Write(&buf, format, title, job.Records()); err != nil {
		s.log.Error("render failed", "job_id", jobID, "format", format, "error", err)
		jsonError(w, "failed to render records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format == render.FormatCSV {
		name := strings.TrimSuffix(snap.Filename, filepath.Ext(snap.Filename)) + ".csv"
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	}
	w.Write(buf.Bytes())
}
