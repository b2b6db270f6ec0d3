package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/dtcscan/internal/parser"
	"github.com/dgallion1/dtcscan/internal/pipeline"
	"github.com/dgallion1/dtcscan/internal/sheet"
	"github.com/go-chi/chi/v5"
)

// uploadError is a rejected upload with the status to report.
type uploadError struct {
	msg  string
	code int
}

func (e *uploadError) Error() string { return e.msg }

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	// Report plus two datasets, with extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, 3*s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	reports := r.MultipartForm.File["report"]
	if len(reports) == 0 {
		jsonError(w, "report is required", http.StatusBadRequest)
		return
	}
	report, uerr := s.readUpload(reports[0], parser.IsSupportedExtension)
	if uerr != nil {
		jsonError(w, uerr.msg, uerr.code)
		return
	}

	reference, tracker, uerr := s.readDatasets(r.MultipartForm)
	if uerr != nil {
		jsonError(w, uerr.msg, uerr.code)
		return
	}

	job := pipeline.NewJob(pipeline.Input{Report: *report, Reference: reference, Tracker: tracker})
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(jobLinks(job))
}

func (s *Server) handleBatchAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*12+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["reports"]
	if len(files) == 0 {
		jsonError(w, "at least one report is required", http.StatusBadRequest)
		return
	}

	// Datasets are shared by every report in the batch.
	reference, tracker, uerr := s.readDatasets(r.MultipartForm)
	if uerr != nil {
		jsonError(w, uerr.msg, uerr.code)
		return
	}

	batchID := pipeline.NewJobID()
	results := make([]map[string]any, 0, len(files))
	for _, fh := range files {
		report, uerr := s.readUpload(fh, parser.IsSupportedExtension)
		if uerr != nil {
			results = append(results, map[string]any{
				"filename": sanitizeFilename(fh.Filename),
				"error":    uerr.msg,
			})
			continue
		}

		job := pipeline.NewJob(pipeline.Input{Report: *report, Reference: reference, Tracker: tracker})
		job.BatchID = batchID
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": report.Filename,
				"error":    err.Error(),
			})
			continue
		}
		results = append(results, jobLinks(job))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{"batch_id": batchID, "jobs": results})
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// readDatasets reads the optional reference and tracker uploads.
func (s *Server) readDatasets(form *multipart.Form) (reference, tracker *pipeline.File, uerr *uploadError) {
	if fhs := form.File["reference"]; len(fhs) > 0 {
		if reference, uerr = s.readUpload(fhs[0], sheet.IsSupportedExtension); uerr != nil {
			uerr.msg = "reference: " + uerr.msg
			return nil, nil, uerr
		}
	}
	if fhs := form.File["tracker"]; len(fhs) > 0 {
		if tracker, uerr = s.readUpload(fhs[0], sheet.IsSupportedExtension); uerr != nil {
			uerr.msg = "tracker: " + uerr.msg
			return nil, nil, uerr
		}
	}
	return reference, tracker, nil
}

func (s *Server) readUpload(fh *multipart.FileHeader, supported func(string) bool) (*pipeline.File, *uploadError) {
	filename := sanitizeFilename(fh.Filename)
	if !supported(filename) {
		return nil, &uploadError{fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &uploadError{"failed to open file", http.StatusBadRequest}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, &uploadError{"failed to read file", http.StatusInternalServerError}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, &uploadError{fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge}
	}
	return &pipeline.File{Filename: filename, Data: data}, nil
}

func jobLinks(job *pipeline.Job) map[string]any {
	snap := job.Snapshot()
	links := map[string]any{
		"job_id":      snap.ID,
		"filename":    snap.Filename,
		"status":      snap.Status,
		"poll_url":    fmt.Sprintf("/api/analyze/%s/status", snap.ID),
		"records_url": fmt.Sprintf("/api/analyze/%s/records", snap.ID),
	}
	if snap.BatchID != "" {
		links["batch_id"] = snap.BatchID
	}
	return links
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
