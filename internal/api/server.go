package api

import (
	"encoding/json"
	"errors"
	"io/ioutil"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/example/bgcoach/internal/coach"
	"github.com/example/bgcoach/internal/progress"
	"github.com/example/bgcoach/internal/recorder"
	"github.com/example/bgcoach/internal/report"
	"github.com/example/bgcoach/pkg/models"
)

// Server is the local HTTP ingress for the external collaborators: the
// error-detection pipeline posts detected errors, the lesson UI posts
// completions, and the learner-facing surface pulls statistics, due items
// and data exports.
type Server struct {
	store    *progress.Store
	coach    *coach.Controller
	recorder *recorder.Recorder
	reporter *report.Exporter
}

// New creates an API server over the given components
func New(store *progress.Store, controller *coach.Controller, rec *recorder.Recorder, reporter *report.Exporter) *Server {
	return &Server{
		store:    store,
		coach:    controller,
		recorder: rec,
		reporter: reporter,
	}
}

// Handler returns the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/errors", s.handleErrors)
	mux.HandleFunc("/lessons/complete", s.handleLessonComplete)
	mux.HandleFunc("/drills/result", s.handleDrillResult)
	mux.HandleFunc("/progress/due", s.handleDue)
	mux.HandleFunc("/progress/warmup", s.handleWarmup)
	mux.HandleFunc("/progress/statistics", s.handleStatistics)
	mux.HandleFunc("/progress/export", s.handleExport)
	mux.HandleFunc("/progress/import", s.handleImport)
	mux.HandleFunc("/progress/reset", s.handleReset)
	mux.HandleFunc("/progress/report", s.handleReport)
	return mux
}

type errorRequest struct {
	Pattern       string            `json:"pattern"`
	UserText      string            `json:"user_text"`
	CorrectedText string            `json:"corrected_text"`
	Confidence    float64           `json:"confidence"`
	Context       map[string]string `json:"context,omitempty"`
}

// handleErrors is the single inbound call for the speech/grammar pipeline
func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req errorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	event := s.coach.RecordError(req.Pattern, req.UserText, req.CorrectedText, req.Confidence, req.Context)
	writeJSON(w, http.StatusCreated, event)
}

type lessonCompleteRequest struct {
	LessonID      string                `json:"lesson_id"`
	AccuracyScore float64               `json:"accuracy_score"`
	TimeSpentMs   int64                 `json:"time_spent_ms"`
	DrillResults  []models.DrillOutcome `json:"drill_results,omitempty"`
}

func (s *Server) handleLessonComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req lessonCompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.LessonID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.recorder.Commit(req.LessonID, req.AccuracyScore, req.TimeSpentMs, req.DrillResults); err != nil {
		log.Printf("Error committing lesson %s: %v", req.LessonID, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

type drillResultRequest struct {
	ItemID         string `json:"item_id"`
	DrillType      string `json:"drill_type"`
	UserAnswer     string `json:"user_answer"`
	CorrectAnswer  string `json:"correct_answer"`
	IsCorrect      bool   `json:"is_correct"`
	ResponseTimeMs int    `json:"response_time_ms,omitempty"`
	HintUsed       bool   `json:"hint_used,omitempty"`
}

func (s *Server) handleDrillResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req drillResultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == "" {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.store.RecordDrillResult(req.ItemID, req.DrillType, req.UserAnswer, req.CorrectAnswer, req.IsCorrect, req.ResponseTimeMs, req.HintUsed); err != nil {
		// Persistence failed but the in-memory state advanced; the client
		// does not need to retry
		log.Printf("Error persisting drill result for %s: %v", req.ItemID, err)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDue(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.DueItems(queryLimit(r, 10)))
}

func (s *Server) handleWarmup(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.WarmupItems(queryLimit(r, 3)))
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Statistics())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	blob, err := s.store.ExportAll()
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(blob)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	blob, err := ioutil.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if err := s.store.ImportAll(blob); err != nil {
		if errors.Is(err, progress.ErrInvalidImport) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := s.store.Reset(); err != nil {
		log.Printf("Error resetting progress: %v", err)
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleReport builds the xlsx report in a temp file and streams it back
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	dir, err := ioutil.TempDir("", "bgcoach-report")
	if err != nil {
		http.Error(w, "report failed", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "progress.xlsx")
	if err := s.reporter.WriteReport(path); err != nil {
		log.Printf("Error building report: %v", err)
		http.Error(w, "report failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="progress.xlsx"`)
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func queryLimit(r *http.Request, fallback int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return fallback
	}
	limit := fallback
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		limit = n
	}
	return limit
}
