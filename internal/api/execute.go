package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/syntaxstudio/gateway/internal/judge0"
	"github.com/syntaxstudio/gateway/internal/model"
	"github.com/syntaxstudio/gateway/internal/store"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodySize      = 1 << 20 // 1 MB
)

// createExecutionRequest is the JSON body for POST /v1/executions.
type createExecutionRequest struct {
	SourceCode     string  `json:"source_code"`
	LanguageID     int     `json:"language_id"`
	Stdin          *string `json:"stdin"`
	ExpectedOutput *string `json:"expected_output"`
	Base64Encoded  bool    `json:"base64_encoded"`
	// Wait selects synchronous execution: the response carries the full
	// result instead of a token.
	Wait bool `json:"wait"`
}

// listExecutionsResponse wraps the paginated list response.
type listExecutionsResponse struct {
	Executions []*model.Submission `json:"executions"`
	Total      int                 `json:"total"`
	Limit      int                 `json:"limit"`
	Offset     int                 `json:"offset"`
}

func (s *Server) handleCreateExecution(w http.ResponseWriter, r *http.Request) {
	var req createExecutionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.SourceCode == "" {
		s.writeError(w, http.StatusBadRequest, "source_code is required")
		return
	}
	if req.LanguageID <= 0 {
		s.writeError(w, http.StatusBadRequest, "language_id is required")
		return
	}

	sub := &model.Submission{
		ID:             model.NewID(),
		Status:         model.StatusQueued,
		LanguageID:     req.LanguageID,
		SourceCode:     req.SourceCode,
		Stdin:          req.Stdin,
		ExpectedOutput: req.ExpectedOutput,
		CreatedAt:      time.Now().UTC(),
	}

	upstream := judge0.SubmissionRequest{
		SourceCode:     req.SourceCode,
		LanguageID:     req.LanguageID,
		Stdin:          req.Stdin,
		ExpectedOutput: req.ExpectedOutput,
		Base64Encoded:  req.Base64Encoded,
	}

	if req.Wait {
		s.runSync(w, r, sub, upstream)
		return
	}

	if err := s.engine.Submit(r.Context(), sub, upstream); err != nil {
		s.logger.Error("submit execution", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to submit execution")
		return
	}

	s.writeJSON(w, http.StatusAccepted, sub)
}

// runSync executes a submission synchronously through the fallback loop
// (wait=true upstream) and persists the terminal result before responding.
func (s *Server) runSync(w http.ResponseWriter, r *http.Request, sub *model.Submission, upstream judge0.SubmissionRequest) {
	res, ep, err := s.client.Execute(r.Context(), upstream)
	if err != nil {
		s.logger.Error("synchronous execution failed", "error", err)
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	now := time.Now().UTC()
	statusID := res.Status.ID
	sub.Status = model.StatusCompleted
	sub.EndpointHost = ep.Host
	sub.StatusID = &statusID
	sub.StatusDesc = res.Status.Description
	sub.Stdout = res.Stdout
	sub.Stderr = res.Stderr
	sub.CompileOutput = res.CompileOutput
	sub.Message = res.Message
	sub.Time = res.Time
	sub.Memory = res.Memory
	sub.FinishedAt = &now

	if err := s.store.CreateSubmission(r.Context(), sub); err != nil {
		s.logger.Error("persist synchronous execution", "submission_id", sub.ID, "error", err)
		// The caller still gets their result; the record is best effort.
	}

	s.writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sub, err := s.store.GetSubmission(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "execution not found")
		return
	}
	if err != nil {
		s.logger.Error("get execution", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get execution")
		return
	}

	if sub.Status == model.StatusSubmitted {
		sub = s.refreshSubmission(r.Context(), sub)
	}

	s.writeJSON(w, http.StatusOK, sub)
}

func (s *Server) handleListExecutions(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", defaultListLimit)
	offset := parseIntQuery(r, "offset", 0)

	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	subs, total, err := s.store.ListSubmissions(r.Context(), limit, offset)
	if err != nil {
		s.logger.Error("list executions", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list executions")
		return
	}

	if subs == nil {
		subs = []*model.Submission{}
	}

	s.writeJSON(w, http.StatusOK, listExecutionsResponse{
		Executions: subs,
		Total:      total,
		Limit:      limit,
		Offset:     offset,
	})
}

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return v
}
