package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/castframe/matrixgen/internal/matrix"
	"github.com/castframe/matrixgen/internal/trigger"
)

// handleHealthz handles GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	})
}

// handleMatrix handles POST /v1/matrix: classify the posted context and
// return the matrix CI would emit for it.
func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Context.EventName == "" {
		s.writeError(w, http.StatusBadRequest, "context.event_name is required")
		return
	}

	class, err := trigger.Classify(&req.Context, s.config.Prefix)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "classification failed: "+err.Error())
		return
	}

	m := matrix.NewGenerator(s.config.Policy, class, req.CommitSHA).Assemble()
	encoded, err := json.Marshal(m)
	if err != nil {
		s.logger.Error("failed to encode matrix", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to encode matrix")
		return
	}

	respondJSON(w, http.StatusOK, MatrixResponse{
		Mode:     class.Mode.String(),
		PRNumber: class.PRNumber,
		JobCount: len(m),
		Matrix:   encoded,
	})
}

// handleListRuns handles GET /v1/runs.
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.writeError(w, http.StatusNotFound, "run history is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list runs", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	resp := RunsResponse{Runs: make([]RunSummary, 0, len(runs))}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, RunSummary{
			ID:        run.ID,
			Mode:      run.Mode,
			Ref:       run.Ref,
			PRNumber:  run.PRNumber,
			CommitSHA: run.CommitSHA,
			JobCount:  run.JobCount,
			CreatedAt: run.CreatedAt,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, ErrorResponse{Error: msg})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
