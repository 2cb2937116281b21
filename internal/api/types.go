package api

import (
	"encoding/json"
	"time"

	"github.com/castframe/matrixgen/internal/trigger"
)

// MatrixRequest is the POST /v1/matrix request body.
type MatrixRequest struct {
	Context trigger.Context `json:"context"`
	// CommitSHA substitutes for the SHA environment variable / git lookup
	// of a real run. Optional; empty means the matrix is previewed with a
	// blank commit.
	CommitSHA string `json:"commit_sha,omitempty"`
}

// MatrixResponse is the POST /v1/matrix response body.
type MatrixResponse struct {
	Mode     string          `json:"mode"`
	PRNumber *int            `json:"pr_number"`
	JobCount int             `json:"job_count"`
	Matrix   json.RawMessage `json:"matrix"`
}

// RunSummary is one entry of the GET /v1/runs response.
type RunSummary struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"`
	Ref       string    `json:"ref"`
	PRNumber  *int      `json:"pr_number"`
	CommitSHA string    `json:"commit_sha"`
	JobCount  int       `json:"job_count"`
	CreatedAt time.Time `json:"created_at"`
}

// RunsResponse is the GET /v1/runs response body.
type RunsResponse struct {
	Runs []RunSummary `json:"runs"`
}

// HealthzResponse is the GET /healthz response body.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}
