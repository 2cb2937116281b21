// Package history keeps an append-only local audit of emitted matrices,
// so a broken fan-out can be traced back to the exact matrix that caused it.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrRunNotFound = errors.New("run not found")

// Run is one recorded matrix emission.
type Run struct {
	ID        string
	Mode      string
	Ref       string
	PRNumber  *int
	CommitSHA string
	JobCount  int
	Matrix    json.RawMessage
	CreatedAt time.Time
}

// RecordRequest carries the facts of one emission.
type RecordRequest struct {
	Mode      string
	Ref       string
	PRNumber  *int
	CommitSHA string
	Matrix    json.RawMessage
	JobCount  int
}

// Store records and retrieves runs from the history database.
type Store struct {
	db    *sql.DB
	newID func() string
}

// New creates a Store over an opened history database.
func New(db *sql.DB) *Store {
	return &Store{db: db, newID: newRunID}
}

// Record persists one emission and returns its run ID.
func (s *Store) Record(ctx context.Context, req RecordRequest) (string, error) {
	id := s.newID()
	now := time.Now().UTC().Format(time.RFC3339Nano)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO matrix_runs (id, mode, ref, pr_number, commit_sha, job_count, matrix, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?);`,
		id, req.Mode, req.Ref, req.PRNumber, req.CommitSHA, req.JobCount, string(req.Matrix), now,
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return id, nil
}

// List returns the most recent runs, newest first. limit <= 0 means a
// default page of 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, ref, pr_number, commit_sha, job_count, matrix, created_at
		 FROM matrix_runs ORDER BY created_at DESC, id LIMIT ?;`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run by ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mode, ref, pr_number, commit_sha, job_count, matrix, created_at
		 FROM matrix_runs WHERE id = ?;`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var (
		run       Run
		prNumber  sql.NullInt64
		matrixRaw string
		createdAt string
	)
	if err := row.Scan(&run.ID, &run.Mode, &run.Ref, &prNumber, &run.CommitSHA, &run.JobCount, &matrixRaw, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run: %w", err)
	}

	if prNumber.Valid {
		n := int(prNumber.Int64)
		run.PRNumber = &n
	}
	run.Matrix = json.RawMessage(matrixRaw)

	ts, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse run timestamp %q: %w", createdAt, err)
	}
	run.CreatedAt = ts

	return &run, nil
}
