package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/models"
)

// ErrRunNotFound is returned when a run does not exist
var ErrRunNotFound = errors.New("run not found")

// RunRepository handles database operations for runs and their results
type RunRepository struct {
	db     *sql.DB
	driver string
}

// NewRunRepository creates a new run repository for the given results driver
func NewRunRepository(db *sql.DB, driver string) *RunRepository {
	return &RunRepository{
		db:     db,
		driver: driver,
	}
}

// rebind rewrites ? placeholders into $n for postgres
func (r *RunRepository) rebind(query string) string {
	if r.driver != config.ResultsPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, c := range query {
		if c == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

// CreateRun inserts a new run
func (r *RunRepository) CreateRun(run *models.Run) error {
	query := `
		INSERT INTO runs (id, base_url, driver, tag_filter, status, passed, failed, skipped, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(r.rebind(query),
		run.ID,
		run.BaseURL,
		run.Driver,
		run.TagFilter,
		string(run.Status),
		run.Passed,
		run.Failed,
		run.Skipped,
		run.StartedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// CompleteRun stores the final status and tallies of a run
func (r *RunRepository) CompleteRun(run *models.Run) error {
	query := `
		UPDATE runs
		SET status = ?, passed = ?, failed = ?, skipped = ?, finished_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(r.rebind(query),
		string(run.Status),
		run.Passed,
		run.Failed,
		run.Skipped,
		run.FinishedAt.UTC(),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrRunNotFound
	}

	return nil
}

// AddResult inserts a settled scenario result
func (r *RunRepository) AddResult(res *models.Result) error {
	query := `
		INSERT INTO results (id, run_id, group_name, name, tags, outcome, message, duration_ms, screenshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(r.rebind(query),
		res.ID,
		res.RunID,
		res.Group,
		res.Name,
		strings.Join(res.Tags, ","),
		string(res.Outcome),
		res.Message,
		res.Duration.Milliseconds(),
		res.Screenshot,
		res.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to add result: %w", err)
	}

	return nil
}

const runColumns = `id, base_url, driver, tag_filter, status, passed, failed, skipped, started_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	run := &models.Run{}
	var finished sql.NullTime
	err := row.Scan(
		&run.ID,
		&run.BaseURL,
		&run.Driver,
		&run.TagFilter,
		&run.Status,
		&run.Passed,
		&run.Failed,
		&run.Skipped,
		&run.StartedAt,
		&finished,
	)
	if err != nil {
		return nil, err
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return run, nil
}

// GetRun retrieves a run by ID
func (r *RunRepository) GetRun(id string) (*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`

	run, err := scanRun(r.db.QueryRow(r.rebind(query), id))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// ListRuns returns the most recent runs, newest first
func (r *RunRepository) ListRuns(limit int) ([]*models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY started_at DESC LIMIT ?`

	rows, err := r.db.Query(r.rebind(query), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// ListResults returns the results of a run in the order they were recorded
func (r *RunRepository) ListResults(runID string) ([]*models.Result, error) {
	query := `
		SELECT id, run_id, group_name, name, tags, outcome, message, duration_ms, screenshot, created_at
		FROM results
		WHERE run_id = ?
		ORDER BY created_at, group_name, name
	`

	rows, err := r.db.Query(r.rebind(query), runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		res := &models.Result{}
		var tags string
		var durationMS int64
		err := rows.Scan(
			&res.ID,
			&res.RunID,
			&res.Group,
			&res.Name,
			&tags,
			&res.Outcome,
			&res.Message,
			&durationMS,
			&res.Screenshot,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		if tags != "" {
			res.Tags = strings.Split(tags, ",")
		}
		res.Duration = time.Duration(durationMS) * time.Millisecond
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return results, nil
}
