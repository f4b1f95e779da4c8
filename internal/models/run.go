package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents valid run states
type RunStatus string

// Run statuses
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
)

// Run is one execution of the suite
type Run struct {
	ID         string
	BaseURL    string
	Driver     string
	TagFilter  string
	Status     RunStatus
	Passed     int
	Failed     int
	Skipped    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run errors
var (
	ErrInvalidBaseURL      = errors.New("run base URL cannot be empty")
	ErrInvalidDriver       = errors.New("run driver cannot be empty")
	ErrRunAlreadyCompleted = errors.New("run is already completed")
)

// NewRun creates a running run with a fresh ID
func NewRun(baseURL, driver, tagFilter string) (*Run, error) {
	if baseURL == "" {
		return nil, ErrInvalidBaseURL
	}
	if driver == "" {
		return nil, ErrInvalidDriver
	}

	return &Run{
		ID:        uuid.New().String(),
		BaseURL:   baseURL,
		Driver:    driver,
		TagFilter: tagFilter,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}, nil
}

// Complete tallies results and marks the run completed
func (r *Run) Complete(results []*Result) error {
	if r.Status == RunStatusCompleted {
		return ErrRunAlreadyCompleted
	}

	r.Passed, r.Failed, r.Skipped = 0, 0, 0
	for _, res := range results {
		switch res.Outcome {
		case OutcomePassed:
			r.Passed++
		case OutcomeFailed:
			r.Failed++
		case OutcomeSkipped:
			r.Skipped++
		default:
			return fmt.Errorf("%w: result %s is still %s", ErrInvalidOutcomeTransition, res.FullName(), res.Outcome)
		}
	}

	r.Status = RunStatusCompleted
	r.FinishedAt = time.Now()
	return nil
}

// IsCompleted returns true once the run has finished
func (r *Run) IsCompleted() bool {
	return r.Status == RunStatusCompleted
}

// Total returns the number of settled results
func (r *Run) Total() int {
	return r.Passed + r.Failed + r.Skipped
}

// Succeeded returns true for a completed run without failures
func (r *Run) Succeeded() bool {
	return r.IsCompleted() && r.Failed == 0
}

// Duration returns the wall time of a completed run
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
