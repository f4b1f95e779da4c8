package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome is the settled state of a scenario
type Outcome string

// Outcomes. Skipped is its own category: neither a pass nor a failure.
const (
	OutcomePending Outcome = "pending"
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeSkipped Outcome = "skipped"
)

// Result is the outcome of one scenario within a run
type Result struct {
	ID         string
	RunID      string
	Group      string
	Name       string
	Tags       []string
	Outcome    Outcome
	Message    string
	Duration   time.Duration
	Screenshot string
	CreatedAt  time.Time
}

// Result errors
var (
	ErrInvalidRunID             = errors.New("result run ID cannot be empty")
	ErrInvalidScenarioName      = errors.New("result group and name cannot be empty")
	ErrInvalidOutcomeTransition = errors.New("invalid outcome transition")
)

// NewResult creates a pending result for a scenario
func NewResult(runID, group, name string, tags []string) (*Result, error) {
	if runID == "" {
		return nil, ErrInvalidRunID
	}
	if group == "" || name == "" {
		return nil, ErrInvalidScenarioName
	}

	return &Result{
		ID:        uuid.New().String(),
		RunID:     runID,
		Group:     group,
		Name:      name,
		Tags:      tags,
		Outcome:   OutcomePending,
		CreatedAt: time.Now(),
	}, nil
}

func (r *Result) settle(outcome Outcome, message string) error {
	if r.Outcome != OutcomePending {
		return fmt.Errorf("%w: %s is already %s", ErrInvalidOutcomeTransition, r.FullName(), r.Outcome)
	}
	r.Outcome = outcome
	r.Message = message
	return nil
}

// Pass settles the result as passed
func (r *Result) Pass() error {
	return r.settle(OutcomePassed, "")
}

// Fail settles the result as failed with the failure messages
func (r *Result) Fail(message string) error {
	return r.settle(OutcomeFailed, message)
}

// Skip settles the result as skipped, keeping the reason
func (r *Result) Skip(reason string) error {
	return r.settle(OutcomeSkipped, reason)
}

// IsSettled returns true once an outcome is recorded
func (r *Result) IsSettled() bool {
	return r.Outcome != OutcomePending
}

// FullName returns "Group/Name"
func (r *Result) FullName() string {
	return r.Group + "/" + r.Name
}
