package services

import (
	"errors"
	"fmt"

	"github.com/themizzi/saucecheck/internal/models"
)

// DefaultRecentRuns is the number of runs returned when no limit is given
const DefaultRecentRuns = 20

// ErrResultNotSettled is returned when a pending result is recorded
var ErrResultNotSettled = errors.New("result has no outcome")

// ErrRunNotCompleted is returned when a running run is finished
var ErrRunNotCompleted = errors.New("run is not completed")

// RunRepository defines the interface for run persistence
type RunRepository interface {
	CreateRun(run *models.Run) error
	CompleteRun(run *models.Run) error
	AddResult(res *models.Result) error
	GetRun(id string) (*models.Run, error)
	ListRuns(limit int) ([]*models.Run, error)
	ListResults(runID string) ([]*models.Result, error)
}

// ResultService records runs and serves their history
type ResultService interface {
	StartRun(run *models.Run) error
	Record(res *models.Result) error
	FinishRun(run *models.Run) error
	RecentRuns(limit int) ([]*models.Run, error)
	RunDetail(id string) (*models.Run, []*models.Result, error)
}

// ResultServiceImpl implements ResultService
type ResultServiceImpl struct {
	runRepo RunRepository
}

// NewResultService creates a new result service
func NewResultService(runRepo RunRepository) ResultService {
	return &ResultServiceImpl{
		runRepo: runRepo,
	}
}

// StartRun persists a run that has just begun
func (s *ResultServiceImpl) StartRun(run *models.Run) error {
	if run.IsCompleted() {
		return fmt.Errorf("failed to start run %s: %w", run.ID, models.ErrRunAlreadyCompleted)
	}
	if err := s.runRepo.CreateRun(run); err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

// Record persists a settled scenario result. Safe for concurrent use when the
// repository is.
func (s *ResultServiceImpl) Record(res *models.Result) error {
	if !res.IsSettled() {
		return fmt.Errorf("failed to record %s: %w", res.FullName(), ErrResultNotSettled)
	}
	if err := s.runRepo.AddResult(res); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	return nil
}

// FinishRun persists the final tally of a completed run
func (s *ResultServiceImpl) FinishRun(run *models.Run) error {
	if !run.IsCompleted() {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, ErrRunNotCompleted)
	}
	if err := s.runRepo.CompleteRun(run); err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first
func (s *ResultServiceImpl) RecentRuns(limit int) ([]*models.Run, error) {
	if limit <= 0 {
		limit = DefaultRecentRuns
	}
	runs, err := s.runRepo.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent runs: %w", err)
	}
	return runs, nil
}

// RunDetail returns a run together with its results
func (s *ResultServiceImpl) RunDetail(id string) (*models.Run, []*models.Result, error) {
	run, err := s.runRepo.GetRun(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get run: %w", err)
	}
	results, err := s.runRepo.ListResults(id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get results: %w", err)
	}
	return run, results, nil
}
