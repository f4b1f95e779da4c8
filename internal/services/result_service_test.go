package services

import (
	"errors"
	"testing"

	"github.com/themizzi/saucecheck/internal/models"
)

// MockRunRepository is a mock implementation of RunRepository for testing
type MockRunRepository struct {
	CreateRunFunc   func(*models.Run) error
	CompleteRunFunc func(*models.Run) error
	AddResultFunc   func(*models.Result) error
	GetRunFunc      func(string) (*models.Run, error)
	ListRunsFunc    func(int) ([]*models.Run, error)
	ListResultsFunc func(string) ([]*models.Result, error)
}

func (m *MockRunRepository) CreateRun(run *models.Run) error {
	if m.CreateRunFunc != nil {
		return m.CreateRunFunc(run)
	}
	return nil
}

func (m *MockRunRepository) CompleteRun(run *models.Run) error {
	if m.CompleteRunFunc != nil {
		return m.CompleteRunFunc(run)
	}
	return nil
}

func (m *MockRunRepository) AddResult(res *models.Result) error {
	if m.AddResultFunc != nil {
		return m.AddResultFunc(res)
	}
	return nil
}

func (m *MockRunRepository) GetRun(id string) (*models.Run, error) {
	if m.GetRunFunc != nil {
		return m.GetRunFunc(id)
	}
	return &models.Run{ID: id}, nil
}

func (m *MockRunRepository) ListRuns(limit int) ([]*models.Run, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(limit)
	}
	return nil, nil
}

func (m *MockRunRepository) ListResults(runID string) ([]*models.Result, error) {
	if m.ListResultsFunc != nil {
		return m.ListResultsFunc(runID)
	}
	return nil, nil
}

func newRun(t *testing.T) *models.Run {
	t.Helper()
	run, err := models.NewRun("https://www.saucedemo.com/", "playwright", "")
	if err != nil {
		t.Fatalf("Failed to create run: %v", err)
	}
	return run
}

func TestResultService_StartRun(t *testing.T) {
	tests := []struct {
		name      string
		complete  bool
		mockError error
		wantErr   bool
	}{
		{name: "successful start"},
		{name: "repository error", mockError: errors.New("database error"), wantErr: true},
		{name: "completed run", complete: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := newRun(t)
			if tt.complete {
				_ = run.Complete(nil)
			}

			created := false
			service := NewResultService(&MockRunRepository{
				CreateRunFunc: func(r *models.Run) error {
					created = true
					if r.ID != run.ID {
						t.Errorf("Expected run %s, got %s", run.ID, r.ID)
					}
					return tt.mockError
				},
			})

			err := service.StartRun(run)
			if (err != nil) != tt.wantErr {
				t.Errorf("StartRun() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.complete && created {
				t.Error("completed run should not reach the repository")
			}
		})
	}
}

func TestResultService_Record(t *testing.T) {
	run := newRun(t)

	settled, _ := models.NewResult(run.ID, "Login", "SuccessfulLogin", nil)
	_ = settled.Pass()
	pending, _ := models.NewResult(run.ID, "Login", "LockedOutUser", nil)

	var added []*models.Result
	service := NewResultService(&MockRunRepository{
		AddResultFunc: func(res *models.Result) error {
			added = append(added, res)
			return nil
		},
	})

	if err := service.Record(settled); err != nil {
		t.Fatalf("Record() unexpected error = %v", err)
	}
	if err := service.Record(pending); !errors.Is(err, ErrResultNotSettled) {
		t.Errorf("expected ErrResultNotSettled, got %v", err)
	}
	if len(added) != 1 {
		t.Errorf("Expected 1 stored result, got %d", len(added))
	}

	failing := NewResultService(&MockRunRepository{
		AddResultFunc: func(*models.Result) error { return errors.New("database error") },
	})
	if err := failing.Record(settled); err == nil {
		t.Error("expected repository error")
	}
}

func TestResultService_FinishRun(t *testing.T) {
	run := newRun(t)
	service := NewResultService(&MockRunRepository{})

	if err := service.FinishRun(run); !errors.Is(err, ErrRunNotCompleted) {
		t.Errorf("expected ErrRunNotCompleted, got %v", err)
	}

	_ = run.Complete(nil)
	if err := service.FinishRun(run); err != nil {
		t.Errorf("FinishRun() unexpected error = %v", err)
	}
}

func TestResultService_RecentRuns(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{name: "explicit limit", limit: 5, wantLimit: 5},
		{name: "default limit", limit: 0, wantLimit: DefaultRecentRuns},
		{name: "negative limit", limit: -3, wantLimit: DefaultRecentRuns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewResultService(&MockRunRepository{
				ListRunsFunc: func(limit int) ([]*models.Run, error) {
					if limit != tt.wantLimit {
						t.Errorf("Expected limit %d, got %d", tt.wantLimit, limit)
					}
					return []*models.Run{{ID: "run-1"}}, nil
				},
			})

			runs, err := service.RecentRuns(tt.limit)
			if err != nil {
				t.Fatalf("RecentRuns() unexpected error = %v", err)
			}
			if len(runs) != 1 {
				t.Errorf("Expected 1 run, got %d", len(runs))
			}
		})
	}
}

func TestResultService_RunDetail(t *testing.T) {
	notFound := errors.New("run not found")

	tests := []struct {
		name       string
		getErr     error
		listErr    error
		wantErr    error
		wantResult int
	}{
		{name: "run with results", wantResult: 2},
		{name: "missing run", getErr: notFound, wantErr: notFound},
		{name: "results error", listErr: errors.New("database error"), wantErr: errors.New("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewResultService(&MockRunRepository{
				GetRunFunc: func(id string) (*models.Run, error) {
					if tt.getErr != nil {
						return nil, tt.getErr
					}
					return &models.Run{ID: id}, nil
				},
				ListResultsFunc: func(runID string) ([]*models.Result, error) {
					if tt.listErr != nil {
						return nil, tt.listErr
					}
					return []*models.Result{{RunID: runID}, {RunID: runID}}, nil
				},
			})

			run, results, err := service.RunDetail("run-1")
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.getErr != nil && !errors.Is(err, tt.getErr) {
					t.Errorf("expected wrapped %v, got %v", tt.getErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("RunDetail() unexpected error = %v", err)
			}
			if run.ID != "run-1" {
				t.Errorf("Expected run-1, got %s", run.ID)
			}
			if len(results) != tt.wantResult {
				t.Errorf("Expected %d results, got %d", tt.wantResult, len(results))
			}
		})
	}
}
