package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/themizzi/saucecheck/internal/models"
	"github.com/themizzi/saucecheck/internal/repository"
)

const runsTemplate = "../../templates/runs.html"

// MockRunHistory is a mock implementation of RunHistory for testing
type MockRunHistory struct {
	RecentRunsFunc func(int) ([]*models.Run, error)
	RunDetailFunc  func(string) (*models.Run, []*models.Result, error)
}

func (m *MockRunHistory) RecentRuns(limit int) ([]*models.Run, error) {
	if m.RecentRunsFunc != nil {
		return m.RecentRunsFunc(limit)
	}
	return nil, nil
}

func (m *MockRunHistory) RunDetail(id string) (*models.Run, []*models.Result, error) {
	if m.RunDetailFunc != nil {
		return m.RunDetailFunc(id)
	}
	return &models.Run{ID: id}, nil, nil
}

func completedRun() *models.Run {
	return &models.Run{
		ID:        "run-123",
		BaseURL:   "https://www.saucedemo.com/",
		Driver:    "playwright",
		TagFilter: "smoke",
		Status:    models.RunStatusCompleted,
		Passed:    9,
		Failed:    1,
		StartedAt: time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestRunsHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		url            string
		runs           []*models.Run
		mockError      error
		wantLimit      int
		expectedStatus int
		checkContent   []string
	}{
		{
			name:           "lists runs",
			method:         http.MethodGet,
			url:            "/",
			runs:           []*models.Run{completedRun()},
			expectedStatus: http.StatusOK,
			checkContent:   []string{"run-123", "/runs/run-123", "playwright", "smoke", "2026-10-14 09:30:00", "failed"},
		},
		{
			name:           "no runs yet",
			method:         http.MethodGet,
			url:            "/",
			expectedStatus: http.StatusOK,
			checkContent:   []string{"No runs recorded yet."},
		},
		{
			name:           "explicit limit",
			method:         http.MethodGet,
			url:            "/?limit=5",
			wantLimit:      5,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "invalid limit",
			method:         http.MethodGet,
			url:            "/?limit=zero",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "service error",
			method:         http.MethodGet,
			url:            "/",
			mockError:      errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "method not allowed - POST",
			method:         http.MethodPost,
			url:            "/",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &MockRunHistory{
				RecentRunsFunc: func(limit int) ([]*models.Run, error) {
					if limit != tt.wantLimit {
						t.Errorf("Expected limit %d, got %d", tt.wantLimit, limit)
					}
					return tt.runs, tt.mockError
				},
			}

			handler, err := NewRunsHandler(runsTemplate, history)
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}

			req := httptest.NewRequest(tt.method, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			body := w.Body.String()
			for _, content := range tt.checkContent {
				if !strings.Contains(body, content) {
					t.Errorf("expected response to contain '%s'", content)
				}
			}
		})
	}
}

func TestNewRunsHandler_MissingTemplate(t *testing.T) {
	if _, err := NewRunsHandler("../../templates/missing.html", &MockRunHistory{}); err == nil {
		t.Error("expected error for missing template")
	}
}

func TestRunHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		id             string
		mockError      error
		expectedStatus int
	}{
		{name: "run detail", method: http.MethodGet, id: "run-123", expectedStatus: http.StatusOK},
		{name: "unknown run", method: http.MethodGet, id: "nope", mockError: fmt.Errorf("failed to get run: %w", repository.ErrRunNotFound), expectedStatus: http.StatusNotFound},
		{name: "service error", method: http.MethodGet, id: "run-123", mockError: errors.New("database error"), expectedStatus: http.StatusInternalServerError},
		{name: "missing id", method: http.MethodGet, expectedStatus: http.StatusBadRequest},
		{name: "method not allowed - DELETE", method: http.MethodDelete, id: "run-123", expectedStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := &MockRunHistory{
				RunDetailFunc: func(id string) (*models.Run, []*models.Result, error) {
					if tt.mockError != nil {
						return nil, nil, tt.mockError
					}
					results := []*models.Result{
						{Group: "Login", Name: "SuccessfulLogin", Tags: []string{"login", "smoke"}, Outcome: models.OutcomePassed, Duration: 1200 * time.Millisecond},
						{Group: "Inventory", Name: "SortByNameAscending", Outcome: models.OutcomeSkipped, Message: "sort az not available"},
					}
					return completedRun(), results, nil
				},
			}

			handler := NewRunHandler(history)
			req := httptest.NewRequest(tt.method, "/runs/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus == http.StatusMethodNotAllowed {
				return
			}

			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON content type, got %s", ct)
			}

			if tt.expectedStatus != http.StatusOK {
				var errResp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
					t.Fatalf("Failed to decode error response: %v", err)
				}
				if errResp.Error != http.StatusText(tt.expectedStatus) {
					t.Errorf("unexpected error field %q", errResp.Error)
				}
				return
			}

			var resp RunResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.ID != "run-123" || resp.Status != "completed" || resp.Failed != 1 {
				t.Errorf("unexpected run response: %+v", resp)
			}
			if len(resp.Results) != 2 {
				t.Fatalf("Expected 2 results, got %d", len(resp.Results))
			}
			if resp.Results[0].DurationMS != 1200 {
				t.Errorf("Expected 1200ms, got %d", resp.Results[0].DurationMS)
			}
			if resp.Results[1].Outcome != "skipped" || resp.Results[1].Message == "" {
				t.Errorf("unexpected skipped result: %+v", resp.Results[1])
			}
		})
	}
}
