package handlers

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/models"
	"github.com/themizzi/saucecheck/internal/repository"
)

// RunHistory is the read side of the results service
type RunHistory interface {
	RecentRuns(limit int) ([]*models.Run, error)
	RunDetail(id string) (*models.Run, []*models.Result, error)
}

// RunsPage is the data rendered by the runs template
type RunsPage struct {
	Runs []*models.Run
}

// RunsHandler renders the list of recent runs
type RunsHandler struct {
	template *template.Template
	history  RunHistory
}

// NewRunsHandler creates a new RunsHandler
func NewRunsHandler(templatePath string, history RunHistory) (*RunsHandler, error) {
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		return nil, err
	}

	return &RunsHandler{
		template: tmpl,
		history:  history,
	}, nil
}

// ServeHTTP handles the GET / request. An optional ?limit= caps the list.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.history.RecentRuns(limit)
	if err != nil {
		logrus.WithError(err).Error("failed to list runs")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.template.Execute(w, RunsPage{Runs: runs}); err != nil {
		logrus.WithError(err).Error("failed to render runs")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
}

// RunHandler serves one run and its results as JSON
type RunHandler struct {
	history RunHistory
}

// NewRunHandler creates a new RunHandler
func NewRunHandler(history RunHistory) *RunHandler {
	return &RunHandler{history: history}
}

// ResultResponse is one scenario result in a run response
type ResultResponse struct {
	Group      string   `json:"group"`
	Name       string   `json:"name"`
	Tags       []string `json:"tags"`
	Outcome    string   `json:"outcome"`
	Message    string   `json:"message,omitempty"`
	DurationMS int64    `json:"duration_ms"`
	Screenshot string   `json:"screenshot,omitempty"`
}

// RunResponse is the JSON form of a run
type RunResponse struct {
	ID        string           `json:"id"`
	BaseURL   string           `json:"base_url"`
	Driver    string           `json:"driver"`
	TagFilter string           `json:"tag_filter,omitempty"`
	Status    string           `json:"status"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`
	Results   []ResultResponse `json:"results"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ServeHTTP handles GET /runs/{id}
func (h *RunHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		sendErrorResponse(w, "Missing run id", http.StatusBadRequest)
		return
	}

	run, results, err := h.history.RunDetail(id)
	if errors.Is(err, repository.ErrRunNotFound) {
		sendErrorResponse(w, "Run not found", http.StatusNotFound)
		return
	}
	if err != nil {
		logrus.WithError(err).WithField("run_id", id).Error("failed to load run")
		sendErrorResponse(w, "Failed to load run", http.StatusInternalServerError)
		return
	}

	resp := RunResponse{
		ID:        run.ID,
		BaseURL:   run.BaseURL,
		Driver:    run.Driver,
		TagFilter: run.TagFilter,
		Status:    string(run.Status),
		Passed:    run.Passed,
		Failed:    run.Failed,
		Skipped:   run.Skipped,
		Results:   make([]ResultResponse, 0, len(results)),
	}
	for _, res := range results {
		resp.Results = append(resp.Results, ResultResponse{
			Group:      res.Group,
			Name:       res.Name,
			Tags:       res.Tags,
			Outcome:    string(res.Outcome),
			Message:    res.Message,
			DurationMS: res.Duration.Milliseconds(),
			Screenshot: res.Screenshot,
		})
	}

	sendJSON(w, resp, http.StatusOK)
}
