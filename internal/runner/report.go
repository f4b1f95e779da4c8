package runner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/themizzi/saucecheck/internal/models"
)

// Report is the outcome of a run
type Report struct {
	Run     *models.Run
	Results []*models.Result
}

// Failed reports whether any scenario failed
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Outcome == models.OutcomeFailed {
			return true
		}
	}
	return false
}

// Count returns the number of results with the given outcome
func (r *Report) Count(outcome models.Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// Find returns the result for "Group/Name", or nil
func (r *Report) Find(fullName string) *models.Result {
	for _, res := range r.Results {
		if res.FullName() == fullName {
			return res
		}
	}
	return nil
}

var (
	passLabel = color.New(color.FgGreen, color.Bold).SprintFunc()
	failLabel = color.New(color.FgRed, color.Bold).SprintFunc()
	skipLabel = color.New(color.FgYellow).SprintFunc()
	faint     = color.New(color.Faint).SprintFunc()
)

func label(outcome models.Outcome) string {
	switch outcome {
	case models.OutcomePassed:
		return passLabel("PASS")
	case models.OutcomeFailed:
		return failLabel("FAIL")
	case models.OutcomeSkipped:
		return skipLabel("SKIP")
	default:
		return string(outcome)
	}
}

// WriteText prints one line per scenario, failure details and a summary
func (r *Report) WriteText(w io.Writer) error {
	for _, res := range r.Results {
		if _, err := fmt.Fprintf(w, "%s %s %s\n", label(res.Outcome), res.FullName(), faint(res.Duration.Round(time.Millisecond))); err != nil {
			return err
		}
		if res.Message != "" {
			for _, line := range strings.Split(res.Message, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
		if res.Screenshot != "" {
			fmt.Fprintf(w, "    screenshot: %s\n", res.Screenshot)
		}
	}

	summary := fmt.Sprintf("%d scenarios: %d passed, %d failed, %d skipped",
		len(r.Results), r.Count(models.OutcomePassed), r.Count(models.OutcomeFailed), r.Count(models.OutcomeSkipped))
	if r.Failed() {
		summary = failLabel(summary)
	} else {
		summary = passLabel(summary)
	}
	_, err := fmt.Fprintf(w, "\n%s (run %s)\n", summary, r.Run.ID)
	return err
}

type resultJSON struct {
	Group      string   `json:"group"`
	Name       string   `json:"name"`
	Tags       []string `json:"tags"`
	Outcome    string   `json:"outcome"`
	Message    string   `json:"message,omitempty"`
	DurationMS int64    `json:"duration_ms"`
	Screenshot string   `json:"screenshot,omitempty"`
}

type reportJSON struct {
	RunID      string       `json:"run_id"`
	BaseURL    string       `json:"base_url"`
	Driver     string       `json:"driver"`
	TagFilter  string       `json:"tag_filter,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
	Passed     int          `json:"passed"`
	Failed     int          `json:"failed"`
	Skipped    int          `json:"skipped"`
	Results    []resultJSON `json:"results"`
}

// WriteJSON encodes the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	out := reportJSON{
		RunID:      r.Run.ID,
		BaseURL:    r.Run.BaseURL,
		Driver:     r.Run.Driver,
		TagFilter:  r.Run.TagFilter,
		StartedAt:  r.Run.StartedAt,
		FinishedAt: r.Run.FinishedAt,
		Passed:     r.Count(models.OutcomePassed),
		Failed:     r.Count(models.OutcomeFailed),
		Skipped:    r.Count(models.OutcomeSkipped),
		Results:    make([]resultJSON, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		out.Results = append(out.Results, resultJSON{
			Group:      res.Group,
			Name:       res.Name,
			Tags:       res.Tags,
			Outcome:    string(res.Outcome),
			Message:    res.Message,
			DurationMS: res.Duration.Milliseconds(),
			Screenshot: res.Screenshot,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// WriteJSONFile writes the JSON report to path
func (r *Report) WriteJSONFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return f.Close()
}
