// Package runner executes scenario groups outside of go test and collects a
// report of passed, failed and skipped scenarios.
package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/themizzi/saucecheck/internal/browser"
	"github.com/themizzi/saucecheck/internal/models"
	"github.com/themizzi/saucecheck/internal/scenario"
)

// Recorder receives a run as it progresses. Record is called from every
// worker and must be safe for concurrent use.
type Recorder interface {
	StartRun(run *models.Run) error
	Record(res *models.Result) error
	FinishRun(run *models.Run) error
}

// OpenFunc launches a browser session. Each worker opens its own.
type OpenFunc func() (browser.Session, error)

// Options configures a Runner
type Options struct {
	BaseURL string
	Driver  string
	Filter  scenario.Filter
	// Workers is the number of sessions run in parallel, at least 1
	Workers int
	// ArtifactsDir receives a screenshot per failed scenario when set
	ArtifactsDir string
	Recorder     Recorder
	Log          logrus.FieldLogger
}

// Runner executes scenarios, one fresh tab each
type Runner struct {
	open OpenFunc
	opts Options
}

// New creates a runner that opens sessions with open
func New(open OpenFunc, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	return &Runner{open: open, opts: opts}
}

type job struct {
	index    int
	group    scenario.Group
	scenario scenario.Scenario
}

// Plan lists the selected scenarios of groups in catalog order
func Plan(groups []scenario.Group, f scenario.Filter) []string {
	var names []string
	for _, g := range groups {
		for _, s := range g.Select(f) {
			names = append(names, g.FullName(s))
		}
	}
	return names
}

// Run executes every selected scenario of groups. A session that can not be
// opened aborts the run; scenario failures never do.
func (r *Runner) Run(ctx context.Context, groups []scenario.Group) (*Report, error) {
	if err := scenario.Validate(groups); err != nil {
		return nil, err
	}

	run, err := models.NewRun(r.opts.BaseURL, r.opts.Driver, r.opts.Filter.String())
	if err != nil {
		return nil, err
	}
	log := r.opts.Log.WithField("run_id", run.ID)

	var jobs []job
	for _, g := range groups {
		for _, s := range g.Select(r.opts.Filter) {
			jobs = append(jobs, job{index: len(jobs), group: g, scenario: s})
		}
	}

	artifacts := ""
	if r.opts.ArtifactsDir != "" {
		artifacts = filepath.Join(r.opts.ArtifactsDir, run.ID)
		if err := os.MkdirAll(artifacts, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create artifacts dir: %w", err)
		}
	}

	r.notify(log, "start run", func(rec Recorder) error { return rec.StartRun(run) })
	log.WithField("scenarios", len(jobs)).Info("run started")

	results := make([]*models.Result, len(jobs))
	queue := make(chan job)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(queue)
		for _, j := range jobs {
			select {
			case queue <- j:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	// no selected scenarios means no browser
	workers := min(r.opts.Workers, len(jobs))
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			session, err := r.open()
			if err != nil {
				return fmt.Errorf("failed to open browser session: %w", err)
			}
			defer func() {
				if err := session.Close(); err != nil {
					log.WithError(err).Warn("failed to close browser session")
				}
			}()

			for j := range queue {
				res, err := r.execute(gctx, log, run.ID, artifacts, session, j)
				if err != nil {
					return err
				}
				results[j.index] = res
				r.notify(log, "record result", func(rec Recorder) error { return rec.Record(res) })
			}
			return gctx.Err()
		})
	}

	werr := g.Wait()

	report := &Report{Run: run}
	for _, res := range results {
		if res != nil {
			report.Results = append(report.Results, res)
		}
	}
	if werr != nil {
		return report, werr
	}

	if err := run.Complete(report.Results); err != nil {
		return report, err
	}
	r.notify(log, "finish run", func(rec Recorder) error { return rec.FinishRun(run) })

	log.WithFields(logrus.Fields{
		"passed":   run.Passed,
		"failed":   run.Failed,
		"skipped":  run.Skipped,
		"duration": run.Duration().Round(time.Millisecond),
	}).Info("run finished")

	return report, nil
}

// execute runs one scenario on a fresh tab
func (r *Runner) execute(ctx context.Context, log logrus.FieldLogger, runID, artifacts string, session browser.Session, j job) (*models.Result, error) {
	name := j.group.FullName(j.scenario)
	res, err := models.NewResult(runID, j.group.Name, j.scenario.Name, tagStrings(j.group.TagsOf(j.scenario)))
	if err != nil {
		return nil, err
	}
	log = log.WithField("scenario", name)

	start := time.Now()
	tab, err := session.NewTab(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		res.Duration = time.Since(start)
		return res, res.Fail(fmt.Sprintf("failed to open tab: %v", err))
	}
	defer func() {
		if err := tab.Close(); err != nil {
			log.WithError(err).Warn("failed to close tab")
		}
	}()

	t := &scenarioT{log: log}
	t.run(func() {
		j.group.Execute(t, j.scenario, scenario.NewEnv(tab, r.opts.BaseURL))
	})
	res.Duration = time.Since(start)

	if t.failed && artifacts != "" {
		path := filepath.Join(artifacts, strings.ReplaceAll(name, "/", "_")+".png")
		if err := tab.Screenshot(path); err != nil {
			log.WithError(err).Warn("failed to capture screenshot")
		} else {
			res.Screenshot = path
		}
	}

	if err := t.settle(res); err != nil {
		return nil, err
	}

	entry := log.WithFields(logrus.Fields{
		"outcome":  res.Outcome,
		"duration": res.Duration.Round(time.Millisecond),
	})
	switch res.Outcome {
	case models.OutcomeFailed:
		entry.Warn(res.Message)
	case models.OutcomeSkipped:
		entry.Info(res.Message)
	default:
		entry.Debug("scenario passed")
	}

	return res, nil
}

// notify forwards to the recorder, logging failures without aborting the run
func (r *Runner) notify(log logrus.FieldLogger, what string, fn func(Recorder) error) {
	if r.opts.Recorder == nil {
		return
	}
	if err := fn(r.opts.Recorder); err != nil {
		log.WithError(err).Warnf("recorder failed to %s", what)
	}
}

func tagStrings(tags []scenario.Tag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = string(tag)
	}
	return out
}

// Discard is a logger that drops everything
func Discard() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
