package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/runner"
	"github.com/themizzi/saucecheck/internal/scenario"
)

// ErrScenariosFailed is returned by RunSuite when any scenario failed
var ErrScenariosFailed = errors.New("scenarios failed")

// RunDependencies holds everything needed to execute the suite
type RunDependencies struct {
	Config   *config.RunConfig
	Groups   []scenario.Group
	Open     runner.OpenFunc
	Recorder runner.Recorder
	Out      io.Writer
	// JSONPath, when set, receives the JSON report
	JSONPath string
	Log      logrus.FieldLogger
}

// RunSuite executes the selected scenarios and prints the text report
func RunSuite(ctx context.Context, deps RunDependencies) (*runner.Report, error) {
	filter, err := scenario.ParseFilter(deps.Config.Tags)
	if err != nil {
		return nil, fmt.Errorf("invalid tags: %w", err)
	}

	r := runner.New(deps.Open, runner.Options{
		BaseURL:      deps.Config.BaseURL,
		Driver:       deps.Config.Driver,
		Filter:       filter,
		Workers:      deps.Config.Workers,
		ArtifactsDir: deps.Config.ArtifactsDir,
		Recorder:     deps.Recorder,
		Log:          deps.Log,
	})

	report, err := r.Run(ctx, deps.Groups)
	if err != nil {
		return report, fmt.Errorf("run aborted: %w", err)
	}

	if err := report.WriteText(deps.Out); err != nil {
		return report, fmt.Errorf("failed to write report: %w", err)
	}
	if deps.JSONPath != "" {
		if err := report.WriteJSONFile(deps.JSONPath); err != nil {
			return report, err
		}
	}

	if report.Failed() {
		return report, ErrScenariosFailed
	}
	return report, nil
}

// ListScenarios prints the scenarios selected by tags with their tags
func ListScenarios(w io.Writer, groups []scenario.Group, tags string) error {
	filter, err := scenario.ParseFilter(tags)
	if err != nil {
		return fmt.Errorf("invalid tags: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, g := range groups {
		for _, s := range g.Select(filter) {
			scenarioTags := g.TagsOf(s)
			names := make([]string, len(scenarioTags))
			for i, tag := range scenarioTags {
				names[i] = string(tag)
			}
			fmt.Fprintf(tw, "%s\t%s\n", g.FullName(s), strings.Join(names, ","))
		}
	}
	return tw.Flush()
}
