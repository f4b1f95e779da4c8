package runner

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/themizzi/saucecheck/internal/models"
)

// stop unwinds a scenario after FailNow or Skipf
type stop struct{}

// scenarioT implements scenario.T outside of go test. FailNow and Skipf
// panic with stop, which execute recovers.
type scenarioT struct {
	log      logrus.FieldLogger
	failed   bool
	skipped  bool
	messages []string
	reason   string
}

func (t *scenarioT) Helper() {}

func (t *scenarioT) Errorf(format string, args ...any) {
	t.failed = true
	t.messages = append(t.messages, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (t *scenarioT) FailNow() {
	t.failed = true
	panic(stop{})
}

func (t *scenarioT) Fatalf(format string, args ...any) {
	t.Errorf(format, args...)
	t.FailNow()
}

func (t *scenarioT) Logf(format string, args ...any) {
	t.log.Debugf(format, args...)
}

func (t *scenarioT) Skipf(format string, args ...any) {
	t.skipped = true
	t.reason = fmt.Sprintf(format, args...)
	panic(stop{})
}

// run calls fn, turning an unexpected panic into a failure
func (t *scenarioT) run(fn func()) {
	defer func() {
		if v := recover(); v != nil {
			if _, ok := v.(stop); ok {
				return
			}
			t.failed = true
			t.messages = append(t.messages, fmt.Sprintf("panic: %v", v))
		}
	}()
	fn()
}

// settle records the outcome on res. A skip after a failure is a failure.
func (t *scenarioT) settle(res *models.Result) error {
	switch {
	case t.failed:
		return res.Fail(strings.Join(t.messages, "\n"))
	case t.skipped:
		return res.Skip(t.reason)
	default:
		return res.Pass()
	}
}
