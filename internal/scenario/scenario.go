// Package scenario composes screen objects into independent, tagged scenarios.
//
// A Group runs its Setup chain before each of its scenarios, always on a fresh
// page, so every scenario starts from the same already-navigated state. The
// same scenarios run under go test (with *testing.T) and under the standalone
// runner.
package scenario

import (
	"fmt"
	"strings"

	"github.com/themizzi/saucecheck/internal/screens"
)

// T is the part of *testing.T a scenario uses. It satisfies testify's
// require.TestingT and assert.TestingT.
type T interface {
	Helper()
	Errorf(format string, args ...any)
	FailNow()
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Skipf(format string, args ...any)
}

// Env is what a scenario acts on
type Env struct {
	Page    screens.Page
	BaseURL string
}

// NewEnv binds a page to the storefront at baseURL
func NewEnv(page screens.Page, baseURL string) *Env {
	return &Env{Page: page, BaseURL: baseURL}
}

// Login returns the login screen of the current page
func (e *Env) Login() *screens.Login { return screens.NewLogin(e.Page) }

// Inventory returns the inventory screen of the current page
func (e *Env) Inventory() *screens.Inventory { return screens.NewInventory(e.Page) }

// Cart returns the cart screen of the current page
func (e *Env) Cart() *screens.Cart { return screens.NewCart(e.Page) }

// Checkout returns the checkout screen of the current page
func (e *Env) Checkout() *screens.Checkout { return screens.NewCheckout(e.Page) }

// Step is one action of a scenario or fixture
type Step func(t T, env *Env)

// Chain composes steps into one, run in order
func Chain(steps ...Step) Step {
	return func(t T, env *Env) {
		t.Helper()
		for _, step := range steps {
			step(t, env)
		}
	}
}

// Scenario is a single self-contained check
type Scenario struct {
	Name string
	Tags []Tag
	Run  Step
}

// Group is a set of scenarios sharing a setup fixture and tags
type Group struct {
	Name      string
	Tags      []Tag
	Setup     Step
	Scenarios []Scenario
}

// TagsOf returns the group's tags followed by the scenario's own tags
func (g Group) TagsOf(s Scenario) []Tag {
	tags := make([]Tag, 0, len(g.Tags)+len(s.Tags))
	tags = append(tags, g.Tags...)
	for _, tag := range s.Tags {
		if !hasTag(tags, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Execute runs the group setup then the scenario on env
func (g Group) Execute(t T, s Scenario, env *Env) {
	t.Helper()
	if g.Setup != nil {
		g.Setup(t, env)
	}
	s.Run(t, env)
}

// Select returns the scenarios of g whose tags match f
func (g Group) Select(f Filter) []Scenario {
	var out []Scenario
	for _, s := range g.Scenarios {
		if f.Match(g.TagsOf(s)) {
			out = append(out, s)
		}
	}
	return out
}

// FullName is the "Group/Scenario" name used in reports
func (g Group) FullName(s Scenario) string {
	return g.Name + "/" + s.Name
}

// SkipOnError turns an error from a known-flaky control into a skip that keeps
// the cause. Assertions made after a successful interaction still fail.
func SkipOnError(t T, what string, err error) {
	t.Helper()
	if err != nil {
		t.Skipf("%s not available: %v", what, err)
	}
}

// Validate reports duplicate group or scenario names
func Validate(groups []Group) error {
	seen := map[string]bool{}
	for _, g := range groups {
		if g.Name == "" || strings.Contains(g.Name, "/") {
			return fmt.Errorf("invalid group name %q", g.Name)
		}
		for _, s := range g.Scenarios {
			name := g.FullName(s)
			if seen[name] {
				return fmt.Errorf("duplicate scenario %s", name)
			}
			if s.Run == nil {
				return fmt.Errorf("scenario %s has no body", name)
			}
			seen[name] = true
		}
	}
	return nil
}
