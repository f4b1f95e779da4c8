package scenario

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeT records what a step reports without stopping it
type fakeT struct {
	errors []string
	skip   string
	logs   []string
}

func (f *fakeT) Helper() {}
func (f *fakeT) Errorf(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}
func (f *fakeT) FailNow() {}
func (f *fakeT) Fatalf(format string, args ...any) {
	f.Errorf(format, args...)
}
func (f *fakeT) Logf(format string, args ...any) {
	f.logs = append(f.logs, fmt.Sprintf(format, args...))
}
func (f *fakeT) Skipf(format string, args ...any) {
	f.skip = fmt.Sprintf(format, args...)
}

var _ T = (*testing.T)(nil)

func record(trace *[]string, name string) Step {
	return func(t T, env *Env) {
		*trace = append(*trace, name)
	}
}

func TestChain(t *testing.T) {
	var trace []string
	step := Chain(record(&trace, "open"), Chain(record(&trace, "login"), record(&trace, "add")), record(&trace, "cart"))

	step(&fakeT{}, NewEnv(nil, "https://www.saucedemo.com/"))
	assert.Equal(t, []string{"open", "login", "add", "cart"}, trace)

	trace = nil
	Chain()(&fakeT{}, nil)
	assert.Empty(t, trace)
}

func TestGroup_Execute(t *testing.T) {
	var trace []string
	g := Group{
		Name:  "Cart",
		Setup: Chain(record(&trace, "login"), record(&trace, "add")),
	}
	s := Scenario{Name: "RemoveItem", Run: record(&trace, "remove")}

	g.Execute(&fakeT{}, s, NewEnv(nil, ""))
	assert.Equal(t, []string{"login", "add", "remove"}, trace)

	trace = nil
	Group{Name: "NoSetup"}.Execute(&fakeT{}, s, NewEnv(nil, ""))
	assert.Equal(t, []string{"remove"}, trace)
}

func TestGroup_TagsOf(t *testing.T) {
	g := Group{Name: "Login", Tags: []Tag{TagLogin}}

	assert.Equal(t, []Tag{TagLogin, TagSmoke}, g.TagsOf(Scenario{Tags: []Tag{TagSmoke}}))
	assert.Equal(t, []Tag{TagLogin}, g.TagsOf(Scenario{Tags: []Tag{TagLogin}}), "no duplicates")
	assert.Equal(t, []Tag{TagLogin}, g.TagsOf(Scenario{}))
	assert.Equal(t, "Login/LockedOutUser", g.FullName(Scenario{Name: "LockedOutUser"}))
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		expr    string
		want    Filter
		wantErr bool
	}{
		{expr: "", want: Filter{}},
		{expr: "smoke", want: Filter{Include: []Tag{TagSmoke}}},
		{expr: " smoke , Cart ", want: Filter{Include: []Tag{TagSmoke, TagCart}}},
		{expr: "regression,!checkout", want: Filter{Include: []Tag{TagRegression}, Exclude: []Tag{TagCheckout}}},
		{expr: "!login,,", want: Filter{Exclude: []Tag{TagLogin}}},
		{expr: "smokey", wantErr: true},
		{expr: "!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseFilter(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_Match(t *testing.T) {
	smokeLogin := []Tag{TagLogin, TagSmoke}
	regressionCheckout := []Tag{TagCheckout, TagRegression}

	tests := []struct {
		expr string
		tags []Tag
		want bool
	}{
		{"", smokeLogin, true},
		{"smoke", smokeLogin, true},
		{"smoke", regressionCheckout, false},
		{"smoke,checkout", regressionCheckout, true},
		{"!checkout", regressionCheckout, false},
		{"!checkout", smokeLogin, true},
		{"regression,!checkout", regressionCheckout, false},
		{"login", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			f, err := ParseFilter(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Match(tt.tags))
		})
	}
}

func TestFilter_String(t *testing.T) {
	f, err := ParseFilter("cart, !checkout, smoke")
	require.NoError(t, err)
	assert.Equal(t, "cart,smoke,!checkout", f.String())
	assert.Equal(t, "", Filter{}.String())
}

func TestGroup_Select(t *testing.T) {
	g := Group{
		Name: "Inventory",
		Tags: []Tag{TagProduct},
		Scenarios: []Scenario{
			{Name: "ProductsDisplayed", Tags: []Tag{TagSmoke}},
			{Name: "SortByNameAscending", Tags: []Tag{TagRegression}},
		},
	}

	smoke, _ := ParseFilter("smoke")
	selected := g.Select(smoke)
	require.Len(t, selected, 1)
	assert.Equal(t, "ProductsDisplayed", selected[0].Name)

	product, _ := ParseFilter("product")
	assert.Len(t, g.Select(product), 2)

	none, _ := ParseFilter("!product")
	assert.Empty(t, g.Select(none))
}

func TestSkipOnError(t *testing.T) {
	ft := &fakeT{}
	SkipOnError(ft, "sort", nil)
	assert.Empty(t, ft.skip)

	SkipOnError(ft, "sort", errors.New("select timed out"))
	assert.Equal(t, "sort not available: select timed out", ft.skip)
	assert.Empty(t, ft.errors, "a skip is not a failure")
}

func TestValidate(t *testing.T) {
	body := func(T, *Env) {}

	tests := []struct {
		name    string
		groups  []Group
		wantErr bool
	}{
		{
			name: "valid",
			groups: []Group{
				{Name: "Login", Scenarios: []Scenario{{Name: "A", Run: body}}},
				{Name: "Cart", Scenarios: []Scenario{{Name: "A", Run: body}}},
			},
		},
		{
			name:    "duplicate scenario",
			groups:  []Group{{Name: "Login", Scenarios: []Scenario{{Name: "A", Run: body}, {Name: "A", Run: body}}}},
			wantErr: true,
		},
		{
			name:    "missing body",
			groups:  []Group{{Name: "Login", Scenarios: []Scenario{{Name: "A"}}}},
			wantErr: true,
		},
		{
			name:    "empty group name",
			groups:  []Group{{Scenarios: []Scenario{{Name: "A", Run: body}}}},
			wantErr: true,
		},
		{
			name:    "slash in group name",
			groups:  []Group{{Name: "Log/in"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.groups)
			assert.Equal(t, tt.wantErr, err != nil, "Validate() error = %v", err)
		})
	}
}

func TestRunGroup(t *testing.T) {
	var ran []string
	g := Group{
		Name: "Checkout",
		Tags: []Tag{TagCheckout},
		Scenarios: []Scenario{
			{Name: "StepOneDisplayed", Tags: []Tag{TagSmoke}, Run: func(t T, env *Env) { ran = append(ran, "smoke") }},
			{Name: "EmptyFirstName", Tags: []Tag{TagRegression}, Run: func(t T, env *Env) { ran = append(ran, "regression") }},
		},
	}

	opened := 0
	f, _ := ParseFilter("smoke")
	RunGroup(t, g, f, func(t *testing.T) *Env {
		opened++
		return NewEnv(nil, "https://www.saucedemo.com/")
	})

	assert.Equal(t, []string{"smoke"}, ran)
	assert.Equal(t, 1, opened, "deselected scenarios open no page")
}
