package scenario

import "testing"

// OpenFunc returns a fresh env for one scenario. It should register the
// release of its page with t.Cleanup.
type OpenFunc func(t *testing.T) *Env

// RunGroup runs every scenario of g as a subtest on its own env. Scenarios
// that f does not select are skipped.
func RunGroup(t *testing.T, g Group, f Filter, open OpenFunc) {
	t.Helper()
	for _, s := range g.Scenarios {
		t.Run(s.Name, func(t *testing.T) {
			if !f.Match(g.TagsOf(s)) {
				t.Skipf("deselected by tags %q", f.String())
			}
			g.Execute(t, s, open(t))
		})
	}
}
