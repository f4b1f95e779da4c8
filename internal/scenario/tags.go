package scenario

import (
	"fmt"
	"slices"
	"strings"
)

// Tag labels a scenario for selection
type Tag string

// Tags understood by the suite
const (
	TagSmoke      Tag = "smoke"
	TagRegression Tag = "regression"
	TagLogin      Tag = "login"
	TagProduct    Tag = "product"
	TagCart       Tag = "cart"
	TagCheckout   Tag = "checkout"
)

// KnownTags lists every tag in display order
var KnownTags = []Tag{TagSmoke, TagRegression, TagLogin, TagProduct, TagCart, TagCheckout}

func hasTag(tags []Tag, tag Tag) bool {
	return slices.Contains(tags, tag)
}

// Filter selects scenarios by tag. A scenario matches when it carries any
// included tag (or none are listed) and no excluded tag.
type Filter struct {
	Include []Tag
	Exclude []Tag
}

// ParseFilter parses a comma separated tag list such as "smoke,cart,!checkout"
func ParseFilter(expr string) (Filter, error) {
	var f Filter
	for _, part := range strings.Split(expr, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}

		exclude := strings.HasPrefix(part, "!")
		tag := Tag(strings.TrimPrefix(part, "!"))
		if !hasTag(KnownTags, tag) {
			return Filter{}, fmt.Errorf("unknown tag %q", tag)
		}

		if exclude {
			f.Exclude = append(f.Exclude, tag)
		} else {
			f.Include = append(f.Include, tag)
		}
	}
	return f, nil
}

// Match reports whether a scenario carrying tags is selected
func (f Filter) Match(tags []Tag) bool {
	for _, tag := range f.Exclude {
		if hasTag(tags, tag) {
			return false
		}
	}
	if len(f.Include) == 0 {
		return true
	}
	for _, tag := range f.Include {
		if hasTag(tags, tag) {
			return true
		}
	}
	return false
}

// String renders the filter in ParseFilter syntax
func (f Filter) String() string {
	parts := make([]string, 0, len(f.Include)+len(f.Exclude))
	for _, tag := range f.Include {
		parts = append(parts, string(tag))
	}
	for _, tag := range f.Exclude {
		parts = append(parts, "!"+string(tag))
	}
	return strings.Join(parts, ",")
}
