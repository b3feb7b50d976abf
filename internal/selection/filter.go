package selection

import (
	"path"
	"strings"
)

// Filter selects test sets by name. A pattern is a comma separated list of
// terms; a term starting with "!" excludes the sets it matches.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter parses pattern. An empty pattern selects every set.
func NewFilter(pattern string) *Filter {
	f := &Filter{}
	for _, term := range strings.Split(pattern, ",") {
		term = strings.TrimSpace(term)
		switch {
		case term == "" || term == "!":
		case strings.HasPrefix(term, "!"):
			f.exclude = append(f.exclude, term[1:])
		default:
			f.include = append(f.include, term)
		}
	}
	return f
}

// Empty reports whether the filter selects everything.
func (f *Filter) Empty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0
}

// Match reports whether the set called name is selected.
func (f *Filter) Match(name string) bool {
	for _, term := range f.exclude {
		if matchTerm(term, name) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, term := range f.include {
		if matchTerm(term, name) {
			return true
		}
	}
	return false
}

// Func returns Match as a predicate, or nil when the filter is empty.
func (f *Filter) Func() func(string) bool {
	if f.Empty() {
		return nil
	}
	return f.Match
}

// FilterByName returns the names selected by the filter, keeping their order.
func (f *Filter) FilterByName(names []string) []string {
	if f.Empty() {
		return names
	}
	var filtered []string
	for _, name := range names {
		if f.Match(name) {
			filtered = append(filtered, name)
		}
	}
	return filtered
}

// matchTerm supports "*" and "?" wildcards. A wildcard term that does not
// match as a whole still matches when each literal part occurs in the name,
// and a term without wildcards matches as a substring.
func matchTerm(term, name string) bool {
	if matched, err := path.Match(term, name); err == nil && matched {
		return true
	}

	if strings.Contains(term, "*") {
		hasPart := false
		for _, part := range strings.Split(term, "*") {
			if part == "" {
				continue
			}
			if !strings.Contains(name, part) {
				return false
			}
			hasPart = true
		}
		return hasPart
	}

	if !strings.Contains(term, "?") {
		return strings.Contains(name, term)
	}
	return false
}
