// Package filter compiles the small textual filter mini-language treated
// as a black box by spec.md §4.3/§4.9: whitespace-separated terms ANDed
// together, with "!" negating a substring term and "ext:" testing an
// exact (case-insensitive) extension match. This implementation also
// recognizes a "glob:" term matched with doublestar, grounded on
// doublestar's use elsewhere in the retrieved pack
// (gYonder-drime-shell/internal/shell/glob.go and gitsense-gsc-cli's own
// internal/tree package) for shell-style glob matching against file names.
package filter

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Predicate reports whether a node's name (and lowercased extension,
// including the leading dot) satisfies a compiled query.
type Predicate func(name, extLower string) bool

// Compile turns a query into a Predicate. A blank or all-whitespace query
// compiles to an always-true predicate, per spec.md §6.
func Compile(query string) Predicate {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return func(string, string) bool { return true }
	}

	matchers := make([]func(name, extLower string) bool, 0, len(terms))
	for _, term := range terms {
		matchers = append(matchers, compileTerm(term))
	}

	return func(name, extLower string) bool {
		for _, m := range matchers {
			if !m(name, extLower) {
				return false
			}
		}
		return true
	}
}

func compileTerm(term string) func(name, extLower string) bool {
	switch {
	case strings.HasPrefix(term, "!"):
		needle := strings.ToLower(strings.TrimPrefix(term, "!"))
		return func(name, _ string) bool {
			return !strings.Contains(strings.ToLower(name), needle)
		}
	case strings.HasPrefix(term, "ext:"):
		want := strings.ToLower(strings.TrimPrefix(term, "ext:"))
		if want != "" && !strings.HasPrefix(want, ".") {
			want = "." + want
		}
		return func(_, extLower string) bool {
			return extLower == want
		}
	case strings.HasPrefix(term, "glob:"):
		pattern := strings.TrimPrefix(term, "glob:")
		return func(name, _ string) bool {
			ok, err := doublestar.Match(pattern, name)
			return err == nil && ok
		}
	default:
		needle := strings.ToLower(term)
		return func(name, _ string) bool {
			return strings.Contains(strings.ToLower(name), needle)
		}
	}
}
