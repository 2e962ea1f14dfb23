// Package filter compiles expr-language expressions into predicates over
// catalog titles, e.g.
//
//	Year >= 2020 and Rating > 7.5 and hasGenre("Drama")
//	Category == "tv_shows" and containsText(Synopsis, "detective")
//
// Compiled expressions are kept in a small LRU cache keyed by their text.
package filter

import (
	"strings"

	"github.com/s0up4200/marquee/catalog"
)

// Filter is a predicate over titles
type Filter interface {
	Evaluate(title catalog.Title) bool
}

// CompiledFilter is a Filter that remembers the expression it came from
type CompiledFilter interface {
	Filter
	Expression() string
}

// Compiler turns expressions into filters
type Compiler interface {
	Compile(expression string) (CompiledFilter, error)
}

// CachingCompiler is a Compiler that keeps compiled programs around
type CachingCompiler interface {
	Compiler
	Clear()
	Size() int
}

// Apply returns the titles that match f, in their original order. A nil
// filter matches everything.
func Apply(f Filter, titles []catalog.Title) []catalog.Title {
	if f == nil {
		return titles
	}

	matches := make([]catalog.Title, 0, len(titles))
	for _, t := range titles {
		if f.Evaluate(t) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Parse compiles expression with c. An empty expression yields a nil filter.
func Parse(c Compiler, expression string) (CompiledFilter, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, nil
	}
	return c.Compile(expression)
}
