package catalog

import (
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search ranks titles whose name fuzzily matches query. Closer matches come
// first and ties keep their input order. A limit of zero or less returns
// every match.
func Search(titles []Title, query string, limit int) []Title {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	type match struct {
		index    int
		distance int
	}

	var matches []match
	for i, t := range titles {
		distance := fuzzy.RankMatchFold(query, t.Name)
		if distance < 0 {
			continue
		}
		matches = append(matches, match{index: i, distance: distance})
	}

	slices.SortStableFunc(matches, func(a, b match) int {
		return a.distance - b.distance
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]Title, 0, len(matches))
	for _, m := range matches {
		out = append(out, titles[m.index].clone())
	}
	return out
}
