// Package fuzzyfinder ranks candidate strings against a typed query.
// Thin shim over lithammer/fuzzysearch so callers never handle the
// library's types directly.
package fuzzyfinder

import (
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type Rank struct {
	// Source is the matched query.
	Source string

	// Target is the candidate that matched.
	Target string

	// Distance is the Levenshtein distance between Source and Target.
	Distance int

	// OriginalIndex is the candidate's position in the input list.
	OriginalIndex int
}

// RankFind matches query against keys with case and diacritic folding
// and returns the hits best-first. Ties keep the input order, so stable
// catalogs rank stably.
func RankFind(keys []string, query string) []Rank {
	hits := fuzzy.RankFindNormalizedFold(query, keys)
	ranks := make([]Rank, hits.Len())
	for i, r := range hits {
		ranks[i] = Rank{
			Source:        r.Source,
			Target:        r.Target,
			Distance:      r.Distance,
			OriginalIndex: r.OriginalIndex,
		}
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	return ranks
}
