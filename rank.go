package caserank

import (
	"sort"

	"github.com/samber/lo"
)

// TopN is the size of a ranking table.
const TopN = 20

// Rank returns the names of the n countries with the highest value of m, in
// descending order. The ratings are stable-sorted ascending and the last n
// are reversed, so countries with equal values come out in reverse order of
// r and the latest of them win the last places.
func Rank(r *Ratings, m Metric, n int) []string {
	items := make([]Rating, len(r.Items))
	copy(items, r.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Value(m) < items[j].Value(m)
	})
	if len(items) > n {
		items = items[len(items)-n:]
	}
	return lo.Reverse(lo.Map(items, func(it Rating, _ int) string {
		return it.Country
	}))
}

// Tops ranks every metric in RankedMetrics independently.
func Tops(r *Ratings) map[Metric][]string {
	tops := make(map[Metric][]string, len(RankedMetrics))
	for _, m := range RankedMetrics {
		tops[m] = Rank(r, m, TopN)
	}
	return tops
}
