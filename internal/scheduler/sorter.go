package scheduler

import "sort"

// CanonicalSort orders scored templates deterministically:
// 1. Score: higher first
// 2. Template ID: lexical ascending
func CanonicalSort(candidates []ScoredTemplate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.Template.ID < b.Template.ID
	})
}
