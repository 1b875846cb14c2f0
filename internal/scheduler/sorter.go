package scheduler

import (
	"sort"

	"github.com/alexanderramin/taskflow/internal/contract"
)

// SortByScore orders results by score, highest first. The sort is stable and
// has no secondary key, so equal scores keep their input order.
func SortByScore(results []contract.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
