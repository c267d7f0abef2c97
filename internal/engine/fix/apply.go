package fix

import (
	"sort"
)

// Outcome records which edit sets of one merge were applied.
type Outcome struct {
	Applied []int
	Skipped []int
}

// Merge applies as many of sets as possible in one pass. Sets are
// considered in order of their span; a set whose span starts at or before
// the end of an already accepted set is skipped, to be retried on the next
// pass. Invalid sets are skipped. Indexes in the outcome refer to sets.
func Merge(text []byte, sets []*EditSet) ([]byte, Outcome) {
	order := make([]int, 0, len(sets))
	for i, s := range sets {
		if s.Len() > 0 {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		as, ae := sets[order[a]].Span()
		bs, be := sets[order[b]].Span()
		if as != bs {
			return as < bs
		}
		return ae < be
	})

	var outcome Outcome
	var merged []Edit
	lastEnd := -1
	for _, idx := range order {
		set := sets[idx]
		start, end := set.Span()
		if start <= lastEnd || set.Validate(len(text)) != nil {
			outcome.Skipped = append(outcome.Skipped, idx)
			continue
		}
		merged = append(merged, set.Edits()...)
		lastEnd = end
		outcome.Applied = append(outcome.Applied, idx)
	}
	sort.Ints(outcome.Applied)
	sort.Ints(outcome.Skipped)

	if len(merged) == 0 {
		return text, outcome
	}
	return applyEdits(text, merged), outcome
}
