package vtree

import "sort"

// Diff computes the minimal row-level delta between two flattened views,
// keyed by VisibleNode.ID, via a Longest Increasing Subsequence over
// preserved IDs (spec.md §4.10). Applying RemovesDesc to before (in the
// given descending order) and then InsertsAsc to the result (in the
// given ascending order) yields a sequence whose ID list equals after's.
type DiffResult struct {
	RemovesDesc []int
	InsertsAsc  []int
}

// Diff implements spec.md §4.10 exactly.
func Diff(before, after []VisibleNode) DiffResult {
	if sameIDSequence(before, after) {
		return DiffResult{}
	}

	afterIndexByID := make(map[string]int, len(after))
	for j, v := range after {
		afterIndexByID[v.ID] = j
	}

	type seqItem struct {
		beforeIdx int
		afterIdx  int
	}
	seq := make([]seqItem, 0, len(before))
	for i, v := range before {
		if j, ok := afterIndexByID[v.ID]; ok {
			seq = append(seq, seqItem{beforeIdx: i, afterIdx: j})
		}
	}

	// Patience sorting: tails[k] is the index into seq of the smallest
	// possible tail value for an increasing subsequence of length k+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, item := range seq {
		lo, hi := 0, len(tails)
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]].afterIdx < item.afterIdx {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}
		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	keptBefore := make(map[int]bool, len(tails))
	keptAfter := make(map[int]bool, len(tails))
	if len(tails) > 0 {
		k := tails[len(tails)-1]
		for k != -1 {
			keptBefore[seq[k].beforeIdx] = true
			keptAfter[seq[k].afterIdx] = true
			k = prev[k]
		}
	}

	var removes []int
	for i := len(before) - 1; i >= 0; i-- {
		if !keptBefore[i] {
			removes = append(removes, i)
		}
	}
	var inserts []int
	for j := range after {
		if !keptAfter[j] {
			inserts = append(inserts, j)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(removes)))
	sort.Ints(inserts)

	return DiffResult{RemovesDesc: removes, InsertsAsc: inserts}
}

func sameIDSequence(a, b []VisibleNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
