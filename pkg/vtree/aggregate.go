package vtree

import "strings"

// FindMatches returns the indices into visible of every row whose name
// contains query (case-insensitive), in display order. This mirrors the
// search/cursor-advance logic of cmd/view/page_tree.go, lifted out of
// the TUI and onto a plain flattened view (SPEC_FULL.md's SUPPLEMENTED
// FEATURES: search is a pure function of a flattened view plus a query,
// not a component that must own cursor state itself).
func FindMatches(visible []VisibleNode, query string) []int {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil
	}
	var matches []int
	for i, v := range visible {
		if strings.Contains(strings.ToLower(v.Name), needle) {
			matches = append(matches, i)
		}
	}
	return matches
}

// Aggregate folds a per-file leaf value up through every ancestor folder,
// keyed by VirtualPath, the way a context tree's token counts are rolled
// up through ancestor directories. leafValue is called once per file
// node; folders accumulate the sum of their descendant files' values.
func Aggregate(data *TreeData, leafValue func(TreeNode) int) map[string]int {
	totals := make(map[string]int, len(data.Nodes))

	var walk func(id string) int
	walk = func(id string) int {
		n := data.Nodes[id]
		if n == nil {
			return 0
		}
		if n.Type == NodeFile {
			v := leafValue(*n)
			totals[n.VirtualPath] = v
			return v
		}
		sum := 0
		for _, cid := range n.ChildIDs {
			sum += walk(cid)
		}
		totals[n.VirtualPath] = sum
		return sum
	}

	walk(rootNodeID)
	return totals
}
