package vtree

import (
	"sort"
	"strings"
)

// SortDelegate returns a stable total order over a folder's existing
// childIds. It is the single-method collaborator spec.md §6 calls out as
// not needing a class hierarchy — just a func.
type SortDelegate func(data *TreeData, parentID string) []string

// AlphabeticalSortDelegate is the provided default: folders before files,
// then case-insensitive name ascending, then ID ascending as a final
// tie-break. Implements spec.md §4.7.
func AlphabeticalSortDelegate(data *TreeData, parentID string) []string {
	parent := data.Node(parentID)
	if parent == nil {
		return nil
	}
	ids := append([]string(nil), parent.ChildIDs...)
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := data.Node(ids[i]), data.Node(ids[j])
		if a == nil || b == nil {
			return false
		}
		aDir := a.Type == NodeFolder || a.Type == NodeRoot
		bDir := b.Type == NodeFolder || b.Type == NodeRoot
		if aDir != bDir {
			return aDir
		}
		an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
		if an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})
	return ids
}

// sortAllChildren reorders every folder's ChildIDs using delegate,
// applied once across the whole tree after materialization.
func sortAllChildren(data *TreeData, delegate SortDelegate) {
	for id, n := range data.Nodes {
		if n.Type != NodeFolder && n.Type != NodeRoot {
			continue
		}
		if len(n.ChildIDs) < 2 {
			continue
		}
		n.ChildIDs = delegate(data, id)
	}
}
