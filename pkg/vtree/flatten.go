package vtree

import (
	"path"
	"strings"

	"github.com/mattsolo1/grove-vtree/pkg/vtree/filter"
)

// FilterPredicate is the filter collaborator's shape: given a node's name
// and lowercased extension (including the leading dot), report whether it
// matches. spec.md §4.9 treats the compiler that produces this as a black
// box; the default, vtree/filter.Compile, gives it a concrete, pack-
// grounded implementation (see that package's doc comment).
type FilterPredicate func(name, extLower string) bool

// FilterCompiler turns a query string into a FilterPredicate. A nil or
// blank query must compile to an always-true predicate.
type FilterCompiler func(query string) FilterPredicate

func defaultFilterCompiler(query string) FilterPredicate {
	return FilterPredicate(filter.Compile(query))
}

// VisibleNode is one row of a flattened view: exactly what a row renderer
// needs, per spec.md §3.
type VisibleNode struct {
	ID          string
	Depth       int
	Name        string
	Type        NodeType
	HasChildren bool
	VirtualPath string
	EntryID     string
	IsVirtual   bool
	SourcePath  string
	Origin      Origin
}

type flattenConfig struct {
	filterQuery  string
	compiler     FilterCompiler
	sortDelegate SortDelegate
}

// FlattenOption configures a Flatten call.
type FlattenOption func(*flattenConfig)

// WithFilterQuery sets the textual filter query (spec.md §4.9). A blank
// or all-whitespace query disables filtering entirely.
func WithFilterQuery(query string) FlattenOption {
	return func(c *flattenConfig) { c.filterQuery = query }
}

// WithFilterCompiler overrides the default filter collaborator.
func WithFilterCompiler(fn FilterCompiler) FlattenOption {
	return func(c *flattenConfig) {
		if fn != nil {
			c.compiler = fn
		}
	}
}

// WithFlattenSortDelegate selects the "sorted strategy" child visitation
// order instead of the default childIds order (spec.md §4.9).
func WithFlattenSortDelegate(d SortDelegate) FlattenOption {
	return func(c *flattenConfig) { c.sortDelegate = d }
}

func defaultFlattenConfig() *flattenConfig {
	return &flattenConfig{compiler: defaultFilterCompiler}
}

// extensionOf returns the lowercased extension (including leading dot) of
// name, or "" if it has none.
func extensionOf(name string) string {
	return strings.ToLower(path.Ext(name))
}

// subtreeMatcher memoizes subtreeMatches for a single Flatten call, per
// spec.md §9's design note that the cache need not be thread-safe.
type subtreeMatcher struct {
	data  *TreeData
	pred  FilterPredicate
	memo  map[string]bool
}

func newSubtreeMatcher(data *TreeData, pred FilterPredicate) *subtreeMatcher {
	return &subtreeMatcher{data: data, pred: pred, memo: make(map[string]bool)}
}

func (s *subtreeMatcher) matches(id string) bool {
	if v, ok := s.memo[id]; ok {
		return v
	}
	n := s.data.Nodes[id]
	if n == nil {
		return false
	}
	result := s.pred(n.Name, extensionOf(n.Name))
	if !result {
		for _, c := range n.ChildIDs {
			if s.matches(c) {
				result = true
				break
			}
		}
	}
	s.memo[id] = result
	return result
}

func childOrder(data *TreeData, parentID string, delegate SortDelegate) []string {
	if delegate != nil {
		return delegate(data, parentID)
	}
	return data.Nodes[parentID].ChildIDs
}

// Flatten performs the DFS linearization described in spec.md §4.9:
// emission governed by an optional filter predicate (with ancestor
// hoisting so matches always surface with their ancestor chain, even
// through collapsed folders), recursion governed by expandedIDs.
func Flatten(data *TreeData, expandedIDs map[string]bool, opts ...FlattenOption) []VisibleNode {
	cfg := defaultFlattenConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	hasFilter := strings.TrimSpace(cfg.filterQuery) != ""
	var pred FilterPredicate
	if hasFilter {
		pred = cfg.compiler(cfg.filterQuery)
	} else {
		pred = func(string, string) bool { return true }
	}
	matcher := newSubtreeMatcher(data, pred)

	var out []VisibleNode

	var emit func(id string, depth int, forceExpand bool)
	emit = func(id string, depth int, forceExpand bool) {
		n := data.Nodes[id]
		if n == nil {
			return
		}
		if hasFilter && !matcher.matches(id) {
			return
		}
		out = append(out, VisibleNode{
			ID:          n.ID,
			Depth:       depth,
			Name:        n.Name,
			Type:        n.Type,
			HasChildren: len(n.ChildIDs) > 0,
			VirtualPath: n.VirtualPath,
			EntryID:     n.EntryID,
			IsVirtual:   n.IsVirtual,
			SourcePath:  n.SourcePath,
			Origin:      n.Origin,
		})

		if n.Type != NodeRoot && n.Type != NodeFolder {
			return
		}
		if len(n.ChildIDs) == 0 {
			return
		}
		if !(forceExpand || expandedIDs[n.ID]) {
			return
		}
		for _, cid := range childOrder(data, n.ID, cfg.sortDelegate) {
			childForce := hasFilter && matcher.matches(cid)
			emit(cid, depth+1, childForce)
		}
	}

	root := data.Nodes[data.VisibleRootID]
	if root == nil {
		return out
	}

	if data.OmitContainerRowAtRoot && (root.Type == NodeRoot || root.Type == NodeFolder) {
		for _, cid := range childOrder(data, root.ID, cfg.sortDelegate) {
			childForce := hasFilter && matcher.matches(cid)
			emit(cid, 0, childForce)
		}
		return out
	}

	// The emission root has no parent to set its forceExpand; treat filter
	// activation itself as the free pass so matches beneath a collapsed
	// emission root still surface (spec.md F2).
	emit(root.ID, 0, hasFilter)
	return out
}
