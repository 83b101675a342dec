package vtree

import "strings"

// NodeType discriminates the three kinds of TreeNode.
type NodeType int

const (
	NodeRoot NodeType = iota
	NodeFolder
	NodeFile
)

func (t NodeType) String() string {
	switch t {
	case NodeRoot:
		return "root"
	case NodeFolder:
		return "folder"
	case NodeFile:
		return "file"
	default:
		return "unknown"
	}
}

// Origin annotates a folder with whether the caller named it directly or
// the builder inferred it while reaching a file.
type Origin int

const (
	OriginNone Origin = iota
	OriginInferred
	OriginDirect
)

func (o Origin) String() string {
	switch o {
	case OriginDirect:
		return "direct"
	case OriginInferred:
		return "inferred"
	default:
		return "none"
	}
}

// mergeOrigin implements spec.md §4.4's merge rule:
// direct ⊕ * = direct; else inferred ⊕ * = inferred; else none.
func mergeOrigin(a, b Origin) Origin {
	if a == OriginDirect || b == OriginDirect {
		return OriginDirect
	}
	if a == OriginInferred || b == OriginInferred {
		return OriginInferred
	}
	return OriginNone
}

// TreeNode is one immutable vertex of the virtual tree. Nodes are created
// once during Build and never mutated afterward; a rebuild produces an
// entirely new TreeData with (by construction) identical IDs for
// identical inputs. See spec.md §3.
type TreeNode struct {
	ID          string
	Name        string
	Type        NodeType
	ParentID    string
	ChildIDs    []string
	VirtualPath string
	SourcePath  string // empty for purely virtual folders
	EntryID     string // set iff Type == NodeFile
	IsVirtual   bool
	IsExpanded  bool
	IsSelected  bool
	Origin      Origin
}

// TreeData is the full output graph of a Build call.
type TreeData struct {
	Nodes                  map[string]*TreeNode
	RootID                 string
	VisibleRootID          string
	OmitContainerRowAtRoot bool
}

// Node fetches a node by ID, returning nil if absent.
func (d *TreeData) Node(id string) *TreeNode {
	if d == nil {
		return nil
	}
	return d.Nodes[id]
}

// verifyInvariants checks spec.md §3 invariants 1-4 and 6. Invariant 5
// (virtualPath uniqueness) is not checked, here or during materialization.
// The file-node invariants (I5, I6 of §8) are not checked either; they hold
// by construction, through normalizeEntries' dedup and the duplicate-ID
// guard when file nodes are created.
func (d *TreeData) verifyInvariants() error {
	root, ok := d.Nodes[d.RootID]
	if !ok {
		return invariantErrorf("I1", "rootId %q not present in nodes", d.RootID)
	}
	if root.Type != NodeRoot {
		return invariantErrorf("I1", "node %q has type %s, want root", d.RootID, root.Type)
	}

	for id, n := range d.Nodes {
		for _, c := range n.ChildIDs {
			child, ok := d.Nodes[c]
			if !ok {
				return invariantErrorf("I2", "child %q of %q not present in nodes", c, id)
			}
			if child.ParentID != id {
				return invariantErrorf("I2", "child %q of %q has parentId %q", c, id, child.ParentID)
			}
		}
	}

	visited := make(map[string]bool, len(d.Nodes))
	var walk func(id string) error
	walk = func(id string) error {
		if visited[id] {
			return invariantErrorf("I3", "cycle detected at node %q", id)
		}
		visited[id] = true
		n := d.Nodes[id]
		for _, c := range n.ChildIDs {
			if err := walk(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(d.RootID); err != nil {
		return err
	}
	if len(visited) != len(d.Nodes) {
		return invariantErrorf("I3", "graph reachable from rootId covers %d of %d nodes", len(visited), len(d.Nodes))
	}

	for id, n := range d.Nodes {
		if strings.Contains(n.Name, "/") && n.Type != NodeRoot {
			return invariantErrorf("I4", "node %q name %q contains a path separator", id, n.Name)
		}
	}

	vr, ok := d.Nodes[d.VisibleRootID]
	if !ok {
		return invariantErrorf("I6", "visibleRootId %q not present in nodes", d.VisibleRootID)
	}
	if vr.Type != NodeRoot && vr.Type != NodeFolder {
		return invariantErrorf("I6", "visibleRootId %q has type %s", d.VisibleRootID, vr.Type)
	}
	if !visited[d.VisibleRootID] {
		return invariantErrorf("I6", "visibleRootId %q is not reachable from rootId", d.VisibleRootID)
	}

	return nil
}
