package vtree

import "github.com/mitchellh/mapstructure"

// TreeEntry is a single input item: a real file or a virtual (synthetic)
// entry to be placed into the graph. See spec.md §3.
type TreeEntry struct {
	// ID is caller-stable and becomes the originating entryId of the
	// resulting file TreeNode.
	ID string
	// Name is the display label for the leaf node.
	Name string
	// FullPath is the raw, uncanonicalized path (any OS form).
	FullPath string
	// IsVirtual marks an entry with no corresponding real filesystem path.
	IsVirtual bool
	// Metadata carries out-of-band hints, notably "virtualParent" for
	// virtual entries (spec.md §3, §4.3).
	Metadata map[string]any
}

// entryMetadata is the typed projection of TreeEntry.Metadata this package
// actually consumes, decoded with mapstructure rather than hand-rolled
// type assertions against the loosely-typed map.
type entryMetadata struct {
	VirtualParent string `mapstructure:"virtualParent"`
}

func decodeEntryMetadata(raw map[string]any) entryMetadata {
	var md entryMetadata
	if raw == nil {
		return md
	}
	// A malformed metadata value (wrong type under "virtualParent") simply
	// leaves VirtualParent at its zero value instead of erroring: metadata
	// is a hint, not a contract (spec.md §7 normalizes rather than rejects).
	_ = mapstructure.Decode(raw, &md)
	return md
}
