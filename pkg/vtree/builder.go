package vtree

import (
	"sort"
	"strings"
)

// canonicalEntry pairs a TreeEntry with its canonicalized path, computed
// once up front so every later stage works off the same canonical form.
type canonicalEntry struct {
	entry     TreeEntry
	canonical string
}

// joinPath appends a single segment to a canonical or virtual path,
// avoiding the double slash that naive concatenation would produce at root.
func joinPath(parent, segment string) string {
	if parent == "/" {
		return "/" + segment
	}
	return parent + "/" + segment
}

// normalizeEntries canonicalizes every entry and drops duplicates: a
// repeated entry ID is dropped (first occurrence wins, spec.md §8 R1),
// and among real (non-virtual) entries a repeated canonical path under
// the case policy is dropped the same way (spec.md §2 step 2).
func normalizeEntries(entries []TreeEntry, cfg *config) []canonicalEntry {
	seenID := make(map[string]bool, len(entries))
	seenRealPath := make(map[string]bool, len(entries))
	out := make([]canonicalEntry, 0, len(entries))

	for _, e := range entries {
		if seenID[e.ID] {
			continue
		}
		canon := canonicalize(e.FullPath, cfg.unicodeNormalize)
		if !e.IsVirtual {
			key := foldKey(canon, cfg.caseInsensitivePaths)
			if seenRealPath[key] {
				continue
			}
			seenRealPath[key] = true
		}
		seenID[e.ID] = true
		out = append(out, canonicalEntry{entry: e, canonical: canon})
	}
	return out
}

// prepareStripPrefixes canonicalizes every configured prefix and sorts
// them longest-first, per spec.md §4.6.
func prepareStripPrefixes(prefixes []string, cfg *config) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, canonicalize(p, cfg.unicodeNormalize))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}

func foldSet(paths []string, cfg *config) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[foldKey(canonicalize(p, cfg.unicodeNormalize), cfg.caseInsensitivePaths)] = true
	}
	return set
}

// materializer holds the mutable state threaded through graph
// construction: the node arena plus the side-table of remembered
// canonicalSourcePath values findOrCreateFolder's merge policy needs
// (spec.md §4.4) but which isn't part of the immutable TreeNode shape.
type materializer struct {
	cfg             *config
	stripPrefixes   []string
	nodes           map[string]*TreeNode
	canonSourceByID map[string]string
}

func newMaterializer(cfg *config, stripPrefixes []string) *materializer {
	return &materializer{
		cfg:             cfg,
		stripPrefixes:   stripPrefixes,
		nodes:           make(map[string]*TreeNode),
		canonSourceByID: make(map[string]string),
	}
}

func (m *materializer) createRootAndContainer() {
	root := &TreeNode{
		ID:          rootNodeID,
		Name:        "",
		Type:        NodeRoot,
		ParentID:    "",
		VirtualPath: "/",
		IsExpanded:  true,
	}
	m.nodes[rootNodeID] = root

	container := &TreeNode{
		ID:          containerNodeID,
		Name:        m.cfg.rootFolderLabel,
		Type:        NodeFolder,
		ParentID:    rootNodeID,
		VirtualPath: "/" + m.cfg.rootFolderLabel,
		IsExpanded:  m.cfg.expandFoldersByDefault,
	}
	m.nodes[containerNodeID] = container
	root.ChildIDs = append(root.ChildIDs, containerNodeID)
}

func (m *materializer) containerID() string { return containerNodeID }

// stripPath implements spec.md §4.6: the first configured prefix
// (longest-first) that is equal to or an ancestor of canon determines the
// display remainder; otherwise canon is returned unchanged.
func (m *materializer) stripPath(canon string) string {
	ci := m.cfg.caseInsensitivePaths
	for _, p := range m.stripPrefixes {
		if foldKey(p, ci) == foldKey(canon, ci) {
			return "/" + baseOf(p)
		}
		if isWithin(p, canon, ci) {
			return "/" + strings.Join(relativeSegments(p, canon), "/")
		}
	}
	return canon
}

// findOrCreateFolder implements spec.md §4.4's full resolution order:
// forced-ID reuse, then sibling-name merge under the configured merge
// policy, then creation.
func (m *materializer) findOrCreateFolder(parentID, name string, sourcePath, canonicalSourcePath, forcedID *string, expanded bool, origin Origin) (*TreeNode, error) {
	if strings.Contains(name, "/") {
		return nil, invariantErrorf("folder-name-separator", "folder name %q contains a path separator", name)
	}
	ci := m.cfg.caseInsensitivePaths
	parent := m.nodes[parentID]

	if forcedID != nil {
		if existing, ok := m.nodes[*forcedID]; ok {
			if existing.Type != NodeFolder {
				return nil, invariantErrorf("forced-id-type", "forced id %q already used by a non-folder node", *forcedID)
			}
			existing.Name = name
			if sourcePath != nil && *sourcePath != existing.SourcePath {
				existing.SourcePath = *sourcePath
			}
			existing.IsExpanded = expanded
			existing.Origin = mergeOrigin(existing.Origin, origin)
			if canonicalSourcePath != nil {
				m.canonSourceByID[existing.ID] = *canonicalSourcePath
			}
			m.ensureChild(parentID, existing.ID)
			return existing, nil
		}
	}

	for _, cid := range parent.ChildIDs {
		child := m.nodes[cid]
		if child == nil || child.Type != NodeFolder {
			continue
		}
		if foldKey(child.Name, ci) != foldKey(name, ci) {
			continue
		}

		existingCanon, existingHas := m.canonSourceByID[child.ID]
		var incomingCanon string
		incomingHas := canonicalSourcePath != nil
		if incomingHas {
			incomingCanon = *canonicalSourcePath
		}

		mergeable := false
		adoptIncoming := false
		switch {
		case !existingHas && !incomingHas:
			mergeable = true
		case existingHas && incomingHas && foldKey(existingCanon, ci) == foldKey(incomingCanon, ci):
			mergeable = true
		case m.cfg.mergeVirtualIntoRealFolders && !incomingHas && existingHas:
			mergeable = true
		case m.cfg.mergeVirtualIntoRealFolders && incomingHas && !existingHas:
			mergeable = true
			adoptIncoming = true
		}
		if !mergeable {
			continue
		}

		if adoptIncoming {
			m.canonSourceByID[child.ID] = incomingCanon
		}
		if sourcePath != nil && child.SourcePath == "" {
			child.SourcePath = *sourcePath
		}
		child.Origin = mergeOrigin(child.Origin, origin)
		return child, nil
	}

	var id string
	switch {
	case forcedID != nil:
		id = *forcedID
	case canonicalSourcePath != nil:
		id = sourcePathFolderID(*canonicalSourcePath)
	default:
		id = virtualFolderID(joinPath(parent.VirtualPath, name))
	}

	sp := ""
	if sourcePath != nil {
		sp = *sourcePath
	}
	node := &TreeNode{
		ID:          id,
		Name:        name,
		Type:        NodeFolder,
		ParentID:    parentID,
		VirtualPath: joinPath(parent.VirtualPath, name),
		SourcePath:  sp,
		IsVirtual:   canonicalSourcePath == nil,
		IsExpanded:  expanded,
		Origin:      origin,
	}
	m.nodes[id] = node
	if canonicalSourcePath != nil {
		m.canonSourceByID[id] = *canonicalSourcePath
	}
	parent.ChildIDs = append(parent.ChildIDs, id)
	return node, nil
}

func (m *materializer) ensureChild(parentID, childID string) {
	parent := m.nodes[parentID]
	for _, c := range parent.ChildIDs {
		if c == childID {
			return
		}
	}
	parent.ChildIDs = append(parent.ChildIDs, childID)
}

// placeFile walks (and creates as needed) the intermediate folders
// between a top anchor and a real file, then creates the file leaf,
// guarding against duplicate entry IDs (spec.md §4.3).
func (m *materializer) placeFile(anchorNode *TreeNode, anchorCanonical string, f canonicalEntry) error {
	rel := relativeSegments(anchorCanonical, f.canonical)
	var interior []string
	var leaf string
	if len(rel) == 0 {
		leaf = baseOf(f.canonical)
	} else {
		interior = rel[:len(rel)-1]
		leaf = rel[len(rel)-1]
	}

	current := anchorNode
	canon := anchorCanonical
	for _, seg := range interior {
		canon = joinPath(canon, seg)
		sp := m.stripPath(canon)
		canonCopy := canon
		fid := sourcePathFolderID(canonCopy)
		node, err := m.findOrCreateFolder(current.ID, seg, &sp, &canonCopy, &fid, m.cfg.expandFoldersByDefault, OriginInferred)
		if err != nil {
			return err
		}
		current = node
	}

	fid := fileNodeID(f.entry.ID)
	if _, exists := m.nodes[fid]; exists {
		return nil
	}
	sp := m.stripPath(f.canonical)
	node := &TreeNode{
		ID:          fid,
		Name:        f.entry.Name,
		Type:        NodeFile,
		ParentID:    current.ID,
		VirtualPath: joinPath(current.VirtualPath, leaf),
		SourcePath:  sp,
		EntryID:     f.entry.ID,
		IsVirtual:   false,
		IsSelected:  m.cfg.selectNewFilesByDefault,
	}
	m.nodes[fid] = node
	current.ChildIDs = append(current.ChildIDs, fid)
	return nil
}

// materializeEmptySelectedDirectories implements spec.md §4.3's guarantee
// that directly selected directories with no real files still appear.
func (m *materializer) materializeEmptySelectedDirectories(selectedDirectories []string, anchors []string, files []canonicalEntry) error {
	ci := m.cfg.caseInsensitivePaths
	for _, raw := range selectedDirectories {
		canon := canonicalize(raw, m.cfg.unicodeNormalize)

		hasFiles := false
		for _, f := range files {
			if f.entry.IsVirtual {
				continue
			}
			if f.canonical != canon && isWithin(canon, f.canonical, ci) {
				hasFiles = true
				break
			}
		}
		if hasFiles {
			continue
		}

		governingAnchor := ""
		for _, a := range anchors {
			if isWithin(a, canon, ci) {
				governingAnchor = a
				break
			}
		}
		if governingAnchor == "" || foldKey(governingAnchor, ci) == foldKey(canon, ci) {
			continue // it IS a top anchor (or has none); already materialized or unreachable.
		}

		segs := relativeSegments(governingAnchor, canon)
		if len(segs) == 0 {
			continue
		}

		current := m.nodes[anchorFolderID(governingAnchor)]
		if current == nil {
			continue
		}
		runningCanon := governingAnchor
		for i, seg := range segs {
			runningCanon = joinPath(runningCanon, seg)
			sp := m.stripPath(runningCanon)
			canonCopy := runningCanon
			fid := sourcePathFolderID(canonCopy)
			origin := OriginInferred
			if i == len(segs)-1 {
				origin = OriginDirect
			}
			node, err := m.findOrCreateFolder(current.ID, seg, &sp, &canonCopy, &fid, m.cfg.expandFoldersByDefault, origin)
			if err != nil {
				return err
			}
			current = node
		}
	}
	return nil
}

// findFolderByCanonicalSourcePath looks up a real folder anywhere in the
// tree by its remembered canonicalSourcePath, letting a virtualParent hint
// that spells out a real anchor's full path (e.g. "repo/notes" matching a
// top anchor materialized from "/repo/notes") land on that same node
// instead of walking a parallel virtual chain under the container.
func (m *materializer) findFolderByCanonicalSourcePath(canon string) *TreeNode {
	key := foldKey(canon, m.cfg.caseInsensitivePaths)
	for id, c := range m.canonSourceByID {
		if foldKey(c, m.cfg.caseInsensitivePaths) == key {
			if n := m.nodes[id]; n != nil && n.Type == NodeFolder {
				return n
			}
		}
	}
	return nil
}

// placeVirtual attaches a virtual entry under the container, walking (and
// creating, merging into real folders where configured) any virtualParent
// hint folders, per spec.md §4.3.
func (m *materializer) placeVirtual(f canonicalEntry) error {
	md := decodeEntryMetadata(f.entry.Metadata)
	segs := normalizeVirtualParentHint(md.VirtualParent)

	current := m.nodes[containerNodeID]
	if len(segs) > 0 && m.cfg.mergeVirtualIntoRealFolders {
		if existing := m.findFolderByCanonicalSourcePath("/" + strings.Join(segs, "/")); existing != nil {
			current = existing
			segs = nil
		}
	}
	for _, seg := range segs {
		node, err := m.findOrCreateFolder(current.ID, seg, nil, nil, nil, m.cfg.expandFoldersByDefault, OriginNone)
		if err != nil {
			return err
		}
		current = node
	}

	fid := fileNodeID(f.entry.ID)
	if _, exists := m.nodes[fid]; exists {
		return nil
	}
	node := &TreeNode{
		ID:          fid,
		Name:        f.entry.Name,
		Type:        NodeFile,
		ParentID:    current.ID,
		VirtualPath: joinPath(current.VirtualPath, f.entry.Name),
		EntryID:     f.entry.ID,
		IsVirtual:   true,
		IsSelected:  m.cfg.selectNewFilesByDefault,
	}
	m.nodes[fid] = node
	current.ChildIDs = append(current.ChildIDs, fid)
	return nil
}

// normalizeVirtualParentHint replaces backslashes, drops "." and empty
// segments, and resolves ".." by removing the preceding segment (never
// above the container), per spec.md §4.3 and §7.
func normalizeVirtualParentHint(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, `\`, "/")
	parts := strings.Split(s, "/")
	var stack []string
	for _, seg := range parts {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	return stack
}

func (m *materializer) finish(omitContainerRowAtRoot bool) *TreeData {
	return &TreeData{
		Nodes:                  m.nodes,
		RootID:                 rootNodeID,
		VisibleRootID:          containerNodeID,
		OmitContainerRowAtRoot: omitContainerRowAtRoot,
	}
}

// Build runs the full pipeline described in spec.md §2 over entries,
// returning the finished, invariant-checked TreeData.
func Build(entries []TreeEntry, opts ...BuildOption) (*TreeData, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	normalized := normalizeEntries(entries, cfg)
	stripPrefixes := prepareStripPrefixes(cfg.stripPrefixes, cfg)

	universe := buildAnchorUniverse(normalized, cfg)
	anchors := compressAnchors(universe, cfg.caseInsensitivePaths, cfg.preferDeepestRoot)
	groups, allAnchors := groupFilesByAnchor(normalized, anchors, cfg.caseInsensitivePaths)

	m := newMaterializer(cfg, stripPrefixes)
	m.createRootAndContainer()

	labels := uniqueRootLabels(allAnchors)
	selectedDirFold := foldSet(cfg.selectedDirectories, cfg)

	for i, anchor := range allAnchors {
		origin := OriginInferred
		if selectedDirFold[foldKey(anchor, cfg.caseInsensitivePaths)] {
			origin = OriginDirect
		}
		anchorID := anchorFolderID(anchor)
		sp := m.stripPath(anchor)
		anchorCopy := anchor
		anchorNode, err := m.findOrCreateFolder(containerNodeID, labels[i], &sp, &anchorCopy, &anchorID, cfg.expandFoldersByDefault, origin)
		if err != nil {
			return nil, err
		}
		m.cfg.logger.WithFields(map[string]any{"anchor": anchor, "label": labels[i], "origin": origin.String()}).Debug("materialized top anchor")

		for _, f := range groups[anchor] {
			if err := m.placeFile(anchorNode, anchor, f); err != nil {
				return nil, err
			}
		}
	}

	if err := m.materializeEmptySelectedDirectories(cfg.selectedDirectories, allAnchors, normalized); err != nil {
		return nil, err
	}

	for _, f := range normalized {
		if !f.entry.IsVirtual {
			continue
		}
		if err := m.placeVirtual(f); err != nil {
			return nil, err
		}
	}

	data := m.finish(cfg.omitContainerRowAtRoot)

	if cfg.sortChildrenByName {
		sortAllChildren(data, cfg.sortDelegate)
	}

	pickVisibleRoot(data, cfg)

	if err := data.verifyInvariants(); err != nil {
		return nil, err
	}

	return data, nil
}
