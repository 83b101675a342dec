package vtree

import (
	"sort"
	"strings"
)

// depthOf returns the number of non-empty path segments, used purely as
// a sort key (shallower anchors sort first).
func depthOf(canonical string) int {
	trimmed := strings.Trim(canonical, "/")
	if trimmed == "" {
		return 0
	}
	return len(strings.Split(trimmed, "/"))
}

// buildAnchorUniverse gathers candidate top-level directories per
// spec.md §4.2: when autoComputeAnchors, the union of every real file's
// parent, every selected directory, and every source root; otherwise only
// source roots.
func buildAnchorUniverse(files []canonicalEntry, cfg *config) []string {
	seen := make(map[string]bool)
	var universe []string
	add := func(p string) {
		key := foldKey(p, cfg.caseInsensitivePaths)
		if seen[key] {
			return
		}
		seen[key] = true
		universe = append(universe, p)
	}

	if cfg.autoComputeAnchors {
		for _, f := range files {
			if f.entry.IsVirtual {
				continue
			}
			add(parentOf(f.canonical))
		}
		for _, d := range cfg.selectedDirectories {
			add(canonicalize(d, cfg.unicodeNormalize))
		}
	}
	for _, r := range cfg.sourceRoots {
		add(canonicalize(r, cfg.unicodeNormalize))
	}

	return universe
}

// compressAnchors implements spec.md §4.2's compression step: dedup, sort
// by depth then lexicographically, then keep each candidate only if no
// kept path is a proper ancestor of it. When preferDeepest is set (spec.md
// §9 Open Question on preferDeepestRoot), the dominance rule inverts: a
// deeper candidate descending from an already-kept anchor replaces it.
func compressAnchors(universe []string, caseInsensitive, preferDeepest bool) []string {
	dedup := dedupeByFoldKey(universe, caseInsensitive)

	sort.SliceStable(dedup, func(i, j int) bool {
		di, dj := depthOf(dedup[i]), depthOf(dedup[j])
		if di != dj {
			return di < dj
		}
		return dedup[i] < dedup[j]
	})

	var kept []string
	for _, candidate := range dedup {
		ancestorIdx := -1
		for i, k := range kept {
			if isWithin(k, candidate, caseInsensitive) && k != candidate {
				ancestorIdx = i
				break
			}
		}
		if ancestorIdx == -1 {
			kept = append(kept, candidate)
			continue
		}
		if preferDeepest {
			kept[ancestorIdx] = candidate
		}
		// else: candidate is dominated by a shallower kept anchor, discard it.
	}

	sort.SliceStable(kept, func(i, j int) bool {
		di, dj := depthOf(kept[i]), depthOf(kept[j])
		if di != dj {
			return di < dj
		}
		return kept[i] < kept[j]
	})
	return kept
}

func dedupeByFoldKey(paths []string, caseInsensitive bool) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		key := foldKey(p, caseInsensitive)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// groupFilesByAnchor assigns each real file's canonical path to the
// shallowest surviving top anchor that is an ancestor of it. Files that
// match no anchor fall back to their own parent directory as a synthetic
// top anchor (reachable with autoComputeAnchors=false, or when
// preferDeepestRoot replaced a file's shallower parent anchor). Every anchor
// receives a map entry, possibly empty.
func groupFilesByAnchor(files []canonicalEntry, anchors []string, caseInsensitive bool) (map[string][]canonicalEntry, []string) {
	groups := make(map[string][]canonicalEntry, len(anchors))
	order := append([]string(nil), anchors...)
	for _, a := range anchors {
		groups[a] = nil
	}

	for _, f := range files {
		if f.entry.IsVirtual {
			continue
		}
		assigned := ""
		for _, a := range anchors {
			if isWithin(a, f.canonical, caseInsensitive) {
				assigned = a
				break
			}
		}
		if assigned == "" {
			assigned = parentOf(f.canonical)
			if _, ok := groups[assigned]; !ok {
				order = append(order, assigned)
			}
		}
		groups[assigned] = append(groups[assigned], f)
	}

	return groups, order
}
