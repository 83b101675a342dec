package vtree

import (
	"crypto/sha256"
	"encoding/base64"
	"regexp"
	"strings"
)

const (
	rootNodeID      = "root"
	containerNodeID = "container"
)

var unsafeIDCharRe = regexp.MustCompile(`[^A-Za-z0-9_-]`)
var unsafeVirtualPathCharRe = regexp.MustCompile(`[^A-Za-z0-9_/-]`)

// digest returns the base64url (unpadded) SHA-256 digest of s, grounded on
// the teacher's content-hash pattern in pkg/context/cache.go (which hashes
// with crypto/sha256 for cache-key stability) but base64url-encoded per
// spec.md §4.5 rather than hex, to keep derived IDs URL-safe.
func digest(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func sanitizeIDComponent(s string) string {
	return unsafeIDCharRe.ReplaceAllString(s, "_")
}

func sanitizeVirtualPathComponent(s string) string {
	return unsafeVirtualPathCharRe.ReplaceAllString(s, "_")
}

// anchorFolderID derives the stable ID for a top-anchor folder.
func anchorFolderID(canonical string) string {
	return "folder_sr_" + sanitizeIDComponent(baseOf(canonical)) + "_" + digest(canonical)
}

// sourcePathFolderID derives the stable ID for a folder with a known
// canonicalSourcePath (an intermediate folder on the way to a real file).
func sourcePathFolderID(canonicalSourcePath string) string {
	return "folder_sp_" + sanitizeIDComponent(baseOf(canonicalSourcePath)) + "_" + digest(canonicalSourcePath)
}

// virtualFolderID derives the stable ID for a purely virtual folder.
func virtualFolderID(virtualPath string) string {
	return "folder_" + sanitizeVirtualPathComponent(strings.ReplaceAll(virtualPath, "/", "_")) + "_" + digest(virtualPath)
}

// fileNodeID derives the stable ID for a file leaf from its originating entry ID.
func fileNodeID(entryID string) string {
	return "node_" + entryID
}

// uniqueRootLabels widens conflicting top-anchor display labels by
// prepending ancestor segments (joined with " - ") until all labels are
// unique, per spec.md §4.5. canonicalByIndex holds the canonical anchor
// path parallel to labels.
func uniqueRootLabels(canonicalByIndex []string) []string {
	labels := make([]string, len(canonicalByIndex))
	segmentsByIndex := make([][]string, len(canonicalByIndex))
	for i, c := range canonicalByIndex {
		labels[i] = baseOf(c)
		segs := strings.Split(strings.Trim(c, "/"), "/")
		segmentsByIndex[i] = segs
	}

	widen := 1
	for {
		conflicts := make(map[string][]int)
		for i, l := range labels {
			conflicts[l] = append(conflicts[l], i)
		}
		anyConflict := false
		for _, idxs := range conflicts {
			if len(idxs) > 1 {
				anyConflict = true
			}
		}
		if !anyConflict {
			break
		}

		progressed := false
		for _, idxs := range conflicts {
			if len(idxs) < 2 {
				continue
			}
			for _, i := range idxs {
				segs := segmentsByIndex[i]
				if widen >= len(segs) {
					continue
				}
				start := len(segs) - 1 - widen
				labels[i] = strings.Join(segs[start:], " - ")
				progressed = true
			}
		}
		widen++
		if !progressed {
			break
		}
	}

	// Final tie-breaker: append a short digest suffix to any remaining
	// conflicts (possible only when anchors are identical under case
	// folding save for case, which survives compression).
	seen := make(map[string]bool, len(labels))
	for i, l := range labels {
		if !seen[l] {
			seen[l] = true
			continue
		}
		suffix := digest(canonicalByIndex[i])
		if len(suffix) > 6 {
			suffix = suffix[:6]
		}
		labels[i] = l + " [" + suffix + "]"
	}

	return labels
}
