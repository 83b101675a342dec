package vtree

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// UnicodeNormalizeFunc normalizes a string to a canonical Unicode form
// before further path canonicalization. golang.org/x/text/unicode/norm's
// norm.NFC.String satisfies this signature and is the package default.
type UnicodeNormalizeFunc func(string) string

var driveLetterRe = regexp.MustCompile(`^([A-Za-z]):/`)
var leadingSlashBeforeDriveRe = regexp.MustCompile(`^/([A-Za-z]:/.*)$`)
var repeatedSlashRe = regexp.MustCompile(`/{2,}`)

// canonicalize converts a raw, possibly OS-specific path into the
// POSIX-like canonical form used as the sole key for dedup, ancestry
// tests, and ID derivation. See spec.md §4.1 for the step-by-step
// contract this function implements verbatim.
func canonicalize(raw string, normalize UnicodeNormalizeFunc) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return "/"
	}

	p = strings.ReplaceAll(p, `\`, "/")

	if normalize != nil {
		p = normalize(p)
	}

	isDrive := false
	if m := driveLetterRe.FindStringSubmatch(p); m != nil {
		isDrive = true
		p = strings.ToUpper(m[1]) + ":" + p[len(m[1])+1:]
	}

	isUNC := !isDrive && strings.HasPrefix(p, "//")

	p = decodePercentEscapes(p)
	p = collapseRepeatedSlashes(p, isUNC)

	if !isDrive {
		if m := leadingSlashBeforeDriveRe.FindStringSubmatch(p); m != nil {
			p = m[1]
			isDrive = true
			isUNC = false
		}
	}

	result := posixNormalize(p, isUNC)
	if result == "" {
		return "/"
	}
	return result
}

// decodePercentEscapes decodes percent-encoded sequences the way parsing
// the path as a file URI would, without disturbing the rest of the string.
func decodePercentEscapes(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	if decoded, err := url.PathUnescape(p); err == nil {
		return decoded
	}
	return p
}

func collapseRepeatedSlashes(p string, isUNC bool) string {
	if isUNC {
		rest := repeatedSlashRe.ReplaceAllString(strings.TrimPrefix(p, "//"), "/")
		return "//" + rest
	}
	return repeatedSlashRe.ReplaceAllString(p, "/")
}

// posixNormalize collapses "." segments, resolves ".." lexically without
// escaping root, removes duplicate separators, and strips any trailing
// separator except for the root itself.
func posixNormalize(p string, isUNC bool) string {
	if isUNC {
		rest := strings.TrimPrefix(p, "//")
		cleaned := path.Clean(rest)
		if cleaned == "." {
			cleaned = ""
		}
		return "//" + cleaned
	}

	cleaned := path.Clean(p)
	if cleaned == "." {
		return "/"
	}
	if len(cleaned) > 1 && strings.HasSuffix(cleaned, "/") {
		cleaned = strings.TrimSuffix(cleaned, "/")
	}
	return cleaned
}

// parentOf returns the canonical parent directory of a canonical path.
func parentOf(canonical string) string {
	if canonical == "/" {
		return "/"
	}
	dir := path.Dir(canonical)
	return dir
}

// baseOf returns the final path segment of a canonical path.
func baseOf(canonical string) string {
	return path.Base(canonical)
}

// foldKey returns the key used for case-insensitive comparisons.
func foldKey(p string, caseInsensitive bool) string {
	if caseInsensitive {
		return strings.ToLower(p)
	}
	return p
}

// isWithin reports whether child is equal to parent or a descendant of it,
// under the given case policy, treating both as canonical POSIX-like paths.
func isWithin(parent, child string, caseInsensitive bool) bool {
	pk := foldKey(parent, caseInsensitive)
	ck := foldKey(child, caseInsensitive)
	if pk == ck {
		return true
	}
	if pk == "/" {
		return strings.HasPrefix(ck, "/")
	}
	return strings.HasPrefix(ck, pk+"/")
}

// relativeSegments splits the path of child relative to parent (which must
// satisfy isWithin(parent, child, ...)) into its non-empty segments.
func relativeSegments(parent, child string) []string {
	if parent == child {
		return nil
	}
	rest := child
	if len(child) >= len(parent) && strings.EqualFold(child[:len(parent)], parent) {
		rest = child[len(parent):]
	}
	rest = strings.TrimPrefix(rest, "/")
	if rest == "" {
		return nil
	}
	return strings.Split(rest, "/")
}
