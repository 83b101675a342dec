package vtree

import "testing"

func TestCanonicalizeBasics(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "/"},
		{"blank", "   ", "/"},
		{"already posix", "/a/b/c", "/a/b/c"},
		{"trailing slash trimmed", "/a/b/", "/a/b"},
		{"backslashes", `\a\b\c`, "/a/b/c"},
		{"repeated slashes", "/a//b///c", "/a/b/c"},
		{"dot segments", "/a/./b/../c", "/a/c"},
		{"windows drive backslash", `C:\work\repo`, "C:/work/repo"},
		{"windows drive lower", "c:/work/repo", "C:/work/repo"},
		{"percent escape", "/a/b%20c", "/a/b c"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := canonicalize(tc.in, nil)
			if got != tc.want {
				t.Errorf("canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCanonicalizeUNC(t *testing.T) {
	got := canonicalize(`\\server\share\dir`, nil)
	want := "//server/share/dir"
	if got != want {
		t.Errorf("canonicalize UNC = %q, want %q", got, want)
	}
}

func TestIsWithin(t *testing.T) {
	if !isWithin("/repo", "/repo/lib/a.dart", true) {
		t.Error("expected /repo/lib/a.dart to be within /repo")
	}
	if !isWithin("/repo", "/repo", true) {
		t.Error("a path should be within itself")
	}
	if isWithin("/repo/libx", "/repo/lib/a.dart", true) {
		t.Error("/repo/lib/a.dart should not be within /repo/libx (sibling prefix collision)")
	}
	if !isWithin("/REPO", "/repo/lib", true) {
		t.Error("case-insensitive isWithin should ignore case")
	}
	if isWithin("/REPO", "/repo/lib", false) {
		t.Error("case-sensitive isWithin should respect case")
	}
}

func TestRelativeSegments(t *testing.T) {
	got := relativeSegments("/repo", "/repo/lib/src/a.dart")
	want := []string{"lib", "src", "a.dart"}
	if len(got) != len(want) {
		t.Fatalf("relativeSegments = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("relativeSegments = %v, want %v", got, want)
		}
	}
}
