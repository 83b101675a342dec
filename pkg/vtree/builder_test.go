package vtree

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func childNames(t *testing.T, data *TreeData, parentID string) []string {
	t.Helper()
	parent := data.Node(parentID)
	require.NotNil(t, parent)
	var names []string
	for _, cid := range parent.ChildIDs {
		names = append(names, data.Node(cid).Name)
	}
	return names
}

func depthZeroNames(t *testing.T, data *TreeData) []string {
	t.Helper()
	return childNames(t, data, containerNodeID)
}

// Scenario A — anchor compression.
func TestBuild_ScenarioA_AnchorCompression(t *testing.T) {
	entries := []TreeEntry{
		{ID: "f", Name: "file_category.dart", FullPath: "/repo/lib/src/features/scan/models/file_category.dart"},
		{ID: "s", Name: "markdown_builder.dart", FullPath: "/repo/lib/src/features/scan/services/markdown_builder.dart"},
		{ID: "d", Name: "scan.dart", FullPath: "/repo/lib/src/features/scan/scan.dart"},
	}

	data, err := Build(entries,
		WithStripPrefixes("/repo"),
		WithOmitContainerRowAtRoot(true),
		WithAutoPickVisibleRoot(false),
	)
	require.NoError(t, err)

	names := depthZeroNames(t, data)
	assert.Equal(t, []string{"scan"}, names)

	var scan *TreeNode
	for _, cid := range data.Node(containerNodeID).ChildIDs {
		if data.Node(cid).Name == "scan" {
			scan = data.Node(cid)
		}
	}
	require.NotNil(t, scan)
	assert.Equal(t, OriginInferred, scan.Origin)
	assert.Equal(t, "/lib/src/features/scan", scan.SourcePath)

	gotChildren := childNames(t, data, scan.ID)
	sort.Strings(gotChildren)
	assert.Equal(t, []string{"models", "scan.dart", "services"}, gotChildren)
}

// Scenario B — direct selection promotes origin.
func TestBuild_ScenarioB_DirectSelectionPromotesOrigin(t *testing.T) {
	entries := []TreeEntry{
		{ID: "f", Name: "file_category.dart", FullPath: "/repo/lib/src/features/scan/models/file_category.dart"},
		{ID: "s", Name: "markdown_builder.dart", FullPath: "/repo/lib/src/features/scan/services/markdown_builder.dart"},
		{ID: "d", Name: "scan.dart", FullPath: "/repo/lib/src/features/scan/scan.dart"},
	}

	data, err := Build(entries,
		WithStripPrefixes("/repo"),
		WithOmitContainerRowAtRoot(true),
		WithAutoPickVisibleRoot(false),
		WithSelectedDirectories("/repo/lib/src/features/editor"),
	)
	require.NoError(t, err)

	names := depthZeroNames(t, data)
	sort.Strings(names)
	assert.Equal(t, []string{"editor", "scan"}, names)

	origins := map[string]Origin{}
	for _, cid := range data.Node(containerNodeID).ChildIDs {
		n := data.Node(cid)
		origins[n.Name] = n.Origin
	}
	assert.Equal(t, OriginDirect, origins["editor"])
	assert.Equal(t, OriginInferred, origins["scan"])
}

// Scenario C — a virtual entry merges into the real folder sharing its name.
func TestBuild_ScenarioC_VirtualMergesIntoReal(t *testing.T) {
	entries := []TreeEntry{
		{ID: "real", Name: "story.md", FullPath: "/repo/notes/story.md"},
		{
			ID: "v", Name: "scratch.txt", FullPath: "/virtual/scratch.txt", IsVirtual: true,
			Metadata: map[string]any{"virtualParent": "repo/notes"},
		},
	}

	data, err := Build(entries)
	require.NoError(t, err)

	var notesFolders []*TreeNode
	for _, n := range data.Nodes {
		if n.Type == NodeFolder && n.Name == "notes" {
			notesFolders = append(notesFolders, n)
		}
	}
	require.Len(t, notesFolders, 1, "expected exactly one notes folder")

	var entryIDs []string
	for _, cid := range notesFolders[0].ChildIDs {
		entryIDs = append(entryIDs, data.Node(cid).EntryID)
	}
	sort.Strings(entryIDs)
	assert.Equal(t, []string{"real", "v"}, entryIDs)
}

// Scenario F — Windows-style and POSIX-style paths canonicalize to the
// same file under case-insensitive comparison.
func TestBuild_ScenarioF_WindowsCanonicalizationDedup(t *testing.T) {
	entries := []TreeEntry{
		{ID: "A", Name: "a.dart", FullPath: `C:\work\repo\lib\a.dart`},
		{ID: "B", Name: "a.dart", FullPath: "c:/work/repo/lib/a.dart"},
	}

	data, err := Build(entries,
		WithStripPrefixes("C:/work/repo"),
		WithCaseInsensitivePaths(true),
		WithOmitContainerRowAtRoot(true),
		WithAutoPickVisibleRoot(false),
	)
	require.NoError(t, err)

	fileCount := 0
	for _, n := range data.Nodes {
		if n.Type == NodeFile {
			fileCount++
		}
	}
	assert.Equal(t, 1, fileCount)

	names := depthZeroNames(t, data)
	assert.Equal(t, []string{"lib"}, names)
}

func TestBuild_InvariantsHold(t *testing.T) {
	entries := []TreeEntry{
		{ID: "a", Name: "main.go", FullPath: "/proj/cmd/main.go"},
		{ID: "b", Name: "util.go", FullPath: "/proj/internal/util.go"},
	}
	data, err := Build(entries)
	require.NoError(t, err)
	assert.NoError(t, data.verifyInvariants())
}

func TestBuild_DuplicateEntryIDDropsSecond(t *testing.T) {
	entries := []TreeEntry{
		{ID: "dup", Name: "a.go", FullPath: "/proj/a.go"},
		{ID: "dup", Name: "b.go", FullPath: "/proj/b.go"},
	}
	data, err := Build(entries)
	require.NoError(t, err)

	fileCount := 0
	for _, n := range data.Nodes {
		if n.Type == NodeFile {
			fileCount++
			assert.Equal(t, "a.go", n.Name)
		}
	}
	assert.Equal(t, 1, fileCount)
}

func TestBuild_EmptySelectedDirectoryMaterializes(t *testing.T) {
	entries := []TreeEntry{
		{ID: "a", Name: "main.go", FullPath: "/proj/cmd/main.go"},
	}
	data, err := Build(entries, WithSelectedDirectories("/proj/docs/empty"))
	require.NoError(t, err)

	var found *TreeNode
	for _, n := range data.Nodes {
		if n.Type == NodeFolder && n.Name == "empty" {
			found = n
		}
	}
	require.NotNil(t, found, "expected the empty selected directory to be materialized")
	assert.Equal(t, OriginDirect, found.Origin)
}
