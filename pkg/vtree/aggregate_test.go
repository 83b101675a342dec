package vtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatches_ReturnsIndicesInOrder(t *testing.T) {
	visible := []VisibleNode{
		{Name: "main.go"},
		{Name: "util.go"},
		{Name: "main_test.go"},
	}
	matches := FindMatches(visible, "main")
	assert.Equal(t, []int{0, 2}, matches)
}

func TestFindMatches_BlankQueryReturnsNil(t *testing.T) {
	visible := []VisibleNode{{Name: "main.go"}}
	assert.Nil(t, FindMatches(visible, "  "))
}

func TestAggregate_SumsLeafValuesUpToRoot(t *testing.T) {
	entries := []TreeEntry{
		{ID: "a", Name: "a.go", FullPath: "/proj/pkg1/a.go"},
		{ID: "b", Name: "b.go", FullPath: "/proj/pkg1/b.go"},
		{ID: "c", Name: "c.go", FullPath: "/proj/pkg2/c.go"},
	}
	data, err := Build(entries)
	require.NoError(t, err)

	totals := Aggregate(data, func(TreeNode) int { return 1 })

	assert.Equal(t, 3, totals["/"])
	assert.Equal(t, 3, totals["/tree"])

	var pkg1, pkg2 string
	for _, n := range data.Nodes {
		switch n.Name {
		case "pkg1":
			pkg1 = n.VirtualPath
		case "pkg2":
			pkg2 = n.VirtualPath
		}
	}
	require.NotEmpty(t, pkg1)
	require.NotEmpty(t, pkg2)
	assert.Equal(t, 2, totals[pkg1])
	assert.Equal(t, 1, totals[pkg2])
}
