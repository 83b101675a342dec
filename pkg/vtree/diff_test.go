package vtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func vn(id string) VisibleNode { return VisibleNode{ID: id} }

func vns(ids ...string) []VisibleNode {
	out := make([]VisibleNode, len(ids))
	for i, id := range ids {
		out[i] = vn(id)
	}
	return out
}

// Scenario D — LIS diff reorder.
func TestDiff_ScenarioD_Reorder(t *testing.T) {
	before := vns("a", "b", "c")
	after := vns("c", "a", "b")

	got := Diff(before, after)
	assert.Equal(t, []int{2}, got.RemovesDesc)
	assert.Equal(t, []int{0}, got.InsertsAsc)
}

// Scenario E — mixed diff.
func TestDiff_ScenarioE_Mixed(t *testing.T) {
	before := vns("anchor", "b", "c", "d", "e")
	after := vns("inserted", "anchor", "d", "e", "tail")

	got := Diff(before, after)
	assert.Equal(t, []int{2, 1}, got.RemovesDesc)
	assert.Equal(t, []int{0, 4}, got.InsertsAsc)
}

func TestDiff_IdenticalSequenceIsNoop(t *testing.T) {
	before := vns("a", "b", "c")
	after := vns("a", "b", "c")

	got := Diff(before, after)
	assert.Empty(t, got.RemovesDesc)
	assert.Empty(t, got.InsertsAsc)
}

func TestDiff_EmptyToNonEmpty(t *testing.T) {
	got := Diff(nil, vns("a", "b"))
	assert.Empty(t, got.RemovesDesc)
	assert.Equal(t, []int{0, 1}, got.InsertsAsc)
}

func TestDiff_NonEmptyToEmpty(t *testing.T) {
	got := Diff(vns("a", "b"), nil)
	assert.Equal(t, []int{1, 0}, got.RemovesDesc)
	assert.Empty(t, got.InsertsAsc)
}

func TestDiff_ApplyingResultReproducesAfter(t *testing.T) {
	before := vns("anchor", "b", "c", "d", "e")
	after := vns("inserted", "anchor", "d", "e", "tail")

	result := Diff(before, after)

	remaining := append([]VisibleNode(nil), before...)
	for _, idx := range result.RemovesDesc {
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	var gotIDs []string
	j := 0
	insertSet := make(map[int]bool, len(result.InsertsAsc))
	for _, idx := range result.InsertsAsc {
		insertSet[idx] = true
	}
	for i := range after {
		if insertSet[i] {
			gotIDs = append(gotIDs, after[i].ID)
			continue
		}
		gotIDs = append(gotIDs, remaining[j].ID)
		j++
	}

	var wantIDs []string
	for _, v := range after {
		wantIDs = append(wantIDs, v.ID)
	}
	assert.Equal(t, wantIDs, gotIDs)
}
