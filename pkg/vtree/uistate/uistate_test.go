package uistate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpansionSet_ToggleAndQuery(t *testing.T) {
	s := NewExpansionSet("root")
	assert.True(t, s.IsExpanded("root"))
	assert.False(t, s.IsExpanded("child"))

	assert.True(t, s.Toggle("child"))
	assert.True(t, s.IsExpanded("child"))

	assert.False(t, s.Toggle("child"))
	assert.False(t, s.IsExpanded("child"))
}

func TestExpansionSet_AsMapIsDefensiveCopy(t *testing.T) {
	s := NewExpansionSet("root")
	m := s.AsMap()
	m["injected"] = true
	assert.False(t, s.IsExpanded("injected"))
}

func TestExpansionSet_CollapseRemoves(t *testing.T) {
	s := NewExpansionSet("root")
	s.Collapse("root")
	assert.False(t, s.IsExpanded("root"))
}

func TestSelectionSet_ToggleAndCount(t *testing.T) {
	s := NewSelectionSet()
	assert.Equal(t, 0, s.Count())

	s.Select("a")
	s.Select("b")
	assert.Equal(t, 2, s.Count())

	s.Deselect("a")
	assert.Equal(t, 1, s.Count())
	assert.False(t, s.IsSelected("a"))
	assert.True(t, s.IsSelected("b"))
}
