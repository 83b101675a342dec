package vtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeEntryMetadata_Nil(t *testing.T) {
	md := decodeEntryMetadata(nil)
	assert.Equal(t, "", md.VirtualParent)
}

func TestDecodeEntryMetadata_Valid(t *testing.T) {
	md := decodeEntryMetadata(map[string]any{"virtualParent": "notes/drafts"})
	assert.Equal(t, "notes/drafts", md.VirtualParent)
}

func TestDecodeEntryMetadata_WrongTypeIsIgnored(t *testing.T) {
	md := decodeEntryMetadata(map[string]any{"virtualParent": 42})
	assert.Equal(t, "", md.VirtualParent)
}

func TestNormalizeVirtualParentHint(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, normalizeVirtualParentHint(`a\b`))
	assert.Equal(t, []string{"a"}, normalizeVirtualParentHint("a/./"))
	assert.Equal(t, []string{}, normalizeVirtualParentHint("a/.."))
	assert.Nil(t, normalizeVirtualParentHint(""))
}
