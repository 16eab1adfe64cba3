package ramdisk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper to build a small tree by hand:
//
//	/
//	├── etc/
//	│   └── motd
//	└── hosts
func buildTestTree() *node {
	root := newDirNode("")
	etc := newDirNode("etc")
	root.insertChild(etc)
	etc.insertChild(newFileNode("motd", 16))
	root.insertChild(newFileNode("hosts", 16))
	return root
}

func TestLookupPath(t *testing.T) {
	root := buildTestTree()

	tests := []struct {
		name    string
		path    string
		want    kindFilter
		node    string // expected node name, "" for root
		wantErr error
	}{
		{"file at root", "hosts", wantFile, "hosts", nil},
		{"nested file", "etc/motd", wantFile, "motd", nil},
		{"directory", "etc", wantDir, "etc", nil},
		{"any kind accepts file", "hosts", wantAny, "hosts", nil},
		{"any kind accepts dir", "etc", wantAny, "etc", nil},
		{"case folded segments", "ETC/Motd", wantFile, "motd", nil},
		{"doubled slashes skipped", "etc//motd", wantFile, "motd", nil},
		{"trailing slash names the dir", "etc/", wantDir, "etc", nil},
		{"missing file", "nope", wantFile, "", ErrNotFound},
		{"missing in subdir", "etc/nope", wantFile, "", ErrNotFound},
		{"file where dir expected", "hosts", wantDir, "", ErrWrongKind},
		{"dir where file expected", "etc", wantFile, "", ErrWrongKind},
		{"file used as intermediate", "hosts/x", wantFile, "", ErrWrongKind},
		{"missing intermediate", "ghost/x", wantFile, "", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := lookupPath(root, tt.path, tt.want)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.node, n.name)
		})
	}
}

func TestLookupParent(t *testing.T) {
	root := buildTestTree()

	t.Run("bare name parents under root", func(t *testing.T) {
		dir, base, err := lookupParent(root, "newfile")
		require.NoError(t, err)
		assert.Same(t, root, dir)
		assert.Equal(t, "newfile", base)
	})

	t.Run("nested parent resolves", func(t *testing.T) {
		dir, base, err := lookupParent(root, "etc/newfile")
		require.NoError(t, err)
		assert.Equal(t, "etc", dir.name)
		assert.Equal(t, "newfile", base)
	})

	t.Run("missing parent", func(t *testing.T) {
		_, _, err := lookupParent(root, "ghost/newfile")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("file as parent", func(t *testing.T) {
		_, _, err := lookupParent(root, "hosts/newfile")
		assert.ErrorIs(t, err, ErrWrongKind)
	})
}

func TestNode_SiblingOrder(t *testing.T) {
	dir := newDirNode("d")
	for _, name := range []string{"first", "second", "third"} {
		dir.insertChild(newFileNode(name, 4))
	}

	// Inserts go to the front, so iteration is reverse creation order
	var got []string
	for _, c := range dir.children {
		got = append(got, c.name)
	}
	assert.Equal(t, []string{"third", "second", "first"}, got)

	// Removal compacts the list and detaches the child
	second := dir.findChild("second")
	require.NotNil(t, second)
	dir.removeChild(second)
	assert.Nil(t, second.parent)
	assert.Nil(t, dir.findChild("second"))
	assert.Len(t, dir.children, 2)
}

func TestNode_FindChildCaseInsensitive(t *testing.T) {
	dir := newDirNode("d")
	dir.insertChild(newFileNode("MixedCase.TXT", 4))

	assert.NotNil(t, dir.findChild("mixedcase.txt"))
	assert.NotNil(t, dir.findChild("MIXEDCASE.TXT"))
	assert.Nil(t, dir.findChild("mixedcase"), "match is length exact, not prefix")
}
