package ramdisk

import (
	"slices"
	"strings"
)

// NodeKind distinguishes files from directories.
type NodeKind int

const (
	KindFile NodeKind = iota
	KindDirectory
)

// openState is the exclusivity state shared by all current openers of a
// node. A node opened for write admits nobody else; a node opened for
// read admits further readers only.
type openState int

const (
	openForNothing openState = iota
	openForRead
	openForWrite
)

// node is a single file or directory in the namespace tree.
//
// For files, data[:size] holds the contents and len(data) is the
// allocated capacity (always >= size). After Attach the slice may be
// caller-supplied memory that the namespace now owns.
type node struct {
	name      string
	kind      NodeKind
	size      int    // logical byte length (files)
	data      []byte // backing buffer (files)
	openFor   openState
	openCount int // number of live handles referencing this node
	parent    *node

	// children are kept newest-first: inserts go to the front of the
	// slice, so in-order iteration yields reverse creation order. This
	// ordering is observable through ReadDir and must be preserved.
	children []*node
}

func newFileNode(name string, capacity int) *node {
	return &node{name: name, kind: KindFile, data: make([]byte, capacity)}
}

func newDirNode(name string) *node {
	return &node{name: name, kind: KindDirectory}
}

func (n *node) isDir() bool { return n.kind == KindDirectory }

// findChild looks up name among n's children. Sibling names are unique
// under case-insensitive comparison, so the first fold-equal match wins.
func (n *node) findChild(name string) *node {
	for _, c := range n.children {
		if strings.EqualFold(c.name, name) {
			return c
		}
	}
	return nil
}

// insertChild links c under n at the front of the sibling list.
func (n *node) insertChild(c *node) {
	c.parent = n
	n.children = slices.Insert(n.children, 0, c)
}

// removeChild unlinks c from n's sibling list.
func (n *node) removeChild(c *node) {
	for i, cur := range n.children {
		if cur == c {
			n.children = slices.Delete(n.children, i, i+1)
			c.parent = nil
			return
		}
	}
}
