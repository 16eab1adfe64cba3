package ramdisk

import "strings"

// kindFilter selects which node kind a path lookup will accept for the
// final segment.
type kindFilter int

const (
	wantFile kindFilter = iota
	wantDir
	wantAny
)

func (w kindFilter) accepts(n *node) bool {
	switch w {
	case wantFile:
		return !n.isDir()
	case wantDir:
		return n.isDir()
	default:
		return true
	}
}

// lookupPath resolves a slash-separated path (no leading slash) against
// dir. Every segment except the last must name an existing directory;
// empty segments from doubled slashes are skipped. A final segment of the
// wrong kind fails with ErrWrongKind, which is distinct from ErrNotFound.
//
// A path with no non-empty final segment ("" after a trailing slash)
// denotes the directory reached so far.
func lookupPath(dir *node, fn string, want kindFilter) (*node, error) {
	for {
		seg, rest, found := strings.Cut(fn, "/")
		if !found {
			break
		}
		if seg != "" {
			child := dir.findChild(seg)
			if child == nil {
				return nil, ErrNotFound
			}
			if !child.isDir() {
				return nil, ErrWrongKind
			}
			dir = child
		}
		fn = rest
	}

	if fn == "" {
		if !want.accepts(dir) {
			return nil, ErrWrongKind
		}
		return dir, nil
	}

	n := dir.findChild(fn)
	if n == nil {
		return nil, ErrNotFound
	}
	if !want.accepts(n) {
		return nil, ErrWrongKind
	}
	return n, nil
}

// lookupParent splits fn at its last slash, resolves the directory prefix
// against root and returns the parent directory plus the base name. A
// path without a slash parents directly under root.
func lookupParent(root *node, fn string) (*node, string, error) {
	i := strings.LastIndexByte(fn, '/')
	if i < 0 {
		return root, fn, nil
	}
	dir, err := lookupPath(root, fn[:i], wantDir)
	if err != nil {
		return nil, "", err
	}
	return dir, fn[i+1:], nil
}
