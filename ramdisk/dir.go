package ramdisk

// SizeUnknown is reported for entries whose byte size is not tracked
// (nested directories).
const SizeUnknown int64 = -1

// DirEntry is one record yielded by ReadDir.
type DirEntry struct {
	Name  string
	IsDir bool
	Size  int64 // SizeUnknown for directories
}

// ReadDir yields the entry the directory handle's cursor references and
// advances the cursor to its successor. Iteration order is reverse
// creation order (newest sibling first). Once the cursor runs off the
// end the call fails with ErrBadHandle; end-of-iteration and a genuinely
// bad handle are indistinguishable by contract.
//
// The cursor is an index into the sibling list, so a concurrent unlink
// in the same directory compacts the list under an in-progress
// iteration: at most one entry is skipped and the iterator never yields
// a removed node.
func (fs *Filesystem) ReadDir(fd int) (DirEntry, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return DirEntry{}, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil || !h.dir {
		return DirEntry{}, ErrBadHandle
	}
	kids := h.node.children
	if h.next >= len(kids) {
		return DirEntry{}, ErrBadHandle
	}
	c := kids[h.next]
	h.next++

	ent := DirEntry{Name: c.name, IsDir: c.isDir(), Size: SizeUnknown}
	if !c.isDir() {
		ent.Size = int64(c.size)
	}
	return ent, nil
}

// RewindDir resets the directory handle's cursor to the first (newest)
// entry.
func (fs *Filesystem) RewindDir(fd int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil || !h.dir {
		return ErrBadHandle
	}
	h.next = 0
	return nil
}
