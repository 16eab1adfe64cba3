package ramdisk

import "io"

// Read copies bytes from the handle's cursor into p and advances the
// cursor. The count is clamped so reads never pass the logical size;
// hitting end of file is not an error, the call just returns a short
// (possibly zero) count with nil error.
func (fs *Filesystem) Read(fd int, p []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return 0, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil || h.dir {
		return 0, ErrBadHandle
	}
	n := h.node
	cnt := len(p)
	if h.pos+cnt > n.size {
		cnt = n.size - h.pos
	}
	if cnt <= 0 {
		return 0, nil
	}
	copy(p, n.data[h.pos:h.pos+cnt])
	h.pos += cnt
	return cnt, nil
}

// Write copies p at the handle's cursor, growing the backing buffer when
// needed, and advances the cursor. Growth reallocates to exactly the
// required length plus a 4 KiB slack (configurable) so repeated small
// appends don't thrash the allocator. The logical size is a high-water
// mark: writes that end before the current size do not truncate.
//
// Only the handle holding the node's write lock may write; anything else
// fails with ErrBadHandle.
func (fs *Filesystem) Write(fd int, p []byte) (int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return 0, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil || h.dir || h.node.openFor != openForWrite {
		return 0, ErrBadHandle
	}
	n := h.node
	need := h.pos + len(p)
	if need > len(n.data) {
		grown := make([]byte, need+fs.cfg.GrowthSlack)
		copy(grown, n.data)
		n.data = grown
	}
	copy(n.data[h.pos:], p)
	h.pos += len(p)
	if n.size < h.pos {
		n.size = h.pos
	}
	return len(p), nil
}

// Seek moves the handle's cursor. whence is one of io.SeekStart,
// io.SeekCurrent or io.SeekEnd. A candidate position below zero fails
// with ErrInvalidArgument; a position past end of file silently clamps
// to end of file. Returns the resulting cursor.
func (fs *Filesystem) Seek(fd int, offset int64, whence int) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return 0, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil || h.dir {
		return 0, ErrBadHandle
	}

	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = int64(h.pos)
	case io.SeekEnd:
		base = int64(h.node.size)
	default:
		return 0, ErrInvalidArgument
	}

	pos := base + offset
	if pos < 0 {
		return 0, ErrInvalidArgument
	}
	if pos > int64(h.node.size) {
		pos = int64(h.node.size)
	}
	h.pos = int(pos)
	return pos, nil
}

// Tell returns the handle's current cursor position.
func (fs *Filesystem) Tell(fd int) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return 0, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil || h.dir {
		return 0, ErrBadHandle
	}
	return int64(h.pos), nil
}

// Size returns the file's logical byte length (not its allocated
// capacity; compare Stat).
func (fs *Filesystem) Size(fd int) (int64, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return 0, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil || h.dir {
		return 0, ErrBadHandle
	}
	return int64(h.node.size), nil
}

// Mmap returns the live backing slice of an open file handle, truncated
// to the logical size. The slice aliases namespace-owned memory: it is
// valid only while the file stays open, and writes through it bypass the
// open-mode admission control entirely.
func (fs *Filesystem) Mmap(fd int) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return nil, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil || h.dir {
		return nil, ErrBadHandle
	}
	return h.node.data[:h.node.size], nil
}
