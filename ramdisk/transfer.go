package ramdisk

// Attach hands ownership of buf to the namespace as the complete
// contents of path, without copying. The file is created if missing and
// truncated otherwise; afterwards its capacity and logical size both
// equal len(buf). The caller must not retain, mutate or free buf once
// Attach returns nil.
//
// Attach piggybacks on Open/Close, so it takes and releases the
// namespace lock once per step rather than holding it across the whole
// exchange.
func (fs *Filesystem) Attach(path string, buf []byte) error {
	fd, err := fs.Open(path, WriteOnly|Truncate)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	if h := fs.fh.get(fd); h != nil {
		n := h.node
		n.data = buf
		n.size = len(buf)
	}
	fs.mu.Unlock()

	return fs.Close(fd)
}

// Detach is the inverse of Attach: it removes path from the namespace
// and returns its backing buffer without copying. The caller becomes the
// exclusive owner of the returned slice; the node itself is unlinked and
// ceases to exist.
func (fs *Filesystem) Detach(path string) ([]byte, error) {
	fd, err := fs.Open(path, ReadOnly)
	if err != nil {
		return nil, err
	}

	var buf []byte
	fs.mu.Lock()
	if h := fs.fh.get(fd); h != nil {
		n := h.node
		// Another opener would make the final unlink fail; bail before
		// stealing so the file survives intact.
		if n.openCount > 1 {
			fs.mu.Unlock()
			fs.Close(fd) // nolint:errcheck
			return nil, ErrInUse
		}
		buf = n.data[:n.size]
		// Leave a small placeholder so the node stays well-formed for
		// the close and unlink steps below.
		n.data = make([]byte, fs.cfg.DetachPlaceholderSize)
		n.size = fs.cfg.DetachPlaceholderSize
	}
	fs.mu.Unlock()

	if err := fs.Close(fd); err != nil {
		return nil, err
	}
	if err := fs.Unlink(path); err != nil {
		return nil, err
	}
	return buf, nil
}
