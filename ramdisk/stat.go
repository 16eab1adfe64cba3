package ramdisk

import (
	"strings"
	"syscall"
)

// Stat is the metadata record synthesized for a node. Mode uses the
// syscall bit layout (S_IFDIR/S_IFREG plus permission bits).
type Stat struct {
	Dev   uint64 // per-volume device number (derived from VolumeID)
	Mode  uint32
	Nlink uint32

	// Size is the allocated capacity for files, not the logical byte
	// count, and SizeUnknown for directories. Callers that need the
	// exact content length must use Size(fd) or Tell/Seek. Historical
	// behavior, kept for compatibility.
	Size int64

	Blksize int64
	Blocks  int64 // capacity / Blksize, rounded up
}

// statFor builds the record for a resolved node. Namespace lock held by
// the caller.
func (fs *Filesystem) statFor(n *node) Stat {
	st := Stat{
		Dev:     fs.dev,
		Blksize: int64(fs.cfg.BlockSize),
	}
	if n.isDir() {
		st.Mode = syscall.S_IFDIR | 0o777
		st.Nlink = 2
		st.Size = SizeUnknown
	} else {
		st.Mode = syscall.S_IFREG | 0o666
		st.Nlink = 1
		st.Size = int64(len(n.data))
		st.Blocks = (st.Size + st.Blksize - 1) / st.Blksize
	}
	return st
}

// Stat resolves path (file or directory) and synthesizes its metadata.
// The root path ("" or "/") always reports a fixed directory record.
func (fs *Filesystem) Stat(path string) (Stat, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return Stat{}, ErrClosed
	}

	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return fs.statFor(fs.root), nil
	}

	n, err := lookupPath(fs.root, path, wantAny)
	if err != nil {
		return Stat{}, err
	}
	return fs.statFor(n), nil
}

// FStat synthesizes metadata for an open handle (file or directory).
func (fs *Filesystem) FStat(fd int) (Stat, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return Stat{}, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil {
		return Stat{}, ErrBadHandle
	}
	return fs.statFor(h.node), nil
}

// FcntlCmd selects the Fcntl operation.
type FcntlCmd int

const (
	FcntlGetFlags FcntlCmd = iota
	FcntlSetFlags
	FcntlGetFD
	FcntlSetFD
)

// Fcntl implements the descriptor-control subset the namespace supports:
// FcntlGetFlags returns the flags recorded at open time, while the
// set-flags and FD-flag commands succeed without effect. Any other
// command fails with ErrInvalidArgument.
func (fs *Filesystem) Fcntl(fd int, cmd FcntlCmd) (OpenFlags, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return 0, ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil {
		return 0, ErrBadHandle
	}
	switch cmd {
	case FcntlGetFlags:
		return h.mode, nil
	case FcntlSetFlags, FcntlGetFD, FcntlSetFD:
		return 0, nil
	default:
		return 0, ErrInvalidArgument
	}
}
