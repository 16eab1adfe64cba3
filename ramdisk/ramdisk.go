// Package ramdisk implements a file-based in-memory filesystem: instead
// of fronting a virtual block device, every file and directory is a
// separately allocated node, so the namespace can grow until memory runs
// out and there is no arbitrary capacity limit.
//
// Concurrency is protected at the namespace and handle level, not at the
// individual file level. Directory structure and the handle table never
// become inconsistent under concurrent callers, but file contents are
// guarded only by admission control at open time: one write-intent handle
// excludes every other opener, and any reader excludes writers. The
// typical pattern for sharing data is to fill a file through a write
// handle, close it, and let consumers re-open it read-only.
package ramdisk

import (
	"encoding/binary"
	"strings"
	"sync"

	"github.com/brettbedarf/ramfs/config"
	"github.com/brettbedarf/ramfs/internal/util"
	"github.com/google/uuid"
)

// Filesystem is one independent ramdisk namespace: the node tree, the
// bounded open-handle table and the single lock that guards both.
//
// Every exported operation acquires the namespace lock for the duration
// of that call only and never nests it, so composite helpers such as
// Attach/Detach are sequences of independently locked steps. There is no
// blocking wait on lock state: conflicting opens fail immediately with
// ErrLocked.
type Filesystem struct {
	cfg *config.Config
	vol uuid.UUID
	dev uint64

	mu     sync.Mutex // guards everything below
	root   *node
	fh     *handleTable
	closed bool
}

// New creates an empty namespace with just the root directory. Multiple
// namespaces are fully independent; there is no package-level state.
func New(cfg *config.Config) *Filesystem {
	if cfg == nil {
		cfg = config.NewConfig(nil)
	}
	vol := uuid.New()
	fs := &Filesystem{
		cfg:  cfg,
		vol:  vol,
		dev:  binary.BigEndian.Uint64(vol[:8]),
		root: newDirNode(""),
		fh:   newHandleTable(cfg.MaxHandles),
	}
	logger := util.GetLogger("ramdisk")
	logger.Debug().
		Str("volume", vol.String()).
		Int("maxHandles", cfg.MaxHandles).
		Msg("Namespace created")
	return fs
}

// VolumeID returns the namespace's unique volume identifier. Its first
// eight bytes double as the stat device number.
func (fs *Filesystem) VolumeID() uuid.UUID { return fs.vol }

// Shutdown invalidates every open handle and releases the whole tree.
// Calling it again, or calling any other operation afterwards, returns
// ErrClosed. A fresh namespace requires a new call to New.
func (fs *Filesystem) Shutdown() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return ErrClosed
	}
	fs.closed = true
	fs.fh.reset()
	fs.root = nil
	logger := util.GetLogger("ramdisk")
	logger.Debug().Str("volume", fs.vol.String()).Msg("Namespace shut down")
	return nil
}

// Open opens path with the given flags and returns a small integer
// handle (never 0). A missing file is created on the spot when flags
// carry write intent and Directory is not requested; a missing path is
// ErrNotFound otherwise. The empty path (or bare "/") denotes the root
// directory.
//
// Admission control happens here: opening fails with ErrLocked while a
// writer holds the node, and a write-intent open fails while any reader
// holds it.
func (fs *Filesystem) Open(path string, flags OpenFlags) (int, error) {
	path = strings.TrimPrefix(path, "/")
	wantsDir := flags&Directory != 0

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return 0, ErrClosed
	}

	// Directory handles are read-only by contract.
	if wantsDir && flags.Access() != ReadOnly {
		return 0, ErrInvalidArgument
	}

	var n *node
	if path == "" {
		n = fs.root
	} else {
		want := wantFile
		if wantsDir {
			want = wantDir
		}
		var err error
		n, err = lookupPath(fs.root, path, want)
		if err == ErrNotFound && flags.writeIntent() && !wantsDir {
			n, err = fs.createFile(path)
		}
		if err != nil {
			return 0, err
		}
	}

	if n.isDir() != wantsDir {
		return 0, ErrWrongKind
	}

	fd := fs.fh.alloc()
	if fd == 0 {
		return 0, ErrHandlesExhausted
	}

	// A writer excludes everyone. The slot claimed above is still
	// unassigned, so error returns below leak nothing.
	if n.openFor == openForWrite {
		return 0, ErrLocked
	}

	h := &fs.fh.slots[fd]
	if flags.writeIntent() {
		if n.openFor == openForRead {
			return 0, ErrLocked
		}
		n.openFor = openForWrite
		switch {
		case flags&Append != 0:
			h.pos = n.size
		case flags&Truncate != 0:
			n.data = make([]byte, fs.cfg.DefaultFileCapacity)
			n.size = 0
			h.pos = 0
		default:
			// Plain write intent overwrites from the start without
			// truncating.
			h.pos = 0
		}
	} else {
		n.openFor = openForRead
		h.pos = 0
	}

	if wantsDir {
		h.dir = true
		h.next = 0
	}

	h.node = n
	h.mode = flags
	n.openCount++
	return fd, nil
}

// Close releases the handle. When the node's last handle goes away its
// lock state returns to unlocked. Closing an invalid or stale handle is
// a deliberate no-op success.
func (fs *Filesystem) Close(fd int) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return ErrClosed
	}
	h := fs.fh.get(fd)
	if h == nil {
		return nil
	}
	n := h.node
	fs.fh.release(fd)
	n.openCount--
	if n.openCount == 0 {
		n.openFor = openForNothing
	}
	return nil
}

// Unlink removes the file at path and frees its buffer. Directories
// cannot be removed, and a file with open handles fails with ErrInUse.
func (fs *Filesystem) Unlink(path string) error {
	path = strings.TrimPrefix(path, "/")

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return ErrClosed
	}

	n, err := lookupPath(fs.root, path, wantFile)
	if err != nil {
		return err
	}
	if n.openCount > 0 {
		return ErrInUse
	}
	n.parent.removeChild(n)
	n.data = nil
	return nil
}

// createFile adds a new empty file node at path. The parent directory
// must already exist; intermediate directories are never created
// implicitly.
func (fs *Filesystem) createFile(path string) (*node, error) {
	dir, base, err := lookupParent(fs.root, path)
	if err != nil {
		return nil, err
	}
	// Sibling names are unique case-insensitively.
	if base == "" || dir.findChild(base) != nil {
		return nil, ErrInvalidArgument
	}
	n := newFileNode(base, fs.cfg.DefaultFileCapacity)
	dir.insertChild(n)
	return n, nil
}

// CreateDir adds a new empty directory node at path. The surrounding
// dispatch layer reports mkdir as unsupported; this exists for embedders
// (and tests) that assemble a tree directly.
func (fs *Filesystem) CreateDir(path string) error {
	path = strings.TrimPrefix(path, "/")

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if fs.closed {
		return ErrClosed
	}

	dir, base, err := lookupParent(fs.root, path)
	if err != nil {
		return err
	}
	if base == "" || dir.findChild(base) != nil {
		return ErrInvalidArgument
	}
	dir.insertChild(newDirNode(base))
	return nil
}
