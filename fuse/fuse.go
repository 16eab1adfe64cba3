// Package fuse adapts the ramdisk driver to the low-level FUSE wire
// protocol so a namespace can be mounted as a regular kernel mount.
package fuse

import (
	"errors"
	"io"
	"sync/atomic"
	"syscall"

	"github.com/brettbedarf/ramfs/config"
	"github.com/brettbedarf/ramfs/internal/util"
	"github.com/brettbedarf/ramfs/ramdisk"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/puzpuzpuz/xsync/v4"
)

// FuseRaw implements the low-level FUSE wire protocol as a protocol
// adapter between the kernel and the ramdisk driver.
// See https://www.man7.org/linux//man-pages/man4/fuse.4.html
//
// The kernel speaks in node IDs; the driver speaks in paths. FuseRaw
// keeps the two translation maps and hands every operation to the
// driver's path/handle API. Reads and writes are served with
// FOPEN_DIRECT_IO so the driver's own position and size bookkeeping
// stays authoritative (no kernel page cache in between).
type FuseRaw struct {
	fuse.RawFileSystem

	fs  *ramdisk.Filesystem
	cfg *config.Config

	// Node IDs are allocated on first lookup and never reused. Paths
	// here are driver-relative: "" is the root, "a/b" a nested file.
	paths  *xsync.Map[uint64, string]
	ids    *xsync.Map[string, uint64]
	lastID atomic.Uint64

	server *fuse.Server
}

func NewFuseRaw(fs *ramdisk.Filesystem, cfg *config.Config) *FuseRaw {
	r := &FuseRaw{
		RawFileSystem: fuse.NewDefaultRawFileSystem(),
		fs:            fs,
		cfg:           cfg,
		paths:         xsync.NewMap[uint64, string](),
		ids:           xsync.NewMap[string, uint64](),
	}
	r.lastID.Store(fuse.FUSE_ROOT_ID)
	r.paths.Store(fuse.FUSE_ROOT_ID, "")
	r.ids.Store("", fuse.FUSE_ROOT_ID)
	return r
}

func (r *FuseRaw) Init(s *fuse.Server) {
	logger := util.GetLogger("Fuse.Init")
	logger.Debug().Msg("FUSE initialized")
	r.server = s
}

func (r *FuseRaw) OnUnmount() {
	logger := util.GetLogger("Fuse.OnUnmount")
	logger.Info().Msg("FUSE unmounted")
}

func (r *FuseRaw) String() string {
	return "ramfs"
}

// nodeID returns the stable ID for path, allocating one on first use.
func (r *FuseRaw) nodeID(path string) uint64 {
	if id, ok := r.ids.Load(path); ok {
		return id
	}
	id := r.lastID.Add(1)
	if prev, loaded := r.ids.LoadOrStore(path, id); loaded {
		return prev
	}
	r.paths.Store(id, path)
	return id
}

// path resolves a kernel node ID back to a driver-relative path.
func (r *FuseRaw) path(id uint64) (string, bool) {
	if id == fuse.FUSE_ROOT_ID {
		return "", true
	}
	return r.paths.Load(id)
}

func childPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// errStatus translates driver errors onto the FUSE status space.
func errStatus(err error) fuse.Status {
	switch {
	case err == nil:
		return fuse.OK
	case errors.Is(err, ramdisk.ErrNotFound):
		return fuse.ENOENT
	case errors.Is(err, ramdisk.ErrWrongKind):
		return fuse.EINVAL
	case errors.Is(err, ramdisk.ErrLocked), errors.Is(err, ramdisk.ErrInUse):
		return fuse.Status(syscall.EBUSY)
	case errors.Is(err, ramdisk.ErrHandlesExhausted):
		return fuse.Status(syscall.EMFILE)
	case errors.Is(err, ramdisk.ErrBadHandle):
		return fuse.Status(syscall.EBADF)
	case errors.Is(err, ramdisk.ErrInvalidArgument):
		return fuse.EINVAL
	case errors.Is(err, ramdisk.ErrNotSupported):
		return fuse.ENOSYS
	default:
		return fuse.EIO
	}
}

// openFlags translates kernel open flags onto the driver's flag space.
func openFlags(raw uint32) ramdisk.OpenFlags {
	flags := ramdisk.OpenFlags(raw & uint32(syscall.O_ACCMODE))
	if raw&uint32(syscall.O_APPEND) != 0 {
		flags |= ramdisk.Append
	}
	if raw&uint32(syscall.O_TRUNC) != 0 {
		flags |= ramdisk.Truncate
	}
	if raw&uint32(syscall.O_DIRECTORY) != 0 {
		flags |= ramdisk.Directory
	}
	return flags
}

func (r *FuseRaw) fillAttr(path string, st ramdisk.Stat, out *fuse.Attr) {
	out.Ino = r.nodeID(path)
	out.Mode = st.Mode
	out.Nlink = uint32(st.Nlink)
	if st.Size >= 0 {
		out.Size = uint64(st.Size)
	}
	out.Blksize = uint32(st.Blksize)
	out.Blocks = uint64(st.Blocks)
}

func (r *FuseRaw) Access(cancel <-chan struct{}, input *fuse.AccessIn) fuse.Status {
	// Everything in the namespace is world accessible.
	return fuse.OK
}

// Lookup resolves a child by name below the parent node and registers
// it in the node ID maps.
func (r *FuseRaw) Lookup(cancel <-chan struct{}, header *fuse.InHeader, name string, out *fuse.EntryOut) fuse.Status {
	logger := util.GetLogger("Fuse.Lookup")
	parent, ok := r.path(header.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	path := childPath(parent, name)
	st, err := r.fs.Stat(path)
	if err != nil {
		if !errors.Is(err, ramdisk.ErrNotFound) {
			logger.Debug().Err(err).Str("path", path).Msg("Lookup failed")
		}
		return errStatus(err)
	}

	out.NodeId = r.nodeID(path)
	r.fillAttr(path, st, &out.Attr)
	out.SetAttrTimeout(120)
	out.SetEntryTimeout(120)
	return fuse.OK
}

// Forget drops a node ID the kernel no longer references. The path to
// ID direction stays so a later lookup of the same path reallocates
// consistently.
func (r *FuseRaw) Forget(nodeid, nlookup uint64) {
	if nodeid == fuse.FUSE_ROOT_ID {
		return
	}
	if path, ok := r.paths.LoadAndDelete(nodeid); ok {
		r.ids.Delete(path)
	}
}

func (r *FuseRaw) GetAttr(cancel <-chan struct{}, input *fuse.GetAttrIn, out *fuse.AttrOut) fuse.Status {
	path, ok := r.path(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	st, err := r.fs.Stat(path)
	if err != nil {
		return errStatus(err)
	}
	r.fillAttr(path, st, &out.Attr)
	out.SetTimeout(120)
	return fuse.OK
}

func (r *FuseRaw) Open(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	path, ok := r.path(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	fd, err := r.fs.Open(path, openFlags(input.Flags))
	if err != nil {
		return errStatus(err)
	}
	out.Fh = uint64(fd)
	out.OpenFlags = fuse.FOPEN_DIRECT_IO
	return fuse.OK
}

func (r *FuseRaw) Release(cancel <-chan struct{}, input *fuse.ReleaseIn) {
	r.fs.Close(int(input.Fh)) // nolint:errcheck
}

func (r *FuseRaw) Read(cancel <-chan struct{}, input *fuse.ReadIn, buf []byte) (fuse.ReadResult, fuse.Status) {
	fd := int(input.Fh)
	if _, err := r.fs.Seek(fd, int64(input.Offset), io.SeekStart); err != nil {
		return nil, errStatus(err)
	}
	n, err := r.fs.Read(fd, buf)
	if err != nil {
		return nil, errStatus(err)
	}
	return fuse.ReadResultData(buf[:n]), fuse.OK
}

func (r *FuseRaw) Write(cancel <-chan struct{}, input *fuse.WriteIn, data []byte) (uint32, fuse.Status) {
	fd := int(input.Fh)
	if _, err := r.fs.Seek(fd, int64(input.Offset), io.SeekStart); err != nil {
		return 0, errStatus(err)
	}
	n, err := r.fs.Write(fd, data)
	if err != nil {
		return 0, errStatus(err)
	}
	return uint32(n), fuse.OK
}

// Flush is issued on every close of a file descriptor. Nothing is
// buffered outside the driver, so there is nothing to push.
func (r *FuseRaw) Flush(cancel <-chan struct{}, input *fuse.FlushIn) fuse.Status {
	return fuse.OK
}

func (r *FuseRaw) Fsync(cancel <-chan struct{}, input *fuse.FsyncIn) fuse.Status {
	return fuse.OK
}

// Create opens path for writing, creating it in the driver on demand.
func (r *FuseRaw) Create(cancel <-chan struct{}, input *fuse.CreateIn, name string, out *fuse.CreateOut) fuse.Status {
	parent, ok := r.path(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	path := childPath(parent, name)
	fd, err := r.fs.Open(path, openFlags(input.Flags))
	if err != nil {
		return errStatus(err)
	}
	st, err := r.fs.FStat(fd)
	if err != nil {
		r.fs.Close(fd) // nolint:errcheck
		return errStatus(err)
	}

	out.NodeId = r.nodeID(path)
	r.fillAttr(path, st, &out.Attr)
	out.SetAttrTimeout(120)
	out.SetEntryTimeout(120)
	out.Fh = uint64(fd)
	out.OpenFlags = fuse.FOPEN_DIRECT_IO
	return fuse.OK
}

func (r *FuseRaw) Unlink(cancel <-chan struct{}, header *fuse.InHeader, name string) fuse.Status {
	parent, ok := r.path(header.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	return errStatus(r.fs.Unlink(childPath(parent, name)))
}

func (r *FuseRaw) OpenDir(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	path, ok := r.path(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	fd, err := r.fs.Open(path, ramdisk.Directory)
	if err != nil {
		return errStatus(err)
	}
	out.Fh = uint64(fd)
	return fuse.OK
}

func (r *FuseRaw) ReleaseDir(input *fuse.ReleaseIn) {
	r.fs.Close(int(input.Fh)) // nolint:errcheck
}

// ReadDir restarts the driver cursor on every call and skips to the
// kernel's offset, so a partially filled buffer never loses entries
// between calls.
func (r *FuseRaw) ReadDir(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	dir, ok := r.path(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	fd := int(input.Fh)
	if err := r.fs.RewindDir(fd); err != nil {
		return errStatus(err)
	}
	for skip := input.Offset; skip > 0; skip-- {
		if _, err := r.fs.ReadDir(fd); err != nil {
			return fuse.OK // cursor ran past the end, nothing left
		}
	}
	for {
		ent, err := r.fs.ReadDir(fd)
		if err != nil {
			return fuse.OK
		}
		mode := uint32(syscall.S_IFREG)
		if ent.IsDir {
			mode = uint32(syscall.S_IFDIR)
		}
		if !out.AddDirEntry(fuse.DirEntry{
			Name: ent.Name,
			Mode: mode,
			Ino:  r.nodeID(childPath(dir, ent.Name)),
		}) {
			return fuse.OK // buffer full, kernel will call again
		}
	}
}

func (r *FuseRaw) StatFs(cancel <-chan struct{}, input *fuse.InHeader, out *fuse.StatfsOut) fuse.Status {
	out.Bsize = uint32(r.cfg.BlockSize)
	out.NameLen = 255
	return fuse.OK
}
