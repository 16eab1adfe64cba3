// Package vfs is the dispatch boundary in front of filesystem drivers:
// a handler table keyed by path prefix, mirroring how a kernel VFS
// routes calls to the driver registered for a mount point.
package vfs

import "github.com/brettbedarf/ramfs/ramdisk"

// Driver is the operation table a filesystem driver exposes to the
// dispatch layer. Path arguments are relative to the driver's mount
// prefix; handle arguments are the small integers the driver issued from
// Open.
//
// Drivers that decline part of the contract return
// [ramdisk.ErrNotSupported] from those operations (the moral equivalent
// of a null entry in a handler table); [Unsupported] provides that
// behavior for embedding.
type Driver interface {
	Open(path string, flags ramdisk.OpenFlags) (int, error)
	Close(fd int) error
	Read(fd int, p []byte) (int, error)
	Write(fd int, p []byte) (int, error)
	Seek(fd int, offset int64, whence int) (int64, error)
	Tell(fd int) (int64, error)
	Size(fd int) (int64, error)
	ReadDir(fd int) (ramdisk.DirEntry, error)
	RewindDir(fd int) error
	Unlink(path string) error
	Mmap(fd int) ([]byte, error)
	Stat(path string) (ramdisk.Stat, error)
	FStat(fd int) (ramdisk.Stat, error)
	Fcntl(fd int, cmd ramdisk.FcntlCmd) (ramdisk.OpenFlags, error)

	Rename(oldpath, newpath string) error
	Mkdir(path string) error
	Rmdir(path string) error
	Link(oldpath, newpath string) error
	Symlink(target, path string) error
	Readlink(path string) (string, error)
}

// The ramdisk driver satisfies the full dispatch contract.
var _ Driver = (*ramdisk.Filesystem)(nil)

// Unsupported declines every Driver operation with
// [ramdisk.ErrNotSupported]. Partial drivers embed it and override what
// they implement.
type Unsupported struct{}

func (Unsupported) Open(string, ramdisk.OpenFlags) (int, error) { return 0, ramdisk.ErrNotSupported }
func (Unsupported) Close(int) error                             { return ramdisk.ErrNotSupported }
func (Unsupported) Read(int, []byte) (int, error)               { return 0, ramdisk.ErrNotSupported }
func (Unsupported) Write(int, []byte) (int, error)              { return 0, ramdisk.ErrNotSupported }
func (Unsupported) Seek(int, int64, int) (int64, error)         { return 0, ramdisk.ErrNotSupported }
func (Unsupported) Tell(int) (int64, error)                     { return 0, ramdisk.ErrNotSupported }
func (Unsupported) Size(int) (int64, error)                     { return 0, ramdisk.ErrNotSupported }
func (Unsupported) ReadDir(int) (ramdisk.DirEntry, error) {
	return ramdisk.DirEntry{}, ramdisk.ErrNotSupported
}
func (Unsupported) RewindDir(int) error   { return ramdisk.ErrNotSupported }
func (Unsupported) Unlink(string) error   { return ramdisk.ErrNotSupported }
func (Unsupported) Mmap(int) ([]byte, error) { return nil, ramdisk.ErrNotSupported }
func (Unsupported) Stat(string) (ramdisk.Stat, error) {
	return ramdisk.Stat{}, ramdisk.ErrNotSupported
}
func (Unsupported) FStat(int) (ramdisk.Stat, error) { return ramdisk.Stat{}, ramdisk.ErrNotSupported }
func (Unsupported) Fcntl(int, ramdisk.FcntlCmd) (ramdisk.OpenFlags, error) {
	return 0, ramdisk.ErrNotSupported
}
func (Unsupported) Rename(string, string) error      { return ramdisk.ErrNotSupported }
func (Unsupported) Mkdir(string) error               { return ramdisk.ErrNotSupported }
func (Unsupported) Rmdir(string) error               { return ramdisk.ErrNotSupported }
func (Unsupported) Link(string, string) error        { return ramdisk.ErrNotSupported }
func (Unsupported) Symlink(string, string) error     { return ramdisk.ErrNotSupported }
func (Unsupported) Readlink(string) (string, error)  { return "", ramdisk.ErrNotSupported }
