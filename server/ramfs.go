package server

import (
	"github.com/brettbedarf/ramfs/config"
	rfuse "github.com/brettbedarf/ramfs/fuse"
	"github.com/brettbedarf/ramfs/internal/util"
	"github.com/brettbedarf/ramfs/ramdisk"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// RamFs contains the core ramdisk state and operations with abstractions
// over the underlying FUSE wire protocol implementation
type RamFs struct {
	*ramdisk.Filesystem
	cfg    *config.Config
	server *fuse.Server
}

// New creates a RamFs instance given your config.
func New(cfg *config.Config) *RamFs {
	if cfg == nil {
		cfg = config.NewConfig(nil)
	}
	return &RamFs{
		ramdisk.New(cfg),
		cfg,
		nil,
	}
}

// Serve mounts and serves the filesystem at the given mountPoint.
func (fs *RamFs) Serve(mountPoint string) error {
	raw := rfuse.NewFuseRaw(fs.Filesystem, fs.cfg)
	opts := fs.cfg.MountOptions
	slogger := util.NewLogLogger("FuseServer", util.TraceLevel)
	srv, err := fuse.NewServer(raw, mountPoint, &fuse.MountOptions{
		Name:   opts.Name,
		FsName: opts.FsName,
		Debug:  fs.cfg.LogLvl == util.TraceLevel,
		Logger: slogger,
	})
	if err != nil {
		return err
	}
	fs.server = srv

	go srv.Serve()
	return srv.WaitMount()
}

func (fs *RamFs) ServeAsync(mountPoint string) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- fs.Serve(mountPoint)
		close(done)
	}()

	return done
}

// Unmount cleanly unmounts the filesystem.
func (fs *RamFs) Unmount() error {
	if fs.server == nil {
		return nil
	}
	return fs.server.Unmount()
}

// Close unmounts (if mounted) and releases the namespace.
func (fs *RamFs) Close() error {
	if err := fs.Unmount(); err != nil {
		return err
	}
	return fs.Shutdown()
}
