package main

import (
	"flag"
	"io/fs"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/brettbedarf/ramfs/config"
	"github.com/brettbedarf/ramfs/internal/util"
	"github.com/brettbedarf/ramfs/server"
)

func main() {
	// Parse command line arguments
	var (
		configPath string
		preload    string
		verbose    int
		umount     bool
	)
	flag.StringVar(&configPath, "config", "", "Path to config file (.yaml, .yml or .json)")
	flag.StringVar(&configPath, "c", "", "--config (shorthand)")
	flag.StringVar(&preload, "preload", "", "Directory whose files are loaded into the ramdisk before mounting")
	flag.StringVar(&preload, "p", "", "--preload (shorthand)")
	flag.BoolVar(&umount, "umount", false,
		"Unmount the fs first if needed before mounting again. Useful for debuggers that don't exit properly.")
	flag.BoolVar(&umount, "u", false, "--umount (shorthand)")
	flag.IntVar(&verbose, "verbose", 3, "Log verbosity level between 1 (error) and 5 (trace). Default is 3 (info).")
	flag.IntVar(&verbose, "v", 3, "--verbose (shorthand)")
	flag.Parse()

	// Initialize logger
	if verbose < config.ErrorVerbose {
		verbose = config.ErrorVerbose
	}
	if verbose > config.TraceVerbose {
		verbose = config.TraceVerbose
	}
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	logLvl := logLvls[verbose-1]
	util.InitializeLogger(logLvl)
	logger := util.GetLogger("main")

	mnt := flag.Arg(0)
	logger.Info().Int("verbose", verbose).Str("preload", preload).Str("mnt", mnt).Msg("RamFS server initializing")
	// Check if mount point is provided
	if mnt == "" {
		logger.Fatal().Msg("Mount point not specified; it must be passed as the argument")
	}
	// Try unmount if requested
	if umount { // send cli command
		cmd := exec.Command("fusermount", "-u", mnt)
		// we ignore error here if not already mounted
		cmd.Run() // nolint:errcheck
	}

	// Init the fs
	override := &config.ConfigOverride{
		LogLvl: &verbose,
	}
	cfg := config.NewConfig(override)
	if configPath != "" {
		fileOverride, err := config.LoadConfigOverrideFile(configPath)
		if err != nil {
			logger.Fatal().Err(err).Str("config", configPath).Msg("Failed to load config file")
		}
		cfg = config.NewConfig(fileOverride)
		cfg.Merge(override) // CLI verbosity wins over the file
	}

	ramfs := server.New(cfg)
	logger.Info().Str("volume", ramfs.VolumeID().String()).Msg("Namespace created")

	// Seed the namespace from the preload directory, handing each
	// file's bytes to the driver without a copy.
	if preload != "" {
		files, dirs := 0, 0
		err := filepath.WalkDir(preload, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(preload, path)
			if err != nil || rel == "." {
				return err
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if err := ramfs.CreateDir(rel); err != nil {
					return err
				}
				dirs++
				return nil
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			if err := ramfs.Attach(rel, data); err != nil {
				return err
			}
			files++
			return nil
		})
		if err != nil {
			logger.Fatal().Err(err).Str("preload", preload).Msg("Failed to preload directory")
		}
		logger.Info().Int("directories", dirs).Int("files", files).Msg("Preloaded namespace")
	}

	// Serve
	if err := ramfs.Serve(mnt); err != nil {
		logger.Fatal().Err(err).Msg("Failed to mount filesystem")
	}

	// Setup signal handling for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	logger.Info().Str("mountpoint", mnt).Msg("Filesystem mounted successfully")

	// Wait for termination signal
	sig := <-signalChan
	logger.Info().Str("signal", sig.String()).Msg("Received signal, unmounting filesystem")

	// Unmount the filesystem
	if err := ramfs.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to unmount filesystem")
	} else {
		logger.Info().Msg("Filesystem unmounted successfully")
	}
}
