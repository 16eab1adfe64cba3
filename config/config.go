package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/ramfs/internal/util"
	"gopkg.in/yaml.v3"
)

// Bytes per KiB
const KiB = 1024

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultMaxHandles bounds the open-handle table. Handle 0 is the
	// reserved invalid sentinel, so the usable count is one less.
	DefaultMaxHandles = 1024

	// DefaultFileCapacity is the backing-buffer size for a freshly
	// created (or truncated) file.
	DefaultFileCapacity = 1 * KiB

	// DefaultGrowthSlack is the extra allocation added on every buffer
	// growth to amortize repeated small appends.
	DefaultGrowthSlack = 4 * KiB

	// DefaultBlockSize is the block size reported by stat.
	DefaultBlockSize = 1 * KiB

	// DefaultDetachPlaceholderSize is the throwaway buffer installed on
	// a node between a detach and its final unlink.
	DefaultDetachPlaceholderSize = 64

	DefaultFsName = "ramfs"
	DefaultName   = "ramfs"

	DefaultLogLvl = util.InfoLevel
)

// CLI verbosity bounds; verbose 1..5 maps to error..trace.
const (
	ErrorVerbose = 1
	TraceVerbose = 5
)

// Config contains runtime configuration values for a ramdisk namespace
// and its mount frontend.
type Config struct {
	MountOptions

	LogLvl util.LogLevel

	MaxHandles            int // Size of the open-handle table, slot 0 included (Default 1024)
	DefaultFileCapacity   int // Initial backing-buffer size for new files in bytes (Default 1KiB)
	GrowthSlack           int // Extra bytes allocated on every buffer growth (Default 4KiB)
	BlockSize             int // Block size reported by stat in bytes (Default 1KiB)
	DetachPlaceholderSize int // Placeholder buffer size installed during detach (Default 64)
}

// ConfigOverride uses pointer fields to distinguish between unset and
// zero values when loading partial configuration. See [Config] for field
// descriptions.
type ConfigOverride struct {
	FsName *string `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name   *string `yaml:"name,omitempty" json:"name,omitempty"`
	Debug  *bool   `yaml:"debug,omitempty" json:"debug,omitempty"`

	// LogLvl is CLI-style verbosity between 1 (error) and 5 (trace);
	// out-of-range values are clamped.
	LogLvl *int `yaml:"verbose,omitempty" json:"verbose,omitempty"`

	MaxHandles            *int `yaml:"max_handles,omitempty" json:"max_handles,omitempty"`
	DefaultFileCapacity   *int `yaml:"default_file_capacity,omitempty" json:"default_file_capacity,omitempty"`
	GrowthSlack           *int `yaml:"growth_slack,omitempty" json:"growth_slack,omitempty"`
	BlockSize             *int `yaml:"block_size,omitempty" json:"block_size,omitempty"`
	DetachPlaceholderSize *int `yaml:"detach_placeholder_size,omitempty" json:"detach_placeholder_size,omitempty"`
}

// NewConfig creates a Config from defaults with any non-nil override
// fields applied on top. A nil override yields pure defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:                DefaultLogLvl,
		MaxHandles:            DefaultMaxHandles,
		DefaultFileCapacity:   DefaultFileCapacity,
		GrowthSlack:           DefaultGrowthSlack,
		BlockSize:             DefaultBlockSize,
		DetachPlaceholderSize: DefaultDetachPlaceholderSize,
	}
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
	if override.LogLvl != nil {
		c.LogLvl = verboseToLevel(*override.LogLvl)
	}
	if override.MaxHandles != nil {
		c.MaxHandles = *override.MaxHandles
	}
	if override.DefaultFileCapacity != nil {
		c.DefaultFileCapacity = *override.DefaultFileCapacity
	}
	if override.GrowthSlack != nil {
		c.GrowthSlack = *override.GrowthSlack
	}
	if override.BlockSize != nil {
		c.BlockSize = *override.BlockSize
	}
	if override.DetachPlaceholderSize != nil {
		c.DetachPlaceholderSize = *override.DetachPlaceholderSize
	}
}

// verboseToLevel maps CLI verbosity 1..5 (clamped) to internal levels.
func verboseToLevel(verbose int) util.LogLevel {
	if verbose < ErrorVerbose {
		verbose = ErrorVerbose
	}
	if verbose > TraceVerbose {
		verbose = TraceVerbose
	}
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
