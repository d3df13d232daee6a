// Package config handles configuration loading and validation for forage.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/forage/internal/core/item"
	"github.com/colonyops/forage/internal/core/styles"
)

// Defaults applied by Load when the config file omits a value.
const (
	DefaultItemsDir    = "items"
	DefaultArchiveFile = "archive.yml"
	DefaultLockFile    = "lock"
	DefaultLockTimeout = Duration(5 * time.Second)
)

// Config holds the application configuration. Paths are relative to the
// workspace `.forage` directory unless absolute.
type Config struct {
	// ItemsDir is where item markdown files live.
	ItemsDir string `yaml:"items_dir"`
	// ArchiveFile lists ids completed outside the live snapshot.
	ArchiveFile string `yaml:"archive_file"`
	// LockFile serializes snapshot reads and writes between processes.
	LockFile string `yaml:"lock_file"`
	// LockTimeout bounds the wait for the snapshot lock.
	LockTimeout Duration `yaml:"lock_timeout"`
	// Theme selects the output palette.
	Theme string `yaml:"theme"`
	// DefaultPriority is assigned by `forage new` when none is chosen.
	DefaultPriority item.Priority `yaml:"default_priority"`
}

// Default returns the configuration used when no config file exists.
func Default() Config {
	return Config{
		ItemsDir:        DefaultItemsDir,
		ArchiveFile:     DefaultArchiveFile,
		LockFile:        DefaultLockFile,
		LockTimeout:     DefaultLockTimeout,
		Theme:           styles.DefaultTheme,
		DefaultPriority: item.PriorityMedium,
	}
}

// Load reads the config file at path and applies defaults for anything
// unset. A missing file is not an error; defaults apply wholesale.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config %s: %w", path, err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.ItemsDir == "" {
		cfg.ItemsDir = def.ItemsDir
	}
	if cfg.ArchiveFile == "" {
		cfg.ArchiveFile = def.ArchiveFile
	}
	if cfg.LockFile == "" {
		cfg.LockFile = def.LockFile
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = def.LockTimeout
	}
	if cfg.Theme == "" {
		cfg.Theme = def.Theme
	}
	if cfg.DefaultPriority == "" {
		cfg.DefaultPriority = def.DefaultPriority
	}
}
