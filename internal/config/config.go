package config

import (
	"fmt"
	"path/filepath"

	"sitevault/internal/fsio"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBackupRoot    = "backups"
	DefaultRetentionDays = 30

	ConfigFile      = "sitevault.yml"
	LockFile        = ".sitevault.lock"
	TempDirPattern  = "tmp-*"
	DateLayout      = "20060102"
	TimeLayout      = "150405"
	TimestampLayout = "2006-01-02T15:04:05Z07:00"
)

// Marker filenames. Which one is present decides a snapshot's kind.
const (
	VersionMarker   = "VERSION.txt"
	SelectedMarker  = "SELECTED.txt"
	ChangelogMarker = "CHANGELOG.md"
)

var MarkerFiles = []string{VersionMarker, SelectedMarker, ChangelogMarker}

// Config holds the tool configuration, loaded from sitevault.yml.
type Config struct {
	BackupRoot    string            `yaml:"backup_root"`
	SiteDir       string            `yaml:"site_dir"`
	RetentionDays int               `yaml:"retention_days"`
	Targets       map[string]string `yaml:"targets"` // logical name -> live path override
}

func (c *Config) defaults() {
	if c.BackupRoot == "" {
		c.BackupRoot = DefaultBackupRoot
	}
	if c.SiteDir == "" {
		c.SiteDir = "."
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = DefaultRetentionDays
	}
}

// Load reads a YAML config file. A missing file is not an error:
// it yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := fsio.ReadFile(path)
	if err != nil {
		if fsio.IsNotExist(err) {
			cfg.defaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %q: %w", path, err)
	}

	cfg.defaults()
	return cfg, nil
}

// ResolveTargetPath maps a logical target name to its live path,
// honoring per-target overrides from the config.
func (c *Config) ResolveTargetPath(name string) string {
	if p, ok := c.Targets[name]; ok {
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(c.SiteDir, p)
	}
	return filepath.Join(c.SiteDir, name)
}
