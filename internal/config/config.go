// Package config loads and validates the confdeck.toml settings file.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
)

// FileName is the settings file name looked up under the XDG config home.
const FileName = "confdeck.toml"

// DefaultKeepBackups is how many snapshots per package survive rotation.
const DefaultKeepBackups = 5

// Config holds the resolved confdeck settings.
type Config struct {
	// PackagesDir is the directory scanned for package manifests.
	PackagesDir string `toml:"packages_dir"`
	// LedgerPath is the installation ledger file.
	LedgerPath string `toml:"ledger_path"`
	// BackupRoot is the directory snapshots are stored under.
	BackupRoot string `toml:"backup_root"`
	// KeepBackups bounds how many snapshots per package rotation keeps.
	KeepBackups int `toml:"keep_backups"`
	// Verbosity is the default log verbosity (0 warn, 1 info, 2 debug).
	Verbosity int `toml:"verbosity"`
}

// Default returns the configuration used when no settings file exists.
func Default() *Config {
	dataDir := filepath.Join(xdg.DataHome, "confdeck")
	return &Config{
		PackagesDir: filepath.Join(dataDir, "packages"),
		LedgerPath:  filepath.Join(dataDir, "state.json"),
		BackupRoot:  filepath.Join(dataDir, "backups"),
		KeepBackups: DefaultKeepBackups,
	}
}

// DefaultPath returns the standard location of the settings file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "confdeck", FileName)
}

// Validate checks field values. source names the file in error messages.
func (c *Config) Validate(source string) error {
	if c.PackagesDir == "" {
		return fmt.Errorf("%s: packages_dir must not be empty", source)
	}
	if c.LedgerPath == "" {
		return fmt.Errorf("%s: ledger_path must not be empty", source)
	}
	if c.BackupRoot == "" {
		return fmt.Errorf("%s: backup_root must not be empty", source)
	}
	if c.KeepBackups < 1 {
		return fmt.Errorf("%s: keep_backups must be at least 1, got %d", source, c.KeepBackups)
	}
	if c.Verbosity < 0 {
		return fmt.Errorf("%s: verbosity must not be negative, got %d", source, c.Verbosity)
	}
	return nil
}
