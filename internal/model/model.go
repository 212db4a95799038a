// Package model defines the immutable value types shared by the deployment
// engine: packages, package files, installation records, and backup snapshots.
package model

import (
	"fmt"
	"path/filepath"
	"time"
)

// Player identifies a supported media player.
type Player string

const (
	// PlayerMPV targets mpv configuration directories.
	PlayerMPV Player = "mpv"
	// PlayerVLC targets VLC configuration directories.
	PlayerVLC Player = "vlc"
)

// ParsePlayer validates a raw player value.
func ParsePlayer(raw string) (Player, error) {
	switch Player(raw) {
	case PlayerMPV, PlayerVLC:
		return Player(raw), nil
	}
	return "", fmt.Errorf("unknown player %q (expected mpv or vlc)", raw)
}

// Players lists all supported players.
func Players() []Player {
	return []Player{PlayerMPV, PlayerVLC}
}

// Profile identifies a configuration profile.
type Profile string

const (
	ProfilePerformance Profile = "performance"
	ProfileQuality     Profile = "quality"
	ProfileCinematic   Profile = "cinematic"
	ProfileDefault     Profile = "default"
)

// ParseProfile validates a raw profile value.
func ParseProfile(raw string) (Profile, error) {
	switch Profile(raw) {
	case ProfilePerformance, ProfileQuality, ProfileCinematic, ProfileDefault:
		return Profile(raw), nil
	}
	return "", fmt.Errorf("unknown profile %q", raw)
}

// Profiles lists all known profiles.
func Profiles() []Profile {
	return []Profile{ProfilePerformance, ProfileQuality, ProfileCinematic, ProfileDefault}
}

// FileCategory classifies a package file for validation and reporting.
type FileCategory string

const (
	CategoryConfig    FileCategory = "config"
	CategoryPluginLua FileCategory = "plugin_lua"
	CategoryPluginJS  FileCategory = "plugin_js"
	CategoryShader    FileCategory = "shader"
	CategoryScriptOpt FileCategory = "script_opt"
)

// ParseFileCategory validates a raw file category value.
func ParseFileCategory(raw string) (FileCategory, error) {
	switch FileCategory(raw) {
	case CategoryConfig, CategoryPluginLua, CategoryPluginJS, CategoryShader, CategoryScriptOpt:
		return FileCategory(raw), nil
	}
	return "", fmt.Errorf("unknown file category %q", raw)
}

// Mode selects whether an operation mutates the filesystem and ledger or only
// simulates. It is passed explicitly into each engine entry point; there is no
// shared mutable dry-run state.
type Mode int

const (
	// ModeApply performs the operation.
	ModeApply Mode = iota
	// ModeDryRun simulates the operation without writing anything.
	ModeDryRun
)

// DryRun reports whether the mode suppresses all writes.
func (m Mode) DryRun() bool {
	return m == ModeDryRun
}

// PackageFile describes one file shipped by a package.
type PackageFile struct {
	// SourcePath is the absolute path of the file in the package source.
	SourcePath string
	// TargetPath is the destination path relative to the install root.
	TargetPath string
	Category   FileCategory
	Required   bool
}

// Package is a named, versioned bundle of files to be deployed. Packages are
// read-only input supplied by the package repository.
type Package struct {
	Name         string
	Description  string
	Version      string
	Player       Player
	Profile      Profile
	Files        []PackageFile
	Dependencies []string
}

// FilesByCategory returns the package files of the given category, in
// manifest order.
func (p Package) FilesByCategory(category FileCategory) []PackageFile {
	out := make([]PackageFile, 0, len(p.Files))
	for _, file := range p.Files {
		if file.Category == category {
			out = append(out, file)
		}
	}
	return out
}

// InstallationRecord tracks one installed package in the ledger. At most one
// record exists per package name; reinstalling replaces the prior record.
type InstallationRecord struct {
	PackageName string
	Version     string
	TargetDir   string
	// BackupDir is the snapshot directory captured before installation, or
	// empty when nothing pre-existed at the target paths.
	BackupDir string
	// Files holds the owned target paths, relative to TargetDir. No path may
	// be owned by two records at once; the conflict resolver enforces this
	// before any record is created.
	Files       []string
	InstalledAt time.Time
}

// OwnsPath reports whether the record owns the given path relative to its
// target directory.
func (r InstallationRecord) OwnsPath(rel string) bool {
	clean := filepath.Clean(rel)
	for _, owned := range r.Files {
		if filepath.Clean(owned) == clean {
			return true
		}
	}
	return false
}

// AbsolutePaths returns the owned paths joined onto the record's target
// directory.
func (r InstallationRecord) AbsolutePaths() []string {
	out := make([]string, 0, len(r.Files))
	for _, rel := range r.Files {
		out = append(out, filepath.Join(r.TargetDir, rel))
	}
	return out
}

// Snapshot is an immutable point-in-time copy of a set of files. Snapshots
// are only ever deleted wholesale, never partially modified.
type Snapshot struct {
	// ID is the snapshot directory name, {label}_{timestamp}.
	ID        string
	Timestamp time.Time
	// PackageName is the label the snapshot was created under.
	PackageName string
	// Dir is the directory holding the captured files and manifest.
	Dir string
	// Files lists the relative paths actually captured. Always a subset of
	// the paths that existed at capture time; may be empty.
	Files []string
	// TargetDir is the directory the snapshot restores into by default.
	TargetDir string
}
