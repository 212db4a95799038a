// Package backup implements the versioned snapshot store. Each snapshot is
// one directory under the backup root, named {label}_{timestamp}, holding the
// captured files at their relative paths plus a metadata.json manifest.
// Snapshots are immutable once written; they are only ever deleted wholesale
// by rotation or explicit deletion.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/model"
)

const manifestName = "metadata.json"

type manifest struct {
	BackupID    string   `json:"backup_id"`
	Timestamp   string   `json:"timestamp"`
	PackageName string   `json:"package_name"`
	BackupDir   string   `json:"backup_dir"`
	Files       []string `json:"files"`
	TargetDir   string   `json:"target_dir"`
}

// Store manages snapshots under a single backup root. Concurrent writers
// sharing one root are unsupported (single-writer assumption).
type Store struct {
	root string
	sys  System
	now  func() time.Time
}

// NewStore returns a snapshot store rooted at root. A nil sys defaults to the
// real filesystem.
func NewStore(root string, sys System) *Store {
	if sys == nil {
		sys = RealSystem{}
	}
	return &Store{root: root, sys: sys, now: time.Now}
}

// Root returns the backup root directory.
func (s *Store) Root() string {
	return s.root
}

// Create captures the given relative paths from baseDir into a new snapshot
// labeled by label. Paths that do not currently exist under baseDir are
// omitted without error; zero existing paths yields a valid empty snapshot.
// targetDir records where the snapshot restores to by default.
func (s *Store) Create(label string, relPaths []string, baseDir string, targetDir string) (model.Snapshot, error) {
	if strings.TrimSpace(label) == "" {
		return model.Snapshot{}, fail.New(fail.KindBackup, "snapshot label is required")
	}
	now := s.now()
	id, dir, err := s.claimSnapshotDir(label, now)
	if err != nil {
		return model.Snapshot{}, err
	}

	captured, err := s.capture(relPaths, baseDir, dir)
	if err != nil {
		s.discardClaimed(dir)
		return model.Snapshot{}, err
	}

	snapshot := model.Snapshot{
		ID:          id,
		Timestamp:   now,
		PackageName: label,
		Dir:         dir,
		Files:       captured,
		TargetDir:   targetDir,
	}
	if err := s.writeManifest(snapshot); err != nil {
		s.discardClaimed(dir)
		return model.Snapshot{}, err
	}
	return snapshot, nil
}

func (s *Store) capture(relPaths []string, baseDir string, dir string) ([]string, error) {
	captured := make([]string, 0, len(relPaths))
	for _, rel := range relPaths {
		rel = filepath.Clean(rel)
		src := filepath.Join(baseDir, rel)
		if _, err := s.sys.Stat(src); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fail.Wrapf(err, fail.KindBackup, "stat %s", src).WithPaths(src)
		}
		dst := filepath.Join(dir, rel)
		if err := s.sys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return nil, fail.Wrapf(err, fail.KindBackup, "create directory for %s", dst)
		}
		if err := s.sys.CopyFile(src, dst); err != nil {
			return nil, fail.Wrapf(err, fail.KindBackup, "capture %s", src).WithPaths(src)
		}
		captured = append(captured, filepath.ToSlash(rel))
	}
	sort.Strings(captured)
	return captured, nil
}

// discardClaimed removes a snapshot directory whose capture failed before a
// manifest was written. Best effort; the capture failure is what the caller
// reports.
func (s *Store) discardClaimed(dir string) {
	_ = s.sys.RemoveAll(dir)
}

// claimSnapshotDir picks a collision-free snapshot id and creates its
// directory. The timestamp carries microseconds, so collisions only happen on
// rapid successive calls within one microsecond; those get a numeric suffix.
func (s *Store) claimSnapshotDir(label string, now time.Time) (string, string, error) {
	base := fmt.Sprintf("%s_%s_%06d", label, now.Format("20060102_150405"), now.Nanosecond()/1000)
	for attempt := 0; ; attempt++ {
		id := base
		if attempt > 0 {
			id = fmt.Sprintf("%s_%d", base, attempt)
		}
		dir := filepath.Join(s.root, id)
		if _, err := s.sys.Stat(dir); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", "", fail.Wrapf(err, fail.KindBackup, "stat %s", dir)
		}
		if err := s.sys.MkdirAll(dir, 0o755); err != nil {
			return "", "", fail.Wrapf(err, fail.KindBackup, "create snapshot directory %s", dir)
		}
		return id, dir, nil
	}
}

func (s *Store) writeManifest(snapshot model.Snapshot) error {
	m := manifest{
		BackupID:    snapshot.ID,
		Timestamp:   snapshot.Timestamp.Format(time.RFC3339Nano),
		PackageName: snapshot.PackageName,
		BackupDir:   snapshot.Dir,
		Files:       snapshot.Files,
		TargetDir:   snapshot.TargetDir,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fail.Wrapf(err, fail.KindBackup, "encode manifest for snapshot %s", snapshot.ID)
	}
	data = append(data, '\n')
	path := filepath.Join(snapshot.Dir, manifestName)
	if err := s.sys.WriteFileAtomic(path, data, 0o644); err != nil {
		return fail.Wrapf(err, fail.KindBackup, "write manifest %s", path)
	}
	return nil
}

func (s *Store) readManifest(dir string) (model.Snapshot, error) {
	path := filepath.Join(dir, manifestName)
	data, err := s.sys.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fail.Wrapf(err, fail.KindBackup, "read manifest %s", path)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return model.Snapshot{}, fail.Wrapf(err, fail.KindBackup, "parse manifest %s", path)
	}
	if strings.TrimSpace(m.BackupID) == "" {
		return model.Snapshot{}, fail.Newf(fail.KindBackup, "manifest %s missing backup_id", path)
	}
	timestamp, err := time.Parse(time.RFC3339Nano, m.Timestamp)
	if err != nil {
		return model.Snapshot{}, fail.Wrapf(err, fail.KindBackup, "manifest %s has invalid timestamp %q", path, m.Timestamp)
	}
	return model.Snapshot{
		ID:          m.BackupID,
		Timestamp:   timestamp,
		PackageName: m.PackageName,
		Dir:         dir,
		Files:       append([]string(nil), m.Files...),
		TargetDir:   m.TargetDir,
	}, nil
}

// List returns all snapshots, newest first, ties broken by id. A non-empty
// labelFilter restricts the result to snapshots created under that label.
// Directories without a readable manifest are skipped rather than aborting
// the listing.
func (s *Store) List(labelFilter string) ([]model.Snapshot, error) {
	entries, err := s.sys.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fail.Wrapf(err, fail.KindBackup, "read backup root %s", s.root)
	}
	snapshots := make([]model.Snapshot, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		snapshot, err := s.readManifest(filepath.Join(s.root, entry.Name()))
		if err != nil {
			continue
		}
		if labelFilter != "" && snapshot.PackageName != labelFilter {
			continue
		}
		snapshots = append(snapshots, snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		if snapshots[i].Timestamp.Equal(snapshots[j].Timestamp) {
			return snapshots[i].ID < snapshots[j].ID
		}
		return snapshots[i].Timestamp.After(snapshots[j].Timestamp)
	})
	return snapshots, nil
}

// Get returns the snapshot with the given id.
func (s *Store) Get(id string) (model.Snapshot, error) {
	if err := validateID(id); err != nil {
		return model.Snapshot{}, err
	}
	dir := filepath.Join(s.root, id)
	if _, err := s.sys.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Snapshot{}, fail.Newf(fail.KindBackup, "snapshot %s does not exist", id)
		}
		return model.Snapshot{}, fail.Wrapf(err, fail.KindBackup, "stat snapshot %s", id)
	}
	return s.readManifest(dir)
}

// Restore copies every captured file of the snapshot back to destDir at its
// relative path, creating parent directories as needed. Files in destDir
// outside the snapshot's file list are left untouched. Returns the paths
// written.
func (s *Store) Restore(id string, destDir string) ([]string, error) {
	snapshot, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	restored := make([]string, 0, len(snapshot.Files))
	for _, rel := range snapshot.Files {
		src := filepath.Join(snapshot.Dir, filepath.FromSlash(rel))
		if _, err := s.sys.Stat(src); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return restored, fail.Wrapf(err, fail.KindBackup, "stat %s", src)
		}
		dst := filepath.Join(destDir, filepath.FromSlash(rel))
		if err := s.sys.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return restored, fail.Wrapf(err, fail.KindBackup, "create directory for %s", dst)
		}
		if err := s.sys.CopyFile(src, dst); err != nil {
			return restored, fail.Wrapf(err, fail.KindBackup, "restore %s", dst).WithPaths(dst)
		}
		restored = append(restored, dst)
	}
	return restored, nil
}

// Delete removes the snapshot wholesale. Deleting an absent snapshot is a
// success no-op.
func (s *Store) Delete(id string) error {
	if err := validateID(id); err != nil {
		return err
	}
	dir := filepath.Join(s.root, id)
	if err := s.sys.RemoveAll(dir); err != nil {
		return fail.Wrapf(err, fail.KindBackup, "delete snapshot %s", id)
	}
	return nil
}

// Rotate deletes all but the keep most recent snapshots matching labelFilter,
// using the same ordering as List. Returns the number deleted; snapshots that
// fail to delete are skipped rather than aborting the rotation.
func (s *Store) Rotate(labelFilter string, keep int) (int, error) {
	if keep < 0 {
		return 0, fail.Newf(fail.KindBackup, "keep count must be non-negative, got %d", keep)
	}
	snapshots, err := s.List(labelFilter)
	if err != nil {
		return 0, err
	}
	if len(snapshots) <= keep {
		return 0, nil
	}
	deleted := 0
	for _, snapshot := range snapshots[keep:] {
		if err := s.Delete(snapshot.ID); err != nil {
			continue
		}
		deleted++
	}
	return deleted, nil
}

// validateID rejects ids that would escape the backup root.
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fail.New(fail.KindBackup, "snapshot id is required")
	}
	if id != filepath.Base(id) {
		return fail.Newf(fail.KindBackup, "invalid snapshot id %q: must not contain path separators", id)
	}
	return nil
}
