package engine

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/model"
)

// UninstallResult reports what an uninstall removed and the snapshot taken
// beforehand. SnapshotID is empty for dry runs.
type UninstallResult struct {
	Removed    []string
	SnapshotID string
}

// Uninstall removes the named package's owned files and its ledger record.
//
// The record's currently-existing owned files are snapshotted first
// (backup-before-destroy), then deleted; missing files are skipped. Now-empty
// directories under the record's target directory are pruned bottom-up, best
// effort. In dry-run mode nothing is written and the result holds the paths
// that would be removed.
func (e *Engine) Uninstall(name string, mode model.Mode) (UninstallResult, error) {
	doc, err := e.ledger.Load()
	if err != nil {
		return UninstallResult{}, err
	}
	record, ok := doc.Installations[name]
	if !ok {
		return UninstallResult{}, fail.Newf(fail.KindNotInstalled, "package not installed: %s", name)
	}

	existing := make([]string, 0, len(record.Files))
	for _, rel := range record.Files {
		if _, err := e.sys.Stat(filepath.Join(record.TargetDir, rel)); err == nil {
			existing = append(existing, rel)
		}
	}

	if mode.DryRun() {
		out := make([]string, 0, len(existing))
		for _, rel := range existing {
			out = append(out, filepath.Join(record.TargetDir, rel))
		}
		return UninstallResult{Removed: out}, nil
	}

	snapshot, err := e.backups.Create(name, existing, record.TargetDir, record.TargetDir)
	if err != nil {
		return UninstallResult{}, err
	}
	e.log.Debug().Str("package", name).Str("snapshot", snapshot.ID).Msg("uninstall: backed up owned files")

	removed := make([]string, 0, len(existing))
	for _, rel := range existing {
		path := filepath.Join(record.TargetDir, rel)
		if err := e.sys.Remove(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			e.log.Warn().Err(err).Str("path", path).Msg("uninstall: failed to remove owned file")
			continue
		}
		removed = append(removed, path)
	}

	e.pruneEmptyDirs(record.TargetDir)

	delete(doc.Installations, name)
	result := UninstallResult{Removed: removed, SnapshotID: snapshot.ID}
	if err := e.ledger.Save(doc); err != nil {
		return result, err
	}
	e.log.Info().Str("package", name).Int("removed", len(removed)).Msg("uninstalled")
	return result, nil
}

// pruneEmptyDirs removes now-empty directories under root, deepest first.
// Non-empty directories and permission errors are ignored; the target
// directory itself is never removed.
func (e *Engine) pruneEmptyDirs(root string) {
	dirs := make([]string, 0)
	err := e.sys.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return
	}
	// Deepest paths sort last; walk the list in reverse so children go
	// before their parents.
	sort.Strings(dirs)
	for i := len(dirs) - 1; i >= 0; i-- {
		// Remove fails on non-empty directories, which is exactly the
		// guard we want here.
		_ = e.sys.Remove(dirs[i])
	}
}
