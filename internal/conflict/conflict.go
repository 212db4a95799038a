// Package conflict computes path-ownership conflicts for a candidate package
// against the current ledger snapshot.
package conflict

import (
	"path/filepath"
	"sort"

	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/model"
)

// Detect returns the target paths of pkg that are owned by a different
// package's installation record, paired with the owning package name.
//
// A path owned by pkg itself (reinstall/update) is not a conflict, and
// neither is an untracked file that merely exists on disk; untracked files
// are captured by a backup snapshot before being overwritten. An empty result
// means the install may proceed.
func Detect(pkg model.Package, targetDir string, records map[string]model.InstallationRecord) []fail.Conflicting {
	owners := make(map[string]string)
	for name, record := range records {
		if name == pkg.Name {
			continue
		}
		for _, rel := range record.Files {
			owners[filepath.Clean(filepath.Join(record.TargetDir, rel))] = name
		}
	}

	conflicts := make([]fail.Conflicting, 0)
	for _, file := range pkg.Files {
		dest := filepath.Clean(filepath.Join(targetDir, file.TargetPath))
		if owner, taken := owners[dest]; taken {
			conflicts = append(conflicts, fail.Conflicting{Path: dest, Owner: owner})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Path < conflicts[j].Path
	})
	return conflicts
}
