// Package engine implements the transactional installation engine: the
// install/uninstall/verify state machine tying together the conflict
// resolver, the backup store, and the installation ledger, with
// rollback-on-failure.
//
// Operations are synchronous and strictly sequential; each stage gates the
// next. Concurrent invocations against the same ledger or backup root are
// unsupported (single-writer assumption, documented rather than enforced).
package engine

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/confdeck/confdeck/internal/backup"
	"github.com/confdeck/confdeck/internal/conflict"
	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/ledger"
	"github.com/confdeck/confdeck/internal/logging"
	"github.com/confdeck/confdeck/internal/model"
)

// Validator is the consumed content-validation capability. Implementations
// report pass (nil) or fail (descriptive error) for a single file; the engine
// never inspects file content itself.
type Validator interface {
	Validate(path string, category model.FileCategory, player model.Player) error
}

// Options configures a new Engine.
type Options struct {
	Ledger    *ledger.Store
	Backups   *backup.Store
	Validator Validator
	// System defaults to the real filesystem when nil.
	System System
}

// Engine orchestrates package installation against a target directory.
type Engine struct {
	ledger    *ledger.Store
	backups   *backup.Store
	validator Validator
	sys       System
	log       zerolog.Logger
}

// New builds an Engine from options. Ledger, Backups, and Validator are
// required.
func New(opts Options) (*Engine, error) {
	if opts.Ledger == nil {
		return nil, errors.New("engine requires a ledger store")
	}
	if opts.Backups == nil {
		return nil, errors.New("engine requires a backup store")
	}
	if opts.Validator == nil {
		return nil, errors.New("engine requires a validator")
	}
	sys := opts.System
	if sys == nil {
		sys = RealSystem{}
	}
	return &Engine{
		ledger:    opts.Ledger,
		backups:   opts.Backups,
		validator: opts.Validator,
		sys:       sys,
		log:       logging.GetLogger("engine"),
	}, nil
}

// InstallResult carries the created (or, for dry runs, hypothetical)
// installation record and the id of the backup snapshot taken before any
// pre-existing file was overwritten, if one was.
type InstallResult struct {
	Record     model.InstallationRecord
	SnapshotID string
}

// Install deploys pkg into targetDir.
//
// The stages run strictly in order: validate package content, check
// ownership conflicts, snapshot pre-existing target files, copy, commit to
// the ledger. Any failure before the commit rolls back every file copied in
// this attempt and leaves the ledger untouched. In dry-run mode only the
// first two stages execute and the returned record is hypothetical.
func (e *Engine) Install(pkg model.Package, targetDir string, mode model.Mode) (InstallResult, error) {
	return e.InstallReplacing(pkg, targetDir, mode)
}

// InstallReplacing behaves like Install but treats target paths owned by the
// named packages as free during the conflict check. Callers use it when those
// packages will be, or in a dry run would be, uninstalled before the install
// proper.
func (e *Engine) InstallReplacing(pkg model.Package, targetDir string, mode model.Mode, replacing ...string) (InstallResult, error) {
	if pkg.Name == "" {
		return InstallResult{}, fail.New(fail.KindValidation, "package name is required")
	}
	if targetDir == "" {
		return InstallResult{}, fail.New(fail.KindValidation, "target directory is required")
	}

	e.log.Debug().Str("package", pkg.Name).Str("target", targetDir).Bool("dry_run", mode.DryRun()).Msg("install: validating")
	planned, err := e.validateFiles(pkg)
	if err != nil {
		return InstallResult{}, err
	}

	e.log.Debug().Str("package", pkg.Name).Msg("install: conflict checking")
	doc, err := e.ledger.Load()
	if err != nil {
		return InstallResult{}, err
	}
	records := doc.Installations
	if len(replacing) > 0 {
		records = make(map[string]model.InstallationRecord, len(doc.Installations))
		for name, rec := range doc.Installations {
			records[name] = rec
		}
		for _, name := range replacing {
			delete(records, name)
		}
	}
	if conflicts := conflict.Detect(pkg, targetDir, records); len(conflicts) > 0 {
		return InstallResult{}, fail.Newf(fail.KindConflict, "cannot install %s: target paths are owned by other packages", pkg.Name).
			WithConflicts(conflicts)
	}

	record := model.InstallationRecord{
		PackageName: pkg.Name,
		Version:     pkg.Version,
		TargetDir:   targetDir,
		Files:       relTargets(planned),
		InstalledAt: time.Now().UTC(),
	}
	if mode.DryRun() {
		return InstallResult{Record: record}, nil
	}

	result := InstallResult{}
	existing := e.existingTargets(planned, targetDir)
	if len(existing) > 0 {
		e.log.Debug().Str("package", pkg.Name).Int("files", len(existing)).Msg("install: backing up pre-existing files")
		snapshot, err := e.backups.Create(pkg.Name, existing, targetDir, targetDir)
		if err != nil {
			return InstallResult{}, err
		}
		record.BackupDir = snapshot.Dir
		result.SnapshotID = snapshot.ID
	}

	e.log.Debug().Str("package", pkg.Name).Int("files", len(planned)).Msg("install: copying")
	copied := make([]string, 0, len(planned))
	for _, file := range planned {
		dest := filepath.Join(targetDir, file.TargetPath)
		if err := e.sys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			e.rollbackCopies(copied)
			return InstallResult{}, fail.Wrapf(err, fail.KindCopy, "create directory for %s", dest).WithPaths(dest)
		}
		if err := e.sys.CopyFile(file.SourcePath, dest); err != nil {
			e.rollbackCopies(copied)
			return InstallResult{}, fail.Wrapf(err, fail.KindCopy, "copy %s to %s", file.SourcePath, dest).WithPaths(dest)
		}
		copied = append(copied, dest)
	}

	e.log.Debug().Str("package", pkg.Name).Msg("install: committing")
	doc.Installations[pkg.Name] = record
	if err := e.ledger.Save(doc); err != nil {
		e.rollbackCopies(copied)
		return InstallResult{}, err
	}
	result.Record = record
	e.log.Info().Str("package", pkg.Name).Str("version", pkg.Version).Int("files", len(copied)).Msg("installed")
	return result, nil
}

// validateFiles runs the validator over every required file and every
// optional file whose source exists, returning the effective file list. The
// first failure aborts; nothing has been copied at that point.
func (e *Engine) validateFiles(pkg model.Package) ([]model.PackageFile, error) {
	planned := make([]model.PackageFile, 0, len(pkg.Files))
	for _, file := range pkg.Files {
		if _, err := e.sys.Stat(file.SourcePath); err != nil {
			if !file.Required && errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fail.Wrapf(err, fail.KindValidation, "source file does not exist: %s", file.SourcePath).
				WithPaths(file.SourcePath)
		}
		if err := e.validator.Validate(file.SourcePath, file.Category, pkg.Player); err != nil {
			return nil, fail.Wrapf(err, fail.KindValidation, "validation failed for %s", file.SourcePath).
				WithPaths(file.SourcePath)
		}
		planned = append(planned, file)
	}
	return planned, nil
}

// existingTargets returns the relative target paths of planned files that are
// currently present on disk, tracked or not.
func (e *Engine) existingTargets(planned []model.PackageFile, targetDir string) []string {
	existing := make([]string, 0, len(planned))
	for _, file := range planned {
		if _, err := e.sys.Stat(filepath.Join(targetDir, file.TargetPath)); err == nil {
			existing = append(existing, file.TargetPath)
		}
	}
	return existing
}

// rollbackCopies deletes the destinations copied so far in this attempt.
// Individual delete failures are logged, never returned: rollback must not
// mask the failure that triggered it.
func (e *Engine) rollbackCopies(copied []string) {
	for _, dest := range copied {
		if err := e.sys.Remove(dest); err != nil && !errors.Is(err, os.ErrNotExist) {
			e.log.Warn().Err(err).Str("path", dest).Msg("rollback: failed to remove copied file")
		}
	}
}

func relTargets(files []model.PackageFile) []string {
	out := make([]string, 0, len(files))
	for _, file := range files {
		out = append(out, file.TargetPath)
	}
	return out
}
