// Package ledger persists the installation state: the mapping of package name
// to installation record, plus the active profile per player.
//
// The whole document is read and rewritten as a unit with write-then-replace
// semantics, so a failed save never leaves a corrupt file behind. Concurrent
// writers sharing one ledger file are unsupported (single-writer assumption).
package ledger

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

const schemaVersion = 1

// Document is the in-memory form of the ledger file.
type Document struct {
	// Installations maps package name to its installation record. Exactly
	// one record exists per package name.
	Installations map[string]model.InstallationRecord
	// ActiveProfiles records the profile last switched to, per player.
	ActiveProfiles map[model.Player]model.Profile
}

// NewDocument returns an empty document with initialized maps.
func NewDocument() Document {
	return Document{
		Installations:  make(map[string]model.InstallationRecord),
		ActiveProfiles: make(map[model.Player]model.Profile),
	}
}

type installationEntry struct {
	PackageName string   `json:"package_name"`
	Version     string   `json:"version"`
	InstalledAt string   `json:"installed_at"`
	TargetDir   string   `json:"target_dir"`
	BackupDir   *string  `json:"backup_dir"`
	Files       []string `json:"files"`
}

type ledgerFile struct {
	SchemaVersion  int                 `json:"schema_version,omitempty"`
	Installations  []installationEntry `json:"installations"`
	ActiveProfiles map[string]string   `json:"active_profiles,omitempty"`
}

// Store loads and saves the ledger document at a fixed path.
type Store struct {
	path string
	sys  System
}

// NewStore returns a store for the ledger file at path. A nil sys defaults to
// the real filesystem.
func NewStore(path string, sys System) *Store {
	if sys == nil {
		sys = RealSystem{}
	}
	return &Store{path: path, sys: sys}
}

// Path returns the ledger file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the ledger. An absent file is an empty ledger; malformed content
// surfaces as a ledger failure.
func (s *Store) Load() (Document, error) {
	data, err := s.sys.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDocument(), nil
		}
		return Document{}, fail.Wrapf(err, fail.KindLedger, "read ledger %s", s.path)
	}

	var raw ledgerFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fail.Wrapf(err, fail.KindLedger, "parse ledger %s", s.path)
	}
	doc, err := decodeDocument(raw)
	if err != nil {
		return Document{}, fail.Wrapf(err, fail.KindLedger, "validate ledger %s", s.path)
	}
	return doc, nil
}

// Save overwrites the entire persisted representation. The document is
// validated first, so an inconsistent in-memory state is never written out.
func (s *Store) Save(doc Document) error {
	raw, err := encodeDocument(doc)
	if err != nil {
		return fail.Wrapf(err, fail.KindLedger, "encode ledger %s", s.path)
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fail.Wrapf(err, fail.KindLedger, "encode ledger %s", s.path)
	}
	data = append(data, '\n')
	if err := s.sys.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fail.Wrapf(err, fail.KindLedger, "create directory for %s", s.path)
	}
	if err := s.sys.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fail.Wrapf(err, fail.KindLedger, "write ledger %s", s.path)
	}
	return nil
}

func decodeDocument(raw ledgerFile) (Document, error) {
	// schema_version 0 is accepted for ledgers written before versioning.
	if raw.SchemaVersion != 0 && raw.SchemaVersion != schemaVersion {
		return Document{}, fmt.Errorf("unsupported schema_version %d", raw.SchemaVersion)
	}
	doc := NewDocument()
	for _, entry := range raw.Installations {
		record, err := decodeEntry(entry)
		if err != nil {
			return Document{}, err
		}
		if _, exists := doc.Installations[record.PackageName]; exists {
			return Document{}, fmt.Errorf("duplicate installation record for package %q", record.PackageName)
		}
		doc.Installations[record.PackageName] = record
	}
	if err := validateOwnershipExclusive(doc.Installations); err != nil {
		return Document{}, err
	}
	for rawPlayer, rawProfile := range raw.ActiveProfiles {
		player, err := model.ParsePlayer(rawPlayer)
		if err != nil {
			return Document{}, fmt.Errorf("active profile entry: %w", err)
		}
		profile, err := model.ParseProfile(rawProfile)
		if err != nil {
			return Document{}, fmt.Errorf("active profile entry for %s: %w", player, err)
		}
		doc.ActiveProfiles[player] = profile
	}
	return doc, nil
}

func decodeEntry(entry installationEntry) (model.InstallationRecord, error) {
	if strings.TrimSpace(entry.PackageName) == "" {
		return model.InstallationRecord{}, fmt.Errorf("installation entry missing package_name")
	}
	if strings.TrimSpace(entry.TargetDir) == "" {
		return model.InstallationRecord{}, fmt.Errorf("installation entry %q missing target_dir", entry.PackageName)
	}
	installedAt, err := time.Parse(time.RFC3339, entry.InstalledAt)
	if err != nil {
		return model.InstallationRecord{}, fmt.Errorf("installation entry %q has invalid installed_at %q: %w", entry.PackageName, entry.InstalledAt, err)
	}
	record := model.InstallationRecord{
		PackageName: entry.PackageName,
		Version:     entry.Version,
		TargetDir:   entry.TargetDir,
		Files:       append([]string(nil), entry.Files...),
		InstalledAt: installedAt,
	}
	if entry.BackupDir != nil {
		record.BackupDir = *entry.BackupDir
	}
	return record, nil
}

func encodeDocument(doc Document) (ledgerFile, error) {
	if err := validateOwnershipExclusive(doc.Installations); err != nil {
		return ledgerFile{}, err
	}
	entries := make([]installationEntry, 0, len(doc.Installations))
	for name, record := range doc.Installations {
		if record.PackageName != name {
			return ledgerFile{}, fmt.Errorf("installation record keyed %q has package name %q", name, record.PackageName)
		}
		entry := installationEntry{
			PackageName: record.PackageName,
			Version:     record.Version,
			InstalledAt: record.InstalledAt.UTC().Format(time.RFC3339),
			TargetDir:   record.TargetDir,
			Files:       append([]string(nil), record.Files...),
		}
		if record.BackupDir != "" {
			dir := record.BackupDir
			entry.BackupDir = &dir
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PackageName < entries[j].PackageName
	})

	profiles := make(map[string]string, len(doc.ActiveProfiles))
	for player, profile := range doc.ActiveProfiles {
		profiles[string(player)] = string(profile)
	}
	return ledgerFile{
		SchemaVersion:  schemaVersion,
		Installations:  entries,
		ActiveProfiles: profiles,
	}, nil
}

// validateOwnershipExclusive rejects documents where one target path appears
// in the owned-file sets of two different records.
func validateOwnershipExclusive(records map[string]model.InstallationRecord) error {
	owners := make(map[string]string)
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		record := records[name]
		for _, rel := range record.Files {
			abs := filepath.Clean(filepath.Join(record.TargetDir, rel))
			if owner, taken := owners[abs]; taken {
				return fmt.Errorf("path %s owned by both %s and %s", abs, owner, name)
			}
			owners[abs] = name
		}
	}
	return nil
}
