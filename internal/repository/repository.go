// Package repository discovers installable packages on disk. A package is a
// directory containing a manifest.json describing its files; source paths in
// the manifest are relative to the manifest's directory.
package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/model"
)

const manifestName = "manifest.json"

type manifestFile struct {
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Version      string             `json:"version"`
	Player       string             `json:"player"`
	Profile      string             `json:"profile,omitempty"`
	Files        []manifestFileSpec `json:"files"`
	Dependencies []string           `json:"dependencies,omitempty"`
}

type manifestFileSpec struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// Repository scans a root directory for package manifests.
type Repository struct {
	root string
}

// New returns a Repository rooted at dir.
func New(dir string) *Repository {
	return &Repository{root: dir}
}

// Root returns the directory the repository scans.
func (r *Repository) Root() string {
	return r.root
}

// List returns all valid packages under the root, sorted by name.
// Directories without a manifest, and manifests that fail to parse or
// validate, are skipped.
func (r *Repository) List() ([]model.Package, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fail.Wrapf(err, fail.KindValidation, "read packages directory %s", r.root)
	}
	var packages []model.Package
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pkg, err := r.load(filepath.Join(r.root, entry.Name()))
		if err != nil {
			continue
		}
		packages = append(packages, pkg)
	}
	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })
	return packages, nil
}

// Get loads the package named name. Unlike List, parse and validation
// problems are returned to the caller.
func (r *Repository) Get(name string) (model.Package, error) {
	dir := filepath.Join(r.root, name)
	if _, err := os.Stat(filepath.Join(dir, manifestName)); err != nil {
		return model.Package{}, fail.Newf(fail.KindValidation, "package %q not found in %s", name, r.root)
	}
	pkg, err := r.load(dir)
	if err != nil {
		return model.Package{}, err
	}
	return pkg, nil
}

func (r *Repository) load(dir string) (model.Package, error) {
	manifestPath := filepath.Join(dir, manifestName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return model.Package{}, fail.Wrapf(err, fail.KindValidation, "read manifest %s", manifestPath)
	}
	var mf manifestFile
	if err := json.Unmarshal(data, &mf); err != nil {
		return model.Package{}, fail.Wrapf(err, fail.KindValidation, "parse manifest %s", manifestPath)
	}
	pkg, err := buildPackage(dir, mf)
	if err != nil {
		return model.Package{}, fail.Wrapf(err, fail.KindValidation, "invalid manifest %s", manifestPath)
	}
	return pkg, nil
}

func buildPackage(dir string, mf manifestFile) (model.Package, error) {
	if mf.Name == "" {
		return model.Package{}, fmt.Errorf("missing package name")
	}
	if mf.Version == "" {
		return model.Package{}, fmt.Errorf("missing package version")
	}
	player, err := model.ParsePlayer(mf.Player)
	if err != nil {
		return model.Package{}, err
	}
	profile := model.ProfileDefault
	if mf.Profile != "" {
		profile, err = model.ParseProfile(mf.Profile)
		if err != nil {
			return model.Package{}, err
		}
	}
	if len(mf.Files) == 0 {
		return model.Package{}, fmt.Errorf("package %q declares no files", mf.Name)
	}
	files := make([]model.PackageFile, 0, len(mf.Files))
	for i, spec := range mf.Files {
		if spec.Source == "" || spec.Target == "" {
			return model.Package{}, fmt.Errorf("file entry %d: source and target are required", i)
		}
		category, err := model.ParseFileCategory(spec.Type)
		if err != nil {
			return model.Package{}, fmt.Errorf("file entry %d: %w", i, err)
		}
		files = append(files, model.PackageFile{
			SourcePath: filepath.Join(dir, filepath.FromSlash(spec.Source)),
			TargetPath: spec.Target,
			Category:   category,
			Required:   spec.Required,
		})
	}
	return model.Package{
		Name:         mf.Name,
		Description:  mf.Description,
		Version:      mf.Version,
		Player:       player,
		Profile:      profile,
		Files:        files,
		Dependencies: mf.Dependencies,
	}, nil
}
