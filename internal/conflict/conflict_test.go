package conflict

import (
	"path/filepath"
	"testing"

	"github.com/confdeck/confdeck/internal/model"
)

func pkgWithTargets(name string, targets ...string) model.Package {
	files := make([]model.PackageFile, 0, len(targets))
	for _, target := range targets {
		files = append(files, model.PackageFile{TargetPath: target, Category: model.CategoryConfig})
	}
	return model.Package{Name: name, Files: files}
}

func TestDetectFlagsPathsOwnedByOthers(t *testing.T) {
	records := map[string]model.InstallationRecord{
		"base-config": {
			PackageName: "base-config",
			TargetDir:   "/cfg/mpv",
			Files:       []string{"mpv.conf", "input.conf"},
		},
	}
	pkg := pkgWithTargets("quality-pack", "mpv.conf", "shaders/film.glsl")

	conflicts := Detect(pkg, "/cfg/mpv", records)
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %v", conflicts)
	}
	if conflicts[0].Owner != "base-config" {
		t.Fatalf("owner = %q, want base-config", conflicts[0].Owner)
	}
	if conflicts[0].Path != filepath.Clean("/cfg/mpv/mpv.conf") {
		t.Fatalf("path = %q", conflicts[0].Path)
	}
}

func TestDetectIgnoresOwnRecordOnReinstall(t *testing.T) {
	records := map[string]model.InstallationRecord{
		"quality-pack": {
			PackageName: "quality-pack",
			TargetDir:   "/cfg/mpv",
			Files:       []string{"mpv.conf"},
		},
	}
	pkg := pkgWithTargets("quality-pack", "mpv.conf")

	if conflicts := Detect(pkg, "/cfg/mpv", records); len(conflicts) != 0 {
		t.Fatalf("reinstall must not conflict with own record: %v", conflicts)
	}
}

func TestDetectIgnoresUntrackedExistingFiles(t *testing.T) {
	// No records at all: a file merely existing on disk is not a conflict,
	// it gets snapshotted before overwrite.
	pkg := pkgWithTargets("quality-pack", "mpv.conf")
	if conflicts := Detect(pkg, "/cfg/mpv", nil); len(conflicts) != 0 {
		t.Fatalf("untracked files must not conflict: %v", conflicts)
	}
}

func TestDetectDifferentTargetDirsDoNotCollide(t *testing.T) {
	records := map[string]model.InstallationRecord{
		"vlc-base": {
			PackageName: "vlc-base",
			TargetDir:   "/cfg/vlc",
			Files:       []string{"vlcrc"},
		},
	}
	pkg := pkgWithTargets("mpv-base", "vlcrc")
	if conflicts := Detect(pkg, "/cfg/mpv", records); len(conflicts) != 0 {
		t.Fatalf("same relative path in different target dirs must not conflict: %v", conflicts)
	}
}

func TestDetectSortsResults(t *testing.T) {
	records := map[string]model.InstallationRecord{
		"base": {
			PackageName: "base",
			TargetDir:   "/cfg/mpv",
			Files:       []string{"zz.conf", "aa.conf"},
		},
	}
	pkg := pkgWithTargets("new", "zz.conf", "aa.conf")

	conflicts := Detect(pkg, "/cfg/mpv", records)
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %v", conflicts)
	}
	if conflicts[0].Path > conflicts[1].Path {
		t.Fatalf("conflicts not sorted: %v", conflicts)
	}
}
