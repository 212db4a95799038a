package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confdeck/confdeck/internal/model"
)

func writePackage(t *testing.T, root string, dir string, manifest string) {
	t.Helper()
	pkgDir := filepath.Join(root, dir)
	require.NoError(t, os.MkdirAll(pkgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "manifest.json"), []byte(manifest), 0o644))
}

const validManifest = `{
  "name": "mpv-quality",
  "description": "High quality mpv settings",
  "version": "1.2.0",
  "player": "mpv",
  "profile": "quality",
  "files": [
    {"source": "mpv.conf", "target": "mpv.conf", "type": "config", "required": true},
    {"source": "shaders/film.glsl", "target": "shaders/film.glsl", "type": "shader", "required": false}
  ],
  "dependencies": ["mpv-base"]
}`

func TestGetLoadsManifest(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "mpv-quality", validManifest)

	pkg, err := New(root).Get("mpv-quality")
	require.NoError(t, err)

	assert.Equal(t, "mpv-quality", pkg.Name)
	assert.Equal(t, "1.2.0", pkg.Version)
	assert.Equal(t, model.PlayerMPV, pkg.Player)
	assert.Equal(t, model.ProfileQuality, pkg.Profile)
	assert.Equal(t, []string{"mpv-base"}, pkg.Dependencies)
	require.Len(t, pkg.Files, 2)
	assert.Equal(t, filepath.Join(root, "mpv-quality", "mpv.conf"), pkg.Files[0].SourcePath)
	assert.Equal(t, "mpv.conf", pkg.Files[0].TargetPath)
	assert.True(t, pkg.Files[0].Required)
	assert.Equal(t, model.CategoryShader, pkg.Files[1].Category)
	assert.False(t, pkg.Files[1].Required)
}

func TestGetDefaultsProfile(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "plain", `{
  "name": "plain", "version": "1.0.0", "player": "vlc",
  "files": [{"source": "vlcrc", "target": "vlcrc", "type": "config", "required": true}]
}`)

	pkg, err := New(root).Get("plain")
	require.NoError(t, err)
	assert.Equal(t, model.ProfileDefault, pkg.Profile)
}

func TestGetUnknownPackage(t *testing.T) {
	_, err := New(t.TempDir()).Get("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetSurfacesInvalidManifest(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "broken", `{"name": "broken", "version": "1.0.0", "player": "winamp", "files": [{"source": "a", "target": "a", "type": "config"}]}`)

	_, err := New(root).Get("broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid manifest")
}

func TestGetRejectsMissingFields(t *testing.T) {
	cases := map[string]string{
		"no name":    `{"version": "1", "player": "mpv", "files": [{"source": "a", "target": "a", "type": "config"}]}`,
		"no version": `{"name": "x", "player": "mpv", "files": [{"source": "a", "target": "a", "type": "config"}]}`,
		"no files":   `{"name": "x", "version": "1", "player": "mpv", "files": []}`,
		"bad type":   `{"name": "x", "version": "1", "player": "mpv", "files": [{"source": "a", "target": "a", "type": "theme"}]}`,
		"no target":  `{"name": "x", "version": "1", "player": "mpv", "files": [{"source": "a", "type": "config"}]}`,
	}
	for label, manifest := range cases {
		root := t.TempDir()
		writePackage(t, root, "x", manifest)
		_, err := New(root).Get("x")
		assert.Error(t, err, label)
	}
}

func TestListSortsAndSkipsInvalid(t *testing.T) {
	root := t.TempDir()
	writePackage(t, root, "zeta", `{
  "name": "zeta", "version": "1.0.0", "player": "mpv",
  "files": [{"source": "z.conf", "target": "z.conf", "type": "config", "required": true}]
}`)
	writePackage(t, root, "alpha", `{
  "name": "alpha", "version": "1.0.0", "player": "mpv",
  "files": [{"source": "a.conf", "target": "a.conf", "type": "config", "required": true}]
}`)
	writePackage(t, root, "broken", `{not json`)
	// A plain directory without a manifest is not a package.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "stray"), 0o755))
	// A stray file at the root is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(root, "README"), []byte("x"), 0o644))

	packages, err := New(root).List()
	require.NoError(t, err)
	require.Len(t, packages, 2)
	assert.Equal(t, "alpha", packages[0].Name)
	assert.Equal(t, "zeta", packages[1].Name)
}

func TestListMissingRootIsEmpty(t *testing.T) {
	packages, err := New(filepath.Join(t.TempDir(), "absent")).List()
	require.NoError(t, err)
	assert.Empty(t, packages)
}
