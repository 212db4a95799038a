// Package paths resolves player configuration directories per platform.
package paths

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
	"github.com/mitchellh/go-homedir"

	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/model"
)

// Candidates returns the configuration directories where the player may keep
// its config on the current platform, most likely first. Candidates that
// cannot be computed (no home directory) are omitted.
func Candidates(player model.Player) []string {
	return candidatesFor(player, runtime.GOOS)
}

func candidatesFor(player model.Player, goos string) []string {
	home, err := homedir.Dir()
	if err != nil {
		home = ""
	}
	var candidates []string
	add := func(parts ...string) {
		for _, p := range parts {
			if p == "" {
				return
			}
		}
		candidates = append(candidates, filepath.Join(parts...))
	}
	switch player {
	case model.PlayerMPV:
		switch goos {
		case "windows":
			add(os.Getenv("APPDATA"), "mpv")
			add(home, "AppData", "Roaming", "mpv")
		default:
			add(xdg.ConfigHome, "mpv")
			add(home, ".config", "mpv")
			add(home, ".mpv")
		}
	case model.PlayerVLC:
		switch goos {
		case "windows":
			add(os.Getenv("APPDATA"), "vlc")
			add(home, "AppData", "Roaming", "vlc")
		case "darwin":
			add(home, "Library", "Preferences", "org.videolan.vlc")
			add(home, "Library", "Application Support", "org.videolan.vlc")
		default:
			add(xdg.ConfigHome, "vlc")
			add(home, ".config", "vlc")
		}
	}
	return dedupe(candidates)
}

// Detect returns the first candidate directory that exists on disk.
func Detect(player model.Player) (string, error) {
	candidates := Candidates(player)
	for _, dir := range candidates {
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, nil
		}
	}
	return "", fail.Newf(fail.KindPath, "no configuration directory found for %s", player).
		WithPaths(candidates...)
}

// DetectOrDefault returns the detected directory, or the most likely
// candidate when none exists yet.
func DetectOrDefault(player model.Player) (string, error) {
	if dir, err := Detect(player); err == nil {
		return dir, nil
	}
	candidates := Candidates(player)
	if len(candidates) == 0 {
		return "", fail.Newf(fail.KindPath, "cannot compute a configuration directory for %s", player)
	}
	return candidates[0], nil
}

// ValidateWritable checks that dir can be created and written to.
func ValidateWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fail.Wrapf(err, fail.KindPath, "create directory %s", dir).WithPaths(dir)
	}
	probe, err := os.CreateTemp(dir, ".confdeck-probe-*")
	if err != nil {
		return fail.Wrapf(err, fail.KindPath, "directory %s is not writable", dir).WithPaths(dir)
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return nil
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
