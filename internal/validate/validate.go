// Package validate implements the heuristic content validators consumed by
// the engine's validation stage. The checks are deliberately shallow
// (syntax shape, extensions, keyword sniffing) and expose only a pass/fail
// result per file.
package validate

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/confdeck/confdeck/internal/logging"
	"github.com/confdeck/confdeck/internal/model"
)

var (
	optionLine  = regexp.MustCompile(`^[a-zA-Z0-9_-]+=.*$`)
	commentLine = regexp.MustCompile(`^\s*#`)
)

// mpvKnownOptions is a subset of mpv options recognized during validation.
// Unknown options never fail; they are surfaced at debug level.
var mpvKnownOptions = map[string]struct{}{
	"vo": {}, "gpu-api": {}, "gpu-context": {}, "profile": {}, "scale": {},
	"cscale": {}, "dscale": {}, "correct-downscaling": {}, "sigmoid-upscaling": {},
	"scale-antiring": {}, "cscale-antiring": {}, "glsl-shaders": {},
	"glsl-shaders-toggle": {}, "icc-profile-auto": {}, "icc-cache": {},
	"target-colorspace": {}, "target-trc": {}, "linear-downscaling": {},
	"linear-scaling": {}, "hdr-compute-peak": {}, "hdr-peak-decay-rate": {},
	"tone-mapping": {}, "tone-mapping-param": {}, "tone-mapping-desaturate": {},
	"dither": {}, "dither-depth": {}, "temporal-dither": {}, "deband": {},
	"deband-iterations": {}, "deband-threshold": {}, "interpolation": {},
	"tscale": {}, "video-sync": {}, "blend-subtitles": {}, "script-opts": {},
	"fullscreen": {}, "keep-open": {}, "border": {}, "hwdec": {},
	"sub-font-provider": {}, "sub-fonts-dir": {},
}

var vlcKnownOptions = map[string]struct{}{
	"video-output": {}, "fullscreen": {}, "video-on-top": {}, "overlay-video": {},
	"quiet-synchro": {}, "skip-frames": {}, "drop-late-frames": {},
	"use-wallpaper": {}, "video-title-timeout": {}, "avcodec-hw": {},
	"swscale-mode": {}, "deinterlace": {}, "deinterlace-mode": {},
	"tone-mapping": {}, "tone-mapping-param": {}, "file-caching": {},
	"live-caching": {}, "disc-caching": {}, "network-caching": {},
	"video-filter": {}, "postproc-q": {}, "hq-resampling": {},
	"video-scaling-factor": {}, "scale-factor": {}, "aout": {},
	"audio-replay-gain-mode": {}, "audio-replay-gain-preamp": {},
	"audio-normalization": {},
}

var shaderExtensions = map[string]struct{}{
	".glsl": {}, ".frag": {}, ".vert": {}, ".comp": {}, ".hook": {},
}

var glslKeyword = regexp.MustCompile(`\b(void|main|vec[234]|mat[234]|float|uniform|varying|sampler2D|gl_FragColor|hook)\b`)

// ContentValidator validates package file content by category. It implements
// the engine's Validator capability.
type ContentValidator struct {
	log zerolog.Logger
}

// New returns a ContentValidator.
func New() *ContentValidator {
	return &ContentValidator{log: logging.GetLogger("validate")}
}

// Validate checks the file at path according to its category. A nil return
// means the file passed; an error carries the first problem found.
func (v *ContentValidator) Validate(path string, category model.FileCategory, player model.Player) error {
	switch category {
	case model.CategoryConfig, model.CategoryScriptOpt:
		return v.validateOptionFile(path, player)
	case model.CategoryPluginLua:
		return v.validateLuaPlugin(path)
	case model.CategoryPluginJS:
		return v.validateJSPlugin(path)
	case model.CategoryShader:
		return v.validateShader(path)
	}
	return fmt.Errorf("unknown file category %q", category)
}

// validateOptionFile checks the line-oriented option=value syntax shared by
// mpv and VLC configuration files and script-opts files.
func (v *ContentValidator) validateOptionFile(path string, player model.Player) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	known := mpvKnownOptions
	if player == model.PlayerVLC {
		known = vlcKnownOptions
	}
	for lineNum, line := range strings.Split(string(content), "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" || commentLine.MatchString(stripped) {
			continue
		}
		if !optionLine.MatchString(stripped) {
			return fmt.Errorf("%s:%d: invalid syntax: %q", path, lineNum+1, stripped)
		}
		// Unknown option names are tolerated; only malformed lines fail.
		name := stripped[:strings.IndexByte(stripped, '=')]
		if _, ok := known[name]; !ok {
			v.log.Debug().
				Str("file", path).
				Int("line", lineNum+1).
				Str("option", name).
				Msg("option not in the known set")
		}
	}
	return nil
}

func (v *ContentValidator) validateLuaPlugin(path string) error {
	if !strings.EqualFold(ext(path), ".lua") {
		return fmt.Errorf("plugin %s: expected a .lua file", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read Lua plugin %s: %w", path, err)
	}
	text := string(content)
	if !strings.Contains(text, "mp.") && !strings.Contains(text, "require") {
		return fmt.Errorf("plugin %s: no mpv Lua API usage found", path)
	}
	return nil
}

func (v *ContentValidator) validateJSPlugin(path string) error {
	if !strings.EqualFold(ext(path), ".js") {
		return fmt.Errorf("plugin %s: expected a .js file", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read JS plugin %s: %w", path, err)
	}
	text := string(content)
	if !strings.Contains(text, "mp.") && !strings.Contains(text, "require(") {
		return fmt.Errorf("plugin %s: no mpv JS API usage found", path)
	}
	if strings.Count(text, "{") != strings.Count(text, "}") {
		return fmt.Errorf("plugin %s: unbalanced braces", path)
	}
	return nil
}

func (v *ContentValidator) validateShader(path string) error {
	if _, ok := shaderExtensions[strings.ToLower(ext(path))]; !ok {
		return fmt.Errorf("shader %s: unexpected extension %q", path, ext(path))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read shader %s: %w", path, err)
	}
	text := string(content)
	if !glslKeyword.MatchString(text) {
		return fmt.Errorf("shader %s: no GLSL keywords found", path)
	}
	if strings.Count(text, "{") != strings.Count(text, "}") {
		return fmt.Errorf("shader %s: unbalanced braces", path)
	}
	if strings.Count(text, "(") != strings.Count(text, ")") {
		return fmt.Errorf("shader %s: unbalanced parentheses", path)
	}
	return nil
}

func ext(path string) string {
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		return path[idx:]
	}
	return ""
}
