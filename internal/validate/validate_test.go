package validate

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confdeck/confdeck/internal/model"
)

func writeTemp(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateConfigAcceptsOptionLines(t *testing.T) {
	v := New()
	path := writeTemp(t, "mpv.conf", "# comment\n\nvo=gpu\nhwdec=auto-safe\nglsl-shaders=~/film.glsl\n")
	assert.NoError(t, v.Validate(path, model.CategoryConfig, model.PlayerMPV))
}

func TestValidateConfigRejectsMalformedLine(t *testing.T) {
	v := New()
	path := writeTemp(t, "mpv.conf", "vo=gpu\nthis is not an option\n")
	err := v.Validate(path, model.CategoryConfig, model.PlayerMPV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid syntax")
	assert.Contains(t, err.Error(), ":2:")
}

func TestValidateConfigToleratesUnknownOptions(t *testing.T) {
	v := New()
	path := writeTemp(t, "vlcrc", "some-future-option=1\n")
	assert.NoError(t, v.Validate(path, model.CategoryConfig, model.PlayerVLC))
}

func TestValidateConfigLogsUnknownOptions(t *testing.T) {
	var buf bytes.Buffer
	v := New()
	v.log = zerolog.New(&buf)

	path := writeTemp(t, "mpv.conf", "vo=gpu\nmade-up-option=1\n")
	require.NoError(t, v.Validate(path, model.CategoryConfig, model.PlayerMPV))

	assert.Contains(t, buf.String(), "made-up-option")
	assert.NotContains(t, buf.String(), `"option":"vo"`)
}

func TestValidateScriptOptUsesOptionSyntax(t *testing.T) {
	v := New()
	good := writeTemp(t, "osc.conf", "seekbarstyle=bar\nvidscale=no\n")
	assert.NoError(t, v.Validate(good, model.CategoryScriptOpt, model.PlayerMPV))

	bad := writeTemp(t, "bad.conf", "just words\n")
	assert.Error(t, v.Validate(bad, model.CategoryScriptOpt, model.PlayerMPV))
}

func TestValidateLuaPlugin(t *testing.T) {
	v := New()
	good := writeTemp(t, "osc.lua", "local mp = require 'mp'\nmp.observe_property('pause', 'bool', nil)\n")
	assert.NoError(t, v.Validate(good, model.CategoryPluginLua, model.PlayerMPV))

	wrongExt := writeTemp(t, "osc.txt", "mp.command('stop')\n")
	assert.Error(t, v.Validate(wrongExt, model.CategoryPluginLua, model.PlayerMPV))

	noAPI := writeTemp(t, "empty.lua", "print('hello')\n")
	assert.Error(t, v.Validate(noAPI, model.CategoryPluginLua, model.PlayerMPV))
}

func TestValidateJSPlugin(t *testing.T) {
	v := New()
	good := writeTemp(t, "plugin.js", "var osd = mp.create_osd_overlay();\nif (osd) { mp.msg.info('ok'); }\n")
	assert.NoError(t, v.Validate(good, model.CategoryPluginJS, model.PlayerMPV))

	unbalanced := writeTemp(t, "broken.js", "mp.register_event('start', function() {\n")
	assert.Error(t, v.Validate(unbalanced, model.CategoryPluginJS, model.PlayerMPV))
}

func TestValidateShader(t *testing.T) {
	v := New()
	good := writeTemp(t, "film.glsl", "uniform float intensity;\nvoid main() {\n  gl_FragColor = vec4(1.0);\n}\n")
	assert.NoError(t, v.Validate(good, model.CategoryShader, model.PlayerMPV))

	wrongExt := writeTemp(t, "film.conf", "void main() {}\n")
	assert.Error(t, v.Validate(wrongExt, model.CategoryShader, model.PlayerMPV))

	noKeywords := writeTemp(t, "weird.glsl", "nothing shader-like here\n")
	assert.Error(t, v.Validate(noKeywords, model.CategoryShader, model.PlayerMPV))

	unbalanced := writeTemp(t, "broken.glsl", "void main() {\n")
	assert.Error(t, v.Validate(unbalanced, model.CategoryShader, model.PlayerMPV))
}

func TestValidateMissingFile(t *testing.T) {
	v := New()
	err := v.Validate(filepath.Join(t.TempDir(), "absent.conf"), model.CategoryConfig, model.PlayerMPV)
	assert.Error(t, err)
}

func TestValidateUnknownCategory(t *testing.T) {
	v := New()
	path := writeTemp(t, "x", "")
	assert.Error(t, v.Validate(path, model.FileCategory("theme"), model.PlayerMPV))
}
