package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/model"
)

func TestVerifyCleanInstall(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	pkg := basicPackage(env, t)
	if _, err := env.engine.Install(pkg, env.targetDir, model.ModeApply); err != nil {
		t.Fatal(err)
	}

	issues, err := env.engine.Verify(pkg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("expected clean verify, got %v", issues)
	}
}

func TestVerifyNotInstalled(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	pkg := basicPackage(env, t)

	issues, err := env.engine.Verify(pkg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(issues) != 1 || !strings.Contains(issues[0], "not installed") {
		t.Fatalf("issues = %v", issues)
	}
}

func TestVerifyReportsMissingRequiredFile(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	pkg := basicPackage(env, t)
	if _, err := env.engine.Install(pkg, env.targetDir, model.ModeApply); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(env.targetDir, "mpv.conf")); err != nil {
		t.Fatal(err)
	}

	issues, err := env.engine.Verify(pkg)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(issues) != 1 || !strings.Contains(issues[0], "missing required file") {
		t.Fatalf("issues = %v", issues)
	}
}

func TestVerifyIgnoresOptionalFiles(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	pkg := basicPackage(env, t)
	pkg.Files[1].Required = false
	if _, err := env.engine.Install(pkg, env.targetDir, model.ModeApply); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(env.targetDir, filepath.FromSlash("shaders/film.glsl"))); err != nil {
		t.Fatal(err)
	}

	issues, err := env.engine.Verify(pkg)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 0 {
		t.Fatalf("optional files must not be verified: %v", issues)
	}
}

func TestDriftReportsModifiedFiles(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	pkg := basicPackage(env, t)
	if _, err := env.engine.Install(pkg, env.targetDir, model.ModeApply); err != nil {
		t.Fatal(err)
	}
	env.writeTarget(t, "mpv.conf", "profile=gpu-hq\nhwdec=auto\n")

	previews, err := env.engine.Drift(pkg, DefaultDriftMaxLines)
	if err != nil {
		t.Fatalf("Drift: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("previews = %+v", previews)
	}
	if previews[0].Path != "mpv.conf" {
		t.Fatalf("Path = %q", previews[0].Path)
	}
	if !strings.Contains(previews[0].UnifiedDiff, "hwdec=auto") {
		t.Fatalf("diff missing changed line:\n%s", previews[0].UnifiedDiff)
	}
	if previews[0].Truncated {
		t.Fatal("small diff must not be truncated")
	}
}

func TestDriftNoChanges(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	pkg := basicPackage(env, t)
	if _, err := env.engine.Install(pkg, env.targetDir, model.ModeApply); err != nil {
		t.Fatal(err)
	}

	previews, err := env.engine.Drift(pkg, DefaultDriftMaxLines)
	if err != nil {
		t.Fatal(err)
	}
	if len(previews) != 0 {
		t.Fatalf("expected no drift, got %+v", previews)
	}
}

func TestDriftNotInstalled(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	pkg := basicPackage(env, t)
	_, err := env.engine.Drift(pkg, DefaultDriftMaxLines)
	if !fail.IsKind(err, fail.KindNotInstalled) {
		t.Fatalf("expected not-installed failure, got %v", err)
	}
}

func TestRenderTruncatedUnifiedDiff(t *testing.T) {
	from := "a\nb\nc\n"
	to := "a\nx\ny\nz\n"
	diff, truncated := renderTruncatedUnifiedDiff("from", "to", from, to, 2)
	if !truncated {
		t.Fatal("expected truncated diff")
	}
	if !strings.Contains(diff, "truncated to 2 lines") {
		t.Fatalf("expected truncation note:\n%s", diff)
	}
	if !strings.HasSuffix(diff, "\n") {
		t.Fatal("rendered diff must end with a newline")
	}
}

func TestRenderTruncatedUnifiedDiffDefaultsCap(t *testing.T) {
	diff, truncated := renderTruncatedUnifiedDiff("from", "to", "a\n", "b\n", 0)
	if truncated {
		t.Fatalf("tiny diff must not truncate under the default cap:\n%s", diff)
	}
}
