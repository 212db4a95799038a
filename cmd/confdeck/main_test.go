package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/confdeck/confdeck/internal/fail"
)

func TestExitCodeMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fail.New(fail.KindValidation, "bad content"), exitValidation},
		{fail.New(fail.KindCopy, "copy failed"), exitInstall},
		{fail.New(fail.KindLedger, "ledger corrupt"), exitInstall},
		{fail.New(fail.KindBackup, "snapshot failed"), exitBackup},
		{fail.New(fail.KindPath, "no config dir"), exitPath},
		{fail.New(fail.KindConflict, "path owned"), exitConflict},
		{fail.New(fail.KindNotInstalled, "not installed"), 1},
		{errors.New("plain"), 1},
		{fmt.Errorf("wrapped: %w", fail.New(fail.KindConflict, "path owned")), exitConflict},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestRunMainReportsFailures(t *testing.T) {
	origExecute := executeFunc
	defer func() { executeFunc = origExecute }()

	executeFunc = func([]string, io.Writer, io.Writer) error {
		return fail.New(fail.KindConflict, "target paths are owned by other packages")
	}

	var stderr bytes.Buffer
	code := -1
	runMain([]string{"confdeck", "install", "x"}, &bytes.Buffer{}, &stderr, func(c int) { code = c })

	if code != exitConflict {
		t.Fatalf("exit code = %d, want %d", code, exitConflict)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected error output on stderr")
	}
}

func TestRunMainSuccessExitsZero(t *testing.T) {
	origExecute := executeFunc
	defer func() { executeFunc = origExecute }()

	executeFunc = func([]string, io.Writer, io.Writer) error { return nil }

	called := false
	runMain([]string{"confdeck"}, &bytes.Buffer{}, &bytes.Buffer{}, func(int) { called = true })
	if called {
		t.Fatal("exit must not be called on success")
	}
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	defer func() { Version, Commit, BuildDate = origVersion, origCommit, origDate }()

	Version, Commit, BuildDate = "1.4.0", "unknown", "unknown"
	if got := versionString(); got != "1.4.0" {
		t.Fatalf("versionString() = %q", got)
	}

	Commit, BuildDate = "abc123", "2026-08-30"
	if got := versionString(); got != "1.4.0 (commit abc123, built 2026-08-30)" {
		t.Fatalf("versionString() = %q", got)
	}
}
