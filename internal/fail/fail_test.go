package fail

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorMessageIncludesKindAndCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrapf(cause, KindCopy, "copy %s", "mpv.conf")
	msg := err.Error()
	if !strings.Contains(msg, "copy:") {
		t.Fatalf("expected kind prefix in %q", msg)
	}
	if !strings.Contains(msg, "disk full") {
		t.Fatalf("expected cause in %q", msg)
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to match errors.Is")
	}
}

func TestIsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(KindConflict, "path taken"))
	if !errors.Is(err, &Failure{Kind: KindConflict}) {
		t.Fatal("expected kind match through wrapping")
	}
	if errors.Is(err, &Failure{Kind: KindBackup}) {
		t.Fatal("kinds must not cross-match")
	}
}

func TestKindOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", Newf(KindLedger, "parse %s", "state.json"))
	kind, ok := KindOf(err)
	if !ok || kind != KindLedger {
		t.Fatalf("KindOf = %q, %v", kind, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatal("plain errors have no kind")
	}
	if !IsKind(err, KindLedger) {
		t.Fatal("IsKind should match")
	}
	if IsKind(err, KindCopy) {
		t.Fatal("IsKind must not match a different kind")
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(nil, KindBackup, "capture") != nil {
		t.Fatal("Wrap(nil) must be nil")
	}
	if Wrapf(nil, KindBackup, "capture %s", "x") != nil {
		t.Fatal("Wrapf(nil) must be nil")
	}
}

func TestWithConflictsPopulatesPaths(t *testing.T) {
	err := New(KindConflict, "target paths already owned").WithConflicts([]Conflicting{
		{Path: "/cfg/mpv/mpv.conf", Owner: "base-config"},
		{Path: "/cfg/mpv/input.conf", Owner: "base-config"},
	})
	if len(err.Paths) != 2 {
		t.Fatalf("expected 2 paths, got %v", err.Paths)
	}
	if !strings.Contains(err.Error(), "owned by base-config") {
		t.Fatalf("expected owner in message: %s", err.Error())
	}
}

func TestWithPathsChains(t *testing.T) {
	err := New(KindValidation, "missing source").WithPaths("a").WithPaths("b", "c")
	if len(err.Paths) != 3 {
		t.Fatalf("expected 3 paths, got %v", err.Paths)
	}
}
