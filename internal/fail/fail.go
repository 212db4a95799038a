// Package fail defines the typed failure taxonomy returned by the deployment
// engine. Every engine operation returns a success value or exactly one
// Failure; callers branch on the kind, never on message text.
package fail

import (
	"errors"
	"fmt"
	"strings"
)

// Kind categorizes a failure for exit-code mapping and remediation text.
type Kind string

const (
	// KindValidation indicates package content validation failed.
	KindValidation Kind = "validation"
	// KindConflict indicates a target path is owned by a different package.
	KindConflict Kind = "conflict"
	// KindCopy indicates a file copy failed (permission, missing source,
	// disk full).
	KindCopy Kind = "copy"
	// KindBackup indicates snapshot capture or restore I/O failed.
	KindBackup Kind = "backup"
	// KindLedger indicates the installation ledger could not be read,
	// parsed, or written.
	KindLedger Kind = "ledger"
	// KindNotInstalled indicates no installation record exists for the
	// requested package.
	KindNotInstalled Kind = "not_installed"
	// KindPath indicates a player configuration directory could not be
	// resolved or is not writable.
	KindPath Kind = "path"
)

// Conflicting pairs an offending target path with its current owner.
type Conflicting struct {
	Path  string
	Owner string
}

func (c Conflicting) String() string {
	return fmt.Sprintf("%s (owned by %s)", c.Path, c.Owner)
}

// Failure is a typed engine failure. Paths carries the offending paths where
// one exists; Conflicts is populated for KindConflict only.
type Failure struct {
	Kind      Kind
	Message   string
	Paths     []string
	Conflicts []Conflicting
	Err       error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString(string(f.Kind))
	b.WriteString(": ")
	b.WriteString(f.Message)
	if len(f.Conflicts) > 0 {
		parts := make([]string, 0, len(f.Conflicts))
		for _, c := range f.Conflicts {
			parts = append(parts, c.String())
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, ", "))
	}
	if f.Err != nil {
		b.WriteString(": ")
		b.WriteString(f.Err.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped cause, if any.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Is matches failures by kind, so errors.Is(err, &Failure{Kind: KindCopy})
// works for any copy failure.
func (f *Failure) Is(target error) bool {
	var other *Failure
	if errors.As(target, &other) {
		return f.Kind == other.Kind
	}
	return false
}

// New builds a Failure with the given kind and message.
func New(kind Kind, message string) *Failure {
	return &Failure{Kind: kind, Message: message}
}

// Newf builds a Failure with a formatted message.
func Newf(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error. Returns nil when err is nil.
func Wrap(err error, kind Kind, message string) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: kind, Message: message, Err: err}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...any) *Failure {
	if err == nil {
		return nil
	}
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// WithPaths attaches offending paths and returns the failure for chaining.
func (f *Failure) WithPaths(paths ...string) *Failure {
	f.Paths = append(f.Paths, paths...)
	return f
}

// WithConflicts attaches conflict details and returns the failure.
func (f *Failure) WithConflicts(conflicts []Conflicting) *Failure {
	f.Conflicts = conflicts
	for _, c := range conflicts {
		f.Paths = append(f.Paths, c.Path)
	}
	return f
}

// KindOf extracts the failure kind from an error chain.
func KindOf(err error) (Kind, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// IsKind reports whether the error chain contains a failure of the given kind.
func IsKind(err error, kind Kind) bool {
	got, ok := KindOf(err)
	return ok && got == kind
}
