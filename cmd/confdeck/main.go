package main

import (
	"fmt"
	"io"
	"os"

	"github.com/confdeck/confdeck/internal/fail"
)

var executeFunc = execute

// Version, Commit, and BuildDate are overridden at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Exit codes by failure kind. 1 is reserved for unclassified errors.
const (
	exitValidation = 2
	exitInstall    = 3
	exitBackup     = 4
	exitPath       = 5
	exitConflict   = 6
)

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

// execute runs the CLI command with the provided args and output writers.
func execute(args []string, stdout io.Writer, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.Version = versionString()
	if len(args) > 1 {
		cmd.SetArgs(args[1:])
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.Execute()
}

// runMain executes the CLI and maps failure kinds to exit codes.
func runMain(args []string, stdout io.Writer, stderr io.Writer, exit func(int)) {
	if err := executeFunc(args, stdout, stderr); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		exit(exitCode(err))
	}
}

// exitCode maps an error chain to the process exit code.
func exitCode(err error) int {
	kind, ok := fail.KindOf(err)
	if !ok {
		return 1
	}
	switch kind {
	case fail.KindValidation:
		return exitValidation
	case fail.KindCopy, fail.KindLedger:
		return exitInstall
	case fail.KindBackup:
		return exitBackup
	case fail.KindPath:
		return exitPath
	case fail.KindConflict:
		return exitConflict
	default:
		return 1
	}
}

// versionString formats Version with optional commit and build date metadata.
func versionString() string {
	if Commit != "" && Commit != "unknown" {
		return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate)
	}
	return Version
}
