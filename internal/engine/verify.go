package engine

import (
	"fmt"
	"path/filepath"

	"github.com/confdeck/confdeck/internal/model"
)

// Verify checks the installed state of pkg against its ledger record and
// returns a list of human-readable issues. An absent record yields a single
// informational issue, not an error. Verify never mutates state.
func (e *Engine) Verify(pkg model.Package) ([]string, error) {
	doc, err := e.ledger.Load()
	if err != nil {
		return nil, err
	}
	record, ok := doc.Installations[pkg.Name]
	if !ok {
		return []string{fmt.Sprintf("package not installed: %s", pkg.Name)}, nil
	}

	issues := make([]string, 0)
	for _, file := range pkg.Files {
		if !file.Required {
			continue
		}
		path := filepath.Join(record.TargetDir, file.TargetPath)
		if _, err := e.sys.Stat(path); err != nil {
			issues = append(issues, fmt.Sprintf("missing required file: %s", path))
			continue
		}
		if _, err := e.sys.ReadFile(path); err != nil {
			issues = append(issues, fmt.Sprintf("file not readable: %s", path))
		}
	}
	return issues, nil
}
