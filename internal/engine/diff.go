package engine

import (
	"bytes"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/confdeck/confdeck/internal/fail"
	"github.com/confdeck/confdeck/internal/model"
)

// DefaultDriftMaxLines is the default maximum number of diff lines rendered
// per file.
const DefaultDriftMaxLines = 40

// DriftPreview is a per-file unified diff between the installed copy of a
// package file and its package source.
type DriftPreview struct {
	Path        string
	UnifiedDiff string
	Truncated   bool
}

// Drift compares every installed file of pkg against its package source and
// returns a diff preview for each file whose content has drifted. Files
// missing on either side are skipped; Verify reports those.
func (e *Engine) Drift(pkg model.Package, maxLines int) ([]DriftPreview, error) {
	doc, err := e.ledger.Load()
	if err != nil {
		return nil, err
	}
	record, ok := doc.Installations[pkg.Name]
	if !ok {
		return nil, fail.Newf(fail.KindNotInstalled, "package not installed: %s", pkg.Name)
	}

	previews := make([]DriftPreview, 0)
	for _, file := range pkg.Files {
		installed := filepath.Join(record.TargetDir, file.TargetPath)
		installedBytes, err := e.sys.ReadFile(installed)
		if err != nil {
			continue
		}
		sourceBytes, err := e.sys.ReadFile(file.SourcePath)
		if err != nil {
			continue
		}
		if bytes.Equal(installedBytes, sourceBytes) {
			continue
		}
		rendered, truncated := renderTruncatedUnifiedDiff(
			file.TargetPath+" (installed)",
			file.TargetPath+" (package)",
			string(installedBytes),
			string(sourceBytes),
			maxLines,
		)
		previews = append(previews, DriftPreview{
			Path:        file.TargetPath,
			UnifiedDiff: rendered,
			Truncated:   truncated,
		})
	}
	sort.Slice(previews, func(i, j int) bool {
		return previews[i].Path < previews[j].Path
	})
	return previews, nil
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	if maxLines <= 0 {
		maxLines = DefaultDriftMaxLines
	}
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= maxLines {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := lines[:maxLines]
	truncated = append(truncated, fmt.Sprintf("... (truncated to %d lines)", maxLines))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
