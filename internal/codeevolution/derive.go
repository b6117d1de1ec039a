// Package codeevolution derives a []domain.CodeEvolution document from a
// unified diff, so that callers are not required to hand-author the
// CodeEvolution JSON that internal/ingest expects. It supplements the
// core pipeline; nothing in internal/orchestrator depends on it.
package codeevolution

import (
	"fmt"
	"strings"

	godiff "github.com/sourcegraph/go-diff/diff"

	"github.com/ntrotner/heap-causal-link/internal/domain"
)

// FromUnifiedDiff parses a unified diff (possibly covering several files)
// and emits one domain.CodeEvolution per changed hunk, tagged with the
// given source. The hunk's line span is reported on the side the source
// describes: SourceBase spans are reported in old-file coordinates,
// SourceModified spans in new-file coordinates, mirroring which runtime a
// caller is expected to pair the resulting CodeEvolution against.
//
// Spans are inclusive on both ends. A hunk that only inserts lines
// reports a one-line span at its start line on the side with no content;
// deletions are handled symmetrically.
func FromUnifiedDiff(unifiedDiff []byte, source domain.ModificationSource) ([]domain.CodeEvolution, error) {
	fileDiffs, err := godiff.ParseMultiFileDiff(unifiedDiff)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing unified diff: %v", domain.ErrParsing, err)
	}

	var changes []domain.CodeEvolution
	for _, fd := range fileDiffs {
		fileID := fileIDOf(fd)
		for _, h := range fd.Hunks {
			changes = append(changes, hunkToEvolution(fileID, h, source))
		}
	}
	return changes, nil
}

// fileIDOf picks the file path a/b-prefix-stripped, preferring the new
// name (present for modifications and additions) and falling back to the
// old name for pure deletions.
func fileIDOf(fd *godiff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	name = strings.TrimPrefix(name, "a/")
	name = strings.TrimPrefix(name, "b/")
	return name
}

func hunkToEvolution(fileID string, h *godiff.Hunk, source domain.ModificationSource) domain.CodeEvolution {
	modType := modificationTypeOf(h)

	var lineStart, lineEnd int
	switch source {
	case domain.SourceBase:
		lineStart = int(h.OrigStartLine)
		lineEnd = lineStart + int(h.OrigLines) - 1
	default:
		lineStart = int(h.NewStartLine)
		lineEnd = lineStart + int(h.NewLines) - 1
	}
	if lineEnd < lineStart {
		lineEnd = lineStart
	}

	return domain.CodeEvolution{
		FileID:             fileID,
		ModificationType:   modType,
		ModificationSource: source,
		CodeChangeSpan: domain.CodeChangeSpan{
			LineStart: lineStart,
			LineEnd:   lineEnd,
		},
	}
}

// modificationTypeOf classifies a hunk as an insert, delete, or modify
// based on which side of the hunk has content: a hunk with no old lines
// is a pure insertion, one with no new lines is a pure deletion, and
// anything with both is a modification.
func modificationTypeOf(h *godiff.Hunk) domain.ModificationType {
	switch {
	case h.OrigLines == 0:
		return domain.ModificationInsert
	case h.NewLines == 0:
		return domain.ModificationDelete
	default:
		return domain.ModificationModify
	}
}
