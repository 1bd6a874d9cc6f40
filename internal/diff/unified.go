package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified renders a unified diff between origin and destination with three
// lines of context.
func Unified(origin, destination, fromName, toName string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        unifiedLines(origin),
		B:        unifiedLines(destination),
		FromFile: fromName,
		ToFile:   toName,
		Context:  3,
	})
}

func unifiedLines(content string) []string {
	lines := SplitLines(content)
	for i := range lines {
		lines[i] = lines[i] + "\n"
	}

	return lines
}

// Summary renders the first limit changes as short +/-/~ prefixed lines.
func (r *Result) Summary(limit int) string {
	var sb strings.Builder
	for i, c := range r.Changes {
		if limit > 0 && i >= limit {
			break
		}
		switch c.Kind {
		case Addition:
			sb.WriteString("+ ")
			sb.WriteString(c.DestinationText)
		case Deletion:
			sb.WriteString("- ")
			sb.WriteString(c.OriginText)
		case Modification:
			sb.WriteString("~ ")
			sb.WriteString(c.OriginText)
			sb.WriteString(" => ")
			sb.WriteString(c.DestinationText)
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}
