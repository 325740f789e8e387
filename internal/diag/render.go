package diag

import (
	"fmt"
	"strings"

	"svfmt/internal/source"
)

// RenderShort renders diagnostics one per line in a stable order:
// "severity CODE path:line:col message". Intended for CLI output and
// golden comparisons.
func RenderShort(diags []Diagnostic, fs *source.FileSet) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	var b strings.Builder
	for i, d := range diags {
		file := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s",
			severityLabel(d.Severity), d.Code.ID(), file.Path, start.Line, start.Col, sanitizeMessage(d.Message))
		if i < len(diags)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	default:
		return "info"
	}
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
