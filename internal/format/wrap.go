package format

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"svfmt/internal/config"
	"svfmt/internal/diag"
	"svfmt/internal/parser"
	"svfmt/internal/source"
)

// autoWrap re-breaks lines wider than the limit. It runs over the finished
// engine output and never feeds back into the earlier stages, so a second
// format of its result is a no-op.
func autoWrap(out []byte, cfg config.Config, reporter diag.Reporter, tree *parser.Tree) []byte {
	lines := strings.Split(string(out), "\n")
	result := make([]byte, 0, len(out))
	for i, line := range lines {
		if i == len(lines)-1 && line == "" {
			break
		}
		for _, seg := range wrapLine(line, i+1, cfg, reporter, tree) {
			result = append(result, seg...)
			result = append(result, '\n')
		}
	}
	return result
}

// breakable characters: a split happens after the rightmost one that still
// fits. Comment and directive lines are never split.
func isBreakAfter(r rune) bool {
	switch r {
	case ' ', '\t', ',', ';', '+', '-', '*', '/', '&', '|', '=':
		return true
	}
	return false
}

func wrapLine(line string, lineNo int, cfg config.Config, reporter diag.Reporter, tree *parser.Tree) []string {
	if runewidth.StringWidth(line) <= cfg.MaxLineLength {
		return []string{line}
	}
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" ||
		strings.HasPrefix(trimmed, "//") ||
		strings.HasPrefix(trimmed, "/*") ||
		strings.HasPrefix(trimmed, "*") ||
		strings.HasPrefix(trimmed, "`") {
		reporter.Report(diag.FmtLineTooLong, diag.SevWarning,
			source.Span{File: tree.File.ID},
			fmt.Sprintf("line %d has %d columns (max %d) and cannot be wrapped",
				lineNo, runewidth.StringWidth(line), cfg.MaxLineLength))
		return []string{line}
	}

	indent := line[:len(line)-len(trimmed)]
	continuation := indent + cfg.IndentUnit()

	var segments []string
	runes := []rune(trimmed)
	current := []rune(indent)
	columns := runewidth.StringWidth(indent)
	lastBreak := -1

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current = append(current, r)
		columns += runewidth.RuneWidth(r)
		if isBreakAfter(r) {
			lastBreak = len(current)
		}

		if columns > cfg.MaxLineLength {
			if lastBreak < 0 {
				// Nothing to split at; the rest of the line stays long.
				reporter.Report(diag.FmtNoSafeSplitPoint, diag.SevWarning,
					source.Span{File: tree.File.ID},
					fmt.Sprintf("line %d exceeds %d columns and has no safe split point",
						lineNo, cfg.MaxLineLength))
				current = append(current, runes[i+1:]...)
				break
			}
			head := strings.TrimRight(string(current[:lastBreak]), " \t")
			if head != "" {
				segments = append(segments, head)
			}
			tail := strings.TrimLeft(string(current[lastBreak:]), " \t")
			current = []rune(continuation + tail)
			columns = runewidth.StringWidth(string(current))
			lastBreak = -1
		}
	}

	if rest := string(current); strings.TrimSpace(rest) != "" || len(segments) == 0 {
		segments = append(segments, rest)
	}
	return segments
}

// Violation is one formatted output line wider than the configured limit.
type Violation struct {
	Line    int
	Columns int
}

// LineViolations audits the formatted output against max. A zero or
// negative max disables the audit.
func LineViolations(out []byte, max int) []Violation {
	if max <= 0 {
		return nil
	}
	var violations []Violation
	for i, line := range strings.Split(string(out), "\n") {
		cols := runewidth.StringWidth(line)
		if cols > max {
			violations = append(violations, Violation{Line: i + 1, Columns: cols})
		}
	}
	return violations
}
