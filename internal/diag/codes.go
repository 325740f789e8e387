package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003

	// Structural (parse)
	SynUnbalancedDelimiter   Code = 2001
	SynUnexpectedCloser      Code = 2002
	SynUnterminatedConstruct Code = 2003

	// Formatting rule diagnostics
	FmtLineTooLong        Code = 3001
	FmtNoSafeSplitPoint   Code = 3002
	FmtMultilineCaseLabel Code = 3003
	FmtBodyNotDelimitable Code = 3004

	// I/O
	IOLoadFileError Code = 4001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "unknown error",
	LexUnknownChar:              "unknown character",
	LexUnterminatedString:       "unterminated string literal",
	LexUnterminatedBlockComment: "unterminated block comment",
	SynUnbalancedDelimiter:      "unbalanced delimiter",
	SynUnexpectedCloser:         "unexpected closing delimiter",
	SynUnterminatedConstruct:    "unterminated construct",
	FmtLineTooLong:              "line exceeds maximum length",
	FmtNoSafeSplitPoint:         "no safe split point before limit",
	FmtMultilineCaseLabel:       "case label spans multiple lines",
	FmtBodyNotDelimitable:       "statement body cannot be delimited",
	IOLoadFileError:             "failed to load file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("FMT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
