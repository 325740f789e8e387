package token

import (
	"svfmt/internal/source"
)

// Token is one immutable unit of the formatting stream. The engine never
// rewrites token text; it only decides the whitespace between tokens and
// synthesizes begin/end delimiters.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is the given structural keyword,
// compared case-insensitively.
func (t Token) IsKeyword(needle string) bool {
	return t.Kind == Keyword && lowerASCII(t.Text) == needle
}

// IsIdentLike reports whether the token can name a function/task/macro in
// call position ($system identifiers included).
func (t Token) IsIdentLike() bool {
	return t.Kind == Ident
}

// IsSymbol reports whether the token is the given single-character symbol.
func (t Token) IsSymbol(needle string) bool {
	return t.Kind == Symbol && t.Text == needle
}

// Lowered returns the ASCII-lowercased token text.
func (t Token) Lowered() string {
	return lowerASCII(t.Text)
}

// IsIndentKeyword reports whether the token opens an indentation scope.
func (t Token) IsIndentKeyword() bool {
	if t.Kind != Keyword {
		return false
	}
	_, ok := indentKeywords[t.Lowered()]
	return ok
}

// IsDedentKeyword reports whether the token closes an indentation scope.
func (t Token) IsDedentKeyword() bool {
	if t.Kind != Keyword {
		return false
	}
	_, ok := dedentKeywords[t.Lowered()]
	return ok
}

// IsSectionKeyword reports whether the token starts a top-level declaration
// that wants a separating blank line.
func (t Token) IsSectionKeyword() bool {
	if t.Kind != Keyword {
		return false
	}
	_, ok := sectionKeywords[t.Lowered()]
	return ok
}

// IsCaseKeyword reports whether the token starts a case arm group.
func (t Token) IsCaseKeyword() bool {
	if t.Kind != Keyword {
		return false
	}
	_, ok := caseKeywords[t.Lowered()]
	return ok
}
