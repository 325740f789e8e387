package lexer

import (
	"svfmt/internal/diag"
	"svfmt/internal/token"
)

func (lx *Lexer) scanLineComment() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		lx.cursor.Bump()
	}
	// The trailing newline belongs to the comment token: the engine uses it
	// to tell a trailing comment from one followed by more code on the line.
	lx.cursor.Eat('\n')
	return token.Token{Kind: token.Comment, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.Text(m)}
}

func (lx *Lexer) scanBlockComment() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '/'
	lx.cursor.Bump() // '*'
	closed := false
	for !lx.cursor.EOF() {
		if lx.cursor.Peek() == '*' && lx.cursor.PeekAt(1) == '/' {
			lx.cursor.Bump()
			lx.cursor.Bump()
			closed = true
			break
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(m)
	if !closed {
		lx.report(diag.LexUnterminatedBlockComment, sp, "block comment is never closed")
	}
	return token.Token{Kind: token.Comment, Span: sp, Text: lx.cursor.Text(m)}
}

// lineDirectives are compiler directives whose payload runs to the end of
// the line (continued across backslash-newlines for `define).
var lineDirectives = map[string]struct{}{
	"ifdef":               {},
	"ifndef":              {},
	"elsif":               {},
	"else":                {},
	"endif":               {},
	"define":              {},
	"undef":               {},
	"undefineall":         {},
	"include":             {},
	"timescale":           {},
	"default_nettype":     {},
	"resetall":            {},
	"pragma":              {},
	"line":                {},
	"unconnected_drive":   {},
	"nounconnected_drive": {},
}

func (lx *Lexer) scanDirective() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '`'
	nameStart := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	name := lx.cursor.Text(nameStart)

	if _, ok := lineDirectives[name]; ok {
		for !lx.cursor.EOF() {
			ch := lx.cursor.Peek()
			if ch == '\n' {
				break
			}
			if ch == '\\' && lx.cursor.PeekAt(1) == '\n' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				continue
			}
			lx.cursor.Bump()
		}
		// Trim trailing horizontal whitespace from the directive payload.
		text := lx.cursor.Text(m)
		end := len(text)
		for end > 0 && (text[end-1] == ' ' || text[end-1] == '\t') {
			end--
		}
		sp := lx.cursor.SpanFrom(m)
		return token.Token{Kind: token.Directive, Span: sp, Text: text[:end]}
	}

	// Macro usage: the token is just `name; any argument list lexes as
	// ordinary tokens after it.
	return token.Token{Kind: token.Directive, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.Text(m)}
}

func (lx *Lexer) scanString() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '"'
	closed := false
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == '\n' {
			break
		}
		if ch == '\\' {
			lx.cursor.Bump()
			if !lx.cursor.EOF() {
				lx.cursor.Bump()
			}
			continue
		}
		lx.cursor.Bump()
		if ch == '"' {
			closed = true
			break
		}
	}
	sp := lx.cursor.SpanFrom(m)
	if !closed {
		lx.report(diag.LexUnterminatedString, sp, "string literal is never closed")
	}
	return token.Token{Kind: token.String, Span: sp, Text: lx.cursor.Text(m)}
}

func isLiteralDigit(ch byte) bool {
	return isDec(ch) || ch == '_' || ch == '?' ||
		(ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F') ||
		ch == 'x' || ch == 'X' || ch == 'z' || ch == 'Z'
}

func isBaseChar(ch byte) bool {
	switch ch {
	case 'd', 'D', 'b', 'B', 'o', 'O', 'h', 'H':
		return true
	}
	return false
}

func (lx *Lexer) scanNumber() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && (isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_') {
		lx.cursor.Bump()
	}

	switch {
	case lx.cursor.Peek() == '\'' && lx.sizedBaseFollows():
		lx.cursor.Bump() // '\''
		if lx.cursor.Peek() == 's' || lx.cursor.Peek() == 'S' {
			lx.cursor.Bump()
		}
		lx.cursor.Bump() // base char
		for !lx.cursor.EOF() && isLiteralDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}

	case lx.cursor.Peek() == '.' && isDec(lx.cursor.PeekAt(1)):
		lx.cursor.Bump()
		for !lx.cursor.EOF() && (isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_') {
			lx.cursor.Bump()
		}
		lx.scanExponent()

	default:
		lx.scanExponent()
	}

	// Time-unit or other alphabetic suffix stays glued to the literal.
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	return token.Token{Kind: token.Number, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.Text(m)}
}

func (lx *Lexer) scanExponent() {
	if lx.cursor.Peek() != 'e' && lx.cursor.Peek() != 'E' {
		return
	}
	next := lx.cursor.PeekAt(1)
	if isDec(next) {
		lx.cursor.Bump()
	} else if (next == '+' || next == '-') && isDec(lx.cursor.PeekAt(2)) {
		lx.cursor.Bump()
		lx.cursor.Bump()
	} else {
		return
	}
	for !lx.cursor.EOF() && (isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_') {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) sizedBaseFollows() bool {
	next := lx.cursor.PeekAt(1)
	if next == 's' || next == 'S' {
		return isBaseChar(lx.cursor.PeekAt(2))
	}
	return isBaseChar(next)
}

// scanApostrophe handles unsized literals ('0, '1, 'x, 'z, 'b0), the
// assignment-pattern opener '{, and a bare apostrophe.
func (lx *Lexer) scanApostrophe() token.Token {
	m := lx.cursor.Mark()
	next := lx.cursor.PeekAt(1)

	if next == '{' {
		lx.cursor.Bump()
		lx.cursor.Bump()
		return token.Token{Kind: token.Op, Span: lx.cursor.SpanFrom(m), Text: "'{"}
	}

	if isBaseChar(next) || next == 's' || next == 'S' ||
		next == '0' || next == '1' || next == 'x' || next == 'X' || next == 'z' || next == 'Z' {
		lx.cursor.Bump() // '\''
		if lx.cursor.Peek() == 's' || lx.cursor.Peek() == 'S' {
			lx.cursor.Bump()
		}
		if isBaseChar(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		for !lx.cursor.EOF() && isLiteralDigit(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		return token.Token{Kind: token.Number, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.Text(m)}
	}

	lx.cursor.Bump()
	return token.Token{Kind: token.Symbol, Span: lx.cursor.SpanFrom(m), Text: "'"}
}

// scanEscapedIdent consumes a backslash-escaped identifier, which runs to
// the next whitespace.
func (lx *Lexer) scanEscapedIdent() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // '\\'
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			break
		}
		lx.cursor.Bump()
	}
	return token.Token{Kind: token.Ident, Span: lx.cursor.SpanFrom(m), Text: lx.cursor.Text(m)}
}

func (lx *Lexer) scanIdentOrKeyword() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() && isIdentContinue(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	text := lx.cursor.Text(m)
	kind := token.Ident
	if token.IsKeywordText(text) {
		kind = token.Keyword
	}
	return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(m), Text: text}
}

// Multi-character operators, longest first within each group.
var (
	ops4 = []string{"<<<=", ">>>="}
	ops3 = []string{
		"===", "!==", "==?", "!=?", "<<<", ">>>", "<->",
		"|->", "|=>", "->>", "&&&", "<<=", ">>=",
	}
	ops2 = []string{
		"==", "!=", "<=", ">=", "&&", "||", "<<", ">>", "->", "=>",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "::", "++",
		"--", "**", "##", "+:", "-:", "~&", "~|", "~^", "^~",
	}
)

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	m := lx.cursor.Mark()

	for _, group := range [][]string{ops4, ops3, ops2} {
		for _, op := range group {
			if lx.matchText(op) {
				for range op {
					lx.cursor.Bump()
				}
				return token.Token{Kind: token.Op, Span: lx.cursor.SpanFrom(m), Text: op}
			}
		}
	}

	ch := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(m)
	text := lx.cursor.Text(m)
	if isSymbolChar(ch) || ch == '#' {
		return token.Token{Kind: token.Symbol, Span: sp, Text: text}
	}

	lx.report(diag.LexUnknownChar, sp, "unknown character "+text)
	return token.Token{Kind: token.Other, Span: sp, Text: text}
}

func (lx *Lexer) matchText(op string) bool {
	for i := 0; i < len(op); i++ {
		if lx.cursor.PeekAt(uint32(i)) != op[i] {
			return false
		}
	}
	return true
}

func isSymbolChar(ch byte) bool {
	switch ch {
	case '(', ')', '[', ']', '{', '}', ',', ';', ':', '.',
		'+', '-', '*', '/', '%', '!', '~', '&', '|', '^',
		'=', '<', '>', '?', '@':
		return true
	}
	return false
}
