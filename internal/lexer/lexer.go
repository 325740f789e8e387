package lexer

import (
	"svfmt/internal/source"
	"svfmt/internal/token"
)

// Lexer produces the flat formatting token stream: meaningful tokens plus
// newline, comment, and directive tokens in source order. Horizontal
// whitespace is dropped; everything else is preserved verbatim so the
// stream can be re-rendered without losing information.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Tokenize consumes the whole file and returns the token stream without a
// trailing EOF sentinel.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	toks := make([]token.Token, 0, len(file.Content)/4)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

// Next returns the next token, or an EOF token at the end of input.
func (lx *Lexer) Next() token.Token {
	for !lx.cursor.EOF() {
		ch := lx.cursor.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			lx.cursor.Bump()

		case ch == '\n':
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			return token.Token{Kind: token.Newline, Span: lx.cursor.SpanFrom(m), Text: "\n"}

		case ch == '/' && lx.cursor.PeekAt(1) == '/':
			return lx.scanLineComment()

		case ch == '/' && lx.cursor.PeekAt(1) == '*':
			return lx.scanBlockComment()

		case ch == '`':
			return lx.scanDirective()

		case ch == '"':
			return lx.scanString()

		case isDec(ch):
			return lx.scanNumber()

		case ch == '\'':
			return lx.scanApostrophe()

		case ch == '\\':
			return lx.scanEscapedIdent()

		case isIdentStart(ch):
			return lx.scanIdentOrKeyword()

		default:
			return lx.scanOperatorOrPunct()
		}
	}

	return token.Token{
		Kind: token.EOF,
		Span: source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off},
	}
}

func isDec(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentContinue(ch byte) bool {
	return isIdentStart(ch) || isDec(ch)
}
