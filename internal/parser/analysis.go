package parser

import (
	"github.com/mattn/go-runewidth"

	"svfmt/internal/diag"
	"svfmt/internal/token"
)

// wrapKeywords start a construct whose single-statement body may need to be
// rewritten into a begin/end block.
var wrapKeywords = map[string]bool{
	"if":      true,
	"else":    true,
	"for":     true,
	"foreach": true,
	"while":   true,
	"do":      true,
	"forever": true,
}

// collectBodySpans maps each wrap keyword's start offset to the byte offset
// just past its first body statement. Keywords whose body cannot be
// delimited (malformed input, unterminated statements) get a warning and no
// entry, which disables block synthesis for them.
func collectBodySpans(toks []token.Token, reporter diag.Reporter) map[uint32]uint32 {
	spans := make(map[uint32]uint32, 8)

	for i := range toks {
		tok := &toks[i]
		if tok.Kind != token.Keyword || !wrapKeywords[tok.Lowered()] {
			continue
		}

		bodyStart := i + 1
		switch tok.Lowered() {
		case "if", "for", "foreach", "while":
			j := skipParens(toks, i+1)
			if j < 0 {
				reporter.Report(diag.FmtBodyNotDelimitable, diag.SevWarning, tok.Span,
					"cannot find the condition of "+tok.Lowered()+", block rewriting skipped here")
				continue
			}
			bodyStart = j
		case "else":
			// An else-if chain is one construct, delimited at its leading if.
			k := skipTrivia(toks, i+1)
			if k < len(toks) && toks[k].IsKeyword("if") {
				continue
			}
		}

		end := statementEnd(toks, bodyStart)
		if end < 0 {
			reporter.Report(diag.FmtBodyNotDelimitable, diag.SevWarning, tok.Span,
				"cannot delimit the body of "+tok.Lowered()+", block rewriting skipped here")
			continue
		}
		spans[tok.Span.Start] = toks[end-1].Span.End
	}
	return spans
}

// statementEnd returns the index just past the statement starting at or
// after i, or -1 when the statement cannot be delimited.
func statementEnd(toks []token.Token, i int) int {
	i = skipTrivia(toks, i)
	if i >= len(toks) {
		return -1
	}

	tok := &toks[i]
	switch {
	case tok.IsKeyword("begin"):
		return skipBlock(toks, i, "begin")

	case tok.IsKeyword("fork"):
		return skipBlock(toks, i, "fork")

	case tok.IsCaseKeyword():
		return skipCase(toks, i)

	case tok.IsKeyword("if"):
		j := skipParens(toks, i+1)
		if j < 0 {
			return -1
		}
		j = statementEnd(toks, j)
		if j < 0 {
			return -1
		}
		k := skipTrivia(toks, j)
		if k < len(toks) && toks[k].IsKeyword("else") {
			return statementEnd(toks, k+1)
		}
		return j

	case tok.IsKeyword("for"), tok.IsKeyword("foreach"), tok.IsKeyword("while"):
		j := skipParens(toks, i+1)
		if j < 0 {
			return -1
		}
		return statementEnd(toks, j)

	case tok.IsKeyword("do"):
		j := statementEnd(toks, i+1)
		if j < 0 {
			return -1
		}
		return skipToSemi(toks, j)

	case tok.IsKeyword("forever"):
		return statementEnd(toks, i+1)
	}

	return skipToSemi(toks, i)
}

// skipToSemi advances to just past the next ';' at bracket depth zero.
// Running into a closing bracket, a block terminator, or an else at depth
// zero means the statement has no usable terminator.
func skipToSemi(toks []token.Token, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		tok := &toks[i]
		switch tok.Kind {
		case token.Symbol:
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return -1
				}
				depth--
			case ";":
				if depth == 0 {
					return i + 1
				}
			}
		case token.Op:
			if tok.Text == "'{" {
				depth++
			}
		case token.Keyword:
			if depth == 0 && (tok.IsDedentKeyword() || tok.IsKeyword("else")) {
				return -1
			}
		}
	}
	return -1
}

func skipParens(toks []token.Token, i int) int {
	i = skipTrivia(toks, i)
	if i >= len(toks) || !toks[i].IsSymbol("(") {
		return -1
	}
	depth := 0
	for ; i < len(toks); i++ {
		switch {
		case toks[i].IsSymbol("("):
			depth++
		case toks[i].IsSymbol(")"):
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func skipBlock(toks []token.Token, i int, opener string) int {
	depth := 0
	for ; i < len(toks); i++ {
		tok := &toks[i]
		if tok.Kind != token.Keyword {
			continue
		}
		switch {
		case tok.IsKeyword(opener):
			depth++
		case closesBlock(opener, tok.Lowered()):
			depth--
			if depth == 0 {
				return skipBlockLabel(toks, i+1)
			}
		}
	}
	return -1
}

func closesBlock(opener, lowered string) bool {
	if opener == "begin" {
		return lowered == "end"
	}
	return lowered == "join" || lowered == "join_any" || lowered == "join_none"
}

// skipBlockLabel consumes an optional ": name" after end or join.
func skipBlockLabel(toks []token.Token, i int) int {
	j := skipTrivia(toks, i)
	if j < len(toks) && toks[j].IsSymbol(":") {
		k := skipTrivia(toks, j+1)
		if k < len(toks) && toks[k].IsIdentLike() {
			return k + 1
		}
	}
	return i
}

func skipCase(toks []token.Token, i int) int {
	depth := 0
	for ; i < len(toks); i++ {
		tok := &toks[i]
		if tok.Kind != token.Keyword {
			continue
		}
		if tok.IsCaseKeyword() {
			depth++
		} else if tok.IsKeyword("endcase") {
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func skipTrivia(toks []token.Token, i int) int {
	for i < len(toks) && (toks[i].Kind == token.Newline || toks[i].Kind == token.Comment) {
		i++
	}
	return i
}

// collectCaseAlignment records, for every case statement with two or more
// single-line arms, the number of spaces to emit before each arm's colon so
// the colons line up one column past the widest label.
func collectCaseAlignment(toks []token.Token, reporter diag.Reporter) map[uint32]int {
	align := make(map[uint32]int, 8)
	for i := range toks {
		if toks[i].Kind == token.Keyword && toks[i].IsCaseKeyword() {
			collectCaseGroup(toks, i, align, reporter)
		}
	}
	return align
}

type armEntry struct {
	colonOff uint32
	width    int
}

func collectCaseGroup(toks []token.Token, i int, align map[uint32]int, reporter diag.Reporter) {
	caseTok := &toks[i]
	j := i + 1
	if !caseTok.IsKeyword("randcase") {
		j = skipParens(toks, j)
		if j < 0 {
			return
		}
		// case (...) inside
		k := skipTrivia(toks, j)
		if k < len(toks) && toks[k].Kind == token.Ident && toks[k].Lowered() == "inside" {
			j = k + 1
		}
	}

	var entries []armEntry

	for {
		j = skipTrivia(toks, j)
		if j >= len(toks) {
			reporter.Report(diag.SynUnterminatedConstruct, diag.SevError, caseTok.Span,
				caseTok.Lowered()+" is never closed by endcase")
			return
		}
		if toks[j].IsKeyword("endcase") {
			break
		}

		colon, stop, multiline := scanArmLabel(toks, j)
		if colon < 0 {
			// No colon before the arm body, as in "default begin ... end".
			// Resume at the token that ended the label scan.
			if stop < 0 {
				reporter.Report(diag.SynUnterminatedConstruct, diag.SevError, caseTok.Span,
					caseTok.Lowered()+" is never closed by endcase")
				return
			}
			if toks[stop].IsSymbol(";") {
				j = stop + 1
				continue
			}
			if toks[stop].IsKeyword("endcase") {
				j = stop
				continue
			}
			next := statementEnd(toks, stop)
			if next < 0 {
				return
			}
			j = next
			continue
		}

		if multiline {
			reporter.Report(diag.FmtMultilineCaseLabel, diag.SevWarning, toks[j].Span,
				"case label spans multiple lines and is left out of colon alignment")
		} else {
			entries = append(entries, armEntry{
				colonOff: toks[colon].Span.Start,
				width:    labelWidth(toks[j:colon]),
			})
		}

		next := statementEnd(toks, colon+1)
		if next < 0 {
			return
		}
		j = next
	}

	if len(entries) < 2 {
		return
	}
	maxWidth := 0
	for _, e := range entries {
		if e.width > maxWidth {
			maxWidth = e.width
		}
	}
	for _, e := range entries {
		align[e.colonOff] = maxWidth - e.width + 1
	}
}

// scanArmLabel finds the colon terminating the arm label starting at i.
// colon is -1 when the arm has no label colon; stop then points at the
// token that ended the scan (a semicolon, begin, fork, or endcase), or -1
// at end of stream. multiline reports whether the label crosses a newline.
func scanArmLabel(toks []token.Token, i int) (colon, stop int, multiline bool) {
	depth := 0
	for ; i < len(toks); i++ {
		tok := &toks[i]
		switch tok.Kind {
		case token.Newline:
			multiline = true
		case token.Symbol:
			switch tok.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			case ":":
				if depth == 0 {
					return i, i, multiline
				}
			case ";":
				if depth == 0 {
					return -1, i, false
				}
			}
		case token.Op:
			if tok.Text == "'{" {
				depth++
			}
		case token.Keyword:
			if depth == 0 {
				switch tok.Lowered() {
				case "begin", "fork", "endcase":
					return -1, i, false
				}
			}
		}
	}
	return -1, -1, false
}

// labelWidth measures the label as the emitter will render it: token widths
// plus the single spaces the spacing rules would insert between them.
func labelWidth(toks []token.Token) int {
	w := 0
	var prev *token.Token
	for i := range toks {
		tok := &toks[i]
		if tok.Kind == token.Newline || tok.Kind == token.Comment {
			continue
		}
		if prev != nil && !token.NoSpaceBefore(tok.Text) && token.NeedsSpaceAfter(prev.Text, tok) {
			w++
		}
		w += runewidth.StringWidth(tok.Text)
		prev = tok
	}
	return w
}
