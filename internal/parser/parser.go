// Package parser adapts raw source text into the structure the formatting
// engine consumes: the lossless token stream plus the structural facts that
// cannot be decided token-locally (single-statement body extents for block
// wrapping, case arm groups for colon alignment). It also validates
// delimiter balance so the engine never formats input it cannot re-render
// faithfully.
package parser

import (
	"fmt"

	"svfmt/internal/diag"
	"svfmt/internal/lexer"
	"svfmt/internal/source"
	"svfmt/internal/token"
)

// Tree is the syntax model handed to the formatting engine.
type Tree struct {
	File   *source.File
	Tokens []token.Token

	// BodySpans maps a control keyword's start offset to the byte offset
	// just past its first body statement.
	BodySpans map[uint32]uint32

	// CaseAlignment maps a case-arm colon's start offset to the number of
	// spaces to emit before it.
	CaseAlignment map[uint32]int
}

type Options struct {
	// Reporter receives lexical, structural, and analysis diagnostics.
	// May be nil.
	Reporter diag.Reporter
}

// Parse tokenizes the file, validates structural balance, and derives the
// body-span and case-alignment analyses. Structural errors are reported to
// the options reporter; the caller decides whether they are fatal for the
// file (they are: formatting unbalanced input could change its meaning).
func Parse(sf *source.File, opts Options) *Tree {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = diag.NopReporter{}
	}

	tokens := lexer.Tokenize(sf, lexer.Options{Reporter: reporter})

	checkBalance(tokens, reporter)

	tree := &Tree{
		File:          sf,
		Tokens:        tokens,
		BodySpans:     collectBodySpans(tokens, reporter),
		CaseAlignment: collectCaseAlignment(tokens, reporter),
	}
	return tree
}

type delimFrame struct {
	text string
	span source.Span
}

var keywordClosers = map[string]string{
	"begin":  "end",
	"fork":   "join",
	"case":   "endcase",
	"casex":  "endcase",
	"casez":  "endcase",
	"module": "endmodule",
}

// checkBalance validates bracket pairs and the keyword pairs that are
// unconditionally balanced in valid SystemVerilog. Files using conditional
// compilation are exempt from keyword-pair checks: `ifdef branches may
// legitimately open a block one branch and close it in another.
func checkBalance(tokens []token.Token, reporter diag.Reporter) {
	hasConditionals := false
	for _, tok := range tokens {
		if tok.Kind == token.Directive {
			switch directiveName(tok.Text) {
			case "ifdef", "ifndef", "elsif", "else", "endif":
				hasConditionals = true
			}
		}
	}

	var brackets []delimFrame
	var blocks []delimFrame

	for _, tok := range tokens {
		switch tok.Kind {
		case token.Symbol:
			switch tok.Text {
			case "(", "[", "{":
				brackets = append(brackets, delimFrame{tok.Text, tok.Span})
			case ")", "]", "}":
				want := map[string]string{")": "(", "]": "[", "}": "{"}[tok.Text]
				if len(brackets) == 0 {
					reporter.Report(diag.SynUnexpectedCloser, diag.SevError, tok.Span,
						fmt.Sprintf("unexpected %q with no open %q", tok.Text, want))
					continue
				}
				top := brackets[len(brackets)-1]
				brackets = brackets[:len(brackets)-1]
				if top.text != want {
					reporter.Report(diag.SynUnbalancedDelimiter, diag.SevError, tok.Span,
						fmt.Sprintf("%q closes %q opened earlier", tok.Text, top.text))
				}
			}
		case token.Op:
			if tok.Text == "'{" {
				brackets = append(brackets, delimFrame{"{", tok.Span})
			}
		case token.Keyword:
			if hasConditionals {
				continue
			}
			lowered := tok.Lowered()
			if _, ok := keywordClosers[lowered]; ok {
				blocks = append(blocks, delimFrame{lowered, tok.Span})
				continue
			}
			closer := lowered
			if closer == "join_any" || closer == "join_none" {
				closer = "join"
			}
			for open, close := range keywordClosers {
				if close != closer {
					continue
				}
				if len(blocks) == 0 {
					reporter.Report(diag.SynUnexpectedCloser, diag.SevError, tok.Span,
						fmt.Sprintf("unexpected %q with no open %q", lowered, open))
					break
				}
				top := blocks[len(blocks)-1]
				blocks = blocks[:len(blocks)-1]
				if keywordClosers[top.text] != closer {
					reporter.Report(diag.SynUnbalancedDelimiter, diag.SevError, tok.Span,
						fmt.Sprintf("%q closes %q opened earlier", lowered, top.text))
				}
				break
			}
		}
	}

	for _, open := range brackets {
		reporter.Report(diag.SynUnbalancedDelimiter, diag.SevError, open.span,
			fmt.Sprintf("%q is never closed", open.text))
	}
	for _, open := range blocks {
		reporter.Report(diag.SynUnbalancedDelimiter, diag.SevError, open.span,
			fmt.Sprintf("%q is never closed", open.text))
	}
}

func directiveName(text string) string {
	if len(text) == 0 || text[0] != '`' {
		return ""
	}
	i := 1
	for i < len(text) {
		c := text[i]
		if c == '_' || c == '$' ||
			(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			i++
			continue
		}
		break
	}
	return text[1:i]
}
