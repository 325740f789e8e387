package format

import (
	"strings"

	"svfmt/internal/config"
	"svfmt/internal/diag"
	"svfmt/internal/parser"
	"svfmt/internal/token"
)

// Format renders the tree per cfg: one left-to-right pass over the token
// stream, then the optional long-line wrapping stage over the finished
// output. Token text is never rewritten; only whitespace and synthesized
// begin/end delimiters change.
func Format(tree *parser.Tree, cfg config.Config, reporter diag.Reporter) []byte {
	if reporter == nil {
		reporter = diag.NopReporter{}
	}
	f := &formatter{
		cfg:  cfg,
		tree: tree,
		em:   newEmitter(cfg),
	}
	out := f.run()
	if cfg.AutoWrapLongLines && cfg.MaxLineLength > 0 {
		out = autoWrap(out, cfg, reporter, tree)
	}
	return out
}

type formatter struct {
	cfg  config.Config
	tree *parser.Tree
	em   *emitter

	idx           int
	prevCallIdent bool

	// Indent levels of begin/end pairs this pass synthesized and has not
	// closed yet.
	insertedBlocks []int

	tracker wrapTracker
}

func (f *formatter) run() []byte {
	toks := f.tree.Tokens
	for f.idx = 0; f.idx < len(toks); f.idx++ {
		tok := &toks[f.idx]
		switch tok.Kind {
		case token.Newline:
			f.handleNewline()
		case token.Comment:
			f.handleComment(tok)
		case token.Directive:
			f.handleDirective(tok)
		default:
			f.handleToken(tok)
		}
	}

	if f.cfg.WrapMultilineBlocks {
		for len(f.insertedBlocks) > 0 {
			f.insertedBlocks = f.insertedBlocks[:len(f.insertedBlocks)-1]
			f.insertAutoEnd()
		}
	}

	f.em.ensureTrailingNewline()
	return f.em.take()
}

func (f *formatter) handleNewline() {
	// Join "end\nelse" onto one line. Any comment between them keeps the
	// break: a trailing line comment would swallow the else.
	if f.cfg.InlineEndElse {
		if prev := f.prevNonNewline(); prev != nil && prev.IsKeyword("end") {
			if next := f.peekNonNewline(); next != nil && next.IsKeyword("else") {
				f.em.pendingSpace = true
				return
			}
		}
	}

	f.em.newline()
	f.prevCallIdent = false

	if f.cfg.WrapMultilineBlocks {
		f.maybeInsertAutoBegin()
	}
}

func (f *formatter) handleComment(tok *token.Token) {
	text := strings.TrimRight(tok.Text, "\n")
	if strings.HasPrefix(strings.TrimLeft(text, " \t"), "/*") {
		f.emitBlockComment(text)
		return
	}
	f.emitLineComment(text, strings.HasSuffix(tok.Text, "\n"))
}

func (f *formatter) emitLineComment(text string, hadNewline bool) {
	if f.em.atLineStart {
		f.em.writeIndent()
	} else {
		f.em.trimTrailingWhitespace()
		if f.em.endsWith("\n") {
			f.em.writeIndent()
		} else {
			f.em.pushByte(' ')
		}
	}
	f.em.push(text)
	if hadNewline {
		f.em.pushByte('\n')
		f.em.atLineStart = true
	} else {
		f.em.atLineStart = false
	}
	f.em.pendingSpace = false
	f.prevCallIdent = false
	f.em.lastLineWasComment = true
}

// Block comments sit on their own line with a blank line on both sides.
func (f *formatter) emitBlockComment(text string) {
	f.em.ensureBlankLine()
	f.em.writeIndent()
	f.em.push(text)
	f.em.pushByte('\n')
	f.em.atLineStart = true
	f.em.pendingSpace = false
	f.prevCallIdent = false
	f.em.ensureBlankLineAfterComment()
	f.em.lastLineWasComment = true
}

func (f *formatter) handleDirective(tok *token.Token) {
	if !f.em.atLineStart {
		f.em.newline()
	}
	// Directives go to column zero unless align_preprocessor is off, in
	// which case they follow the surrounding indentation.
	if !f.cfg.AlignPreprocessor {
		f.em.writeIndent()
	}
	f.em.push(tok.Text)
	f.em.atLineStart = false
	f.em.pendingSpace = false
	f.em.lastLineWasComment = false
}

func (f *formatter) handleToken(tok *token.Token) {
	if f.cfg.WrapMultilineBlocks {
		f.flushAutoEndsBefore(tok)
		f.tracker.observe(tok)
	}

	if tok.IsDedentKeyword() {
		f.em.decreaseIndent()
	}

	if f.cfg.AlignCaseColon && tok.IsSymbol(":") {
		if f.applyCaseAlignment(tok) {
			return
		}
	}

	if f.em.atLineStart {
		f.maybeInsertSectionSpacing(tok)
		f.em.writeIndent()
	} else if f.em.pendingSpace && !token.NoSpaceBefore(tok.Text) {
		f.em.pushByte(' ')
	}

	switch {
	case tok.IsSymbol(",") && f.cfg.SpaceAfterComma:
		f.em.trimTrailingWhitespace()
		f.em.pushByte(',')
		f.em.pendingSpace = true

	case tok.IsSymbol("(") && f.cfg.RemoveCallSpace && f.prevCallIdent:
		f.em.trimTrailingWhitespace()
		f.em.pushByte('(')
		f.em.pendingSpace = false

	default:
		f.em.push(tok.Text)
		f.em.pendingSpace = token.NeedsSpaceAfter(tok.Text, f.peekNonNewline())
	}

	if tok.IsIndentKeyword() {
		f.em.increaseIndent()
	}

	f.em.atLineStart = false
	f.prevCallIdent = tok.IsIdentLike()
	f.em.lastLineWasComment = false

	if f.cfg.WrapMultilineBlocks {
		end, ok := f.tree.BodySpans[tok.Span.Start]
		f.tracker.maybeStart(tok, end, ok)
	}
}

func (f *formatter) applyCaseAlignment(tok *token.Token) bool {
	padding, ok := f.tree.CaseAlignment[tok.Span.Start]
	if !ok {
		return false
	}
	f.em.trimTrailingWhitespace()
	for i := 0; i < padding; i++ {
		f.em.pushByte(' ')
	}
	f.em.pushByte(':')
	f.em.pendingSpace = true
	f.em.atLineStart = false
	f.prevCallIdent = false
	return true
}

// A package, class, or interface declaration gets a blank line before it,
// unless a comment directly above already separates it.
func (f *formatter) maybeInsertSectionSpacing(tok *token.Token) {
	if !tok.IsSectionKeyword() {
		return
	}
	if len(f.em.out) == 0 {
		return
	}
	if f.em.lastLineWasComment {
		return
	}
	f.em.ensureBlankLine()
	f.em.lastLineWasComment = false
}

func (f *formatter) prevNonNewline() *token.Token {
	for i := f.idx - 1; i >= 0; i-- {
		if f.tree.Tokens[i].Kind != token.Newline {
			return &f.tree.Tokens[i]
		}
	}
	return nil
}

func (f *formatter) peekNonNewline() *token.Token {
	for i := f.idx + 1; i < len(f.tree.Tokens); i++ {
		if f.tree.Tokens[i].Kind != token.Newline {
			return &f.tree.Tokens[i]
		}
	}
	return nil
}

func (f *formatter) maybeInsertAutoBegin() {
	if !f.tracker.ready() {
		return
	}
	if f.tracker.bodyNeedsWrap(f.tree.Tokens, f.idx+1) {
		f.em.writeIndent()
		f.em.push("begin")
		f.em.pushByte('\n')
		f.em.increaseIndent()
		f.em.atLineStart = true
		f.em.pendingSpace = false
		f.insertedBlocks = append(f.insertedBlocks, f.em.indentLevel)
	}
	f.tracker.reset()
}

// A synthesized block closes when the construct that follows it would
// otherwise attach to the wrong body: an else, or any scope terminator.
func (f *formatter) flushAutoEndsBefore(next *token.Token) {
	if len(f.insertedBlocks) == 0 {
		return
	}
	if next.IsKeyword("else") || next.IsDedentKeyword() {
		f.insertedBlocks = f.insertedBlocks[:len(f.insertedBlocks)-1]
		f.insertAutoEnd()
	}
}

func (f *formatter) insertAutoEnd() {
	f.em.trimTrailingWhitespace()
	f.em.ensureTrailingNewline()
	f.em.decreaseIndent()
	f.em.atLineStart = true
	f.em.pendingSpace = false
	f.em.writeIndent()
	f.em.push("end")
	f.em.pushByte('\n')
	f.em.atLineStart = true
	f.em.pendingSpace = false
	f.prevCallIdent = false
}

// wrapTracker watches for a control keyword whose unbraced body spans
// several lines. It arms on the keyword, waits out the parenthesized
// condition if there is one, and is ready once the header is complete; a
// begin, semicolon, or scope terminator on the same line stands down.
type wrapTracker struct {
	mode    wrapMode
	depth   int
	keyword string
	spanEnd uint32
	hasSpan bool
}

type wrapMode uint8

const (
	wrapIdle wrapMode = iota
	wrapWaitingCondition
	wrapReady
)

func (w *wrapTracker) reset() {
	*w = wrapTracker{}
}

func (w *wrapTracker) ready() bool {
	return w.mode == wrapReady
}

func (w *wrapTracker) maybeStart(tok *token.Token, spanEnd uint32, hasSpan bool) {
	if tok.Kind != token.Keyword {
		return
	}
	switch tok.Lowered() {
	case "if", "for", "foreach", "while":
		w.mode = wrapWaitingCondition
	case "else", "do", "forever":
		w.mode = wrapReady
	default:
		return
	}
	w.keyword = tok.Lowered()
	w.depth = 0
	w.spanEnd = spanEnd
	w.hasSpan = hasSpan
}

func (w *wrapTracker) observe(tok *token.Token) {
	switch w.mode {
	case wrapWaitingCondition:
		switch {
		case tok.IsSymbol("("):
			w.depth++
		case tok.IsSymbol(")"):
			if w.depth > 0 {
				w.depth--
			}
			if w.depth == 0 {
				w.mode = wrapReady
			}
		}
	case wrapReady:
		if tok.IsKeyword("begin") || tok.IsSymbol(";") || tok.IsDedentKeyword() {
			w.reset()
		}
	}
}

// bodyNeedsWrap reports whether the armed construct's body holds more
// statements than its first one, which is when synthesizing begin/end
// changes (and fixes) what the body binds to.
func (w *wrapTracker) bodyNeedsWrap(toks []token.Token, index int) bool {
	if w.keyword == "" {
		return false
	}

	required := 2
	if w.hasSpan {
		required = 1
	}
	semicolons := 0
	inspected := 0

	for i := index; i < len(toks); i++ {
		tok := &toks[i]
		if tok.Kind == token.Newline {
			continue
		}
		if w.hasSpan && tok.Span.Start < w.spanEnd {
			continue
		}
		if tok.IsKeyword("begin") {
			return false
		}
		if w.keyword == "else" && tok.IsKeyword("if") {
			return false
		}
		if tok.IsKeyword("else") || tok.IsDedentKeyword() {
			break
		}
		if tok.IsSymbol(";") {
			semicolons++
			if semicolons >= required {
				break
			}
		}
		inspected++
		if inspected >= 128 {
			break
		}
	}

	return semicolons >= required
}
