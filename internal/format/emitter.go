package format

import (
	"bytes"

	"svfmt/internal/config"
)

// emitter accumulates formatted output. It owns the indentation state and
// the one-token-lookbehind flags the engine steers spacing with.
type emitter struct {
	cfg config.Config
	out []byte

	indentLevel        int
	atLineStart        bool
	pendingSpace       bool
	lastLineWasComment bool
}

func newEmitter(cfg config.Config) *emitter {
	return &emitter{
		cfg:         cfg,
		out:         make([]byte, 0, 4096),
		atLineStart: true,
	}
}

func (e *emitter) take() []byte {
	out := e.out
	e.out = nil
	return out
}

func (e *emitter) push(s string) {
	e.out = append(e.out, s...)
}

func (e *emitter) pushByte(b byte) {
	e.out = append(e.out, b)
}

func (e *emitter) endsWith(s string) bool {
	return bytes.HasSuffix(e.out, []byte(s))
}

func (e *emitter) increaseIndent() {
	e.indentLevel++
}

func (e *emitter) decreaseIndent() {
	if e.indentLevel > 0 {
		e.indentLevel--
	}
}

func (e *emitter) writeIndent() {
	for i := 0; i < e.indentLevel; i++ {
		e.push(e.cfg.IndentUnit())
	}
	e.atLineStart = false
	e.pendingSpace = false
}

func (e *emitter) trimTrailingWhitespace() {
	n := len(e.out)
	for n > 0 && (e.out[n-1] == ' ' || e.out[n-1] == '\t') {
		n--
	}
	e.out = e.out[:n]
}

func (e *emitter) newline() {
	e.trimTrailingWhitespace()
	if !e.endsWith("\n") {
		e.pushByte('\n')
	}
	e.atLineStart = true
	e.pendingSpace = false
}

func (e *emitter) ensureTrailingNewline() {
	if len(e.out) > 0 && !e.endsWith("\n") {
		e.pushByte('\n')
	}
}

// ensureBlankLine leaves exactly one empty line before the next write,
// except at the very start of the output.
func (e *emitter) ensureBlankLine() {
	e.trimTrailingWhitespace()
	if len(e.out) == 0 {
		e.atLineStart = true
		return
	}
	if !e.endsWith("\n") {
		e.pushByte('\n')
	}
	if !e.endsWith("\n\n") {
		e.pushByte('\n')
	}
	e.atLineStart = true
	e.pendingSpace = false
}

func (e *emitter) ensureBlankLineAfterComment() {
	if !e.endsWith("\n") {
		e.pushByte('\n')
	}
	if !e.endsWith("\n\n") {
		e.pushByte('\n')
	}
	e.atLineStart = true
	e.pendingSpace = false
}
