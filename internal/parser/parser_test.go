package parser

import (
	"testing"

	"svfmt/internal/diag"
	"svfmt/internal/source"
	"svfmt/internal/token"
)

func parse(t *testing.T, src string) (*Tree, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sv", []byte(src))
	bag := diag.NewBag(32)
	tree := Parse(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return tree, bag
}

// colonPaddings returns the alignment paddings of every aligned colon in
// stream order.
func colonPaddings(tree *Tree) []int {
	var pads []int
	for _, tok := range tree.Tokens {
		if tok.IsSymbol(":") {
			if pad, ok := tree.CaseAlignment[tok.Span.Start]; ok {
				pads = append(pads, pad)
			}
		}
	}
	return pads
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestBodySpanSingleStatement(t *testing.T) {
	tree, bag := parse(t, "if (en)\n  q <= d;\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	end, ok := tree.BodySpans[0]
	if !ok {
		t.Fatalf("no body span recorded for if: %v", tree.BodySpans)
	}
	if end != 17 {
		t.Fatalf("body span end = %d, want 17", end)
	}
}

func TestBodySpanElseChain(t *testing.T) {
	tree, _ := parse(t, "if (a)\n x = 1;\nelse if (b)\n x = 2;\nelse\n x = 3;\n")

	if len(tree.BodySpans) != 3 {
		t.Fatalf("body spans = %v, want 3 entries", tree.BodySpans)
	}
	// The leading if, the chained if, and the final else each delimit a
	// body. The else that merely continues the chain must not.
	for _, off := range []uint32{0, 20, 35} {
		if _, ok := tree.BodySpans[off]; !ok {
			t.Errorf("missing body span at offset %d: %v", off, tree.BodySpans)
		}
	}
	if _, ok := tree.BodySpans[15]; ok {
		t.Errorf("chaining else at offset 15 must not delimit a body")
	}
	if tree.BodySpans[0] != 14 {
		t.Errorf("if body span end = %d, want 14", tree.BodySpans[0])
	}
}

func TestBodySpanBeginBlock(t *testing.T) {
	tree, _ := parse(t, "if (a) begin\n x = 1;\n y = 2;\nend\n")
	if tree.BodySpans[0] != 32 {
		t.Fatalf("begin-block body span end = %d, want 32", tree.BodySpans[0])
	}
}

func TestBodySpanNestedIf(t *testing.T) {
	// The outer body is the whole inner if-else.
	src := "if (a)\n  if (b)\n    x = 1;\n  else\n    x = 2;\n"
	tree, _ := parse(t, src)
	end, ok := tree.BodySpans[0]
	if !ok {
		t.Fatalf("no body span for outer if")
	}
	want := uint32(len(src) - 1) // just past the final ';'
	if end != want {
		t.Fatalf("outer if body span end = %d, want %d", end, want)
	}
}

func TestCaseAlignment(t *testing.T) {
	tree, bag := parse(t,
		"case (sel)\n  2'b00: y = a;\n  2'b1: y = b;\n  default: y = c;\nendcase\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	pads := colonPaddings(tree)
	want := []int{3, 4, 1}
	if len(pads) != len(want) {
		t.Fatalf("paddings = %v, want %v", pads, want)
	}
	for i := range want {
		if pads[i] != want[i] {
			t.Errorf("padding[%d] = %d, want %d", i, pads[i], want[i])
		}
	}
}

func TestCaseSingleArmNoAlignment(t *testing.T) {
	tree, _ := parse(t, "case (sel)\n  1: y = a;\nendcase\n")
	if len(tree.CaseAlignment) != 0 {
		t.Fatalf("single-arm case must not align: %v", tree.CaseAlignment)
	}
}

func TestCaseMultilineLabelExcluded(t *testing.T) {
	tree, bag := parse(t,
		"case (sel)\n  a,\n  b: y = 1;\n  c: y = 2;\n  d: y = 3;\nendcase\n")

	if !hasCode(bag, diag.FmtMultilineCaseLabel) {
		t.Fatalf("expected a multi-line label warning: %v", bag.Items())
	}
	pads := colonPaddings(tree)
	if len(pads) != 2 || pads[0] != 1 || pads[1] != 1 {
		t.Fatalf("paddings = %v, want [1 1]", pads)
	}
}

func TestNestedCaseGroupsAlignIndependently(t *testing.T) {
	src := "case (a)\n" +
		"  1: begin\n" +
		"    case (b)\n" +
		"      0: x = 1;\n" +
		"      10: x = 2;\n" +
		"    endcase\n" +
		"  end\n" +
		"  22: y = 1;\n" +
		"endcase\n"
	tree, bag := parse(t, src)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}

	pads := colonPaddings(tree)
	want := []int{2, 2, 1, 1}
	if len(pads) != len(want) {
		t.Fatalf("paddings = %v, want %v", pads, want)
	}
	for i := range want {
		if pads[i] != want[i] {
			t.Errorf("padding[%d] = %d, want %d", i, pads[i], want[i])
		}
	}
}

func TestDefaultWithoutColon(t *testing.T) {
	tree, bag := parse(t,
		"case (x)\n  default begin\n    y = 1;\n  end\n  1: z = 1;\n  2: w = 1;\nendcase\n")
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %v", bag.Items())
	}
	pads := colonPaddings(tree)
	if len(pads) != 2 || pads[0] != 1 || pads[1] != 1 {
		t.Fatalf("paddings = %v, want [1 1]", pads)
	}
}

func TestUnbalancedBlockReported(t *testing.T) {
	_, bag := parse(t, "module m;\nbegin\nendmodule\n")
	if !bag.HasErrors() {
		t.Fatalf("expected balance errors")
	}
	if !hasCode(bag, diag.SynUnbalancedDelimiter) {
		t.Fatalf("expected SynUnbalancedDelimiter: %v", bag.Items())
	}
}

func TestUnexpectedCloserReported(t *testing.T) {
	_, bag := parse(t, "end\n")
	if !hasCode(bag, diag.SynUnexpectedCloser) {
		t.Fatalf("expected SynUnexpectedCloser: %v", bag.Items())
	}
}

func TestUnbalancedParenReported(t *testing.T) {
	_, bag := parse(t, "assign y = (a + b;\n")
	if !hasCode(bag, diag.SynUnbalancedDelimiter) {
		t.Fatalf("expected an unclosed paren error: %v", bag.Items())
	}
}

func TestConditionalCompilationRelaxesKeywordBalance(t *testing.T) {
	_, bag := parse(t, "`ifdef X\nbegin\n`endif\nend\n")
	if bag.HasErrors() {
		t.Fatalf("keyword balance must be relaxed under `ifdef: %v", bag.Items())
	}
}

func TestTokensRoundTripSpans(t *testing.T) {
	src := "always_ff @(posedge clk) q <= d;\n"
	tree, _ := parse(t, src)
	for _, tok := range tree.Tokens {
		if tok.Kind == token.Newline {
			continue
		}
		got := src[tok.Span.Start:tok.Span.End]
		if got != tok.Text {
			t.Fatalf("span mismatch for %q: source slice %q", tok.Text, got)
		}
	}
}
