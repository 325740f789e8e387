package format

import (
	"strings"
	"testing"

	"svfmt/internal/config"
	"svfmt/internal/diag"
	"svfmt/internal/parser"
	"svfmt/internal/source"
	"svfmt/internal/token"
)

func formatSrc(t *testing.T, src string, cfg config.Config) string {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sv", []byte(src))
	bag := diag.NewBag(32)
	tree := parser.Parse(fs.Get(id), parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.HasErrors() {
		t.Fatalf("parse errors: %v", bag.Items())
	}
	return string(Format(tree, cfg, diag.BagReporter{Bag: bag}))
}

func TestFormatsBasicStructure(t *testing.T) {
	input := "module top;\n" +
		"initial begin\n" +
		"if(a)b<=c;\n" +
		"else\n" +
		"c<=d;\n" +
		"end\n" +
		"endmodule\n"
	want := "module top;\n" +
		"  initial begin\n" +
		"    if (a) b <= c;\n" +
		"    else\n" +
		"    c <= d;\n" +
		"  end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAlignsPreprocessorLeft(t *testing.T) {
	input := "module x;\n" +
		"  `ifdef FOO\n" +
		"    assign a = b,c,d;\n" +
		"  `else\n" +
		"foo ( bar );\n" +
		"  `endif\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	for _, line := range strings.Split(got, "\n") {
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "`") && line[0] != '`' {
			t.Fatalf("directive must be left aligned: %q in\n%s", line, got)
		}
	}
	if !strings.Contains(got, "foo(bar);") {
		t.Fatalf("call spacing inside conditional block lost:\n%s", got)
	}
}

func TestIndentsPreprocessorWhenAlignmentOff(t *testing.T) {
	cfg := config.Default()
	cfg.AlignPreprocessor = false
	got := formatSrc(t, "module x;\n`ifdef FOO\nassign a = b;\n`endif\nendmodule\n", cfg)
	if !strings.Contains(got, "\n  `ifdef FOO\n") {
		t.Fatalf("directive should follow indentation:\n%s", got)
	}
}

func TestCallAndCommaSpacing(t *testing.T) {
	input := "module x;\n" +
		"initial begin\n" +
		"foo (a,b ,c);\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if !strings.Contains(got, "foo(a, b, c);") {
		t.Fatalf("call/comma spacing wrong:\n%s", got)
	}
}

func TestRemoveCallSpaceDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.RemoveCallSpace = false
	got := formatSrc(t, "module x;\ninitial begin\nfoo (a, b);\nend\nendmodule\n", cfg)
	if !strings.Contains(got, "foo (a, b);") {
		t.Fatalf("disabled call-space rule must keep the space:\n%s", got)
	}
}

func TestInlineEndElseOneLine(t *testing.T) {
	input := "module x;\n" +
		"initial begin\n" +
		"if (a) begin\n" +
		"  do_something();\n" +
		"end\n" +
		"else begin\n" +
		"  other();\n" +
		"end\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if !strings.Contains(got, "end else begin") {
		t.Fatalf("expected inline end else, got:\n%s", got)
	}

	cfg := config.Default()
	cfg.InlineEndElse = false
	got = formatSrc(t, input, cfg)
	if strings.Contains(got, "end else") {
		t.Fatalf("inline_end_else=false must keep the break:\n%s", got)
	}
}

func TestCommentBlocksEndElseJoin(t *testing.T) {
	input := "module x;\n" +
		"initial begin\n" +
		"if (a) begin\n" +
		"  x();\n" +
		"end // note\n" +
		"else begin\n" +
		"  y();\n" +
		"end\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if strings.Contains(got, "end else") {
		t.Fatalf("a trailing comment must keep else on its own line:\n%s", got)
	}
	if !strings.Contains(got, "end // note") {
		t.Fatalf("trailing comment lost:\n%s", got)
	}
}

func TestWrapsMultilineBlocksWhenEnabled(t *testing.T) {
	input := "module x;\n" +
		"initial begin\n" +
		"if (cond)\n" +
		"  a <= 1;\n" +
		"  b <= 2;\n" +
		"end\n" +
		"endmodule\n"
	want := "module x;\n" +
		"  initial begin\n" +
		"    if (cond)\n" +
		"    begin\n" +
		"      a <= 1;\n" +
		"      b <= 2;\n" +
		"    end\n" +
		"  end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSingleStatementBodyNotWrapped(t *testing.T) {
	input := "module x;\n" +
		"initial begin\n" +
		"if (cond)\n" +
		"  a <= 1;\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if strings.Contains(got, "begin\n      a") {
		t.Fatalf("single-statement body must not get a block:\n%s", got)
	}
}

func TestDoesNotWrapCaseStatementBody(t *testing.T) {
	input := "module x;\n" +
		"always_comb begin\n" +
		"if (cond)\n" +
		"  case(sel)\n" +
		"    0: foo <= 1;\n" +
		"    default: foo <= 0;\n" +
		"  endcase\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if strings.Contains(got, "if (cond)\n    begin") {
		t.Fatalf("case body should not trigger auto begin:\n%s", got)
	}
}

func TestKeepsBodyWhenWrapDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.WrapMultilineBlocks = false
	input := "module x;\n" +
		"initial begin\n" +
		"if (cond)\n" +
		"  a <= 1;\n" +
		"  b <= 2;\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, cfg)
	if strings.Contains(got, "begin\n      a") {
		t.Fatalf("unexpected begin insertion:\n%s", got)
	}
}

func TestCommentSpacingRules(t *testing.T) {
	input := "module x;\n" +
		"initial begin\n" +
		"//leading\n" +
		"assign a = 1;   //  trailing\n" +
		"/* block comment */\n" +
		"assign b = 2;\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if !strings.Contains(got, "\n    //leading\n") {
		t.Fatalf("leading comment should carry only indent:\n%s", got)
	}
	if !strings.Contains(got, "assign a = 1; //  trailing") {
		t.Fatalf("inline comment should have a single separator space:\n%s", got)
	}
	if !strings.Contains(got, "\n\n    /* block comment */\n\n") {
		t.Fatalf("block comment should be surrounded by blank lines:\n%s", got)
	}
}

func TestAlignsCaseColons(t *testing.T) {
	input := "module x;\n" +
		"always_comb begin\n" +
		"case(sel)\n" +
		"  2'b0: foo = 0;\n" +
		"  4'b1010: foo = 1;\n" +
		"  default: foo = 2;\n" +
		"endcase\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())

	var short string
	for _, line := range strings.Split(got, "\n") {
		if strings.Contains(line, "foo = 0;") {
			short = line
		}
	}
	if !strings.Contains(short, "0    :") {
		t.Fatalf("short label should be padded before colon:\n%s", got)
	}

	cfg := config.Default()
	cfg.AlignCaseColon = false
	got = formatSrc(t, input, cfg)
	if strings.Contains(got, "0    :") {
		t.Fatalf("alignment must be off:\n%s", got)
	}
}

func TestBlankLinesAroundDeclarations(t *testing.T) {
	input := "package demo;\n" +
		"class foo;\n" +
		"endclass\n" +
		"class bar;\n" +
		"endclass\n" +
		"endpackage\n" +
		"interface baz();\n" +
		"endinterface\n"
	want := "package demo;\n" +
		"\n" +
		"  class foo;\n" +
		"  endclass\n" +
		"\n" +
		"  class bar;\n" +
		"  endclass\n" +
		"endpackage\n" +
		"\n" +
		"interface baz();\n" +
		"  endinterface\n"
	got := formatSrc(t, input, config.Default())
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestAutoWrapsLongLinesWhenEnabled(t *testing.T) {
	cfg := config.Default()
	cfg.AutoWrapLongLines = true
	cfg.MaxLineLength = 20
	input := "module x;\n" +
		"assign data = {foo, bar, baz, quux};\n" +
		"endmodule\n"
	got := formatSrc(t, input, cfg)

	var assignLine, continuation string
	for _, line := range strings.Split(got, "\n") {
		if strings.Contains(line, "assign data") {
			assignLine = line
		}
		if strings.HasPrefix(strings.TrimLeft(line, " \t"), "bar, baz") {
			continuation = line
		}
	}
	if !strings.Contains(assignLine, "{foo,") {
		t.Fatalf("first line should keep the start of the concatenation:\n%s", got)
	}
	if continuation == "" || !(strings.HasPrefix(continuation, "  ") || strings.HasPrefix(continuation, "\t")) {
		t.Fatalf("continuation line should be indented:\n%s", got)
	}
}

func TestAutoWrapSkipsCommentAndDirectiveLines(t *testing.T) {
	cfg := config.Default()
	cfg.AutoWrapLongLines = true
	cfg.MaxLineLength = 10
	input := "// a very long comment line that stays intact\n" +
		"`define WIDE_MACRO some_very_long_replacement\n"
	got := formatSrc(t, input, cfg)
	if !strings.Contains(got, "// a very long comment line that stays intact\n") {
		t.Fatalf("comment line must not be wrapped:\n%s", got)
	}
	if !strings.Contains(got, "`define WIDE_MACRO some_very_long_replacement\n") {
		t.Fatalf("directive line must not be wrapped:\n%s", got)
	}
}

func TestUseTabs(t *testing.T) {
	cfg := config.Default()
	cfg.UseTabs = true
	got := formatSrc(t, "module x;\ninitial begin\nfoo();\nend\nendmodule\n", cfg)
	if !strings.Contains(got, "\n\t\tfoo();\n") {
		t.Fatalf("tabs expected:\n%s", got)
	}
}

func TestIndentWidth(t *testing.T) {
	cfg := config.Default()
	cfg.IndentWidth = 4
	got := formatSrc(t, "module x;\ninitial begin\nfoo();\nend\nendmodule\n", cfg)
	if !strings.Contains(got, "\n        foo();\n") {
		t.Fatalf("indent_width=4 expected 8 spaces at depth 2:\n%s", got)
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"module top;\ninitial begin\nif(a)b<=c;\nelse\nc<=d;\nend\nendmodule\n",
		"module x;\ninitial begin\nif (cond)\n  a <= 1;\n  b <= 2;\nend\nendmodule\n",
		"module x;\nalways_comb begin\ncase(sel)\n  2'b0: foo = 0;\n  4'b1010: foo = 1;\n" +
			"  default: foo = 2;\nendcase\nend\nendmodule\n",
		"module x;\ninitial begin\n//leading\nassign a = 1;   //  trailing\n" +
			"/* block comment */\nassign b = 2;\nend\nendmodule\n",
		"package demo;\nclass foo;\nendclass\nendpackage\n",
		"module x;\ninitial begin\nif (a) begin\n  f();\nend\nelse begin\n  g();\nend\nend\nendmodule\n",
	}
	for _, input := range inputs {
		once := formatSrc(t, input, config.Default())
		twice := formatSrc(t, once, config.Default())
		if once != twice {
			t.Errorf("not idempotent for input:\n%s\nfirst:\n%s\nsecond:\n%s", input, once, twice)
		}
	}
}

// meaningfulTokens strips newlines and comments from the stream.
func meaningfulTokens(t *testing.T, src string) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("cmp.sv", []byte(src))
	tree := parser.Parse(fs.Get(id), parser.Options{})
	var out []token.Token
	for _, tok := range tree.Tokens {
		if tok.Kind == token.Newline || tok.Kind == token.Comment {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func TestTokenStreamPreserved(t *testing.T) {
	input := "module top;\n" +
		"initial begin\n" +
		"if (a) b <= c;\n" +
		"else\n" +
		"c <= d;\n" +
		"end\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())

	before := meaningfulTokens(t, input)
	after := meaningfulTokens(t, got)
	if len(before) != len(after) {
		t.Fatalf("token count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i].Text != after[i].Text || before[i].Kind != after[i].Kind {
			t.Fatalf("token %d changed: %v %q -> %v %q",
				i, before[i].Kind, before[i].Text, after[i].Kind, after[i].Text)
		}
	}
}

func TestBlockSynthesisOnlyAddsDelimiters(t *testing.T) {
	input := "module x;\ninitial begin\nif (cond)\n  a <= 1;\n  b <= 2;\nend\nendmodule\n"
	got := formatSrc(t, input, config.Default())

	before := meaningfulTokens(t, input)
	after := meaningfulTokens(t, got)
	var extra []string
	j := 0
	for _, tok := range after {
		if j < len(before) && before[j].Text == tok.Text {
			j++
			continue
		}
		extra = append(extra, tok.Text)
	}
	if j != len(before) {
		t.Fatalf("original tokens lost or reordered:\n%s", got)
	}
	for _, text := range extra {
		if text != "begin" && text != "end" {
			t.Fatalf("unexpected synthesized token %q:\n%s", text, got)
		}
	}
}

func TestLineViolations(t *testing.T) {
	out := []byte("short\nthis line is very wide indeed\n")
	violations := LineViolations(out, 10)
	if len(violations) != 1 {
		t.Fatalf("violations = %v", violations)
	}
	if violations[0].Line != 2 || violations[0].Columns != 29 {
		t.Fatalf("violation = %+v, want line 2 with 29 columns", violations[0])
	}
	if LineViolations(out, 0) != nil {
		t.Fatalf("max 0 must disable the audit")
	}
}

func TestAssertionPropertySpacing(t *testing.T) {
	input := "module x;\n" +
		"assert property (@(posedge clk) req |-> ##1 ack);\n" +
		"endmodule\n"
	got := formatSrc(t, input, config.Default())
	if !strings.Contains(got, "@(posedge clk) req |-> ##1 ack") {
		t.Fatalf("assertion operators mangled:\n%s", got)
	}
}

func TestScopeOperatorGlued(t *testing.T) {
	got := formatSrc(t, "module x;\nassign y = pkg :: item;\nendmodule\n", config.Default())
	if !strings.Contains(got, "pkg::item") {
		t.Fatalf("scope operator should glue both sides:\n%s", got)
	}
}
