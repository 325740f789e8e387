package diag

import (
	"testing"

	"svfmt/internal/source"
)

func TestBagCapAndErrors(t *testing.T) {
	bag := NewBag(2)
	if !bag.Add(Diagnostic{Severity: SevWarning, Code: FmtLineTooLong}) {
		t.Fatalf("first add should succeed")
	}
	if bag.HasErrors() {
		t.Fatalf("warning must not count as error")
	}
	if !bag.Add(Diagnostic{Severity: SevError, Code: SynUnbalancedDelimiter}) {
		t.Fatalf("second add should succeed")
	}
	if bag.Add(Diagnostic{Severity: SevError, Code: UnknownCode}) {
		t.Fatalf("third add should hit the cap")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("severity queries wrong: errors=%v warnings=%v", bag.HasErrors(), bag.HasWarnings())
	}
	if bag.Len() != 2 {
		t.Fatalf("Len = %d", bag.Len())
	}
}

func TestBagSortIsDeterministic(t *testing.T) {
	bag := NewBag(8)
	bag.Add(Diagnostic{Severity: SevWarning, Code: FmtLineTooLong, Primary: source.Span{Start: 20, End: 25}})
	bag.Add(Diagnostic{Severity: SevError, Code: LexUnknownChar, Primary: source.Span{Start: 4, End: 5}})
	bag.Add(Diagnostic{Severity: SevError, Code: SynUnbalancedDelimiter, Primary: source.Span{Start: 4, End: 5}})
	bag.Sort()

	items := bag.Items()
	if items[0].Primary.Start != 4 || items[2].Primary.Start != 20 {
		t.Fatalf("sort by position failed: %+v", items)
	}
	if items[0].Code != LexUnknownChar {
		t.Fatalf("ties break by code: %+v", items[0])
	}
}

func TestRenderShort(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("demo.sv", []byte("module x;\nendmodule\n"))

	diags := []Diagnostic{
		{Severity: SevError, Code: SynUnbalancedDelimiter, Message: "missing end", Primary: source.Span{File: id, Start: 10, End: 11}},
	}
	got := RenderShort(diags, fs)
	want := "error SYN2001 demo.sv:2:1 missing end"
	if got != want {
		t.Fatalf("RenderShort = %q, want %q", got, want)
	}
}
