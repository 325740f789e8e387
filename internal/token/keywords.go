package token

// The formatter cares about a structural subset of the SystemVerilog
// keyword space: words that open or close an indentation scope, start a
// wrappable control construct, or introduce a top-level declaration
// section. Everything else formats like an identifier.
var keywords = map[string]struct{}{
	"module":       {},
	"endmodule":    {},
	"class":        {},
	"endclass":     {},
	"function":     {},
	"endfunction":  {},
	"task":         {},
	"endtask":      {},
	"package":      {},
	"endpackage":   {},
	"begin":        {},
	"end":          {},
	"case":         {},
	"endcase":      {},
	"casex":        {},
	"casez":        {},
	"randcase":     {},
	"randsequence": {},
	"endsequence":  {},
	"fork":         {},
	"join":         {},
	"join_any":     {},
	"join_none":    {},
	"generate":     {},
	"endgenerate":  {},
	"interface":    {},
	"endinterface": {},
	"covergroup":   {},
	"endgroup":     {},
	"if":           {},
	"else":         {},
	"for":          {},
	"foreach":      {},
	"while":        {},
	"do":           {},
	"forever":      {},
}

// IsKeywordText reports whether text is one of the structural keywords,
// case-insensitively, so mixed-case keywords still steer indentation.
func IsKeywordText(text string) bool {
	_, ok := keywords[lowerASCII(text)]
	return ok
}

var indentKeywords = map[string]struct{}{
	"module":       {},
	"class":        {},
	"function":     {},
	"task":         {},
	"package":      {},
	"begin":        {},
	"case":         {},
	"casex":        {},
	"casez":        {},
	"randcase":     {},
	"randsequence": {},
	"covergroup":   {},
	"fork":         {},
	"generate":     {},
	"interface":    {},
}

// endinterface is deliberately absent: formatted corpora depend on
// interface bodies keeping their indentation.
var dedentKeywords = map[string]struct{}{
	"end":         {},
	"endmodule":   {},
	"endclass":    {},
	"endfunction": {},
	"endtask":     {},
	"endcase":     {},
	"endsequence": {},
	"endpackage":  {},
	"endgroup":    {},
	"endgenerate": {},
	"join":        {},
	"join_any":    {},
	"join_none":   {},
}

// sectionKeywords introduce top-level declarations that get a separating
// blank line.
var sectionKeywords = map[string]struct{}{
	"package":   {},
	"class":     {},
	"interface": {},
}

// caseKeywords start a case arm group.
var caseKeywords = map[string]struct{}{
	"case":     {},
	"casex":    {},
	"casez":    {},
	"randcase": {},
}

func lowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
