package token

// Kind classifies a single token in the flat formatting stream. Unlike a
// compiler token stream, newlines, comments, and compiler directives are
// ordinary stream members: the formatter needs to see them to decide line
// breaks and trivia placement.
type Kind uint8

const (
	EOF Kind = iota
	Ident
	Keyword
	Number
	String
	Symbol // single-character punctuation
	Op     // multi-character operator
	Comment
	Directive
	Newline
	Other
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Keyword:
		return "Keyword"
	case Number:
		return "Number"
	case String:
		return "String"
	case Symbol:
		return "Symbol"
	case Op:
		return "Op"
	case Comment:
		return "Comment"
	case Directive:
		return "Directive"
	case Newline:
		return "Newline"
	case Other:
		return "Other"
	}
	return "Unknown"
}
