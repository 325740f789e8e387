package token

// NeedsSpaceAfter reports whether a single space should separate text from
// the next meaningful token. next is the following non-newline token, or
// nil at end of stream.
func NeedsSpaceAfter(text string, next *Token) bool {
	switch text {
	case "(", "[", "{", "'{", ".", "@", "#", "##", "::", "'":
		return false
	case ")", "]", "}", ";", ",":
		return true
	case ":":
		return next == nil || !next.IsSymbol(":")
	}
	return true
}

// NoSpaceBefore reports whether text must be glued to the previous token
// even when a space is pending.
func NoSpaceBefore(text string) bool {
	switch text {
	case ")", "]", "}", ",", ";", ".", "::":
		return true
	}
	return false
}
