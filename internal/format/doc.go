// Package format renders the parsed token stream back into source text.
// One left-to-right pass drives indentation, token spacing, begin/end
// synthesis for multi-line bodies, end-else joining, case colon alignment,
// and blank-line placement around declarations and block comments. An
// optional second stage re-breaks lines wider than the configured limit.
package format
