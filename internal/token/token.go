package token

import "fmt"

// Token is the source location attached to every syntax node and diagnostic.
// Lexeme holds the source text the node was parsed from.
type Token struct {
	File   string
	Lexeme string
	Line   int
	Column int
	Offset int // byte offset of the first character
}

// String renders the token position the way diagnostics print it.
func (t Token) String() string {
	if t.File != "" {
		return fmt.Sprintf("%s:%d:%d", t.File, t.Line, t.Column)
	}
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}

// IsZero reports whether the token carries no position information.
func (t Token) IsZero() bool {
	return t.Line == 0 && t.Column == 0 && t.Lexeme == ""
}

// End returns the byte offset just past the lexeme.
func (t Token) End() int {
	return t.Offset + len(t.Lexeme)
}

// Join returns a token spanning from the start of a to the end of b.
// Lexemes are concatenated with a gap marker when the spans are not adjacent,
// since the original source text is not available here.
func Join(a, b Token) Token {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	first, second := a, b
	if b.Offset < a.Offset {
		first, second = b, a
	}
	lexeme := first.Lexeme
	switch {
	case second.Offset == first.End():
		lexeme += second.Lexeme
	case second.End() > first.End():
		lexeme += " .. " + second.Lexeme
	}
	return Token{
		File:   first.File,
		Lexeme: lexeme,
		Line:   first.Line,
		Column: first.Column,
		Offset: first.Offset,
	}
}

// JoinAll folds Join over the given tokens.
func JoinAll(toks ...Token) Token {
	var out Token
	for _, t := range toks {
		out = Join(out, t)
	}
	return out
}
