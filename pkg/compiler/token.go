package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable name
	INTEGER    // decimal integer literal

	// Keywords
	LET  // "let"
	EXIT // "exit"
	IF   // "if"
	ELSE // "else"

	// Paired delimiters
	LBRACE // {
	RBRACE // }
	LPAREN // (
	RPAREN // )

	// Operators  (order matters: two-character forms are matched first)
	ASSIGN // =
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /

	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	LESS_EQ    // <=
	GREATER    // >
	GREATER_EQ // >=

	// Layout
	NEWLINE // statement terminator outside parentheses

	ILLEGAL // anything the scanner cannot classify
)

var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	LET:        "LET",
	EXIT:       "EXIT",
	IF:         "IF",
	ELSE:       "ELSE",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	ASSIGN:     "ASSIGN",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	LESS:       "LESS",
	LESS_EQ:    "LESS_EQ",
	GREATER:    "GREATER",
	GREATER_EQ: "GREATER_EQ",
	NEWLINE:    "NEWLINE",
	ILLEGAL:    "ILLEGAL",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Location is a 1-based source position.
type Location struct {
	Line int
	Col  int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Col)
}

// Token is a single lexical unit produced by the Lexer.
// Start points at the first character of the lexeme, End one past the last.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Start  Location
	End    Location
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-10q  %s", t.Type, t.Lexeme, t.Start)
}
