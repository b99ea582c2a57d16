package compiler

import (
	"errors"
	"fmt"
)

// errNoMatch signals that a statement alternative did not start at the
// current token. It only ever drives the parser's one-token backtrack and
// is always converted to a concrete SyntaxError before Parse returns.
var errNoMatch = errors.New("no construct matched")

// LexError reports an illegal character or token.
type LexError struct {
	Loc    Location
	Lexeme string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("line %s: illegal token %q", e.Loc, e.Lexeme)
}

// SyntaxErrorKind distinguishes the expected-but-missing terminal variants
// so callers can produce actionable diagnostics.
type SyntaxErrorKind int

const (
	ErrUnexpectedToken SyntaxErrorKind = iota
	ErrExpectedExpression
	ErrExpectedIdentifier
	ErrExpectedBlock
	ErrExpectedCloseBrace
	ErrExpectedTerminator
)

var syntaxKindNames = [...]string{
	ErrUnexpectedToken:    "unexpected token",
	ErrExpectedExpression: "expected an expression",
	ErrExpectedIdentifier: "expected an identifier",
	ErrExpectedBlock:      "expected a block",
	ErrExpectedCloseBrace: "expected a closing brace",
	ErrExpectedTerminator: "expected end of statement",
}

func (k SyntaxErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(syntaxKindNames) {
		return syntaxKindNames[k]
	}
	return fmt.Sprintf("SyntaxErrorKind(%d)", int(k))
}

// SyntaxError is a located parse failure.
type SyntaxError struct {
	Kind    SyntaxErrorKind
	Got     Token
	Msg     string
	Snippet string // trimmed source line where Got appears
}

func (e *SyntaxError) Error() string {
	s := fmt.Sprintf("line %s: %s, got %s %q", e.Got.Start, e.Kind, e.Got.Type, e.Got.Lexeme)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Snippet != "" {
		s += "\n  |> " + e.Snippet
	}
	return s
}

// SemanticErrorKind distinguishes resolver failures.
type SemanticErrorKind int

const (
	ErrUndeclaredIdent SemanticErrorKind = iota
	ErrUninitializedIdent
	ErrInvalidAssignTarget
)

var semanticKindNames = [...]string{
	ErrUndeclaredIdent:     "use of undeclared identifier",
	ErrUninitializedIdent:  "use of uninitialized identifier",
	ErrInvalidAssignTarget: "expression used where an assignment target is required",
}

func (k SemanticErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(semanticKindNames) {
		return semanticKindNames[k]
	}
	return fmt.Sprintf("SemanticErrorKind(%d)", int(k))
}

// SemanticError is a located resolution failure.
type SemanticError struct {
	Kind SemanticErrorKind
	Name string // offending identifier, empty for ErrInvalidAssignTarget
	Loc  Location
}

func (e *SemanticError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("line %s: %s", e.Loc, e.Kind)
	}
	return fmt.Sprintf("line %s: %s %q", e.Loc, e.Kind, e.Name)
}
