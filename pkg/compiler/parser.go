package compiler

import (
	"errors"
	"strings"
)

// Parser drives the Lexer through its one-token-lookahead surface and
// builds a Program.
//
// Grammar:
//
//	program    = (newline | statement)* EOF
//	statement  = declOrInit | block | ifStmt | exitStmt | assignOrExprStmt
//	declOrInit = "let" IDENTIFIER ("=" expression)?
//	block      = "{" statement* "}"
//	ifStmt     = "if" expression block ("else" (ifStmt | block))?
//	exitStmt   = "exit" expression
//	assignOrExprStmt = expression ("=" expression)?
//	expression = precedence climbing: comparisons(1), "+" "-"(2), "*" "/"(3)
//	term       = IDENTIFIER | INTEGER | "-" term | "(" expression ")"
//
// Newlines terminate statements except inside parentheses. Comparison
// operators associate to the right; the arithmetic operators to the left.
type Parser struct {
	lex         *Lexer
	sourceLines []string
}

// precedence of the binary operators, higher binds tighter.
var precedence = map[TokenType]int{
	EQUALS:     1,
	NOT_EQ:     1,
	LESS:       1,
	LESS_EQ:    1,
	GREATER:    1,
	GREATER_EQ: 1,
	PLUS:       2,
	MINUS:      2,
	STAR:       3,
	SLASH:      3,
}

const comparisonPrec = 1

func NewParser(lex *Lexer, rawSource string) *Parser {
	return &Parser{lex: lex, sourceLines: strings.Split(rawSource, "\n")}
}

// Parse tokenises and parses src in one call.
func Parse(src string) (*Program, error) {
	return NewParser(NewLexer(src), src).ParseProgram()
}

// snippet returns the trimmed source line where tok appears.
func (p *Parser) snippet(tok Token) string {
	lineIdx := tok.Start.Line - 1 // lines are 1-based
	if lineIdx < 0 || lineIdx >= len(p.sourceLines) {
		return ""
	}
	return strings.TrimSpace(p.sourceLines[lineIdx])
}

func (p *Parser) syntaxErr(kind SyntaxErrorKind, tok Token, msg string) error {
	return &SyntaxError{Kind: kind, Got: tok, Msg: msg, Snippet: p.snippet(tok)}
}

// peekChecked surfaces an illegal token as its lex error immediately, so
// decision points never misreport a lex failure as a syntax one.
func (p *Parser) peekChecked() (Token, error) {
	tok := p.lex.Peek()
	if tok.Type == ILLEGAL {
		return tok, p.lex.Consume()
	}
	return tok, nil
}

// ParseProgram parses top-level statements until EOF.
func (p *Parser) ParseProgram() (*Program, error) {
	prog := &Program{}
	for {
		tok := p.lex.Peek()
		if tok.Type == EOF {
			return prog, nil
		}
		if tok.Type == NEWLINE {
			if err := p.lex.Consume(); err != nil {
				return nil, err
			}
			continue
		}
		stmt, err := p.parseStatement()
		if errors.Is(err, errNoMatch) {
			return nil, p.syntaxErr(ErrUnexpectedToken, p.lex.Peek(), "a statement cannot start here")
		}
		if err != nil {
			return nil, err
		}
		prog.Stmts = append(prog.Stmts, stmt)
		if err := p.expectTerminator(); err != nil {
			return nil, err
		}
	}
}

// expectTerminator consumes the newline ending a statement. EOF and a
// closing brace also terminate, but stay unconsumed for the caller.
func (p *Parser) expectTerminator() error {
	tok, err := p.peekChecked()
	if err != nil {
		return err
	}
	switch tok.Type {
	case NEWLINE:
		return p.lex.Consume()
	case EOF, RBRACE:
		return nil
	default:
		return p.syntaxErr(ErrExpectedTerminator, tok, "")
	}
}

// parseStatement consumes the leading token to classify the statement.
// When it is not a keyword the token is handed back via Rewind and the
// expression-or-assignment production takes over.
func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.lex.Peek()
	if err := p.lex.Consume(); err != nil {
		return nil, err
	}
	switch tok.Type {
	case LET:
		return p.parseDeclOrInit()
	case LBRACE:
		return p.parseBlockRest()
	case IF:
		return p.parseIf()
	case EXIT:
		expr, err := p.parseExprRequired()
		if err != nil {
			return nil, err
		}
		return &ExitStmt{Expr: expr}, nil
	default:
		p.lex.Rewind()
		return p.parseAssignOrExprStmt()
	}
}

// parseDeclOrInit parses the rest of  let IDENT ("=" expression)?
func (p *Parser) parseDeclOrInit() (Stmt, error) {
	tok, err := p.peekChecked()
	if err != nil {
		return nil, err
	}
	if tok.Type != IDENTIFIER {
		return nil, p.syntaxErr(ErrExpectedIdentifier, tok, "`let` must be followed by a name")
	}
	if err := p.lex.Consume(); err != nil {
		return nil, err
	}
	name := &Ident{Name: tok.Lexeme, Loc: tok.Start}

	if p.lex.Peek().Type != ASSIGN {
		return &DeclareStmt{Name: name}, nil
	}
	if err := p.lex.Consume(); err != nil {
		return nil, err
	}
	value, err := p.parseExprRequired()
	if err != nil {
		return nil, err
	}
	return &InitStmt{Name: name, Value: value}, nil
}

// parseBlockRest parses statements up to the matching "}".
// The opening "{" has already been consumed.
func (p *Parser) parseBlockRest() (*BlockStmt, error) {
	block := &BlockStmt{}
	for {
		tok := p.lex.Peek()
		switch tok.Type {
		case NEWLINE:
			if err := p.lex.Consume(); err != nil {
				return nil, err
			}
			continue
		case RBRACE:
			if err := p.lex.Consume(); err != nil {
				return nil, err
			}
			return block, nil
		case EOF:
			return nil, p.syntaxErr(ErrExpectedCloseBrace, tok, "block is never closed")
		}
		stmt, err := p.parseStatement()
		if errors.Is(err, errNoMatch) {
			return nil, p.syntaxErr(ErrUnexpectedToken, p.lex.Peek(), "a statement cannot start here")
		}
		if err != nil {
			return nil, err
		}
		block.Stmts = append(block.Stmts, stmt)
		if err := p.expectTerminator(); err != nil {
			return nil, err
		}
	}
}

// parseIf parses the rest of  if expression block ("else" (ifStmt | block))?
// The "if" keyword has already been consumed.
func (p *Parser) parseIf() (Stmt, error) {
	cond, err := p.parseExprRequired()
	if err != nil {
		return nil, err
	}
	body, err := p.expectBlock()
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Condition: cond, Body: body}

	if p.lex.Peek().Type != ELSE {
		return stmt, nil
	}
	if err := p.lex.Consume(); err != nil {
		return nil, err
	}
	tok := p.lex.Peek()
	switch tok.Type {
	case IF:
		if err := p.lex.Consume(); err != nil {
			return nil, err
		}
		elseIf, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseIf
	case LBRACE:
		if err := p.lex.Consume(); err != nil {
			return nil, err
		}
		elseBlock, err := p.parseBlockRest()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	default:
		return nil, p.syntaxErr(ErrExpectedBlock, tok, "`else` must be followed by a block or another `if`")
	}
	return stmt, nil
}

func (p *Parser) expectBlock() (*BlockStmt, error) {
	tok, err := p.peekChecked()
	if err != nil {
		return nil, err
	}
	if tok.Type != LBRACE {
		return nil, p.syntaxErr(ErrExpectedBlock, tok, "")
	}
	if err := p.lex.Consume(); err != nil {
		return nil, err
	}
	return p.parseBlockRest()
}

// parseAssignOrExprStmt parses a full expression and turns it into an
// assignment when an "=" follows. The left side must then reduce to a
// bare identifier; anything else is a user-visible error, not a retry.
func (p *Parser) parseAssignOrExprStmt() (Stmt, error) {
	expr, err := p.parseExprMin(1)
	if err != nil {
		return nil, err
	}
	if p.lex.Peek().Type != ASSIGN {
		return &ExprStmt{Expr: expr}, nil
	}
	if err := p.lex.Consume(); err != nil {
		return nil, err
	}
	target, ok := AsAssignTarget(expr)
	if !ok {
		return nil, &SemanticError{Kind: ErrInvalidAssignTarget, Loc: exprLoc(expr)}
	}
	value, err := p.parseExprRequired()
	if err != nil {
		return nil, err
	}
	return &AssignStmt{Target: target, Value: value}, nil
}

// parseExprRequired parses an expression in a position where one must
// appear, converting the internal no-match signal into a located error.
func (p *Parser) parseExprRequired() (Expr, error) {
	expr, err := p.parseExprMin(1)
	if errors.Is(err, errNoMatch) {
		return nil, p.syntaxErr(ErrExpectedExpression, p.lex.Peek(), "")
	}
	return expr, err
}

// parseExprMin is the precedence climber: it greedily consumes operators
// at or above minPrec, recursing at prec+1 for the left-associative
// arithmetic operators and at prec for the comparisons, which associate
// to the right.
func (p *Parser) parseExprMin(minPrec int) (Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.lex.Peek()
		prec, isOp := precedence[tok.Type]
		if !isOp || prec < minPrec {
			return left, nil
		}
		if err := p.lex.Consume(); err != nil {
			return nil, err
		}
		nextMin := prec + 1
		if prec == comparisonPrec {
			nextMin = prec
		}
		right, err := p.parseExprMin(nextMin)
		if errors.Is(err, errNoMatch) {
			return nil, p.syntaxErr(ErrExpectedExpression, p.lex.Peek(), "operator is missing its right operand")
		}
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: tok.Type, Left: left, Right: right}
	}
}

// parseTerm parses a single term. When the current token cannot start a
// term it reports errNoMatch without consuming, so callers can either try
// another production or raise an expected-expression error.
func (p *Parser) parseTerm() (Expr, error) {
	tok := p.lex.Peek()
	switch tok.Type {
	case IDENTIFIER:
		if err := p.lex.Consume(); err != nil {
			return nil, err
		}
		return &Ident{Name: tok.Lexeme, Loc: tok.Start}, nil
	case INTEGER:
		if err := p.lex.Consume(); err != nil {
			return nil, err
		}
		return &IntLit{Lexeme: tok.Lexeme, Loc: tok.Start}, nil
	case MINUS:
		if err := p.lex.Consume(); err != nil {
			return nil, err
		}
		operand, err := p.parseTerm()
		if errors.Is(err, errNoMatch) {
			return nil, p.syntaxErr(ErrExpectedExpression, p.lex.Peek(), "`-` is missing its operand")
		}
		if err != nil {
			return nil, err
		}
		return &Neg{Operand: operand}, nil
	case LPAREN:
		if err := p.lex.Consume(); err != nil {
			return nil, err
		}
		p.lex.EnterParen()
		inner, err := p.parseExprMin(1)
		if errors.Is(err, errNoMatch) {
			return nil, p.syntaxErr(ErrExpectedExpression, p.lex.Peek(), "")
		}
		if err != nil {
			return nil, err
		}
		closing, err := p.peekChecked()
		if err != nil {
			return nil, err
		}
		if closing.Type != RPAREN {
			return nil, p.syntaxErr(ErrUnexpectedToken, closing, "expected `)`")
		}
		if err := p.lex.Consume(); err != nil {
			return nil, err
		}
		p.lex.LeaveParen()
		return &Group{Inner: inner}, nil
	case ILLEGAL:
		return nil, p.lex.Consume()
	default:
		return nil, errNoMatch
	}
}

// exprLoc returns the location of the leftmost leaf of e.
func exprLoc(e Expr) Location {
	switch n := e.(type) {
	case *Ident:
		return n.Loc
	case *IntLit:
		return n.Loc
	case *Neg:
		return exprLoc(n.Operand)
	case *Group:
		return exprLoc(n.Inner)
	case *Binary:
		return exprLoc(n.Left)
	}
	return Location{}
}
