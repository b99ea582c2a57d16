package compiler

import "unicode"

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"let":  LET,
	"exit": EXIT,
	"if":   IF,
	"else": ELSE,
}

// Lexer scans src one token at a time. The parser drives it through
// Peek/Consume/Rewind: Peek is idempotent, Consume advances past the
// current token, and Rewind steps back exactly one token, forcing that
// token to be lexed again on the next Peek (so a newline-mode change
// between Consume and Rewind takes effect).
//
// Outside parentheses a newline is a statement terminator and is emitted
// as a NEWLINE token; inside parentheses it is ordinary whitespace. The
// parser maintains the nesting via EnterParen/LeaveParen.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based source column

	parenDepth int // >0: newlines are insignificant

	cur    Token
	hasCur bool

	// scanner state at the start of cur, for Rewind
	tokPos, tokLine, tokCol int

	// scanner state at the start of the last consumed token
	rwPos, rwLine, rwCol int
	canRewind            bool
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{src: []rune(src), line: 1, col: 1}
}

// Peek returns the current token without consuming it.
func (l *Lexer) Peek() Token {
	if !l.hasCur {
		l.cur = l.scan()
		l.hasCur = true
	}
	return l.cur
}

// Consume advances past the current token. It returns a *LexError when
// that token is ILLEGAL; the cursor still advances so callers decide
// whether to stop.
func (l *Lexer) Consume() error {
	tok := l.Peek()
	l.rwPos, l.rwLine, l.rwCol = l.tokPos, l.tokLine, l.tokCol
	l.canRewind = true
	l.hasCur = false
	if tok.Type == ILLEGAL {
		return &LexError{Loc: tok.Start, Lexeme: tok.Lexeme}
	}
	return nil
}

// Rewind moves the read cursor back to the start of the last consumed
// token. Only one token of rewind is supported; a second call before the
// next Consume does nothing.
func (l *Lexer) Rewind() {
	if !l.canRewind {
		return
	}
	l.pos, l.line, l.col = l.rwPos, l.rwLine, l.rwCol
	l.hasCur = false
	l.canRewind = false
}

// IsEOF reports whether the cursor has reached end of input.
func (l *Lexer) IsEOF() bool {
	return l.Peek().Type == EOF
}

// EnterParen suspends newline significance until the matching LeaveParen.
func (l *Lexer) EnterParen() {
	l.parenDepth++
}

// LeaveParen restores newline significance when the outermost pair closes.
func (l *Lexer) LeaveParen() {
	if l.parenDepth > 0 {
		l.parenDepth--
	}
}

// peekCh returns the rune at the current position without advancing.
func (l *Lexer) peekCh() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peekCh2 returns the rune one position ahead of the current position.
func (l *Lexer) peekCh2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) {
		r := l.peekCh()
		if r == '\n' && l.parenDepth == 0 {
			return // significant: emitted as a NEWLINE token
		}
		if !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

func (l *Lexer) here() Location {
	return Location{Line: l.line, Col: l.col}
}

// scanIdent collects a full identifier or keyword token.
// The first character (letter or '_') must still be at l.peekCh().
func (l *Lexer) scanIdent() Token {
	start := l.here()
	begin := l.pos
	for l.pos < len(l.src) {
		r := l.peekCh()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}
		l.advance()
	}
	lexeme := string(l.src[begin:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Start: start, End: l.here()}
}

// scanInt collects a decimal integer literal.
// The first digit must still be at l.peekCh().
func (l *Lexer) scanInt() Token {
	start := l.here()
	begin := l.pos
	for l.pos < len(l.src) && unicode.IsDigit(l.peekCh()) {
		l.advance()
	}
	return Token{Type: INTEGER, Lexeme: string(l.src[begin:l.pos]), Start: start, End: l.here()}
}

// scan skips whitespace and returns the next token. It never fails:
// unclassifiable characters come back as ILLEGAL tokens and the error
// surfaces when they are consumed.
func (l *Lexer) scan() Token {
	l.skipWhitespace()
	l.tokPos, l.tokLine, l.tokCol = l.pos, l.line, l.col

	if l.pos >= len(l.src) {
		return Token{Type: EOF, Lexeme: "", Start: l.here(), End: l.here()}
	}

	ch := l.peekCh()
	start := l.here()

	if unicode.IsLetter(ch) || ch == '_' {
		return l.scanIdent()
	}
	if unicode.IsDigit(ch) {
		return l.scanInt()
	}

	// two-character operators before their one-character prefixes
	type pair struct {
		first, second rune
		tt            TokenType
	}
	for _, p := range []pair{
		{'=', '=', EQUALS},
		{'!', '=', NOT_EQ},
		{'<', '=', LESS_EQ},
		{'>', '=', GREATER_EQ},
	} {
		if ch == p.first && l.peekCh2() == p.second {
			l.advance()
			l.advance()
			return Token{Type: p.tt, Lexeme: string([]rune{p.first, p.second}), Start: start, End: l.here()}
		}
	}

	l.advance()
	single := map[rune]TokenType{
		'\n': NEWLINE,
		'{':  LBRACE,
		'}':  RBRACE,
		'(':  LPAREN,
		')':  RPAREN,
		'=':  ASSIGN,
		'+':  PLUS,
		'-':  MINUS,
		'*':  STAR,
		'/':  SLASH,
		'<':  LESS,
		'>':  GREATER,
	}
	if tt, ok := single[ch]; ok {
		return Token{Type: tt, Lexeme: string(ch), Start: start, End: l.here()}
	}
	return Token{Type: ILLEGAL, Lexeme: string(ch), Start: start, End: l.here()}
}

// LexAll tokenises src eagerly and returns all tokens including the final
// EOF token, treating every newline as significant. It exists for token
// dumps and tests; the parser drives the Lexer lazily instead.
func LexAll(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok := l.Peek()
		if err := l.Consume(); err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}
