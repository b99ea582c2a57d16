package compiler

import "fmt"

//  Expression nodes

// Expr is implemented by every node that produces a value.
// genExpr always leaves the result pushed on the runtime stack.
type Expr interface {
	exprNode()
	String() string
}

// opLexemes maps operator token types back to their source spelling.
var opLexemes = map[TokenType]string{
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	EQUALS:     "==",
	NOT_EQ:     "!=",
	LESS:       "<",
	LESS_EQ:    "<=",
	GREATER:    ">",
	GREATER_EQ: ">=",
}

// IntLit is a compile-time integer constant.
//
//	let x = 10
//	        ^^  IntLit{Lexeme: "10"}
type IntLit struct {
	Lexeme string
	Loc    Location
}

func (*IntLit) exprNode()        {}
func (l *IntLit) String() string { return l.Lexeme }

// Ident is a read of (or a binding for) a named variable.
// Sym is nil until the resolver decorates the node.
type Ident struct {
	Name string
	Loc  Location
	Sym  *Symbol
}

func (*Ident) exprNode()        {}
func (v *Ident) String() string { return v.Name }

// Neg is the arithmetic negation of a term.
type Neg struct {
	Operand Expr
}

func (*Neg) exprNode()        {}
func (n *Neg) String() string { return fmt.Sprintf("(-%s)", n.Operand) }

// Group is a parenthesized sub-expression. It is kept as its own node so
// that printing a parsed program reproduces the source's grouping.
type Group struct {
	Inner Expr
}

func (*Group) exprNode()        {}
func (g *Group) String() string { return fmt.Sprintf("(%s)", g.Inner) }

// Binary represents Left Op Right.
type Binary struct {
	Op    TokenType
	Left  Expr
	Right Expr
}

func (*Binary) exprNode() {}
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, opLexemes[b.Op], b.Right)
}

// AsAssignTarget reduces an expression to an assignable location.
// Only a bare identifier qualifies; a parenthesized identifier does not.
func AsAssignTarget(e Expr) (*Ident, bool) {
	id, ok := e.(*Ident)
	return id, ok
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	String() string
}

// DeclareStmt represents  let name
type DeclareStmt struct {
	Name *Ident
}

func (*DeclareStmt) stmtNode()        {}
func (d *DeclareStmt) String() string { return fmt.Sprintf("Declare(%s)", d.Name) }

// InitStmt represents  let name = expr
type InitStmt struct {
	Name  *Ident
	Value Expr
}

func (*InitStmt) stmtNode() {}
func (d *InitStmt) String() string {
	return fmt.Sprintf("Init(%s = %s)", d.Name, d.Value)
}

// AssignStmt represents  target = expr  where target is an lvalue.
type AssignStmt struct {
	Target *Ident
	Value  Expr
}

func (*AssignStmt) stmtNode() {}
func (a *AssignStmt) String() string {
	return fmt.Sprintf("Assign(%s = %s)", a.Target, a.Value)
}

// ExprStmt represents an expression evaluated and discarded.
type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return fmt.Sprintf("ExprStmt(%s)", e.Expr) }

// BlockStmt represents { statement* } and opens a nested scope.
type BlockStmt struct {
	Stmts []Stmt
}

func (*BlockStmt) stmtNode()        {}
func (b *BlockStmt) String() string { return fmt.Sprintf("BlockStmt(len=%d)", len(b.Stmts)) }

// IfStmt represents if cond body [else elseBody].
// Else is nil, another *IfStmt (an else-if chain), or a *BlockStmt.
type IfStmt struct {
	Condition Expr
	Body      *BlockStmt
	Else      Stmt
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.Else != nil {
		return fmt.Sprintf("IfStmt(if %s then %s else %s)", i.Condition, i.Body, i.Else)
	}
	return fmt.Sprintf("IfStmt(if %s then %s)", i.Condition, i.Body)
}

// ExitStmt represents  exit expr
type ExitStmt struct {
	Expr Expr
}

func (*ExitStmt) stmtNode()        {}
func (e *ExitStmt) String() string { return fmt.Sprintf("ExitStmt(%s)", e.Expr) }

// Program is the ordered sequence of top-level statements.
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string { return fmt.Sprintf("Program(len=%d)", len(p.Stmts)) }
