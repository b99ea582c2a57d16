package compiler

import "fmt"

// symbolSize is the frame size of every binding; the language has a
// single integer-like value type.
const symbolSize = 8

// Symbol is the resolved record for one binding. Name is decorated with
// the binding's shadow generation ("x" declared twice yields x_1, x_2),
// Offset is its distance below the frame base.
type Symbol struct {
	Name        string
	Size        int
	Offset      int
	Initialized bool
}

func (s *Symbol) String() string {
	state := "uninitialized"
	if s.Initialized {
		state = "initialized"
	}
	return fmt.Sprintf("%s @ [rbp-%d] (%s)", s.Name, s.Offset, state)
}

// scope is one link of the lexical chain. Scopes live in a flat arena on
// the Resolver; parent is an index into that arena, -1 at top level, so
// no scope ever holds a pointer into another.
type scope struct {
	parent  int
	symbols map[string]*Symbol // decorated name -> symbol
	gens    map[string]int     // undecorated name -> newest generation here
}

// Resolver walks the program in order, validating identifier usage and
// assigning frame slots. It decorates Ident nodes with their *Symbol and
// stops at the first semantic error.
//
// Generation rule: a use resolves against the nearest enclosing scope
// that has a generation counter for the name; a new declaration starts at
// one past the nearest visible counter. Frame offsets come from a single
// per-run allocator and grow by symbolSize per binding, never reused,
// matching a stack that only grows.
type Resolver struct {
	scopes     []scope
	cur        int
	nextOffset int
}

// Resolve runs the resolver over prog.
func Resolve(prog *Program) error {
	r := &Resolver{cur: -1}
	r.enterScope()
	for _, stmt := range prog.Stmts {
		if err := r.resolveStmt(stmt); err != nil {
			return err
		}
	}
	r.leaveScope()
	return nil
}

func (r *Resolver) enterScope() {
	r.scopes = append(r.scopes, scope{
		parent:  r.cur,
		symbols: make(map[string]*Symbol),
		gens:    make(map[string]int),
	})
	r.cur = len(r.scopes) - 1
}

func (r *Resolver) leaveScope() {
	r.cur = r.scopes[r.cur].parent
}

// visibleGen returns the newest generation of name visible from the
// current scope, 0 when the name has never been declared in the chain.
func (r *Resolver) visibleGen(name string) int {
	for i := r.cur; i >= 0; i = r.scopes[i].parent {
		if g, ok := r.scopes[i].gens[name]; ok {
			return g
		}
	}
	return 0
}

// declare registers a new binding for id in the current scope, consuming
// the next shadow generation and the next frame slot. Re-declaring a name
// is always legal: it produces a fresh generation, never an error.
func (r *Resolver) declare(id *Ident, initialized bool) *Symbol {
	gen := r.visibleGen(id.Name) + 1
	r.scopes[r.cur].gens[id.Name] = gen
	r.nextOffset += symbolSize
	sym := &Symbol{
		Name:        fmt.Sprintf("%s_%d", id.Name, gen),
		Size:        symbolSize,
		Offset:      r.nextOffset,
		Initialized: initialized,
	}
	r.scopes[r.cur].symbols[sym.Name] = sym
	id.Sym = sym
	return sym
}

// lookup resolves name to the symbol of its newest visible generation,
// or nil when no declaration is visible.
func (r *Resolver) lookup(name string) *Symbol {
	gen := r.visibleGen(name)
	if gen == 0 {
		return nil
	}
	decorated := fmt.Sprintf("%s_%d", name, gen)
	for i := r.cur; i >= 0; i = r.scopes[i].parent {
		if sym, ok := r.scopes[i].symbols[decorated]; ok {
			return sym
		}
	}
	return nil
}

func (r *Resolver) resolveStmt(s Stmt) error {
	switch n := s.(type) {
	case *DeclareStmt:
		r.declare(n.Name, false)
		return nil
	case *InitStmt:
		// the initializer is resolved first so that a self-reference
		// to the brand-new binding is caught
		if err := r.resolveExpr(n.Value); err != nil {
			return err
		}
		r.declare(n.Name, true)
		return nil
	case *AssignStmt:
		if err := r.resolveExpr(n.Value); err != nil {
			return err
		}
		sym := r.lookup(n.Target.Name)
		if sym == nil {
			return &SemanticError{Kind: ErrUndeclaredIdent, Name: n.Target.Name, Loc: n.Target.Loc}
		}
		sym.Initialized = true
		n.Target.Sym = sym
		return nil
	case *ExprStmt:
		return r.resolveExpr(n.Expr)
	case *BlockStmt:
		return r.resolveBlock(n)
	case *IfStmt:
		if err := r.resolveExpr(n.Condition); err != nil {
			return err
		}
		if err := r.resolveBlock(n.Body); err != nil {
			return err
		}
		if n.Else != nil {
			return r.resolveStmt(n.Else)
		}
		return nil
	case *ExitStmt:
		return r.resolveExpr(n.Expr)
	default:
		return fmt.Errorf("resolver: unknown statement %T", s)
	}
}

func (r *Resolver) resolveBlock(b *BlockStmt) error {
	r.enterScope()
	for _, stmt := range b.Stmts {
		if err := r.resolveStmt(stmt); err != nil {
			return err
		}
	}
	r.leaveScope()
	return nil
}

func (r *Resolver) resolveExpr(e Expr) error {
	switch n := e.(type) {
	case *IntLit:
		return nil
	case *Ident:
		sym := r.lookup(n.Name)
		if sym == nil {
			return &SemanticError{Kind: ErrUndeclaredIdent, Name: n.Name, Loc: n.Loc}
		}
		if !sym.Initialized {
			return &SemanticError{Kind: ErrUninitializedIdent, Name: n.Name, Loc: n.Loc}
		}
		n.Sym = sym
		return nil
	case *Neg:
		return r.resolveExpr(n.Operand)
	case *Group:
		return r.resolveExpr(n.Inner)
	case *Binary:
		if err := r.resolveExpr(n.Left); err != nil {
			return err
		}
		return r.resolveExpr(n.Right)
	default:
		return fmt.Errorf("resolver: unknown expression %T", e)
	}
}
