package compiler

import (
	"errors"
	"testing"
)

// resolve parses and resolves src, failing the test on any error.
func resolve(t *testing.T, src string) *Program {
	t.Helper()
	prog := parseStmts(t, src)
	if err := Resolve(prog); err != nil {
		t.Fatalf("Resolve(%q) error: %v", src, err)
	}
	return prog
}

func semErr(t *testing.T, src string) *SemanticError {
	t.Helper()
	prog := parseStmts(t, src)
	err := Resolve(prog)
	var semErr *SemanticError
	if !errors.As(err, &semErr) {
		t.Fatalf("Resolve(%q) error = %v, want *SemanticError", src, err)
	}
	return semErr
}

func TestShadowingInNestedScope(t *testing.T) {
	prog := resolve(t, "let x\n{\nlet x = 5\nexit x\n}")

	outer := prog.Stmts[0].(*DeclareStmt).Name.Sym
	if outer == nil {
		t.Fatal("outer declaration not decorated with a symbol")
	}
	if outer.Name != "x_1" || outer.Offset != 8 || outer.Initialized {
		t.Errorf("outer symbol = %v, want x_1 at offset 8, uninitialized", outer)
	}

	block := prog.Stmts[1].(*BlockStmt)
	inner := block.Stmts[0].(*InitStmt).Name.Sym
	if inner.Name != "x_2" || inner.Offset != 16 || !inner.Initialized {
		t.Errorf("inner symbol = %v, want x_2 at offset 16, initialized", inner)
	}

	// The use inside the block resolves to the inner binding.
	use := block.Stmts[1].(*ExitStmt).Expr.(*Ident)
	if use.Sym != inner {
		t.Errorf("inner use resolved to %v, want the inner binding %v", use.Sym, inner)
	}
}

func TestShadowedOuterStaysUninitialized(t *testing.T) {
	// The inner let initializes only the inner generation; reading the
	// outer x afterwards is still a use of an uninitialized identifier.
	got := semErr(t, "let x\n{\nlet x = 5\n}\nexit x")
	if got.Kind != ErrUninitializedIdent || got.Name != "x" {
		t.Errorf("error = %v, want uninitialized x", got)
	}
}

func TestSameScopeRedeclareIsLegal(t *testing.T) {
	prog := resolve(t, "let x = 1\nlet x = 2\nexit x")

	first := prog.Stmts[0].(*InitStmt).Name.Sym
	second := prog.Stmts[1].(*InitStmt).Name.Sym
	if first.Name != "x_1" || second.Name != "x_2" {
		t.Errorf("generations = %s, %s, want x_1, x_2", first.Name, second.Name)
	}
	if first.Offset == second.Offset {
		t.Errorf("re-declaration reused frame offset %d", first.Offset)
	}

	use := prog.Stmts[2].(*ExitStmt).Expr.(*Ident)
	if use.Sym != second {
		t.Errorf("use resolved to %v, want the newest generation %v", use.Sym, second)
	}
}

func TestSiblingScopesRestartGenerations(t *testing.T) {
	// A declaration starts at one past the nearest ENCLOSING counter it
	// can see; a discarded sibling scope is not visible.
	prog := resolve(t, "{\nlet x = 1\n}\n{\nlet x = 2\n}")

	first := prog.Stmts[0].(*BlockStmt).Stmts[0].(*InitStmt).Name.Sym
	second := prog.Stmts[1].(*BlockStmt).Stmts[0].(*InitStmt).Name.Sym
	if first.Name != "x_1" || second.Name != "x_1" {
		t.Errorf("generations = %s, %s, want x_1 in both sibling scopes", first.Name, second.Name)
	}
	// Frame slots are never reused, even when decorated names repeat.
	if first.Offset != 8 || second.Offset != 16 {
		t.Errorf("offsets = %d, %d, want 8 and 16", first.Offset, second.Offset)
	}
}

func TestFrameOffsetsStrictlyIncrease(t *testing.T) {
	prog := resolve(t, "let a\nlet b = 1\n{\nlet c = 2\n{\nlet d = 3\n}\nlet e = 4\n}\nlet f = 5")

	var offsets []int
	var walk func(stmts []Stmt)
	walk = func(stmts []Stmt) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *DeclareStmt:
				offsets = append(offsets, n.Name.Sym.Offset)
			case *InitStmt:
				offsets = append(offsets, n.Name.Sym.Offset)
			case *BlockStmt:
				walk(n.Stmts)
			}
		}
	}
	walk(prog.Stmts)

	if len(offsets) != 6 {
		t.Fatalf("found %d bindings, want 6", len(offsets))
	}
	for i, off := range offsets {
		want := (i + 1) * symbolSize
		if off != want {
			t.Errorf("binding %d: offset %d, want %d", i, off, want)
		}
	}
}

func TestUndeclaredIdent(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"Assign Before Declare", "x = 5"},
		{"Read Before Declare", "exit y"},
		{"Self Reference In Initializer", "let x = x"},
		{"Block Scope Does Not Leak", "{\nlet x = 1\n}\nexit x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := semErr(t, tt.src); got.Kind != ErrUndeclaredIdent {
				t.Errorf("Resolve(%q) kind = %v, want ErrUndeclaredIdent", tt.src, got.Kind)
			}
		})
	}
}

func TestUninitializedRead(t *testing.T) {
	got := semErr(t, "let x\nexit x")
	if got.Kind != ErrUninitializedIdent || got.Name != "x" {
		t.Errorf("error = %v, want uninitialized x", got)
	}
}

func TestAssignMarksInitialized(t *testing.T) {
	prog := resolve(t, "let x\nx = 3\nexit x")
	assign := prog.Stmts[1].(*AssignStmt)
	decl := prog.Stmts[0].(*DeclareStmt)
	if assign.Target.Sym != decl.Name.Sym {
		t.Errorf("assignment resolved to %v, want the declared binding", assign.Target.Sym)
	}
	if !decl.Name.Sym.Initialized {
		t.Error("assignment did not mark the binding initialized")
	}
}

func TestAssignToOuterScope(t *testing.T) {
	prog := resolve(t, "let x\n{\nx = 7\n}\nexit x")
	outer := prog.Stmts[0].(*DeclareStmt).Name.Sym
	inner := prog.Stmts[1].(*BlockStmt).Stmts[0].(*AssignStmt).Target.Sym
	if inner != outer {
		t.Errorf("inner assignment resolved to %v, want the outer binding %v", inner, outer)
	}
}

func TestResolverFailsFast(t *testing.T) {
	// The first error in program order is reported, not a later one.
	got := semErr(t, "exit a\nexit b")
	if got.Name != "a" {
		t.Errorf("first error names %q, want %q", got.Name, "a")
	}
}

func TestConditionResolvedBeforeArms(t *testing.T) {
	got := semErr(t, "if missing {\nexit alsoMissing\n}")
	if got.Name != "missing" {
		t.Errorf("first error names %q, want %q", got.Name, "missing")
	}
}
