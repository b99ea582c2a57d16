package compiler

import (
	"fmt"
	"strings"
)

// LabelAllocator maps a symbolic base name to a monotonically increasing
// counter so that repeated control-flow constructs never collide.
type LabelAllocator struct {
	counts map[string]int
}

// Next returns "<base>_<n>" and bumps the counter for base.
func (a *LabelAllocator) Next(base string) string {
	if a.counts == nil {
		a.counts = make(map[string]int)
	}
	n := a.counts[base]
	a.counts[base]++
	return fmt.Sprintf("%s_%d", base, n)
}

// CodeGen walks a resolved AST and emits nasm-flavoured x86-64 text.
//
// Expression protocol: every genExpr call leaves exactly one value pushed
// on the runtime stack and consumes nothing below what it pushed.
type CodeGen struct {
	out    strings.Builder
	labels LabelAllocator
}

// Generate lowers a resolved program to a complete assembly translation
// unit. The label counters start fresh, so generating twice from the same
// AST produces byte-identical text.
func Generate(prog *Program) (string, error) {
	cg := &CodeGen{}
	cg.raw("default rel")
	cg.raw("global _start")
	cg.raw("extern ExitProcess")
	cg.raw("section .text")

	cg.label("_start")
	cg.line("mov rbp, rsp")

	for _, stmt := range prog.Stmts {
		if err := cg.genStmt(stmt); err != nil {
			return "", err
		}
	}

	cg.line("")
	cg.comment("exit 0")
	cg.line("xor rcx, rcx")
	cg.line("call ExitProcess")
	return cg.out.String(), nil
}

func (cg *CodeGen) raw(s string) {
	cg.out.WriteString(s)
	cg.out.WriteByte('\n')
}

func (cg *CodeGen) line(format string, args ...any) {
	cg.out.WriteString("    ")
	fmt.Fprintf(&cg.out, format, args...)
	cg.out.WriteByte('\n')
}

func (cg *CodeGen) comment(format string, args ...any) {
	cg.line("; "+format, args...)
}

func (cg *CodeGen) label(name string) {
	cg.out.WriteString(name)
	cg.out.WriteString(":\n")
}

// setcc maps a comparison operator to the flag-materialising instruction
// whose byte result is masked back into rax.
var setcc = map[TokenType]string{
	EQUALS:     "sete",
	NOT_EQ:     "setne",
	LESS:       "setl",
	LESS_EQ:    "setle",
	GREATER:    "setg",
	GREATER_EQ: "setge",
}

func (cg *CodeGen) genStmt(s Stmt) error {
	switch n := s.(type) {
	case *DeclareStmt:
		sym := n.Name.Sym
		if sym == nil {
			return fmt.Errorf("codegen: unresolved declaration of %q", n.Name.Name)
		}
		cg.line("")
		cg.comment("let %s", sym.Name)
		cg.line("sub rsp, %d", sym.Size)
		return nil

	case *InitStmt:
		sym := n.Name.Sym
		if sym == nil {
			return fmt.Errorf("codegen: unresolved initialization of %q", n.Name.Name)
		}
		if err := cg.genExpr(n.Value); err != nil {
			return err
		}
		cg.line("")
		cg.comment("let %s = %s", sym.Name, n.Value)
		cg.line("pop rax")
		cg.line("sub rsp, %d", sym.Size)
		cg.line("mov qword [rbp-%d], rax", sym.Offset)
		return nil

	case *AssignStmt:
		sym := n.Target.Sym
		if sym == nil {
			return fmt.Errorf("codegen: unresolved assignment to %q", n.Target.Name)
		}
		if err := cg.genExpr(n.Value); err != nil {
			return err
		}
		cg.line("")
		cg.comment("%s = %s", sym.Name, n.Value)
		cg.line("pop rax")
		cg.line("mov qword [rbp-%d], rax", sym.Offset)
		return nil

	case *ExprStmt:
		if err := cg.genExpr(n.Expr); err != nil {
			return err
		}
		// net stack effect of a statement is zero: discard the value
		cg.comment("discard %s", n.Expr)
		cg.line("pop rax")
		return nil

	case *BlockStmt:
		cg.comment("{")
		for _, stmt := range n.Stmts {
			if err := cg.genStmt(stmt); err != nil {
				return err
			}
		}
		cg.comment("}")
		return nil

	case *IfStmt:
		return cg.genIf(n)

	case *ExitStmt:
		if err := cg.genExpr(n.Expr); err != nil {
			return err
		}
		cg.line("")
		cg.comment("exit %s", n.Expr)
		cg.line("pop rax")
		cg.line("mov rcx, rax")
		cg.line("call ExitProcess")
		return nil

	default:
		return fmt.Errorf("codegen: unknown statement %T", s)
	}
}

func (cg *CodeGen) genIf(n *IfStmt) error {
	if n.Else == nil {
		endLabel := cg.labels.Next("end_if")

		if err := cg.genExpr(n.Condition); err != nil {
			return err
		}
		cg.comment("%s == 0", n.Condition)
		cg.line("pop rax")
		cg.line("test rax, rax")
		cg.line("jz %s", endLabel)

		cg.comment("if")
		if err := cg.genStmt(n.Body); err != nil {
			return err
		}
		cg.label(endLabel)
		return nil
	}

	elseStart := cg.labels.Next("else_start")
	elseEnd := cg.labels.Next("else_end")

	if err := cg.genExpr(n.Condition); err != nil {
		return err
	}
	cg.comment("%s == 0", n.Condition)
	cg.line("pop rax")
	cg.line("test rax, rax")
	cg.line("jz %s", elseStart)

	cg.comment("if")
	if err := cg.genStmt(n.Body); err != nil {
		return err
	}
	cg.line("jmp %s", elseEnd)

	cg.label(elseStart)
	switch e := n.Else.(type) {
	case *BlockStmt:
		cg.comment("else")
		if err := cg.genStmt(e); err != nil {
			return err
		}
	case *IfStmt:
		cg.comment("else if")
		if err := cg.genIf(e); err != nil {
			return err
		}
	default:
		return fmt.Errorf("codegen: unknown else arm %T", n.Else)
	}
	cg.label(elseEnd)
	return nil
}

func (cg *CodeGen) genExpr(e Expr) error {
	switch n := e.(type) {
	case *Ident:
		sym := n.Sym
		if sym == nil {
			return fmt.Errorf("codegen: unresolved identifier %q", n.Name)
		}
		cg.line("")
		cg.comment("%s", sym.Name)
		cg.line("push qword [rbp-%d]", sym.Offset)
		return nil

	case *IntLit:
		cg.line("")
		cg.comment("%s", n.Lexeme)
		cg.line("mov rax, %s", n.Lexeme)
		cg.line("push rax")
		return nil

	case *Neg:
		if err := cg.genExpr(n.Operand); err != nil {
			return err
		}
		cg.line("pop rax")
		cg.comment("%s", n)
		cg.line("neg rax")
		cg.line("push rax")
		return nil

	case *Group:
		return cg.genExpr(n.Inner)

	case *Binary:
		return cg.genBinary(n)

	default:
		return fmt.Errorf("codegen: unknown expression %T", e)
	}
}

// genBinary emits both operands, pops them into rbx (right) and rax
// (left), applies the operation and pushes the result.
func (cg *CodeGen) genBinary(n *Binary) error {
	if err := cg.genExpr(n.Left); err != nil {
		return err
	}
	if err := cg.genExpr(n.Right); err != nil {
		return err
	}
	cg.line("")
	cg.comment("%s", n)
	cg.line("pop rbx")
	cg.line("pop rax")

	switch n.Op {
	case PLUS:
		cg.line("add rax, rbx")
	case MINUS:
		cg.line("sub rax, rbx")
	case STAR:
		cg.line("mul rbx")
	case SLASH:
		cg.line("xor rdx, rdx")
		cg.line("div rbx")
	case EQUALS, NOT_EQ, LESS, LESS_EQ, GREATER, GREATER_EQ:
		cg.line("cmp rax, rbx")
		cg.line("%s al", setcc[n.Op])
		cg.line("and rax, 255")
	default:
		return fmt.Errorf("codegen: unknown binary operator %s", n.Op)
	}

	cg.line("push rax")
	return nil
}
