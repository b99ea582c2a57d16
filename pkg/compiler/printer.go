package compiler

import (
	"fmt"
	"strings"
)

// FormatProgram renders prog back to source form: one statement per
// line, nested blocks indented, parentheses only where the source had
// them (Group nodes). Re-parsing the result reproduces the tree.
func FormatProgram(prog *Program) string {
	var sb strings.Builder
	for _, stmt := range prog.Stmts {
		writeStmt(&sb, stmt, 0)
	}
	return sb.String()
}

const indentUnit = "    "

func writeStmt(sb *strings.Builder, s Stmt, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	switch n := s.(type) {
	case *DeclareStmt:
		fmt.Fprintf(sb, "%slet %s\n", indent, n.Name.Name)
	case *InitStmt:
		fmt.Fprintf(sb, "%slet %s = %s\n", indent, n.Name.Name, formatExpr(n.Value))
	case *AssignStmt:
		fmt.Fprintf(sb, "%s%s = %s\n", indent, n.Target.Name, formatExpr(n.Value))
	case *ExprStmt:
		fmt.Fprintf(sb, "%s%s\n", indent, formatExpr(n.Expr))
	case *ExitStmt:
		fmt.Fprintf(sb, "%sexit %s\n", indent, formatExpr(n.Expr))
	case *BlockStmt:
		fmt.Fprintf(sb, "%s{\n", indent)
		for _, inner := range n.Stmts {
			writeStmt(sb, inner, depth+1)
		}
		fmt.Fprintf(sb, "%s}\n", indent)
	case *IfStmt:
		sb.WriteString(indent)
		writeIf(sb, n, depth)
		sb.WriteByte('\n')
	}
}

// writeIf renders an if statement including any else-if chain, without
// the leading indent or trailing newline (the chain shares one line
// structure: "} else if cond {").
func writeIf(sb *strings.Builder, n *IfStmt, depth int) {
	indent := strings.Repeat(indentUnit, depth)
	fmt.Fprintf(sb, "if %s {\n", formatExpr(n.Condition))
	for _, inner := range n.Body.Stmts {
		writeStmt(sb, inner, depth+1)
	}
	sb.WriteString(indent)
	sb.WriteString("}")

	switch e := n.Else.(type) {
	case nil:
	case *IfStmt:
		sb.WriteString(" else ")
		writeIf(sb, e, depth)
	case *BlockStmt:
		sb.WriteString(" else {\n")
		for _, inner := range e.Stmts {
			writeStmt(sb, inner, depth+1)
		}
		sb.WriteString(indent)
		sb.WriteString("}")
	}
}

func formatExpr(e Expr) string {
	switch n := e.(type) {
	case *Ident:
		return n.Name
	case *IntLit:
		return n.Lexeme
	case *Neg:
		return "-" + formatExpr(n.Operand)
	case *Group:
		return "(" + formatExpr(n.Inner) + ")"
	case *Binary:
		return fmt.Sprintf("%s %s %s", formatExpr(n.Left), opLexemes[n.Op], formatExpr(n.Right))
	}
	return ""
}
