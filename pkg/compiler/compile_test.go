package compiler

import (
	"errors"
	"strings"
	"testing"
)

func TestCompileProducesAssembly(t *testing.T) {
	out, err := Compile("let a = 3\nlet b = 4\nexit a + b")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !strings.Contains(out, "call ExitProcess") {
		t.Errorf("assembly has no termination call:\n%s", out)
	}
}

// TestCompileStopsAtFirstFailingPass checks the propagation policy: the
// first error wins and no later pass runs on a rejected AST.
func TestCompileStopsAtFirstFailingPass(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target any
	}{
		{"Lex Error", "let x = 1 ? 2", new(*LexError)},
		{"Syntax Error", "let = 5", new(*SyntaxError)},
		{"Semantic Error", "exit nowhere", new(*SemanticError)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Compile(tt.src)
			if err == nil {
				t.Fatalf("Compile(%q) succeeded unexpectedly", tt.src)
			}
			if out != "" {
				t.Errorf("Compile(%q) produced partial output", tt.src)
			}
			var matched bool
			switch target := tt.target.(type) {
			case **LexError:
				matched = errors.As(err, target)
			case **SyntaxError:
				matched = errors.As(err, target)
			case **SemanticError:
				matched = errors.As(err, target)
			}
			if !matched {
				t.Errorf("Compile(%q) error = %v (%T), want %T", tt.src, err, err, tt.target)
			}
		})
	}
}
