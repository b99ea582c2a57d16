package main

import (
	"fmt"
	"os"

	"slate/pkg/compiler"
	"slate/pkg/toolchain"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: slatec <source-file>")
		os.Exit(1)
	}
	path := os.Args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}
	src := string(data)

	prog, err := compiler.Parse(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", err)
		os.Exit(1)
	}

	fmt.Println("AST")
	fmt.Print(compiler.FormatProgram(prog))
	fmt.Println()

	if err := compiler.Resolve(prog); err != nil {
		fmt.Fprintln(os.Stderr, "semantic error:", err)
		os.Exit(1)
	}

	assembly, err := compiler.Generate(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	asmPath, _, _ := toolchain.Paths(path)
	if err := os.WriteFile(asmPath, []byte(assembly), 0o644); err != nil {
		fmt.Fprintln(os.Stderr, "write error:", err)
		os.Exit(1)
	}
	fmt.Println("wrote", asmPath)

	if err := toolchain.Build(asmPath); err != nil {
		fmt.Fprintln(os.Stderr, "toolchain error:", err)
		os.Exit(1)
	}
}
