// Package toolchain wraps the external assembler and linker that turn
// generated assembly text into an executable.
package toolchain

import (
	"fmt"
	"os/exec"
	"strings"
)

// linkFiles are handed to the linker so the ExitProcess extern resolves.
var linkFiles = []string{"C:/windows/system32/kernel32.dll"}

// Paths derives the artifact names the toolchain produces for a source
// file: <path>.asm, <path>.obj, <path>.exe.
func Paths(sourcePath string) (asmPath, objPath, exePath string) {
	return sourcePath + ".asm", sourcePath + ".obj", sourcePath + ".exe"
}

// Build assembles asmPath with nasm and links the object into an
// executable without a C runtime. Artifact names are derived from
// asmPath by swapping the extension.
func Build(asmPath string) error {
	base := strings.TrimSuffix(asmPath, ".asm")
	objPath := base + ".obj"
	exePath := base + ".exe"

	if out, err := exec.Command("nasm", "-f", "win64", asmPath, "-o", objPath).CombinedOutput(); err != nil {
		return fmt.Errorf("nasm: %w\n%s", err, out)
	}

	args := []string{"-g", "-nostdlib", "-o", exePath, objPath}
	args = append(args, linkFiles...)
	if out, err := exec.Command("gcc", args...).CombinedOutput(); err != nil {
		return fmt.Errorf("link: %w\n%s", err, out)
	}
	return nil
}
