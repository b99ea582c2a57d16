package compiler

// Compile runs the whole pipeline over src: lex and parse, resolve, then
// generate. The first error in textual order wins; a later pass is never
// run on an AST an earlier pass rejected.
func Compile(src string) (string, error) {
	prog, err := Parse(src)
	if err != nil {
		return "", err
	}
	if err := Resolve(prog); err != nil {
		return "", err
	}
	return Generate(prog)
}
