// Package compiler implements the slate language: a small imperative
// language with let bindings, blocks, if/else chains, and an exit
// statement, lowered to nasm-flavoured x86-64 assembly text.
//
// Pipeline: source -> Parse -> Resolve -> Generate -> assembly text
package compiler
