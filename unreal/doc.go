// Package unreal implements the Unreal language: a dynamically typed,
// C-family scripting language with exact decimal arithmetic. The engine
// supports:
//   - Declarations via `var` with optional `global`, `const`, `static` and a
//     type name such as `num_`, plus aliases written `var b <- a`.
//   - Literals for numbers, strings, format strings (`f"x={x}"`), bools,
//     none, lists, tuples, dicts and sets.
//   - Arithmetic, bitwise, comparison and logical operators, membership via
//     `in`, and type tests via `is` and `are`.
//   - Control flow with if/elif/else, switch with fallthrough, for, foreach,
//     while, loop and try/except.
//   - Functions with typed parameters, defaults, labelled arguments and
//     lexical closures.
//   - Built-ins such as print, input, execute and the isX predicates.
//
// Numbers are fixed-point decimals backed by math/big; division truncates
// at Config.MaxDecimalPlaces. Comments begin with `@`, and `@* ... *@`
// spans lines.
package unreal
