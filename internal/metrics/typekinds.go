package metrics

// typeOnlyKinds are CST node kinds that carry type information only and
// must be skipped whole (the subtree is never descended into) so that a
// TypeScript-annotated function produces identical Halstead and duplication
// token counts to its untyped JavaScript equivalent. The kind names are
// grammar-dependent (tree-sitter-typescript); a grammar upgrade that
// renames or adds type kinds requires updating this set.
var typeOnlyKinds = map[string]bool{
	"type_annotation":        true,
	"type_identifier":        true,
	"generic_type":           true,
	"predefined_type":        true,
	"union_type":             true,
	"intersection_type":      true,
	"array_type":             true,
	"object_type":            true,
	"tuple_type":             true,
	"function_type":          true,
	"readonly_type":          true,
	"type_query":             true,
	"interface_declaration":  true,
	"type_alias_declaration": true,
	"type_parameters":        true,
	"type_arguments":         true,
	"type_parameter":         true,
}

// IsTypeOnly reports whether kind is a type-only CST node kind whose whole
// subtree should be skipped.
func IsTypeOnly(kind string) bool {
	return typeOnlyKinds[kind]
}

// IsTypeCoercion reports whether kind is an `as`/`satisfies` expression.
// Unlike the purely type-only kinds, these nodes wrap a real expression
// alongside their type operand: skipping the whole subtree would also drop
// the wrapped expression's operators/operands, breaking the invariant that
// a TypeScript function and its untyped JavaScript equivalent (with the
// trailing `as T` / `satisfies T` simply deleted) produce identical
// Halstead and token counts. Callers descend into every child except the
// `as`/`satisfies` keyword and the type operand itself.
func IsTypeCoercion(kind string) bool {
	return kind == "as_expression" || kind == "satisfies_expression"
}
