package metrics

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// SwitchMode selects how a switch statement contributes to cyclomatic
// complexity.
type SwitchMode int

const (
	// SwitchClassic counts each non-default case arm once. Default.
	SwitchClassic SwitchMode = iota
	// SwitchModified counts the whole switch statement as one decision,
	// regardless of how many case arms it has.
	SwitchModified
)

// CyclomaticOptions configures how switch statements are counted. Every
// other decision-point kind always contributes and cannot be disabled.
type CyclomaticOptions struct {
	SwitchMode SwitchMode
}

// DefaultCyclomaticOptions is classic switch counting; every other
// decision point is always enabled.
var DefaultCyclomaticOptions = CyclomaticOptions{SwitchMode: SwitchClassic}

// Cyclomatic computes McCabe cyclomatic complexity for one function-like
// node: base 1, +1 per decision point, recursion stops at nested function
// boundaries.
func Cyclomatic(fn *tree_sitter.Node, content []byte, opts CyclomaticOptions) int {
	complexity := 1
	body := functionBody(fn)
	if body == nil {
		return complexity
	}

	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		kind := n.Kind()
		if isScopeBoundary(kind) {
			return
		}

		switch kind {
		case "if_statement", "while_statement", "do_statement",
			"for_statement", "for_in_statement", "catch_clause":
			complexity++
		case "ternary_expression":
			complexity++
		case "switch_case":
			if opts.SwitchMode == SwitchClassic {
				complexity++
			}
		case "switch_statement":
			if opts.SwitchMode == SwitchModified {
				complexity++
			}
		case "binary_expression":
			if op := operatorOf(n, content); op == "&&" || op == "||" || op == "??" {
				complexity++
			}
		case "augmented_assignment_expression":
			if op := operatorOf(n, content); op == "&&=" || op == "||=" {
				complexity++
			}
		case "member_expression", "subscript_expression", "call_expression":
			if hasOptionalChainToken(n) {
				complexity++
			}
		}

		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(body)
	return complexity
}

func operatorOf(n *tree_sitter.Node, content []byte) string {
	op := n.ChildByFieldName("operator")
	if op == nil {
		return ""
	}
	return childText(op, content)
}

// hasOptionalChainToken reports whether n carries a direct optional_chain
// child (the grammar's node for the "?." token), marking it as an
// optional-chaining step. Each chaining expression counts once, regardless
// of how deep its own chain continues.
func hasOptionalChainToken(n *tree_sitter.Node) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == "optional_chain" {
			return true
		}
	}
	return false
}
