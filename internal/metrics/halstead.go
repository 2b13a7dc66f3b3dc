package metrics

import (
	"math"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ingo-eichhorst/complexityguard/internal/naming"
)

// HalsteadMetrics holds the raw operator/operand counts and the derived
// volume/difficulty/effort/bugs values.
type HalsteadMetrics struct {
	N1, N2 int // total operators, total operands
	n1, n2 int // distinct operators, distinct operands

	Volume     float64
	Difficulty float64
	Effort     float64
	Bugs       float64
}

var operatorSymbols = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"==": true, "===": true, "!=": true, "!==": true,
	"<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true, "!": true, "??": true,
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true, "**=": true,
	"&&=": true, "||=": true, "??=": true,
	"<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true, "^=": true,
	"&": true, "|": true, "^": true, "~": true, "<<": true, ">>": true, ">>>": true,
	"++": true, "--": true,
	",": true, "@": true,
}

var operatorKeywords = map[string]bool{
	"typeof": true, "void": true, "delete": true, "await": true, "yield": true,
	"new": true, "in": true, "of": true, "instanceof": true,
	"if": true, "else": true, "for": true, "while": true, "do": true,
	"switch": true, "case": true, "default": true,
	"try": true, "catch": true, "finally": true, "throw": true,
	"return": true, "break": true, "continue": true,
	"function": true, "class": true, "extends": true,
	"import": true, "export": true, "from": true, "as": true,
	"const": true, "let": true, "var": true,
	"async": true, "static": true, "get": true, "set": true,
}

var operandLeafKinds = map[string]bool{
	"identifier": true, "property_identifier": true,
	"shorthand_property_identifier": true, "shorthand_property_identifier_pattern": true,
	"private_property_identifier": true,
	"true": true, "false": true, "null": true, "undefined": true, "this": true,
}

// opaqueOperandKinds are operand kinds treated as a single token even though
// their CST node may have children (escape sequences, template
// substitutions); the literal counts once, not its internals.
var opaqueOperandKinds = map[string]bool{
	"string": true, "template_string": true, "regex": true, "number": true,
}

// Halstead computes Halstead volume/difficulty/effort/bugs for one
// function-like node, skipping type-only subtrees so a TypeScript function
// and its untyped JavaScript equivalent produce identical counts.
func Halstead(fn *tree_sitter.Node, content []byte) HalsteadMetrics {
	operators := map[string]int{}
	operands := map[string]int{}

	if body := functionBody(fn); body != nil {
		walkHalstead(body, content, operators, operands)
	}

	n1, n2 := len(operators), len(operands)
	N1, N2 := sumCounts(operators), sumCounts(operands)

	var m HalsteadMetrics
	m.n1, m.n2, m.N1, m.N2 = n1, n2, N1, N2

	vocabulary := float64(n1 + n2)
	length := float64(N1 + N2)
	if vocabulary == 0 {
		return m
	}
	m.Volume = length * math.Log2(vocabulary)
	if n2 > 0 {
		m.Difficulty = (float64(n1) / 2) * (float64(N2) / float64(n2))
	}
	m.Effort = m.Volume * m.Difficulty
	m.Bugs = m.Volume / 3000
	return m
}

func walkHalstead(n *tree_sitter.Node, content []byte, operators, operands map[string]int) {
	if n == nil {
		return
	}
	kind := n.Kind()
	if IsTypeOnly(kind) {
		return
	}
	if naming.IsFunctionLike(kind) {
		return
	}

	if kind == "ternary_expression" {
		operators["?:"]++
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil || child.Kind() == "?" || child.Kind() == ":" {
				continue
			}
			walkHalstead(child, content, operators, operands)
		}
		return
	}

	if IsTypeCoercion(kind) {
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil || child.Kind() == "as" || child.Kind() == "satisfies" || IsTypeOnly(child.Kind()) {
				continue
			}
			walkHalstead(child, content, operators, operands)
		}
		return
	}

	if opaqueOperandKinds[kind] {
		operands[childText(n, content)]++
		return
	}

	if n.ChildCount() == 0 {
		classifyHalsteadLeaf(n, content, operators, operands)
		return
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		walkHalstead(n.Child(i), content, operators, operands)
	}
}

func classifyHalsteadLeaf(n *tree_sitter.Node, content []byte, operators, operands map[string]int) {
	kind := n.Kind()
	switch {
	case operatorSymbols[kind] || operatorKeywords[kind]:
		operators[kind]++
	case operandLeafKinds[kind]:
		operands[childText(n, content)]++
	}
}

func sumCounts(m map[string]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
