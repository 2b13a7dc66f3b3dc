package metrics

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ingo-eichhorst/complexityguard/internal/naming"
)

// Cognitive computes Campbell/SonarSource-style cognitive complexity for
// one function-like node, with one deliberate deviation from the canonical
// rules: every &&/||/?? occurrence adds a flat +1 instead of one increment
// per same-operator run.
//
// The arrow-callback rule is enforced with two visitor modes rather than
// two separate functions: arrowAware=true is the outer visitor that treats
// the first nested arrow as a callback; once inside that callback's body,
// arrowAware flips to false and every further function-like node
// (including deeper arrows) is a scope boundary.
func Cognitive(fn *tree_sitter.Node, content []byte) int {
	body := functionBody(fn)
	if body == nil {
		return 0
	}

	fnName, _ := naming.OwnName(fn, content)

	score := 0
	var walk func(n *tree_sitter.Node, nesting int, arrowAware bool)
	walk = func(n *tree_sitter.Node, nesting int, arrowAware bool) {
		if n == nil {
			return
		}
		kind := n.Kind()

		if naming.IsFunctionLike(kind) {
			if arrowAware && kind == "arrow_function" {
				score += 1 + nesting
				if b := functionBody(n); b != nil {
					walk(b, nesting+1, false)
				}
			}
			// Any other function-like node, or an arrow once no longer
			// arrow-aware, is a scope boundary: no contribution, no descent.
			return
		}

		switch kind {
		case "if_statement":
			walkIfStatement(n, content, nesting, arrowAware, &score, walk)
			return
		case "for_statement", "for_in_statement", "while_statement", "do_statement",
			"switch_statement", "catch_clause", "ternary_expression":
			score += 1 + nesting
			recurseChildren(n, nesting+1, arrowAware, walk)
			return
		case "break_statement", "continue_statement":
			if n.ChildByFieldName("label") != nil {
				score++
			}
		case "binary_expression":
			if op := operatorOf(n, content); op == "&&" || op == "||" || op == "??" {
				score++
			}
		case "call_expression":
			if fnName != "" && isSelfRecursiveCall(n, content, fnName) {
				score++
			}
		}

		recurseChildren(n, nesting, arrowAware, walk)
	}

	walk(body, 0, true)
	return score
}

// walkIfStatement handles the if/else-if/else chain explicitly: else-if
// adds the flat else increment and then continues by re-entering the
// if-rule at the *same* nesting level, not one level deeper.
func walkIfStatement(
	n *tree_sitter.Node, content []byte, nesting int, arrowAware bool, score *int,
	walk func(n *tree_sitter.Node, nesting int, arrowAware bool),
) {
	*score += 1 + nesting

	if cond := n.ChildByFieldName("condition"); cond != nil {
		walk(cond, nesting, arrowAware)
	}
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		walk(cons, nesting+1, arrowAware)
	}

	alt := n.ChildByFieldName("alternative")
	if alt == nil {
		return
	}
	*score++ // flat "else" increment

	// The alternative is an else_clause wrapping either a nested
	// if_statement (else-if) or the else branch's statement.
	var stmt *tree_sitter.Node
	for i := uint(0); i < alt.ChildCount(); i++ {
		if c := alt.Child(i); c != nil && c.Kind() != "else" {
			stmt = c
			break
		}
	}
	if stmt == nil {
		return
	}
	if stmt.Kind() == "if_statement" {
		// else-if: the continuation re-enters the if-rule at the same
		// nesting level, on top of the flat else increment above. An
		// if/else-if/else chain therefore scores one higher than one
		// increment per keyword.
		walkIfStatement(stmt, content, nesting, arrowAware, score, walk)
		return
	}
	walk(stmt, nesting+1, arrowAware)
}

func recurseChildren(
	n *tree_sitter.Node, nesting int, arrowAware bool,
	walk func(n *tree_sitter.Node, nesting int, arrowAware bool),
) {
	for i := uint(0); i < n.ChildCount(); i++ {
		walk(n.Child(i), nesting, arrowAware)
	}
}

func isSelfRecursiveCall(call *tree_sitter.Node, content []byte, fnName string) bool {
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Kind() != "identifier" {
		return false
	}
	return childText(callee, content) == fnName
}
