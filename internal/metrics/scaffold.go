// Package metrics implements the four per-function tree walkers (cyclomatic,
// cognitive, Halstead, structural) and the positional merge step that
// combines their output into FunctionRecords.
package metrics

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ingo-eichhorst/complexityguard/internal/naming"
)

// DiscoverFunctions returns every function-like node in root, in DFS
// pre-order. A node is appended the moment it is reached, then its children
// are still visited, which lets nested functions surface as their
// own entries later in the same slice. All four metric walkers consume
// this same slice, so per-function results stay positionally aligned
// without any name-based matching.
func DiscoverFunctions(root *tree_sitter.Node) []*tree_sitter.Node {
	var out []*tree_sitter.Node
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		if naming.IsFunctionLike(n.Kind()) {
			out = append(out, n)
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return out
}

// functionBody returns the node to walk for per-function metrics: the
// "body" field for every function-like kind. Expression-body arrow
// functions have a non-block body (a bare expression), which callers must
// handle specially where it matters (structural.go's function_length=1
// rule).
func functionBody(fn *tree_sitter.Node) *tree_sitter.Node {
	if fn == nil {
		return nil
	}
	return fn.ChildByFieldName("body")
}

// isScopeBoundary reports whether kind is a function-like node that should
// stop a metric walker's recursion; nested functions are measured
// independently.
func isScopeBoundary(kind string) bool {
	return naming.IsFunctionLike(kind)
}

func childText(n *tree_sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	return string(content[n.StartByte():n.EndByte()])
}
