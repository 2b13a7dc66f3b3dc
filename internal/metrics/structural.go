package metrics

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ingo-eichhorst/complexityguard/internal/naming"
)

var braceOnlyLines = map[string]bool{
	"{": true, "}": true, "};": true, "},": true,
}

// FunctionLength counts the logical lines of a function's body: blank
// lines, comment-only lines, and brace-only lines don't count. An
// expression-body arrow function (no braces) is always length 1.
func FunctionLength(fn *tree_sitter.Node, content []byte) int {
	body := functionBody(fn)
	if body == nil {
		return 0
	}
	if fn.Kind() == "arrow_function" && body.Kind() != "statement_block" {
		return 1
	}
	return countLogicalLines(content[body.StartByte():body.EndByte()])
}

// FileLength counts the logical lines of the whole file, same rules as
// FunctionLength.
func FileLength(content []byte) int {
	return countLogicalLines(content)
}

func countLogicalLines(text []byte) int {
	lines := strings.Split(string(text), "\n")
	count := 0
	inBlockComment := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if inBlockComment {
			if idx := strings.Index(line, "*/"); idx >= 0 {
				inBlockComment = false
				if rest := strings.TrimSpace(line[idx+2:]); rest != "" {
					count++
				}
			}
			continue
		}
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "//"):
			continue
		case strings.HasPrefix(line, "/*"):
			if idx := strings.Index(line[2:], "*/"); idx >= 0 {
				closeAt := idx + 4
				if rest := strings.TrimSpace(line[closeAt:]); rest != "" {
					count++
				}
				continue
			}
			inBlockComment = true
			continue
		case braceOnlyLines[line]:
			continue
		default:
			count++
		}
	}
	return count
}

var paramPunctuation = map[string]bool{
	",": true, "(": true, ")": true, "<": true, ">": true, ";": true,
}

// ParamsCount counts a function's declared parameters plus type
// parameters: every non-punctuation child of the formal_parameters and
// type_parameters nodes.
func ParamsCount(fn *tree_sitter.Node) int {
	count := 0
	if params := fn.ChildByFieldName("parameters"); params != nil {
		count += countNonPunctuationChildren(params)
	}
	if typeParams := fn.ChildByFieldName("type_parameters"); typeParams != nil {
		count += countNonPunctuationChildren(typeParams)
	}
	return count
}

func countNonPunctuationChildren(n *tree_sitter.Node) int {
	count := 0
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || paramPunctuation[child.Kind()] {
			continue
		}
		count++
	}
	return count
}

var nestingKinds = map[string]bool{
	"if_statement": true, "for_statement": true, "for_in_statement": true,
	"while_statement": true, "do_statement": true, "switch_statement": true,
	"catch_clause": true, "ternary_expression": true,
}

// NestingDepth returns the maximum nesting depth of control-flow
// constructs inside a function's body. Nested functions are scope
// boundaries, same as the other walkers.
func NestingDepth(fn *tree_sitter.Node, content []byte) int {
	body := functionBody(fn)
	if body == nil {
		return 0
	}
	max := 0
	var walk func(n *tree_sitter.Node, depth int)
	walk = func(n *tree_sitter.Node, depth int) {
		if n == nil {
			return
		}
		kind := n.Kind()
		if naming.IsFunctionLike(kind) {
			return
		}
		next := depth
		if nestingKinds[kind] {
			next = depth + 1
			if next > max {
				max = next
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i), next)
		}
	}
	walk(body, 0)
	return max
}

// ExportCount counts top-level export statements in a parsed file.
func ExportCount(root *tree_sitter.Node) int {
	if root == nil {
		return 0
	}
	count := 0
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child != nil && child.Kind() == "export_statement" {
			count++
		}
	}
	return count
}
