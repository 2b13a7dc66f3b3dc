// Package duplication implements the cross-file duplicate-code detector:
// tokenization, a Rabin-Karp rolling hash over token-kind windows, bucket
// verification, and per-file interval merging.
package duplication

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ingo-eichhorst/complexityguard/internal/metrics"
	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// identifierKinds collapse to the sentinel kind "V" so that two functions
// differing only in variable names still tokenize identically.
var identifierKinds = map[string]bool{
	"identifier":                            true,
	"property_identifier":                   true,
	"shorthand_property_identifier":         true,
	"shorthand_property_identifier_pattern": true,
	"private_property_identifier":           true,
	"type_identifier":                       true,
}

// isDiscarded reports whether a leaf kind is dropped entirely rather than
// tokenized.
func isDiscarded(kind string) bool {
	if kind == ";" || kind == "," {
		return true
	}
	if strings.Contains(kind, "comment") {
		return true
	}
	if kind == "hash_bang_line" || kind == "shebang" {
		return true
	}
	return false
}

// Tokenize walks root's leaves in DFS order and produces the normalized
// token sequence for one file. Type-only subtrees are skipped whole, same
// as the Halstead walker, so duplication detection never treats type
// annotations as meaningful tokens.
func Tokenize(root *tree_sitter.Node, content []byte) []types.Token {
	var tokens []types.Token
	var walk func(n *tree_sitter.Node)
	walk = func(n *tree_sitter.Node) {
		if n == nil {
			return
		}
		kind := n.Kind()
		if metrics.IsTypeOnly(kind) {
			return
		}
		if metrics.IsTypeCoercion(kind) {
			for i := uint(0); i < n.ChildCount(); i++ {
				child := n.Child(i)
				if child == nil || child.Kind() == "as" || child.Kind() == "satisfies" || metrics.IsTypeOnly(child.Kind()) {
					continue
				}
				walk(child)
			}
			return
		}
		if n.ChildCount() == 0 {
			if isDiscarded(kind) {
				return
			}
			normKind := kind
			if identifierKinds[kind] {
				normKind = "V"
			}
			tokens = append(tokens, types.Token{
				Kind:      normKind,
				KindHash:  xxhash.Sum64String(normKind),
				StartByte: uint32(n.StartByte()),
				EndByte:   uint32(n.EndByte()),
			})
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return tokens
}
