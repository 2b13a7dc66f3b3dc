// Package naming resolves a display name for any function-like CST node:
// function declarations, function expressions, arrow functions, method
// definitions, and generator functions.
//
// Resolution walks upward from the function node through its parent chain,
// applying the six priority rules in order.
package naming

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Resolve returns the display name for a function-like node per the
// priority rules: class method, object-literal value, callback, default
// export, variable binding, own name, else "<anonymous>".
func Resolve(node *tree_sitter.Node, content []byte) string {
	if node == nil {
		return "<anonymous>"
	}

	if name, ok := classMethodName(node, content); ok {
		return name
	}
	if name, ok := objectLiteralValueName(node, content); ok {
		return name
	}
	if name, ok := callbackName(node, content); ok {
		return name
	}
	if ok := isDefaultExportValue(node); ok {
		return "default export"
	}
	if name, ok := variableBindingName(node, content); ok {
		return name
	}
	if name, ok := ownName(node, content); ok {
		return name
	}
	return "<anonymous>"
}

// classMethodName implements rule 1: a method_definition inside a class
// body, prefixed with "ClassName.".
func classMethodName(node *tree_sitter.Node, content []byte) (string, bool) {
	if node.Kind() != "method_definition" {
		return "", false
	}
	name, ok := ownName(node, content)
	if !ok {
		return "", false
	}
	body := node.Parent()
	if body == nil || body.Kind() != "class_body" {
		return name, true
	}
	class := body.Parent()
	if class == nil {
		return name, true
	}
	switch class.Kind() {
	case "class_declaration", "class":
		clsNameNode := class.ChildByFieldName("name")
		if clsNameNode != nil {
			return nodeText(clsNameNode, content) + "." + name, true
		}
	}
	return name, true
}

// objectLiteralValueName implements rule 2: the node is the "value" field
// of an object-literal "pair", named after the pair's key.
func objectLiteralValueName(node *tree_sitter.Node, content []byte) (string, bool) {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "pair" {
		return "", false
	}
	value := parent.ChildByFieldName("value")
	if value == nil || !sameNode(value, node) {
		return "", false
	}
	key := parent.ChildByFieldName("key")
	if key == nil {
		return "", false
	}
	return stripQuotes(nodeText(key, content)), true
}

// callbackName implements rule 3: the node is a direct argument of a call
// expression. addEventListener gets the "<event> handler" special case.
func callbackName(node *tree_sitter.Node, content []byte) (string, bool) {
	argList := node.Parent()
	if argList == nil || argList.Kind() != "arguments" {
		return "", false
	}
	call := argList.Parent()
	if call == nil || call.Kind() != "call_expression" {
		return "", false
	}
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return "unknown callback", true
	}

	methodName := calleeMethodName(callee, content)
	if methodName == "addEventListener" {
		return addEventListenerHandlerName(argList, content), true
	}
	return methodName + " callback", true
}

// calleeMethodName extracts the right-hand method name of a callee
// expression: "obj.on" -> "on", bare "fn" -> "fn".
func calleeMethodName(callee *tree_sitter.Node, content []byte) string {
	switch callee.Kind() {
	case "member_expression":
		prop := callee.ChildByFieldName("property")
		if prop != nil {
			return nodeText(prop, content)
		}
	case "identifier":
		return nodeText(callee, content)
	}
	return nodeText(callee, content)
}

// addEventListenerHandlerName resolves the first argument to
// addEventListener(...) as a string literal event name.
func addEventListenerHandlerName(argList *tree_sitter.Node, content []byte) string {
	for i := uint(0); i < argList.ChildCount(); i++ {
		child := argList.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "string":
			return stripQuotes(nodeText(child, content)) + " handler"
		case ",", "(", ")":
			continue
		default:
			// First non-punctuation argument is not a string literal.
			return "addEventListener handler"
		}
	}
	return "addEventListener handler"
}

// isDefaultExportValue implements rule 4: the node is the direct value of
// an `export default` construct, and has no own name.
func isDefaultExportValue(node *tree_sitter.Node) bool {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "export_statement" {
		return false
	}
	if _, hasOwn := ownName(node, nil); hasOwn {
		return false
	}
	hasDefaultKeyword := false
	for i := uint(0); i < parent.ChildCount(); i++ {
		child := parent.Child(i)
		if child != nil && child.Kind() == "default" {
			hasDefaultKeyword = true
			break
		}
	}
	return hasDefaultKeyword
}

// variableBindingName implements rule 5: the node is the "value" field of a
// variable_declarator.
func variableBindingName(node *tree_sitter.Node, content []byte) (string, bool) {
	parent := node.Parent()
	if parent == nil || parent.Kind() != "variable_declarator" {
		return "", false
	}
	value := parent.ChildByFieldName("value")
	if value == nil || !sameNode(value, node) {
		return "", false
	}
	nameNode := parent.ChildByFieldName("name")
	if nameNode == nil {
		return "", false
	}
	return nodeText(nameNode, content), true
}

// ownName implements rule 6's first half: the node's own "name" field, if
// any. content may be nil when only checking for presence.
func ownName(node *tree_sitter.Node, content []byte) (string, bool) {
	return OwnName(node, content)
}

// OwnName returns a node's own "name" field text, if it has one. Exported
// for callers (e.g. the cognitive walker's self-recursion check) that need
// a function's syntactic own name without running full resolution.
func OwnName(node *tree_sitter.Node, content []byte) (string, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return "", false
	}
	if content == nil {
		return "", true
	}
	return nodeText(nameNode, content), true
}

func nodeText(n *tree_sitter.Node, content []byte) string {
	if n == nil || content == nil {
		return ""
	}
	return string(content[n.StartByte():n.EndByte()])
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func sameNode(a, b *tree_sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}

// FunctionKinds lists the CST node kinds treated as function-like.
var FunctionKinds = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"arrow_function":                 true,
	"method_definition":              true,
	"generator_function":             true,
	"generator_function_declaration": true,
}

// IsFunctionLike reports whether kind is one of the six function-like node
// kinds the metric walkers and naming resolver operate on.
func IsFunctionLike(kind string) bool {
	return FunctionKinds[kind]
}
