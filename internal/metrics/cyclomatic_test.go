package metrics

import (
	"testing"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func parseTS(t *testing.T, src string) (*tree_sitter.Tree, []byte) {
	t.Helper()
	p := tree_sitter.NewParser()
	defer p.Close()
	lang := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	if err := p.SetLanguage(lang); err != nil {
		t.Fatalf("set language: %v", err)
	}
	content := []byte(src)
	tree := p.Parse(content, nil)
	if tree == nil {
		t.Fatal("parse returned nil")
	}
	t.Cleanup(tree.Close)
	return tree, content
}

func findFirst(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	if node == nil {
		return nil
	}
	if node.Kind() == kind {
		return node
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if found := findFirst(node.Child(i), kind); found != nil {
			return found
		}
	}
	return nil
}

func TestCyclomaticBaseline(t *testing.T) {
	tree, content := parseTS(t, "function f() { return 1; }")
	fn := findFirst(tree.RootNode(), "function_declaration")
	if got := Cyclomatic(fn, content, DefaultCyclomaticOptions); got != 1 {
		t.Errorf("Cyclomatic = %d, want 1", got)
	}
}

func TestCyclomaticIfElseIf(t *testing.T) {
	tree, content := parseTS(t, `
		function f(x) {
			if (x === 1) { return 1; }
			else if (x === 2) { return 2; }
			else { return 0; }
		}`)
	fn := findFirst(tree.RootNode(), "function_declaration")
	if got := Cyclomatic(fn, content, DefaultCyclomaticOptions); got != 3 {
		t.Errorf("Cyclomatic = %d, want 3", got)
	}
}

func TestCyclomaticLogicalOperators(t *testing.T) {
	tree, content := parseTS(t, "function f(a, b, c) { return a && b || c; }")
	fn := findFirst(tree.RootNode(), "function_declaration")
	if got := Cyclomatic(fn, content, DefaultCyclomaticOptions); got != 3 {
		t.Errorf("Cyclomatic = %d, want 3", got)
	}
}

func TestCyclomaticSwitchClassicCountsCases(t *testing.T) {
	tree, content := parseTS(t, `
		function f(x) {
			switch (x) {
				case 1: return 1;
				case 2: return 2;
				default: return 0;
			}
		}`)
	fn := findFirst(tree.RootNode(), "function_declaration")
	// Base 1 plus one per non-default case arm; the default arm is a
	// switch_default node and never counts in classic mode.
	got := Cyclomatic(fn, content, CyclomaticOptions{SwitchMode: SwitchClassic})
	if got != 3 {
		t.Errorf("Cyclomatic (classic) = %d, want 3", got)
	}
}

func TestCyclomaticSwitchModifiedCountsWhole(t *testing.T) {
	tree, content := parseTS(t, `
		function f(x) {
			switch (x) {
				case 1: return 1;
				case 2: return 2;
				default: return 0;
			}
		}`)
	fn := findFirst(tree.RootNode(), "function_declaration")
	got := Cyclomatic(fn, content, CyclomaticOptions{SwitchMode: SwitchModified})
	if got != 2 {
		t.Errorf("Cyclomatic (modified) = %d, want 2", got)
	}
}

func TestCyclomaticStopsAtNestedFunctionBoundary(t *testing.T) {
	tree, content := parseTS(t, `
		function outer() {
			const inner = () => { if (true) { return 1; } };
			return inner;
		}`)
	fn := findFirst(tree.RootNode(), "function_declaration")
	if got := Cyclomatic(fn, content, DefaultCyclomaticOptions); got != 1 {
		t.Errorf("Cyclomatic = %d, want 1 (nested arrow's if must not count)", got)
	}
}

func TestCyclomaticOptionalChaining(t *testing.T) {
	tree, content := parseTS(t, "function f(a) { return a?.b?.c; }")
	fn := findFirst(tree.RootNode(), "function_declaration")
	if got := Cyclomatic(fn, content, DefaultCyclomaticOptions); got != 3 {
		t.Errorf("Cyclomatic = %d, want 3 (base 1 + two optional-chain steps)", got)
	}
}
