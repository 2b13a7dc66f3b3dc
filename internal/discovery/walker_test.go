package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverFindsSupportedExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), "export const a = 1;")
	writeFile(t, filepath.Join(dir, "b.tsx"), "export const B = () => null;")
	writeFile(t, filepath.Join(dir, "c.js"), "module.exports = {};")
	writeFile(t, filepath.Join(dir, "d.jsx"), "export default () => null;")
	writeFile(t, filepath.Join(dir, "e.go"), "package main")
	writeFile(t, filepath.Join(dir, "README.md"), "# hi")

	w := NewWalker(Options{})
	result, err := w.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 4 {
		t.Fatalf("len(result.Files) = %d, want 4: %+v", len(result.Files), result.Files)
	}
}

func TestDiscoverExcludesDeclarationFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.d.ts"), "export const a: number;")
	writeFile(t, filepath.Join(dir, "b.d.tsx"), "export const B: () => null;")
	writeFile(t, filepath.Join(dir, "c.ts"), "export const c = 1;")

	w := NewWalker(Options{})
	result, err := w.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 1 {
		t.Fatalf("len(result.Files) = %d, want 1", len(result.Files))
	}
	if result.Files[0].Path != filepath.Join(dir, "c.ts") {
		t.Errorf("got %q", result.Files[0].Path)
	}
}

func TestDiscoverPrunesAlwaysExcludedDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"node_modules", ".git", "dist", "build", ".next", "coverage", "__pycache__", ".svn", ".hg", "vendor"} {
		writeFile(t, filepath.Join(dir, d, "x.ts"), "export const x = 1;")
	}
	writeFile(t, filepath.Join(dir, "src", "x.ts"), "export const x = 1;")

	w := NewWalker(Options{})
	result, err := w.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 1 {
		t.Fatalf("len(result.Files) = %d, want 1: %+v", len(result.Files), result.Files)
	}
}

func TestDiscoverLanguageMapping(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), "")
	writeFile(t, filepath.Join(dir, "a.tsx"), "")
	writeFile(t, filepath.Join(dir, "a.js"), "")
	writeFile(t, filepath.Join(dir, "a.jsx"), "")

	w := NewWalker(Options{})
	result, err := w.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}

	byLang := map[types.Language]int{}
	for _, f := range result.Files {
		byLang[f.Language]++
	}
	for _, lang := range []types.Language{types.LangTypeScript, types.LangTSX, types.LangJavaScript, types.LangJSX} {
		if byLang[lang] != 1 {
			t.Errorf("byLang[%s] = %d, want 1", lang, byLang[lang])
		}
	}
}

func TestDiscoverIncludeExcludeGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.ts"), "")
	writeFile(t, filepath.Join(dir, "a.test.ts"), "")
	writeFile(t, filepath.Join(dir, "b.ts"), "")

	w := NewWalker(Options{Exclude: []string{"*.test.ts"}})
	result, err := w.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 2 {
		t.Fatalf("len(result.Files) = %d, want 2: %+v", len(result.Files), result.Files)
	}

	w2 := NewWalker(Options{Include: []string{"a*"}})
	result2, err := w2.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(result2.Files) != 2 {
		t.Fatalf("len(result2.Files) = %d, want 2 (a.ts, a.test.ts): %+v", len(result2.Files), result2.Files)
	}
}

func TestDiscoverSinglePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "only.ts")
	writeFile(t, path, "export const x = 1;")

	w := NewWalker(Options{})
	result, err := w.Discover(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 1 || result.Files[0].Path != path {
		t.Fatalf("result.Files = %+v", result.Files)
	}
}

func TestDiscoverResultIsSortedByPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "z.ts"), "")
	writeFile(t, filepath.Join(dir, "a.ts"), "")
	writeFile(t, filepath.Join(dir, "m.ts"), "")

	w := NewWalker(Options{})
	result, err := w.Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(result.Files); i++ {
		if result.Files[i-1].Path > result.Files[i].Path {
			t.Fatalf("result.Files not sorted: %+v", result.Files)
		}
	}
}
