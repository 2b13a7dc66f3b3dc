package parser

import (
	"errors"
	"testing"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

func TestLanguageForPath(t *testing.T) {
	tests := []struct {
		path     string
		wantLang types.Language
		wantKind FailureKind
		wantErr  bool
	}{
		{"foo.ts", types.LangTypeScript, 0, false},
		{"foo.tsx", types.LangTSX, 0, false},
		{"foo.js", types.LangJavaScript, 0, false},
		{"foo.jsx", types.LangJSX, 0, false},
		{"foo.go", "", FailureUnsupportedExtension, true},
		{"foo.d.ts", types.LangTypeScript, 0, false},
		{"noext", "", FailureNoExtension, true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			lang, failure := LanguageForPath(tt.path)
			if tt.wantErr {
				if failure == nil {
					t.Fatalf("expected failure for %q", tt.path)
				}
				if failure.Kind != tt.wantKind {
					t.Errorf("kind = %v, want %v", failure.Kind, tt.wantKind)
				}
				return
			}
			if failure != nil {
				t.Fatalf("unexpected failure: %v", failure)
			}
			if lang != tt.wantLang {
				t.Errorf("lang = %v, want %v", lang, tt.wantLang)
			}
		})
	}
}

func TestDotDTSExcluded(t *testing.T) {
	// .d.ts must resolve by its final extension (.ts) per LanguageForPath,
	// but discovery excludes it explicitly (see internal/discovery). Parser
	// itself has no opinion on declaration files.
	lang, failure := LanguageForPath("types.d.ts")
	if failure != nil {
		t.Fatalf("unexpected failure: %v", failure)
	}
	if lang != types.LangTypeScript {
		t.Errorf("lang = %v, want typescript", lang)
	}
}

func TestParseTypeScript(t *testing.T) {
	p, failure := New()
	if failure != nil {
		t.Fatalf("New() failed: %v", failure)
	}
	defer p.Close()

	src := []byte("function baseline() {}\n")
	pf, failure := p.Parse("baseline.ts", src)
	if failure != nil {
		t.Fatalf("Parse() failed: %v", failure)
	}
	defer pf.Close()

	if pf.Tree == nil {
		t.Fatal("expected non-nil tree")
	}
	if pf.Tree.RootNode().HasError() {
		t.Error("well-formed source should not have parse errors")
	}
}

func TestParseRecoversFromSyntaxErrors(t *testing.T) {
	p, failure := New()
	if failure != nil {
		t.Fatalf("New() failed: %v", failure)
	}
	defer p.Close()

	src := []byte("function broken( {{{ ??? \n")
	pf, failure := p.Parse("broken.ts", src)
	if failure != nil {
		t.Fatalf("Parse() should recover, got failure: %v", failure)
	}
	defer pf.Close()

	if !pf.Tree.RootNode().HasError() {
		t.Error("expected root HasError() to be true for malformed input")
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	p, failure := New()
	if failure != nil {
		t.Fatalf("New() failed: %v", failure)
	}
	defer p.Close()

	_, failure = p.Parse("main.go", []byte("package main"))
	if failure == nil {
		t.Fatal("expected failure for unsupported extension")
	}
	if failure.Kind != FailureUnsupportedExtension {
		t.Errorf("kind = %v, want FailureUnsupportedExtension", failure.Kind)
	}
	if !errors.Is(failure, ErrUnsupportedExtension) {
		t.Error("errors.Is should match ErrUnsupportedExtension")
	}
}
