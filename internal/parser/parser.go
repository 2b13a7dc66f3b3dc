// Package parser provides source parsing for TypeScript, TSX, JavaScript,
// and JSX via tree-sitter.
//
// Tree-sitter parsers require CGO_ENABLED=1. Every Tree returned by Parse
// must be closed by the caller.
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// FailureKind classifies a Parse failure.
type FailureKind int

const (
	FailureUnsupportedExtension FailureKind = iota
	FailureNoExtension
	FailureIO
	FailureLanguageSetup
	FailureParseFailed
)

// Failure is a typed parse failure. Extension checks happen before any I/O,
// so FailureUnsupportedExtension and FailureNoExtension never wrap an
// underlying error.
type Failure struct {
	Kind FailureKind
	Ext  string
	Err  error
}

func (f *Failure) Error() string {
	switch f.Kind {
	case FailureUnsupportedExtension:
		return fmt.Sprintf("unsupported extension %q", f.Ext)
	case FailureNoExtension:
		return "no file extension"
	case FailureIO:
		return fmt.Sprintf("io error: %v", f.Err)
	case FailureLanguageSetup:
		return fmt.Sprintf("language setup error: %v", f.Err)
	case FailureParseFailed:
		return fmt.Sprintf("parse failed: %v", f.Err)
	default:
		return "unknown parse failure"
	}
}

func (f *Failure) Unwrap() error { return f.Err }

// Is supports errors.Is(err, parser.ErrUnsupportedExtension) style checks
// against the failure kind alone, ignoring Ext/Err payload.
func (f *Failure) Is(target error) bool {
	var t *Failure
	if errors.As(target, &t) {
		return t.Kind == f.Kind
	}
	return false
}

var (
	ErrUnsupportedExtension = &Failure{Kind: FailureUnsupportedExtension}
	ErrNoExtension          = &Failure{Kind: FailureNoExtension}
)

// ParsedFile holds a parsed tree-sitter syntax tree with its source bytes.
// Caller must call Close (or Tree.Close()) when done with it.
type ParsedFile struct {
	Path     string
	Content  []byte
	Tree     *tree_sitter.Tree
	Language types.Language
}

// Close releases the underlying tree-sitter tree.
func (p *ParsedFile) Close() {
	if p != nil && p.Tree != nil {
		p.Tree.Close()
	}
}

// LanguageForPath maps a file's extension to a Language, or returns a
// Failure describing why the path is unsupported.
func LanguageForPath(path string) (types.Language, *Failure) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", ErrNoExtension
	}
	lang, ok := types.LanguageForExt(ext)
	if !ok {
		return "", &Failure{Kind: FailureUnsupportedExtension, Ext: ext}
	}
	return lang, nil
}

// Parser pools one tree-sitter parser per grammar. Tree-sitter parsers are
// not thread-safe; all Parse calls are serialized via a mutex. Trees
// returned from parsing are safe to use concurrently once produced.
type Parser struct {
	mu        sync.Mutex
	tsParser  *tree_sitter.Parser
	tsxParser *tree_sitter.Parser
	jsParser  *tree_sitter.Parser
}

// New builds a Parser with parsers for TypeScript, TSX, and JavaScript
// (JSX shares the JavaScript grammar). Returns a LanguageSetup Failure if
// any grammar fails to attach.
func New() (*Parser, *Failure) {
	tsParser := tree_sitter.NewParser()
	tsLang := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	if err := tsParser.SetLanguage(tsLang); err != nil {
		tsParser.Close()
		return nil, &Failure{Kind: FailureLanguageSetup, Err: fmt.Errorf("typescript: %w", err)}
	}

	tsxParser := tree_sitter.NewParser()
	tsxLang := tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	if err := tsxParser.SetLanguage(tsxLang); err != nil {
		tsParser.Close()
		tsxParser.Close()
		return nil, &Failure{Kind: FailureLanguageSetup, Err: fmt.Errorf("tsx: %w", err)}
	}

	jsParser := tree_sitter.NewParser()
	jsLang := tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	if err := jsParser.SetLanguage(jsLang); err != nil {
		tsParser.Close()
		tsxParser.Close()
		jsParser.Close()
		return nil, &Failure{Kind: FailureLanguageSetup, Err: fmt.Errorf("javascript: %w", err)}
	}

	return &Parser{tsParser: tsParser, tsxParser: tsxParser, jsParser: jsParser}, nil
}

// Close releases all pooled parsers.
func (p *Parser) Close() {
	if p.tsParser != nil {
		p.tsParser.Close()
	}
	if p.tsxParser != nil {
		p.tsxParser.Close()
	}
	if p.jsParser != nil {
		p.jsParser.Close()
	}
}

// Parse reads the file's language from its path and parses content into a
// CST. The underlying grammar is error-tolerant: a syntactically invalid
// file still yields a tree, with its root node's HasError() flag set; the
// caller is responsible for turning that into FileRecord.ParseError.
func (p *Parser) Parse(path string, content []byte) (*ParsedFile, *Failure) {
	lang, failure := LanguageForPath(path)
	if failure != nil {
		return nil, failure
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var ts *tree_sitter.Parser
	switch lang {
	case types.LangTypeScript:
		ts = p.tsParser
	case types.LangTSX:
		ts = p.tsxParser
	case types.LangJavaScript, types.LangJSX:
		ts = p.jsParser
	default:
		return nil, &Failure{Kind: FailureUnsupportedExtension, Ext: string(lang)}
	}

	tree := ts.Parse(content, nil)
	if tree == nil {
		return nil, &Failure{Kind: FailureParseFailed, Err: errors.New("parser returned nil tree")}
	}

	return &ParsedFile{Path: path, Content: content, Tree: tree, Language: lang}, nil
}
