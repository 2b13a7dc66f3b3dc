// Package discovery walks input paths and produces the deterministic,
// already-filtered list of candidate source files the parallel pipeline
// consumes.
package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// prunedDirs lists directory names that are always skipped during walking.
var prunedDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	".next":        true,
	"coverage":     true,
	"__pycache__":  true,
	".svn":         true,
	".hg":          true,
	"vendor":       true,
}

// declarationSuffixes are excluded from discovery even though their base
// extension is otherwise recognized; declaration files carry no function
// bodies worth measuring.
var declarationSuffixes = []string{".d.ts", ".d.tsx"}

// Options configures a Walker's include/exclude glob filters (the
// --include/--exclude flags). Both are evaluated against the path relative
// to the discovery root, slash-separated. An empty Include matches
// everything; any Exclude match always wins over Include.
type Options struct {
	Include []string
	Exclude []string
}

// Walker discovers TypeScript/JavaScript source files under one or more
// root paths.
type Walker struct {
	opts Options
}

// NewWalker builds a Walker with the given include/exclude glob options.
func NewWalker(opts Options) *Walker {
	return &Walker{opts: opts}
}

// Discover walks root recursively and returns a deterministic,
// path-sorted ScanResult. Permission or stat errors on individual entries
// are reported to the caller via SkippedCount rather than aborting the
// walk.
func (w *Walker) Discover(root string) (*types.ScanResult, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}

	result := &types.ScanResult{RootDir: root}

	// A single file path is itself a valid root.
	if !info.IsDir() {
		if df, ok := w.classify(root, root); ok {
			result.Files = append(result.Files, df)
		}
		return result, nil
	}

	gitIgnore := loadGitIgnore(root)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			result.SkippedCount++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		name := d.Name()

		if d.IsDir() {
			if path != root && prunedDirs[name] {
				return fs.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			result.SkippedCount++
			return nil
		}
		relSlash := filepath.ToSlash(relPath)

		if gitIgnore != nil && gitIgnore.MatchesPath(relSlash) {
			return nil
		}
		if !w.included(relSlash) {
			return nil
		}

		if df, ok := w.classify(path, relSlash); ok {
			result.Files = append(result.Files, df)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sorting here is a convenience for callers that inspect ScanResult
	// directly; the pipeline re-sorts FileRecord by path post-analysis
	// regardless.
	sort.Slice(result.Files, func(i, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	return result, nil
}

// classify maps one candidate path to a DiscoveredFile if its extension is
// recognized and it isn't a declaration file.
func (w *Walker) classify(path, relSlash string) (types.DiscoveredFile, bool) {
	name := filepath.Base(path)
	for _, suffix := range declarationSuffixes {
		if strings.HasSuffix(name, suffix) {
			return types.DiscoveredFile{}, false
		}
	}

	ext := strings.ToLower(filepath.Ext(name))
	lang, ok := types.LanguageForExt(ext)
	if !ok {
		return types.DiscoveredFile{}, false
	}

	return types.DiscoveredFile{Path: path, RelPath: relSlash, Language: lang}, true
}

// included applies the Include/Exclude glob options to a root-relative,
// slash-separated path. Exclude always wins; an empty Include list matches
// everything.
func (w *Walker) included(relSlash string) bool {
	for _, pattern := range w.opts.Exclude {
		if globMatch(pattern, relSlash) {
			return false
		}
	}
	if len(w.opts.Include) == 0 {
		return true
	}
	for _, pattern := range w.opts.Include {
		if globMatch(pattern, relSlash) {
			return true
		}
	}
	return false
}

// globMatch matches pattern against path using filepath.Match semantics,
// trying the full path, then the basename, then a plain substring check of
// the pattern with its '*' characters trimmed, so that patterns like
// "*.test.ts" match regardless of directory nesting.
func globMatch(pattern, path string) bool {
	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
		return true
	}
	return strings.Contains(path, strings.Trim(pattern, "*"))
}

func loadGitIgnore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
