// Package pipeline wires discovery, parsing, metric walking, duplication
// detection, scoring, and violation classification into a single
// deterministic run: files are analyzed in parallel, everything after the
// fan-in is serial, and the final FileRecord order depends only on paths.
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ingo-eichhorst/complexityguard/internal/classify"
	"github.com/ingo-eichhorst/complexityguard/internal/config"
	"github.com/ingo-eichhorst/complexityguard/internal/discovery"
	"github.com/ingo-eichhorst/complexityguard/internal/duplication"
	"github.com/ingo-eichhorst/complexityguard/internal/metrics"
	"github.com/ingo-eichhorst/complexityguard/internal/parser"
	"github.com/ingo-eichhorst/complexityguard/internal/report"
	"github.com/ingo-eichhorst/complexityguard/internal/scoring"
	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// MaxFileLines is the default size gate: a file with more lines than this
// is skipped entirely rather than parsed.
const MaxFileLines = 50000

// Options configures one pipeline Run.
type Options struct {
	Include            []string
	Exclude            []string
	Threads            int // 0 means runtime.NumCPU()
	DuplicationEnabled bool
	DuplicationConfig  duplication.Config
	Thresholds         *types.ThresholdTable
	Weights            types.WeightVector
	MaxFileLines       int // 0 means MaxFileLines
	FailOn             classify.FailOn
	Baseline           *config.Baseline
	Version            string
	OnProgress         ProgressFunc

	// Config, if set, supplies per-file threshold overrides (the config
	// file's `overrides[{files[], analysis}]` section) layered onto
	// Thresholds for each file by path. Nil means every file uses
	// Thresholds unchanged.
	Config *config.Config
}

// thresholdsFor resolves the effective ThresholdTable for one file path,
// applying any matching config override.
func (p *Pipeline) thresholdsFor(path string) *types.ThresholdTable {
	if p.opts.Config == nil {
		return p.opts.Thresholds
	}
	return p.opts.Config.ApplyOverrides(p.opts.Thresholds, path)
}

// Pipeline runs one analysis pass over a set of input paths.
type Pipeline struct {
	opts   Options
	stderr io.Writer
}

// New builds a Pipeline. stderr receives discovery/parse warnings; pass
// os.Stderr in normal operation.
func New(opts Options, stderr io.Writer) *Pipeline {
	if opts.Threads <= 0 {
		opts.Threads = runtime.NumCPU()
	}
	if opts.MaxFileLines <= 0 {
		opts.MaxFileLines = MaxFileLines
	}
	if opts.Thresholds == nil {
		opts.Thresholds = types.NewThresholdTable(nil)
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Pipeline{opts: opts, stderr: stderr}
}

// fileOutcome is one worker's result: at most one of record or skip is set,
// and hardFail signals a hard per-file read or parse failure, in which case
// neither is set.
type fileOutcome struct {
	record   *types.FileRecord
	content  []byte
	skip     *types.SkippedItem
	hardFail bool
}

// Run executes the full pipeline over the given input paths (defaulting to
// "." when empty) and returns the assembled report plus the process exit
// code.
func (p *Pipeline) Run(paths []string) (report.Result, int, error) {
	start := time.Now()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	p.progress("discover", "Discovering source files...")
	walker := discovery.NewWalker(discovery.Options{Include: p.opts.Include, Exclude: p.opts.Exclude})

	var discovered []types.DiscoveredFile
	skippedByWalk := 0
	for _, root := range paths {
		scan, err := walker.Discover(root)
		if err != nil {
			return report.Result{}, classify.ExitConfigError, fmt.Errorf("discovering %s: %w", root, err)
		}
		discovered = append(discovered, scan.Files...)
		skippedByWalk += scan.SkippedCount
	}
	sort.Slice(discovered, func(i, j int) bool { return discovered[i].Path < discovered[j].Path })

	ts, failure := parser.New()
	if failure != nil {
		return report.Result{}, classify.ExitConfigError, fmt.Errorf("initializing parser: %w", failure)
	}
	defer ts.Close()

	p.progress("analyze", "Analyzing files...")
	outcomes := make([]fileOutcome, len(discovered))
	hasParseErrors := false
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(p.opts.Threads)
	for i, df := range discovered {
		i, df := i, df
		g.Go(func() error {
			outcome, parseFailed := p.analyzeFile(ts, df)
			outcomes[i] = outcome
			if parseFailed {
				mu.Lock()
				hasParseErrors = true
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	var files []types.FileRecord
	var contents [][]byte
	var skipped []types.SkippedItem
	for _, o := range outcomes {
		if o.skip != nil {
			skipped = append(skipped, *o.skip)
			continue
		}
		if o.hardFail {
			continue
		}
		if o.record != nil {
			files = append(files, *o.record)
			contents = append(contents, o.content)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	if skippedByWalk > 0 {
		fmt.Fprintf(p.stderr, "complexityguard: skipped %d unreadable path(s) during discovery\n", skippedByWalk)
	}
	for _, s := range skipped {
		fmt.Fprintf(p.stderr, "complexityguard: skipped %s (%s)\n", s.Path, s.Reason)
	}

	p.progress("duplication", "Detecting duplicate code...")
	var dupReport *types.DuplicationReport
	if p.opts.DuplicationEnabled {
		dr := duplication.Detect(files, p.opts.DuplicationConfig)
		duplication.ResolveLines(&dr, files, contents)
		dupReport = &dr
	}
	// Token sequences are only needed for detection and line resolution;
	// drop them before the records reach the renderers.
	for i := range files {
		files[i].Tokens = nil
	}

	p.progress("score", "Scoring functions...")
	for fi := range files {
		fileThresholds := p.thresholdsFor(files[fi].Path)
		for fni := range files[fi].Functions {
			files[fi].Functions[fni].HealthScore = scoring.FunctionScore(
				files[fi].Functions[fni], fileThresholds, p.opts.Weights)
		}
		files[fi].FileScore = scoring.FileScore(files[fi].Functions)
	}
	projectScore := scoring.ProjectScore(files)

	p.progress("classify", "Classifying violations...")
	var violations []types.Violation
	for _, f := range files {
		violations = append(violations, classify.File(f, p.thresholdsFor(f.Path))...)
	}
	errCount, warnCount := classify.Count(violations)

	baselineFailed := false
	if p.opts.Baseline != nil {
		entries := make([]config.BaselineEntry, 0, len(violations))
		for _, v := range violations {
			entries = append(entries, config.BaselineEntry{RuleID: v.RuleID, FilePath: v.FilePath, FunctionName: v.FunctionName})
		}
		baselineFailed = p.opts.Baseline.Failed(projectScore, entries)
	}

	result := report.Result{
		Version:      p.opts.Version,
		Timestamp:    time.Now().Unix(),
		Files:        files,
		Violations:   violations,
		ProjectScore: projectScore,
		Duplication:  dupReport,
		ElapsedMS:    time.Since(start).Milliseconds(),
		ThreadCount:  p.opts.Threads,
	}

	exitCode := classify.ExitCode(classify.Summary{
		ErrorCount:     errCount,
		WarningCount:   warnCount,
		HasParseErrors: hasParseErrors,
		BaselineFailed: baselineFailed,
	}, p.opts.FailOn)

	return result, exitCode, nil
}

// analyzeFile is one worker's unit of work: read, size-gate, parse, walk
// all four metric families, tokenize.
func (p *Pipeline) analyzeFile(ts *parser.Parser, df types.DiscoveredFile) (fileOutcome, bool) {
	content, err := os.ReadFile(df.Path)
	if err != nil {
		fmt.Fprintf(p.stderr, "complexityguard: reading %s: %v\n", df.Path, err)
		return fileOutcome{hardFail: true}, true
	}

	if countLines(content) > p.opts.MaxFileLines {
		return fileOutcome{skip: &types.SkippedItem{Path: df.Path, Reason: types.ReasonFileTooLarge}}, false
	}

	parsed, failure := ts.Parse(df.Path, content)
	if failure != nil {
		fmt.Fprintf(p.stderr, "complexityguard: parsing %s: %v\n", df.Path, failure)
		return fileOutcome{hardFail: true}, true
	}
	defer parsed.Close()

	root := parsed.Tree.RootNode()
	parseErr := root.HasError()

	functions, fileLength, exportCount := metrics.AnalyzeFile(root, content, metrics.DefaultCyclomaticOptions)

	var tokens []types.Token
	if p.opts.DuplicationEnabled {
		tokens = duplication.Tokenize(root, content)
	}

	record := &types.FileRecord{
		Path:        df.Path,
		Functions:   functions,
		Tokens:      tokens,
		FileLength:  fileLength,
		ExportCount: exportCount,
		ParseError:  parseErr,
	}
	return fileOutcome{record: record, content: content}, parseErr
}

func countLines(content []byte) int {
	return bytes.Count(content, []byte{'\n'}) + 1
}

func (p *Pipeline) progress(stage, detail string) {
	if p.opts.OnProgress != nil {
		p.opts.OnProgress(stage, detail)
	}
}
