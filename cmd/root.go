// Package cmd implements the complexityguard command-line interface: flag
// parsing, config-file/baseline loading, invoking the analysis pipeline, and
// dispatching to the selected report renderer.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ingo-eichhorst/complexityguard/internal/classify"
	"github.com/ingo-eichhorst/complexityguard/internal/config"
	"github.com/ingo-eichhorst/complexityguard/internal/duplication"
	"github.com/ingo-eichhorst/complexityguard/internal/pipeline"
	"github.com/ingo-eichhorst/complexityguard/internal/report"
	"github.com/ingo-eichhorst/complexityguard/pkg/types"
	"github.com/ingo-eichhorst/complexityguard/pkg/version"
)

var (
	formatFlag          string
	outputFlag          string
	colorFlag           bool
	noColorFlag         bool
	quietFlag           bool
	verboseFlag         bool
	metricsFlag         []string
	duplicationFlag     bool
	noDuplicationFlag   bool
	threadsFlag         int
	includeFlag         []string
	excludeFlag         []string
	failOnFlag          string
	failHealthBelowFlag float64
	configFlag          string
	baselineFlag        string
	initFlag            bool
)

var rootCmd = &cobra.Command{
	Use:   "complexityguard [paths...]",
	Short: "Static code-quality analyzer for TypeScript and JavaScript",
	Long: `complexityguard discovers TypeScript/JavaScript source files, computes
per-function complexity metrics (cyclomatic, cognitive, Halstead, structural),
optionally detects cross-file duplicate code, and emits a console, JSON,
SARIF, or HTML report with a CI-friendly exit code.

With no paths, the current directory is analyzed.`,
	Version:      version.Version,
	SilenceUsage: true,
	RunE:         runRoot,
}

func init() {
	rootCmd.SilenceErrors = true

	flags := rootCmd.Flags()
	flags.StringVar(&formatFlag, "format", "console", "output format: console|json|sarif|html")
	flags.StringVarP(&outputFlag, "output", "o", "", "write the report to PATH instead of stdout")
	flags.BoolVar(&colorFlag, "color", false, "force-enable colored console output")
	flags.BoolVar(&noColorFlag, "no-color", false, "force-disable colored console output")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "print only the final verdict")
	flags.BoolVarP(&verboseFlag, "verbose", "v", false, "print ok functions and every metric's detail")
	flags.StringSliceVar(&metricsFlag, "metrics", nil, "restrict violation classification to these metric families")
	flags.BoolVar(&duplicationFlag, "duplication", false, "force-enable duplicate-code detection")
	flags.BoolVar(&noDuplicationFlag, "no-duplication", false, "disable duplicate-code detection")
	flags.IntVar(&threadsFlag, "threads", 0, "worker count (0 = available hardware parallelism)")
	flags.StringArrayVar(&includeFlag, "include", nil, "glob of files to include, repeatable")
	flags.StringArrayVar(&excludeFlag, "exclude", nil, "glob of files to exclude, repeatable")
	flags.StringVar(&failOnFlag, "fail-on", "error", "gate the exit code on: warning|error|none")
	flags.Float64Var(&failHealthBelowFlag, "fail-health-below", 0, "fail if the project health score drops below N")
	flags.StringVarP(&configFlag, "config", "c", "", "explicit path to a .complexityguard.json config file")
	flags.StringVar(&baselineFlag, "baseline", "", "path to a baseline snapshot to gate regressions against")
	flags.BoolVar(&initFlag, "init", false, "write a default config file in the current directory and exit")
}

// Execute runs the root command and exits with code 1 on error.
// ExitError is handled specially: its Code is used as the exit code, which
// is how a clean run that nonetheless found warnings/errors reaches the
// right process exit code without being treated as a cobra execution
// failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *types.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	if initFlag {
		return runInit(cmd)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return &types.ExitError{Code: classify.ExitConfigError, Message: err.Error()}
	}

	cfg, cfgErr := loadConfig(cwd)
	if cfgErr != nil {
		return &types.ExitError{Code: classify.ExitConfigError, Message: cfgErr.Error()}
	}

	var baseline *config.Baseline
	if baselineFlag != "" {
		baseline, err = config.LoadBaseline(baselineFlag)
		if err != nil {
			return &types.ExitError{Code: classify.ExitConfigError, Message: err.Error()}
		}
	}

	opts := pipeline.Options{
		Include:            mergeFilters(includeFlag, cfg.Files.Include),
		Exclude:            mergeFilters(excludeFlag, cfg.Files.Exclude),
		Threads:            resolveThreads(threadsFlag, cfg.Analysis.Threads),
		DuplicationEnabled: resolveDuplication(cfg),
		DuplicationConfig:  duplication.DefaultConfig,
		Thresholds:         cfg.ThresholdTable().Restrict(resolveMetrics(metricsFlag, cfg.Analysis.Metrics)),
		Weights:            cfg.WeightVector(),
		FailOn:             resolveFailOn(failOnFlag),
		Baseline:           baseline,
		Version:            version.Version,
		Config:             cfg,
	}

	spinner := newProgressSpinner(cmd.ErrOrStderr(), quietFlag)
	if spinner != nil {
		opts.OnProgress = spinner.onProgress
	}

	p := pipeline.New(opts, cmd.ErrOrStderr())
	result, exitCode, runErr := p.Run(args)
	if spinner != nil {
		spinner.stop()
	}
	if runErr != nil {
		return &types.ExitError{Code: classify.ExitConfigError, Message: runErr.Error()}
	}

	floor := resolveHealthFloor(failHealthBelowFlag, cfg.Baseline)
	exitCode = applyHealthFloor(exitCode, floor > 0 && result.ProjectScore < floor, resolveFailOn(failOnFlag))

	out, closeOut, err := resolveOutput(cmd, cfg.Output.File)
	if err != nil {
		return &types.ExitError{Code: classify.ExitConfigError, Message: err.Error()}
	}
	defer closeOut()

	if renderErr := writeReport(out, result, resolveFormat(formatFlag, cfg.Output.Format)); renderErr != nil {
		return &types.ExitError{Code: classify.ExitConfigError, Message: renderErr.Error()}
	}

	if exitCode != classify.ExitSuccess {
		return &types.ExitError{Code: exitCode, Message: "complexityguard: analysis found issues"}
	}
	return nil
}

func loadConfig(cwd string) (*config.Config, error) {
	path := configFlag
	if path == "" {
		discovered, err := config.Discover(cwd)
		if err != nil {
			return nil, err
		}
		path = discovered
	}
	if path == "" {
		return &config.Config{}, nil
	}
	return config.Load(path)
}

func mergeFilters(cliValues, configValues []string) []string {
	if len(cliValues) > 0 {
		return cliValues
	}
	return configValues
}

func resolveThreads(cliThreads, configThreads int) int {
	if cliThreads > 0 {
		return cliThreads
	}
	return configThreads
}

// progressSpinner adapts pipeline.Spinner's Start/Update/Stop lifecycle to
// the single ProgressFunc callback Pipeline.Run drives its stage updates
// through (discover/analyze/duplication/score/classify).
type progressSpinner struct {
	spinner *pipeline.Spinner
	started bool
}

// newProgressSpinner returns nil (no progress UI) in quiet mode or when
// stderr isn't a real file; pipeline.Spinner itself additionally suppresses
// output when that file isn't a TTY (piped output, CI).
func newProgressSpinner(stderr io.Writer, quiet bool) *progressSpinner {
	if quiet {
		return nil
	}
	f, ok := stderr.(*os.File)
	if !ok {
		return nil
	}
	return &progressSpinner{spinner: pipeline.NewSpinner(f)}
}

func (p *progressSpinner) onProgress(stage, detail string) {
	if !p.started {
		p.spinner.Start(detail)
		p.started = true
		return
	}
	p.spinner.Update(detail)
}

func (p *progressSpinner) stop() {
	p.spinner.Stop("")
}

// resolveHealthFloor picks the effective project-health ratchet: an explicit
// --fail-health-below always wins; otherwise the config file's `baseline
// <number>` floor applies. Zero means no floor at all.
func resolveHealthFloor(cliFloor float64, configBaseline *float64) float64 {
	if cliFloor > 0 {
		return cliFloor
	}
	if configBaseline != nil {
		return *configBaseline
	}
	return 0
}

// applyHealthFloor folds a project-health floor breach into an already
// computed exit code. A breach ranks like a baseline failure: it upgrades
// success or warnings-found to errors-found, never downgrades parse errors
// or errors already present, and stays silent under --fail-on none.
func applyHealthFloor(exitCode int, breached bool, failOn classify.FailOn) int {
	if !breached || failOn == classify.FailOnNone {
		return exitCode
	}
	if exitCode == classify.ExitSuccess || exitCode == classify.ExitWarningsFound {
		return classify.ExitErrorsFound
	}
	return exitCode
}

func resolveDuplication(cfg *config.Config) bool {
	if duplicationFlag {
		return true
	}
	if noDuplicationFlag {
		return false
	}
	return cfg.DuplicationEnabled()
}

func resolveMetrics(cliMetrics, configMetrics []string) []types.MetricFamily {
	names := cliMetrics
	if len(names) == 0 {
		names = configMetrics
	}
	families := make([]types.MetricFamily, 0, len(names))
	for _, n := range names {
		families = append(families, types.MetricFamily(n))
	}
	return families
}

func resolveFailOn(flag string) classify.FailOn {
	switch classify.FailOn(flag) {
	case classify.FailOnWarning, classify.FailOnNone:
		return classify.FailOn(flag)
	default:
		return classify.FailOnError
	}
}

func resolveFormat(cliFormat, configFormat string) string {
	if cliFormat != "" && cliFormat != "console" {
		return cliFormat
	}
	if configFormat != "" {
		return configFormat
	}
	return cliFormat
}

// resolveOutput picks the report destination: an explicit -o wins, then the
// config file's output.file, then stdout.
func resolveOutput(cmd *cobra.Command, configFile string) (out io.Writer, closeFn func(), err error) {
	path := outputFlag
	if path == "" {
		path = configFile
	}
	if path == "" {
		return cmd.OutOrStdout(), func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file %s: %w", path, err)
	}
	return f, func() { f.Close() }, nil
}

func writeReport(w io.Writer, result report.Result, format string) error {
	switch format {
	case "json":
		return report.WriteJSON(w, result)
	case "sarif":
		return report.WriteSARIF(w, result, version.Version)
	case "html":
		return report.WriteHTML(w, result, version.Version)
	case "console", "":
		var color *bool
		switch {
		case colorFlag:
			v := true
			color = &v
		case noColorFlag:
			v := false
			color = &v
		}
		report.WriteConsole(w, result, report.ConsoleOptions{Quiet: quietFlag, Verbose: verboseFlag, Color: color})
		return nil
	default:
		return fmt.Errorf("unsupported --format %q (want console, json, sarif, or html)", format)
	}
}

func runInit(cmd *cobra.Command) error {
	path := filepath.Join(".", ".complexityguard.json")
	if _, err := os.Stat(path); err == nil {
		return &types.ExitError{Code: classify.ExitConfigError, Message: fmt.Sprintf("%s already exists", path)}
	}
	if err := os.WriteFile(path, []byte(config.DefaultInitConfig), 0o644); err != nil {
		return &types.ExitError{Code: classify.ExitConfigError, Message: err.Error()}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}
