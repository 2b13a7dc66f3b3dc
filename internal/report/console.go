package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// ConsoleOptions controls how WriteConsole renders a Result.
type ConsoleOptions struct {
	Quiet   bool
	Verbose bool
	// Color forces color on/off; nil auto-detects from the writer and
	// NO_COLOR, matching the --color/--no-color flags.
	Color *bool
}

func useColor(w io.Writer, opts ConsoleOptions) bool {
	if opts.Color != nil {
		return *opts.Color
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteConsole renders Result in the plain-text console format: one line
// per file header, one consolidated line per displayed function at its
// worst severity, and a final verdict line.
func WriteConsole(w io.Writer, r Result, opts ConsoleOptions) {
	enableColor := useColor(w, opts)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)
	if !enableColor {
		green.DisableColor()
		yellow.DisableColor()
		red.DisableColor()
	}

	errCount, warnCount := 0, 0
	for _, v := range r.Violations {
		switch v.Severity {
		case types.SeverityError:
			errCount++
		case types.SeverityWarning:
			warnCount++
		}
	}

	if !opts.Quiet {
		for _, f := range r.Files {
			writeFileSection(w, f, r.Violations, opts, green, yellow, red)
		}
		if r.Duplication != nil {
			fmt.Fprintf(w, "\nDuplication: %.1f%% of tokens across %d clone group(s)\n",
				r.Duplication.DuplicationPercentage, len(r.Duplication.Groups))
		}
	}

	status := Status(errCount, warnCount)
	symbol, c := "✓", green
	switch status {
	case "warning":
		symbol, c = "⚠", yellow
	case "error":
		symbol, c = "✗", red
	}
	fmt.Fprintf(w, "\n%s %d file(s), %d function(s): %d error(s), %d warning(s), health %.1f\n",
		c.Sprint(symbol), len(r.Files), TotalFunctions(r.Files), errCount, warnCount, r.ProjectScore)
}

func writeFileSection(w io.Writer, f types.FileRecord, violations []types.Violation, opts ConsoleOptions,
	green, yellow, red *color.Color) {
	var lines []string
	for _, fn := range f.Functions {
		fnViolations := ViolationsForFunction(fn, violations)
		status := FunctionStatus(fn, fnViolations)
		if status == "ok" && !opts.Verbose {
			continue
		}

		symbol, c := "✓", green
		switch status {
		case "warning":
			symbol, c = "⚠", yellow
		case "error":
			symbol, c = "✗", red
		}

		line := fmt.Sprintf("  %d:%d  %s  %-7s  Function '%s' cyclomatic %d cognitive %d",
			fn.StartLine, fn.StartCol, c.Sprint(symbol), status, fn.Name, fn.Cyclomatic, fn.Cognitive)
		line += appendages(fn, fnViolations, opts.Verbose)
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w, f.Path)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}

func appendages(fn types.FunctionRecord, violations []types.Violation, verbose bool) string {
	violates := func(metric string) bool {
		for _, v := range violations {
			if v.Metric == metric {
				return true
			}
		}
		return false
	}

	var s string
	if verbose || violates("halstead_volume") || violates("halstead_difficulty") ||
		violates("halstead_effort") || violates("halstead_bugs") {
		s += fmt.Sprintf(" [halstead vol %.0f]", fn.HalsteadVolume)
	}
	if verbose || violates("line_count") {
		s += fmt.Sprintf(" [length %d]", fn.FunctionLength)
	}
	if verbose || violates("params_count") {
		s += fmt.Sprintf(" [params %d]", fn.ParamsCount)
	}
	if verbose || violates("nesting_depth") {
		s += fmt.Sprintf(" [depth %d]", fn.NestingDepth)
	}
	return s
}
