// Package classify maps metric values against threshold pairs into
// violations, and violations plus parse-error/baseline state into the
// process exit code.
package classify

import (
	"fmt"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// ruleSlugs maps each metric family to its stable rule-id segment. Rule ids
// are shared across the JSON, SARIF, and console renderers and use hyphens,
// unlike the snake_case metric names the JSON report's numeric keys use.
var ruleSlugs = map[types.MetricFamily]string{
	types.MetricCyclomatic:         "cyclomatic",
	types.MetricCognitive:          "cognitive",
	types.MetricHalsteadVolume:     "halstead-volume",
	types.MetricHalsteadDifficulty: "halstead-difficulty",
	types.MetricHalsteadEffort:     "halstead-effort",
	types.MetricHalsteadBugs:       "halstead-bugs",
	types.MetricLineCount:          "line-count",
	types.MetricParamsCount:        "param-count",
	types.MetricNestingDepth:       "nesting-depth",
}

// RuleID returns the stable namespaced rule id for a metric family, e.g.
// "complexity-guard/halstead-volume".
func RuleID(m types.MetricFamily) string {
	return "complexity-guard/" + ruleSlugs[m]
}

// metricValue extracts one thresholded metric's raw value from a
// FunctionRecord, matching the names in types.AllThresholdedMetrics.
func metricValue(fn types.FunctionRecord, m types.MetricFamily) float64 {
	switch m {
	case types.MetricCyclomatic:
		return float64(fn.Cyclomatic)
	case types.MetricCognitive:
		return float64(fn.Cognitive)
	case types.MetricHalsteadVolume:
		return fn.HalsteadVolume
	case types.MetricHalsteadDifficulty:
		return fn.HalsteadDifficulty
	case types.MetricHalsteadEffort:
		return fn.HalsteadEffort
	case types.MetricHalsteadBugs:
		return fn.HalsteadBugs
	case types.MetricNestingDepth:
		return float64(fn.NestingDepth)
	case types.MetricLineCount:
		return float64(fn.FunctionLength)
	case types.MetricParamsCount:
		return float64(fn.ParamsCount)
	}
	return 0
}

// Function returns zero or more violations for one FunctionRecord, one per
// thresholded metric that meets or exceeds its warning threshold.
func Function(fn types.FunctionRecord, filePath string, thresholds *types.ThresholdTable) []types.Violation {
	var violations []types.Violation
	for _, m := range types.AllThresholdedMetrics {
		t := thresholds.Get(m)
		value := metricValue(fn, m)

		var sev types.Severity
		switch {
		case t.Error > 0 && value >= t.Error:
			sev = types.SeverityError
		case t.Warning > 0 && value >= t.Warning:
			sev = types.SeverityWarning
		default:
			continue
		}

		violations = append(violations, types.Violation{
			RuleID:       RuleID(m),
			Metric:       string(m),
			Severity:     sev,
			Value:        value,
			FunctionName: fn.Name,
			FilePath:     filePath,
			StartLine:    fn.StartLine,
			StartCol:     fn.StartCol,
			Message:      message(fn.Name, m, value, t),
		})
	}
	return violations
}

// File classifies every function in a FileRecord, returning all violations
// in function order.
func File(file types.FileRecord, thresholds *types.ThresholdTable) []types.Violation {
	var all []types.Violation
	for _, fn := range file.Functions {
		all = append(all, Function(fn, file.Path, thresholds)...)
	}
	return all
}

func message(fnName string, m types.MetricFamily, value float64, t types.Threshold) string {
	if fnName == "" {
		fnName = "<anonymous>"
	}
	return fmt.Sprintf("%s's %s is %s, exceeding the threshold", fnName, m, formatValue(value))
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// FailOn is the --fail-on CLI flag value gating exit code 2.
type FailOn string

const (
	FailOnWarning FailOn = "warning"
	FailOnError   FailOn = "error"
	FailOnNone    FailOn = "none"
)

const (
	ExitSuccess       = 0
	ExitErrorsFound   = 1
	ExitWarningsFound = 2
	ExitConfigError   = 3
	ExitParseError    = 4
)

// Summary is the aggregate counts ExitCode needs, independent of how the
// individual violations were produced.
type Summary struct {
	ErrorCount     int
	WarningCount   int
	HasParseErrors bool
	BaselineFailed bool
}

// Count tallies a violation slice into a Summary's ErrorCount/WarningCount.
func Count(violations []types.Violation) (errorCount, warningCount int) {
	for _, v := range violations {
		switch v.Severity {
		case types.SeverityError:
			errorCount++
		case types.SeverityWarning:
			warningCount++
		}
	}
	return
}

// ExitCode applies the exit-code priority order: fail-on=none short-
// circuits to success, then parse errors, then errors/baseline failure,
// then warnings when fail-on=warning.
func ExitCode(s Summary, failOn FailOn) int {
	if failOn == FailOnNone {
		return ExitSuccess
	}
	if s.HasParseErrors {
		return ExitParseError
	}
	if s.ErrorCount > 0 || s.BaselineFailed {
		return ExitErrorsFound
	}
	if s.WarningCount > 0 && failOn == FailOnWarning {
		return ExitWarningsFound
	}
	return ExitSuccess
}
