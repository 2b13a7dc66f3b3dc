// Package report assembles analysis output into the four supported
// formats: console, JSON, SARIF 2.1.0, and self-contained HTML.
package report

import "github.com/ingo-eichhorst/complexityguard/pkg/types"

// Result is everything a renderer needs: the already-sorted, already-scored
// FileRecords, every classified violation, the optional duplication report,
// and run metadata. The pipeline builds exactly one Result per run and
// passes it to whichever renderer --format selects.
type Result struct {
	Version      string
	Timestamp    int64 // Unix epoch seconds
	Files        []types.FileRecord
	Violations   []types.Violation // already grouped per-function by classify.File
	ProjectScore float64
	Duplication  *types.DuplicationReport // nil when duplication detection is disabled
	ElapsedMS    int64
	ThreadCount  int
}

// Status is the three-way pass/warning/error summary status, derived from
// error and warning counts.
func Status(errorCount, warningCount int) string {
	switch {
	case errorCount > 0:
		return "error"
	case warningCount > 0:
		return "warning"
	default:
		return "pass"
	}
}

// FunctionStatus is a single function's worst violation severity, or "ok".
func FunctionStatus(fn types.FunctionRecord, violations []types.Violation) string {
	worst := "ok"
	for _, v := range violations {
		if v.FunctionName != fn.Name || v.StartLine != fn.StartLine {
			continue
		}
		if v.Severity == types.SeverityError {
			return "error"
		}
		if v.Severity == types.SeverityWarning {
			worst = "warning"
		}
	}
	return worst
}

// ViolationsForFunction filters a violation slice down to one function,
// identified by its start line (unique within a file since FunctionRecords
// are DFS-ordered and distinct nodes never share a start line).
func ViolationsForFunction(fn types.FunctionRecord, violations []types.Violation) []types.Violation {
	var out []types.Violation
	for _, v := range violations {
		if v.StartLine == fn.StartLine && v.FunctionName == fn.Name {
			out = append(out, v)
		}
	}
	return out
}

// TotalFunctions counts functions across every file.
func TotalFunctions(files []types.FileRecord) int {
	n := 0
	for _, f := range files {
		n += len(f.Functions)
	}
	return n
}
