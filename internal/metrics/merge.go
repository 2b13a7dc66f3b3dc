package metrics

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/ingo-eichhorst/complexityguard/internal/naming"
	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// AnalyzeFile runs every per-function walker over root's discovered
// functions and the file-level structural metrics, producing the
// FunctionRecords for one file.
//
// Every walker consumes the same DiscoverFunctions slice in the same
// order, so positional merge here never needs to re-match nodes across
// walkers. HealthScore is left zero; scoring is a separate pass once
// thresholds and weights are known.
func AnalyzeFile(root *tree_sitter.Node, content []byte, cycOpts CyclomaticOptions) ([]types.FunctionRecord, int, int) {
	fns := DiscoverFunctions(root)
	records := make([]types.FunctionRecord, 0, len(fns))

	for _, fn := range fns {
		start := fn.StartPosition()
		end := fn.EndPosition()
		halstead := Halstead(fn, content)

		records = append(records, types.FunctionRecord{
			Name:      naming.Resolve(fn, content),
			StartLine: int(start.Row) + 1,
			EndLine:   int(end.Row) + 1,
			StartCol:  int(start.Column),

			Cyclomatic: Cyclomatic(fn, content, cycOpts),
			Cognitive:  Cognitive(fn, content),

			HalsteadVolume:     halstead.Volume,
			HalsteadDifficulty: halstead.Difficulty,
			HalsteadEffort:     halstead.Effort,
			HalsteadBugs:       halstead.Bugs,

			FunctionLength: FunctionLength(fn, content),
			ParamsCount:    ParamsCount(fn),
			NestingDepth:   NestingDepth(fn, content),
		})
	}

	fileLength := FileLength(content)
	exportCount := ExportCount(root)
	return records, fileLength, exportCount
}
