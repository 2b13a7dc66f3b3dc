// Package scoring composes the per-metric, per-function, per-file, and
// per-project health scores from raw metric values and threshold pairs.
package scoring

import "github.com/ingo-eichhorst/complexityguard/pkg/types"

// ScoreOf maps a raw metric value against its (warning, error) threshold
// pair to a score in [0, 100], using the piecewise-linear shape anchored at
// score(0)=100, score(warning)=80, score(error)=60, score(2*error)=0,
// linear between, clamped. Degenerate pairs (warning >= error, or either
// <= 0) score 0 for any positive x and 100 for x <= 0.
func ScoreOf(value float64, t types.Threshold) float64 {
	if t.Warning <= 0 || t.Error <= 0 || t.Warning >= t.Error {
		if value <= 0 {
			return 100
		}
		return 0
	}
	if value <= 0 {
		return 100
	}

	var score float64
	switch {
	case value <= t.Warning:
		score = lerp(value, 0, 100, t.Warning, 80)
	case value <= t.Error:
		score = lerp(value, t.Warning, 80, t.Error, 60)
	case value <= 2*t.Error:
		score = lerp(value, t.Error, 60, 2*t.Error, 0)
	default:
		score = 0
	}
	return clamp(score, 0, 100)
}

func lerp(x, x0, y0, x1, y1 float64) float64 {
	if x1 == x0 {
		return y0
	}
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FunctionScore computes one function's health score: the structural score
// is the mean of its three structural sub-scores, then the four components
// (cyclomatic, cognitive, halstead, structural) are combined via the
// weight-normalized average, excluding duplication.
func FunctionScore(fn types.FunctionRecord, thresholds *types.ThresholdTable, weights types.WeightVector) float64 {
	sCyc := ScoreOf(float64(fn.Cyclomatic), thresholds.Get(types.MetricCyclomatic))
	sCog := ScoreOf(float64(fn.Cognitive), thresholds.Get(types.MetricCognitive))
	sHal := ScoreOf(fn.HalsteadVolume, thresholds.Get(types.MetricHalsteadVolume))

	sLength := ScoreOf(float64(fn.FunctionLength), thresholds.Get(types.MetricLineCount))
	sParams := ScoreOf(float64(fn.ParamsCount), thresholds.Get(types.MetricParamsCount))
	sNesting := ScoreOf(float64(fn.NestingDepth), thresholds.Get(types.MetricNestingDepth))
	sStr := (sLength + sParams + sNesting) / 3

	w := weights.Normalized(false)
	sum := w.Cyclomatic + w.Cognitive + w.Halstead + w.Structural
	if sum <= 0 {
		return (sCyc + sCog + sHal + sStr) / 4
	}
	return (w.Cyclomatic*sCyc + w.Cognitive*sCog + w.Halstead*sHal + w.Structural*sStr) / sum
}

// FileScore is the arithmetic mean of a file's function scores, or 100 for
// a file with no functions.
func FileScore(functions []types.FunctionRecord) float64 {
	if len(functions) == 0 {
		return 100
	}
	var sum float64
	for _, fn := range functions {
		sum += fn.HealthScore
	}
	return sum / float64(len(functions))
}

// ProjectScore is the function-count-weighted average of file scores, or
// 100 when there are no functions across the whole project.
func ProjectScore(files []types.FileRecord) float64 {
	var weightedSum float64
	var totalFns int
	for _, f := range files {
		n := len(f.Functions)
		if n == 0 {
			continue
		}
		weightedSum += f.FileScore * float64(n)
		totalFns += n
	}
	if totalFns == 0 {
		return 100
	}
	return weightedSum / float64(totalFns)
}
