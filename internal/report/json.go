package report

import (
	"encoding/json"
	"io"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

type jsonDoc struct {
	Version     string           `json:"version"`
	Timestamp   int64            `json:"timestamp"`
	Summary     jsonSummary      `json:"summary"`
	Files       []jsonFile       `json:"files"`
	Metadata    jsonMetadata     `json:"metadata"`
	Duplication *jsonDuplication `json:"duplication"`
}

type jsonSummary struct {
	FilesAnalyzed  int     `json:"files_analyzed"`
	TotalFunctions int     `json:"total_functions"`
	Warnings       int     `json:"warnings"`
	Errors         int     `json:"errors"`
	Status         string  `json:"status"`
	HealthScore    float64 `json:"health_score"`
}

type jsonMetadata struct {
	ElapsedMS   int64 `json:"elapsed_ms"`
	ThreadCount int   `json:"thread_count"`
}

type jsonFile struct {
	Path        string     `json:"path"`
	Functions   []jsonFunc `json:"functions"`
	FileLength  int        `json:"file_length"`
	ExportCount int        `json:"export_count"`
}

type jsonFunc struct {
	Name               string  `json:"name"`
	StartLine          int     `json:"start_line"`
	EndLine            int     `json:"end_line"`
	StartCol           int     `json:"start_col"`
	Cyclomatic         int     `json:"cyclomatic"`
	Cognitive          int     `json:"cognitive"`
	HalsteadVolume     float64 `json:"halstead_volume"`
	HalsteadDifficulty float64 `json:"halstead_difficulty"`
	HalsteadEffort     float64 `json:"halstead_effort"`
	HalsteadBugs       float64 `json:"halstead_bugs"`
	NestingDepth       int     `json:"nesting_depth"`
	LineCount          int     `json:"line_count"`
	ParamsCount        int     `json:"params_count"`
	HealthScore        float64 `json:"health_score"`
	Status             string  `json:"status"`
}

type jsonDuplication struct {
	Enabled               bool                  `json:"enabled"`
	ProjectDuplicationPct float64               `json:"project_duplication_pct"`
	ProjectStatus         string                `json:"project_status"`
	CloneGroups           []jsonCloneGroup      `json:"clone_groups"`
	Files                 []jsonFileDuplication `json:"files"`
}

type jsonCloneGroup struct {
	TokenCount int                 `json:"token_count"`
	Locations  []jsonCloneLocation `json:"locations"`
}

type jsonCloneLocation struct {
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

type jsonFileDuplication struct {
	Path           string  `json:"path"`
	TotalTokens    int     `json:"total_tokens"`
	ClonedTokens   int     `json:"cloned_tokens"`
	DuplicationPct float64 `json:"duplication_pct"`
	Status         string  `json:"status"`
}

// duplicationStatus maps a per-file or project duplication percentage to a
// pass/warning/error band. Mirrors the thresholded-metric classification
// idiom: anything above 0 but below the warning band passes. Duplication
// is project-level only and never produces per-function violations.
func duplicationStatus(pct float64) string {
	switch {
	case pct >= 20:
		return "error"
	case pct >= 5:
		return "warning"
	default:
		return "pass"
	}
}

// WriteJSON renders Result as the machine-readable JSON report. The field
// set and snake_case key spellings are a stable contract consumed by
// downstream tooling; do not rename them.
func WriteJSON(w io.Writer, r Result) error {
	errCount, warnCount := 0, 0
	for _, v := range r.Violations {
		switch v.Severity {
		case types.SeverityError:
			errCount++
		case types.SeverityWarning:
			warnCount++
		}
	}

	doc := jsonDoc{
		Version:   r.Version,
		Timestamp: r.Timestamp,
		Summary: jsonSummary{
			FilesAnalyzed:  len(r.Files),
			TotalFunctions: TotalFunctions(r.Files),
			Warnings:       warnCount,
			Errors:         errCount,
			Status:         Status(errCount, warnCount),
			HealthScore:    r.ProjectScore,
		},
		Metadata: jsonMetadata{ElapsedMS: r.ElapsedMS, ThreadCount: r.ThreadCount},
	}

	for _, f := range r.Files {
		jf := jsonFile{Path: f.Path, FileLength: f.FileLength, ExportCount: f.ExportCount, Functions: []jsonFunc{}}
		for _, fn := range f.Functions {
			fnViolations := ViolationsForFunction(fn, r.Violations)
			jf.Functions = append(jf.Functions, jsonFunc{
				Name:               fn.Name,
				StartLine:          fn.StartLine,
				EndLine:            fn.EndLine,
				StartCol:           fn.StartCol,
				Cyclomatic:         fn.Cyclomatic,
				Cognitive:          fn.Cognitive,
				HalsteadVolume:     fn.HalsteadVolume,
				HalsteadDifficulty: fn.HalsteadDifficulty,
				HalsteadEffort:     fn.HalsteadEffort,
				HalsteadBugs:       fn.HalsteadBugs,
				NestingDepth:       fn.NestingDepth,
				LineCount:          fn.FunctionLength,
				ParamsCount:        fn.ParamsCount,
				HealthScore:        fn.HealthScore,
				Status:             FunctionStatus(fn, fnViolations),
			})
		}
		doc.Files = append(doc.Files, jf)
	}

	if r.Duplication != nil {
		dup := &jsonDuplication{
			Enabled:               true,
			ProjectDuplicationPct: r.Duplication.DuplicationPercentage,
			ProjectStatus:         duplicationStatus(r.Duplication.DuplicationPercentage),
		}
		for _, g := range r.Duplication.Groups {
			cg := jsonCloneGroup{TokenCount: g.TokenCount}
			for _, inst := range g.Instances {
				file := ""
				if inst.FileIndex >= 0 && inst.FileIndex < len(r.Files) {
					file = r.Files[inst.FileIndex].Path
				}
				cg.Locations = append(cg.Locations, jsonCloneLocation{
					File: file, StartLine: inst.StartLine, EndLine: inst.EndLine,
				})
			}
			dup.CloneGroups = append(dup.CloneGroups, cg)
		}
		for _, fd := range r.Duplication.PerFile {
			dup.Files = append(dup.Files, jsonFileDuplication{
				Path:           fd.Path,
				TotalTokens:    fd.TotalTokens,
				ClonedTokens:   fd.ClonedTokens,
				DuplicationPct: fd.DuplicationPercentage,
				Status:         duplicationStatus(fd.DuplicationPercentage),
			})
		}
		doc.Duplication = dup
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
