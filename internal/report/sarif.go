package report

import (
	"encoding/json"
	"io"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// sarifRuleIDs lists the eleven rules in fixed order; index == ruleIndex.
var sarifRuleIDs = []string{
	"complexity-guard/cyclomatic",
	"complexity-guard/cognitive",
	"complexity-guard/halstead-volume",
	"complexity-guard/halstead-difficulty",
	"complexity-guard/halstead-effort",
	"complexity-guard/halstead-bugs",
	"complexity-guard/line-count",
	"complexity-guard/param-count",
	"complexity-guard/nesting-depth",
	"complexity-guard/health-score",
	"complexity-guard/duplication",
}

// sarifRuleIndex maps a types.Violation.RuleID (the same stable rule ids
// internal/classify emits) to its fixed SARIF rule index.
var sarifRuleIndex = map[string]int{
	"complexity-guard/cyclomatic":          0,
	"complexity-guard/cognitive":           1,
	"complexity-guard/halstead-volume":     2,
	"complexity-guard/halstead-difficulty": 3,
	"complexity-guard/halstead-effort":     4,
	"complexity-guard/halstead-bugs":       5,
	"complexity-guard/line-count":          6,
	"complexity-guard/param-count":         7,
	"complexity-guard/nesting-depth":       8,
}

type sarifDoc struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	ShortDescription sarifText `json:"shortDescription"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifText       `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
}

func sarifRules() []sarifRule {
	rules := make([]sarifRule, len(sarifRuleIDs))
	for i, id := range sarifRuleIDs {
		rules[i] = sarifRule{ID: id, Name: id, ShortDescription: sarifText{Text: id}}
	}
	return rules
}

// WriteSARIF renders Result as a SARIF 2.1.0 log: eleven fixed rules, one
// result per violation plus one per duplication clone group (on the
// trailing "duplication" rule, first instance primary, remaining instances
// as relatedLocations).
func WriteSARIF(w io.Writer, r Result, version string) error {
	doc := sarifDoc{
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Version: "2.1.0",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    "ComplexityGuard",
				Version: version,
				Rules:   sarifRules(),
			}},
		}},
	}

	for _, v := range r.Violations {
		idx, ok := sarifRuleIndex[v.RuleID]
		if !ok {
			continue
		}
		level := "warning"
		if v.Severity == types.SeverityError {
			level = "error"
		}
		doc.Runs[0].Results = append(doc.Runs[0].Results, sarifResult{
			RuleID:    v.RuleID,
			RuleIndex: idx,
			Level:     level,
			Message:   sarifText{Text: v.Message},
			Locations: []sarifLocation{{PhysicalLocation: sarifPhysicalLocation{
				ArtifactLocation: sarifArtifactLocation{URI: v.FilePath},
				Region:           sarifRegion{StartLine: v.StartLine, StartColumn: v.StartCol + 1},
			}}},
		})
	}

	if r.Duplication != nil {
		const duplicationRuleIndex = 10
		for _, g := range r.Duplication.Groups {
			if len(g.Instances) == 0 {
				continue
			}
			primary := g.Instances[0]
			result := sarifResult{
				RuleID:    "complexity-guard/duplication",
				RuleIndex: duplicationRuleIndex,
				Level:     "warning",
				Message:   sarifText{Text: "duplicated code block"},
				Locations: []sarifLocation{sarifLocationFor(r.Files, primary)},
			}
			for _, inst := range g.Instances[1:] {
				result.RelatedLocations = append(result.RelatedLocations, sarifLocationFor(r.Files, inst))
			}
			doc.Runs[0].Results = append(doc.Runs[0].Results, result)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func sarifLocationFor(files []types.FileRecord, inst types.CloneInstance) sarifLocation {
	path := ""
	if inst.FileIndex >= 0 && inst.FileIndex < len(files) {
		path = files[inst.FileIndex].Path
	}
	return sarifLocation{PhysicalLocation: sarifPhysicalLocation{
		ArtifactLocation: sarifArtifactLocation{URI: path},
		Region:           sarifRegion{StartLine: inst.StartLine, EndLine: inst.EndLine, StartColumn: 1},
	}}
}
