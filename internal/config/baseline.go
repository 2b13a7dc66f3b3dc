package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Baseline is a previously recorded run snapshot used by --baseline PATH to
// gate regressions: a run fails when the new project health score drops
// below the recorded one, or when a violation appears that was not present
// in the recorded rule set.
type Baseline struct {
	ProjectHealthScore float64         `yaml:"project_health_score"`
	Violations         []BaselineEntry `yaml:"violations"`
}

// BaselineEntry identifies one previously accepted violation, keyed the
// same way console/JSON/SARIF output identifies a violation.
type BaselineEntry struct {
	RuleID       string `yaml:"rule_id"`
	FilePath     string `yaml:"file_path"`
	FunctionName string `yaml:"function_name"`
}

// LoadBaseline reads a baseline snapshot written by a prior run. Baseline
// files are YAML, unlike the JSON project config file that Load reads.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading baseline %s: %w", path, err)
	}
	var b Baseline
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline %s: %w", path, err)
	}
	return &b, nil
}

// key identifies one BaselineEntry for set-membership comparison.
func (e BaselineEntry) key() string {
	return e.RuleID + "\x00" + e.FilePath + "\x00" + e.FunctionName
}

// Failed reports whether the current run regresses against b: either the
// project health score dropped, or a violation exists that the baseline
// does not already record.
func (b *Baseline) Failed(currentScore float64, currentKeys []BaselineEntry) bool {
	if b == nil {
		return false
	}
	if currentScore < b.ProjectHealthScore {
		return true
	}
	known := make(map[string]bool, len(b.Violations))
	for _, v := range b.Violations {
		known[v.key()] = true
	}
	for _, v := range currentKeys {
		if !known[v.key()] {
			return true
		}
	}
	return false
}
