// Package config discovers and loads the JSON configuration file that
// tunes an analysis run.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// configFilenames are recognized filenames in priority order.
var configFilenames = []string{".complexityguard.json", "complexityguard.config.json"}

// MetricThreshold is one metric's override pair, as it appears in the
// config file's analysis.thresholds object.
type MetricThreshold struct {
	Warning *float64 `json:"warning"`
	Error   *float64 `json:"error"`
}

// Output is the config file's output section.
type Output struct {
	Format string `json:"format"`
	File   string `json:"file"`
}

// Analysis is the config file's analysis section.
type Analysis struct {
	Metrics            []string                   `json:"metrics"`
	Thresholds         map[string]MetricThreshold `json:"thresholds"`
	NoDuplication      bool                       `json:"no_duplication"`
	DuplicationEnabled *bool                      `json:"duplication_enabled"`
	Threads            int                        `json:"threads"`
}

// Files is the config file's files section.
type Files struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// Weights is the config file's weights section, mirroring types.WeightVector.
type Weights struct {
	Cyclomatic  *float64 `json:"cyclomatic"`
	Cognitive   *float64 `json:"cognitive"`
	Duplication *float64 `json:"duplication"`
	Halstead    *float64 `json:"halstead"`
	Structural  *float64 `json:"structural"`
}

// Override applies an alternate Analysis section to a subset of files.
type Override struct {
	Files    []string `json:"files"`
	Analysis Analysis `json:"analysis"`
}

// Config is the full, optional-everywhere schema of a loaded config file.
type Config struct {
	Output    Output     `json:"output"`
	Analysis  Analysis   `json:"analysis"`
	Files     Files      `json:"files"`
	Weights   Weights    `json:"weights"`
	Overrides []Override `json:"overrides"`
	Baseline  *float64   `json:"baseline"`

	// Path is the absolute path the config was loaded from, or "" if none
	// was found.
	Path string `json:"-"`
}

// Discover walks upward from startDir looking for a recognized config
// filename, stopping at the first parent directory containing .git or at
// the filesystem root. It returns "" (not an error) if none is found.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range configFilenames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load reads and parses a config file at an explicit path. A missing or
// unparseable file is a configuration error; the caller is expected to map
// it to exit code 3.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Path = path
	return &cfg, nil
}

// ThresholdTable builds a types.ThresholdTable from the config's
// analysis.thresholds overrides, layered over types.DefaultThresholds. A
// MetricThreshold missing one side inherits the default for that side.
func (c *Config) ThresholdTable() *types.ThresholdTable {
	if c == nil {
		return types.NewThresholdTable(nil)
	}
	overrides := make(map[types.MetricFamily]types.Threshold, len(c.Analysis.Thresholds))
	for metric, mt := range c.Analysis.Thresholds {
		family := types.MetricFamily(metric)
		base := types.DefaultThresholds[family]
		if mt.Warning != nil {
			base.Warning = *mt.Warning
		}
		if mt.Error != nil {
			base.Error = *mt.Error
		}
		overrides[family] = base
	}
	return types.NewThresholdTable(overrides)
}

// WeightVector builds a types.WeightVector from the config's weights
// section, falling back to types.DefaultWeights per-component.
func (c *Config) WeightVector() types.WeightVector {
	w := types.DefaultWeights
	if c == nil {
		return w
	}
	if c.Weights.Cyclomatic != nil {
		w.Cyclomatic = *c.Weights.Cyclomatic
	}
	if c.Weights.Cognitive != nil {
		w.Cognitive = *c.Weights.Cognitive
	}
	if c.Weights.Duplication != nil {
		w.Duplication = *c.Weights.Duplication
	}
	if c.Weights.Halstead != nil {
		w.Halstead = *c.Weights.Halstead
	}
	if c.Weights.Structural != nil {
		w.Structural = *c.Weights.Structural
	}
	return w
}

// ThresholdTableFor layers the config's `overrides[]` onto its own base
// ThresholdTable, for one file path. Equivalent to
// c.ApplyOverrides(c.ThresholdTable(), path).
func (c *Config) ThresholdTableFor(path string) *types.ThresholdTable {
	return c.ApplyOverrides(c.ThresholdTable(), path)
}

// ApplyOverrides layers every matching `overrides[]` entry's
// analysis.thresholds onto a supplied base ThresholdTable, for one file
// path. A path matched by no override's Files globs gets base back
// unchanged; later-matching overrides win over earlier ones on a given
// metric, letting a narrower override at the end of the list refine a
// broader one earlier in it.
func (c *Config) ApplyOverrides(base *types.ThresholdTable, path string) *types.ThresholdTable {
	if c == nil || len(c.Overrides) == 0 {
		return base
	}

	matched := false
	merged := make(map[types.MetricFamily]types.Threshold, len(types.AllThresholdedMetrics))
	for _, m := range types.AllThresholdedMetrics {
		merged[m] = base.Get(m)
	}
	for _, o := range c.Overrides {
		if !matchesAnyGlob(o.Files, path) {
			continue
		}
		matched = true
		for metric, mt := range o.Analysis.Thresholds {
			family := types.MetricFamily(metric)
			th := merged[family]
			if mt.Warning != nil {
				th.Warning = *mt.Warning
			}
			if mt.Error != nil {
				th.Error = *mt.Error
			}
			merged[family] = th
		}
	}
	if !matched {
		return base
	}
	return types.NewThresholdTable(merged)
}

// matchesAnyGlob reports whether path matches any of patterns, trying a
// full-path match, a basename match, and a plain substring fallback so a
// pattern like "*.test.ts" matches regardless of directory nesting.
func matchesAnyGlob(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, path); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(pattern, filepath.Base(path)); err == nil && ok {
			return true
		}
		if strings.Contains(path, strings.Trim(pattern, "*")) {
			return true
		}
	}
	return false
}

// DuplicationEnabled resolves the config's duplication on/off state,
// defaulting to true (CLI flags still take priority over this).
func (c *Config) DuplicationEnabled() bool {
	if c == nil {
		return true
	}
	if c.Analysis.DuplicationEnabled != nil {
		return *c.Analysis.DuplicationEnabled
	}
	return !c.Analysis.NoDuplication
}

// DefaultInitConfig is the scaffold written by `complexityguard --init`.
const DefaultInitConfig = `{
  "output": {
    "format": "console"
  },
  "analysis": {
    "duplication_enabled": true,
    "threads": 0
  },
  "files": {
    "include": [],
    "exclude": ["**/*.test.ts", "**/*.spec.ts"]
  },
  "weights": {
    "cyclomatic": 0.25,
    "cognitive": 0.25,
    "halstead": 0.2,
    "structural": 0.2,
    "duplication": 0.1
  }
}
`
