package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverFindsDotComplexityGuardJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".complexityguard.json"), "{}")

	got, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, ".complexityguard.json")
	if got != want {
		t.Errorf("Discover = %q, want %q", got, want)
	}
}

func TestDiscoverPrefersDotfileOverConfigJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".complexityguard.json"), "{}")
	writeFile(t, filepath.Join(dir, "complexityguard.config.json"), "{}")

	got, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, ".complexityguard.json")
	if got != want {
		t.Errorf("Discover = %q, want %q", got, want)
	}
}

func TestDiscoverWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".complexityguard.json"), "{}")
	sub := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Discover(sub)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, ".complexityguard.json")
	if got != want {
		t.Errorf("Discover = %q, want %q", got, want)
	}
}

func TestDiscoverStopsAtGitBoundary(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref: refs/heads/main")
	sub := filepath.Join(root, "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// A config file above the .git boundary must not be found.
	writeFile(t, filepath.Join(filepath.Dir(root), ".complexityguard.json"), "{}")

	got, err := Discover(sub)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Discover = %q, want empty (stopped at .git)", got)
	}
}

func TestDiscoverReturnsEmptyWhenNoneFound(t *testing.T) {
	dir := t.TempDir()
	got, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("Discover = %q, want empty", got)
	}
}

func TestLoadParsesThresholdsAndWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".complexityguard.json")
	writeFile(t, path, `{
		"analysis": {
			"thresholds": {
				"cyclomatic": {"warning": 5, "error": 15}
			},
			"no_duplication": true
		},
		"weights": {"cyclomatic": 0.5}
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	tt := cfg.ThresholdTable()
	th := tt.Get("cyclomatic")
	if th.Warning != 5 || th.Error != 15 {
		t.Errorf("cyclomatic threshold = %+v, want {5 15}", th)
	}

	wv := cfg.WeightVector()
	if wv.Cyclomatic != 0.5 {
		t.Errorf("weights.Cyclomatic = %v, want 0.5", wv.Cyclomatic)
	}
	if cfg.DuplicationEnabled() {
		t.Error("DuplicationEnabled() = true, want false (no_duplication set)")
	}
}

func TestThresholdTableForAppliesMatchingOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".complexityguard.json")
	writeFile(t, path, `{
		"analysis": {
			"thresholds": {"cyclomatic": {"warning": 10, "error": 20}}
		},
		"overrides": [
			{
				"files": ["*.test.ts"],
				"analysis": {"thresholds": {"cyclomatic": {"warning": 30, "error": 60}}}
			}
		]
	}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	base := cfg.ThresholdTableFor("src/app.ts")
	if th := base.Get("cyclomatic"); th.Warning != 10 || th.Error != 20 {
		t.Errorf("non-matching path threshold = %+v, want {10 20}", th)
	}

	relaxed := cfg.ThresholdTableFor("src/app.test.ts")
	if th := relaxed.Get("cyclomatic"); th.Warning != 30 || th.Error != 60 {
		t.Errorf("matching path threshold = %+v, want {30 60}", th)
	}
}

func TestLoadUnknownFieldsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".complexityguard.json")
	writeFile(t, path, `{"totallyUnknownField": 42, "analysis": {"threads": 4}}`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Analysis.Threads != 4 {
		t.Errorf("Analysis.Threads = %d, want 4", cfg.Analysis.Threads)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/.complexityguard.json")
	if err == nil {
		t.Error("Load of missing file should error")
	}
}

func TestLoadMalformedJSONErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".complexityguard.json")
	writeFile(t, path, `{not valid json`)
	if _, err := Load(path); err == nil {
		t.Error("Load of malformed JSON should error")
	}
}

func TestNilConfigDuplicationEnabledDefaultsTrue(t *testing.T) {
	var cfg *Config
	if !cfg.DuplicationEnabled() {
		t.Error("nil config DuplicationEnabled() should default true")
	}
}
