package pipeline

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/ingo-eichhorst/complexityguard/internal/classify"
	"github.com/ingo-eichhorst/complexityguard/internal/config"
)

func writeTS(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunAnalyzesCleanProjectSuccessfully(t *testing.T) {
	dir := t.TempDir()
	writeTS(t, dir, "clean.ts", `
export function add(a: number, b: number): number {
	return a + b;
}
`)

	var stderr bytes.Buffer
	p := New(Options{FailOn: classify.FailOnError, Version: "1.0.0"}, &stderr)
	result, exitCode, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if exitCode != classify.ExitSuccess {
		t.Errorf("exitCode = %d, want %d; stderr: %s", exitCode, classify.ExitSuccess, stderr.String())
	}
	if len(result.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(result.Files))
	}
	if len(result.Files[0].Functions) != 1 {
		t.Fatalf("len(Functions) = %d, want 1", len(result.Files[0].Functions))
	}
	if result.Files[0].Functions[0].Name != "add" {
		t.Errorf("function name = %q, want add", result.Files[0].Functions[0].Name)
	}
}

func TestRunPerFileOverrideRelaxesThreshold(t *testing.T) {
	dir := t.TempDir()
	var body string
	for i := 0; i < 25; i++ {
		body += "if (x === " + strconv.Itoa(i) + ") { x++; }\n"
	}
	writeTS(t, dir, "generated.ts", "export function messy(x: number): number {\n"+body+"\treturn x;\n}\n")

	cfg := &config.Config{
		Overrides: []config.Override{{
			Files: []string{"*.ts"},
			Analysis: config.Analysis{
				Thresholds: map[string]config.MetricThreshold{
					"cyclomatic": {Warning: floatPtr(100), Error: floatPtr(200)},
				},
			},
		}},
	}

	p := New(Options{FailOn: classify.FailOnError, Version: "1.0.0", Config: cfg}, &bytes.Buffer{})
	result, exitCode, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if exitCode != classify.ExitSuccess {
		t.Errorf("exitCode = %d, want %d (override should have relaxed the cyclomatic threshold); violations: %+v", exitCode, classify.ExitSuccess, result.Violations)
	}
}

func floatPtr(f float64) *float64 { return &f }

func TestRunDetectsComplexFunctionViolation(t *testing.T) {
	dir := t.TempDir()
	var body string
	for i := 0; i < 25; i++ {
		body += "if (x === " + strconv.Itoa(i) + ") { x++; }\n"
	}
	writeTS(t, dir, "complex.ts", "export function messy(x: number): number {\n"+body+"\treturn x;\n}\n")

	p := New(Options{FailOn: classify.FailOnError, Version: "1.0.0"}, &bytes.Buffer{})
	result, exitCode, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if exitCode != classify.ExitErrorsFound {
		t.Errorf("exitCode = %d, want %d", exitCode, classify.ExitErrorsFound)
	}
	if len(result.Violations) == 0 {
		t.Fatal("expected at least one violation for a 25-branch function")
	}
}

func TestRunDefaultsToCurrentDirectoryWhenNoPathsGiven(t *testing.T) {
	dir := t.TempDir()
	writeTS(t, dir, "a.ts", "export function f() { return 1; }")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(cwd)

	p := New(Options{FailOn: classify.FailOnError, Version: "1.0.0"}, &bytes.Buffer{})
	result, _, err := p.Run(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 1 {
		t.Fatalf("len(Files) = %d, want 1", len(result.Files))
	}
}

func TestRunSkipsOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	var huge string
	for i := 0; i < 10; i++ {
		huge += "const x = 1;\n"
	}
	writeTS(t, dir, "big.ts", huge)

	p := New(Options{FailOn: classify.FailOnError, Version: "1.0.0", MaxFileLines: 5}, &bytes.Buffer{})
	result, _, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Files) != 0 {
		t.Fatalf("len(Files) = %d, want 0 (file exceeds MaxFileLines)", len(result.Files))
	}
}

func TestRunFileScoreIs100WhenNoFunctions(t *testing.T) {
	dir := t.TempDir()
	writeTS(t, dir, "empty.ts", "export const x = 1;\n")

	p := New(Options{FailOn: classify.FailOnError, Version: "1.0.0"}, &bytes.Buffer{})
	result, exitCode, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if exitCode != classify.ExitSuccess {
		t.Errorf("exitCode = %d, want %d", exitCode, classify.ExitSuccess)
	}
	if len(result.Files) != 1 || result.Files[0].FileScore != 100 {
		t.Fatalf("Files = %+v, want single file with score 100", result.Files)
	}
}

func TestRunDuplicationDisabledByDefaultLeavesDuplicationNil(t *testing.T) {
	dir := t.TempDir()
	writeTS(t, dir, "a.ts", "export function f() { return 1; }")

	p := New(Options{FailOn: classify.FailOnError, Version: "1.0.0"}, &bytes.Buffer{})
	result, _, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if result.Duplication != nil {
		t.Error("Duplication should be nil when DuplicationEnabled is false")
	}
}

func TestRunDuplicationEnabledFindsClonesAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	block := `function work(a, b, c, d, e) {
	let total = 0;
	total = total + a;
	total = total + b;
	total = total + c;
	total = total + d;
	total = total + e;
	return total;
}
`
	writeTS(t, dir, "one.js", block)
	writeTS(t, dir, "two.js", block)

	p := New(Options{
		FailOn:             classify.FailOnError,
		Version:            "1.0.0",
		DuplicationEnabled: true,
	}, &bytes.Buffer{})
	result, _, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if result.Duplication == nil {
		t.Fatal("expected a duplication report when DuplicationEnabled is true")
	}
	if len(result.Duplication.Groups) == 0 {
		t.Fatal("expected at least one clone group across the two identical files")
	}
	for _, g := range result.Duplication.Groups {
		for _, inst := range g.Instances {
			if inst.StartLine == 0 {
				t.Error("expected clone instance StartLine to be resolved, got 0")
			}
		}
	}
}

func TestRunFailOnNoneAlwaysSucceeds(t *testing.T) {
	dir := t.TempDir()
	var body string
	for i := 0; i < 25; i++ {
		body += "if (x === " + strconv.Itoa(i) + ") { x++; }\n"
	}
	writeTS(t, dir, "complex.ts", "export function messy(x: number): number {\n"+body+"\treturn x;\n}\n")

	p := New(Options{FailOn: classify.FailOnNone, Version: "1.0.0"}, &bytes.Buffer{})
	_, exitCode, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if exitCode != classify.ExitSuccess {
		t.Errorf("exitCode = %d, want %d (fail-on=none)", exitCode, classify.ExitSuccess)
	}
}

func TestRunReportsElapsedTimeAndThreadCount(t *testing.T) {
	dir := t.TempDir()
	writeTS(t, dir, "a.ts", "export function f() { return 1; }")

	p := New(Options{FailOn: classify.FailOnError, Version: "1.0.0", Threads: 2}, &bytes.Buffer{})
	result, _, err := p.Run([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if result.ThreadCount != 2 {
		t.Errorf("ThreadCount = %d, want 2", result.ThreadCount)
	}
	if result.ElapsedMS < 0 {
		t.Errorf("ElapsedMS = %d, want >= 0", result.ElapsedMS)
	}
}
