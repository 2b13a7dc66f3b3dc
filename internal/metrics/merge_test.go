package metrics

import "testing"

func TestAnalyzeFileProducesOneRecordPerFunction(t *testing.T) {
	tree, content := parseTS(t, `
		function a() { return 1; }
		const b = () => {
			function c() { return 2; }
			return c();
		};
		export default function () { return 3; }`)

	records, fileLength, exportCount := AnalyzeFile(tree.RootNode(), content, DefaultCyclomaticOptions)

	if len(records) != 4 {
		t.Fatalf("len(records) = %d, want 4 (a, b, nested c, default export)", len(records))
	}
	if records[0].Name != "a" {
		t.Errorf("records[0].Name = %q, want %q", records[0].Name, "a")
	}
	if records[1].Name != "b" {
		t.Errorf("records[1].Name = %q, want %q", records[1].Name, "b")
	}
	if records[2].Name != "c" {
		t.Errorf("records[2].Name = %q, want %q", records[2].Name, "c")
	}
	if records[3].Name != "default export" {
		t.Errorf("records[3].Name = %q, want %q", records[3].Name, "default export")
	}
	if fileLength <= 0 {
		t.Errorf("fileLength = %d, want > 0", fileLength)
	}
	if exportCount != 1 {
		t.Errorf("exportCount = %d, want 1", exportCount)
	}
}

func TestAnalyzeFileStartLineIsOneIndexed(t *testing.T) {
	tree, content := parseTS(t, "function a() { return 1; }")
	records, _, _ := AnalyzeFile(tree.RootNode(), content, DefaultCyclomaticOptions)
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].StartLine != 1 {
		t.Errorf("StartLine = %d, want 1", records[0].StartLine)
	}
}
