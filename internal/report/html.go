package report

import (
	"fmt"
	"html"
	"io"
	"sort"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

const topHotspotsN = 5

const htmlStyle = `
body { font-family: -apple-system, Helvetica, Arial, sans-serif; margin: 2rem; color: #1a1a1a; }
h1, h2 { color: #111; }
.charts { display: flex; flex-wrap: wrap; gap: 1rem; }
table { border-collapse: collapse; width: 100%; margin-bottom: 1.5rem; }
th, td { text-align: left; padding: 0.35rem 0.6rem; border-bottom: 1px solid #ddd; font-size: 0.9rem; }
.status-ok { color: #1a7f37; }
.status-warning { color: #9a6700; }
.status-error { color: #cf222e; }
.file-path { font-weight: 600; margin-top: 1.2rem; }
`

const htmlScript = `
document.querySelectorAll('table.functions').forEach(function (t) {
  t.querySelectorAll('tr[data-status="ok"]').forEach(function (row) {
    row.style.display = 'none';
  });
});
`

// WriteHTML renders Result as a single self-contained HTML document (no
// external URLs): header, project health gauge, file distribution chart,
// per-file sections, top-hotspots list, and an optional duplication
// section.
func WriteHTML(w io.Writer, r Result, version string) error {
	errCount, warnCount := 0, 0
	okFiles, warnFiles, errFiles := 0, 0, 0
	for _, f := range r.Files {
		worst := "ok"
		for _, fn := range f.Functions {
			st := FunctionStatus(fn, ViolationsForFunction(fn, r.Violations))
			if st == "error" {
				worst = "error"
			} else if st == "warning" && worst != "error" {
				worst = "warning"
			}
		}
		switch worst {
		case "error":
			errFiles++
		case "warning":
			warnFiles++
		default:
			okFiles++
		}
	}
	for _, v := range r.Violations {
		switch v.Severity {
		case types.SeverityError:
			errCount++
		case types.SeverityWarning:
			warnCount++
		}
	}

	gaugeSVG, err := healthGaugeSVG(r.ProjectScore)
	if err != nil {
		return fmt.Errorf("rendering health gauge: %w", err)
	}
	distSVG, err := fileDistributionSVG(okFiles, warnFiles, errFiles)
	if err != nil {
		return fmt.Errorf("rendering file distribution: %w", err)
	}

	hotspotNames, hotspotScores := topHotspots(r.Files)
	hotspotSVG, err := hotspotsSVG(hotspotNames, hotspotScores)
	if err != nil {
		return fmt.Errorf("rendering hotspots: %w", err)
	}

	fmt.Fprintf(w, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">\n")
	fmt.Fprintf(w, "<title>ComplexityGuard Report</title>\n<style>%s</style>\n</head><body>\n", htmlStyle)
	fmt.Fprintf(w, "<h1>ComplexityGuard %s</h1>\n", html.EscapeString(version))
	fmt.Fprintf(w, "<p>%d file(s), %d function(s) — %d error(s), %d warning(s) — health %.1f</p>\n",
		len(r.Files), TotalFunctions(r.Files), errCount, warnCount, r.ProjectScore)

	fmt.Fprintf(w, "<div class=\"charts\">%s%s</div>\n", gaugeSVG, distSVG)

	if hotspotSVG != "" {
		fmt.Fprintf(w, "<h2>Top Hotspots</h2>\n%s\n", hotspotSVG)
	}

	fmt.Fprintf(w, "<h2>Files</h2>\n")
	for _, f := range r.Files {
		writeHTMLFile(w, f, r.Violations)
	}

	if r.Duplication != nil {
		fmt.Fprintf(w, "<h2>Duplication</h2>\n<p>%.1f%% of tokens duplicated across %d clone group(s).</p>\n",
			r.Duplication.DuplicationPercentage, len(r.Duplication.Groups))
		fmt.Fprintf(w, "<table><tr><th>File</th><th>Total tokens</th><th>Cloned tokens</th><th>%%</th></tr>\n")
		for _, fd := range r.Duplication.PerFile {
			if fd.ClonedTokens == 0 {
				continue
			}
			fmt.Fprintf(w, "<tr><td>%s</td><td>%d</td><td>%d</td><td>%.1f</td></tr>\n",
				html.EscapeString(fd.Path), fd.TotalTokens, fd.ClonedTokens, fd.DuplicationPercentage)
		}
		fmt.Fprintf(w, "</table>\n")
	}

	fmt.Fprintf(w, "<script>%s</script>\n</body></html>\n", htmlScript)
	return nil
}

func writeHTMLFile(w io.Writer, f types.FileRecord, violations []types.Violation) {
	fmt.Fprintf(w, "<div class=\"file-path\">%s</div>\n", html.EscapeString(f.Path))
	fmt.Fprintf(w, "<table class=\"functions\">\n")
	fmt.Fprintf(w, "<tr><th>Function</th><th>Line</th><th>Cyclomatic</th><th>Cognitive</th><th>Health</th><th>Status</th></tr>\n")
	for _, fn := range f.Functions {
		status := FunctionStatus(fn, ViolationsForFunction(fn, violations))
		fmt.Fprintf(w, "<tr data-status=\"%s\" class=\"status-%s\"><td>%s</td><td>%d</td><td>%d</td><td>%d</td><td>%.1f</td><td>%s</td></tr>\n",
			status, status, html.EscapeString(fn.Name), fn.StartLine, fn.Cyclomatic, fn.Cognitive, fn.HealthScore, status)
	}
	fmt.Fprintf(w, "</table>\n")
}

// topHotspots returns up to topHotspotsN lowest-health function names and
// scores across the whole project, sorted ascending by health.
func topHotspots(files []types.FileRecord) ([]string, []float64) {
	type entry struct {
		name  string
		score float64
	}
	var all []entry
	for _, f := range files {
		for _, fn := range f.Functions {
			name := fn.Name
			if name == "" {
				name = "<anonymous>"
			}
			all = append(all, entry{name: name, score: fn.HealthScore})
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].score < all[j].score })
	if len(all) > topHotspotsN {
		all = all[:topHotspotsN]
	}
	names := make([]string, len(all))
	scores := make([]float64, len(all))
	for i, e := range all {
		names[i] = e.name
		scores[i] = e.score
	}
	return names, scores
}
