package report

import (
	charts "github.com/vicanso/go-charts/v2"
)

const (
	gaugeChartWidth  = 300
	gaugeChartHeight = 300
	gaugeChartPad    = 20
	barChartWidth    = 500
	barChartHeight   = 300
	barChartPadTop   = 40
	barChartPadSide  = 20
	barChartPadLeft  = 50
)

// healthGaugeSVG renders the project health score as a two-slice pie
// (score vs remaining-to-100), the same "value vs max" idiom a true gauge
// chart would show, since go-charts/v2 has no dedicated gauge renderer.
func healthGaugeSVG(score float64) (string, error) {
	remaining := 100 - score
	if remaining < 0 {
		remaining = 0
	}
	p, err := charts.PieRender(
		[]float64{score, remaining},
		charts.SVGTypeOption(),
		charts.TitleTextOptionFunc("Project Health"),
		charts.LegendLabelsOptionFunc([]string{"Health", "Remaining"}),
		charts.ThemeOptionFunc("light"),
		charts.WidthOptionFunc(gaugeChartWidth),
		charts.HeightOptionFunc(gaugeChartHeight),
		charts.PaddingOptionFunc(charts.Box{Top: gaugeChartPad, Right: gaugeChartPad, Bottom: gaugeChartPad, Left: gaugeChartPad}),
	)
	if err != nil {
		return "", err
	}
	buf, err := p.Bytes()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// fileDistributionSVG renders a three-bucket bar chart of ok/warning/error
// file counts.
func fileDistributionSVG(ok, warning, errorCount int) (string, error) {
	values := [][]float64{{float64(ok), float64(warning), float64(errorCount)}}
	p, err := charts.BarRender(
		values,
		charts.SVGTypeOption(),
		charts.TitleTextOptionFunc("File Distribution"),
		charts.XAxisDataOptionFunc([]string{"ok", "warning", "error"}),
		charts.ThemeOptionFunc("light"),
		charts.WidthOptionFunc(barChartWidth),
		charts.HeightOptionFunc(barChartHeight),
		charts.PaddingOptionFunc(charts.Box{Top: barChartPadTop, Right: barChartPadSide, Bottom: barChartPadSide, Left: barChartPadLeft}),
	)
	if err != nil {
		return "", err
	}
	buf, err := p.Bytes()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// hotspotsSVG renders a bar chart of the lowest-health functions.
func hotspotsSVG(names []string, scores []float64) (string, error) {
	if len(names) == 0 {
		return "", nil
	}
	values := [][]float64{scores}
	p, err := charts.BarRender(
		values,
		charts.SVGTypeOption(),
		charts.TitleTextOptionFunc("Top Hotspots"),
		charts.XAxisDataOptionFunc(names),
		charts.ThemeOptionFunc("light"),
		charts.WidthOptionFunc(barChartWidth),
		charts.HeightOptionFunc(barChartHeight),
		charts.PaddingOptionFunc(charts.Box{Top: barChartPadTop, Right: barChartPadSide, Bottom: barChartPadSide, Left: barChartPadLeft}),
	)
	if err != nil {
		return "", err
	}
	buf, err := p.Bytes()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
