package render

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/flowviz/internal/field"
)

// Profile plots u, v and magnitude against position.
func Profile(p *field.Profile, spec Spec) error {
	if p == nil || len(p.Position) == 0 {
		return ErrNoData
	}
	xl, yl := spec.labels("Position", "Velocity")
	series := []chart.Series{
		line("u", p.Position, p.U, chart.ColorRed, false),
		line("v", p.Position, p.V, chart.ColorBlue, false),
		line("|u|", p.Position, p.Magnitude, chart.ColorGreen, false),
	}
	return renderChart(spec, xl, yl, series, true, p.Position, p.U, p.V, p.Magnitude)
}

// EnergyHistory plots kinetic energy against step as a marked line.
func EnergyHistory(ts *field.TimeSeries, spec Spec) error {
	if ts == nil || len(ts.Steps) == 0 {
		return ErrNoData
	}
	xl, yl := spec.labels("Time Step", "Kinetic Energy")
	series := []chart.Series{
		line("energy", ts.Steps, ts.Values, chart.ColorBlue, true),
	}
	return renderChart(spec, xl, yl, series, false, ts.Steps, ts.Values)
}

func line(name string, xs, ys []float64, c drawing.Color, marked bool) chart.ContinuousSeries {
	style := chart.Style{StrokeColor: c, StrokeWidth: 2}
	if marked {
		style.DotColor = c
		style.DotWidth = 3
	}
	return chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: style}
}

// renderChart renders to memory first so a failed render leaves no file.
// xs is the shared x column; ys are every plotted y column.
func renderChart(spec Spec, xlabel, ylabel string, series []chart.Series, legend bool, xs []float64, ys ...[]float64) error {
	if spec.Output == "" {
		return fmt.Errorf("render: empty output path")
	}
	w, h := spec.size()

	var all []float64
	for _, y := range ys {
		all = append(all, y...)
	}
	ch := chart.Chart{
		Title:      spec.Title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: xlabel, Range: paddedRange(xs)},
		YAxis:      chart.YAxis{Name: ylabel, Range: paddedRange(all)},
		Series:     series,
	}
	if legend {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render: chart %s: %w", spec.Output, err)
	}
	if err := os.WriteFile(spec.Output, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("render: save %s: %w", spec.Output, err)
	}
	return nil
}

// paddedRange widens a zero-width range, which go-chart rejects.
func paddedRange(vs []float64) *chart.ContinuousRange {
	lo, hi := floats.Min(vs), floats.Max(vs)
	if hi == lo {
		pad := 0.5
		if lo != 0 {
			pad = 0.05 * math.Abs(lo)
		}
		lo, hi = lo-pad, hi+pad
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}
