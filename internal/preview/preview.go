// Package preview draws series as terminal line graphs.
package preview

import (
	"errors"
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flowviz/internal/field"
)

var ErrEmpty = errors.New("preview: no data")

// Size of a terminal graph in character cells.
type Size struct {
	Width, Height int
}

var DefaultSize = Size{Width: 80, Height: 12}

// Energy plots kinetic energy in file order.
func Energy(ts *field.TimeSeries, size Size) (string, error) {
	if ts == nil || len(ts.Values) == 0 {
		return "", ErrEmpty
	}
	caption := fmt.Sprintf("kinetic energy, steps %g..%g", ts.Steps[0], ts.Steps[len(ts.Steps)-1])
	return asciigraph.Plot(ts.Values,
		asciigraph.Height(size.Height),
		asciigraph.Width(size.Width),
		asciigraph.Caption(caption),
	), nil
}

// Profile plots u, v and magnitude along the central cut.
func Profile(p *field.Profile, step int, size Size) (string, error) {
	if p == nil || len(p.Position) == 0 {
		return "", ErrEmpty
	}
	return asciigraph.PlotMany([][]float64{p.U, p.V, p.Magnitude},
		asciigraph.Height(size.Height),
		asciigraph.Width(size.Width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue, asciigraph.Green),
		asciigraph.SeriesLegends("u", "v", "|u|"),
		asciigraph.Caption(fmt.Sprintf("central profile, step %d", step)),
	), nil
}
