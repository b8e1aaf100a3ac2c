package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/flowviz/internal/field"
)

// PanelKind selects how each grouped panel is drawn.
type PanelKind int

const (
	PanelHeatmap PanelKind = iota
	PanelSurface
)

func (k PanelKind) String() string {
	if k == PanelSurface {
		return "surface"
	}
	return "heatmap"
}

// Panel is one cell of a grouped figure. A nil Grid is drawn blank.
type Panel struct {
	Title string
	Grid  *field.Grid
}

// Layout is a rows x cols arrangement, filled row by row.
type Layout struct {
	Rows, Cols int
}

// DefaultLayout is two rows of three panels.
var DefaultLayout = Layout{Rows: 2, Cols: 3}

const (
	groupedTitleBand = 50.0
	groupedBarBand   = 110.0
)

// GroupedGeometry returns the plot rectangle of every cell and the shared
// colorbar rectangle for a width x height figure.
func GroupedGeometry(width, height int, layout Layout) (plots []image.Rectangle, colorbar image.Rectangle) {
	cells := groupedCells(width, height, layout)
	plots = make([]image.Rectangle, len(cells))
	for i, c := range cells {
		plots[i] = c.Bounds()
	}
	return plots, groupedBar(width, height).Bounds()
}

func groupedCells(width, height int, layout Layout) []rect {
	cw := (float64(width) - groupedBarBand) / float64(layout.Cols)
	chh := (float64(height) - groupedTitleBand) / float64(layout.Rows)
	out := make([]rect, 0, layout.Rows*layout.Cols)
	for r := 0; r < layout.Rows; r++ {
		for c := 0; c < layout.Cols; c++ {
			x := float64(c) * cw
			y := groupedTitleBand + float64(r)*chh
			out = append(out, rect{x + 50, y + 28, cw - 65, chh - 63})
		}
	}
	return out
}

func groupedBar(width, height int) rect {
	return rect{float64(width) - groupedBarBand + 30, groupedTitleBand + 28, 22, float64(height) - groupedTitleBand - 90}
}

// Grouped draws panels in one figure sharing a single color scale: the fixed
// bounds when set, otherwise the min and max over every present panel.
func Grouped(panels []Panel, layout Layout, kind PanelKind, spec Spec) error {
	if layout.Rows < 1 || layout.Cols < 1 {
		return fmt.Errorf("render: invalid layout %dx%d", layout.Rows, layout.Cols)
	}
	if len(panels) > layout.Rows*layout.Cols {
		return fmt.Errorf("render: %d panels do not fit a %dx%d layout", len(panels), layout.Rows, layout.Cols)
	}
	cmap, err := spec.colormap("viridis")
	if err != nil {
		return err
	}

	var present []*mat.Dense
	for _, p := range panels {
		if p.Grid != nil {
			present = append(present, p.Grid.Scalar())
		}
	}
	norm, err := spec.Bounds.Norm(present...)
	if err != nil {
		return err
	}

	w, h := spec.size()
	dc, err := newSurface(w, h)
	if err != nil {
		return err
	}
	defer dc.Close()

	xl, yl := spec.labels("x", "y")
	cells := groupedCells(w, h, layout)
	for i, p := range panels {
		r := cells[i]
		cx, _ := r.center()
		drawText(dc, 13, p.Title, cx, r.Y-10, 0.5, 0)
		if p.Grid == nil {
			strokeRect(dc, r, gg.RGB(0.7, 0.7, 0.7))
			drawText(dc, 14, "missing", cx, r.Y+r.H/2, 0.5, 0.5)
			continue
		}
		switch kind {
		case PanelSurface:
			drawSurface(dc, p.Grid.Scalar(), r, cmap, norm, spec.Stride, xl, yl)
		default:
			drawRaster(dc, p.Grid.Scalar(), r, cmap, norm)
			drawAxes(dc, r, p.Grid.Extent(), xl, yl, 9)
		}
	}

	drawColorbar(dc, groupedBar(w, h), cmap, norm, spec.Field)
	drawText(dc, 18, spec.Title, float64(w)/2, 32, 0.5, 0)
	return savePNG(dc, spec.Output)
}
