package render

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/san-kum/flowviz/internal/field"
)

const maxArrowsPerAxis = 32

// VectorField draws one arrow per sampled grid point, colored by magnitude.
// An arrow for magnitude m is m/spec.ArrowScale inches long.
func VectorField(g *field.Grid, spec Spec) error {
	if g == nil {
		return ErrNoData
	}
	if !(spec.ArrowScale > 0) {
		return fmt.Errorf("render: arrow scale must be positive, got %g", spec.ArrowScale)
	}
	u, v, mag, err := g.Vector()
	if err != nil {
		return err
	}
	cmap, err := spec.colormap("jet")
	if err != nil {
		return err
	}
	norm, err := spec.Bounds.Norm(mag)
	if err != nil {
		return err
	}
	w, h := spec.size()
	dc, err := newSurface(w, h)
	if err != nil {
		return err
	}
	defer dc.Close()

	l := newSingleLayout(w, h)
	ext := g.Extent()
	stride := spec.Stride
	if stride < 1 {
		stride = arrowStride(g.NX, g.NY)
	}

	dc.SetLineWidth(1.5)
	for row := 0; row < g.NY; row += stride {
		for col := 0; col < g.NX; col += stride {
			m := mag.At(row, col)
			if m == 0 || math.IsNaN(m) {
				continue
			}
			x := l.plot.X + (g.X.At(row, col)-ext.XMin)/(ext.XMax-ext.XMin)*l.plot.W
			y := l.plot.Y + l.plot.H - (g.Y.At(row, col)-ext.YMin)/(ext.YMax-ext.YMin)*l.plot.H
			length := m / spec.ArrowScale * pixelsPerInch
			dx, dy := u.At(row, col), -v.At(row, col)
			n := math.Hypot(dx, dy)
			if n == 0 || math.IsNaN(n) {
				continue
			}
			dx, dy = dx/n*length, dy/n*length

			dc.SetColor(cmap.Color(norm, m).Color())
			arrow(dc, x, y, dx, dy)
		}
	}

	xl, yl := spec.labels("x", "y")
	drawAxes(dc, l.plot, ext, xl, yl, 12)
	drawColorbar(dc, l.colorbar, cmap, norm, "|u|")
	cx, _ := l.title.center()
	drawText(dc, 18, spec.Title, cx, 32, 0.5, 0)
	return savePNG(dc, spec.Output)
}

// arrowStride keeps at most maxArrowsPerAxis arrows along the longer axis.
func arrowStride(nx, ny int) int {
	n := max(nx, ny)
	return max(1, (n+maxArrowsPerAxis-1)/maxArrowsPerAxis)
}

func arrow(dc *gg.Context, x, y, dx, dy float64) {
	tx, ty := x+dx, y+dy
	dc.DrawLine(x, y, tx, ty)
	_ = dc.Stroke()

	length := math.Hypot(dx, dy)
	head := math.Min(8, 0.35*length)
	if head < 1 {
		return
	}
	angle := math.Atan2(dy, dx)
	const spread = 25 * math.Pi / 180
	dc.MoveTo(tx, ty)
	dc.LineTo(tx-head*math.Cos(angle-spread), ty-head*math.Sin(angle-spread))
	dc.LineTo(tx-head*math.Cos(angle+spread), ty-head*math.Sin(angle+spread))
	dc.ClosePath()
	_ = dc.Fill()
}
