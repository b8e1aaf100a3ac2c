package render

import (
	"math"
	"sort"

	"github.com/gogpu/gg"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/flowviz/internal/field"
)

const surfaceHeight = 0.8

type quad struct {
	pts   [4][2]float64
	depth float64
	col   gg.RGBA
}

// Surface renders the scalar column of g as a shaded 3D surface seen from
// 30 degrees elevation and -60 degrees azimuth.
func Surface(g *field.Grid, spec Spec) error {
	if g == nil {
		return ErrNoData
	}
	cmap, err := spec.colormap("viridis")
	if err != nil {
		return err
	}
	z := g.Scalar()
	norm, err := spec.Bounds.Norm(z)
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
	xl, yl := spec.labels("x", "y")
	drawSurface(dc, z, l.plot, cmap, norm, spec.Stride, xl, yl)
	drawColorbar(dc, l.colorbar, cmap, norm, spec.Field)
	cx, _ := l.title.center()
	drawText(dc, 18, spec.Title, cx, 32, 0.5, 0)
	return savePNG(dc, spec.Output)
}

// drawSurface projects z into r. Quads are painted back to front.
func drawSurface(dc *gg.Context, z *mat.Dense, r rect, cmap *Colormap, norm Norm, stride int, xlabel, ylabel string) {
	ny, nx := z.Dims()
	if stride < 1 {
		stride = 1
	}
	cam := defaultCamera()

	point := func(row, col int) vec3 {
		t := norm.T(z.At(row, col))
		if math.IsNaN(t) {
			t = 0.5
		}
		return vec3{
			X: axisPos(col, nx),
			Y: (t - 0.5) * surfaceHeight,
			Z: -axisPos(row, ny),
		}
	}

	var quads []quad
	for r0 := 0; r0 < ny-1; r0 += stride {
		r1 := min(r0+stride, ny-1)
		for c0 := 0; c0 < nx-1; c0 += stride {
			c1 := min(c0+stride, nx-1)
			corners := [4][2]int{{r0, c0}, {r0, c1}, {r1, c1}, {r1, c0}}
			var q quad
			sum := 0.0
			for i, rc := range corners {
				x, y, d := cam.project(point(rc[0], rc[1]), r)
				q.pts[i] = [2]float64{x, y}
				q.depth += d / 4
				sum += z.At(rc[0], rc[1])
			}
			q.col = cmap.Color(norm, sum/4)
			quads = append(quads, q)
		}
	}
	sort.Slice(quads, func(i, j int) bool { return quads[i].depth < quads[j].depth })

	drawSurfaceBase(dc, cam, r, xlabel, ylabel)
	dc.SetLineWidth(0.8)
	for _, q := range quads {
		dc.MoveTo(q.pts[0][0], q.pts[0][1])
		for _, p := range q.pts[1:] {
			dc.LineTo(p[0], p[1])
		}
		dc.ClosePath()
		dc.SetColor(q.col.Color())
		_ = dc.FillPreserve()
		_ = dc.Stroke()
	}
}

// drawSurfaceBase outlines the floor of the plot box and labels two edges.
func drawSurfaceBase(dc *gg.Context, cam camera, r rect, xlabel, ylabel string) {
	floor := -surfaceHeight / 2
	corners := []vec3{{-1, floor, 1}, {1, floor, 1}, {1, floor, -1}, {-1, floor, -1}}
	var pts [4][2]float64
	for i, c := range corners {
		x, y, _ := cam.project(c, r)
		pts[i] = [2]float64{x, y}
	}
	dc.SetRGB(0.5, 0.5, 0.5)
	dc.SetLineWidth(1)
	dc.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		dc.LineTo(p[0], p[1])
	}
	dc.ClosePath()
	_ = dc.Stroke()

	mx, my := (pts[0][0]+pts[1][0])/2, (pts[0][1]+pts[1][1])/2
	drawText(dc, 13, xlabel, mx, my+18, 0.5, 1)
	mx, my = (pts[1][0]+pts[2][0])/2, (pts[1][1]+pts[2][1])/2
	drawText(dc, 13, ylabel, mx+14, my+14, 0, 1)
}

// axisPos maps index i of n onto [-1, 1].
func axisPos(i, n int) float64 {
	if n < 2 {
		return 0
	}
	return 2*float64(i)/float64(n-1) - 1
}
