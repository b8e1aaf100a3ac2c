package render

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/san-kum/flowviz/internal/field"
)

// HeatmapFrame is a heatmap canvas that can be redrawn in place with new
// data sharing the first grid's shape, scale and axes.
type HeatmapFrame struct {
	dc     *gg.Context
	layout singleLayout
	cmap   *Colormap
	norm   Norm
	nx, ny int
	label  string
}

// NewHeatmapFrame sets up axes and colorbar from first. The color scale
// comes from spec.Bounds, or from first's range when not fixed.
func NewHeatmapFrame(first *field.Grid, spec Spec) (*HeatmapFrame, error) {
	if first == nil {
		return nil, ErrNoData
	}
	cmap, err := spec.colormap("hot")
	if err != nil {
		return nil, err
	}
	norm, err := spec.Bounds.Norm(first.Scalar())
	if err != nil {
		return nil, err
	}
	dc, err := newSurface(spec.size())
	if err != nil {
		return nil, err
	}

	w, h := spec.size()
	f := &HeatmapFrame{
		dc:     dc,
		layout: newSingleLayout(w, h),
		cmap:   cmap,
		norm:   norm,
		nx:     first.NX,
		ny:     first.NY,
		label:  spec.Field,
	}
	xl, yl := spec.labels("x", "y")
	drawAxes(dc, f.layout.plot, first.Extent(), xl, yl, 12)
	drawColorbar(dc, f.layout.colorbar, cmap, norm, spec.Field)
	return f, nil
}

// Norm is the color scale shared by every Update.
func (f *HeatmapFrame) Norm() Norm { return f.norm }

// Colormap is the frame's colormap.
func (f *HeatmapFrame) Colormap() *Colormap { return f.cmap }

// Update redraws the raster and title.
func (f *HeatmapFrame) Update(g *field.Grid, title string) error {
	if g == nil {
		return ErrNoData
	}
	if g.NX != f.nx || g.NY != f.ny {
		return fmt.Errorf("render: frame grid %dx%d differs from %dx%d", g.NX, g.NY, f.nx, f.ny)
	}
	drawRaster(f.dc, g.Scalar(), f.layout.plot, f.cmap, f.norm)
	strokeRect(f.dc, f.layout.plot, gg.Black)

	fillRect(f.dc, f.layout.title, gg.White)
	cx, _ := f.layout.title.center()
	drawText(f.dc, 18, title, cx, 32, 0.5, 0)
	return nil
}

// Image returns a snapshot of the current canvas.
func (f *HeatmapFrame) Image() image.Image {
	_ = f.dc.FlushGPU()
	return f.dc.Image()
}

// Save writes the current canvas as PNG.
func (f *HeatmapFrame) Save(path string) error {
	return savePNG(f.dc, path)
}

// Close releases the canvas. Safe to call more than once.
func (f *HeatmapFrame) Close() error {
	return f.dc.Close()
}

// Heatmap renders the scalar column of g with the origin at the lower left.
// Cells are placed by matrix index, not by the X/Y columns: matrix row r is
// drawn at height r and column c at width c. A file written with x as the
// outer loop therefore shows x on the vertical axis, transposed relative to
// VectorField, which places arrows by coordinate.
func Heatmap(g *field.Grid, spec Spec) error {
	f, err := NewHeatmapFrame(g, spec)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Update(g, spec.Title); err != nil {
		return err
	}
	return f.Save(spec.Output)
}
