package render

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/flowviz/internal/field"
)

var (
	fontOnce   sync.Once
	fontSource *text.FontSource
	fontErr    error
)

// face returns a goregular face at size, or nil if the font failed to load.
// Text calls on a context without a face are no-ops.
func face(size float64) text.Face {
	fontOnce.Do(func() {
		fontSource, fontErr = text.NewFontSource(goregular.TTF)
	})
	if fontErr != nil {
		return nil
	}
	return fontSource.Face(size)
}

func newSurface(w, h int) (*gg.Context, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("render: invalid canvas size %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.White)
	return dc, nil
}

func savePNG(dc *gg.Context, path string) error {
	if path == "" {
		return fmt.Errorf("render: empty output path")
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("render: save %s: %w", path, err)
	}
	return nil
}

type rect struct {
	X, Y, W, H float64
}

func (r rect) center() (float64, float64) { return r.X + r.W/2, r.Y + r.H/2 }

// Bounds returns the integer pixel rectangle covered by r.
func (r rect) Bounds() image.Rectangle {
	x0, y0 := int(math.Round(r.X)), int(math.Round(r.Y))
	return image.Rect(x0, y0, x0+int(r.W), y0+int(r.H))
}

// singleLayout splits a canvas into a plot area and a colorbar strip.
type singleLayout struct {
	title    rect
	plot     rect
	colorbar rect
}

func newSingleLayout(w, h int) singleLayout {
	fw, fh := float64(w), float64(h)
	return singleLayout{
		title:    rect{0, 0, fw, 50},
		plot:     rect{80, 60, fw - 80 - 150, fh - 60 - 70},
		colorbar: rect{fw - 120, 60, 22, fh - 60 - 70},
	}
}

func drawText(dc *gg.Context, size float64, s string, x, y, ax, ay float64) {
	f := face(size)
	if f == nil || s == "" {
		return
	}
	dc.SetFont(f)
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(s, x, y, ax, ay)
}

func fillRect(dc *gg.Context, r rect, c gg.RGBA) {
	dc.SetColor(c.Color())
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	_ = dc.Fill()
}

func strokeRect(dc *gg.Context, r rect, c gg.RGBA) {
	dc.SetColor(c.Color())
	dc.SetLineWidth(1)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	_ = dc.Stroke()
}

// drawRaster paints z into r one pixel at a time. Row 0 of z is the
// bottom edge of r.
func drawRaster(dc *gg.Context, z *mat.Dense, r rect, cmap *Colormap, norm Norm) {
	ny, nx := z.Dims()
	b := r.Bounds()
	w, h := b.Dx(), b.Dy()
	for py := 0; py < h; py++ {
		row := (h - 1 - py) * ny / h
		for px := 0; px < w; px++ {
			col := px * nx / w
			dc.SetPixel(b.Min.X+px, b.Min.Y+py, cmap.Color(norm, z.At(row, col)))
		}
	}
}

func drawColorbar(dc *gg.Context, r rect, cmap *Colormap, norm Norm, label string) {
	b := r.Bounds()
	h := b.Dy()
	for py := 0; py < h; py++ {
		t := 1.0
		if h > 1 {
			t = 1 - float64(py)/float64(h-1)
		}
		c := cmap.At(t)
		for px := b.Min.X; px < b.Max.X; px++ {
			dc.SetPixel(px, b.Min.Y+py, c)
		}
	}
	strokeRect(dc, r, gg.Black)

	right := r.X + r.W + 6
	drawText(dc, 11, tick(norm.Max), right, r.Y, 0, 0.5)
	drawText(dc, 11, tick((norm.Min+norm.Max)/2), right, r.Y+r.H/2, 0, 0.5)
	drawText(dc, 11, tick(norm.Min), right, r.Y+r.H, 0, 0.5)
	drawText(dc, 12, label, r.X+r.W/2, r.Y-8, 0.5, 0)
}

// drawAxes frames r and labels it with the physical extent.
func drawAxes(dc *gg.Context, r rect, ext field.Extent, xlabel, ylabel string, size float64) {
	strokeRect(dc, r, gg.Black)

	bottom := r.Y + r.H
	dc.SetLineWidth(1)
	for i := 0; i <= 4; i++ {
		f := float64(i) / 4
		x := r.X + f*r.W
		y := bottom - f*r.H
		dc.DrawLine(x, bottom, x, bottom+5)
		dc.DrawLine(r.X-5, y, r.X, y)
	}
	dc.SetRGB(0, 0, 0)
	_ = dc.Stroke()

	for i := 0; i <= 4; i++ {
		f := float64(i) / 4
		drawText(dc, size, tick(ext.XMin+f*(ext.XMax-ext.XMin)), r.X+f*r.W, bottom+8, 0.5, 1)
		drawText(dc, size, tick(ext.YMin+f*(ext.YMax-ext.YMin)), r.X-8, bottom-f*r.H, 1, 0.5)
	}
	drawText(dc, size+2, xlabel, r.X+r.W/2, bottom+size+22, 0.5, 1)
	drawText(dc, size+2, ylabel, r.X, r.Y-8, 0.5, 0)
}

func tick(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}
