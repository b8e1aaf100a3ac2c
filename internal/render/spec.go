// Package render draws snapshot grids and series as PNG figures.
package render

import (
	"errors"
	"fmt"

	"github.com/san-kum/flowviz/internal/field"
	"gonum.org/v1/gonum/mat"
)

const (
	defaultWidth  = 1000
	defaultHeight = 800
	pixelsPerInch = 100.0
)

// ErrNoData is returned when nothing drawable reaches a render call.
var ErrNoData = errors.New("render: no data to draw")

// Bounds selects a fixed value range or one taken from the data.
type Bounds struct {
	Fixed    bool
	Min, Max float64
}

// Norm returns the fixed range, or the finite range of the given matrices.
func (b Bounds) Norm(ms ...*mat.Dense) (Norm, error) {
	if b.Fixed {
		if !(b.Max > b.Min) {
			return Norm{}, fmt.Errorf("render: fixed bounds need max > min, got [%g, %g]", b.Min, b.Max)
		}
		return Norm{Min: b.Min, Max: b.Max}, nil
	}

	found := false
	var n Norm
	for _, m := range ms {
		if m == nil {
			continue
		}
		lo, hi, ok := field.Range(m)
		if !ok {
			continue
		}
		if !found {
			n = Norm{Min: lo, Max: hi}
			found = true
			continue
		}
		n.Min = min(n.Min, lo)
		n.Max = max(n.Max, hi)
	}
	if !found {
		return Norm{}, ErrNoData
	}
	return n, nil
}

// Spec configures one render call.
type Spec struct {
	Field          string
	Title          string
	XLabel, YLabel string
	Colormap       string
	Bounds         Bounds
	Output         string
	Width, Height  int
	// Stride down-samples surfaces and thins vector arrows. Zero picks a default.
	Stride int
	// ArrowScale is the vector magnitude drawn as a one-inch arrow.
	ArrowScale float64
}

func (s Spec) size() (int, int) {
	w, h := s.Width, s.Height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (s Spec) colormap(fallback string) (*Colormap, error) {
	if s.Colormap == "" {
		return LookupColormap(fallback)
	}
	return LookupColormap(s.Colormap)
}

func (s Spec) labels(x, y string) (string, string) {
	if s.XLabel != "" {
		x = s.XLabel
	}
	if s.YLabel != "" {
		y = s.YLabel
	}
	return x, y
}
