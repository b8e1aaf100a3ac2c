package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/gogpu/gg"
)

type stop struct {
	at  float64
	col gg.RGBA
}

// Colormap maps [0,1] to a color by linear interpolation between stops.
type Colormap struct {
	Name  string
	stops []stop
}

// missingColor is used for NaN cells.
var missingColor = gg.RGB(0.85, 0.85, 0.85)

var colormaps = map[string]*Colormap{
	"hot": {Name: "hot", stops: []stop{
		{0, gg.RGB(0.0416, 0, 0)},
		{0.365, gg.RGB(1, 0, 0)},
		{0.746, gg.RGB(1, 1, 0)},
		{1, gg.RGB(1, 1, 1)},
	}},
	"viridis": {Name: "viridis", stops: hexStops(
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725",
	)},
	"jet": {Name: "jet", stops: []stop{
		{0, gg.RGB(0, 0, 0.5)},
		{0.125, gg.RGB(0, 0, 1)},
		{0.375, gg.RGB(0, 1, 1)},
		{0.625, gg.RGB(1, 1, 0)},
		{0.875, gg.RGB(1, 0, 0)},
		{1, gg.RGB(0.5, 0, 0)},
	}},
	"gray": {Name: "gray", stops: []stop{
		{0, gg.Black},
		{1, gg.White},
	}},
}

func hexStops(hex ...string) []stop {
	out := make([]stop, len(hex))
	for i, h := range hex {
		out[i] = stop{at: float64(i) / float64(len(hex)-1), col: gg.Hex(h)}
	}
	return out
}

// LookupColormap returns the named colormap.
func LookupColormap(name string) (*Colormap, error) {
	c, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap: %s", name)
	}
	return c, nil
}

// ColormapNames lists the registered colormaps.
func ColormapNames() []string {
	names := make([]string, 0, len(colormaps))
	for n := range colormaps {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// At returns the color at t, clamped to [0,1].
func (c *Colormap) At(t float64) gg.RGBA {
	if math.IsNaN(t) {
		return missingColor
	}
	t = clamp01(t)
	for i := 1; i < len(c.stops); i++ {
		lo, hi := c.stops[i-1], c.stops[i]
		if t <= hi.at {
			return lo.col.Lerp(hi.col, (t-lo.at)/(hi.at-lo.at))
		}
	}
	return c.stops[len(c.stops)-1].col
}

// Color maps a data value through norm.
func (c *Colormap) Color(n Norm, v float64) gg.RGBA {
	return c.At(n.T(v))
}

// Palette samples the colormap into n entries followed by the neutral
// colors used for axes and text. Used for GIF frames.
func (c *Colormap) Palette(n int) color.Palette {
	p := make(color.Palette, 0, n+6)
	last := float64(max(n-1, 1))
	for i := 0; i < n; i++ {
		p = append(p, c.At(float64(i)/last).Color())
	}
	p = append(p,
		color.White, color.Black,
		color.Gray{Y: 0x40}, color.Gray{Y: 0x80}, color.Gray{Y: 0xc0},
		missingColor.Color(),
	)
	return p
}

// Norm maps data values linearly onto [0,1].
type Norm struct {
	Min, Max float64
}

// T returns the normalized position of v. Values outside [Min,Max] clamp.
func (n Norm) T(v float64) float64 {
	if math.IsNaN(v) {
		return math.NaN()
	}
	if n.Max == n.Min {
		return 0.5
	}
	return clamp01((v - n.Min) / (n.Max - n.Min))
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
