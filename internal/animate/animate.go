// Package animate assembles per-step heatmaps into an animated GIF.
package animate

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"log/slog"
	"os"
	"slices"

	"github.com/san-kum/flowviz/internal/field"
	"github.com/san-kum/flowviz/internal/render"
)

// ErrNoFrames is returned when there are no snapshots to animate.
var ErrNoFrames = errors.New("animate: no frames")

const paletteSize = 240

// Driver renders a snapshot sequence into one GIF. Every frame reuses the
// first frame's axes and color scale.
type Driver struct {
	// Load reads one snapshot. It is called once per frame.
	Load        func(path string) (*field.Grid, error)
	Spec        render.Spec
	OutputEvery int
	FPS         int
	Log         *slog.Logger
}

type Result struct {
	Frames int
	Labels []int
	Output string
}

// Run animates snaps in step order and writes the GIF to out. Nothing is
// written unless every frame succeeds.
func (d *Driver) Run(snaps []field.Snapshot, out string) (*Result, error) {
	if len(snaps) == 0 {
		return nil, ErrNoFrames
	}
	if d.Load == nil {
		return nil, errors.New("animate: no loader")
	}
	if d.OutputEvery <= 0 {
		return nil, fmt.Errorf("animate: output interval must be positive, got %d", d.OutputEvery)
	}
	if d.FPS <= 0 || d.FPS > 100 {
		return nil, fmt.Errorf("animate: fps must be in 1..100, got %d", d.FPS)
	}
	if out == "" {
		return nil, errors.New("animate: empty output path")
	}
	log := field.OrDiscard(d.Log)

	ordered := slices.Clone(snaps)
	field.SortSnapshots(ordered)

	first, err := d.Load(ordered[0].Path)
	if err != nil {
		return nil, fmt.Errorf("animate: frame 0: %w", err)
	}
	frame, err := render.NewHeatmapFrame(first, d.Spec)
	if err != nil {
		return nil, err
	}
	defer frame.Close()

	pal := frame.Colormap().Palette(paletteSize)
	anim := &gif.GIF{LoopCount: 0}
	delay := 100 / d.FPS
	res := &Result{Output: out}

	for i, snap := range ordered {
		g := first
		if i > 0 {
			if g, err = d.Load(snap.Path); err != nil {
				return nil, fmt.Errorf("animate: frame %d: %w", i, err)
			}
		}
		label := i * d.OutputEvery
		if err := frame.Update(g, d.title(label)); err != nil {
			return nil, fmt.Errorf("animate: frame %d: %w", i, err)
		}
		anim.Image = append(anim.Image, quantize(frame.Image(), pal))
		anim.Delay = append(anim.Delay, delay)
		res.Labels = append(res.Labels, label)
		log.Debug("frame rendered", "index", i, "file", snap.Path, "label", label)
	}
	res.Frames = len(anim.Image)

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("animate: encode: %w", err)
	}
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("animate: save %s: %w", out, err)
	}
	log.Info("animation saved", "file", out, "frames", res.Frames)
	return res, nil
}

func (d *Driver) title(label int) string {
	name := d.Spec.Title
	if name == "" {
		name = d.Spec.Field
	}
	return fmt.Sprintf("%s at step %d", name, label)
}

// quantize maps img onto pal by nearest color.
func quantize(img image.Image, pal color.Palette) *image.Paletted {
	b := img.Bounds()
	p := image.NewPaletted(b, pal)
	draw.Draw(p, b, img, b.Min, draw.Src)
	return p
}
