package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	DefaultNX          = 256
	DefaultNY          = 256
	DefaultOutputEvery = 100
	DefaultWidth       = 1000
	DefaultHeight      = 800
	DefaultStride      = 2
	DefaultArrowScale  = 20.0
	DefaultFPS         = 5
	DefaultPanelRows   = 2
	DefaultPanelCols   = 3
	DefaultDomain      = 2.0
)

type Config struct {
	Dir          string          `yaml:"dir" env:"FLOWVIZ_DIR"`
	Grid         GridConfig      `yaml:"grid"`
	OutputEvery  int             `yaml:"output_every" env:"FLOWVIZ_OUTPUT_EVERY"`
	Render       RenderConfig    `yaml:"render"`
	Animation    AnimationConfig `yaml:"animation"`
	Final        FinalConfig     `yaml:"final"`
	PreviewLines int             `yaml:"preview_lines" env:"FLOWVIZ_PREVIEW_LINES"`
}

type GridConfig struct {
	// Shape is "infer" (count distinct coordinates) or "fixed" (use NX/NY).
	Shape string `yaml:"shape" env:"FLOWVIZ_SHAPE"`
	NX    int    `yaml:"nx" env:"FLOWVIZ_NX"`
	NY    int    `yaml:"ny" env:"FLOWVIZ_NY"`
}

type RenderConfig struct {
	Width           int     `yaml:"width" env:"FLOWVIZ_WIDTH"`
	Height          int     `yaml:"height" env:"FLOWVIZ_HEIGHT"`
	HeatmapColormap string  `yaml:"heatmap_colormap" env:"FLOWVIZ_HEATMAP_COLORMAP"`
	SurfaceColormap string  `yaml:"surface_colormap" env:"FLOWVIZ_SURFACE_COLORMAP"`
	VectorColormap  string  `yaml:"vector_colormap" env:"FLOWVIZ_VECTOR_COLORMAP"`
	CompareColormap string  `yaml:"compare_colormap" env:"FLOWVIZ_COMPARE_COLORMAP"`
	SurfaceStride   int     `yaml:"surface_stride" env:"FLOWVIZ_SURFACE_STRIDE"`
	ArrowScale      float64 `yaml:"arrow_scale" env:"FLOWVIZ_ARROW_SCALE"`
	ArrowStride     int     `yaml:"arrow_stride" env:"FLOWVIZ_ARROW_STRIDE"`
	PanelRows       int     `yaml:"panel_rows" env:"FLOWVIZ_PANEL_ROWS"`
	PanelCols       int     `yaml:"panel_cols" env:"FLOWVIZ_PANEL_COLS"`
	// FixedScale pins every render to [Min, Max] instead of the data range.
	FixedScale bool    `yaml:"fixed_scale" env:"FLOWVIZ_FIXED_SCALE"`
	Min        float64 `yaml:"min" env:"FLOWVIZ_MIN"`
	Max        float64 `yaml:"max" env:"FLOWVIZ_MAX"`
}

type AnimationConfig struct {
	FPS int `yaml:"fps" env:"FLOWVIZ_FPS"`
}

// FinalConfig is the physical domain of the u_final/v_final matrices.
type FinalConfig struct {
	XMax float64 `yaml:"x_max" env:"FLOWVIZ_FINAL_X_MAX"`
	YMax float64 `yaml:"y_max" env:"FLOWVIZ_FINAL_Y_MAX"`
}

func DefaultConfig() *Config {
	return &Config{
		Dir: ".",
		Grid: GridConfig{
			Shape: "infer",
			NX:    DefaultNX,
			NY:    DefaultNY,
		},
		OutputEvery: DefaultOutputEvery,
		Render: RenderConfig{
			Width:           DefaultWidth,
			Height:          DefaultHeight,
			HeatmapColormap: "hot",
			SurfaceColormap: "viridis",
			VectorColormap:  "jet",
			CompareColormap: "viridis",
			SurfaceStride:   DefaultStride,
			ArrowScale:      DefaultArrowScale,
			PanelRows:       DefaultPanelRows,
			PanelCols:       DefaultPanelCols,
		},
		Animation: AnimationConfig{FPS: DefaultFPS},
		Final:     FinalConfig{XMax: DefaultDomain, YMax: DefaultDomain},
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the yaml file at path onto cfg. Keys the file does not
// set keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overlays FLOWVIZ_* variables onto cfg. Unset variables leave
// fields untouched.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Grid.Shape {
	case "infer", "":
	case "fixed":
		if c.Grid.NX <= 1 || c.Grid.NY <= 1 {
			return fmt.Errorf("fixed grid needs nx, ny > 1, got %dx%d", c.Grid.NX, c.Grid.NY)
		}
	default:
		return fmt.Errorf("unknown grid shape: %s", c.Grid.Shape)
	}
	if c.OutputEvery <= 0 {
		return fmt.Errorf("output_every must be positive, got %d", c.OutputEvery)
	}
	if c.Render.Width < 200 || c.Render.Height < 150 {
		return fmt.Errorf("render size %dx%d too small", c.Render.Width, c.Render.Height)
	}
	if c.Render.ArrowScale <= 0 {
		return fmt.Errorf("arrow_scale must be positive, got %g", c.Render.ArrowScale)
	}
	if c.Render.SurfaceStride < 1 {
		return fmt.Errorf("surface_stride must be at least 1, got %d", c.Render.SurfaceStride)
	}
	if c.Render.PanelRows < 1 || c.Render.PanelCols < 1 {
		return fmt.Errorf("panel layout %dx%d invalid", c.Render.PanelRows, c.Render.PanelCols)
	}
	if c.Render.FixedScale && c.Render.Max <= c.Render.Min {
		return fmt.Errorf("fixed scale needs max > min, got [%g, %g]", c.Render.Min, c.Render.Max)
	}
	if c.Animation.FPS <= 0 || c.Animation.FPS > 100 {
		return fmt.Errorf("fps must be in 1..100, got %d", c.Animation.FPS)
	}
	if c.Final.XMax <= 0 || c.Final.YMax <= 0 {
		return fmt.Errorf("final domain %gx%g invalid", c.Final.XMax, c.Final.YMax)
	}
	return nil
}
