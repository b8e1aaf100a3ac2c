package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/san-kum/flowviz/internal/config"
	"github.com/san-kum/flowviz/internal/field"
	"github.com/san-kum/flowviz/internal/preview"
	"github.com/san-kum/flowviz/internal/session"
	"github.com/san-kum/flowviz/internal/tui"
)

var (
	dir         string
	configFile  string
	preset      string
	shape       string
	nx          int
	ny          int
	outputEvery int
	fps         int
	width       int
	height      int
	fixedScale  bool
	scaleMin    float64
	scaleMax    float64
	previewLn   int
	verbose     bool
	// per-command
	fieldName string
	showPlot  bool
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	skipStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "flowviz",
		Short:        "fluid simulation snapshot viewer",
		SilenceUsage: true,
		RunE:         runMenu,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dir, "dir", ".", "directory with snapshot files; figures are written here")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&shape, "shape", "infer", "grid shape strategy: infer or fixed")
	pf.IntVar(&nx, "nx", config.DefaultNX, "grid points along x (fixed shape)")
	pf.IntVar(&ny, "ny", config.DefaultNY, "grid points along y (fixed shape)")
	pf.IntVar(&outputEvery, "output-every", config.DefaultOutputEvery, "solver steps between snapshots")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "animation frame rate")
	pf.IntVar(&width, "width", config.DefaultWidth, "figure width in pixels")
	pf.IntVar(&height, "height", config.DefaultHeight, "figure height in pixels")
	pf.BoolVar(&fixedScale, "fixed-scale", false, "use --min/--max instead of the data range")
	pf.Float64Var(&scaleMin, "min", 0, "lower color bound with --fixed-scale")
	pf.Float64Var(&scaleMax, "max", 1, "upper color bound with --fixed-scale")
	pf.IntVar(&previewLn, "preview-lines", 0, "log the first n raw lines of each file (with --verbose)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	heatmapCmd := &cobra.Command{
		Use:   "heatmap [step]",
		Short: "2D colored field for one step",
		Args:  cobra.ExactArgs(1),
		RunE: stepCommand(func(s *session.Session, step int) (string, error) {
			return s.Heatmap(step, fieldName)
		}),
	}
	surfaceCmd := &cobra.Command{
		Use:   "surface [step]",
		Short: "3D surface for one step",
		Args:  cobra.ExactArgs(1),
		RunE: stepCommand(func(s *session.Session, step int) (string, error) {
			return s.Surface(step, fieldName)
		}),
	}
	for _, c := range []*cobra.Command{heatmapCmd, surfaceCmd} {
		c.Flags().StringVarP(&fieldName, "field", "f", "u", "field to draw (u or v)")
	}

	vectorCmd := &cobra.Command{
		Use:   "vector [step]",
		Short: "vector field for one step",
		Args:  cobra.ExactArgs(1),
		RunE: stepCommand(func(s *session.Session, step int) (string, error) {
			return s.VectorField(step)
		}),
	}

	profileCmd := &cobra.Command{
		Use:   "profile [step]",
		Short: "central velocity profile for one step",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfile,
	}
	profileCmd.Flags().BoolVar(&showPlot, "preview", false, "also print a terminal graph")

	energyCmd := &cobra.Command{
		Use:   "energy",
		Short: "kinetic energy history",
		Args:  cobra.NoArgs,
		RunE:  runEnergy,
	}
	energyCmd.Flags().BoolVar(&showPlot, "preview", false, "also print a terminal graph")

	animateCmd := &cobra.Command{
		Use:   "animate",
		Short: "animated GIF over every step of a field",
		Args:  cobra.NoArgs,
		RunE:  runAnimate,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [steps...]",
		Short: "heatmaps of several steps on one color scale",
		RunE:  groupedCommand((*session.Session).Compare),
	}
	groupedCmd := &cobra.Command{
		Use:   "grouped-surface [steps...]",
		Short: "3D surfaces of several steps on one color scale",
		RunE:  groupedCommand((*session.Session).GroupedSurface),
	}
	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "list available steps",
		Args:  cobra.NoArgs,
		RunE:  runSteps,
	}
	for _, c := range []*cobra.Command{animateCmd, compareCmd, groupedCmd, stepsCmd} {
		c.Flags().StringVarP(&fieldName, "field", "f", "u", "field to draw (u or v)")
	}

	finalCmd := &cobra.Command{
		Use:   "final",
		Short: "3D velocity magnitude from u_final.dat and v_final.dat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			out, err := s.Final()
			if err != nil {
				return err
			}
			printSaved(out)
			return nil
		},
	}

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "every figure for the first, middle and last steps",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			rep, err := s.RunAll()
			printReport(rep)
			return err
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("presets:")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s %s grid %dx%d, output every %d\n", name, p.Grid.Shape, p.Grid.NX, p.Grid.NY, p.OutputEvery)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			printSaved(args[0])
			return nil
		},
	}

	menuCmd := &cobra.Command{
		Use:   "menu",
		Short: "interactive menu",
		Args:  cobra.NoArgs,
		RunE:  runMenu,
	}

	rootCmd.AddCommand(heatmapCmd, surfaceCmd, vectorCmd, profileCmd, energyCmd, animateCmd,
		compareCmd, groupedCmd, finalCmd, allCmd, stepsCmd, presetsCmd, configCmd, menuCmd)
	return rootCmd
}

// loadConfig layers defaults, preset, config file, FLOWVIZ_* variables and
// explicitly set flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = dir
	}
	if flags.Changed("shape") {
		cfg.Grid.Shape = shape
	}
	if flags.Changed("nx") {
		cfg.Grid.NX = nx
	}
	if flags.Changed("ny") {
		cfg.Grid.NY = ny
	}
	if flags.Changed("output-every") {
		cfg.OutputEvery = outputEvery
	}
	if flags.Changed("fps") {
		cfg.Animation.FPS = fps
	}
	if flags.Changed("width") {
		cfg.Render.Width = width
	}
	if flags.Changed("height") {
		cfg.Render.Height = height
	}
	if flags.Changed("fixed-scale") {
		cfg.Render.FixedScale = fixedScale
	}
	if flags.Changed("min") {
		cfg.Render.Min = scaleMin
	}
	if flags.Changed("max") {
		cfg.Render.Max = scaleMax
	}
	if flags.Changed("preview-lines") {
		cfg.PreviewLines = previewLn
	}
	return cfg, nil
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newSession(cmd *cobra.Command) (*session.Session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return session.New(cfg, logger())
}

func parseStep(arg string) (int, error) {
	step, err := strconv.Atoi(arg)
	if err != nil || step < 0 {
		return 0, fmt.Errorf("invalid step: %s", arg)
	}
	return step, nil
}

func parseSteps(args []string) ([]int, error) {
	steps := make([]int, 0, len(args))
	for _, a := range args {
		s, err := parseStep(a)
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func stepCommand(fn func(*session.Session, int) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		step, err := parseStep(args[0])
		if err != nil {
			return err
		}
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		out, err := fn(s, step)
		if err != nil {
			return err
		}
		printSaved(out)
		return nil
	}
}

func groupedCommand(fn func(*session.Session, string, []int) (*session.Report, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		steps, err := parseSteps(args)
		if err != nil {
			return err
		}
		s, err := newSession(cmd)
		if err != nil {
			return err
		}
		rep, err := fn(s, fieldName, steps)
		printReport(rep)
		return err
	}
}

func runProfile(cmd *cobra.Command, args []string) error {
	step, err := parseStep(args[0])
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out, err := s.Profile(step)
	if err != nil {
		return err
	}
	printSaved(out)

	if showPlot {
		p, err := field.LoadProfile(filepath.Join(s.Config().Dir, field.FileName(field.KindProfile, step)))
		if err != nil {
			return err
		}
		graph, err := preview.Profile(p, step, preview.DefaultSize)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func runEnergy(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out, err := s.Energy()
	if err != nil {
		return err
	}
	printSaved(out)

	if showPlot {
		ts, err := field.LoadTimeSeries(filepath.Join(s.Config().Dir, field.EnergyFile))
		if err != nil {
			return err
		}
		graph, err := preview.Energy(ts, preview.DefaultSize)
		if err != nil {
			return err
		}
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func runAnimate(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	res, err := s.Animate(fieldName)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s (%d frames, labels %d..%d)\n", okStyle.Render("saved"), res.Output,
		res.Frames, res.Labels[0], res.Labels[len(res.Labels)-1])
	return nil
}

func runSteps(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	steps, err := s.Steps(fieldName)
	if err != nil {
		return err
	}
	if len(steps) == 0 {
		fmt.Printf("no %s snapshots in %s\n", fieldName, s.Config().Dir)
		return nil
	}
	fmt.Printf("%d %s snapshots: %v\n", len(steps), fieldName, steps)
	fmt.Printf("representative: %v\n", field.Representative(steps))
	return nil
}

func runMenu(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stderr records would tear the alternate screen
	var log *slog.Logger
	if verbose {
		log = logger()
	}
	s, err := session.New(cfg, log)
	if err != nil {
		return err
	}
	return tui.Run(s)
}

func printSaved(path string) {
	fmt.Printf("%s %s\n", okStyle.Render("saved"), path)
}

func printReport(rep *session.Report) {
	if rep == nil {
		return
	}
	for _, a := range rep.Artifacts {
		printSaved(a)
	}
	for _, s := range rep.Skipped {
		fmt.Printf("%s %s\n", skipStyle.Render("skipped"), s)
	}
	fmt.Printf("%d figures, %d skipped\n", len(rep.Artifacts), len(rep.Skipped))
}
