package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/san-kum/snowfall/internal/audio"
	"github.com/san-kum/snowfall/internal/config"
	"github.com/san-kum/snowfall/internal/screen"
	"github.com/san-kum/snowfall/internal/sim"
	"github.com/spf13/cobra"
)

var (
	configFile string
	preset     string
	locale     string
	seed       int64
	fps        int
	logFile    string
	dataDir    string
)

// main registers the commands and flags, shows the terminal card when no
// subcommand is given and exits with status 1 on error.
func main() {
	log.SetPrefix("[SNOWFALL] ")

	rootCmd := &cobra.Command{
		Use:          "snowfall",
		Short:        "new year greeting card with falling snow",
		SilenceUsage: true,
		RunE:         runTUI,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&locale, "locale", "", "countdown language (ru, en)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", 0, "frame rate")
	rootCmd.PersistentFlags().StringVar(&logFile, "log", "", "write logs to this file")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".snowfall", "data directory for saved runs")
	rootCmd.Flags().String("gif", "", "GIF path for recording (toggle with g)")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "show the card in a window",
		RunE:  runGUI,
	}
	guiCmd.Flags().Int("width", 1280, "window width")
	guiCmd.Flags().Int("height", 720, "window height")

	plainCmd := &cobra.Command{
		Use:   "plain",
		Short: "animate with plain ANSI output",
		RunE:  runPlain,
	}
	plainCmd.Flags().Int("cols", 80, "terminal columns")
	plainCmd.Flags().Int("rows", 24, "terminal rows")
	plainCmd.Flags().Int("frames", 0, "stop after this many frames (0 runs until interrupted)")

	countdownCmd := &cobra.Command{
		Use:   "countdown",
		Short: "print the time left until the new year",
		RunE:  runCountdown,
	}
	countdownCmd.Flags().Bool("watch", false, "keep printing every second")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run the snow headless and report throughput and metrics",
		RunE:  runBench,
	}
	benchCmd.Flags().Int("runs", 1, "number of seeds to run in parallel")
	benchCmd.Flags().Float64("dt", 16.7, "timestep in ms")
	benchCmd.Flags().Float64("time", 10000, "duration in ms")
	benchCmd.Flags().Float64("width", 1280, "surface width")
	benchCmd.Flags().Float64("height", 720, "surface height")
	benchCmd.Flags().Bool("save", false, "save every run under --data")
	benchCmd.Flags().Bool("live", false, "draw the first run in the terminal")
	benchCmd.Flags().String("json", "", "write the first run as JSON (- for stdout)")
	benchCmd.Flags().String("svg", "", "plot the first run's visible flakes as SVG")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of benchmarks",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [param]",
		Short: "sweep one snow parameter and report its metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64("min", 0, "first value")
	sweepCmd.Flags().Float64("max", 2, "last value")
	sweepCmd.Flags().Int("steps", 5, "number of values")
	sweepCmd.Flags().Float64("time", 10000, "duration of each run in ms")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg",
		Short: "write the tree as SVG",
		RunE:  exportTree,
	}
	exportSVGCmd.Flags().StringP("output", "o", "-", "output file")
	exportSVGCmd.Flags().Int("width", 300, "tree width")
	exportSVGCmd.Flags().Int("height", 450, "tree height")

	exportFrameCmd := &cobra.Command{
		Use:   "export-frame",
		Short: "write one frame of the card as SVG",
		RunE:  exportFrame,
	}
	exportFrameCmd.Flags().StringP("output", "o", "-", "output file")
	exportFrameCmd.Flags().Float64("width", 800, "frame width")
	exportFrameCmd.Flags().Float64("height", 600, "frame height")
	exportFrameCmd.Flags().Int("steps", 300, "ticks of 16.7ms before the snapshot")
	exportFrameCmd.Flags().Bool("braille", false, "export the terminal rendering as dots")

	checkCmd := &cobra.Command{
		Use:   "check [WxH]",
		Short: "check whether a display is large enough",
		Args:  cobra.ExactArgs(1),
		RunE:  checkScreen,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the effective configuration",
		RunE:  printConfig,
	}
	configCmd.Flags().String("save", "", "also write it to this file")

	rootCmd.AddCommand(guiCmd, plainCmd, countdownCmd, benchCmd, scenarioCmd, sweepCmd, runsCmd, plotCmd,
		exportSVGCmd, exportFrameCmd, checkCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig layers the config file (or defaults), the preset, SNOWFALL_*
// variables and finally the flags that were set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" && !config.ApplyPreset(cfg, preset) {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("locale") {
		cfg.Countdown.Locale = locale
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = fps
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newCard builds a card sized w x h that rings bell, when given, at midnight.
func newCard(cfg *config.Config, w, h float64, logger *log.Logger, bell *audio.Bell) (*sim.Card, error) {
	opts := sim.CardOptions{
		Config: cfg,
		Size:   sim.Size{W: w, H: h},
		Now:    time.Now(),
		Logger: logger,
	}
	if bell != nil {
		opts.OnCelebrate = func() {
			logger.Println("Celebration")
			bell.Strike()
		}
	}
	return sim.NewCard(opts)
}

// startBell opens the audio stream when the chime is enabled. A missing or
// busy device only disables the chime.
func startBell(cfg *config.Config, logger *log.Logger) *audio.Bell {
	if !cfg.Render.Chime {
		return nil
	}
	bell := audio.NewBell(logger)
	if err := bell.Start(); err != nil {
		logger.Printf("Chime disabled: %v", err)
		return nil
	}
	return bell
}

// setupLogging sends the standard logger to --log, or to stderr unless quiet.
// The returned closer is never nil.
func setupLogging(quiet bool) (io.Closer, error) {
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		log.SetOutput(f)
		return f, nil
	}
	if quiet {
		log.SetOutput(io.Discard)
	}
	return io.NopCloser(nil), nil
}

func terminalSize(cols, rows int) (float64, float64) {
	return float64(cols * screen.CellWidth), float64(rows * screen.CellHeight)
}
