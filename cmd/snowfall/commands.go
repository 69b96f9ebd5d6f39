package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/snowfall/internal/automation"
	"github.com/san-kum/snowfall/internal/config"
	"github.com/san-kum/snowfall/internal/countdown"
	"github.com/san-kum/snowfall/internal/export"
	"github.com/san-kum/snowfall/internal/gui"
	"github.com/san-kum/snowfall/internal/perf"
	"github.com/san-kum/snowfall/internal/sched"
	"github.com/san-kum/snowfall/internal/screen"
	"github.com/san-kum/snowfall/internal/sim"
	"github.com/san-kum/snowfall/internal/snow"
	"github.com/san-kum/snowfall/internal/storage"
	"github.com/san-kum/snowfall/internal/svg"
	"github.com/san-kum/snowfall/internal/tree"
	"github.com/san-kum/snowfall/internal/tui"
	"github.com/san-kum/snowfall/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if logFile != "" {
		f, err := tea.LogToFile(logFile, "[SNOWFALL] ")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}
	logger := log.Default()

	bell := startBell(cfg, logger)
	if bell != nil {
		defer bell.Stop()
	}

	w, h := terminalSize(80, 24)
	card, err := newCard(cfg, w, h, logger, bell)
	if err != nil {
		return err
	}
	viz.SetTheme(cfg.Render.Theme)

	if cfg.Perf.Enabled {
		card.Monitor.Start(cmd.Context())
		defer card.Monitor.Stop()
	}

	m := viz.NewModel(card, tree.New(0, 0, nil))
	if gif, _ := cmd.Flags().GetString("gif"); gif != "" {
		m = m.WithGIFPath(gif)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closer, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger := log.Default()

	bell := startBell(cfg, logger)
	if bell != nil {
		defer bell.Stop()
	}

	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")
	card, err := newCard(cfg, float64(w), float64(h), logger, bell)
	if err != nil {
		return err
	}

	if cfg.Perf.Enabled {
		card.Monitor.Start(cmd.Context())
		defer card.Monitor.Stop()
	}
	gui.Run(card, tree.New(0, 0, nil), bell)
	return nil
}

func runPlain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	closer, err := setupLogging(true)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger := log.Default()

	bell := startBell(cfg, logger)
	if bell != nil {
		defer bell.Stop()
	}

	cols, _ := cmd.Flags().GetInt("cols")
	rows, _ := cmd.Flags().GetInt("rows")
	frames, _ := cmd.Flags().GetInt("frames")
	w, h := terminalSize(cols, rows)
	card, err := newCard(cfg, w, h, logger, bell)
	if err != nil {
		return err
	}
	card.WarnIfSmall(card.Screen.TooSmallCells(cols, rows))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if cfg.Perf.Enabled {
		card.Monitor.Start(ctx)
		defer card.Monitor.Stop()
	}

	r := tui.NewLiveRenderer(os.Stdout, cols, rows, cfg.Render.FPS)
	if err := r.Run(ctx, card, frames); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func runCountdown(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	card, err := newCard(cfg, 1, 1, log.New(os.Stderr, "[SNOWFALL] ", log.LstdFlags), nil)
	if err != nil {
		return err
	}

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		fmt.Println(card.Timer.Display().Text)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	err = sched.Every(ctx, time.Second, func(now time.Time) bool {
		more := card.TickCountdown(now)
		fmt.Printf("\r\x1b[K%s", card.Timer.Display().Text)
		return more
	})
	fmt.Println()
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	runs, _ := flags.GetInt("runs")
	dt, _ := flags.GetFloat64("dt")
	duration, _ := flags.GetFloat64("time")
	width, _ := flags.GetFloat64("width")
	height, _ := flags.GetFloat64("height")
	save, _ := flags.GetBool("save")
	live, _ := flags.GetBool("live")
	jsonPath, _ := flags.GetString("json")
	svgPath, _ := flags.GetString("svg")
	if runs < 1 {
		return fmt.Errorf("--runs must be at least 1")
	}

	s := automation.NewSimulator(cfg.Snow, width, height)

	seedStart := cfg.Seed
	if seedStart == 0 {
		seedStart = 42
	}
	simCfg := sim.Config{
		Dt:            dt,
		Duration:      duration,
		Seed:          seedStart,
		ValidateState: true,
		SampleEvery:   max(int(100/dt), 1),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	var results []*sim.Result
	if live {
		if runs > 1 {
			return fmt.Errorf("--live draws a single run")
		}
		r := tui.NewLiveRenderer(os.Stdout, 80, 24, cfg.Render.FPS)
		s.AddObserver(r)
		r.Start()
		res, err := s.Run(ctx, simCfg)
		r.Stop()
		if err != nil {
			return err
		}
		results = []*sim.Result{res}
	} else {
		results, err = sim.NewEnsemble(s, runs, seedStart).Run(ctx, simCfg)
		if err != nil {
			return err
		}
	}

	presetName := preset
	if presetName == "" {
		presetName = "custom"
	}

	fmt.Printf("benchmarking %d flakes on %gx%g, %d run(s)\n\n", cfg.Snow.Count, width, height, runs)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tSTEPS\tTIME\tSTEPS/SEC\tCOVERAGE\tRESPAWNS\tMEAN DRIFT\tMAX DRIFT\tERRORS")
	for _, res := range results {
		fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\t%.3f\t%.0f\t%.4f\t%.4f\t%d\n",
			res.Seed, res.StepsTaken, res.Elapsed.Round(time.Microsecond), res.StepsPerSecond(),
			res.Metrics["coverage"], res.Metrics["respawns"], res.Metrics["mean_drift"], res.Metrics["max_drift"],
			len(res.Errors))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	first := results[0]
	if len(first.Visible) > 1 {
		data := make([]float64, len(first.Visible))
		for i, v := range first.Visible {
			data[i] = float64(v)
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("visible flakes")))
	}

	meta := storage.RunMetadata{
		Preset:   presetName,
		Count:    cfg.Snow.Count,
		Width:    width,
		Height:   height,
		Dt:       dt,
		Duration: duration,
	}
	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		for _, res := range results {
			id, err := st.Save(meta, res)
			if err != nil {
				return err
			}
			fmt.Printf("saved %s\n", id)
		}
	}
	if jsonPath != "" {
		if err := export.ExportJSON(jsonPath, meta, first); err != nil {
			return err
		}
	}
	if svgPath != "" {
		if err := export.WriteSamplesSVG(svgPath, first.Times, first.Visible, 800, 300, "#FFFFFF"); err != nil {
			return err
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFLAKES\tDURATION\tDT\tSTEPS/SEC")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0fms\t%.1fms\t%.0f\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Count,
			run.Duration,
			run.Dt,
			run.StepsPerSec,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	times, visible, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(visible) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("flakes: %d on %gx%g\n", meta.Count, meta.Width, meta.Height)
	fmt.Printf("samples: %d over %.0fms\n\n", len(visible), times[len(times)-1])

	data := make([]float64, len(visible))
	for i, v := range visible {
		data[i] = float64(v)
	}
	fmt.Println(perf.Chart(data, 80, 10, "visible flakes vs time"))
	for name, v := range meta.Metrics {
		fmt.Printf("%s: %.4f\n", name, v)
	}
	return nil
}

// output opens path for writing, with "-" meaning stdout.
func output(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func exportTree(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("output")
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")

	out, err := output(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return export.TreeSVG(out, tree.New(w, h, nil), svg.NewBuilder(log.Default()))
}

func exportFrame(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	path, _ := flags.GetString("output")
	width, _ := flags.GetFloat64("width")
	height, _ := flags.GetFloat64("height")
	steps, _ := flags.GetInt("steps")
	braille, _ := flags.GetBool("braille")

	card, err := newCard(cfg, width, height, log.Default(), nil)
	if err != nil {
		return err
	}
	start := time.Now()
	for i := 0; i <= steps; i++ {
		card.Step(start.Add(time.Duration(i)*16700*time.Microsecond), nil)
	}

	out, err := output(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if braille {
		cols, rows := int(width)/screen.CellWidth, int(height)/screen.CellHeight
		canvas := viz.NewCanvas(cols, rows)
		var segs []snow.Segment
		card.Field.Each(func(p *snow.Particle) {
			segs = p.Segments(segs[:0])
			for _, s := range segs {
				canvas.DrawSegment(s.X0, s.Y0, s.X1, s.Y1, screen.CellWidth/2)
			}
		})
		_, err = io.WriteString(out, export.BrailleSVG(canvas, 4, "#FFFFFF", card.Fill().Hex()))
		return err
	}

	root, err := export.FrameSVG(svg.NewBuilder(log.Default()), export.Frame{
		Field:      card.Field,
		Background: card.Fill(),
		Tree:       tree.New(0, 0, nil),
		Icons:      card.BorderIcons(),
		IconSize:   card.Border.Size,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, export.Document(root)+"\n")
	return err
}

func checkScreen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	wStr, hStr, ok := strings.Cut(strings.ToLower(args[0]), "x")
	if !ok {
		return fmt.Errorf("expected WxH, got %q", args[0])
	}
	w, err := strconv.Atoi(wStr)
	if err != nil {
		return fmt.Errorf("width: %w", err)
	}
	h, err := strconv.Atoi(hStr)
	if err != nil {
		return fmt.Errorf("height: %w", err)
	}

	checker := screen.NewChecker(cfg.Screen.Threshold)
	fmt.Printf("diagonal: %.2f px (threshold %.0f)\n", checker.Diagonal(w, h), checker.Threshold)
	if checker.TooSmall(w, h) {
		loc, err := sim.LoadLocale(cfg.Countdown.Locale, log.Default())
		if err != nil {
			return err
		}
		fmt.Println(loc.Message(countdown.MsgCompatWarning))
		return nil
	}
	fmt.Println("ok")
	return nil
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))

	if path, _ := cmd.Flags().GetString("save"); path != "" {
		return config.Save(path, cfg)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if scenario.Name != "" {
		fmt.Printf("scenario: %s\n", scenario.Name)
	}
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	logger := log.New(os.Stderr, "[SNOWFALL] ", log.LstdFlags)
	results, err := automation.RunScenario(ctx, scenario, cfg, logger)
	if err != nil {
		return err
	}

	var st *storage.Store
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tFLAKES\tSTEPS/SEC\tCOVERAGE\tMEAN DRIFT\tSAVED")
	for i, r := range results {
		saved := ""
		if r.Step.SaveAs != "" {
			if st == nil {
				st = storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
			}
			id, err := st.Save(storage.RunMetadata{
				Preset:   r.Step.SaveAs,
				Count:    r.Params.Count,
				Width:    r.Step.Width,
				Height:   r.Step.Height,
				Dt:       r.Step.Dt,
				Duration: r.Step.Duration,
			}, r.Result)
			if err != nil {
				return err
			}
			saved = id
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%.0f\t%.3f\t%.4f\t%s\n",
			i+1, r.Step.Preset, r.Params.Count, r.Result.StepsPerSecond(),
			r.Result.Metrics["coverage"], r.Result.Metrics["mean_drift"], saved)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	lo, _ := flags.GetFloat64("min")
	hi, _ := flags.GetFloat64("max")
	steps, _ := flags.GetInt("steps")
	duration, _ := flags.GetFloat64("time")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg.Snow,
		ParamName: args[0],
		ParamMin:  lo,
		ParamMax:  hi,
		NumSteps:  steps,
		Duration:  duration,
		Seed:      max(cfg.Seed, 1),
	}, log.New(os.Stderr, "[SNOWFALL] ", log.LstdFlags))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tCOVERAGE\tMEAN DRIFT\tMAX DRIFT\tRESPAWNS\tSTABLE\n", strings.ToUpper(args[0]))
	coverage := make([]float64, len(results))
	for i, r := range results {
		coverage[i] = r.Coverage
		if r.Err != nil {
			fmt.Fprintf(w, "%.4f\t-\t-\t-\t-\t%v (%v)\n", r.ParamValue, r.Stable, r.Err)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.3f\t%.4f\t%.4f\t%.0f\t%v\n", r.ParamValue, r.Coverage, r.MeanDrift, r.MaxDrift, r.Respawns, r.Stable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.SweepStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	fmt.Println(perf.Chart(coverage, 60, 8, "coverage vs "+args[0]))
	return nil
}
