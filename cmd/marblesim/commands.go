package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/marblesim/internal/analysis"
	"github.com/san-kum/marblesim/internal/config"
	"github.com/san-kum/marblesim/internal/experiment"
	"github.com/san-kum/marblesim/internal/logging"
	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/sensor"
	"github.com/san-kum/marblesim/internal/storage"
	"github.com/san-kum/marblesim/internal/viz"
)

func runSimulation(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	dev, err := experiment.BuildDevice(cfg, false)
	if err != nil {
		return err
	}
	exp, err := experiment.New(cfg, dev, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Fprintf(out, "running %s simulation...\n", runName)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Name:     runName,
		Seed:     cfg.Seed,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Duration: cfg.Duration,
		Params:   cfg.Physics,
	}, result)
	if err != nil {
		return err
	}
	log.Debug().Str("run", runID).Dur("elapsed", elapsed).Msg("run saved")

	fmt.Fprintf(out, "completed in %v\n", elapsed)
	fmt.Fprintf(out, "run id: %s\n", runID)
	fmt.Fprintf(out, "source: %s\n", result.Source)
	fmt.Fprintf(out, "steps: %d (stale %d, invalid %d)\n",
		result.Counters.Accepted, result.Counters.Stale, result.Counters.Invalid+result.Counters.Backwards)
	fmt.Fprintf(out, "final: %s\n", result.Final)
	fmt.Fprintln(out, "\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Fprintf(out, "  %s: %.6f\n", name, result.Metrics[name])
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	logFile, err := os.Create(logging.FilePath(logDir, "live", time.Now()))
	if err != nil {
		return err
	}
	defer logFile.Close()
	liveLog := logging.New(logLevel, nil, logFile)

	dev, manual, err := experiment.ManualDevice(cfg)
	if err != nil {
		return err
	}
	kinds, err := cfg.Kinds()
	if err != nil {
		return err
	}

	viz.SetTheme(theme)
	return viz.Run(marble.NewCore(cfg.Physics), viz.Options{
		Width:  cfg.Width,
		Height: cfg.Height,
		Device: dev,
		Kinds:  kinds,
		Manual: manual,
		Log:    liveLog,
	})
}

func recordSamples(cmd *cobra.Command, args []string) error {
	kinds, err := cfg.Kinds()
	if err != nil {
		return err
	}
	kind := sensor.Gravity
	if len(kinds) > 0 {
		kind = kinds[0]
	}

	n := samples
	if n <= 0 {
		n = int(cfg.Duration/sensor.GameRate.Seconds()) + 1
	}
	recorded := sensor.Generate(cfg.Synthetic(kind), n)

	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := sensor.WriteCSV(f, recorded); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Info().Str("file", args[0]).Int("samples", n).Str("kind", string(kind)).Msg("samples recorded")
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tVIEWPORT\tSTEPS\tBOUNCES")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0fx%.0f\t%d\t%.0f\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Width,
			run.Height,
			run.Counters.Accepted,
			run.Metrics["bounces"],
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
	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "source: %s\n", meta.Source)
	fmt.Fprintf(out, "samples: %d\n\n", len(states))

	series := []struct {
		caption string
		value   func(marble.State) float64
	}{
		{"x (px)", func(s marble.State) float64 { return s.X }},
		{"y (px, down)", func(s marble.State) float64 { return s.Y }},
		{"speed (px/step)", marble.State.Speed},
	}
	for _, sr := range series {
		data := make([]float64, len(states))
		for i, s := range states {
			data[i] = sr.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(sr.caption),
		)
		fmt.Fprintln(out, graph)
		fmt.Fprintln(out)
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data")
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "frequency analysis: %s\n\n", meta.ID)

	dt := sensor.GameRate.Seconds()
	for _, axis := range []string{"x", "y"} {
		values := make([]float64, len(states))
		for i, s := range states {
			if axis == "x" {
				values[i] = s.X
			} else {
				values[i] = s.Y
			}
		}
		uniform := analysis.Resample(times, values, dt)

		freq, err := analysis.DominantFrequency(uniform, dt)
		if errors.Is(err, analysis.ErrTooShort) {
			fmt.Fprintf(out, "%s: too few samples\n", axis)
			continue
		}
		if err != nil {
			return err
		}

		ps := analysis.PowerSpectrum(uniform)
		if len(ps) > 1 {
			graph := asciigraph.Plot(ps[1:max(2, len(ps)/4)],
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("power spectrum ("+axis+")"),
			)
			fmt.Fprintln(out, graph)
		}
		fmt.Fprintf(out, "%s dominant frequency: %.3f hz", axis, freq)
		if freq > 0 {
			fmt.Fprintf(out, " (period %.3f s)", 1.0/freq)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out)
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(cmd.OutOrStdout())
	if err := w.Write([]string{"time", "x", "y", "vx", "vy", "speed"}); err != nil {
		return err
	}
	for i, s := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, v := range append(s.Vector(), s.Speed()) {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(cmd.OutOrStdout(), args[0])
}

func listPresets(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "presets:")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(out, "  %-13s friction=%.3f restitution=%.2f sensors=%v\n",
			name, p.Physics.Friction, p.Physics.Restitution, p.Sensor.Available)
	}
	return nil
}
