package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/marblesim/internal/automation"
	"github.com/san-kum/marblesim/internal/export"
	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/optim"
	"github.com/san-kum/marblesim/internal/sim"
	"github.com/san-kum/marblesim/internal/storage"
	"github.com/san-kum/marblesim/internal/viz"
)

var (
	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	tuneGrid    []string
	tuneMetric  string
	trials      int
	perturb     float64
	svgOut      string
	svgWidth    int
	svgAsCanvas bool
)

func addBatchCommands(rootCmd *cobra.Command) {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file and save the runs",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one physics parameter over a range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addPhysicsFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "restitution", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.9, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search physics parameters minimizing a metric",
		Args:  cobra.NoArgs,
		RunE:  runTune,
	}
	addPhysicsFlags(tuneCmd)
	tuneCmd.Flags().StringArrayVar(&tuneGrid, "grid", []string{"friction=0.9,0.95,0.98", "restitution=0.3,0.5,0.7"}, "name=v1,v2,... (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "wall_contact", "metric to minimize")

	mcCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "check bounds containment over randomized runs",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	addPhysicsFlags(mcCmd)
	mcCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	mcCmd.Flags().Float64Var(&perturb, "perturb", 0.3, "relative spread of viewport and wobble amplitude")

	svgCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw a run's trajectory as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "image-width", 400, "image width in px")
	svgCmd.Flags().BoolVar(&svgAsCanvas, "canvas", false, "render the final frame as the terminal canvas")

	rootCmd.AddCommand(scenarioCmd, sweepCmd, tuneCmd, mcCmd, svgCmd)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	results, err := automation.RunScenario(cmd.Context(), sc, cfg, log)
	out := cmd.OutOrStdout()
	for i, r := range results {
		name := r.Step.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", sc.Name, i+1)
		}
		runID, saveErr := st.Save(storage.RunMetadata{
			Name:     name,
			Seed:     r.Config.Seed,
			Width:    r.Config.Width,
			Height:   r.Config.Height,
			Duration: r.Config.Duration,
			Params:   r.Config.Physics,
		}, r.Result)
		if saveErr != nil {
			return saveErr
		}
		fmt.Fprintf(out, "%s: %s (bounces %.0f)\n", name, runID, r.Result.Metrics["bounces"])
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	}, cfg, log)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBOUNCES\tMEAN SPEED\tMAX SPEED\tWALL CONTACT\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.0f\t%.3f\t%.3f\t%.3f\n",
			r.ParamValue,
			r.Metrics["bounces"],
			r.Metrics["mean_speed"],
			r.Metrics["max_speed"],
			r.Metrics["wall_contact"],
		)
	}
	return w.Flush()
}

func runTune(cmd *cobra.Command, args []string) error {
	names, ranges, err := parseGrid(tuneGrid)
	if err != nil {
		return err
	}

	run := func(ctx context.Context, params map[string]float64) (*sim.Result, error) {
		c := cfg.Clone()
		for k, v := range params {
			if err := c.Physics.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		return automation.Run(ctx, c, log)
	}

	best, val, err := optim.NewGridSearch(names, ranges).Search(cmd.Context(), run, tuneMetric)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "best %s: %.6f\n", tuneMetric, val)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %g\n", name, best[name])
	}
	return nil
}

// parseGrid reads name=v1,v2 entries.
func parseGrid(entries []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(entries))
	ranges := make([][]float64, 0, len(entries))
	for _, e := range entries {
		name, list, ok := strings.Cut(e, "=")
		if !ok || name == "" {
			return nil, nil, fmt.Errorf("bad grid entry %q, want name=v1,v2", e)
		}
		if err := (&marble.Params{}).SetParam(name, 0); err != nil {
			return nil, nil, err
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		NumTrials:    trials,
		Perturbation: perturb,
		Seed:         cfg.Seed,
	}, cfg, log)
	if err != nil {
		return err
	}

	contained, escaped := automation.MonteCarloStats(results)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "trials: %d\ncontained: %d\nescaped: %d\n", len(results), contained, escaped)
	for _, r := range results {
		if !r.Contained {
			fmt.Fprintf(out, "  trial %d seed %d viewport %.0fx%.0f final %s\n", r.TrialID, r.Seed, r.Width, r.Height, r.Final)
		}
	}
	if escaped > 0 {
		return fmt.Errorf("%d trials left the bounds", escaped)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if svgOut != "" {
		f, err := os.Create(svgOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if svgAsCanvas {
		if len(states) == 0 {
			return fmt.Errorf("no states to draw")
		}
		canvas := viz.NewCanvas(60, 24)
		last := len(states) - 1
		viz.Scene(canvas, sim.Frame{State: states[last], Bounds: meta.Bounds, Time: times[last]}, meta.Params.Radius)
		_, err := fmt.Fprintln(out, export.CanvasToSVG(canvas, 6, string(viz.CurrentTheme.Marble)))
		return err
	}

	return export.TrajectorySVG(out, states, meta.Bounds, export.TrajectoryOptions{
		Width:  svgWidth,
		Radius: meta.Params.Radius,
	})
}
