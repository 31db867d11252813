package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/marblesim/internal/config"
	"github.com/san-kum/marblesim/internal/logging"
	"github.com/san-kum/marblesim/internal/marble"
	"github.com/san-kum/marblesim/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string

	width       float64
	height      float64
	duration    float64
	seed        int64
	radius      float64
	scale       float64
	friction    float64
	restitution float64
	sensors     []string
	replayFile  string
	runName     string
	samples     int
	theme       string

	cfg *config.Config
	log zerolog.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "marblesim",
		Short:         "tilt-driven marble simulator",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = loadConfig(cmd)
			if err != nil {
				return err
			}
			level := logLevel
			if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
				level = cfg.LogLevel
			}
			log = logging.New(level, cmd.ErrOrStderr(), nil)
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".marblesim", "data directory")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (trace, debug, info, warn, error, off)")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addPhysicsFlags(runCmd)
	runCmd.Flags().StringVar(&runName, "name", "run", "run name prefix")
	runCmd.Flags().StringVar(&replayFile, "replay", "", "replay samples from a CSV recording")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "steer the marble in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addPhysicsFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", viz.ThemeFelt.Name, "color theme")

	recordCmd := &cobra.Command{
		Use:   "record [file]",
		Short: "write synthetic sensor samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  recordSamples,
	}
	recordCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "recording length in seconds")
	recordCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	recordCmd.Flags().IntVar(&samples, "samples", 0, "number of samples (overrides --time)")
	recordCmd.Flags().StringSliceVar(&sensors, "sensors", nil, "sensor kind to record (first entry)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, liveCmd, recordCmd, listCmd, plotCmd, analyzeCmd, exportCSVCmd, exportJSONCmd, presetsCmd)
	addBatchCommands(rootCmd)
	return rootCmd
}

func addPhysicsFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&width, "width", config.DefaultWidth, "viewport width in px")
	f.Float64Var(&height, "height", config.DefaultHeight, "viewport height in px")
	f.Float64Var(&duration, "time", config.DefaultDuration, "duration in sample-clock seconds (0 = until the source ends)")
	f.Int64Var(&seed, "seed", 1, "random seed")
	f.Float64Var(&radius, "radius", marble.DefaultRadius, "marble radius in px")
	f.Float64Var(&scale, "scale", marble.DefaultScale, "gravity to velocity gain")
	f.Float64Var(&friction, "friction", marble.DefaultFriction, "velocity kept per step")
	f.Float64Var(&restitution, "restitution", marble.DefaultRestitution, "velocity kept on wall contact")
	f.StringSliceVar(&sensors, "sensors", nil, "sensor kinds the device offers, in probe order")
}

// loadConfig layers defaults, preset, config file and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()
	if preset != "" {
		c = config.GetPreset(preset)
		if c == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, c)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		c = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("width") {
		c.Width = width
	}
	if flags.Changed("height") {
		c.Height = height
	}
	if flags.Changed("time") {
		c.Duration = duration
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	if flags.Changed("radius") {
		c.Physics.Radius = radius
	}
	if flags.Changed("scale") {
		c.Physics.Scale = scale
	}
	if flags.Changed("friction") {
		c.Physics.Friction = friction
	}
	if flags.Changed("restitution") {
		c.Physics.Restitution = restitution
	}
	if flags.Changed("sensors") {
		c.Sensor.Available = sensors
	}
	if flags.Changed("replay") {
		c.Sensor.Replay = replayFile
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
