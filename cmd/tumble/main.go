package main

import (
	"fmt"
	"io"
	"os"

	"github.com/akmonengine/tumble/config"
	"github.com/akmonengine/tumble/internal/tui"
	"github.com/akmonengine/tumble/internal/window"
	"github.com/akmonengine/tumble/simulation"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string
	logLevel   string
	logFile    string

	duration float64
	dt       float64
	spheres  int
	cubes    int
	seed     uint64
	graph    bool

	listPresets bool
	outputFile  string
)

// main registers the commands and runs the terminal view when no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:          "tumble",
		Short:        "rigid bodies falling on a floor",
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "default", "preset configuration, ignored with --config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to a file instead of stderr")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the scene in the terminal",
		RunE:  runTUI,
	}

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "run the scene in a raylib window",
		RunE:  runWindow,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the scene headless at a fixed timestep and print telemetry",
		RunE:  runHeadlessCmd,
	}
	runCmd.Flags().Float64Var(&duration, "duration", 5.0, "simulated seconds")
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60.0, "frame delta in seconds")
	runCmd.Flags().IntVar(&spheres, "spheres", 0, "random spheres spawned at start")
	runCmd.Flags().IntVar(&cubes, "cubes", 0, "random cubes spawned at start")
	runCmd.Flags().Uint64Var(&seed, "seed", 0, "spawn seed, 0 keeps the configured one")
	runCmd.Flags().BoolVar(&graph, "graph", false, "plot the mean height")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "print the resolved configuration as yaml",
		RunE:  printConfig,
	}
	configCmd.Flags().BoolVar(&listPresets, "list", false, "list the presets")
	configCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write to a file instead of stdout")

	rootCmd.AddCommand(tuiCmd, windowCmd, runCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config when set, the named preset otherwise
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}

	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q, available: %v", preset, config.ListPresets())
	}
	return cfg, nil
}

// newLogger returns the logger and a function releasing its output
func newLogger() (*log.Logger, func() error, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	closeFn := func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          "tumble",
		ReportTimestamp: true,
	})

	return logger, closeFn, nil
}

func newSession() (*simulation.Session, *config.Config, func() error, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		return nil, nil, nil, err
	}

	session, err := simulation.NewSession(cfg, nil, logger)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}

	return session, cfg, closeLog, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	// the terminal is taken by the view, logs only go to --log-file
	if logFile == "" {
		logLevel = "fatal"
	}

	session, _, closeLog, err := newSession()
	if err != nil {
		return err
	}
	defer closeLog()

	return tui.Run(session)
}

func runWindow(cmd *cobra.Command, args []string) error {
	session, cfg, closeLog, err := newSession()
	if err != nil {
		return err
	}
	defer closeLog()

	window.NewApp(session, cfg.Render).Run()
	return nil
}

func runHeadlessCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if seed != 0 {
		cfg.Spawn.Seed = seed
	}

	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	session, err := simulation.NewSession(cfg, nil, logger)
	if err != nil {
		return err
	}

	return runHeadless(cmd.OutOrStdout(), session, headlessOptions{
		Duration: duration,
		Delta:    dt,
		Spheres:  spheres,
		Cubes:    cubes,
		Graph:    graph,
	})
}

func printConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if listPresets {
		for _, name := range config.ListPresets() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if outputFile != "" {
		return config.Save(outputFile, cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
