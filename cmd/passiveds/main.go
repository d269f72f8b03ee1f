package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/san-kum/passiveds/internal/config"
	"github.com/san-kum/passiveds/internal/observability"
)

var (
	dataDir     string
	configFile  string
	preset      string
	dt          float64
	duration    float64
	seed        int64
	integrator  string
	controller  string
	logLevel    string
	noSave      bool
	jsonOut     bool
	effortLimit float64
	cycles      int
	components  bool

	cfg *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "passiveds",
		Short:         "passivity-preserving velocity control lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg = loaded
			observability.InitializeLogger(cfg.Logging)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".passiveds", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "start from a named preset")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	simFlags := func(cmd *cobra.Command) {
		cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "control period")
		cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
		cmd.Flags().Int64Var(&seed, "seed", 1, "seed for the initial frame (0 = clock)")
		cmd.Flags().StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4)")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a closed-loop simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().StringVar(&controller, "controller", "", "controller (passive, pid, none)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().BoolVar(&jsonOut, "json", false, "write the run as JSON to stdout")
	runCmd.Flags().Float64Var(&effortLimit, "effort-limit", 10, "effort norm counted by effort_bound")

	compareCmd := &cobra.Command{
		Use:   "compare [controller...]",
		Short: "run several controllers on the same scenario",
		RunE:  compareControllers,
	}
	simFlags(compareCmd)
	compareCmd.Flags().Float64Var(&effortLimit, "effort-limit", 10, "effort norm counted by effort_bound")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "run the loop with live visualization",
		Args:  cobra.NoArgs,
		RunE:  watchSimulation,
	}
	simFlags(watchCmd)
	watchCmd.Flags().StringVar(&controller, "controller", "", "controller (passive, pid, none)")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "drive the passive controller with random inputs and verify its invariants",
		Args:  cobra.NoArgs,
		RunE:  checkController,
	}
	checkCmd.Flags().IntVar(&cycles, "cycles", 1000, "number of control cycles")
	checkCmd.Flags().Int64Var(&seed, "seed", 1, "seed for the random inputs")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().BoolVar(&components, "components", false, "plot each velocity component")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the cycles of a stored run as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets or print one as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "grid search controller or plant parameters",
		Args:  cobra.NoArgs,
		RunE:  tuneController,
	}
	simFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&controller, "controller", "", "controller (passive, pid, none)")
	tuneCmd.Flags().StringArrayVar(&tuneParams, "param", nil, "parameter range, e.g. lambda0=1,2,4 (repeatable)")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "tracking_rms", "metric to minimise")
	tuneCmd.Flags().Float64Var(&effortLimit, "effort-limit", 10, "effort norm counted by effort_bound")

	rootCmd.AddCommand(runCmd, compareCmd, watchCmd, checkCmd, tuneCmd, listCmd, plotCmd, exportCSVCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		observability.Sync()
		os.Exit(1)
	}
}
