package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/passiveds/internal/config"
	"github.com/san-kum/passiveds/internal/control"
	"github.com/san-kum/passiveds/internal/dynamo"
	"github.com/san-kum/passiveds/internal/metrics"
	"github.com/san-kum/passiveds/internal/observability"
	"github.com/san-kum/passiveds/internal/physics"
	"github.com/san-kum/passiveds/internal/sim"
	"github.com/san-kum/passiveds/internal/storage"
	"github.com/san-kum/passiveds/internal/viz"
)

func scenarioName() string {
	if preset != "" {
		return preset
	}
	return "custom"
}

func attachMetrics(s *sim.Simulator, plant *physics.PointMass, ctrl dynamo.Controller) {
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewTrackingError())
	s.AddMetric(metrics.NewEnergyGrowth(plant))
	s.AddMetric(metrics.NewWork())
	s.AddMetric(metrics.NewEffortBound(effortLimit))
	if src, ok := ctrl.(dynamo.DampingSource); ok {
		s.AddMetric(metrics.NewPassivityMargin(src))
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	logger := observability.GetLogger()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	s, plant, ctrl, err := cfg.BuildSimulator("", logger.Named("sim"))
	if err != nil {
		return err
	}
	attachMetrics(s, plant, ctrl)

	start := time.Now()
	result, runErr := s.Run(ctx, cfg.InitialState(), cfg.SimConfig())
	if result == nil {
		return runErr
	}
	logger.Info("run complete",
		zap.String("controller", cfg.Controller.Kind),
		zap.Int("steps", result.StepsTaken),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(runErr),
	)

	meta := storage.RunMetadata{
		Name:        scenarioName(),
		Controller:  cfg.Controller.Kind,
		Dim:         cfg.Controller.Dim,
		Eigenvalues: cfg.Controller.Eigenvalues,
		Seed:        cfg.Controller.Seed,
		Dt:          cfg.Sim.Dt,
		Duration:    cfg.Sim.Duration,
		Integrator:  cfg.Sim.Integrator,
	}
	if runErr != nil {
		meta.Error = runErr.Error()
	}

	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(meta, result)
		if err != nil {
			return errors.Wrap(err, "save run")
		}
		meta.ID = id
		logger.Debug("run saved", zap.String("id", id))
	}

	if jsonOut {
		if err := storage.ExportJSON(os.Stdout, meta, result); err != nil {
			return err
		}
		return runErr
	}

	if meta.ID != "" {
		fmt.Printf("run: %s\n", meta.ID)
	}
	fmt.Printf("controller: %s  dim: %d  steps: %d\n", meta.Controller, meta.Dim, result.StepsTaken)
	fmt.Printf("energy: %.6f -> %.6f\n", result.InitialEnergy, result.FinalEnergy)
	printMetrics(result.Metrics)
	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %12.6f\n", name, m[name])
	}
}

func compareControllers(cmd *cobra.Command, args []string) error {
	kinds := args
	if len(kinds) == 0 {
		kinds = config.ControllerKinds
	}
	logger := observability.GetLogger()

	runs := make([]sim.Run, 0, len(kinds))
	for _, kind := range kinds {
		s, plant, ctrl, err := cfg.BuildSimulator(kind, logger.Named(kind))
		if err != nil {
			return errors.Wrapf(err, "controller %s", kind)
		}
		attachMetrics(s, plant, ctrl)
		runs = append(runs, sim.Run{Name: kind, Sim: s, X0: cfg.InitialState(), Cfg: cfg.SimConfig()})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	results, err := sim.NewEnsemble(0, runs...).Run(ctx)
	if err != nil {
		return err
	}

	columns := []string{"tracking_rms", "control_effort", "energy_growth", "work", "effort_bound"}
	fmt.Printf("comparing controllers on %s (dt=%.4f, duration=%.1fs)\n\n", scenarioName(), cfg.Sim.Dt, cfg.Sim.Duration)
	fmt.Printf("%-10s", "controller")
	for _, c := range columns {
		fmt.Printf("  %14s", c)
	}
	fmt.Println()
	fmt.Println(strings.Repeat("-", 10+16*len(columns)))
	for i, r := range runs {
		fmt.Printf("%-10s", r.Name)
		for _, c := range columns {
			fmt.Printf("  %14.6f", results[i].Metrics[c])
		}
		fmt.Println()
	}
	return nil
}

func watchSimulation(cmd *cobra.Command, args []string) error {
	plant := cfg.BuildPlant()
	integ, err := cfg.BuildIntegrator()
	if err != nil {
		return err
	}
	// logs would tear the alternate screen
	ctrl, err := cfg.BuildController("", zap.NewNop())
	if err != nil {
		return err
	}
	schedule, err := cfg.BuildSchedule()
	if err != nil {
		return err
	}

	m := viz.NewModel(scenarioName(), plant, integ, ctrl, schedule, cfg.InitialState(), cfg.Sim.Dt)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func checkController(cmd *cobra.Command, args []string) error {
	opts := []control.Option{
		control.WithMinSpeed(cfg.Controller.MinSpeed),
		control.WithTolerance(cfg.Controller.Tolerance),
		control.WithSeed(cfg.Controller.Seed),
		control.WithLogger(observability.GetLogger().Named("check")),
	}
	c, err := control.New(cfg.Controller.Dim, cfg.Controller.Eigenvalues, opts...)
	if err != nil {
		return err
	}

	rep := control.Check(c, cycles, rand.New(rand.NewSource(cfg.Controller.Seed)))
	fmt.Printf("cycles:          %d (%d held)\n", rep.Cycles, rep.Held)
	fmt.Printf("orthonormality:  %.3e\n", rep.Orthonormality)
	fmt.Printf("symmetry:        %.3e\n", rep.Symmetry)
	fmt.Printf("min eigenvalue:  %.6f\n", rep.MinEigenvalue)
	fmt.Printf("min power ratio: %.6f\n", rep.MinPower)
	if !rep.Passed() {
		return errors.Wrap(rep.Err, "check failed")
	}
	fmt.Println("ok")
	return nil
}
