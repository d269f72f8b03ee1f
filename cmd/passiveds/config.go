package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/san-kum/passiveds/internal/config"
)

// loadConfig layers the configuration: defaults or preset, then the config
// file, then PASSIVEDS_* variables, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c := config.DefaultConfig()
	if preset != "" {
		c = config.GetPreset(preset)
		if c == nil {
			return nil, errors.Errorf("unknown preset %q (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		c = loaded
	}

	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		c.Sim.Dt = dt
	}
	if flags.Changed("time") {
		c.Sim.Duration = duration
	}
	if flags.Changed("integrator") {
		c.Sim.Integrator = integrator
	}
	if flags.Changed("seed") {
		c.Controller.Seed = seed
	}
	if flags.Changed("controller") {
		c.Controller.Kind = controller
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return c, nil
}
