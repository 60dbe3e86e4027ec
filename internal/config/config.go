// Package config provides TOML configuration and default path helpers.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file. Nil fields mean the
// value is not set and the CLI flag default applies.
type FileConfig struct {
	Simulation SimulationConfig `toml:"simulation"`
	Demand     DemandConfig     `toml:"demand"`
}

// SimulationConfig maps simulation-related settings.
type SimulationConfig struct {
	TrainFreq     *float64 `toml:"interval"`
	Average       *float64 `toml:"mean"`
	Deviation     *float64 `toml:"stddev"`
	TimeTotal     *float64 `toml:"window"`
	People        *int     `toml:"people"`
	MissCost      *float64 `toml:"miss-cost"`
	Seed          *uint64  `toml:"seed"`
	StationPolicy *string  `toml:"station-policy"`
	SweepMin      *int     `toml:"sweep-min"`
	SweepMax      *int     `toml:"sweep-max"`
	Data          *string  `toml:"data"`
	Out           *string  `toml:"out"`
}

// DemandConfig maps the service-demand curve constants.
type DemandConfig struct {
	Scale *float64 `toml:"scale"`
	Decay *float64 `toml:"decay"`
	Floor *float64 `toml:"floor"`
}

// Load reads a TOML config from the given path. Missing file is not an error.
func Load(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DefaultPath returns the config file path, honoring SUBWAYSIM_CONFIG.
func DefaultPath() string {
	if v := os.Getenv("SUBWAYSIM_CONFIG"); v != "" {
		return v
	}
	return filepath.Join(xdgConfigHome(), "subwaysim", "config.toml")
}

// DefaultOutDir returns the chart and table output directory, honoring
// SUBWAYSIM_OUT.
func DefaultOutDir() string {
	if v := os.Getenv("SUBWAYSIM_OUT"); v != "" {
		return v
	}
	return "out"
}

func xdgConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}
