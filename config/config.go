// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Sources    SourcesConfig    `yaml:"sources"`
	Daq        DaqConfig        `yaml:"daq"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds run-level timing and seeding parameters.
type SimulationConfig struct {
	StartTime float64 `yaml:"start_time"`
	Duration  float64 `yaml:"duration"`
	Seed      uint64  `yaml:"seed"`
}

// PhysicsConfig holds transport engine and k-d tree build parameters.
type PhysicsConfig struct {
	MaxTraceDepth          int     `yaml:"max_trace_depth"`
	Epsilon                float64 `yaml:"epsilon"`
	ObjectCost             float64 `yaml:"object_cost"`
	TraversalCost          float64 `yaml:"traversal_cost"`
	MinLeafSize            int     `yaml:"min_leaf_size"`
	DoubleRecurseSplitting bool    `yaml:"double_recurse_splitting"`
	OverlapSteps           int     `yaml:"overlap_steps"`
	OverlapFailureThreshold float64 `yaml:"overlap_failure_threshold"`
}

// SourcesConfig holds defaults for decay-event generation.
type SourcesConfig struct {
	SimulateHalfLife     bool `yaml:"simulate_half_life"`
	SoftMaxInteractions  int  `yaml:"soft_max_interactions"`
}

// DaqConfig holds default pipeline stage parameters.
type DaqConfig struct {
	SortWindowMultiplier float64 `yaml:"sort_window_multiplier"`
	CoincidenceWindow    float64 `yaml:"coincidence_window"`
	CoincidenceOffset    float64 `yaml:"coincidence_offset"`
	RejectMultiples      bool    `yaml:"reject_multiples"`
	Paralyzable          bool    `yaml:"paralyzable"`
	Deadtime             float64 `yaml:"deadtime"`
	EnergyResolution     float64 `yaml:"energy_resolution"`
	EnergyResolutionRef  float64 `yaml:"energy_resolution_ref"`
	TimeResolutionSigma  float64 `yaml:"time_resolution_sigma"`
}

// LoggingConfig holds structured-logging destination and verbosity.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Destination string `yaml:"destination"`
}

// OutputConfig holds default output stream formats.
type OutputConfig struct {
	Format   string `yaml:"format"`
	HitsMask uint16 `yaml:"hits_mask"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	// SpeedOfLightCmPerNs is c expressed in the simulation's native
	// length/time units (cm, ns), used to size the DAQ pipeline's
	// mandatory sort window from a scene's bounding diagonal.
	SpeedOfLightCmPerNs float64
}

const speedOfLightCmPerNs = 29.9792458

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	c.Derived.SpeedOfLightCmPerNs = speedOfLightCmPerNs
}
