/*
Package config holds the configuration of the airfoil tools.

Configuration is read from YAML. Values missing from a file keep their
defaults, see Default.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/npillmayer/airfoil/lsq"
	"github.com/npillmayer/airfoil/parafoil"
	"github.com/npillmayer/schuko/tracing"
	"gopkg.in/yaml.v3"
)

// ErrInvalid flags configuration values out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete configuration.
type Config struct {
	Tracing     TracingConfig     `yaml:"tracing"`
	Profile     ProfileConfig     `yaml:"profile"`
	Discretize  DiscretizeConfig  `yaml:"discretize"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Solver      SolverConfig      `yaml:"solver"`
	Optimizer   OptimizerConfig   `yaml:"optimizer"`
	Study       StudyConfig       `yaml:"study"`
}

// TracingConfig sets the trace level: debug, info or error.
type TracingConfig struct {
	Level string `yaml:"level"`
}

// ProfileConfig contains settings for raw-coordinate profiles.
type ProfileConfig struct {
	NumPoints int `yaml:"numpoints"` // points per surface of generated profiles
}

// DiscretizeConfig contains settings for discretizing parafoils.
type DiscretizeConfig struct {
	NumPoints       int     `yaml:"numpoints"`
	CurvatureFactor float64 `yaml:"curvature_factor"`
}

// CalibrationConfig selects the control matrix rows varied by calibration.
type CalibrationConfig struct {
	X bool `yaml:"x"`
	Y bool `yaml:"y"`
	W bool `yaml:"w"`
}

// SolverConfig contains least-squares termination settings. Zero values
// select the solver's defaults.
type SolverConfig struct {
	MaxEvaluations int     `yaml:"max_evaluations"`
	FTol           float64 `yaml:"ftol"`
	XTol           float64 `yaml:"xtol"`
	GTol           float64 `yaml:"gtol"`
	DiffStep       float64 `yaml:"diff_step"`
}

// OptimizerConfig contains settings for shape optimization.
type OptimizerConfig struct {
	Penalty float64 `yaml:"penalty"`
}

// StudyConfig contains settings for parameter studies.
type StudyConfig struct {
	Database string `yaml:"database"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tracing:     TracingConfig{Level: "error"},
		Profile:     ProfileConfig{NumPoints: 100},
		Discretize:  DiscretizeConfig{NumPoints: 50, CurvatureFactor: 0.3},
		Calibration: CalibrationConfig{Y: true},
		Solver: SolverConfig{
			FTol:     1e-8,
			XTol:     1e-8,
			GTol:     1e-8,
			DiffStep: 1e-7,
		},
		Optimizer: OptimizerConfig{Penalty: 1.0},
		Study:     StudyConfig{Database: "airfoil-study.db"},
	}
}

// Load reads a configuration file.
func Load(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// Parse reads a YAML configuration on top of the defaults and validates it.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values out of range.
func (c *Config) Validate() error {
	if _, ok := traceLevels[c.Tracing.Level]; !ok {
		return fmt.Errorf("%w: trace level %q", ErrInvalid, c.Tracing.Level)
	}
	if c.Profile.NumPoints < 4 {
		return fmt.Errorf("%w: profile.numpoints = %d", ErrInvalid, c.Profile.NumPoints)
	}
	if c.Discretize.NumPoints < 4 {
		return fmt.Errorf("%w: discretize.numpoints = %d", ErrInvalid, c.Discretize.NumPoints)
	}
	if f := c.Discretize.CurvatureFactor; !(f >= 0 && f <= 1) {
		return fmt.Errorf("%w: discretize.curvature_factor = %g", ErrInvalid, f)
	}
	if !c.Calibration.X && !c.Calibration.Y && !c.Calibration.W {
		return fmt.Errorf("%w: no calibration parameters enabled", ErrInvalid)
	}
	s := c.Solver
	if s.MaxEvaluations < 0 || s.FTol < 0 || s.XTol < 0 || s.GTol < 0 || s.DiffStep < 0 {
		return fmt.Errorf("%w: negative solver setting", ErrInvalid)
	}
	if !(c.Optimizer.Penalty > 0) {
		return fmt.Errorf("%w: optimizer.penalty = %g", ErrInvalid, c.Optimizer.Penalty)
	}
	return nil
}

var traceLevels = map[string]tracing.TraceLevel{
	"debug": tracing.LevelDebug,
	"info":  tracing.LevelInfo,
	"error": tracing.LevelError,
}

// TraceLevel returns the configured trace level.
func (c *Config) TraceLevel() tracing.TraceLevel {
	if l, ok := traceLevels[c.Tracing.Level]; ok {
		return l
	}
	return tracing.LevelError
}

// SolverSettings converts the solver section to least-squares settings.
func (c *Config) SolverSettings() *lsq.Settings {
	return &lsq.Settings{
		MaxEvaluations: c.Solver.MaxEvaluations,
		FTol:           c.Solver.FTol,
		XTol:           c.Solver.XTol,
		GTol:           c.Solver.GTol,
		DiffStep:       c.Solver.DiffStep,
	}
}

// Selection returns the parameters varied by calibration.
func (c *Config) Selection() parafoil.Selection {
	return parafoil.Select(c.Calibration.X, c.Calibration.Y, c.Calibration.W)
}

// OptimizeOptions returns options for parafoil optimization.
func (c *Config) OptimizeOptions() parafoil.OptimizeOptions {
	return parafoil.OptimizeOptions{
		Selection:       c.Selection(),
		NumPoints:       c.Discretize.NumPoints,
		CurvatureFactor: c.Discretize.CurvatureFactor,
		Penalty:         c.Optimizer.Penalty,
		Solver:          c.SolverSettings(),
	}
}
