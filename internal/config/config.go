package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/kitesim/internal/control"
	"github.com/san-kum/kitesim/internal/geom"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/params"
	"github.com/san-kum/kitesim/internal/sim"
)

const (
	DefaultDt       = 0.02
	DefaultDuration = 30.0
	DefaultTWS      = 15.0
	DefaultTWA      = 40.0
	DefaultThetaDeg = 45.0
	DefaultPhiDeg   = -40.0
)

// BoatHold is the only boat speed model: the speed stays at its initial value.
const BoatHold = "hold"

type Config struct {
	Preset      string             `yaml:"preset,omitempty"`
	Dt          float64            `yaml:"dt"`
	Duration    float64            `yaml:"duration"`
	Seed        int64              `yaml:"seed"`
	BoatModel   string             `yaml:"boat_model"`
	Params      map[string]float64 `yaml:"params,omitempty"`
	Disturbance DisturbanceConfig  `yaml:"disturbance"`
	InitState   InitStateConfig    `yaml:"init_state"`
	Controls    kite.Command       `yaml:"controls"`
	Schedule    []control.Segment  `yaml:"schedule,omitempty"`
}

// DisturbanceConfig is the true wind: speed in knots, angle in degrees.
type DisturbanceConfig struct {
	TWS   float64 `yaml:"tws"`
	TWAMg float64 `yaml:"twa_mg"`
}

// InitStateConfig takes the tether angles in degrees; everything else is in
// the units of kite.State.
type InitStateConfig struct {
	ThetaDeg    float64 `yaml:"theta_deg"`
	PhiDeg      float64 `yaml:"phi_deg"`
	Psi         float64 `yaml:"psi"`
	DTheta      float64 `yaml:"dtheta"`
	DPhi        float64 `yaml:"dphi"`
	BoatHeading float64 `yaml:"boat_heading"`
	BoatSpeed   float64 `yaml:"boat_speed"`
}

func DefaultConfig() *Config {
	return &Config{
		Preset:    "default",
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		BoatModel: BoatHold,
		Disturbance: DisturbanceConfig{
			TWS:   DefaultTWS,
			TWAMg: DefaultTWA,
		},
		InitState: InitStateConfig{
			ThetaDeg: DefaultThetaDeg,
			PhiDeg:   DefaultPhiDeg,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	if c.Schedule != nil {
		out.Schedule = make([]control.Segment, len(c.Schedule))
		copy(out.Schedule, c.Schedule)
	}
	return &out
}

// SetParam overrides one registry value. The wind keys write the
// disturbance section; any other key lands in Params and is checked by
// Validate.
func (c *Config) SetParam(key string, value float64) {
	switch key {
	case params.TrueWindSpeed:
		c.Disturbance.TWS = value
	case params.TrueWindAngle:
		c.Disturbance.TWAMg = value
	default:
		if c.Params == nil {
			c.Params = make(map[string]float64)
		}
		c.Params[key] = value
	}
}

// Validate rejects settings the simulator cannot run. Parameter names are
// checked against the default model registry.
func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", sim.ErrInvalidConfig, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", sim.ErrInvalidConfig, c.Duration)
	}
	if c.Disturbance.TWS < 0 {
		return fmt.Errorf("%w: tws must not be negative, got %g", sim.ErrInvalidConfig, c.Disturbance.TWS)
	}
	if c.InitState.ThetaDeg < kite.ThetaMinDeg || c.InitState.ThetaDeg > kite.ThetaMaxDeg {
		return fmt.Errorf("%w: init_state.theta_deg %g outside [%d, %d]",
			sim.ErrInvalidConfig, c.InitState.ThetaDeg, kite.ThetaMinDeg, kite.ThetaMaxDeg)
	}
	switch c.BoatModel {
	case "", BoatHold:
	default:
		return fmt.Errorf("%w: unknown boat_model %q", sim.ErrInvalidConfig, c.BoatModel)
	}
	for i, seg := range c.Schedule {
		if seg.At < 0 {
			return fmt.Errorf("%w: schedule[%d] starts before t=0", sim.ErrInvalidConfig, i)
		}
	}
	if _, _, err := c.Registries(); err != nil {
		return err
	}
	return nil
}

// Registries returns fresh default registries with the overrides applied.
func (c *Config) Registries() (model, disturbance *params.Registry, err error) {
	model = params.DefaultModel()
	if err := model.Apply(c.Params); err != nil {
		return nil, nil, err
	}
	disturbance = params.DefaultDisturbance()
	if err := disturbance.Set(params.TrueWindSpeed, c.Disturbance.TWS); err != nil {
		return nil, nil, err
	}
	if err := disturbance.Set(params.TrueWindAngle, c.Disturbance.TWAMg); err != nil {
		return nil, nil, err
	}
	return model, disturbance, nil
}

// Model builds a kite model from the registries.
func (c *Config) Model() (*kite.Model, error) {
	p, d, err := c.Registries()
	if err != nil {
		return nil, err
	}
	return kite.NewModel(p, d), nil
}

func (c *Config) InitialState() kite.State {
	return kite.State{
		Theta:       geom.Radians(c.InitState.ThetaDeg),
		Phi:         geom.Radians(c.InitState.PhiDeg),
		Psi:         c.InitState.Psi,
		DTheta:      c.InitState.DTheta,
		DPhi:        c.InitState.DPhi,
		BoatHeading: c.InitState.BoatHeading,
		BoatSpeed:   c.InitState.BoatSpeed,
	}
}

// Input is the default input carrying the configured control values.
func (c *Config) Input() kite.Input {
	return kite.DefaultInput().With(c.Controls)
}

// Controller is a Schedule when segments are configured, otherwise a Hold.
func (c *Config) Controller() sim.Controller {
	if len(c.Schedule) > 0 {
		return control.NewSchedule(c.Controls, c.Schedule)
	}
	return control.NewHold(c.Controls)
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{Dt: c.Dt, Duration: c.Duration, Seed: c.Seed}
}
