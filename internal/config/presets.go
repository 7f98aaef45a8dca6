package config

import (
	"sort"

	"github.com/san-kum/kitesim/internal/control"
	"github.com/san-kum/kitesim/internal/kite"
)

var Presets = map[string]*Config{
	"default": {
		Preset: "default", Dt: DefaultDt, Duration: DefaultDuration, BoatModel: BoatHold,
		Disturbance: DisturbanceConfig{TWS: DefaultTWS, TWAMg: DefaultTWA},
		InitState:   InitStateConfig{ThetaDeg: DefaultThetaDeg, PhiDeg: DefaultPhiDeg},
	},
	"calm": {
		Preset: "calm", Dt: DefaultDt, Duration: 60.0, BoatModel: BoatHold,
		Disturbance: DisturbanceConfig{TWS: 6, TWAMg: DefaultTWA},
		InitState:   InitStateConfig{ThetaDeg: 60, PhiDeg: -20},
	},
	"gusty": {
		Preset: "gusty", Dt: 0.01, Duration: 30.0, BoatModel: BoatHold,
		Disturbance: DisturbanceConfig{TWS: 25, TWAMg: 30},
		InitState:   InitStateConfig{ThetaDeg: DefaultThetaDeg, PhiDeg: DefaultPhiDeg},
		Schedule: []control.Segment{
			{At: 10, Command: kite.Command{Epsilon: -2}},
			{At: 20, Command: kite.Command{Epsilon: 1}},
		},
	},
	"beam-reach": {
		Preset: "beam-reach", Dt: DefaultDt, Duration: 40.0, BoatModel: BoatHold,
		Disturbance: DisturbanceConfig{TWS: 18, TWAMg: 90},
		InitState:   InitStateConfig{ThetaDeg: 30, PhiDeg: -30, BoatSpeed: 8},
	},
	"carving": {
		Preset: "carving", Dt: DefaultDt, Duration: 40.0, BoatModel: BoatHold,
		Disturbance: DisturbanceConfig{TWS: DefaultTWS, TWAMg: DefaultTWA},
		InitState:   InitStateConfig{ThetaDeg: 35, PhiDeg: -30},
		Schedule: []control.Segment{
			{At: 2, Command: kite.Command{Delta: 0.2}},
			{At: 8, Command: kite.Command{Delta: -0.2}},
			{At: 14, Command: kite.Command{Delta: 0.2}},
			{At: 20, Command: kite.Command{Delta: -0.2}},
			{At: 26, Command: kite.Command{Delta: 0.2}},
			{At: 32, Command: kite.Command{}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
