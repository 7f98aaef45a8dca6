package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/kitesim/internal/config"
	"github.com/san-kum/kitesim/internal/storage"
	"github.com/san-kum/kitesim/internal/viz"
)

var (
	logger *zap.Logger

	// Parameter overrides, "key=value".
	sets []string
)

// main registers the commands, starts the interactive preset picker when no
// subcommand is given and exits with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "kitesim",
		Short:         "kite and boat physics simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(viper.GetBool("verbose"))
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.String("data", ".kitesim", "data directory")
	pf.String("config", "", "config file path (yaml)")
	pf.String("preset", "", "start from a preset configuration")
	pf.BoolP("verbose", "v", false, "development logging")
	for _, name := range []string{"data", "config", "preset", "verbose"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}

	rootCmd.AddCommand(
		runCmd(), liveCmd(), listCmd(), plotCmd(), exportJSONCmd(), exportCSVCmd(),
		analyzeCmd(), phaseCmd(), pngCmd(), svgCmd(), sweepCmd(), tuneCmd(),
		scenarioCmd(), monteCarloCmd(), paramsCmd(), presetsCmd(), serveCmd(),
	)

	cobra.OnInitialize(initEnv)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initEnv loads an optional .env file and maps KITESIM_* variables onto the
// flag keys, so KITESIM_DATA and KITESIM_TWS behave like --data and --tws.
func initEnv() {
	_ = godotenv.Load()
	viper.SetEnvPrefix("kitesim")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func openStore() (*storage.Store, error) {
	st := storage.New(viper.GetString("data"), logger)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

var runFlagNames = []string{"dt", "duration", "seed", "tws", "twa", "theta", "phi", "boat-speed", "delta", "epsilon", "rudder"}

// addRunFlags registers the flags shared by the commands that build a run
// configuration. They are bound to viper when the command runs, since
// several commands define the same keys.
func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64("dt", config.DefaultDt, "timestep (s)")
	f.Float64("duration", config.DefaultDuration, "simulated time (s)")
	f.Int64("seed", 0, "random seed")
	f.Float64("tws", config.DefaultTWS, "true wind speed (kn)")
	f.Float64("twa", config.DefaultTWA, "true wind angle (deg)")
	f.Float64("theta", config.DefaultThetaDeg, "initial elevation (deg)")
	f.Float64("phi", config.DefaultPhiDeg, "initial azimuth (deg)")
	f.Float64("boat-speed", 0, "initial boat speed (kn)")
	f.Float64("delta", 0, "differential trim (m)")
	f.Float64("epsilon", 0, "sheet/ease (m)")
	f.Float64("rudder", 0, "rudder rotation rate (rad/s)")
	f.StringArrayVar(&sets, "set", nil, "override a model parameter, key=value (repeatable)")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		for _, name := range runFlagNames {
			if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
				return err
			}
		}
		return nil
	}
}

// loadConfig layers the configuration: defaults, then --preset, then
// --config, then any explicitly set flag or KITESIM_* variable, then --set.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if name := viper.GetString("preset"); name != "" {
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
	}
	if path := viper.GetString("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	floats := map[string]*float64{
		"dt":         &cfg.Dt,
		"duration":   &cfg.Duration,
		"tws":        &cfg.Disturbance.TWS,
		"twa":        &cfg.Disturbance.TWAMg,
		"theta":      &cfg.InitState.ThetaDeg,
		"phi":        &cfg.InitState.PhiDeg,
		"boat-speed": &cfg.InitState.BoatSpeed,
		"delta":      &cfg.Controls.Delta,
		"epsilon":    &cfg.Controls.Epsilon,
		"rudder":     &cfg.Controls.BoatHeadingSpeed,
	}
	for key, dst := range floats {
		if viper.IsSet(key) {
			*dst = viper.GetFloat64(key)
		}
	}
	if viper.IsSet("seed") {
		cfg.Seed = viper.GetInt64("seed")
	}

	overrides, err := parseSets(sets)
	if err != nil {
		return nil, err
	}
	for k, v := range overrides {
		cfg.SetParam(k, v)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseSets(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want key=value", p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", p, err)
		}
		out[strings.TrimSpace(key)] = v
	}
	return out, nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("bad value %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
