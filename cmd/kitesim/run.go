package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/san-kum/kitesim/internal/automation"
	"github.com/san-kum/kitesim/internal/config"
	"github.com/san-kum/kitesim/internal/experiment"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/metrics"
	"github.com/san-kum/kitesim/internal/optim"
	"github.com/san-kum/kitesim/internal/params"
	"github.com/san-kum/kitesim/internal/sim"
	"github.com/san-kum/kitesim/internal/viz"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and save it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(cmd)
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}

	exp, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early", zap.Int("steps", result.StepsTaken), zap.Error(runErr))
	}

	id, err := st.Save(exp.Metadata(runErr), result)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", id)
	fmt.Printf("steps: %d of %d\n", result.StepsTaken, cfg.SimConfig().Steps())
	printMetrics(result.Metrics)
	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range names {
		fmt.Fprintf(w, "%s\t%.4f\n", k, m[k])
	}
	_ = w.Flush()
}

func liveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "live",
		Short: "steer the kite in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addRunFlags(cmd)
	cmd.Flags().String("metrics-addr", "", "also serve Prometheus metrics on this address")
	return cmd
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	name := cfg.Preset
	if name == "" {
		name = "live"
	}
	m := viz.NewModel(model, cfg.InitialState(), cfg.Input(), cfg.Dt, name)

	addr, _ := cmd.Flags().GetString("metrics-addr")
	if addr != "" {
		srv, collector, err := newTelemetryServer(addr, nil)
		if err != nil {
			return err
		}
		m = m.WithObserver(collector)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, errServerClosed) {
				logger.Error("metrics server", zap.Error(err))
			}
		}()
		defer srv.Close()
	}

	return viz.Run(m)
}

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one simulation per parameter value in parallel",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addRunFlags(cmd)
	cmd.Flags().String("param", params.TrueWindSpeed, "parameter to vary")
	cmd.Flags().String("values", "5,10,15,20,25", "comma separated values")
	cmd.Flags().Int("workers", 0, "parallel runs (0 = GOMAXPROCS)")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	param, _ := cmd.Flags().GetString("param")
	raw, _ := cmd.Flags().GetString("values")
	workers, _ := cmd.Flags().GetInt("workers")
	values, err := parseFloats(raw)
	if err != nil {
		return err
	}

	model, err := cfg.Model()
	if err != nil {
		return err
	}
	s := sim.New(model, cfg.Controller(), logger)

	ctx, cancel := signalContext()
	defer cancel()

	variants, err := s.Sweep(ctx, cfg.InitialState(), cfg.Input(), cfg.SimConfig(), sim.SweepConfig{
		Param:   param,
		Values:  values,
		Workers: workers,
		Metrics: func() []sim.Metric { return metrics.Standard(model.Params()) },
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tMEAN TRACTION\tPEAK TRACTION\tPEAK SPEED\tSTATUS\n", strings.ToUpper(param))
	for _, v := range variants {
		status := "ok"
		if v.Err != nil {
			status = v.Err.Error()
		}
		steps := 0
		var mean, peak, speed float64
		if v.Result != nil {
			steps = v.Result.StepsTaken
			mean = v.Result.Metrics["mean_traction"]
			peak = v.Result.Metrics["peak_traction"]
			speed = v.Result.Metrics["peak_kite_speed"]
		}
		fmt.Fprintf(w, "%g\t%d\t%.1f\t%.1f\t%.2f\t%s\n", v.Value, steps, mean, peak, speed, status)
	}
	return w.Flush()
}

func tuneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune key=v1,v2,... [key=v1,v2,...]",
		Short: "grid search parameters for the best metric",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runTune,
	}
	addRunFlags(cmd)
	cmd.Flags().String("metric", "mean_traction", "metric to optimise")
	cmd.Flags().Bool("minimize", false, "prefer smaller metric values")
	return cmd
}

func runTune(cmd *cobra.Command, args []string) error {
	base, err := loadConfig()
	if err != nil {
		return err
	}
	metric, _ := cmd.Flags().GetString("metric")
	minimize, _ := cmd.Flags().GetBool("minimize")

	names := make([]string, 0, len(args))
	ranges := make([][]float64, 0, len(args))
	for _, a := range args {
		key, raw, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("%q: want key=v1,v2,...", a)
		}
		vals, err := parseFloats(raw)
		if err != nil {
			return err
		}
		names = append(names, key)
		ranges = append(ranges, vals)
	}

	g := optim.NewGridSearch(names, ranges)
	if !minimize {
		g.Maximize()
	}

	ctx, cancel := signalContext()
	defer cancel()

	best, val, err := g.Search(ctx, func(p map[string]float64) (*experiment.Experiment, error) {
		cfg := base.Clone()
		for k, v := range p {
			cfg.SetParam(k, v)
		}
		return experiment.New(cfg, nil)
	}, metric)
	if err != nil {
		return err
	}

	fmt.Printf("best %s: %.4f\n", metric, val)
	printMetrics(best)
	return nil
}

func scenarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of presets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			st, err := openStore()
			if err != nil {
				return err
			}
			ctx, cancel := signalContext()
			defer cancel()

			results, err := automation.RunScenario(ctx, sc, st, logger)
			for i, r := range results {
				fmt.Printf("step %d: %d steps, mean traction %.1f N\n", i+1, r.StepsTaken, r.Metrics["mean_traction"])
			}
			return err
		},
	}
}

func monteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "perturb the start angles and count degenerate runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			trials, _ := cmd.Flags().GetInt("trials")
			perturb, _ := cmd.Flags().GetFloat64("perturb")

			ctx, cancel := signalContext()
			defer cancel()

			results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
				Base:         cfg,
				Perturbation: perturb,
				NumTrials:    trials,
				Seed:         cfg.Seed,
			}, logger)
			if err != nil {
				return err
			}

			completed, degenerate := automation.MonteCarloStats(results)
			fmt.Printf("trials: %d  completed: %d  degenerate: %d\n", len(results), completed, degenerate)
			return nil
		},
	}
	addRunFlags(cmd)
	cmd.Flags().Int("trials", 50, "number of trials")
	cmd.Flags().Float64("perturb", 10, "start angle perturbation (deg)")
	return cmd
}

func paramsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "list model and disturbance parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tVALUE\tMIN\tMAX\tSTEP\tDESCRIPTION")
			for _, reg := range []*params.Registry{params.DefaultDisturbance(), params.DefaultModel()} {
				for _, k := range reg.Keys() {
					s, _ := reg.Get(k)
					fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%s\n", k, s.Value, s.Min, s.Max, s.Step, s.Name)
				}
			}
			in := kite.DefaultInput()
			for _, s := range []params.Scalar{in.Delta, in.Epsilon, in.BoatHeadingSpeed} {
				fmt.Fprintf(w, "(input)\t%g\t%g\t%g\t%g\t%s\n", s.Value, s.Min, s.Max, s.Step, s.Name)
			}
			return w.Flush()
		},
	}
}

func presetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list the available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTWS\tTWA\tDURATION\tBOAT\tSCHEDULE")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%g\t%gs\t%s\t%d\n", name, p.Disturbance.TWS, p.Disturbance.TWAMg, p.Duration, p.BoatModel, len(p.Schedule))
			}
			if viper.GetBool("verbose") {
				fmt.Fprintln(w, "\nuse --preset NAME with run, live, sweep or tune")
			}
			return w.Flush()
		},
	}
}
