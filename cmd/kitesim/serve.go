package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/kitesim/internal/control"
	"github.com/san-kum/kitesim/internal/kite"
	"github.com/san-kum/kitesim/internal/sim"
	"github.com/san-kum/kitesim/internal/telemetry"
)

var errServerClosed = http.ErrServerClosed

// newTelemetryServer builds an HTTP server exposing /metrics on a private
// registry. routes, when set, adds further handlers that may read the
// collector. Every route is counted by the HTTP middleware.
func newTelemetryServer(addr string, routes func(mux *http.ServeMux, c *telemetry.Collector)) (*http.Server, *telemetry.Collector, error) {
	reg := prometheus.NewRegistry()
	collector, err := telemetry.NewCollector(reg)
	if err != nil {
		return nil, nil, err
	}
	httpMetrics, err := telemetry.NewHTTPMetrics(reg)
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", telemetry.Handler(reg))
	if routes != nil {
		routes(mux, collector)
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           httpMetrics.Middleware(mux),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv, collector, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the simulation in real time behind an HTTP API",
		Long: `serve steps the simulation at wall-clock pace and exposes:

  GET /metrics   Prometheus metrics
  GET /state     the latest sample as JSON
  PUT /command   set delta, epsilon and boat_heading_speed`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	addRunFlags(cmd)
	cmd.Flags().String("addr", ":9090", "listen address")
	cmd.Flags().Float64("speed", 1, "simulated seconds per wall-clock second")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr, _ := cmd.Flags().GetString("addr")
	speed, _ := cmd.Flags().GetFloat64("speed")
	if speed <= 0 {
		speed = 1
	}

	model, err := cfg.Model()
	if err != nil {
		return err
	}
	manual := control.NewManual()
	manual.Set(cfg.Controls)

	srv, collector, err := newTelemetryServer(addr, func(mux *http.ServeMux, c *telemetry.Collector) {
		mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, c.Last())
		})
		mux.HandleFunc("PUT /command", func(w http.ResponseWriter, r *http.Request) {
			var u kite.Command
			if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
				return
			}
			manual.Set(u)
			writeJSON(w, http.StatusOK, u)
		})
	})
	if err != nil {
		return err
	}

	s := sim.New(model, manual, logger)
	s.AddObserver(collector)

	ctx, cancel := signalContext()
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("serving", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, errServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Duration(cfg.Dt / speed * float64(time.Second)))
		defer ticker.Stop()

		err := s.RunWithCallback(ctx, cfg.InitialState(), cfg.Input(), cfg.SimConfig(), func(sim.Sample) bool {
			select {
			case <-ctx.Done():
				return false
			case <-ticker.C:
				return true
			}
		})
		switch {
		case errors.Is(err, kite.ErrDegenerateState):
			logger.Warn("simulation stopped", zap.Error(err))
		case err != nil && !errors.Is(err, context.Canceled):
			return err
		default:
			logger.Info("simulation finished", zap.Float64("t", collector.Last().Time))
		}
		// Keep serving the final state until interrupted.
		return nil
	})

	return g.Wait()
}
