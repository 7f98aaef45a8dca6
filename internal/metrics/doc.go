// Package metrics holds run summaries that plug into sim.Simulator via
// AddMetric. Each metric folds one sim.Sample at a time and is reset at the
// start of every run.
package metrics
