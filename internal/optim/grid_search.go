package optim

import (
	"context"
	"errors"
	"iter"
	"maps"
	"math"

	"github.com/san-kum/kitesim/internal/experiment"
)

// ErrNoResult means every combination failed to build or run.
var ErrNoResult = errors.New("optim: no combination produced a result")

// Builder turns one grid point into a ready experiment.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

// GridSearch tries every combination of parameter values and keeps the one
// with the best metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	maximize   bool
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Maximize makes larger metric values win. The default is to minimize.
func (g *GridSearch) Maximize() *GridSearch {
	g.maximize = true
	return g
}

// Search runs build for every combination and returns the best parameters
// with their metric value. Combinations that fail to build or stop on a
// degenerate step are skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	if g.maximize {
		best = math.Inf(-1)
	}
	var bestParams map[string]float64

	for point := range g.points() {
		if err := ctx.Err(); err != nil {
			return bestParams, best, err
		}
		val, ok := g.evaluate(ctx, build, point, metricName)
		if ok && g.better(val, best) {
			best, bestParams = val, maps.Clone(point)
		}
	}

	if err := ctx.Err(); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, ErrNoResult
	}
	return bestParams, best, nil
}

func (g *GridSearch) evaluate(ctx context.Context, build Builder, point map[string]float64, metricName string) (float64, bool) {
	exp, err := build(point)
	if err != nil {
		return 0, false
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, false
	}
	val, ok := result.Metrics[metricName]
	return val, ok
}

func (g *GridSearch) better(val, best float64) bool {
	if g.maximize {
		return val > best
	}
	return val < best
}

// points yields every combination, last parameter varying fastest. The map
// is reused between iterations. Any empty or missing range yields nothing.
func (g *GridSearch) points() iter.Seq[map[string]float64] {
	return func(yield func(map[string]float64) bool) {
		if len(g.paramNames) == 0 || len(g.ranges) != len(g.paramNames) {
			return
		}
		for _, r := range g.ranges {
			if len(r) == 0 {
				return
			}
		}

		idx := make([]int, len(g.paramNames))
		point := make(map[string]float64, len(g.paramNames))
		for {
			for i, name := range g.paramNames {
				point[name] = g.ranges[i][idx[i]]
			}
			if !yield(point) {
				return
			}

			d := len(idx) - 1
			for d >= 0 {
				idx[d]++
				if idx[d] < len(g.ranges[d]) {
					break
				}
				idx[d] = 0
				d--
			}
			if d < 0 {
				return
			}
		}
	}
}
