// Package analysis summarizes recorded kite runs.
//
//   - [Summarize]: min, max, mean and standard deviation of a column
//   - [DominantFrequency]: strongest periodic component, e.g. the
//     figure-of-eight period seen in phi
//   - [PhasePortrait]: any two columns against each other, plotted as text
//   - [PoincareSection]: samples taken where one column crosses a level
//
// All functions work on plain []float64 columns, as returned by
// sim.Result.Column or storage.Series.Column.
package analysis
