package analysis

import (
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Point is one (x, y) sample.
type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot.
type PhasePortrait2D struct {
	XLabel, YLabel string
	Points         []Point
}

// PhasePortrait pairs xs with ys. The shorter slice sets the length.
func PhasePortrait(xLabel string, xs []float64, yLabel string, ys []float64) *PhasePortrait2D {
	n := min(len(xs), len(ys))
	portrait := &PhasePortrait2D{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]Point, n),
	}
	for i := 0; i < n; i++ {
		portrait.Points[i] = Point{X: xs[i], Y: ys[i]}
	}
	return portrait
}

// PhasePortraitToASCII scatters the portrait on a width x height character
// grid with 10% margins, drawing the zero axes where they are in view.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	g := newGrid(portrait.Points, width, height)

	if col, ok := g.col(0); ok {
		for row := range g.cells {
			g.mark(row, col, '│')
		}
	}
	if row, ok := g.row(0); ok {
		for col := 0; col < width; col++ {
			g.mark(row, col, '─')
		}
	}
	for _, p := range portrait.Points {
		col, okX := g.col(p.X)
		row, okY := g.row(p.Y)
		if okX && okY {
			g.cells[row][col] = '•'
		}
	}
	return g.String()
}

// grid maps a padded bounding box of points onto character cells, y up.
type grid struct {
	cells        [][]rune
	x0, y0       float64
	xSpan, ySpan float64
}

func newGrid(points []Point, width, height int) *grid {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i] = p.X, p.Y
	}
	x0, xSpan := padded(floats.Min(xs), floats.Max(xs))
	y0, ySpan := padded(floats.Min(ys), floats.Max(ys))

	g := &grid{cells: make([][]rune, height), x0: x0, y0: y0, xSpan: xSpan, ySpan: ySpan}
	for i := range g.cells {
		g.cells[i] = []rune(strings.Repeat(" ", width))
	}
	return g
}

// padded widens [lo, hi] by 10% on each side; a flat range becomes one unit.
func padded(lo, hi float64) (start, span float64) {
	span = hi - lo
	if span == 0 {
		span = 1
	}
	return lo - 0.1*span, 1.2 * span
}

func (g *grid) col(x float64) (int, bool) {
	w := len(g.cells[0])
	c := int((x - g.x0) / g.xSpan * float64(w-1))
	return c, c >= 0 && c < w
}

func (g *grid) row(y float64) (int, bool) {
	h := len(g.cells)
	r := h - 1 - int((y-g.y0)/g.ySpan*float64(h-1))
	return r, r >= 0 && r < h
}

// mark draws r only on empty cells.
func (g *grid) mark(row, col int, r rune) {
	if col >= 0 && col < len(g.cells[row]) && g.cells[row][col] == ' ' {
		g.cells[row][col] = r
	}
}

func (g *grid) String() string {
	var sb strings.Builder
	for _, row := range g.cells {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// PoincareSection records points where a trajectory crosses a level.
type PoincareSection struct {
	Points []Point
}

// NewPoincareSection records (xs[i], ys[i]) at every upward crossing of
// threshold by cross, interpolated between the two bracketing samples.
func NewPoincareSection(cross []float64, threshold float64, xs, ys []float64) *PoincareSection {
	section := &PoincareSection{Points: make([]Point, 0)}

	n := min(len(cross), len(xs), len(ys))
	for i := 1; i < n; i++ {
		prev, curr := cross[i-1], cross[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			section.Points = append(section.Points, Point{
				X: xs[i-1] + frac*(xs[i]-xs[i-1]),
				Y: ys[i-1] + frac*(ys[i]-ys[i-1]),
			})
		}
	}
	return section
}

func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return PhasePortraitToASCII(&PhasePortrait2D{Points: section.Points}, width, height)
}
