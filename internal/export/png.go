// Package export renders recorded runs to image files.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

var ErrNoData = errors.New("export: no plot data")

const (
	widthIn  = 8.0
	heightIn = 6.0
	dpi      = 150
)

func limitedTicker(maxLabels int, labelFmt string) plot.Ticker {
	if maxLabels < 2 {
		maxLabels = 2
	}
	return plot.TickerFunc(func(min, max float64) []plot.Tick {
		if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
			return nil
		}
		if min == max {
			return []plot.Tick{{Value: min, Label: fmt.Sprintf(labelFmt, min)}}
		}
		step := (max - min) / float64(maxLabels-1)
		ticks := make([]plot.Tick, 0, maxLabels)
		for i := 0; i < maxLabels; i++ {
			v := min + float64(i)*step
			ticks = append(ticks, plot.Tick{Value: v, Label: fmt.Sprintf(labelFmt, v)})
		}
		return ticks
	})
}

func newPlot(title, xlabel, ylabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = ylabel

	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.TextStyle.Font.Size = vg.Points(12)
	p.Y.Label.TextStyle.Font.Size = vg.Points(12)
	p.X.Tick.Marker = limitedTicker(8, "%.2f")
	p.Y.Tick.Marker = limitedTicker(8, "%.2f")
	p.Add(plotter.NewGrid())
	return p
}

func xys(xs, ys []float64) (plotter.XYs, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrNoData, len(xs), len(ys))
	}
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts, nil
}

func savePlotPNG(p *plot.Plot, filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}

	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(widthIn)*vg.Inch, vg.Length(heightIn)*vg.Inch),
		vgimg.UseDPI(dpi),
	)
	p.Draw(draw.New(c))

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot create png: %w", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	pngc := vgimg.PngCanvas{Canvas: c}
	if _, err := pngc.WriteTo(bw); err != nil {
		return fmt.Errorf("cannot write png: %w", err)
	}
	return bw.Flush()
}

// SavePNG draws ys against xs as a single line.
func SavePNG(filename, title, xlabel, ylabel string, xs, ys []float64) error {
	pts, err := xys(xs, ys)
	if err != nil {
		return err
	}

	p := newPlot(title, xlabel, ylabel)
	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	p.Add(line)

	return savePlotPNG(p, filename)
}

// SaveTrackPNG draws the paths of both wing tips as seen from the pivot
// looking downwind: lateral offset against height.
func SaveTrackPNG(filename, title string, left, right []mgl64.Vec3) error {
	if len(left) == 0 || len(left) != len(right) {
		return fmt.Errorf("%w: %d left, %d right points", ErrNoData, len(left), len(right))
	}

	p := newPlot(title, "lateral (m)", "height (m)")
	for i, tip := range [][]mgl64.Vec3{left, right} {
		pts := make(plotter.XYs, len(tip))
		for j, v := range tip {
			pts[j].X = v[1]
			pts[j].Y = -v[2]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = trackColors[i]
		p.Add(line)
		p.Legend.Add([]string{"left", "right"}[i], line)
	}

	return savePlotPNG(p, filename)
}

var trackColors = []color.Color{
	color.RGBA{R: 0xe0, G: 0x40, B: 0x40, A: 0xff},
	color.RGBA{R: 0x40, G: 0x80, B: 0xe0, A: 0xff},
}
