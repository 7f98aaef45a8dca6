package viz

import (
	"math"
	"strings"
)

const blank = 0x2800

// Dot bits of one braille cell, indexed [row][col]:
//
//	1 4
//	2 5
//	3 6
//	7 8
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of braille characters, each holding 2x4 sub-pixels.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// cell finds the braille character holding sub-pixel (x, y) and the bit for
// it. The canvas is Width*2 by Height*4 sub-pixels.
func (c *Canvas) cell(x, y int) (*rune, rune, bool) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return nil, 0, false
	}
	return &c.Grid[y/4][x/2], rune(pixelMap[y%4][x%2]), true
}

// Set turns on sub-pixel (x, y); points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if r, bit, ok := c.cell(x, y); ok {
		*r |= bit
	}
}

func (c *Canvas) Unset(x, y int) {
	if r, bit, ok := c.cell(x, y); ok {
		*r &^= bit
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a Bresenham line between two sub-pixels.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// Dot fills a (2r+1) square of sub-pixels centred on (x, y).
func (c *Canvas) Dot(x, y, r int) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			c.Set(x+dx, y+dy)
		}
	}
}

// Viewport maps a world rectangle onto the canvas sub-pixel grid with a
// uniform scale, so distances keep their aspect ratio.
type Viewport struct {
	MinX, MaxX, MinY, MaxY float64
}

// Map converts world (x, y), y pointing up, to sub-pixel coordinates.
func (v Viewport) Map(c *Canvas, x, y float64) (int, int) {
	cw, ch := float64(c.Width*2), float64(c.Height*4)
	sx := cw / (v.MaxX - v.MinX)
	sy := ch / (v.MaxY - v.MinY)
	scale := math.Min(sx, sy)
	offX := (cw - scale*(v.MaxX-v.MinX)) / 2
	offY := (ch - scale*(v.MaxY-v.MinY)) / 2
	return int(offX + (x-v.MinX)*scale), int(ch - 1 - offY - (y-v.MinY)*scale)
}

// Line draws a world-space segment.
func (v Viewport) Line(c *Canvas, x0, y0, x1, y1 float64) {
	ax, ay := v.Map(c, x0, y0)
	bx, by := v.Map(c, x1, y1)
	c.DrawLine(ax, ay, bx, by)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
