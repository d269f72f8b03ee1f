package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a Braille pixel grid. Its size in pixels is (Width*2) x (Height*4).
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
	}
	c.Clear()
	return c
}

// Set lights the pixel at (x, y). Points off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
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

// Plane maps a square of half-width Extent centred on the origin of the
// velocity plane onto a canvas, y pointing up.
type Plane struct {
	*Canvas
	Extent float64
}

func NewPlane(w, h int, extent float64) *Plane {
	return &Plane{Canvas: NewCanvas(w, h), Extent: extent}
}

func (p *Plane) toPixel(x, y float64) (int, int) {
	pw, ph := float64(p.Width*2-1), float64(p.Height*4-1)
	px := (x/p.Extent + 1) / 2 * pw
	py := (1 - (y/p.Extent+1)/2) * ph
	return int(math.Round(px)), int(math.Round(py))
}

// Axes draws the two coordinate axes through the origin.
func (p *Plane) Axes() {
	w, h := p.Width*2-1, p.Height*4-1
	ox, oy := p.toPixel(0, 0)
	for x := 0; x <= w; x += 2 {
		p.Set(x, oy)
	}
	for y := 0; y <= h; y += 2 {
		p.Set(ox, y)
	}
}

// Arrow draws a vector from the origin with a small head.
func (p *Plane) Arrow(x, y float64) {
	ox, oy := p.toPixel(0, 0)
	tx, ty := p.toPixel(x, y)
	p.DrawLine(ox, oy, tx, ty)

	norm := math.Hypot(x, y)
	if norm == 0 {
		return
	}
	head := 0.08 * p.Extent
	ux, uy := x/norm, y/norm
	for _, side := range []float64{1, -1} {
		hx := x - head*(ux+side*0.5*uy)
		hy := y - head*(uy-side*0.5*ux)
		px, py := p.toPixel(hx, hy)
		p.DrawLine(tx, ty, px, py)
	}
}
