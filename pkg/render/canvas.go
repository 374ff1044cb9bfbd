package render

import (
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"
)

// Canvas is an ntcharts canvas with a depth buffer.
type Canvas struct {
	cv     canvas.Model
	w, h   int
	depth  []float64
	glyphs []rune
}

// NewCanvas returns a cleared canvas of w columns by h rows.
func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize changes the canvas size and clears it.
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.w, c.h = w, h
	c.cv = canvas.New(w, h)
	c.depth = make([]float64, w*h)
	c.glyphs = make([]rune, w*h)
	c.Clear()
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (w, h int) {
	return c.w, c.h
}

// Clear blanks every cell and resets the depth buffer.
func (c *Canvas) Clear() {
	c.cv.Clear()
	for i := range c.depth {
		c.depth[i] = math.Inf(1)
		c.glyphs[i] = ' '
	}
}

// Plot sets a cell if depth z is nearer than what the cell holds.
func (c *Canvas) Plot(x, y int, z float64, r rune, st lipgloss.Style) bool {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return false
	}
	i := y*c.w + x
	if z >= c.depth[i] {
		return false
	}
	c.depth[i] = z
	c.glyphs[i] = r
	c.cv.SetRuneWithStyle(canvas.Point{X: x, Y: y}, r, st)
	return true
}

// Write puts text at a cell position regardless of depth. Text running off the
// right edge is cut.
func (c *Canvas) Write(x, y int, s string, st lipgloss.Style) {
	for _, r := range s {
		if x >= c.w {
			return
		}
		if x >= 0 && y >= 0 && y < c.h {
			i := y*c.w + x
			c.depth[i] = math.Inf(-1)
			c.glyphs[i] = r
			c.cv.SetRuneWithStyle(canvas.Point{X: x, Y: y}, r, st)
		}
		x++
	}
}

// Rune returns the glyph at a cell, or a space outside the canvas.
func (c *Canvas) Rune(x, y int) rune {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return ' '
	}
	return c.glyphs[y*c.w+x]
}

// Filled returns the number of non-blank cells.
func (c *Canvas) Filled() int {
	n := 0
	for _, r := range c.glyphs {
		if r != ' ' {
			n++
		}
	}
	return n
}

// View renders the canvas.
func (c *Canvas) View() string {
	return c.cv.View()
}
