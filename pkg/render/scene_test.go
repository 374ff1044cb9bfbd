package render

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScene(cfg Config) *Scene {
	s := NewScene(NewCanvas(40, 20))
	s.Begin(cfg)
	s.LookAt(mgl64.Vec3{0, 0, 10}, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	return s
}

func runes(c *Canvas) map[rune]int {
	w, h := c.Size()
	out := make(map[rune]int)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r := c.Rune(x, y); r != ' ' {
				out[r]++
			}
		}
	}
	return out
}

func TestScene_LineDirectionGlyphs(t *testing.T) {
	s := newTestScene(Config{})
	s.Line(mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{2, 0, 0}, "7")
	got := runes(s.Canvas())
	require.NotEmpty(t, got)
	assert.Equal(t, s.Canvas().Filled(), got['─'])

	s = newTestScene(Config{})
	s.Line(mgl64.Vec3{0, -2, 0}, mgl64.Vec3{0, 2, 0}, "7")
	got = runes(s.Canvas())
	assert.Equal(t, s.Canvas().Filled(), got['│'])
}

func TestScene_LightModeShades(t *testing.T) {
	s := newTestScene(Config{Light: true})
	s.Line(mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{2, 0, 0}, "7")
	got := runes(s.Canvas())
	require.NotEmpty(t, got)
	for r := range got {
		assert.Contains(t, string(shadeRamp), string(r))
	}
}

func TestScene_LineBehindCamera(t *testing.T) {
	s := newTestScene(Config{})
	s.Line(mgl64.Vec3{-1, 0, 20}, mgl64.Vec3{1, 0, 20}, "7")
	assert.Zero(t, s.Canvas().Filled())

	// crossing the near plane still draws the visible part
	s.Line(mgl64.Vec3{0, 0, 20}, mgl64.Vec3{0, 0, -20}, "7")
	assert.NotZero(t, s.Canvas().Filled())
}

func TestScene_UsesModelStack(t *testing.T) {
	s := newTestScene(Config{})
	x0, y0, _, ok := s.Project(mgl64.Vec3{})
	require.True(t, ok)

	s.Push()
	s.Translate(mgl64.Vec3{0, 0, -1000})
	s.Line(mgl64.Vec3{}, mgl64.Vec3{}, "7")
	s.Pop()
	assert.Equal(t, 0, s.Depth())

	// a point far away projects onto the center cell
	assert.Equal(t, '•', s.Canvas().Rune(int(x0+0.5), int(y0+0.5)))
}

func TestScene_DepthTest(t *testing.T) {
	c := NewCanvas(4, 4)
	st := NewScene(c).style("7")
	assert.True(t, c.Plot(1, 1, 5, 'a', st))
	assert.False(t, c.Plot(1, 1, 6, 'b', st))
	assert.True(t, c.Plot(1, 1, 4, 'c', st))
	assert.Equal(t, 'c', c.Rune(1, 1))
	assert.False(t, c.Plot(9, 9, 1, 'd', st))

	c.Clear()
	assert.Zero(t, c.Filled())
}

func TestScene_BackFacing(t *testing.T) {
	s := newTestScene(Config{Cull: true})
	assert.True(t, s.BackFacing(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}))
	assert.False(t, s.BackFacing(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}))

	s.Begin(Config{})
	assert.False(t, s.BackFacing(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}), "culling is off")
}

func TestScene_Text(t *testing.T) {
	s := newTestScene(Config{})
	s.Line(mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{2, 0, 0}, "7")

	cols, rows := s.Size()
	assert.Equal(t, 40, cols)
	assert.Equal(t, 20, rows)

	s.Text(38, 0, "abc", "7")
	assert.Equal(t, 'a', s.Canvas().Rune(38, 0))
	assert.Equal(t, 'b', s.Canvas().Rune(39, 0))

	// text wins over geometry
	_, y, _, _ := s.Project(mgl64.Vec3{})
	row := int(y + 0.5)
	s.Text(0, row, "hello world, this is a long line", "7")
	assert.Equal(t, 'h', s.Canvas().Rune(0, row))
	assert.NotEmpty(t, s.View())
}
