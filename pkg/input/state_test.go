package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_PressIsVisibleAfterTick(t *testing.T) {
	s := NewState()
	s.Press("a")
	assert.False(t, s.Down("a"))

	s.Tick()
	assert.True(t, s.Down("a"))
	assert.True(t, s.Pressed("a"))

	s.Tick()
	assert.True(t, s.Down("a"))
	assert.False(t, s.Pressed("a"), "pressed only on the first tick")
}

func TestState_HoldExpiry(t *testing.T) {
	s := NewState()
	s.HoldTicks = 3
	s.Press("a")

	for i := 0; i < 3; i++ {
		s.Tick()
		assert.True(t, s.Down("a"), "tick %d", i)
	}
	s.Tick()
	assert.False(t, s.Down("a"))
}

func TestState_AutoRepeatKeepsKeyDown(t *testing.T) {
	s := NewState()
	s.HoldTicks = 2
	s.Press("a")
	s.Tick()

	for i := 0; i < 10; i++ {
		s.Press("a")
		s.Tick()
		assert.True(t, s.Down("a"))
		assert.False(t, s.Pressed("a"), "repeat is not a new press")
	}
}

func TestState_PressAgainAfterRelease(t *testing.T) {
	s := NewState()
	s.Press(F1)
	s.Tick()
	s.Release(F1)
	s.Tick()
	assert.False(t, s.Down(F1))

	s.Press(F1)
	s.Tick()
	assert.True(t, s.Pressed(F1))
}

func TestState_DragAndWheelLastOneTick(t *testing.T) {
	s := NewState()
	s.Move(2, -1)
	s.Move(1, 0)
	s.Scroll(1)
	s.Scroll(1)

	s.Tick()
	dx, dy := s.Drag()
	assert.Equal(t, 3, dx)
	assert.Equal(t, -1, dy)
	assert.Equal(t, 2, s.Wheel())

	s.Tick()
	dx, dy = s.Drag()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
	assert.Zero(t, s.Wheel())
}

func TestStatic(t *testing.T) {
	var k Keys = Static{"w": true}
	assert.True(t, k.Down("w"))
	assert.True(t, k.Pressed("w"))
	assert.False(t, k.Down("s"))
	assert.False(t, None.Down("w"))
}
