// Package render draws line geometry through a model-matrix stack onto a terminal canvas.
package render

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transformer is the part of a painter that moves the current model frame.
type Transformer interface {
	Push()
	Pop()
	Rotate(degrees float64, axis mgl64.Vec3)
	Translate(v mgl64.Vec3)
}

// Stack is a model-matrix stack in the manner of fixed-function GL.
// The top matrix maps local coordinates to world coordinates.
type Stack struct {
	mats []mgl64.Mat4
}

// NewStack returns a stack holding a single identity matrix.
func NewStack() *Stack {
	return &Stack{mats: []mgl64.Mat4{mgl64.Ident4()}}
}

// Top returns the current model matrix.
func (s *Stack) Top() mgl64.Mat4 {
	return s.mats[len(s.mats)-1]
}

// Depth returns the number of pushed frames above the base matrix.
func (s *Stack) Depth() int {
	return len(s.mats) - 1
}

// LoadIdentity drops every pushed frame and resets the base matrix.
func (s *Stack) LoadIdentity() {
	s.mats = s.mats[:1]
	s.mats[0] = mgl64.Ident4()
}

// Push duplicates the current matrix.
func (s *Stack) Push() {
	s.mats = append(s.mats, s.Top())
}

// Pop discards the current matrix. Popping the base matrix is a pairing bug and panics.
func (s *Stack) Pop() {
	if len(s.mats) == 1 {
		panic("render: matrix stack underflow")
	}
	s.mats = s.mats[:len(s.mats)-1]
}

// Mul post-multiplies the current matrix.
func (s *Stack) Mul(m mgl64.Mat4) {
	i := len(s.mats) - 1
	s.mats[i] = s.mats[i].Mul4(m)
}

// Rotate rotates the current frame by degrees about a local axis.
func (s *Stack) Rotate(degrees float64, axis mgl64.Vec3) {
	s.Mul(mgl64.HomogRotate3D(mgl64.DegToRad(degrees), axis.Normalize()))
}

// Translate moves the current frame origin by a local offset.
func (s *Stack) Translate(v mgl64.Vec3) {
	s.Mul(mgl64.Translate3D(v[0], v[1], v[2]))
}

// Scale scales the current frame.
func (s *Stack) Scale(x, y, z float64) {
	s.Mul(mgl64.Scale3D(x, y, z))
}

// Apply maps a local point to world coordinates.
func (s *Stack) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, s.Top())
}

// ApplyNormal maps a local direction to world coordinates, ignoring translation.
func (s *Stack) ApplyNormal(n mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformNormal(n, s.Top())
}
