package robot

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"github.com/gwillem/armsim/pkg/render"
)

type rotation struct {
	degrees float64
	axis    mgl64.Vec3
}

// recordingPainter tracks transforms on a real stack and pairs every rotation with
// its exact inverse in LIFO order. Angles must be non-zero for the pairing to be exact.
type recordingPainter struct {
	*render.Stack
	cfg render.Config

	open    []rotation
	forward int
	inverse int
	maxOpen int
	lines   int
	colored map[render.Color][]mgl64.Vec3
}

func newRecordingPainter() *recordingPainter {
	return &recordingPainter{
		Stack:   render.NewStack(),
		colored: make(map[render.Color][]mgl64.Vec3),
	}
}

func (p *recordingPainter) Rotate(degrees float64, axis mgl64.Vec3) {
	if n := len(p.open); n > 0 && p.open[n-1].axis == axis && p.open[n-1].degrees == -degrees {
		p.open = p.open[:n-1]
		p.inverse++
	} else {
		p.open = append(p.open, rotation{degrees, axis})
		p.forward++
	}
	p.maxOpen = max(p.maxOpen, len(p.open))
	p.Stack.Rotate(degrees, axis)
}

func (p *recordingPainter) Line(a, b mgl64.Vec3, c render.Color) {
	p.lines++
	p.colored[c] = append(p.colored[c], p.Apply(a))
}

func (p *recordingPainter) BackFacing(_, _ mgl64.Vec3) bool { return false }

func (p *recordingPainter) Config() render.Config { return p.cfg }

func assertNearMat4(t *testing.T, want, got mgl64.Mat4, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDeltaSlice(t, want[:], got[:], 1e-9, msgAndArgs...)
}

func assertNearVec3(t *testing.T, want, got mgl64.Vec3, msgAndArgs ...any) bool {
	t.Helper()
	return assert.InDeltaSlice(t, want[:], got[:], 1e-9, msgAndArgs...)
}
