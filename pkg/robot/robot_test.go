package robot

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gwillem/armsim/pkg/input"
	"github.com/gwillem/armsim/pkg/render"
)

func newTestRobot(t *testing.T, seed uint64) *Robot {
	t.Helper()
	return Default(
		WithRand(rand.New(rand.NewPCG(seed, seed+1))),
		WithLogger(zaptest.NewLogger(t).Sugar()),
	)
}

func TestRobot_DrawUnwindsEveryAdjustment(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		r := newTestRobot(t, seed)
		r.SetArbitraryAxesConfiguration()
		r.ToggleDrawTCPCoordSystem()

		p := newRecordingPainter()
		r.Draw(p)

		assert.Equal(t, p.forward, p.inverse, "forward and inverse adjustments pair up")
		assert.Empty(t, p.open, "adjustments nest LIFO")
		assert.GreaterOrEqual(t, p.maxOpen, len(r.Axes()), "axis frames nest base to tool")
		assert.Zero(t, p.Depth())
		assertNearMat4(t, mgl64.Ident4(), p.Top(), "model matrix restored")
		assert.Positive(t, p.lines)

		// a second frame starts from the same place
		p.lines = 0
		r.Draw(p)
		assertNearMat4(t, mgl64.Ident4(), p.Top())
	}
}

func TestRobot_TCPFrameMatchesTransform(t *testing.T) {
	r := newTestRobot(t, 3)
	r.SetArbitraryAxesConfiguration()
	r.ToggleDrawTCPCoordSystem()

	p := newRecordingPainter()
	r.Draw(p)

	origins := p.colored[render.ColorX]
	require.Len(t, origins, 1)
	want := r.TCPTransform().Col(3).Vec3()
	assertNearVec3(t, want, origins[0])
}

func TestRobot_TCPFrameHidden(t *testing.T) {
	r := newTestRobot(t, 3)
	p := newRecordingPainter()
	r.Draw(p)
	assert.Empty(t, p.colored[render.ColorX])
}

func TestRobot_TCPTransformAtRest(t *testing.T) {
	cfg := Config{
		TCPOffset: Vec{0, 1, 0},
		Axes: []AxisConfig{
			{Name: "a", FullRange: true, Offset: Vec{0, 2, 0}},
			{Name: "b", Direction: "tilt", Min: -90, Max: 90, Offset: Vec{0, 3, 0}},
		},
	}
	r, err := New(cfg)
	require.NoError(t, err)
	assertNearVec3(t, mgl64.Vec3{0, 6, 0}, r.TCPTransform().Col(3).Vec3())

	// tilting b by 90 degrees about Z swings the last unit toward -X
	require.NoError(t, r.ApproachTo([]float64{0, 90}))
	for i := 0; i < 100 && r.Approaching(); i++ {
		r.Update(input.None)
	}
	assertNearVec3(t, mgl64.Vec3{-1, 5, 0}, r.TCPTransform().Col(3).Vec3())
}

func TestRobot_UpdateDispatchesKeys(t *testing.T) {
	r := newTestRobot(t, 1)
	r.Update(input.Static{"w": true})

	for _, a := range r.Axes() {
		if a.Name == "shoulder" {
			assert.Positive(t, a.Orientation.Velocity())
		} else {
			assert.Zero(t, a.Orientation.Velocity(), a.Name)
		}
	}
}

func TestRobot_ApproachCompletes(t *testing.T) {
	r := newTestRobot(t, 5)
	targets := []float64{180, 90, -120, 270}
	require.NoError(t, r.ApproachTo(targets))
	require.True(t, r.Approaching())

	// the longest way is the turret's half turn
	maxTicks := int(math.Ceil(180/DefaultMaxVelocity)) + 1
	ticks := 0
	for r.Approaching() && ticks < maxTicks {
		r.Update(input.None)
		ticks++
	}

	require.False(t, r.Approaching(), "approach still running after %d ticks", ticks)
	assert.Equal(t, 1, r.CompletedApproaches())
	assert.Nil(t, r.Targets())
	for i, a := range r.Axes() {
		want := a.Orientation.Legal(targets[i])
		assert.InDelta(t, want, a.Orientation.Angle(), ApproachEpsilon, a.Name)
	}
}

func TestRobot_InfiniteApproachRestarts(t *testing.T) {
	r := newTestRobot(t, 9)
	targets := []float64{10, 10, 10, 10}
	require.NoError(t, r.ApproachTo(targets))
	r.ToggleInfiniteArbitraryAxisConfigurationApproachMode()
	require.True(t, r.InfiniteApproachMode())
	assert.Equal(t, targets, r.Targets(), "toggling on while approaching keeps the running approach")

	for i := 0; i < 100 && r.CompletedApproaches() == 0; i++ {
		r.Update(input.None)
	}
	require.Equal(t, 1, r.CompletedApproaches())
	assert.True(t, r.Approaching(), "a new approach follows immediately")
	assert.NotEqual(t, targets, r.Targets())

	r.ToggleInfiniteArbitraryAxisConfigurationApproachMode()
	for i := 0; i < 500 && r.Approaching(); i++ {
		r.Update(input.None)
	}
	assert.False(t, r.Approaching(), "switching infinite mode off lets the approach end")
	assert.Equal(t, 2, r.CompletedApproaches())
}

func TestRobot_InfiniteToggleStartsApproach(t *testing.T) {
	r := newTestRobot(t, 2)
	r.ToggleInfiniteArbitraryAxisConfigurationApproachMode()
	assert.True(t, r.Approaching())
	assert.Len(t, r.Targets(), len(r.Axes()))
}

func TestRobot_ApproachRequestWhileApproachingIsIgnored(t *testing.T) {
	r := newTestRobot(t, 4)
	r.InitializeArbitraryAxisConfigurationApproach()
	require.True(t, r.Approaching())
	first := r.Targets()

	r.InitializeArbitraryAxisConfigurationApproach()
	assert.Equal(t, first, r.Targets())
	assert.ErrorIs(t, r.ApproachTo(first), ErrApproachInProgress)
}

func TestRobot_ApproachTargetsRespectLimits(t *testing.T) {
	r := newTestRobot(t, 11)
	for i := 0; i < 200; i++ {
		r.Reset()
		r.InitializeArbitraryAxisConfigurationApproach()
		for j, a := range r.Axes() {
			d := a.Orientation
			target := r.Targets()[j]
			if d.FullRange() {
				assert.True(t, target >= 0 && target < 360)
			} else {
				assert.True(t, d.Limits().Contains(target))
			}
		}
	}
}

func TestRobot_ApproachToRejectsBadTargets(t *testing.T) {
	r := newTestRobot(t, 1)
	assert.Error(t, r.ApproachTo([]float64{0}))
	assert.Error(t, r.ApproachTo([]float64{0, 500, 0, 0}))
	assert.Error(t, r.ApproachTo([]float64{0, math.NaN(), 0, 0}))
	assert.False(t, r.Approaching())
}

func TestRobot_Reset(t *testing.T) {
	r := newTestRobot(t, 6)
	starts := r.Angles()

	r.SetArbitraryAxesConfiguration()
	r.Update(input.Static{"a": true, "w": true})
	r.InitializeArbitraryAxisConfigurationApproach()
	r.Reset()

	assert.Equal(t, starts, r.Angles())
	assert.False(t, r.Approaching())
	for _, a := range r.Axes() {
		assert.Zero(t, a.Orientation.Velocity())
	}
}

func TestRobot_SetArbitraryAxesConfiguration(t *testing.T) {
	r := newTestRobot(t, 8)
	for i := 0; i < 100; i++ {
		r.SetArbitraryAxesConfiguration()
		for _, a := range r.Axes() {
			d := a.Orientation
			if d.FullRange() {
				assert.True(t, d.Angle() >= 0 && d.Angle() < 360)
			} else {
				assert.True(t, d.Limits().Contains(d.Angle()))
			}
		}
	}
}

func TestRobot_TogglesOnlyFlipFlags(t *testing.T) {
	r := newTestRobot(t, 12)
	r.SetArbitraryAxesConfiguration()

	type snapshot struct {
		angles      []float64
		approaching bool
		infinite    bool
		tcp         bool
		states      bool
	}
	snap := func() snapshot {
		return snapshot{r.Angles(), r.Approaching(), r.InfiniteApproachMode(), r.DrawTCPCoordSystem(), r.DisplayAxesStates()}
	}

	before := snap()
	r.ToggleDrawTCPCoordSystem()
	after := snap()
	assert.NotEqual(t, before.tcp, after.tcp)
	after.tcp = before.tcp
	assert.Equal(t, before, after)

	before = snap()
	r.ToggleDisplayAxesStates()
	after = snap()
	assert.NotEqual(t, before.states, after.states)
	assert.True(t, r.TextToBeDisplayed())
	after.states = before.states
	assert.Equal(t, before, after)
}

type recordingOverlay struct {
	lines map[int]string
}

func (o *recordingOverlay) Text(_, row int, s string, _ render.Color) { o.lines[row] = s }
func (o *recordingOverlay) Size() (int, int)                          { return 80, 24 }

func TestRobot_DisplayText(t *testing.T) {
	r := newTestRobot(t, 1)
	r.ToggleDisplayAxesStates()
	require.NoError(t, r.ApproachTo([]float64{0, 100, 0, 0}))
	for i := 0; i < 40; i++ {
		r.Update(input.None)
	}

	o := &recordingOverlay{lines: make(map[int]string)}
	r.DisplayText(o)

	require.Len(t, o.lines, len(r.Axes())+1)
	assert.Contains(t, o.lines[1], "turret")
	assert.Contains(t, o.lines[1], "full range")
	assert.Contains(t, o.lines[2], "shoulder")
	assert.Contains(t, o.lines[2], "LIMIT")
	assert.Contains(t, o.lines[len(r.Axes())+1], "approach: idle, 1 done")
}
