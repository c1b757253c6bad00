package vehicle

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(laneY float64) *Controller {
	r, rng := newTestRig(3)
	v := New(r, DefaultConfig(), orb.Point{0, laneY}, 0, 20, rng)
	return NewController(v, DefaultControlConfig())
}

func TestControllerSpeedIntents(t *testing.T) {
	t.Parallel()
	c := newTestController(4)
	require.InDelta(t, 20, c.TargetVelocity(), 1e-9)

	c.Act(IntentFaster)
	assert.InDelta(t, 25, c.TargetVelocity(), 1e-9)

	c.Act(IntentSlower)
	c.Act(IntentSlower)
	// No clamping at this layer.
	assert.InDelta(t, 15, c.TargetVelocity(), 1e-9)
}

func TestControllerLaneIntents(t *testing.T) {
	t.Parallel()

	t.Run("adjacent lane accepted", func(t *testing.T) {
		t.Parallel()
		c := newTestController(4)
		c.Act(IntentLaneLeft)
		assert.Equal(t, 0, c.TargetLaneIndex())
	})

	t.Run("request beyond the road edge is dropped", func(t *testing.T) {
		t.Parallel()
		c := newTestController(0)
		c.Act(IntentLaneLeft)
		assert.Equal(t, 0, c.TargetLaneIndex())

		c = newTestController(8)
		c.Act(IntentLaneRight)
		assert.Equal(t, 2, c.TargetLaneIndex())
	})
}

func TestControllerAlwaysIssuesCommand(t *testing.T) {
	t.Parallel()
	c := newTestController(4)
	c.Act(IntentNone)

	a := c.LastAction()
	// On the lane centre at the target velocity: nothing to correct.
	assert.InDelta(t, 0, a.Steering, 1e-9)
	assert.InDelta(t, 0, a.Acceleration, 1e-9)
}

func TestVelocityControlProportional(t *testing.T) {
	t.Parallel()
	c := newTestController(4)
	c.targetVelocity = 30

	c.Act(IntentNone)
	assert.InDelta(t, c.ctl.KpA()*(30-20), c.LastAction().Acceleration, 1e-9)
}

func TestSteeringClampedToMaxAngle(t *testing.T) {
	t.Parallel()
	r, rng := newTestRig(3)
	// Large lateral offset and a heading error close to π.
	v := New(r, DefaultConfig(), orb.Point{0, 7}, 3, 2, rng)
	c := NewController(v, DefaultControlConfig())
	c.targetLaneIndex = 0

	c.Act(IntentNone)
	assert.LessOrEqual(t, math.Abs(c.LastAction().Steering), math.Pi/4+1e-9)
}

func TestCrashedControllerFreezesTargets(t *testing.T) {
	t.Parallel()
	c := newTestController(4)
	crash(c.Road(), c.Vehicle)
	require.True(t, c.Crashed())

	before := c.LastAction()
	c.Act(IntentFaster)
	c.Act(IntentLaneLeft)

	assert.InDelta(t, 20, c.TargetVelocity(), 1e-9)
	assert.Equal(t, 1, c.TargetLaneIndex())
	assert.Equal(t, before, c.LastAction())
}
