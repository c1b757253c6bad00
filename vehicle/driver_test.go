package vehicle

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/golangdaddy/highway/road"
)

// newTestDriver attaches an autonomous driver to the road with a fixed
// desired velocity of 20 and a zeroed lane-change timer.
func newTestDriver(r *road.Road, rng *rand.Rand, p orb.Point, velocity float64) *Driver {
	v := New(r, DefaultConfig(), p, 0, velocity, rng)
	d := NewDriver(NewController(v, DefaultControlConfig()), DefaultIDMConfig(), rng)
	d.targetVelocity = 20
	d.timer = 0
	r.Attach(d)
	return d
}

// attachVehicle adds a passive fleet member at the given position.
func attachVehicle(r *road.Road, rng *rand.Rand, p orb.Point, velocity float64) *Vehicle {
	v := New(r, DefaultConfig(), p, 0, velocity, rng)
	r.Attach(v)
	return v
}

func TestIDMAcceleration(t *testing.T) {
	t.Parallel()
	cfg := DefaultIDMConfig()

	t.Run("nil ego yields zero", func(t *testing.T) {
		t.Parallel()
		r, _ := newTestRig(2)
		assert.Zero(t, cfg.Acceleration(r.LaneAt(0), nil, nil))
	})

	t.Run("free road", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(2)
		d := newTestDriver(r, rng, orb.Point{0, 0}, 10)
		// AccMax * (1 - (10/20)^4)
		assert.InDelta(t, 3*(1-0.0625), cfg.Acceleration(r.LaneAt(0), d, nil), 1e-9)
	})

	t.Run("at the desired velocity behind a matched leader", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(2)
		ego := newTestDriver(r, rng, orb.Point{0, 0}, 20)
		front := attachVehicle(r, rng, orb.Point{50, 0}, 20)

		// Net gap 45 m, desired gap 5 + 20*1 = 25 m.
		want := -3 * math.Pow(25.0/45.0, 2)
		assert.InDelta(t, want, cfg.Acceleration(r.LaneAt(0), ego, front), 1e-9)
	})
}

func TestMaximumVelocity(t *testing.T) {
	t.Parallel()
	r, rng := newTestRig(2)
	d := newTestDriver(r, rng, orb.Point{0, 0}, 20)

	assert.InDelta(t, 20, d.MaximumVelocity(nil), 1e-9)

	// 30 m of net braking room behind a 10 m/s leader.
	front := attachVehicle(r, rng, orb.Point{40, 0}, 10)
	assert.InDelta(t, 5*(math.Sqrt(17)-1), d.MaximumVelocity(front), 1e-9)
}

func TestDriverBrakingClamped(t *testing.T) {
	t.Parallel()
	r, rng := newTestRig(2)
	d := newTestDriver(r, rng, orb.Point{0, 0}, 20)
	attachVehicle(r, rng, orb.Point{6, 0}, 0)

	d.Act(IntentNone)
	assert.InDelta(t, -d.idm.BrakeAcc, d.LastAction().Acceleration, 1e-9)
}

func TestDriverIgnoresExternalIntents(t *testing.T) {
	t.Parallel()
	r, rng := newTestRig(3)
	d := newTestDriver(r, rng, orb.Point{0, 4}, 20)

	d.Act(IntentFaster)
	assert.InDelta(t, 20, d.TargetVelocity(), 1e-9)
	d.Act(IntentLaneLeft)
	assert.Equal(t, 1, d.TargetLaneIndex())
}

func TestCrashedDriverIssuesNoCommand(t *testing.T) {
	t.Parallel()
	r, rng := newTestRig(2)
	d := newTestDriver(r, rng, orb.Point{0, 0}, 20)
	crash(r, d.Vehicle)
	require.True(t, d.Crashed())

	before := d.LastAction()
	d.Act(IntentNone)
	assert.Equal(t, before, d.LastAction())
}

func TestMOBIL(t *testing.T) {
	t.Parallel()

	t.Run("rejects a change braking the new follower too hard", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 20)
		// Escaping the slow leader would be a clear gain, but the fast
		// follower in the target lane cannot absorb the cut-in.
		attachVehicle(r, rng, orb.Point{15, 4}, 10)
		attachVehicle(r, rng, orb.Point{-10, 0}, 30)

		assert.False(t, d.mobil(0))
	})

	t.Run("accepts a change escaping a slow leader", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 20)
		attachVehicle(r, rng, orb.Point{15, 4}, 10)

		assert.True(t, d.mobil(0))
	})

	t.Run("rejects a change with nothing to gain", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 20)

		// Both lanes free: identical acceleration, zero gain.
		assert.False(t, d.mobil(0))
	})
}

func TestChangeLanePolicy(t *testing.T) {
	t.Parallel()

	t.Run("gated until the delay elapses", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 20)
		attachVehicle(r, rng, orb.Point{15, 4}, 10)

		d.Act(IntentNone)
		assert.Equal(t, 1, d.TargetLaneIndex())

		d.timer = d.idm.LaneChangeDelay
		d.Act(IntentNone)
		assert.Equal(t, 0, d.TargetLaneIndex())
		assert.Zero(t, d.timer)
	})

	t.Run("left candidate wins when both sides qualify", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 20)
		attachVehicle(r, rng, orb.Point{15, 4}, 10)

		d.timer = d.idm.LaneChangeDelay
		d.changeLanePolicy()
		assert.Equal(t, 0, d.TargetLaneIndex())
	})

	t.Run("timer advances with the dynamics", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 20)

		d.Act(IntentNone)
		d.Step(0.25)
		assert.InDelta(t, 0.25, d.timer, 1e-9)
	})
}

func TestRecoverFromStop(t *testing.T) {
	t.Parallel()

	t.Run("reverses when stuck off the target lane", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 2)
		d.targetLaneIndex = 0

		assert.InDelta(t, -d.idm.AccMax/2, d.recoverFromStop(0.7), 1e-9)
	})

	t.Run("holds the command when a follower is close behind", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 2)
		d.targetLaneIndex = 0
		attachVehicle(r, rng, orb.Point{-10, 4}, 20)

		assert.InDelta(t, 0.7, d.recoverFromStop(0.7), 1e-9)
	})

	t.Run("inactive at speed or on the target lane", func(t *testing.T) {
		t.Parallel()
		r, rng := newTestRig(3)
		d := newTestDriver(r, rng, orb.Point{0, 4}, 20)
		d.targetLaneIndex = 0
		assert.InDelta(t, 0.7, d.recoverFromStop(0.7), 1e-9)

		d = newTestDriver(r, rng, orb.Point{0, 4}, 2)
		assert.InDelta(t, 0.7, d.recoverFromStop(0.7), 1e-9)
	})
}
