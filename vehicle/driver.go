package vehicle

import (
	"math"

	"github.com/samber/lo"
	"golang.org/x/exp/rand"

	"github.com/golangdaddy/highway/road"
)

// Driver pilots a vehicle fully autonomously, with no external action input:
//
//   - longitudinal: the Intelligent Driver Model computes an acceleration from
//     the desired velocity and the gap to the preceding vehicle;
//   - lateral: the MOBIL model decides lane changes by weighing the
//     acceleration gained against the braking imposed on nearby vehicles.
type Driver struct {
	*Controller
	idm IDMConfig

	// timer is the time elapsed since the last lane-change evaluation [s].
	// It starts at a random phase so the fleet's decisions are desynchronised.
	timer float64
}

// NewDriver wraps a controller with the autonomous policy. The desired
// velocity is jittered around the configured value so traffic does not move
// in lockstep.
func NewDriver(c *Controller, idm IDMConfig, rng *rand.Rand) *Driver {
	c.targetVelocity = idm.VelocityWanted + float64(rng.Intn(10)-5)
	return &Driver{
		Controller: c,
		idm:        idm,
		timer:      rng.Float64() * idm.LaneChangeDelay,
	}
}

// Acceleration computes the IDM command for ego with respect to the vehicle
// ahead of it, with gaps measured along the given lane.
//
// A nil ego yields zero. A nil front vehicle yields the free-road term alone,
// AccMax·(1−(v/v_target)^Delta); with a front vehicle, a braking term
// AccMax·(d*/d)² is subtracted, where d is the net bumper-to-bumper gap and
// d* the desired dynamic gap.
func (cfg IDMConfig) Acceleration(l road.Lane, ego, front road.Traffic) float64 {
	if ego == nil {
		return 0
	}
	acc := cfg.AccMax * (1 - math.Pow(ego.Velocity()/notZero(ego.TargetVelocity()), cfg.Delta))
	if front != nil {
		sEgo, _ := l.LocalCoordinates(ego.Position())
		sFront, _ := l.LocalCoordinates(front.Position())
		gap := sFront - sEgo - ego.Length()/2 - front.Length()/2
		dv := ego.Velocity() - front.Velocity()
		desired := cfg.DistanceWanted + ego.Velocity()*cfg.TimeWanted +
			ego.Velocity()*dv/(2*math.Sqrt(cfg.AccMax*cfg.BrakeAcc))
		acc -= cfg.AccMax * math.Pow(desired/notZero(gap), 2)
	}
	return acc
}

// MaximumVelocity returns the highest speed from which the vehicle can still
// brake to a stop behind the front vehicle, with both vehicles braking at
// BrakeAcc after one reaction time and the jam distance kept. With no front
// vehicle there is nothing to cap and the current setpoint is returned.
func (d *Driver) MaximumVelocity(front road.Traffic) float64 {
	if front == nil {
		return d.targetVelocity
	}
	a := d.idm.BrakeAcc
	tau := d.idm.TimeWanted
	room := math.Max(d.LaneDistanceTo(front)-d.cfg.Length/2-front.Length()/2-d.idm.DistanceWanted, 0)
	delta := 4*math.Pow(a*a*tau, 2) + 8*a*a*a*room + 4*a*a*front.Velocity()*front.Velocity()
	return -a*tau + math.Sqrt(delta)/(2*a)
}

// Act computes the driver's own commands; any externally supplied intent is
// ignored. The final acceleration is clamped to [-BrakeAcc, AccMax] before it
// is issued.
func (d *Driver) Act(Intent) {
	if d.crashed {
		return
	}
	front, _ := d.road.Neighbours(d, d.laneIndex)

	d.changeLanePolicy()
	steering := d.steeringControl(d.targetLaneIndex)

	acc := d.idm.Acceleration(d.lane, d, front)
	acc = d.recoverFromStop(acc)
	acc = lo.Clamp(acc, -d.idm.BrakeAcc, d.idm.AccMax)

	d.Apply(Action{Steering: steering, Acceleration: acc})
}

// Step advances the lane-change timer along with the vehicle dynamics.
func (d *Driver) Step(dt float64) {
	d.timer += dt
	d.Vehicle.Step(dt)
}

// changeLanePolicy runs one MOBIL evaluation once the gating delay has
// accumulated, then resets the timer. The two adjacent lanes are tried in
// ascending index order and the first accepted candidate becomes the target,
// so at most one target-lane update happens per evaluation.
func (d *Driver) changeLanePolicy() {
	if d.timer < d.idm.LaneChangeDelay {
		return
	}
	d.timer = 0

	current := d.road.LaneIndexAt(d.position)
	last := d.road.LaneCount() - 1
	for _, index := range []int{lo.Clamp(current-1, 0, last), lo.Clamp(current+1, 0, last)} {
		if index == d.targetLaneIndex {
			continue
		}
		if d.mobil(index) {
			d.targetLaneIndex = index
			return
		}
	}
}

// mobil decides whether changing to the given lane is worthwhile:
// the lane must be reachable, the braking imposed on the new follower must
// stay within the safety limit, and the politeness-weighted jerk metric over
// ego and both followers must clear the minimum gain.
func (d *Driver) mobil(laneIndex int) bool {
	lane := d.road.LaneAt(laneIndex)
	if !lane.IsReachableFrom(d.position) {
		return false
	}

	// Would the maneuver force the new follower to brake too hard?
	newPreceding, newFollowing := d.road.Neighbours(d, laneIndex)
	newFollowingAcc := d.idm.Acceleration(lane, newFollowing, newPreceding)
	newFollowingPredAcc := d.idm.Acceleration(lane, newFollowing, d)
	if newFollowingPredAcc < -d.idm.LaneChangeMaxBrakingImposed {
		return false
	}

	// Is there enough advantage for ego and/or the followers?
	oldPreceding, oldFollowing := d.road.Neighbours(d, d.laneIndex)
	selfAcc := d.idm.Acceleration(d.lane, d, oldPreceding)
	selfPredAcc := d.idm.Acceleration(lane, d, newPreceding)
	oldFollowingAcc := d.idm.Acceleration(d.lane, oldFollowing, d)
	oldFollowingPredAcc := d.idm.Acceleration(d.lane, oldFollowing, oldPreceding)
	jerk := selfPredAcc - selfAcc + d.idm.Politeness*(newFollowingPredAcc-newFollowingAcc+
		oldFollowingPredAcc-oldFollowingAcc)
	return jerk >= d.idm.LaneChangeMinAccGain
}

// recoverFromStop frees a vehicle stuck off its target lane at near-zero
// speed: when both the current and target lanes have at least three vehicle
// lengths clear behind, the IDM command is overridden with a moderate reverse
// acceleration.
func (d *Driver) recoverFromStop(acceleration float64) float64 {
	if d.targetLaneIndex == d.laneIndex || d.velocity >= 5 {
		return acceleration
	}
	_, following := d.road.Neighbours(d, d.laneIndex)
	_, newFollowing := d.road.Neighbours(d, d.targetLaneIndex)
	clearBehind := func(t road.Traffic) bool {
		return t == nil || -d.LaneDistanceTo(t) > 3*d.cfg.Length
	}
	if clearBehind(following) && clearBehind(newFollowing) {
		return -d.idm.AccMax / 2
	}
	return acceleration
}
