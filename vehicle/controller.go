package vehicle

import (
	"math"

	"github.com/samber/lo"
)

// Intent is a discrete high-level driving action.
type Intent int

const (
	IntentNone Intent = iota
	IntentFaster
	IntentSlower
	IntentLaneLeft
	IntentLaneRight
)

func (i Intent) String() string {
	switch i {
	case IntentFaster:
		return "FASTER"
	case IntentSlower:
		return "SLOWER"
	case IntentLaneLeft:
		return "LANE_LEFT"
	case IntentLaneRight:
		return "LANE_RIGHT"
	}
	return "NONE"
}

// speedStep is the target velocity increment applied per speed intent [m/s].
const speedStep = 5.0

// Controller pilots a kinematic vehicle with two independent low-level loops,
// turning a target lane and a target velocity into steering and acceleration
// commands:
//
//   - the longitudinal loop is a proportional velocity controller;
//   - the lateral loop is a proportional heading controller cascaded with a
//     lateral position controller on the target lane.
type Controller struct {
	*Vehicle
	ctl ControlConfig

	targetLaneIndex int
	targetVelocity  float64
}

// NewController wraps a vehicle, targeting its current lane and velocity.
func NewController(v *Vehicle, ctl ControlConfig) *Controller {
	return &Controller{
		Vehicle:         v,
		ctl:             ctl,
		targetLaneIndex: v.laneIndex,
		targetVelocity:  v.velocity,
	}
}

// TargetLaneIndex returns the lane the controller is steering toward.
func (c *Controller) TargetLaneIndex() int { return c.targetLaneIndex }

// TargetVelocity returns the velocity setpoint of the longitudinal loop.
func (c *Controller) TargetVelocity() float64 { return c.targetVelocity }

// Act resolves a high-level intent into the target setpoints, then always
// issues a fresh command pair to the underlying vehicle. A crashed vehicle
// ignores intents entirely; its setpoints are frozen.
func (c *Controller) Act(intent Intent) {
	if c.crashed {
		return
	}
	switch intent {
	case IntentFaster:
		c.targetVelocity += speedStep
	case IntentSlower:
		c.targetVelocity -= speedStep
	case IntentLaneLeft:
		c.requestLane(c.laneIndex - 1)
	case IntentLaneRight:
		c.requestLane(c.laneIndex + 1)
	}
	c.Apply(Action{
		Steering:     c.steeringControl(c.targetLaneIndex),
		Acceleration: c.velocityControl(c.targetVelocity),
	})
}

// requestLane moves the target lane only when the index is in range and the
// lane is reachable from the current position. An invalid request is dropped
// silently: no error, no state change.
func (c *Controller) requestLane(index int) {
	if index < 0 || index >= c.road.LaneCount() {
		return
	}
	if !c.road.LaneAt(index).IsReachableFrom(c.position) {
		return
	}
	c.targetLaneIndex = index
}

// steeringControl steers the vehicle toward the centre of the target lane.
//
// The heading reference is the lane heading fetched one lateral-plus-steering
// time constant ahead of the current longitudinal position, corrected by an
// arctan term on the lateral offset. The correction decays at very low speed,
// which protects against sign flips around zero velocity.
func (c *Controller) steeringControl(targetLaneIndex int) float64 {
	lane := c.road.LaneAt(targetLaneIndex)
	longitudinal, lateral := lane.LocalCoordinates(c.position)
	ahead := longitudinal + c.velocity*(c.ctl.TauDS+c.cfg.SteeringTau)
	futureHeading := lane.HeadingAt(ahead)

	decay := math.Exp(-math.Pow(c.velocity/c.ctl.SteeringVelGain, 2))
	headingRef := futureHeading - math.Atan(c.ctl.KpS*lateral*sign(c.velocity)*decay)
	steering := c.ctl.KdS() * wrapToPi(headingRef-c.heading) * c.cfg.Length / notZero(c.velocity)
	return lo.Clamp(steering, -c.ctl.MaxSteeringAngle, c.ctl.MaxSteeringAngle)
}

// velocityControl returns the acceleration command of the proportional
// velocity loop.
func (c *Controller) velocityControl(targetVelocity float64) float64 {
	return c.ctl.KpA() * (targetVelocity - c.velocity)
}
