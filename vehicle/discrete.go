package vehicle

import (
	"math"

	"github.com/samber/lo"

	"github.com/golangdaddy/highway/road"
)

// DiscreteAgent restricts a controller to a finite ordered set of allowed
// target velocities addressed by index, so an external decision process can
// drive the vehicle through integer actions instead of an unbounded
// continuous setpoint.
type DiscreteAgent struct {
	*Controller
	speeds SpeedConfig

	velocityIndex int
}

// NewDiscreteAgent wraps a controller, snapping its target velocity to the
// nearest entry of the allowed speed table.
func NewDiscreteAgent(c *Controller, speeds SpeedConfig) *DiscreteAgent {
	a := &DiscreteAgent{Controller: c, speeds: speeds}
	a.velocityIndex = lo.Clamp(speeds.IndexOf(c.targetVelocity), 0, speeds.Count-1)
	c.targetVelocity = speeds.SpeedAt(a.velocityIndex)
	return a
}

// VelocityIndex returns the current index into the allowed speed table.
func (a *DiscreteAgent) VelocityIndex() int { return a.velocityIndex }

// Speeds returns the allowed speed table.
func (a *DiscreteAgent) Speeds() SpeedConfig { return a.speeds }

// Act resolves a high-level intent on the discrete speed table: speed intents
// move the index of the current velocity by one, clamped to the table range,
// and lane intents behave exactly as the controller's. The target velocity is
// re-derived from the index after every action.
func (a *DiscreteAgent) Act(intent Intent) {
	if a.crashed {
		return
	}
	switch intent {
	case IntentFaster:
		a.velocityIndex = a.speeds.IndexOf(a.velocity) + 1
	case IntentSlower:
		a.velocityIndex = a.speeds.IndexOf(a.velocity) - 1
	case IntentLaneLeft:
		a.requestLane(a.laneIndex - 1)
	case IntentLaneRight:
		a.requestLane(a.laneIndex + 1)
	}
	a.velocityIndex = lo.Clamp(a.velocityIndex, 0, a.speeds.Count-1)
	a.targetVelocity = a.speeds.SpeedAt(a.velocityIndex)

	a.Controller.Act(IntentNone)
}

// Clone deep-copies the agent onto the given road.
func (a *DiscreteAgent) Clone(r *road.Road) *DiscreteAgent {
	v := a.Vehicle.Clone(r)
	ctl := *a.Controller
	ctl.Vehicle = v
	c := *a
	c.Controller = &ctl
	return &c
}

// PredictTrajectory rolls out a sequence of high-level intents and returns
// snapshots of the resulting future states.
//
// Each intent is applied once and then held for intentDuration seconds of
// low-level control at timestep dt; a full vehicle-state snapshot is recorded
// every samplePeriod seconds. The rollout runs on an isolated copy over the
// road geometry alone, so it never mutates the live vehicle and never
// interacts with other live vehicles.
func (a *DiscreteAgent) PredictTrajectory(intents []Intent, intentDuration, samplePeriod, dt float64) []*Vehicle {
	var states []*Vehicle
	sim := a.Clone(a.road.Geometry())
	holdTicks := int(math.Round(intentDuration / dt))
	sampleTicks := int(math.Round(samplePeriod / dt))
	tick := 0
	for _, intent := range intents {
		sim.Act(intent)
		for i := 0; i < holdTicks; i++ {
			tick++
			sim.Act(IntentNone)
			sim.Step(dt)
			if tick%sampleTicks == 0 {
				states = append(states, sim.Vehicle.Clone(sim.road))
			}
		}
	}
	return states
}
