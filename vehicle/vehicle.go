// Package vehicle implements the per-vehicle dynamics and control stack:
// a kinematic bicycle model, a cascaded steering/velocity controller driven
// by discrete high-level intents, a discretized-speed agent for integer
// action interfaces, and an autonomous IDM+MOBIL driving policy.
package vehicle

import (
	"fmt"
	"image/color"
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/golangdaddy/highway/road"
)

// Action is the low-level command pair consumed by the kinematic model.
// Neither field is validated for range when stored.
type Action struct {
	Steering     float64 // steering wheel angle command [rad]
	Acceleration float64 // [m/s²]
}

// Status colours exposed for rendering.
var (
	ColorDefault  = color.RGBA{200, 200, 0, 255}   // yellow: plain vehicle
	ColorAgent    = color.RGBA{100, 200, 255, 255} // blue: autonomous traffic
	ColorEgo      = color.RGBA{50, 200, 0, 255}    // green: player/agent vehicle
	ColorCrashed  = color.RGBA{255, 100, 100, 255} // red
	ColorObstacle = color.RGBA{0, 0, 0, 255}       // black
)

// Vehicle is one physical traffic participant on a road.
//
// Its state is propagated with a modified bicycle model: heading changes with
// velocity and a single effective steering angle, and the steering angle
// itself follows the commanded value with a first-order lag modelling finite
// actuator bandwidth.
type Vehicle struct {
	id   uuid.UUID
	cfg  Config
	road *road.Road

	position      orb.Point
	heading       float64 // orientation [rad], unconstrained range
	velocity      float64 // signed speed along heading [m/s]
	steeringAngle float64 // lagged wheel angle, driven toward the commanded value

	laneIndex int
	lane      road.Lane

	action  Action
	crashed bool
	color   color.RGBA

	rng  *rand.Rand
	beta distuv.Beta // shapes the erratic post-crash commands
}

// New creates a vehicle on the given road. The rng is the vehicle's only
// source of randomness, so runs with the same seed replay identically.
func New(r *road.Road, cfg Config, position orb.Point, heading, velocity float64, rng *rand.Rand) *Vehicle {
	laneIndex := r.LaneIndexAt(position)
	return &Vehicle{
		id:        uuid.New(),
		cfg:       cfg,
		road:      r,
		position:  position,
		heading:   heading,
		velocity:  velocity,
		laneIndex: laneIndex,
		lane:      r.LaneAt(laneIndex),
		color:     ColorDefault,
		rng:       rng,
		beta:      distuv.Beta{Alpha: 0.5, Beta: 0.5, Src: rng},
	}
}

// NewRandom creates a vehicle on a random lane, one density-derived offset
// behind the rearmost fleet member, with a velocity drawn from the config's
// spawn range.
func NewRandom(r *road.Road, cfg Config, rng *rand.Rand) *Vehicle {
	lane := rng.Intn(r.LaneCount())
	xMin := 0.0
	for _, t := range r.Vehicles() {
		if x := t.Position().X(); x < xMin {
			xMin = x
		}
	}
	offset := 30 * math.Exp(-5.0/30.0*float64(r.LaneCount()))
	velocity := cfg.MinSpawnVelocity + rng.Float64()*(cfg.MaxSpawnVelocity-cfg.MinSpawnVelocity)
	return New(r, cfg, r.LaneAt(lane).Position(xMin-offset, 0), 0, velocity, rng)
}

// NewObstacle creates a motionless obstacle: a square-footprint body at rest
// that never moves on its own and only takes part in collision checks.
func NewObstacle(r *road.Road, cfg Config, position orb.Point, rng *rand.Rand) *Vehicle {
	cfg.Length = cfg.Width
	v := New(r, cfg, position, 0, 0, rng)
	v.color = ColorObstacle
	return v
}

// Apply stores a low-level command to be repeated on every step until replaced.
func (v *Vehicle) Apply(a Action) {
	v.action = a
}

// Act is a no-op on a plain kinematic vehicle: high-level intents only have
// meaning for the controller layers, and the last applied command is repeated.
func (v *Vehicle) Act(Intent) {}

// Step propagates the vehicle state over dt seconds with one explicit-Euler
// integration of the bicycle model.
//
// The tangent of the commanded angle, not the raw angle, is low-pass filtered
// into the wheel angle: small angles respond linearly while large commands
// saturate realistically. A crashed vehicle has its command overridden with
// erratic Beta-distributed steering and a braking profile proportional to its
// velocity, so it decelerates asymptotically to rest.
func (v *Vehicle) Step(dt float64) {
	if v.crashed {
		v.action.Steering = math.Pi / 4 * (-1 + 2*v.beta.Rand())
		v.action.Acceleration = (-1.0 + 0.2*v.beta.Rand()) * v.velocity
	}

	v.position = orb.Point{
		v.position.X() + v.velocity*math.Cos(v.heading)*dt,
		v.position.Y() + v.velocity*math.Sin(v.heading)*dt,
	}
	v.heading += v.velocity * v.steeringAngle / v.cfg.Length * dt
	v.steeringAngle += (math.Tan(v.action.Steering) - v.steeringAngle) / v.cfg.SteeringTau * dt
	v.velocity += v.action.Acceleration * dt

	v.laneIndex = v.road.LaneIndexAt(v.position)
	v.lane = v.road.LaneAt(v.laneIndex)
}

// LaneDistanceTo returns the signed longitudinal distance to another vehicle
// along the current lane (positive when the other vehicle is ahead). NaN is
// returned when there is no other vehicle; callers must treat that as "no
// relevant vehicle", not as a number.
func (v *Vehicle) LaneDistanceTo(other road.Traffic) float64 {
	if other == nil {
		return math.NaN()
	}
	sOther, _ := v.lane.LocalCoordinates(other.Position())
	sSelf, _ := v.lane.LocalCoordinates(v.position)
	return sOther - sSelf
}

// CheckCollision marks both vehicles as crashed when their centres are closer
// than the sum of their half widths. The check is symmetric and idempotent,
// skips self-comparison, and applies no physical response.
func (v *Vehicle) CheckCollision(other *Vehicle) {
	if other == nil || other == v {
		return
	}
	if planar.Distance(v.position, other.position) < v.cfg.Width/2+other.cfg.Width/2 {
		v.crashed, other.crashed = true, true
		v.color, other.color = ColorCrashed, ColorCrashed
	}
}

// Clone returns a copy of the vehicle state bound to the given road. The
// random source is shared with the original.
func (v *Vehicle) Clone(r *road.Road) *Vehicle {
	c := *v
	c.road = r
	c.laneIndex = r.LaneIndexAt(c.position)
	c.lane = r.LaneAt(c.laneIndex)
	return &c
}

// ID returns the vehicle's unique identifier.
func (v *Vehicle) ID() uuid.UUID { return v.id }

// Body returns the underlying kinematic vehicle. Through embedding this gives
// every control layer a uniform way down to the physical state.
func (v *Vehicle) Body() *Vehicle { return v }

// Road returns the road the vehicle drives on.
func (v *Vehicle) Road() *road.Road { return v.road }

// Position returns the world position in metres.
func (v *Vehicle) Position() orb.Point { return v.position }

// Heading returns the orientation angle [rad].
func (v *Vehicle) Heading() float64 { return v.heading }

// Velocity returns the signed speed along the heading [m/s].
func (v *Vehicle) Velocity() float64 { return v.velocity }

// TargetVelocity on a plain vehicle is its current velocity: with no
// controller attached there is nothing else it could be trying to hold.
func (v *Vehicle) TargetVelocity() float64 { return v.velocity }

// SteeringAngle returns the current lagged wheel angle [rad].
func (v *Vehicle) SteeringAngle() float64 { return v.steeringAngle }

// LaneIndex returns the index of the lane the vehicle is currently on,
// consistent with the position immediately after any Step.
func (v *Vehicle) LaneIndex() int { return v.laneIndex }

// Lane returns the lane the vehicle is currently on.
func (v *Vehicle) Lane() road.Lane { return v.lane }

// LastAction returns the last applied command pair.
func (v *Vehicle) LastAction() Action { return v.action }

// Crashed reports whether the vehicle has collided. The flag is never reset.
func (v *Vehicle) Crashed() bool { return v.crashed }

// Length returns the physical length [m].
func (v *Vehicle) Length() float64 { return v.cfg.Length }

// Width returns the physical width [m].
func (v *Vehicle) Width() float64 { return v.cfg.Width }

// Color returns the status colour used for rendering.
func (v *Vehicle) Color() color.RGBA { return v.color }

// SetColor overrides the status colour. Crashing repaints the vehicle
// regardless.
func (v *Vehicle) SetColor(c color.RGBA) { v.color = c }

func (v *Vehicle) String() string {
	return fmt.Sprintf("#%s: (%.1f, %.1f)", v.id.String()[:8], v.position.X(), v.position.Y())
}
