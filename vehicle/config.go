package vehicle

import "math"

// Config holds the physical parameters of a single vehicle.
// Every vehicle carries its own copy, so test fixtures can vary parameters
// without touching shared state.
type Config struct {
	Length      float64 // vehicle length [m]
	Width       float64 // vehicle width [m]
	SteeringTau float64 // steering actuator time constant [s]

	// Velocity range used when spawning at a random position.
	MinSpawnVelocity float64 // [m/s]
	MaxSpawnVelocity float64 // [m/s]
}

// DefaultConfig returns the physical parameters of a standard car.
func DefaultConfig() Config {
	return Config{
		Length:           5.0,
		Width:            2.0,
		SteeringTau:      0.2,
		MinSpawnVelocity: 20,
		MaxSpawnVelocity: 25,
	}
}

// ControlConfig holds the gains of the cascaded low-level controller.
// The velocity loop is a proportional controller with gain 1/TauA; the
// heading loop is a proportional controller with gain 1/TauDS cascaded with a
// lateral position term weighted by KpS.
type ControlConfig struct {
	TauA             float64 // velocity loop time constant [s]
	TauDS            float64 // heading loop time constant [s]
	KpS              float64 // lateral offset gain [1/m]
	MaxSteeringAngle float64 // steering command saturation [rad]
	SteeringVelGain  float64 // velocity scale attenuating the lateral correction at low speed [m/s]
}

// DefaultControlConfig returns the stock controller gains.
func DefaultControlConfig() ControlConfig {
	return ControlConfig{
		TauA:             0.1,
		TauDS:            0.3,
		KpS:              0.05,
		MaxSteeringAngle: math.Pi / 4,
		SteeringVelGain:  60,
	}
}

// KpA returns the proportional velocity gain.
func (c ControlConfig) KpA() float64 { return 1 / c.TauA }

// KdS returns the proportional heading gain.
func (c ControlConfig) KdS() float64 { return 1 / c.TauDS }

// SpeedConfig defines a finite ordered table of allowed target velocities,
// addressed by an integer index in [0, Count).
type SpeedConfig struct {
	Count int     // number of allowed speeds
	Min   float64 // slowest allowed speed [m/s]
	Max   float64 // fastest allowed speed [m/s]
}

// DefaultSpeedConfig returns a single-speed table at 25 m/s spanning up to 35.
func DefaultSpeedConfig() SpeedConfig {
	return SpeedConfig{Count: 1, Min: 25, Max: 35}
}

// SpeedAt converts a speed index to its velocity. A table with a single entry
// always yields the minimum speed.
func (c SpeedConfig) SpeedAt(index int) float64 {
	if c.Count > 1 {
		return c.Min + float64(index)*(c.Max-c.Min)/float64(c.Count-1)
	}
	return c.Min
}

// IndexOf returns the index of the allowed speed closest to the given one.
// The result is not clamped to the table range.
func (c SpeedConfig) IndexOf(speed float64) int {
	if c.Count <= 1 {
		return 0
	}
	x := (speed - c.Min) / (c.Max - c.Min)
	return int(math.Round(x * float64(c.Count-1)))
}

// IDMConfig holds the parameters of the autonomous longitudinal (Intelligent
// Driver Model) and lateral (MOBIL) decision policies.
type IDMConfig struct {
	// Longitudinal policy.
	AccMax         float64 // maximum acceleration [m/s²]
	BrakeAcc       float64 // comfortable braking deceleration [m/s²] (positive)
	VelocityWanted float64 // desired free-road velocity [m/s]
	DistanceWanted float64 // jam distance kept to the front vehicle [m]
	TimeWanted     float64 // desired time gap to the front vehicle [s]
	Delta          float64 // free-road acceleration exponent

	// Lateral policy.
	Politeness                  float64 // weight in [0,1] on the cost imposed on others
	LaneChangeMinAccGain        float64 // minimum jerk metric to accept a change [m/s²]
	LaneChangeMaxBrakingImposed float64 // safety limit on the new follower's braking [m/s²]
	LaneChangeDelay             float64 // gating period between lane-change evaluations [s]
}

// DefaultIDMConfig returns the stock policy parameters.
func DefaultIDMConfig() IDMConfig {
	return IDMConfig{
		AccMax:                      3.0,
		BrakeAcc:                    5.0,
		VelocityWanted:              20.0,
		DistanceWanted:              5.0,
		TimeWanted:                  1.0,
		Delta:                       4.0,
		Politeness:                  0,
		LaneChangeMinAccGain:        0.2,
		LaneChangeMaxBrakingImposed: 2.0,
		LaneChangeDelay:             1.0,
	}
}
