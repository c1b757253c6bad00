// Package simulation owns the vehicle fleet and the fixed-timestep loop that
// drives it: decisions, integration, and collision marking.
package simulation

import (
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/golangdaddy/highway/road"
	"github.com/golangdaddy/highway/vehicle"
)

// Agent is one simulated traffic participant: a decision layer bound to a
// kinematic vehicle body. All the control layers in the vehicle package
// satisfy it, as does a plain vehicle.
type Agent interface {
	road.Traffic
	Act(vehicle.Intent)
	Step(dt float64)
	Body() *vehicle.Vehicle
}

// Config holds the parameters of one simulation run.
type Config struct {
	Lanes     int     `json:"lanes"`     // number of highway lanes
	LaneWidth float64 `json:"laneWidth"` // lane width [m]
	Vehicles  int     `json:"vehicles"`  // autonomous traffic vehicle count
	Dt        float64 `json:"dt"`        // simulation timestep [s]
	Seed      uint64  `json:"seed"`      // seed for every random draw in the run
}

// DefaultConfig returns a four-lane highway with twenty autonomous vehicles
// stepping at 15 Hz.
func DefaultConfig() Config {
	return Config{
		Lanes:     4,
		LaneWidth: 4.0,
		Vehicles:  20,
		Dt:        1.0 / 15,
		Seed:      42,
	}
}

// Simulation owns the road, the fleet, and the step cadence. It is
// single-threaded and deterministic for a fixed seed.
type Simulation struct {
	cfg    Config
	road   *road.Road
	agents []Agent
	ego    *vehicle.DiscreteAgent
	rng    *rand.Rand
	steps  int
}

// New builds a straight highway, spawns an ego vehicle on a discrete speed
// table and a fleet of autonomous drivers behind it.
func New(cfg Config) *Simulation {
	rng := rand.New(rand.NewSource(cfg.Seed))
	s := &Simulation{
		cfg:  cfg,
		road: road.NewStraight(cfg.Lanes, cfg.LaneWidth),
		rng:  rng,
	}

	vcfg := vehicle.DefaultConfig()

	egoBody := vehicle.NewRandom(s.road, vcfg, rng)
	egoBody.SetColor(vehicle.ColorEgo)
	ego := vehicle.NewDiscreteAgent(
		vehicle.NewController(egoBody, vehicle.DefaultControlConfig()),
		vehicle.SpeedConfig{Count: 3, Min: 20, Max: 30},
	)
	s.ego = ego
	s.add(ego)

	for i := 0; i < cfg.Vehicles; i++ {
		body := vehicle.NewRandom(s.road, vcfg, rng)
		body.SetColor(vehicle.ColorAgent)
		driver := vehicle.NewDriver(
			vehicle.NewController(body, vehicle.DefaultControlConfig()),
			vehicle.DefaultIDMConfig(),
			rng,
		)
		s.add(driver)
	}

	log.WithFields(log.Fields{
		"lanes":    cfg.Lanes,
		"vehicles": len(s.agents),
		"seed":     cfg.Seed,
	}).Info("simulation ready")
	return s
}

// add registers an agent with the loop and attaches it to the road so it is
// visible to neighbour queries.
func (s *Simulation) add(a Agent) {
	s.agents = append(s.agents, a)
	s.road.Attach(a)
}

// Step advances the simulation by one tick. All decisions are computed first,
// against the settled positions of the previous tick, and only then is every
// vehicle integrated: a vehicle's decision never depends on whether a
// neighbour has already moved this tick. The ego agent receives the given
// intent; traffic receives none.
func (s *Simulation) Step(egoIntent vehicle.Intent) {
	for _, a := range s.agents {
		intent := vehicle.IntentNone
		if a == s.ego {
			intent = egoIntent
		}
		a.Act(intent)
	}
	for _, a := range s.agents {
		a.Step(s.cfg.Dt)
	}
	s.checkCollisions()
	s.steps++
}

// checkCollisions runs the pairwise collision pass and logs each vehicle's
// crash once, the tick it happens.
func (s *Simulation) checkCollisions() {
	for i := 0; i < len(s.agents); i++ {
		for j := i + 1; j < len(s.agents); j++ {
			a, b := s.agents[i].Body(), s.agents[j].Body()
			wasA, wasB := a.Crashed(), b.Crashed()
			a.CheckCollision(b)
			for _, crash := range []struct {
				v   *vehicle.Vehicle
				was bool
			}{{a, wasA}, {b, wasB}} {
				if crash.v.Crashed() && !crash.was {
					log.WithFields(log.Fields{
						"vehicle": crash.v.ID(),
						"lane":    crash.v.LaneIndex(),
						"t":       s.Time(),
					}).Warn("vehicle crashed")
				}
			}
		}
	}
}

// Road returns the shared road.
func (s *Simulation) Road() *road.Road { return s.road }

// Agents returns the fleet, ego included.
func (s *Simulation) Agents() []Agent { return s.agents }

// Ego returns the externally controlled agent.
func (s *Simulation) Ego() *vehicle.DiscreteAgent { return s.ego }

// Dt returns the simulation timestep [s].
func (s *Simulation) Dt() float64 { return s.cfg.Dt }

// Time returns the elapsed simulated time [s].
func (s *Simulation) Time() float64 { return float64(s.steps) * s.cfg.Dt }

// CrashCount returns the number of crashed vehicles.
func (s *Simulation) CrashCount() int {
	n := 0
	for _, a := range s.agents {
		if a.Body().Crashed() {
			n++
		}
	}
	return n
}
