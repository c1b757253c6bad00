// Package road models a multi-lane roadway: lane geometry in local
// coordinates, lane indexing from world positions, and nearest-neighbour
// queries over the attached fleet.
package road

import (
	"math"

	"github.com/paulmach/orb"
)

// Traffic is the read-only view of a fleet member the road needs for its
// neighbour queries and that following models need for gap keeping.
type Traffic interface {
	// Position returns the world position in metres
	Position() orb.Point
	// Velocity returns the signed longitudinal speed [m/s]
	Velocity() float64
	// TargetVelocity returns the speed the vehicle is currently trying to hold [m/s]
	TargetVelocity() float64
	// Length returns the physical vehicle length [m]
	Length() float64
}

// Road is an ordered list of lanes with the fleet driving on them.
// Lane index 0 is the leftmost lane; indices grow to the right.
type Road struct {
	lanes    []Lane
	vehicles []Traffic
}

// New creates a road from an ordered lane list.
func New(lanes []Lane) *Road {
	return &Road{lanes: lanes}
}

// NewStraight creates a flat highway of parallel straight lanes running
// along the x axis, spaced one lane width apart.
func NewStraight(laneCount int, laneWidth float64) *Road {
	lanes := make([]Lane, 0, laneCount)
	for i := 0; i < laneCount; i++ {
		origin := orb.Point{0, float64(i) * laneWidth}
		lanes = append(lanes, NewStraightLane(origin, 0, laneWidth))
	}
	return New(lanes)
}

// LaneCount returns the number of lanes.
func (r *Road) LaneCount() int {
	return len(r.lanes)
}

// LaneAt returns the lane with the given index.
func (r *Road) LaneAt(index int) Lane {
	return r.lanes[index]
}

// LaneIndexAt returns the index of the lane closest to the given world
// position, by absolute lateral offset.
func (r *Road) LaneIndexAt(p orb.Point) int {
	closest := 0
	best := math.Inf(1)
	for i, l := range r.lanes {
		_, lateral := l.LocalCoordinates(p)
		if d := math.Abs(lateral); d < best {
			best = d
			closest = i
		}
	}
	return closest
}

// Attach adds a fleet member to the road so it shows up in neighbour queries.
func (r *Road) Attach(t Traffic) {
	r.vehicles = append(r.vehicles, t)
}

// Vehicles returns the attached fleet.
func (r *Road) Vehicles() []Traffic {
	return r.vehicles
}

// Neighbours returns the nearest vehicle ahead of and behind ego in the given
// lane, by longitudinal lane coordinate. Ego itself is skipped, and vehicles
// whose position maps to a different lane are ignored. Either result may be
// nil when the lane is empty in that direction.
func (r *Road) Neighbours(ego Traffic, laneIndex int) (ahead, behind Traffic) {
	l := r.lanes[laneIndex]
	sEgo, _ := l.LocalCoordinates(ego.Position())
	sAhead, sBehind := math.Inf(1), math.Inf(-1)
	for _, v := range r.vehicles {
		if v == ego {
			continue
		}
		if r.LaneIndexAt(v.Position()) != laneIndex {
			continue
		}
		s, _ := l.LocalCoordinates(v.Position())
		switch {
		case s > sEgo && s < sAhead:
			ahead, sAhead = v, s
		case s < sEgo && s > sBehind:
			behind, sBehind = v, s
		}
	}
	return ahead, behind
}

// Geometry returns a copy of the road that shares the lane list but carries
// no fleet. Trajectory rollouts run against such a copy so that predicted
// motion cannot interact with live vehicles.
func (r *Road) Geometry() *Road {
	return &Road{lanes: r.lanes}
}
