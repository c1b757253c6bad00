package road

import (
	"math"

	"github.com/paulmach/orb"
)

// Lane exposes the local-coordinate geometry of a single lane.
// Longitudinal coordinates run along the lane centre, lateral coordinates
// across it, both in metres.
type Lane interface {
	// Position converts lane-local (longitudinal, lateral) coordinates to a world position
	Position(longitudinal, lateral float64) orb.Point
	// LocalCoordinates projects a world position onto the lane
	LocalCoordinates(p orb.Point) (longitudinal, lateral float64)
	// HeadingAt returns the lane heading at the given longitudinal coordinate [rad]
	HeadingAt(longitudinal float64) float64
	// Width returns the lane width in metres
	Width() float64
	// IsReachableFrom reports whether a vehicle at p is close enough to merge into this lane
	IsReachableFrom(p orb.Point) bool
}

// StraightLane is an unbounded straight lane defined by an origin on its
// centre line and a constant heading.
type StraightLane struct {
	origin  orb.Point // world position of the longitudinal-zero point on the centre line
	heading float64   // constant lane heading [rad]
	width   float64   // lane width [m]

	// Unit direction and normal vectors, derived from heading at creation.
	dirX, dirY   float64
	normX, normY float64
}

// NewStraightLane creates a straight lane from an origin point, a heading and a width.
func NewStraightLane(origin orb.Point, heading, width float64) *StraightLane {
	return &StraightLane{
		origin:  origin,
		heading: heading,
		width:   width,
		dirX:    math.Cos(heading),
		dirY:    math.Sin(heading),
		normX:   -math.Sin(heading),
		normY:   math.Cos(heading),
	}
}

// Position converts lane-local coordinates to a world position.
func (l *StraightLane) Position(longitudinal, lateral float64) orb.Point {
	return orb.Point{
		l.origin.X() + longitudinal*l.dirX + lateral*l.normX,
		l.origin.Y() + longitudinal*l.dirY + lateral*l.normY,
	}
}

// LocalCoordinates projects a world position onto the lane centre line.
func (l *StraightLane) LocalCoordinates(p orb.Point) (longitudinal, lateral float64) {
	dx := p.X() - l.origin.X()
	dy := p.Y() - l.origin.Y()
	return dx*l.dirX + dy*l.dirY, dx*l.normX + dy*l.normY
}

// HeadingAt returns the lane heading, which is constant for a straight lane.
func (l *StraightLane) HeadingAt(longitudinal float64) float64 {
	return l.heading
}

// Width returns the lane width in metres.
func (l *StraightLane) Width() float64 {
	return l.width
}

// IsReachableFrom reports whether a vehicle at p can merge into this lane.
// A straight lane is considered reachable while the lateral offset is within
// two lane widths, so a lane change can only target the adjacent lane.
func (l *StraightLane) IsReachableFrom(p orb.Point) bool {
	_, lateral := l.LocalCoordinates(p)
	return math.Abs(lateral) < 2*l.width
}
