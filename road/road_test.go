package road

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVehicle struct {
	pos orb.Point
	v   float64
}

func (s *stubVehicle) Position() orb.Point     { return s.pos }
func (s *stubVehicle) Velocity() float64       { return s.v }
func (s *stubVehicle) TargetVelocity() float64 { return s.v }
func (s *stubVehicle) Length() float64         { return 5 }

func TestStraightLane(t *testing.T) {
	t.Parallel()

	t.Run("local coordinate round trip", func(t *testing.T) {
		t.Parallel()
		l := NewStraightLane(orb.Point{0, 4}, 0, 4)

		p := l.Position(120, -1.5)
		longitudinal, lateral := l.LocalCoordinates(p)
		assert.InDelta(t, 120, longitudinal, 1e-9)
		assert.InDelta(t, -1.5, lateral, 1e-9)
	})

	t.Run("rotated lane projects along its heading", func(t *testing.T) {
		t.Parallel()
		l := NewStraightLane(orb.Point{0, 0}, math.Pi/2, 4)

		longitudinal, lateral := l.LocalCoordinates(orb.Point{0, 10})
		assert.InDelta(t, 10, longitudinal, 1e-9)
		assert.InDelta(t, 0, lateral, 1e-9)
		assert.InDelta(t, math.Pi/2, l.HeadingAt(10), 1e-9)
	})

	t.Run("reachability spans two lane widths", func(t *testing.T) {
		t.Parallel()
		l := NewStraightLane(orb.Point{0, 0}, 0, 4)

		assert.True(t, l.IsReachableFrom(orb.Point{50, 4}))
		assert.False(t, l.IsReachableFrom(orb.Point{50, 8}))
	})
}

func TestLaneIndexAt(t *testing.T) {
	t.Parallel()
	r := NewStraight(4, 4)

	assert.Equal(t, 0, r.LaneIndexAt(orb.Point{10, -1}))
	assert.Equal(t, 1, r.LaneIndexAt(orb.Point{10, 4.5}))
	assert.Equal(t, 3, r.LaneIndexAt(orb.Point{10, 100}))
}

func TestNeighbours(t *testing.T) {
	t.Parallel()
	r := NewStraight(2, 4)

	ego := &stubVehicle{pos: orb.Point{0, 0}, v: 20}
	front := &stubVehicle{pos: orb.Point{40, 0}, v: 18}
	far := &stubVehicle{pos: orb.Point{90, 0}, v: 18}
	rear := &stubVehicle{pos: orb.Point{-25, 0}, v: 22}
	otherLane := &stubVehicle{pos: orb.Point{10, 4}, v: 20}
	for _, v := range []Traffic{ego, front, far, rear, otherLane} {
		r.Attach(v)
	}

	t.Run("nearest ahead and behind in lane", func(t *testing.T) {
		ahead, behind := r.Neighbours(ego, 0)
		require.NotNil(t, ahead)
		require.NotNil(t, behind)
		assert.Same(t, front, ahead)
		assert.Same(t, rear, behind)
	})

	t.Run("adjacent lane query", func(t *testing.T) {
		ahead, behind := r.Neighbours(ego, 1)
		assert.Same(t, otherLane, ahead)
		assert.Nil(t, behind)
	})

	t.Run("empty directions are nil", func(t *testing.T) {
		ahead, behind := r.Neighbours(far, 0)
		assert.Nil(t, ahead)
		require.NotNil(t, behind)
		assert.Same(t, front, behind)
	})
}

func TestGeometry(t *testing.T) {
	t.Parallel()
	r := NewStraight(3, 4)
	r.Attach(&stubVehicle{pos: orb.Point{0, 0}})

	g := r.Geometry()
	assert.Equal(t, 3, g.LaneCount())
	assert.Empty(t, g.Vehicles())
	assert.Len(t, r.Vehicles(), 1)
}
