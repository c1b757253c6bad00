package ui

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/bitmapfont/v4"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/paulmach/orb"

	"github.com/golangdaddy/highway/road"
	"github.com/golangdaddy/highway/simulation"
	"github.com/golangdaddy/highway/vehicle"
)

var (
	roadColor    = color.RGBA{60, 60, 60, 255}
	stripeColor  = color.RGBA{255, 255, 255, 255}
	dividerColor = color.RGBA{200, 200, 200, 255}
	outlineColor = color.RGBA{20, 20, 20, 255}
	hudColor     = color.RGBA{255, 255, 255, 255}

	hudFace = text.NewGoXFace(bitmapfont.Face)
)

// Lane divider dash geometry, in metres.
const (
	dashLength = 3.0
	dashGap    = 3.0
)

// DrawRoad renders the road surface, the dashed lane dividers, and the solid
// edge lines, scrolling with the camera.
func DrawRoad(screen *ebiten.Image, s *Surface, r *road.Road) {
	if r.LaneCount() == 0 {
		return
	}
	laneWidth := r.LaneAt(0).Width()
	minX, maxX := s.VisibleWorldX()

	// Road surface band across the whole visible width.
	_, topY := s.ToScreen(r.LaneAt(0).Position(minX, -laneWidth/2))
	_, bottomY := s.ToScreen(r.LaneAt(r.LaneCount()-1).Position(minX, laneWidth/2))
	bandH := int(bottomY - topY)
	if bandH <= 0 {
		return
	}
	band := ebiten.NewImage(s.Width, bandH)
	band.Fill(roadColor)
	bandOp := &ebiten.DrawImageOptions{}
	bandOp.GeoM.Translate(0, topY)
	screen.DrawImage(band, bandOp)

	// Dashed dividers between adjacent lanes, anchored to world coordinates
	// so they scroll as the camera follows the ego vehicle.
	dashW := int(s.Pix(dashLength))
	if dashW > 0 {
		period := dashLength + dashGap
		start := math.Floor(minX/period) * period
		for i := 1; i < r.LaneCount(); i++ {
			boundary := r.LaneAt(i).Position(minX, -laneWidth/2)
			_, y := s.ToScreen(boundary)
			for x := start; x < maxX; x += period {
				dash := ebiten.NewImage(dashW, 2)
				dash.Fill(dividerColor)
				op := &ebiten.DrawImageOptions{}
				sx, _ := s.ToScreen(orb.Point{x, boundary.Y()})
				op.GeoM.Translate(sx, y-1)
				screen.DrawImage(dash, op)
			}
		}
	}

	// Solid edge lines.
	for _, y := range []float64{topY, bottomY} {
		edge := ebiten.NewImage(s.Width, 2)
		edge.Fill(stripeColor)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(0, y-1)
		screen.DrawImage(edge, op)
	}
}

// DrawVehicle renders a vehicle as a rotated rectangle in its status colour.
func DrawVehicle(screen *ebiten.Image, s *Surface, v *vehicle.Vehicle) {
	drawBox(screen, s, v.Position(), v.Heading(), v.Length(), v.Width(), v.Color(), 1)
}

// DrawTrajectory renders predicted future states as translucent ghosts.
func DrawTrajectory(screen *ebiten.Image, s *Surface, states []*vehicle.Vehicle) {
	for _, st := range states {
		drawBox(screen, s, st.Position(), st.Heading(), st.Length(), st.Width(), st.Color(), 0.25)
	}
}

func drawBox(screen *ebiten.Image, s *Surface, p orb.Point, heading, length, width float64, c color.RGBA, alpha float32) {
	w := int(s.Pix(length))
	h := int(s.Pix(width))
	if w <= 0 || h <= 0 {
		return
	}

	img := ebiten.NewImage(w, h)
	img.Fill(outlineColor)
	if w > 2 && h > 2 {
		inner := ebiten.NewImage(w-2, h-2)
		inner.Fill(c)
		innerOp := &ebiten.DrawImageOptions{}
		innerOp.GeoM.Translate(1, 1)
		img.DrawImage(inner, innerOp)
	}

	// Snap tiny headings to zero so steady lane keeping renders straight.
	if math.Abs(heading) < 2*math.Pi/180 {
		heading = 0
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-float64(w)/2, -float64(h)/2)
	op.GeoM.Rotate(heading)
	x, y := s.ToScreen(p)
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(alpha)
	screen.DrawImage(img, op)
}

// DrawHUD prints the ego vehicle's speed and lane state with the crash count.
func DrawHUD(screen *ebiten.Image, sim *simulation.Simulation) {
	ego := sim.Ego()
	msg := fmt.Sprintf("speed %5.1f m/s   lane %d -> %d   crashed %d   t %6.1f s",
		ego.Velocity(), ego.LaneIndex(), ego.TargetLaneIndex(), sim.CrashCount(), sim.Time())

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(hudColor)
	text.Draw(screen, msg, hudFace, op)
}
