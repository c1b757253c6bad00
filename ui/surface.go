// Package ui renders the simulation on an ebiten screen and maps keyboard
// input to high-level driving intents. The simulation core only exposes
// read-only state to this package and never depends on it.
package ui

import "github.com/paulmach/orb"

// Surface maps world coordinates (metres) to screen pixels, with a camera
// centred on a focus point.
type Surface struct {
	Width  int     // screen width [px]
	Height int     // screen height [px]
	Scale  float64 // pixels per metre

	// World position at the screen centre.
	focusX float64
	focusY float64
}

// NewSurface creates a surface of the given pixel size and scale.
func NewSurface(width, height int, scale float64) *Surface {
	return &Surface{Width: width, Height: height, Scale: scale}
}

// Follow centres the camera on the given world position.
func (s *Surface) Follow(x, y float64) {
	s.focusX, s.focusY = x, y
}

// Pix converts a length in metres to pixels.
func (s *Surface) Pix(m float64) float64 {
	return m * s.Scale
}

// ToScreen converts a world position to screen coordinates.
// World x runs to the right of the screen; world y runs down, so lane index
// grows downward exactly as it does in the road's lane list.
func (s *Surface) ToScreen(p orb.Point) (x, y float64) {
	x = float64(s.Width)/2 + s.Pix(p.X()-s.focusX)
	y = float64(s.Height)/2 + s.Pix(p.Y()-s.focusY)
	return x, y
}

// VisibleWorldX returns the world x range currently on screen.
func (s *Surface) VisibleWorldX() (min, max float64) {
	half := float64(s.Width) / 2 / s.Scale
	return s.focusX - half, s.focusX + half
}
