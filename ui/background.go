package ui

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/paulmach/orb"
)

// Verge is the generated grass texture either side of the carriageway.
// The texture is built once at startup and tiled across the screen; the road
// band is drawn over it afterwards.
type Verge struct {
	tile *ebiten.Image
}

// NewVerge generates a square grass tile of the given pixel size.
func NewVerge(size int, seed int64) *Verge {
	rng := rand.New(rand.NewSource(seed))
	tile := ebiten.NewImage(size, size)

	// Base grass layer
	tile.Fill(color.RGBA{30, 100, 30, 255})

	// Add noise/texture to grass
	for i := 0; i < size*size/10; i++ {
		shade := uint8(80 + rng.Intn(60))
		tile.Set(rng.Intn(size), rng.Intn(size), color.RGBA{30, shade, 30, 255})
	}

	// Darker bush clusters, wrapped at the edges so the tile stays seamless.
	for i := 0; i < size/8; i++ {
		cx, cy := rng.Intn(size), rng.Intn(size)
		radius := 2 + rng.Intn(4)
		c := color.RGBA{20, uint8(60 + rng.Intn(30)), 20, 255}
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if dx*dx+dy*dy > radius*radius {
					continue
				}
				tile.Set((cx+dx+size)%size, (cy+dy+size)%size, c)
			}
		}
	}
	return &Verge{tile: tile}
}

// Draw tiles the grass over the whole screen, anchored to world coordinates
// so it scrolls with the camera.
func (v *Verge) Draw(screen *ebiten.Image, s *Surface) {
	size := float64(v.tile.Bounds().Dx())
	anchorX, anchorY := s.ToScreen(orb.Point{0, 0})
	startX := math.Mod(anchorX, size)
	if startX > 0 {
		startX -= size
	}
	startY := math.Mod(anchorY, size)
	if startY > 0 {
		startY -= size
	}
	for x := startX; x < float64(s.Width); x += size {
		for y := startY; y < float64(s.Height); y += size {
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(x, y)
			screen.DrawImage(v.tile, op)
		}
	}
}
