package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/golangdaddy/highway/vehicle"
)

// PollIntent maps the arrow keys to high-level driving intents, edge
// triggered so one key press is one intent. Right/left adjust speed, up/down
// request a lane change.
func PollIntent() vehicle.Intent {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		return vehicle.IntentFaster
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		return vehicle.IntentSlower
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		return vehicle.IntentLaneLeft
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		return vehicle.IntentLaneRight
	}
	return vehicle.IntentNone
}
