package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"github.com/golangdaddy/highway/simulation"
	"github.com/golangdaddy/highway/ui"
	"github.com/golangdaddy/highway/vehicle"
)

const (
	screenWidth  = 1024
	screenHeight = 300

	// The viewer runs at ebiten's 60 Hz tick while the simulation steps at
	// its own cadence; frameDt is accumulated between simulation steps.
	frameDt = 1.0 / 60
)

// Game implements ebiten.Game around a running simulation.
type Game struct {
	sim     *simulation.Simulation
	surface *ui.Surface
	verge   *ui.Verge

	accumulator float64
	pending     vehicle.Intent
	trajectory  []*vehicle.Vehicle
}

// Update proceeds the game state.
// Update is called every tick (1/60 [s] by default).
func (g *Game) Update() error {
	if intent := ui.PollIntent(); intent != vehicle.IntentNone {
		g.pending = intent
	}

	g.accumulator += frameDt
	for g.accumulator >= g.sim.Dt() {
		g.sim.Step(g.pending)
		g.pending = vehicle.IntentNone
		g.accumulator -= g.sim.Dt()

		g.trajectory = g.sim.Ego().PredictTrajectory(
			[]vehicle.Intent{vehicle.IntentNone, vehicle.IntentNone, vehicle.IntentNone},
			1.0, 0.5, g.sim.Dt(),
		)
	}

	// Camera follows the ego along the road, vertically centred on the lanes.
	ego := g.sim.Ego()
	laneWidth := g.sim.Road().LaneAt(0).Width()
	g.surface.Follow(ego.Position().X()+30, float64(g.sim.Road().LaneCount()-1)*laneWidth/2)
	return nil
}

// Draw draws the game screen.
// Draw is called every frame (typically 1/60[s] for 60Hz display).
func (g *Game) Draw(screen *ebiten.Image) {
	g.verge.Draw(screen, g.surface)
	ui.DrawRoad(screen, g.surface, g.sim.Road())
	ui.DrawTrajectory(screen, g.surface, g.trajectory)
	for _, a := range g.sim.Agents() {
		ui.DrawVehicle(screen, g.surface, a.Body())
	}
	ui.DrawHUD(screen, g.sim)
}

// Layout takes the outside size (e.g., the window size) and returns the (logical) screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	scenario := flag.String("scenario", "", "path to a JSON scenario file")
	lanes := flag.Int("lanes", 4, "number of highway lanes")
	vehicles := flag.Int("vehicles", 20, "number of autonomous vehicles")
	seed := flag.Uint64("seed", 42, "random seed for the run")
	scale := flag.Float64("scale", 6, "pixels per metre")
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *scenario != "" {
		var err error
		if cfg, err = simulation.LoadConfig(*scenario); err != nil {
			log.Fatal(err)
		}
	}
	// Flags given explicitly on the command line override the scenario file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lanes":
			cfg.Lanes = *lanes
		case "vehicles":
			cfg.Vehicles = *vehicles
		case "seed":
			cfg.Seed = *seed
		}
	})

	game := &Game{
		sim:     simulation.New(cfg),
		surface: ui.NewSurface(screenWidth, screenHeight, *scale),
		verge:   ui.NewVerge(128, int64(cfg.Seed)),
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Highway")
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
