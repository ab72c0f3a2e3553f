// pkg/render/engo/scene.go
package engo

import (
	"bytes"
	"context"
	"image/color"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/opd-ai/go-flightcore/pkg/logging"
	"github.com/opd-ai/go-flightcore/pkg/sim"
)

// Propeller sprite geometry in pixels
const (
	BladeLength = 160
	BladeWidth  = 12
)

const (
	hudFontURL  = "gomono.ttf"
	hudFontSize = 16
)

type propellerSprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// CockpitScene renders the propeller and HUD for one simulation
type CockpitScene struct {
	world *ecs.World

	simulation *sim.Simulation
	source     *InputSource

	flight    *FlightSystem
	propeller *PropellerSystem
	hud       *HUDSystem
	blade     *propellerSprite

	logger *logging.Logger
}

// NewCockpitScene creates a new cockpit scene for simulation
func NewCockpitScene(simulation *sim.Simulation, logger *logging.Logger) *CockpitScene {
	if logger == nil {
		logger = logging.NewLogger()
	}
	return &CockpitScene{
		simulation: simulation,
		world:      &ecs.World{},
		logger:     logger,
	}
}

// Type returns the scene type (required by Engo)
func (scene *CockpitScene) Type() string {
	return "CockpitScene"
}

// Preload registers the embedded HUD font (required by Engo)
func (scene *CockpitScene) Preload() {
	if err := engo.Files.LoadReaderData(hudFontURL, bytes.NewReader(gomono.TTF)); err != nil {
		scene.logger.Error(context.Background(), "failed to load HUD font", err)
	}
}

// Setup is called when the scene starts (required by Engo)
func (scene *CockpitScene) Setup(u engo.Updater) {
	if world, ok := u.(*ecs.World); ok {
		scene.world = world
	}
	common.SetBackground(color.RGBA{20, 28, 40, 255})

	SetupInputBindings()
	scene.source = NewInputSource()

	renderSystem := &common.RenderSystem{}
	scene.world.AddSystem(renderSystem)

	scene.flight = NewFlightSystem(scene.simulation, scene.source)
	scene.flight.OnQuit(engo.Exit)
	scene.world.AddSystem(scene.flight)

	scene.propeller = NewPropellerSystem()
	scene.world.AddSystem(scene.propeller)

	scene.hud = NewHUDSystem()
	font := &common.Font{URL: hudFontURL, FG: color.RGBA{0, 255, 0, 255}, Size: hudFontSize}
	err := font.CreatePreloaded()
	hudText := err == nil
	if hudText {
		scene.hud.SetFont(font)
	} else {
		scene.logger.Warn(context.Background(), "HUD text disabled", "error", err)
	}
	scene.world.AddSystem(scene.hud)

	scene.blade = newPropellerSprite()
	scene.propeller.Add(&scene.blade.BasicEntity, &scene.blade.SpaceComponent)
	renderSystem.Add(&scene.blade.BasicEntity, &scene.blade.RenderComponent, &scene.blade.SpaceComponent)
	if hudText {
		renderSystem.Add(&scene.hud.BasicEntity, &scene.hud.RenderComponent, &scene.hud.SpaceComponent)
	}

	scene.simulation.Renderer = scene.propeller
	scene.simulation.HUD = scene.hud
	scene.simulation.Start()
}

// Exit is called when the scene is closed
func (scene *CockpitScene) Exit() {
	scene.simulation.Stop()
}

func newPropellerSprite() *propellerSprite {
	sprite := &propellerSprite{BasicEntity: ecs.NewBasic()}
	sprite.RenderComponent = common.RenderComponent{
		Drawable: common.Rectangle{},
		Color:    color.RGBA{200, 200, 200, 255},
	}
	sprite.SpaceComponent = common.SpaceComponent{
		Position: engo.Point{
			X: engo.GameWidth()/2 - BladeWidth/2,
			Y: engo.GameHeight()/2 - BladeLength/2,
		},
		Width:  BladeWidth,
		Height: BladeLength,
	}
	return sprite
}
