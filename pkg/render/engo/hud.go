// pkg/render/engo/hud.go
package engo

import (
	"image/color"
	"strings"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-flightcore/pkg/control"
	"github.com/opd-ai/go-flightcore/pkg/render"
)

// HUDSystem manages the heads-up display text
type HUDSystem struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent

	font  *common.Font
	text  string
	dirty bool
}

// NewHUDSystem creates a new HUD system anchored at the top-left corner
func NewHUDSystem() *HUDSystem {
	hud := &HUDSystem{
		BasicEntity: ecs.NewBasic(),
		SpaceComponent: common.SpaceComponent{
			Position: engo.Point{X: 10, Y: 10},
		},
	}
	hud.RenderComponent.Color = color.RGBA{0, 255, 0, 255}
	return hud
}

// SetFont sets the font used for HUD text rendering
func (hud *HUDSystem) SetFont(font *common.Font) {
	hud.font = font
	hud.RenderComponent.Drawable = common.Text{Font: font, Text: " "}
	hud.dirty = true
}

// ShowHUD implements sim.HUDDisplay
func (hud *HUDSystem) ShowHUD(state control.HUDState) {
	text := render.FormatHUD(state)
	if text != hud.text {
		hud.text = text
		hud.dirty = true
	}
}

// Text returns the current HUD text
func (hud *HUDSystem) Text() string {
	return hud.text
}

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the text drawable when the HUD changed
func (hud *HUDSystem) Update(dt float32) {
	if !hud.dirty || hud.font == nil {
		return
	}
	hud.RenderComponent.Drawable = common.Text{
		Font:        hud.font,
		Text:        hud.text,
		LineSpacing: 0.2,
	}
	hud.SpaceComponent.Height = float32(strings.Count(hud.text, "\n")+1) * float32(hud.font.Size) * 1.2
	hud.dirty = false
}
