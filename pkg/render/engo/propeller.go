// pkg/render/engo/propeller.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-flightcore/pkg/control"
)

type propellerEntity struct {
	basic *ecs.BasicEntity
	space *common.SpaceComponent
}

// PropellerSystem rotates propeller sprites to the simulated blade angle.
// The sprite is viewed along the spin axis, so the angle maps directly to
// the sprite's rotation.
type PropellerSystem struct {
	entities []propellerEntity
	frame    control.RenderFrame
}

// NewPropellerSystem creates an empty propeller system
func NewPropellerSystem() *PropellerSystem {
	return &PropellerSystem{}
}

// Add registers a propeller sprite
func (ps *PropellerSystem) Add(basic *ecs.BasicEntity, space *common.SpaceComponent) {
	ps.entities = append(ps.entities, propellerEntity{basic: basic, space: space})
}

// Remove satisfies the ecs.System interface
func (ps *PropellerSystem) Remove(basic ecs.BasicEntity) {
	for i, e := range ps.entities {
		if e.basic.ID() == basic.ID() {
			ps.entities = append(ps.entities[:i], ps.entities[i+1:]...)
			return
		}
	}
}

// RenderPropeller implements sim.Renderer
func (ps *PropellerSystem) RenderPropeller(frame control.RenderFrame) {
	ps.frame = frame
}

// Update applies the latest blade angle to every sprite
func (ps *PropellerSystem) Update(dt float32) {
	for _, e := range ps.entities {
		e.space.Rotation = float32(ps.frame.AngleDegrees)
	}
}
