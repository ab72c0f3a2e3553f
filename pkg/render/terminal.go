// pkg/render/terminal.go
package render

import (
	"context"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-flightcore/pkg/control"
	"github.com/opd-ai/go-flightcore/pkg/physics"
)

// AxisStep is how far one arrow key press moves the stick. Terminals
// report no key releases, so the stick holds its position until moved
// back or centered.
const AxisStep = 0.25

var propellerGlyphs = []rune{'|', '/', '-', '\\'}

// TerminalCockpit draws the HUD on a tcell screen and turns key presses
// into pilot commands.
type TerminalCockpit struct {
	screen tcell.Screen
	source *control.QueueSource

	mu    sync.Mutex
	axes  control.Axes
	hud   control.HUDState
	angle float64

	quit     chan struct{}
	quitOnce sync.Once

	styleText  tcell.Style
	styleLabel tcell.Style
	styleHelp  tcell.Style
}

// NewTerminalCockpit creates a cockpit on an initialized screen
func NewTerminalCockpit(screen tcell.Screen) *TerminalCockpit {
	return &TerminalCockpit{
		screen:     screen,
		source:     control.NewQueueSource(),
		quit:       make(chan struct{}),
		styleText:  tcell.StyleDefault.Foreground(tcell.ColorGreen),
		styleLabel: tcell.StyleDefault.Bold(true).Reverse(true),
		styleHelp:  tcell.StyleDefault.Foreground(tcell.ColorGray),
	}
}

// Source returns the command source fed by key presses
func (c *TerminalCockpit) Source() *control.QueueSource {
	return c.source
}

// Done is closed when the pilot asks to quit
func (c *TerminalCockpit) Done() <-chan struct{} {
	return c.quit
}

// RenderPropeller implements sim.Renderer.
func (c *TerminalCockpit) RenderPropeller(frame control.RenderFrame) {
	c.mu.Lock()
	c.angle = frame.AngleDegrees
	c.mu.Unlock()
}

// ShowHUD implements sim.HUDDisplay and redraws the screen.
func (c *TerminalCockpit) ShowHUD(hud control.HUDState) {
	c.mu.Lock()
	c.hud = hud
	c.mu.Unlock()
	c.Draw()
}

// Draw paints the HUD, the stick position and the propeller
func (c *TerminalCockpit) Draw() {
	c.mu.Lock()
	hud, axes, angle := c.hud, c.axes, c.angle
	c.mu.Unlock()

	width, _ := c.screen.Size()
	c.screen.Clear()

	drawText(c.screen, 0, 0, width, c.styleLabel, " FLIGHTCORE ")
	lines := HUDLines(hud)
	readouts := len(lines) - len(Legend)
	for i, line := range lines {
		style := c.styleText
		if i >= readouts {
			style = c.styleHelp
		}
		drawText(c.screen, 1, i+2, width-1, style, line)
	}

	y := len(lines) + 3
	drawText(c.screen, 1, y, width-1, c.styleText,
		fmt.Sprintf("STK: P%+.2f R%+.2f Y%+.2f", axes.Pitch, axes.Roll, axes.Yaw))
	drawText(c.screen, 1, y+1, width-1, c.styleText,
		"PROP: "+string(PropellerGlyph(angle)))

	c.screen.Show()
}

// HandleEvent processes one tcell event. It returns false once the pilot
// has asked to quit.
func (c *TerminalCockpit) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		c.screen.Sync()

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			c.Quit()
		case tcell.KeyUp:
			c.moveStick(func(a *control.Axes) { a.Pitch += AxisStep })
		case tcell.KeyDown:
			c.moveStick(func(a *control.Axes) { a.Pitch -= AxisStep })
		case tcell.KeyLeft:
			c.moveStick(func(a *control.Axes) { a.Roll -= AxisStep })
		case tcell.KeyRight:
			c.moveStick(func(a *control.Axes) { a.Roll += AxisStep })
		case tcell.KeyRune:
			c.handleRune(ev.Rune())
		}
	}

	select {
	case <-c.quit:
		return false
	default:
		return true
	}
}

func (c *TerminalCockpit) handleRune(r rune) {
	switch r {
	case 'e', 'E':
		c.source.Press(control.ToggleEngine)
	case ' ':
		c.source.Press(control.ToggleThrottle)
	case 'f', 'F':
		c.source.Press(control.ToggleFlap)
	case 'b', 'B':
		c.source.Press(control.ToggleBrake)
	case 'a', 'A':
		c.moveStick(func(a *control.Axes) { a.Yaw -= AxisStep })
	case 'd', 'D':
		c.moveStick(func(a *control.Axes) { a.Yaw += AxisStep })
	case 'c', 'C':
		c.moveStick(func(a *control.Axes) { *a = control.Axes{} })
	case 'q', 'Q':
		c.Quit()
	}
}

// moveStick applies change to the stick and clamps every axis to [-1,1]
func (c *TerminalCockpit) moveStick(change func(*control.Axes)) {
	c.mu.Lock()
	change(&c.axes)
	c.axes.Pitch = physics.Clamp(c.axes.Pitch, -1, 1)
	c.axes.Roll = physics.Clamp(c.axes.Roll, -1, 1)
	c.axes.Yaw = physics.Clamp(c.axes.Yaw, -1, 1)
	axes := c.axes
	c.mu.Unlock()

	c.source.SetAxes(axes)
}

// Quit closes Done
func (c *TerminalCockpit) Quit() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// PollEvents handles screen events until the pilot quits, ctx ends or the
// screen is finalized.
func (c *TerminalCockpit) PollEvents(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			c.Quit()
			c.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-c.quit:
		}
	}()

	for {
		ev := c.screen.PollEvent()
		if ev == nil || !c.HandleEvent(ev) {
			return
		}
	}
}

// PropellerGlyph returns a character approximating the blade angle
func PropellerGlyph(angle float64) rune {
	sector := int(physics.WrapDegrees(angle+22.5)/45) % len(propellerGlyphs)
	return propellerGlyphs[sector]
}

// drawText draws a string at the given position.
func drawText(screen tcell.Screen, x, y, maxWidth int, style tcell.Style, text string) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			break
		}
		screen.SetContent(x+col, y, r, nil, style)
		col++
	}
}
