package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlState is the viewer state reflected by the control panel.
type ControlState struct {
	Paused        bool
	StepsPerFrame int
	MaxSteps      int
}

// ControlAction reports what the user clicked this frame.
type ControlAction struct {
	Reset         bool
	SpawnBlock    bool
	TogglePause   bool
	Step          bool // advance one tick while paused
	StepsPerFrame int
}

// ControlPanel renders the raygui buttons and speed slider.
type ControlPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlPanel creates a new control panel.
func NewControlPanel(x, y, width int32) *ControlPanel {
	return &ControlPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// SetPosition updates the panel position.
func (c *ControlPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// IsVisible returns whether the panel is shown.
func (c *ControlPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point is over the panel, so clicks on it
// are not treated as spawn requests.
func (c *ControlPanel) Contains(px, py float32) bool {
	if !c.visible {
		return false
	}
	return px >= float32(c.x) && px <= float32(c.x+c.width) &&
		py >= float32(c.y) && py <= float32(c.y+c.height())
}

func (c *ControlPanel) height() int32 {
	return 2*c.renderer.Theme.Padding + 3*34 + 40
}

// Draw renders the panel and returns the actions triggered this frame.
func (c *ControlPanel) Draw(state ControlState) ControlAction {
	action := ControlAction{StepsPerFrame: state.StepsPerFrame}
	if !c.visible {
		return action
	}

	r := c.renderer
	padding := float32(r.Theme.Padding)
	r.DrawPanel(c.x, c.y, c.width, c.height())

	x := float32(c.x) + padding
	y := float32(c.y) + padding
	half := (float32(c.width) - 3*padding) / 2

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, "Reset") {
		action.Reset = true
	}
	if gui.Button(rl.Rectangle{X: x + half + padding, Y: y, Width: half, Height: 28}, "Spawn block") {
		action.SpawnBlock = true
	}
	y += 34

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 28}, toggleText(state.Paused, "Resume", "Pause")) {
		action.TogglePause = true
	}
	if state.Paused && gui.Button(rl.Rectangle{X: x + half + padding, Y: y, Width: half, Height: 28}, "Step") {
		action.Step = true
	}
	y += 34

	rl.DrawText(fmt.Sprintf("Steps per frame: %d", state.StepsPerFrame), int32(x), int32(y), r.Theme.FontSize, r.Theme.LabelColor)
	y += 16
	maxSteps := state.MaxSteps
	if maxSteps < 1 {
		maxSteps = 1
	}
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: y, Width: float32(c.width) - 2*padding, Height: 20},
		"1", fmt.Sprintf("%d", maxSteps),
		float32(state.StepsPerFrame), 1, float32(maxSteps),
	)
	action.StepsPerFrame = clampSteps(int(v+0.5), maxSteps)

	return action
}

func clampSteps(n, max int) int {
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
