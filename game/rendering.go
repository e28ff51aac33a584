package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sph/ui"
)

const controlsLegend = "[R] reset  [B/click] block  [Space] pause  [N] step  [,/.] speed  [Tab] panel  [arrows/wheel] camera"

// Draw renders the game.
func (g *Game) Draw() {
	g.perfCollector.RecordFrame()

	g.sim.SnapshotInto(&g.snapshot)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: 10, G: 12, B: 16, A: 255})

	g.particleRenderer.Draw(&g.snapshot, g.camera)

	g.hud.Draw(ui.HUDData{
		Title:         "SPH Dam Break",
		Particles:     g.snapshot.Len(),
		Capacity:      g.sim.Cap(),
		Tick:          g.snapshot.Tick,
		SimTime:       float64(g.snapshot.Tick) * float64(g.params.Timestep),
		StepsPerFrame: g.stepsPerUpdate,
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
		Degenerate:    g.degenerate,
	})
	g.perfPanel.Draw(g.perfCollector.Stats())
	g.statsPanel.Draw(g.lastStats)

	action := g.controls.Draw(ui.ControlState{
		Paused:        g.paused,
		StepsPerFrame: g.stepsPerUpdate,
		MaxSteps:      maxStepsPerFrame,
	})
	g.applyControlAction(action)

	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	rl.EndDrawing()
}

// applyControlAction turns panel clicks into requests for the next Update.
func (g *Game) applyControlAction(a ui.ControlAction) {
	if a.Reset {
		g.RequestReset()
	}
	if a.SpawnBlock {
		g.RequestBlock()
	}
	if a.TogglePause {
		g.paused = !g.paused
	}
	if a.Step {
		g.pendingStep = true
	}
	g.stepsPerUpdate = a.StepsPerFrame
}
