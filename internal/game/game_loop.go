package game

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"voxelrift/internal/events"
)

// alertInterval is how often performance alerts are logged, in frames
const alertInterval = 300

// GameLoop runs one frame: input, simulation step, events, effects, metrics
type GameLoop struct {
	game   *Game
	frames uint64
}

func NewGameLoop(game *Game) *GameLoop {
	return &GameLoop{game: game}
}

// Update handles all game logic updates for one frame
func (gl *GameLoop) Update() error {
	g := gl.game
	frameTimer := g.monitor.StartFrame()
	defer frameTimer.EndFrame()

	in, cmds := g.input.Poll(g.snapshot.Weapons)
	g.minimap.Apply(cmds)
	if cmds.ToggleFPS {
		g.ui.showFPS = !g.ui.showFPS
	}
	if cmds.Respawn {
		g.sim.Respawn()
	}

	start := time.Now()
	g.sim.Tick(g.frame, in)
	g.monitor.RecordTick(g.ctx, time.Since(start))

	evs := g.sim.DrainEvents()
	gl.dispatch(evs)
	g.monitor.Observe(g.ctx, evs)
	g.effects.Update(g.ctx, g.frame)

	g.snapshot = g.sim.Snapshot()
	counts := g.effects.Counts()
	g.monitor.UpdateSimMetrics(len(g.snapshot.Mobs), len(g.snapshot.Grenades), len(g.snapshot.Axes), counts.Particles)

	gl.frames++
	if gl.frames%alertInterval == 0 {
		for _, a := range g.monitor.CheckAlerts() {
			g.log.Warn("performance alert", "type", a.Type, "value", a.Value, "threshold", a.Threshold)
		}
	}
	return nil
}

// dispatch forwards events to the particle system and the notification list
func (gl *GameLoop) dispatch(evs []events.Event) {
	g := gl.game
	now := g.sim.Clock()
	for _, e := range evs {
		g.effects.Emit(e)
		switch e.Kind {
		case events.Notification:
			g.notify(e.Text, now)
		case events.PlayerDied:
			g.log.Info("player died", "kills", g.snapshot.Kills, "headshots", g.snapshot.Headshots)
		}
	}
}

// Draw handles all rendering for one frame
func (gl *GameLoop) Draw(screen *ebiten.Image) {
	g := gl.game
	snap := g.snapshot
	g.renderer.Draw(screen, snap, g.effects.View())

	w := screen.Bounds().Dx()
	g.minimap.Draw(screen, snap, w-g.cfg.Minimap.Size-10, 60)
	g.ui.Draw(screen, snap, g.activeNotes(snap.Clock), g.minimap.Title())
}

// Layout returns the screen dimensions
func (gl *GameLoop) Layout() (int, int) {
	return gl.game.cfg.Display.ScreenWidth, gl.game.cfg.Display.ScreenHeight
}
