// Package game hosts the simulation in an Ebiten window.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"voxelrift/internal/config"
	"voxelrift/internal/effects"
	"voxelrift/internal/monitoring"
	"voxelrift/internal/sim"
	"voxelrift/internal/threading/core"
)

// NotificationLife is how long a kill notification stays on screen
const NotificationLife = 800 * time.Millisecond

type notification struct {
	text  string
	until time.Duration // simulation clock
}

// Game implements ebiten.Game around one simulation
type Game struct {
	ctx     context.Context
	cfg     *config.Config
	log     *slog.Logger
	sim     *sim.Simulation
	pool    *core.WorkerPool
	effects *effects.System
	monitor *monitoring.Monitor
	loop    *GameLoop

	input    *InputHandler
	ui       *UISystem
	minimap  *Minimap
	renderer *Renderer

	notes    []notification
	snapshot sim.Snapshot
	frame    time.Duration
}

// NewGame wires the presentation around s. Close releases the worker pool.
func NewGame(ctx context.Context, cfg *config.Config, s *sim.Simulation, log *slog.Logger) (*Game, error) {
	mon, err := monitoring.NewMonitor()
	if err != nil {
		return nil, fmt.Errorf("creating monitor: %w", err)
	}
	tps := cfg.Display.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}

	pool := core.CreateDefaultWorkerPool()
	log.Debug("worker pool started", "workers", pool.NumWorkers())
	w := s.World()
	mm := NewMinimap(ctx, cfg.Minimap, w, pool)

	g := &Game{
		ctx:      ctx,
		cfg:      cfg,
		log:      log,
		sim:      s,
		pool:     pool,
		effects:  effects.NewSystem(w, rand.New(rand.NewSource(cfg.Simulation.Seed+1))),
		monitor:  mon,
		input:    NewInputHandler(),
		ui:       NewUISystem(),
		minimap:  mm,
		renderer: NewRenderer(w, mm.pixels),
		frame:    time.Second / time.Duration(tps),
	}
	g.loop = NewGameLoop(g)
	g.snapshot = s.Snapshot()
	return g, nil
}

func (g *Game) Update() error { return g.loop.Update() }
func (g *Game) Draw(screen *ebiten.Image) { g.loop.Draw(screen) }
func (g *Game) Layout(_, _ int) (int, int) { return g.loop.Layout() }
func (g *Game) Monitor() *monitoring.Monitor { return g.monitor }
func (g *Game) Close() { g.pool.Stop() }

// notify queues a notification until the simulation clock passes its deadline
func (g *Game) notify(text string, now time.Duration) {
	g.notes = append(g.notes, notification{text: text, until: now + NotificationLife})
}

func (g *Game) activeNotes(now time.Duration) []string {
	live := g.notes[:0]
	var out []string
	for _, n := range g.notes {
		if now < n.until {
			live = append(live, n)
			out = append(out, n.text)
		}
	}
	g.notes = live
	return out
}
