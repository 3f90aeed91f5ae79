// Command soak drives the simulation without a window: scripted input at a fixed
// rate, effects on the side, and a periodic metrics line.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"voxelrift/internal/config"
	"voxelrift/internal/effects"
	"voxelrift/internal/events"
	"voxelrift/internal/monitoring"
	"voxelrift/internal/sim"
	"voxelrift/internal/world"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "config file")
	duration := flag.Duration("duration", time.Minute, "stop after this much wall time, 0 to run until interrupted")
	report := flag.Duration("report", 5*time.Second, "metrics interval")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if err := run(ctx, cfg, logger, *report); err != nil {
		logger.Error("soak failed", "error", err)
		os.Exit(1)
	}
}

// runner owns the simulation; tick and report goroutines share it through mu
type runner struct {
	mu      sync.Mutex
	sim     *sim.Simulation
	effects *effects.System
	monitor *monitoring.Monitor
	log     *slog.Logger
	frame   time.Duration
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, every time.Duration) error {
	w := world.Generate(cfg.World, rand.New(rand.NewSource(cfg.World.Seed)))
	s, err := sim.New(cfg, w, sim.WithLogger(logger))
	if err != nil {
		return err
	}
	mon, err := monitoring.NewMonitor()
	if err != nil {
		return fmt.Errorf("creating monitor: %w", err)
	}
	tps := cfg.Display.TPS
	if tps <= 0 {
		tps = 60
	}

	r := &runner{
		sim:     s,
		effects: effects.NewSystem(w, rand.New(rand.NewSource(cfg.Simulation.Seed+1))),
		monitor: mon,
		log:     logger.With("run_id", s.RunID()),
		frame:   time.Second / time.Duration(tps),
	}
	r.log.Info("soak started", "tps", tps, "mobs", s.MobCount())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return r.tickLoop(ctx) })
	g.Go(func() error { return r.reportLoop(ctx, every) })
	err = g.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	kills, heads := r.sim.Kills()
	r.log.Info("soak finished", "clock", r.sim.Clock(), "ticks", r.sim.Ticks(), "kills", kills, "headshots", heads)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (r *runner) tickLoop(ctx context.Context) error {
	ticker := time.NewTicker(r.frame)
	defer ticker.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		n++
		r.step(ctx, script(n, r.frame))
	}
}

func (r *runner) step(ctx context.Context, in sim.Input) {
	frameTimer := r.monitor.StartFrame()
	defer frameTimer.EndFrame()

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sim.Player().IsAlive() {
		r.sim.Respawn()
	}
	start := time.Now()
	r.sim.Tick(r.frame, in)
	r.monitor.RecordTick(ctx, time.Since(start))

	evs := r.sim.DrainEvents()
	for _, e := range evs {
		r.effects.Emit(e)
		if e.Kind == events.PlayerDied {
			r.log.Info("player died", "clock", r.sim.Clock())
		}
	}
	r.monitor.Observe(ctx, evs)
	r.effects.Update(ctx, r.frame)

	snap := r.sim.Snapshot()
	r.monitor.UpdateSimMetrics(len(snap.Mobs), len(snap.Grenades), len(snap.Axes), r.effects.Counts().Particles)
}

func (r *runner) reportLoop(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		m := r.monitor.GetCurrentMetrics()
		r.log.Info("metrics", m.LogAttrs()...)
		for _, a := range r.monitor.CheckAlerts() {
			r.log.Warn("performance alert", "type", a.Type, "value", a.Value, "threshold", a.Threshold)
		}
	}
}

// script turns in place and works through the arsenal: bursts of fire, a reload,
// a grenade and an axe throw every few seconds.
func script(n uint64, frame time.Duration) sim.Input {
	t := time.Duration(n) * frame
	sec := t.Seconds()
	in := sim.Input{
		Yaw:   math.Mod(sec*0.6, 2*math.Pi),
		Pitch: -0.05,
		Fire:  int(sec*2)%2 == 0,
	}
	switch phase := int(sec) % 12; {
	case n%uint64(time.Second/frame) != 0:
	case phase == 0:
		in.CycleWeapon = 1
	case phase == 5:
		in.ReloadPressed = true
	case phase == 7:
		in.GrenadePressed = true
	case phase == 10:
		in.AxePressed = true
	}
	return in
}
