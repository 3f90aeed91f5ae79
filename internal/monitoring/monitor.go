// Package monitoring tracks frame timing and simulation counters and mirrors them
// to OpenTelemetry instruments.
package monitoring

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"voxelrift/internal/events"
)

const instrumentationName = "voxelrift/internal/monitoring"

// Alert thresholds
const (
	MinFPS          = 30
	MaxMemoryMB     = 500
	MaxTickDuration = 8 * time.Millisecond
)

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Monitor collects per-frame timings and event counters
type Monitor struct {
	frameCount atomic.Uint64
	frameTime  atomic.Int64 // nanoseconds, last frame
	tickTime   atomic.Int64 // nanoseconds, last simulation step

	mobs      atomic.Int64
	grenades  atomic.Int64
	axes      atomic.Int64
	particles atomic.Int64

	shots     atomic.Uint64
	kills     atomic.Uint64
	headshots atomic.Uint64
	hurts     atomic.Uint64
	deaths    atomic.Uint64

	mutex        sync.RWMutex
	avgFrameTime float64
	startTime    time.Time

	tickCounter  metric.Int64Counter
	tickDuration metric.Float64Histogram
	shotCounter  metric.Int64Counter
	killCounter  metric.Int64Counter
	hurtCounter  metric.Int64Counter
	entityGauge  metric.Int64ObservableGauge
}

// NewMonitor registers instruments on the global meter provider, a no-op unless
// the host installed one.
func NewMonitor() (*Monitor, error) {
	pm := &Monitor{startTime: time.Now()}
	m := meter()

	var err error
	pm.tickCounter, err = m.Int64Counter("sim.ticks",
		metric.WithDescription("Simulation steps executed"))
	if err != nil {
		return nil, fmt.Errorf("creating tick counter: %w", err)
	}
	pm.tickDuration, err = m.Float64Histogram("sim.tick.duration",
		metric.WithDescription("Wall time of one simulation step"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("creating tick histogram: %w", err)
	}
	pm.shotCounter, err = m.Int64Counter("sim.shots",
		metric.WithDescription("Shots fired"))
	if err != nil {
		return nil, fmt.Errorf("creating shot counter: %w", err)
	}
	pm.killCounter, err = m.Int64Counter("sim.kills",
		metric.WithDescription("Mobs killed"))
	if err != nil {
		return nil, fmt.Errorf("creating kill counter: %w", err)
	}
	pm.hurtCounter, err = m.Int64Counter("sim.player.hurt",
		metric.WithDescription("Mob attacks that landed on the player"))
	if err != nil {
		return nil, fmt.Errorf("creating hurt counter: %w", err)
	}
	pm.entityGauge, err = m.Int64ObservableGauge("sim.entities",
		metric.WithDescription("Live entities by kind"))
	if err != nil {
		return nil, fmt.Errorf("creating entity gauge: %w", err)
	}
	_, err = m.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(pm.entityGauge, pm.mobs.Load(), metric.WithAttributes(attribute.String("kind", "mob")))
		o.ObserveInt64(pm.entityGauge, pm.grenades.Load(), metric.WithAttributes(attribute.String("kind", "grenade")))
		o.ObserveInt64(pm.entityGauge, pm.axes.Load(), metric.WithAttributes(attribute.String("kind", "axe")))
		o.ObserveInt64(pm.entityGauge, pm.particles.Load(), metric.WithAttributes(attribute.String("kind", "particle")))
		return nil
	}, pm.entityGauge)
	if err != nil {
		return nil, fmt.Errorf("registering entity callback: %w", err)
	}
	return pm, nil
}

// FrameTimer measures one frame
type FrameTimer struct {
	monitor   *Monitor
	startTime time.Time
}

func (pm *Monitor) StartFrame() *FrameTimer {
	return &FrameTimer{monitor: pm, startTime: time.Now()}
}

// EndFrame records the frame and folds it into the moving average
func (ft *FrameTimer) EndFrame() time.Duration {
	d := time.Since(ft.startTime)
	pm := ft.monitor
	pm.frameTime.Store(d.Nanoseconds())
	n := pm.frameCount.Add(1)

	pm.mutex.Lock()
	if n == 1 {
		pm.avgFrameTime = float64(d.Nanoseconds())
	} else {
		pm.avgFrameTime += (float64(d.Nanoseconds()) - pm.avgFrameTime) * 0.05
	}
	pm.mutex.Unlock()
	return d
}

// RecordTick stores the wall time of one simulation step
func (pm *Monitor) RecordTick(ctx context.Context, d time.Duration) {
	pm.tickTime.Store(d.Nanoseconds())
	pm.tickCounter.Add(ctx, 1)
	pm.tickDuration.Record(ctx, float64(d.Microseconds())/1000)
}

// UpdateSimMetrics stores the entity counts observed this frame
func (pm *Monitor) UpdateSimMetrics(mobs, grenades, axes, particles int) {
	pm.mobs.Store(int64(mobs))
	pm.grenades.Store(int64(grenades))
	pm.axes.Store(int64(axes))
	pm.particles.Store(int64(particles))
}

// Observe counts the events of one frame
func (pm *Monitor) Observe(ctx context.Context, evs []events.Event) {
	for _, e := range evs {
		switch e.Kind {
		case events.MuzzleFlash:
			pm.shots.Add(1)
			pm.shotCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("weapon", e.Weapon)))
		case events.Kill:
			pm.kills.Add(1)
			if e.Headshot {
				pm.headshots.Add(1)
			}
			pm.killCounter.Add(ctx, 1, metric.WithAttributes(
				attribute.String("weapon", e.Weapon),
				attribute.Bool("headshot", e.Headshot)))
		case events.PlayerHurt:
			pm.hurts.Add(1)
			pm.hurtCounter.Add(ctx, 1)
		case events.PlayerDied:
			pm.deaths.Add(1)
		}
	}
}

// Metrics is a point-in-time copy of the counters
type Metrics struct {
	Frames          uint64
	FramesPerSecond float64
	AvgFrameTime    time.Duration
	LastTick        time.Duration
	Mobs            int
	Grenades        int
	Axes            int
	Particles       int
	Shots           uint64
	Kills           uint64
	Headshots       uint64
	Hurts           uint64
	Deaths          uint64
	MemoryUsageMB   uint64
	Uptime          time.Duration
}

func (pm *Monitor) GetCurrentMetrics() Metrics {
	pm.mutex.RLock()
	avg := pm.avgFrameTime
	pm.mutex.RUnlock()

	fps := 0.0
	if ft := pm.frameTime.Load(); ft > 0 {
		fps = float64(time.Second) / float64(ft)
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return Metrics{
		Frames:          pm.frameCount.Load(),
		FramesPerSecond: fps,
		AvgFrameTime:    time.Duration(avg),
		LastTick:        time.Duration(pm.tickTime.Load()),
		Mobs:            int(pm.mobs.Load()),
		Grenades:        int(pm.grenades.Load()),
		Axes:            int(pm.axes.Load()),
		Particles:       int(pm.particles.Load()),
		Shots:           pm.shots.Load(),
		Kills:           pm.kills.Load(),
		Headshots:       pm.headshots.Load(),
		Hurts:           pm.hurts.Load(),
		Deaths:          pm.deaths.Load(),
		MemoryUsageMB:   mem.Alloc / 1024 / 1024,
		Uptime:          pm.Uptime(),
	}
}

// LogAttrs flattens the metrics for a structured log line
func (m Metrics) LogAttrs() []any {
	return []any{
		"frames", m.Frames,
		"fps", m.FramesPerSecond,
		"avg_frame", m.AvgFrameTime,
		"last_tick", m.LastTick,
		"mobs", m.Mobs,
		"grenades", m.Grenades,
		"axes", m.Axes,
		"particles", m.Particles,
		"shots", m.Shots,
		"kills", m.Kills,
		"headshots", m.Headshots,
		"hurts", m.Hurts,
		"deaths", m.Deaths,
		"mem_mb", m.MemoryUsageMB,
		"uptime", m.Uptime.Round(time.Second),
	}
}

// Uptime is the wall time since the monitor was created
func (pm *Monitor) Uptime() time.Duration {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()
	return time.Since(pm.startTime)
}

// Alert is a performance warning
type Alert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckAlerts compares the latest frame, tick and heap against the thresholds
func (pm *Monitor) CheckAlerts() []Alert {
	var alerts []Alert
	now := time.Now()

	if ft := pm.frameTime.Load(); ft > 0 {
		fps := float64(time.Second) / float64(ft)
		if fps < MinFPS {
			alerts = append(alerts, Alert{
				Type:      "low_fps",
				Message:   fmt.Sprintf("Frame rate is below %d FPS", MinFPS),
				Value:     fps,
				Threshold: MinFPS,
				Timestamp: now,
			})
		}
	}

	if tick := time.Duration(pm.tickTime.Load()); tick > MaxTickDuration {
		alerts = append(alerts, Alert{
			Type:      "slow_tick",
			Message:   fmt.Sprintf("Simulation step took longer than %s", MaxTickDuration),
			Value:     float64(tick.Microseconds()) / 1000,
			Threshold: float64(MaxTickDuration.Microseconds()) / 1000,
			Timestamp: now,
		})
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	if mb := float64(mem.Alloc) / 1024 / 1024; mb > MaxMemoryMB {
		alerts = append(alerts, Alert{
			Type:      "high_memory",
			Message:   fmt.Sprintf("Memory usage is above %dMB", MaxMemoryMB),
			Value:     mb,
			Threshold: MaxMemoryMB,
			Timestamp: now,
		})
	}
	return alerts
}
