// Package sim owns the game state and advances it one frame at a time.
package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"voxelrift/internal/collision"
	"voxelrift/internal/config"
	"voxelrift/internal/events"
	"voxelrift/internal/monster"
	"voxelrift/internal/player"
	"voxelrift/internal/projectile"
	"voxelrift/internal/weapons"
	"voxelrift/internal/world"
)

var (
	ErrMobNotFound  = errors.New("mob not found")
	ErrNoSpawnPoint = errors.New("no spawn point found")
)

// Simulation is the aggregate of all entities, the clock and the event queue.
// It is not safe for concurrent use.
type Simulation struct {
	cfg   *config.Config
	world *world.World
	log   *slog.Logger
	rng   *rand.Rand
	runID string

	clock time.Duration
	ticks uint64

	player  *player.Player
	arsenal *weapons.Arsenal
	mobs    *monster.Table
	hits    *collision.CollisionSystem

	grenades []*projectile.Grenade
	axes     []*projectile.ThrownAxe

	timers     timerQueue
	spawnTimer time.Duration
	events     events.Queue
	prevInput  Input

	stealth   bool
	kills     int
	headshots int
}

// Option configures a Simulation
type Option func(*Simulation)

// WithLogger sets the logger; a run_id attribute is added to it.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.log = l }
}

// WithRand sets the random source used for AI, spawns and spread
func WithRand(r *rand.Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

// WithoutInitialMobs skips the initial population; tests place mobs themselves.
func WithoutInitialMobs() Option {
	return func(s *Simulation) { s.cfg.Spawn.Initial = 0 }
}

// New builds a simulation on w, places the player at the grid center and spawns
// the initial population.
func New(cfg *config.Config, w *world.World, opts ...Option) (*Simulation, error) {
	if cfg == nil || w == nil {
		return nil, errors.New("sim: config and world are required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	local := *cfg
	s := &Simulation{
		cfg:   &local,
		world: w,
		log:   slog.Default(),
		rng:   rand.New(rand.NewSource(cfg.Simulation.Seed)),
		runID: uuid.NewString(),
		mobs:  monster.NewTable(),
		hits:  collision.NewCollisionSystem(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("run_id", s.runID)

	s.player = player.New(local.Player, s.spawnPoint(), s.rng)
	s.arsenal = weapons.NewArsenal(local.Weapons, local.Grenade.Count)

	for i := 0; i < local.Spawn.Initial; i++ {
		if _, err := s.SpawnMob(); err != nil {
			s.log.Warn("initial spawn failed", "index", i, "error", err)
		}
	}
	s.log.Info("simulation started",
		"mobs", s.mobs.Len(),
		"blocks", w.BlockCount(),
		"grid", w.GridSize())
	return s, nil
}

func (s *Simulation) spawnPoint() mgl64.Vec3 {
	return mgl64.Vec3{0, s.world.TerrainHeight(0, 0) + s.cfg.Player.Height, 0}
}

func (s *Simulation) RunID() string { return s.runID }
func (s *Simulation) Clock() time.Duration { return s.clock }
func (s *Simulation) Ticks() uint64 { return s.ticks }
func (s *Simulation) World() *world.World { return s.world }
func (s *Simulation) Player() *player.Player { return s.player }
func (s *Simulation) Arsenal() *weapons.Arsenal { return s.arsenal }
func (s *Simulation) Stealth() bool { return s.stealth }
func (s *Simulation) Kills() (total, heads int) { return s.kills, s.headshots }
func (s *Simulation) Mob(id collision.EntityID) (*monster.Monster, bool) {
	return s.mobs.Get(id)
}

// MobCount includes mobs that are still falling
func (s *Simulation) MobCount() int { return s.mobs.Len() }

// DrainEvents returns the events produced since the last drain
func (s *Simulation) DrainEvents() []events.Event {
	return s.events.Drain()
}

func (s *Simulation) emit(e events.Event) {
	s.events.Emit(e)
}

// Tick advances the simulation by dt, clamped to the configured maximum, in fixed order:
// player, weapons, mobs, grenades, axes, timers, spawning. A dead player freezes the
// world until Respawn.
func (s *Simulation) Tick(dt time.Duration, in Input) {
	dt = max(0, min(dt, s.cfg.Simulation.MaxDelta))
	s.clock += dt
	s.ticks++
	defer func() { s.prevInput = in }()

	if !s.player.IsAlive() {
		return
	}
	sec := dt.Seconds()

	s.handleToggles(in)
	s.player.Update(sec, in.controls(), s.world)
	s.handleWeapons(in)
	s.updateMobs(sec)
	s.updateGrenades(sec)
	s.updateAxes(sec)
	s.runTimers()
	s.updateSpawner(dt)
}

func (s *Simulation) handleToggles(in Input) {
	if in.CameraPressed {
		s.player.ToggleCamera()
	}
	if in.StealthPressed {
		s.toggleStealth()
	}
	if in.SelectWeapon != "" {
		s.selectWeapon(in.SelectWeapon)
	}
	if in.CycleWeapon != 0 {
		s.player.ExitADS()
		before := s.arsenal.Current().ID
		if next := s.arsenal.Cycle(in.CycleWeapon); next != before {
			s.emit(events.Event{Kind: events.WeaponChanged, Weapon: next})
		}
	}
}

func (s *Simulation) toggleStealth() {
	s.stealth = !s.stealth
	s.log.Debug("stealth toggled", "enabled", s.stealth)
	if !s.stealth {
		return
	}
	if sniper, ok := s.arsenal.Get(weapons.Sniper); ok && sniper.Magazine > 0 {
		s.selectWeapon(weapons.Sniper)
	}
}

// selectWeapon leaves ADS and switches; unknown ids are logged and ignored.
func (s *Simulation) selectWeapon(id string) {
	s.player.ExitADS()
	changed, err := s.arsenal.Select(id)
	if err != nil {
		s.log.Warn("weapon select rejected", "error", err)
		return
	}
	if changed {
		s.emit(events.Event{Kind: events.WeaponChanged, Weapon: id})
	}
}

// Respawn revives a dead player at the spawn point
func (s *Simulation) Respawn() {
	if s.player.IsAlive() {
		return
	}
	s.player.Respawn(s.spawnPoint())
	s.emit(events.Event{Kind: events.HealthChanged, Value: s.player.Health})
	s.log.Info("player respawned", "clock", s.clock)
}

func (s *Simulation) updateMobs(dt float64) {
	env := monster.Env{
		Player:  s.player.Position,
		Stealth: s.stealth,
		World:   s.world,
		Rng:     s.rng,
	}
	for _, m := range s.mobs.All() {
		if m.IsDying() {
			if m.AdvanceDeath() {
				s.removeMob(m)
			}
			continue
		}
		if m.Update(dt, env) {
			s.hurtPlayer(m)
		}
		s.hits.UpdateEntity(m.ID, m.Position)
	}
}

func (s *Simulation) hurtPlayer(m *monster.Monster) {
	if !s.player.IsAlive() {
		return
	}
	died := s.player.TakeDamage(s.cfg.Mobs.AttackDamage)
	s.emit(events.Event{Kind: events.PlayerHurt, Pos: m.Position, Value: s.cfg.Mobs.AttackDamage, Mob: m.ID})
	s.emit(events.Event{Kind: events.HealthChanged, Value: s.player.Health})
	if died {
		s.emit(events.Event{Kind: events.PlayerDied, Pos: s.player.Position})
		s.log.Info("player died", "clock", s.clock, "kills", s.kills)
	}
}

// removeMob drops a mob whose fall has finished and schedules its replacement.
func (s *Simulation) removeMob(m *monster.Monster) {
	s.mobs.Remove(m.ID)
	s.hits.UnregisterEntity(m.ID)
	s.emit(events.Event{Kind: events.MobRemoved, Pos: m.Position, Mob: m.ID})
	s.timers.push(timer{at: s.clock + s.cfg.Spawn.RespawnDelay, kind: timerRespawnMob})
	s.log.Debug("mob removed", "mob", uint64(m.ID), "respawn_in", s.cfg.Spawn.RespawnDelay)
}

func (s *Simulation) runTimers() {
	s.mobs.Each(func(m *monster.Monster) {
		m.UpdateFlash(s.clock)
	})
	for {
		t, ok := s.timers.popDue(s.clock)
		if !ok {
			return
		}
		switch t.kind {
		case timerRespawnMob:
			if s.mobs.Len() >= s.cfg.Spawn.Max {
				continue
			}
			if _, err := s.SpawnMob(); err != nil {
				s.log.Warn("respawn failed", "error", err)
			}
		}
	}
}
