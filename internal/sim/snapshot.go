package sim

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/collision"
	"voxelrift/internal/monster"
	"voxelrift/internal/player"
)

// Snapshot is a copy of the state presentation needs. It shares nothing with the simulation.
type Snapshot struct {
	Clock     time.Duration
	Ticks     uint64
	Player    PlayerView
	Weapon    WeaponView
	Weapons   []string
	Mobs      []MobView
	Grenades  []ProjectileView
	Axes      []ProjectileView
	Kills     int
	Headshots int
	Stealth   bool
}

type PlayerView struct {
	Position    mgl64.Vec3
	ShakeOffset mgl64.Vec3
	Yaw, Pitch  float64
	Health      float64
	MaxHealth   float64
	Stamina     float64
	MaxStamina  float64
	Sprinting   bool
	ADS         bool
	FOV         float64
	Camera      player.CameraMode
	Alive       bool
}

type WeaponView struct {
	ID        string
	Name      string
	Magazine  int
	Reserve   int
	Count     int
	Reloading bool
}

type MobView struct {
	ID           collision.EntityID
	Position     mgl64.Vec3
	Facing       float64
	State        monster.MonsterState
	Health       float64
	Flashing     bool
	Moving       bool
	FallRotation float64
}

type ProjectileView struct {
	Position mgl64.Vec3
	Spin     float64
}

// Snapshot captures the current state
func (s *Simulation) Snapshot() Snapshot {
	p := s.player
	snap := Snapshot{
		Clock: s.clock,
		Ticks: s.ticks,
		Player: PlayerView{
			Position:    p.Position,
			ShakeOffset: p.ShakeOffset,
			Yaw:         p.Yaw,
			Pitch:       p.Pitch,
			Health:      p.Health,
			MaxHealth:   p.MaxHealth(),
			Stamina:     p.Stamina,
			MaxStamina:  p.MaxStamina(),
			Sprinting:   p.Sprinting,
			ADS:         p.ADS,
			FOV:         p.FOV,
			Camera:      p.Camera,
			Alive:       p.IsAlive(),
		},
		Weapons:   append([]string(nil), s.arsenal.Order()...),
		Kills:     s.kills,
		Headshots: s.headshots,
		Stealth:   s.stealth,
	}
	if w := s.arsenal.Current(); w != nil {
		snap.Weapon = WeaponView{
			ID:        w.ID,
			Name:      w.Name,
			Magazine:  w.Magazine,
			Reserve:   w.Reserve,
			Count:     w.Count,
			Reloading: w.Reloading(),
		}
	}

	snap.Mobs = make([]MobView, 0, s.mobs.Len())
	s.mobs.Each(func(m *monster.Monster) {
		snap.Mobs = append(snap.Mobs, MobView{
			ID:           m.ID,
			Position:     m.Position,
			Facing:       m.Facing,
			State:        m.State,
			Health:       m.Health,
			Flashing:     m.Flashing,
			Moving:       m.IsMoving(),
			FallRotation: m.FallRotation(),
		})
	})
	for _, g := range s.grenades {
		snap.Grenades = append(snap.Grenades, ProjectileView{Position: g.Position, Spin: g.Spin})
	}
	for _, a := range s.axes {
		snap.Axes = append(snap.Axes, ProjectileView{Position: a.Position, Spin: a.Spin})
	}
	return snap
}
