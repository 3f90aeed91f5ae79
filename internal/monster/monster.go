package monster

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/collision"
	"voxelrift/internal/config"
)

// Hit volume layout relative to the mob's position. The body box spans the legs
// through the shoulders; the head sits on top of it.
var (
	bodyOffset = mgl64.Vec3{0, 0.1, 0}
	bodySize   = mgl64.Vec3{0.6, 1.8, 0.6}
	headOffset = mgl64.Vec3{0, 1.3, 0}
	headSize   = mgl64.Vec3{0.6, 0.6, 0.6}
)

// Monster is a hostile mob
type Monster struct {
	cfg config.MobConfig

	ID           collision.EntityID
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3 // horizontal displacement per tick
	Facing       float64
	TargetFacing float64

	Health    float64
	MaxHealth float64
	State     MonsterState

	AttackCooldown float64 // seconds until the next attack is allowed

	Flashing   bool
	flashUntil time.Duration

	FallProgress float64
	HeadshotKill bool
	AnimTime     float64

	Body *collision.HitVolume
	Head *collision.HitVolume
}

// NewMonster creates a mob standing at pos
func NewMonster(cfg config.MobConfig, pos mgl64.Vec3) *Monster {
	return &Monster{
		cfg:       cfg,
		Position:  pos,
		Health:    cfg.MaxHealth,
		MaxHealth: cfg.MaxHealth,
		State:     StateWandering,
	}
}

// bind attaches the arena id and builds id-tagged hit volumes
func (m *Monster) bind(id collision.EntityID) {
	m.ID = id
	m.Body = collision.NewHitVolume(id, collision.PartBody, bodyOffset, bodySize)
	m.Head = collision.NewHitVolume(id, collision.PartHead, headOffset, headSize)
	m.syncVolumes()
}

func (m *Monster) syncVolumes() {
	if m.Body != nil {
		m.Body.MoveTo(m.Position)
		m.Head.MoveTo(m.Position)
	}
}

// HitVolumes returns the volumes rays are tested against
func (m *Monster) HitVolumes() []*collision.HitVolume {
	return []*collision.HitVolume{m.Body, m.Head}
}

func (m *Monster) IsAlive() bool {
	return m.State != StateDying
}

func (m *Monster) IsDying() bool {
	return m.State == StateDying
}

// DamageResult reports what a hit did
type DamageResult struct {
	Dealt    float64
	Headshot bool
	Killed   bool
}

// TakeDamage is the generic damage entry: a head strike doubles amount.
func (m *Monster) TakeDamage(amount float64, headshot bool, now time.Duration) DamageResult {
	if headshot {
		amount *= 2
	}
	return m.ApplyWeaponHit(amount, headshot, now)
}

// ApplyWeaponHit applies an amount already resolved by a weapon, head multiplier included.
// Hits on a dying mob are ignored.
func (m *Monster) ApplyWeaponHit(amount float64, headshot bool, now time.Duration) DamageResult {
	if m.IsDying() {
		return DamageResult{}
	}
	m.Health -= amount
	m.Flashing = true
	m.flashUntil = now + m.cfg.HitFlash

	res := DamageResult{Dealt: amount, Headshot: headshot}
	if m.Health <= 0 {
		res.Killed = m.Die(headshot)
	}
	return res
}

// Die starts the death fall. It returns false if the mob was already dying.
func (m *Monster) Die(headshot bool) bool {
	if m.IsDying() {
		return false
	}
	m.State = StateDying
	m.HeadshotKill = headshot
	m.Velocity = mgl64.Vec3{}
	return true
}

// UpdateFlash reverts the hit flash once its deadline has passed. A dying mob keeps it.
func (m *Monster) UpdateFlash(now time.Duration) {
	if m.Flashing && now >= m.flashUntil && !m.IsDying() {
		m.Flashing = false
	}
}

// AdvanceDeath steps the fall by one tick and reports whether it has finished.
func (m *Monster) AdvanceDeath() bool {
	if !m.IsDying() {
		return false
	}
	m.FallProgress = math.Min(1, m.FallProgress+m.cfg.FallStep)
	m.Position[1] -= m.cfg.FallStep
	m.syncVolumes()
	return m.FallProgress >= 1
}

// FallRotation is the pitch of the falling body; headshot kills spin harder.
func (m *Monster) FallRotation() float64 {
	mult := 1.0
	if m.HeadshotKill {
		mult = m.cfg.HeadshotFallMultiplier
	}
	return m.FallProgress * math.Pi / 2 * mult
}
