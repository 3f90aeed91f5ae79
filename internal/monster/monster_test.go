package monster

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/config"
)

const dt = 1.0 / 60

// flatWorld has a constant surface and blocks everything at x >= wallX when wallX != 0
type flatWorld struct {
	height float64
	wallX  float64
}

func (f flatWorld) TerrainHeight(x, z float64) float64 { return f.height }

func (f flatWorld) CollidesHorizontally(pos mgl64.Vec3, radius, height float64) bool {
	return f.wallX != 0 && pos.X()+radius >= f.wallX
}

func newTestMonster(pos mgl64.Vec3) *Monster {
	m := NewMonster(config.Default().Mobs, pos)
	NewTable().Insert(m)
	return m
}

func testEnv(player mgl64.Vec3, w flatWorld) Env {
	return Env{Player: player, World: w, Rng: rand.New(rand.NewSource(3))}
}

func TestMonsterPursuesPlayerInRange(t *testing.T) {
	w := flatWorld{height: 1}
	m := newTestMonster(mgl64.Vec3{0, 1.85, 0})
	player := mgl64.Vec3{10, 2.7, 0}

	m.Update(dt, testEnv(player, w))

	if m.State != StatePursuing {
		t.Errorf("Expected pursuing, got %s", m.State)
	}
	if m.Position.X() <= 0 {
		t.Errorf("Expected mob to move toward +X, got %v", m.Position)
	}
	if math.Abs(m.TargetFacing-math.Pi/2) > 1e-9 {
		t.Errorf("Expected target facing pi/2, got %g", m.TargetFacing)
	}
	if math.Abs(m.Position.Y()-(1+m.cfg.FootOffset)) > 1e-9 {
		t.Errorf("Expected y pinned to terrain + foot offset, got %g", m.Position.Y())
	}
}

func TestMonsterPursuitSpeed(t *testing.T) {
	w := flatWorld{height: 1}
	m := newTestMonster(mgl64.Vec3{0, 1.85, 0})
	player := mgl64.Vec3{25, 1.85, 0}

	for i := 0; i < 60; i++ {
		m.Update(dt, testEnv(player, w))
	}
	if math.Abs(m.Position.X()-1.5) > 1e-6 {
		t.Errorf("Expected 1.5 units covered in one second, got %g", m.Position.X())
	}
}

func TestMonsterStealthShrinksDetection(t *testing.T) {
	w := flatWorld{height: 1}
	m := newTestMonster(mgl64.Vec3{0, 1.85, 0})
	env := testEnv(mgl64.Vec3{12, 1.85, 0}, w)
	env.Stealth = true

	m.Update(dt, env)
	if m.State != StateWandering {
		t.Errorf("Expected a player 12 units away to go unseen in stealth, got %s", m.State)
	}

	env.Player = mgl64.Vec3{5, 1.85, 0}
	m.Update(dt, env)
	if m.State != StatePursuing {
		t.Fatalf("Expected pursuit within 8 units, got %s", m.State)
	}
	step := m.Velocity.Len() / m.cfg.Damping
	if math.Abs(step-0.7*dt) > 1e-9 {
		t.Errorf("Expected stealth step %g, got %g", 0.7*dt, step)
	}
}

func TestMonsterAttackCooldown(t *testing.T) {
	w := flatWorld{height: 1}
	m := newTestMonster(mgl64.Vec3{0, 1.85, 0})
	player := mgl64.Vec3{0, 1.85, 1}

	attacks := 0
	ticks := int(4.5 / dt)
	for i := 0; i < ticks; i++ {
		// keep the distance constant by moving the mob back
		m.Position = mgl64.Vec3{0, 1.85, 0}
		if m.Update(dt, testEnv(player, w)) {
			attacks++
		}
	}
	// attacks at t=0, t~2s and t~4s
	if attacks != 3 {
		t.Errorf("Expected 3 attacks in 4.5s, got %d", attacks)
	}
	if m.State != StateAttacking {
		t.Errorf("Expected attacking state, got %s", m.State)
	}
}

func TestMonsterWallRevertsPosition(t *testing.T) {
	w := flatWorld{height: 1, wallX: 0.5}
	m := newTestMonster(mgl64.Vec3{0.19, 1.85, 0})
	player := mgl64.Vec3{10, 1.85, 0}

	before := m.Position
	m.Update(dt, testEnv(player, w))

	if m.Position.X() != before.X() || m.Position.Z() != before.Z() {
		t.Errorf("Expected horizontal position %v to be kept, got %v", before, m.Position)
	}
	if m.Velocity.X() != 0 || m.Velocity.Z() != 0 {
		t.Errorf("Expected zero horizontal velocity, got %v", m.Velocity)
	}
}

func TestTakeDamageDoublesOnHeadshot(t *testing.T) {
	m := newTestMonster(mgl64.Vec3{})
	res := m.TakeDamage(20, true, 0)
	if res.Dealt != 40 || m.Health != 60 {
		t.Errorf("Expected 40 dealt and 60 left, got %g dealt and %g left", res.Dealt, m.Health)
	}
	res = m.TakeDamage(20, false, 0)
	if res.Dealt != 20 || m.Health != 40 {
		t.Errorf("Expected 20 dealt and 40 left, got %g dealt and %g left", res.Dealt, m.Health)
	}
}

func TestDeathHappensOnce(t *testing.T) {
	m := newTestMonster(mgl64.Vec3{})
	res := m.ApplyWeaponHit(999, true, 0)
	if !res.Killed || !m.IsDying() || !m.HeadshotKill {
		t.Fatalf("Expected headshot kill, got %+v state %s", res, m.State)
	}
	if again := m.ApplyWeaponHit(999, false, 0); again.Killed || again.Dealt != 0 {
		t.Errorf("Expected hits on a dying mob to be ignored, got %+v", again)
	}
	if m.Die(false) {
		t.Error("Expected Die to be a no-op on a dying mob")
	}
	if m.Update(dt, testEnv(mgl64.Vec3{}, flatWorld{})) {
		t.Error("Dying mobs must not attack")
	}
}

func TestDeathFallDuration(t *testing.T) {
	m := newTestMonster(mgl64.Vec3{0, 2, 0})
	m.Die(true)

	ticks := 0
	for !m.AdvanceDeath() {
		ticks++
		if ticks > 100 {
			t.Fatal("death fall never finished")
		}
	}
	ticks++
	if ticks != 13 {
		t.Errorf("Expected the fall to take 13 ticks, got %d", ticks)
	}
	if math.Abs(m.FallRotation()-3*math.Pi/2) > 1e-9 {
		t.Errorf("Expected headshot fall rotation 3*pi/2, got %g", m.FallRotation())
	}
}

func TestHitFlashRevert(t *testing.T) {
	m := newTestMonster(mgl64.Vec3{})
	m.TakeDamage(10, false, time.Second)
	if !m.Flashing {
		t.Fatal("Expected a hit flash")
	}
	m.UpdateFlash(time.Second + 50*time.Millisecond)
	if !m.Flashing {
		t.Error("Expected flash to last 100ms")
	}
	m.UpdateFlash(time.Second + 100*time.Millisecond)
	if m.Flashing {
		t.Error("Expected flash to revert after 100ms")
	}

	m.TakeDamage(10, false, 2*time.Second)
	m.Die(false)
	m.UpdateFlash(3 * time.Second)
	if !m.Flashing {
		t.Error("Expected revert to be skipped for a dying mob")
	}
}

func TestHitVolumesFollowMob(t *testing.T) {
	m := newTestMonster(mgl64.Vec3{4, 2, 4})
	if !m.Head.Box.Center.ApproxEqual(mgl64.Vec3{4, 3.3, 4}) {
		t.Errorf("Expected head at {4 3.3 4}, got %v", m.Head.Box.Center)
	}
	if m.Body.Owner != m.ID || m.Head.Owner != m.ID {
		t.Error("Expected volumes to carry the mob id")
	}
}
