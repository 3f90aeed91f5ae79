package player

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelrift/internal/config"
)

const dt = 1.0 / 60

// flatGround is a world with a constant surface and optional wall at x >= wallX
type flatGround struct {
	height float64
	wallX  float64
}

func (f flatGround) TerrainHeight(x, z float64) float64 { return f.height }

func (f flatGround) CollidesHorizontally(pos mgl64.Vec3, radius, height float64) bool {
	return f.wallX != 0 && pos.X()+radius >= f.wallX
}

func newTestPlayer() *Player {
	cfg := config.Default().Player
	return New(cfg, mgl64.Vec3{0, 1 + cfg.Height, 0}, rand.New(rand.NewSource(1)))
}

func TestPlayerSettlesOnGround(t *testing.T) {
	p := newTestPlayer()
	p.Position[1] = 10
	ground := flatGround{height: 1}

	for i := 0; i < 240; i++ {
		p.Update(dt, Controls{}, ground)
	}
	assert.InDelta(t, 1+p.cfg.Height, p.Position.Y(), 1e-9)
	assert.Zero(t, p.Velocity.Y())
	assert.True(t, p.CanJump)
}

func TestJumpCostsStaminaAndNeedsGround(t *testing.T) {
	p := newTestPlayer()
	ground := flatGround{height: 1}
	p.Update(dt, Controls{}, ground)
	require.True(t, p.CanJump)

	p.Update(dt, Controls{Jump: true}, ground)
	assert.False(t, p.CanJump)
	assert.InDelta(t, p.cfg.MaxStamina-p.cfg.JumpStaminaCost, p.Stamina, 0.5)
	assert.Greater(t, p.Position.Y(), 1+p.cfg.Height)

	// airborne: a second jump is ignored
	stamina := p.Stamina
	p.Update(dt, Controls{Jump: true}, ground)
	assert.GreaterOrEqual(t, p.Stamina, stamina)
}

func TestJumpRefusedWithoutStamina(t *testing.T) {
	p := newTestPlayer()
	ground := flatGround{height: 1}
	p.Update(dt, Controls{}, ground)
	p.Stamina = 0
	p.Sprinting = true // keeps regen off for this frame
	p.tryJump()
	assert.True(t, p.CanJump)
	assert.Zero(t, p.Velocity.Y())
}

func TestSprintDrainsStaminaAndEnds(t *testing.T) {
	p := newTestPlayer()
	ground := flatGround{height: 1}

	p.Update(dt, Controls{Forward: true, Sprint: true}, ground)
	require.True(t, p.Sprinting)
	assert.Equal(t, p.cfg.BaseFOV+p.cfg.SprintFOVBonus, p.TargetFOV)

	// 100 stamina at 15/s runs out in under 7 seconds
	for i := 0; i < 60*7 && p.Sprinting; i++ {
		p.Update(dt, Controls{Forward: true, Sprint: true}, ground)
	}
	assert.False(t, p.Sprinting)
	assert.Zero(t, p.Stamina)
	assert.Equal(t, p.cfg.BaseFOV, p.TargetFOV)

	// still holding sprint does not restart it; stamina regenerates
	p.Update(dt, Controls{Forward: true, Sprint: true}, ground)
	assert.False(t, p.Sprinting)
	assert.InDelta(t, p.cfg.StaminaRegen*dt, p.Stamina, 1e-9)
}

func TestSprintWithoutMovingKeepsStamina(t *testing.T) {
	p := newTestPlayer()
	ground := flatGround{height: 1}
	for i := 0; i < 60; i++ {
		p.Update(dt, Controls{Sprint: true}, ground)
	}
	assert.True(t, p.Sprinting)
	assert.Equal(t, p.cfg.MaxStamina, p.Stamina)
}

func TestWallRevertsHorizontalPosition(t *testing.T) {
	p := newTestPlayer()
	ground := flatGround{height: 1, wallX: 0.5}
	p.Yaw = -math.Pi / 2 // facing +X

	for i := 0; i < 120; i++ {
		before := p.Position
		p.Update(dt, Controls{Forward: true, Yaw: -math.Pi / 2}, ground)
		if p.Position.X()+p.cfg.Radius >= ground.wallX {
			t.Fatalf("Player penetrated the wall at tick %d: %v", i, p.Position)
		}
		if p.Velocity.X() == 0 && p.Velocity.Z() == 0 && i > 0 {
			assert.Equal(t, before.X(), p.Position.X())
			assert.Equal(t, before.Z(), p.Position.Z())
			return
		}
	}
	t.Fatal("Expected the player to reach the wall")
}

func TestMovementFollowsYaw(t *testing.T) {
	p := newTestPlayer()
	ground := flatGround{height: 1}
	for i := 0; i < 30; i++ {
		p.Update(dt, Controls{Forward: true}, ground)
	}
	assert.Less(t, p.Position.Z(), 0.0, "yaw 0 walks toward -Z")
	assert.InDelta(t, 0, p.Position.X(), 1e-9)
}

func TestFOVEasesTowardTarget(t *testing.T) {
	p := newTestPlayer()
	require.True(t, p.EnterADS(6))
	assert.Equal(t, p.cfg.BaseFOV/6, p.TargetFOV)

	ground := flatGround{height: 1}
	p.Update(dt, Controls{}, ground)
	assert.InDelta(t, 75+(12.5-75)*0.1, p.FOV, 1e-9)

	assert.False(t, p.EnterADS(6), "already in ADS")
	assert.True(t, p.ExitADS())
	assert.Equal(t, p.cfg.BaseFOV, p.TargetFOV)
	assert.False(t, p.EnterADS(1), "no scope")
}

func TestSprintInADSKeepsScopeFOV(t *testing.T) {
	p := newTestPlayer()
	p.EnterADS(6)
	p.Update(dt, Controls{Sprint: true}, flatGround{height: 1})
	assert.True(t, p.Sprinting)
	assert.Equal(t, p.cfg.BaseFOV/6, p.TargetFOV)
}

func TestShakeDecaysToZero(t *testing.T) {
	p := newTestPlayer()
	p.SetShake(0.2)
	ground := flatGround{height: 1}

	p.Update(dt, Controls{}, ground)
	assert.InDelta(t, 0.2*0.85, p.ShakeAmount(), 1e-12)
	for i := 0; i < 3; i++ {
		assert.LessOrEqual(t, math.Abs(p.ShakeOffset[i]), 0.1)
	}
	for i := 0; i < 100; i++ {
		p.Update(dt, Controls{}, ground)
	}
	assert.Zero(t, p.ShakeAmount())
	assert.Equal(t, mgl64.Vec3{}, p.ShakeOffset)
}

func TestDamageRegenAndDeath(t *testing.T) {
	p := newTestPlayer()
	ground := flatGround{height: 1}

	assert.False(t, p.TakeDamage(30))
	p.Update(1, Controls{}, ground)
	assert.InDelta(t, 75, p.Health, 1e-9)

	assert.True(t, p.TakeDamage(500))
	assert.Zero(t, p.Health)
	assert.Equal(t, AwaitingRespawn, p.State)
	assert.False(t, p.TakeDamage(1), "dead players take no further damage")

	before := p.Position
	p.Update(dt, Controls{Forward: true}, ground)
	assert.Equal(t, before, p.Position, "dead players do not move")

	p.Respawn(mgl64.Vec3{3, 5, 3})
	assert.True(t, p.IsAlive())
	assert.Equal(t, p.cfg.MaxHealth, p.Health)
}

func TestToggleCamera(t *testing.T) {
	p := newTestPlayer()
	p.ToggleCamera()
	assert.Equal(t, ThirdPerson, p.Camera)
	assert.Equal(t, "TPP", p.Camera.String())
	p.ToggleCamera()
	assert.Equal(t, FirstPerson, p.Camera)
}
