package monster

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/collision"
	"voxelrift/internal/mathutil"
)

// Env is what a mob perceives during its update
type Env struct {
	Player  mgl64.Vec3
	Stealth bool
	World   collision.VoxelChecker
	Rng     *rand.Rand
}

// Update runs one AI tick. It returns true when the mob strikes the player this tick;
// the caller applies the damage.
func (m *Monster) Update(dt float64, env Env) bool {
	if m.IsDying() {
		return false
	}

	detection, speed := m.cfg.DetectionRange, m.cfg.PursuitSpeed
	if env.Stealth {
		detection, speed = m.cfg.StealthDetectionRange, m.cfg.StealthPursuitSpeed
	}

	attacked := false
	distance := env.Player.Sub(m.Position).Len()
	if distance < detection {
		m.State = StatePursuing
		dir := mathutil.SafeNormalize(mathutil.Flatten(env.Player.Sub(m.Position)))
		m.Velocity = dir.Mul(speed * dt)
		m.TargetFacing = math.Atan2(dir.X(), dir.Z())

		if distance < m.cfg.AttackRange {
			m.State = StateAttacking
			if m.AttackCooldown <= 0 {
				attacked = true
				m.AttackCooldown = m.cfg.AttackCooldown.Seconds()
			}
		}
	} else {
		m.State = StateWandering
		if env.Rng.Float64() < m.cfg.WanderChance {
			angle := env.Rng.Float64() * 2 * math.Pi
			m.Velocity = mgl64.Vec3{math.Sin(angle), 0, math.Cos(angle)}.Mul(m.cfg.WanderSpeed * dt)
			m.TargetFacing = angle
		}
	}

	if m.AttackCooldown > 0 {
		m.AttackCooldown -= dt
	}

	pos, blocked := collision.MoveHorizontal(env.World, m.Position, m.Velocity, m.cfg.Radius, m.cfg.Height)
	if blocked {
		m.Velocity[0], m.Velocity[2] = 0, 0
	}
	m.Velocity = m.Velocity.Mul(m.cfg.Damping)
	pos[1] = env.World.TerrainHeight(pos.X(), pos.Z()) + m.cfg.FootOffset
	m.Position = pos

	m.AnimTime += dt * 5
	m.Facing = mathutil.EaseToward(m.Facing, m.TargetFacing, m.cfg.TurnSmoothing)
	m.syncVolumes()
	return attacked
}

// IsMoving mirrors the walk animation threshold
func (m *Monster) IsMoving() bool {
	return m.Velocity.Len() > 0.01
}
