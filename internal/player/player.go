package player

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/collision"
	"voxelrift/internal/config"
	"voxelrift/internal/mathutil"
)

// LifeState is whether the player is playing or waiting to respawn
type LifeState int

const (
	Alive LifeState = iota
	AwaitingRespawn
)

// CameraMode selects first- or third-person presentation
type CameraMode int

const (
	FirstPerson CameraMode = iota
	ThirdPerson
)

func (m CameraMode) String() string {
	if m == ThirdPerson {
		return "TPP"
	}
	return "FPP"
}

// Controls is the per-frame movement input. Sprint is a held state; Jump is a press.
type Controls struct {
	Forward, Backward, Left, Right bool
	Sprint                         bool
	Jump                           bool
	Yaw, Pitch                     float64
}

// Player is the first-person avatar. Position is at eye level.
type Player struct {
	cfg config.PlayerConfig
	rng *rand.Rand

	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Yaw      float64
	Pitch    float64

	Health    float64
	Stamina   float64
	Sprinting bool
	CanJump   bool
	ADS       bool

	FOV       float64
	TargetFOV float64

	shakeAmount float64
	ShakeOffset mgl64.Vec3

	Camera CameraMode
	State  LifeState

	sprintHeld bool
}

// New creates a player standing at spawn
func New(cfg config.PlayerConfig, spawn mgl64.Vec3, rng *rand.Rand) *Player {
	return &Player{
		cfg:       cfg,
		rng:       rng,
		Position:  spawn,
		Health:    cfg.MaxHealth,
		Stamina:   cfg.MaxStamina,
		FOV:       cfg.BaseFOV,
		TargetFOV: cfg.BaseFOV,
	}
}

func (p *Player) IsAlive() bool { return p.State == Alive }

func (p *Player) MaxHealth() float64  { return p.cfg.MaxHealth }
func (p *Player) MaxStamina() float64 { return p.cfg.MaxStamina }

// ShakeAmount is the current camera shake magnitude
func (p *Player) ShakeAmount() float64 { return p.shakeAmount }

// AimDirection is the unit view vector for the current yaw and pitch.
// Yaw 0 looks down -Z.
func (p *Player) AimDirection() mgl64.Vec3 {
	cp := math.Cos(p.Pitch)
	return mgl64.Vec3{-math.Sin(p.Yaw) * cp, math.Sin(p.Pitch), -math.Cos(p.Yaw) * cp}
}

func (p *Player) forwardFlat() mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(p.Yaw), 0, -math.Cos(p.Yaw)}
}

func (p *Player) rightFlat() mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(p.Yaw), 0, -math.Sin(p.Yaw)}
}

// Update advances the player by dt seconds against the voxel world.
func (p *Player) Update(dt float64, c Controls, vc collision.VoxelChecker) {
	if p.State != Alive {
		return
	}
	p.Yaw, p.Pitch = c.Yaw, mathutil.Clamp(c.Pitch, -math.Pi/2, math.Pi/2)

	p.updateSprint(c.Sprint)
	if c.Jump {
		p.tryJump()
	}

	p.Health = math.Min(p.cfg.MaxHealth, p.Health+p.cfg.HealthRegen*dt)

	moving := c.Forward || c.Backward
	if !p.Sprinting {
		p.Stamina = math.Min(p.cfg.MaxStamina, p.Stamina+p.cfg.StaminaRegen*dt)
	} else if moving {
		p.Stamina = math.Max(0, p.Stamina-p.cfg.StaminaDrain*dt)
		if p.Stamina == 0 {
			p.stopSprint()
		}
	}

	p.FOV = mathutil.EaseToward(p.FOV, p.TargetFOV, p.cfg.FOVSmoothing)
	p.updateShake()

	p.Velocity[1] -= p.cfg.Gravity * dt
	p.Velocity[0] -= p.Velocity[0] * p.cfg.Damping * dt
	p.Velocity[2] -= p.Velocity[2] * p.cfg.Damping * dt

	var dz, dx float64
	if c.Forward {
		dz++
	}
	if c.Backward {
		dz--
	}
	if c.Right {
		dx++
	}
	if c.Left {
		dx--
	}
	wish := mathutil.SafeNormalize(p.forwardFlat().Mul(dz).Add(p.rightFlat().Mul(dx)))
	speed := p.cfg.MoveSpeed
	if p.Sprinting {
		speed = p.cfg.SprintSpeed
	}
	p.Velocity = p.Velocity.Add(wish.Mul(speed * dt))

	pos, blocked := collision.MoveHorizontal(vc, p.Position, p.Velocity.Mul(dt), p.cfg.Radius, p.cfg.Height)
	if blocked {
		p.Velocity[0], p.Velocity[2] = 0, 0
	}
	pos[1] += p.Velocity.Y() * dt

	ground := vc.TerrainHeight(pos.X(), pos.Z()) + p.cfg.Height
	if pos.Y() < ground {
		pos[1] = ground
		p.Velocity[1] = 0
		p.CanJump = true
	}
	p.Position = pos
}

func (p *Player) updateSprint(held bool) {
	switch {
	case held && !p.sprintHeld:
		if p.Stamina > 0 {
			p.Sprinting = true
			if !p.ADS {
				p.TargetFOV = p.cfg.BaseFOV + p.cfg.SprintFOVBonus
			}
		}
	case !held && p.sprintHeld:
		p.stopSprint()
	}
	p.sprintHeld = held
}

func (p *Player) stopSprint() {
	p.Sprinting = false
	if !p.ADS {
		p.TargetFOV = p.cfg.BaseFOV
	}
}

func (p *Player) tryJump() {
	if !p.CanJump || p.Stamina <= 0 {
		return
	}
	p.Velocity[1] = p.cfg.JumpForce
	p.CanJump = false
	p.Stamina = math.Max(0, p.Stamina-p.cfg.JumpStaminaCost)
}

// updateShake rolls a fresh presentation offset and decays the amount.
func (p *Player) updateShake() {
	if p.shakeAmount <= 0 {
		return
	}
	a := p.shakeAmount
	p.ShakeOffset = mgl64.Vec3{
		(p.rng.Float64() - 0.5) * a,
		(p.rng.Float64() - 0.5) * a,
		(p.rng.Float64() - 0.5) * a,
	}
	p.shakeAmount *= p.cfg.ShakeDecay
	if p.shakeAmount < 0.001 {
		p.shakeAmount = 0
		p.ShakeOffset = mgl64.Vec3{}
	}
}

// SetShake restarts the camera shake at amount
func (p *Player) SetShake(amount float64) {
	p.shakeAmount = amount
}

// TakeDamage lowers health, floored at zero. It returns true on the hit that kills.
func (p *Player) TakeDamage(amount float64) bool {
	if p.State != Alive {
		return false
	}
	p.Health = math.Max(0, p.Health-amount)
	if p.Health == 0 {
		p.State = AwaitingRespawn
		p.Sprinting = false
		p.ADS = false
		return true
	}
	return false
}

// EnterADS narrows the FOV by zoom. Zoom <= 1 means the weapon has no scope.
func (p *Player) EnterADS(zoom float64) bool {
	if p.ADS || zoom <= 1 {
		return false
	}
	p.ADS = true
	p.TargetFOV = p.cfg.BaseFOV / zoom
	return true
}

func (p *Player) ExitADS() bool {
	if !p.ADS {
		return false
	}
	p.ADS = false
	p.TargetFOV = p.cfg.BaseFOV
	return true
}

func (p *Player) ToggleCamera() {
	if p.Camera == FirstPerson {
		p.Camera = ThirdPerson
	} else {
		p.Camera = FirstPerson
	}
}

// Respawn restores a dead player at pos
func (p *Player) Respawn(pos mgl64.Vec3) {
	p.Position = pos
	p.Velocity = mgl64.Vec3{}
	p.Health = p.cfg.MaxHealth
	p.Stamina = p.cfg.MaxStamina
	p.Sprinting, p.ADS, p.CanJump = false, false, false
	p.FOV, p.TargetFOV = p.cfg.BaseFOV, p.cfg.BaseFOV
	p.shakeAmount, p.ShakeOffset = 0, mgl64.Vec3{}
	p.State = Alive
}
