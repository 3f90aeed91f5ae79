// Package projectile integrates thrown grenades and axes.
package projectile

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/collision"
	"voxelrift/internal/config"
)

// Raycaster finds the nearest hit volume along a ray
type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (collision.Hit, bool)
}

// Grenade is a thrown explosive under full gravity
type Grenade struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Spin     float64
	Damage   float64
	Radius   float64

	epsilon float64
}

// NewGrenade throws a grenade from origin along unit direction dir
func NewGrenade(cfg config.GrenadeConfig, origin, dir mgl64.Vec3) *Grenade {
	return &Grenade{
		Position: origin,
		Velocity: dir.Mul(cfg.ThrowForce),
		Damage:   cfg.Damage,
		Radius:   cfg.Radius,
		epsilon:  cfg.GroundEpsilon,
	}
}

// Update integrates one tick and reports whether the grenade reached the ground and explodes.
func (g *Grenade) Update(dt, gravity float64, world collision.VoxelChecker) bool {
	g.Velocity[1] -= gravity * dt
	g.Position = g.Position.Add(g.Velocity.Mul(dt))
	g.Spin += dt * 10
	return g.Position.Y() <= world.TerrainHeight(g.Position.X(), g.Position.Z())+g.epsilon
}

// DamageAt is the splash damage at distance d: linear falloff, zero at or beyond the radius.
func (g *Grenade) DamageAt(d float64) float64 {
	if d >= g.Radius {
		return 0
	}
	return g.Damage * (1 - d/g.Radius)
}

// ThrownAxe is a spinning axe under reduced gravity
type ThrownAxe struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Spin     float64
	Origin   mgl64.Vec3

	cfg config.AxeConfig
	eps float64
}

// AxeOutcome is what happened to an axe during a tick
type AxeOutcome struct {
	Done bool
	Hit  *collision.Hit
}

// NewThrownAxe throws an axe from origin along unit direction dir
func NewThrownAxe(cfg config.AxeConfig, groundEpsilon float64, origin, dir mgl64.Vec3) *ThrownAxe {
	return &ThrownAxe{
		Position: origin,
		Velocity: dir.Mul(cfg.ThrowSpeed),
		Origin:   origin,
		cfg:      cfg,
		eps:      groundEpsilon,
	}
}

// Update integrates one tick, then probes a short ray along the flight path for targets.
// The axe is done when it strikes a target, lands or flies past its range.
func (a *ThrownAxe) Update(dt, gravity float64, world collision.VoxelChecker, targets Raycaster) AxeOutcome {
	a.Velocity[1] -= gravity * a.cfg.GravityScale * dt
	a.Position = a.Position.Add(a.Velocity.Mul(dt))
	a.Spin += dt * a.cfg.SpinRate

	if hit, ok := targets.Raycast(a.Position, a.Velocity, a.cfg.HitRay); ok {
		return AxeOutcome{Done: true, Hit: &hit}
	}
	if a.Position.Y() <= world.TerrainHeight(a.Position.X(), a.Position.Z())+a.eps {
		return AxeOutcome{Done: true}
	}
	if a.cfg.ThrowRange > 0 && a.Position.Sub(a.Origin).Len() > a.cfg.ThrowRange {
		return AxeOutcome{Done: true}
	}
	return AxeOutcome{}
}
