package projectile

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelrift/internal/collision"
	"voxelrift/internal/config"
)

const dt = 1.0 / 60

type flatWorld float64

func (f flatWorld) TerrainHeight(x, z float64) float64 { return float64(f) }

func (f flatWorld) CollidesHorizontally(mgl64.Vec3, float64, float64) bool { return false }

func TestGrenadeFalloff(t *testing.T) {
	g := NewGrenade(config.Default().Grenade, mgl64.Vec3{}, mgl64.Vec3{0, 0, -1})

	tests := []struct {
		d, want float64
	}{
		{0, 80},
		{2.5, 60},
		{5, 40},
		{9.999, 80 * (1 - 9.999/10)},
		{10, 0},
		{15, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, g.DamageAt(tt.d), 1e-9, "distance %g", tt.d)
	}

	prev := math.Inf(1)
	for d := 0.0; d < 12; d += 0.5 {
		got := g.DamageAt(d)
		assert.LessOrEqual(t, got, prev, "damage must not grow with distance")
		prev = got
	}
}

func TestGrenadeLandsWithinBoundedTicks(t *testing.T) {
	cfg := config.Default()
	aim := mgl64.Vec3{0, -0.3, -1}.Normalize()
	g := NewGrenade(cfg.Grenade, mgl64.Vec3{0, 2.7, 0}, aim)

	ticks := 0
	for !g.Update(dt, cfg.Player.Gravity, flatWorld(1)) {
		ticks++
		require.Less(t, ticks, 600, "grenade never landed")
	}
	assert.Less(t, ticks, 60)
	assert.LessOrEqual(t, g.Position.Y(), 1.2)
}

type stubTargets struct {
	hit   collision.Hit
	ok    bool
	calls int
}

func (s *stubTargets) Raycast(origin, dir mgl64.Vec3, maxDist float64) (collision.Hit, bool) {
	s.calls++
	return s.hit, s.ok
}

func TestAxeStopsOnTarget(t *testing.T) {
	cfg := config.Default()
	targets := &stubTargets{hit: collision.Hit{Owner: 7, Part: collision.PartHead}, ok: true}
	a := NewThrownAxe(cfg.Axe, cfg.Grenade.GroundEpsilon, mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0, 0, -1})

	out := a.Update(dt, cfg.Player.Gravity, flatWorld(0), targets)
	require.True(t, out.Done)
	require.NotNil(t, out.Hit)
	assert.Equal(t, collision.EntityID(7), out.Hit.Owner)
	assert.True(t, out.Hit.Headshot())
}

func TestAxeUsesHalfGravityAndLands(t *testing.T) {
	cfg := config.Default()
	targets := &stubTargets{}
	a := NewThrownAxe(cfg.Axe, cfg.Grenade.GroundEpsilon, mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0, 0, -1})

	a.Update(dt, cfg.Player.Gravity, flatWorld(0), targets)
	assert.InDelta(t, -cfg.Player.Gravity*0.5*dt, a.Velocity.Y(), 1e-12)

	done := false
	for i := 0; i < 600 && !done; i++ {
		done = a.Update(dt, cfg.Player.Gravity, flatWorld(0), targets).Done
	}
	assert.True(t, done)
	assert.Greater(t, a.Spin, 0.0)
}

func TestAxeExpiresPastRange(t *testing.T) {
	cfg := config.Default()
	cfg.Axe.GravityScale = 0
	a := NewThrownAxe(cfg.Axe, cfg.Grenade.GroundEpsilon, mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0, 0, -1})

	ticks := 0
	for !a.Update(dt, cfg.Player.Gravity, flatWorld(0), &stubTargets{}).Done {
		ticks++
		require.Less(t, ticks, 1000)
	}
	// 50 units at 25 u/s
	assert.InDelta(t, 120, ticks, 2)
}
