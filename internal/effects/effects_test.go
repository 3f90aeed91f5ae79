package effects

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/events"
)

type flat float64

func (f flat) TerrainHeight(x, z float64) float64 { return float64(f) }

func TestBloodBurstLandsAndLeavesPools(t *testing.T) {
	s := NewSystem(flat(1), rand.New(rand.NewSource(1)))
	s.Emit(events.Event{Kind: events.BloodBurst, Pos: mgl64.Vec3{0, 2, 0}, Intensity: 150})

	if c := s.Counts(); c.Bursts != 1 || c.Particles != 150 {
		t.Fatalf("Expected one burst of 150 particles, got %+v", c)
	}

	for i := 0; i < 120; i++ {
		s.Update(context.Background(), 16*time.Millisecond)
	}
	v := s.View()
	for _, p := range v.Blood {
		if !p.Landed {
			t.Fatalf("Expected every particle to land within two seconds, got %+v", p)
		}
		if p.Pos.Y() != 1+BloodGroundOffset {
			t.Errorf("Expected landed particle at ground offset, got y=%f", p.Pos.Y())
		}
	}
	if len(v.Pools) == 0 {
		t.Error("Expected landing particles to leave pools")
	}
}

func TestBurstExpires(t *testing.T) {
	s := NewSystem(flat(0), rand.New(rand.NewSource(2)))
	s.Emit(events.Event{Kind: events.BloodBurst, Pos: mgl64.Vec3{0, 1, 0}, Intensity: 10, Headshot: true})

	// life 2 fading at 0.3/s outlasts the age cap of 6s
	for i := 0; i < 70; i++ {
		s.Update(context.Background(), 100*time.Millisecond)
	}
	if c := s.Counts(); c.Bursts != 0 {
		t.Errorf("Expected the burst to expire, got %d", c.Bursts)
	}
}

func TestPoolsGrowAndCap(t *testing.T) {
	s := NewSystem(flat(0), rand.New(rand.NewSource(3)))
	s.Emit(events.Event{Kind: events.BloodPool, Pos: mgl64.Vec3{3, 9, 3}, Intensity: 2})

	for i := 0; i < 100; i++ {
		s.Update(context.Background(), 100*time.Millisecond)
	}
	v := s.View()
	if len(v.Pools) != 1 {
		t.Fatalf("Expected 1 pool, got %d", len(v.Pools))
	}
	if v.Pools[0].Pos.Y() != BloodGroundOffset {
		t.Errorf("Expected pool on the ground, got y=%f", v.Pools[0].Pos.Y())
	}
	if v.Pools[0].Radius() != 2*(1+PoolMaxGrowth) {
		t.Errorf("Expected radius capped at %f, got %f", 2*(1+PoolMaxGrowth), v.Pools[0].Radius())
	}
}

func TestExplosionAndFlashFade(t *testing.T) {
	s := NewSystem(flat(0), rand.New(rand.NewSource(4)))
	s.Emit(events.Event{Kind: events.Explosion, Pos: mgl64.Vec3{0, 1, 0}, Intensity: 10})
	s.Emit(events.Event{Kind: events.MuzzleFlash, Pos: mgl64.Vec3{0, 1, 0}})
	s.Emit(events.Event{Kind: events.Kill})

	c := s.Counts()
	if c.Explosions != 1 || c.Flashes != 1 {
		t.Fatalf("Expected one explosion and one flash, got %+v", c)
	}
	v := s.View()
	for _, p := range v.Explosions[0].Points {
		if p.Sub(mgl64.Vec3{0, 1, 0}).Len() > ExplosionSpread {
			t.Errorf("Explosion point %v too far from the blast", p)
		}
	}

	s.Update(context.Background(), 50*time.Millisecond)
	if c := s.Counts(); c.Flashes != 0 || c.Explosions != 1 {
		t.Errorf("Expected the flash gone and the explosion alive, got %+v", c)
	}
	for i := 0; i < 20; i++ {
		s.Update(context.Background(), 100*time.Millisecond)
	}
	if c := s.Counts(); c.Explosions != 0 {
		t.Errorf("Expected the explosion to fade out, got %d", c.Explosions)
	}
}
