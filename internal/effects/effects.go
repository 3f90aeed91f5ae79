// Package effects runs the presentation-only particles driven by simulation events.
package effects

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/events"
	"voxelrift/internal/threading/core"
)

const (
	BloodGravity      = 15.0
	BloodDrag         = 0.97
	BloodFade         = 0.3 // life lost per second
	BloodMaxAge       = 6.0
	BloodGroundOffset = 0.02
	BloodLandEpsilon  = 0.1
	PoolChance        = 0.3
	PoolGrowth        = 0.6 // scale gained per second
	PoolMaxGrowth     = 2.0
	PoolMaxCount      = 512

	ExplosionParticles = 200
	ExplosionSpread    = 4.0
	ExplosionFade      = 0.9 // opacity lost per second

	MuzzleFlashLife = 30 * time.Millisecond
)

// Ground is the surface particles land on
type Ground interface {
	TerrainHeight(x, z float64) float64
}

// Particle is one point of a burst
type Particle struct {
	Pos    mgl64.Vec3
	Vel    mgl64.Vec3
	Shade  float64
	Landed bool
}

// BloodBurst is a spray of blood points that fall and leave pools where they land
type BloodBurst struct {
	Particles []Particle
	Headshot  bool
	Life      float64
	Age       float64

	rng   *rand.Rand
	pools []Pool
}

// Opacity follows the remaining life
func (b *BloodBurst) Opacity() float64 { return max(0, b.Life) }

func (b *BloodBurst) Done() bool { return b.Life <= 0 || b.Age > BloodMaxAge }

// Pool is a flat blood stain growing on the ground
type Pool struct {
	Pos    mgl64.Vec3
	Size   float64
	Growth float64
}

func (p Pool) Radius() float64 { return p.Size * (1 + p.Growth) }

// Explosion is a fading fireball cloud
type Explosion struct {
	Points  []mgl64.Vec3
	Heat    []float64 // green channel per point, 0..0.5
	Opacity float64
}

type Flash struct {
	Pos  mgl64.Vec3
	Left time.Duration
}

// System owns every live particle effect. Methods are safe to call from the
// update and draw goroutines.
type System struct {
	mu         sync.Mutex
	ground     Ground
	rng        *rand.Rand
	bursts     []*BloodBurst
	pools      []Pool
	explosions []*Explosion
	flashes    []Flash
}

func NewSystem(ground Ground, rng *rand.Rand) *System {
	return &System{ground: ground, rng: rng}
}

// Emit turns a simulation event into particles; other kinds are ignored.
func (s *System) Emit(e events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch e.Kind {
	case events.BloodBurst:
		s.bursts = append(s.bursts, s.newBurst(e.Pos, int(e.Intensity), e.Headshot))
	case events.BloodPool:
		s.addPool(Pool{Pos: s.onGround(e.Pos), Size: e.Intensity})
	case events.Explosion:
		s.explosions = append(s.explosions, s.newExplosion(e.Pos))
	case events.MuzzleFlash:
		s.flashes = append(s.flashes, Flash{Pos: e.Pos, Left: MuzzleFlashLife})
	}
}

func (s *System) onGround(p mgl64.Vec3) mgl64.Vec3 {
	p[1] = s.ground.TerrainHeight(p.X(), p.Z()) + BloodGroundOffset
	return p
}

func (s *System) addPool(p Pool) {
	if len(s.pools) >= PoolMaxCount {
		s.pools = s.pools[1:]
	}
	s.pools = append(s.pools, p)
}

func (s *System) newBurst(at mgl64.Vec3, count int, headshot bool) *BloodBurst {
	spread := 3.0
	if headshot {
		spread = 5
	}
	b := &BloodBurst{
		Particles: make([]Particle, count),
		Headshot:  headshot,
		Life:      2,
		rng:       rand.New(rand.NewSource(s.rng.Int63())),
	}
	for i := range b.Particles {
		b.Particles[i] = Particle{
			Pos: at.Add(mgl64.Vec3{
				(s.rng.Float64() - 0.5) * 0.5,
				s.rng.Float64() * 1.5,
				(s.rng.Float64() - 0.5) * 0.5,
			}),
			Vel: mgl64.Vec3{
				(s.rng.Float64() - 0.5) * spread,
				s.rng.Float64()*spread + 2,
				(s.rng.Float64() - 0.5) * spread,
			},
			Shade: s.rng.Float64() * 0.3,
		}
	}
	return b
}

func (s *System) newExplosion(at mgl64.Vec3) *Explosion {
	ex := &Explosion{
		Points:  make([]mgl64.Vec3, ExplosionParticles),
		Heat:    make([]float64, ExplosionParticles),
		Opacity: 1,
	}
	for i := range ex.Points {
		ex.Points[i] = at.Add(mgl64.Vec3{
			(s.rng.Float64() - 0.5) * ExplosionSpread,
			(s.rng.Float64() - 0.5) * ExplosionSpread,
			(s.rng.Float64() - 0.5) * ExplosionSpread,
		})
		ex.Heat[i] = s.rng.Float64() * 0.5
	}
	return ex
}

// Update advances every effect by dt. Bursts are stepped in parallel; each owns its
// random source and collects its own pools, which are merged afterwards.
func (s *System) Update(ctx context.Context, dt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sec := dt.Seconds()

	core.ParallelForEach(ctx, s.bursts, func(_ int, b *BloodBurst) {
		b.step(sec, s.ground)
	})
	live := s.bursts[:0]
	for _, b := range s.bursts {
		for _, p := range b.pools {
			s.addPool(p)
		}
		b.pools = b.pools[:0]
		if !b.Done() {
			live = append(live, b)
		}
	}
	clear(s.bursts[len(live):])
	s.bursts = live

	for i := range s.pools {
		s.pools[i].Growth = min(PoolMaxGrowth, s.pools[i].Growth+PoolGrowth*sec)
	}

	liveEx := s.explosions[:0]
	for _, ex := range s.explosions {
		ex.Opacity -= ExplosionFade * sec
		if ex.Opacity > 0 {
			liveEx = append(liveEx, ex)
		}
	}
	clear(s.explosions[len(liveEx):])
	s.explosions = liveEx

	liveFlash := s.flashes[:0]
	for _, f := range s.flashes {
		f.Left -= dt
		if f.Left > 0 {
			liveFlash = append(liveFlash, f)
		}
	}
	s.flashes = liveFlash
}

func (b *BloodBurst) step(dt float64, ground Ground) {
	b.Age += dt
	for i := range b.Particles {
		p := &b.Particles[i]
		if p.Landed {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Mul(dt))
		p.Vel[1] -= BloodGravity * dt
		p.Vel[0] *= BloodDrag
		p.Vel[2] *= BloodDrag

		h := ground.TerrainHeight(p.Pos.X(), p.Pos.Z())
		if p.Pos.Y() <= h+BloodLandEpsilon {
			p.Landed = true
			p.Vel = mgl64.Vec3{}
			p.Pos[1] = h + BloodGroundOffset
			if b.rng.Float64() < PoolChance {
				b.pools = append(b.pools, Pool{Pos: p.Pos, Size: 0.3 + b.rng.Float64()*0.3})
			}
		}
	}
	b.Life -= dt * BloodFade
}

// Counts is a summary of live effects
type Counts struct {
	Bursts, Particles, Pools, Explosions, Flashes int
}

func (s *System) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Counts{
		Bursts:     len(s.bursts),
		Pools:      len(s.pools),
		Explosions: len(s.explosions),
		Flashes:    len(s.flashes),
	}
	for _, b := range s.bursts {
		c.Particles += len(b.Particles)
	}
	return c
}

// View is a copy of the drawable state
type View struct {
	Blood      []Particle
	Pools      []Pool
	Explosions []Explosion
	Flashes    []Flash
}

// View copies the drawable state for a renderer
func (s *System) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	var v View
	for _, b := range s.bursts {
		v.Blood = append(v.Blood, b.Particles...)
	}
	v.Pools = append(v.Pools, s.pools...)
	for _, ex := range s.explosions {
		v.Explosions = append(v.Explosions, Explosion{Points: ex.Points, Heat: ex.Heat, Opacity: ex.Opacity})
	}
	v.Flashes = append(v.Flashes, s.flashes...)
	return v
}
