package sim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/collision"
	"voxelrift/internal/events"
	"voxelrift/internal/monster"
	"voxelrift/internal/projectile"
	"voxelrift/internal/weapons"
)

const (
	headBloodParticles = 300
	bodyBloodParticles = 150

	// widens the volume-center query so every mob whose position is inside the
	// blast radius is returned
	splashSlack = 1.0
)

func (s *Simulation) handleWeapons(in Input) {
	cur := s.arsenal.Current()
	if cur == nil {
		return
	}

	if in.Aim && weapons.HasScope(cur.Spec) {
		s.player.EnterADS(cur.ScopeZoom)
	} else {
		s.player.ExitADS()
	}

	if in.ReloadPressed && s.arsenal.Reload(s.clock) {
		s.emit(events.Event{Kind: events.ReloadStarted, Weapon: cur.ID})
	}

	firePressed := in.Fire && !s.prevInput.Fire
	threw := false
	switch {
	case weapons.Hitscan(cur.Spec):
		res := s.arsenal.Fire(s.clock, weapons.Trigger{Held: in.Fire, Pressed: firePressed})
		if res.ReloadStarted {
			s.emit(events.Event{Kind: events.ReloadStarted, Weapon: cur.ID})
		}
		if res.Fired {
			s.shoot(cur)
		}
	case cur.ID == weapons.Axe && firePressed:
		s.throwAxe()
	case cur.ID == weapons.Grenade && firePressed:
		threw = s.throwGrenade()
	}

	// one grenade per tick
	if in.GrenadePressed && !threw {
		s.throwGrenade()
	}
	if in.AxePressed {
		if cur.ID == weapons.Axe {
			s.throwAxe()
		} else {
			s.selectWeapon(weapons.Axe)
		}
	}

	if w := s.arsenal.Update(s.clock); w != nil {
		s.emit(events.Event{Kind: events.ReloadFinished, Weapon: w.ID, Value: float64(w.Magazine)})
	}
}

func (s *Simulation) throwOrigin() (origin, dir mgl64.Vec3) {
	dir = s.player.AimDirection()
	return s.player.Position.Add(dir), dir
}

// shoot resolves one trigger pull of a hitscan weapon: a single ray or one ray per pellet.
func (s *Simulation) shoot(w *weapons.State) {
	eye := s.player.Position
	aim := s.player.AimDirection()
	s.player.SetShake(s.cfg.Player.ShotShake)
	s.emit(events.Event{Kind: events.MuzzleFlash, Pos: eye.Add(aim), Weapon: w.ID})
	s.emit(events.Event{Kind: events.AmmoChanged, Weapon: w.ID, Value: float64(w.Magazine)})

	rays := []mgl64.Vec3{aim}
	if w.Pellets > 0 {
		rays = weapons.PelletDirections(aim, w.Spread, w.Pellets, s.rng)
	}
	for _, dir := range rays {
		hit, ok := s.hits.Raycast(eye, dir, w.Range)
		if !ok {
			continue
		}
		s.applyHit(hit, weapons.ShotDamage(w.Spec, hit.Headshot()), w.ID)
	}
}

// applyHit resolves a hit volume back to its mob and applies a weapon-resolved amount.
func (s *Simulation) applyHit(hit collision.Hit, amount float64, weapon string) bool {
	m, ok := s.mobs.Get(hit.Owner)
	if !ok {
		return false
	}
	res := m.ApplyWeaponHit(amount, hit.Headshot(), s.clock)
	s.afterDamage(m, hit.Point, res, weapon)
	return res.Dealt > 0
}

func (s *Simulation) afterDamage(m *monster.Monster, at mgl64.Vec3, res monster.DamageResult, weapon string) {
	if res.Dealt == 0 && !res.Killed {
		return
	}
	intensity := float64(bodyBloodParticles)
	if res.Headshot {
		intensity = headBloodParticles
	}
	s.emit(events.Event{Kind: events.BloodBurst, Pos: at, Intensity: intensity, Mob: m.ID, Headshot: res.Headshot})
	s.emit(events.Event{Kind: events.HitFlash, Pos: m.Position, Mob: m.ID, Value: res.Dealt, Weapon: weapon})
	if res.Killed {
		s.onMobKilled(m, weapon)
	}
}

// onMobKilled updates counters and stops the mob from being hit-tested.
func (s *Simulation) onMobKilled(m *monster.Monster, weapon string) {
	s.hits.UnregisterEntity(m.ID)
	s.kills++
	if m.HeadshotKill {
		s.headshots++
	}
	s.emit(events.Event{Kind: events.Kill, Pos: m.Position, Mob: m.ID, Weapon: weapon, Headshot: m.HeadshotKill, Value: float64(s.kills)})
	s.emit(events.Event{Kind: events.BloodPool, Pos: m.Position, Intensity: 2 + s.rng.Float64(), Mob: m.ID})
	if m.HeadshotKill {
		s.emit(events.Event{Kind: events.Notification, Pos: m.Position, Text: "HEADSHOT!", Mob: m.ID})
	}
	s.log.Debug("mob killed",
		"mob", uint64(m.ID),
		"weapon", weapon,
		"headshot", m.HeadshotKill,
		"kills", s.kills)
}

// DamageMob applies generic damage to a mob, as a grenade splash would.
// A headshot doubles amount.
func (s *Simulation) DamageMob(id collision.EntityID, amount float64, at mgl64.Vec3, headshot bool) error {
	m, ok := s.mobs.Get(id)
	if !ok {
		return fmt.Errorf("damage mob %d: %w", uint64(id), ErrMobNotFound)
	}
	res := m.TakeDamage(amount, headshot, s.clock)
	s.afterDamage(m, at, res, "")
	return nil
}

func (s *Simulation) throwGrenade() bool {
	if !s.arsenal.UseGrenade() {
		return false
	}
	origin, dir := s.throwOrigin()
	s.grenades = append(s.grenades, projectile.NewGrenade(s.cfg.Grenade, origin, dir))
	left := 0
	if g, ok := s.arsenal.Get(weapons.Grenade); ok {
		left = g.Count
	}
	s.emit(events.Event{Kind: events.GrenadeThrown, Pos: origin, Weapon: weapons.Grenade, Value: float64(left)})
	return true
}

func (s *Simulation) throwAxe() {
	if !s.arsenal.ThrowAxe(s.clock) {
		return
	}
	origin, dir := s.throwOrigin()
	s.axes = append(s.axes, projectile.NewThrownAxe(s.cfg.Axe, s.cfg.Grenade.GroundEpsilon, origin, dir))
	s.player.SetShake(s.cfg.Player.ThrowShake)
	s.emit(events.Event{Kind: events.AxeThrown, Pos: origin, Weapon: weapons.Axe})
}

func (s *Simulation) updateGrenades(dt float64) {
	live := s.grenades[:0]
	for _, g := range s.grenades {
		if g.Update(dt, s.cfg.Player.Gravity, s.world) {
			s.explode(g)
			continue
		}
		live = append(live, g)
	}
	clear(s.grenades[len(live):])
	s.grenades = live
}

// explode applies linear-falloff splash to every living mob inside the radius,
// in ascending id order.
func (s *Simulation) explode(g *projectile.Grenade) {
	s.emit(events.Event{Kind: events.Explosion, Pos: g.Position, Intensity: g.Radius, Weapon: weapons.Grenade})
	for _, id := range s.hits.GetNearbyEntities(g.Position, g.Radius+splashSlack) {
		m, ok := s.mobs.Get(id)
		if !ok || m.IsDying() {
			continue
		}
		dmg := g.DamageAt(m.Position.Sub(g.Position).Len())
		if dmg <= 0 {
			continue
		}
		res := m.TakeDamage(dmg, false, s.clock)
		s.afterDamage(m, m.Position, res, weapons.Grenade)
	}
}

func (s *Simulation) updateAxes(dt float64) {
	spec, _ := s.arsenal.Get(weapons.Axe)
	live := s.axes[:0]
	for _, a := range s.axes {
		out := a.Update(dt, s.cfg.Player.Gravity, s.world, s.hits)
		if !out.Done {
			live = append(live, a)
			continue
		}
		if out.Hit == nil || spec == nil {
			continue
		}
		hit := *out.Hit
		if s.applyHit(hit, weapons.ShotDamage(spec.Spec, hit.Headshot()), weapons.Axe) && hit.Headshot() {
			s.emit(events.Event{Kind: events.Notification, Pos: hit.Point, Text: "AXE HEADSHOT!", Mob: hit.Owner})
		}
	}
	clear(s.axes[len(live):])
	s.axes = live
}
