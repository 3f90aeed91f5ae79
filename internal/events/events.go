// Package events carries simulation outcomes to the presentation layer.
package events

import (
	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/collision"
)

// Kind classifies an event
type Kind int

const (
	BloodBurst Kind = iota
	BloodPool
	Explosion
	MuzzleFlash
	HitFlash
	PlayerHurt
	PlayerDied
	Kill
	Notification
	HealthChanged
	AmmoChanged
	WeaponChanged
	ReloadStarted
	ReloadFinished
	MobSpawned
	MobRemoved
	GrenadeThrown
	AxeThrown
)

var kindNames = [...]string{
	BloodBurst:     "blood_burst",
	BloodPool:      "blood_pool",
	Explosion:      "explosion",
	MuzzleFlash:    "muzzle_flash",
	HitFlash:       "hit_flash",
	PlayerHurt:     "player_hurt",
	PlayerDied:     "player_died",
	Kill:           "kill",
	Notification:   "notification",
	HealthChanged:  "health_changed",
	AmmoChanged:    "ammo_changed",
	WeaponChanged:  "weapon_changed",
	ReloadStarted:  "reload_started",
	ReloadFinished: "reload_finished",
	MobSpawned:     "mob_spawned",
	MobRemoved:     "mob_removed",
	GrenadeThrown:  "grenade_thrown",
	AxeThrown:      "axe_thrown",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Event is one structured outcome. Fields not meaningful for a kind are zero.
type Event struct {
	Kind      Kind
	Pos       mgl64.Vec3
	Intensity float64 // particle count, pool size or explosion radius
	Value     float64 // health, stamina, ammo or damage
	Mob       collision.EntityID
	Weapon    string
	Headshot  bool
	Text      string
}

// Sink receives events
type Sink interface {
	Emit(Event)
}

// Queue buffers events for one tick until drained
type Queue struct {
	events []Event
}

func (q *Queue) Emit(e Event) {
	q.events = append(q.events, e)
}

// Drain returns the buffered events and empties the queue
func (q *Queue) Drain() []Event {
	out := q.events
	q.events = nil
	return out
}

func (q *Queue) Len() int {
	return len(q.events)
}
