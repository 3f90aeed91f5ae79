package weapons

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnknownWeapon = errors.New("unknown weapon")

// State is the live ammo state of one weapon
type State struct {
	Spec
	Magazine int
	Reserve  int
	Count    int // throwables with a stock, e.g. grenades

	reloading    bool
	reloadDone   time.Duration
	reloadAmount int
}

// Reloading reports whether a reload is in flight
func (s *State) Reloading() bool { return s.reloading }

// Trigger is the fire button for one frame
type Trigger struct {
	Held    bool
	Pressed bool // went down this frame
}

// FireResult describes the outcome of a fire attempt
type FireResult struct {
	Fired         bool
	ReloadStarted bool
	Weapon        *State
}

// Arsenal holds every weapon the player carries and the current selection
type Arsenal struct {
	order    []string
	weapons  map[string]*State
	current  string
	lastShot time.Duration
	shotOnce bool
}

// NewArsenal loads full magazines for every spec. grenades sets the grenade stock.
func NewArsenal(specs []Spec, grenades int) *Arsenal {
	a := &Arsenal{weapons: make(map[string]*State, len(specs))}
	for _, s := range specs {
		st := &State{Spec: s, Magazine: s.MagazineSize, Reserve: s.ReserveAmmo}
		if s.ID == Grenade {
			st.Count = grenades
		}
		a.order = append(a.order, s.ID)
		a.weapons[s.ID] = st
	}
	if len(a.order) > 0 {
		a.current = a.order[0]
	}
	return a
}

func (a *Arsenal) Current() *State {
	return a.weapons[a.current]
}

func (a *Arsenal) Get(id string) (*State, bool) {
	s, ok := a.weapons[id]
	return s, ok
}

// Order returns weapon ids in selection order
func (a *Arsenal) Order() []string {
	return a.order
}

// Reloading reports whether the current weapon is reloading
func (a *Arsenal) Reloading() bool {
	cur := a.Current()
	return cur != nil && cur.reloading
}

// Select switches weapons. A reload in flight on the weapon being left is cancelled.
func (a *Arsenal) Select(id string) (bool, error) {
	if _, ok := a.weapons[id]; !ok {
		return false, fmt.Errorf("select %q: %w", id, ErrUnknownWeapon)
	}
	if id == a.current {
		return false, nil
	}
	if cur := a.Current(); cur != nil {
		cur.reloading = false
	}
	a.current = id
	return true, nil
}

// Cycle moves the selection step places through the order, wrapping around.
func (a *Arsenal) Cycle(step int) string {
	n := len(a.order)
	if n == 0 {
		return ""
	}
	idx := 0
	for i, id := range a.order {
		if id == a.current {
			idx = i
			break
		}
	}
	next := a.order[((idx+step)%n+n)%n]
	a.Select(next)
	return next
}

// Reload starts refilling the current magazine. It is ignored when already reloading,
// when the magazine is full or when the reserve is empty.
func (a *Arsenal) Reload(now time.Duration) bool {
	w := a.Current()
	if w == nil || w.MagazineSize == 0 {
		return false
	}
	if w.reloading || w.Magazine == w.MagazineSize || w.Reserve == 0 {
		return false
	}
	w.reloading = true
	w.reloadDone = now + w.ReloadTime
	w.reloadAmount = min(w.MagazineSize-w.Magazine, w.Reserve)
	return true
}

// Update completes a reload whose deadline has passed and returns the weapon, or nil.
func (a *Arsenal) Update(now time.Duration) *State {
	w := a.Current()
	if w == nil || !w.reloading || now < w.reloadDone {
		return nil
	}
	w.Magazine += w.reloadAmount
	w.Reserve -= w.reloadAmount
	w.reloading = false
	w.reloadAmount = 0
	return w
}

// ready applies the shared fire interval
func (a *Arsenal) ready(now time.Duration, w *State) bool {
	return !a.shotOnce || now-a.lastShot >= w.FireInterval
}

func (a *Arsenal) markShot(now time.Duration) {
	a.lastShot = now
	a.shotOnce = true
}

// Fire attempts one shot of a hitscan weapon. An empty magazine starts a reload instead.
func (a *Arsenal) Fire(now time.Duration, t Trigger) FireResult {
	w := a.Current()
	if w == nil || !Hitscan(w.Spec) || !t.Held {
		return FireResult{Weapon: w}
	}
	if !w.FullAuto && !t.Pressed {
		return FireResult{Weapon: w}
	}
	if w.reloading {
		return FireResult{Weapon: w}
	}
	if w.Magazine <= 0 {
		return FireResult{Weapon: w, ReloadStarted: a.Reload(now)}
	}
	if !a.ready(now, w) {
		return FireResult{Weapon: w}
	}
	a.markShot(now)
	w.Magazine--
	return FireResult{Fired: true, Weapon: w}
}

// ThrowAxe gates axe throws on the axe's interval. It reports whether a throw happens.
func (a *Arsenal) ThrowAxe(now time.Duration) bool {
	w, ok := a.weapons[Axe]
	if !ok || !a.ready(now, w) {
		return false
	}
	a.markShot(now)
	return true
}

// UseGrenade takes one grenade from the stock
func (a *Arsenal) UseGrenade() bool {
	w, ok := a.weapons[Grenade]
	if !ok || w.Count <= 0 {
		return false
	}
	w.Count--
	return true
}
