// Package keytracker reports key edges for Ebiten v2.8.8 without inpututil's global state.
package keytracker

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Tracker keeps the previous and current state of a fixed set of keys.
// Update must be called exactly once per frame before querying.
type Tracker struct {
	keys    []ebiten.Key
	prev    map[ebiten.Key]bool
	cur     map[ebiten.Key]bool
	pressed func(ebiten.Key) bool
}

// New tracks keys against the live keyboard
func New(keys ...ebiten.Key) *Tracker {
	return NewWithSource(ebiten.IsKeyPressed, keys...)
}

// NewWithSource tracks keys against an arbitrary state source
func NewWithSource(src func(ebiten.Key) bool, keys ...ebiten.Key) *Tracker {
	return &Tracker{
		keys:    keys,
		prev:    make(map[ebiten.Key]bool, len(keys)),
		cur:     make(map[ebiten.Key]bool, len(keys)),
		pressed: src,
	}
}

// Update samples every tracked key
func (t *Tracker) Update() {
	for _, k := range t.keys {
		t.prev[k] = t.cur[k]
		t.cur[k] = t.pressed(k)
	}
}

// IsKeyJustPressed returns true if the key was not pressed last frame but is pressed this frame.
func (t *Tracker) IsKeyJustPressed(key ebiten.Key) bool {
	return t.cur[key] && !t.prev[key]
}

func (t *Tracker) IsKeyPressed(key ebiten.Key) bool {
	return t.cur[key]
}
