package collision

import (
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// VoxelChecker is the static world entities move against
type VoxelChecker interface {
	TerrainHeight(x, z float64) float64
	CollidesHorizontally(pos mgl64.Vec3, radius, height float64) bool
}

// MoveHorizontal applies delta on x/z. When the destination collides the original
// position is returned with blocked set, and the caller zeroes horizontal velocity.
func MoveHorizontal(vc VoxelChecker, pos, delta mgl64.Vec3, radius, height float64) (mgl64.Vec3, bool) {
	next := mgl64.Vec3{pos.X() + delta.X(), pos.Y(), pos.Z() + delta.Z()}
	if vc.CollidesHorizontally(next, radius, height) {
		return pos, true
	}
	return next, false
}

// Hit is the nearest volume struck by a ray
type Hit struct {
	Owner    EntityID
	Part     Part
	Point    mgl64.Vec3
	Distance float64
}

// Headshot reports whether the ray struck a head volume
func (h Hit) Headshot() bool {
	return h.Part == PartHead
}

// CollisionSystem indexes the hit volumes of every targetable entity
type CollisionSystem struct {
	volumes map[EntityID][]*HitVolume
}

// NewCollisionSystem creates an empty collision system
func NewCollisionSystem() *CollisionSystem {
	return &CollisionSystem{volumes: make(map[EntityID][]*HitVolume)}
}

// RegisterEntity adds (or replaces) the volumes of an entity
func (cs *CollisionSystem) RegisterEntity(id EntityID, volumes ...*HitVolume) {
	cs.volumes[id] = volumes
}

// UnregisterEntity removes an entity so rays no longer strike it
func (cs *CollisionSystem) UnregisterEntity(id EntityID) {
	delete(cs.volumes, id)
}

// UpdateEntity moves all volumes of an entity to follow its position
func (cs *CollisionSystem) UpdateEntity(id EntityID, pos mgl64.Vec3) {
	for _, v := range cs.volumes[id] {
		v.MoveTo(pos)
	}
}

// Len returns the number of registered entities
func (cs *CollisionSystem) Len() int {
	return len(cs.volumes)
}

// Raycast returns the closest volume hit within maxDist. dir need not be normalized.
func (cs *CollisionSystem) Raycast(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool) {
	l := dir.Len()
	if l < 1e-12 {
		return Hit{}, false
	}
	dir = dir.Mul(1 / l)

	best := Hit{Distance: math.Inf(1)}
	found := false
	for id, vols := range cs.volumes {
		for _, v := range vols {
			t, ok := v.Box.IntersectRay(origin, dir, maxDist)
			if !ok {
				continue
			}
			if t < best.Distance || (t == best.Distance && winsTie(v.Part, id, best)) {
				best = Hit{Owner: id, Part: v.Part, Point: origin.Add(dir.Mul(t)), Distance: t}
				found = true
			}
		}
	}
	return best, found
}

// winsTie orders hits at equal distance: heads first, then the lower id.
func winsTie(part Part, id EntityID, best Hit) bool {
	if part != best.Part {
		return part == PartHead
	}
	return id < best.Owner
}

// GetNearbyEntities returns the entities with any volume center within radius of p,
// in ascending id order.
func (cs *CollisionSystem) GetNearbyEntities(p mgl64.Vec3, radius float64) []EntityID {
	var nearby []EntityID
	for id, vols := range cs.volumes {
		for _, v := range vols {
			if v.Box.Center.Sub(p).Len() <= radius {
				nearby = append(nearby, id)
				break
			}
		}
	}
	slices.Sort(nearby)
	return nearby
}
