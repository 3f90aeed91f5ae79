package collision

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// BoundingBox is an axis-aligned box described by its center and half extents
type BoundingBox struct {
	Center mgl64.Vec3
	Half   mgl64.Vec3
}

// NewBoundingBox creates a box centered at center with the given full size
func NewBoundingBox(center, size mgl64.Vec3) BoundingBox {
	return BoundingBox{Center: center, Half: size.Mul(0.5)}
}

// GetBounds returns the min/max corners of the box
func (bb BoundingBox) GetBounds() (lo, hi mgl64.Vec3) {
	return bb.Center.Sub(bb.Half), bb.Center.Add(bb.Half)
}

// IntersectRay runs the slab test for a ray with unit direction dir. It returns the
// entry distance along the ray, or 0 when the origin is inside the box.
func (bb BoundingBox) IntersectRay(origin, dir mgl64.Vec3, maxDist float64) (float64, bool) {
	lo, hi := bb.GetBounds()
	tNear, tFar := 0.0, maxDist

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (lo[i] - origin[i]) * inv
		t2 := (hi[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return 0, false
		}
	}
	return tNear, true
}

// Part tells which region of a body a hit volume covers
type Part int

const (
	PartBody Part = iota
	PartHead
)

func (p Part) String() string {
	if p == PartHead {
		return "head"
	}
	return "body"
}

// EntityID identifies the owner of a hit volume. Owners pack their own handles into it.
type EntityID uint64

// HitVolume is one tagged box of an entity. Offset is relative to the owner's position.
type HitVolume struct {
	Owner  EntityID
	Part   Part
	Offset mgl64.Vec3
	Box    BoundingBox
}

// NewHitVolume creates a volume of the given size centered at offset from the owner
func NewHitVolume(owner EntityID, part Part, offset, size mgl64.Vec3) *HitVolume {
	return &HitVolume{
		Owner:  owner,
		Part:   part,
		Offset: offset,
		Box:    NewBoundingBox(offset, size),
	}
}

// MoveTo places the volume relative to a new owner position
func (hv *HitVolume) MoveTo(ownerPos mgl64.Vec3) {
	hv.Box.Center = ownerPos.Add(hv.Offset)
}
