package weapons

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/config"
	"voxelrift/internal/mathutil"
)

// Spec is one catalog entry
type Spec = config.WeaponConfig

// Stock ids the simulation refers to directly
const (
	Pistol  = "pistol"
	Sniper  = "sniper"
	Axe     = "axe"
	Grenade = "grenade"
)

// OneShotDamage is dealt by one-shot weapons regardless of where they hit
const OneShotDamage = 999

// HasScope reports whether the weapon supports aiming down sights
func HasScope(s Spec) bool {
	return s.ScopeZoom > 1
}

// Hitscan reports whether the weapon fires rays from a magazine
func Hitscan(s Spec) bool {
	return !s.Melee && !s.Throwable && s.MagazineSize > 0
}

// ShotDamage resolves the damage of one ray (or one pellet) of s.
func ShotDamage(s Spec, headshot bool) float64 {
	if s.OneShot {
		return OneShotDamage
	}
	dmg := s.Damage
	if s.Pellets > 0 {
		dmg /= float64(s.Pellets)
	}
	if headshot {
		dmg *= s.HeadshotMultiplier
	}
	return dmg
}

// PelletDirections jitters aim once per pellet inside a square cone of width spread.
func PelletDirections(aim mgl64.Vec3, spread float64, pellets int, rng *rand.Rand) []mgl64.Vec3 {
	aim = mathutil.SafeNormalize(aim)
	up := mgl64.Vec3{0, 1, 0}
	if math.Abs(aim.Dot(up)) > 0.999 {
		up = mgl64.Vec3{1, 0, 0}
	}
	right := mathutil.SafeNormalize(aim.Cross(up))
	up = right.Cross(aim)

	dirs := make([]mgl64.Vec3, pellets)
	for i := range dirs {
		dx := (rng.Float64() - 0.5) * spread
		dy := (rng.Float64() - 0.5) * spread
		dirs[i] = mathutil.SafeNormalize(aim.Add(right.Mul(dx)).Add(up.Mul(dy)))
	}
	return dirs
}
