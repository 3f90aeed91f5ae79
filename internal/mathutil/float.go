package mathutil

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Clamp limits v to [lo, hi] (search: float-math).
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// EaseToward moves current a fixed fraction of the way to target (search: float-math).
func EaseToward(current, target, factor float64) float64 {
	return current + (target-current)*factor
}

// Flatten drops the vertical component of v.
func Flatten(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// SafeNormalize returns the unit vector of v, or the zero vector when v has no length.
// mgl64's Normalize divides by zero on a zero vector.
func SafeNormalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

// HorizontalDistance measures the distance between a and b in the x/z plane.
func HorizontalDistance(a, b mgl64.Vec3) float64 {
	return math.Hypot(a.X()-b.X(), a.Z()-b.Z())
}
