package mathutil

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
	}
	for _, tt := range tests {
		if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("Clamp(%g, %g, %g) = %g, expected %g", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestEaseTowardConverges(t *testing.T) {
	fov := 75.0
	for i := 0; i < 200; i++ {
		fov = EaseToward(fov, 85, 0.1)
	}
	if math.Abs(fov-85) > 1e-6 {
		t.Errorf("Expected fov to converge on 85, got %g", fov)
	}
	if got := EaseToward(0, 10, 0.1); got != 1 {
		t.Errorf("Expected one step to cover 10%%, got %g", got)
	}
}

func TestSafeNormalizeZero(t *testing.T) {
	v := SafeNormalize(mgl64.Vec3{})
	if v != (mgl64.Vec3{}) {
		t.Errorf("Expected zero vector, got %v", v)
	}
	u := SafeNormalize(mgl64.Vec3{3, 0, 4})
	if math.Abs(u.Len()-1) > 1e-9 {
		t.Errorf("Expected unit length, got %g", u.Len())
	}
}

func TestHorizontalDistanceIgnoresHeight(t *testing.T) {
	d := HorizontalDistance(mgl64.Vec3{0, 100, 0}, mgl64.Vec3{3, -5, 4})
	if d != 5 {
		t.Errorf("Expected 5, got %g", d)
	}
}
