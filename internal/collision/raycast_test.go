package collision

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// mockVoxelChecker implements VoxelChecker with a set of blocked x/z cells
type mockVoxelChecker struct {
	blocked map[[2]int]bool
	ground  float64
}

func newMockVoxelChecker() *mockVoxelChecker {
	return &mockVoxelChecker{blocked: make(map[[2]int]bool)}
}

func (m *mockVoxelChecker) TerrainHeight(x, z float64) float64 {
	return m.ground
}

func (m *mockVoxelChecker) CollidesHorizontally(pos mgl64.Vec3, radius, height float64) bool {
	return m.blocked[[2]int{int(math.Floor(pos.X())), int(math.Floor(pos.Z()))}]
}

func TestIntersectRay(t *testing.T) {
	box := NewBoundingBox(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{2, 2, 2})

	tests := []struct {
		name     string
		origin   mgl64.Vec3
		dir      mgl64.Vec3
		maxDist  float64
		wantHit  bool
		wantDist float64
	}{
		{"straight on", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 100, true, 4},
		{"out of range", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0}, 3.5, false, 0},
		{"pointing away", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{-1, 0, 0}, 100, false, 0},
		{"parallel miss", mgl64.Vec3{0, 3, 0}, mgl64.Vec3{1, 0, 0}, 100, false, 0},
		{"origin inside", mgl64.Vec3{5, 0, 0}, mgl64.Vec3{0, 1, 0}, 100, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := box.IntersectRay(tt.origin, tt.dir, tt.maxDist)
			if ok != tt.wantHit {
				t.Fatalf("Expected hit=%v, got %v", tt.wantHit, ok)
			}
			if ok && math.Abs(d-tt.wantDist) > 1e-9 {
				t.Errorf("Expected distance %g, got %g", tt.wantDist, d)
			}
		})
	}
}

func TestRaycastPicksNearestAndTagsHead(t *testing.T) {
	cs := NewCollisionSystem()

	near := EntityID(1)
	far := EntityID(2)
	cs.RegisterEntity(near,
		NewHitVolume(near, PartBody, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0.5, 1, 0.3}),
		NewHitVolume(near, PartHead, mgl64.Vec3{0, 1.3, 0}, mgl64.Vec3{0.6, 0.6, 0.6}),
	)
	cs.RegisterEntity(far,
		NewHitVolume(far, PartBody, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0.5, 1, 0.3}),
	)
	cs.UpdateEntity(near, mgl64.Vec3{0, 0, -5})
	cs.UpdateEntity(far, mgl64.Vec3{0, 0, -10})

	hit, ok := cs.Raycast(mgl64.Vec3{0, 1.3, 0}, mgl64.Vec3{0, 0, -1}, 50)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.Owner != near || !hit.Headshot() {
		t.Errorf("Expected headshot on entity %d, got %+v", near, hit)
	}
	if math.Abs(hit.Distance-4.7) > 1e-9 {
		t.Errorf("Expected distance 4.7, got %g", hit.Distance)
	}

	hit, ok = cs.Raycast(mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, 0, -1}, 50)
	if !ok || hit.Owner != near || hit.Part != PartBody {
		t.Errorf("Expected body hit on entity %d, got %+v (ok=%v)", near, hit, ok)
	}

	cs.UnregisterEntity(near)
	hit, ok = cs.Raycast(mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, 0, -1}, 50)
	if !ok || hit.Owner != far {
		t.Errorf("Expected far entity after unregistering near one, got %+v (ok=%v)", hit, ok)
	}
	if _, ok := cs.Raycast(mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, 0, -1}, 5); ok {
		t.Error("Expected no hit within 5 units")
	}
}

func TestRaycastZeroDirection(t *testing.T) {
	cs := NewCollisionSystem()
	cs.RegisterEntity(1, NewHitVolume(1, PartBody, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))
	if _, ok := cs.Raycast(mgl64.Vec3{}, mgl64.Vec3{}, 10); ok {
		t.Error("Expected zero direction to never hit")
	}
}

func TestRaycastTiesGoToLowerID(t *testing.T) {
	// map iteration order varies between systems, so repeat with fresh ones
	for i := 0; i < 50; i++ {
		cs := NewCollisionSystem()
		for _, id := range []EntityID{9, 4, 7} {
			cs.RegisterEntity(id,
				NewHitVolume(id, PartBody, mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0.5, 1, 0.3}),
				NewHitVolume(id, PartHead, mgl64.Vec3{0, 1.3, 0}, mgl64.Vec3{0.6, 0.6, 0.6}),
			)
			cs.UpdateEntity(id, mgl64.Vec3{0, 0, -10})
		}

		hit, ok := cs.Raycast(mgl64.Vec3{0, 0.5, 0}, mgl64.Vec3{0, 0, -1}, 50)
		if !ok || hit.Owner != 4 || hit.Part != PartBody {
			t.Fatalf("Run %d: expected body hit on entity 4, got %+v (ok=%v)", i, hit, ok)
		}
		hit, ok = cs.Raycast(mgl64.Vec3{0, 1.3, 0}, mgl64.Vec3{0, 0, -1}, 50)
		if !ok || hit.Owner != 4 || !hit.Headshot() {
			t.Fatalf("Run %d: expected headshot on entity 4, got %+v (ok=%v)", i, hit, ok)
		}
	}
}

func TestRaycastHeadWinsTieOverLowerIDBody(t *testing.T) {
	for i := 0; i < 50; i++ {
		cs := NewCollisionSystem()
		// both boxes start 9.7 units away on the ray
		cs.RegisterEntity(1, NewHitVolume(1, PartBody, mgl64.Vec3{}, mgl64.Vec3{0.6, 0.6, 0.6}))
		cs.RegisterEntity(2, NewHitVolume(2, PartHead, mgl64.Vec3{}, mgl64.Vec3{0.6, 0.6, 0.6}))
		cs.UpdateEntity(1, mgl64.Vec3{0.1, 0, -10})
		cs.UpdateEntity(2, mgl64.Vec3{-0.1, 0, -10})

		hit, ok := cs.Raycast(mgl64.Vec3{}, mgl64.Vec3{0, 0, -1}, 50)
		if !ok || hit.Owner != 2 || !hit.Headshot() {
			t.Fatalf("Run %d: expected the head of entity 2, got %+v (ok=%v)", i, hit, ok)
		}
	}
}

func TestGetNearbyEntities(t *testing.T) {
	cs := NewCollisionSystem()
	cs.RegisterEntity(1, NewHitVolume(1, PartBody, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))
	cs.RegisterEntity(2, NewHitVolume(2, PartBody, mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}))
	cs.UpdateEntity(1, mgl64.Vec3{1, 0, 0})
	cs.UpdateEntity(2, mgl64.Vec3{20, 0, 0})

	got := cs.GetNearbyEntities(mgl64.Vec3{}, 5)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("Expected only entity 1 nearby, got %v", got)
	}
	if cs.Len() != 2 {
		t.Errorf("Expected 2 registered entities, got %d", cs.Len())
	}

	cs.UpdateEntity(2, mgl64.Vec3{-1, 0, 0})
	got = cs.GetNearbyEntities(mgl64.Vec3{}, 5)
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("Expected entities 1 and 2 in id order, got %v", got)
	}
}

func TestMoveHorizontalRevertsOnCollision(t *testing.T) {
	vc := newMockVoxelChecker()
	vc.blocked[[2]int{2, 0}] = true

	start := mgl64.Vec3{1.5, 3, 0.5}
	pos, blocked := MoveHorizontal(vc, start, mgl64.Vec3{1, 7, 0}, 0.3, 1.8)
	if !blocked {
		t.Fatal("Expected the move into a blocked cell to be rejected")
	}
	if pos != start {
		t.Errorf("Expected position to stay at %v, got %v", start, pos)
	}

	pos, blocked = MoveHorizontal(vc, start, mgl64.Vec3{0, 0, 1}, 0.3, 1.8)
	if blocked {
		t.Fatal("Expected free move to succeed")
	}
	if pos != (mgl64.Vec3{1.5, 3, 1.5}) {
		t.Errorf("Expected {1.5 3 1.5}, got %v", pos)
	}
}
