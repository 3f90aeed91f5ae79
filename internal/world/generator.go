package world

import (
	"context"
	"math"
	"math/rand"

	"voxelrift/internal/config"
	"voxelrift/internal/threading/core"
)

// ColumnHeight is the index of the top block of terrain column (x, z). It depends on
// nothing but the grid coordinates.
func ColumnHeight(x, z int) int {
	fx, fz := float64(x), float64(z)
	return int(math.Floor(math.Sin(fx*0.1)*math.Cos(fz*0.1)*2 + math.Sin(fx*0.05)*1.5 + 3))
}

// campLayout is the ring of posts around an open center.
var campLayout = [8][2]int{
	{0, 0}, {1, 0}, {2, 0},
	{0, 2}, {1, 2}, {2, 2},
	{0, 1}, {2, 1},
}

// Generate builds the terrain, then places buildings and camps with rng. Terrain is a
// pure function of grid coordinates; structures repeat for a given rng seed.
func Generate(cfg config.WorldConfig, rng *rand.Rand) *World {
	w := newWorld(cfg)
	w.generateTerrain()
	for i := 0; i < cfg.Buildings; i++ {
		w.addBuilding(rng)
	}
	for i := 0; i < cfg.Camps; i++ {
		w.addCamp(rng)
	}
	return w
}

// generateTerrain computes columns in parallel, one x slice per job, then merges.
func (w *World) generateTerrain() {
	xs := make([]int, w.gridSize)
	for i := range xs {
		xs[i] = i
	}
	slices := core.ParallelMap(context.Background(), xs, func(x int) []Block {
		var out []Block
		for z := 0; z < w.gridSize; z++ {
			h := ColumnHeight(x, z)
			for y := 0; y <= h; y++ {
				out = append(out, Block{Coord: GridCoord{x, y, z}, Kind: layerKind(y, h)})
			}
		}
		return out
	})
	for _, s := range slices {
		for _, b := range s {
			w.blocks[b.Coord] = b.Kind
		}
	}
}

// groundLevel is the first free layer above the terrain at a grid column.
func (w *World) groundLevel(gx, gz int) int {
	if y, ok := w.columnTop(gx, gz); ok {
		return y + 1
	}
	return 0
}

// addBuilding places a hollow box with a roof and a two-high door gap on its front wall.
func (w *World) addBuilding(rng *rand.Rand) {
	if w.gridSize <= 10 {
		return
	}
	x := rng.Intn(w.gridSize-10) + 5
	z := rng.Intn(w.gridSize-10) + 5
	ground := w.groundLevel(x, z)

	width := 5 + rng.Intn(3)
	depth := 5 + rng.Intn(3)
	height := 4 + rng.Intn(3)

	for bx := 0; bx < width; bx++ {
		for bz := 0; bz < depth; bz++ {
			for by := 0; by < height; by++ {
				shell := bx == 0 || bx == width-1 || bz == 0 || bz == depth-1 || by == height-1
				if !shell {
					continue
				}
				if by < 2 && bz == 0 && bx == width/2 {
					continue
				}
				w.blocks[GridCoord{x + bx, ground + by, z + bz}] = BlockWall
			}
		}
	}
}

func (w *World) addCamp(rng *rand.Rand) {
	if w.gridSize <= 8 {
		return
	}
	x := rng.Intn(w.gridSize-8) + 4
	z := rng.Intn(w.gridSize-8) + 4
	ground := w.groundLevel(x, z)

	for _, p := range campLayout {
		w.blocks[GridCoord{x + p[0], ground, z + p[1]}] = BlockCamp
	}
}
