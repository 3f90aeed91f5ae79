package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"voxelrift/internal/config"
)

// BlockKind tags the material of a block. Blocks carry no behavior.
type BlockKind uint8

const (
	BlockStone BlockKind = iota
	BlockDirt
	BlockGrass
	BlockWall
	BlockCamp
)

// Block colors, 0xRRGGBB.
const (
	ColorGrass uint32 = 0x5FAD56
	ColorDirt  uint32 = 0x8B6F47
	ColorStone uint32 = 0x7F7F7F
	ColorWall  uint32 = 0x8B4513
	ColorCamp  uint32 = 0x654321
)

func (k BlockKind) Color() uint32 {
	switch k {
	case BlockGrass:
		return ColorGrass
	case BlockDirt:
		return ColorDirt
	case BlockWall:
		return ColorWall
	case BlockCamp:
		return ColorCamp
	default:
		return ColorStone
	}
}

func (k BlockKind) String() string {
	switch k {
	case BlockGrass:
		return "grass"
	case BlockDirt:
		return "dirt"
	case BlockWall:
		return "wall"
	case BlockCamp:
		return "camp"
	default:
		return "stone"
	}
}

// GridCoord is an integer cell index. X and Z run over [0, GridSize).
type GridCoord struct {
	X, Y, Z int
}

// Block is an occupied cell
type Block struct {
	Coord GridCoord
	Kind  BlockKind
}

// World is a sparse voxel occupancy map. It is never mutated after construction.
type World struct {
	gridSize  int
	blockSize float64
	half      float64
	maxHeight int
	blocks    map[GridCoord]BlockKind
}

func newWorld(cfg config.WorldConfig) *World {
	return &World{
		gridSize:  cfg.GridSize,
		blockSize: cfg.BlockSize,
		half:      float64(cfg.GridSize) / 2,
		maxHeight: cfg.MaxTerrainHeight,
		blocks:    make(map[GridCoord]BlockKind),
	}
}

// FromBlocks builds a world holding exactly the given blocks.
func FromBlocks(cfg config.WorldConfig, blocks []Block) *World {
	w := newWorld(cfg)
	for _, b := range blocks {
		w.blocks[b.Coord] = b.Kind
	}
	return w
}

// Flat builds a world where every column is filled from y=0 to y=layers-1.
func Flat(cfg config.WorldConfig, layers int) *World {
	w := newWorld(cfg)
	for x := 0; x < cfg.GridSize; x++ {
		for z := 0; z < cfg.GridSize; z++ {
			for y := 0; y < layers; y++ {
				w.blocks[GridCoord{x, y, z}] = layerKind(y, layers-1)
			}
		}
	}
	return w
}

func layerKind(y, top int) BlockKind {
	switch {
	case y == top:
		return BlockGrass
	case y >= top-1:
		return BlockDirt
	default:
		return BlockStone
	}
}

func (w *World) GridSize() int       { return w.gridSize }
func (w *World) BlockSize() float64  { return w.blockSize }
func (w *World) BlockCount() int     { return len(w.blocks) }
func (w *World) HalfExtent() float64 { return w.half }

// Extent is the world-space width of the grid on x and z.
func (w *World) Extent() float64 { return float64(w.gridSize) * w.blockSize }

// GridCoordOf maps a world position to its cell: floor((p + GridSize/2) / blockSize)
// horizontally. The offset is in grid units, so the grid is centered on the origin only
// when blockSize is 1.
func (w *World) GridCoordOf(pos mgl64.Vec3) GridCoord {
	return GridCoord{
		X: int(math.Floor((pos.X() + w.half) / w.blockSize)),
		Y: int(math.Floor(pos.Y() / w.blockSize)),
		Z: int(math.Floor((pos.Z() + w.half) / w.blockSize)),
	}
}

// CellCenter returns the world position of a cell's center.
func (w *World) CellCenter(c GridCoord) mgl64.Vec3 {
	return mgl64.Vec3{
		float64(c.X)*w.blockSize - w.half,
		float64(c.Y) * w.blockSize,
		float64(c.Z)*w.blockSize - w.half,
	}
}

func (w *World) IsOccupied(c GridCoord) bool {
	_, ok := w.blocks[c]
	return ok
}

// BlockAt reports the block stored at c, if any.
func (w *World) BlockAt(c GridCoord) (Block, bool) {
	kind, ok := w.blocks[c]
	if !ok {
		return Block{}, false
	}
	return Block{Coord: c, Kind: kind}, true
}

// TerrainHeight scans the column under (x, z) from the ceiling down and returns the
// top surface of the first occupied cell, or 0 when the column is empty.
func (w *World) TerrainHeight(x, z float64) float64 {
	gx := int(math.Floor((x + w.half) / w.blockSize))
	gz := int(math.Floor((z + w.half) / w.blockSize))
	if y, ok := w.columnTop(gx, gz); ok {
		return float64(y)*w.blockSize + w.blockSize
	}
	return 0
}

func (w *World) columnTop(gx, gz int) (int, bool) {
	for y := w.maxHeight; y >= 0; y-- {
		if _, ok := w.blocks[GridCoord{gx, y, gz}]; ok {
			return y, true
		}
	}
	return 0, false
}

// CollidesHorizontally tests the 3x3 neighborhood around pos for an occupied cell whose
// x/z footprint, grown by radius on each side, contains pos. Levels from pos.Y up to
// pos.Y+height are scanned, so a block below pos.Y never blocks and steps can be climbed.
func (w *World) CollidesHorizontally(pos mgl64.Vec3, radius, height float64) bool {
	c := w.GridCoordOf(pos)
	yMin := int(math.Floor(pos.Y() / w.blockSize))
	yMax := int(math.Ceil((pos.Y() + height) / w.blockSize))
	reach := w.blockSize/2 + radius

	for dx := -1; dx <= 1; dx++ {
		for dz := -1; dz <= 1; dz++ {
			for y := yMin; y <= yMax; y++ {
				cell := GridCoord{c.X + dx, y, c.Z + dz}
				if !w.IsOccupied(cell) {
					continue
				}
				center := w.CellCenter(cell)
				if math.Abs(pos.X()-center.X()) < reach && math.Abs(pos.Z()-center.Z()) < reach {
					return true
				}
			}
		}
	}
	return false
}

// InBounds reports whether (x, z) lies over the grid.
func (w *World) InBounds(x, z float64) bool {
	hi := w.Extent() - w.half
	return x >= -w.half && x < hi && z >= -w.half && z < hi
}

// ForEachBlock visits every block in unspecified order.
func (w *World) ForEachBlock(fn func(Block)) {
	for c, kind := range w.blocks {
		fn(Block{Coord: c, Kind: kind})
	}
}

// SurfaceKind returns the kind of the top block of a grid column.
func (w *World) SurfaceKind(gx, gz int) (BlockKind, bool) {
	y, ok := w.columnTop(gx, gz)
	if !ok {
		return 0, false
	}
	return w.blocks[GridCoord{gx, y, gz}], true
}
