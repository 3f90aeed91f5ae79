package game

import (
	"context"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"voxelrift/internal/config"
	"voxelrift/internal/monster"
	"voxelrift/internal/sim"
	"voxelrift/internal/threading/core"
	"voxelrift/internal/world"
)

var (
	minimapBg       = color.RGBA{20, 20, 30, 200}
	minimapBorder   = color.RGBA{100, 100, 140, 255}
	minimapMob      = color.RGBA{255, 60, 60, 255}
	minimapDying    = color.RGBA{120, 40, 40, 200}
	minimapPlayer   = color.RGBA{50, 200, 255, 255}
	minimapHeadMark = color.RGBA{255, 255, 255, 255}
)

// Minimap is a north-up map centered on the player with toggleable layers
type Minimap struct {
	cfg       config.MinimapConfig
	grid      int
	blockSize float64
	half      float64
	pixels    []color.RGBA

	terrain *ebiten.Image
	canvas  *ebiten.Image

	ShowTerrain bool
	ShowMobs    bool
	ShowPlayer  bool
}

// NewMinimap bakes the terrain layer on the pool
func NewMinimap(ctx context.Context, cfg config.MinimapConfig, w *world.World, pool *core.WorkerPool) *Minimap {
	return &Minimap{
		cfg:         cfg,
		grid:        w.GridSize(),
		blockSize:   w.BlockSize(),
		half:        w.HalfExtent(),
		pixels:      BakeTerrain(ctx, pool, w),
		ShowTerrain: cfg.Terrain,
		ShowMobs:    cfg.Mobs,
		ShowPlayer:  cfg.Player,
	}
}

// BakeTerrain computes one shaded color per grid column, row-major by z. Rows are
// spread over the pool; each writes only its own slice range.
func BakeTerrain(ctx context.Context, pool *core.WorkerPool, w *world.World) []color.RGBA {
	n := w.GridSize()
	out := make([]color.RGBA, n*n)
	pool.ParallelFor(ctx, 0, n, func(gz int) {
		for gx := 0; gx < n; gx++ {
			kind, ok := w.SurfaceKind(gx, gz)
			if !ok {
				continue
			}
			c := w.CellCenter(world.GridCoord{X: gx, Z: gz})
			out[gz*n+gx] = shadeColumn(kind, w.TerrainHeight(c.X(), c.Z()))
		}
	})
	return out
}

// shadeColumn brightens higher columns
func shadeColumn(kind world.BlockKind, height float64) color.RGBA {
	rgb := kind.Color()
	f := math.Min(1.2, 0.6+height*0.08)
	scale := func(v uint32) uint8 {
		return uint8(math.Min(255, float64(v&0xFF)*f))
	}
	return color.RGBA{scale(rgb >> 16), scale(rgb >> 8), scale(rgb), 255}
}

// Apply flips the layers requested this frame
func (m *Minimap) Apply(cmds HostCommands) {
	if cmds.ToggleTerrain {
		m.ShowTerrain = !m.ShowTerrain
	}
	if cmds.ToggleMobs {
		m.ShowMobs = !m.ShowMobs
	}
	if cmds.TogglePlayer {
		m.ShowPlayer = !m.ShowPlayer
	}
}

// Title lists the visible layers
func (m *Minimap) Title() string {
	title := "MAP"
	if m.ShowTerrain {
		title += " T"
	}
	if m.ShowMobs {
		title += " M"
	}
	if m.ShowPlayer {
		title += " P"
	}
	return title
}

func (m *Minimap) scale() float64 {
	return float64(m.cfg.Size) / (2 * m.cfg.Range)
}

// toMap converts a world position to minimap pixels relative to the centered player
func (m *Minimap) toMap(p, center mgl64.Vec3) (float32, float32) {
	s := m.scale()
	mid := float64(m.cfg.Size) / 2
	return float32((p.X()-center.X())*s + mid), float32((p.Z()-center.Z())*s + mid)
}

func (m *Minimap) ensureImages() {
	if m.canvas != nil {
		return
	}
	m.canvas = ebiten.NewImage(m.cfg.Size, m.cfg.Size)
	m.terrain = ebiten.NewImage(m.grid, m.grid)
	buf := make([]byte, 0, len(m.pixels)*4)
	for _, c := range m.pixels {
		buf = append(buf, c.R, c.G, c.B, c.A)
	}
	m.terrain.WritePixels(buf)
}

// Draw renders the minimap with its top-left corner at (x, y)
func (m *Minimap) Draw(screen *ebiten.Image, snap sim.Snapshot, x, y int) {
	m.ensureImages()
	m.canvas.Fill(minimapBg)
	center := snap.Player.Position
	size := float32(m.cfg.Size)

	if m.ShowTerrain {
		op := &ebiten.DrawImageOptions{}
		tx := (center.X()+m.half)/m.blockSize + 0.5
		tz := (center.Z()+m.half)/m.blockSize + 0.5
		op.GeoM.Translate(-tx, -tz)
		op.GeoM.Scale(m.scale()*m.blockSize, m.scale()*m.blockSize)
		op.GeoM.Translate(float64(size)/2, float64(size)/2)
		m.canvas.DrawImage(m.terrain, op)
	}

	if m.ShowMobs {
		for _, mob := range snap.Mobs {
			mx, my := m.toMap(mob.Position, center)
			if mx < 0 || my < 0 || mx > size || my > size {
				continue
			}
			clr := minimapMob
			if mob.State == monster.StateDying {
				clr = minimapDying
			}
			vector.DrawFilledCircle(m.canvas, mx, my, 3, clr, true)
		}
	}

	if m.ShowPlayer {
		mid := size / 2
		vector.DrawFilledCircle(m.canvas, mid, mid, 4, minimapPlayer, true)
		hx := mid + float32(-math.Sin(snap.Player.Yaw))*10
		hy := mid + float32(-math.Cos(snap.Player.Yaw))*10
		vector.StrokeLine(m.canvas, mid, mid, hx, hy, 2, minimapHeadMark, true)
	}

	vector.StrokeRect(m.canvas, 1, 1, size-2, size-2, 2, minimapBorder, false)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	screen.DrawImage(m.canvas, op)
}
