package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"sort"

	"voxelrift/internal/config"
	"voxelrift/internal/game"
	"voxelrift/internal/threading/core"
	"voxelrift/internal/world"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	windowWidth  = 1200
	windowHeight = 800
	sidebarWidth = 300
)

var (
	panelBg     = color.RGBA{24, 24, 32, 255}
	spawnArea   = color.RGBA{255, 220, 80, 255}
	playerSpawn = color.RGBA{80, 220, 255, 255}
	keepOut     = color.RGBA{255, 80, 80, 255}
)

// worldInfo is one generated world and its summary
type worldInfo struct {
	Seed      int64
	World     *world.World
	Pixels    []color.RGBA
	Kinds     map[world.BlockKind]int
	MaxHeight float64
}

type viewer struct {
	cfg    *config.Config
	pool   *core.WorkerPool
	cur    worldInfo
	image  *ebiten.Image
	legend bool
}

func main() {
	cfg := config.MustLoadConfig("config.yaml")

	pool := core.CreateDefaultWorkerPool()
	defer pool.Stop()

	v := &viewer{cfg: cfg, pool: pool}
	v.load(cfg.World.Seed)

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Voxelrift World Viewer")
	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

// load generates the world for seed and bakes its top-down image
func (v *viewer) load(seed int64) {
	wc := v.cfg.World
	wc.Seed = seed
	w := world.Generate(wc, rand.New(rand.NewSource(seed)))

	info := worldInfo{
		Seed:   seed,
		World:  w,
		Pixels: game.BakeTerrain(context.Background(), v.pool, w),
		Kinds:  make(map[world.BlockKind]int),
	}
	w.ForEachBlock(func(b world.Block) { info.Kinds[b.Kind]++ })
	for gx := 0; gx < w.GridSize(); gx++ {
		for gz := 0; gz < w.GridSize(); gz++ {
			c := w.CellCenter(world.GridCoord{X: gx, Z: gz})
			info.MaxHeight = max(info.MaxHeight, w.TerrainHeight(c.X(), c.Z()))
		}
	}
	v.cur = info

	n := w.GridSize()
	buf := make([]byte, 0, n*n*4)
	for _, c := range info.Pixels {
		buf = append(buf, c.R, c.G, c.B, c.A)
	}
	if v.image != nil {
		v.image.Deallocate()
	}
	v.image = ebiten.NewImage(n, n)
	v.image.WritePixels(buf)
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.legend = !v.legend
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		v.load(v.cur.Seed + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.load(v.cur.Seed - 1)
	}
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	mapW := windowWidth - sidebarWidth
	drawMapHeader(screen, v.cur, 0, 0)
	v.drawMapPanel(screen, 0, 48, mapW, windowHeight-48)
	drawSidebar(screen, v.cur, v.cfg.Spawn, mapW, 0, sidebarWidth, windowHeight, v.legend)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (v *viewer) drawMapPanel(screen *ebiten.Image, x, y, w, h int) {
	n := v.cur.World.GridSize()
	cell := min(w, h) / n
	if cell <= 0 {
		ebitenutil.DebugPrintAt(screen, "window too small for this grid", x+12, y+12)
		return
	}
	ox := x + (w-cell*n)/2
	oy := y + (h-cell*n)/2

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(cell), float64(cell))
	op.GeoM.Translate(float64(ox), float64(oy))
	screen.DrawImage(v.image, op)

	// spawn area: the central fraction of the grid
	frac := v.cfg.Spawn.AreaFraction
	side := float32(float64(cell*n) * frac)
	ax := float32(ox) + (float32(cell*n)-side)/2
	ay := float32(oy) + (float32(cell*n)-side)/2
	vector.StrokeRect(screen, ax, ay, side, side, 2, spawnArea, false)

	// the player spawns at the world origin
	origin := float32(v.cur.World.HalfExtent() / v.cur.World.BlockSize() * float64(cell))
	cx := float32(ox) + origin
	cy := float32(oy) + origin
	r := float32(v.cfg.Spawn.MinDistance / v.cfg.World.BlockSize * float64(cell))
	vector.StrokeCircle(screen, cx, cy, r, 1, keepOut, true)
	vector.DrawFilledCircle(screen, cx, cy, 5, playerSpawn, true)
}

func drawMapHeader(screen *ebiten.Image, info worldInfo, x, y int) {
	title := fmt.Sprintf("seed %d  %dx%d  %d blocks", info.Seed, info.World.GridSize(), info.World.GridSize(), info.World.BlockCount())
	ebitenutil.DebugPrintAt(screen, title, x+12, y+8)
	ebitenutil.DebugPrintAt(screen, "Left/Right (or A/D) to change seed, Tab for legend, Esc to quit", x+12, y+24)
}

func drawSidebar(screen *ebiten.Image, info worldInfo, spawn config.SpawnConfig, x, y, w, h int, legend bool) {
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), panelBg, false)
	row := y + 16
	line := func(s string) {
		ebitenutil.DebugPrintAt(screen, s, x+12, row)
		row += 16
	}

	if legend {
		line("Legend:")
		line("Yellow box: spawn area")
		line("Red ring: min spawn distance")
		line("Cyan dot: player spawn")
		line("Brighter columns are higher")
		return
	}

	kinds := make([]world.BlockKind, 0, len(info.Kinds))
	for k := range info.Kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	line("Blocks by kind:")
	for _, k := range kinds {
		line(fmt.Sprintf("  %-6s %6d", k, info.Kinds[k]))
	}
	row += 8
	line(fmt.Sprintf("Max terrain height: %.1f", info.MaxHeight))
	line(fmt.Sprintf("Spawn area: %.0f%%", spawn.AreaFraction*100))
	line(fmt.Sprintf("Min spawn distance: %.0f", spawn.MinDistance))
}
