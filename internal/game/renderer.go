package game

import (
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"voxelrift/internal/effects"
	"voxelrift/internal/mathutil"
	"voxelrift/internal/monster"
	"voxelrift/internal/player"
	"voxelrift/internal/sim"
	"voxelrift/internal/world"
)

const (
	ViewDistance  = 40.0
	nearPlane     = 0.1
	tppBack       = 6.0
	tppUp         = 2.0
	mobHalfWidth  = 0.3
	mobHeight     = 1.8
	mobFootOffset = 0.85
)

var (
	skyColor       = color.RGBA{0x87, 0xCE, 0xEB, 255}
	groundColor    = color.RGBA{0x4A, 0x8C, 0x42, 255}
	mobColor       = color.RGBA{0xC0, 0x30, 0x30, 255}
	mobHeadColor   = color.RGBA{0xE0, 0xA0, 0x80, 255}
	flashColor     = color.RGBA{255, 255, 255, 255}
	grenadeColor   = color.RGBA{0x22, 0x8B, 0x22, 255}
	axeColor       = color.RGBA{0x8B, 0x00, 0x00, 255}
	poolColor      = color.RGBA{0x8B, 0x00, 0x00, 230}
	avatarColor    = color.RGBA{0x30, 0x60, 0xC0, 255}
	muzzleColor    = color.RGBA{255, 230, 120, 200}
	crosshairColor = color.RGBA{255, 255, 255, 200}
)

// Camera is a pinhole camera built from the player view
type Camera struct {
	Eye     mgl64.Vec3
	Forward mgl64.Vec3
	Right   mgl64.Vec3
	Up      mgl64.Vec3
	Focal   float64 // pixels
	Width   float64
	Height  float64
}

// NewCamera places the eye at the player, or behind and above in third person.
// fov is vertical, in degrees.
func NewCamera(p sim.PlayerView, width, height int) Camera {
	cp := math.Cos(p.Pitch)
	fwd := mgl64.Vec3{-math.Sin(p.Yaw) * cp, math.Sin(p.Pitch), -math.Cos(p.Yaw) * cp}
	right := mgl64.Vec3{math.Cos(p.Yaw), 0, -math.Sin(p.Yaw)}
	up := right.Cross(fwd)

	eye := p.Position.Add(p.ShakeOffset)
	if p.Camera == player.ThirdPerson {
		flat := mgl64.Vec3{-math.Sin(p.Yaw), 0, -math.Cos(p.Yaw)}
		eye = eye.Sub(flat.Mul(tppBack)).Add(mgl64.Vec3{0, tppUp, 0})
	}
	fov := p.FOV
	if fov <= 0 {
		fov = 75
	}
	focal := float64(height) / 2 / math.Tan(fov*math.Pi/360)
	return Camera{Eye: eye, Forward: fwd, Right: right, Up: up, Focal: focal, Width: float64(width), Height: float64(height)}
}

// Project maps a world point to screen pixels. ok is false behind the near plane.
func (c Camera) Project(p mgl64.Vec3) (x, y, depth float64, ok bool) {
	d := p.Sub(c.Eye)
	depth = d.Dot(c.Forward)
	if depth < nearPlane {
		return 0, 0, depth, false
	}
	x = c.Width/2 + d.Dot(c.Right)/depth*c.Focal
	y = c.Height/2 - d.Dot(c.Up)/depth*c.Focal
	return x, y, depth, true
}

// Horizon is the screen y of the horizon line
func (c Camera) Horizon() float64 {
	pitch := math.Asin(mathutil.Clamp(c.Forward.Y(), -1, 1))
	return c.Height/2 + math.Tan(pitch)*c.Focal
}

type column struct {
	top mgl64.Vec3
	clr color.RGBA
}

// drawable is anything sorted back to front
type drawable struct {
	depth float64
	draw  func(*ebiten.Image)
}

// Renderer draws a simple perspective view of the voxel surface and entities
type Renderer struct {
	columns []column
	queue   []drawable
}

// NewRenderer caches the top of every column
func NewRenderer(w *world.World, pixels []color.RGBA) *Renderer {
	n := w.GridSize()
	r := &Renderer{columns: make([]column, 0, n*n)}
	for gz := 0; gz < n; gz++ {
		for gx := 0; gx < n; gx++ {
			if _, ok := w.SurfaceKind(gx, gz); !ok {
				continue
			}
			c := w.CellCenter(world.GridCoord{X: gx, Z: gz})
			c[1] = w.TerrainHeight(c.X(), c.Z())
			r.columns = append(r.columns, column{top: c, clr: pixels[gz*n+gx]})
		}
	}
	return r
}

func (r *Renderer) push(depth float64, fn func(*ebiten.Image)) {
	r.queue = append(r.queue, drawable{depth: depth, draw: fn})
}

// Draw renders the world view for snap and the live particle view
func (r *Renderer) Draw(screen *ebiten.Image, snap sim.Snapshot, fx effects.View) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	cam := NewCamera(snap.Player, w, h)

	screen.Fill(skyColor)
	horizon := float32(mathutil.Clamp(cam.Horizon(), 0, float64(h)))
	vector.DrawFilledRect(screen, 0, horizon, float32(w), float32(h)-horizon, groundColor, false)

	r.queue = r.queue[:0]
	r.queueTerrain(cam)
	r.queueMobs(cam, snap.Mobs)
	r.queueProjectiles(cam, snap)
	r.queueEffects(cam, fx)
	if snap.Player.Camera == player.ThirdPerson {
		r.queueAvatar(cam, snap.Player.Position)
	}

	sort.Slice(r.queue, func(i, j int) bool { return r.queue[i].depth > r.queue[j].depth })
	for _, d := range r.queue {
		d.draw(screen)
	}

	if len(fx.Flashes) > 0 && snap.Player.Camera == player.FirstPerson {
		vector.DrawFilledCircle(screen, float32(w)/2+40, float32(h)-60, 18, muzzleColor, true)
	}
}

func (r *Renderer) queueTerrain(cam Camera) {
	for _, col := range r.columns {
		if col.top.Sub(cam.Eye).Len() > ViewDistance {
			continue
		}
		x, y, depth, ok := cam.Project(col.top)
		if !ok {
			continue
		}
		size := float32(math.Max(1, cam.Focal/depth))
		clr := col.clr
		r.push(depth, func(dst *ebiten.Image) {
			vector.DrawFilledRect(dst, float32(x)-size/2, float32(y)-size/2, size, size, clr, false)
		})
	}
}

func (r *Renderer) queueMobs(cam Camera, mobs []sim.MobView) {
	for _, m := range mobs {
		feet := m.Position.Sub(mgl64.Vec3{0, mobFootOffset, 0})
		height := mobHeight
		if m.State == monster.StateDying {
			height *= math.Max(0.15, math.Abs(math.Cos(m.FallRotation)))
		}
		x, yFeet, depth, ok := cam.Project(feet)
		if !ok || depth > ViewDistance*1.5 {
			continue
		}
		_, yTop, _, _ := cam.Project(feet.Add(mgl64.Vec3{0, height, 0}))
		halfW := float32(mobHalfWidth * cam.Focal / depth)
		body, head := mobColor, mobHeadColor
		if m.Flashing {
			body, head = flashColor, flashColor
		}
		r.push(depth, func(dst *ebiten.Image) {
			top, bottom := float32(yTop), float32(yFeet)
			vector.DrawFilledRect(dst, float32(x)-halfW, top, 2*halfW, bottom-top, body, false)
			if m.State != monster.StateDying {
				vector.DrawFilledRect(dst, float32(x)-halfW, top, 2*halfW, (bottom-top)/4, head, false)
			}
		})
	}
}

func (r *Renderer) queueProjectiles(cam Camera, snap sim.Snapshot) {
	dot := func(p mgl64.Vec3, radius float64, clr color.RGBA) {
		x, y, depth, ok := cam.Project(p)
		if !ok {
			return
		}
		size := float32(math.Max(2, radius*cam.Focal/depth))
		r.push(depth, func(dst *ebiten.Image) {
			vector.DrawFilledCircle(dst, float32(x), float32(y), size, clr, true)
		})
	}
	for _, g := range snap.Grenades {
		dot(g.Position, 0.2, grenadeColor)
	}
	for _, a := range snap.Axes {
		dot(a.Position, 0.3, axeColor)
	}
}

func (r *Renderer) queueEffects(cam Camera, fx effects.View) {
	for _, p := range fx.Pools {
		x, y, depth, ok := cam.Project(p.Pos)
		if !ok || depth > ViewDistance {
			continue
		}
		rad := float32(p.Radius() * cam.Focal / depth)
		r.push(depth+0.5, func(dst *ebiten.Image) {
			vector.DrawFilledCircle(dst, float32(x), float32(y), rad, poolColor, true)
		})
	}
	for _, p := range fx.Blood {
		x, y, depth, ok := cam.Project(p.Pos)
		if !ok {
			continue
		}
		clr := color.RGBA{uint8(255 * (0.7 + p.Shade)), 0, 0, 255}
		r.push(depth, func(dst *ebiten.Image) {
			vector.DrawFilledRect(dst, float32(x), float32(y), 2, 2, clr, false)
		})
	}
	for _, ex := range fx.Explosions {
		alpha := uint8(255 * mathutil.Clamp(ex.Opacity, 0, 1))
		for i, p := range ex.Points {
			x, y, depth, ok := cam.Project(p)
			if !ok {
				continue
			}
			clr := color.RGBA{alpha, uint8(float64(alpha) * ex.Heat[i]), 0, alpha}
			size := float32(math.Max(1, 0.5*cam.Focal/depth))
			r.push(depth, func(dst *ebiten.Image) {
				vector.DrawFilledRect(dst, float32(x)-size/2, float32(y)-size/2, size, size, clr, false)
			})
		}
	}
}

func (r *Renderer) queueAvatar(cam Camera, eye mgl64.Vec3) {
	feet := eye.Sub(mgl64.Vec3{0, 1.7, 0})
	x, yFeet, depth, ok := cam.Project(feet)
	if !ok {
		return
	}
	_, yTop, _, _ := cam.Project(eye.Add(mgl64.Vec3{0, 0.2, 0}))
	halfW := float32(0.35 * cam.Focal / depth)
	r.push(depth, func(dst *ebiten.Image) {
		vector.DrawFilledRect(dst, float32(x)-halfW, float32(yTop), 2*halfW, float32(yFeet-yTop), avatarColor, false)
	})
}
