package game

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"voxelrift/internal/game/keytracker"
	"voxelrift/internal/mathutil"
	"voxelrift/internal/sim"
)

const (
	MouseSensitivity = 0.002
	maxPitch         = math.Pi/2 - 0.01
)

var weaponKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7,
}

// HostCommands are actions handled by the host rather than the simulation
type HostCommands struct {
	Respawn        bool
	ToggleTerrain  bool
	ToggleMobs     bool
	TogglePlayer   bool
	ToggleFPS      bool
	ReleaseCapture bool
}

// InputHandler turns keyboard and mouse state into one simulation Input per frame
type InputHandler struct {
	keys *keytracker.Tracker

	yaw, pitch   float64
	lastX, lastY int
	haveLast     bool
}

func NewInputHandler() *InputHandler {
	tracked := append([]ebiten.Key{
		ebiten.KeySpace, ebiten.KeyR, ebiten.KeyG, ebiten.KeyQ, ebiten.KeyX, ebiten.KeyV,
		ebiten.KeyEnter, ebiten.KeyT, ebiten.KeyY, ebiten.KeyU, ebiten.KeyF3, ebiten.KeyEscape,
	}, weaponKeys...)
	return &InputHandler{keys: keytracker.New(tracked...)}
}

// look applies a mouse delta in pixels. Moving right turns right, moving down looks down.
func (ih *InputHandler) look(dx, dy float64) {
	ih.yaw -= dx * MouseSensitivity
	ih.pitch = mathutil.Clamp(ih.pitch-dy*MouseSensitivity, -maxPitch, maxPitch)
}

func (ih *InputHandler) updateLook() {
	if ebiten.CursorMode() != ebiten.CursorModeCaptured {
		ih.haveLast = false
		return
	}
	x, y := ebiten.CursorPosition()
	if ih.haveLast {
		ih.look(float64(x-ih.lastX), float64(y-ih.lastY))
	}
	ih.lastX, ih.lastY, ih.haveLast = x, y, true
}

// Poll samples the devices. weapons is the selection order used by the number keys.
func (ih *InputHandler) Poll(weapons []string) (sim.Input, HostCommands) {
	ih.keys.Update()
	ih.updateLook()

	captured := ebiten.CursorMode() == ebiten.CursorModeCaptured
	if !captured && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
		// the capturing click does not fire
		return sim.Input{Yaw: ih.yaw, Pitch: ih.pitch}, HostCommands{}
	}

	in := sim.Input{
		Forward:        ebiten.IsKeyPressed(ebiten.KeyW),
		Backward:       ebiten.IsKeyPressed(ebiten.KeyS),
		Left:           ebiten.IsKeyPressed(ebiten.KeyA),
		Right:          ebiten.IsKeyPressed(ebiten.KeyD),
		Sprint:         ebiten.IsKeyPressed(ebiten.KeyShift),
		JumpPressed:    ih.keys.IsKeyJustPressed(ebiten.KeySpace),
		Yaw:            ih.yaw,
		Pitch:          ih.pitch,
		Fire:           captured && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Aim:            captured && ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
		ReloadPressed:  ih.keys.IsKeyJustPressed(ebiten.KeyR),
		GrenadePressed: ih.keys.IsKeyJustPressed(ebiten.KeyG),
		AxePressed:     ih.keys.IsKeyJustPressed(ebiten.KeyQ),
		StealthPressed: ih.keys.IsKeyJustPressed(ebiten.KeyX),
		CameraPressed:  ih.keys.IsKeyJustPressed(ebiten.KeyV),
	}
	for i, k := range weaponKeys {
		if i < len(weapons) && ih.keys.IsKeyJustPressed(k) {
			in.SelectWeapon = weapons[i]
		}
	}
	_, wheel := ebiten.Wheel()
	in.CycleWeapon = wheelStep(wheel)

	cmds := HostCommands{
		Respawn:        ih.keys.IsKeyJustPressed(ebiten.KeyEnter),
		ToggleTerrain:  ih.keys.IsKeyJustPressed(ebiten.KeyT),
		ToggleMobs:     ih.keys.IsKeyJustPressed(ebiten.KeyY),
		TogglePlayer:   ih.keys.IsKeyJustPressed(ebiten.KeyU),
		ToggleFPS:      ih.keys.IsKeyJustPressed(ebiten.KeyF3),
		ReleaseCapture: ih.keys.IsKeyJustPressed(ebiten.KeyEscape),
	}
	if cmds.ReleaseCapture {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	return in, cmds
}

// wheelStep maps a scroll delta to a weapon cycle step. Scrolling down selects the next weapon.
func wheelStep(dy float64) int {
	switch {
	case dy < 0:
		return 1
	case dy > 0:
		return -1
	}
	return 0
}
