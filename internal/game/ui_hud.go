package game

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"voxelrift/internal/sim"
)

var (
	hudPanel       = color.RGBA{0, 0, 0, 140}
	hudText        = color.RGBA{230, 230, 230, 255}
	hudHealth      = color.RGBA{200, 40, 40, 255}
	hudStamina     = color.RGBA{40, 160, 220, 255}
	hudBarBg       = color.RGBA{60, 60, 60, 200}
	hudReloading   = color.RGBA{255, 200, 60, 255}
	hudNotify      = color.RGBA{255, 80, 80, 255}
	hudScope       = color.RGBA{0, 0, 0, 230}
	hudDeathScreen = color.RGBA{80, 0, 0, 160}
)

// UISystem draws the heads-up display
type UISystem struct {
	face    font.Face
	showFPS bool
}

func NewUISystem() *UISystem {
	return &UISystem{face: basicfont.Face7x13}
}

func (ui *UISystem) text(screen *ebiten.Image, s string, x, y int, clr color.Color) {
	ebitext.Draw(screen, s, ui.face, x, y+ui.face.Metrics().Ascent.Round(), clr)
}

func (ui *UISystem) centeredText(screen *ebiten.Image, s string, cx, y int, clr color.Color) {
	w := font.MeasureString(ui.face, s).Round()
	ui.text(screen, s, cx-w/2, y, clr)
}

// Draw renders every HUD element for snap
func (ui *UISystem) Draw(screen *ebiten.Image, snap sim.Snapshot, notes []string, mapTitle string) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()

	if snap.Player.ADS {
		ui.drawScope(screen, w, h)
	} else {
		ui.drawCrosshair(screen, w, h)
	}
	ui.drawBars(screen, snap, h)
	ui.drawWeaponInfo(screen, snap, w, h)
	ui.drawScore(screen, snap, mapTitle)
	ui.drawNotifications(screen, notes, w, h)
	if ui.showFPS {
		ui.drawFPSCounter(screen, w)
	}
	if !snap.Player.Alive {
		vector.DrawFilledRect(screen, 0, 0, float32(w), float32(h), hudDeathScreen, false)
		ui.centeredText(screen, "YOU DIED", w/2, h/2-20, hudText)
		ui.centeredText(screen, "Press Enter to respawn", w/2, h/2, hudText)
	}
}

func (ui *UISystem) drawCrosshair(screen *ebiten.Image, w, h int) {
	cx, cy := float32(w)/2, float32(h)/2
	vector.StrokeLine(screen, cx-8, cy, cx+8, cy, 2, crosshairColor, false)
	vector.StrokeLine(screen, cx, cy-8, cx, cy+8, 2, crosshairColor, false)
}

// drawScope masks everything outside a circle
func (ui *UISystem) drawScope(screen *ebiten.Image, w, h int) {
	cx, cy := float32(w)/2, float32(h)/2
	r := float32(h) * 0.4
	vector.DrawFilledRect(screen, 0, 0, cx-r, float32(h), hudScope, false)
	vector.DrawFilledRect(screen, cx+r, 0, float32(w)-cx-r, float32(h), hudScope, false)
	vector.StrokeCircle(screen, cx, cy, r, 4, hudScope, true)
	vector.StrokeLine(screen, cx-r, cy, cx+r, cy, 1, hudScope, false)
	vector.StrokeLine(screen, cx, cy-r, cx, cy+r, 1, hudScope, false)
}

func (ui *UISystem) drawBars(screen *ebiten.Image, snap sim.Snapshot, h int) {
	const barW, barH = 200, 14
	x, y := 20, h-60
	p := snap.Player
	bar := func(y int, value, maxValue float64, clr color.Color, label string) {
		vector.DrawFilledRect(screen, float32(x), float32(y), barW, barH, hudBarBg, false)
		if maxValue > 0 {
			vector.DrawFilledRect(screen, float32(x), float32(y), float32(barW*value/maxValue), barH, clr, false)
		}
		ui.text(screen, fmt.Sprintf("%s %d", label, int(value)), x+4, y, hudText)
	}
	bar(y, p.Health, p.MaxHealth, hudHealth, "HP")
	bar(y+barH+6, p.Stamina, p.MaxStamina, hudStamina, "ST")
}

func (ui *UISystem) drawWeaponInfo(screen *ebiten.Image, snap sim.Snapshot, w, h int) {
	wv := snap.Weapon
	lines := []string{wv.Name}
	switch {
	case wv.ID == "grenade":
		lines = append(lines, fmt.Sprintf("x%d", wv.Count))
	case wv.Magazine == 0 && wv.Reserve == 0 && !wv.Reloading && wv.Name != "":
		lines = append(lines, "--")
	default:
		lines = append(lines, fmt.Sprintf("%d / %d", wv.Magazine, wv.Reserve))
	}
	clr := color.Color(hudText)
	if wv.Reloading {
		lines = append(lines, "RELOADING")
		clr = hudReloading
	}
	panelW, panelH := 140, len(lines)*16+12
	px, py := w-panelW-20, h-panelH-20
	vector.DrawFilledRect(screen, float32(px), float32(py), float32(panelW), float32(panelH), hudPanel, false)
	for i, line := range lines {
		ui.text(screen, line, px+8, py+6+i*16, clr)
	}
}

func (ui *UISystem) drawScore(screen *ebiten.Image, snap sim.Snapshot, mapTitle string) {
	mode := snap.Player.Camera.String()
	if snap.Stealth {
		mode += " STEALTH"
	}
	lines := []string{
		fmt.Sprintf("Kills: %d  Headshots: %d", snap.Kills, snap.Headshots),
		fmt.Sprintf("Mobs: %d", len(snap.Mobs)),
		mode,
		mapTitle,
	}
	vector.DrawFilledRect(screen, 10, 10, 200, float32(len(lines)*16+8), hudPanel, false)
	for i, line := range lines {
		ui.text(screen, line, 16, 14+i*16, hudText)
	}
}

func (ui *UISystem) drawNotifications(screen *ebiten.Image, notes []string, w, h int) {
	for i, n := range notes {
		ui.centeredText(screen, strings.ToUpper(n), w/2, h/3+i*18, hudNotify)
	}
}

func (ui *UISystem) drawFPSCounter(screen *ebiten.Image, w int) {
	lines := []string{
		fmt.Sprintf("FPS: %.1f", ebiten.ActualFPS()),
		fmt.Sprintf("TPS: %.1f", ebiten.ActualTPS()),
	}
	x := w - 110
	vector.DrawFilledRect(screen, float32(x), 10, 100, float32(len(lines)*16+8), hudPanel, false)
	for i, line := range lines {
		ui.text(screen, line, x+6, 14+i*16, hudText)
	}
}
