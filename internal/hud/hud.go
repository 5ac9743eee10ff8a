// Package hud draws the 2D overlay: FPS and memory counters, a status line, the toast
// board and the on-screen touch pad. It also turns mouse/touch input on those widgets into
// input handler calls and toast cancel actions.
package hud

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"explore-engine/internal/input"
	"explore-engine/internal/notify"
)

const (
	fontSize   = 20
	padding    = 12
	lineHeight = fontSize + 4
	// updateInterval: FPS/Mem text is only rebuilt every N frames to limit allocations.
	updateInterval = 30

	toastWidth  = 360
	toastHeight = 34
	buttonSize  = 64
	buttonGap   = 8
)

type button struct {
	region   input.Region
	label    string
	handlers input.Handlers
	rect     rl.Rectangle
	held     bool
}

// HUD is the overlay. It is driven from the render loop only.
type HUD struct {
	ShowFPS      bool
	ShowMemAlloc bool
	TouchPad     bool
	Status       string

	board   *notify.Board
	buttons []*button
	toasts  []toastHit

	frameCount  uint32
	lastFpsText string
	lastMemText string
	memStats    runtime.MemStats
}

type toastHit struct {
	key  string
	rect rl.Rectangle
}

var padLabels = map[input.Region]string{
	input.RegionForward:   "W",
	input.RegionBackward:  "S",
	input.RegionTurnLeft:  "A",
	input.RegionTurnRight: "D",
	input.RegionSprint:    "Run",
	input.RegionJump:      "Jump",
}

// New returns a HUD showing board and binding a touch pad button to every input region.
func New(board *notify.Board, sampler *input.Sampler) *HUD {
	h := &HUD{board: board}
	for _, r := range input.Regions() {
		h.buttons = append(h.buttons, &button{
			region:   r,
			label:    padLabels[r],
			handlers: sampler.BindPointerRegion(r),
		})
	}
	return h
}

// layout places the pad: a direction cross on the bottom left, sprint and jump on the
// bottom right.
func (h *HUD) layout(w, ht float32) {
	step := float32(buttonSize + buttonGap)
	left := float32(padding)
	bottom := ht - padding - buttonSize
	at := map[input.Region]rl.Vector2{
		input.RegionForward:   {X: left + step, Y: bottom - step},
		input.RegionTurnLeft:  {X: left, Y: bottom},
		input.RegionBackward:  {X: left + step, Y: bottom},
		input.RegionTurnRight: {X: left + 2*step, Y: bottom},
		input.RegionSprint:    {X: w - padding - 2*step, Y: bottom},
		input.RegionJump:      {X: w - padding - step, Y: bottom},
	}
	for _, b := range h.buttons {
		p := at[b.region]
		b.rect = rl.NewRectangle(p.X, p.Y, buttonSize, buttonSize)
	}
}

// Update handles pointer input. Call once per frame before the controller frame so held
// buttons are reflected in the same frame.
func (h *HUD) Update() {
	mouse := rl.GetMousePosition()
	down := rl.IsMouseButtonDown(rl.MouseButtonLeft)

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		for _, t := range h.toasts {
			if rl.CheckCollisionPointRec(mouse, t.rect) {
				h.board.Activate(t.key)
				break
			}
		}
	}

	if !h.TouchPad {
		return
	}
	h.layout(float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	for _, b := range h.buttons {
		inside := down && rl.CheckCollisionPointRec(mouse, b.rect)
		switch {
		case inside && !b.held:
			b.held = true
			b.handlers.Down()
		case !inside && b.held:
			b.held = false
			b.handlers.Up()
		}
	}
}

// Draw renders the overlay. Call after the 3D scene.
func (h *HUD) Draw() {
	h.drawCounters()
	if h.Status != "" {
		rl.DrawText(h.Status, padding, padding, fontSize, rl.White)
	}
	h.drawToasts()
	if h.TouchPad {
		h.drawPad()
	}
}

func (h *HUD) drawCounters() {
	h.frameCount++
	update := h.frameCount%updateInterval == 0
	if (h.ShowFPS && h.lastFpsText == "") || (h.ShowMemAlloc && h.lastMemText == "") {
		update = true
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(padding)
	if h.ShowFPS {
		if update {
			h.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
		}
		rl.DrawText(h.lastFpsText, screenW-rl.MeasureText(h.lastFpsText, fontSize)-padding, y, fontSize, rl.Green)
		y += lineHeight
	}
	if h.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&h.memStats)
			h.lastMemText = fmt.Sprintf("Mem: %.2f MiB", float64(h.memStats.Alloc)/(1024*1024))
		}
		rl.DrawText(h.lastMemText, screenW-rl.MeasureText(h.lastMemText, fontSize)-padding, y, fontSize, rl.Green)
	}
}

func toastColor(l notify.Level) rl.Color {
	switch l {
	case notify.LevelSuccess:
		return rl.NewColor(40, 140, 70, 230)
	case notify.LevelError:
		return rl.NewColor(170, 50, 50, 230)
	case notify.LevelCountdown:
		return rl.NewColor(40, 60, 120, 230)
	default:
		return rl.NewColor(40, 40, 40, 220)
	}
}

// drawToasts stacks the board top-center. Countdown toasts get a Cancel hit area.
func (h *HUD) drawToasts() {
	h.toasts = h.toasts[:0]
	x := float32(rl.GetScreenWidth()-toastWidth) / 2
	y := float32(padding)
	for _, t := range h.board.Toasts() {
		r := rl.NewRectangle(x, y, toastWidth, toastHeight)
		rl.DrawRectangleRec(r, toastColor(t.Level))
		rl.DrawText(t.Message, int32(x)+10, int32(y)+7, fontSize, rl.White)
		if t.Cancel != nil {
			const label = "Cancel"
			lw := float32(rl.MeasureText(label, fontSize))
			hit := rl.NewRectangle(x+toastWidth-lw-16, y, lw+16, toastHeight)
			rl.DrawText(label, int32(hit.X)+8, int32(y)+7, fontSize, rl.SkyBlue)
			h.toasts = append(h.toasts, toastHit{key: t.Key, rect: hit})
		}
		y += toastHeight + 6
	}
}

func (h *HUD) drawPad() {
	for _, b := range h.buttons {
		c := rl.NewColor(255, 255, 255, 70)
		if b.held {
			c = rl.NewColor(255, 255, 255, 150)
		}
		rl.DrawRectangleRounded(b.rect, 0.3, 6, c)
		tw := rl.MeasureText(b.label, fontSize)
		rl.DrawText(b.label, int32(b.rect.X)+(buttonSize-tw)/2, int32(b.rect.Y)+(buttonSize-fontSize)/2, fontSize, rl.White)
	}
}
