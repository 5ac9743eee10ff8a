// Package terminal is the in-game console: a bar at the bottom of the screen, opened with
// ESC, that shows recent log lines and runs typed lines through a command registry.
package terminal

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	rl "github.com/gen2brain/raylib-go/raylib"

	"explore-engine/internal/commands"
)

const (
	BarHeight = 40
	prompt    = "> "
	fontSize  = 20
	padding   = 8
	// maxLinesOnScreen log lines are drawn above the input bar while open.
	maxLinesOnScreen = 14
	lineHeight       = fontSize + 4
	maxLineLen       = 200
)

var (
	barColor    = rl.NewColor(40, 40, 40, 255)
	lineColor   = rl.NewColor(80, 80, 80, 255)
	historyBack = rl.NewColor(24, 24, 24, 240)
)

// Terminal is hidden by default. While open it captures the keyboard, so the host should
// not forward movement keys.
type Terminal struct {
	lines    func() []string
	reg      *commands.Registry
	log      *slog.Logger
	inputBuf string
	open     bool
}

// New returns a closed terminal that shows lines() and executes submissions with reg.
func New(lines func() []string, reg *commands.Registry, log *slog.Logger) *Terminal {
	if log == nil {
		log = slog.Default()
	}
	return &Terminal{lines: lines, reg: reg, log: log.With("component", "terminal")}
}

// IsOpen reports whether the terminal is visible and capturing input.
func (t *Terminal) IsOpen() bool {
	return t.open
}

// Submit runs line as a command. Errors are logged, so they show up in the history.
func (t *Terminal) Submit(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}
	t.log.Info(prompt + line)
	if err := t.reg.Execute(strings.Fields(line)); err != nil {
		t.log.Warn("command failed", "line", line, "error", err)
	}
}

// Update handles ESC (toggle) and, while open, typing, paste, backspace and enter.
func (t *Terminal) Update() {
	if rl.IsKeyPressed(rl.KeyEscape) {
		t.open = !t.open
	}
	if !t.open {
		return
	}
	ctrl := rl.IsKeyDown(rl.KeyLeftControl) || rl.IsKeyDown(rl.KeyRightControl) ||
		rl.IsKeyDown(rl.KeyLeftSuper) || rl.IsKeyDown(rl.KeyRightSuper)
	if rl.IsKeyPressed(rl.KeyV) && ctrl {
		t.inputBuf += rl.GetClipboardText()
	} else {
		for c := rl.GetCharPressed(); c != 0; c = rl.GetCharPressed() {
			t.inputBuf += string(rune(c))
		}
	}
	if rl.IsKeyPressed(rl.KeyBackspace) && len(t.inputBuf) > 0 {
		_, size := utf8.DecodeLastRuneInString(t.inputBuf)
		t.inputBuf = t.inputBuf[:len(t.inputBuf)-size]
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeyKpEnter) {
		line := t.inputBuf
		t.inputBuf = ""
		t.Submit(line)
	}
}

// Draw renders the bar and the history above it when open.
func (t *Terminal) Draw() {
	if !t.open {
		return
	}
	screenW := int32(rl.GetScreenWidth())
	barY := int32(rl.GetScreenHeight()) - BarHeight

	chatHeight := int32(maxLinesOnScreen * lineHeight)
	chatY := barY - chatHeight
	if chatY < 0 {
		chatHeight, chatY = barY, 0
	}
	rl.DrawRectangle(0, chatY, screenW, chatHeight, historyBack)

	lines := t.lines()
	if len(lines) > maxLinesOnScreen {
		lines = lines[len(lines)-maxLinesOnScreen:]
	}
	for i, line := range lines {
		if len(line) > maxLineLen {
			line = line[:maxLineLen-3] + "..."
		}
		rl.DrawText(line, padding, chatY+int32(i)*lineHeight+padding, fontSize, rl.LightGray)
	}

	rl.DrawRectangle(0, barY, screenW, BarHeight, barColor)
	rl.DrawRectangle(0, barY, screenW, 1, lineColor)
	rl.DrawText(prompt+t.inputBuf+"|", padding, barY+padding, fontSize, rl.White)
}
