// Package graphics owns the raylib window and the main loop.
package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Options configures the window.
type Options struct {
	Width     int
	Height    int
	Title     string
	TargetFPS int
	// Resizable lets the user resize the window; the loop reports the new size to the
	// update callback through rl.GetScreenWidth/GetScreenHeight.
	Resizable bool
}

// Run opens the window and loops until it is closed. Each frame it calls update with the
// frame delta in seconds, then clears the screen and calls draw.
func Run(opts Options, update func(dt float32), draw func()) {
	if opts.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	}
	rl.InitWindow(int32(opts.Width), int32(opts.Height), opts.Title)
	defer rl.CloseWindow()
	// ESC belongs to the terminal; the window closes through its close button.
	rl.SetExitKey(rl.KeyNull)

	if opts.TargetFPS > 0 {
		rl.SetTargetFPS(int32(opts.TargetFPS))
	}

	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(135, 180, 220, 255))
		draw()
		rl.EndDrawing()
	}
}
