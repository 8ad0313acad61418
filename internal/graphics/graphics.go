package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the window Run opens.
type Window struct {
	Title      string
	FPS        int
	Fullscreen bool
}

// Run starts the window and main loop. Each frame it calls update with the frame time (simulation, input),
// then clears the screen and calls draw. Returns when the window is closed.
// ESC toggles the console; close via window button.
func Run(w Window, update func(dt float32), draw func()) {
	width, height := int32(1280), int32(720)
	if w.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode)
		width, height = int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0))
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(width, height, w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull) // ESC is used to toggle the console, not to quit
	rl.SetTargetFPS(int32(w.FPS))

	for !rl.WindowShouldClose() {
		update(rl.GetFrameTime())

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		draw()
		rl.EndDrawing()
	}
}
