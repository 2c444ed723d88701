package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Window describes the window Run opens.
type Window struct {
	Width, Height int32
	Title         string
	TargetFPS     int32
}

// Hooks are called by Run. Init runs once after the window exists (GPU resources can be
// created there) and Dispose once before it closes. Update gets the frame time in seconds
// and runs before the screen is cleared; Draw runs between BeginDrawing and EndDrawing.
type Hooks struct {
	Init    func()
	Dispose func()
	Update  func(dt float32)
	Draw    func()
}

// Run opens a resizable window and drives the main loop until it is closed.
// ESC toggles the terminal rather than quitting; close via the window button.
func Run(w Window, h Hooks) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint | rl.FlagVsyncHint)
	rl.InitWindow(w.Width, w.Height, w.Title)
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	if w.TargetFPS > 0 {
		rl.SetTargetFPS(w.TargetFPS)
	}

	if h.Init != nil {
		h.Init()
	}
	if h.Dispose != nil {
		defer h.Dispose()
	}

	for !rl.WindowShouldClose() {
		if h.Update != nil {
			h.Update(rl.GetFrameTime())
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		if h.Draw != nil {
			h.Draw()
		}
		rl.EndDrawing()
	}
}
