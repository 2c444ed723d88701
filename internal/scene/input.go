package scene

import rl "github.com/gen2brain/raylib-go/raylib"

// Input is one frame of pointer state.
type Input struct {
	Mouse    rl.Vector2
	Pressed  bool
	Down     bool
	Released bool
	// Blocked is set while the pointer is over a panel or the console.
	Blocked bool
}

// ReadInput samples the left mouse button and pointer position.
func ReadInput(blocked bool) Input {
	return Input{
		Mouse:    rl.GetMousePosition(),
		Pressed:  rl.IsMouseButtonPressed(rl.MouseButtonLeft),
		Down:     rl.IsMouseButtonDown(rl.MouseButtonLeft),
		Released: rl.IsMouseButtonReleased(rl.MouseButtonLeft),
		Blocked:  blocked,
	}
}
