package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/ggielly/suicideballs/input"
)

// keyBindings maps raylib keys to commands. Esc is handled by WindowShouldClose.
var keyBindings = []struct {
	key int32
	cmd input.Command
}{
	{rl.KeyUp, input.BounceUp},
	{rl.KeyDown, input.BounceDown},
	{rl.KeyG, input.ToggleGravity},
	{rl.KeyEqual, input.SpawnUp},
	{rl.KeyKpAdd, input.SpawnUp},
	{rl.KeyMinus, input.SpawnDown},
	{rl.KeyKpSubtract, input.SpawnDown},
	{rl.KeySpace, input.Pause},
	{rl.KeyComma, input.Slower},
	{rl.KeyPeriod, input.Faster},
	{rl.KeyQ, input.Quit},
}

// handleInput processes keyboard input and returns the commands pressed this frame.
func (g *Game) handleInput() []input.Command {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.showPerf = !g.showPerf
	}

	var cmds []input.Command
	for _, b := range keyBindings {
		if rl.IsKeyPressed(b.key) {
			cmds = append(cmds, b.cmd)
		}
	}
	return cmds
}
