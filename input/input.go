// Package input maps driver key events to simulation commands.
package input

import "github.com/ggielly/suicideballs/sim"

// Command is a user action shared by every interactive driver.
type Command int

const (
	None Command = iota
	BounceUp
	BounceDown
	ToggleGravity
	SpawnUp
	SpawnDown
	Pause
	Slower
	Faster
	Quit
)

var names = [...]string{
	None:          "none",
	BounceUp:      "bounce_up",
	BounceDown:    "bounce_down",
	ToggleGravity: "toggle_gravity",
	SpawnUp:       "spawn_up",
	SpawnDown:     "spawn_down",
	Pause:         "pause",
	Slower:        "slower",
	Faster:        "faster",
	Quit:          "quit",
}

func (c Command) String() string {
	if c < 0 || int(c) >= len(names) {
		return "unknown"
	}
	return names[c]
}

// FromRune maps a typed character to a command.
func FromRune(r rune) Command {
	switch r {
	case 'g', 'G':
		return ToggleGravity
	case '+', '=':
		return SpawnUp
	case '-', '_':
		return SpawnDown
	case ' ':
		return Pause
	case ',', '<':
		return Slower
	case '.', '>':
		return Faster
	case 'q', 'Q':
		return Quit
	}
	return None
}

// Apply performs c on w and reports whether c was a world command.
// Pause, speed and quit belong to the driver and are left untouched.
func Apply(w *sim.World, c Command) bool {
	switch c {
	case BounceUp:
		w.RaiseBounciness()
	case BounceDown:
		w.LowerBounciness()
	case ToggleGravity:
		w.ToggleGravity()
	case SpawnUp:
		w.IncreaseSpawn()
	case SpawnDown:
		w.DecreaseSpawn()
	default:
		return false
	}
	return true
}

// Speed tracks the ticks-per-frame multiplier and pause state of a driver.
type Speed struct {
	Steps  int
	Max    int
	Paused bool
}

// Handle applies the driver-side commands and reports whether quit was requested.
func (s *Speed) Handle(c Command) (quit bool) {
	switch c {
	case Pause:
		s.Paused = !s.Paused
	case Slower:
		if s.Steps > 1 {
			s.Steps--
		}
	case Faster:
		if s.Steps < s.Max {
			s.Steps++
		}
	case Quit:
		return true
	}
	return false
}

// Legend lists the key bindings for on-screen help.
var Legend = []string{
	"Up/Down  bounciness",
	"G        toggle gravity",
	"+/-      balls per escape",
	"Space    pause",
	",/.      speed",
	"Esc/Q    quit",
}
