// Package viz provides the terminal front end for the solver.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [NewInteractiveApp]: scene picker with parameter editing
//   - [Model]: live 60 fps view with a truecolor field raster
//   - [Canvas]: braille canvas for the streamline and velocity overlay
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset the scene
//	1-4   - Switch scene preset
//	SVPMG - Toggle display layers
//	Arrows- Drag the obstacle through the fluid
//	X     - Braille flow overlay
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Shift+G records the rendered field as a GIF animation, saved next to
// the binary under the scene's name.
package viz
