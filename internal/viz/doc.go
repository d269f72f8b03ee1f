// Package viz draws a closed velocity loop in the terminal.
//
// [Model] is a Bubble Tea program that steps the loop in real time and shows
// the velocity plane, the speed error history and the effort.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to initial state
//	Tab   - Select plant parameter
//	↑/↓   - Scale the selected parameter by ±5%
//	Q     - Quit
package viz
