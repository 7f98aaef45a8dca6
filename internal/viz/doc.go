// Package viz draws the kite in the terminal with Bubble Tea.
//
//   - [Model]: the live view, stepping a kite.Model once per tick
//   - [NewInteractiveApp]: preset picker that hands over to the live view
//   - [Canvas]: braille sub-pixel canvas shared by the top, window and 3D views
//
// # Key Bindings
//
//	Space  - Pause/Resume
//	R      - Reset to the starting state
//	A/D    - Differential trim
//	W/S    - Sheet in / ease
//	←/→    - Rudder rate
//	Tab    - Select parameter, Up/Down to change it
//	[ ]    - Rewind / forward through history
//	V      - Cycle views
//	T      - Cycle color themes
//	G      - Toggle GIF recording
//	?      - Show help overlay
//
// A degenerate step stops the view on the last good state; only R resumes.
//
// # Recording
//
// G starts capturing every drawn frame; pressing it again (or quitting)
// writes <name>.gif to the current directory.
package viz
