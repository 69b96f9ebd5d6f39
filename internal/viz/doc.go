// Package viz renders the greeting card in the terminal.
//
// The package implements the card as a Bubble Tea program:
//
//   - [Model]: the card itself, animated at the configured frame rate
//   - [Canvas]: Braille-based pixel canvas the snow is drawn on
//   - Theme selection with 4 built-in color schemes
//
// Snow lives in pixel units (one cell is 8x16 pixels, 2x4 Braille dots) so
// the same flake speeds read the same in the window and the terminal.
//
// # Key Bindings
//
//	Space - Pause/Resume snow
//	P     - Performance panel
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show key hints
//	Q     - Quit
//
// When the terminal is smaller than the screen check threshold a warning
// modal is shown first; any key dismisses it.
package viz
