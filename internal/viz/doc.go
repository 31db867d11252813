// Package viz renders the marble in the terminal.
//
// The live model draws the viewport and the marble on a braille canvas,
// steers a keyboard-driven tilt source and shows the marble's speed
// history next to it.
package viz
