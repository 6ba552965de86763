package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// wantsDismiss reports whether the player pressed a key that should
// close the startup-error screen, the only modal this viewer has.
func wantsDismiss() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// cursorPosition returns the mouse position in screen pixels.
func cursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

// wheelDeltaY returns this frame's vertical scroll-wheel delta, the
// only axis the zoom control reads.
func wheelDeltaY() float64 {
	_, y := ebiten.Wheel()
	return y
}
