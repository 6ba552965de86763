package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// fillRect draws a solid-color box at (x,y) sized w by h directly via
// ebiten's vertex path, so the HUD label backdrop and the boot-error
// banner don't each allocate a throwaway *ebiten.Image per frame.
func fillRect(dst *ebiten.Image, x, y, w, h int, c color.Color) {
	vector.DrawFilledRect(dst, float32(x), float32(y), float32(w), float32(h), c, false)
}
