package main

import (
	"image"
	"image/color"
	"math"
)

const (
	cellSize  = 64
	sheetGrid = 4
)

// spriteSheetImage draws a sheetGrid x sheetGrid sheet of cellSize pixel
// sprites: discs, rings, diamonds and squares in various hues. Pixels outside
// the shapes are transparent.
//
func spriteSheetImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, sheetGrid*cellSize, sheetGrid*cellSize))
	const r = cellSize/2 - 2
	for cy := 0; cy < sheetGrid; cy++ {
		for cx := 0; cx < sheetGrid; cx++ {
			c := hue(float64(cy*sheetGrid+cx) / (sheetGrid * sheetGrid))
			shape := cy
			for y := 0; y < cellSize; y++ {
				for x := 0; x < cellSize; x++ {
					dx := float64(x) - cellSize/2 + 0.5
					dy := float64(y) - cellSize/2 + 0.5
					var in bool
					switch shape {
					case 0:
						in = math.Hypot(dx, dy) <= r
					case 1:
						d := math.Hypot(dx, dy)
						in = d <= r && d >= r*0.6
					case 2:
						in = math.Abs(dx)+math.Abs(dy) <= r
					default:
						in = math.Abs(dx) <= r*0.8 && math.Abs(dy) <= r*0.8
					}
					if in {
						img.SetNRGBA(cx*cellSize+x, cy*cellSize+y, c)
					}
				}
			}
		}
	}
	return img
}

// hue returns a saturated color for h in [0, 1).
//
func hue(h float64) color.NRGBA {
	h6 := h * 6
	x := 1 - math.Abs(math.Mod(h6, 2)-1)
	var r, g, b float64
	switch int(h6) % 6 {
	case 0:
		r, g = 1, x
	case 1:
		r, g = x, 1
	case 2:
		g, b = 1, x
	case 3:
		g, b = x, 1
	case 4:
		r, b = x, 1
	default:
		r, b = 1, x
	}
	return color.NRGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 255}
}
