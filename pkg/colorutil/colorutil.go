// Package colorutil provides shared color utilities for the document marker.
package colorutil

import (
	"image/color"
)

// Common marking colors used throughout the application.
var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red    = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	Blue   = color.RGBA{R: 30, G: 60, B: 220, A: 255}
	Green  = color.RGBA{R: 20, G: 150, B: 60, A: 255}
	Yellow = color.RGBA{R: 250, G: 220, B: 40, A: 255}
	Orange = color.RGBA{R: 250, G: 140, B: 20, A: 255}
)

// Highlight is the accent color applied to the selected annotation.
// It is derived from selection state and never persisted.
var Highlight = color.RGBA{R: 0, G: 170, B: 255, A: 255}

// PackRGBA packs a color into a single RGBA32 value, red in the most
// significant byte, alpha in the least.
func PackRGBA(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// UnpackRGBA is the inverse of PackRGBA.
func UnpackRGBA(v uint32) color.RGBA {
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
