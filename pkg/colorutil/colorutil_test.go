package colorutil

import (
	"image/color"
	"testing"
)

func TestPackUnpackRGBA(t *testing.T) {
	colors := []color.RGBA{
		Black, White, Red, Blue, Green, Yellow, Orange,
		{R: 1, G: 2, B: 3, A: 4},
		{R: 255, G: 0, B: 128, A: 200},
	}
	for _, c := range colors {
		if got := UnpackRGBA(PackRGBA(c)); got != c {
			t.Errorf("round trip changed %v to %v", c, got)
		}
	}
}

func TestPackRGBAKnownValues(t *testing.T) {
	if got := PackRGBA(Black); got != 0x000000FF {
		t.Errorf("opaque black packs to %#08x, want 0x000000ff", got)
	}
	if got := PackRGBA(White); got != 0xFFFFFFFF {
		t.Errorf("opaque white packs to %#08x, want 0xffffffff", got)
	}
	if got := PackRGBA(color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0x78}); got != 0x12345678 {
		t.Errorf("packs to %#08x, want 0x12345678", got)
	}
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(Red, 90)
	if c.A != 90 || c.R != Red.R || c.G != Red.G || c.B != Red.B {
		t.Errorf("unexpected result: %v", c)
	}
}
