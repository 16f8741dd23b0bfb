package mainwindow

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// markerTheme is the application theme. It scales text sizes by the
// session's UI font scale.
type markerTheme struct {
	fontScale float64
}

var _ fyne.Theme = (*markerTheme)(nil)

func (t *markerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0x00, G: 0x5A, B: 0x9E, A: 0xFF} // Ink blue
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0x00, G: 0xAA, B: 0xFF, A: 0x60} // Matches the canvas accent
	case theme.ColorNameScrollBar:
		return color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xFF}
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *markerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *markerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *markerTheme) Size(name fyne.ThemeSizeName) float32 {
	base := theme.DefaultTheme().Size(name)
	switch name {
	case theme.SizeNameText, theme.SizeNameHeadingText, theme.SizeNameSubHeadingText:
		scale := t.fontScale
		if scale <= 0 {
			scale = 1
		}
		return float32(float64(base) * scale)
	case theme.SizeNameScrollBar:
		return 16
	case theme.SizeNameScrollBarSmall:
		return 12
	default:
		return base
	}
}
