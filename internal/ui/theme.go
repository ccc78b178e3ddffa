package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// compactTheme wraps a theme, tightening padding so the stage gets the room
// and keeping the background black behind the frames.
type compactTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*compactTheme)(nil)

func (t *compactTheme) Size(name fyne.ThemeSizeName) float32 {
	if name == theme.SizeNamePadding {
		return 2.0
	}
	return t.Theme.Size(name)
}

func (t *compactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground && variant == theme.VariantDark {
		return color.Black
	}
	return t.Theme.Color(name, variant)
}

// NewCompactTheme bases the compact theme on base.
func NewCompactTheme(base fyne.Theme) fyne.Theme {
	return &compactTheme{Theme: base}
}
