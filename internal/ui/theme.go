package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// compactTheme wraps an existing theme with tighter padding so more tiles fit
// on screen, and a darker background behind the photos in dark mode.
type compactTheme struct {
	fyne.Theme
}

var _ fyne.Theme = (*compactTheme)(nil)

// Size overrides padding and keeps every other size.
func (t *compactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 2
	case theme.SizeNameInnerPadding:
		return 4
	}
	return t.Theme.Size(name)
}

// Color darkens the dark-variant background.
func (t *compactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground && variant == theme.VariantDark {
		return color.NRGBA{R: 0x12, G: 0x12, B: 0x14, A: 0xff}
	}
	return t.Theme.Color(name, variant)
}

// NewCompactTheme creates the gallery theme on top of base.
func NewCompactTheme(base fyne.Theme) fyne.Theme {
	return &compactTheme{Theme: base}
}
