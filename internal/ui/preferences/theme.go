package preferences

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// variantTheme pins the default theme to one color variant.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (pinned variantTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return pinned.Theme.Color(name, pinned.variant)
}

// ApplyTheme switches app to the selected theme.
func ApplyTheme(app fyne.App, selected Theme) {
	switch selected {
	case ThemeLight:
		app.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantLight})
	case ThemeDark:
		app.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark})
	default:
		app.Settings().SetTheme(theme.DefaultTheme())
	}
}
