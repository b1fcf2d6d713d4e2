package enums

import "fmt"

// ThemeMode maps to user_settings.theme_mode.
type ThemeMode string

const (
	ThemeModeSystem ThemeMode = "system"
	ThemeModeLight  ThemeMode = "light"
	ThemeModeDark   ThemeMode = "dark"
)

func (m ThemeMode) IsValid() bool {
	switch m {
	case ThemeModeSystem, ThemeModeLight, ThemeModeDark:
		return true
	}
	return false
}

func ParseThemeMode(value string) (ThemeMode, error) {
	mode := ThemeMode(value)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid theme mode %q", value)
	}
	return mode, nil
}

// Palette maps to user_settings.palette.
type Palette string

const (
	PaletteA Palette = "a"
	PaletteB Palette = "b"
	PaletteC Palette = "c"
	PaletteD Palette = "d"
)

func (p Palette) IsValid() bool {
	switch p {
	case PaletteA, PaletteB, PaletteC, PaletteD:
		return true
	}
	return false
}

func ParsePalette(value string) (Palette, error) {
	palette := Palette(value)
	if !palette.IsValid() {
		return "", fmt.Errorf("invalid palette %q", value)
	}
	return palette, nil
}
