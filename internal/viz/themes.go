package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Marble lipgloss.Color
	Wall   lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeFelt = Theme{
		Name:   "felt",
		Marble: lipgloss.Color("#f5f5f5"),
		Wall:   lipgloss.Color("#2e8b57"),
		Accent: lipgloss.Color("#ffd700"),
		Text:   lipgloss.Color("#e0ffe0"),
		Muted:  lipgloss.Color("#4f7f5f"),
	}

	ThemeNeon = Theme{
		Name:   "neon",
		Marble: lipgloss.Color("#ff00ff"),
		Wall:   lipgloss.Color("#00ffff"),
		Accent: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
	}

	ThemeMono = Theme{
		Name:   "mono",
		Marble: lipgloss.Color("#ffffff"),
		Wall:   lipgloss.Color("#888888"),
		Accent: lipgloss.Color("#cccccc"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
	}

	CurrentTheme = ThemeFelt

	Themes = []Theme{
		ThemeFelt,
		ThemeNeon,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to the first theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
