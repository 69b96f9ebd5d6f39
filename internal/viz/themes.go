package viz

import "github.com/charmbracelet/lipgloss"

// Theme colors the text and snow of the terminal card. The background
// always follows the gradient animator.
type Theme struct {
	Name       string
	Snow       lipgloss.Color
	Title      lipgloss.Color
	TitleEnd   lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Icon       lipgloss.Color
	Warning    lipgloss.Color
	ModalFrame lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:       "night",
		Snow:       lipgloss.Color("#ffffff"),
		Title:      lipgloss.Color("#ffd700"),
		TitleEnd:   lipgloss.Color("#ff4500"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#a0c4e8"),
		Icon:       lipgloss.Color("#2e7d32"),
		Warning:    lipgloss.Color("#ffcc00"),
		ModalFrame: lipgloss.Color("#5dc1e0"),
	}

	ThemeFrost = Theme{
		Name:       "frost",
		Snow:       lipgloss.Color("#e0f7ff"),
		Title:      lipgloss.Color("#e0f7ff"),
		TitleEnd:   lipgloss.Color("#5dc1e0"),
		Text:       lipgloss.Color("#f0fbff"),
		Muted:      lipgloss.Color("#88bbdd"),
		Icon:       lipgloss.Color("#b3e5fc"),
		Warning:    lipgloss.Color("#ffaa00"),
		ModalFrame: lipgloss.Color("#b3e5fc"),
	}

	ThemeCandy = Theme{
		Name:       "candy",
		Snow:       lipgloss.Color("#fff5f5"),
		Title:      lipgloss.Color("#ff69b4"),
		TitleEnd:   lipgloss.Color("#ff0000"),
		Text:       lipgloss.Color("#fff5f5"),
		Muted:      lipgloss.Color("#ffb6c1"),
		Icon:       lipgloss.Color("#7cfc00"),
		Warning:    lipgloss.Color("#ffd700"),
		ModalFrame: lipgloss.Color("#ff69b4"),
	}

	ThemeMono = Theme{
		Name:       "mono",
		Snow:       lipgloss.Color("#ffffff"),
		Title:      lipgloss.Color("#ffffff"),
		TitleEnd:   lipgloss.Color("#aaaaaa"),
		Text:       lipgloss.Color("#ffffff"),
		Muted:      lipgloss.Color("#888888"),
		Icon:       lipgloss.Color("#cccccc"),
		Warning:    lipgloss.Color("#ffffff"),
		ModalFrame: lipgloss.Color("#ffffff"),
	}

	CurrentTheme = ThemeNight

	Themes = []Theme{
		ThemeNight,
		ThemeFrost,
		ThemeCandy,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, or the night theme.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// nextTheme is the theme after name in Themes, wrapping around.
func nextTheme(name string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == name {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
