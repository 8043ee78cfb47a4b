// Package lipgloss provides color themes for the terminal renderer.
package lipgloss

import "github.com/charmbracelet/lipgloss"

// Palette holds the hex colors a theme is built from.
type Palette struct {
	Background string
	Foreground string

	Added          string
	Deleted        string
	AddedBg        string
	DeletedBg      string
	AddedGutter    string
	DeletedGutter  string
	HunkHeader     string
	LineNumber     string
	SelectedLineBg string

	Badge   string
	BadgeBg string
	Accent  string
	Muted   string
	Info    string
	Error   string

	UIBackground string
	UIForeground string

	Keyword  string
	String   string
	Number   string
	Comment  string
	Operator string
	Function string
	Builtin  string
	Name     string
}

// Theme is a named palette for either a light or a dark terminal.
type Theme struct {
	name    string
	light   bool
	palette Palette
}

// Name returns the theme name.
func (t Theme) Name() string { return t.name }

// IsLight reports whether the theme targets light terminal backgrounds.
func (t Theme) IsLight() bool { return t.light }

// Palette returns the theme colors.
func (t Theme) Palette() Palette { return t.palette }

// Color returns a lipgloss color for a palette entry, or NoColor when empty.
func Color(hex string) lipgloss.TerminalColor {
	if hex == "" {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// DarkTheme is loosely based on One Dark.
func DarkTheme() Theme {
	return Theme{
		name: "dark",
		palette: Palette{
			Background:     "#282c34",
			Foreground:     "#abb2bf",
			Added:          "#98c379",
			Deleted:        "#e06c75",
			AddedBg:        "#2b3a2b",
			DeletedBg:      "#3f2a2d",
			AddedGutter:    "#34503a",
			DeletedGutter:  "#5a3337",
			HunkHeader:     "#61afef",
			LineNumber:     "#5c6370",
			SelectedLineBg: "#3e4451",
			Badge:          "#282c34",
			BadgeBg:        "#61afef",
			Accent:         "#c678dd",
			Muted:          "#5c6370",
			Info:           "#56b6c2",
			Error:          "#e06c75",
			UIBackground:   "#21252b",
			UIForeground:   "#abb2bf",
			Keyword:        "#c678dd",
			String:         "#98c379",
			Number:         "#d19a66",
			Comment:        "#5c6370",
			Operator:       "#56b6c2",
			Function:       "#61afef",
			Builtin:        "#e5c07b",
			Name:           "#e06c75",
		},
	}
}

// LightTheme is loosely based on One Light.
func LightTheme() Theme {
	return Theme{
		name:  "light",
		light: true,
		palette: Palette{
			Background:     "#fafafa",
			Foreground:     "#383a42",
			Added:          "#50a14f",
			Deleted:        "#e45649",
			AddedBg:        "#e6ffed",
			DeletedBg:      "#ffeef0",
			AddedGutter:    "#cdffd8",
			DeletedGutter:  "#ffdce0",
			HunkHeader:     "#4078f2",
			LineNumber:     "#a0a1a7",
			SelectedLineBg: "#fff8c5",
			Badge:          "#fafafa",
			BadgeBg:        "#4078f2",
			Accent:         "#a626a4",
			Muted:          "#a0a1a7",
			Info:           "#0184bc",
			Error:          "#e45649",
			UIBackground:   "#eaeaeb",
			UIForeground:   "#383a42",
			Keyword:        "#a626a4",
			String:         "#50a14f",
			Number:         "#986801",
			Comment:        "#a0a1a7",
			Operator:       "#0184bc",
			Function:       "#4078f2",
			Builtin:        "#c18401",
			Name:           "#e45649",
		},
	}
}

// DefaultTheme returns the dark theme.
func DefaultTheme() Theme {
	return DarkTheme()
}

// ThemeFor picks the light or dark theme.
func ThemeFor(light bool) Theme {
	if light {
		return LightTheme()
	}
	return DarkTheme()
}

// TestTheme uses distinctive primary colors so tests can assert on exact
// escape sequences.
func TestTheme() Theme {
	return Theme{
		name: "test",
		palette: Palette{
			Background:     "#000000",
			Foreground:     "#ffffff",
			Added:          "#00ff00",
			Deleted:        "#ff0000",
			AddedBg:        "#003300",
			DeletedBg:      "#330000",
			AddedGutter:    "#006600",
			DeletedGutter:  "#660000",
			HunkHeader:     "#0000ff",
			LineNumber:     "#888888",
			SelectedLineBg: "#444400",
			Badge:          "#000000",
			BadgeBg:        "#00ffff",
			Accent:         "#ff00ff",
			Muted:          "#777777",
			Info:           "#00ffff",
			Error:          "#ff0000",
			UIBackground:   "#111111",
			UIForeground:   "#eeeeee",
			Keyword:        "#ff00ff",
			String:         "#00ff00",
			Number:         "#ffff00",
			Comment:        "#808080",
			Operator:       "#00ffff",
			Function:       "#0000ff",
			Builtin:        "#ffa500",
			Name:           "#ff8080",
		},
	}
}
