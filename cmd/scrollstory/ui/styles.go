package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f4f5f6")
	LightForeground = lipgloss.Color("#101F38")
	LightAccent     = lipgloss.Color("#83A2FF")
	LightMuted      = lipgloss.Color("#9aa3ad")
	LightBorder     = lipgloss.Color("#dce0e5")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#141d2b")
	DarkForeground = lipgloss.Color("#f2f2f2")
	DarkAccent     = lipgloss.Color("#FFD28F")
	DarkMuted      = lipgloss.Color("#5b6b84")
	DarkBorder     = lipgloss.Color("#2a3850")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme guesses the terminal background from COLORFGBG, falling back
// to SCROLLSTORY_DARK_MODE and then light mode.
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
			return LightTheme()
		}
	}
	if os.Getenv("SCROLLSTORY_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// GlamourStyle is the glamour standard style matching the theme.
func (t Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Footer      lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	PaneTitle   lipgloss.Style
	PaneHidden  lipgloss.Style
	FaintStep   lipgloss.Style
	Divider     lipgloss.Style
	Placeholder lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Status: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		PaneTitle: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		PaneHidden: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		FaintStep: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Faint(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Placeholder: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a vertical divider of the given height.
func (s Styles) RenderDivider(height int) string {
	if height <= 0 {
		return ""
	}
	return s.Divider.Render(strings.TrimSuffix(strings.Repeat("│\n", height), "\n"))
}
