// Package styles provides shared lipgloss styles for UI components.
//
// This package centralizes color definitions so tables, spinners and
// prompts look the same. Init selects the theme; "none" keeps bold and
// underline but drops every color.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for UI components.
type Theme struct {
	Primary color.Color // headers, spinner
	Accent  color.Color // current branch, HEAD
	Success color.Color
	Error   color.Color
	Muted   color.Color // remote-tracking refs, hints
	Warning color.Color // in-progress repository states
}

var (
	// DefaultTheme is the 256-color palette.
	DefaultTheme = Theme{
		Primary: lipgloss.Color("62"),
		Accent:  lipgloss.Color("212"),
		Success: lipgloss.Color("82"),
		Error:   lipgloss.Color("196"),
		Muted:   lipgloss.Color("240"),
		Warning: lipgloss.Color("214"),
	}

	// NoneTheme renders without colors.
	NoneTheme = Theme{
		Primary: lipgloss.NoColor{},
		Accent:  lipgloss.NoColor{},
		Success: lipgloss.NoColor{},
		Error:   lipgloss.NoColor{},
		Muted:   lipgloss.NoColor{},
		Warning: lipgloss.NoColor{},
	}
)

var themes = map[string]Theme{
	"default": DefaultTheme,
	"none":    NoneTheme,
}

var currentTheme = DefaultTheme

// Colors of the active theme.
var (
	Primary color.Color = DefaultTheme.Primary
	Accent  color.Color = DefaultTheme.Accent
	Muted   color.Color = DefaultTheme.Muted
)

// Styles of the active theme.
var (
	Bold         = lipgloss.NewStyle().Bold(true)
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(DefaultTheme.Primary)
	AccentStyle  = lipgloss.NewStyle().Bold(true).Foreground(DefaultTheme.Accent)
	SuccessStyle = lipgloss.NewStyle().Foreground(DefaultTheme.Success)
	ErrorStyle   = lipgloss.NewStyle().Foreground(DefaultTheme.Error)
	MutedStyle   = lipgloss.NewStyle().Foreground(DefaultTheme.Muted)
	WarningStyle = lipgloss.NewStyle().Foreground(DefaultTheme.Warning)
)

// Init activates the named theme. Unknown names fall back to the default
// theme; config validation rejects them before this is reached.
func Init(name string) {
	theme, ok := themes[name]
	if !ok {
		theme = DefaultTheme
	}
	currentTheme = theme
	applyTheme(theme)
}

// Current returns the active theme.
func Current() Theme {
	return currentTheme
}

func applyTheme(t Theme) {
	Primary = t.Primary
	Accent = t.Accent
	Muted = t.Muted

	HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	AccentStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	SuccessStyle = lipgloss.NewStyle().Foreground(t.Success)
	ErrorStyle = lipgloss.NewStyle().Foreground(t.Error)
	MutedStyle = lipgloss.NewStyle().Foreground(t.Muted)
	WarningStyle = lipgloss.NewStyle().Foreground(t.Warning)
}
