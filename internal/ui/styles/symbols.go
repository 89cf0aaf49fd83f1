package styles

import (
	"github.com/charmbracelet/x/ansi"
)

// Markers used in listings.
const (
	HeadMarker     = "*"
	SymbolicMarker = "->"
	CheckMark      = "✓"
	CrossMark      = "✕"
)

// FormatHead marks the entry HEAD points at.
func FormatHead(name string, isHead bool) string {
	if !isHead {
		return "  " + name
	}
	return AccentStyle.Render(HeadMarker + " " + name)
}

// FormatState renders a repository state; anything but "clean" is a
// warning.
func FormatState(state string) string {
	if state == "clean" {
		return SuccessStyle.Render(CheckMark + " " + state)
	}
	return WarningStyle.Render(state)
}

// FormatURL underlines url and wraps it in an OSC 8 hyperlink for
// http(s) remotes. Other URLs (paths, scp-like) are returned as text.
func FormatURL(url string) string {
	if len(url) < 8 || (url[:7] != "http://" && url[:8] != "https://") {
		return url
	}
	return ansi.SetHyperlink(url) + Bold.Underline(true).Render(url) + ansi.ResetHyperlink()
}
