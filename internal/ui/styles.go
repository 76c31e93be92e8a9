// Package ui renders relforge's console output: emoji-prefixed progress
// lines styled with lipgloss and an optional stage progress bar.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Relforge colors
var (
	ColorBlue   = lipgloss.Color("63")  // 🔧 Tools/Technical
	ColorPurple = lipgloss.Color("141") // 📦 Packaging
	ColorGreen  = lipgloss.Color("42")  // ✅ Success
	ColorYellow = lipgloss.Color("220") // ⚠️  Warning
	ColorRed    = lipgloss.Color("196") // ❌ Error
	ColorGray   = lipgloss.Color("240") // Subtle text
)

// Emoji icons
const (
	IconTool    = "🔧"
	IconSearch  = "🔍"
	IconPackage = "📦"
	IconSuccess = "✅"
	IconWarning = "⚠️ "
	IconError   = "❌"
	IconRocket  = "🚀"
	IconClean   = "🧹"
	IconUpload  = "📤"
)

// styles is the set of text styles bound to one renderer, so color output
// follows the capabilities of the writer it is printed to.
type styles struct {
	title   lipgloss.Style
	step    lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
	subtle  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(ColorPurple),
		step:    r.NewStyle().Foreground(ColorBlue),
		success: r.NewStyle().Foreground(ColorGreen).Bold(true),
		warning: r.NewStyle().Foreground(ColorYellow),
		err:     r.NewStyle().Foreground(ColorRed).Bold(true),
		subtle:  r.NewStyle().Foreground(ColorGray),
	}
}
