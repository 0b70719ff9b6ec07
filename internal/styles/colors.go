package styles

import "github.com/charmbracelet/lipgloss"

// Monokai Pro color palette
const (
	Red     = "#FF6188" // Errors
	Orange  = "#FC9867" // Warnings
	Yellow  = "#FFD866" // Highlights
	Green   = "#A9DC76" // Success
	Magenta = "#FF6188" // Titles
	Comment = "#727072" // Dim text, hints
)

// Common styles
var (
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Green))
	ErrorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(Red))
	WarningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(Orange))
	DimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(Comment))
	TitleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(Magenta))
	HighlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(Yellow)).Bold(true)
)

// Success renders a "✓ msg" status line
func Success(msg string) string {
	return SuccessStyle.Render("✓ " + msg)
}

// Error renders a "✗ msg" status line
func Error(msg string) string {
	return ErrorStyle.Render("✗ " + msg)
}

// Warning renders a "! msg" status line
func Warning(msg string) string {
	return WarningStyle.Render("! " + msg)
}

// Hint renders an indented dim line
func Hint(msg string) string {
	return DimStyle.Render("  " + msg)
}
