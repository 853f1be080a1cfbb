// Package styles provides colour themes and styling for the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the TUI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Secondary highlights question headings.
	Secondary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success marks graded and answered items.
	Success lipgloss.Color

	// Warning marks unanswered questions.
	Warning lipgloss.Color

	// Error marks failed questions.
	Error lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color

	// FocusBorder surrounds the focused answer.
	FocusBorder lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:     lipgloss.Color("#2DD4BF"), // Teal
		Secondary:   lipgloss.Color("#93C5FD"), // Light blue
		Foreground:  lipgloss.Color("#E5E7EB"), // Light gray
		Muted:       lipgloss.Color("#6B7280"), // Medium gray
		Success:     lipgloss.Color("#86EFAC"), // Green
		Warning:     lipgloss.Color("#FCD34D"), // Amber
		Error:       lipgloss.Color("#FCA5A5"), // Red
		Border:      lipgloss.Color("#374151"), // Dark gray
		FocusBorder: lipgloss.Color("#2DD4BF"), // Teal
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for headers.
	Title lipgloss.Style

	// Subtitle style for secondary headers.
	Subtitle lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for highlighted list items.
	Selected lipgloss.Style

	// Question style for question text.
	Question lipgloss.Style

	// Error style for error messages and failed results.
	Error lipgloss.Style

	// Success style for success messages.
	Success lipgloss.Style

	// Warning style for warning messages.
	Warning lipgloss.Style

	// Answer style for an unfocused answer box.
	Answer lipgloss.Style

	// AnswerFocused style for the answer being edited.
	AnswerFocused lipgloss.Style

	// StatusBar style for the status bar.
	StatusBar lipgloss.Style

	// Help style for help text.
	Help lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Success),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Answer: box.BorderForeground(theme.Border),

		AnswerFocused: box.BorderForeground(theme.FocusBorder),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
