package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#D12182")
	mutedColor   = lipgloss.Color("#626262")
	errorColor   = lipgloss.Color("9")
	onlineColor  = lipgloss.Color("#00FF77")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	onlineStyle = lipgloss.NewStyle().
			Foreground(onlineColor)

	authorStyle = lipgloss.NewStyle().
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	failedStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD"))

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)
