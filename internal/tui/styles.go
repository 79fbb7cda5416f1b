package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	presetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	trackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	visualStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Reverse(true).
			Foreground(lipgloss.Color("#4ECDC4"))

	boldStyle = lipgloss.NewStyle().Bold(true)
)
