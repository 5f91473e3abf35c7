package tui

import "github.com/charmbracelet/lipgloss"

// Colors using AdaptiveColor for light/dark terminal support.
var (
	colorWhite  = lipgloss.AdaptiveColor{Light: "0", Dark: "15"}
	colorDim    = lipgloss.AdaptiveColor{Light: "242", Dark: "240"}
	colorGreen  = lipgloss.AdaptiveColor{Light: "28", Dark: "40"}
	colorRed    = lipgloss.AdaptiveColor{Light: "160", Dark: "196"}
	colorYellow = lipgloss.AdaptiveColor{Light: "136", Dark: "220"}
	colorCyan   = lipgloss.AdaptiveColor{Light: "30", Dark: "45"}
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite)

	connectedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	offlineStyle   = lipgloss.NewStyle().Foreground(colorDim)
	pendingStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	pairedStyle    = lipgloss.NewStyle().Foreground(colorCyan)

	detailStyle = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	footerStyle = lipgloss.NewStyle().Foreground(colorDim)
)
