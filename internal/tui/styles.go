package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Adaptive colors for dark/light terminals
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorWarn    = lipgloss.AdaptiveColor{Light: "#C98A00", Dark: "#F2C94C"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	reasonCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(1, 3)

	reasonTextStyle = lipgloss.NewStyle().
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(colorDim).
				Italic(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	loadingStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	retryHintStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	offlineBadgeStyle = lipgloss.NewStyle().
				Foreground(colorWarn).
				Bold(true)

	cachedBadgeStyle = lipgloss.NewStyle().
				Foreground(colorGreen)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)
