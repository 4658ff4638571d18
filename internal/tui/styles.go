package tui

import "github.com/charmbracelet/lipgloss"

// Color Palette
var (
	salmonPink  = lipgloss.Color("#FFB3BA") // primary accent
	coralPink   = lipgloss.Color("#FFCCCB") // secondary accent
	mintGreen   = lipgloss.Color("#A8E6CF") // success
	mutedGray   = lipgloss.Color("#6B7280") // secondary text
	brightWhite = lipgloss.Color("#F9FAFB") // primary text
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(brightWhite).
			Background(salmonPink).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	selectionStyle = lipgloss.NewStyle().
			Foreground(coralPink).
			Bold(true)

	tipsStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	okStyle = lipgloss.NewStyle().
		Foreground(mintGreen)

	errorStyle = lipgloss.NewStyle().
			Foreground(salmonPink)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(mutedGray).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedGray).
			Padding(0, 1)
)
