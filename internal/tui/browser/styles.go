package browser

import "github.com/charmbracelet/lipgloss"

// Severity palette.
var (
	colorCritical = lipgloss.Color("#EF4444")
	colorHigh     = lipgloss.Color("#F97316")
	colorMedium   = lipgloss.Color("#EAB308")
	colorOther    = lipgloss.Color("#6B7280")
	colorPrimary  = lipgloss.Color("#4A9EFF")
	colorDim      = lipgloss.Color("#9CA3AF")
	colorWhite    = lipgloss.Color("#F9FAFB")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorDim)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(colorPrimary).
			Padding(0, 1)

	recordTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorWhite).
				MarginTop(1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(colorDim)

	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCritical)
	highStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorHigh)
	mediumStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorMedium)
	otherStyle    = lipgloss.NewStyle().Foreground(colorOther)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorCritical)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)
