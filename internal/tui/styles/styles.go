// Package styles provides Lip Gloss styles for the portshell TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI.
var (
	Primary     = lipgloss.Color("#7C3AED") // Purple
	Secondary   = lipgloss.Color("#06B6D4") // Cyan
	Success     = lipgloss.Color("#10B981") // Green
	Warning     = lipgloss.Color("#F59E0B") // Amber
	Error       = lipgloss.Color("#EF4444") // Red
	Muted       = lipgloss.Color("#6B7280") // Gray
	MutedLight  = lipgloss.Color("#9CA3AF") // Light Gray
	Background  = lipgloss.Color("#1F2937") // Dark Gray
	Foreground  = lipgloss.Color("#F9FAFB") // White
	BorderColor = lipgloss.Color("#374151") // Border Gray
)

// Header styles.
var (
	// HeaderStyle is the main header container.
	HeaderStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Padding(0, 1)

	// HeaderLabelStyle is for header labels.
	HeaderLabelStyle = lipgloss.NewStyle().
				Foreground(MutedLight)

	// HeaderValueStyle is for header values.
	HeaderValueStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Bold(true)

	// TitleStyle is for the application title.
	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)
)

// Dependency status styles, indexed by the status letter.
var (
	StatusNotVisibleStyle = lipgloss.NewStyle().Foreground(Error).Bold(true)
	StatusNewStyle        = lipgloss.NewStyle().Foreground(Success).Bold(true)
	StatusUpdatedStyle    = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	StatusRebuildStyle    = lipgloss.NewStyle().Foreground(Warning).Bold(true)
	StatusDeselectedStyle = lipgloss.NewStyle().Foreground(Muted)
)

// Table styles.
var (
	// TableHeaderStyle is for column headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(MutedLight).
				Bold(true)

	// TableCellStyle pads every cell.
	TableCellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	// SelectedRowStyle highlights the selected row.
	SelectedRowStyle = lipgloss.NewStyle().
				Background(Background).
				Bold(true)

	// TableBorderStyle colors the table border.
	TableBorderStyle = lipgloss.NewStyle().
				Foreground(BorderColor)
)

// Box styles.
var (
	// BoxStyle is a standard box with border.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// FocusedBoxStyle is a box that's currently focused.
	FocusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)
)

// Text styles.
var (
	// MutedTextStyle is for de-emphasized text.
	MutedTextStyle = lipgloss.NewStyle().
			Foreground(Muted)

	// ErrorTextStyle is for error markers.
	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(Error)

	// WarningTextStyle is for changed flags.
	WarningTextStyle = lipgloss.NewStyle().
				Foreground(Warning)

	// EnabledFlagStyle is for flags the configuration enables.
	EnabledFlagStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Bold(true)

	// DisabledFlagStyle is for flags the configuration disables.
	DisabledFlagStyle = lipgloss.NewStyle().
				Foreground(MutedLight)
)

// Status bar styles.
var (
	// StatusBarStyle is the main status bar container.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(MutedLight).
			Background(Background).
			Padding(0, 1)

	// KeyStyle is for keyboard shortcut keys.
	KeyStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	// HelpStyle is for help text.
	HelpStyle = lipgloss.NewStyle().
			Foreground(Muted)
)
