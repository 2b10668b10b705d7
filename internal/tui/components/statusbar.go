package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/portshell/internal/tui/styles"
)

// StatusBarData contains the data to display in the status bar.
type StatusBarData struct {
	// Position is the 1-based selected row, 0 when nothing is selected.
	Position int
	Total    int
	// Message is an optional status message, e.g. the inactive count.
	Message   string
	Shortcuts []ShortcutDef
}

// StatusBar displays the list position, a message and keyboard shortcuts.
type StatusBar struct {
	data  StatusBarData
	width int
}

// NewStatusBar creates a new StatusBar component.
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetData updates the status bar data.
func (s *StatusBar) SetData(data StatusBarData) {
	s.data = data
}

// SetWidth sets the width of the status bar.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status bar.
func (s *StatusBar) View() string {
	sep := lipgloss.NewStyle().
		Foreground(styles.Muted).
		Render(" │ ")

	left := lipgloss.NewStyle().
		Foreground(styles.Secondary).
		Render(fmt.Sprintf("[%d/%d]", s.data.Position, s.data.Total))

	if s.data.Message != "" {
		msgStyle := lipgloss.NewStyle().
			Foreground(styles.MutedLight).
			Italic(true)
		left += sep + msgStyle.Render(s.data.Message)
	}

	right := NewShortcutBar(s.data.Shortcuts...).View()

	containerStyle := styles.StatusBarStyle
	if s.width > 0 {
		containerStyle = containerStyle.Width(s.width)

		padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2 // container padding
		if padding > 0 {
			return containerStyle.Render(left + strings.Repeat(" ", padding) + right)
		}
	}
	return containerStyle.Render(left + "  " + right)
}
