package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/portshell/internal/tui/styles"
)

// Spinner shows that background computations are still running.
type Spinner struct {
	spinner spinner.Model
	pending int
}

// NewSpinner creates a new Spinner component with default styling.
func NewSpinner() *Spinner {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(styles.Secondary)
	return &Spinner{spinner: s}
}

// SetPending sets the number of computations in flight.
func (s *Spinner) SetPending(n int) {
	s.pending = n
}

// Active reports whether anything is pending.
func (s *Spinner) Active() bool {
	return s.pending > 0
}

// Init returns the initial command for the spinner animation.
func (s *Spinner) Init() tea.Cmd {
	return s.spinner.Tick
}

// Update handles spinner tick messages.
func (s *Spinner) Update(msg tea.Msg) (*Spinner, tea.Cmd) {
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return s, cmd
}

// View renders the spinner and the pending count.
func (s *Spinner) View() string {
	count := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(fmt.Sprintf("computing %d", s.pending))
	return s.spinner.View() + " " + count
}
