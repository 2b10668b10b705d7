package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/portshell/internal/tui/styles"
)

// HeaderData contains the data to display in the header.
type HeaderData struct {
	// Package is the package currently displayed.
	Package string
	// Trail is the visited packages below the current one, root first.
	Trail []string
	// View names the active screen.
	View string
}

// Header displays the current package and how it was reached.
type Header struct {
	data    HeaderData
	width   int
	spinner *Spinner
}

// NewHeader creates a new Header component.
func NewHeader(spinner *Spinner) *Header {
	return &Header{spinner: spinner}
}

// SetData updates the header data.
func (h *Header) SetData(data HeaderData) {
	h.data = data
}

// SetWidth sets the width for the header.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// View renders the header.
func (h *Header) View() string {
	title := styles.TitleStyle.Render("PORTSHELL")

	sep := lipgloss.NewStyle().
		Foreground(styles.MutedLight).
		Render(" │ ")

	content := title + sep +
		styles.HeaderLabelStyle.Render("Current package: ") +
		styles.HeaderValueStyle.Render(h.data.Package)

	if len(h.data.Trail) > 0 {
		trail := strings.Join(h.data.Trail, " › ")
		content += sep + styles.HeaderLabelStyle.Render("from "+trail)
	}
	if h.data.View != "" {
		content += sep + styles.HeaderLabelStyle.Render(h.data.View)
	}
	if h.spinner != nil && h.spinner.Active() {
		content += sep + h.spinner.View()
	}

	headerStyle := styles.HeaderStyle
	if h.width > 0 {
		headerStyle = headerStyle.Width(h.width)
	}
	return headerStyle.Render(content)
}
