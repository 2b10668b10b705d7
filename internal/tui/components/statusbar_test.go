package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

func TestNewStatusBar(t *testing.T) {
	sb := NewStatusBar()
	if sb == nil {
		t.Fatal("expected non-nil StatusBar")
	}
	if !strings.Contains(sb.View(), "[0/0]") {
		t.Error("empty status bar should show [0/0]")
	}
}

func TestStatusBar_View(t *testing.T) {
	sb := NewStatusBar()
	sb.SetData(StatusBarData{
		Position:  3,
		Total:     12,
		Message:   "2 inactive package(s)",
		Shortcuts: []ShortcutDef{{Key: "q", Desc: "quit"}},
	})

	view := sb.View()
	for _, want := range []string{"[3/12]", "2 inactive package(s)", "q", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestStatusBar_NoMessage(t *testing.T) {
	sb := NewStatusBar()
	sb.SetData(StatusBarData{Position: 1, Total: 1})

	if strings.Contains(sb.View(), "│") {
		t.Error("no separator expected without message or shortcuts")
	}
}

func TestStatusBar_Width(t *testing.T) {
	sb := NewStatusBar()
	sb.SetWidth(100)
	sb.SetData(StatusBarData{
		Position:  1,
		Total:     5,
		Shortcuts: []ShortcutDef{{Key: "d", Desc: "deps"}},
	})

	if w := lipgloss.Width(sb.View()); w != 100 {
		t.Errorf("expected width 100, got %d", w)
	}
}

func TestShortcutsFor(t *testing.T) {
	up := key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "up"))
	hidden := key.NewBinding(key.WithKeys("x"))
	disabled := key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes"), key.WithDisabled())

	defs := ShortcutsFor(up, hidden, disabled)
	if len(defs) != 1 {
		t.Fatalf("expected 1 shortcut, got %d", len(defs))
	}
	if defs[0] != (ShortcutDef{Key: "k", Desc: "up"}) {
		t.Errorf("unexpected shortcut %+v", defs[0])
	}
}

func TestShortcutBar_View(t *testing.T) {
	if NewShortcutBar().View() != "" {
		t.Error("empty bar should render nothing")
	}

	bar := NewShortcutBar(ShortcutDef{Key: "u", Desc: "use flags"}, ShortcutDef{Key: "q", Desc: "quit"})
	view := bar.View()
	if !strings.Contains(view, "use flags") {
		t.Error("expected shortcut description in view")
	}
	if !strings.Contains(view, "│") {
		t.Error("expected separator between shortcuts")
	}

	bar.SetWidth(60)
	bar.SetCentered(true)
	if w := lipgloss.Width(bar.View()); w != 60 {
		t.Errorf("centered width = %d, want 60", w)
	}
}
