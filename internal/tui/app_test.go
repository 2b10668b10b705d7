package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wexinc/portshell/internal/atom"
	"github.com/wexinc/portshell/internal/deep"
	"github.com/wexinc/portshell/internal/model"
	"github.com/wexinc/portshell/internal/portage"
)

const explorerFixture = `
available:
  - cpv: app-misc/root-1.0
    keywords: [amd64]
    iuse: [flag, +ssl]
    depend: "dev-libs/same dev-libs/upd dev-libs/new flag? ( dev-libs/extra )"
  - cpv: dev-libs/new-1.0
    keywords: [amd64]
  - cpv: dev-libs/same-1.0
    keywords: [amd64]
  - cpv: dev-libs/upd-2.0
    keywords: [amd64]
    depend: "dev-libs/same"
  - cpv: dev-libs/extra-1.0
    keywords: [amd64]
installed:
  - cpv: dev-libs/same-1.0
  - cpv: dev-libs/upd-1.0
`

func newTestRoot(t *testing.T) *model.Record {
	t.Helper()
	available, installed, err := portage.ParseFixture([]byte(explorerFixture))
	if err != nil {
		t.Fatalf("ParseFixture: %v", err)
	}
	settings, err := portage.NewSettings(nil, nil, []string{"amd64"})
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	repo := portage.NewRepository(available, installed, settings)
	root, ok := model.ResolveRoot(repo, "app-misc/root")
	if !ok {
		t.Fatal("root package not found")
	}
	return root
}

func newTestModel(t *testing.T, engine *deep.Engine) *Model {
	t.Helper()
	return New(newTestRoot(t), engine, DefaultOptions())
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func press(m *Model, msgs ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestNew(t *testing.T) {
	m := newTestModel(t, nil)

	if m.CurrentView() != DependencyView {
		t.Errorf("initial view = %v, want %v", m.CurrentView(), DependencyView)
	}
	if i, ok := m.Selection(); !ok || i != 0 {
		t.Errorf("initial selection = %d, %v; want 0, true", i, ok)
	}
	if m.Current().ID() != "app-misc/root-1.0" {
		t.Errorf("current = %q", m.Current().ID())
	}
}

func TestModelInit(t *testing.T) {
	m := newTestModel(t, nil)
	if cmd := m.Init(); cmd == nil {
		t.Error("Init should return a tick command")
	}
}

func TestStatusColumnOrder(t *testing.T) {
	m := newTestModel(t, nil)

	want := []string{"N", "U", "", "-"}
	var got []string
	for _, row := range m.lists[DependencyView].Rows() {
		got = append(got, model.Classify(m.deps[row.Index]).Letter())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("status column = %q, want %q", got, want)
	}
	if m.deps[0].Key.CP != "dev-libs/new" || m.deps[2].Key.CP != "dev-libs/same" {
		t.Errorf("unexpected order: %v, %v", m.deps[0].Key, m.deps[2].Key)
	}
}

func TestModelUpdateKeyQuit(t *testing.T) {
	m := newTestModel(t, nil)

	cmd := press(m, runeKey('q'))
	if !m.quitting {
		t.Error("Model should be quitting after 'q' press")
	}
	if cmd == nil {
		t.Error("Should return a quit command")
	}
	if m.View() != "" {
		t.Error("View should be empty while quitting")
	}
}

func TestModelUpdateOnlyQQuits(t *testing.T) {
	m := newTestModel(t, nil)

	for _, msg := range []tea.KeyMsg{{Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}, runeKey('x')} {
		if cmd := press(m, msg); cmd != nil {
			t.Errorf("%s returned a command", msg)
		}
	}
	if m.quitting {
		t.Error("Model should only quit on 'q'")
	}
}

func TestEnterAndGoBack(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, runeKey('j'), tea.KeyMsg{Type: tea.KeyRight})
	if got := m.Current().ID(); got != "dev-libs/upd-2.0" {
		t.Fatalf("after enter current = %q, want dev-libs/upd-2.0", got)
	}
	if i, _ := m.Selection(); i != 0 {
		t.Errorf("selection after enter = %d, want 0", i)
	}

	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := m.Current().ID(); got != "app-misc/root-1.0" {
		t.Fatalf("after back current = %q", got)
	}
	if i, _ := m.Selection(); i != 1 {
		t.Errorf("selection after back = %d, want 1", i)
	}
}

func TestGoBackAtRoot(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, runeKey('j'), runeKey('h'))
	if got := m.Current().ID(); got != "app-misc/root-1.0" {
		t.Errorf("current = %q", got)
	}
	if i, _ := m.Selection(); i != 1 {
		t.Errorf("selection = %d, want 1", i)
	}
}

func TestEnterWithoutPackages(t *testing.T) {
	m := newTestModel(t, nil)

	// dev-libs/upd has a single dependency, dev-libs/same.
	press(m, runeKey('j'), runeKey('l'), runeKey('l'))
	if got := m.Current().ID(); got != "dev-libs/same-1.0" {
		t.Fatalf("current = %q", got)
	}
	press(m, runeKey('l'))
	if got := m.Current().ID(); got != "dev-libs/same-1.0" {
		t.Errorf("entering an empty list moved to %q", got)
	}
	if _, ok := m.Selection(); ok {
		t.Error("empty list should have no selection")
	}
}

func TestSwitchViewResetsSelection(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, runeKey('j'), runeKey('j'), runeKey('u'))
	if m.CurrentView() != UseFlagView {
		t.Fatalf("view = %v, want %v", m.CurrentView(), UseFlagView)
	}
	press(m, runeKey('d'))
	if m.CurrentView() != DependencyView {
		t.Fatalf("view = %v, want %v", m.CurrentView(), DependencyView)
	}
	if i, _ := m.Selection(); i != 0 {
		t.Errorf("selection = %d, want 0", i)
	}

	press(m, runeKey('d'))
	if i, _ := m.Selection(); i != 0 {
		t.Errorf("selection after second d = %d, want 0", i)
	}
}

func TestFlagViewAffectedDeps(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, runeKey('u'))
	if m.affectedFlag != "flag" {
		t.Fatalf("affected flag = %q, want flag", m.affectedFlag)
	}
	if len(m.affected) != 1 || m.affected[0].Key.CP != "dev-libs/extra" {
		t.Errorf("affected = %v, want [dev-libs/extra]", m.affected)
	}

	press(m, runeKey('j'))
	if m.affectedFlag != "ssl" {
		t.Errorf("affected flag = %q, want ssl", m.affectedFlag)
	}
	if len(m.affected) != 0 {
		t.Errorf("ssl should add nothing, got %v", m.affected)
	}

	view := m.View()
	if !strings.Contains(view, "Enabling ssl adds:") {
		t.Error("flag view should describe the selected flag")
	}
}

func TestFlagViewIgnoresNavigation(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, runeKey('u'), runeKey('l'))
	if got := m.Current().ID(); got != "app-misc/root-1.0" {
		t.Errorf("enter in flag view moved to %q", got)
	}
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, nil)

	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
	if h := m.lists[DependencyView].Height(); h != 34 {
		t.Errorf("dependency list height = %d, want 34", h)
	}

	m.Update(tea.WindowSizeMsg{Width: 10, Height: 3})
	if h := m.lists[DependencyView].Height(); h != 1 {
		t.Errorf("dependency list height = %d, want 1", h)
	}
}

func TestView(t *testing.T) {
	m := newTestModel(t, nil)

	view := m.View()
	for _, want := range []string{
		"PORTSHELL",
		"app-misc/root-1.0",
		"dev-libs/new",
		"1 inactive package(s)",
		"[1/4]",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View should contain %q", want)
		}
	}
}

func TestViewShowsTrail(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, runeKey('j'), runeKey('l'))
	if !strings.Contains(m.View(), "from app-misc/root-1.0") {
		t.Error("View should show how the package was reached")
	}
}

func TestTickFillsDeepCells(t *testing.T) {
	engine := deep.New(deep.Config{
		Workers:    2,
		PollBudget: time.Millisecond,
		Compute: func(r *model.Record) (atom.KeySet, error) {
			ks := atom.NewKeySet()
			ks.Add(atom.Key{CP: "dev-libs/a"})
			ks.Add(atom.Key{CP: "dev-libs/b"})
			return ks, nil
		},
	})
	m := newTestModel(t, engine)

	if got := m.deepCell(m.deps[0]); got != ellipsis {
		t.Errorf("deep cell before tick = %q, want %q", got, ellipsis)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		_, cmd := m.Update(TickMsg{Time: time.Now()})
		if cmd == nil {
			t.Fatal("tick should schedule another tick")
		}
		if m.deepCell(m.deps[0]) == "2" {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := m.deepCell(m.deps[0]); got != "2" {
		t.Fatalf("deep cell = %q, want 2", got)
	}
	if engine.Launched() != len(m.deps) {
		t.Errorf("launched = %d, want %d", engine.Launched(), len(m.deps))
	}
}

func TestTickSkipsHiddenView(t *testing.T) {
	engine := deep.New(deep.DefaultConfig())
	m := newTestModel(t, engine)

	press(m, runeKey('u'))
	m.Update(TickMsg{Time: time.Now()})
	if engine.Launched() != 0 {
		t.Errorf("launched = %d while flag view is shown, want 0", engine.Launched())
	}
}

func TestDeepCellStates(t *testing.T) {
	m := newTestModel(t, nil)
	d := m.deps[0]

	m.cells[d.Best] = deepCell{state: deep.Failed}
	if got := m.deepCell(d); got != "?" {
		t.Errorf("failed cell = %q, want ?", got)
	}
	m.cells[d.Best] = deepCell{state: deep.Ready, count: 7}
	if got := m.deepCell(d); got != "7" {
		t.Errorf("ready cell = %q, want 7", got)
	}
	if got := m.deepCell(&model.Dependency{}); got != "" {
		t.Errorf("cell without best version = %q, want empty", got)
	}
}

func TestViewKindString(t *testing.T) {
	if DependencyView.String() != "dependencies" || UseFlagView.String() != "use flags" {
		t.Error("unexpected view names")
	}
}
