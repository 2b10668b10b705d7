// Package tui provides the terminal user interface for portshell.
package tui

import (
	"slices"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wexinc/portshell/internal/deep"
	"github.com/wexinc/portshell/internal/logging"
	"github.com/wexinc/portshell/internal/model"
	"github.com/wexinc/portshell/internal/nav"
	"github.com/wexinc/portshell/internal/tui/components"
)

// ViewKind identifies a screen.
type ViewKind int

const (
	// DependencyView lists the dependencies of the current package.
	DependencyView ViewKind = iota
	// UseFlagView lists the USE flags of the current package.
	UseFlagView
)

func (v ViewKind) String() string {
	switch v {
	case DependencyView:
		return "dependencies"
	case UseFlagView:
		return "use flags"
	default:
		return "unknown"
	}
}

// Options configures the explorer.
type Options struct {
	// Tick is the poll interval while results are arriving.
	Tick time.Duration
	// IdleSleep is the poll interval after a tick that changed nothing.
	IdleSleep time.Duration
	// PageSize is how far page up/down move the selection.
	PageSize int
}

// DefaultOptions returns the default explorer options.
func DefaultOptions() Options {
	return Options{
		Tick:      15 * time.Millisecond,
		IdleSleep: 100 * time.Millisecond,
		PageSize:  10,
	}
}

// Window sizes used before the terminal reports its own.
const (
	defaultWidth  = 100
	defaultHeight = 24
)

// keyAction binds a key to what it does.
type keyAction struct {
	binding key.Binding
	run     func(m *Model) tea.Cmd
}

// deepCell is the last known deep dependency result of a record.
type deepCell struct {
	state deep.State
	count int
}

// Model is the Bubble Tea model for the dependency explorer.
type Model struct {
	// Components
	header    *components.Header
	statusBar *components.StatusBar
	spinner   *components.Spinner

	stack  *nav.Stack
	engine *deep.Engine
	opts   Options
	keys   keyMap

	view    ViewKind
	lists   map[ViewKind]*components.ScrollList
	global  []keyAction
	actions map[ViewKind][]keyAction

	// Current package, dependencies sorted by status.
	deps  []*model.Dependency
	flags []model.Flag
	cells map[*model.Record]deepCell

	// Dependencies added by the selected flag.
	affectedFlag string
	affected     []*model.Dependency

	width    int
	height   int
	quitting bool
}

// New creates the explorer rooted at root.
func New(root *model.Record, engine *deep.Engine, opts Options) *Model {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultOptions().PageSize
	}

	spin := components.NewSpinner()
	m := &Model{
		header:    components.NewHeader(spin),
		statusBar: components.NewStatusBar(),
		spinner:   spin,
		stack:     nav.New(root),
		engine:    engine,
		opts:      opts,
		keys:      defaultKeyMap(),
		cells:     make(map[*model.Record]deepCell),
		width:     defaultWidth,
		height:    defaultHeight,
	}
	m.lists = map[ViewKind]*components.ScrollList{
		DependencyView: components.NewScrollList(func() int { return len(m.deps) }, 1),
		UseFlagView:    components.NewScrollList(func() int { return len(m.flags) }, 1),
	}
	m.global, m.actions = m.dispatchTable()
	m.resize()
	m.load()
	return m
}

// dispatchTable maps keys to actions, globally and per view.
func (m *Model) dispatchTable() ([]keyAction, map[ViewKind][]keyAction) {
	k := m.keys
	global := []keyAction{
		{k.Dependencies, func(m *Model) tea.Cmd { m.switchView(DependencyView); return nil }},
		{k.Flags, func(m *Model) tea.Cmd { m.switchView(UseFlagView); return nil }},
		{k.Quit, func(m *Model) tea.Cmd { m.quitting = true; return tea.Quit }},
	}
	movement := []keyAction{
		{k.Up, func(m *Model) tea.Cmd { m.list().MoveUp(1); return nil }},
		{k.Down, func(m *Model) tea.Cmd { m.list().MoveDown(1); return nil }},
		{k.PageUp, func(m *Model) tea.Cmd { m.list().MoveUp(m.opts.PageSize); return nil }},
		{k.PageDown, func(m *Model) tea.Cmd { m.list().MoveDown(m.opts.PageSize); return nil }},
	}
	actions := map[ViewKind][]keyAction{
		DependencyView: append(slices.Clone(movement),
			keyAction{k.Enter, func(m *Model) tea.Cmd { m.enter(); return nil }},
			keyAction{k.Back, func(m *Model) tea.Cmd { m.goBack(); return nil }},
		),
		UseFlagView: movement,
	}
	return global, actions
}

// Init is the Bubble Tea initialization function.
func (m *Model) Init() tea.Cmd {
	return m.tick(0)
}

func (m *Model) tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case TickMsg:
		wasActive := m.spinner.Active()
		next := m.opts.IdleSleep
		if m.poll() {
			next = m.opts.Tick
		}
		if !wasActive && m.spinner.Active() {
			return m, tea.Batch(m.tick(next), m.spinner.Init())
		}
		return m, m.tick(next)

	case spinner.TickMsg:
		if !m.spinner.Active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	for _, a := range m.global {
		if key.Matches(msg, a.binding) {
			return a.run(m)
		}
	}
	for _, a := range m.actions[m.view] {
		if key.Matches(msg, a.binding) {
			cmd := a.run(m)
			m.updateAffected()
			return cmd
		}
	}
	return nil
}

func (m *Model) list() *components.ScrollList {
	return m.lists[m.view]
}

// switchView shows view v with a fresh selection.
func (m *Model) switchView(v ViewKind) {
	m.view = v
	m.lists[v].Reset()
	m.updateAffected()
}

// load refreshes the cached contents of the package on top of the stack.
func (m *Model) load() {
	r := m.stack.Current()
	deps := slices.Clone(r.Deps())
	model.SortByStatus(deps)
	m.deps = deps
	m.flags = r.Flags()
	m.affectedFlag = ""
	m.affected = nil
	for _, l := range m.lists {
		l.Reset()
	}
	m.updateAffected()
}

func (m *Model) enter() {
	i, ok := m.lists[DependencyView].Selected()
	if !ok {
		return
	}
	dep := m.deps[i]
	if !m.stack.Enter(dep) {
		return
	}
	logging.Debug("entered package", "package", m.stack.Current().ID(), "depth", m.stack.Depth())
	m.load()
}

func (m *Model) goBack() {
	frame, ok := m.stack.GoBack()
	if !ok {
		return
	}
	m.load()
	for i, d := range m.deps {
		if d.Key == frame.Via.Key {
			m.lists[DependencyView].Select(i)
			break
		}
	}
}

// updateAffected recomputes the flag diff when the selected flag changed.
func (m *Model) updateAffected() {
	if m.view != UseFlagView {
		return
	}
	i, ok := m.lists[UseFlagView].Selected()
	if !ok {
		m.affectedFlag, m.affected = "", nil
		return
	}
	name := m.flags[i].Name
	if name == m.affectedFlag {
		return
	}
	m.affectedFlag = name
	m.affected = m.stack.Current().DepsAffectedByFlag(name)
}

// poll asks the engine for the deep dependencies of every visible row that
// has no final result yet. It reports whether anything visible changed.
func (m *Model) poll() bool {
	changed := false
	if m.view == DependencyView && m.engine != nil {
		for _, row := range m.lists[DependencyView].Rows() {
			if row.Ellipsis {
				continue
			}
			r := m.deps[row.Index].Best
			if r == nil {
				continue
			}
			if c, ok := m.cells[r]; ok && c.state != deep.Pending {
				continue
			}
			keys, state := m.engine.Request(r)
			cell := deepCell{state: state, count: len(keys)}
			if prev, ok := m.cells[r]; !ok || prev != cell {
				changed = true
			}
			m.cells[r] = cell
		}
	}

	pending := 0
	if m.engine != nil {
		pending = m.engine.InFlight()
	}
	if pending != 0 || m.spinner.Active() {
		changed = true
	}
	m.spinner.SetPending(pending)
	return changed
}

// resize fits the components to the window.
func (m *Model) resize() {
	m.header.SetWidth(m.width)
	m.statusBar.SetWidth(m.width)
	// Header and status bar take a line each. The table adds its border,
	// header row and separator; the flag boxes add their borders.
	m.lists[DependencyView].SetHeight(m.height - 2 - 4)
	m.lists[UseFlagView].SetHeight(m.height - 2 - 2)
}

// View renders the explorer.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var trail []string
	records := m.stack.Records()
	for _, r := range records[:len(records)-1] {
		trail = append(trail, r.ID())
	}
	m.header.SetData(components.HeaderData{
		Package: m.stack.Current().ID(),
		Trail:   trail,
		View:    m.view.String(),
	})

	var body string
	switch m.view {
	case DependencyView:
		body = m.renderDependencies()
	case UseFlagView:
		body = m.renderFlags()
	}

	m.statusBar.SetData(m.statusData())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		body,
		m.statusBar.View(),
	)
}

// CurrentView returns the active screen.
func (m *Model) CurrentView() ViewKind {
	return m.view
}

// Selection returns the selected index of the active screen.
func (m *Model) Selection() (int, bool) {
	return m.list().Selected()
}

// Current returns the package on top of the navigation stack.
func (m *Model) Current() *model.Record {
	return m.stack.Current()
}

// Run starts the TUI.
func Run(root *model.Record, engine *deep.Engine, opts Options) error {
	p := tea.NewProgram(New(root, engine, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
