package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/wexinc/portshell/internal/deep"
	"github.com/wexinc/portshell/internal/model"
	"github.com/wexinc/portshell/internal/tui/components"
	"github.com/wexinc/portshell/internal/tui/styles"
)

const ellipsis = "…"

var statusStyles = map[model.Status]lipgloss.Style{
	model.NotVisible:   styles.StatusNotVisibleStyle,
	model.New:          styles.StatusNewStyle,
	model.Updated:      styles.StatusUpdatedStyle,
	model.NeedsRebuild: styles.StatusRebuildStyle,
	model.Deselected:   styles.StatusDeselectedStyle,
}

func (m *Model) renderDependencies() string {
	list := m.lists[DependencyView]
	rows := list.Rows()
	if len(rows) == 0 {
		return styles.MutedTextStyle.Render("  no dependencies")
	}

	data := make([][]string, 0, len(rows))
	statuses := make([]model.Status, 0, len(rows))
	selected := -1
	for i, row := range rows {
		if row.Ellipsis {
			data = append(data, []string{"", ellipsis, "", "", ""})
			statuses = append(statuses, model.Unchanged)
			continue
		}
		d := m.deps[row.Index]
		status := model.Classify(d)
		data = append(data, []string{
			status.Letter(),
			d.Key.String(),
			versionOf(d.Installed),
			versionOf(d.Best),
			m.deepCell(d),
		})
		statuses = append(statuses, status)
		if row.Selected {
			selected = i
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorderStyle).
		Headers("", "Package", "Installed", "Best", "Deep").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.TableHeaderStyle
			}
			style := styles.TableCellStyle
			if col == 0 {
				if s, ok := statusStyles[statuses[row]]; ok {
					style = s.Padding(0, 1)
				}
			}
			if row == selected {
				style = style.Inherit(styles.SelectedRowStyle)
			}
			return style
		})
	if m.width > 0 {
		t = t.Width(m.width)
	}
	return t.Render()
}

func versionOf(r *model.Record) string {
	if r == nil {
		return "-"
	}
	return r.Version()
}

// deepCell renders the deep dependency count of d's best version.
func (m *Model) deepCell(d *model.Dependency) string {
	if d.Best == nil {
		return ""
	}
	c, ok := m.cells[d.Best]
	if !ok {
		return ellipsis
	}
	switch c.state {
	case deep.Ready:
		return strconv.Itoa(c.count)
	case deep.Failed:
		return "?"
	default:
		return ellipsis
	}
}

func (m *Model) renderFlags() string {
	list := m.lists[UseFlagView]
	height := list.Height()

	var lines []string
	for _, row := range list.Rows() {
		if row.Ellipsis {
			lines = append(lines, "  "+ellipsis)
			continue
		}
		lines = append(lines, renderFlag(m.flags[row.Index], row.Selected))
	}
	if len(lines) == 0 {
		lines = append(lines, styles.MutedTextStyle.Render("no use flags"))
	}

	half := m.width/2 - 2
	if half < 20 {
		half = 20
	}
	left := styles.FocusedBoxStyle.
		Width(half).
		Height(height).
		Render(strings.Join(lines, "\n"))

	var affected []string
	if m.affectedFlag != "" {
		affected = append(affected, styles.HeaderLabelStyle.Render(fmt.Sprintf("Enabling %s adds:", m.affectedFlag)))
		if len(m.affected) == 0 {
			affected = append(affected, styles.MutedTextStyle.Render("nothing"))
		}
		for i, d := range m.affected {
			if i >= height-1 {
				affected = append(affected, ellipsis)
				break
			}
			affected = append(affected, d.Key.String())
		}
	}
	right := styles.BoxStyle.
		Width(half).
		Height(height).
		Render(strings.Join(affected, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderFlag formats one flag: "+" marks a default, "*" a change since the
// installed build.
func renderFlag(f model.Flag, selected bool) string {
	prefix := " "
	if f.DefaultEnabled {
		prefix = "+"
	}
	name := styles.DisabledFlagStyle.Render(f.Name)
	if f.Enabled {
		name = styles.EnabledFlagStyle.Render(f.Name)
	}
	line := prefix + name
	if f.Changed() {
		line += styles.WarningTextStyle.Render("*")
	}
	if selected {
		return styles.SelectedRowStyle.Render("›" + line)
	}
	return " " + line
}

func (m *Model) statusData() components.StatusBarData {
	list := m.list()
	data := components.StatusBarData{Total: list.Len()}
	if i, ok := list.Selected(); ok {
		data.Position = i + 1
	}

	k := m.keys
	switch m.view {
	case DependencyView:
		inactive := 0
		for _, d := range m.deps {
			if !d.Active {
				inactive++
			}
		}
		if inactive > 0 {
			data.Message = fmt.Sprintf("%d inactive package(s)", inactive)
		}
		data.Shortcuts = components.ShortcutsFor(k.Up, k.Down, k.Enter, k.Back, k.Flags, k.Quit)
	case UseFlagView:
		data.Shortcuts = components.ShortcutsFor(k.Up, k.Down, k.Dependencies, k.Quit)
	}
	return data
}
