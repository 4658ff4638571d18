package tui

import (
	"fmt"
	"slices"

	"github.com/KaramelBytes/tablescope/internal/actionlog"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case logEntryMsg:
		m.logLines = append(m.logLines, actionlog.Entry(msg).String())
		m.refreshLog()
		return m, m.sink.wait()

	case tablesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.tables = msg.names
		return m, m.selectAfterRefresh()

	case tableLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.setTable(nil)
			return m, nil
		}
		m.err = nil
		m.setTable(msg.table)
		return m, nil

	case importedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("imported %s", msg.name)
		m.pending = msg.name
		return m, m.loadTables()

	case tea.KeyMsg:
		if m.picking {
			return m, m.updatePicker(msg)
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.panes[m.active], cmd = m.panes[m.active].Update(msg)
		return m, cmd
	}

	// Directory listings and size changes also reach the picker while it is hidden.
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, keys.NextTab):
		m.active = (m.active + 1) % numTabs
	case key.Matches(msg, keys.PrevTab):
		m.active = (m.active + numTabs - 1) % numTabs
	case key.Matches(msg, keys.NextTable):
		return m.stepTable(1), true
	case key.Matches(msg, keys.PrevTable):
		return m.stepTable(-1), true
	case key.Matches(msg, keys.NextColumn):
		m.stepColumn(1)
	case key.Matches(msg, keys.PrevColumn):
		m.stepColumn(-1)
	case key.Matches(msg, keys.Open):
		m.picking = true
		m.status = ""
		return m.picker.Init(), true
	case key.Matches(msg, keys.Refresh):
		return m.loadTables(), true
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) updatePicker(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Cancel) {
		m.picking = false
		m.ws.Log().Log("CSV load cancelled by user.")
		return nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.picking = false
		m.status = "importing " + path
		return tea.Batch(cmd, m.importFile(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.status = "not an importable file: " + path
	}
	return cmd
}

// selectAfterRefresh picks the pending table, else keeps the current one,
// else falls back to the first table.
func (m *Model) selectAfterRefresh() tea.Cmd {
	if len(m.tables) == 0 {
		m.tableIdx = 0
		m.setTable(nil)
		return nil
	}
	want := m.pending
	m.pending = ""
	if want == "" && m.current != nil {
		want = m.current.Name
	}
	idx := slices.Index(m.tables, want)
	if idx < 0 {
		idx = 0
	}
	m.tableIdx = idx
	return m.loadTable(m.tables[idx])
}

func (m *Model) stepTable(delta int) tea.Cmd {
	if len(m.tables) == 0 {
		return nil
	}
	m.tableIdx = (m.tableIdx + delta + len(m.tables)) % len(m.tables)
	return m.loadTable(m.tables[m.tableIdx])
}

func (m *Model) stepColumn(delta int) {
	if len(m.numeric) == 0 {
		return
	}
	m.colIdx = (m.colIdx + delta + len(m.numeric)) % len(m.numeric)
	col := m.selectedColumn()
	m.ws.Log().Logf("Selected column for line: %s", col)
	if m.refreshLine() {
		m.ws.Log().Logf("Line chart built for column '%s'", col)
	}
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.help.Width = w
	paneW := max(20, w-4)
	paneH := max(5, h-8)
	for i := range m.panes {
		m.panes[i].Width = paneW
		m.panes[i].Height = paneH
	}
	m.refreshPanes()
}
