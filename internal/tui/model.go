// Package tui is the interactive terminal shell: a tabbed view over the
// workspace with stats, correlation charts, a line chart and the action log.
package tui

import (
	"context"
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/KaramelBytes/tablescope/internal/actionlog"
	"github.com/KaramelBytes/tablescope/internal/analysis"
	"github.com/KaramelBytes/tablescope/internal/table"
	"github.com/KaramelBytes/tablescope/internal/workspace"
)

type tab int

const (
	tabStats tab = iota
	tabPairplot
	tabHeatmap
	tabLine
	tabLog
	numTabs
)

var tabTitles = [numTabs]string{"Stats", "Correlations", "Heatmap", "Line chart", "Log"}

// importTypes are the extensions offered by the file picker.
var importTypes = []string{".csv", ".tsv", ".txt", ".xlsx", ".gz", ".bz2", ".xz", ".zst"}

// Options configures the shell.
type Options struct {
	ChartWidth  int
	ChartHeight int
	// StartDir is where the file picker opens; the working directory when empty.
	StartDir string
	// Sink keeps receiving log entries while the shell is bound.
	Sink actionlog.Sink
}

// Model is the bubbletea model for the shell.
type Model struct {
	ctx  context.Context
	ws   *workspace.Workspace
	opt  Options
	sink *chanSink

	active tab
	panes  [numTabs]viewport.Model
	help   help.Model
	picker filepicker.Model

	picking bool
	width   int
	height  int

	tables   []string
	tableIdx int
	current  *table.Table
	numeric  []string
	colIdx   int
	// pending is selected once the table list next refreshes.
	pending string

	logLines []string
	status   string
	err      error
}

// New builds the shell model and binds its log pane to the workspace log.
func New(ctx context.Context, ws *workspace.Workspace, opt Options) *Model {
	if opt.ChartWidth <= 0 {
		opt.ChartWidth = 72
	}
	if opt.ChartHeight <= 0 {
		opt.ChartHeight = 12
	}
	fp := filepicker.New()
	fp.AllowedTypes = importTypes
	fp.AutoHeight = true
	fp.CurrentDirectory = opt.StartDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}

	m := &Model{
		ctx:    ctx,
		ws:     ws,
		opt:    opt,
		sink:   newChanSink(),
		help:   help.New(),
		picker: fp,
	}
	for i := range m.panes {
		m.panes[i] = viewport.New(opt.ChartWidth+4, opt.ChartHeight+8)
	}
	ws.Log().Bind(actionlog.Multi(opt.Sink, m.sink))
	m.refreshPanes()
	return m
}

// Run starts the shell and blocks until the user quits. The log is
// rebound to opt.Sink on return.
func Run(ctx context.Context, ws *workspace.Workspace, opt Options) error {
	m := New(ctx, ws, opt)
	defer ws.Log().Bind(opt.Sink)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.sink.wait(), m.loadTables(), m.picker.Init())
}

type tablesLoadedMsg struct {
	names []string
	err   error
}

type tableLoadedMsg struct {
	name  string
	table *table.Table
	err   error
}

type importedMsg struct {
	name string
	err  error
}

func (m *Model) loadTables() tea.Cmd {
	return func() tea.Msg {
		names, err := m.ws.Tables(m.ctx)
		return tablesLoadedMsg{names: names, err: err}
	}
}

func (m *Model) loadTable(name string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.ws.Table(m.ctx, name)
		return tableLoadedMsg{name: name, table: t, err: err}
	}
}

func (m *Model) importFile(path string) tea.Cmd {
	return func() tea.Msg {
		name, _, err := m.ws.ImportFile(m.ctx, path, "")
		return importedMsg{name: name, err: err}
	}
}

// selectedColumn returns the numeric column shown on the line tab.
func (m *Model) selectedColumn() string {
	if m.colIdx < 0 || m.colIdx >= len(m.numeric) {
		return ""
	}
	return m.numeric[m.colIdx]
}

func (m *Model) setTable(t *table.Table) {
	m.current = t
	m.numeric = nil
	if t != nil {
		m.numeric = analysis.NumericColumnNames(t)
	}
	m.colIdx = 0
	m.refreshPanes()
}
