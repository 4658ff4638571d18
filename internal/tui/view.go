package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/KaramelBytes/tablescope/internal/analysis"
	"github.com/KaramelBytes/tablescope/internal/chart"
)

const noTableHint = "No table selected. Press o to import a CSV file."

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("tablescope"))
	b.WriteString(tipsStyle.Render("  " + m.ws.DBPath()))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	if m.picking {
		b.WriteString(headerStyle.Render("Import a file") + "\n")
		b.WriteString(tipsStyle.Render(m.picker.CurrentDirectory) + "\n\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(tipsStyle.Render("enter: import | esc: cancel"))
		return b.String()
	}

	b.WriteString(m.renderSelection())
	b.WriteString("\n")
	b.WriteString(paneStyle.Render(m.panes[m.active].View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.help.View(keys))
	return b.String()
}

func (m *Model) renderTabs() string {
	parts := make([]string, numTabs)
	for i, title := range tabTitles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if tab(i) == m.active {
			parts[i] = activeTabStyle.Render(label)
		} else {
			parts[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderSelection() string {
	tableLabel := "(none)"
	if m.current != nil {
		tableLabel = fmt.Sprintf("%s (%d/%d)", m.current.Name, m.tableIdx+1, len(m.tables))
	}
	line := tipsStyle.Render("table: ") + selectionStyle.Render(tableLabel)
	if m.active == tabLine && len(m.numeric) > 0 {
		line += tipsStyle.Render("   column: ") + selectionStyle.Render(m.selectedColumn())
	}
	return line
}

func (m *Model) renderStatusBar() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("⚠ " + m.err.Error())
	case m.status != "":
		return okStyle.Render("✓ " + m.status)
	default:
		return statusBarStyle.Render(fmt.Sprintf("%d table(s)", len(m.tables)))
	}
}

func (m *Model) chartSize() (int, int) {
	w, h := m.opt.ChartWidth, m.opt.ChartHeight
	if m.width > 0 {
		w = min(w, max(20, m.width-8))
	}
	if m.height > 0 {
		h = min(h, max(5, m.height-16))
	}
	return w, h
}

func (m *Model) refreshPanes() {
	m.refreshStats()
	m.refreshCharts()
	m.refreshLine()
	m.refreshLog()
}

func (m *Model) refreshStats() {
	if m.current == nil {
		m.panes[tabStats].SetContent(tipsStyle.Render(noTableHint))
		return
	}
	m.panes[tabStats].SetContent(analysis.Summary(m.current))
}

func (m *Model) refreshCharts() {
	if m.current == nil {
		m.panes[tabPairplot].SetContent(tipsStyle.Render(noTableHint))
		m.panes[tabHeatmap].SetContent(tipsStyle.Render(noTableHint))
		return
	}
	w, h := m.chartSize()

	pair := &chart.Figure{}
	chart.DrawPairplot(pair, m.current)
	m.panes[tabPairplot].SetContent(chart.Render(pair, w, h))

	heat := &chart.Figure{}
	chart.DrawHeatmap(heat, analysis.CorrelationMatrix(m.current), chart.HeatmapTitle(m.current.Name))
	m.panes[tabHeatmap].SetContent(chart.Render(heat, w, h))
}

// refreshLine redraws the line tab and reports whether a chart was drawn.
func (m *Model) refreshLine() bool {
	if m.current == nil {
		m.panes[tabLine].SetContent(tipsStyle.Render(noTableHint))
		return false
	}
	w, h := m.chartSize()
	f := &chart.Figure{}
	col := m.selectedColumn()
	drawn := false
	if col == "" {
		chart.DrawEmptyLine(f)
	} else if err := chart.DrawLine(f, m.current, col); err != nil {
		m.ws.Log().Logf("Line chart failed: %v", err)
		chart.DrawEmptyLine(f)
	} else {
		drawn = true
	}
	m.panes[tabLine].SetContent(chart.Render(f, w, h))
	return drawn
}

func (m *Model) refreshLog() {
	vp := &m.panes[tabLog]
	atBottom := vp.AtBottom()
	if len(m.logLines) == 0 {
		vp.SetContent(tipsStyle.Render("No actions yet."))
		return
	}
	vp.SetContent(strings.Join(m.logLines, "\n"))
	if atBottom {
		vp.GotoBottom()
	}
}
