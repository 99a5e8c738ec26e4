// Package ui provides the Bubble Tea run history browser.
package ui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fullset/internal/collector"
	"fullset/internal/render"
	"fullset/internal/store"
)

// historyLimit caps how many runs the browser loads.
const historyLimit = 100

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1)
	paneStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea history browser: a run table with a live
// histogram pane for the selected run.
type Model struct {
	store *store.Store

	runs     []store.Run
	runTable table.Model
	histPane viewport.Model

	width  int
	height int
	errMsg string
}

// NewModel constructs a history browser over an open store.
func NewModel(st *store.Store) *Model {
	m := &Model{store: st}
	m.initTable()
	m.histPane = viewport.New(60, 10)
	m.refresh()
	return m
}

func (m *Model) initTable() {
	columns := []table.Column{
		{Title: "When", Width: 19},
		{Title: "Run", Width: 8},
		{Title: "Trials", Width: 10},
		{Title: "Mean", Width: 7},
		{Title: "Min", Width: 4},
		{Title: "Max", Width: 4},
		{Title: "Elapsed", Width: 9},
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("#F0F0F0")).
		Background(lipgloss.Color("#3A5A8C")).
		Bold(true)
	m.runTable = table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
		table.WithStyles(styles),
	)
}

// refresh reloads the run list and the selected histogram.
func (m *Model) refresh() {
	runs, err := m.store.ListRuns(context.Background(), historyLimit)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.runs = runs

	rows := make([]table.Row, len(runs))
	for i, run := range runs {
		rows[i] = table.Row{
			run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(run.RunID),
			strconv.Itoa(run.Trials),
			fmt.Sprintf("%.3f", run.MeanLength),
			strconv.Itoa(run.MinLength),
			strconv.Itoa(run.MaxLength),
			collector.FormatDuration(run.Elapsed),
		}
	}
	m.runTable.SetRows(rows)
	if m.runTable.Cursor() >= len(rows) && len(rows) > 0 {
		m.runTable.SetCursor(len(rows) - 1)
	}
	m.renderHistogram()
}

// renderHistogram fills the pane with the selected run's buckets.
func (m *Model) renderHistogram() {
	if len(m.runs) == 0 {
		m.histPane.SetContent("no runs recorded yet")
		return
	}
	cursor := m.runTable.Cursor()
	if cursor < 0 || cursor >= len(m.runs) {
		cursor = 0
	}
	run := m.runs[cursor]

	buckets, err := m.store.Buckets(context.Background(), run.ID)
	if err != nil {
		m.histPane.SetContent(errorStyle.Render(err.Error()))
		return
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Run %s · %d trials · mean %.4f · seed %d · %d workers\n\n",
		shortID(run.RunID), run.Trials, run.MeanLength, run.Seed, run.Workers)
	if err := render.Histogram(&buf, buckets, render.HistogramOptions{Width: m.histPane.Width}); err != nil {
		m.histPane.SetContent(errorStyle.Render(err.Error()))
		return
	}
	m.histPane.SetContent(buf.String())
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.runTable, cmd = m.runTable.Update(msg)
		m.renderHistogram()
		return m, cmd
	}
	return m, nil
}

func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	tableHeight := m.height/2 - 4
	if tableHeight < 3 {
		tableHeight = 3
	}
	m.runTable.SetHeight(tableHeight)

	paneWidth := m.width - 4
	if paneWidth < 40 {
		paneWidth = 40
	}
	paneHeight := m.height - tableHeight - 7
	if paneHeight < 5 {
		paneHeight = 5
	}
	m.histPane.Width = paneWidth
	m.histPane.Height = paneHeight
	m.renderHistogram()
}

// View implements tea.Model.
func (m *Model) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render("fullset run history"))
	if m.errMsg != "" {
		sections = append(sections, errorStyle.Render(m.errMsg))
	}
	sections = append(sections, m.runTable.View())
	sections = append(sections, paneStyle.Render(m.histPane.View()))
	sections = append(sections, footerStyle.Render("↑/↓ select · r refresh · q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func shortID(runID string) string {
	if len(runID) > 8 {
		return runID[:8]
	}
	return runID
}
