// Package tui implements the interactive matrix preview.
package tui

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/castframe/matrixgen/internal/matrix"
	"github.com/castframe/matrixgen/internal/trigger"
)

// --- Styles ---

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 1)

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFF00"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// Model is the BubbleTea model for the matrix preview.
type Model struct {
	class  *trigger.Classification
	jobs   matrix.Matrix
	commit string

	width  int
	height int

	jobTable table.Model
	viewport viewport.Model
}

// NewPreview creates the preview model for an assembled matrix.
func NewPreview(class *trigger.Classification, commitSHA string, m matrix.Matrix) *Model {
	rows := make([]table.Row, 0, len(m))
	for _, job := range m {
		cache := job.Rust.SharedKey
		if cache == "" {
			cache = "-"
		}
		rows = append(rows, table.Row{string(job.Kind()), job.JobName, job.Runner, cache})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Kind", Width: 8},
			{Title: "Job", Width: 24},
			{Title: "Runner", Width: 24},
			{Title: "Cache Key", Width: 22},
		}),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	vp := viewport.New(60, 14)

	model := &Model{
		class:    class,
		jobs:     m,
		commit:   commitSHA,
		jobTable: t,
		viewport: vp,
	}
	model.refreshDetail()
	return model
}

func (m *Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(40, m.width/2-6)
		m.viewport.Height = max(10, m.height-8)
	}

	var cmd tea.Cmd
	m.jobTable, cmd = m.jobTable.Update(msg)
	m.refreshDetail()
	return m, cmd
}

func (m *Model) View() string {
	title := titleStyle.Render("matrixgen preview")
	summary := fmt.Sprintf("mode %s  commit %s  %d jobs",
		modeStyle.Render(m.class.Mode.String()),
		m.commit,
		len(m.jobs),
	)

	left := borderStyle.Render(m.jobTable.View())
	right := borderStyle.Render(m.viewport.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := dimStyle.Render("up/down: select job   q: quit")

	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, summary, body, help))
}

// refreshDetail renders the selected job's JSON into the viewport.
func (m *Model) refreshDetail() {
	idx := m.jobTable.Cursor()
	if idx < 0 || idx >= len(m.jobs) {
		m.viewport.SetContent(dimStyle.Render("no job selected"))
		return
	}

	data, err := json.MarshalIndent(m.jobs[idx], "", "  ")
	if err != nil {
		m.viewport.SetContent(fmt.Sprintf("failed to render job: %v", err))
		return
	}
	m.viewport.SetContent(string(data))
}

// Run launches the preview program and blocks until the user quits.
func Run(class *trigger.Classification, commitSHA string, jobs matrix.Matrix) error {
	p := tea.NewProgram(NewPreview(class, commitSHA, jobs))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("preview failed: %w", err)
	}
	return nil
}
