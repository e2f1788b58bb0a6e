// cli/report_view.go
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/polybench/harness"
)

// chromeHeight is the number of terminal rows used by the title, border
// and help line around the table.
const chromeHeight = 6

var (
	titleStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("230")).Padding(0, 1)
	tableStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("238"))
	helpStyle  = lipgloss.NewStyle().Faint(true)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(1)
)

// reportModel is a read-only, scrollable table of benchmark summaries.
type reportModel struct {
	title     string
	summaries []harness.Summary
	table     table.Model
	width     int
	height    int
	quitting  bool
}

// newReportModel builds the viewer for summaries, one row per program in
// report order.
func newReportModel(title string, summaries []harness.Summary) *reportModel {
	labelWidth := len("Program")
	for _, s := range summaries {
		if n := lipgloss.Width(s.Label); n > labelWidth {
			labelWidth = n
		}
	}
	columns := []table.Column{
		{Title: "Program", Width: labelWidth},
		{Title: "Count", Width: 7},
		{Title: "Total", Width: 16},
		{Title: "Mean", Width: 16},
	}
	rows := make([]table.Row, len(summaries))
	for i, s := range summaries {
		rows[i] = table.Row{
			s.Label,
			strconv.Itoa(s.Count),
			harness.FormatFloat(s.Total),
			harness.FormatFloat(s.Mean),
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+3, 20)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	return &reportModel{title: title, summaries: summaries, table: t}
}

// Init implements tea.Model.
func (m *reportModel) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *reportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if h := msg.Height - chromeHeight; h > 0 {
			m.table.SetHeight(h)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m *reportModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title) + "\n")
	if len(m.summaries) == 0 {
		b.WriteString(emptyStyle.Render("No timed programs in this log.") + "\n")
	} else {
		b.WriteString(tableStyle.Render(m.table.View()) + "\n")
		if row := m.table.SelectedRow(); row != nil {
			b.WriteString(fmt.Sprintf(" %s: %s samples, mean %s\n", row[0], row[1], row[3]))
		}
	}
	b.WriteString(helpStyle.Render(" ↑/↓ to move, q to quit"))
	return b.String()
}

// StartReportViewer runs the interactive summary table until the user quits.
func StartReportViewer(title string, summaries []harness.Summary) error {
	p := tea.NewProgram(newReportModel(title, summaries), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("report viewer: %w", err)
	}
	return nil
}
