package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/report"
)

// BatchesModel lists every batch with its performance numbers.
type BatchesModel struct {
	CommonModel
	farmSvc *farm.Service
	reports *report.Service

	table     table.Model
	summaries []report.BatchSummary
	status    string
}

func NewBatchesModel(farmSvc *farm.Service, reports *report.Service) BatchesModel {
	columns := []table.Column{
		{Title: "Batch", Width: 20},
		{Title: "Status", Width: 8},
		{Title: "Chicks", Width: 8},
		{Title: "Revenue", Width: 12},
		{Title: "Expenses", Width: 12},
		{Title: "Profit", Width: 12},
		{Title: "ROI", Width: 8},
		{Title: "Mortality", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
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

	m := BatchesModel{
		farmSvc: farmSvc,
		reports: reports,
		table:   t,
	}
	m.refresh()

	return m
}

func (m BatchesModel) Init() tea.Cmd {
	return nil
}

func (m BatchesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refresh()
			m.status = ""
			return m, nil
		case "c":
			return m.closeSelected()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BatchesModel) closeSelected() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.summaries) {
		return m, nil
	}

	batch := m.summaries[idx].Batch
	if !batch.IsActive {
		m.status = fmt.Sprintf("%s is already closed", batch.Name)
		return m, nil
	}

	if err := m.farmSvc.CloseBatch(batch.ID); err != nil {
		m.status = fmt.Sprintf("Error closing batch: %v", err)
		return m, nil
	}

	m.status = fmt.Sprintf("Closed %s", batch.Name)
	m.refresh()

	return m, nil
}

func (m *BatchesModel) refresh() {
	m.summaries = m.reports.BatchSummaries()

	rows := make([]table.Row, 0, len(m.summaries))

	for _, s := range m.summaries {
		status := "Closed"
		if s.Batch.IsActive {
			status = "Active"
		}

		rows = append(rows, table.Row{
			s.Batch.Name,
			status,
			fmt.Sprintf("%d", s.Batch.NumChicks),
			FormatAmount(s.Revenue),
			FormatAmount(s.Expenses),
			FormatAmount(s.Profit),
			FormatPercent(s.ROI),
			FormatPercent(s.MortalityRate),
		})
	}

	m.table.SetRows(rows)
}

func (m BatchesModel) View() string {
	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	help := "Esc: back | c: close batch | r: refresh"

	content := lipgloss.JoinVertical(lipgloss.Left,
		tableView,
		lipgloss.NewStyle().Faint(true).Render(help),
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
