package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nooranifarms/coopledger/internal/report"
)

type summaryState int

const (
	summaryStatePick summaryState = iota
	summaryStateShow
)

// SummaryModel shows the farm-wide financial summary for a chosen timeframe.
type SummaryModel struct {
	CommonModel
	reports *report.Service

	state   summaryState
	picker  TimeframePicker
	within  report.DateRange
	summary report.FarmSummary
	label   string
}

func NewSummaryModel(reports *report.Service) SummaryModel {
	return SummaryModel{
		reports: reports,
		picker:  NewTimeframePicker(),
	}
}

func (m SummaryModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m SummaryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.within = report.DateRange{}
		m.label = "All Time"

		if !msg.All {
			start, end := msg.Start, msg.End
			m.within = report.DateRange{Start: &start, End: &end}
			m.label = fmt.Sprintf("%s to %s", FormatDate(start), FormatDate(end))
		}

		m.summary = m.reports.FarmSummary(m.within)
		m.state = summaryStateShow

		return m, nil

	case tea.KeyMsg:
		if m.state == summaryStateShow {
			switch msg.String() {
			case "esc":
				return m, Back
			case "t":
				m.state = summaryStatePick
				m.picker.Reset()
				return m, nil
			}

			return m, nil
		}

		if msg.String() == "esc" {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m SummaryModel) View() string {
	if m.state == summaryStatePick {
		return lipgloss.NewStyle().Padding(2).Render(m.picker.View())
	}

	s := m.summary

	body := fmt.Sprintf(
		"Farm Summary (%s)\n\n"+
			"Total Sales:     %s\n"+
			"Total Expenses:  %s\n"+
			"Net Profit:      %s\n\n"+
			"Total Chicks:    %d\n"+
			"Total Mortality: %d\n"+
			"Profit / Chick:  %s\n"+
			"Mortality Rate:  %s\n\n"+
			"(t: change timeframe, Esc to back)",
		m.label,
		FormatAmount(s.TotalSales),
		FormatAmount(s.TotalExpenses),
		FormatAmount(s.NetProfit),
		s.TotalChicks,
		s.TotalMortality,
		FormatAmount(int64(s.ProfitPerChick)),
		FormatPercent(s.MortalityRate),
	)

	return lipgloss.NewStyle().Padding(2).Render(body)
}
