package view

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/ledger"
	"github.com/nooranifarms/coopledger/internal/report"
)

type customersState int

const (
	customersStateBrowse customersState = iota
	customersStateLedger
	customersStatePay
)

// CustomersModel lists customer accounts by outstanding balance, with a
// drill-down into the full ledger and a form to record payments.
type CustomersModel struct {
	CommonModel
	farmSvc   *farm.Service
	ledgerSvc *ledger.Service
	reports   *report.Service

	state    customersState
	table    table.Model
	accounts []report.Account
	current  *ledger.Ledger
	form     *huh.Form
	status   string

	// Form bindings
	formDate   string
	formAmount string
	formNotes  string
}

func NewCustomersModel(farmSvc *farm.Service, ledgerSvc *ledger.Service, reports *report.Service) CustomersModel {
	columns := []table.Column{
		{Title: "Customer", Width: 24},
		{Title: "Purchased", Width: 12},
		{Title: "Paid", Width: 12},
		{Title: "Balance", Width: 12},
		{Title: "Entries", Width: 8},
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

	m := CustomersModel{
		farmSvc:   farmSvc,
		ledgerSvc: ledgerSvc,
		reports:   reports,
		table:     t,
	}
	m.refresh()

	return m
}

func (m CustomersModel) Init() tea.Cmd {
	return nil
}

func (m CustomersModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case customersStateBrowse:
		return m.updateBrowse(msg)
	case customersStateLedger:
		return m.updateLedger(msg)
	case customersStatePay:
		return m.updatePay(msg)
	}

	return m, nil
}

func (m CustomersModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.refresh()
			m.status = ""
			return m, nil
		case "enter":
			return m.openLedger()
		case "p":
			return m.enterPayMode()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m CustomersModel) openLedger() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return m, nil
	}

	led, err := m.ledgerSvc.CustomerLedger(m.accounts[idx].Customer.ID)
	if err != nil {
		m.status = fmt.Sprintf("Error: %v", err)
		return m, nil
	}

	m.current = led
	m.state = customersStateLedger

	return m, nil
}

func (m CustomersModel) updateLedger(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = customersStateBrowse
			m.current = nil
			return m, nil
		case "p":
			return m.enterPayMode()
		}
	}

	return m, nil
}

func (m CustomersModel) enterPayMode() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return m, nil
	}

	m.formDate = FormatDate(time.Now())
	m.formAmount = ""
	m.formNotes = ""

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Value(&m.formDate).
				Validate(func(s string) error {
					if _, err := time.Parse("2006-01-02", s); err != nil {
						return fmt.Errorf("use YYYY-MM-DD")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount (paise)").
				Value(&m.formAmount).
				Validate(func(s string) error {
					v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
					if err != nil || v <= 0 {
						return fmt.Errorf("amount must be a positive number")
					}
					return nil
				}),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = customersStatePay
	m.table.Blur()

	return m, m.form.Init()
}

func (m CustomersModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = customersStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m.savePayment()
}

func (m CustomersModel) savePayment() (tea.Model, tea.Cmd) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.accounts) {
		return m, nil
	}

	customer := m.accounts[idx].Customer

	date, _ := time.Parse("2006-01-02", m.formDate)
	amount, _ := strconv.ParseInt(strings.TrimSpace(m.formAmount), 10, 64)

	if _, err := m.farmSvc.RecordPayment(customer.ID, date, amount, m.formNotes); err != nil {
		m.status = fmt.Sprintf("Error recording payment: %v", err)
	} else {
		m.status = fmt.Sprintf("Recorded %s from %s", FormatAmount(amount), customer.Name)
	}

	m.state = customersStateBrowse
	m.form = nil
	m.table.Focus()
	m.refresh()

	return m, nil
}

func (m *CustomersModel) refresh() {
	m.accounts = m.reports.CustomerAccounts()

	rows := make([]table.Row, 0, len(m.accounts))

	for _, a := range m.accounts {
		rows = append(rows, table.Row{
			a.Customer.Name,
			FormatAmount(a.TotalPurchased),
			FormatAmount(a.TotalPaid),
			FormatAmount(a.Balance),
			fmt.Sprintf("%d", a.EntryCount),
		})
	}

	m.table.SetRows(rows)
}

func (m CustomersModel) View() string {
	if m.state == customersStateLedger && m.current != nil {
		return lipgloss.NewStyle().Padding(1).Render(m.ledgerView())
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	help := "Esc: back | Enter: ledger | p: record payment | r: refresh"

	content := lipgloss.JoinVertical(lipgloss.Left,
		tableView,
		lipgloss.NewStyle().Faint(true).Render(help),
	)

	if m.state == customersStatePay && m.form != nil {
		idx := m.table.Cursor()
		name := ""
		if idx >= 0 && idx < len(m.accounts) {
			name = m.accounts[idx].Customer.Name
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(
				fmt.Sprintf("Record Payment\n\nCustomer: %s\n\n%s", name, m.form.View()),
			)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m CustomersModel) ledgerView() string {
	led := m.current

	var b strings.Builder

	fmt.Fprintf(&b, "Ledger: %s\n", led.Customer.Name)
	if led.Customer.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", led.Customer.Phone)
	}

	fmt.Fprintf(&b, "\nPurchased: %s | Paid: %s | Balance: %s\n\n",
		FormatAmount(led.TotalPurchased),
		FormatAmount(led.TotalPaid),
		FormatAmount(led.Balance),
	)

	for _, e := range led.Entries {
		if e.Kind == ledger.EntrySale {
			fmt.Fprintf(&b, "%s  SALE     %-10s %s  [%s]\n",
				FormatDate(e.Sale.Date),
				e.Sale.InvoiceNo,
				FormatAmount(e.Sale.TotalAmount),
				e.Allocation.Status,
			)

			continue
		}

		note := e.Payment.Notes
		if note != "" {
			note = "  " + note
		}

		fmt.Fprintf(&b, "%s  PAYMENT             %s%s\n",
			FormatDate(e.Payment.Date),
			FormatAmount(e.Payment.Amount),
			note,
		)
	}

	b.WriteString("\n(p: record payment, Esc to back)")

	return b.String()
}
