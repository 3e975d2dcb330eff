package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/nooranifarms/coopledger/cmd/tui/internal/view"
	"github.com/nooranifarms/coopledger/internal/backup"
	"github.com/nooranifarms/coopledger/internal/config"
	"github.com/nooranifarms/coopledger/internal/database"
	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/farm/store"
	"github.com/nooranifarms/coopledger/internal/ledger"
	"github.com/nooranifarms/coopledger/internal/persist"
	"github.com/nooranifarms/coopledger/internal/report"
)

type model struct {
	farmService   *farm.Service
	ledgerService *ledger.Service
	reportService *report.Service
	backupService *backup.Service

	currentView View

	summaryView   view.SummaryModel
	batchesView   view.BatchesModel
	customersView view.CustomersModel
	backupView    view.BackupModel
}

type View int

const (
	ViewMenu      View = 0
	ViewSummary   View = 1
	ViewBatches   View = 2
	ViewCustomers View = 3
	ViewBackup    View = 4
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	records := store.New()

	db, err := database.Open(cfg.ConnectionString())
	if err != nil {
		slog.Warn("database unavailable, running in memory only", "error", err)
	} else {
		persistStore := persist.New(db)

		ctx := context.Background()
		if err := persistStore.EnsureSchema(ctx); err != nil {
			slog.Warn("failed to prepare database", "error", err)
		}

		snap, err := persistStore.LoadSnapshot(ctx)
		switch {
		case err == nil:
			records.Replace(snap)
		case !errors.Is(err, persist.ErrNoSnapshot):
			slog.Warn("failed to load saved state, starting empty", "error", err)
		}

		worker := persist.NewWorker(persistStore, cfg.Persist.Timeout)
		worker.Attach(records)
	}

	farmSvc := farm.NewService(records)
	ledgerSvc := ledger.NewService(records)
	reportSvc := report.NewService(records)
	backupSvc := backup.NewService(records)

	return model{
		farmService:   farmSvc,
		ledgerService: ledgerSvc,
		reportService: reportSvc,
		backupService: backupSvc,
		currentView:   ViewMenu,
		summaryView:   view.NewSummaryModel(reportSvc),
		batchesView:   view.NewBatchesModel(farmSvc, reportSvc),
		customersView: view.NewCustomersModel(farmSvc, ledgerSvc, reportSvc),
		backupView:    view.NewBackupModel(backupSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewSummary
				m.summaryView = view.NewSummaryModel(m.reportService)

				return m, m.summaryView.Init()
			case "2":
				m.currentView = ViewBatches
				m.batchesView = view.NewBatchesModel(m.farmService, m.reportService)

				return m, m.batchesView.Init()
			case "3":
				m.currentView = ViewCustomers
				m.customersView = view.NewCustomersModel(m.farmService, m.ledgerService, m.reportService)

				return m, m.customersView.Init()
			case "4":
				m.currentView = ViewBackup
				m.backupView = view.NewBackupModel(m.backupService)

				return m, m.backupView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewSummary:
		var newModel tea.Model
		newModel, cmd = m.summaryView.Update(msg)
		m.summaryView = newModel.(view.SummaryModel)
	case ViewBatches:
		var newModel tea.Model
		newModel, cmd = m.batchesView.Update(msg)
		m.batchesView = newModel.(view.BatchesModel)
	case ViewCustomers:
		var newModel tea.Model
		newModel, cmd = m.customersView.Update(msg)
		m.customersView = newModel.(view.CustomersModel)
	case ViewBackup:
		var newModel tea.Model
		newModel, cmd = m.backupView.Update(msg)
		m.backupView = newModel.(view.BackupModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"CoopLedger TUI\n\n" +
				"1. Farm Summary\n" +
				"2. Batch Performance\n" +
				"3. Customer Ledger\n" +
				"4. Backup / Restore\n\n" +
				"q. Quit",
		)
	case ViewSummary:
		return m.summaryView.View()
	case ViewBatches:
		return m.batchesView.View()
	case ViewCustomers:
		return m.customersView.View()
	case ViewBackup:
		return m.backupView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
