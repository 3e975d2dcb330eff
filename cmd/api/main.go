package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/nooranifarms/coopledger/internal/backup"
	"github.com/nooranifarms/coopledger/internal/config"
	"github.com/nooranifarms/coopledger/internal/database"
	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/farm/store"
	coopHttp "github.com/nooranifarms/coopledger/internal/http"
	backupHandler "github.com/nooranifarms/coopledger/internal/http/backup"
	batchHandler "github.com/nooranifarms/coopledger/internal/http/batch"
	expenseHandler "github.com/nooranifarms/coopledger/internal/http/expense"
	ledgerHandler "github.com/nooranifarms/coopledger/internal/http/ledger"
	mortalityHandler "github.com/nooranifarms/coopledger/internal/http/mortality"
	reportHandler "github.com/nooranifarms/coopledger/internal/http/report"
	saleHandler "github.com/nooranifarms/coopledger/internal/http/sale"
	"github.com/nooranifarms/coopledger/internal/ledger"
	"github.com/nooranifarms/coopledger/internal/persist"
	"github.com/nooranifarms/coopledger/internal/report"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	records := store.New()

	// The database is a crash-recovery mirror, not the source of truth. If it
	// is unreachable the farm still runs, entirely in memory.
	db, err := database.Open(cfg.ConnectionString())
	if err != nil {
		slog.Warn("database unavailable, running in memory only", "error", err)
	} else {
		defer db.Close()

		persistStore := persist.New(db)

		ctx := context.Background()
		if err := persistStore.EnsureSchema(ctx); err != nil {
			slog.Warn("failed to prepare database", "error", err)
		}

		snap, err := persistStore.LoadSnapshot(ctx)
		switch {
		case err == nil:
			records.Replace(snap)
			slog.Info("restored saved state",
				"batches", len(snap.Batches), "sales", len(snap.Sales))
		case errors.Is(err, persist.ErrNoSnapshot):
			slog.Info("no saved state, starting empty")
		default:
			slog.Warn("failed to load saved state, starting empty", "error", err)
		}

		worker := persist.NewWorker(persistStore, cfg.Persist.Timeout)
		detach := worker.Attach(records)
		defer func() {
			detach()
			worker.Wait()
		}()
	}

	var (
		farmService    = farm.NewService(records)
		ledgerService  = ledger.NewService(records)
		reportService  = report.NewService(records)
		backupService  = backup.NewService(records)
		backupSchedule = backup.NewScheduler(backupService, cfg.Backup.Dir)
	)

	if err := backupSchedule.Start(cfg.Backup.Schedule); err != nil {
		slog.Error("failed to start backup scheduler", "error", err)
		os.Exit(1)
	}
	defer backupSchedule.Stop()

	var (
		batchH     = batchHandler.NewHandler(farmService, records)
		expenseH   = expenseHandler.NewHandler(farmService, ledgerService, records)
		saleH      = saleHandler.NewHandler(farmService, ledgerService, records)
		ledgerH    = ledgerHandler.NewHandler(farmService, ledgerService, reportService)
		mortalityH = mortalityHandler.NewHandler(farmService, records)
		reportH    = reportHandler.NewHandler(reportService)
		backupH    = backupHandler.NewHandler(backupService)
	)

	router := coopHttp.New(batchH, expenseH, saleH, ledgerH, mortalityH, reportH, backupH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "app", cfg.App.Name, "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
