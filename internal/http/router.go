package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	backupHandler "github.com/nooranifarms/coopledger/internal/http/backup"
	batchHandler "github.com/nooranifarms/coopledger/internal/http/batch"
	expenseHandler "github.com/nooranifarms/coopledger/internal/http/expense"
	ledgerHandler "github.com/nooranifarms/coopledger/internal/http/ledger"
	mortalityHandler "github.com/nooranifarms/coopledger/internal/http/mortality"
	reportHandler "github.com/nooranifarms/coopledger/internal/http/report"
	saleHandler "github.com/nooranifarms/coopledger/internal/http/sale"
)

func New(
	batchesV1 *batchHandler.Handler,
	expensesV1 *expenseHandler.Handler,
	salesV1 *saleHandler.Handler,
	ledgerV1 *ledgerHandler.Handler,
	mortalityV1 *mortalityHandler.Handler,
	reportsV1 *reportHandler.Handler,
	backupV1 *backupHandler.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/batches", batchesV1.Routes)
		r.Route("/expenses", expensesV1.Routes)
		r.Route("/sales", salesV1.Routes)
		r.Route("/ledger", ledgerV1.Routes)
		r.Route("/mortality", mortalityV1.Routes)
		r.Route("/reports", reportsV1.Routes)
		r.Route("/backup", backupV1.Routes)
	})

	return router
}
