package expense

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/http/respond"
	"github.com/nooranifarms/coopledger/internal/ledger"
)

type Source interface {
	Snapshot() farm.Snapshot
}

type Handler struct {
	svc    *farm.Service
	ledger *ledger.Service
	src    Source
}

func NewHandler(svc *farm.Service, ledgerSvc *ledger.Service, src Source) *Handler {
	return &Handler{svc: svc, ledger: ledgerSvc, src: src}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/settlement", h.settlement)
	r.Post("/{id}/payments", h.addPayment)
	r.Delete("/payments/{id}", h.deletePayment)
}

type createExpenseRequest struct {
	BatchID    uuid.UUID `json:"batch_id"`
	Date       string    `json:"date"`
	Category   string    `json:"category"`
	Amount     int64     `json:"amount"`
	Notes      string    `json:"notes,omitempty"`
	PaidAmount int64     `json:"paid_amount,omitempty"`
}

type expenseResponse struct {
	ID       uuid.UUID `json:"id"`
	BatchID  uuid.UUID `json:"batch_id"`
	Date     string    `json:"date"`
	Category string    `json:"category"`
	Amount   int64     `json:"amount"`
	Notes    string    `json:"notes,omitempty"`
}

func toResponse(e farm.Expense) expenseResponse {
	return expenseResponse{
		ID:       e.ID,
		BatchID:  e.BatchID,
		Date:     e.Date.Format(time.DateOnly),
		Category: string(e.Category),
		Amount:   e.Amount,
		Notes:    e.Notes,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	expense, err := h.svc.CreateExpense(farm.ExpenseParams{
		BatchID:    req.BatchID,
		Date:       date,
		Category:   farm.ExpenseCategory(req.Category),
		Amount:     req.Amount,
		Notes:      req.Notes,
		PaidAmount: req.PaidAmount,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(*expense))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	state := h.src.Snapshot()

	var batchID *uuid.UUID

	if s := r.URL.Query().Get("batch_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid batch_id", http.StatusBadRequest)
			return
		}

		batchID = &id
	}

	var startDate, endDate *time.Time

	if s := r.URL.Query().Get("start_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			startDate = &t
		}
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		if t, err := time.Parse(time.DateOnly, s); err == nil {
			endDate = &t
		}
	}

	out := make([]expenseResponse, 0, len(state.Expenses))

	for _, e := range state.Expenses {
		if batchID != nil && e.BatchID != *batchID {
			continue
		}

		if startDate != nil && e.Date.Before(*startDate) {
			continue
		}

		if endDate != nil && e.Date.After(*endDate) {
			continue
		}

		out = append(out, toResponse(e))
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteExpense(id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type settlementResponse struct {
	Amount  int64  `json:"amount"`
	Settled int64  `json:"settled"`
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

func (h *Handler) settlement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	settlement, err := h.ledger.ExpenseSettlement(id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, settlementResponse{
		Amount:  settlement.Amount,
		Settled: settlement.Settled,
		Balance: settlement.Balance,
		Status:  string(settlement.Status),
	})
}

type addPaymentRequest struct {
	Date   string `json:"date"`
	Amount int64  `json:"amount"`
	Notes  string `json:"notes,omitempty"`
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req addPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	payment, err := h.svc.AddExpensePayment(id, date, req.Amount, req.Notes)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, payment)
}

func (h *Handler) deletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteExpensePayment(id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
