package ledger

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/http/respond"
	"github.com/nooranifarms/coopledger/internal/ledger"
	"github.com/nooranifarms/coopledger/internal/report"
)

type Handler struct {
	svc     *farm.Service
	ledger  *ledger.Service
	reports *report.Service
}

func NewHandler(svc *farm.Service, ledgerSvc *ledger.Service, reports *report.Service) *Handler {
	return &Handler{svc: svc, ledger: ledgerSvc, reports: reports}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/customers", h.listCustomers)
	r.Get("/customers/{id}", h.customerLedger)
	r.Post("/payments", h.recordPayment)
	r.Delete("/payments/{id}", h.deletePayment)
}

type accountResponse struct {
	CustomerID     uuid.UUID `json:"customer_id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone,omitempty"`
	TotalPurchased int64     `json:"total_purchased"`
	TotalPaid      int64     `json:"total_paid"`
	Balance        int64     `json:"balance"`
	EntryCount     int       `json:"entry_count"`
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	accounts := h.reports.CustomerAccounts()

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			CustomerID:     a.Customer.ID,
			Name:           a.Customer.Name,
			Phone:          a.Customer.Phone,
			TotalPurchased: a.TotalPurchased,
			TotalPaid:      a.TotalPaid,
			Balance:        a.Balance,
			EntryCount:     a.EntryCount,
		})
	}

	respond.JSON(w, http.StatusOK, out)
}

type entryResponse struct {
	Kind      string    `json:"kind"`
	ID        uuid.UUID `json:"id"`
	Date      string    `json:"date"`
	Amount    int64     `json:"amount"`
	InvoiceNo string    `json:"invoice_no,omitempty"`
	Settled   *int64    `json:"settled,omitempty"`
	Balance   *int64    `json:"balance,omitempty"`
	Status    string    `json:"status,omitempty"`
	Notes     string    `json:"notes,omitempty"`
}

type ledgerResponse struct {
	CustomerID     uuid.UUID       `json:"customer_id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone,omitempty"`
	TotalPurchased int64           `json:"total_purchased"`
	TotalPaid      int64           `json:"total_paid"`
	Balance        int64           `json:"balance"`
	Entries        []entryResponse `json:"entries"`
}

func (h *Handler) customerLedger(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	led, err := h.ledger.CustomerLedger(id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	out := ledgerResponse{
		CustomerID:     led.Customer.ID,
		Name:           led.Customer.Name,
		Phone:          led.Customer.Phone,
		TotalPurchased: led.TotalPurchased,
		TotalPaid:      led.TotalPaid,
		Balance:        led.Balance,
		Entries:        make([]entryResponse, 0, len(led.Entries)),
	}

	for _, e := range led.Entries {
		out.Entries = append(out.Entries, toEntryResponse(e))
	}

	respond.JSON(w, http.StatusOK, out)
}

func toEntryResponse(e ledger.Entry) entryResponse {
	if e.Kind == ledger.EntrySale {
		settled := e.Allocation.Settled
		balance := e.Allocation.Balance

		return entryResponse{
			Kind:      string(e.Kind),
			ID:        e.Sale.ID,
			Date:      e.Sale.Date.Format(time.DateOnly),
			Amount:    e.Sale.TotalAmount,
			InvoiceNo: e.Sale.InvoiceNo,
			Settled:   &settled,
			Balance:   &balance,
			Status:    string(e.Allocation.Status),
		}
	}

	return entryResponse{
		Kind:   string(e.Kind),
		ID:     e.Payment.ID,
		Date:   e.Payment.Date.Format(time.DateOnly),
		Amount: e.Payment.Amount,
		Notes:  e.Payment.Notes,
	}
}

type recordPaymentRequest struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Date       string    `json:"date"`
	Amount     int64     `json:"amount"`
	Notes      string    `json:"notes,omitempty"`
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	payment, err := h.svc.RecordPayment(req.CustomerID, date, req.Amount, req.Notes)
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

	if err := h.svc.DeletePayment(id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
