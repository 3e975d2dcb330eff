package sale

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
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/status", h.status)
	r.Get("/{id}/invoice", h.invoice)
}

type saleRequest struct {
	BatchID       uuid.UUID `json:"batch_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Date          string    `json:"date"`
	BirdsSold     int       `json:"birds_sold"`
	TotalWeightKg float64   `json:"total_weight_kg"`
	RatePerKg     int64     `json:"rate_per_kg"`
	PaidAmount    int64     `json:"paid_amount,omitempty"`
}

func (r saleRequest) params() (farm.SaleParams, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return farm.SaleParams{}, err
	}

	return farm.SaleParams{
		BatchID:       r.BatchID,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Date:          date,
		BirdsSold:     r.BirdsSold,
		TotalWeightKg: r.TotalWeightKg,
		RatePerKg:     r.RatePerKg,
		PaidAmount:    r.PaidAmount,
	}, nil
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	sale, err := h.svc.CreateSale(params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(*sale, nil))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	state := h.src.Snapshot()

	var batchID, customerID *uuid.UUID

	if s := r.URL.Query().Get("batch_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid batch_id", http.StatusBadRequest)
			return
		}

		batchID = &id
	}

	if s := r.URL.Query().Get("customer_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid customer_id", http.StatusBadRequest)
			return
		}

		customerID = &id
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

	out := make([]saleResponse, 0, len(state.Sales))

	for _, sale := range state.Sales {
		if batchID != nil && sale.BatchID != *batchID {
			continue
		}

		if customerID != nil && sale.CustomerID != *customerID {
			continue
		}

		if startDate != nil && sale.Date.Before(*startDate) {
			continue
		}

		if endDate != nil && sale.Date.After(*endDate) {
			continue
		}

		// Live status per invoice; the sale record itself stores none.
		res, err := h.ledger.SaleStatus(sale.ID)
		if err != nil {
			respond.Error(w, err)
			return
		}

		out = append(out, toResponse(sale, &res))
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params, err := req.params()
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	sale, err := h.svc.UpdateSale(id, params)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(*sale, nil))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteSale(id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	res, err := h.ledger.SaleStatus(id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, statusResponse{
		Settled: res.Settled,
		Balance: res.Balance,
		Status:  string(res.Status),
	})
}

func (h *Handler) invoice(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	text, err := h.ledger.InvoiceText(id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.Text(w, http.StatusOK, text)
}
