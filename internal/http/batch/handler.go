package batch

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/http/respond"
)

type Source interface {
	Snapshot() farm.Snapshot
}

type Handler struct {
	svc *farm.Service
	src Source
}

func NewHandler(svc *farm.Service, src Source) *Handler {
	return &Handler{svc: svc, src: src}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Patch("/{id}/close", h.close)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/initial-expense", h.initialExpense)
}

type createBatchRequest struct {
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	ExpectedEndDate string `json:"expected_end_date"`
	NumChicks       int    `json:"num_chicks"`
	ChickRate       int64  `json:"chick_rate"`
	Supplier        string `json:"supplier,omitempty"`
	Remarks         string `json:"remarks,omitempty"`
}

type batchResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	StartDate       string    `json:"start_date"`
	ExpectedEndDate string    `json:"expected_end_date"`
	NumChicks       int       `json:"num_chicks"`
	ChickRate       int64     `json:"chick_rate"`
	TotalChickCost  int64     `json:"total_chick_cost"`
	Supplier        string    `json:"supplier,omitempty"`
	Remarks         string    `json:"remarks,omitempty"`
	IsActive        bool      `json:"is_active"`
}

func toResponse(b farm.Batch) batchResponse {
	return batchResponse{
		ID:              b.ID,
		Name:            b.Name,
		StartDate:       b.StartDate.Format(time.DateOnly),
		ExpectedEndDate: b.ExpectedEndDate.Format(time.DateOnly),
		NumChicks:       b.NumChicks,
		ChickRate:       b.ChickRate,
		TotalChickCost:  b.TotalChickCost,
		Supplier:        b.Supplier,
		Remarks:         b.Remarks,
		IsActive:        b.IsActive,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		http.Error(w, "invalid start_date", http.StatusBadRequest)
		return
	}

	end, err := time.Parse(time.DateOnly, req.ExpectedEndDate)
	if err != nil {
		http.Error(w, "invalid expected_end_date", http.StatusBadRequest)
		return
	}

	batch, err := h.svc.CreateBatch(farm.BatchParams{
		Name:            req.Name,
		StartDate:       start,
		ExpectedEndDate: end,
		NumChicks:       req.NumChicks,
		ChickRate:       req.ChickRate,
		Supplier:        req.Supplier,
		Remarks:         req.Remarks,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(*batch))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	state := h.src.Snapshot()

	out := make([]batchResponse, 0, len(state.Batches))
	for _, b := range state.Batches {
		out = append(out, toResponse(b))
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.CloseBatch(id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteBatch(id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type initialExpenseRequest struct {
	Amount int64  `json:"amount"`
	Date   string `json:"date"`
}

func (h *Handler) initialExpense(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req initialExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	expense, err := h.svc.AddInitialChickExpense(id, req.Amount, date)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, expense)
}
