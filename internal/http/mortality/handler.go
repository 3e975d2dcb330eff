package mortality

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
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	BatchID uuid.UUID `json:"batch_id"`
	Date    string    `json:"date"`
	Count   int       `json:"count"`
	Reason  string    `json:"reason,omitempty"`
}

type mortalityResponse struct {
	ID      uuid.UUID `json:"id"`
	BatchID uuid.UUID `json:"batch_id"`
	Date    string    `json:"date"`
	Count   int       `json:"count"`
	Reason  string    `json:"reason,omitempty"`
}

func toResponse(m farm.Mortality) mortalityResponse {
	return mortalityResponse{
		ID:      m.ID,
		BatchID: m.BatchID,
		Date:    m.Date.Format(time.DateOnly),
		Count:   m.Count,
		Reason:  m.Reason,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	record, err := h.svc.RecordMortality(req.BatchID, date, req.Count, req.Reason)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(*record))
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

	out := make([]mortalityResponse, 0, len(state.Mortality))

	for _, m := range state.Mortality {
		if batchID != nil && m.BatchID != *batchID {
			continue
		}

		out = append(out, toResponse(m))
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteMortality(id); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
