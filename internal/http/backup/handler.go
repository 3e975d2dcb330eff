package backup

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nooranifarms/coopledger/internal/backup"
	"github.com/nooranifarms/coopledger/internal/http/respond"
)

type Handler struct {
	svc *backup.Service
}

func NewHandler(svc *backup.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/export/json", h.exportJSON)
	r.Get("/export/csv", h.exportCSV)
	r.Post("/import/json", h.importJSON)
	r.Post("/import/csv", h.importCSV)
}

func (h *Handler) exportJSON(w http.ResponseWriter, r *http.Request) {
	name := fmt.Sprintf("coopledger-backup-%s.json", time.Now().Format(time.DateOnly))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	if err := h.svc.ExportJSON(w); err != nil {
		respond.Error(w, err)
	}
}

func (h *Handler) exportCSV(w http.ResponseWriter, r *http.Request) {
	name := fmt.Sprintf("coopledger-backup-%s.csv", time.Now().Format(time.DateOnly))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)

	if err := h.svc.ExportCSV(w); err != nil {
		respond.Error(w, err)
	}
}

func (h *Handler) importJSON(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := h.svc.ImportJSON(file); err != nil {
		if errors.Is(err, backup.ErrInvalidBackup) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if err := h.svc.ImportCSV(file); err != nil {
		if errors.Is(err, backup.ErrInvalidBackup) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
