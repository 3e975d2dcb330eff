// Package respond centralizes response writing and the error-to-status
// mapping shared by every handler package.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nooranifarms/coopledger/internal/farm"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func Text(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)

	if _, err := w.Write([]byte(body)); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error maps domain errors onto status codes: validation failures are the
// caller's fault, missing records are 404, everything else is a 500.
func Error(w http.ResponseWriter, err error) {
	var verr *farm.ValidationError
	if errors.As(err, &verr) {
		http.Error(w, verr.Error(), http.StatusBadRequest)
		return
	}

	if errors.Is(err, farm.ErrNotFound) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}

	http.Error(w, "internal error", http.StatusInternalServerError)
}
