package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nooranifarms/coopledger/internal/http/respond"
	"github.com/nooranifarms/coopledger/internal/report"
)

type Handler struct {
	reports *report.Service
}

func NewHandler(reports *report.Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/farm", h.farmSummary)
	r.Get("/batches", h.batchSummaries)
	r.Get("/batches/{id}", h.batchSummary)
}

type farmSummaryResponse struct {
	TotalSales     int64   `json:"total_sales"`
	TotalExpenses  int64   `json:"total_expenses"`
	NetProfit      int64   `json:"net_profit"`
	TotalChicks    int     `json:"total_chicks"`
	TotalMortality int     `json:"total_mortality"`
	ProfitPerChick float64 `json:"profit_per_chick"`
	MortalityRate  float64 `json:"mortality_rate"`
}

func (h *Handler) farmSummary(w http.ResponseWriter, r *http.Request) {
	var within report.DateRange

	if s := r.URL.Query().Get("start_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid start_date", http.StatusBadRequest)
			return
		}

		within.Start = &t
	}

	if s := r.URL.Query().Get("end_date"); s != "" {
		t, err := time.Parse(time.DateOnly, s)
		if err != nil {
			http.Error(w, "invalid end_date", http.StatusBadRequest)
			return
		}

		within.End = &t
	}

	summary := h.reports.FarmSummary(within)

	respond.JSON(w, http.StatusOK, farmSummaryResponse{
		TotalSales:     summary.TotalSales,
		TotalExpenses:  summary.TotalExpenses,
		NetProfit:      summary.NetProfit,
		TotalChicks:    summary.TotalChicks,
		TotalMortality: summary.TotalMortality,
		ProfitPerChick: summary.ProfitPerChick,
		MortalityRate:  summary.MortalityRate,
	})
}

type batchSummaryResponse struct {
	BatchID       uuid.UUID `json:"batch_id"`
	Name          string    `json:"name"`
	IsActive      bool      `json:"is_active"`
	Revenue       int64     `json:"revenue"`
	Expenses      int64     `json:"expenses"`
	Profit        int64     `json:"profit"`
	TotalWeightKg float64   `json:"total_weight_kg"`
	TotalDeaths   int       `json:"total_deaths"`
	ROI           float64   `json:"roi"`
	AvgRatePerKg  float64   `json:"avg_rate_per_kg"`
	ProfitPerBird float64   `json:"profit_per_bird"`
	MortalityRate float64   `json:"mortality_rate"`
}

func toBatchResponse(s report.BatchSummary) batchSummaryResponse {
	return batchSummaryResponse{
		BatchID:       s.Batch.ID,
		Name:          s.Batch.Name,
		IsActive:      s.Batch.IsActive,
		Revenue:       s.Revenue,
		Expenses:      s.Expenses,
		Profit:        s.Profit,
		TotalWeightKg: s.TotalWeightKg,
		TotalDeaths:   s.TotalDeaths,
		ROI:           s.ROI,
		AvgRatePerKg:  s.AvgRatePerKg,
		ProfitPerBird: s.ProfitPerBird,
		MortalityRate: s.MortalityRate,
	}
}

func (h *Handler) batchSummaries(w http.ResponseWriter, r *http.Request) {
	summaries := h.reports.BatchSummaries()

	out := make([]batchSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toBatchResponse(s))
	}

	respond.JSON(w, http.StatusOK, out)
}

func (h *Handler) batchSummary(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	summary, err := h.reports.BatchSummary(id)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toBatchResponse(summary))
}
