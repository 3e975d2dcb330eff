package sale

import (
	"time"

	"github.com/google/uuid"

	"github.com/nooranifarms/coopledger/internal/allocation"
	"github.com/nooranifarms/coopledger/internal/farm"
)

type saleResponse struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNo     string    `json:"invoice_no"`
	BatchID       uuid.UUID `json:"batch_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Date          string    `json:"date"`
	BirdsSold     int       `json:"birds_sold"`
	TotalWeightKg float64   `json:"total_weight_kg"`
	RatePerKg     int64     `json:"rate_per_kg"`
	TotalAmount   int64     `json:"total_amount"`
	PaidAmount    int64     `json:"paid_amount"`
	Balance       *int64    `json:"balance,omitempty"`
	Status        string    `json:"status,omitempty"`
}

type statusResponse struct {
	Settled int64  `json:"settled"`
	Balance int64  `json:"balance"`
	Status  string `json:"status"`
}

func toResponse(s farm.Sale, res *allocation.Result) saleResponse {
	out := saleResponse{
		ID:            s.ID,
		InvoiceNo:     s.InvoiceNo,
		BatchID:       s.BatchID,
		CustomerID:    s.CustomerID,
		CustomerName:  s.CustomerName,
		Date:          s.Date.Format(time.DateOnly),
		BirdsSold:     s.BirdsSold,
		TotalWeightKg: s.TotalWeightKg,
		RatePerKg:     s.RatePerKg,
		TotalAmount:   s.TotalAmount,
		PaidAmount:    s.PaidAmount,
	}

	if res != nil {
		balance := res.Balance
		out.Balance = &balance
		out.Status = string(res.Status)
	}

	return out
}
