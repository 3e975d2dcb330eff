// Package report is the aggregation engine: pure folds over the raw records
// producing farm-wide and per-batch financial summaries. Every call
// recomputes from the current snapshot; nothing is cached.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/nooranifarms/coopledger/internal/farm"
)

//go:generate mockgen -source=service.go -destination=source_mock.go -package=report
type Source interface {
	Snapshot() farm.Snapshot
}

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

// DateRange restricts a summary to records dated within the bounds,
// inclusive on both sides. A nil bound is unbounded on that side.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

func (r DateRange) contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}

	if r.End != nil && t.After(*r.End) {
		return false
	}

	return true
}

// FarmSummary is the dashboard headline view across every batch.
type FarmSummary struct {
	TotalSales     int64
	TotalExpenses  int64
	NetProfit      int64
	TotalChicks    int
	TotalMortality int
	ProfitPerChick float64 // paise per bird, 0 when there are no chicks
	MortalityRate  float64 // percent, 0 when there are no chicks
}

func (s *Service) FarmSummary(within DateRange) FarmSummary {
	state := s.src.Snapshot()

	var out FarmSummary

	for _, e := range state.Expenses {
		if within.contains(e.Date) {
			out.TotalExpenses += e.Amount
		}
	}

	for _, sale := range state.Sales {
		if within.contains(sale.Date) {
			out.TotalSales += sale.TotalAmount
		}
	}

	for _, m := range state.Mortality {
		if within.contains(m.Date) {
			out.TotalMortality += m.Count
		}
	}

	for _, b := range state.Batches {
		out.TotalChicks += b.NumChicks
	}

	out.NetProfit = out.TotalSales - out.TotalExpenses

	if out.TotalChicks > 0 {
		out.ProfitPerChick = float64(out.NetProfit) / float64(out.TotalChicks)
		out.MortalityRate = float64(out.TotalMortality) / float64(out.TotalChicks) * 100
	}

	return out
}

// BatchSummary is the per-batch performance card.
type BatchSummary struct {
	Batch         farm.Batch
	Revenue       int64
	Expenses      int64
	Profit        int64
	TotalWeightKg float64
	TotalDeaths   int
	ROI           float64 // percent, 0 when the batch has no expenses
	AvgRatePerKg  float64 // paise per kg actually realized, 0 when no weight sold
	ProfitPerBird float64 // paise per bird
	MortalityRate float64 // percent
}

func (s *Service) BatchSummary(batchID uuid.UUID) (BatchSummary, error) {
	state := s.src.Snapshot()

	batch, ok := state.Batch(batchID)
	if !ok {
		return BatchSummary{}, farm.ErrNotFound
	}

	return summarize(state, batch), nil
}

// BatchSummaries covers every batch, active ones first, preserving store
// order within each group.
func (s *Service) BatchSummaries() []BatchSummary {
	state := s.src.Snapshot()

	out := make([]BatchSummary, 0, len(state.Batches))
	for _, b := range state.Batches {
		out = append(out, summarize(state, b))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Batch.IsActive && !out[j].Batch.IsActive
	})

	return out
}

func summarize(state farm.Snapshot, batch farm.Batch) BatchSummary {
	out := BatchSummary{Batch: batch}

	for _, e := range state.Expenses {
		if e.BatchID == batch.ID {
			out.Expenses += e.Amount
		}
	}

	for _, sale := range state.Sales {
		if sale.BatchID == batch.ID {
			out.Revenue += sale.TotalAmount
			out.TotalWeightKg += sale.TotalWeightKg
		}
	}

	for _, m := range state.Mortality {
		if m.BatchID == batch.ID {
			out.TotalDeaths += m.Count
		}
	}

	out.Profit = out.Revenue - out.Expenses

	if out.Expenses > 0 {
		out.ROI = float64(out.Profit) / float64(out.Expenses) * 100
	}

	if out.TotalWeightKg > 0 {
		out.AvgRatePerKg = float64(out.Revenue) / out.TotalWeightKg
	}

	if batch.NumChicks > 0 {
		out.ProfitPerBird = float64(out.Profit) / float64(batch.NumChicks)
		out.MortalityRate = float64(out.TotalDeaths) / float64(batch.NumChicks) * 100
	}

	return out
}

// Account is the customer-level aggregate used for the ledger list. This is
// deliberately coarser than per-invoice allocation: a plain
// purchased-minus-paid balance, floored at zero.
type Account struct {
	Customer       farm.Customer
	TotalPurchased int64
	TotalPaid      int64
	Balance        int64
	EntryCount     int
}

// CustomerAccounts lists every customer sorted by descending balance, so the
// biggest debtors render first.
func (s *Service) CustomerAccounts() []Account {
	state := s.src.Snapshot()

	out := make([]Account, 0, len(state.Customers))

	for _, c := range state.Customers {
		acct := Account{Customer: c}

		for _, sale := range state.Sales {
			if sale.CustomerID == c.ID {
				acct.TotalPurchased += sale.TotalAmount
				acct.EntryCount++
			}
		}

		for _, p := range state.Payments {
			if p.CustomerID == c.ID {
				acct.TotalPaid += p.Amount
				acct.EntryCount++
			}
		}

		acct.Balance = max(0, acct.TotalPurchased-acct.TotalPaid)
		out = append(out, acct)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}

		return out[i].Customer.Name < out[j].Customer.Name
	})

	return out
}
