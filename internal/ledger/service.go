// Package ledger exposes the per-customer and per-invoice views the
// presentation layer renders: the merged activity log, live sale statuses,
// and expense settlement. Statuses always come from the allocation engine,
// never from anything stored on the sale.
package ledger

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nooranifarms/coopledger/internal/allocation"
	"github.com/nooranifarms/coopledger/internal/farm"
)

//go:generate mockgen -source=service.go -destination=source_mock.go -package=ledger
type Source interface {
	Snapshot() farm.Snapshot
}

type Service struct {
	src Source
}

func NewService(src Source) *Service {
	return &Service{src: src}
}

type EntryKind string

const (
	EntrySale    EntryKind = "SALE"
	EntryPayment EntryKind = "PAYMENT"
)

// Entry is one line of a customer's activity log: a sale (debit) or a
// payment (credit). Sale entries carry their allocation result.
type Entry struct {
	Kind       EntryKind
	Sale       *farm.Sale
	Allocation *allocation.Result
	Payment    *farm.PaymentRecord
}

func (e Entry) ID() uuid.UUID {
	if e.Kind == EntrySale {
		return e.Sale.ID
	}

	return e.Payment.ID
}

// Ledger is a customer's full account statement.
type Ledger struct {
	Customer       farm.Customer
	TotalPurchased int64
	TotalPaid      int64
	Balance        int64 // customer-level balance, floored at zero
	Entries        []Entry
}

// CustomerLedger builds the account statement for one customer. Entries are
// sorted newest first; same-day entries are ordered by descending id so the
// log renders identically on every read.
func (s *Service) CustomerLedger(customerID uuid.UUID) (*Ledger, error) {
	state := s.src.Snapshot()

	customer, ok := state.Customer(customerID)
	if !ok {
		return nil, farm.ErrNotFound
	}

	results := allocateCustomer(state, customerID)

	led := &Ledger{Customer: customer}

	for i := range state.Sales {
		sale := state.Sales[i]
		if sale.CustomerID != customerID {
			continue
		}

		led.TotalPurchased += sale.TotalAmount

		res := results[sale.ID]
		led.Entries = append(led.Entries, Entry{Kind: EntrySale, Sale: &sale, Allocation: &res})
	}

	for i := range state.Payments {
		payment := state.Payments[i]
		if payment.CustomerID != customerID {
			continue
		}

		led.TotalPaid += payment.Amount
		led.Entries = append(led.Entries, Entry{Kind: EntryPayment, Payment: &payment})
	}

	led.Balance = max(0, led.TotalPurchased-led.TotalPaid)

	sort.SliceStable(led.Entries, func(i, j int) bool {
		a, b := led.Entries[i], led.Entries[j]

		ad := entryDate(a)
		bd := entryDate(b)

		if !ad.Equal(bd) {
			return ad.After(bd)
		}

		return a.ID().String() > b.ID().String()
	})

	return led, nil
}

// SaleStatus returns the live balance and status of one invoice, computed by
// allocating the owning customer's whole payment pool oldest-invoice-first.
func (s *Service) SaleStatus(saleID uuid.UUID) (allocation.Result, error) {
	state := s.src.Snapshot()

	sale, ok := state.Sale(saleID)
	if !ok {
		return allocation.Result{}, farm.ErrNotFound
	}

	return allocateCustomer(state, sale.CustomerID)[saleID], nil
}

// Settlement is the paid/outstanding view of a single expense bill.
type Settlement struct {
	Amount  int64
	Settled int64
	Balance int64
	Status  allocation.Status
}

// ExpenseSettlement applies an expense's payments to its bill. Overpayment
// floors the balance at zero; the excess is not carried anywhere.
func (s *Service) ExpenseSettlement(expenseID uuid.UUID) (Settlement, error) {
	state := s.src.Snapshot()

	expense, ok := state.Expense(expenseID)
	if !ok {
		return Settlement{}, farm.ErrNotFound
	}

	var amounts []int64
	for _, p := range state.ExpensePayments {
		if p.ExpenseID == expenseID {
			amounts = append(amounts, p.Amount)
		}
	}

	res := allocation.SettleOne(expense.Amount, amounts)

	return Settlement{
		Amount:  expense.Amount,
		Settled: res.Settled,
		Balance: res.Balance,
		Status:  res.Status,
	}, nil
}

func allocateCustomer(state farm.Snapshot, customerID uuid.UUID) map[uuid.UUID]allocation.Result {
	var obligations []allocation.Obligation

	for _, sale := range state.Sales {
		if sale.CustomerID == customerID {
			obligations = append(obligations, allocation.Obligation{
				ID:     sale.ID,
				Date:   sale.Date,
				Amount: sale.TotalAmount,
			})
		}
	}

	var pool []int64

	for _, p := range state.Payments {
		if p.CustomerID == customerID {
			pool = append(pool, p.Amount)
		}
	}

	return allocation.Allocate(obligations, pool)
}

// invoicePayments finds the payments shown on one invoice. The sale link on a
// payment is best-effort, so a note mentioning the sale id also counts.
func invoicePayments(state farm.Snapshot, sale farm.Sale) []farm.PaymentRecord {
	var matched []farm.PaymentRecord

	for _, p := range state.Payments {
		linked := p.SaleID != nil && *p.SaleID == sale.ID
		mentioned := p.CustomerID == sale.CustomerID && strings.Contains(p.Notes, sale.ID.String())

		if linked || mentioned {
			matched = append(matched, p)
		}
	}

	return matched
}

func entryDate(e Entry) time.Time {
	if e.Kind == EntrySale {
		return e.Sale.Date
	}

	return e.Payment.Date
}
