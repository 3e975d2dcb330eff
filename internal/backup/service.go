// Package backup round-trips the whole record store through JSON and CSV
// files. Imports are atomic: the payload is parsed and validated in full
// before anything is applied, and a bad payload leaves the store untouched.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nooranifarms/coopledger/internal/farm"
)

// ErrInvalidBackup rejects payloads that do not look like a backup at all.
var ErrInvalidBackup = errors.New("invalid backup data")

//go:generate mockgen -source=service.go -destination=store_mock.go -package=backup
type Store interface {
	Snapshot() farm.Snapshot
	Mutate(fn func(*farm.Snapshot))
	Replace(next farm.Snapshot)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// ExportJSON writes the full snapshot, every entity kind included.
func (s *Service) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(s.store.Snapshot()); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// jsonBackup mirrors farm.Snapshot but keeps Batches as a pointer so a
// payload missing the key entirely can be told apart from an empty farm.
type jsonBackup struct {
	Batches         *[]farm.Batch         `json:"batches"`
	Expenses        []farm.Expense        `json:"expenses"`
	ExpensePayments []farm.ExpensePayment `json:"expensePayments"`
	Sales           []farm.Sale           `json:"sales"`
	Mortality       []farm.Mortality      `json:"mortality"`
	Customers       []farm.Customer       `json:"customers"`
	Payments        []farm.PaymentRecord  `json:"payments"`
}

// ImportJSON replaces the store state with the decoded payload. The whole
// import is rejected if the payload is not a backup shape; it is never
// partially applied.
func (s *Service) ImportJSON(r io.Reader) error {
	var in jsonBackup
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if in.Batches == nil {
		return fmt.Errorf("%w: missing batches", ErrInvalidBackup)
	}

	s.store.Replace(farm.Snapshot{
		Batches:         *in.Batches,
		Expenses:        in.Expenses,
		ExpensePayments: in.ExpensePayments,
		Sales:           in.Sales,
		Mortality:       in.Mortality,
		Customers:       in.Customers,
		Payments:        in.Payments,
	})

	return nil
}
