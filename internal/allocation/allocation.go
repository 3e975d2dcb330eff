// Package allocation settles a party's payment pool against its obligations
// (sale invoices, expense bills) oldest-first. It is a pure function of its
// inputs and is recomputed from scratch on every read; nothing here is
// persisted or incrementally maintained.
package allocation

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status is the settlement state of a single obligation.
type Status string

const (
	StatusPaid          Status = "PAID"
	StatusPartiallyPaid Status = "PARTIALLY PAID"
	StatusUnpaid        Status = "UNPAID"
)

// Obligation is a billed amount owed by one party.
type Obligation struct {
	ID     uuid.UUID
	Date   time.Time
	Amount int64
}

// Result is the settled portion, remaining balance, and derived status of one
// obligation after the pool has been drained.
type Result struct {
	Settled int64
	Balance int64
	Status  Status
}

// Allocate drains the summed payment pool across the obligations in date
// order, oldest first. Ties keep input order, so identical input yields
// identical output. The sum of settled amounts never exceeds the pool; any
// remainder after the last obligation is discarded, and a balance never goes
// below zero.
func Allocate(obligations []Obligation, payments []int64) map[uuid.UUID]Result {
	pool := sum(payments)

	ordered := append([]Obligation(nil), obligations...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	results := make(map[uuid.UUID]Result, len(ordered))

	for _, ob := range ordered {
		settled := min(ob.Amount, pool)
		pool -= settled

		results[ob.ID] = settle(ob.Amount, settled)
	}

	return results
}

// SettleOne applies the pool to a single obligation. This is the expense-bill
// case: one bill, its payments.
func SettleOne(amount int64, payments []int64) Result {
	return settle(amount, min(amount, sum(payments)))
}

func settle(amount, settled int64) Result {
	balance := max(0, amount-settled)

	status := StatusUnpaid
	switch {
	case balance <= 0:
		status = StatusPaid
	case settled > 0:
		status = StatusPartiallyPaid
	}

	return Result{Settled: settled, Balance: balance, Status: status}
}

func sum(amounts []int64) int64 {
	var total int64
	for _, a := range amounts {
		total += a
	}

	return total
}
