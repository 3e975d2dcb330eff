package farm

import "github.com/google/uuid"

// Snapshot is the full record-store state: one slice per entity kind, each
// record keyed by id. A Snapshot value is treated as immutable once published
// by the store; writers work on a clone.
type Snapshot struct {
	Batches         []Batch          `json:"batches"`
	Expenses        []Expense        `json:"expenses"`
	ExpensePayments []ExpensePayment `json:"expensePayments"`
	Sales           []Sale           `json:"sales"`
	Mortality       []Mortality      `json:"mortality"`
	Customers       []Customer       `json:"customers"`
	Payments        []PaymentRecord  `json:"payments"`
}

// Clone returns a copy whose slices are independent of the receiver.
// Element values are plain structs, so a shallow element copy is enough.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Batches:         append([]Batch(nil), s.Batches...),
		Expenses:        append([]Expense(nil), s.Expenses...),
		ExpensePayments: append([]ExpensePayment(nil), s.ExpensePayments...),
		Sales:           append([]Sale(nil), s.Sales...),
		Mortality:       append([]Mortality(nil), s.Mortality...),
		Customers:       append([]Customer(nil), s.Customers...),
		Payments:        append([]PaymentRecord(nil), s.Payments...),
	}
}

func putByID[T any](items []T, item T, id func(T) uuid.UUID) []T {
	want := id(item)
	for i := range items {
		if id(items[i]) == want {
			items[i] = item
			return items
		}
	}

	return append(items, item)
}

func removeByID[T any](items []T, want uuid.UUID, id func(T) uuid.UUID) ([]T, bool) {
	for i := range items {
		if id(items[i]) == want {
			return append(items[:i], items[i+1:]...), true
		}
	}

	return items, false
}

func (s *Snapshot) PutBatch(b Batch) {
	s.Batches = putByID(s.Batches, b, func(v Batch) uuid.UUID { return v.ID })
}

func (s *Snapshot) PutExpense(e Expense) {
	s.Expenses = putByID(s.Expenses, e, func(v Expense) uuid.UUID { return v.ID })
}

func (s *Snapshot) PutExpensePayment(p ExpensePayment) {
	s.ExpensePayments = putByID(s.ExpensePayments, p, func(v ExpensePayment) uuid.UUID { return v.ID })
}

func (s *Snapshot) PutSale(sale Sale) {
	s.Sales = putByID(s.Sales, sale, func(v Sale) uuid.UUID { return v.ID })
}

func (s *Snapshot) PutMortality(m Mortality) {
	s.Mortality = putByID(s.Mortality, m, func(v Mortality) uuid.UUID { return v.ID })
}

func (s *Snapshot) PutCustomer(c Customer) {
	s.Customers = putByID(s.Customers, c, func(v Customer) uuid.UUID { return v.ID })
}

func (s *Snapshot) PutPayment(p PaymentRecord) {
	s.Payments = putByID(s.Payments, p, func(v PaymentRecord) uuid.UUID { return v.ID })
}

func (s *Snapshot) RemoveExpense(id uuid.UUID) bool {
	var ok bool
	s.Expenses, ok = removeByID(s.Expenses, id, func(v Expense) uuid.UUID { return v.ID })

	return ok
}

func (s *Snapshot) RemoveExpensePayment(id uuid.UUID) bool {
	var ok bool
	s.ExpensePayments, ok = removeByID(s.ExpensePayments, id, func(v ExpensePayment) uuid.UUID { return v.ID })

	return ok
}

func (s *Snapshot) RemoveSale(id uuid.UUID) bool {
	var ok bool
	s.Sales, ok = removeByID(s.Sales, id, func(v Sale) uuid.UUID { return v.ID })

	return ok
}

func (s *Snapshot) RemoveMortality(id uuid.UUID) bool {
	var ok bool
	s.Mortality, ok = removeByID(s.Mortality, id, func(v Mortality) uuid.UUID { return v.ID })

	return ok
}

func (s *Snapshot) RemovePayment(id uuid.UUID) bool {
	var ok bool
	s.Payments, ok = removeByID(s.Payments, id, func(v PaymentRecord) uuid.UUID { return v.ID })

	return ok
}

// RemoveBatch deletes a batch and cascades to its expenses, sales, and
// mortality records. Customers and payment records are independent of the
// batch and survive.
func (s *Snapshot) RemoveBatch(id uuid.UUID) bool {
	var ok bool
	s.Batches, ok = removeByID(s.Batches, id, func(v Batch) uuid.UUID { return v.ID })
	if !ok {
		return false
	}

	expenses := s.Expenses[:0]
	for _, e := range s.Expenses {
		if e.BatchID != id {
			expenses = append(expenses, e)
		}
	}
	s.Expenses = expenses

	sales := s.Sales[:0]
	for _, sale := range s.Sales {
		if sale.BatchID != id {
			sales = append(sales, sale)
		}
	}
	s.Sales = sales

	mortality := s.Mortality[:0]
	for _, m := range s.Mortality {
		if m.BatchID != id {
			mortality = append(mortality, m)
		}
	}
	s.Mortality = mortality

	return true
}

func (s Snapshot) Batch(id uuid.UUID) (Batch, bool) {
	for _, b := range s.Batches {
		if b.ID == id {
			return b, true
		}
	}

	return Batch{}, false
}

func (s Snapshot) Expense(id uuid.UUID) (Expense, bool) {
	for _, e := range s.Expenses {
		if e.ID == id {
			return e, true
		}
	}

	return Expense{}, false
}

func (s Snapshot) Sale(id uuid.UUID) (Sale, bool) {
	for _, sale := range s.Sales {
		if sale.ID == id {
			return sale, true
		}
	}

	return Sale{}, false
}

func (s Snapshot) Customer(id uuid.UUID) (Customer, bool) {
	for _, c := range s.Customers {
		if c.ID == id {
			return c, true
		}
	}

	return Customer{}, false
}

// CustomerByName resolves a customer through the normalized identity key.
func (s Snapshot) CustomerByName(name string) (Customer, bool) {
	key := NormalizeName(name)
	if key == "" {
		return Customer{}, false
	}

	for _, c := range s.Customers {
		if NormalizeName(c.Name) == key {
			return c, true
		}
	}

	return Customer{}, false
}
