package farm

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// Store is the record store the write side mutates. *store.Store satisfies it.
type Store interface {
	Snapshot() Snapshot
	Mutate(fn func(*Snapshot))
}

// Service is the write side of the farm: it validates input, resolves
// customer identity, and applies mutations to the record store. All balances
// and statuses are derived elsewhere, never written here.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

type BatchParams struct {
	Name            string
	StartDate       time.Time
	ExpectedEndDate time.Time
	NumChicks       int
	ChickRate       int64
	Supplier        string
	Remarks         string
}

func (s *Service) CreateBatch(p BatchParams) (*Batch, error) {
	if p.Name == "" {
		return nil, invalid("name", "must not be empty")
	}

	if p.NumChicks <= 0 {
		return nil, invalid("numChicks", "must be positive")
	}

	if p.ChickRate < 0 {
		return nil, invalid("chickRate", "must not be negative")
	}

	batch := Batch{
		ID:              uuid.New(),
		Name:            p.Name,
		StartDate:       p.StartDate,
		ExpectedEndDate: p.ExpectedEndDate,
		NumChicks:       p.NumChicks,
		ChickRate:       p.ChickRate,
		TotalChickCost:  int64(p.NumChicks) * p.ChickRate,
		Supplier:        p.Supplier,
		Remarks:         p.Remarks,
		IsActive:        true,
	}

	s.store.Mutate(func(state *Snapshot) {
		state.PutBatch(batch)
	})

	return &batch, nil
}

// CloseBatch flips the active flag only; child records stay untouched.
func (s *Service) CloseBatch(id uuid.UUID) error {
	var err error

	s.store.Mutate(func(state *Snapshot) {
		batch, ok := state.Batch(id)
		if !ok {
			err = ErrNotFound
			return
		}

		batch.IsActive = false
		state.PutBatch(batch)
	})

	return err
}

// DeleteBatch cascades: the batch and all expenses, sales, and mortality
// records referencing it go in one mutation. Customers and payments survive.
func (s *Service) DeleteBatch(id uuid.UUID) error {
	var err error

	s.store.Mutate(func(state *Snapshot) {
		if !state.RemoveBatch(id) {
			err = ErrNotFound
		}
	})

	return err
}

// AddInitialChickExpense records the chick purchase cost of a batch as a
// fully paid Chicks expense.
func (s *Service) AddInitialChickExpense(batchID uuid.UUID, amount int64, date time.Time) (*Expense, error) {
	return s.CreateExpense(ExpenseParams{
		BatchID:    batchID,
		Date:       date,
		Category:   CategoryChicks,
		Amount:     amount,
		Notes:      "Initial chick purchase cost",
		PaidAmount: amount,
	})
}

type ExpenseParams struct {
	BatchID    uuid.UUID
	Date       time.Time
	Category   ExpenseCategory
	Amount     int64
	Notes      string
	PaidAmount int64 // optional cash handed over when the bill was recorded
}

func (s *Service) CreateExpense(p ExpenseParams) (*Expense, error) {
	if p.Amount <= 0 {
		return nil, invalid("amount", "must be positive")
	}

	if !p.Category.Valid() {
		return nil, invalid("category", fmt.Sprintf("unknown category %q", p.Category))
	}

	if p.PaidAmount < 0 {
		return nil, invalid("paidAmount", "must not be negative")
	}

	expense := Expense{
		ID:       uuid.New(),
		BatchID:  p.BatchID,
		Date:     p.Date,
		Category: p.Category,
		Amount:   p.Amount,
		Notes:    p.Notes,
	}

	var err error

	s.store.Mutate(func(state *Snapshot) {
		if _, ok := state.Batch(p.BatchID); !ok {
			err = ErrNotFound
			return
		}

		state.PutExpense(expense)

		if p.PaidAmount > 0 {
			state.PutExpensePayment(ExpensePayment{
				ID:        uuid.New(),
				ExpenseID: expense.ID,
				Date:      p.Date,
				Amount:    p.PaidAmount,
				Notes:     "Initial payment",
			})
		}
	})

	if err != nil {
		return nil, err
	}

	return &expense, nil
}

// DeleteExpense removes the bill only. Payments against it become orphans;
// aggregation tolerates them rather than cascading cash records away.
func (s *Service) DeleteExpense(id uuid.UUID) error {
	var err error

	s.store.Mutate(func(state *Snapshot) {
		if !state.RemoveExpense(id) {
			err = ErrNotFound
		}
	})

	return err
}

func (s *Service) AddExpensePayment(expenseID uuid.UUID, date time.Time, amount int64, notes string) (*ExpensePayment, error) {
	if amount <= 0 {
		return nil, invalid("amount", "must be positive")
	}

	payment := ExpensePayment{
		ID:        uuid.New(),
		ExpenseID: expenseID,
		Date:      date,
		Amount:    amount,
		Notes:     notes,
	}

	var err error

	s.store.Mutate(func(state *Snapshot) {
		if _, ok := state.Expense(expenseID); !ok {
			err = ErrNotFound
			return
		}

		state.PutExpensePayment(payment)
	})

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (s *Service) DeleteExpensePayment(id uuid.UUID) error {
	var err error

	s.store.Mutate(func(state *Snapshot) {
		if !state.RemoveExpensePayment(id) {
			err = ErrNotFound
		}
	})

	return err
}

type SaleParams struct {
	BatchID       uuid.UUID
	CustomerName  string
	CustomerPhone string
	Date          time.Time
	BirdsSold     int
	TotalWeightKg float64
	RatePerKg     int64
	PaidAmount    int64 // cash received at sale time
}

// CreateSale resolves the customer by normalized name (reusing an existing
// record instead of duplicating it), assigns a stable invoice number, and
// materializes any amount paid at sale time as an ordinary payment record.
func (s *Service) CreateSale(p SaleParams) (*Sale, error) {
	if err := validateSaleParams(p); err != nil {
		return nil, err
	}

	sale := Sale{
		ID:            uuid.New(),
		InvoiceNo:     s.nextInvoiceNo(),
		BatchID:       p.BatchID,
		Date:          p.Date,
		BirdsSold:     p.BirdsSold,
		TotalWeightKg: p.TotalWeightKg,
		RatePerKg:     p.RatePerKg,
		TotalAmount:   saleTotal(p.TotalWeightKg, p.RatePerKg),
		PaidAmount:    p.PaidAmount,
	}

	var err error

	s.store.Mutate(func(state *Snapshot) {
		if _, ok := state.Batch(p.BatchID); !ok {
			err = ErrNotFound
			return
		}

		customer := s.resolveCustomer(state, p.CustomerName, p.CustomerPhone)
		sale.CustomerID = customer.ID
		sale.CustomerName = customer.Name

		state.PutSale(sale)

		if p.PaidAmount > 0 {
			saleID := sale.ID
			state.PutPayment(PaymentRecord{
				ID:         uuid.New(),
				CustomerID: customer.ID,
				SaleID:     &saleID,
				Date:       p.Date,
				Amount:     p.PaidAmount,
				Notes:      "Initial payment for " + sale.InvoiceNo,
			})
		}
	})

	if err != nil {
		return nil, err
	}

	return &sale, nil
}

// UpdateSale re-saves a sale's raw inputs. The invoice number assigned at
// creation is kept, and no payment record is created or touched.
func (s *Service) UpdateSale(id uuid.UUID, p SaleParams) (*Sale, error) {
	if err := validateSaleParams(p); err != nil {
		return nil, err
	}

	var (
		updated Sale
		err     error
	)

	s.store.Mutate(func(state *Snapshot) {
		sale, ok := state.Sale(id)
		if !ok {
			err = ErrNotFound
			return
		}

		customer := s.resolveCustomer(state, p.CustomerName, p.CustomerPhone)

		sale.BatchID = p.BatchID
		sale.CustomerID = customer.ID
		sale.CustomerName = customer.Name
		sale.Date = p.Date
		sale.BirdsSold = p.BirdsSold
		sale.TotalWeightKg = p.TotalWeightKg
		sale.RatePerKg = p.RatePerKg
		sale.TotalAmount = saleTotal(p.TotalWeightKg, p.RatePerKg)
		sale.PaidAmount = p.PaidAmount

		state.PutSale(sale)
		updated = sale
	})

	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) DeleteSale(id uuid.UUID) error {
	var err error

	s.store.Mutate(func(state *Snapshot) {
		if !state.RemoveSale(id) {
			err = ErrNotFound
		}
	})

	return err
}

func (s *Service) RecordPayment(customerID uuid.UUID, date time.Time, amount int64, notes string) (*PaymentRecord, error) {
	if amount <= 0 {
		return nil, invalid("amount", "must be positive")
	}

	payment := PaymentRecord{
		ID:         uuid.New(),
		CustomerID: customerID,
		Date:       date,
		Amount:     amount,
		Notes:      notes,
	}

	var err error

	s.store.Mutate(func(state *Snapshot) {
		if _, ok := state.Customer(customerID); !ok {
			err = ErrNotFound
			return
		}

		state.PutPayment(payment)
	})

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (s *Service) DeletePayment(id uuid.UUID) error {
	var err error

	s.store.Mutate(func(state *Snapshot) {
		if !state.RemovePayment(id) {
			err = ErrNotFound
		}
	})

	return err
}

func (s *Service) RecordMortality(batchID uuid.UUID, date time.Time, count int, reason string) (*Mortality, error) {
	if count <= 0 {
		return nil, invalid("count", "must be positive")
	}

	record := Mortality{
		ID:      uuid.New(),
		BatchID: batchID,
		Date:    date,
		Count:   count,
		Reason:  reason,
	}

	var err error

	s.store.Mutate(func(state *Snapshot) {
		if _, ok := state.Batch(batchID); !ok {
			err = ErrNotFound
			return
		}

		state.PutMortality(record)
	})

	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (s *Service) DeleteMortality(id uuid.UUID) error {
	var err error

	s.store.Mutate(func(state *Snapshot) {
		if !state.RemoveMortality(id) {
			err = ErrNotFound
		}
	})

	return err
}

func validateSaleParams(p SaleParams) error {
	if NormalizeName(p.CustomerName) == "" {
		return invalid("customerName", "must not be empty")
	}

	if p.BirdsSold <= 0 {
		return invalid("birdsSold", "must be positive")
	}

	if p.TotalWeightKg <= 0 {
		return invalid("totalWeightKg", "must be positive")
	}

	if p.RatePerKg <= 0 {
		return invalid("ratePerKg", "must be positive")
	}

	if p.PaidAmount < 0 {
		return invalid("paidAmount", "must not be negative")
	}

	return nil
}

func (s *Service) resolveCustomer(state *Snapshot, name, phone string) Customer {
	customer, ok := state.CustomerByName(name)
	if !ok {
		customer = Customer{ID: uuid.New(), Name: trimName(name)}
	}

	if phone != "" {
		customer.Phone = phone
	}

	state.PutCustomer(customer)

	return customer
}

func saleTotal(weightKg float64, ratePerKg int64) int64 {
	return int64(math.Round(weightKg * float64(ratePerKg)))
}

func (s *Service) nextInvoiceNo() string {
	return fmt.Sprintf("INV-%06d", s.now().UnixMilli()%1_000_000)
}
