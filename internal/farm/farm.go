package farm

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseCategory classifies what an expense bill was for.
type ExpenseCategory string

const (
	CategoryChicks      ExpenseCategory = "Chicks"
	CategoryFeed        ExpenseCategory = "Feed"
	CategoryMedicine    ExpenseCategory = "Medicine"
	CategoryLabour      ExpenseCategory = "Labour"
	CategoryElectricity ExpenseCategory = "Electricity"
	CategoryTransport   ExpenseCategory = "Transport"
	CategoryLitter      ExpenseCategory = "Litter"
	CategoryOther       ExpenseCategory = "Other"
)

// Categories lists every valid expense category.
var Categories = []ExpenseCategory{
	CategoryChicks, CategoryFeed, CategoryMedicine, CategoryLabour,
	CategoryElectricity, CategoryTransport, CategoryLitter, CategoryOther,
}

func (c ExpenseCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// Batch is one production cycle of birds, the top-level cost/revenue grouping unit.
type Batch struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"startDate"`
	ExpectedEndDate time.Time `json:"expectedEndDate"`
	NumChicks       int       `json:"numChicks"`
	ChickRate       int64     `json:"chickRate"` // per-chick cost in paise
	TotalChickCost  int64     `json:"totalChickCost"`
	Supplier        string    `json:"supplier,omitempty"`
	Remarks         string    `json:"remarks,omitempty"`
	IsActive        bool      `json:"isActive"`
}

// Expense is a billed obligation against a batch. It is not a cash movement;
// cash against it arrives as ExpensePayment records.
type Expense struct {
	ID       uuid.UUID       `json:"id"`
	BatchID  uuid.UUID       `json:"batchId"`
	Date     time.Time       `json:"date"`
	Category ExpenseCategory `json:"category"`
	Amount   int64           `json:"amount"` // total bill amount in paise
	Notes    string          `json:"notes,omitempty"`
}

// ExpensePayment is a cash movement reducing an expense's outstanding balance.
type ExpensePayment struct {
	ID        uuid.UUID `json:"id"`
	ExpenseID uuid.UUID `json:"expenseId"`
	Date      time.Time `json:"date"`
	Amount    int64     `json:"amount"`
	Notes     string    `json:"notes,omitempty"`
}

// Customer identity is the normalized name, not the id: two sales whose names
// match after NormalizeName must resolve to the same customer record.
type Customer struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone,omitempty"`
}

// Sale is an invoice owed by a customer. Balance and payment status are never
// stored; they are recomputed from the full payment history by the allocation
// engine on every read.
type Sale struct {
	ID            uuid.UUID `json:"id"`
	InvoiceNo     string    `json:"invoiceNo"`
	BatchID       uuid.UUID `json:"batchId"`
	CustomerID    uuid.UUID `json:"customerId"`
	CustomerName  string    `json:"customerName"`
	Date          time.Time `json:"date"`
	BirdsSold     int       `json:"birdsSold"`
	TotalWeightKg float64   `json:"totalWeightKg"`
	RatePerKg     int64     `json:"ratePerKg"`   // paise per kg
	TotalAmount   int64     `json:"totalAmount"` // TotalWeightKg * RatePerKg, fixed at save
	PaidAmount    int64     `json:"paidAmount"`  // amount received at sale time
}

// PaymentRecord is a cash receipt from a customer. SaleID is a best-effort
// link only; allocation against invoices is always computed dynamically.
type PaymentRecord struct {
	ID         uuid.UUID  `json:"id"`
	CustomerID uuid.UUID  `json:"customerId"`
	SaleID     *uuid.UUID `json:"saleId,omitempty"`
	Date       time.Time  `json:"date"`
	Amount     int64      `json:"amount"`
	Notes      string     `json:"notes,omitempty"`
}

// Mortality records bird deaths in a batch. Purely additive; it only feeds
// mortality-rate metrics.
type Mortality struct {
	ID      uuid.UUID `json:"id"`
	BatchID uuid.UUID `json:"batchId"`
	Date    time.Time `json:"date"`
	Count   int       `json:"count"`
	Reason  string    `json:"reason,omitempty"`
}
