package ledger_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nooranifarms/coopledger/internal/allocation"
	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/ledger"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T, state farm.Snapshot) *ledger.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	src := ledger.NewMockSource(ctrl)
	src.EXPECT().Snapshot().Return(state).AnyTimes()

	return ledger.NewService(src)
}

func TestService_SaleStatus_PoolDrainsOldestFirst(t *testing.T) {
	customer := farm.Customer{ID: uuid.New(), Name: "Salim"}

	older := farm.Sale{
		ID: uuid.New(), InvoiceNo: "INV-000001", CustomerID: customer.ID,
		Date: day(1), TotalAmount: 50000,
	}
	newer := farm.Sale{
		ID: uuid.New(), InvoiceNo: "INV-000002", CustomerID: customer.ID,
		Date: day(5), TotalAmount: 30000,
	}

	// One lump payment of 600 rupees against 500 + 300 owed.
	state := farm.Snapshot{
		Customers: []farm.Customer{customer},
		Sales:     []farm.Sale{newer, older},
		Payments: []farm.PaymentRecord{
			{ID: uuid.New(), CustomerID: customer.ID, Date: day(6), Amount: 60000},
		},
	}

	svc := newService(t, state)

	gotOlder, err := svc.SaleStatus(older.ID)
	require.NoError(t, err)
	assert.Equal(t, allocation.Result{Settled: 50000, Balance: 0, Status: allocation.StatusPaid}, gotOlder)

	gotNewer, err := svc.SaleStatus(newer.ID)
	require.NoError(t, err)
	assert.Equal(t, allocation.Result{Settled: 10000, Balance: 20000, Status: allocation.StatusPartiallyPaid}, gotNewer)
}

func TestService_SaleStatus_IgnoresOtherCustomers(t *testing.T) {
	salim := farm.Customer{ID: uuid.New(), Name: "Salim"}
	rafiq := farm.Customer{ID: uuid.New(), Name: "Rafiq"}

	sale := farm.Sale{ID: uuid.New(), CustomerID: salim.ID, Date: day(1), TotalAmount: 40000}

	state := farm.Snapshot{
		Customers: []farm.Customer{salim, rafiq},
		Sales:     []farm.Sale{sale},
		Payments: []farm.PaymentRecord{
			{ID: uuid.New(), CustomerID: rafiq.ID, Date: day(2), Amount: 40000},
		},
	}

	svc := newService(t, state)

	got, err := svc.SaleStatus(sale.ID)
	require.NoError(t, err)
	assert.Equal(t, allocation.StatusUnpaid, got.Status)
}

func TestService_SaleStatus_NotFound(t *testing.T) {
	svc := newService(t, farm.Snapshot{})

	_, err := svc.SaleStatus(uuid.New())
	assert.ErrorIs(t, err, farm.ErrNotFound)
}

func TestService_CustomerLedger(t *testing.T) {
	customer := farm.Customer{ID: uuid.New(), Name: "Salim"}

	saleA := farm.Sale{
		ID: uuid.New(), InvoiceNo: "INV-000001", CustomerID: customer.ID,
		Date: day(1), TotalAmount: 50000,
	}
	saleB := farm.Sale{
		ID: uuid.New(), InvoiceNo: "INV-000002", CustomerID: customer.ID,
		Date: day(5), TotalAmount: 30000,
	}
	payment := farm.PaymentRecord{
		ID: uuid.New(), CustomerID: customer.ID, Date: day(6), Amount: 60000,
	}

	state := farm.Snapshot{
		Customers: []farm.Customer{customer},
		Sales:     []farm.Sale{saleA, saleB},
		Payments:  []farm.PaymentRecord{payment},
	}

	svc := newService(t, state)

	led, err := svc.CustomerLedger(customer.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(80000), led.TotalPurchased)
	assert.Equal(t, int64(60000), led.TotalPaid)
	assert.Equal(t, int64(20000), led.Balance)

	// Newest first: payment (day 6), saleB (day 5), saleA (day 1).
	require.Len(t, led.Entries, 3)
	assert.Equal(t, ledger.EntryPayment, led.Entries[0].Kind)
	assert.Equal(t, saleB.ID, led.Entries[1].ID())
	assert.Equal(t, saleA.ID, led.Entries[2].ID())

	// Sale entries carry their allocation results.
	assert.Equal(t, allocation.StatusPaid, led.Entries[2].Allocation.Status)
	assert.Equal(t, allocation.StatusPartiallyPaid, led.Entries[1].Allocation.Status)
}

func TestService_CustomerLedger_OverpaidBalanceFloorsAtZero(t *testing.T) {
	customer := farm.Customer{ID: uuid.New(), Name: "Salim"}

	state := farm.Snapshot{
		Customers: []farm.Customer{customer},
		Sales: []farm.Sale{
			{ID: uuid.New(), CustomerID: customer.ID, Date: day(1), TotalAmount: 10000},
		},
		Payments: []farm.PaymentRecord{
			{ID: uuid.New(), CustomerID: customer.ID, Date: day(2), Amount: 25000},
		},
	}

	svc := newService(t, state)

	led, err := svc.CustomerLedger(customer.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(0), led.Balance)
}

func TestService_CustomerLedger_NotFound(t *testing.T) {
	svc := newService(t, farm.Snapshot{})

	_, err := svc.CustomerLedger(uuid.New())
	assert.ErrorIs(t, err, farm.ErrNotFound)
}

func TestService_ExpenseSettlement(t *testing.T) {
	expense := farm.Expense{ID: uuid.New(), Date: day(1), Category: farm.CategoryFeed, Amount: 80000}
	other := farm.Expense{ID: uuid.New(), Date: day(1), Category: farm.CategoryFeed, Amount: 99999}

	state := farm.Snapshot{
		Expenses: []farm.Expense{expense, other},
		ExpensePayments: []farm.ExpensePayment{
			{ID: uuid.New(), ExpenseID: expense.ID, Date: day(2), Amount: 30000},
			{ID: uuid.New(), ExpenseID: expense.ID, Date: day(3), Amount: 20000},
			{ID: uuid.New(), ExpenseID: other.ID, Date: day(3), Amount: 99999},
		},
	}

	svc := newService(t, state)

	got, err := svc.ExpenseSettlement(expense.ID)
	require.NoError(t, err)

	assert.Equal(t, ledger.Settlement{
		Amount:  80000,
		Settled: 50000,
		Balance: 30000,
		Status:  allocation.StatusPartiallyPaid,
	}, got)

	_, err = svc.ExpenseSettlement(uuid.New())
	assert.ErrorIs(t, err, farm.ErrNotFound)
}

func TestService_InvoiceText(t *testing.T) {
	customer := farm.Customer{ID: uuid.New(), Name: "Salim Traders"}

	sale := farm.Sale{
		ID: uuid.New(), InvoiceNo: "INV-000042", CustomerID: customer.ID,
		CustomerName: customer.Name, Date: day(10),
		BirdsSold: 12, TotalWeightKg: 25.5, RatePerKg: 12000, TotalAmount: 306000,
	}

	saleID := sale.ID
	linked := farm.PaymentRecord{
		ID: uuid.New(), CustomerID: customer.ID, SaleID: &saleID, Date: day(10), Amount: 100000,
	}
	// Older workflow: no SaleID, but the note mentions the sale id.
	mentioned := farm.PaymentRecord{
		ID: uuid.New(), CustomerID: customer.ID, Date: day(11), Amount: 6000,
		Notes: "clearing " + sale.ID.String(),
	}
	unrelated := farm.PaymentRecord{
		ID: uuid.New(), CustomerID: customer.ID, Date: day(12), Amount: 99999,
	}

	state := farm.Snapshot{
		Customers: []farm.Customer{customer},
		Sales:     []farm.Sale{sale},
		Payments:  []farm.PaymentRecord{linked, mentioned, unrelated},
	}

	svc := newService(t, state)

	text, err := svc.InvoiceText(sale.ID)
	require.NoError(t, err)

	assert.Contains(t, text, "*Bill To:* Salim Traders")
	assert.Contains(t, text, "*Bill No:* INV-000042")
	assert.Contains(t, text, "*Date:* 2024-03-10")
	assert.Contains(t, text, "*Total:* ₹3060.00")
	// 1000 + 60 rupees matched to this invoice; the unrelated payment is not.
	assert.Contains(t, text, "*Received:* ₹1060.00")
	assert.Contains(t, text, "*Balance:* ₹2000.00")

	_, err = svc.InvoiceText(uuid.New())
	assert.ErrorIs(t, err, farm.ErrNotFound)
}
