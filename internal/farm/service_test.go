package farm_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/farm/store"
)

func newService(t *testing.T) (*farm.Service, *store.Store) {
	t.Helper()

	s := store.New()

	return farm.NewService(s), s
}

func mustCreateBatch(t *testing.T, svc *farm.Service) *farm.Batch {
	t.Helper()

	batch, err := svc.CreateBatch(farm.BatchParams{
		Name:            "Batch A",
		StartDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpectedEndDate: time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		NumChicks:       1000,
		ChickRate:       3500,
	})
	require.NoError(t, err)

	return batch
}

func TestService_CreateBatch(t *testing.T) {
	type testCase struct {
		name    string
		params  farm.BatchParams
		wantErr bool
	}

	tests := []testCase{
		{
			name: "Success",
			params: farm.BatchParams{
				Name:      "Batch A",
				NumChicks: 500,
				ChickRate: 3000,
			},
		},
		{
			name:    "EmptyName",
			params:  farm.BatchParams{NumChicks: 500, ChickRate: 3000},
			wantErr: true,
		},
		{
			name:    "ZeroChicks",
			params:  farm.BatchParams{Name: "Batch A", ChickRate: 3000},
			wantErr: true,
		},
		{
			name:    "NegativeRate",
			params:  farm.BatchParams{Name: "Batch A", NumChicks: 500, ChickRate: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t)

			got, err := svc.CreateBatch(tt.params)
			if tt.wantErr {
				var verr *farm.ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.True(t, got.IsActive)
			assert.Equal(t, int64(500)*3000, got.TotalChickCost)
		})
	}
}

func TestService_DeleteBatch_Cascades(t *testing.T) {
	svc, s := newService(t)

	doomed := mustCreateBatch(t, svc)
	kept, err := svc.CreateBatch(farm.BatchParams{Name: "Batch B", NumChicks: 200, ChickRate: 3000})
	require.NoError(t, err)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	for _, batchID := range []uuid.UUID{doomed.ID, kept.ID} {
		_, err = svc.CreateExpense(farm.ExpenseParams{
			BatchID: batchID, Date: date, Category: farm.CategoryFeed, Amount: 50000,
		})
		require.NoError(t, err)

		_, err = svc.CreateSale(farm.SaleParams{
			BatchID: batchID, CustomerName: "Salim", Date: date,
			BirdsSold: 10, TotalWeightKg: 20, RatePerKg: 12000, PaidAmount: 1000,
		})
		require.NoError(t, err)

		_, err = svc.RecordMortality(batchID, date, 5, "heat")
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteBatch(doomed.ID))

	state := s.Snapshot()

	// Only the surviving batch's children remain.
	require.Len(t, state.Batches, 1)
	assert.Equal(t, kept.ID, state.Batches[0].ID)
	require.Len(t, state.Expenses, 1)
	assert.Equal(t, kept.ID, state.Expenses[0].BatchID)
	require.Len(t, state.Sales, 1)
	assert.Equal(t, kept.ID, state.Sales[0].BatchID)
	require.Len(t, state.Mortality, 1)
	assert.Equal(t, kept.ID, state.Mortality[0].BatchID)

	// Customers and their cash history are batch-independent.
	assert.Len(t, state.Customers, 1)
	assert.Len(t, state.Payments, 2)

	assert.ErrorIs(t, svc.DeleteBatch(doomed.ID), farm.ErrNotFound)
}

func TestService_CloseBatch(t *testing.T) {
	svc, s := newService(t)
	batch := mustCreateBatch(t, svc)

	require.NoError(t, svc.CloseBatch(batch.ID))

	got, ok := s.Snapshot().Batch(batch.ID)
	require.True(t, ok)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, svc.CloseBatch(uuid.New()), farm.ErrNotFound)
}

func TestService_CreateSale_MergesCustomersByName(t *testing.T) {
	svc, s := newService(t)
	batch := mustCreateBatch(t, svc)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	first, err := svc.CreateSale(farm.SaleParams{
		BatchID: batch.ID, CustomerName: "Salim", Date: date,
		BirdsSold: 10, TotalWeightKg: 20, RatePerKg: 12000,
	})
	require.NoError(t, err)

	// Same person, different spelling: leading/trailing space and case.
	second, err := svc.CreateSale(farm.SaleParams{
		BatchID: batch.ID, CustomerName: "  salim ", CustomerPhone: "9876543210", Date: date,
		BirdsSold: 5, TotalWeightKg: 8, RatePerKg: 12000,
	})
	require.NoError(t, err)

	assert.Equal(t, first.CustomerID, second.CustomerID)

	state := s.Snapshot()
	require.Len(t, state.Customers, 1)
	// The display name of the first spelling sticks; the phone backfills.
	assert.Equal(t, "Salim", state.Customers[0].Name)
	assert.Equal(t, "9876543210", state.Customers[0].Phone)
}

func TestService_CreateSale_TotalAndInitialPayment(t *testing.T) {
	svc, s := newService(t)
	batch := mustCreateBatch(t, svc)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	sale, err := svc.CreateSale(farm.SaleParams{
		BatchID: batch.ID, CustomerName: "Rafiq", Date: date,
		BirdsSold: 12, TotalWeightKg: 25.5, RatePerKg: 12000, PaidAmount: 100000,
	})
	require.NoError(t, err)

	// 25.5 kg * 12000 paise/kg, rounded.
	assert.Equal(t, int64(306000), sale.TotalAmount)
	assert.NotEmpty(t, sale.InvoiceNo)

	state := s.Snapshot()
	require.Len(t, state.Payments, 1)

	payment := state.Payments[0]
	assert.Equal(t, sale.CustomerID, payment.CustomerID)
	assert.Equal(t, int64(100000), payment.Amount)
	require.NotNil(t, payment.SaleID)
	assert.Equal(t, sale.ID, *payment.SaleID)
	assert.Contains(t, payment.Notes, sale.InvoiceNo)
}

func TestService_CreateSale_Validation(t *testing.T) {
	svc, _ := newService(t)
	batch := mustCreateBatch(t, svc)

	base := farm.SaleParams{
		BatchID: batch.ID, CustomerName: "Salim",
		Date:      time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		BirdsSold: 10, TotalWeightKg: 20, RatePerKg: 12000,
	}

	type testCase struct {
		name   string
		mutate func(p *farm.SaleParams)
	}

	tests := []testCase{
		{name: "BlankCustomer", mutate: func(p *farm.SaleParams) { p.CustomerName = "   " }},
		{name: "ZeroBirds", mutate: func(p *farm.SaleParams) { p.BirdsSold = 0 }},
		{name: "ZeroWeight", mutate: func(p *farm.SaleParams) { p.TotalWeightKg = 0 }},
		{name: "ZeroRate", mutate: func(p *farm.SaleParams) { p.RatePerKg = 0 }},
		{name: "NegativePaid", mutate: func(p *farm.SaleParams) { p.PaidAmount = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := base
			tt.mutate(&params)

			_, err := svc.CreateSale(params)

			var verr *farm.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}

	t.Run("MissingBatch", func(t *testing.T) {
		params := base
		params.BatchID = uuid.New()

		_, err := svc.CreateSale(params)
		assert.ErrorIs(t, err, farm.ErrNotFound)
	})
}

func TestService_UpdateSale_KeepsInvoiceNo(t *testing.T) {
	svc, _ := newService(t)
	batch := mustCreateBatch(t, svc)

	date := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	sale, err := svc.CreateSale(farm.SaleParams{
		BatchID: batch.ID, CustomerName: "Salim", Date: date,
		BirdsSold: 10, TotalWeightKg: 20, RatePerKg: 12000,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateSale(sale.ID, farm.SaleParams{
		BatchID: batch.ID, CustomerName: "Salim", Date: date,
		BirdsSold: 11, TotalWeightKg: 22, RatePerKg: 13000,
	})
	require.NoError(t, err)

	assert.Equal(t, sale.InvoiceNo, updated.InvoiceNo)
	assert.Equal(t, int64(286000), updated.TotalAmount)
}

func TestService_Expenses(t *testing.T) {
	svc, s := newService(t)
	batch := mustCreateBatch(t, svc)

	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	expense, err := svc.CreateExpense(farm.ExpenseParams{
		BatchID: batch.ID, Date: date, Category: farm.CategoryFeed,
		Amount: 80000, PaidAmount: 30000,
	})
	require.NoError(t, err)

	state := s.Snapshot()
	require.Len(t, state.ExpensePayments, 1)
	assert.Equal(t, expense.ID, state.ExpensePayments[0].ExpenseID)
	assert.Equal(t, int64(30000), state.ExpensePayments[0].Amount)

	_, err = svc.CreateExpense(farm.ExpenseParams{
		BatchID: batch.ID, Date: date, Category: "Rent", Amount: 1000,
	})
	var verr *farm.ValidationError
	assert.ErrorAs(t, err, &verr)

	// Deleting the bill leaves its payment records behind.
	require.NoError(t, svc.DeleteExpense(expense.ID))
	assert.Len(t, s.Snapshot().ExpensePayments, 1)
}

func TestService_AddInitialChickExpense(t *testing.T) {
	svc, s := newService(t)
	batch := mustCreateBatch(t, svc)

	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	expense, err := svc.AddInitialChickExpense(batch.ID, batch.TotalChickCost, date)
	require.NoError(t, err)

	assert.Equal(t, farm.CategoryChicks, expense.Category)
	assert.Equal(t, batch.TotalChickCost, expense.Amount)

	// Recorded fully paid.
	state := s.Snapshot()
	require.Len(t, state.ExpensePayments, 1)
	assert.Equal(t, batch.TotalChickCost, state.ExpensePayments[0].Amount)
}

func TestService_RecordPayment(t *testing.T) {
	svc, _ := newService(t)
	batch := mustCreateBatch(t, svc)

	date := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	sale, err := svc.CreateSale(farm.SaleParams{
		BatchID: batch.ID, CustomerName: "Salim", Date: date,
		BirdsSold: 10, TotalWeightKg: 20, RatePerKg: 12000,
	})
	require.NoError(t, err)

	payment, err := svc.RecordPayment(sale.CustomerID, date, 50000, "cash")
	require.NoError(t, err)
	assert.Nil(t, payment.SaleID)

	_, err = svc.RecordPayment(sale.CustomerID, date, 0, "")
	var verr *farm.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.RecordPayment(uuid.New(), date, 1000, "")
	assert.ErrorIs(t, err, farm.ErrNotFound)
}

func TestService_Mortality(t *testing.T) {
	svc, s := newService(t)
	batch := mustCreateBatch(t, svc)

	date := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	record, err := svc.RecordMortality(batch.ID, date, 12, "disease")
	require.NoError(t, err)

	require.Len(t, s.Snapshot().Mortality, 1)

	require.NoError(t, svc.DeleteMortality(record.ID))
	assert.Empty(t, s.Snapshot().Mortality)

	_, err = svc.RecordMortality(batch.ID, date, 0, "")
	var verr *farm.ValidationError
	assert.ErrorAs(t, err, &verr)
}
