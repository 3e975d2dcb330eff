package report_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/nooranifarms/coopledger/internal/farm"
	"github.com/nooranifarms/coopledger/internal/report"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func newService(t *testing.T, state farm.Snapshot) *report.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	src := report.NewMockSource(ctrl)
	src.EXPECT().Snapshot().Return(state).AnyTimes()

	return report.NewService(src)
}

func TestService_FarmSummary(t *testing.T) {
	batchA := farm.Batch{ID: uuid.New(), Name: "A", NumChicks: 600, IsActive: true}
	batchB := farm.Batch{ID: uuid.New(), Name: "B", NumChicks: 400}

	state := farm.Snapshot{
		Batches: []farm.Batch{batchA, batchB},
		Expenses: []farm.Expense{
			{ID: uuid.New(), BatchID: batchA.ID, Date: day(5), Category: farm.CategoryFeed, Amount: 40000},
			{ID: uuid.New(), BatchID: batchB.ID, Date: day(20), Category: farm.CategoryFeed, Amount: 10000},
		},
		Sales: []farm.Sale{
			{ID: uuid.New(), BatchID: batchA.ID, Date: day(10), TotalAmount: 90000},
			{ID: uuid.New(), BatchID: batchB.ID, Date: day(25), TotalAmount: 50000},
		},
		Mortality: []farm.Mortality{
			{ID: uuid.New(), BatchID: batchA.ID, Date: day(7), Count: 30},
			{ID: uuid.New(), BatchID: batchB.ID, Date: day(22), Count: 20},
		},
	}

	svc := newService(t, state)

	t.Run("AllTime", func(t *testing.T) {
		got := svc.FarmSummary(report.DateRange{})

		assert.Equal(t, int64(140000), got.TotalSales)
		assert.Equal(t, int64(50000), got.TotalExpenses)
		assert.Equal(t, int64(90000), got.NetProfit)
		assert.Equal(t, 1000, got.TotalChicks)
		assert.Equal(t, 50, got.TotalMortality)
		assert.InDelta(t, 90.0, got.ProfitPerChick, 0.001)
		assert.InDelta(t, 5.0, got.MortalityRate, 0.001)
	})

	t.Run("DateRangeInclusive", func(t *testing.T) {
		start, end := day(5), day(10)
		got := svc.FarmSummary(report.DateRange{Start: &start, End: &end})

		// Records dated exactly on the bounds count.
		assert.Equal(t, int64(90000), got.TotalSales)
		assert.Equal(t, int64(40000), got.TotalExpenses)
		assert.Equal(t, 30, got.TotalMortality)
		// Chick totals are farm-wide regardless of the range.
		assert.Equal(t, 1000, got.TotalChicks)
	})
}

func TestService_FarmSummary_EmptyFarm(t *testing.T) {
	svc := newService(t, farm.Snapshot{})

	got := svc.FarmSummary(report.DateRange{})

	// No chicks must not divide by zero.
	assert.Zero(t, got.ProfitPerChick)
	assert.Zero(t, got.MortalityRate)
	assert.Zero(t, got.NetProfit)
}

func TestService_BatchSummary(t *testing.T) {
	batch := farm.Batch{ID: uuid.New(), Name: "A", NumChicks: 500, IsActive: true}

	state := farm.Snapshot{
		Batches: []farm.Batch{batch},
		Expenses: []farm.Expense{
			{ID: uuid.New(), BatchID: batch.ID, Date: day(2), Category: farm.CategoryFeed, Amount: 100000},
		},
		Sales: []farm.Sale{
			{ID: uuid.New(), BatchID: batch.ID, Date: day(20), TotalWeightKg: 50, TotalAmount: 120000},
			{ID: uuid.New(), BatchID: batch.ID, Date: day(25), TotalWeightKg: 30, TotalAmount: 80000},
		},
		Mortality: []farm.Mortality{
			{ID: uuid.New(), BatchID: batch.ID, Date: day(10), Count: 25},
		},
	}

	svc := newService(t, state)

	got, err := svc.BatchSummary(batch.ID)
	require.NoError(t, err)

	assert.Equal(t, int64(200000), got.Revenue)
	assert.Equal(t, int64(100000), got.Expenses)
	assert.Equal(t, int64(100000), got.Profit)
	assert.InDelta(t, 80.0, got.TotalWeightKg, 0.001)
	assert.Equal(t, 25, got.TotalDeaths)
	assert.InDelta(t, 100.0, got.ROI, 0.001)
	assert.InDelta(t, 2500.0, got.AvgRatePerKg, 0.001)
	assert.InDelta(t, 200.0, got.ProfitPerBird, 0.001)
	assert.InDelta(t, 5.0, got.MortalityRate, 0.001)
}

func TestService_BatchSummary_ZeroGuards(t *testing.T) {
	batch := farm.Batch{ID: uuid.New(), Name: "Fresh"}

	svc := newService(t, farm.Snapshot{Batches: []farm.Batch{batch}})

	got, err := svc.BatchSummary(batch.ID)
	require.NoError(t, err)

	assert.Zero(t, got.ROI)
	assert.Zero(t, got.AvgRatePerKg)
	assert.Zero(t, got.ProfitPerBird)
	assert.Zero(t, got.MortalityRate)

	_, err = svc.BatchSummary(uuid.New())
	assert.ErrorIs(t, err, farm.ErrNotFound)
}

func TestService_BatchSummaries_ActiveFirst(t *testing.T) {
	closedOld := farm.Batch{ID: uuid.New(), Name: "Closed Old"}
	active := farm.Batch{ID: uuid.New(), Name: "Active", IsActive: true}
	closedNew := farm.Batch{ID: uuid.New(), Name: "Closed New"}

	svc := newService(t, farm.Snapshot{
		Batches: []farm.Batch{closedOld, active, closedNew},
	})

	got := svc.BatchSummaries()
	require.Len(t, got, 3)

	assert.Equal(t, "Active", got[0].Batch.Name)
	// Closed batches keep their store order.
	assert.Equal(t, "Closed Old", got[1].Batch.Name)
	assert.Equal(t, "Closed New", got[2].Batch.Name)
}

func TestService_CustomerAccounts(t *testing.T) {
	salim := farm.Customer{ID: uuid.New(), Name: "Salim"}
	rafiq := farm.Customer{ID: uuid.New(), Name: "Rafiq"}
	settled := farm.Customer{ID: uuid.New(), Name: "Anwar"}

	state := farm.Snapshot{
		Customers: []farm.Customer{salim, rafiq, settled},
		Sales: []farm.Sale{
			{ID: uuid.New(), CustomerID: salim.ID, Date: day(1), TotalAmount: 50000},
			{ID: uuid.New(), CustomerID: rafiq.ID, Date: day(1), TotalAmount: 90000},
			{ID: uuid.New(), CustomerID: settled.ID, Date: day(1), TotalAmount: 20000},
		},
		Payments: []farm.PaymentRecord{
			{ID: uuid.New(), CustomerID: salim.ID, Date: day(2), Amount: 10000},
			{ID: uuid.New(), CustomerID: settled.ID, Date: day(2), Amount: 30000},
		},
	}

	svc := newService(t, state)

	got := svc.CustomerAccounts()
	require.Len(t, got, 3)

	// Biggest debtor first; overpaid account floors at zero.
	assert.Equal(t, "Rafiq", got[0].Customer.Name)
	assert.Equal(t, int64(90000), got[0].Balance)
	assert.Equal(t, "Salim", got[1].Customer.Name)
	assert.Equal(t, int64(40000), got[1].Balance)
	assert.Equal(t, "Anwar", got[2].Customer.Name)
	assert.Equal(t, int64(0), got[2].Balance)

	assert.Equal(t, 2, got[1].EntryCount)
}
