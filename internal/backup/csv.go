package backup

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	enc "github.com/nooranifarms/coopledger/internal/encoding"
	"github.com/nooranifarms/coopledger/internal/farm"
)

// The "universal backup" CSV flattens batches, expenses, sales, and mortality
// into one table keyed by a RecordType column. Expense payments, customers,
// and customer payments travel only in the JSON backup; on CSV import,
// customers are re-derived from sale rows and a sale's Paid column becomes an
// initial payment record.
var csvHeader = []string{
	"RecordType", "ID", "BatchID", "Date", "Name_Type",
	"Qty_Birds", "Weight_Rate", "TotalAmount", "Paid", "Notes_Supplier",
}

const (
	rowBatch     = "BATCH"
	rowExpense   = "EXPENSE"
	rowSale      = "SALE"
	rowMortality = "MORTALITY"
)

func (s *Service) ExportCSV(w io.Writer) error {
	state := s.store.Snapshot()

	cw := csv.NewWriter(w)

	rows := [][]string{csvHeader}

	for _, b := range state.Batches {
		rows = append(rows, []string{
			rowBatch, b.ID.String(), "", b.StartDate.Format(time.DateOnly), b.Name,
			strconv.Itoa(b.NumChicks), strconv.FormatInt(b.ChickRate, 10),
			strconv.FormatInt(b.TotalChickCost, 10), "0", b.Supplier,
		})
	}

	for _, e := range state.Expenses {
		rows = append(rows, []string{
			rowExpense, e.ID.String(), e.BatchID.String(), e.Date.Format(time.DateOnly), string(e.Category),
			"0", "0", strconv.FormatInt(e.Amount, 10), "0", e.Notes,
		})
	}

	for _, sale := range state.Sales {
		rows = append(rows, []string{
			rowSale, sale.ID.String(), sale.BatchID.String(), sale.Date.Format(time.DateOnly), sale.CustomerName,
			strconv.Itoa(sale.BirdsSold), strconv.FormatInt(sale.RatePerKg, 10),
			strconv.FormatInt(sale.TotalAmount, 10), strconv.FormatInt(sale.PaidAmount, 10), sale.InvoiceNo,
		})
	}

	for _, m := range state.Mortality {
		rows = append(rows, []string{
			rowMortality, m.ID.String(), m.BatchID.String(), m.Date.Format(time.DateOnly), "DEATH",
			strconv.Itoa(m.Count), "0", "0", "0", m.Reason,
		})
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}

	return nil
}

// ImportCSV merges a universal backup into the store. The input may be in any
// common charset; it is normalized to UTF-8 first. Every row is parsed and
// validated before the single merge mutation, so a malformed row rejects the
// whole file. Records whose id already exists are left alone.
func (s *Service) ImportCSV(r io.Reader) error {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return fmt.Errorf("detect encoding: %w", err)
	}

	cr := csv.NewReader(utf8r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rows, err := cr.ReadAll()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	if len(rows) < 2 {
		return fmt.Errorf("%w: no data rows", ErrInvalidBackup)
	}

	staged, err := parseRows(rows[1:])
	if err != nil {
		return err
	}

	s.store.Mutate(func(state *farm.Snapshot) {
		staged.mergeInto(state)
	})

	return nil
}

type stagedImport struct {
	batches   []farm.Batch
	expenses  []farm.Expense
	sales     []stagedSale
	mortality []farm.Mortality
}

type stagedSale struct {
	sale farm.Sale
	paid int64
}

func parseRows(rows [][]string) (*stagedImport, error) {
	staged := &stagedImport{}

	for i, row := range rows {
		line := i + 2 // header is line 1

		if len(row) == 0 || (len(row) == 1 && row[0] == "") {
			continue
		}

		if len(row) < len(csvHeader) {
			return nil, fmt.Errorf("%w: line %d has %d fields, want %d", ErrInvalidBackup, line, len(row), len(csvHeader))
		}

		p := rowParser{row: row, line: line}

		switch row[0] {
		case rowBatch:
			staged.batches = append(staged.batches, farm.Batch{
				ID:              p.id(1),
				Name:            row[4],
				StartDate:       p.date(3),
				ExpectedEndDate: p.date(3),
				NumChicks:       p.count(5),
				ChickRate:       p.amount(6),
				TotalChickCost:  p.amount(7),
				Supplier:        row[9],
				IsActive:        true,
			})
		case rowExpense:
			category := farm.ExpenseCategory(row[4])
			if !category.Valid() {
				return nil, fmt.Errorf("%w: line %d: unknown expense category %q", ErrInvalidBackup, line, row[4])
			}

			staged.expenses = append(staged.expenses, farm.Expense{
				ID:       p.id(1),
				BatchID:  p.id(2),
				Date:     p.date(3),
				Category: category,
				Amount:   p.amount(7),
				Notes:    row[9],
			})
		case rowSale:
			staged.sales = append(staged.sales, stagedSale{
				sale: farm.Sale{
					ID:           p.id(1),
					InvoiceNo:    row[9],
					BatchID:      p.id(2),
					CustomerName: row[4],
					Date:         p.date(3),
					BirdsSold:    p.count(5),
					RatePerKg:    p.amount(6),
					TotalAmount:  p.amount(7),
					PaidAmount:   p.amount(8),
				},
				paid: p.amount(8),
			})
		case rowMortality:
			staged.mortality = append(staged.mortality, farm.Mortality{
				ID:      p.id(1),
				BatchID: p.id(2),
				Date:    p.date(3),
				Count:   p.count(5),
				Reason:  row[9],
			})
		default:
			return nil, fmt.Errorf("%w: line %d: unknown record type %q", ErrInvalidBackup, line, row[0])
		}

		if p.err != nil {
			return nil, p.err
		}
	}

	return staged, nil
}

// rowParser accumulates the first parse failure instead of forcing a check
// after every field.
type rowParser struct {
	row  []string
	line int
	err  error
}

func (p *rowParser) id(col int) uuid.UUID {
	v, err := uuid.Parse(p.row[col])
	p.fail(col, err)

	return v
}

func (p *rowParser) date(col int) time.Time {
	v, err := time.Parse(time.DateOnly, p.row[col])
	p.fail(col, err)

	return v
}

func (p *rowParser) count(col int) int {
	v, err := strconv.Atoi(p.row[col])
	p.fail(col, err)

	return v
}

func (p *rowParser) amount(col int) int64 {
	v, err := strconv.ParseInt(p.row[col], 10, 64)
	p.fail(col, err)

	return v
}

func (p *rowParser) fail(col int, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%w: line %d, column %q: %v", ErrInvalidBackup, p.line, csvHeader[col], err)
	}
}

func (si *stagedImport) mergeInto(state *farm.Snapshot) {
	for _, b := range si.batches {
		if _, exists := state.Batch(b.ID); !exists {
			state.PutBatch(b)
		}
	}

	for _, e := range si.expenses {
		if _, exists := state.Expense(e.ID); !exists {
			state.PutExpense(e)
		}
	}

	for _, m := range si.mortality {
		if exists := hasMortality(state, m.ID); !exists {
			state.PutMortality(m)
		}
	}

	for _, ss := range si.sales {
		if _, exists := state.Sale(ss.sale.ID); exists {
			continue
		}

		sale := ss.sale

		customer, ok := state.CustomerByName(sale.CustomerName)
		if !ok {
			customer = farm.Customer{ID: uuid.New(), Name: sale.CustomerName}
			state.PutCustomer(customer)
		}

		sale.CustomerID = customer.ID
		sale.CustomerName = customer.Name
		state.PutSale(sale)

		if ss.paid > 0 {
			saleID := sale.ID
			state.PutPayment(farm.PaymentRecord{
				ID:         uuid.New(),
				CustomerID: customer.ID,
				SaleID:     &saleID,
				Date:       sale.Date,
				Amount:     ss.paid,
				Notes:      "Initial payment for " + sale.InvoiceNo,
			})
		}
	}
}

func hasMortality(state *farm.Snapshot, id uuid.UUID) bool {
	for _, m := range state.Mortality {
		if m.ID == id {
			return true
		}
	}

	return false
}
