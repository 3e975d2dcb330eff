package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nooranifarms/coopledger/internal/farm"
)

const currencySymbol = "₹"

// InvoiceText renders a plain-text bill for one sale, suitable for printing
// or pasting into a chat message. Received/balance reflect only the payments
// matched to this invoice, not the customer's whole pool.
func (s *Service) InvoiceText(saleID uuid.UUID) (string, error) {
	state := s.src.Snapshot()

	sale, ok := state.Sale(saleID)
	if !ok {
		return "", farm.ErrNotFound
	}

	var received int64
	for _, p := range invoicePayments(state, sale) {
		received += p.Amount
	}

	balance := max(0, sale.TotalAmount-received)

	var sb strings.Builder

	divider := strings.Repeat("-", 28) + "\n"

	sb.WriteString("*NOORANI POULTRY FARM*\n")
	sb.WriteString(divider)
	sb.WriteString(fmt.Sprintf("*Bill To:* %s\n", sale.CustomerName))
	sb.WriteString(fmt.Sprintf("*Bill No:* %s\n", sale.InvoiceNo))
	sb.WriteString(fmt.Sprintf("*Date:* %s\n", sale.Date.Format(time.DateOnly)))
	sb.WriteString(divider)
	sb.WriteString(fmt.Sprintf("*Birds:* %d\n", sale.BirdsSold))
	sb.WriteString(fmt.Sprintf("*Weight:* %.1f kg\n", sale.TotalWeightKg))
	sb.WriteString(fmt.Sprintf("*Rate:* %s%s\n", currencySymbol, formatAmount(sale.RatePerKg)))
	sb.WriteString(fmt.Sprintf("*Total:* %s%s\n", currencySymbol, formatAmount(sale.TotalAmount)))
	sb.WriteString(divider)
	sb.WriteString(fmt.Sprintf("*Received:* %s%s\n", currencySymbol, formatAmount(received)))
	sb.WriteString(fmt.Sprintf("*Balance:* %s%s\n", currencySymbol, formatAmount(balance)))
	sb.WriteString(divider)
	sb.WriteString("_Thank you for your business!_")

	return sb.String(), nil
}

func formatAmount(paise int64) string {
	return fmt.Sprintf("%.2f", float64(paise)/100.0)
}
