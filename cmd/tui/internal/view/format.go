package view

import (
	"fmt"
	"time"
)

// FormatAmount formats an amount stored as paise into rupees.
func FormatAmount(paise int64) string {
	return fmt.Sprintf("₹%.2f", float64(paise)/100.0)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
