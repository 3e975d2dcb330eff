package farm

import "strings"

// NormalizeName produces the identity key for customer matching: trimmed and
// case-folded. "Salim" and "  salim " are the same customer.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// trimName is the display form stored on the customer record: trimmed but
// with the original casing kept.
func trimName(name string) string {
	return strings.TrimSpace(name)
}
