// Package report renders an aggregated lookup result into the two user-facing
// contracts: a chat text report and a paginated PDF document. Formatting never
// fails; pathologically long values degrade through truncation.
package report

import "fmt"

// FormatMoney renders a ruble amount with the magnitude suffix users expect
// in chat, keeping at most one decimal place.
func FormatMoney(v float64) string {
	abs := v
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.1f млрд ₽", v/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1f млн ₽", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.0f тыс ₽", v/1_000)
	default:
		return fmt.Sprintf("%.0f ₽", v)
	}
}
