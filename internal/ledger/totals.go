package ledger

import (
	"github.com/shopspring/decimal"
)

// Line is anything contributing quantity × unit price to a document total.
type Line interface {
	LineTotal() decimal.Decimal
}

// SumLines adds every line total exactly. An empty slice sums to zero.
func SumLines[L Line](lines []L) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal())
	}
	return total
}
