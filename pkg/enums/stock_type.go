package enums

import "fmt"

// StockType tags a stock movement document as a receipt or a depletion.
type StockType string

const (
	StockTypeInStock    StockType = "in_stock"
	StockTypeOutOfStock StockType = "out_of_stock"
)

var validStockTypes = []StockType{
	StockTypeInStock,
	StockTypeOutOfStock,
}

var stockTypeLabels = map[StockType]string{
	StockTypeInStock:    "In Stock",
	StockTypeOutOfStock: "Out of Stock",
}

// String implements fmt.Stringer.
func (t StockType) String() string {
	return string(t)
}

// Label returns the human readable name of the stock type.
func (t StockType) Label() string {
	if label, ok := stockTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// IsValid reports whether the value is a known StockType.
func (t StockType) IsValid() bool {
	for _, candidate := range validStockTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseStockType converts raw input into a StockType.
func ParseStockType(value string) (StockType, error) {
	for _, candidate := range validStockTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stock type %q", value)
}
