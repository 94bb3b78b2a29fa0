package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/stockledger-backend/pkg/enums"
)

func TestDisplayStrings(t *testing.T) {
	assert.Equal(t, "Acme", Brand{Name: "Acme"}.String())
	assert.Equal(t, "Widget", Product{Name: "Widget"}.String())
	assert.Equal(t, "R-1 - In Stock", Stock{ReferenceNo: "R-1", StockType: enums.StockTypeInStock}.String())
	assert.Equal(t, "R-2 - Out of Stock", Stock{ReferenceNo: "R-2", StockType: enums.StockTypeOutOfStock}.String())
	assert.Equal(t, "INV-9 - Wile E.", Sale{InvoiceNumber: "INV-9", CustomerName: "Wile E."}.String())
}

func TestLineTotal(t *testing.T) {
	stockLine := StockItem{Quantity: 3, UnitPrice: decimal.RequireFromString("2.50")}
	assert.Equal(t, "7.50", stockLine.LineTotal().StringFixed(2))

	saleLine := SaleItem{Quantity: -2, UnitPrice: decimal.RequireFromString("4.50")}
	assert.Equal(t, "-9.00", saleLine.LineTotal().StringFixed(2))
}

func TestAllListsParentsFirst(t *testing.T) {
	all := All()
	assert.Len(t, all, 6)
	assert.IsType(t, &Brand{}, all[0])
	assert.IsType(t, &SaleItem{}, all[5])
}
