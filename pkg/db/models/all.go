package models

// All lists every ledger model in dependency order, parents first.
func All() []any {
	return []any{
		&Brand{},
		&Product{},
		&Stock{},
		&StockItem{},
		&Sale{},
		&SaleItem{},
	}
}
