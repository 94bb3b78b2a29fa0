package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleItem is one line of a Sale. Quantity is signed; see DESIGN.md.
type SaleItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SaleID    uuid.UUID       `gorm:"column:sale_id;type:uuid;not null;index" validate:"required"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index" validate:"required"`
	Quantity  int             `gorm:"column:quantity;not null"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" validate:"money"`
}

// TableName pins the table name used by migrations.
func (SaleItem) TableName() string { return "sale_item" }

// LineTotal returns quantity × unit price.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
