package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is one line of a Stock document.
type StockItem struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	StockID   uuid.UUID       `gorm:"column:stock_id;type:uuid;not null;index" validate:"required"`
	ProductID uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index" validate:"required"`
	Quantity  int             `gorm:"column:quantity;not null" validate:"gte=0"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null" validate:"money"`
}

// TableName pins the table name used by migrations.
func (StockItem) TableName() string { return "stock_item" }

// LineTotal returns quantity × unit price.
func (i StockItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
