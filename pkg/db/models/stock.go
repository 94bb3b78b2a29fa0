package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockledger-backend/pkg/enums"
)

// Stock is a stock movement document owning StockItem lines.
type Stock struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ReferenceNo string          `gorm:"column:reference_no;size:50;not null;uniqueIndex:stock_reference_no_key" validate:"required,max=50"`
	StockType   enums.StockType `gorm:"column:stock_type;size:20;not null" validate:"required,oneof=in_stock out_of_stock"`
	Date        time.Time       `gorm:"column:date;autoCreateTime;index"`
	Notes       *string         `gorm:"column:notes;type:text"`
	// TotalAmount is only written by total recomputation.
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null" validate:"money"`
}

// TableName pins the table name used by migrations.
func (Stock) TableName() string { return "stock" }

func (s Stock) String() string {
	return fmt.Sprintf("%s - %s", s.ReferenceNo, s.StockType.Label())
}
