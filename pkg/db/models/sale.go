package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is a sales transaction document owning SaleItem lines.
type Sale struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	InvoiceNumber string    `gorm:"column:invoice_number;size:50;not null;uniqueIndex:sale_invoice_number_key" validate:"required,max=50"`
	CustomerName  string    `gorm:"column:customer_name;size:100;not null" validate:"max=100"`
	Date          time.Time `gorm:"column:date;autoCreateTime;index"`
	// TotalAmount is only written by total recomputation.
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null" validate:"money"`
	Notes       string          `gorm:"column:notes;type:text;not null"`
}

// TableName pins the table name used by migrations.
func (Sale) TableName() string { return "sale" }

func (s Sale) String() string {
	return fmt.Sprintf("%s - %s", s.InvoiceNumber, s.CustomerName)
}
