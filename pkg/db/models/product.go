package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog entry with its on-hand quantity.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name        string          `gorm:"column:name;size:255;not null;uniqueIndex:product_name_key" validate:"required,max=255"`
	BrandID     uuid.UUID       `gorm:"column:brand_id;type:uuid;not null;index" validate:"required"`
	Description string          `gorm:"column:description;type:text;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null" validate:"money,nonnegative"`
	Quantity    int             `gorm:"column:quantity;not null" validate:"gte=0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name used by migrations.
func (Product) TableName() string { return "product" }

func (p Product) String() string { return p.Name }
