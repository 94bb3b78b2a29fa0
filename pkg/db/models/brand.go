package models

import (
	"time"

	"github.com/google/uuid"
)

// Brand groups products under a unique, title-cased display name.
type Brand struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;size:255;not null;uniqueIndex:brand_name_key" validate:"required,max=255"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name used by migrations.
func (Brand) TableName() string { return "brand" }

func (b Brand) String() string { return b.Name }
